package merging

import (
	"bufio"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

type writeFunc func(w io.Writer) (int, error)

func writeOverwrite(dest string, bufSize int, fn writeFunc) (int, error) {
	f, err := os.OpenFile(dest, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, defaultPermFile)
	if err != nil {
		return 0, &IOError{Op: "create", Path: dest, Cause: err}
	}
	defer f.Close()

	bw := bufio.NewWriterSize(f, bufSize)
	n, err := fn(bw)
	if err != nil {
		return 0, wrapWrite(dest, err)
	}
	if err := bw.Flush(); err != nil {
		return 0, &IOError{Op: "write", Path: dest, Cause: err}
	}
	if err := f.Close(); err != nil {
		return 0, &IOError{Op: "close", Path: dest, Cause: err}
	}
	return n, nil
}

// writeAtomic writes into a temporary file beside dest and renames it into
// place only when everything has been flushed and synced. The temporary file
// is created with defaultPermFile so the process umask applies as it would
// for a plain create.
func writeAtomic(dest string, bufSize int, fn writeFunc) (int, error) {
	tmpPath := tempPath(dest)
	tmp, err := os.OpenFile(tmpPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, defaultPermFile)
	if err != nil {
		return 0, &IOError{Op: "create", Path: dest, Cause: err}
	}

	fail := func(err error) (int, error) {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return 0, err
	}

	bw := bufio.NewWriterSize(tmp, bufSize)
	n, err := fn(bw)
	if err != nil {
		return fail(wrapWrite(dest, err))
	}
	if err := bw.Flush(); err != nil {
		return fail(&IOError{Op: "write", Path: dest, Cause: err})
	}
	if err := tmp.Sync(); err != nil {
		return fail(&IOError{Op: "sync", Path: dest, Cause: err})
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return 0, &IOError{Op: "close", Path: dest, Cause: err}
	}
	if err := os.Rename(tmpPath, dest); err != nil {
		_ = os.Remove(tmpPath)
		return 0, &IOError{Op: "rename", Path: dest, Cause: err}
	}
	return n, nil
}

func tempPath(dest string) string {
	return filepath.Join(filepath.Dir(dest), ".tmp-"+filepath.Base(dest)+"-"+uuid.NewString())
}

// wrapWrite leaves typed read/encoding errors alone and tags anything else as a write failure.
func wrapWrite(dest string, err error) error {
	switch err.(type) {
	case *IOError, *EncodingError:
		return err
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return &IOError{Op: "write", Path: dest, Cause: err}
}
