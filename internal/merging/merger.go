package merging

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/nmrenyi/rosenwald-benchmark/internal/types"
)

const (
	defaultBufSize  = 64 * 1024
	maxLineSize     = 64 * 1024 * 1024
	defaultPermFile = 0o644
)

// OutputExt is appended to the identifier to name the merged file.
const OutputExt = ".tsv"

// Merger writes one output file per complete pair.
type Merger struct {
	policy  Policy
	bufSize int
}

// New creates a Merger with the given policy.
func New(policy Policy) *Merger {
	if policy.HeaderCheck == "" {
		policy.HeaderCheck = HeaderCheckOff
	}
	return &Merger{policy: policy, bufSize: defaultBufSize}
}

// OutputPath returns where the merged file for id is written.
func OutputPath(outputDir, id string) string {
	return filepath.Join(outputDir, id+OutputExt)
}

// Merge writes the primary half verbatim followed by the secondary half
// (without its header line when the policy drops it) to outputDir/<id>.tsv
// and returns the number of lines written.
func (m *Merger) Merge(ctx context.Context, id string, files []string, outputDir string) (*types.MergeResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	primaryPath, secondaryPath, err := m.policy.Order(id, files)
	if err != nil {
		return nil, err
	}

	primary, err := openSource(primaryPath, m.bufSize)
	if err != nil {
		return nil, err
	}
	defer primary.Close()

	secondary, err := openSource(secondaryPath, m.bufSize)
	if err != nil {
		return nil, err
	}
	defer secondary.Close()

	result := &types.MergeResult{
		Identifier: id,
		OutputPath: OutputPath(outputDir, id),
		Primary:    primaryPath,
		Secondary:  secondaryPath,
	}

	if m.policy.HeaderCheck != HeaderCheckOff && secondary.header != "" {
		ph, sh := trimEOL(primary.header), trimEOL(secondary.header)
		if ph != sh {
			if m.policy.HeaderCheck == HeaderCheckStrict {
				return nil, &HeaderMismatchError{Identifier: id, Primary: ph, Secondary: sh}
			}
			result.HeaderMismatch = true
		}
	}

	write := func(w io.Writer) (int, error) {
		lw := &lineWriter{w: w}
		if err := primary.copyTo(ctx, lw, false); err != nil {
			return lw.count, err
		}
		if err := secondary.copyTo(ctx, lw, m.policy.DropSecondaryHeader); err != nil {
			return lw.count, err
		}
		return lw.count, nil
	}

	var lines int
	if m.policy.Atomic {
		lines, err = writeAtomic(result.OutputPath, m.bufSize, write)
	} else {
		lines, err = writeOverwrite(result.OutputPath, m.bufSize, write)
	}
	if err != nil {
		return nil, err
	}
	result.Lines = lines
	return result, nil
}

// source is an open input with its first line already consumed.
type source struct {
	path   string
	f      *os.File
	sc     *bufio.Scanner
	header string
	lineNo int
}

func openSource(path string, bufSize int) (*source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &IOError{Op: "open", Path: path, Cause: err}
	}
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, bufSize), maxLineSize)
	sc.Split(scanLines)
	s := &source{path: path, f: f, sc: sc}
	header, err := s.next()
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	s.header = header
	return s, nil
}

// next returns the next line including its terminator, or "" at EOF.
func (s *source) next() (string, error) {
	if !s.sc.Scan() {
		if err := s.sc.Err(); err != nil {
			return "", &IOError{Op: "read", Path: s.path, Cause: err}
		}
		return "", nil
	}
	line := s.sc.Text()
	s.lineNo++
	if !utf8.ValidString(line) {
		return "", &EncodingError{Path: s.path, Line: s.lineNo}
	}
	return line, nil
}

func (s *source) copyTo(ctx context.Context, lw *lineWriter, dropHeader bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !dropHeader {
		if err := lw.writeLine(s.header); err != nil {
			return err
		}
	}
	for {
		line, err := s.next()
		if err != nil {
			return err
		}
		if line == "" {
			return nil
		}
		if err := lw.writeLine(line); err != nil {
			return err
		}
	}
}

// scanLines is a bufio.SplitFunc that ends lines at "\n", "\r\n" or a lone
// "\r" and keeps the terminator in the token.
func scanLines(data []byte, atEOF bool) (advance int, token []byte, err error) {
	i := bytes.IndexAny(data, "\r\n")
	if i < 0 {
		if atEOF && len(data) > 0 {
			return len(data), data, nil
		}
		return 0, nil, nil
	}
	if data[i] == '\n' {
		return i + 1, data[:i+1], nil
	}
	if i+1 < len(data) {
		if data[i+1] == '\n' {
			return i + 2, data[:i+2], nil
		}
		return i + 1, data[:i+1], nil
	}
	if atEOF {
		return i + 1, data[:i+1], nil
	}
	// A trailing "\r" may be the first half of "\r\n".
	return 0, nil, nil
}

func (s *source) Close() error {
	return s.f.Close()
}

// lineWriter counts lines and keeps an unterminated last line of one
// input from fusing with the first line of the next.
type lineWriter struct {
	w       io.Writer
	count   int
	pending bool
}

func (lw *lineWriter) writeLine(line string) error {
	if line == "" {
		return nil
	}
	if lw.pending {
		if _, err := io.WriteString(lw.w, "\n"); err != nil {
			return err
		}
	}
	if _, err := io.WriteString(lw.w, line); err != nil {
		return err
	}
	lw.count++
	lw.pending = !strings.HasSuffix(line, "\n") && !strings.HasSuffix(line, "\r")
	return nil
}

func trimEOL(s string) string {
	return strings.TrimRight(s, "\r\n")
}
