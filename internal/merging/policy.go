package merging

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/nmrenyi/rosenwald-benchmark/internal/identifier"
)

// HeaderCheck selects what happens when the two halves disagree on their header line.
type HeaderCheck string

const (
	// HeaderCheckOff merges without comparing headers.
	HeaderCheckOff HeaderCheck = "off"
	// HeaderCheckWarn merges and flags the result.
	HeaderCheckWarn HeaderCheck = "warn"
	// HeaderCheckStrict refuses to merge.
	HeaderCheckStrict HeaderCheck = "strict"
)

// Policy controls how a pair is ordered and concatenated.
type Policy struct {
	// PrefixLength is needed to locate the part marker after the identifier.
	PrefixLength int
	// VerifyParts requires the halves to carry -1 and -2 markers and orders them by marker.
	// When false the lexically smaller path is trusted to be the first half.
	VerifyParts bool
	// DropSecondaryHeader drops the first line of every file after the first.
	DropSecondaryHeader bool
	HeaderCheck         HeaderCheck
	// Atomic writes to a temporary file and renames it over the target on success.
	Atomic bool
}

// DefaultPolicy returns the policy used when nothing is configured.
func DefaultPolicy() Policy {
	return Policy{
		PrefixLength:        identifier.DefaultPrefixLength,
		VerifyParts:         true,
		DropSecondaryHeader: true,
		HeaderCheck:         HeaderCheckWarn,
		Atomic:              true,
	}
}

// Order returns the pair as (primary, secondary).
func (p Policy) Order(id string, files []string) (string, string, error) {
	if len(files) != 2 {
		return "", "", &CardinalityError{Identifier: id, Count: len(files)}
	}
	if !p.VerifyParts {
		sorted := append([]string(nil), files...)
		sort.Strings(sorted)
		return sorted[0], sorted[1], nil
	}

	byPart := make(map[int]string, 2)
	parts := make([]int, 0, 2)
	for _, f := range files {
		n, ok := identifier.Part(filepath.Base(f), p.PrefixLength)
		if !ok {
			return "", "", &OrderError{Identifier: id, Message: fmt.Sprintf("no part marker in %s", filepath.Base(f))}
		}
		parts = append(parts, n)
		byPart[n] = f
	}
	primary, ok1 := byPart[1]
	secondary, ok2 := byPart[2]
	if !ok1 || !ok2 {
		sort.Ints(parts)
		return "", "", &OrderError{Identifier: id, Message: fmt.Sprintf("expected parts 1 and 2, found %v", parts)}
	}
	return primary, secondary, nil
}
