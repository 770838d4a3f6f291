// Package types provides type definitions for structured data used throughout the rosenwald-benchmark merger.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "sort"

// PairSize is the number of files a complete group holds.
const PairSize = 2

// Group is the set of files sharing one year-page identifier, in discovery order.
type Group struct {
	Identifier string   `json:"identifier"`
	Files      []string `json:"files"`
}

// Complete reports whether the group holds exactly one pair of halves.
func (g Group) Complete() bool {
	return len(g.Files) == PairSize
}

// Groups buckets file paths by identifier. Every matched file appears in exactly one bucket.
type Groups struct {
	buckets map[string][]string
}

// NewGroups returns an empty Groups.
func NewGroups() *Groups {
	return &Groups{buckets: make(map[string][]string)}
}

// Add appends path to the bucket for identifier, preserving insertion order.
func (g *Groups) Add(identifier, path string) {
	g.buckets[identifier] = append(g.buckets[identifier], path)
}

// Len returns the number of distinct identifiers.
func (g *Groups) Len() int {
	return len(g.buckets)
}

// Files returns the files recorded for identifier.
func (g *Groups) Files(identifier string) []string {
	return g.buckets[identifier]
}

// Identifiers returns all identifiers sorted lexically, which is also
// chronological for four-digit years.
func (g *Groups) Identifiers() []string {
	ids := make([]string, 0, len(g.buckets))
	for id := range g.buckets {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Sorted returns every group in identifier order.
func (g *Groups) Sorted() []Group {
	ids := g.Identifiers()
	out := make([]Group, 0, len(ids))
	for _, id := range ids {
		files := make([]string, len(g.buckets[id]))
		copy(files, g.buckets[id])
		out = append(out, Group{Identifier: id, Files: files})
	}
	return out
}
