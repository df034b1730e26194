// Package tree renders a jsonvalue.Value as a collapsible tree with
// per-position expansion state.
package tree

import (
	"strconv"

	"github.com/obegron/ipscope/internal/jsonvalue"
)

// DefaultExpandDepth is the first depth whose containers start collapsed.
const DefaultExpandDepth = 2

// Path identifies a node by its position from the root. Two nodes never
// share a Path, even when their values are equal.
type Path string

// RootPath is the path of the rendered value itself.
const RootPath Path = "$"

// Index returns the path of the i-th element below p.
func (p Path) Index(i int) Path {
	return p + "[" + Path(strconv.Itoa(i)) + "]"
}

// Key returns the path of the member named key below p.
func (p Path) Key(key string) Path {
	return p + "." + Path(jsonvalue.Quote(key))
}

// DefaultExpanded reports whether a container at depth starts expanded.
func DefaultExpanded(depth int) bool {
	return depth < DefaultExpandDepth
}

// State holds expansion flags keyed by Path. A flag is created from
// DefaultExpanded the first time its node is visited.
type State struct {
	expanded map[Path]bool
}

func NewState() *State {
	return &State{expanded: make(map[Path]bool)}
}

// IsExpanded returns the flag for p, initializing it on first visit.
func (s *State) IsExpanded(p Path, depth int) bool {
	e, ok := s.expanded[p]
	if !ok {
		e = DefaultExpanded(depth)
		s.expanded[p] = e
	}
	return e
}

// Toggle flips the flag for p and returns the new value.
func (s *State) Toggle(p Path, depth int) bool {
	e := !s.IsExpanded(p, depth)
	s.expanded[p] = e
	return e
}

func (s *State) Set(p Path, expanded bool) {
	s.expanded[p] = expanded
}

// Visited reports whether p has been initialized.
func (s *State) Visited(p Path) bool {
	_, ok := s.expanded[p]
	return ok
}

func (s *State) Reset() {
	s.expanded = make(map[Path]bool)
}

// LabelKind says how a row is labelled by its parent.
type LabelKind uint8

const (
	LabelNone LabelKind = iota
	LabelIndex
	LabelKey
)

// Row is one visible line of the tree.
type Row struct {
	Path      Path
	Depth     int
	Label     string
	LabelKind LabelKind
	Value     jsonvalue.Value
	// Toggle is set for non-empty arrays and objects.
	Toggle    bool
	Expanded  bool
	Truncated bool
}

// Flatten lists the rows currently visible for v.
func (s *State) Flatten(v jsonvalue.Value) []Row {
	var rows []Row
	s.walk(v, RootPath, 0, "", LabelNone, &rows)
	return rows
}

func (s *State) walk(v jsonvalue.Value, p Path, depth int, label string, lk LabelKind, rows *[]Row) {
	row := Row{Path: p, Depth: depth, Label: label, LabelKind: lk, Value: v}

	if depth > jsonvalue.MaxDepth {
		row.Truncated = true
		*rows = append(*rows, row)
		return
	}

	if !v.IsScalar() && v.Len() > 0 {
		row.Toggle = true
		row.Expanded = s.IsExpanded(p, depth)
	}
	*rows = append(*rows, row)

	if !row.Expanded {
		return
	}

	switch v.Kind() {
	case jsonvalue.Array:
		for i, item := range v.Items() {
			s.walk(item, p.Index(i), depth+1, strconv.Itoa(i), LabelIndex, rows)
		}
	case jsonvalue.Object:
		for _, m := range v.Members() {
			s.walk(m.Value, p.Key(m.Key), depth+1, m.Key, LabelKey, rows)
		}
	}
}

// SetAll expands or collapses every container in v.
func (s *State) SetAll(v jsonvalue.Value, expanded bool) {
	s.setAll(v, RootPath, 0, expanded)
}

func (s *State) setAll(v jsonvalue.Value, p Path, depth int, expanded bool) {
	if v.IsScalar() || v.Len() == 0 || depth > jsonvalue.MaxDepth {
		return
	}
	s.expanded[p] = expanded
	switch v.Kind() {
	case jsonvalue.Array:
		for i, item := range v.Items() {
			s.setAll(item, p.Index(i), depth+1, expanded)
		}
	case jsonvalue.Object:
		for _, m := range v.Members() {
			s.setAll(m.Value, p.Key(m.Key), depth+1, expanded)
		}
	}
}
