// Package filter holds the canonical test selection filter, the parser for
// caller-supplied filter expressions and the Builder that turns discovered
// test cases and caller expressions into a Filter.
package filter

import "husky/internal/domain"

// Filter is a predicate over test cases.
//
// A Filter is exactly one of: Empty (run everything), NoTestsFound (run
// nothing) or a concrete expression. The two sentinels are singletons and are
// only ever equal to themselves.
type Filter struct {
	sentinel string
	root     node
}

var (
	// Empty selects every test case
	Empty = &Filter{sentinel: "<empty>"}
	// NoTestsFound selects nothing; runs using it are skipped
	NoTestsFound = &Filter{sentinel: "<no tests found>"}
)

func newConcrete(root node) *Filter {
	return &Filter{root: root}
}

// IsEmpty reports whether f is the Empty sentinel
func (f *Filter) IsEmpty() bool {
	return f == Empty
}

// IsNoTestsFound reports whether f is the NoTestsFound sentinel
func (f *Filter) IsNoTestsFound() bool {
	return f == NoTestsFound
}

// Match reports whether tc is selected by f
func (f *Filter) Match(tc domain.TestCase) bool {
	switch f {
	case Empty:
		return true
	case NoTestsFound:
		return false
	}
	return f.root.match(tc)
}

// Select returns the cases matched by f, preserving order
func (f *Filter) Select(cases []domain.TestCase) []domain.TestCase {
	if f == Empty {
		return cases
	}
	var selected []domain.TestCase
	for _, tc := range cases {
		if f.Match(tc) {
			selected = append(selected, tc)
		}
	}
	return selected
}

// String renders the canonical expression of f
func (f *Filter) String() string {
	if f.sentinel != "" {
		return f.sentinel
	}
	return render(f.root, precOr)
}

// Equal reports whether a and b are the same filter. Sentinels compare by
// identity, concrete filters by their canonical expression.
func Equal(a, b *Filter) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil || a.sentinel != "" || b.sentinel != "" {
		return false
	}
	return a.String() == b.String()
}
