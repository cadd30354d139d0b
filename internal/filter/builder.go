package filter

import (
	"fmt"

	"husky/internal/domain"
)

// Builder converts discovered test cases and caller expressions into filters
type Builder struct{}

// NewBuilder creates a new Builder
func NewBuilder() *Builder {
	return &Builder{}
}

// FilterByList returns a filter selecting exactly the given cases by fully
// qualified name. An empty list yields NoTestsFound.
func (b *Builder) FilterByList(cases []domain.TestCase) *Filter {
	if len(cases) == 0 {
		return NoTestsFound
	}
	children := make([]node, 0, len(cases))
	for _, tc := range cases {
		children = append(children, condition{
			property: PropertyFullyQualifiedName,
			op:       opEqual,
			value:    tc.FullyQualifiedName,
		})
	}
	if len(children) == 1 {
		return newConcrete(children[0])
	}
	return newConcrete(orNode{children: children})
}

// ConvertExternal parses the caller expression straight into a native filter
func (b *Builder) ConvertExternal(ext *External) (*Filter, error) {
	if ext.IsEmpty() {
		return Empty, nil
	}
	f, err := Parse(ext.Expression)
	if err != nil {
		return nil, fmt.Errorf("convert external filter: %w", err)
	}
	return f, nil
}

// ConvertExternalAgainst evaluates the caller expression against the loaded
// cases and returns a list filter of the matches, or NoTestsFound.
func (b *Builder) ConvertExternalAgainst(ext *External, loaded []domain.TestCase) (*Filter, error) {
	if ext.IsEmpty() {
		return Empty, nil
	}
	f, err := Parse(ext.Expression)
	if err != nil {
		return nil, fmt.Errorf("convert external filter: %w", err)
	}
	return b.FilterByList(f.Select(loaded)), nil
}
