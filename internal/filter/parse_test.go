package filter

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Blank(t *testing.T) {
	f, err := Parse("   ")
	require.NoError(t, err)
	assert.Same(t, Empty, f)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		expr string
	}{
		{"missing value", "Name="},
		{"missing property", "=value"},
		{"dangling or", "Name=a|"},
		{"unclosed group", "(Name=a"},
		{"stray close", "Name=a)"},
		{"empty group", "()"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.expr)
			require.Error(t, err)

			var syntaxErr *SyntaxError
			assert.True(t, errors.As(err, &syntaxErr))
			assert.Equal(t, tt.expr, syntaxErr.Expression)
		})
	}
}

func TestParse_Canonical(t *testing.T) {
	f, err := Parse(" Name = a |  Name=b ")
	require.NoError(t, err)
	assert.Equal(t, "Name=a|Name=b", f.String())
}
