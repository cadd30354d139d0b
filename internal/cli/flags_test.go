package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitArgs(t *testing.T) {
	tests := []struct {
		name       string
		args       []string
		dash       int
		positional []string
		settings   []string
	}{
		{"no dash", []string{"tests"}, -1, []string{"tests"}, nil},
		{"dash after path", []string{"tests", "Husky.DesignMode=true"}, 1, []string{"tests"}, []string{"Husky.DesignMode=true"}},
		{"dash only", []string{"Husky.NumberOfTestWorkers=2"}, 0, []string{}, []string{"Husky.NumberOfTestWorkers=2"}},
		{"out of range", []string{"tests"}, 5, []string{"tests"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			positional, settings := SplitArgs(tt.args, tt.dash)
			assert.Equal(t, tt.positional, positional)
			assert.Equal(t, tt.settings, settings)
		})
	}
}

func TestFlags_ToConfigFlags(t *testing.T) {
	f := &Flags{Processors: 8, Filter: "Category=fast", NameFilter: "*User*", FailFast: true}

	cf := f.ToConfigFlags([]string{"tests/Unit", "Husky.TestOutputXml=/out"}, 1)
	assert.Equal(t, 8, cf.Processors)
	assert.Equal(t, "Category=fast", cf.Filter)
	assert.Equal(t, "*User*", cf.NameFilter)
	assert.True(t, cf.FailFast)
	assert.Equal(t, "tests/Unit", cf.TestPath)
	assert.Equal(t, []string{"Husky.TestOutputXml=/out"}, cf.RunSettings)

	assert.Empty(t, f.ToConfigFlags(nil, -1).TestPath)
}
