package filter

import (
	"fmt"
	"strings"
)

// External is a filter expression supplied by the caller (for example from
// the command line or a CI test runner).
type External struct {
	Expression string
}

// NewExternal returns nil for a blank expression
func NewExternal(expression string) *External {
	if strings.TrimSpace(expression) == "" {
		return nil
	}
	return &External{Expression: expression}
}

// IsEmpty reports whether there is no caller restriction. Safe on nil.
func (e *External) IsEmpty() bool {
	return e == nil || strings.TrimSpace(e.Expression) == ""
}

// ClauseCount is the number of pieces the raw expression splits into on '|' and '&'
func (e *External) ClauseCount() int {
	if e == nil {
		return 0
	}
	return strings.Count(e.Expression, "|") + strings.Count(e.Expression, "&") + 1
}

// String describes the external filter for logs and dumps
func (e *External) String() string {
	if e.IsEmpty() {
		return "<none>"
	}
	return fmt.Sprintf("%s (length %d, %d clauses)", e.Expression, len(e.Expression), e.ClauseCount())
}
