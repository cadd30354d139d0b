package filter

import (
	"strings"

	"husky/internal/domain"
)

// Property names understood by conditions
const (
	PropertyFullyQualifiedName = "FullyQualifiedName"
	PropertyName               = "Name"
	PropertyClassName          = "ClassName"
	PropertyTestCategory       = "TestCategory"
	PropertyCategory           = "Category"
)

type operator string

const (
	opEqual       operator = "="
	opNotEqual    operator = "!="
	opContains    operator = "~"
	opNotContains operator = "!~"
)

type node interface {
	match(tc domain.TestCase) bool
}

type orNode struct{ children []node }

type andNode struct{ children []node }

type notNode struct{ child node }

type condition struct {
	property string
	op       operator
	value    string
}

func (n orNode) match(tc domain.TestCase) bool {
	for _, c := range n.children {
		if c.match(tc) {
			return true
		}
	}
	return false
}

func (n andNode) match(tc domain.TestCase) bool {
	for _, c := range n.children {
		if !c.match(tc) {
			return false
		}
	}
	return true
}

func (n notNode) match(tc domain.TestCase) bool {
	return !n.child.match(tc)
}

func (c condition) match(tc domain.TestCase) bool {
	values := c.values(tc)
	switch c.op {
	case opEqual:
		return anyValue(values, func(v string) bool { return strings.EqualFold(v, c.value) })
	case opNotEqual:
		return !anyValue(values, func(v string) bool { return strings.EqualFold(v, c.value) })
	case opContains:
		return anyValue(values, func(v string) bool { return containsFold(v, c.value) })
	case opNotContains:
		return !anyValue(values, func(v string) bool { return containsFold(v, c.value) })
	}
	return false
}

func (c condition) values(tc domain.TestCase) []string {
	switch {
	case strings.EqualFold(c.property, PropertyFullyQualifiedName):
		return []string{tc.FullyQualifiedName}
	case strings.EqualFold(c.property, PropertyName):
		return []string{tc.Name}
	case strings.EqualFold(c.property, PropertyClassName):
		return []string{tc.ClassName}
	case strings.EqualFold(c.property, PropertyTestCategory), strings.EqualFold(c.property, PropertyCategory):
		return tc.Categories
	}
	if v, ok := tc.Trait(c.property); ok {
		return []string{v}
	}
	return nil
}

func anyValue(values []string, pred func(string) bool) bool {
	for _, v := range values {
		if pred(v) {
			return true
		}
	}
	return false
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

const (
	precOr = iota
	precAnd
	precNot
)

func render(n node, parent int) string {
	switch n := n.(type) {
	case orNode:
		parts := make([]string, len(n.children))
		for i, c := range n.children {
			parts[i] = render(c, precOr)
		}
		s := strings.Join(parts, "|")
		if parent > precOr {
			return "(" + s + ")"
		}
		return s
	case andNode:
		parts := make([]string, len(n.children))
		for i, c := range n.children {
			parts[i] = render(c, precAnd)
		}
		s := strings.Join(parts, "&")
		if parent > precAnd {
			return "(" + s + ")"
		}
		return s
	case notNode:
		return "!(" + render(n.child, precOr) + ")"
	case condition:
		return n.property + string(n.op) + escapeValue(n.value)
	}
	return ""
}

const specialChars = `\|&()`

func escapeValue(v string) string {
	if !strings.ContainsAny(v, specialChars) {
		return v
	}
	var b strings.Builder
	for _, r := range v {
		if strings.ContainsRune(specialChars, r) {
			b.WriteRune('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
