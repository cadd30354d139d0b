// Package artifact reads and writes the structured XML result file exchanged
// between a containerized test run and the host. The format follows the
// NUnit 3 result schema: a test-run element containing test-suite and
// test-case elements.
package artifact

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/antchfx/xmlquery"

	"husky/internal/domain"
)

// ErrNotXMLDocument is returned for a blank result artifact
var ErrNotXMLDocument = errors.New("result artifact is empty")

const timeLayout = "2006-01-02 15:04:05.000000Z"

// ParseFile parses the result file at path
func ParseFile(path string) ([]domain.TestEvent, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open result file: %w", err)
	}
	defer f.Close()

	events, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return events, nil
}

// Parse returns one event per test-case element, in document order
func Parse(r io.Reader) ([]domain.TestEvent, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read result document: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrNotXMLDocument
	}

	doc, err := xmlquery.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse result document: %w", err)
	}

	nodes, err := xmlquery.QueryAll(doc, "//test-case")
	if err != nil {
		return nil, fmt.Errorf("query test cases: %w", err)
	}

	events := make([]domain.TestEvent, 0, len(nodes))
	for _, n := range nodes {
		events = append(events, parseTestCase(n))
	}
	return events, nil
}

func parseTestCase(n *xmlquery.Node) domain.TestEvent {
	ev := domain.TestEvent{
		FullName:  n.SelectAttr("fullname"),
		Name:      n.SelectAttr("name"),
		ClassName: n.SelectAttr("classname"),
		Label:     n.SelectAttr("label"),
		Outcome:   parseOutcome(n.SelectAttr("result")),
		Duration:  parseSeconds(n.SelectAttr("duration")),
		StartTime: parseTime(n.SelectAttr("start-time")),
		EndTime:   parseTime(n.SelectAttr("end-time")),
	}
	if ev.FullName == "" {
		ev.FullName = ev.Name
	}

	if failure := n.SelectElement("failure"); failure != nil {
		ev.Message = childText(failure, "message")
		ev.StackTrace = childText(failure, "stack-trace")
	} else if reason := n.SelectElement("reason"); reason != nil {
		ev.Message = childText(reason, "message")
	}

	if output := n.SelectElement("output"); output != nil {
		ev.Output = splitLines(output.InnerText())
	}
	return ev
}

func parseOutcome(result string) domain.Outcome {
	switch strings.ToLower(result) {
	case "passed":
		return domain.OutcomePassed
	case "failed":
		return domain.OutcomeFailed
	case "skipped", "ignored":
		return domain.OutcomeSkipped
	default:
		return domain.OutcomeNone
	}
}

func parseSeconds(s string) time.Duration {
	sec, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || sec < 0 || math.IsNaN(sec) {
		return 0
	}
	return time.Duration(math.Round(sec * float64(time.Second)))
}

func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, layout := range []string{timeLayout, "2006-01-02 15:04:05Z", time.RFC3339Nano} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

func childText(n *xmlquery.Node, name string) string {
	child := n.SelectElement(name)
	if child == nil {
		return ""
	}
	return strings.TrimSpace(child.InnerText())
}

func splitLines(s string) []string {
	s = strings.TrimRight(s, "\r\n")
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
}
