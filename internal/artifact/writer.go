package artifact

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"husky/internal/domain"
)

// Run is what gets written to a result file
type Run struct {
	Name      string // Assembly name
	FullName  string // Assembly path
	StartTime time.Time
	EndTime   time.Time
	Events    []domain.TestEvent
}

type xmlTestRun struct {
	XMLName       xml.Name     `xml:"test-run"`
	ID            string       `xml:"id,attr"`
	TestCaseCount int          `xml:"testcasecount,attr"`
	Result        string       `xml:"result,attr"`
	Total         int          `xml:"total,attr"`
	Passed        int          `xml:"passed,attr"`
	Failed        int          `xml:"failed,attr"`
	Skipped       int          `xml:"skipped,attr"`
	StartTime     string       `xml:"start-time,attr"`
	EndTime       string       `xml:"end-time,attr"`
	Duration      string       `xml:"duration,attr"`
	Suite         xmlTestSuite `xml:"test-suite"`
}

type xmlTestSuite struct {
	Type          string        `xml:"type,attr"`
	Name          string        `xml:"name,attr"`
	FullName      string        `xml:"fullname,attr"`
	TestCaseCount int           `xml:"testcasecount,attr"`
	Result        string        `xml:"result,attr"`
	Cases         []xmlTestCase `xml:"test-case"`
}

type xmlTestCase struct {
	ID        string      `xml:"id,attr"`
	Name      string      `xml:"name,attr"`
	FullName  string      `xml:"fullname,attr"`
	ClassName string      `xml:"classname,attr,omitempty"`
	Result    string      `xml:"result,attr"`
	Label     string      `xml:"label,attr,omitempty"`
	Duration  string      `xml:"duration,attr"`
	StartTime string      `xml:"start-time,attr,omitempty"`
	EndTime   string      `xml:"end-time,attr,omitempty"`
	Failure   *xmlFailure `xml:"failure,omitempty"`
	Reason    *xmlReason  `xml:"reason,omitempty"`
	Output    *xmlCData   `xml:"output,omitempty"`
}

type xmlFailure struct {
	Message    xmlCData  `xml:"message"`
	StackTrace *xmlCData `xml:"stack-trace,omitempty"`
}

type xmlReason struct {
	Message xmlCData `xml:"message"`
}

type xmlCData struct {
	Text string `xml:",cdata"`
}

// WriteFile writes run to path, creating parent directories
func WriteFile(path string, run Run) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create result dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create result file: %w", err)
	}
	if err := Write(f, run); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Write encodes run as a result document
func Write(w io.Writer, run Run) error {
	doc := xmlTestRun{
		ID:        "2",
		StartTime: formatTime(run.StartTime),
		EndTime:   formatTime(run.EndTime),
		Duration:  formatSeconds(run.EndTime.Sub(run.StartTime)),
		Suite: xmlTestSuite{
			Type:     "Assembly",
			Name:     run.Name,
			FullName: run.FullName,
		},
	}

	for i, ev := range run.Events {
		switch ev.Outcome {
		case domain.OutcomePassed:
			doc.Passed++
		case domain.OutcomeFailed:
			doc.Failed++
		case domain.OutcomeSkipped:
			doc.Skipped++
		}
		doc.Suite.Cases = append(doc.Suite.Cases, toXMLCase(i, ev))
	}
	doc.Total = len(run.Events)
	doc.TestCaseCount = doc.Total
	doc.Suite.TestCaseCount = doc.Total
	doc.Result = "Passed"
	if doc.Failed > 0 {
		doc.Result = "Failed"
	}
	doc.Suite.Result = doc.Result

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return fmt.Errorf("write result header: %w", err)
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode result document: %w", err)
	}
	return enc.Flush()
}

func toXMLCase(i int, ev domain.TestEvent) xmlTestCase {
	c := xmlTestCase{
		ID:        "0-" + strconv.Itoa(1001+i),
		Name:      ev.Name,
		FullName:  ev.FullName,
		ClassName: ev.ClassName,
		Result:    outcomeResult(ev.Outcome),
		Label:     ev.Label,
		Duration:  formatSeconds(ev.Duration),
		StartTime: formatTime(ev.StartTime),
		EndTime:   formatTime(ev.EndTime),
	}

	switch ev.Outcome {
	case domain.OutcomeFailed:
		c.Failure = &xmlFailure{Message: xmlCData{Text: ev.Message}}
		if ev.StackTrace != "" {
			c.Failure.StackTrace = &xmlCData{Text: ev.StackTrace}
		}
	case domain.OutcomeSkipped:
		if ev.Message != "" {
			c.Reason = &xmlReason{Message: xmlCData{Text: ev.Message}}
		}
	}
	if len(ev.Output) > 0 {
		c.Output = &xmlCData{Text: strings.Join(ev.Output, "\n")}
	}
	return c
}

func outcomeResult(o domain.Outcome) string {
	switch o {
	case domain.OutcomePassed:
		return "Passed"
	case domain.OutcomeFailed:
		return "Failed"
	case domain.OutcomeSkipped:
		return "Skipped"
	default:
		return "Inconclusive"
	}
}

func formatSeconds(d time.Duration) string {
	return strconv.FormatFloat(d.Seconds(), 'f', 6, 64)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(timeLayout)
}
