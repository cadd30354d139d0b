package parser

import (
	"regexp"
	"strconv"
	"strings"

	"husky/internal/domain"
)

var (
	skippedPattern    = regexp.MustCompile(`Skipped:\s*(\d+)`)
	incompletePattern = regexp.MustCompile(`Incomplete:\s*(\d+)`)
	errorsPattern     = regexp.MustCompile(`Errors:\s*(\d+)`)
	headerPattern     = regexp.MustCompile(`^\d+\)\s+\S+::\S+`)
	stackLinePattern  = regexp.MustCompile(`^(\S+\.php):(\d+)$`)
)

// PHPUnitParser parses PHPUnit console output
type PHPUnitParser struct{}

var _ Parser = (*PHPUnitParser)(nil)

// NewPHPUnitParser creates a new PHPUnitParser
func NewPHPUnitParser() *PHPUnitParser {
	return &PHPUnitParser{}
}

// Outcome maps PHPUnit's summary lines to an outcome and an optional label
func (p *PHPUnitParser) Outcome(output string, success bool) (domain.Outcome, string) {
	if strings.Contains(output, "No tests executed!") {
		return domain.OutcomeNotFound, ""
	}
	if success {
		if count(incompletePattern, output) > 0 {
			return domain.OutcomeSkipped, "Incomplete"
		}
		if count(skippedPattern, output) > 0 {
			return domain.OutcomeSkipped, ""
		}
		return domain.OutcomePassed, ""
	}
	if count(errorsPattern, output) > 0 {
		return domain.OutcomeFailed, "Error"
	}
	return domain.OutcomeFailed, ""
}

func count(pattern *regexp.Regexp, output string) int {
	m := pattern.FindStringSubmatch(output)
	if len(m) < 2 {
		return 0
	}
	n, _ := strconv.Atoi(m[1])
	return n
}

// ParseFailure finds the "N) Class::method" block for testName and splits it
// into message lines and the trailing stack trace
func (p *PHPUnitParser) ParseFailure(output string, testName string) Failure {
	lines := strings.Split(strings.ReplaceAll(output, "\r\n", "\n"), "\n")
	match := regexp.MustCompile(`(?i)^\d+\)\s+` + regexp.QuoteMeta(testName))

	for i, line := range lines {
		if match.MatchString(strings.TrimSpace(line)) {
			return p.parseFailureBlock(lines[i+1:])
		}
	}

	// No block for this test; keep the tail of the output so the failure is not blank
	return Failure{Message: strings.TrimSpace(lastLines(lines, 10))}
}

func (p *PHPUnitParser) parseFailureBlock(lines []string) Failure {
	var failure Failure
	var messageLines []string

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)

		// Check if we hit the next test case or the summary
		if headerPattern.MatchString(trimmed) || trimmed == "FAILURES!" || trimmed == "ERRORS!" {
			break
		}

		// Stack trace lines are file paths with line numbers: /path/to/file.php:123
		if m := stackLinePattern.FindStringSubmatch(trimmed); m != nil {
			failure.StackTrace = append(failure.StackTrace, trimmed)
			if failure.File == "" && !strings.Contains(m[1], "/vendor/") {
				failure.File = m[1]
				failure.Line, _ = strconv.Atoi(m[2])
			}
			continue
		}

		if len(failure.StackTrace) > 0 {
			continue
		}

		// Skip empty lines at the very start
		if len(messageLines) == 0 && trimmed == "" {
			continue
		}
		messageLines = append(messageLines, line)
	}

	// Join message lines (trim trailing empty lines)
	for len(messageLines) > 0 && strings.TrimSpace(messageLines[len(messageLines)-1]) == "" {
		messageLines = messageLines[:len(messageLines)-1]
	}
	failure.Message = strings.Join(messageLines, "\n")
	return failure
}

func lastLines(lines []string, n int) string {
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}
