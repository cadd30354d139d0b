package discovery

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"husky/internal/domain"
)

var (
	namespacePattern = regexp.MustCompile(`(?m)^\s*namespace\s+([\w\\]+)\s*;`)
	classPattern     = regexp.MustCompile(`(?m)^\s*(?:(?:final|abstract|readonly)\s+)*class\s+(\w+)`)

	// Methods starting with "test"
	// Matches:
	// - public function testCreateUser()
	// - function test_user_login()
	// - protected static function testSomething()
	// - final public function testSomething()
	testMethodPattern = regexp.MustCompile(`(?m)^\s*(?:(?:public|protected|private|static|final)\s+)*function\s+(test\w+)\s*\(`)

	// Docblock (plus optional attributes) directly followed by a function
	docblockMethodPattern = regexp.MustCompile(`/\*\*((?:[^*]|\*+[^*/])*)\*+/\s*((?:#\[[^\]]*\]\s*)*)(?:(?:public|protected|private|static|final)\s+)*function\s+(\w+)\s*\(`)
	// Attributes without a docblock
	attributeMethodPattern = regexp.MustCompile(`((?:#\[[^\]]*\]\s*)+)(?:(?:public|protected|private|static|final)\s+)*function\s+(\w+)\s*\(`)
	// Docblock before the class declaration
	docblockClassPattern = regexp.MustCompile(`/\*\*((?:[^*]|\*+[^*/])*)\*+/\s*((?:#\[[^\]]*\]\s*)*)(?:(?:final|abstract|readonly)\s+)*class\s+\w+`)

	groupAnnotationPattern = regexp.MustCompile(`@group\s+(\S+)`)
	groupAttributePattern  = regexp.MustCompile(`#\[(?:\\?PHPUnit\\Framework\\Attributes\\)?Group\(\s*['"]([^'"]+)['"]\s*\)\]`)
	testAttributePattern   = regexp.MustCompile(`#\[(?:\\?PHPUnit\\Framework\\Attributes\\)?Test\]`)
	testAnnotationPattern  = regexp.MustCompile(`@test\b`)
)

// TestFile is the parsed structure of a single PHP test file
type TestFile struct {
	Path      string
	Namespace string // Backslash separated, as written in the source
	ClassName string
	Groups    []string // Class-level groups
	Methods   []TestMethod
}

// TestMethod is one test method with its own groups
type TestMethod struct {
	Name   string
	Groups []string
}

// Parser parses test files to extract test cases
type Parser struct{}

// NewParser creates a new Parser
func NewParser() *Parser {
	return &Parser{}
}

// FindTestCases finds all test method names in a test file
func (p *Parser) FindTestCases(filePath string) ([]string, error) {
	file, err := p.ParseFile(filePath)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(file.Methods))
	for _, m := range file.Methods {
		names = append(names, m.Name)
	}
	return names, nil
}

// ParseFile reads a test file and extracts namespace, class and test methods.
// Methods are returned sorted by name.
func (p *Parser) ParseFile(filePath string) (*TestFile, error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("error reading file %s: %w", filePath, err)
	}
	return p.parse(filePath, string(content)), nil
}

func (p *Parser) parse(filePath, fileContent string) *TestFile {
	file := &TestFile{Path: filePath}

	if m := namespacePattern.FindStringSubmatch(fileContent); m != nil {
		file.Namespace = m[1]
	}
	if m := classPattern.FindStringSubmatch(fileContent); m != nil {
		file.ClassName = m[1]
	} else {
		file.ClassName = strings.TrimSuffix(filepath.Base(filePath), ".php")
	}
	if m := docblockClassPattern.FindStringSubmatch(fileContent); m != nil {
		file.Groups = extractGroups(m[1], m[2])
	}

	methods := make(map[string][]string) // Use map to avoid duplicates

	for _, match := range testMethodPattern.FindAllStringSubmatch(fileContent, -1) {
		methods[match[1]] = nil
	}

	for _, match := range docblockMethodPattern.FindAllStringSubmatch(fileContent, -1) {
		doc, attrs, name := match[1], match[2], match[3]
		_, isTest := methods[name]
		if isTest || testAnnotationPattern.MatchString(doc) || testAttributePattern.MatchString(attrs) {
			methods[name] = extractGroups(doc, attrs)
		}
	}

	for _, match := range attributeMethodPattern.FindAllStringSubmatch(fileContent, -1) {
		attrs, name := match[1], match[2]
		_, isTest := methods[name]
		if !isTest && !testAttributePattern.MatchString(attrs) {
			continue
		}
		if groups := extractGroups("", attrs); len(groups) > 0 || !isTest {
			methods[name] = mergeGroups(methods[name], groups)
		}
	}

	for name, groups := range methods {
		file.Methods = append(file.Methods, TestMethod{Name: name, Groups: groups})
	}

	// Sort for consistent output
	sort.Slice(file.Methods, func(i, j int) bool {
		return file.Methods[i].Name < file.Methods[j].Name
	})

	return file
}

func extractGroups(doc, attrs string) []string {
	var groups []string
	for _, m := range groupAnnotationPattern.FindAllStringSubmatch(doc, -1) {
		groups = mergeGroups(groups, []string{m[1]})
	}
	for _, m := range groupAttributePattern.FindAllStringSubmatch(attrs, -1) {
		groups = mergeGroups(groups, []string{m[1]})
	}
	return groups
}

func mergeGroups(existing, more []string) []string {
	for _, g := range more {
		found := false
		for _, e := range existing {
			if e == g {
				found = true
				break
			}
		}
		if !found {
			existing = append(existing, g)
		}
	}
	return existing
}

// QualifiedClassName returns the dotted class name, e.g. Tests.Unit.UserTest
func (f *TestFile) QualifiedClassName() string {
	if f.Namespace == "" {
		return f.ClassName
	}
	return strings.ReplaceAll(f.Namespace, `\`, ".") + "." + f.ClassName
}

// TestCases converts the parsed file into domain test cases
func (f *TestFile) TestCases() []domain.TestCase {
	className := f.QualifiedClassName()
	cases := make([]domain.TestCase, 0, len(f.Methods))
	for _, m := range f.Methods {
		categories := mergeGroups(append([]string(nil), f.Groups...), m.Groups)
		cases = append(cases, domain.TestCase{
			FullyQualifiedName: className + "." + m.Name,
			Name:               m.Name,
			ClassName:          className,
			FilePath:           f.Path,
			Categories:         categories,
			Traits:             map[string]string{"File": filepath.Base(f.Path)},
		})
	}
	return cases
}
