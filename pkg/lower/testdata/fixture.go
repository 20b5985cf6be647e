// Package testdata loads the hand-built `.fixture` files this module's
// tests and cmd/lowerdump drive the CodeGenerator against. There is no
// parser in scope, so a fixture names a Go-side program builder rather
// than embedding source text to lex.
package testdata

import (
	"fmt"
	"os"

	"github.com/dlclark/regexp2"
)

// sectionHeader matches a `--- NAME ---` delimiter line. The lookbehind
// assertion pins the match to the start of a line without consuming the
// preceding newline into the match itself, so slicing on match bounds
// leaves section bodies free of stray blank lines. Go's stdlib regexp
// (RE2) has no lookbehind at all; regexp2's backtracking engine does.
var sectionHeader = regexp2.MustCompile(`(?<=^|\n)---\s*([A-Z]+)\s*---\r?\n`, regexp2.Multiline)

// Fixture is one parsed `.fixture` file: a named program builder to run,
// the output shape to build (generator or async), and the literal text
// the assembled, printed result is expected to equal.
type Fixture struct {
	Name    string
	Program string // key into the Registry in programs.go
	Kind    string // "generator" or "async"
	Expect  string
}

// Load parses the section-delimited text in a fixture file. Recognized
// sections: PROGRAM (a program name), KIND (generator|async), EXPECT (the
// literal expected rendered text, kept verbatim including any embedded
// "---" runs inside the expected code — the reason this isn't split with
// a simple Split on the literal "---" string).
func Load(path string) (*Fixture, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	sections, err := splitSections(string(raw))
	if err != nil {
		return nil, fmt.Errorf("testdata: %s: %w", path, err)
	}
	f := &Fixture{Name: path}
	if v, ok := sections["PROGRAM"]; ok {
		f.Program = trimOneLine(v)
	}
	if v, ok := sections["KIND"]; ok {
		f.Kind = trimOneLine(v)
	} else {
		f.Kind = "generator"
	}
	if v, ok := sections["EXPECT"]; ok {
		f.Expect = v
	}
	if f.Program == "" {
		return nil, fmt.Errorf("testdata: %s: missing PROGRAM section", path)
	}
	return f, nil
}

func splitSections(text string) (map[string]string, error) {
	sections := make(map[string]string)
	m, err := sectionHeader.FindStringMatch(text)
	if err != nil {
		return nil, err
	}
	var lastName string
	lastEnd := 0
	for m != nil {
		if lastName != "" {
			sections[lastName] = text[lastEnd:m.Index]
		}
		lastName = m.GroupByNumber(1).String()
		lastEnd = m.Index + m.Length
		m, err = sectionHeader.FindNextMatch(m)
		if err != nil {
			return nil, err
		}
	}
	if lastName != "" {
		sections[lastName] = text[lastEnd:]
	}
	return sections, nil
}

func trimOneLine(s string) string {
	for len(s) > 0 && (s[0] == '\n' || s[0] == '\r' || s[0] == ' ' || s[0] == '\t') {
		s = s[1:]
	}
	for len(s) > 0 && (s[len(s)-1] == '\n' || s[len(s)-1] == '\r' || s[len(s)-1] == ' ' || s[len(s)-1] == '\t') {
		s = s[:len(s)-1]
	}
	return s
}
