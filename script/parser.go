package script

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Script syntax.
const (
	// CommentMarker starts a comment that runs to the end of the line
	CommentMarker = "#"

	// ExpectKeyword starts an EXPECT directive (case-sensitive)
	ExpectKeyword = "EXPECT"

	// byteOrderMark is stripped from the first line of UTF-8 sources
	byteOrderMark = "\ufeff"
)

// Parse parses a command script from the given file path.
//
// Example:
//
//	s, err := script.Parse("probe.i2c")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("%d commands, %d expectations\n", s.Commands(), s.Expectations())
func Parse(path string) (*Script, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open script: %w", err)
	}
	defer func() { _ = f.Close() }()

	s, err := ParseReader(f)
	if err != nil {
		return nil, err
	}
	s.Name = path
	return s, nil
}

// ParseReader parses a command script from any io.Reader.
//
// Example:
//
//	s, err := script.ParseReader(strings.NewReader("a 6b\nwr 0f 1\nEXPECT \"6C\"\n"))
func ParseReader(r io.Reader) (*Script, error) {
	scanner := bufio.NewScanner(r)
	s := &Script{Name: "<input>"}

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		raw := scanner.Text()
		if lineNum == 1 {
			raw = strings.TrimPrefix(raw, byteOrderMark)
		}

		line, err := ParseLine(lineNum, raw)
		if err != nil {
			return nil, err
		}
		if line != nil {
			s.Lines = append(s.Lines, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read script: %w", err)
	}

	return s, nil
}

// ParseLine classifies one raw script line.
// It returns nil for blank and comment-only lines.
func ParseLine(number int, raw string) (*Line, error) {
	text, comment := stripComment(raw)
	if text == "" {
		return nil, nil
	}

	line := &Line{
		Number:  number,
		Kind:    LineCommand,
		Text:    text,
		Comment: comment,
	}

	fields := strings.Fields(text)
	if fields[0] != ExpectKeyword {
		return line, nil
	}

	arg := strings.TrimSpace(strings.TrimPrefix(text, ExpectKeyword))
	if arg == "" {
		return nil, fmt.Errorf("line %d: %s requires a pattern", number, ExpectKeyword)
	}

	line.Kind = LineExpect
	line.Pattern = unquote(arg)
	return line, nil
}

// stripComment removes a trailing comment and surrounding whitespace.
func stripComment(raw string) (text, comment string) {
	if idx := strings.Index(raw, CommentMarker); idx >= 0 {
		comment = strings.TrimSpace(raw[idx+len(CommentMarker):])
		raw = raw[:idx]
	}
	return strings.TrimSpace(raw), comment
}

// unquote strips one layer of surrounding double quotes.
func unquote(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}
