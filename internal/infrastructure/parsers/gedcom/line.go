package gedcom

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

const (
	byteOrderMark = "\ufeff"
	maxLineBytes  = 1 << 20
)

// Line is one tokenized GEDCOM line.
type Line struct {
	Level  int
	XRef   string // "@I1@", set only on record starts
	Tag    Tag
	RawTag string
	Value  string
}

// ParseLine tokenizes a single line. It reports false for blank or
// malformed lines, which callers drop.
func ParseLine(raw string) (Line, bool) {
	s := strings.TrimSpace(strings.TrimPrefix(raw, byteOrderMark))
	if s == "" {
		return Line{}, false
	}

	levelText, rest, _ := strings.Cut(s, " ")
	level, err := strconv.Atoi(levelText)
	if err != nil || level < 0 {
		return Line{}, false
	}

	var line Line
	line.Level = level

	rest = strings.TrimLeft(rest, " ")
	if strings.HasPrefix(rest, "@") {
		xref, after, _ := strings.Cut(rest, " ")
		if len(xref) >= 3 && strings.HasSuffix(xref, "@") {
			line.XRef = xref
			rest = strings.TrimLeft(after, " ")
		}
	}

	tag, value, _ := strings.Cut(rest, " ")
	if tag == "" {
		return Line{}, false
	}
	line.RawTag = tag
	line.Tag = LookupTag(tag)
	line.Value = value

	return line, true
}

// Tokenize reads r line by line, dropping anything ParseLine rejects.
func Tokenize(r io.Reader) ([]Line, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	lines := make([]Line, 0, 1024)
	for scanner.Scan() {
		if line, ok := ParseLine(scanner.Text()); ok {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading gedcom lines: %w", err)
	}
	return lines, nil
}
