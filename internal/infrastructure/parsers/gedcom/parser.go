package gedcom

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// Parse reads a complete GEDCOM stream and assembles it into a Document.
// Input that is not valid UTF-8 is decoded as Windows-1252, which is what
// most "ANSI" exports actually contain.
func Parse(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading gedcom: %w", err)
	}

	text, err := decode(data)
	if err != nil {
		return nil, err
	}

	lines, err := Tokenize(strings.NewReader(text))
	if err != nil {
		return nil, err
	}
	return Assemble(lines), nil
}

// ParseString is Parse over an in-memory string.
func ParseString(s string) (*Document, error) {
	return Parse(strings.NewReader(s))
}

// ParseFile opens path and parses it.
func ParseFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening gedcom file: %w", err)
	}
	defer f.Close()

	doc, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return doc, nil
}

func decode(data []byte) (string, error) {
	data = bytes.TrimPrefix(data, []byte(byteOrderMark))
	if utf8.Valid(data) {
		return string(data), nil
	}
	out, err := charmap.Windows1252.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("decoding windows-1252 gedcom: %w", err)
	}
	return string(out), nil
}

// Assemble groups a flat token stream into records. Blocks end where the
// level drops back, so the walk is a single cursor over lines.
func Assemble(lines []Line) *Document {
	a := &assembler{lines: lines}

	var (
		header      Header
		individuals []Individual
		families    []Family
	)
	for a.pos < len(a.lines) {
		line := a.lines[a.pos]
		if line.Level != 0 {
			a.pos++
			continue
		}
		switch line.Tag {
		case TagHead:
			header = a.header()
		case TagIndi:
			individuals = append(individuals, a.individual())
		case TagFam:
			families = append(families, a.family())
		default:
			a.next()
			a.skipBlock(0)
		}
	}

	return newDocument(header, individuals, families)
}

type assembler struct {
	lines []Line
	pos   int
}

func (a *assembler) next() Line {
	line := a.lines[a.pos]
	a.pos++
	return line
}

// within reports whether the upcoming line is nested under level.
func (a *assembler) within(level int) bool {
	return a.pos < len(a.lines) && a.lines[a.pos].Level > level
}

func (a *assembler) skipBlock(level int) {
	for a.within(level) {
		a.pos++
	}
}

func (a *assembler) header() Header {
	rec := a.next()
	var h Header
	for a.within(rec.Level) {
		line := a.next()
		if line.Level != rec.Level+1 {
			continue
		}
		switch line.Tag {
		case TagSour:
			h.Source = strings.TrimSpace(line.Value)
		case TagChar:
			h.Charset = strings.TrimSpace(line.Value)
		}
	}
	return h
}

func (a *assembler) individual() Individual {
	rec := a.next()
	ind := Individual{ID: rec.XRef}

	nameSeen := false
	for a.within(rec.Level) {
		line := a.next()
		if line.Level != rec.Level+1 {
			continue
		}
		switch line.Tag {
		case TagName:
			if nameSeen {
				continue
			}
			nameSeen = true
			ind.Firstname, ind.Surname = a.name(line)
		case TagSex:
			ind.Sex = strings.TrimSpace(line.Value)
		case TagBirt:
			ev := a.event(line.Level)
			ev.applyTo(&ind.BirthDate, &ind.BirthPlace)
		case TagDeat:
			ind.DeathRecorded = true
			ev := a.event(line.Level)
			ev.applyTo(&ind.DeathDate, &ind.DeathPlace)
		case TagNote:
			if note := a.note(line); note != "" {
				ind.Notes = append(ind.Notes, note)
			}
		case TagFamc:
			if id := strings.TrimSpace(line.Value); id != "" {
				ind.FamilyChild = append(ind.FamilyChild, id)
			}
		case TagFams:
			if id := strings.TrimSpace(line.Value); id != "" {
				ind.FamilySpouse = append(ind.FamilySpouse, id)
			}
		}
	}
	return ind
}

func (a *assembler) family() Family {
	rec := a.next()
	fam := Family{ID: rec.XRef}

	for a.within(rec.Level) {
		line := a.next()
		if line.Level != rec.Level+1 {
			continue
		}
		value := strings.TrimSpace(line.Value)
		switch line.Tag {
		case TagHusb:
			fam.HusbandID = value
		case TagWife:
			fam.WifeID = value
		case TagChil:
			if value != "" {
				fam.ChildrenIDs = append(fam.ChildrenIDs, value)
			}
		case TagMarr:
			ev := a.event(line.Level)
			ev.applyTo(&fam.MarriageDate, &fam.MarriagePlace)
		}
	}
	return fam
}

type event struct {
	date  *Date
	place string
}

// applyTo overwrites only the parts the event block actually carried.
func (e event) applyTo(date **Date, place *string) {
	if e.date != nil {
		*date = e.date
	}
	if e.place != "" {
		*place = e.place
	}
}

// event reads DATE and PLAC directly under an event tag. Anything deeper,
// such as a source citation's own DATA/DATE, is skipped.
func (a *assembler) event(level int) event {
	var ev event
	for a.within(level) {
		line := a.next()
		if line.Level != level+1 {
			continue
		}
		value := strings.TrimSpace(line.Value)
		switch line.Tag {
		case TagDate:
			if value != "" {
				d := ParseDate(value)
				ev.date = &d
			}
		case TagPlac:
			ev.place = value
		}
	}
	return ev
}

// name splits "Given /Surname/" and falls back to GIVN/SURN sub-lines for
// any part the value leaves empty.
func (a *assembler) name(line Line) (string, string) {
	first, last := SplitName(line.Value)

	var givn, surn string
	for a.within(line.Level) {
		sub := a.next()
		if sub.Level != line.Level+1 {
			continue
		}
		switch sub.Tag {
		case TagGivn:
			givn = strings.TrimSpace(sub.Value)
		case TagSurn:
			surn = strings.TrimSpace(sub.Value)
		}
	}

	if first == "" {
		first = givn
	}
	if last == "" {
		last = surn
	}
	return first, last
}

// note joins a NOTE value with its CONT (new line) and CONC (same line)
// continuations.
func (a *assembler) note(line Line) string {
	var b strings.Builder
	b.WriteString(line.Value)
	for a.within(line.Level) {
		sub := a.next()
		if sub.Level != line.Level+1 {
			continue
		}
		switch sub.Tag {
		case TagCont:
			b.WriteByte('\n')
			b.WriteString(sub.Value)
		case TagConc:
			b.WriteString(sub.Value)
		}
	}
	return strings.TrimSpace(b.String())
}

// SplitName splits a GEDCOM personal name of the form "Given /Surname/".
func SplitName(value string) (string, string) {
	v := strings.TrimSpace(value)
	given, rest, found := strings.Cut(v, "/")
	if !found {
		return v, ""
	}
	surname, _, _ := strings.Cut(rest, "/")
	return strings.TrimSpace(given), strings.TrimSpace(surname)
}
