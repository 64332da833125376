package entities

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// UnknownDirectoryName is used when nothing usable is left after sanitizing.
const UnknownDirectoryName = "unknown"

// DirectoryNamer derives a person's directory name from their name parts
// and ISO birth date (may be empty).
type DirectoryNamer interface {
	DirectoryName(firstname, surname, birthDate string) string
}

// DirNameFormat is the order in which name parts appear in a directory name.
type DirNameFormat string

const (
	DirNameFirstnameFirst DirNameFormat = "firstname_first"
	DirNameSurnameFirst   DirNameFormat = "surname_first"
	DirNameDateFirst      DirNameFormat = "date_first"
)

// ParseDirNameFormat validates a configured format. Empty input selects the default.
func ParseDirNameFormat(s string) (DirNameFormat, error) {
	switch f := DirNameFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return DirNameFirstnameFirst, nil
	case DirNameFirstnameFirst, DirNameSurnameFirst, DirNameDateFirst:
		return f, nil
	default:
		return "", fmt.Errorf("unknown directory name format %q (valid: firstname_first, surname_first, date_first)", s)
	}
}

// DirectoryName implements DirectoryNamer.
func (f DirNameFormat) DirectoryName(firstname, surname, birthDate string) string {
	first := SanitizeDirectoryPart(firstname)
	last := SanitizeDirectoryPart(surname)
	date := SanitizeDirectoryPart(birthDate)

	var parts []string
	switch f {
	case DirNameSurnameFirst:
		parts = []string{last, first, date}
	case DirNameDateFirst:
		parts = []string{date, first, last}
	default:
		parts = []string{first, last, date}
	}

	nonEmpty := parts[:0]
	for _, p := range parts {
		if p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	if len(nonEmpty) == 0 {
		return UnknownDirectoryName
	}
	return strings.Join(nonEmpty, "_")
}

// SanitizeDirectoryPart lowercases s, strips diacritics and maps everything
// that is not a letter or digit to a single underscore.
func SanitizeDirectoryPart(s string) string {
	folded, _, err := transform.String(transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC), s)
	if err != nil {
		folded = s
	}
	folded = strings.ToLower(folded)

	var b strings.Builder
	b.Grow(len(folded))
	lastUnderscore := false
	for _, r := range folded {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			lastUnderscore = false
			continue
		}
		if !lastUnderscore {
			b.WriteByte('_')
			lastUnderscore = true
		}
	}
	return strings.Trim(b.String(), "_")
}
