// Package parsers selects a genealogy file reader by format or extension.
package parsers

import (
	"io"
	"path/filepath"
	"strings"

	"github.com/ersonp/genlib/internal/infrastructure/parsers/gedcom"
)

// Parser reads a genealogy exchange file into a GEDCOM document.
type Parser interface {
	Parse(r io.Reader) (*gedcom.Document, error)
}

// GedcomParser reads GEDCOM 5.5 text.
type GedcomParser struct{}

// Parse implements Parser.
func (GedcomParser) Parse(r io.Reader) (*gedcom.Document, error) {
	return gedcom.Parse(r)
}

// ForFormat returns the parser for a named format, or nil.
// Supported formats: "gedcom" (alias "ged").
func ForFormat(format string) Parser {
	switch strings.ToLower(format) {
	case "gedcom", "ged":
		return GedcomParser{}
	default:
		return nil
	}
}

// ForFile returns the appropriate parser based on file extension.
func ForFile(filename string) Parser {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".ged", ".gedcom":
		return GedcomParser{}
	default:
		return nil
	}
}
