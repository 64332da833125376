package gedcom

import "strings"

// Tag is the closed set of GEDCOM tags the assembler interprets.
// Everything else tokenizes to TagUnknown and is skipped.
type Tag int

const (
	TagUnknown Tag = iota
	TagHead
	TagTrlr
	TagIndi
	TagFam
	TagName
	TagGivn
	TagSurn
	TagSex
	TagBirt
	TagDeat
	TagNote
	TagCont
	TagConc
	TagFamc
	TagFams
	TagHusb
	TagWife
	TagChil
	TagMarr
	TagSour
	TagChar
	TagDate
	TagPlac
)

var tagNames = map[string]Tag{
	"HEAD": TagHead,
	"TRLR": TagTrlr,
	"INDI": TagIndi,
	"FAM":  TagFam,
	"NAME": TagName,
	"GIVN": TagGivn,
	"SURN": TagSurn,
	"SEX":  TagSex,
	"BIRT": TagBirt,
	"DEAT": TagDeat,
	"NOTE": TagNote,
	"CONT": TagCont,
	"CONC": TagConc,
	"FAMC": TagFamc,
	"FAMS": TagFams,
	"HUSB": TagHusb,
	"WIFE": TagWife,
	"CHIL": TagChil,
	"MARR": TagMarr,
	"SOUR": TagSour,
	"CHAR": TagChar,
	"DATE": TagDate,
	"PLAC": TagPlac,
}

// LookupTag maps raw tag text to a Tag, case-insensitively.
func LookupTag(s string) Tag {
	if t, ok := tagNames[strings.ToUpper(s)]; ok {
		return t
	}
	return TagUnknown
}

func (t Tag) String() string {
	for name, tag := range tagNames {
		if tag == t {
			return name
		}
	}
	return "UNKNOWN"
}

// IsEvent reports whether the tag opens a block read by the event sub-parser.
func (t Tag) IsEvent() bool {
	switch t {
	case TagBirt, TagDeat, TagMarr:
		return true
	}
	return false
}
