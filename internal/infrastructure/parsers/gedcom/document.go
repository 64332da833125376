// Package gedcom reads GEDCOM 5.5 files into an immutable Document.
// Only the HEAD, INDI and FAM records are interpreted.
package gedcom

import "strings"

// Header holds the metadata captured from the HEAD record.
type Header struct {
	Source  string
	Charset string
}

// Individual is one INDI record.
type Individual struct {
	ID         string
	Firstname  string
	Surname    string
	Sex        string
	BirthDate  *Date
	BirthPlace string
	DeathDate  *Date
	DeathPlace string
	// DeathRecorded is set by any DEAT event, including "DEAT Y" with no date.
	DeathRecorded bool
	Notes         []string
	FamilyChild   []string // FAMC
	FamilySpouse  []string // FAMS
}

// FullName joins the name parts, falling back to "Unknown".
func (i *Individual) FullName() string {
	name := strings.TrimSpace(i.Firstname + " " + i.Surname)
	if name == "" {
		return "Unknown"
	}
	return name
}

// BirthYear returns the resolved birth year or "".
func (i *Individual) BirthYear() string {
	if i.BirthDate == nil {
		return ""
	}
	return i.BirthDate.Year()
}

// DeathYear returns the resolved death year or "".
func (i *Individual) DeathYear() string {
	if i.DeathDate == nil {
		return ""
	}
	return i.DeathDate.Year()
}

// Deceased reports whether the record carries a death event.
func (i *Individual) Deceased() bool {
	return i.DeathRecorded || i.DeathDate != nil
}

// Family is one FAM record.
type Family struct {
	ID            string
	HusbandID     string
	WifeID        string
	ChildrenIDs   []string
	MarriageDate  *Date
	MarriagePlace string
}

// Parents returns the husband and wife ids that are set, father first.
func (f *Family) Parents() []string {
	parents := make([]string, 0, 2)
	if f.HusbandID != "" {
		parents = append(parents, f.HusbandID)
	}
	if f.WifeID != "" {
		parents = append(parents, f.WifeID)
	}
	return parents
}

// Document is the result of assembling a GEDCOM file. It is not modified
// after Parse returns.
type Document struct {
	Header      Header
	Individuals []Individual
	Families    []Family

	individualIndex map[string]int
	familyIndex     map[string]int
}

func newDocument(header Header, individuals []Individual, families []Family) *Document {
	doc := &Document{
		Header:          header,
		Individuals:     individuals,
		Families:        families,
		individualIndex: make(map[string]int, len(individuals)),
		familyIndex:     make(map[string]int, len(families)),
	}
	for i := range individuals {
		if _, dup := doc.individualIndex[individuals[i].ID]; !dup {
			doc.individualIndex[individuals[i].ID] = i
		}
	}
	for i := range families {
		if _, dup := doc.familyIndex[families[i].ID]; !dup {
			doc.familyIndex[families[i].ID] = i
		}
	}
	return doc
}

// FindIndividual returns the individual with the given id, or nil.
func (d *Document) FindIndividual(id string) *Individual {
	idx, ok := d.individualIndex[id]
	if !ok {
		return nil
	}
	return &d.Individuals[idx]
}

// FindFamily returns the family with the given id, or nil.
func (d *Document) FindFamily(id string) *Family {
	idx, ok := d.familyIndex[id]
	if !ok {
		return nil
	}
	return &d.Families[idx]
}

// IndividualCount returns the number of INDI records.
func (d *Document) IndividualCount() int {
	return len(d.Individuals)
}

// FamilyCount returns the number of FAM records.
func (d *Document) FamilyCount() int {
	return len(d.Families)
}
