package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ersonp/genlib/internal/domain/entities"
	"github.com/ersonp/genlib/internal/domain/ports"
	"github.com/ersonp/genlib/internal/infrastructure/parsers/gedcom"
)

const (
	// SamplePersonLimit caps ImportPreview.SamplePersons.
	SamplePersonLimit = 5
	// maxNumericSuffix is the last _N suffix tried before falling back to a timestamp.
	maxNumericSuffix = 999
)

// ImportResult is the outcome of a GEDCOM import. The import is not
// transactional: whatever was created before a failure stays created.
type ImportResult struct {
	RunID             string   `json:"run_id"`
	PersonsImported   int      `json:"persons_imported"`
	RelationsImported int      `json:"relations_imported"`
	Skipped           int      `json:"skipped"`
	Warnings          []string `json:"warnings"`
}

// Summary returns a one-line description of the counts.
func (r *ImportResult) Summary() string {
	return fmt.Sprintf("%d persons, %d relations imported (%d skipped)", r.PersonsImported, r.RelationsImported, r.Skipped)
}

func (r *ImportResult) warnf(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// SamplePerson is an individual reduced for preview display.
type SamplePerson struct {
	Name      string `json:"name"`
	BirthYear string `json:"birth_year,omitempty"`
	DeathYear string `json:"death_year,omitempty"`
}

// ImportPreview estimates what Import would do without touching the store.
type ImportPreview struct {
	TotalIndividuals   int            `json:"total_individuals"`
	TotalFamilies      int            `json:"total_families"`
	NewPersons         int            `json:"new_persons"`
	ExistingPersons    int            `json:"existing_persons"`
	EstimatedRelations int            `json:"estimated_relations"`
	SamplePersons      []SamplePerson `json:"sample_persons"`
}

// GedcomImportService turns a parsed GEDCOM document into persons and
// canonical relationships.
type GedcomImportService struct {
	persons       ports.PersonStore
	relationships ports.RelationshipStore
	naming        entities.DirectoryNamer
	log           *slog.Logger
	now           func() time.Time
}

// NewGedcomImportService creates a new import service.
func NewGedcomImportService(
	persons ports.PersonStore,
	relationships ports.RelationshipStore,
	naming entities.DirectoryNamer,
	logger *slog.Logger,
) *GedcomImportService {
	if logger == nil {
		logger = slog.Default()
	}
	return &GedcomImportService{
		persons:       persons,
		relationships: relationships,
		naming:        naming,
		log:           logger,
		now:           time.Now,
	}
}

// importRun is the per-call accumulator.
type importRun struct {
	result *ImportResult
	log    *slog.Logger
	// ids maps GEDCOM xrefs to store ids for individuals that were created
	// or found already stored.
	ids map[string]int64
	// claimed maps directory names used in this run to the xref using them.
	claimed map[string]string
}

func (r *importRun) resolve(xref string) (int64, bool) {
	if xref == "" {
		return 0, false
	}
	id, ok := r.ids[xref]
	return id, ok
}

// Import creates a person for every individual whose directory name is not
// yet stored, then derives spouse, parent and sibling relationships from
// every family. Per-record failures become warnings; the only error
// returned is context cancellation, together with the partial result.
func (s *GedcomImportService) Import(ctx context.Context, doc *gedcom.Document) (*ImportResult, error) {
	run := &importRun{
		result:  &ImportResult{RunID: uuid.NewString(), Warnings: []string{}},
		ids:     make(map[string]int64, doc.IndividualCount()),
		claimed: make(map[string]string, doc.IndividualCount()),
	}
	run.log = s.log.With(slog.String("run_id", run.result.RunID))

	run.log.Info("starting gedcom import",
		slog.Int("individuals", doc.IndividualCount()),
		slog.Int("families", doc.FamilyCount()),
	)

	for i := range doc.Individuals {
		if err := ctx.Err(); err != nil {
			return run.result, fmt.Errorf("import interrupted: %w", err)
		}
		s.importIndividual(ctx, run, &doc.Individuals[i])
	}

	for i := range doc.Families {
		if err := ctx.Err(); err != nil {
			return run.result, fmt.Errorf("import interrupted: %w", err)
		}
		s.importFamily(ctx, run, &doc.Families[i])
	}

	warnMultipleParentFamilies(run, doc)

	run.log.Info("gedcom import finished",
		slog.Int("persons_imported", run.result.PersonsImported),
		slog.Int("relations_imported", run.result.RelationsImported),
		slog.Int("skipped", run.result.Skipped),
		slog.Int("warnings", len(run.result.Warnings)),
	)
	return run.result, nil
}

func (s *GedcomImportService) importIndividual(ctx context.Context, run *importRun, ind *gedcom.Individual) {
	base := s.naming.DirectoryName(ind.Firstname, ind.Surname, isoDate(ind.BirthDate))

	name := base
	if owner, taken := run.claimed[base]; taken {
		name = s.nextFreeName(run, base)
		run.result.warnf("%s (%s) has the same directory name as %s; stored as %s",
			ind.ID, ind.FullName(), owner, name)
	}
	run.claimed[name] = ind.ID

	existing, err := s.persons.FindPersonByDirectoryName(ctx, name)
	if err != nil {
		run.result.warnf("could not import %s: %v", ind.FullName(), err)
		run.log.Warn("person lookup failed", slog.String("gedcom_id", ind.ID), slog.String("error", err.Error()))
		return
	}
	if existing != nil {
		run.result.Skipped++
		run.ids[ind.ID] = existing.ID
		run.log.Debug("person already stored",
			slog.String("gedcom_id", ind.ID),
			slog.String("directory_name", name),
			slog.Int64("person_id", existing.ID),
		)
		return
	}

	id, err := s.persons.CreatePerson(ctx, personFromIndividual(ind, name))
	if err != nil {
		run.result.warnf("could not import %s: %v", ind.FullName(), err)
		run.log.Warn("person rejected", slog.String("gedcom_id", ind.ID), slog.String("error", err.Error()))
		return
	}
	run.ids[ind.ID] = id
	run.result.PersonsImported++
}

// nextFreeName finds the first base_N not yet used in this run. Past
// maxNumericSuffix it falls back to base_<unix>, then base_<unix>_N.
func (s *GedcomImportService) nextFreeName(run *importRun, base string) string {
	for n := 2; n <= maxNumericSuffix; n++ {
		candidate := fmt.Sprintf("%s_%d", base, n)
		if _, taken := run.claimed[candidate]; !taken {
			return candidate
		}
	}

	stamped := fmt.Sprintf("%s_%d", base, s.now().Unix())
	candidate := stamped
	for n := 2; ; n++ {
		if _, taken := run.claimed[candidate]; !taken {
			return candidate
		}
		candidate = fmt.Sprintf("%s_%d", stamped, n)
	}
}

func (s *GedcomImportService) importFamily(ctx context.Context, run *importRun, fam *gedcom.Family) {
	husband, hasHusband := run.resolve(fam.HusbandID)
	wife, hasWife := run.resolve(fam.WifeID)

	if hasHusband && hasWife {
		s.createIfAbsent(ctx, run, fam.ID, husband, wife, entities.RelationSpouse)
	}

	children := make([]int64, 0, len(fam.ChildrenIDs))
	for _, xref := range fam.ChildrenIDs {
		if id, ok := run.resolve(xref); ok {
			children = append(children, id)
		}
	}

	for _, child := range children {
		if hasHusband {
			s.createIfAbsent(ctx, run, fam.ID, husband, child, entities.RelationParent)
		}
		if hasWife {
			s.createIfAbsent(ctx, run, fam.ID, wife, child, entities.RelationParent)
		}
	}

	for i := 0; i < len(children); i++ {
		for j := i + 1; j < len(children); j++ {
			s.createIfAbsent(ctx, run, fam.ID, children[i], children[j], entities.RelationSibling)
		}
	}
}

// createIfAbsent stores "from is relType to to" unless the pair is already
// related. Failures are recorded against the family and never stop the run.
func (s *GedcomImportService) createIfAbsent(ctx context.Context, run *importRun, familyID string, from, to int64, relType entities.RelationshipType) {
	rel := entities.NewPersonRelationship(from, to, relType)
	if err := rel.Validate(); err != nil {
		run.result.warnf("family %s: %v", familyID, err)
		return
	}

	existing, err := s.relationships.FindRelationshipBetween(ctx, rel.PersonAID, rel.PersonBID)
	if err != nil {
		run.result.warnf("family %s: %v", familyID, err)
		return
	}
	if existing != nil {
		if !existing.SameTypes(rel) {
			run.result.warnf("family %s: person %d is already %s to person %d; %s not added",
				familyID, from, existing.RelationshipFrom(from), to, relType)
		}
		return
	}

	if _, err := s.relationships.CreateRelationship(ctx, rel); err != nil {
		run.result.warnf("family %s: %v", familyID, err)
		run.log.Warn("relationship rejected",
			slog.String("family_id", familyID),
			slog.Int64("person_a_id", rel.PersonAID),
			slog.Int64("person_b_id", rel.PersonBID),
			slog.String("error", err.Error()),
		)
		return
	}
	run.result.RelationsImported++
}

// warnMultipleParentFamilies flags imported children listed by more than
// one family, since they receive parents from each of them.
func warnMultipleParentFamilies(run *importRun, doc *gedcom.Document) {
	families := make(map[string][]string)
	for i := range doc.Families {
		fam := &doc.Families[i]
		for _, child := range fam.ChildrenIDs {
			if !containsString(families[child], fam.ID) {
				families[child] = append(families[child], fam.ID)
			}
		}
	}

	for i := range doc.Individuals {
		ind := &doc.Individuals[i]
		famIDs := families[ind.ID]
		if len(famIDs) < 2 {
			continue
		}
		if _, ok := run.ids[ind.ID]; !ok {
			continue
		}
		run.result.warnf("%s (%s) is a child in %d families (%s); parents from all of them were linked",
			ind.ID, ind.FullName(), len(famIDs), strings.Join(famIDs, ", "))
	}
}

// Preview counts new and already stored individuals and estimates the
// relationships Import would create. It never writes to the store.
func (s *GedcomImportService) Preview(ctx context.Context, doc *gedcom.Document) (*ImportPreview, error) {
	preview := &ImportPreview{
		TotalIndividuals: doc.IndividualCount(),
		TotalFamilies:    doc.FamilyCount(),
		SamplePersons:    make([]SamplePerson, 0, SamplePersonLimit),
	}

	for i := range doc.Individuals {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("preview interrupted: %w", err)
		}
		ind := &doc.Individuals[i]

		name := s.naming.DirectoryName(ind.Firstname, ind.Surname, isoDate(ind.BirthDate))
		existing, err := s.persons.FindPersonByDirectoryName(ctx, name)
		if err != nil {
			s.log.Warn("preview lookup failed", slog.String("gedcom_id", ind.ID), slog.String("error", err.Error()))
		}
		if existing != nil {
			preview.ExistingPersons++
		} else {
			preview.NewPersons++
		}

		if len(preview.SamplePersons) < SamplePersonLimit {
			preview.SamplePersons = append(preview.SamplePersons, SamplePerson{
				Name:      ind.FullName(),
				BirthYear: ind.BirthYear(),
				DeathYear: ind.DeathYear(),
			})
		}
	}

	for i := range doc.Families {
		preview.EstimatedRelations += EstimateFamilyRelations(&doc.Families[i])
	}

	return preview, nil
}

// EstimateFamilyRelations is the number of relationships a family yields
// when every member resolves: parents x children, one spouse link when
// both parents are present, and one sibling link per pair of children.
func EstimateFamilyRelations(fam *gedcom.Family) int {
	parents := len(fam.Parents())
	children := len(fam.ChildrenIDs)

	total := parents * children
	if parents == 2 {
		total++
	}
	total += children * (children - 1) / 2
	return total
}

func personFromIndividual(ind *gedcom.Individual, directoryName string) *entities.Person {
	return &entities.Person{
		Firstname:     ind.Firstname,
		Surname:       ind.Surname,
		Sex:           ind.Sex,
		BirthDate:     resolvedTime(ind.BirthDate),
		BirthPlace:    ind.BirthPlace,
		DeathDate:     resolvedTime(ind.DeathDate),
		DeathPlace:    ind.DeathPlace,
		Living:        !ind.Deceased(),
		DirectoryName: directoryName,
		Notes:         strings.Join(ind.Notes, "\n\n"),
		GedcomID:      ind.ID,
	}
}

func isoDate(d *gedcom.Date) string {
	if d == nil {
		return ""
	}
	return d.ISO()
}

func resolvedTime(d *gedcom.Date) *time.Time {
	if d == nil || d.Resolved == nil {
		return nil
	}
	t := *d.Resolved
	return &t
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
