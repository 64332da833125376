package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/genlib/internal/domain/entities"
	"github.com/ersonp/genlib/internal/domain/mocks"
	"github.com/ersonp/genlib/internal/infrastructure/logging"
	"github.com/ersonp/genlib/internal/infrastructure/parsers/gedcom"
)

const fanOutGedcom = `0 HEAD
0 @I1@ INDI
1 NAME Johan /Andersson/
1 BIRT
2 DATE 1 JAN 1850
0 @I2@ INDI
1 NAME Anna /Svensson/
0 @I3@ INDI
1 NAME Karl /Andersson/
0 @I4@ INDI
1 NAME Maria /Andersson/
0 @I5@ INDI
1 NAME Erik /Andersson/
1 DEAT
2 DATE 1901
0 @F1@ FAM
1 HUSB @I1@
1 WIFE @I2@
1 CHIL @I3@
1 CHIL @I4@
1 CHIL @I5@
0 TRLR`

const siblingsGedcom = `0 HEAD
0 @I1@ INDI
1 NAME Johan /Andersson/
0 @I2@ INDI
1 NAME Anna /Svensson/
0 @I3@ INDI
1 NAME Karl /Andersson/
0 @I4@ INDI
1 NAME Maria /Andersson/
0 @F1@ FAM
1 HUSB @I1@
1 WIFE @I2@
1 CHIL @I3@
1 CHIL @I4@
0 TRLR`

func parseDoc(t *testing.T, input string) *gedcom.Document {
	t.Helper()
	doc, err := gedcom.ParseString(input)
	require.NoError(t, err)
	return doc
}

func newTestImportService(db *mocks.RelationalDB) *GedcomImportService {
	return NewGedcomImportService(db, db, entities.DirNameFirstnameFirst, logging.Discard())
}

func personByGedcomID(t *testing.T, db *mocks.RelationalDB, gedcomID string) *entities.Person {
	t.Helper()
	for _, p := range db.Persons {
		if p.GedcomID == gedcomID {
			return p
		}
	}
	t.Fatalf("no person with gedcom id %s", gedcomID)
	return nil
}

func TestGedcomImportService_Import_FamilyFanOut(t *testing.T) {
	db := mocks.NewRelationalDB()
	svc := newTestImportService(db)

	result, err := svc.Import(context.Background(), parseDoc(t, fanOutGedcom))
	require.NoError(t, err)

	assert.NotEmpty(t, result.RunID)
	assert.Equal(t, 5, result.PersonsImported)
	assert.Equal(t, 10, result.RelationsImported)
	assert.Equal(t, 0, result.Skipped)
	assert.Empty(t, result.Warnings)
	assert.Equal(t, 10, db.CreateRelationshipCallCount)
	assert.Equal(t, "5 persons, 10 relations imported (0 skipped)", result.Summary())

	for _, rel := range db.Relationships {
		assert.Less(t, rel.PersonAID, rel.PersonBID)
		assert.NoError(t, rel.Validate())
	}
}

func TestGedcomImportService_Import_PersonFields(t *testing.T) {
	db := mocks.NewRelationalDB()
	svc := newTestImportService(db)

	_, err := svc.Import(context.Background(), parseDoc(t, fanOutGedcom))
	require.NoError(t, err)

	johan := personByGedcomID(t, db, "@I1@")
	assert.Equal(t, "johan_andersson_1850_01_01", johan.DirectoryName)
	require.NotNil(t, johan.BirthDate)
	assert.Equal(t, time.Date(1850, 1, 1, 0, 0, 0, 0, time.UTC), *johan.BirthDate)
	assert.True(t, johan.Living)

	erik := personByGedcomID(t, db, "@I5@")
	assert.Equal(t, "erik_andersson", erik.DirectoryName)
	assert.False(t, erik.Living)
	require.NotNil(t, erik.DeathDate)
	assert.Equal(t, 1901, erik.DeathDate.Year())
}

func TestGedcomImportService_Import_ChildView(t *testing.T) {
	db := mocks.NewRelationalDB()
	svc := newTestImportService(db)

	_, err := svc.Import(context.Background(), parseDoc(t, siblingsGedcom))
	require.NoError(t, err)

	karl := personByGedcomID(t, db, "@I3@")
	rels, err := db.FindRelationshipsByPerson(context.Background(), karl.ID)
	require.NoError(t, err)

	counts := make(map[entities.RelationshipType]int)
	for i := range rels {
		view := rels[i].ViewFrom(karl.ID, "")
		counts[view.Type]++
	}
	assert.Equal(t, 2, counts[entities.RelationParent])
	assert.Equal(t, 1, counts[entities.RelationSibling])
	assert.Equal(t, 0, counts[entities.RelationChild])
	assert.Equal(t, 0, counts[entities.RelationSpouse])
}

func TestGedcomImportService_Import_Idempotent(t *testing.T) {
	db := mocks.NewRelationalDB()
	svc := newTestImportService(db)
	doc := parseDoc(t, fanOutGedcom)

	_, err := svc.Import(context.Background(), doc)
	require.NoError(t, err)

	second, err := svc.Import(context.Background(), doc)
	require.NoError(t, err)

	assert.Equal(t, 0, second.PersonsImported)
	assert.Equal(t, 0, second.RelationsImported)
	assert.Equal(t, 5, second.Skipped)
	assert.Empty(t, second.Warnings)
	assert.Len(t, db.Persons, 5)
	assert.Len(t, db.Relationships, 10)
}

func TestGedcomImportService_Import_LinksToExistingPersons(t *testing.T) {
	db := mocks.NewRelationalDB()
	existing := db.AddPerson(&entities.Person{Firstname: "Johan", Surname: "Andersson", DirectoryName: "johan_andersson_1850_01_01"})
	svc := newTestImportService(db)

	result, err := svc.Import(context.Background(), parseDoc(t, fanOutGedcom))
	require.NoError(t, err)

	assert.Equal(t, 4, result.PersonsImported)
	assert.Equal(t, 1, result.Skipped)
	assert.Equal(t, 10, result.RelationsImported)

	rels, err := db.FindRelationshipsByPerson(context.Background(), existing)
	require.NoError(t, err)
	assert.Len(t, rels, 4, "one spouse and three children")
}

func TestGedcomImportService_Import_FailedPersonBecomesWarning(t *testing.T) {
	db := mocks.NewRelationalDB()
	db.CreatePersonHook = func(p *entities.Person) error {
		if p.GedcomID == "@I4@" {
			return errors.New("disk full")
		}
		return nil
	}
	svc := newTestImportService(db)

	result, err := svc.Import(context.Background(), parseDoc(t, fanOutGedcom))
	require.NoError(t, err)

	assert.Equal(t, 4, result.PersonsImported)
	// spouse + 2 parents x 2 children + 1 sibling pair
	assert.Equal(t, 6, result.RelationsImported)
	require.Len(t, result.Warnings, 1)
	assert.Equal(t, "could not import Maria Andersson: disk full", result.Warnings[0])
}

func TestGedcomImportService_Import_RelationshipFailureContinues(t *testing.T) {
	db := mocks.NewRelationalDB()
	calls := 0
	db.CreateRelationshipHook = func(_ *entities.PersonRelationship) error {
		calls++
		if calls == 1 {
			return errors.New("locked")
		}
		return nil
	}
	svc := newTestImportService(db)

	result, err := svc.Import(context.Background(), parseDoc(t, fanOutGedcom))
	require.NoError(t, err)

	assert.Equal(t, 9, result.RelationsImported)
	require.Len(t, result.Warnings, 1)
	assert.Equal(t, "family @F1@: locked", result.Warnings[0])
}

func TestGedcomImportService_Import_ConflictingExistingRelationship(t *testing.T) {
	db := mocks.NewRelationalDB()
	svc := newTestImportService(db)

	input := `0 @I1@ INDI
1 NAME Per /Holm/
0 @I2@ INDI
1 NAME Eva /Holm/
0 @F1@ FAM
1 HUSB @I1@
1 WIFE @I2@
0 @F2@ FAM
1 HUSB @I1@
1 CHIL @I2@
0 TRLR`

	result, err := svc.Import(context.Background(), parseDoc(t, input))
	require.NoError(t, err)

	assert.Equal(t, 1, result.RelationsImported)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "family @F2@")
	assert.Contains(t, result.Warnings[0], "already spouse")
	assert.Contains(t, result.Warnings[0], "parent not added")
}

func TestGedcomImportService_Import_SameDirectoryNameInBatch(t *testing.T) {
	db := mocks.NewRelationalDB()
	svc := newTestImportService(db)

	input := `0 @I1@ INDI
1 NAME Anna /Berg/
0 @I2@ INDI
1 NAME Anna /Berg/
0 @I3@ INDI
1 NAME Anna /Berg/
0 TRLR`

	result, err := svc.Import(context.Background(), parseDoc(t, input))
	require.NoError(t, err)

	assert.Equal(t, 3, result.PersonsImported)
	assert.Equal(t, "anna_berg", personByGedcomID(t, db, "@I1@").DirectoryName)
	assert.Equal(t, "anna_berg_2", personByGedcomID(t, db, "@I2@").DirectoryName)
	assert.Equal(t, "anna_berg_3", personByGedcomID(t, db, "@I3@").DirectoryName)

	require.Len(t, result.Warnings, 2)
	assert.Contains(t, result.Warnings[0], "@I2@")
	assert.Contains(t, result.Warnings[0], "@I1@")
	assert.Contains(t, result.Warnings[0], "anna_berg_2")

	second, err := svc.Import(context.Background(), parseDoc(t, input))
	require.NoError(t, err)
	assert.Equal(t, 0, second.PersonsImported)
	assert.Equal(t, 3, second.Skipped)
}

func TestGedcomImportService_Import_SuffixesExhausted(t *testing.T) {
	db := mocks.NewRelationalDB()
	svc := newTestImportService(db)
	svc.now = func() time.Time { return time.Unix(1700000000, 0) }

	const count = maxNumericSuffix + 3
	var b strings.Builder
	for i := 1; i <= count; i++ {
		fmt.Fprintf(&b, "0 @I%d@ INDI\n1 NAME John /Doe/\n", i)
	}
	b.WriteString("0 TRLR")

	result, err := svc.Import(context.Background(), parseDoc(t, b.String()))
	require.NoError(t, err)

	assert.Equal(t, count, result.PersonsImported)
	assert.Zero(t, result.Skipped)
	require.Len(t, result.Warnings, count-1)

	assert.Equal(t, "john_doe_999", personByGedcomID(t, db, "@I999@").DirectoryName)
	assert.Equal(t, "john_doe_1700000000", personByGedcomID(t, db, "@I1000@").DirectoryName)
	assert.Equal(t, "john_doe_1700000000_2", personByGedcomID(t, db, "@I1001@").DirectoryName)
	assert.Equal(t, "john_doe_1700000000_3", personByGedcomID(t, db, fmt.Sprintf("@I%d@", count)).DirectoryName)

	last := result.Warnings[len(result.Warnings)-1]
	assert.Contains(t, last, fmt.Sprintf("@I%d@", count))
	assert.Contains(t, last, "@I1@")
	assert.Contains(t, last, "stored as john_doe_1700000000_3")

	assert.Len(t, db.Persons, count)
}

func TestGedcomImportService_Import_DeathWithoutDate(t *testing.T) {
	db := mocks.NewRelationalDB()
	svc := newTestImportService(db)

	input := `0 @I1@ INDI
1 NAME Olof /Ek/
1 DEAT Y
2 PLAC Uppsala
0 @I2@ INDI
1 NAME Sven /Ek/
0 TRLR`

	_, err := svc.Import(context.Background(), parseDoc(t, input))
	require.NoError(t, err)

	olof := personByGedcomID(t, db, "@I1@")
	assert.False(t, olof.Living)
	assert.Nil(t, olof.DeathDate)
	assert.Equal(t, "Uppsala", olof.DeathPlace)

	assert.True(t, personByGedcomID(t, db, "@I2@").Living)
}

func TestGedcomImportService_Import_MultipleParentFamilies(t *testing.T) {
	db := mocks.NewRelationalDB()
	svc := newTestImportService(db)

	input := `0 @I1@ INDI
1 NAME Olof /Berg/
0 @I2@ INDI
1 NAME Nils /Berg/
0 @I3@ INDI
1 NAME Lars /Ek/
1 FAMC @F1@
1 FAMC @F2@
0 @F1@ FAM
1 HUSB @I1@
1 CHIL @I3@
0 @F2@ FAM
1 HUSB @I2@
1 CHIL @I3@
0 TRLR`

	result, err := svc.Import(context.Background(), parseDoc(t, input))
	require.NoError(t, err)

	assert.Equal(t, 2, result.RelationsImported)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "@I3@")
	assert.Contains(t, result.Warnings[0], "@F1@, @F2@")
}

func TestGedcomImportService_Import_UnresolvedReferencesIgnored(t *testing.T) {
	db := mocks.NewRelationalDB()
	svc := newTestImportService(db)

	input := `0 @I1@ INDI
1 NAME Olof /Berg/
0 @F1@ FAM
1 HUSB @I1@
1 WIFE @I99@
1 CHIL @I98@
0 TRLR`

	result, err := svc.Import(context.Background(), parseDoc(t, input))
	require.NoError(t, err)
	assert.Equal(t, 1, result.PersonsImported)
	assert.Equal(t, 0, result.RelationsImported)
	assert.Empty(t, result.Warnings)
}

func TestGedcomImportService_Import_Cancelled(t *testing.T) {
	db := mocks.NewRelationalDB()
	svc := newTestImportService(db)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := svc.Import(ctx, parseDoc(t, fanOutGedcom))
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, result)
	assert.Equal(t, 0, result.PersonsImported)
	assert.Empty(t, db.Persons)
}

func TestGedcomImportService_Import_LookupErrorBecomesWarning(t *testing.T) {
	db := mocks.NewRelationalDB()
	db.Err = errors.New("database is closed")
	svc := newTestImportService(db)

	result, err := svc.Import(context.Background(), parseDoc(t, siblingsGedcom))
	require.NoError(t, err)
	assert.Equal(t, 0, result.PersonsImported)
	assert.Len(t, result.Warnings, 4)
}

func TestGedcomImportService_Preview(t *testing.T) {
	db := mocks.NewRelationalDB()
	db.AddPerson(&entities.Person{Firstname: "Anna", Surname: "Svensson", DirectoryName: "anna_svensson"})
	svc := newTestImportService(db)

	preview, err := svc.Preview(context.Background(), parseDoc(t, fanOutGedcom))
	require.NoError(t, err)

	assert.Equal(t, 5, preview.TotalIndividuals)
	assert.Equal(t, 1, preview.TotalFamilies)
	assert.Equal(t, 4, preview.NewPersons)
	assert.Equal(t, 1, preview.ExistingPersons)
	assert.Equal(t, 10, preview.EstimatedRelations)
	require.Len(t, preview.SamplePersons, 5)
	assert.Equal(t, SamplePerson{Name: "Johan Andersson", BirthYear: "1850"}, preview.SamplePersons[0])
	assert.Equal(t, SamplePerson{Name: "Erik Andersson", DeathYear: "1901"}, preview.SamplePersons[4])

	assert.Equal(t, 0, db.CreatePersonCallCount)
	assert.Equal(t, 0, db.CreateRelationshipCallCount)
	assert.Len(t, db.Persons, 1)
}

func TestGedcomImportService_Preview_LookupErrorCountsAsNew(t *testing.T) {
	db := mocks.NewRelationalDB()
	db.Err = errors.New("database is closed")
	svc := newTestImportService(db)

	preview, err := svc.Preview(context.Background(), parseDoc(t, siblingsGedcom))
	require.NoError(t, err)
	assert.Equal(t, 4, preview.NewPersons)
	assert.Equal(t, 0, preview.ExistingPersons)
}

func TestEstimateFamilyRelations(t *testing.T) {
	tests := []struct {
		name     string
		family   gedcom.Family
		expected int
	}{
		{name: "empty", family: gedcom.Family{}, expected: 0},
		{name: "couple only", family: gedcom.Family{HusbandID: "@I1@", WifeID: "@I2@"}, expected: 1},
		{name: "single parent one child", family: gedcom.Family{WifeID: "@I2@", ChildrenIDs: []string{"@I3@"}}, expected: 1},
		{name: "children only", family: gedcom.Family{ChildrenIDs: []string{"@I3@", "@I4@", "@I5@"}}, expected: 3},
		{
			name:     "couple three children",
			family:   gedcom.Family{HusbandID: "@I1@", WifeID: "@I2@", ChildrenIDs: []string{"@I3@", "@I4@", "@I5@"}},
			expected: 10,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, EstimateFamilyRelations(&tt.family))
		})
	}
}

func TestImportResult_Summary(t *testing.T) {
	r := &ImportResult{PersonsImported: 2, RelationsImported: 3, Skipped: 1}
	assert.Equal(t, "2 persons, 3 relations imported (1 skipped)", r.Summary())
}
