// Package mocks provides mock implementations for testing.
package mocks

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/ersonp/genlib/internal/domain/entities"
	"github.com/ersonp/genlib/internal/domain/ports"
)

// RelationalDB is an in-memory implementation of ports.RelationalDB.
// It enforces the same uniqueness rules as the SQLite store.
type RelationalDB struct {
	Persons       map[int64]*entities.Person
	Relationships map[int64]*entities.PersonRelationship
	Audit         []entities.AuditEntry

	// Err is returned by every method when set.
	Err error
	// CreatePersonHook, when set, can reject a person before insert.
	CreatePersonHook func(p *entities.Person) error
	// CreateRelationshipHook, when set, can reject a relationship before insert.
	CreateRelationshipHook func(rel *entities.PersonRelationship) error

	CreatePersonCallCount       int
	CreateRelationshipCallCount int
	FindByDirectoryCallCount    int

	nextPersonID int64
	nextRelID    int64
}

// NewRelationalDB creates a new empty mock store.
func NewRelationalDB() *RelationalDB {
	return &RelationalDB{
		Persons:       make(map[int64]*entities.Person),
		Relationships: make(map[int64]*entities.PersonRelationship),
	}
}

var _ ports.RelationalDB = (*RelationalDB)(nil)

// EnsureSchema creates the database schema if it doesn't exist.
func (m *RelationalDB) EnsureSchema(_ context.Context) error {
	return m.Err
}

// Close closes the database connection.
func (m *RelationalDB) Close() error {
	return nil
}

// AddPerson inserts a person directly, bypassing hooks and counters.
func (m *RelationalDB) AddPerson(p *entities.Person) int64 {
	m.nextPersonID++
	stored := *p
	stored.ID = m.nextPersonID
	m.Persons[stored.ID] = &stored
	return stored.ID
}

// Person methods.

// FindPersonByDirectoryName returns the person with the exact directory name.
func (m *RelationalDB) FindPersonByDirectoryName(_ context.Context, name string) (*entities.Person, error) {
	m.FindByDirectoryCallCount++
	if m.Err != nil {
		return nil, m.Err
	}
	for _, p := range m.Persons {
		if p.DirectoryName == name {
			copied := *p
			return &copied, nil
		}
	}
	return nil, nil
}

// CreatePerson validates and stores a person.
func (m *RelationalDB) CreatePerson(_ context.Context, p *entities.Person) (int64, error) {
	m.CreatePersonCallCount++
	if m.Err != nil {
		return 0, m.Err
	}
	if m.CreatePersonHook != nil {
		if err := m.CreatePersonHook(p); err != nil {
			return 0, err
		}
	}
	if err := p.Validate(); err != nil {
		return 0, err
	}
	for _, existing := range m.Persons {
		if existing.DirectoryName == p.DirectoryName {
			return 0, fmt.Errorf("%w: %s", entities.ErrDirectoryNameTaken, p.DirectoryName)
		}
	}
	return m.AddPerson(p), nil
}

// FindPersonByID finds a person by ID.
func (m *RelationalDB) FindPersonByID(_ context.Context, id int64) (*entities.Person, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	p, ok := m.Persons[id]
	if !ok {
		return nil, nil
	}
	copied := *p
	return &copied, nil
}

// FindPersonsByIDs finds the persons that exist among ids.
func (m *RelationalDB) FindPersonsByIDs(_ context.Context, ids []int64) ([]*entities.Person, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	result := make([]*entities.Person, 0, len(ids))
	for _, id := range ids {
		if p, ok := m.Persons[id]; ok {
			copied := *p
			result = append(result, &copied)
		}
	}
	return result, nil
}

// ListPersons lists persons ordered by surname, firstname.
func (m *RelationalDB) ListPersons(_ context.Context, filter ports.PersonFilter) ([]*entities.Person, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	needle := strings.ToLower(filter.Name)
	result := make([]*entities.Person, 0, len(m.Persons))
	for _, p := range m.Persons {
		if needle != "" &&
			!strings.Contains(strings.ToLower(p.Firstname), needle) &&
			!strings.Contains(strings.ToLower(p.Surname), needle) {
			continue
		}
		if filter.Living != nil && p.Living != *filter.Living {
			continue
		}
		copied := *p
		result = append(result, &copied)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Surname != result[j].Surname {
			return result[i].Surname < result[j].Surname
		}
		if result[i].Firstname != result[j].Firstname {
			return result[i].Firstname < result[j].Firstname
		}
		return result[i].ID < result[j].ID
	})

	if filter.Offset > 0 {
		if filter.Offset >= len(result) {
			return []*entities.Person{}, nil
		}
		result = result[filter.Offset:]
	}
	if filter.Limit > 0 && len(result) > filter.Limit {
		result = result[:filter.Limit]
	}
	return result, nil
}

// CountPersons returns the number of stored persons.
func (m *RelationalDB) CountPersons(_ context.Context) (int, error) {
	return len(m.Persons), m.Err
}

// DeletePerson removes a person and their relationships.
func (m *RelationalDB) DeletePerson(_ context.Context, id int64) error {
	if m.Err != nil {
		return m.Err
	}
	if _, ok := m.Persons[id]; !ok {
		return fmt.Errorf("person not found: %d", id)
	}
	delete(m.Persons, id)
	for relID, rel := range m.Relationships {
		if rel.Involves(id) {
			delete(m.Relationships, relID)
		}
	}
	return nil
}

// Relationship methods.

// RelationshipExists checks the canonical pair.
func (m *RelationalDB) RelationshipExists(ctx context.Context, personA, personB int64) (bool, error) {
	rel, err := m.FindRelationshipBetween(ctx, personA, personB)
	return rel != nil, err
}

// FindRelationshipBetween finds the relationship for the pair in either order.
func (m *RelationalDB) FindRelationshipBetween(_ context.Context, personA, personB int64) (*entities.PersonRelationship, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	a, b := min(personA, personB), max(personA, personB)
	for _, rel := range m.Relationships {
		if rel.PersonAID == a && rel.PersonBID == b {
			copied := *rel
			return &copied, nil
		}
	}
	return nil, nil
}

// CreateRelationship stores a canonical relationship.
func (m *RelationalDB) CreateRelationship(ctx context.Context, rel *entities.PersonRelationship) (int64, error) {
	m.CreateRelationshipCallCount++
	if m.Err != nil {
		return 0, m.Err
	}
	if m.CreateRelationshipHook != nil {
		if err := m.CreateRelationshipHook(rel); err != nil {
			return 0, err
		}
	}
	if err := rel.Validate(); err != nil {
		return 0, err
	}
	if existing, _ := m.FindRelationshipBetween(ctx, rel.PersonAID, rel.PersonBID); existing != nil {
		return 0, entities.ErrRelationshipExists
	}

	m.nextRelID++
	stored := *rel
	stored.ID = m.nextRelID
	stored.CreatedAt = time.Now()
	stored.UpdatedAt = stored.CreatedAt
	m.Relationships[stored.ID] = &stored
	return stored.ID, nil
}

// FindRelationshipsByPerson returns relationships involving personID, ordered by id.
func (m *RelationalDB) FindRelationshipsByPerson(_ context.Context, personID int64) ([]entities.PersonRelationship, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	var result []entities.PersonRelationship
	for _, rel := range m.Relationships {
		if rel.Involves(personID) {
			result = append(result, *rel)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// ListRelationships returns every relationship ordered by id.
func (m *RelationalDB) ListRelationships(_ context.Context) ([]entities.PersonRelationship, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	result := make([]entities.PersonRelationship, 0, len(m.Relationships))
	for _, rel := range m.Relationships {
		result = append(result, *rel)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// UpdateRelationshipNotes replaces a relationship's notes.
func (m *RelationalDB) UpdateRelationshipNotes(_ context.Context, id int64, notes string) error {
	if m.Err != nil {
		return m.Err
	}
	rel, ok := m.Relationships[id]
	if !ok {
		return fmt.Errorf("relationship not found: %d", id)
	}
	rel.Notes = notes
	rel.UpdatedAt = time.Now()
	return nil
}

// DeleteRelationship deletes a relationship by ID.
func (m *RelationalDB) DeleteRelationship(_ context.Context, id int64) error {
	if m.Err != nil {
		return m.Err
	}
	if _, ok := m.Relationships[id]; !ok {
		return fmt.Errorf("relationship not found: %d", id)
	}
	delete(m.Relationships, id)
	return nil
}

// CountRelationships returns the number of stored relationships.
func (m *RelationalDB) CountRelationships(_ context.Context) (int, error) {
	return len(m.Relationships), m.Err
}

// Audit log methods.

// LogAction appends to the in-memory audit log.
func (m *RelationalDB) LogAction(_ context.Context, action string, subject string, details map[string]any) error {
	if m.Err != nil {
		return m.Err
	}
	m.Audit = append(m.Audit, entities.AuditEntry{
		ID:        int64(len(m.Audit) + 1),
		Action:    action,
		Subject:   subject,
		Details:   details,
		CreatedAt: time.Now(),
	})
	return nil
}

// FindAuditLogByAction returns matching entries, newest first.
func (m *RelationalDB) FindAuditLogByAction(_ context.Context, action string, limit int) ([]entities.AuditEntry, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	var result []entities.AuditEntry
	for i := len(m.Audit) - 1; i >= 0; i-- {
		if action != "" && m.Audit[i].Action != action {
			continue
		}
		result = append(result, m.Audit[i])
		if limit > 0 && len(result) == limit {
			break
		}
	}
	return result, nil
}
