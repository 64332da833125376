package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/ersonp/genlib/internal/domain/entities"
	"github.com/ersonp/genlib/internal/domain/ports"
)

// ErrRelationshipNotFound is returned when a relationship id does not exist.
var ErrRelationshipNotFound = errors.New("relationship not found")

// RelationshipService manages relationships between persons.
type RelationshipService struct {
	relationalDB ports.RelationalDB
	log          *slog.Logger
}

// NewRelationshipService creates a new RelationshipService.
func NewRelationshipService(relationalDB ports.RelationalDB, logger *slog.Logger) *RelationshipService {
	if logger == nil {
		logger = slog.Default()
	}
	return &RelationshipService{
		relationalDB: relationalDB,
		log:          logger,
	}
}

// Create records "person1 is relType to person2".
// It validates both persons exist and rejects a second record for the pair.
func (s *RelationshipService) Create(
	ctx context.Context,
	person1 int64,
	relType entities.RelationshipType,
	person2 int64,
) (*entities.PersonRelationship, error) {
	rel := entities.NewPersonRelationship(person1, person2, relType)
	if err := rel.Validate(); err != nil {
		return nil, err
	}

	found, err := s.relationalDB.FindPersonsByIDs(ctx, []int64{person1, person2})
	if err != nil {
		return nil, fmt.Errorf("checking persons exist: %w", err)
	}
	exists := make(map[int64]bool, len(found))
	for _, p := range found {
		exists[p.ID] = true
	}
	if !exists[person1] {
		return nil, fmt.Errorf("%w: %d", ErrPersonNotFound, person1)
	}
	if !exists[person2] {
		return nil, fmt.Errorf("%w: %d", ErrPersonNotFound, person2)
	}

	existing, err := s.relationalDB.FindRelationshipBetween(ctx, person1, person2)
	if err != nil {
		return nil, fmt.Errorf("checking existing relationship: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w (id: %d, %d is %s to %d)",
			entities.ErrRelationshipExists, existing.ID, person1, existing.RelationshipFrom(person1), person2)
	}

	id, err := s.relationalDB.CreateRelationship(ctx, rel)
	if err != nil {
		return nil, fmt.Errorf("saving relationship: %w", err)
	}
	rel.ID = id

	s.logAction(ctx, entities.AuditActionRelationshipCreate, id, map[string]any{
		"person_a_id":         rel.PersonAID,
		"person_b_id":         rel.PersonBID,
		"relationship_a_to_b": string(rel.RelationshipAToB),
	})

	return rel, nil
}

// ListForPerson returns every relationship of personID as seen from them,
// with the other person's display name filled in.
func (s *RelationshipService) ListForPerson(ctx context.Context, personID int64) ([]entities.RelationshipView, error) {
	rels, err := s.relationalDB.FindRelationshipsByPerson(ctx, personID)
	if err != nil {
		return nil, fmt.Errorf("finding relationships: %w", err)
	}

	otherIDs := make([]int64, 0, len(rels))
	for i := range rels {
		otherIDs = append(otherIDs, rels[i].OtherPersonID(personID))
	}

	others, err := s.relationalDB.FindPersonsByIDs(ctx, otherIDs)
	if err != nil {
		return nil, fmt.Errorf("finding related persons: %w", err)
	}
	names := make(map[int64]string, len(others))
	for _, p := range others {
		names[p.ID] = p.FullName()
	}

	views := make([]entities.RelationshipView, 0, len(rels))
	for i := range rels {
		other := rels[i].OtherPersonID(personID)
		name, ok := names[other]
		if !ok {
			name = entities.DisplayName("", "")
		}
		views = append(views, rels[i].ViewFrom(personID, name))
	}

	return views, nil
}

// FindBetween finds the relationship between two persons in either order.
func (s *RelationshipService) FindBetween(ctx context.Context, personA, personB int64) (*entities.PersonRelationship, error) {
	return s.relationalDB.FindRelationshipBetween(ctx, personA, personB)
}

// UpdateNotes replaces the notes on a relationship.
func (s *RelationshipService) UpdateNotes(ctx context.Context, id int64, notes string) error {
	if err := s.relationalDB.UpdateRelationshipNotes(ctx, id, notes); err != nil {
		return fmt.Errorf("updating relationship notes: %w", err)
	}
	return nil
}

// Delete removes a relationship.
func (s *RelationshipService) Delete(ctx context.Context, id int64) error {
	if err := s.relationalDB.DeleteRelationship(ctx, id); err != nil {
		return fmt.Errorf("deleting relationship: %w", err)
	}

	s.logAction(ctx, entities.AuditActionRelationshipDelete, id, nil)
	return nil
}

// Count returns the total number of relationships.
func (s *RelationshipService) Count(ctx context.Context) (int, error) {
	return s.relationalDB.CountRelationships(ctx)
}

// logAction records to the audit log. A failed write is logged, not returned,
// since the change itself already succeeded.
func (s *RelationshipService) logAction(ctx context.Context, action string, id int64, details map[string]any) {
	if err := s.relationalDB.LogAction(ctx, action, strconv.FormatInt(id, 10), details); err != nil {
		s.log.Warn("audit log write failed", slog.String("action", action), slog.String("error", err.Error()))
	}
}
