package handlers

import (
	"context"
	"fmt"

	"github.com/ersonp/genlib/internal/domain/entities"
	"github.com/ersonp/genlib/internal/domain/services"
)

// ValidRelationTypes lists all valid relationship type strings.
var ValidRelationTypes = []string{"parent", "child", "sibling", "spouse"}

// RelationshipHandler handles relationship operations.
type RelationshipHandler struct {
	service *services.RelationshipService
}

// NewRelationshipHandler creates a new RelationshipHandler.
func NewRelationshipHandler(service *services.RelationshipService) *RelationshipHandler {
	return &RelationshipHandler{service: service}
}

// ListOptions configures relationship listing behavior.
type ListOptions struct {
	Type string // Filter by what the other person is (empty = all)
}

// ListResult contains the result of listing relationships.
type ListResult struct {
	PersonID      int64                       `json:"person_id"`
	Relationships []entities.RelationshipView `json:"relationships"`
}

// HandleCreate records "person1 is relType to person2".
func (h *RelationshipHandler) HandleCreate(
	ctx context.Context,
	person1 int64,
	relType string,
	person2 int64,
) (*entities.PersonRelationship, error) {
	rt, err := entities.ParseRelationshipType(relType)
	if err != nil {
		return nil, err
	}

	return h.service.Create(ctx, person1, rt, person2)
}

// HandleDelete removes a relationship by ID.
func (h *RelationshipHandler) HandleDelete(ctx context.Context, id int64) error {
	return h.service.Delete(ctx, id)
}

// HandleUpdateNotes replaces the notes on a relationship.
func (h *RelationshipHandler) HandleUpdateNotes(ctx context.Context, id int64, notes string) error {
	return h.service.UpdateNotes(ctx, id, notes)
}

// HandleList returns the relationships of a person as seen from them.
func (h *RelationshipHandler) HandleList(ctx context.Context, personID int64, opts ListOptions) (*ListResult, error) {
	views, err := h.service.ListForPerson(ctx, personID)
	if err != nil {
		return nil, fmt.Errorf("listing relationships: %w", err)
	}

	if opts.Type != "" {
		rt, err := entities.ParseRelationshipType(opts.Type)
		if err != nil {
			return nil, err
		}
		filtered := make([]entities.RelationshipView, 0, len(views))
		for i := range views {
			if views[i].Type == rt {
				filtered = append(filtered, views[i])
			}
		}
		views = filtered
	}

	return &ListResult{PersonID: personID, Relationships: views}, nil
}

// HandleFindBetween finds the relationship between two persons.
func (h *RelationshipHandler) HandleFindBetween(ctx context.Context, personA, personB int64) (*entities.PersonRelationship, error) {
	return h.service.FindBetween(ctx, personA, personB)
}

// HandleCount returns the total number of relationships.
func (h *RelationshipHandler) HandleCount(ctx context.Context) (int, error) {
	return h.service.Count(ctx)
}
