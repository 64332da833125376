package handlers

import (
	"context"
	"errors"
	"time"

	"github.com/ersonp/genlib/internal/domain/entities"
	"github.com/ersonp/genlib/internal/domain/ports"
	"github.com/ersonp/genlib/internal/domain/services"
)

// DefaultListLimit caps person listings when no limit is given.
const DefaultListLimit = 50

// PersonHandler handles person queries.
type PersonHandler struct {
	persons       *services.PersonService
	relationships *services.RelationshipService
	now           func() time.Time
}

// NewPersonHandler creates a new PersonHandler.
func NewPersonHandler(persons *services.PersonService, relationships *services.RelationshipService) *PersonHandler {
	return &PersonHandler{
		persons:       persons,
		relationships: relationships,
		now:           time.Now,
	}
}

// PersonListOptions configures person listing.
type PersonListOptions struct {
	Name     string
	Living   bool
	Deceased bool
	Limit    int
	Offset   int
}

// PersonListResult is a page of persons plus the total stored.
type PersonListResult struct {
	Persons []*entities.Person `json:"persons"`
	Total   int                `json:"total"`
}

// PersonDetails is a person with their age and relationships.
type PersonDetails struct {
	Person        *entities.Person            `json:"person"`
	Age           int                         `json:"age,omitempty"`
	HasAge        bool                        `json:"-"`
	Relationships []entities.RelationshipView `json:"relationships"`
}

// HandleList lists persons.
func (h *PersonHandler) HandleList(ctx context.Context, opts PersonListOptions) (*PersonListResult, error) {
	if opts.Living && opts.Deceased {
		return nil, errors.New("--living and --deceased are mutually exclusive")
	}

	filter := ports.PersonFilter{
		Name:   opts.Name,
		Limit:  opts.Limit,
		Offset: opts.Offset,
	}
	if filter.Limit <= 0 {
		filter.Limit = DefaultListLimit
	}
	if opts.Living || opts.Deceased {
		living := opts.Living
		filter.Living = &living
	}

	persons, err := h.persons.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := h.persons.Count(ctx)
	if err != nil {
		return nil, err
	}

	return &PersonListResult{Persons: persons, Total: total}, nil
}

// HandleShow returns a person with their relationships.
func (h *PersonHandler) HandleShow(ctx context.Context, id int64) (*PersonDetails, error) {
	p, err := h.persons.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	views, err := h.relationships.ListForPerson(ctx, id)
	if err != nil {
		return nil, err
	}

	age, ok := p.Age(h.now())
	return &PersonDetails{
		Person:        p,
		Age:           age,
		HasAge:        ok,
		Relationships: views,
	}, nil
}

// HandleDelete removes a person and their relationships.
func (h *PersonHandler) HandleDelete(ctx context.Context, id int64) error {
	return h.persons.Delete(ctx, id)
}
