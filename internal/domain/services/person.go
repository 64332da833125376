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

// ErrPersonNotFound is returned when a person id does not exist.
var ErrPersonNotFound = errors.New("person not found")

// PersonService manages stored persons.
type PersonService struct {
	persons ports.PersonStore
	audit   ports.AuditLog
	log     *slog.Logger
}

// NewPersonService creates a new PersonService.
func NewPersonService(persons ports.PersonStore, audit ports.AuditLog, logger *slog.Logger) *PersonService {
	if logger == nil {
		logger = slog.Default()
	}
	return &PersonService{
		persons: persons,
		audit:   audit,
		log:     logger,
	}
}

// Get returns the person with the given id or ErrPersonNotFound.
func (s *PersonService) Get(ctx context.Context, id int64) (*entities.Person, error) {
	p, err := s.persons.FindPersonByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("finding person: %w", err)
	}
	if p == nil {
		return nil, fmt.Errorf("%w: %d", ErrPersonNotFound, id)
	}
	return p, nil
}

// List returns persons matching filter, ordered by surname then firstname.
func (s *PersonService) List(ctx context.Context, filter ports.PersonFilter) ([]*entities.Person, error) {
	persons, err := s.persons.ListPersons(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("listing persons: %w", err)
	}
	return persons, nil
}

// Count returns the number of stored persons.
func (s *PersonService) Count(ctx context.Context) (int, error) {
	return s.persons.CountPersons(ctx)
}

// Delete removes a person and every relationship involving them.
func (s *PersonService) Delete(ctx context.Context, id int64) error {
	p, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := s.persons.DeletePerson(ctx, id); err != nil {
		return fmt.Errorf("deleting person: %w", err)
	}

	details := map[string]any{
		"name":           p.FullName(),
		"directory_name": p.DirectoryName,
	}
	if err := s.audit.LogAction(ctx, entities.AuditActionPersonDelete, strconv.FormatInt(id, 10), details); err != nil {
		s.log.Warn("audit log write failed", slog.String("action", entities.AuditActionPersonDelete), slog.String("error", err.Error()))
	}

	return nil
}
