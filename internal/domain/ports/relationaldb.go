package ports

import (
	"context"

	"github.com/ersonp/genlib/internal/domain/entities"
)

// PersonFilter narrows ListPersons. Zero values mean "no constraint".
type PersonFilter struct {
	// Name matches a case-insensitive substring of firstname or surname.
	Name   string
	Living *bool
	Limit  int
	Offset int
}

// PersonStore persists persons keyed by their unique directory name.
type PersonStore interface {
	// FindPersonByDirectoryName returns nil, nil when no person has the name.
	FindPersonByDirectoryName(ctx context.Context, name string) (*entities.Person, error)

	// CreatePerson validates and inserts p, returning the new id.
	// A duplicate directory name yields entities.ErrDirectoryNameTaken.
	CreatePerson(ctx context.Context, p *entities.Person) (int64, error)

	// FindPersonByID returns nil, nil when the id is unknown.
	FindPersonByID(ctx context.Context, id int64) (*entities.Person, error)

	// FindPersonsByIDs returns the persons that exist among ids, in no particular order.
	FindPersonsByIDs(ctx context.Context, ids []int64) ([]*entities.Person, error)

	ListPersons(ctx context.Context, filter PersonFilter) ([]*entities.Person, error)

	CountPersons(ctx context.Context) (int, error)

	// DeletePerson removes the person and every relationship involving them.
	DeletePerson(ctx context.Context, id int64) error
}

// RelationshipStore persists canonical person relationships.
type RelationshipStore interface {
	// RelationshipExists checks the canonical pair regardless of argument order.
	RelationshipExists(ctx context.Context, personA, personB int64) (bool, error)

	// FindRelationshipBetween returns nil, nil when the pair is unrelated.
	FindRelationshipBetween(ctx context.Context, personA, personB int64) (*entities.PersonRelationship, error)

	// CreateRelationship inserts a canonical relationship and returns its id.
	// A second record for the same pair yields entities.ErrRelationshipExists.
	CreateRelationship(ctx context.Context, rel *entities.PersonRelationship) (int64, error)

	// FindRelationshipsByPerson returns every relationship on either side of personID.
	FindRelationshipsByPerson(ctx context.Context, personID int64) ([]entities.PersonRelationship, error)

	ListRelationships(ctx context.Context) ([]entities.PersonRelationship, error)

	UpdateRelationshipNotes(ctx context.Context, id int64, notes string) error

	DeleteRelationship(ctx context.Context, id int64) error

	CountRelationships(ctx context.Context) (int, error)
}

// AuditLog records user-visible actions.
type AuditLog interface {
	// LogAction logs an action to the audit log.
	LogAction(ctx context.Context, action string, subject string, details map[string]any) error

	// FindAuditLogByAction finds audit log entries by action type, newest first.
	// An empty action matches every entry.
	FindAuditLogByAction(ctx context.Context, action string, limit int) ([]entities.AuditEntry, error)
}

// RelationalDB is the full store used by the CLI.
type RelationalDB interface {
	PersonStore
	RelationshipStore
	AuditLog

	// EnsureSchema applies pending migrations.
	EnsureSchema(ctx context.Context) error

	// Close closes the database connection.
	Close() error
}
