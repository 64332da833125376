package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/ersonp/genlib/internal/domain/entities"
)

var relationshipColumns = []string{
	"id", "person_a_id", "person_b_id",
	"relationship_a_to_b", "relationship_b_to_a",
	"notes", "created_at", "updated_at",
}

func selectRelationships() sq.SelectBuilder {
	return sq.Select(relationshipColumns...).From("person_relationships")
}

// CreateRelationship stores a canonical relationship and returns its id.
func (r *Repository) CreateRelationship(ctx context.Context, rel *entities.PersonRelationship) (int64, error) {
	if err := rel.Validate(); err != nil {
		return 0, err
	}

	now := timeNow()
	query, args, err := sq.Insert("person_relationships").
		Columns("person_a_id", "person_b_id", "relationship_a_to_b", "relationship_b_to_a", "notes", "created_at", "updated_at").
		Values(rel.PersonAID, rel.PersonBID, string(rel.RelationshipAToB), string(rel.RelationshipBToA), rel.Notes, now, now).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("building relationship insert: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, entities.ErrRelationshipExists
		}
		return 0, fmt.Errorf("saving relationship: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading relationship id: %w", err)
	}
	return id, nil
}

// RelationshipExists checks the canonical pair regardless of argument order.
func (r *Repository) RelationshipExists(ctx context.Context, personA, personB int64) (bool, error) {
	a, b := min(personA, personB), max(personA, personB)
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM person_relationships WHERE person_a_id = ? AND person_b_id = ?)`,
		a, b,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking relationship: %w", err)
	}
	return exists, nil
}

// FindRelationshipBetween finds the relationship for the pair in either order.
// Returns nil if the persons are not related.
func (r *Repository) FindRelationshipBetween(ctx context.Context, personA, personB int64) (*entities.PersonRelationship, error) {
	query, args, err := selectRelationships().
		Where(sq.Eq{"person_a_id": min(personA, personB), "person_b_id": max(personA, personB)}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building relationship query: %w", err)
	}

	rel, err := scanRelationship(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return rel, nil
}

// FindRelationshipsByPerson returns relationships on either side of personID, ordered by id.
func (r *Repository) FindRelationshipsByPerson(ctx context.Context, personID int64) ([]entities.PersonRelationship, error) {
	return r.queryRelationships(ctx, selectRelationships().
		Where(sq.Or{sq.Eq{"person_a_id": personID}, sq.Eq{"person_b_id": personID}}).
		OrderBy("id"))
}

// ListRelationships returns every relationship ordered by id.
func (r *Repository) ListRelationships(ctx context.Context) ([]entities.PersonRelationship, error) {
	return r.queryRelationships(ctx, selectRelationships().OrderBy("id"))
}

// UpdateRelationshipNotes replaces a relationship's notes.
func (r *Repository) UpdateRelationshipNotes(ctx context.Context, id int64, notes string) error {
	query, args, err := sq.Update("person_relationships").
		Set("notes", notes).
		Set("updated_at", timeNow()).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("building relationship update: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("updating relationship notes: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("relationship not found: %d", id)
	}
	return nil
}

// DeleteRelationship deletes a relationship by ID.
func (r *Repository) DeleteRelationship(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM person_relationships WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting relationship: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("relationship not found: %d", id)
	}
	return nil
}

// CountRelationships returns the number of stored relationships.
func (r *Repository) CountRelationships(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM person_relationships`).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting relationships: %w", err)
	}
	return count, nil
}

func (r *Repository) queryRelationships(ctx context.Context, builder sq.SelectBuilder) ([]entities.PersonRelationship, error) {
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("building relationship query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying relationships: %w", err)
	}
	defer rows.Close()

	var relationships []entities.PersonRelationship
	for rows.Next() {
		rel, err := scanRelationship(rows)
		if err != nil {
			return nil, err
		}
		relationships = append(relationships, *rel)
	}
	return relationships, rows.Err()
}

func scanRelationship(row rowScanner) (*entities.PersonRelationship, error) {
	var rel entities.PersonRelationship
	var aToB, bToA string

	err := row.Scan(
		&rel.ID,
		&rel.PersonAID,
		&rel.PersonBID,
		&aToB,
		&bToA,
		&rel.Notes,
		&rel.CreatedAt,
		&rel.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("scanning relationship: %w", err)
	}

	rel.RelationshipAToB = entities.RelationshipType(aToB)
	rel.RelationshipBToA = entities.RelationshipType(bToA)
	return &rel, nil
}
