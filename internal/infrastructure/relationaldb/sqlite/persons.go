package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"github.com/ersonp/genlib/internal/domain/entities"
	"github.com/ersonp/genlib/internal/domain/ports"
)

var personColumns = []string{
	"id", "firstname", "surname", "sex",
	"birth_date", "birth_place", "death_date", "death_place",
	"living", "directory_name", "notes", "gedcom_id",
	"created_at", "updated_at",
}

// likeEscaper makes user text match literally inside a LIKE pattern.
var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

func selectPersons() sq.SelectBuilder {
	return sq.Select(personColumns...).From("persons")
}

// CreatePerson validates and inserts a person, returning the new id.
func (r *Repository) CreatePerson(ctx context.Context, p *entities.Person) (int64, error) {
	if err := p.Validate(); err != nil {
		return 0, err
	}

	now := timeNow()
	query, args, err := sq.Insert("persons").
		Columns(
			"firstname", "surname", "sex",
			"birth_date", "birth_place", "death_date", "death_place",
			"living", "directory_name", "notes", "gedcom_id",
			"created_at", "updated_at",
		).
		Values(
			p.Firstname, p.Surname, p.Sex,
			formatDate(p.BirthDate), p.BirthPlace, formatDate(p.DeathDate), p.DeathPlace,
			p.Living, p.DirectoryName, p.Notes, p.GedcomID,
			now, now,
		).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("building person insert: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("%w: %s", entities.ErrDirectoryNameTaken, p.DirectoryName)
		}
		return 0, fmt.Errorf("saving person: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading person id: %w", err)
	}
	return id, nil
}

// FindPersonByDirectoryName returns the person with the exact directory name.
func (r *Repository) FindPersonByDirectoryName(ctx context.Context, name string) (*entities.Person, error) {
	return r.findPerson(ctx, sq.Eq{"directory_name": name})
}

// FindPersonByID finds a person by ID.
func (r *Repository) FindPersonByID(ctx context.Context, id int64) (*entities.Person, error) {
	return r.findPerson(ctx, sq.Eq{"id": id})
}

func (r *Repository) findPerson(ctx context.Context, where sq.Eq) (*entities.Person, error) {
	query, args, err := selectPersons().Where(where).Limit(1).ToSql()
	if err != nil {
		return nil, fmt.Errorf("building person query: %w", err)
	}

	p, err := scanPerson(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// FindPersonsByIDs finds the persons that exist among ids.
func (r *Repository) FindPersonsByIDs(ctx context.Context, ids []int64) ([]*entities.Person, error) {
	if len(ids) == 0 {
		return []*entities.Person{}, nil
	}
	return r.queryPersons(ctx, selectPersons().Where(sq.Eq{"id": ids}).OrderBy("id"))
}

// ListPersons lists persons ordered by surname, firstname.
func (r *Repository) ListPersons(ctx context.Context, filter ports.PersonFilter) ([]*entities.Person, error) {
	builder := selectPersons().OrderBy("surname", "firstname", "id")

	if filter.Name != "" {
		pattern := "%" + likeEscaper.Replace(filter.Name) + "%"
		builder = builder.Where(sq.Or{
			sq.Expr(`firstname LIKE ? ESCAPE '\'`, pattern),
			sq.Expr(`surname LIKE ? ESCAPE '\'`, pattern),
		})
	}
	if filter.Living != nil {
		builder = builder.Where(sq.Eq{"living": *filter.Living})
	}
	if filter.Limit > 0 {
		builder = builder.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		// SQLite only accepts OFFSET after a LIMIT.
		if filter.Limit <= 0 {
			builder = builder.Limit(math.MaxInt64)
		}
		builder = builder.Offset(uint64(filter.Offset))
	}

	return r.queryPersons(ctx, builder)
}

// CountPersons returns the number of stored persons.
func (r *Repository) CountPersons(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM persons`).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting persons: %w", err)
	}
	return count, nil
}

// DeletePerson removes a person. Their relationships cascade.
func (r *Repository) DeletePerson(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM persons WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting person: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("person not found: %d", id)
	}
	return nil
}

func (r *Repository) queryPersons(ctx context.Context, builder sq.SelectBuilder) ([]*entities.Person, error) {
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("building person query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying persons: %w", err)
	}
	defer rows.Close()

	persons := make([]*entities.Person, 0, 16)
	for rows.Next() {
		p, err := scanPerson(rows)
		if err != nil {
			return nil, err
		}
		persons = append(persons, p)
	}
	return persons, rows.Err()
}

func scanPerson(row rowScanner) (*entities.Person, error) {
	var p entities.Person
	var birth, death sql.NullString

	err := row.Scan(
		&p.ID,
		&p.Firstname,
		&p.Surname,
		&p.Sex,
		&birth,
		&p.BirthPlace,
		&death,
		&p.DeathPlace,
		&p.Living,
		&p.DirectoryName,
		&p.Notes,
		&p.GedcomID,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("scanning person: %w", err)
	}

	if p.BirthDate, err = parseDate(birth); err != nil {
		return nil, err
	}
	if p.DeathDate, err = parseDate(death); err != nil {
		return nil, err
	}
	return &p, nil
}
