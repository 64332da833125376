package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/genlib/internal/domain/entities"
	"github.com/ersonp/genlib/internal/domain/mocks"
	"github.com/ersonp/genlib/internal/domain/ports"
	"github.com/ersonp/genlib/internal/infrastructure/logging"
)

func TestPersonService_Get(t *testing.T) {
	db := mocks.NewRelationalDB()
	ids := seedPersons(db, "Olof")
	svc := NewPersonService(db, db, logging.Discard())

	p, err := svc.Get(context.Background(), ids[0])
	require.NoError(t, err)
	assert.Equal(t, "Olof Berg", p.FullName())

	_, err = svc.Get(context.Background(), 42)
	assert.ErrorIs(t, err, ErrPersonNotFound)

	db.Err = errors.New("database is closed")
	_, err = svc.Get(context.Background(), ids[0])
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrPersonNotFound)
}

func TestPersonService_ListAndCount(t *testing.T) {
	db := mocks.NewRelationalDB()
	db.AddPerson(&entities.Person{Firstname: "Olof", Surname: "Berg", DirectoryName: "olof_berg", Living: true})
	db.AddPerson(&entities.Person{Firstname: "Eva", Surname: "Ek", DirectoryName: "eva_ek"})
	db.AddPerson(&entities.Person{Firstname: "Anna", Surname: "Berg", DirectoryName: "anna_berg"})
	svc := NewPersonService(db, db, logging.Discard())
	ctx := context.Background()

	all, err := svc.List(ctx, ports.PersonFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Anna", all[0].Firstname)
	assert.Equal(t, "Olof", all[1].Firstname)
	assert.Equal(t, "Eva", all[2].Firstname)

	bergs, err := svc.List(ctx, ports.PersonFilter{Name: "berg"})
	require.NoError(t, err)
	assert.Len(t, bergs, 2)

	living := true
	alive, err := svc.List(ctx, ports.PersonFilter{Living: &living})
	require.NoError(t, err)
	require.Len(t, alive, 1)
	assert.Equal(t, "Olof", alive[0].Firstname)

	page, err := svc.List(ctx, ports.PersonFilter{Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "Olof", page[0].Firstname)

	count, err := svc.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestPersonService_Delete(t *testing.T) {
	db := mocks.NewRelationalDB()
	ids := seedPersons(db, "Olof", "Lars")
	_, err := db.CreateRelationship(context.Background(), entities.NewPersonRelationship(ids[0], ids[1], entities.RelationParent))
	require.NoError(t, err)
	svc := NewPersonService(db, db, logging.Discard())

	require.NoError(t, svc.Delete(context.Background(), ids[0]))
	assert.Len(t, db.Persons, 1)
	assert.Empty(t, db.Relationships)

	require.Len(t, db.Audit, 1)
	assert.Equal(t, entities.AuditActionPersonDelete, db.Audit[0].Action)
	assert.Equal(t, "olof_berg", db.Audit[0].Details["directory_name"])

	err = svc.Delete(context.Background(), ids[0])
	assert.ErrorIs(t, err, ErrPersonNotFound)
}
