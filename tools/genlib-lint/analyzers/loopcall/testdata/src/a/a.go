package a

import "context"

type Person struct{ ID int64 }

type PersonStore interface {
	FindPersonByID(ctx context.Context, id int64) (*Person, error)
	FindPersonsByIDs(ctx context.Context, ids []int64) ([]*Person, error)
	FindPersonByDirectoryName(ctx context.Context, name string) (*Person, error)
}

func bad(ctx context.Context, ids []int64, store PersonStore) {
	for _, id := range ids {
		store.FindPersonByID(ctx, id) // want "potential N\\+1: FindPersonByID called inside loop - use FindPersonsByIDs"
	}

	for i := 0; i < len(ids); i++ {
		for _, id := range ids[i:] {
			store.FindPersonByID(ctx, id) // want "potential N\\+1: FindPersonByID called inside loop"
		}
	}
}

func good(ctx context.Context, ids []int64, names []string, store PersonStore) {
	store.FindPersonsByIDs(ctx, ids)

	// Lookups by natural key have no batch form.
	for _, name := range names {
		store.FindPersonByDirectoryName(ctx, name)
	}
}
