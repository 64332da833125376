package services

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/dominikbraun/graph"

	"github.com/ersonp/genlib/internal/domain/entities"
	"github.com/ersonp/genlib/internal/domain/ports"
)

// ErrNoPath is returned when two persons are not connected.
var ErrNoPath = errors.New("no relationship path between these persons")

// TreeEntry is a person reached from a starting person.
// Generation 1 is parents (or children), 2 grandparents, and so on.
type TreeEntry struct {
	Person     *entities.Person `json:"person"`
	Generation int              `json:"generation"`
}

// PathStep is one person on a relationship path. Type is what this person
// is to the previous person on the path and is empty for the first step.
type PathStep struct {
	Person *entities.Person          `json:"person"`
	Type   entities.RelationshipType `json:"type,omitempty"`
}

// FamilyTreeService answers lineage questions over stored relationships.
type FamilyTreeService struct {
	relationalDB ports.RelationalDB
}

// NewFamilyTreeService creates a new FamilyTreeService.
func NewFamilyTreeService(relationalDB ports.RelationalDB) *FamilyTreeService {
	return &FamilyTreeService{relationalDB: relationalDB}
}

// kinship holds the two graph views of the stored relationships.
type kinship struct {
	// lineage has an edge parent -> child for every parent relationship.
	lineage graph.Graph[int64, int64]
	// related has an undirected edge for every relationship, carrying it as edge data.
	related graph.Graph[int64, int64]
}

func personHash(id int64) int64 { return id }

func (s *FamilyTreeService) load(ctx context.Context) (*kinship, error) {
	rels, err := s.relationalDB.ListRelationships(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing relationships: %w", err)
	}

	k := &kinship{
		lineage: graph.New(personHash, graph.Directed()),
		related: graph.New(personHash),
	}

	for i := range rels {
		rel := rels[i]
		for _, id := range []int64{rel.PersonAID, rel.PersonBID} {
			if err := addVertex(k.lineage, id); err != nil {
				return nil, err
			}
			if err := addVertex(k.related, id); err != nil {
				return nil, err
			}
		}

		if err := k.related.AddEdge(rel.PersonAID, rel.PersonBID, graph.EdgeData(rel)); err != nil && !errors.Is(err, graph.ErrEdgeAlreadyExists) {
			return nil, fmt.Errorf("adding relationship %d: %w", rel.ID, err)
		}

		parent, child, ok := parentAndChild(&rel)
		if !ok {
			continue
		}
		if err := k.lineage.AddEdge(parent, child); err != nil && !errors.Is(err, graph.ErrEdgeAlreadyExists) {
			return nil, fmt.Errorf("adding lineage %d: %w", rel.ID, err)
		}
	}

	return k, nil
}

func addVertex(g graph.Graph[int64, int64], id int64) error {
	if err := g.AddVertex(id); err != nil && !errors.Is(err, graph.ErrVertexAlreadyExists) {
		return fmt.Errorf("adding person %d: %w", id, err)
	}
	return nil
}

func parentAndChild(rel *entities.PersonRelationship) (int64, int64, bool) {
	switch rel.RelationshipAToB {
	case entities.RelationParent:
		return rel.PersonAID, rel.PersonBID, true
	case entities.RelationChild:
		return rel.PersonBID, rel.PersonAID, true
	default:
		return 0, 0, false
	}
}

// Ancestors returns the parents, grandparents and so on of personID in
// breadth-first order. generations <= 0 means no limit.
func (s *FamilyTreeService) Ancestors(ctx context.Context, personID int64, generations int) ([]TreeEntry, error) {
	return s.walk(ctx, personID, generations, func(g graph.Graph[int64, int64]) (map[int64]map[int64]graph.Edge[int64], error) {
		return g.PredecessorMap()
	})
}

// Descendants returns the children, grandchildren and so on of personID in
// breadth-first order. generations <= 0 means no limit.
func (s *FamilyTreeService) Descendants(ctx context.Context, personID int64, generations int) ([]TreeEntry, error) {
	return s.walk(ctx, personID, generations, func(g graph.Graph[int64, int64]) (map[int64]map[int64]graph.Edge[int64], error) {
		return g.AdjacencyMap()
	})
}

func (s *FamilyTreeService) walk(
	ctx context.Context,
	personID int64,
	generations int,
	neighbours func(graph.Graph[int64, int64]) (map[int64]map[int64]graph.Edge[int64], error),
) ([]TreeEntry, error) {
	if err := s.requirePerson(ctx, personID); err != nil {
		return nil, err
	}

	k, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	adjacency, err := neighbours(k.lineage)
	if err != nil {
		return nil, fmt.Errorf("reading lineage graph: %w", err)
	}

	depth := map[int64]int{personID: 0}
	var order []int64
	frontier := []int64{personID}
	for gen := 1; len(frontier) > 0 && (generations <= 0 || gen <= generations); gen++ {
		var next []int64
		for _, id := range frontier {
			for _, n := range sortedKeys(adjacency[id]) {
				if _, seen := depth[n]; seen {
					continue
				}
				depth[n] = gen
				order = append(order, n)
				next = append(next, n)
			}
		}
		frontier = next
	}

	persons, err := s.personsByID(ctx, order)
	if err != nil {
		return nil, err
	}

	entries := make([]TreeEntry, 0, len(order))
	for _, id := range order {
		p, ok := persons[id]
		if !ok {
			continue
		}
		entries = append(entries, TreeEntry{Person: p, Generation: depth[id]})
	}
	return entries, nil
}

// Path returns the shortest chain of relationships from one person to
// another, both ends included.
func (s *FamilyTreeService) Path(ctx context.Context, from, to int64) ([]PathStep, error) {
	if err := s.requirePerson(ctx, from); err != nil {
		return nil, err
	}
	if err := s.requirePerson(ctx, to); err != nil {
		return nil, err
	}

	type hop struct {
		prev int64
		typ  entities.RelationshipType
	}
	came := map[int64]hop{from: {}}

	if from != to {
		k, err := s.load(ctx)
		if err != nil {
			return nil, err
		}
		adjacency, err := k.related.AdjacencyMap()
		if err != nil {
			return nil, fmt.Errorf("reading relationship graph: %w", err)
		}

		queue := []int64{from}
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			if cur == to {
				break
			}
			for _, n := range sortedKeys(adjacency[cur]) {
				if _, seen := came[n]; seen {
					continue
				}
				rel, ok := adjacency[cur][n].Properties.Data.(entities.PersonRelationship)
				if !ok {
					continue
				}
				came[n] = hop{prev: cur, typ: rel.RelationshipFrom(n)}
				queue = append(queue, n)
			}
		}

		if _, ok := came[to]; !ok {
			return nil, fmt.Errorf("%w: %d and %d", ErrNoPath, from, to)
		}
	}

	var ids []int64
	var types []entities.RelationshipType
	for id := to; ; id = came[id].prev {
		ids = append(ids, id)
		types = append(types, came[id].typ)
		if id == from {
			break
		}
	}
	slices.Reverse(ids)
	slices.Reverse(types)

	persons, err := s.personsByID(ctx, ids)
	if err != nil {
		return nil, err
	}

	steps := make([]PathStep, len(ids))
	for i, id := range ids {
		steps[i] = PathStep{Person: persons[id], Type: types[i]}
	}
	return steps, nil
}

func (s *FamilyTreeService) requirePerson(ctx context.Context, id int64) error {
	p, err := s.relationalDB.FindPersonByID(ctx, id)
	if err != nil {
		return fmt.Errorf("finding person: %w", err)
	}
	if p == nil {
		return fmt.Errorf("%w: %d", ErrPersonNotFound, id)
	}
	return nil
}

func (s *FamilyTreeService) personsByID(ctx context.Context, ids []int64) (map[int64]*entities.Person, error) {
	if len(ids) == 0 {
		return map[int64]*entities.Person{}, nil
	}
	found, err := s.relationalDB.FindPersonsByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("finding persons: %w", err)
	}
	byID := make(map[int64]*entities.Person, len(found))
	for _, p := range found {
		byID[p.ID] = p
	}
	return byID, nil
}

func sortedKeys(m map[int64]graph.Edge[int64]) []int64 {
	keys := make([]int64, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
