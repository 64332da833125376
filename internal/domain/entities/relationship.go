package entities

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// RelationshipType is what one person is to another.
type RelationshipType string

const (
	RelationParent  RelationshipType = "parent"
	RelationChild   RelationshipType = "child"
	RelationSpouse  RelationshipType = "spouse"
	RelationSibling RelationshipType = "sibling"
)

var (
	ErrSelfRelationship        = errors.New("a person cannot be related to themselves")
	ErrNotCanonical            = errors.New("relationship is not in canonical order")
	ErrNotReciprocal           = errors.New("relationship sides are not reciprocal")
	ErrRelationshipExists      = errors.New("relationship already exists between these persons")
	ErrUnknownRelationshipType = errors.New("unknown relationship type")
)

// Reciprocal returns the type seen from the other side of the pair.
func (t RelationshipType) Reciprocal() RelationshipType {
	switch t {
	case RelationParent:
		return RelationChild
	case RelationChild:
		return RelationParent
	default:
		return t
	}
}

// IsValid reports whether t is one of the four known types.
func (t RelationshipType) IsValid() bool {
	switch t {
	case RelationParent, RelationChild, RelationSpouse, RelationSibling:
		return true
	}
	return false
}

func (t RelationshipType) String() string {
	return string(t)
}

// ParseRelationshipType converts user input to a RelationshipType.
// Gendered words are accepted and folded into the neutral type.
func ParseRelationshipType(s string) (RelationshipType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "parent", "father", "mother":
		return RelationParent, nil
	case "child", "son", "daughter":
		return RelationChild, nil
	case "spouse", "husband", "wife":
		return RelationSpouse, nil
	case "sibling", "brother", "sister":
		return RelationSibling, nil
	default:
		return "", fmt.Errorf("%w: %q (valid: parent, child, spouse, sibling)", ErrUnknownRelationshipType, s)
	}
}

// PersonRelationship is a single record per unordered pair of persons.
// PersonAID is always the smaller id; each side carries what that person
// is to the other.
type PersonRelationship struct {
	ID               int64            `json:"id"`
	PersonAID        int64            `json:"person_a_id"`
	PersonBID        int64            `json:"person_b_id"`
	RelationshipAToB RelationshipType `json:"relationship_a_to_b"`
	RelationshipBToA RelationshipType `json:"relationship_b_to_a"`
	Notes            string           `json:"notes,omitempty"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

// NewPersonRelationship builds the canonical record for the statement
// "person1 is relType to person2".
func NewPersonRelationship(person1, person2 int64, relType RelationshipType) *PersonRelationship {
	if person1 < person2 {
		return &PersonRelationship{
			PersonAID:        person1,
			PersonBID:        person2,
			RelationshipAToB: relType,
			RelationshipBToA: relType.Reciprocal(),
		}
	}
	return &PersonRelationship{
		PersonAID:        person2,
		PersonBID:        person1,
		RelationshipAToB: relType.Reciprocal(),
		RelationshipBToA: relType,
	}
}

// Validate checks the canonical ordering and reciprocity invariants.
func (r *PersonRelationship) Validate() error {
	if r.PersonAID == r.PersonBID {
		return ErrSelfRelationship
	}
	if r.PersonAID > r.PersonBID {
		return ErrNotCanonical
	}
	if !r.RelationshipAToB.IsValid() {
		return fmt.Errorf("%w: %q", ErrUnknownRelationshipType, r.RelationshipAToB)
	}
	if r.RelationshipBToA != r.RelationshipAToB.Reciprocal() {
		return ErrNotReciprocal
	}
	return nil
}

// Involves reports whether personID is one side of the pair.
func (r *PersonRelationship) Involves(personID int64) bool {
	return r.PersonAID == personID || r.PersonBID == personID
}

// OtherPersonID returns the id on the opposite side from personID.
func (r *PersonRelationship) OtherPersonID(personID int64) int64 {
	if r.PersonAID == personID {
		return r.PersonBID
	}
	return r.PersonAID
}

// RelationshipFrom returns what personID is to the other person.
func (r *PersonRelationship) RelationshipFrom(personID int64) RelationshipType {
	if r.PersonAID == personID {
		return r.RelationshipAToB
	}
	return r.RelationshipBToA
}

// RelationshipTo returns what the other person is to personID.
func (r *PersonRelationship) RelationshipTo(personID int64) RelationshipType {
	if r.PersonAID == personID {
		return r.RelationshipBToA
	}
	return r.RelationshipAToB
}

// SameTypes reports whether two records describe the pair identically.
func (r *PersonRelationship) SameTypes(other *PersonRelationship) bool {
	return r.RelationshipAToB == other.RelationshipAToB && r.RelationshipBToA == other.RelationshipBToA
}

// RelationshipView is a relationship seen from one person.
// Type is what the other person is to the viewer.
type RelationshipView struct {
	RelationshipID  int64            `json:"relationship_id"`
	OtherPersonID   int64            `json:"other_person_id"`
	OtherPersonName string           `json:"other_person_name"`
	Type            RelationshipType `json:"type"`
	Notes           string           `json:"notes,omitempty"`
}

// ViewFrom builds the view of r for personID.
func (r *PersonRelationship) ViewFrom(personID int64, otherName string) RelationshipView {
	return RelationshipView{
		RelationshipID:  r.ID,
		OtherPersonID:   r.OtherPersonID(personID),
		OtherPersonName: otherName,
		Type:            r.RelationshipTo(personID),
		Notes:           r.Notes,
	}
}
