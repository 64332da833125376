package entities

import (
	"errors"
	"strings"
	"time"
)

// MaxAge bounds the ages Age reports as plausible.
const MaxAge = 150

var (
	ErrMissingName        = errors.New("person must have a firstname or a surname")
	ErrDeathBeforeBirth   = errors.New("death date is before birth date")
	ErrEmptyDirectoryName = errors.New("directory name is required")
	ErrDirectoryNameTaken = errors.New("directory name is already in use")
)

// Person is a stored individual. DirectoryName is the natural key.
type Person struct {
	ID            int64      `json:"id"`
	Firstname     string     `json:"firstname,omitempty"`
	Surname       string     `json:"surname,omitempty"`
	Sex           string     `json:"sex,omitempty"`
	BirthDate     *time.Time `json:"birth_date,omitempty"`
	BirthPlace    string     `json:"birth_place,omitempty"`
	DeathDate     *time.Time `json:"death_date,omitempty"`
	DeathPlace    string     `json:"death_place,omitempty"`
	Living        bool       `json:"living"`
	DirectoryName string     `json:"directory_name"`
	Notes         string     `json:"notes,omitempty"`
	GedcomID      string     `json:"gedcom_id,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// FullName joins the name parts, falling back to "Unknown".
func (p *Person) FullName() string {
	return DisplayName(p.Firstname, p.Surname)
}

// DisplayName formats a first and last name for output.
func DisplayName(firstname, surname string) string {
	name := strings.TrimSpace(strings.TrimSpace(firstname) + " " + strings.TrimSpace(surname))
	if name == "" {
		return "Unknown"
	}
	return name
}

// Validate checks the fields the store requires before insert.
func (p *Person) Validate() error {
	if strings.TrimSpace(p.Firstname) == "" && strings.TrimSpace(p.Surname) == "" {
		return ErrMissingName
	}
	if p.BirthDate != nil && p.DeathDate != nil && p.DeathDate.Before(*p.BirthDate) {
		return ErrDeathBeforeBirth
	}
	if strings.TrimSpace(p.DirectoryName) == "" {
		return ErrEmptyDirectoryName
	}
	return nil
}

// Age returns completed years from birth to death, or to now for the living.
// The second return value is false when the birth date is unknown or the
// result falls outside 0..MaxAge.
func (p *Person) Age(now time.Time) (int, bool) {
	if p.BirthDate == nil {
		return 0, false
	}
	end := now
	if p.DeathDate != nil {
		end = *p.DeathDate
	}
	birth := *p.BirthDate

	years := end.Year() - birth.Year()
	if end.Month() < birth.Month() || (end.Month() == birth.Month() && end.Day() < birth.Day()) {
		years--
	}
	if years < 0 || years > MaxAge {
		return 0, false
	}
	return years, true
}
