package models

import (
	"strings"
	"time"

	dErrors "roster/pkg/domain-errors"
)

// Person is the data a caller supplies for a record.
type Person struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	DateOfBirth string `json:"date_of_birth"`
}

// Record is a Person at its current position in the store.
//
// Invariants:
//   - Index is 1-based and counts valid rows only
//   - Index is recomputed on every read and never persisted; deleting record N
//     shifts every later record down by one
type Record struct {
	Index int `json:"index"`
	Person
}

// Normalize trims surrounding whitespace from every field.
func (p Person) Normalize() Person {
	return Person{
		FirstName:   strings.TrimSpace(p.FirstName),
		LastName:    strings.TrimSpace(p.LastName),
		DateOfBirth: strings.TrimSpace(p.DateOfBirth),
	}
}

// Validate runs the field validators and collects every failure, each prefixed
// with its field label.
func (p Person) Validate(now time.Time) error {
	var fields []string
	if err := ValidateName(p.FirstName); err != nil {
		fields = append(fields, "First Name: "+err.Error())
	}
	if err := ValidateName(p.LastName); err != nil {
		fields = append(fields, "Last Name: "+err.Error())
	}
	if err := ValidateDateOfBirth(p.DateOfBirth, now); err != nil {
		fields = append(fields, "Date of Birth: "+err.Error())
	}
	if len(fields) > 0 {
		return dErrors.Validation(fields)
	}
	return nil
}

// Renumber assigns 1-based positions in slice order.
func Renumber(records []Record) []Record {
	for i := range records {
		records[i].Index = i + 1
	}
	return records
}
