package handler

import (
	"bytes"
	"strconv"
	"strings"
	"time"

	"roster/internal/records/models"
)

// PersonRequest is the body for create and update.
type PersonRequest struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	DateOfBirth string `json:"date_of_birth"`
}

// Prepare trims the fields and validates them against now.
func (r *PersonRequest) Prepare(now time.Time) (models.Person, error) {
	p := models.Person{
		FirstName:   r.FirstName,
		LastName:    r.LastName,
		DateOfBirth: r.DateOfBirth,
	}.Normalize()
	if err := p.Validate(now); err != nil {
		return models.Person{}, err
	}
	return p, nil
}

// RecordID accepts a JSON number or a numeric string.
type RecordID int

func (id *RecordID) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(bytes.Trim(b, `"`)))
	n, err := strconv.Atoi(s)
	if err != nil {
		return err
	}
	*id = RecordID(n)
	return nil
}

// UpdateRequest is the body for PUT /api/update_record.
type UpdateRequest struct {
	RecordID *RecordID `json:"record_id"`
	PersonRequest
}

// DeleteRequest is the body for DELETE /api/delete.
type DeleteRequest struct {
	RecordID *RecordID `json:"record_id"`
}
