package models

import (
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	dErrors "roster/pkg/domain-errors"
)

const (
	MinNameLength = 2
	MaxNameLength = 50

	// DateLayout is the only accepted date of birth format.
	DateLayout = "2006-01-02"
)

// Validator messages. They are user-facing and must stay stable.
const (
	MsgNameEmpty    = "Input cannot be empty. Please try again."
	MsgNameLength   = "Name must be between 2 and 50 characters long."
	MsgNameSpaces   = "Name must not contain spaces."
	MsgNameAlpha    = "Name must contain only alphabetical characters."
	MsgDateFormat   = "Invalid date format or incorrect date. Please use YYYY-MM-DD."
	MsgDateInFuture = "Date of birth cannot be in the future."
)

// ValidateName checks a first or last name. Checks run in order and only the
// first failure is reported. Length counts runes of the untrimmed input.
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return dErrors.New(dErrors.CodeValidation, MsgNameEmpty)
	}
	if n := utf8.RuneCountInString(name); n < MinNameLength || n > MaxNameLength {
		return dErrors.New(dErrors.CodeValidation, MsgNameLength)
	}
	if strings.Contains(name, " ") {
		return dErrors.New(dErrors.CodeValidation, MsgNameSpaces)
	}
	for _, r := range name {
		if !unicode.IsLetter(r) {
			return dErrors.New(dErrors.CodeValidation, MsgNameAlpha)
		}
	}
	return nil
}

// ValidateDateOfBirth accepts an exact YYYY-MM-DD calendar date that is not
// after now. The date is read as midnight in now's location.
func ValidateDateOfBirth(value string, now time.Time) error {
	dob, err := time.ParseInLocation(DateLayout, value, now.Location())
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeValidation, MsgDateFormat)
	}
	if dob.After(now) {
		return dErrors.New(dErrors.CodeValidation, MsgDateInFuture)
	}
	return nil
}
