// Package validation implements the ordered required-field checks shared by
// the domain services. Callers pattern-match on the exact error strings
// ("missing <field>", "0 quizId found", "<collection> is empty"), so the
// wording produced here is part of the API contract.
package validation

import (
	"errors"
	"fmt"
)

// MissingFieldError reports a required field that was absent from the input.
// Absence means the field was never supplied, not that it held a zero value.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return "missing " + e.Field
}

// EmptyCollectionError reports a collection that was supplied but holds no
// elements. This is a distinct failure from a missing field.
type EmptyCollectionError struct {
	Message string
}

func (e *EmptyCollectionError) Error() string {
	return e.Message
}

// ZeroFound builds the "<n> <item> found" empty-collection variant, e.g.
// "0 quizId found".
func ZeroFound(item string) *EmptyCollectionError {
	return &EmptyCollectionError{Message: fmt.Sprintf("0 %s found", item)}
}

// Empty builds the "<collection> is empty" empty-collection variant.
func Empty(collection string) *EmptyCollectionError {
	return &EmptyCollectionError{Message: collection + " is empty"}
}

// Check pairs a field name with whether the field was present in the input.
type Check struct {
	Name    string
	Present bool
}

// Field is a convenience constructor for a Check.
func Field(name string, present bool) Check {
	return Check{Name: name, Present: present}
}

// Require evaluates checks in declaration order and returns a
// MissingFieldError for the first absent field.
func Require(checks ...Check) error {
	for _, check := range checks {
		if !check.Present {
			return &MissingFieldError{Field: check.Name}
		}
	}
	return nil
}

// IsDomainError reports whether err is one of the typed validation failures.
func IsDomainError(err error) bool {
	var missing *MissingFieldError
	var empty *EmptyCollectionError
	return errors.As(err, &missing) || errors.As(err, &empty)
}
