package model

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidTimeSlot = errors.New("invalid timeslot")
	ErrDuplicateCode   = errors.New("duplicate code")
	ErrUnknownDay      = errors.New("unknown day")
)

// DanglingReferenceError is returned whenever an entity references another one that is not part of the catalog.
// It is a configuration error: the engine never treats a missing reference as "no constraint".
type DanglingReferenceError struct {
	Entity    string // Kind of the referencing entity (e.g. "course")
	Key       string // Code or index of the referencing entity
	Field     string // Referencing field (e.g. "teacher")
	Reference string // Value that could not be resolved
}

func (err *DanglingReferenceError) Error() string {
	return fmt.Sprintf("%v %q references unknown %v %q", err.Entity, err.Key, err.Field, err.Reference)
}

func danglingIndex(entity string, key string, field string, reference uint64) error {
	return &DanglingReferenceError{Entity: entity, Key: key, Field: field, Reference: fmt.Sprint(reference)}
}
