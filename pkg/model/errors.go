package model

import (
	"errors"
	"fmt"
)

// Sentinel errors. Use errors.Is to test for them; the typed errors below
// unwrap to these.
var (
	ErrInvalidDuration      = errors.New("invalid duration")
	ErrNoEntryPoint         = errors.New("workflow has no entry point")
	ErrMissingFileReference = errors.New("missing file reference")
	ErrOutputExists         = errors.New("output already exists")
	ErrRootNameCollision    = errors.New("could not generate a unique entry action name")
	ErrDuplicateActionName  = errors.New("duplicate action name")
)

// DurationError reports a negative runtime or execution time.
type DurationError struct {
	Kind  string // "task" or "action"
	ID    string
	Value float64
}

func (e *DurationError) Error() string {
	return fmt.Sprintf("%s %q: %v: %gs is negative", e.Kind, e.ID, ErrInvalidDuration, e.Value)
}

func (e *DurationError) Unwrap() error {
	return ErrInvalidDuration
}

// MissingFileError reports an action that references a file absent from the
// file-size manifest.
type MissingFileError struct {
	Action    string
	File      string
	Direction string // "input" or "output"
}

func (e *MissingFileError) Error() string {
	return fmt.Sprintf("action %q: %v: %s file %q not in file manifest", e.Action, ErrMissingFileReference, e.Direction, e.File)
}

func (e *MissingFileError) Unwrap() error {
	return ErrMissingFileReference
}
