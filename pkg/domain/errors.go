package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned when an identity cannot be resolved in a document.
var ErrNotFound = errors.New("not found")

// ErrDocumentNotFound is returned when a document ID cannot be found in the store.
var ErrDocumentNotFound = errors.New("document not found")

// ErrSequenceOwned is returned when a design that already owns a Sequence is given another.
var ErrSequenceOwned = errors.New("design already owns a sequence")

// InsertionError reports a violated precondition of CompileInsert.
type InsertionError struct {
	Design string // Identity of the design being compiled
	Reason string
}

func (e *InsertionError) Error() string {
	return fmt.Sprintf("insertion %s: %s", e.Design, e.Reason)
}

// AssemblyError reports an invalid primary structure or a violated precondition of Compile.
type AssemblyError struct {
	Design string
	Reason string
}

func (e *AssemblyError) Error() string {
	return fmt.Sprintf("assembly %s: %s", e.Design, e.Reason)
}

// MissingSequenceError reports a SubComponent whose design cannot supply
// elements, even after recursive compilation was attempted.
type MissingSequenceError struct {
	Design     string // Parent being compiled
	Component  string // Offending SubComponent identity
	Definition string // Design referenced by the SubComponent
	Err        error  // Underlying cause, if any
}

func (e *MissingSequenceError) Error() string {
	msg := fmt.Sprintf("assembly %s: sub-component %s (%s) has no resolvable sequence", e.Design, e.Component, e.Definition)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *MissingSequenceError) Unwrap() error {
	return e.Err
}

// CycleError reports a design that transitively contains itself.
// Path lists the identities walked, ending with the repeated one.
type CycleError struct {
	Path []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("cycle detected: %s", strings.Join(e.Path, " -> "))
}

// IdentityConflictError reports a requested identity that already exists.
type IdentityConflictError struct {
	Identity string
}

func (e *IdentityConflictError) Error() string {
	return fmt.Sprintf("identity %s already exists", e.Identity)
}
