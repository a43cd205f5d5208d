package engine

import (
	"fmt"
)

// Workflow hints embedded in rejection messages so operators always see the
// expected next step, not just a refusal.
const (
	HintSaintKitts = "Upload → Validate → Release"
	HintNevis      = "Upload → Validate → Transfer → Nevis receive → Release"
)

func hintFor(nevis bool) string {
	if nevis {
		return HintNevis
	}
	return HintSaintKitts
}

// ValidationError reports caller-correctable input problems (empty barcode,
// unknown destination). The operation is aborted with no state change.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// DuplicateError reports a barcode collision within the owner scope. Hard
// failure on single add; bulk import counts duplicates instead.
type DuplicateError struct {
	Barcode string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("a package with barcode %q already exists in this warehouse", e.Barcode)
}

// NotFoundError reports an id or barcode absent from the scope, distinct from
// a precondition failure so callers can render "doesn't exist" rather than
// "wrong state".
type NotFoundError struct {
	Ref string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("package %q does not exist in this warehouse", e.Ref)
}

// PreconditionError reports a transition attempted against the wrong state.
// It carries the attempted operation, the rule that failed, expected versus
// actual state and the workflow hint, enough for a precise user message.
type PreconditionError struct {
	Op       string
	Barcode  string
	Rule     string
	Expected string
	Actual   string
	Hint     string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("cannot %s package %q: %s (expected %s, got %s); workflow: %s",
		e.Op, e.Barcode, e.Rule, e.Expected, e.Actual, e.Hint)
}

// PersistenceError reports a durable-store failure. The engine keeps its
// prior in-memory collection, so a retry sees the last known-good state.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("failed to persist %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
