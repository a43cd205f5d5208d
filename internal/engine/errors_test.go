package engine

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestPreconditionErrorMessageContract(t *testing.T) {
	err := &PreconditionError{
		Op:       "release",
		Barcode:  "B-9",
		Rule:     "validation gate not passed",
		Expected: "upload status validated",
		Actual:   "uploaded",
		Hint:     HintSaintKitts,
	}

	msg := err.Error()
	// The message contract: what was attempted, why it was rejected
	// (expected vs actual), and the expected next workflow step.
	for _, part := range []string{"release", "B-9", "upload status validated", "uploaded", HintSaintKitts} {
		if !strings.Contains(msg, part) {
			t.Errorf("message %q missing %q", msg, part)
		}
	}
}

func TestTaxonomyErrorsAs(t *testing.T) {
	var (
		ve  *ValidationError
		de  *DuplicateError
		nfe *NotFoundError
		pe  *PreconditionError
		pse *PersistenceError
	)

	tests := []struct {
		err    error
		target any
		match  bool
	}{
		{&ValidationError{Field: "barcode", Reason: "empty"}, &ve, true},
		{&DuplicateError{Barcode: "X"}, &de, true},
		{&NotFoundError{Ref: "id-1"}, &nfe, true},
		{&PreconditionError{Op: "transfer"}, &pe, true},
		{&PersistenceError{Op: "save", Err: errors.New("boom")}, &pse, true},
		{&DuplicateError{Barcode: "X"}, &nfe, false},
		{&NotFoundError{Ref: "id-1"}, &pe, false},
	}

	for i, tt := range tests {
		got := false
		switch target := tt.target.(type) {
		case **ValidationError:
			got = errors.As(tt.err, target)
		case **DuplicateError:
			got = errors.As(tt.err, target)
		case **NotFoundError:
			got = errors.As(tt.err, target)
		case **PreconditionError:
			got = errors.As(tt.err, target)
		case **PersistenceError:
			got = errors.As(tt.err, target)
		}
		if got != tt.match {
			t.Errorf("case %d: errors.As = %v, want %v", i, got, tt.match)
		}
	}
}

func TestPersistenceErrorUnwrap(t *testing.T) {
	cause := errors.New("disk full")
	err := fmt.Errorf("op wrapper: %w", &PersistenceError{Op: "add", Err: cause})

	if !errors.Is(err, cause) {
		t.Error("PersistenceError should unwrap to its cause")
	}
}
