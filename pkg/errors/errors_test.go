package errors

import (
	"errors"
	"strings"
	"testing"
)

func TestSchemaError(t *testing.T) {
	err := NewSchemaError("data/master/master_timeline.csv", "events", []string{"date", "event"})

	if !IsSchemaMismatch(err) {
		t.Error("SchemaError should match ErrSchemaMismatch")
	}
	if !errors.Is(err, ErrSchemaMismatch) {
		t.Error("errors.Is should match ErrSchemaMismatch")
	}

	msg := err.Error()
	for _, want := range []string{"master_timeline.csv", "events", "date"} {
		if !strings.Contains(msg, want) {
			t.Errorf("error message %q missing %q", msg, want)
		}
	}
}

func TestSchemaErrorWithoutFile(t *testing.T) {
	err := NewSchemaError("", "people", []string{"person"})
	if strings.Contains(err.Error(), ": :") {
		t.Errorf("unexpected formatting: %q", err.Error())
	}
}

func TestValidationError(t *testing.T) {
	err := NewValidationError("date", "not-a-date", "unrecognized format")
	if !IsValidationError(err) {
		t.Error("ValidationError should match ErrInvalidInput")
	}
}

func TestIOErrorUnwrap(t *testing.T) {
	inner := errors.New("disk full")
	err := NewIOError("write", "/tmp/x.csv", inner)
	if !errors.Is(err, inner) {
		t.Error("IOError should unwrap to the inner error")
	}
}

func TestMergeErrorUnwrap(t *testing.T) {
	inner := NewSchemaError("batch.csv", "events", []string{"date"})
	err := NewMergeError("events", "batch.csv", inner)
	if !errors.Is(err, ErrSchemaMismatch) {
		t.Error("MergeError wrapping a SchemaError should still match ErrSchemaMismatch")
	}
}

func TestWrapIONil(t *testing.T) {
	if WrapIO("read", "x", nil) != nil {
		t.Error("WrapIO(nil) should return nil")
	}
	if WrapParse("csv", "x", nil) != nil {
		t.Error("WrapParse(nil) should return nil")
	}
}
