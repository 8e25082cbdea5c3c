package postgres

import (
	"database/sql"
	"errors"
	"testing"
)

func TestIsNotFound(t *testing.T) {
	t.Parallel()

	if !isNotFound(sql.ErrNoRows) {
		t.Fatalf("sql.ErrNoRows not recognized")
	}
	if isNotFound(errors.New("boom")) {
		t.Fatalf("arbitrary error treated as not found")
	}
	if isNotFound(nil) {
		t.Fatalf("nil treated as not found")
	}
}

func TestNullableString(t *testing.T) {
	t.Parallel()

	if got := nullableString("  "); got != nil {
		t.Fatalf("blank string = %v, want nil", got)
	}
	got := nullableString(" Municipal ")
	if got == nil || *got != "Municipal" {
		t.Fatalf("got %v, want trimmed value", got)
	}
}

func TestStringOrEmpty(t *testing.T) {
	t.Parallel()

	if got := stringOrEmpty(nil); got != "" {
		t.Fatalf("nil = %q, want empty", got)
	}
	value := "La Vall"
	if got := stringOrEmpty(&value); got != "La Vall" {
		t.Fatalf("got %q", got)
	}
}
