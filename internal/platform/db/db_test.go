package db

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestNullIfEmpty(t *testing.T) {
	if value := NullIfEmpty(""); value != nil {
		t.Fatal("expected nil for empty string")
	}
	if value := NullIfEmpty("value"); value == nil {
		t.Fatal("expected value for non-empty string")
	}
}

func TestConstraintViolations(t *testing.T) {
	unique := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})
	if !IsUniqueViolation(unique) {
		t.Fatal("expected wrapped 23505 to be a unique violation")
	}
	if IsForeignKeyViolation(unique) {
		t.Fatal("unique violation is not a foreign key violation")
	}
	if !IsForeignKeyViolation(&pgconn.PgError{Code: "23503"}) {
		t.Fatal("expected 23503 to be a foreign key violation")
	}
	if IsUniqueViolation(errors.New("boom")) {
		t.Fatal("plain error is not a constraint violation")
	}
}
