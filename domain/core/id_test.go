package core

import (
	"errors"
	"testing"
)

// TestNewIDUniqueness tests that NewID generates unique identifiers
func TestNewIDUniqueness(t *testing.T) {
	const numIDs = 10000

	ids := make(map[ID]bool, numIDs)
	for i := 0; i < numIDs; i++ {
		id := NewID()
		if id.IsEmpty() {
			t.Errorf("Generated empty ID at iteration %d", i)
		}
		if ids[id] {
			t.Errorf("Generated duplicate ID: %s", id)
		}
		ids[id] = true
	}

	if len(ids) != numIDs {
		t.Errorf("Expected %d unique IDs, got %d", numIDs, len(ids))
	}
}

// TestIDString tests ID string conversion
func TestIDString(t *testing.T) {
	id := ID("test-123")
	if id.String() != "test-123" {
		t.Errorf("Expected String() to return 'test-123', got '%s'", id.String())
	}
}

// TestIDIsEmpty tests ID emptiness check
func TestIDIsEmpty(t *testing.T) {
	emptyID := ID("")
	if !emptyID.IsEmpty() {
		t.Error("Expected empty ID to be empty")
	}

	nonEmptyID := ID("not-empty")
	if nonEmptyID.IsEmpty() {
		t.Error("Expected non-empty ID to not be empty")
	}
}

func TestParseID(t *testing.T) {
	id := NewID()
	parsed, ok := ParseID(id.String())
	if !ok || parsed != id {
		t.Errorf("Expected %s to round-trip, got %q ok=%v", id, parsed, ok)
	}

	if _, ok := ParseID("not-a-uuid"); ok {
		t.Error("Expected garbage to be rejected")
	}
}

func TestHashFingerprint(t *testing.T) {
	a := NewHash([]byte("x,y\n1,2\n"))
	b := NewHash([]byte("x,y\n1,2\n"))
	c := NewHash([]byte("x,y\n1,3\n"))

	if len(a) != 16 {
		t.Errorf("Expected 16 hex chars, got %q", a)
	}
	if !a.Equals(b) {
		t.Error("Expected identical content to hash identically")
	}
	if a.Equals(c) {
		t.Error("Expected different content to hash differently")
	}

	s1 := ComputeSelectionHash(a, "x", "y", "10")
	s2 := ComputeSelectionHash(a, "x", "y", "12")
	s3 := ComputeSelectionHash(a, "xy", "", "10")
	if s1 == s2 || s1 == s3 {
		t.Error("Expected selection parts to change the selection hash")
	}
}

func TestErrorTaxonomy(t *testing.T) {
	tests := []struct {
		err         error
		input       bool
		computation bool
	}{
		{NewIngestionError("data.csv", "empty file"), true, false},
		{NewColumnSelectionError("age", "not found"), true, false},
		{NewTypeMismatchError("city", "categorical"), false, true},
		{NewInsufficientDataError(1), false, true},
		{NewLengthMismatchError(3, 4), false, true},
		{ErrDegenerateInput, false, true},
	}

	for _, tt := range tests {
		if got := IsInputError(tt.err); got != tt.input {
			t.Errorf("IsInputError(%v) = %v, want %v", tt.err, got, tt.input)
		}
		if got := IsComputationError(tt.err); got != tt.computation {
			t.Errorf("IsComputationError(%v) = %v, want %v", tt.err, got, tt.computation)
		}
	}

	if !errors.Is(NewLengthMismatchError(3, 4), ErrInsufficientData) {
		t.Error("Expected length mismatch to be an insufficient-data error")
	}
	if !IsNotFoundError(ErrNoDataset) {
		t.Error("Expected ErrNoDataset to be a not-found error")
	}
}
