package core

import (
	"errors"
	"testing"
)

func TestNewFeatureRecord(t *testing.T) {
	r, err := NewFeatureRecord("img-1", []float32{1, 2, 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.ID() != "img-1" || r.Dim() != 3 {
		t.Errorf("unexpected record: id=%v dim=%v", r.ID(), r.Dim())
	}
}

func TestNewFeatureRecordEmptyVector(t *testing.T) {
	_, err := NewFeatureRecord("img-1", nil)
	if !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestFeatureRecordEqualByID(t *testing.T) {
	a, _ := NewFeatureRecord("x", []float32{1})
	b, _ := NewFeatureRecord("x", []float32{2, 3})
	c, _ := NewFeatureRecord("y", []float32{1})
	if !a.Equal(b) {
		t.Errorf("expected records with same ID to be equal regardless of vector")
	}
	if a.Equal(c) {
		t.Errorf("expected records with different IDs to be unequal")
	}
}
