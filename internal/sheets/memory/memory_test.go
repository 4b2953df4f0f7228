package memory

import (
	"context"
	"testing"
	"time"

	"tally/internal/core"
)

func sample(id string) core.Transaction {
	return core.Transaction{
		ID:       id,
		Title:    "Coffee",
		Amount:   core.Money{Cents: 350},
		Category: core.CategoryFood,
		Date:     time.Now(),
	}
}

func TestAppendAndItems(t *testing.T) {
	s := New()
	ref, err := s.Append(context.Background(), sample("tx-1"))
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	if ref != "mem:1" {
		t.Errorf("ref = %q, want mem:1", ref)
	}
	if len(s.Items()) != 1 {
		t.Fatalf("items = %d, want 1", len(s.Items()))
	}
}

func TestAppendRejectsInvalid(t *testing.T) {
	s := New()
	if _, err := s.Append(context.Background(), core.Transaction{}); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestRemove(t *testing.T) {
	s := New()
	s.Append(context.Background(), sample("tx-1"))
	s.Append(context.Background(), sample("tx-2"))

	if err := s.Remove(context.Background(), "tx-1"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	items := s.Items()
	if len(items) != 1 || items[0].ID != "tx-2" {
		t.Fatalf("items after remove = %+v", items)
	}

	// Unknown IDs are not an error.
	if err := s.Remove(context.Background(), "missing"); err != nil {
		t.Fatalf("Remove(missing): %v", err)
	}
}
