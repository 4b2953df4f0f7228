package notify

import (
	"fmt"
	"testing"
)

func TestCenterCapEvictsOldestInserted(t *testing.T) {
	c := NewCenter()
	for i := 0; i < MaxItems; i++ {
		c.Add(Item{ID: fmt.Sprintf("n%d", i), Type: TypeTransaction})
	}
	if got := len(c.Items()); got != MaxItems {
		t.Fatalf("len = %d, want %d", got, MaxItems)
	}

	c.Add(Item{ID: "overf", Type: TypeTransaction})
	items := c.Items()
	if len(items) != MaxItems {
		t.Fatalf("len after overflow = %d, want %d", len(items), MaxItems)
	}
	if items[0].ID != "overf" {
		t.Fatalf("newest not at front: %s", items[0].ID)
	}
	// The first-inserted item (previously at the tail) is gone.
	for _, it := range items {
		if it.ID == "n0" {
			t.Fatal("oldest-inserted item survived eviction")
		}
	}
	if items[len(items)-1].ID != "n1" {
		t.Fatalf("tail = %s, want n1", items[len(items)-1].ID)
	}
}

func TestCenterUnreadCountNeverDrifts(t *testing.T) {
	c := NewCenter()

	check := func(stage string) {
		t.Helper()
		want := 0
		for _, it := range c.Items() {
			if !it.IsRead {
				want++
			}
		}
		if got := c.UnreadCount(); got != want {
			t.Fatalf("%s: UnreadCount = %d, list has %d unread", stage, got, want)
		}
	}

	a := c.Add(Item{Title: "a"})
	b := c.Add(Item{Title: "b"})
	c.Add(Item{Title: "c"})
	check("after adds")
	if c.UnreadCount() != 3 {
		t.Fatalf("unread = %d, want 3", c.UnreadCount())
	}

	c.MarkRead(a.ID)
	check("after mark one")
	if c.UnreadCount() != 2 {
		t.Fatalf("unread = %d, want 2", c.UnreadCount())
	}

	c.MarkRead(a.ID) // idempotent
	check("after repeated mark")

	c.Remove(b.ID)
	check("after remove")
	if c.UnreadCount() != 1 {
		t.Fatalf("unread = %d, want 1", c.UnreadCount())
	}

	c.MarkAllRead()
	check("after mark all")
	if c.UnreadCount() != 0 {
		t.Fatalf("unread = %d, want 0", c.UnreadCount())
	}

	c.Clear()
	check("after clear")
	if len(c.Items()) != 0 {
		t.Fatal("clear left items behind")
	}
}

func TestCenterMarkReadPreservesFields(t *testing.T) {
	c := NewCenter()
	added := c.Add(Item{Title: "Budget warning", Message: "80% of food budget used", Type: TypeBudgetThreshold, RelatedTransactionID: "tx1"})
	c.MarkRead(added.ID)

	got := c.Items()[0]
	if !got.IsRead {
		t.Fatal("item not marked read")
	}
	if got.Title != added.Title || got.Message != added.Message || got.Type != added.Type || got.RelatedTransactionID != "tx1" {
		t.Fatalf("fields mutated: %+v", got)
	}
}

func TestCenterAssignsIDAndDate(t *testing.T) {
	c := NewCenter()
	it := c.Add(Item{Title: "x"})
	if it.ID == "" {
		t.Fatal("expected generated ID")
	}
	if it.Date.IsZero() {
		t.Fatal("expected assigned date")
	}
}
