// Package notify keeps the in-memory list of user-facing alerts produced
// by the aggregation layer: new transactions, budget threshold crossings,
// goal milestones, upcoming loan payments.
package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	TypeTransaction     Type = "transaction"
	TypeUpcomingBill    Type = "upcoming_bill"
	TypeGoalMilestone   Type = "goal_milestone"
	TypeBudgetThreshold Type = "budget_threshold"
	TypeBudgetExceeded  Type = "budget_exceeded"
)

// MaxItems caps the retained list; the oldest-inserted item is evicted
// when a new one pushes past the cap. Eviction follows insertion order,
// not item dates: callers always prepend newest-first, so the tail is the
// oldest appended record.
const MaxItems = 50

type (
	Type string

	Item struct {
		ID                   string
		Type                 Type
		Title                string
		Message              string
		Date                 time.Time
		IsRead               bool
		RelatedTransactionID string
		RelatedGoalID        string
	}
)

// Center holds notifications newest-first. The unread count is derived
// from the list after every mutation so it can never drift.
type Center struct {
	mu     sync.Mutex
	items  []Item
	unread int
}

func NewCenter() *Center {
	return &Center{}
}

// Add prepends an item, assigning an ID and timestamp when absent, and
// evicts past the cap.
func (c *Center) Add(item Item) Item {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	if item.Date.IsZero() {
		item.Date = time.Now()
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = append([]Item{item}, c.items...)
	if len(c.items) > MaxItems {
		c.items = c.items[:MaxItems]
	}
	c.recountLocked()
	return item
}

// Items returns a copy of the list, newest-first.
func (c *Center) Items() []Item {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Item, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Center) UnreadCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.unread
}

// MarkRead flips one item to read, preserving its other fields.
// Unknown IDs are a no-op.
func (c *Center) MarkRead(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.items {
		if c.items[i].ID == id {
			c.items[i].IsRead = true
			break
		}
	}
	c.recountLocked()
}

func (c *Center) MarkAllRead() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.items {
		c.items[i].IsRead = true
	}
	c.recountLocked()
}

// Remove deletes one item by ID.
func (c *Center) Remove(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.items {
		if c.items[i].ID == id {
			c.items = append(c.items[:i], c.items[i+1:]...)
			break
		}
	}
	c.recountLocked()
}

func (c *Center) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = nil
	c.recountLocked()
}

func (c *Center) recountLocked() {
	n := 0
	for i := range c.items {
		if !c.items[i].IsRead {
			n++
		}
	}
	c.unread = n
}
