package schedule

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// GuestBuffer mirrors the store's four operations on a process-local slice.
// Nothing ever reaches disk or network, so no operation can fail; the
// contents are dropped when the guest session ends.
type GuestBuffer struct {
	mu       sync.Mutex
	events   []Event
	lastUsed time.Time
}

var _ Source = (*GuestBuffer)(nil)

func NewGuestBuffer() *GuestBuffer {
	return &GuestBuffer{lastUsed: time.Now()}
}

func (g *GuestBuffer) snapshot() []Event {
	out := make([]Event, len(g.events))
	copy(out, g.events)
	return out
}

func (g *GuestBuffer) List(ctx context.Context) ([]Event, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.lastUsed = time.Now()
	return g.snapshot(), nil
}

func (g *GuestBuffer) Create(ctx context.Context, draft EventDraft) ([]Event, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.lastUsed = time.Now()
	recurrence := draft.Recurrence
	if recurrence == "" {
		recurrence = RecurrenceNone
	}
	g.events = append(g.events, Event{
		ID:          uuid.NewString(),
		Title:       draft.Title,
		Date:        draft.Date,
		Time:        draft.Time,
		Description: draft.Description,
		Category:    draft.Category,
		Recurrence:  recurrence,
	})
	return g.snapshot(), nil
}

// Update replaces the element whose id matches; an unknown id is a no-op
// success, matching the buffer's cannot-fail contract.
func (g *GuestBuffer) Update(ctx context.Context, event Event) ([]Event, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.lastUsed = time.Now()
	for i := range g.events {
		if g.events[i].ID == event.ID {
			g.events[i] = event
			break
		}
	}
	return g.snapshot(), nil
}

func (g *GuestBuffer) Delete(ctx context.Context, id string) ([]Event, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.lastUsed = time.Now()
	kept := g.events[:0]
	for _, event := range g.events {
		if event.ID != id {
			kept = append(kept, event)
		}
	}
	g.events = kept
	return g.snapshot(), nil
}

// IdleSince reports how long ago the buffer was last touched; the sweeper
// uses it to drop abandoned guest sessions.
func (g *GuestBuffer) IdleSince() time.Duration {
	g.mu.Lock()
	defer g.mu.Unlock()
	return time.Since(g.lastUsed)
}
