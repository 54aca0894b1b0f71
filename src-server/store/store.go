package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"smartschedule/src-server/model"
	"smartschedule/src-server/schedule"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Store adapts the events table to the schedule.Source contract for one
// signed-in user. It translates between the wire row (one combined
// start_date) and the application shape (separate date/time strings), and it
// caches the last successful List so a failed read leaves the previously
// shown collection untouched.
type Store struct {
	db     bun.IDB
	loc    *time.Location
	userID string

	mu       sync.Mutex
	snapshot []schedule.Event
}

var _ schedule.Source = (*Store)(nil)

func New(db bun.IDB, loc *time.Location, userID string) *Store {
	return &Store{db: db, loc: loc, userID: userID}
}

// Events returns the collection as of the last successful List.
func (s *Store) Events() []schedule.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]schedule.Event, len(s.snapshot))
	copy(out, s.snapshot)
	return out
}

func (s *Store) toEvent(row model.Event) schedule.Event {
	date, clock := schedule.SplitTimestamp(row.StartDate, s.loc)
	recurrence := row.Recurrence
	if recurrence == "" {
		recurrence = schedule.RecurrenceNone
	}
	return schedule.Event{
		ID:          row.ID,
		Title:       row.Title,
		Date:        date,
		Time:        clock,
		Description: row.Description,
		Category:    row.Category,
		Recurrence:  recurrence,
	}
}

func (s *Store) List(ctx context.Context) ([]schedule.Event, error) {
	rows := make([]model.Event, 0)
	if err := s.db.NewSelect().
		Model(&rows).
		Where("user_id = ?", s.userID).
		Order("start_date ASC").
		Scan(ctx); err != nil {
		return nil, fmt.Errorf("(*Store).List: %w", err)
	}

	events := make([]schedule.Event, len(rows))
	for i, row := range rows {
		events[i] = s.toEvent(row)
	}

	s.mu.Lock()
	s.snapshot = events
	s.mu.Unlock()

	out := make([]schedule.Event, len(events))
	copy(out, events)
	return out, nil
}

// Create inserts a new wire row tagged with the caller's identity, then
// re-lists. An unbound user id is rejected before any database call.
func (s *Store) Create(ctx context.Context, draft schedule.EventDraft) ([]schedule.Event, error) {
	if s.userID == "" {
		return nil, schedule.ErrNotSignedIn
	}
	startDate, err := schedule.CombineDateTime(draft.Date, draft.Time, s.loc)
	if err != nil {
		return nil, fmt.Errorf("(*Store).Create: %w", err)
	}

	row := model.Event{
		ID:          uuid.NewString(),
		Title:       draft.Title,
		Description: draft.Description,
		Category:    draft.Category,
		Recurrence:  draft.Recurrence,
		StartDate:   startDate,
		UserID:      s.userID,
	}
	if row.Recurrence == "" {
		row.Recurrence = schedule.RecurrenceNone
	}
	if err := row.Upsert(ctx, s.db); err != nil {
		return nil, fmt.Errorf("(*Store).Create: %w", err)
	}

	return s.List(ctx)
}

// Update is a full-field overwrite keyed by id. Ownership is enforced by the
// user_id clause, the same way the remote store's row policy would.
func (s *Store) Update(ctx context.Context, event schedule.Event) ([]schedule.Event, error) {
	if s.userID == "" {
		return nil, schedule.ErrNotSignedIn
	}
	startDate, err := schedule.CombineDateTime(event.Date, event.Time, s.loc)
	if err != nil {
		return nil, fmt.Errorf("(*Store).Update: %w", err)
	}

	if _, err := s.db.NewUpdate().
		Model((*model.Event)(nil)).
		Set("title = ?", event.Title).
		Set("description = ?", event.Description).
		Set("category = ?", event.Category).
		Set("recurrence = ?", event.Recurrence).
		Set("start_date = ?", startDate).
		Set("updated_at = ?", time.Now().UTC().Unix()).
		Where("id = ?", event.ID).
		Where("user_id = ?", s.userID).
		Exec(ctx); err != nil {
		return nil, fmt.Errorf("(*Store).Update: %w", err)
	}

	return s.List(ctx)
}

func (s *Store) Delete(ctx context.Context, id string) ([]schedule.Event, error) {
	if s.userID == "" {
		return nil, schedule.ErrNotSignedIn
	}
	if _, err := s.db.NewDelete().
		Model((*model.Event)(nil)).
		Where("id = ?", id).
		Where("user_id = ?", s.userID).
		Exec(ctx); err != nil {
		return nil, fmt.Errorf("(*Store).Delete: %w", err)
	}

	return s.List(ctx)
}
