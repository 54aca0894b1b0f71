package model

import (
	"context"
	"fmt"
	"time"

	"smartschedule/src-server/schedule"

	"github.com/uptrace/bun"
)

// Event is the wire row shape: one combined start_date timestamp plus the
// owning user, which the application shape never sees.
type Event struct {
	bun.BaseModel `bun:"table:events"`

	ID          string `bun:"id,pk"`          // required
	Title       string `bun:"title,notnull"`  // required
	Description string `bun:"description"`
	Category    string `bun:"category"`
	Recurrence  string `bun:"recurrence"`

	StartDate int64 `bun:"start_date,notnull"` // required, unix seconds

	UserID string `bun:"user_id,notnull"` // required, assigned at creation

	CreatedAt int64 `bun:"created_at,notnull"`
	UpdatedAt int64 `bun:"updated_at"`
}

func (e *Event) Upsert(ctx context.Context, db bun.IDB) error {
	switch {
	case e.ID == "":
		return fmt.Errorf("(*Event).Upsert: event id is blank")
	case e.Title == "":
		return fmt.Errorf("(*Event).Upsert: title is blank")
	case e.StartDate == 0:
		return fmt.Errorf("(*Event).Upsert: start date is blank")
	case e.UserID == "":
		return fmt.Errorf("(*Event).Upsert: user id is blank")
	case !schedule.ValidCategory(e.Category):
		return fmt.Errorf("(*Event).Upsert: unknown category %q", e.Category)
	case !schedule.ValidRecurrence(e.Recurrence):
		return fmt.Errorf("(*Event).Upsert: unknown recurrence %q", e.Recurrence)
	}
	if e.CreatedAt == 0 {
		e.CreatedAt = time.Now().UTC().Unix()
	}

	exists, err := db.NewSelect().
		Model((*Event)(nil)).
		Where("id = ?", e.ID).
		Exists(ctx)
	if err != nil {
		return fmt.Errorf("(*Event).Upsert: %w", err)
	}

	switch exists {
	case true:
		e.UpdatedAt = time.Now().UTC().Unix()
		if _, err := db.NewUpdate().
			Model(e).
			WherePK().
			Exec(ctx); err != nil {
			return fmt.Errorf("(*Event).Upsert: %w", err)
		}
	case false:
		if _, err := db.NewInsert().
			Model(e).
			Exec(ctx); err != nil {
			return fmt.Errorf("(*Event).Upsert: %w", err)
		}
	}

	return nil
}
