package model_test

import (
	"context"
	"database/sql"
	"testing"

	"smartschedule/src-server/model"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

func TestEventUpsert(t *testing.T) {
	// init db
	db, err := sql.Open(sqliteshim.ShimName, ":memory:")
	if err != nil {
		t.Error(err)
	}
	db.SetMaxOpenConns(1)
	bundb := bun.NewDB(db, sqlitedialect.New())

	if err := model.CreateSchema(bundb); err != nil {
		t.Error(err)
	}

	eventModel := model.Event{
		ID:         uuid.NewString(),
		Title:      "test",
		StartDate:  1709283600,
		Category:   "work",
		Recurrence: "none",
		UserID:     "user-test",
	}

	// insert
	if err := eventModel.Upsert(context.Background(), bundb); err != nil {
		t.Error(err)
	}
	if eventModel.CreatedAt == 0 {
		t.Error("created at not set on insert")
	}

	// case: row exists with the submitted fields
	func() {
		eventModelTest := new(model.Event)
		if err := bundb.NewSelect().
			Model(eventModelTest).
			Where("id = ?", eventModel.ID).
			Scan(context.Background()); err != nil {
			t.Error(err)
		}
		if eventModelTest.Title != eventModel.Title {
			t.Error("title not found")
		}
		if eventModelTest.UserID != "user-test" {
			t.Error("user id not found")
		}
	}()

	// case: second upsert updates in place
	func() {
		eventModel.Title = "test updated"
		if err := eventModel.Upsert(context.Background(), bundb); err != nil {
			t.Error(err)
		}
		if eventModel.UpdatedAt == 0 {
			t.Error("updated at not set on update")
		}
		count, err := bundb.NewSelect().
			Model((*model.Event)(nil)).
			Count(context.Background())
		if err != nil {
			t.Error(err)
		}
		if count != 1 {
			t.Error("upsert created a duplicate row")
		}
	}()

	// case: validation rejects bad rows before touching the db
	func() {
		for _, badModel := range []model.Event{
			{ID: "", Title: "t", StartDate: 1, UserID: "u"},
			{ID: "x", Title: "", StartDate: 1, UserID: "u"},
			{ID: "x", Title: "t", StartDate: 0, UserID: "u"},
			{ID: "x", Title: "t", StartDate: 1, UserID: ""},
			{ID: "x", Title: "t", StartDate: 1, UserID: "u", Category: "hobby"},
			{ID: "x", Title: "t", StartDate: 1, UserID: "u", Recurrence: "fortnightly"},
		} {
			if err := badModel.Upsert(context.Background(), bundb); err == nil {
				t.Errorf("expected validation error for %+v", badModel)
			}
		}
	}()
}
