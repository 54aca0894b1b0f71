package schedule

import (
	"context"
	"errors"
)

// ErrNotSignedIn rejects a write before it reaches the store. Callers show it
// to the user as a sign-in problem, not a store failure.
var ErrNotSignedIn = errors.New("you must be signed in to change events")

// Source is the capability a session's event backend must provide. Exactly
// one concrete Source is active per session: the SQLite-backed store for
// signed-in users, the in-memory guest buffer otherwise. Switching is
// one-way, a guest session never regains the store.
//
// Every mutator is refresh-after-write: it returns the freshly listed
// collection instead of patching the previous one, so callers only ever
// display the result of the last successful read.
type Source interface {
	List(ctx context.Context) ([]Event, error)
	Create(ctx context.Context, draft EventDraft) ([]Event, error)
	Update(ctx context.Context, event Event) ([]Event, error)
	Delete(ctx context.Context, id string) ([]Event, error)
}
