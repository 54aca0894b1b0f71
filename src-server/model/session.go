package model

import (
	"context"
	"fmt"
	"time"

	"github.com/uptrace/bun"
)

type Session struct {
	bun.BaseModel `bun:"table:sessions"`

	Secret           string `bun:"secret,pk"`          // required
	UserID           string `bun:"user_id,notnull"`    // required
	CreatedAtUnixUTC int64  `bun:"created_at,notnull"` // required
}

// PurgeExpiredSessions drops sessions older than ttl; the middleware also
// rejects them lazily, this just keeps the table from growing forever.
func PurgeExpiredSessions(ctx context.Context, db bun.IDB, ttl time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-ttl).Unix()
	res, err := db.NewDelete().
		Model((*Session)(nil)).
		Where("created_at < ?", cutoff).
		Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("PurgeExpiredSessions: %w", err)
	}
	purged, err := res.RowsAffected()
	if err != nil {
		return 0, nil
	}
	return purged, nil
}
