package core

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/mdobak/go-xerrors"
	"github.com/siahsang/forum/internal/utils/databaseutils"
)

// ImageStore persists processed profile pictures and returns their public path.
type ImageStore interface {
	SaveProfileImage(ctx context.Context, userID int64, encoded string) (string, error)
	Remove(publicPath string) error
}

// Core implements the forum use cases on top of the relational store.
type Core struct {
	log         *slog.Logger
	sqlTemplate *databaseutils.SQLTemplate
	session     databaseutils.Session
	images      ImageStore
	clock       func() time.Time
}

func NewCore(log *slog.Logger, sqlTemplate *databaseutils.SQLTemplate, session databaseutils.Session, images ImageStore) *Core {
	return &Core{
		log:         log,
		sqlTemplate: sqlTemplate,
		session:     session,
		images:      images,
		clock:       time.Now,
	}
}

// SetClock replaces the time source used for created_at/updated_at.
func (c *Core) SetClock(clock func() time.Time) {
	c.clock = clock
}

// now is truncated to microseconds, the precision Postgres keeps.
func (c *Core) now() time.Time {
	return c.clock().UTC().Truncate(time.Microsecond)
}

// scanID reads the id produced by an INSERT ... RETURNING id.
func scanID(rows *sql.Rows) (int64, error) {
	var id int64
	if err := rows.Scan(&id); err != nil {
		return 0, xerrors.New(err)
	}
	return id, nil
}
