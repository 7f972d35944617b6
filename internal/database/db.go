package database

import (
	"context"
	"database/sql"
	"embed"
	"log/slog"
	"strings"
	"time"

	"github.com/mdobak/go-xerrors"
	"github.com/siahsang/forum/internal/utils/databaseutils"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

var ErrUnknownDriver = xerrors.Message("unknown database driver")

//go:embed schema/*.sql
var schemaFS embed.FS

type Config struct {
	Driver       string
	DSN          string
	MaxOpenConns int
	MaxIdleConns int
	MaxIdleTime  time.Duration
}

// DB owns the process-wide connection pool. It is opened once at startup and closed at shutdown.
type DB struct {
	log     *slog.Logger
	conn    *sql.DB
	dialect databaseutils.Dialect
}

// Open connects, verifies the connection and applies the embedded schema.
func Open(ctx context.Context, cfg Config, log *slog.Logger) (*DB, error) {
	var dialect databaseutils.Dialect
	dsn := cfg.DSN

	switch cfg.Driver {
	case DriverPostgres:
		dialect = databaseutils.Postgres
	case DriverSQLite:
		dialect = databaseutils.SQLite
		dsn = sqliteDSN(dsn)
	default:
		return nil, xerrors.Newf("%w: %q", ErrUnknownDriver, cfg.Driver)
	}

	conn, err := sql.Open(cfg.Driver, dsn)
	if err != nil {
		return nil, xerrors.New(err)
	}

	if dialect == databaseutils.SQLite {
		// One writer keeps in-memory databases alive and avoids SQLITE_BUSY.
		conn.SetMaxOpenConns(1)
	} else {
		conn.SetMaxOpenConns(cfg.MaxOpenConns)
		conn.SetMaxIdleConns(cfg.MaxIdleConns)
		conn.SetConnMaxIdleTime(cfg.MaxIdleTime)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := conn.PingContext(pingCtx); err != nil {
		_ = conn.Close()
		return nil, xerrors.New(err)
	}

	db := &DB{log: log, conn: conn, dialect: dialect}
	if err := db.migrate(ctx); err != nil {
		_ = conn.Close()
		return nil, err
	}

	log.Info("database ready", slog.String("driver", cfg.Driver))
	return db, nil
}

func sqliteDSN(dsn string) string {
	params := []string{"_pragma=foreign_keys(1)", "_time_format=sqlite"}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + strings.Join(params, "&")
}

func (db *DB) migrate(ctx context.Context) error {
	name := "schema/postgres.sql"
	if db.dialect == databaseutils.SQLite {
		name = "schema/sqlite.sql"
	}

	schema, err := schemaFS.ReadFile(name)
	if err != nil {
		return xerrors.New(err)
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if _, err := db.conn.ExecContext(ctx, string(schema)); err != nil {
		return xerrors.Newf("apply schema: %w", err)
	}
	return nil
}

func (db *DB) Conn() *sql.DB {
	return db.conn
}

func (db *DB) Dialect() databaseutils.Dialect {
	return db.dialect
}

// SQLTemplate returns a query template bound to this pool.
func (db *DB) SQLTemplate(timeout time.Duration) *databaseutils.SQLTemplate {
	return databaseutils.NewSQLTemplate(db.conn, timeout, db.dialect)
}

func (db *DB) Session() databaseutils.Session {
	return databaseutils.NewSession(db.conn)
}

func (db *DB) Close() error {
	if err := db.conn.Close(); err != nil {
		return xerrors.New(err)
	}
	db.log.Info("database connection closed")
	return nil
}
