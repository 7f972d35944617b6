// Command seed creates the default forum categories. It is safe to run repeatedly.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/golang-cz/devslog"
	"github.com/siahsang/forum/internal/core"
	"github.com/siahsang/forum/internal/database"
	"github.com/siahsang/forum/internal/utils/envutils"
)

func main() {
	driver := flag.String("db-driver", envutils.String("FORUM_DB_DRIVER", database.DriverSQLite), "Database driver (postgres|sqlite)")
	dsn := flag.String("db-dsn", envutils.String("DATABASE_URL", "file:forum.db"), "Database DSN")
	flag.Parse()

	logger := slog.New(devslog.NewHandler(os.Stdout, &devslog.Options{
		HandlerOptions: &slog.HandlerOptions{Level: slog.LevelDebug},
	}))

	if err := run(logger, database.Config{Driver: *driver, DSN: *dsn, MaxOpenConns: 1}); err != nil {
		logger.Error("Errors seeding categories", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(logger *slog.Logger, cfg database.Config) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	db, err := database.Open(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	c := core.NewCore(logger, db.SQLTemplate(10*time.Second), db.Session(), nil)
	created, err := c.SeedCategories(ctx, core.DefaultCategories)
	if err != nil {
		return err
	}

	logger.Info("Categories seeded successfully", slog.Int("created", created), slog.Int("total", len(core.DefaultCategories)))
	return nil
}
