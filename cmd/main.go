package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/golang-cz/devslog"
	"github.com/siahsang/forum/internal/auth"
	"github.com/siahsang/forum/internal/core"
	"github.com/siahsang/forum/internal/database"
	"github.com/siahsang/forum/internal/imaging"
)

type application struct {
	config config
	logger *slog.Logger
	core   *core.Core
	tokens *auth.TokenIssuer
	images *imaging.Processor
}

func main() {
	cfg, err := loadConfig(os.Args[1:])
	if err != nil {
		slog.Error("Invalid configuration", slog.String("error", err.Error()))
		os.Exit(2)
	}

	logger := configLogger(cfg.logFormat)
	logger.Info("Starting application...", slog.String("env", cfg.env))

	db, err := database.Open(context.Background(), database.Config{
		Driver:       cfg.db.driver,
		DSN:          cfg.db.dsn,
		MaxOpenConns: cfg.db.maxOpenConns,
		MaxIdleConns: cfg.db.maxIdleConns,
		MaxIdleTime:  cfg.db.maxIdleTime,
	}, logger)
	if err != nil {
		logger.Error("Errors opening database connection", slog.String("error", err.Error()))
		os.Exit(1)
	}

	app, err := newApplication(cfg, logger, db)
	if err == nil {
		err = app.serve()
	}

	if closeErr := db.Close(); closeErr != nil {
		logger.Error("Errors closing database connection", slog.String("error", closeErr.Error()))
	}
	if err != nil {
		logger.Error("Server stopped with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func newApplication(cfg config, logger *slog.Logger, db *database.DB) (*application, error) {
	tokens, err := auth.NewTokenIssuer(cfg.jwt.secret, cfg.jwt.ttl)
	if err != nil {
		return nil, err
	}

	images := imaging.NewProcessor(cfg.uploadDir, logger)

	return &application{
		config: cfg,
		logger: logger,
		core:   core.NewCore(logger, db.SQLTemplate(cfg.db.queryTimeout), db.Session(), images),
		tokens: tokens,
		images: images,
	}, nil
}

func configLogger(format string) *slog.Logger {
	if format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}

	handler := devslog.NewHandler(
		os.Stdout, &devslog.Options{
			HandlerOptions: &slog.HandlerOptions{
				AddSource: true,
				Level:     slog.LevelDebug,
			},
			NewLineAfterLog: false,
		})

	logger := slog.New(handler)
	return logger
}
