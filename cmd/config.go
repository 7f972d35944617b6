package main

import (
	"flag"
	"strings"
	"time"

	"github.com/mdobak/go-xerrors"
	"github.com/siahsang/forum/internal/database"
	"github.com/siahsang/forum/internal/utils/envutils"
	"golang.org/x/crypto/bcrypt"
)

const developmentJWTSecret = "development-only-secret"

type config struct {
	port int
	env  string
	db   struct {
		driver       string
		dsn          string
		maxOpenConns int
		maxIdleConns int
		maxIdleTime  time.Duration
		queryTimeout time.Duration
	}
	jwt struct {
		secret string
		ttl    time.Duration
	}
	bcryptCost int
	uploadDir  string
	cors       struct {
		trustedOrigins []string
	}
	logFormat string
}

// loadConfig reads flags from args. Every flag defaults to its environment variable.
func loadConfig(args []string) (config, error) {
	var cfg config

	fs := flag.NewFlagSet("forum", flag.ContinueOnError)
	fs.IntVar(&cfg.port, "port", envutils.Int("PORT", 4000), "API server port")
	fs.StringVar(&cfg.env, "env", envutils.String("FORUM_ENV", "development"), "Environment (development|staging|production)")

	fs.StringVar(&cfg.db.driver, "db-driver", envutils.String("FORUM_DB_DRIVER", database.DriverSQLite), "Database driver (postgres|sqlite)")
	fs.StringVar(&cfg.db.dsn, "db-dsn", envutils.String("DATABASE_URL", "file:forum.db"), "Database DSN")
	fs.IntVar(&cfg.db.maxOpenConns, "db-max-open-conns", envutils.Int("FORUM_DB_MAX_OPEN_CONNS", 25), "Database max open connections")
	fs.IntVar(&cfg.db.maxIdleConns, "db-max-idle-conns", envutils.Int("FORUM_DB_MAX_IDLE_CONNS", 25), "Database max idle connections")
	fs.DurationVar(&cfg.db.maxIdleTime, "db-max-idle-time", envutils.Duration("FORUM_DB_MAX_IDLE_TIME", 15*time.Minute), "Database max connection idle time")
	fs.DurationVar(&cfg.db.queryTimeout, "db-query-timeout", envutils.Duration("FORUM_DB_QUERY_TIMEOUT", 5*time.Second), "Timeout of a single query")

	fs.StringVar(&cfg.jwt.secret, "jwt-secret", envutils.String("JWT_SECRET", ""), "Token signing secret")
	fs.DurationVar(&cfg.jwt.ttl, "jwt-ttl", envutils.Duration("FORUM_JWT_TTL", 24*time.Hour), "Token lifetime")

	fs.IntVar(&cfg.bcryptCost, "bcrypt-cost", envutils.Int("FORUM_BCRYPT_COST", bcrypt.DefaultCost), "bcrypt cost for password hashes")
	fs.StringVar(&cfg.uploadDir, "upload-dir", envutils.String("FORUM_UPLOAD_DIR", "uploads"), "Directory for processed profile pictures")
	fs.StringVar(&cfg.logFormat, "log-format", envutils.String("FORUM_LOG_FORMAT", "dev"), "Log format (dev|json)")

	origins := envutils.String("FORUM_CORS_TRUSTED_ORIGINS", "*")
	fs.Func("cors-trusted-origins", "Trusted CORS origins (space separated)", func(val string) error {
		origins = val
		return nil
	})

	if err := fs.Parse(args); err != nil {
		return config{}, xerrors.New(err)
	}
	cfg.cors.trustedOrigins = strings.Fields(origins)

	if cfg.jwt.secret == "" {
		if cfg.env != "development" {
			return config{}, xerrors.Newf("JWT_SECRET must be set in %s", cfg.env)
		}
		cfg.jwt.secret = developmentJWTSecret
	}
	if cfg.bcryptCost < bcrypt.MinCost || cfg.bcryptCost > bcrypt.MaxCost {
		return config{}, xerrors.Newf("bcrypt cost must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}

	return cfg, nil
}
