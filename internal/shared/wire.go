package shared

import (
	"context"
	"database/sql"
	"time"

	mysqldrv "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	"turbo_reviews/internal/adapters/drive"
	"turbo_reviews/internal/adapters/localfile"
	redisad "turbo_reviews/internal/adapters/redis"
	"turbo_reviews/internal/domain"
	mysqlrepo "turbo_reviews/internal/storage/mysql"
)

// NewSource picks the local file when REVIEWS_LOCAL_PATH is set, Drive otherwise.
func NewSource(ctx context.Context, cfg Config) (domain.ReviewSource, error) {
	if cfg.LocalPath != "" {
		log.Info().Str("path", cfg.LocalPath).Msg("using local review file")
		return localfile.New(cfg.LocalPath), nil
	}
	hc, err := drive.NewHTTPClient(ctx, cfg.GoogleKeyFile, 30*time.Second)
	if err != nil {
		return nil, err
	}
	return drive.New(cfg.DriveBaseURL, cfg.FileID, hc, cfg.DriveRPS)
}

// NewCache returns nil when REDIS_ADDR is unset or unreachable; counting
// works without a cache.
func NewCache(ctx context.Context, cfg Config) *redisad.Cache {
	if cfg.RedisAddr == "" {
		log.Info().Msg("REDIS_ADDR not set, result cache disabled")
		return nil
	}
	c := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	pctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := c.Ping(pctx); err != nil {
		log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis ping failed, result cache disabled")
		_ = c.Close()
		return nil
	}
	log.Info().Str("addr", cfg.RedisAddr).Msg("result cache ok")
	return c
}

// NewRunLog opens MySQL when MYSQL_DSN is set. A configured but unreachable
// database is fatal, matching how the API treats its other required deps.
func NewRunLog(cfg Config) (*sql.DB, *mysqlrepo.Repo) {
	if cfg.MySQLDSN == "" {
		log.Info().Msg("MYSQL_DSN not set, run log disabled")
		return nil, nil
	}
	dsn, err := RunLogDSN(cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid MYSQL_DSN")
	}
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("database connection ok")
	return db, mysqlrepo.New(db)
}

// RunLogDSN forces parseTime and UTC so created_at scans into time.Time
// whatever the operator's DSN says.
func RunLogDSN(dsn string) (string, error) {
	c, err := mysqldrv.ParseDSN(dsn)
	if err != nil {
		return "", err
	}
	c.ParseTime = true
	c.Loc = time.UTC
	return c.FormatDSN(), nil
}
