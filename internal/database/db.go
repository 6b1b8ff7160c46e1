package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"studyTrackerAPI/config"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

type DB struct {
	pool  *pgxpool.Pool
	bunDB *bun.DB
}

// New opens the pgx pool used for queries and a bun handle used for schema
// management.
func New(ctx context.Context, cfg *config.Config) (*DB, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("unable to parse database URL: %w", err)
	}

	poolConfig.MaxConns = cfg.DBMaxConns
	poolConfig.MinConns = cfg.DBMinConns
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute
	poolConfig.HealthCheckPeriod = time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.DatabaseURL)))
	return &DB{pool: pool, bunDB: bun.NewDB(sqldb, pgdialect.New())}, nil
}

func (db *DB) Pool() *pgxpool.Pool {
	return db.pool
}

func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
	if db.bunDB != nil {
		db.bunDB.Close()
	}
}

// InitializeSchema creates all tables and indexes that do not exist yet.
func (db *DB) InitializeSchema(ctx context.Context) error {
	for _, t := range schema {
		query := db.bunDB.NewCreateTable().
			Model(t.model).
			IfNotExists()
		if t.references {
			query = query.ForeignKey(`("user_id") REFERENCES "common_users" ("id") ON DELETE CASCADE`)
		}

		if _, err := query.Exec(ctx); err != nil {
			return fmt.Errorf("failed to create table %s: %w", t.name, err)
		}
	}

	for _, idx := range indexes {
		if _, err := db.pool.Exec(ctx, idx); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	config.Logger.WithField("tables", len(schema)).Info("Database schema initialized")
	return nil
}

// ResetAppTables truncates every application table.
func (db *DB) ResetAppTables(ctx context.Context) error {
	quoted := make([]string, 0, len(schema))
	for _, name := range AppTables() {
		quoted = append(quoted, fmt.Sprintf("%q", name))
	}

	stmt := "TRUNCATE TABLE " + strings.Join(quoted, ", ") + " CASCADE"
	if _, err := db.pool.Exec(ctx, stmt); err != nil {
		return fmt.Errorf("failed to truncate tables: %w", err)
	}

	config.Logger.WithFields(logrus.Fields{"tables": AppTables()}).Warn("Application tables truncated")
	return nil
}
