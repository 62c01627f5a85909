package condb

import (
	"context"
	"fmt"
	"os"

	"github.com/golang-migrate/migrate"
	"github.com/golang-migrate/migrate/database/postgres"
	_ "github.com/golang-migrate/migrate/source/file"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/jackc/pgx/v4/stdlib"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/emmaotero/APPreventa/logger"
)

var pool *pgxpool.Pool

// Connect loads .env, opens the connection pool and runs pending migrations.
// Call once from main before registering routes.
func Connect(log *logger.Logger) error {
	if err := godotenv.Load(); err != nil {
		log.Info("no .env file found, using environment")
	}

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		return fmt.Errorf("DATABASE_URL is not set")
	}

	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return fmt.Errorf("parse DATABASE_URL: %w", err)
	}

	p, err := pgxpool.ConnectConfig(context.Background(), config)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}

	if err := runMigrations(dsn); err != nil {
		p.Close()
		return err
	}

	pool = p
	log.Info("database connected", zap.String("host", config.ConnConfig.Host))
	return nil
}

func runMigrations(dsn string) error {
	connConfig, err := pgx.ParseConfig(dsn)
	if err != nil {
		return fmt.Errorf("parse connection string: %w", err)
	}

	sqlDB := stdlib.OpenDB(*connConfig)
	defer sqlDB.Close()

	driver, err := postgres.WithInstance(sqlDB, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance("file://migrations", "postgres", driver)
	if err != nil {
		return fmt.Errorf("migration instance: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

// Pool returns the shared connection pool.
func Pool() *pgxpool.Pool {
	return pool
}

// Close releases the pool. Safe to call with no open pool.
func Close() {
	if pool != nil {
		pool.Close()
	}
}
