package db

import (
	"context"
	"fmt"
	"time"

	"trashcash_webapp/internal/logger"
	"trashcash_webapp/internal/migrations"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Connect opens a pool and checks it answers.
func Connect(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	db, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.Ping(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}

	logger.Info("database connected")
	return db, nil
}

// MustConnect is Connect that exits the process on error.
func MustConnect(dsn string) *pgxpool.Pool {
	db, err := Connect(context.Background(), dsn)
	if err != nil {
		logger.Fatal("failed to connect to database", "error", err)
	}
	return db
}

// Migrate applies every embedded migration. The scripts are idempotent.
func Migrate(ctx context.Context, db *pgxpool.Pool) error {
	all, err := migrations.All()
	if err != nil {
		return err
	}
	for _, m := range all {
		if _, err := db.Exec(ctx, m.SQL); err != nil {
			return fmt.Errorf("apply %s: %w", m.Name, err)
		}
		logger.Debug("migration applied", "name", m.Name)
	}
	return nil
}
