// Package postgres wraps database/sql with lib/pq, pool settings from
// config, and a transaction helper.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Karthik-Raja-S/Movie-Recommendation-Platform/pkg/config"
	_ "github.com/lib/pq"
)

// Client wraps an open *sql.DB.
type Client struct {
	DB  *sql.DB
	cfg config.PostgresConfig
}

// New opens a connection pool and verifies it with a ping.
func New(cfg config.PostgresConfig) (*Client, error) {
	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("opening postgres connection: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("pinging postgres: %w", err)
	}
	return &Client{DB: db, cfg: cfg}, nil
}

// Close closes the pool.
func (c *Client) Close() error {
	return c.DB.Close()
}

// InTx runs fn inside a transaction, rolling back on error.
func (c *Client) InTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := c.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rolling back transaction after error %v: %w", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}
