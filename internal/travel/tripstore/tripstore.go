// Package tripstore is the optional host-provided persistence layer
// SPEC_FULL.md §6 describes: "If the host provides a trip store it persists
// the full TravelResponse by id; the core treats that as opaque." The
// orchestrator never depends on this package; only the demonstration
// cmd/travelcost-server wires it when DATABASE_URL is configured.
package tripstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/travelcost/engine/internal/database"
	"github.com/travelcost/engine/internal/travel/types"
)

// Store persists TravelResponse values by request id, backed by the
// teacher's Postgres connection pool.
type Store struct {
	pool *database.Pool
}

// New wraps an already-open pool. Callers typically build the pool from
// config.Config.DatabaseURL via database.NewPool and pass it here.
func New(pool *database.Pool) *Store {
	return &Store{pool: pool}
}

// EnsureSchema creates the trips table if it does not already exist. Safe
// to call on every startup.
func (s *Store) EnsureSchema(ctx context.Context) error {
	_, err := s.pool.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS trip_estimates (
			request_id TEXT PRIMARY KEY,
			response   JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`)
	if err != nil {
		return fmt.Errorf("tripstore: create schema: %w", err)
	}
	return nil
}

// Save persists resp under requestID, overwriting any prior value.
func (s *Store) Save(ctx context.Context, requestID string, resp *types.TravelResponse) error {
	body, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("tripstore: marshal response: %w", err)
	}

	_, err = s.pool.ExecContext(ctx, `
		INSERT INTO trip_estimates (request_id, response)
		VALUES ($1, $2)
		ON CONFLICT (request_id) DO UPDATE SET response = EXCLUDED.response
	`, requestID, body)
	if err != nil {
		return fmt.Errorf("tripstore: save: %w", err)
	}
	return nil
}

// Get retrieves a previously saved TravelResponse by id.
func (s *Store) Get(ctx context.Context, requestID string) (*types.TravelResponse, error) {
	var body []byte
	err := s.pool.QueryRowContext(ctx, `
		SELECT response FROM trip_estimates WHERE request_id = $1
	`, requestID).Scan(&body)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("tripstore: get: %w", err)
	}

	var resp types.TravelResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("tripstore: unmarshal response: %w", err)
	}
	return &resp, nil
}
