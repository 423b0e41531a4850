package database

import (
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
)

// PoolStats is the pool snapshot reported by /health
type PoolStats struct {
	TotalConns      int32         `json:"total_connections"`
	IdleConns       int32         `json:"idle_connections"`
	AcquiredConns   int32         `json:"acquired_connections"`
	MaxConns        int32         `json:"max_connections"`
	AcquireCount    int64         `json:"acquire_count"`
	AvgAcquireDelay time.Duration `json:"avg_acquire_duration_ns"`
}

// Stats returns a snapshot of the connection pool
func (db *PostgresDB) Stats() (*PoolStats, error) {
	if db.Pool == nil {
		return nil, fmt.Errorf("database pool is not initialized")
	}

	raw := db.Pool.Stat()
	return &PoolStats{
		TotalConns:      raw.TotalConns(),
		IdleConns:       raw.IdleConns(),
		AcquiredConns:   raw.AcquiredConns(),
		MaxConns:        raw.MaxConns(),
		AcquireCount:    raw.AcquireCount(),
		AvgAcquireDelay: calculateAvgDuration(raw.AcquireDuration(), raw.AcquireCount()),
	}, nil
}

func calculateAvgDuration(totalDuration time.Duration, count int64) time.Duration {
	if count == 0 {
		return 0
	}
	return totalDuration / time.Duration(count)
}

// UniqueViolationOn reports whether err is a unique_violation, and on which constraint.
func UniqueViolationOn(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == UniqueViolation {
		return pgErr.ConstraintName, true
	}
	return "", false
}
