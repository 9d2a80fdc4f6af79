// Copyright (c) 2026 Cursus. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package postgres opens the pgx pool shared by the user, course and
// platform-info repositories.
package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/tracelog"

	"github.com/taibuivan/cursus/internal/platform/constants"
)

const pingTimeout = 2 * time.Second

// settings is the tunable part of the pool configuration.
type settings struct {
	maxConns         int32
	minConns         int32
	statementTimeout time.Duration
	traceQueries     bool
}

// Option adjusts the pool before it connects.
type Option func(*settings)

// WithMaxConns bounds the number of open connections. Short-lived tools use 1 or 2.
func WithMaxConns(maxConns int32) Option {
	return func(s *settings) {
		s.maxConns = maxConns
		s.minConns = min(s.minConns, maxConns)
	}
}

// WithQueryTracing logs every statement at debug level.
func WithQueryTracing(enabled bool) Option {
	return func(s *settings) { s.traceQueries = enabled }
}

/*
NewPool connects to PostgreSQL and pings before returning.

Every physical connection gets a statement timeout no longer than a request,
so a stuck query cannot outlive the handler waiting on it.
*/
func NewPool(ctx context.Context, dsn string, logger *slog.Logger, options ...Option) (*pgxpool.Pool, error) {
	current := settings{
		maxConns:         20,
		minConns:         2,
		statementTimeout: constants.GlobalRequestTimeout,
	}
	for _, option := range options {
		option(&current)
	}

	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres_invalid_dsn: %w", err)
	}

	poolConfig.MaxConns = current.maxConns
	poolConfig.MinConns = current.minConns
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = 10 * time.Minute
	poolConfig.HealthCheckPeriod = time.Minute
	poolConfig.ConnConfig.ConnectTimeout = 5 * time.Second
	poolConfig.ConnConfig.RuntimeParams["statement_timeout"] = fmt.Sprintf("%d", current.statementTimeout.Milliseconds())
	poolConfig.ConnConfig.RuntimeParams["application_name"] = constants.AppName

	if current.traceQueries {
		poolConfig.ConnConfig.Tracer = &tracelog.TraceLog{
			Logger:   queryLogger(logger),
			LogLevel: tracelog.LogLevelDebug,
		}
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("postgres_pool_failed: %w", err)
	}

	if err := Ping(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}

	logger.Info("postgres_pool_connected",
		slog.String("host", poolConfig.ConnConfig.Host),
		slog.String("database", poolConfig.ConnConfig.Database),
		slog.Int("max_conns", int(current.maxConns)),
	)
	return pool, nil
}

// Ping checks one round trip to the database.
func Ping(ctx context.Context, pool *pgxpool.Pool) error {
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := pool.Ping(pingCtx); err != nil {
		return fmt.Errorf("postgres_ping_failed: %w", err)
	}
	return nil
}

// queryLogger forwards pgx trace events to slog. Query arguments are dropped
// because they include password hashes.
func queryLogger(logger *slog.Logger) tracelog.Logger {
	return tracelog.LoggerFunc(func(ctx context.Context, level tracelog.LogLevel, msg string, data map[string]any) {
		attrs := make([]slog.Attr, 0, len(data))
		for key, value := range data {
			if key == "args" {
				continue
			}
			attrs = append(attrs, slog.Any(key, value))
		}
		logger.LogAttrs(ctx, slogLevel(level), "postgres_"+msg, attrs...)
	})
}

func slogLevel(level tracelog.LogLevel) slog.Level {
	switch level {
	case tracelog.LogLevelError:
		return slog.LevelError
	case tracelog.LogLevelWarn:
		return slog.LevelWarn
	case tracelog.LogLevelInfo:
		return slog.LevelInfo
	default:
		return slog.LevelDebug
	}
}
