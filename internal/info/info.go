// Copyright (c) 2026 Cursus. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package info serves the platform's legal texts (terms of use and legal
mentions), stored as a single row.
*/
package info

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/cursus/internal/platform/database/schema"
	"github.com/taibuivan/cursus/internal/platform/dberr"
)

// Info holds the legal texts shown to every visitor.
type Info struct {
	CGU           string    `json:"cgu"`
	LegalMentions string    `json:"legal_mentions"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Repository reads and replaces the single info row.
type Repository interface {
	Get(context context.Context) (*Info, error)
	Put(context context.Context, info *Info) error
}

// # Service

// Service implements the info use cases.
type Service struct {
	repository Repository
	logger     *slog.Logger
}

// NewService constructs a new [Service].
func NewService(repository Repository, logger *slog.Logger) *Service {
	return &Service{repository: repository, logger: logger}
}

// Get returns the current texts. apperr NOT_FOUND until an admin sets them.
func (service *Service) Get(context context.Context) (*Info, error) {
	info, err := service.repository.Get(context)
	if err != nil {
		return nil, fmt.Errorf("info_service_get_failed: %w", err)
	}
	return info, nil
}

// Put replaces both texts.
func (service *Service) Put(context context.Context, cgu, legalMentions string) (*Info, error) {
	info := &Info{CGU: cgu, LegalMentions: legalMentions}
	if err := service.repository.Put(context, info); err != nil {
		return nil, fmt.Errorf("info_service_put_failed: %w", err)
	}
	service.logger.Info("platform_info_updated")
	return info, nil
}

// # Postgres

// infoRowID is the primary key of the only row.
const infoRowID = 1

// PostgresRepository implements [Repository] on system.info.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository creates an info repository over pool.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (repository *PostgresRepository) Get(context context.Context) (*Info, error) {
	table := schema.SystemInfo
	query := fmt.Sprintf(`SELECT %s, %s, %s FROM %s WHERE %s = $1`,
		table.CGU, table.LegalMentions, table.UpdatedAt, table.Table, table.ID)

	info := &Info{}
	err := repository.db.QueryRow(context, query, infoRowID).Scan(&info.CGU, &info.LegalMentions, &info.UpdatedAt)
	if err != nil {
		return nil, dberr.Wrap(err, "Platform info")
	}
	return info, nil
}

func (repository *PostgresRepository) Put(context context.Context, info *Info) error {
	table := schema.SystemInfo
	query := fmt.Sprintf(
		`INSERT INTO %[1]s (%[2]s, %[3]s, %[4]s, %[5]s) VALUES ($1, $2, $3, $4)
		 ON CONFLICT (%[2]s) DO UPDATE SET %[3]s = EXCLUDED.%[3]s, %[4]s = EXCLUDED.%[4]s, %[5]s = EXCLUDED.%[5]s`,
		table.Table, table.ID, table.CGU, table.LegalMentions, table.UpdatedAt,
	)

	info.UpdatedAt = time.Now().UTC()
	_, err := repository.db.Exec(context, query, infoRowID, info.CGU, info.LegalMentions, info.UpdatedAt)
	if err != nil {
		return dberr.Wrap(err, "Platform info")
	}
	return nil
}
