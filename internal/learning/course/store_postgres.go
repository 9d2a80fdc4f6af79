// Copyright (c) 2026 Cursus. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package course

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/cursus/internal/platform/apperr"
	"github.com/taibuivan/cursus/internal/platform/database/schema"
	"github.com/taibuivan/cursus/internal/platform/dberr"
)

const courseResource = "Course"

// PostgresRepository implements [Repository] on learning.course.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository creates a course repository over pool.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

var courseColumns = schema.Select(schema.LearningCourse.Columns())

func scanCourse(row pgx.Row) (*Course, error) {
	course := &Course{}
	err := row.Scan(
		&course.ID, &course.Slug, &course.Title, &course.Description,
		&course.OwnerID, &course.IsPublic, &course.CreatedAt, &course.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return course, nil
}

func (repository *PostgresRepository) List(context context.Context, filter Filter, limit, offset int) ([]*Course, int, error) {
	table := schema.LearningCourse

	where := "TRUE"
	args := []any{}
	if !filter.AllCourses {
		where = fmt.Sprintf("(%s OR %s = $1)", table.IsPublic, table.OwnerID)
		args = append(args, filter.OwnerID)
	}

	var total int
	countQuery := fmt.Sprintf(`SELECT count(*) FROM %s WHERE %s`, table.Table, where)
	if err := repository.db.QueryRow(context, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, courseResource)
	}

	query := fmt.Sprintf(
		`SELECT %s FROM %s WHERE %s ORDER BY %s DESC, %s ASC LIMIT $%d OFFSET $%d`,
		courseColumns, table.Table, where, table.CreatedAt, table.ID, len(args)+1, len(args)+2,
	)
	args = append(args, limit, offset)

	rows, err := repository.db.Query(context, query, args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, courseResource)
	}
	defer rows.Close()

	courses := make([]*Course, 0, limit)
	for rows.Next() {
		course, err := scanCourse(rows)
		if err != nil {
			return nil, 0, dberr.Wrap(err, courseResource)
		}
		courses = append(courses, course)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, courseResource)
	}

	return courses, total, nil
}

func (repository *PostgresRepository) FindByID(context context.Context, id string) (*Course, error) {
	table := schema.LearningCourse
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`, courseColumns, table.Table, table.ID)

	course, err := scanCourse(repository.db.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, courseResource)
	}
	return course, nil
}

func (repository *PostgresRepository) Create(context context.Context, course *Course) error {
	table := schema.LearningCourse
	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`, table.Table, courseColumns)

	now := time.Now().UTC()
	course.CreatedAt, course.UpdatedAt = now, now

	_, err := repository.db.Exec(context, query,
		course.ID, course.Slug, course.Title, course.Description,
		course.OwnerID, course.IsPublic, course.CreatedAt, course.UpdatedAt,
	)
	return dberr.Wrap(err, courseResource)
}

func (repository *PostgresRepository) Update(context context.Context, course *Course) error {
	table := schema.LearningCourse
	query := fmt.Sprintf(
		`UPDATE %s SET %s = $2, %s = $3, %s = $4, %s = $5, %s = $6 WHERE %s = $1`,
		table.Table, table.Slug, table.Title, table.Description, table.IsPublic, table.UpdatedAt, table.ID,
	)

	course.UpdatedAt = time.Now().UTC()
	tag, err := repository.db.Exec(context, query,
		course.ID, course.Slug, course.Title, course.Description, course.IsPublic, course.UpdatedAt,
	)
	if err != nil {
		return dberr.Wrap(err, courseResource)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(courseResource)
	}
	return nil
}

func (repository *PostgresRepository) Delete(context context.Context, id string) error {
	table := schema.LearningCourse
	tag, err := repository.db.Exec(context, fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, table.Table, table.ID), id)
	if err != nil {
		return dberr.Wrap(err, courseResource)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(courseResource)
	}
	return nil
}
