// Package repository implements course endpoint persistence for PostgreSQL, MySQL and SQLite.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/allisson/coursehook/internal/database"
	endpointDomain "github.com/allisson/coursehook/internal/endpoint/domain"
	apperrors "github.com/allisson/coursehook/internal/errors"
)

// PostgreSQLEndpointRepository implements CourseEndpoint persistence for PostgreSQL databases.
type PostgreSQLEndpointRepository struct {
	db *sql.DB
}

// Upsert inserts the endpoint or updates the URL of an existing course.
func (p *PostgreSQLEndpointRepository) Upsert(ctx context.Context, endpoint *endpointDomain.CourseEndpoint) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO course_endpoints (course_id, url, created_at, updated_at) 
			  VALUES ($1, $2, $3, $4) 
			  ON CONFLICT (course_id) DO UPDATE SET url = EXCLUDED.url, updated_at = EXCLUDED.updated_at`

	_, err := querier.ExecContext(
		ctx,
		query,
		endpoint.CourseID,
		endpoint.URL,
		endpoint.CreatedAt,
		endpoint.UpdatedAt,
	)
	if err != nil {
		return apperrors.WrapStorage(err, "failed to upsert course endpoint")
	}
	return nil
}

// Get retrieves the endpoint of a course.
func (p *PostgreSQLEndpointRepository) Get(
	ctx context.Context,
	courseID string,
) (*endpointDomain.CourseEndpoint, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT course_id, url, created_at, updated_at FROM course_endpoints WHERE course_id = $1`

	var endpoint endpointDomain.CourseEndpoint
	err := querier.QueryRowContext(ctx, query, courseID).Scan(
		&endpoint.CourseID,
		&endpoint.URL,
		&endpoint.CreatedAt,
		&endpoint.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, endpointDomain.ErrEndpointNotFound
		}
		return nil, apperrors.WrapStorage(err, "failed to get course endpoint")
	}
	return &endpoint, nil
}

// Delete removes the endpoint of a course.
func (p *PostgreSQLEndpointRepository) Delete(ctx context.Context, courseID string) error {
	querier := database.GetTx(ctx, p.db)

	result, err := querier.ExecContext(ctx, `DELETE FROM course_endpoints WHERE course_id = $1`, courseID)
	if err != nil {
		return apperrors.WrapStorage(err, "failed to delete course endpoint")
	}
	return checkDeleted(result)
}

// List returns endpoints ordered by course id.
func (p *PostgreSQLEndpointRepository) List(
	ctx context.Context,
	offset, limit int,
) ([]*endpointDomain.CourseEndpoint, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT course_id, url, created_at, updated_at 
			  FROM course_endpoints 
			  ORDER BY course_id ASC 
			  LIMIT $1 OFFSET $2`

	rows, err := querier.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, apperrors.WrapStorage(err, "failed to list course endpoints")
	}
	return scanEndpoints(rows)
}

func checkDeleted(result sql.Result) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.WrapStorage(err, "failed to get affected rows")
	}
	if rows == 0 {
		return endpointDomain.ErrEndpointNotFound
	}
	return nil
}

func scanEndpoints(rows *sql.Rows) ([]*endpointDomain.CourseEndpoint, error) {
	defer func() {
		_ = rows.Close()
	}()

	endpoints := make([]*endpointDomain.CourseEndpoint, 0)
	for rows.Next() {
		var endpoint endpointDomain.CourseEndpoint
		if err := rows.Scan(
			&endpoint.CourseID,
			&endpoint.URL,
			&endpoint.CreatedAt,
			&endpoint.UpdatedAt,
		); err != nil {
			return nil, apperrors.WrapStorage(err, "failed to scan course endpoint")
		}
		endpoints = append(endpoints, &endpoint)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.WrapStorage(err, "failed to iterate course endpoints")
	}

	return endpoints, nil
}

// NewPostgreSQLEndpointRepository creates a new PostgreSQL CourseEndpoint repository instance.
func NewPostgreSQLEndpointRepository(db *sql.DB) *PostgreSQLEndpointRepository {
	return &PostgreSQLEndpointRepository{db: db}
}
