package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/allisson/coursehook/internal/database"
	endpointDomain "github.com/allisson/coursehook/internal/endpoint/domain"
	apperrors "github.com/allisson/coursehook/internal/errors"
)

// SQLiteEndpointRepository implements CourseEndpoint persistence for SQLite databases.
type SQLiteEndpointRepository struct {
	db *sql.DB
}

// Upsert inserts the endpoint or updates the URL of an existing course.
func (s *SQLiteEndpointRepository) Upsert(ctx context.Context, endpoint *endpointDomain.CourseEndpoint) error {
	querier := database.GetTx(ctx, s.db)

	query := `INSERT INTO course_endpoints (course_id, url, created_at, updated_at) 
			  VALUES (?, ?, ?, ?) 
			  ON CONFLICT (course_id) DO UPDATE SET url = excluded.url, updated_at = excluded.updated_at`

	_, err := querier.ExecContext(
		ctx,
		query,
		endpoint.CourseID,
		endpoint.URL,
		endpoint.CreatedAt.UTC(),
		endpoint.UpdatedAt.UTC(),
	)
	if err != nil {
		return apperrors.WrapStorage(err, "failed to upsert course endpoint")
	}
	return nil
}

// Get retrieves the endpoint of a course.
func (s *SQLiteEndpointRepository) Get(
	ctx context.Context,
	courseID string,
) (*endpointDomain.CourseEndpoint, error) {
	querier := database.GetTx(ctx, s.db)

	query := `SELECT course_id, url, created_at, updated_at FROM course_endpoints WHERE course_id = ?`

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
func (s *SQLiteEndpointRepository) Delete(ctx context.Context, courseID string) error {
	querier := database.GetTx(ctx, s.db)

	result, err := querier.ExecContext(ctx, `DELETE FROM course_endpoints WHERE course_id = ?`, courseID)
	if err != nil {
		return apperrors.WrapStorage(err, "failed to delete course endpoint")
	}
	return checkDeleted(result)
}

// List returns endpoints ordered by course id.
func (s *SQLiteEndpointRepository) List(
	ctx context.Context,
	offset, limit int,
) ([]*endpointDomain.CourseEndpoint, error) {
	querier := database.GetTx(ctx, s.db)

	query := `SELECT course_id, url, created_at, updated_at 
			  FROM course_endpoints 
			  ORDER BY course_id ASC 
			  LIMIT ? OFFSET ?`

	rows, err := querier.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, apperrors.WrapStorage(err, "failed to list course endpoints")
	}
	return scanEndpoints(rows)
}

// NewSQLiteEndpointRepository creates a new SQLite CourseEndpoint repository instance.
func NewSQLiteEndpointRepository(db *sql.DB) *SQLiteEndpointRepository {
	return &SQLiteEndpointRepository{db: db}
}
