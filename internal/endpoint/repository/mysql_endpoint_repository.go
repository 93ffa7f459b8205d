package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/allisson/coursehook/internal/database"
	endpointDomain "github.com/allisson/coursehook/internal/endpoint/domain"
	apperrors "github.com/allisson/coursehook/internal/errors"
)

// MySQLEndpointRepository implements CourseEndpoint persistence for MySQL databases.
type MySQLEndpointRepository struct {
	db *sql.DB
}

// Upsert inserts the endpoint or updates the URL of an existing course.
func (m *MySQLEndpointRepository) Upsert(ctx context.Context, endpoint *endpointDomain.CourseEndpoint) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO course_endpoints (course_id, url, created_at, updated_at) 
			  VALUES (?, ?, ?, ?) 
			  ON DUPLICATE KEY UPDATE url = VALUES(url), updated_at = VALUES(updated_at)`

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
func (m *MySQLEndpointRepository) Get(
	ctx context.Context,
	courseID string,
) (*endpointDomain.CourseEndpoint, error) {
	querier := database.GetTx(ctx, m.db)

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
func (m *MySQLEndpointRepository) Delete(ctx context.Context, courseID string) error {
	querier := database.GetTx(ctx, m.db)

	result, err := querier.ExecContext(ctx, `DELETE FROM course_endpoints WHERE course_id = ?`, courseID)
	if err != nil {
		return apperrors.WrapStorage(err, "failed to delete course endpoint")
	}
	return checkDeleted(result)
}

// List returns endpoints ordered by course id.
func (m *MySQLEndpointRepository) List(
	ctx context.Context,
	offset, limit int,
) ([]*endpointDomain.CourseEndpoint, error) {
	querier := database.GetTx(ctx, m.db)

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

// NewMySQLEndpointRepository creates a new MySQL CourseEndpoint repository instance.
func NewMySQLEndpointRepository(db *sql.DB) *MySQLEndpointRepository {
	return &MySQLEndpointRepository{db: db}
}
