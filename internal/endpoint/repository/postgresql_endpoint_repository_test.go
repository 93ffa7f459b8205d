package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	endpointDomain "github.com/allisson/coursehook/internal/endpoint/domain"
	apperrors "github.com/allisson/coursehook/internal/errors"
)

var endpointColumnNames = []string{"course_id", "url", "created_at", "updated_at"}

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return db, mock
}

func TestPostgreSQLEndpointRepository_Upsert(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 2, 3, 10, 0, 0, 0, time.UTC)

	t.Run("Success", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostgreSQLEndpointRepository(db)

		mock.ExpectExec(`INSERT INTO course_endpoints .* ON CONFLICT \(course_id\) DO UPDATE`).
			WithArgs("c1", "https://a.example/hook", now, now).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Upsert(ctx, newEndpoint("c1", "https://a.example/hook", now))

		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Error_StorageFailure", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostgreSQLEndpointRepository(db)

		mock.ExpectExec(`INSERT INTO course_endpoints`).WillReturnError(errors.New("connection reset"))

		err := repo.Upsert(ctx, newEndpoint("c1", "https://a.example/hook", now))

		assert.ErrorIs(t, err, apperrors.ErrStorage)
	})
}

func TestPostgreSQLEndpointRepository_Get(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 2, 3, 10, 0, 0, 0, time.UTC)

	t.Run("Success", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostgreSQLEndpointRepository(db)

		mock.ExpectQuery(`SELECT course_id, url, created_at, updated_at FROM course_endpoints WHERE course_id = \$1`).
			WithArgs("c1").
			WillReturnRows(sqlmock.NewRows(endpointColumnNames).AddRow("c1", "https://a.example/hook", now, now))

		endpoint, err := repo.Get(ctx, "c1")

		require.NoError(t, err)
		assert.Equal(t, "https://a.example/hook", endpoint.URL)
		assert.Equal(t, now, endpoint.CreatedAt)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Error_NotFound", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostgreSQLEndpointRepository(db)

		mock.ExpectQuery(`SELECT course_id`).WithArgs("c1").WillReturnError(sql.ErrNoRows)

		_, err := repo.Get(ctx, "c1")

		assert.ErrorIs(t, err, endpointDomain.ErrEndpointNotFound)
	})

	t.Run("Error_StorageFailure", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostgreSQLEndpointRepository(db)

		mock.ExpectQuery(`SELECT course_id`).WithArgs("c1").WillReturnError(errors.New("timeout"))

		_, err := repo.Get(ctx, "c1")

		assert.ErrorIs(t, err, apperrors.ErrStorage)
		assert.NotErrorIs(t, err, apperrors.ErrNotFound)
	})
}

func TestPostgreSQLEndpointRepository_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostgreSQLEndpointRepository(db)

		mock.ExpectExec(`DELETE FROM course_endpoints WHERE course_id = \$1`).
			WithArgs("c1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.Delete(ctx, "c1"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Error_NotFound", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostgreSQLEndpointRepository(db)

		mock.ExpectExec(`DELETE FROM course_endpoints`).
			WithArgs("c1").
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.Delete(ctx, "c1"), endpointDomain.ErrEndpointNotFound)
	})
}

func TestPostgreSQLEndpointRepository_List(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 2, 3, 10, 0, 0, 0, time.UTC)

	db, mock := newMockDB(t)
	repo := NewPostgreSQLEndpointRepository(db)

	mock.ExpectQuery(`SELECT course_id, url, created_at, updated_at FROM course_endpoints ORDER BY course_id ASC LIMIT \$1 OFFSET \$2`).
		WithArgs(2, 0).
		WillReturnRows(sqlmock.NewRows(endpointColumnNames).
			AddRow("c1", "https://a.example/hook", now, now).
			AddRow("c2", "https://b.example/hook", now, now))

	endpoints, err := repo.List(ctx, 0, 2)

	require.NoError(t, err)
	require.Len(t, endpoints, 2)
	assert.Equal(t, "c2", endpoints[1].CourseID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
