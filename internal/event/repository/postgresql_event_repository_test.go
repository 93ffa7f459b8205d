package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allisson/coursehook/internal/database"
	apperrors "github.com/allisson/coursehook/internal/errors"
	eventDomain "github.com/allisson/coursehook/internal/event/domain"
)

var eventColumnNames = []string{
	"id", "type", "affected_object", "course_id", "entity_id", "related_entity_id",
	"delivery_state", "attempt_count", "last_error", "delivered_at", "created_at", "updated_at",
}

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return db, mock
}

func newPendingEvent(t *testing.T) *eventDomain.Event {
	t.Helper()
	event, err := eventDomain.NewEvent(
		eventDomain.EventTypeInsert,
		eventDomain.AffectedObjectAssignment,
		"c1",
		"assignment-1",
		nil,
		time.Date(2026, 2, 3, 10, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)
	return event
}

func TestPostgreSQLEventRepository_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostgreSQLEventRepository(db)
		event := newPendingEvent(t)

		mock.ExpectExec(`INSERT INTO events`).
			WithArgs(
				event.ID, "INSERT", "ASSIGNMENT", "c1", "assignment-1", nil,
				"PENDING", 0, nil, nil, event.CreatedAt, event.UpdatedAt,
			).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Create(ctx, event)

		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Error_StorageFailure", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostgreSQLEventRepository(db)

		mock.ExpectExec(`INSERT INTO events`).WillReturnError(errors.New("connection reset"))

		err := repo.Create(ctx, newPendingEvent(t))

		assert.ErrorIs(t, err, apperrors.ErrStorage)
		assert.ErrorContains(t, err, "connection reset")
	})
}

func TestPostgreSQLEventRepository_GetForUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_LocksRowInsideTransaction", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostgreSQLEventRepository(db)
		txManager := database.NewTxManager(db)
		event := newPendingEvent(t)
		lastError := "status 500"

		mock.ExpectBegin()
		mock.ExpectQuery(`FROM events WHERE id = \$1 FOR UPDATE`).
			WithArgs(event.ID).
			WillReturnRows(sqlmock.NewRows(eventColumnNames).AddRow(
				event.ID.String(), "INSERT", "ASSIGNMENT", "c1", "assignment-1", nil,
				"FAILED", 2, lastError, nil, event.CreatedAt, event.UpdatedAt,
			))
		mock.ExpectCommit()

		var got *eventDomain.Event
		err := txManager.WithTx(ctx, func(ctx context.Context) error {
			var err error
			got, err = repo.GetForUpdate(ctx, event.ID)
			return err
		})

		require.NoError(t, err)
		assert.Equal(t, event.ID, got.ID)
		assert.Equal(t, eventDomain.DeliveryStateFailed, got.DeliveryState)
		assert.Equal(t, 2, got.AttemptCount)
		assert.Equal(t, lastError, *got.LastError)
		assert.Nil(t, got.RelatedEntityID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Error_NotFound", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostgreSQLEventRepository(db)
		eventID := uuid.Must(uuid.NewV7())

		mock.ExpectQuery(`FROM events WHERE id = \$1 FOR UPDATE`).
			WithArgs(eventID).
			WillReturnRows(sqlmock.NewRows(eventColumnNames))

		got, err := repo.GetForUpdate(ctx, eventID)

		assert.Nil(t, got)
		assert.ErrorIs(t, err, eventDomain.ErrEventNotFound)
	})
}

func TestPostgreSQLEventRepository_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostgreSQLEventRepository(db)
		event := newPendingEvent(t)
		event.MarkFailed(event.CreatedAt.Add(time.Minute), "timeout", 5)

		mock.ExpectExec(`UPDATE events`).
			WithArgs("FAILED", 1, "timeout", nil, event.UpdatedAt, event.ID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Update(ctx, event)

		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Error_NotFound", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostgreSQLEventRepository(db)

		mock.ExpectExec(`UPDATE events`).WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Update(ctx, newPendingEvent(t))

		assert.ErrorIs(t, err, eventDomain.ErrEventNotFound)
	})
}

func TestPostgreSQLEventRepository_ListEligible(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostgreSQLEventRepository(db)
	e1, e2 := newPendingEvent(t), newPendingEvent(t)

	mock.ExpectQuery(`WHERE delivery_state IN \(\$1, \$2\) ORDER BY created_at ASC, id ASC LIMIT \$3`).
		WithArgs("PENDING", "FAILED", 500).
		WillReturnRows(sqlmock.NewRows(eventColumnNames).
			AddRow(e1.ID.String(), "INSERT", "ASSIGNMENT", "c1", "assignment-1", nil,
				"PENDING", 0, nil, nil, e1.CreatedAt, e1.UpdatedAt).
			AddRow(e2.ID.String(), "INSERT", "ASSIGNMENT", "c1", "assignment-1", "group-1",
				"PENDING", 0, nil, nil, e2.CreatedAt, e2.UpdatedAt))

	events, err := repo.ListEligible(context.Background(), 500)

	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, e1.ID, events[0].ID)
	assert.Equal(t, "group-1", *events[1].RelatedEntityID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgreSQLEventRepository_List(t *testing.T) {
	ctx := context.Background()

	t.Run("WithStateFilter", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostgreSQLEventRepository(db)
		state := eventDomain.DeliveryStateAbandoned

		mock.ExpectQuery(`WHERE delivery_state = \$1 ORDER BY created_at ASC, id ASC LIMIT \$2 OFFSET \$3`).
			WithArgs("ABANDONED", 50, 10).
			WillReturnRows(sqlmock.NewRows(eventColumnNames))

		events, err := repo.List(ctx, &state, 10, 50)

		require.NoError(t, err)
		assert.NotNil(t, events)
		assert.Empty(t, events)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Error_QueryFails", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostgreSQLEventRepository(db)

		mock.ExpectQuery(`LIMIT \$1 OFFSET \$2`).WillReturnError(errors.New("boom"))

		events, err := repo.List(ctx, nil, 0, 50)

		assert.Nil(t, events)
		assert.ErrorIs(t, err, apperrors.ErrStorage)
	})
}

func TestPostgreSQLEventRepository_DeliveredBefore(t *testing.T) {
	ctx := context.Background()
	cutoff := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("Count", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostgreSQLEventRepository(db)

		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM events WHERE delivery_state = \$1 AND delivered_at < \$2`).
			WithArgs("DELIVERED", cutoff).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))

		count, err := repo.CountDeliveredBefore(ctx, cutoff)

		require.NoError(t, err)
		assert.Equal(t, int64(7), count)
	})

	t.Run("Delete", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostgreSQLEventRepository(db)

		mock.ExpectExec(`DELETE FROM events WHERE delivery_state = \$1 AND delivered_at < \$2`).
			WithArgs("DELIVERED", cutoff).
			WillReturnResult(sqlmock.NewResult(0, 3))

		count, err := repo.DeleteDeliveredBefore(ctx, cutoff)

		require.NoError(t, err)
		assert.Equal(t, int64(3), count)
	})
}
