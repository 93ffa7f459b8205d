package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/coursehook/internal/database"
	apperrors "github.com/allisson/coursehook/internal/errors"
	eventDomain "github.com/allisson/coursehook/internal/event/domain"
)

// SQLiteEventRepository implements Event persistence for SQLite databases.
// SQLite has no row locks; transactions must be opened with _txlock=immediate so a
// delivery batch holds the database write lock from its first read.
// Timestamps are stored in UTC so their text form sorts chronologically.
type SQLiteEventRepository struct {
	db *sql.DB
}

// Create inserts a new event into the SQLite database.
func (s *SQLiteEventRepository) Create(ctx context.Context, event *eventDomain.Event) error {
	querier := database.GetTx(ctx, s.db)

	query := `INSERT INTO events (` + eventColumns + `) 
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := querier.ExecContext(
		ctx,
		query,
		event.ID,
		event.Type,
		event.AffectedObject,
		event.CourseID,
		event.EntityID,
		event.RelatedEntityID,
		event.DeliveryState,
		event.AttemptCount,
		event.LastError,
		utcPtr(event.DeliveredAt),
		event.CreatedAt.UTC(),
		event.UpdatedAt.UTC(),
	)
	if err != nil {
		return apperrors.WrapStorage(err, "failed to create event")
	}
	return nil
}

// Get retrieves an event by its id.
func (s *SQLiteEventRepository) Get(ctx context.Context, eventID uuid.UUID) (*eventDomain.Event, error) {
	querier := database.GetTx(ctx, s.db)

	query := `SELECT ` + eventColumns + ` FROM events WHERE id = ?`

	var event eventDomain.Event
	err := querier.QueryRowContext(ctx, query, eventID).Scan(
		&event.ID,
		&event.Type,
		&event.AffectedObject,
		&event.CourseID,
		&event.EntityID,
		&event.RelatedEntityID,
		&event.DeliveryState,
		&event.AttemptCount,
		&event.LastError,
		&event.DeliveredAt,
		&event.CreatedAt,
		&event.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, eventDomain.ErrEventNotFound
		}
		return nil, apperrors.WrapStorage(err, "failed to get event")
	}

	return &event, nil
}

// GetForUpdate retrieves an event by its id. The surrounding immediate transaction
// already serializes writers, so no locking clause is needed.
func (s *SQLiteEventRepository) GetForUpdate(ctx context.Context, eventID uuid.UUID) (*eventDomain.Event, error) {
	return s.Get(ctx, eventID)
}

// Update persists the delivery fields of an event.
func (s *SQLiteEventRepository) Update(ctx context.Context, event *eventDomain.Event) error {
	querier := database.GetTx(ctx, s.db)

	query := `UPDATE events 
			  SET delivery_state = ?, attempt_count = ?, last_error = ?, delivered_at = ?, updated_at = ? 
			  WHERE id = ?`

	result, err := querier.ExecContext(
		ctx,
		query,
		event.DeliveryState,
		event.AttemptCount,
		event.LastError,
		utcPtr(event.DeliveredAt),
		event.UpdatedAt.UTC(),
		event.ID,
	)
	if err != nil {
		return apperrors.WrapStorage(err, "failed to update event")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.WrapStorage(err, "failed to get affected rows")
	}
	if rows == 0 {
		return eventDomain.ErrEventNotFound
	}

	return nil
}

// ListEligible returns PENDING and FAILED events, oldest first.
func (s *SQLiteEventRepository) ListEligible(ctx context.Context, limit int) ([]*eventDomain.Event, error) {
	querier := database.GetTx(ctx, s.db)

	query := `SELECT ` + eventColumns + ` 
			  FROM events 
			  WHERE delivery_state IN (?, ?) 
			  ORDER BY created_at ASC, id ASC 
			  LIMIT ?`

	rows, err := querier.QueryContext(
		ctx,
		query,
		eventDomain.DeliveryStatePending,
		eventDomain.DeliveryStateFailed,
		limit,
	)
	if err != nil {
		return nil, apperrors.WrapStorage(err, "failed to list pending events")
	}
	return scanEvents(rows)
}

// List returns events ordered by creation time, optionally filtered by delivery state.
func (s *SQLiteEventRepository) List(
	ctx context.Context,
	state *eventDomain.DeliveryState,
	offset, limit int,
) ([]*eventDomain.Event, error) {
	querier := database.GetTx(ctx, s.db)

	var rows *sql.Rows
	var err error
	if state != nil {
		query := `SELECT ` + eventColumns + ` 
				  FROM events 
				  WHERE delivery_state = ? 
				  ORDER BY created_at ASC, id ASC 
				  LIMIT ? OFFSET ?`
		rows, err = querier.QueryContext(ctx, query, *state, limit, offset)
	} else {
		query := `SELECT ` + eventColumns + ` 
				  FROM events 
				  ORDER BY created_at ASC, id ASC 
				  LIMIT ? OFFSET ?`
		rows, err = querier.QueryContext(ctx, query, limit, offset)
	}
	if err != nil {
		return nil, apperrors.WrapStorage(err, "failed to list events")
	}
	return scanEvents(rows)
}

// CountDeliveredBefore counts DELIVERED events delivered before cutoff.
func (s *SQLiteEventRepository) CountDeliveredBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	querier := database.GetTx(ctx, s.db)

	query := `SELECT COUNT(*) FROM events WHERE delivery_state = ? AND delivered_at < ?`

	var count int64
	err := querier.QueryRowContext(ctx, query, eventDomain.DeliveryStateDelivered, cutoff.UTC()).Scan(&count)
	if err != nil {
		return 0, apperrors.WrapStorage(err, "failed to count delivered events")
	}
	return count, nil
}

// DeleteDeliveredBefore deletes DELIVERED events delivered before cutoff.
func (s *SQLiteEventRepository) DeleteDeliveredBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	querier := database.GetTx(ctx, s.db)

	query := `DELETE FROM events WHERE delivery_state = ? AND delivered_at < ?`

	result, err := querier.ExecContext(ctx, query, eventDomain.DeliveryStateDelivered, cutoff.UTC())
	if err != nil {
		return 0, apperrors.WrapStorage(err, "failed to delete delivered events")
	}

	count, err := result.RowsAffected()
	if err != nil {
		return 0, apperrors.WrapStorage(err, "failed to get affected rows")
	}
	return count, nil
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	utc := t.UTC()
	return &utc
}

// NewSQLiteEventRepository creates a new SQLite Event repository instance.
func NewSQLiteEventRepository(db *sql.DB) *SQLiteEventRepository {
	return &SQLiteEventRepository{db: db}
}
