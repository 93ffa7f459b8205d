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

// MySQLEventRepository implements Event persistence for MySQL databases.
// Event ids are stored as BINARY(16); the DSN must enable parseTime.
type MySQLEventRepository struct {
	db *sql.DB
}

// Create inserts a new event into the MySQL database.
func (m *MySQLEventRepository) Create(ctx context.Context, event *eventDomain.Event) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO events (` + eventColumns + `) 
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	// Convert UUID to bytes for MySQL BINARY(16)
	idBytes, err := event.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal event id")
	}

	_, err = querier.ExecContext(
		ctx,
		query,
		idBytes,
		event.Type,
		event.AffectedObject,
		event.CourseID,
		event.EntityID,
		event.RelatedEntityID,
		event.DeliveryState,
		event.AttemptCount,
		event.LastError,
		event.DeliveredAt,
		event.CreatedAt,
		event.UpdatedAt,
	)
	if err != nil {
		return apperrors.WrapStorage(err, "failed to create event")
	}
	return nil
}

// Get retrieves an event by its id.
func (m *MySQLEventRepository) Get(ctx context.Context, eventID uuid.UUID) (*eventDomain.Event, error) {
	return m.get(ctx, `SELECT `+eventColumns+` FROM events WHERE id = ?`, eventID)
}

// GetForUpdate retrieves an event by its id and locks the row for the current transaction.
func (m *MySQLEventRepository) GetForUpdate(ctx context.Context, eventID uuid.UUID) (*eventDomain.Event, error) {
	return m.get(ctx, `SELECT `+eventColumns+` FROM events WHERE id = ? FOR UPDATE`, eventID)
}

func (m *MySQLEventRepository) get(
	ctx context.Context,
	query string,
	eventID uuid.UUID,
) (*eventDomain.Event, error) {
	querier := database.GetTx(ctx, m.db)

	idBytes, err := eventID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal event id")
	}

	event, err := scanMySQLEvent(querier.QueryRowContext(ctx, query, idBytes))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, eventDomain.ErrEventNotFound
		}
		return nil, apperrors.WrapStorage(err, "failed to get event")
	}

	return event, nil
}

// Update persists the delivery fields of an event.
func (m *MySQLEventRepository) Update(ctx context.Context, event *eventDomain.Event) error {
	querier := database.GetTx(ctx, m.db)

	query := `UPDATE events 
			  SET delivery_state = ?, attempt_count = ?, last_error = ?, delivered_at = ?, updated_at = ? 
			  WHERE id = ?`

	idBytes, err := event.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal event id")
	}

	// MySQL reports zero affected rows for unchanged values, so existence is
	// checked by GetForUpdate rather than here.
	_, err = querier.ExecContext(
		ctx,
		query,
		event.DeliveryState,
		event.AttemptCount,
		event.LastError,
		event.DeliveredAt,
		event.UpdatedAt,
		idBytes,
	)
	if err != nil {
		return apperrors.WrapStorage(err, "failed to update event")
	}
	return nil
}

// ListEligible returns PENDING and FAILED events, oldest first.
func (m *MySQLEventRepository) ListEligible(ctx context.Context, limit int) ([]*eventDomain.Event, error) {
	querier := database.GetTx(ctx, m.db)

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
	return scanMySQLEvents(rows)
}

// List returns events ordered by creation time, optionally filtered by delivery state.
func (m *MySQLEventRepository) List(
	ctx context.Context,
	state *eventDomain.DeliveryState,
	offset, limit int,
) ([]*eventDomain.Event, error) {
	querier := database.GetTx(ctx, m.db)

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
	return scanMySQLEvents(rows)
}

// CountDeliveredBefore counts DELIVERED events delivered before cutoff.
func (m *MySQLEventRepository) CountDeliveredBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT COUNT(*) FROM events WHERE delivery_state = ? AND delivered_at < ?`

	var count int64
	err := querier.QueryRowContext(ctx, query, eventDomain.DeliveryStateDelivered, cutoff).Scan(&count)
	if err != nil {
		return 0, apperrors.WrapStorage(err, "failed to count delivered events")
	}
	return count, nil
}

// DeleteDeliveredBefore deletes DELIVERED events delivered before cutoff.
func (m *MySQLEventRepository) DeleteDeliveredBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	querier := database.GetTx(ctx, m.db)

	query := `DELETE FROM events WHERE delivery_state = ? AND delivered_at < ?`

	result, err := querier.ExecContext(ctx, query, eventDomain.DeliveryStateDelivered, cutoff)
	if err != nil {
		return 0, apperrors.WrapStorage(err, "failed to delete delivered events")
	}

	count, err := result.RowsAffected()
	if err != nil {
		return 0, apperrors.WrapStorage(err, "failed to get affected rows")
	}
	return count, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMySQLEvent(row rowScanner) (*eventDomain.Event, error) {
	var event eventDomain.Event
	var idBytes []byte

	err := row.Scan(
		&idBytes,
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
		return nil, err
	}

	// Convert bytes back to UUID
	if err := event.ID.UnmarshalBinary(idBytes); err != nil {
		return nil, err
	}

	return &event, nil
}

func scanMySQLEvents(rows *sql.Rows) ([]*eventDomain.Event, error) {
	defer func() {
		_ = rows.Close()
	}()

	events := make([]*eventDomain.Event, 0)
	for rows.Next() {
		event, err := scanMySQLEvent(rows)
		if err != nil {
			return nil, apperrors.WrapStorage(err, "failed to scan event")
		}
		events = append(events, event)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.WrapStorage(err, "failed to iterate events")
	}

	return events, nil
}

// NewMySQLEventRepository creates a new MySQL Event repository instance.
func NewMySQLEventRepository(db *sql.DB) *MySQLEventRepository {
	return &MySQLEventRepository{db: db}
}
