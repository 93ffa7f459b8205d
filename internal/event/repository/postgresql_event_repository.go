// Package repository implements data persistence for the event log.
// Repositories support PostgreSQL, MySQL and SQLite; PostgreSQL and MySQL lock rows
// with SELECT ... FOR UPDATE while a delivery batch is marked.
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

const eventColumns = `id, type, affected_object, course_id, entity_id, related_entity_id,
			  delivery_state, attempt_count, last_error, delivered_at, created_at, updated_at`

// PostgreSQLEventRepository implements Event persistence for PostgreSQL databases.
type PostgreSQLEventRepository struct {
	db *sql.DB
}

// Create inserts a new event into the PostgreSQL database.
func (p *PostgreSQLEventRepository) Create(ctx context.Context, event *eventDomain.Event) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO events (` + eventColumns + `) 
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

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
func (p *PostgreSQLEventRepository) Get(ctx context.Context, eventID uuid.UUID) (*eventDomain.Event, error) {
	return p.get(ctx, `SELECT `+eventColumns+` FROM events WHERE id = $1`, eventID)
}

// GetForUpdate retrieves an event by its id and locks the row for the current transaction.
func (p *PostgreSQLEventRepository) GetForUpdate(
	ctx context.Context,
	eventID uuid.UUID,
) (*eventDomain.Event, error) {
	return p.get(ctx, `SELECT `+eventColumns+` FROM events WHERE id = $1 FOR UPDATE`, eventID)
}

func (p *PostgreSQLEventRepository) get(
	ctx context.Context,
	query string,
	eventID uuid.UUID,
) (*eventDomain.Event, error) {
	querier := database.GetTx(ctx, p.db)

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

// Update persists the delivery fields of an event.
func (p *PostgreSQLEventRepository) Update(ctx context.Context, event *eventDomain.Event) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE events 
			  SET delivery_state = $1, attempt_count = $2, last_error = $3, delivered_at = $4, updated_at = $5 
			  WHERE id = $6`

	result, err := querier.ExecContext(
		ctx,
		query,
		event.DeliveryState,
		event.AttemptCount,
		event.LastError,
		event.DeliveredAt,
		event.UpdatedAt,
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
func (p *PostgreSQLEventRepository) ListEligible(ctx context.Context, limit int) ([]*eventDomain.Event, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + eventColumns + ` 
			  FROM events 
			  WHERE delivery_state IN ($1, $2) 
			  ORDER BY created_at ASC, id ASC 
			  LIMIT $3`

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
func (p *PostgreSQLEventRepository) List(
	ctx context.Context,
	state *eventDomain.DeliveryState,
	offset, limit int,
) ([]*eventDomain.Event, error) {
	querier := database.GetTx(ctx, p.db)

	var rows *sql.Rows
	var err error
	if state != nil {
		query := `SELECT ` + eventColumns + ` 
				  FROM events 
				  WHERE delivery_state = $1 
				  ORDER BY created_at ASC, id ASC 
				  LIMIT $2 OFFSET $3`
		rows, err = querier.QueryContext(ctx, query, *state, limit, offset)
	} else {
		query := `SELECT ` + eventColumns + ` 
				  FROM events 
				  ORDER BY created_at ASC, id ASC 
				  LIMIT $1 OFFSET $2`
		rows, err = querier.QueryContext(ctx, query, limit, offset)
	}
	if err != nil {
		return nil, apperrors.WrapStorage(err, "failed to list events")
	}
	return scanEvents(rows)
}

// CountDeliveredBefore counts DELIVERED events delivered before cutoff.
func (p *PostgreSQLEventRepository) CountDeliveredBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT COUNT(*) FROM events WHERE delivery_state = $1 AND delivered_at < $2`

	var count int64
	err := querier.QueryRowContext(ctx, query, eventDomain.DeliveryStateDelivered, cutoff).Scan(&count)
	if err != nil {
		return 0, apperrors.WrapStorage(err, "failed to count delivered events")
	}
	return count, nil
}

// DeleteDeliveredBefore deletes DELIVERED events delivered before cutoff.
func (p *PostgreSQLEventRepository) DeleteDeliveredBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	querier := database.GetTx(ctx, p.db)

	query := `DELETE FROM events WHERE delivery_state = $1 AND delivered_at < $2`

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

func scanEvents(rows *sql.Rows) ([]*eventDomain.Event, error) {
	defer func() {
		_ = rows.Close()
	}()

	// Initialize empty slice to avoid returning nil for empty results
	events := make([]*eventDomain.Event, 0)
	for rows.Next() {
		var event eventDomain.Event
		err := rows.Scan(
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
			return nil, apperrors.WrapStorage(err, "failed to scan event")
		}
		events = append(events, &event)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.WrapStorage(err, "failed to iterate events")
	}

	return events, nil
}

// NewPostgreSQLEventRepository creates a new PostgreSQL Event repository instance.
func NewPostgreSQLEventRepository(db *sql.DB) *PostgreSQLEventRepository {
	return &PostgreSQLEventRepository{db: db}
}
