package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"community-hub/internal/data/entity"
	"community-hub/pkg/database"
	"community-hub/pkg/utils"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type EventRepository interface {
	Create(ctx context.Context, event *entity.Event) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.EventWithOwner, error)
	FindAll(ctx context.Context, filter EventFilter) ([]*entity.EventWithOwner, error)
	CountAll(ctx context.Context, filter EventFilter) (int64, error)
	Update(ctx context.Context, event *entity.Event) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status entity.ApprovalStatus) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type eventRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewEventRepository(db database.PgxIface, log *zap.Logger) EventRepository {
	return &eventRepository{
		db:  db,
		log: log.With(zap.String("repository", "event")),
	}
}

const eventSelect = `
	SELECT e.id, e.title, e.date, e.location, e.price, e.image_url,
	       e.owner_id, e.status, e.created_at, e.updated_at,
	       u.name, u.email
	FROM events e
	LEFT JOIN users u ON u.id = e.owner_id
`

func (r *eventRepository) Create(ctx context.Context, event *entity.Event) error {
	query := `
		INSERT INTO events (id, title, date, location, price, image_url,
		                    owner_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.Exec(ctx, query,
		event.ID,
		event.Title,
		event.Date,
		event.Location,
		event.Price,
		event.ImageURL,
		event.OwnerID,
		event.Status,
		event.CreatedAt,
		event.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create event",
			zap.Error(err),
			zap.String("title", event.Title),
		)
		return fmt.Errorf("create event: %w", err)
	}

	return nil
}

func (r *eventRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.EventWithOwner, error) {
	event, err := scanEvent(r.db.QueryRow(ctx, eventSelect+` WHERE e.id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find event by ID",
			zap.Error(err),
			zap.String("event_id", id.String()),
		)
		return nil, fmt.Errorf("find event %s: %w", id.String(), err)
	}

	return event, nil
}

// eventWhere renders the filter conditions. Limit is not a condition.
func eventWhere(filter EventFilter) (string, []interface{}) {
	var where strings.Builder
	where.WriteString(" WHERE 1=1")

	args := []interface{}{}
	argCount := 1

	if filter.Status != nil {
		where.WriteString(fmt.Sprintf(" AND e.status = $%d", argCount))
		args = append(args, *filter.Status)
		argCount++
	}
	if filter.OwnerID != nil {
		where.WriteString(fmt.Sprintf(" AND e.owner_id = $%d", argCount))
		args = append(args, *filter.OwnerID)
		argCount++
	}
	if filter.DateFrom != nil {
		where.WriteString(fmt.Sprintf(" AND e.date >= $%d", argCount))
		args = append(args, *filter.DateFrom)
	}

	return where.String(), args
}

func (r *eventRepository) FindAll(ctx context.Context, filter EventFilter) ([]*entity.EventWithOwner, error) {
	where, args := eventWhere(filter)

	var queryBuilder strings.Builder
	queryBuilder.WriteString(eventSelect)
	queryBuilder.WriteString(where)
	queryBuilder.WriteString(" ORDER BY e.date ASC, e.created_at ASC")
	if filter.Limit > 0 {
		queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d", len(args)+1))
		args = append(args, filter.Limit)
	}

	rows, err := r.db.Query(ctx, queryBuilder.String(), args...)
	if err != nil {
		r.log.Error("Failed to find events", zap.Error(err))
		return nil, fmt.Errorf("find events: %w", err)
	}
	defer rows.Close()

	events := []*entity.EventWithOwner{}
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			r.log.Error("Failed to scan event row", zap.Error(err))
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, event)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate event rows: %w", err)
	}

	r.log.Debug("Events found", zap.Int("count", len(events)))
	return events, nil
}

func (r *eventRepository) CountAll(ctx context.Context, filter EventFilter) (int64, error) {
	where, args := eventWhere(filter)

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM events e`+where, args...).Scan(&total); err != nil {
		r.log.Error("Failed to count events", zap.Error(err))
		return 0, fmt.Errorf("count events: %w", err)
	}

	return total, nil
}

func (r *eventRepository) Update(ctx context.Context, event *entity.Event) error {
	query := `
		UPDATE events
		SET title = $2, date = $3, location = $4, price = $5,
		    image_url = $6, updated_at = $7
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query,
		event.ID,
		event.Title,
		event.Date,
		event.Location,
		event.Price,
		event.ImageURL,
		event.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to update event",
			zap.Error(err),
			zap.String("event_id", event.ID.String()),
		)
		return fmt.Errorf("update event %s: %w", event.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("event %s: %w", event.ID.String(), utils.ErrNotFound)
	}

	return nil
}

func (r *eventRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.ApprovalStatus) error {
	query := `UPDATE events SET status = $2, updated_at = NOW() WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id, status)
	if err != nil {
		r.log.Error("Failed to update event status",
			zap.Error(err),
			zap.String("event_id", id.String()),
			zap.String("status", string(status)),
		)
		return fmt.Errorf("update event status %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("event %s: %w", id.String(), utils.ErrNotFound)
	}

	return nil
}

func (r *eventRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		r.log.Error("Failed to delete event",
			zap.Error(err),
			zap.String("event_id", id.String()),
		)
		return fmt.Errorf("delete event %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("event %s: %w", id.String(), utils.ErrNotFound)
	}

	return nil
}

func scanEvent(row pgx.Row) (*entity.EventWithOwner, error) {
	var (
		event      entity.EventWithOwner
		ownerName  *string
		ownerEmail *string
	)

	err := row.Scan(
		&event.ID,
		&event.Title,
		&event.Date,
		&event.Location,
		&event.Price,
		&event.ImageURL,
		&event.OwnerID,
		&event.Status,
		&event.CreatedAt,
		&event.UpdatedAt,
		&ownerName,
		&ownerEmail,
	)
	if err != nil {
		return nil, err
	}

	if event.OwnerID != nil && ownerName != nil {
		event.Owner = &entity.User{
			Base:  entity.Base{ID: *event.OwnerID},
			Name:  *ownerName,
			Email: derefString(ownerEmail),
		}
	}

	return &event, nil
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
