package repository

import (
	"context"
	"errors"
	"fmt"

	"community-hub/internal/data/entity"
	"community-hub/pkg/database"
	"community-hub/pkg/utils"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type ServiceBookingRepository interface {
	Create(ctx context.Context, booking *entity.ServiceBooking) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.ServiceBookingWithService, error)
	FindAll(ctx context.Context, filter ServiceBookingFilter) ([]*entity.ServiceBookingWithService, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type serviceBookingRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewServiceBookingRepository(db database.PgxIface, log *zap.Logger) ServiceBookingRepository {
	return &serviceBookingRepository{
		db:  db,
		log: log.With(zap.String("repository", "service_booking")),
	}
}

const serviceBookingSelect = `
	SELECT sb.id, sb.service_id, sb.user_id, sb.message, sb.contact_info,
	       sb.status, sb.created_at,
	       s.id, s.title, s.category, s.description, s.contact, s.price,
	       s.image_url, s.owner_id, s.status, s.created_at, s.updated_at
	FROM service_bookings sb
	JOIN services s ON s.id = sb.service_id
`

func (r *serviceBookingRepository) Create(ctx context.Context, booking *entity.ServiceBooking) error {
	query := `
		INSERT INTO service_bookings (id, service_id, user_id, message,
		                              contact_info, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.Exec(ctx, query,
		booking.ID,
		booking.ServiceID,
		booking.UserID,
		booking.Message,
		booking.ContactInfo,
		booking.Status,
		booking.CreatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create service booking",
			zap.Error(err),
			zap.String("service_id", booking.ServiceID.String()),
		)
		return fmt.Errorf("create service booking: %w", mapWriteError(err))
	}

	return nil
}

func (r *serviceBookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.ServiceBookingWithService, error) {
	booking, err := scanServiceBooking(r.db.QueryRow(ctx, serviceBookingSelect+` WHERE sb.id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find service booking by ID",
			zap.Error(err),
			zap.String("service_booking_id", id.String()),
		)
		return nil, fmt.Errorf("find service booking %s: %w", id.String(), err)
	}

	return booking, nil
}

func (r *serviceBookingRepository) FindAll(ctx context.Context, filter ServiceBookingFilter) ([]*entity.ServiceBookingWithService, error) {
	query := serviceBookingSelect
	args := []interface{}{}

	if filter.VisibleTo != nil {
		query += " WHERE sb.user_id = $1 OR s.owner_id = $1"
		args = append(args, *filter.VisibleTo)
	}
	query += " ORDER BY sb.created_at DESC"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to find service bookings", zap.Error(err))
		return nil, fmt.Errorf("find service bookings: %w", err)
	}
	defer rows.Close()

	bookings := []*entity.ServiceBookingWithService{}
	for rows.Next() {
		booking, err := scanServiceBooking(rows)
		if err != nil {
			r.log.Error("Failed to scan service booking row", zap.Error(err))
			return nil, fmt.Errorf("scan service booking: %w", err)
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate service booking rows: %w", err)
	}

	return bookings, nil
}

func (r *serviceBookingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM service_bookings WHERE id = $1`, id)
	if err != nil {
		r.log.Error("Failed to delete service booking",
			zap.Error(err),
			zap.String("service_booking_id", id.String()),
		)
		return fmt.Errorf("delete service booking %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("service booking %s: %w", id.String(), utils.ErrNotFound)
	}

	return nil
}

func scanServiceBooking(row pgx.Row) (*entity.ServiceBookingWithService, error) {
	var (
		booking entity.ServiceBookingWithService
		service entity.Service
	)

	err := row.Scan(
		&booking.ID,
		&booking.ServiceID,
		&booking.UserID,
		&booking.Message,
		&booking.ContactInfo,
		&booking.Status,
		&booking.CreatedAt,
		&service.ID,
		&service.Title,
		&service.Category,
		&service.Description,
		&service.Contact,
		&service.Price,
		&service.ImageURL,
		&service.OwnerID,
		&service.Status,
		&service.CreatedAt,
		&service.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	booking.Service = &service
	return &booking, nil
}
