package repository

import (
	"errors"
	"time"

	"community-hub/internal/data/entity"
	"community-hub/pkg/database"
	"community-hub/pkg/utils"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

type Repository struct {
	User           UserRepository
	Event          EventRepository
	Service        ServiceRepository
	Booking        BookingRepository
	ServiceBooking ServiceBookingRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		User:           NewUserRepository(db, log),
		Event:          NewEventRepository(db, log),
		Service:        NewServiceRepository(db, log),
		Booking:        NewBookingRepository(db, log),
		ServiceBooking: NewServiceBookingRepository(db, log),
	}
}

// EventFilter narrows event listings. Results are ordered by date ascending.
type EventFilter struct {
	Status   *entity.ApprovalStatus
	OwnerID  *uuid.UUID
	DateFrom *time.Time
	Limit    int
}

// ServiceFilter narrows service listings. Results are ordered newest first.
type ServiceFilter struct {
	Status  *entity.ApprovalStatus
	OwnerID *uuid.UUID
	Limit   int
}

// ServiceBookingFilter narrows service bookings. VisibleTo keeps bookings
// made by that user or addressed to a service that user owns.
type ServiceBookingFilter struct {
	VisibleTo *uuid.UUID
}

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// mapWriteError turns a unique violation into utils.ErrConflict and a
// missing referenced row into utils.ErrNotFound.
func mapWriteError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case pgUniqueViolation:
		return errors.Join(utils.ErrConflict, err)
	case pgForeignKeyViolation:
		return errors.Join(utils.ErrNotFound, err)
	}
	return err
}
