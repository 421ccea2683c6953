package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"community-hub/internal/data/entity"
	"community-hub/internal/data/repository"
	"community-hub/internal/dto/request"
	"community-hub/internal/dto/response"
	"community-hub/pkg/notify"
	"community-hub/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type BookingService interface {
	BookEvent(ctx context.Context, req *request.CreateBookingRequest, actor utils.Actor) (*response.BookingResponse, error)
	ListMyBookings(ctx context.Context, actor utils.Actor) ([]response.BookingResponse, error)
	CancelBooking(ctx context.Context, bookingID string, actor utils.Actor) error

	BookService(ctx context.Context, req *request.CreateServiceBookingRequest, actor utils.Actor) (*response.ServiceBookingResponse, error)
	ListServiceBookings(ctx context.Context, actor utils.Actor) ([]response.ServiceBookingResponse, error)
	CancelServiceBooking(ctx context.Context, bookingID string, actor utils.Actor) error
}

type bookingService struct {
	repo     *repository.Repository
	notifier notify.Publisher
	log      *zap.Logger
}

func NewBookingService(repo *repository.Repository, notifier notify.Publisher, log *zap.Logger) BookingService {
	return &bookingService{
		repo:     repo,
		notifier: notifier,
		log:      log.With(zap.String("service", "booking")),
	}
}

func (s *bookingService) BookEvent(ctx context.Context, req *request.CreateBookingRequest, actor utils.Actor) (*response.BookingResponse, error) {
	// 1. Validate
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, utils.NewValidationError(errs)
	}
	eventID, err := uuid.Parse(req.EventID)
	if err != nil {
		return nil, utils.NewError(utils.ErrValidation, "Invalid event ID")
	}

	// 2. Event must exist
	event, err := s.repo.Event.FindByID(ctx, eventID)
	if err != nil {
		s.log.Error("Failed to get event for booking", zap.Error(err), zap.String("event_id", req.EventID))
		return nil, fmt.Errorf("get event: %w", err)
	}
	if event == nil {
		return nil, utils.NewError(utils.ErrNotFound, "Event not found")
	}

	// 3. One booking per user and event
	existing, err := s.repo.Booking.FindByUserAndEvent(ctx, actor.ID, eventID)
	if err != nil {
		s.log.Error("Failed to check existing booking", zap.Error(err))
		return nil, fmt.Errorf("check booking: %w", err)
	}
	if existing != nil {
		return nil, utils.NewError(utils.ErrConflict, "Event already booked")
	}

	booking := &entity.Booking{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: time.Now().UTC(),
		},
		UserID:  actor.ID,
		EventID: eventID,
		Status:  entity.BookingStatusConfirmed,
	}

	if err := s.repo.Booking.Create(ctx, booking); err != nil {
		switch {
		case errors.Is(err, utils.ErrConflict):
			return nil, utils.NewError(utils.ErrConflict, "Event already booked")
		case errors.Is(err, utils.ErrNotFound):
			return nil, utils.NewError(utils.ErrNotFound, "Event not found")
		}
		s.log.Error("Failed to create booking", zap.Error(err))
		return nil, fmt.Errorf("create booking: %w", err)
	}

	s.log.Info("Booking created",
		zap.String("booking_id", booking.ID.String()),
		zap.String("event_id", eventID.String()),
		zap.String("user_id", actor.ID.String()),
	)

	publish(ctx, s.notifier, s.log, notify.Notification{
		Kind:      notify.KindBookingCreated,
		SubjectID: booking.ID.String(),
		ActorID:   actor.ID.String(),
		Status:    string(booking.Status),
		Title:     event.Title,
	})

	resp := response.BookingToResponse(booking, &event.Event)
	return &resp, nil
}

func (s *bookingService) ListMyBookings(ctx context.Context, actor utils.Actor) ([]response.BookingResponse, error) {
	bookings, err := s.repo.Booking.FindByUserID(ctx, actor.ID)
	if err != nil {
		s.log.Error("Failed to get bookings", zap.Error(err), zap.String("user_id", actor.ID.String()))
		return nil, fmt.Errorf("get bookings: %w", err)
	}

	result := make([]response.BookingResponse, len(bookings))
	for i, booking := range bookings {
		result[i] = response.BookingToResponse(&booking.Booking, booking.Event)
	}
	return result, nil
}

func (s *bookingService) CancelBooking(ctx context.Context, bookingID string, actor utils.Actor) error {
	id, err := uuid.Parse(bookingID)
	if err != nil {
		return utils.NewError(utils.ErrValidation, "Invalid booking ID")
	}

	booking, err := s.repo.Booking.FindByID(ctx, id)
	if err != nil {
		s.log.Error("Failed to get booking", zap.Error(err), zap.String("booking_id", bookingID))
		return fmt.Errorf("get booking: %w", err)
	}
	if booking == nil {
		return utils.NewError(utils.ErrNotFound, "Booking not found")
	}

	if booking.UserID != actor.ID && !actor.IsAdmin() {
		s.log.Warn("Booking cancel denied",
			zap.String("booking_id", bookingID),
			zap.String("actor_id", actor.ID.String()),
		)
		return utils.NewError(utils.ErrForbidden, "Not authorized to cancel this booking")
	}

	if err := s.repo.Booking.Delete(ctx, id); err != nil {
		s.log.Error("Failed to delete booking", zap.Error(err), zap.String("booking_id", bookingID))
		return fmt.Errorf("delete booking: %w", err)
	}

	s.log.Info("Booking cancelled", zap.String("booking_id", bookingID))

	publish(ctx, s.notifier, s.log, notify.Notification{
		Kind:      notify.KindBookingCancelled,
		SubjectID: bookingID,
		ActorID:   actor.ID.String(),
	})
	return nil
}

func (s *bookingService) BookService(ctx context.Context, req *request.CreateServiceBookingRequest, actor utils.Actor) (*response.ServiceBookingResponse, error) {
	req.Message = strings.TrimSpace(req.Message)
	req.ContactInfo = strings.TrimSpace(req.ContactInfo)
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, utils.NewValidationError(errs)
	}

	serviceID, err := uuid.Parse(req.ServiceID)
	if err != nil {
		return nil, utils.NewError(utils.ErrValidation, "Invalid service ID")
	}

	service, err := s.repo.Service.FindByID(ctx, serviceID)
	if err != nil {
		s.log.Error("Failed to get service for booking", zap.Error(err), zap.String("service_id", req.ServiceID))
		return nil, fmt.Errorf("get service: %w", err)
	}
	if service == nil {
		return nil, utils.NewError(utils.ErrNotFound, "Service not found")
	}

	userID := actor.ID
	booking := &entity.ServiceBooking{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: time.Now().UTC(),
		},
		ServiceID:   serviceID,
		UserID:      &userID,
		Message:     req.Message,
		ContactInfo: req.ContactInfo,
		Status:      entity.BookingStatusPending,
	}

	if err := s.repo.ServiceBooking.Create(ctx, booking); err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.NewError(utils.ErrNotFound, "Service not found")
		}
		s.log.Error("Failed to create service booking", zap.Error(err))
		return nil, fmt.Errorf("create service booking: %w", err)
	}

	s.log.Info("Service booking created",
		zap.String("service_booking_id", booking.ID.String()),
		zap.String("service_id", serviceID.String()),
	)

	publish(ctx, s.notifier, s.log, notify.Notification{
		Kind:      notify.KindServiceBookingCreated,
		SubjectID: booking.ID.String(),
		ActorID:   actor.ID.String(),
		Status:    string(booking.Status),
		Title:     service.Title,
	})

	resp := response.ServiceBookingToResponse(booking, &service.Service)
	return &resp, nil
}

// ListServiceBookings returns everything to admins. Other actors see the
// bookings they made and the bookings addressed to services they own.
func (s *bookingService) ListServiceBookings(ctx context.Context, actor utils.Actor) ([]response.ServiceBookingResponse, error) {
	filter := repository.ServiceBookingFilter{}
	if !actor.IsAdmin() {
		filter.VisibleTo = &actor.ID
	}

	bookings, err := s.repo.ServiceBooking.FindAll(ctx, filter)
	if err != nil {
		s.log.Error("Failed to get service bookings", zap.Error(err))
		return nil, fmt.Errorf("get service bookings: %w", err)
	}

	result := make([]response.ServiceBookingResponse, len(bookings))
	for i, booking := range bookings {
		result[i] = response.ServiceBookingToResponse(&booking.ServiceBooking, booking.Service)
	}
	return result, nil
}

func (s *bookingService) CancelServiceBooking(ctx context.Context, bookingID string, actor utils.Actor) error {
	id, err := uuid.Parse(bookingID)
	if err != nil {
		return utils.NewError(utils.ErrValidation, "Invalid service booking ID")
	}

	booking, err := s.repo.ServiceBooking.FindByID(ctx, id)
	if err != nil {
		s.log.Error("Failed to get service booking", zap.Error(err), zap.String("service_booking_id", bookingID))
		return fmt.Errorf("get service booking: %w", err)
	}
	if booking == nil {
		return utils.NewError(utils.ErrNotFound, "Service booking not found")
	}

	ownsService := booking.Service != nil && actor.Owns(booking.Service.OwnerID)
	if !actor.IsAdmin() && !actor.Owns(booking.UserID) && !ownsService {
		s.log.Warn("Service booking cancel denied",
			zap.String("service_booking_id", bookingID),
			zap.String("actor_id", actor.ID.String()),
		)
		return utils.NewError(utils.ErrForbidden, "Not authorized to cancel this service booking")
	}

	if err := s.repo.ServiceBooking.Delete(ctx, id); err != nil {
		s.log.Error("Failed to delete service booking", zap.Error(err), zap.String("service_booking_id", bookingID))
		return fmt.Errorf("delete service booking: %w", err)
	}

	s.log.Info("Service booking cancelled", zap.String("service_booking_id", bookingID))

	publish(ctx, s.notifier, s.log, notify.Notification{
		Kind:      notify.KindServiceBookingDeleted,
		SubjectID: bookingID,
		ActorID:   actor.ID.String(),
	})
	return nil
}
