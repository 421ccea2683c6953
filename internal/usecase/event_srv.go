package usecase

import (
	"context"
	"fmt"
	"time"

	"community-hub/internal/data/entity"
	"community-hub/internal/data/repository"
	"community-hub/internal/dto/request"
	"community-hub/internal/dto/response"
	"community-hub/pkg/notify"
	"community-hub/pkg/storage"
	"community-hub/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const eventImageFolder = "events"

type EventService interface {
	List(ctx context.Context) ([]response.EventResponse, error)
	ListAll(ctx context.Context, actor utils.Actor) ([]response.EventResponse, error)
	ListApproved(ctx context.Context) ([]response.EventResponse, error)
	ListMine(ctx context.Context, actor utils.Actor) ([]response.EventResponse, error)
	ListPending(ctx context.Context, actor utils.Actor) ([]response.EventResponse, error)
	GetByID(ctx context.Context, eventID string) (*response.EventResponse, error)
	Create(ctx context.Context, req *request.EventRequest, image *Image, actor *utils.Actor) (*response.EventResponse, error)
	Update(ctx context.Context, eventID string, req *request.EventUpdateRequest, image *Image, actor utils.Actor) (*response.EventResponse, error)
	SetStatus(ctx context.Context, eventID string, req *request.StatusRequest, actor utils.Actor) (*response.EventResponse, error)
	Delete(ctx context.Context, eventID string, actor utils.Actor) error
	Count(ctx context.Context) (int64, error)
}

type eventService struct {
	repo     *repository.Repository
	images   storage.ImageStore
	notifier notify.Publisher
	log      *zap.Logger
}

func NewEventService(
	repo *repository.Repository,
	images storage.ImageStore,
	notifier notify.Publisher,
	log *zap.Logger,
) EventService {
	return &eventService{
		repo:     repo,
		images:   images,
		notifier: notifier,
		log:      log.With(zap.String("service", "event")),
	}
}

// List returns every event regardless of status.
func (s *eventService) List(ctx context.Context) ([]response.EventResponse, error) {
	return s.find(ctx, repository.EventFilter{})
}

func (s *eventService) ListAll(ctx context.Context, actor utils.Actor) ([]response.EventResponse, error) {
	if !actor.IsAdmin() {
		return nil, utils.NewError(utils.ErrForbidden, "Admin access required")
	}
	return s.find(ctx, repository.EventFilter{})
}

func (s *eventService) ListApproved(ctx context.Context) ([]response.EventResponse, error) {
	status := entity.StatusApproved
	return s.find(ctx, repository.EventFilter{Status: &status})
}

func (s *eventService) ListMine(ctx context.Context, actor utils.Actor) ([]response.EventResponse, error) {
	return s.find(ctx, repository.EventFilter{OwnerID: &actor.ID})
}

func (s *eventService) ListPending(ctx context.Context, actor utils.Actor) ([]response.EventResponse, error) {
	if !actor.IsAdmin() {
		return nil, utils.NewError(utils.ErrForbidden, "Admin access required")
	}
	status := entity.StatusPending
	return s.find(ctx, repository.EventFilter{Status: &status})
}

func (s *eventService) find(ctx context.Context, filter repository.EventFilter) ([]response.EventResponse, error) {
	events, err := s.repo.Event.FindAll(ctx, filter)
	if err != nil {
		s.log.Error("Failed to get events", zap.Error(err))
		return nil, fmt.Errorf("get events: %w", err)
	}
	return response.EventsToResponse(events), nil
}

func (s *eventService) GetByID(ctx context.Context, eventID string) (*response.EventResponse, error) {
	event, err := s.findEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	resp := response.EventToResponse(&event.Event, event.Owner)
	return &resp, nil
}

func (s *eventService) Create(ctx context.Context, req *request.EventRequest, image *Image, actor *utils.Actor) (*response.EventResponse, error) {
	// 1. Validate payload and image
	errs := utils.ValidateStruct(req)
	if image == nil {
		if errs == nil {
			errs = map[string]string{}
		}
		errs["Image"] = "This field is required"
	}
	if len(errs) > 0 {
		s.log.Warn("Create event validation failed", zap.Any("errors", errs))
		return nil, utils.NewValidationError(errs)
	}

	date, err := utils.ParseDate(req.Date)
	if err != nil {
		return nil, utils.NewValidationError(map[string]string{"Date": "Invalid date format"})
	}

	// 2. Upload image
	imageURL, err := s.images.Upload(ctx, image.File, image.Filename, eventImageFolder)
	if err != nil {
		s.log.Error("Failed to upload event image", zap.Error(err))
		return nil, fmt.Errorf("upload event image: %w", err)
	}

	// 3. Owner and initial status come from the actor
	var (
		ownerID *uuid.UUID
		role    entity.UserRole
	)
	if actor != nil {
		id := actor.ID
		ownerID = &id
		role = actor.Role
	}

	now := time.Now().UTC()
	event := &entity.Event{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Title:    req.Title,
		Date:     date,
		Location: req.Location,
		ImageURL: imageURL,
		OwnerID:  ownerID,
		Status:   entity.InitialStatus(role),
	}
	if req.Price != nil {
		event.Price = *req.Price
	}

	if err := s.repo.Event.Create(ctx, event); err != nil {
		s.log.Error("Failed to create event", zap.Error(err), zap.String("title", event.Title))
		return nil, fmt.Errorf("create event: %w", err)
	}

	s.log.Info("Event created",
		zap.String("event_id", event.ID.String()),
		zap.String("status", string(event.Status)),
		zap.Bool("anonymous", ownerID == nil),
	)

	publish(ctx, s.notifier, s.log, notify.Notification{
		Kind:      notify.KindEventCreated,
		SubjectID: event.ID.String(),
		ActorID:   actorIDString(actor),
		Status:    string(event.Status),
		Title:     event.Title,
	})

	resp := response.EventToResponse(event, nil)
	return &resp, nil
}

func (s *eventService) Update(ctx context.Context, eventID string, req *request.EventUpdateRequest, image *Image, actor utils.Actor) (*response.EventResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Update event validation failed", zap.Any("errors", errs))
		return nil, utils.NewValidationError(errs)
	}

	existing, err := s.findEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	if !actor.IsAdmin() && !actor.Owns(existing.OwnerID) {
		s.log.Warn("Event update denied",
			zap.String("event_id", eventID),
			zap.String("actor_id", actor.ID.String()),
		)
		return nil, utils.NewError(utils.ErrForbidden, "Not allowed to modify this event")
	}

	// Apply partial update
	event := existing.Event
	if req.Title != nil {
		event.Title = *req.Title
	}
	if req.Date != nil {
		date, err := utils.ParseDate(*req.Date)
		if err != nil {
			return nil, utils.NewValidationError(map[string]string{"Date": "Invalid date format"})
		}
		event.Date = date
	}
	if req.Location != nil {
		event.Location = *req.Location
	}
	if req.Price != nil {
		event.Price = *req.Price
	}
	if image != nil {
		imageURL, err := s.images.Upload(ctx, image.File, image.Filename, eventImageFolder)
		if err != nil {
			s.log.Error("Failed to upload event image", zap.Error(err), zap.String("event_id", eventID))
			return nil, fmt.Errorf("upload event image: %w", err)
		}
		event.ImageURL = imageURL
	}
	event.UpdatedAt = time.Now().UTC()

	if err := s.repo.Event.Update(ctx, &event); err != nil {
		s.log.Error("Failed to update event", zap.Error(err), zap.String("event_id", eventID))
		return nil, fmt.Errorf("update event: %w", err)
	}

	s.log.Info("Event updated", zap.String("event_id", eventID))

	resp := response.EventToResponse(&event, existing.Owner)
	return &resp, nil
}

func (s *eventService) SetStatus(ctx context.Context, eventID string, req *request.StatusRequest, actor utils.Actor) (*response.EventResponse, error) {
	if !actor.IsAdmin() {
		return nil, utils.NewError(utils.ErrForbidden, "Admin access required")
	}
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Invalid status decision", zap.String("status", req.Status))
		return nil, utils.NewError(utils.ErrValidation, "Invalid status")
	}
	status := entity.ApprovalStatus(req.Status)

	existing, err := s.findEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Event.UpdateStatus(ctx, existing.ID, status); err != nil {
		s.log.Error("Failed to update event status", zap.Error(err), zap.String("event_id", eventID))
		return nil, fmt.Errorf("update event status: %w", err)
	}

	s.log.Info("Event status changed",
		zap.String("event_id", eventID),
		zap.String("from", string(existing.Status)),
		zap.String("to", string(status)),
	)

	publish(ctx, s.notifier, s.log, notify.Notification{
		Kind:      notify.KindEventStatusChanged,
		SubjectID: eventID,
		ActorID:   actor.ID.String(),
		Status:    string(status),
		Title:     existing.Title,
	})

	existing.Status = status
	resp := response.EventToResponse(&existing.Event, existing.Owner)
	return &resp, nil
}

func (s *eventService) Delete(ctx context.Context, eventID string, actor utils.Actor) error {
	existing, err := s.findEvent(ctx, eventID)
	if err != nil {
		return err
	}

	if !actor.IsAdmin() && !actor.Owns(existing.OwnerID) {
		s.log.Warn("Event delete denied",
			zap.String("event_id", eventID),
			zap.String("actor_id", actor.ID.String()),
		)
		return utils.NewError(utils.ErrForbidden, "Not allowed to delete this event")
	}

	if err := s.repo.Event.Delete(ctx, existing.ID); err != nil {
		s.log.Error("Failed to delete event", zap.Error(err), zap.String("event_id", eventID))
		return fmt.Errorf("delete event: %w", err)
	}

	s.log.Info("Event deleted", zap.String("event_id", eventID))
	return nil
}

func (s *eventService) Count(ctx context.Context) (int64, error) {
	total, err := s.repo.Event.CountAll(ctx, repository.EventFilter{})
	if err != nil {
		s.log.Error("Failed to count events", zap.Error(err))
		return 0, fmt.Errorf("count events: %w", err)
	}
	return total, nil
}

func (s *eventService) findEvent(ctx context.Context, eventID string) (*entity.EventWithOwner, error) {
	id, err := uuid.Parse(eventID)
	if err != nil {
		s.log.Warn("Invalid event ID format", zap.String("event_id", eventID))
		return nil, utils.NewError(utils.ErrValidation, "Invalid event ID")
	}

	event, err := s.repo.Event.FindByID(ctx, id)
	if err != nil {
		s.log.Error("Failed to get event by ID", zap.Error(err), zap.String("event_id", eventID))
		return nil, fmt.Errorf("get event: %w", err)
	}
	if event == nil {
		return nil, utils.NewError(utils.ErrNotFound, "Event not found")
	}

	return event, nil
}
