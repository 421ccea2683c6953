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

const serviceImageFolder = "services"

type ListingService interface {
	List(ctx context.Context) ([]response.ServiceResponse, error)
	ListAll(ctx context.Context, actor utils.Actor) ([]response.ServiceResponse, error)
	ListApproved(ctx context.Context) ([]response.ServiceResponse, error)
	ListMine(ctx context.Context, actor utils.Actor) ([]response.ServiceResponse, error)
	ListPending(ctx context.Context, actor utils.Actor) ([]response.ServiceResponse, error)
	GetByID(ctx context.Context, serviceID string) (*response.ServiceResponse, error)
	Create(ctx context.Context, req *request.ServiceRequest, image *Image, actor utils.Actor) (*response.ServiceResponse, error)
	Update(ctx context.Context, serviceID string, req *request.ServiceUpdateRequest, image *Image, actor utils.Actor) (*response.ServiceResponse, error)
	SetStatus(ctx context.Context, serviceID string, req *request.StatusRequest, actor utils.Actor) (*response.ServiceResponse, error)
	Delete(ctx context.Context, serviceID string, actor utils.Actor) error
	Count(ctx context.Context) (int64, error)
	Categories() []entity.ServiceCategory
}

type listingService struct {
	repo     *repository.Repository
	images   storage.ImageStore
	notifier notify.Publisher
	log      *zap.Logger
}

func NewListingService(
	repo *repository.Repository,
	images storage.ImageStore,
	notifier notify.Publisher,
	log *zap.Logger,
) ListingService {
	return &listingService{
		repo:     repo,
		images:   images,
		notifier: notifier,
		log:      log.With(zap.String("service", "listing")),
	}
}

func (s *listingService) List(ctx context.Context) ([]response.ServiceResponse, error) {
	return s.find(ctx, repository.ServiceFilter{})
}

func (s *listingService) ListAll(ctx context.Context, actor utils.Actor) ([]response.ServiceResponse, error) {
	if !actor.IsAdmin() {
		return nil, utils.NewError(utils.ErrForbidden, "Admin access required")
	}
	return s.find(ctx, repository.ServiceFilter{})
}

func (s *listingService) ListApproved(ctx context.Context) ([]response.ServiceResponse, error) {
	status := entity.StatusApproved
	return s.find(ctx, repository.ServiceFilter{Status: &status})
}

func (s *listingService) ListMine(ctx context.Context, actor utils.Actor) ([]response.ServiceResponse, error) {
	return s.find(ctx, repository.ServiceFilter{OwnerID: &actor.ID})
}

func (s *listingService) ListPending(ctx context.Context, actor utils.Actor) ([]response.ServiceResponse, error) {
	if !actor.IsAdmin() {
		return nil, utils.NewError(utils.ErrForbidden, "Admin access required")
	}
	status := entity.StatusPending
	return s.find(ctx, repository.ServiceFilter{Status: &status})
}

func (s *listingService) find(ctx context.Context, filter repository.ServiceFilter) ([]response.ServiceResponse, error) {
	services, err := s.repo.Service.FindAll(ctx, filter)
	if err != nil {
		s.log.Error("Failed to get services", zap.Error(err))
		return nil, fmt.Errorf("get services: %w", err)
	}
	return response.ServicesToResponse(services), nil
}

func (s *listingService) GetByID(ctx context.Context, serviceID string) (*response.ServiceResponse, error) {
	service, err := s.findService(ctx, serviceID)
	if err != nil {
		return nil, err
	}

	resp := response.ServiceToResponse(&service.Service, service.Owner)
	return &resp, nil
}

func (s *listingService) Create(ctx context.Context, req *request.ServiceRequest, image *Image, actor utils.Actor) (*response.ServiceResponse, error) {
	// 1. Validate payload and image
	errs := utils.ValidateStruct(req)
	if image == nil {
		if errs == nil {
			errs = map[string]string{}
		}
		errs["Image"] = "This field is required"
	}
	if len(errs) > 0 {
		s.log.Warn("Create service validation failed", zap.Any("errors", errs))
		return nil, utils.NewValidationError(errs)
	}

	// 2. Upload image
	imageURL, err := s.images.Upload(ctx, image.File, image.Filename, serviceImageFolder)
	if err != nil {
		s.log.Error("Failed to upload service image", zap.Error(err))
		return nil, fmt.Errorf("upload service image: %w", err)
	}

	// 3. Persist with the actor as owner
	ownerID := actor.ID
	now := time.Now().UTC()
	service := &entity.Service{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Title:       req.Title,
		Category:    entity.ServiceCategory(req.Category),
		Description: req.Description,
		Contact:     req.Contact,
		ImageURL:    imageURL,
		OwnerID:     &ownerID,
		Status:      entity.InitialStatus(actor.Role),
	}
	if req.Price != nil {
		service.Price = *req.Price
	}

	if err := s.repo.Service.Create(ctx, service); err != nil {
		s.log.Error("Failed to create service", zap.Error(err), zap.String("title", service.Title))
		return nil, fmt.Errorf("create service: %w", err)
	}

	s.log.Info("Service created",
		zap.String("service_id", service.ID.String()),
		zap.String("category", string(service.Category)),
		zap.String("status", string(service.Status)),
	)

	publish(ctx, s.notifier, s.log, notify.Notification{
		Kind:      notify.KindServiceCreated,
		SubjectID: service.ID.String(),
		ActorID:   actor.ID.String(),
		Status:    string(service.Status),
		Title:     service.Title,
	})

	resp := response.ServiceToResponse(service, nil)
	return &resp, nil
}

func (s *listingService) Update(ctx context.Context, serviceID string, req *request.ServiceUpdateRequest, image *Image, actor utils.Actor) (*response.ServiceResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Update service validation failed", zap.Any("errors", errs))
		return nil, utils.NewValidationError(errs)
	}

	existing, err := s.findService(ctx, serviceID)
	if err != nil {
		return nil, err
	}

	if !actor.IsAdmin() && !actor.Owns(existing.OwnerID) {
		s.log.Warn("Service update denied",
			zap.String("service_id", serviceID),
			zap.String("actor_id", actor.ID.String()),
		)
		return nil, utils.NewError(utils.ErrForbidden, "Not allowed to modify this service")
	}

	// Apply partial update
	service := existing.Service
	if req.Title != nil {
		service.Title = *req.Title
	}
	if req.Category != nil {
		service.Category = entity.ServiceCategory(*req.Category)
	}
	if req.Description != nil {
		service.Description = *req.Description
	}
	if req.Contact != nil {
		service.Contact = *req.Contact
	}
	if req.Price != nil {
		service.Price = *req.Price
	}
	if image != nil {
		imageURL, err := s.images.Upload(ctx, image.File, image.Filename, serviceImageFolder)
		if err != nil {
			s.log.Error("Failed to upload service image", zap.Error(err), zap.String("service_id", serviceID))
			return nil, fmt.Errorf("upload service image: %w", err)
		}
		service.ImageURL = imageURL
	}
	service.UpdatedAt = time.Now().UTC()

	if err := s.repo.Service.Update(ctx, &service); err != nil {
		s.log.Error("Failed to update service", zap.Error(err), zap.String("service_id", serviceID))
		return nil, fmt.Errorf("update service: %w", err)
	}

	s.log.Info("Service updated", zap.String("service_id", serviceID))

	resp := response.ServiceToResponse(&service, existing.Owner)
	return &resp, nil
}

func (s *listingService) SetStatus(ctx context.Context, serviceID string, req *request.StatusRequest, actor utils.Actor) (*response.ServiceResponse, error) {
	if !actor.IsAdmin() {
		return nil, utils.NewError(utils.ErrForbidden, "Admin access required")
	}
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Invalid status decision", zap.String("status", req.Status))
		return nil, utils.NewError(utils.ErrValidation, "Invalid status")
	}
	status := entity.ApprovalStatus(req.Status)

	existing, err := s.findService(ctx, serviceID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Service.UpdateStatus(ctx, existing.ID, status); err != nil {
		s.log.Error("Failed to update service status", zap.Error(err), zap.String("service_id", serviceID))
		return nil, fmt.Errorf("update service status: %w", err)
	}

	s.log.Info("Service status changed",
		zap.String("service_id", serviceID),
		zap.String("from", string(existing.Status)),
		zap.String("to", string(status)),
	)

	publish(ctx, s.notifier, s.log, notify.Notification{
		Kind:      notify.KindServiceStatusChanged,
		SubjectID: serviceID,
		ActorID:   actor.ID.String(),
		Status:    string(status),
		Title:     existing.Title,
	})

	existing.Status = status
	resp := response.ServiceToResponse(&existing.Service, existing.Owner)
	return &resp, nil
}

func (s *listingService) Delete(ctx context.Context, serviceID string, actor utils.Actor) error {
	existing, err := s.findService(ctx, serviceID)
	if err != nil {
		return err
	}

	if !actor.IsAdmin() && !actor.Owns(existing.OwnerID) {
		s.log.Warn("Service delete denied",
			zap.String("service_id", serviceID),
			zap.String("actor_id", actor.ID.String()),
		)
		return utils.NewError(utils.ErrForbidden, "Not allowed to delete this service")
	}

	if err := s.repo.Service.Delete(ctx, existing.ID); err != nil {
		s.log.Error("Failed to delete service", zap.Error(err), zap.String("service_id", serviceID))
		return fmt.Errorf("delete service: %w", err)
	}

	s.log.Info("Service deleted", zap.String("service_id", serviceID))
	return nil
}

func (s *listingService) Count(ctx context.Context) (int64, error) {
	total, err := s.repo.Service.CountAll(ctx, repository.ServiceFilter{})
	if err != nil {
		s.log.Error("Failed to count services", zap.Error(err))
		return 0, fmt.Errorf("count services: %w", err)
	}
	return total, nil
}

func (s *listingService) findService(ctx context.Context, serviceID string) (*entity.ServiceWithOwner, error) {
	id, err := uuid.Parse(serviceID)
	if err != nil {
		s.log.Warn("Invalid service ID format", zap.String("service_id", serviceID))
		return nil, utils.NewError(utils.ErrValidation, "Invalid service ID")
	}

	service, err := s.repo.Service.FindByID(ctx, id)
	if err != nil {
		s.log.Error("Failed to get service by ID", zap.Error(err), zap.String("service_id", serviceID))
		return nil, fmt.Errorf("get service: %w", err)
	}
	if service == nil {
		return nil, utils.NewError(utils.ErrNotFound, "Service not found")
	}

	return service, nil
}

// Categories returns the enumeration accepted by Create and Update.
func (s *listingService) Categories() []entity.ServiceCategory {
	categories := make([]entity.ServiceCategory, len(entity.ServiceCategories))
	copy(categories, entity.ServiceCategories)
	return categories
}
