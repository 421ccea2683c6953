package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"community-hub/internal/data/entity"
	"community-hub/pkg/utils"

	"github.com/google/uuid"
)

// memoryStore backs every in-memory repository with one lock so that
// cascades and joins observe a consistent snapshot.
type memoryStore struct {
	mu              sync.RWMutex
	users           map[uuid.UUID]entity.User
	events          map[uuid.UUID]entity.Event
	services        map[uuid.UUID]entity.Service
	bookings        map[uuid.UUID]entity.Booking
	serviceBookings map[uuid.UUID]entity.ServiceBooking
}

// NewMemoryRepository returns repositories kept in process memory. It is
// used when no DATABASE_URL is configured and as the storage double in tests.
func NewMemoryRepository() *Repository {
	store := &memoryStore{
		users:           make(map[uuid.UUID]entity.User),
		events:          make(map[uuid.UUID]entity.Event),
		services:        make(map[uuid.UUID]entity.Service),
		bookings:        make(map[uuid.UUID]entity.Booking),
		serviceBookings: make(map[uuid.UUID]entity.ServiceBooking),
	}

	return &Repository{
		User:           &memoryUserRepository{store},
		Event:          &memoryEventRepository{store},
		Service:        &memoryServiceRepository{store},
		Booking:        &memoryBookingRepository{store},
		ServiceBooking: &memoryServiceBookingRepository{store},
	}
}

// publicOwner copies the identity fields exposed alongside listings.
func (s *memoryStore) publicOwner(ownerID *uuid.UUID) *entity.User {
	if ownerID == nil {
		return nil
	}
	user, ok := s.users[*ownerID]
	if !ok {
		return nil
	}
	return &entity.User{
		Base:  entity.Base{ID: user.ID},
		Name:  user.Name,
		Email: user.Email,
	}
}

// ------------- users -------------

type memoryUserRepository struct {
	s *memoryStore
}

func (r *memoryUserRepository) Create(_ context.Context, user *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.users {
		if strings.EqualFold(existing.Email, user.Email) {
			return fmt.Errorf("create user %s: %w", user.Email, utils.ErrConflict)
		}
	}
	r.s.users[user.ID] = *user
	return nil
}

func (r *memoryUserRepository) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	user, ok := r.s.users[id]
	if !ok {
		return nil, nil
	}
	return &user, nil
}

func (r *memoryUserRepository) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, user := range r.s.users {
		if strings.EqualFold(user.Email, email) {
			found := user
			return &found, nil
		}
	}
	return nil, nil
}

func (r *memoryUserRepository) FindAll(_ context.Context, limit, offset int) ([]*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	users := make([]*entity.User, 0, len(r.s.users))
	for _, user := range r.s.users {
		u := user
		users = append(users, &u)
	}
	sort.Slice(users, func(i, j int) bool {
		return users[i].CreatedAt.After(users[j].CreatedAt)
	})

	return page(users, limit, offset), nil
}

func (r *memoryUserRepository) CountAll(_ context.Context) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return int64(len(r.s.users)), nil
}

// ------------- events -------------

type memoryEventRepository struct {
	s *memoryStore
}

func (r *memoryEventRepository) Create(_ context.Context, event *entity.Event) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.events[event.ID] = *event
	return nil
}

func (r *memoryEventRepository) FindByID(_ context.Context, id uuid.UUID) (*entity.EventWithOwner, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	event, ok := r.s.events[id]
	if !ok {
		return nil, nil
	}
	return &entity.EventWithOwner{Event: event, Owner: r.s.publicOwner(event.OwnerID)}, nil
}

func (r *memoryEventRepository) FindAll(_ context.Context, filter EventFilter) ([]*entity.EventWithOwner, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	events := []*entity.EventWithOwner{}
	for _, event := range r.s.events {
		if !filter.matches(&event) {
			continue
		}
		events = append(events, &entity.EventWithOwner{Event: event, Owner: r.s.publicOwner(event.OwnerID)})
	}

	sort.Slice(events, func(i, j int) bool {
		if events[i].Date.Equal(events[j].Date) {
			return events[i].CreatedAt.Before(events[j].CreatedAt)
		}
		return events[i].Date.Before(events[j].Date)
	})

	return page(events, filter.Limit, 0), nil
}

func (r *memoryEventRepository) CountAll(_ context.Context, filter EventFilter) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var total int64
	for _, event := range r.s.events {
		if filter.matches(&event) {
			total++
		}
	}
	return total, nil
}

func (f EventFilter) matches(event *entity.Event) bool {
	if f.Status != nil && event.Status != *f.Status {
		return false
	}
	if f.OwnerID != nil && (event.OwnerID == nil || *event.OwnerID != *f.OwnerID) {
		return false
	}
	return f.DateFrom == nil || !event.Date.Before(*f.DateFrom)
}

func (r *memoryEventRepository) Update(_ context.Context, event *entity.Event) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	current, ok := r.s.events[event.ID]
	if !ok {
		return fmt.Errorf("event %s: %w", event.ID, utils.ErrNotFound)
	}
	current.Title = event.Title
	current.Date = event.Date
	current.Location = event.Location
	current.Price = event.Price
	current.ImageURL = event.ImageURL
	current.UpdatedAt = event.UpdatedAt
	r.s.events[event.ID] = current
	return nil
}

func (r *memoryEventRepository) UpdateStatus(_ context.Context, id uuid.UUID, status entity.ApprovalStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	event, ok := r.s.events[id]
	if !ok {
		return fmt.Errorf("event %s: %w", id, utils.ErrNotFound)
	}
	event.Status = status
	r.s.events[id] = event
	return nil
}

func (r *memoryEventRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.events[id]; !ok {
		return fmt.Errorf("event %s: %w", id, utils.ErrNotFound)
	}
	delete(r.s.events, id)
	for bookingID, booking := range r.s.bookings {
		if booking.EventID == id {
			delete(r.s.bookings, bookingID)
		}
	}
	return nil
}

// ------------- services -------------

type memoryServiceRepository struct {
	s *memoryStore
}

func (r *memoryServiceRepository) Create(_ context.Context, service *entity.Service) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.services[service.ID] = *service
	return nil
}

func (r *memoryServiceRepository) FindByID(_ context.Context, id uuid.UUID) (*entity.ServiceWithOwner, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	service, ok := r.s.services[id]
	if !ok {
		return nil, nil
	}
	return &entity.ServiceWithOwner{Service: service, Owner: r.s.publicOwner(service.OwnerID)}, nil
}

func (r *memoryServiceRepository) FindAll(_ context.Context, filter ServiceFilter) ([]*entity.ServiceWithOwner, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	services := []*entity.ServiceWithOwner{}
	for _, service := range r.s.services {
		if !filter.matches(&service) {
			continue
		}
		services = append(services, &entity.ServiceWithOwner{Service: service, Owner: r.s.publicOwner(service.OwnerID)})
	}

	sort.Slice(services, func(i, j int) bool {
		return services[i].CreatedAt.After(services[j].CreatedAt)
	})

	return page(services, filter.Limit, 0), nil
}

func (r *memoryServiceRepository) CountAll(_ context.Context, filter ServiceFilter) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var total int64
	for _, service := range r.s.services {
		if filter.matches(&service) {
			total++
		}
	}
	return total, nil
}

func (f ServiceFilter) matches(service *entity.Service) bool {
	if f.Status != nil && service.Status != *f.Status {
		return false
	}
	return f.OwnerID == nil || (service.OwnerID != nil && *service.OwnerID == *f.OwnerID)
}

func (r *memoryServiceRepository) Update(_ context.Context, service *entity.Service) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	current, ok := r.s.services[service.ID]
	if !ok {
		return fmt.Errorf("service %s: %w", service.ID, utils.ErrNotFound)
	}
	current.Title = service.Title
	current.Category = service.Category
	current.Description = service.Description
	current.Contact = service.Contact
	current.Price = service.Price
	current.ImageURL = service.ImageURL
	current.UpdatedAt = service.UpdatedAt
	r.s.services[service.ID] = current
	return nil
}

func (r *memoryServiceRepository) UpdateStatus(_ context.Context, id uuid.UUID, status entity.ApprovalStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	service, ok := r.s.services[id]
	if !ok {
		return fmt.Errorf("service %s: %w", id, utils.ErrNotFound)
	}
	service.Status = status
	r.s.services[id] = service
	return nil
}

func (r *memoryServiceRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.services[id]; !ok {
		return fmt.Errorf("service %s: %w", id, utils.ErrNotFound)
	}
	delete(r.s.services, id)
	for bookingID, booking := range r.s.serviceBookings {
		if booking.ServiceID == id {
			delete(r.s.serviceBookings, bookingID)
		}
	}
	return nil
}

// ------------- bookings -------------

type memoryBookingRepository struct {
	s *memoryStore
}

func (r *memoryBookingRepository) Create(_ context.Context, booking *entity.Booking) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.events[booking.EventID]; !ok {
		return fmt.Errorf("create booking: event %s: %w", booking.EventID, utils.ErrNotFound)
	}
	for _, existing := range r.s.bookings {
		if existing.UserID == booking.UserID && existing.EventID == booking.EventID {
			return fmt.Errorf("create booking: %w", utils.ErrConflict)
		}
	}
	r.s.bookings[booking.ID] = *booking
	return nil
}

func (r *memoryBookingRepository) FindByID(_ context.Context, id uuid.UUID) (*entity.Booking, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	booking, ok := r.s.bookings[id]
	if !ok {
		return nil, nil
	}
	return &booking, nil
}

func (r *memoryBookingRepository) FindByUserAndEvent(_ context.Context, userID, eventID uuid.UUID) (*entity.Booking, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, booking := range r.s.bookings {
		if booking.UserID == userID && booking.EventID == eventID {
			found := booking
			return &found, nil
		}
	}
	return nil, nil
}

func (r *memoryBookingRepository) FindByUserID(_ context.Context, userID uuid.UUID) ([]*entity.BookingWithEvent, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	bookings := []*entity.BookingWithEvent{}
	for _, booking := range r.s.bookings {
		if booking.UserID != userID {
			continue
		}
		item := &entity.BookingWithEvent{Booking: booking}
		if event, ok := r.s.events[booking.EventID]; ok {
			item.Event = &event
		}
		bookings = append(bookings, item)
	}

	sort.Slice(bookings, func(i, j int) bool {
		return bookings[i].CreatedAt.After(bookings[j].CreatedAt)
	})
	return bookings, nil
}

func (r *memoryBookingRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.bookings[id]; !ok {
		return fmt.Errorf("booking %s: %w", id, utils.ErrNotFound)
	}
	delete(r.s.bookings, id)
	return nil
}

// ------------- service bookings -------------

type memoryServiceBookingRepository struct {
	s *memoryStore
}

func (r *memoryServiceBookingRepository) Create(_ context.Context, booking *entity.ServiceBooking) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.services[booking.ServiceID]; !ok {
		return fmt.Errorf("create service booking: service %s: %w", booking.ServiceID, utils.ErrNotFound)
	}
	r.s.serviceBookings[booking.ID] = *booking
	return nil
}

func (r *memoryServiceBookingRepository) FindByID(_ context.Context, id uuid.UUID) (*entity.ServiceBookingWithService, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	booking, ok := r.s.serviceBookings[id]
	if !ok {
		return nil, nil
	}
	return r.withService(booking), nil
}

func (r *memoryServiceBookingRepository) FindAll(_ context.Context, filter ServiceBookingFilter) ([]*entity.ServiceBookingWithService, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	bookings := []*entity.ServiceBookingWithService{}
	for _, booking := range r.s.serviceBookings {
		item := r.withService(booking)
		if filter.VisibleTo != nil {
			madeBy := booking.UserID != nil && *booking.UserID == *filter.VisibleTo
			ownsService := item.Service != nil && item.Service.OwnerID != nil && *item.Service.OwnerID == *filter.VisibleTo
			if !madeBy && !ownsService {
				continue
			}
		}
		bookings = append(bookings, item)
	}

	sort.Slice(bookings, func(i, j int) bool {
		return bookings[i].CreatedAt.After(bookings[j].CreatedAt)
	})
	return bookings, nil
}

func (r *memoryServiceBookingRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.serviceBookings[id]; !ok {
		return fmt.Errorf("service booking %s: %w", id, utils.ErrNotFound)
	}
	delete(r.s.serviceBookings, id)
	return nil
}

func (r *memoryServiceBookingRepository) withService(booking entity.ServiceBooking) *entity.ServiceBookingWithService {
	item := &entity.ServiceBookingWithService{ServiceBooking: booking}
	if service, ok := r.s.services[booking.ServiceID]; ok {
		item.Service = &service
	}
	return item
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return items[:0]
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
