package client

import (
	"context"

	"community-hub/internal/dto/request"
	"community-hub/internal/dto/response"
)

// EventsStore mirrors one event listing. Every mutation refetches it.
type EventsStore struct {
	*ListStore[response.EventResponse]
	c     *Client
	scope EventScope
}

func (c *Client) Events(scope EventScope) *EventsStore {
	return &EventsStore{
		ListStore: NewListStore(func(ctx context.Context) ([]response.EventResponse, error) {
			return c.ListEvents(ctx, scope)
		}),
		c:     c,
		scope: scope,
	}
}

func (s *EventsStore) Scope() EventScope { return s.scope }

func (s *EventsStore) Create(ctx context.Context, in EventInput, image *Upload) error {
	return s.run(ctx, func(ctx context.Context) error {
		_, err := s.c.CreateEvent(ctx, in, image)
		return err
	})
}

func (s *EventsStore) Update(ctx context.Context, id string, patch request.EventUpdateRequest) error {
	return s.run(ctx, func(ctx context.Context) error {
		_, err := s.c.UpdateEvent(ctx, id, patch)
		return err
	})
}

func (s *EventsStore) SetStatus(ctx context.Context, id, status string) error {
	return s.run(ctx, func(ctx context.Context) error {
		_, err := s.c.SetEventStatus(ctx, id, status)
		return err
	})
}

func (s *EventsStore) Delete(ctx context.Context, id string) error {
	return s.run(ctx, func(ctx context.Context) error {
		return s.c.DeleteEvent(ctx, id)
	})
}

func (s *EventsStore) run(ctx context.Context, op func(ctx context.Context) error) error {
	err := mutate(ctx, op, s.Load)
	if err != nil {
		s.recordError(err)
	}
	return err
}

// ServicesStore mirrors one service listing plus the category enumeration.
type ServicesStore struct {
	*ListStore[response.ServiceResponse]
	Categories *ListStore[string]

	c     *Client
	scope ServiceScope
}

func (c *Client) Services(scope ServiceScope) *ServicesStore {
	return &ServicesStore{
		ListStore: NewListStore(func(ctx context.Context) ([]response.ServiceResponse, error) {
			return c.ListServices(ctx, scope)
		}),
		Categories: NewListStore(c.Categories),
		c:          c,
		scope:      scope,
	}
}

func (s *ServicesStore) Scope() ServiceScope { return s.scope }

func (s *ServicesStore) Create(ctx context.Context, in ServiceInput, image *Upload) error {
	return s.run(ctx, func(ctx context.Context) error {
		_, err := s.c.CreateService(ctx, in, image)
		return err
	})
}

func (s *ServicesStore) Update(ctx context.Context, id string, patch request.ServiceUpdateRequest) error {
	return s.run(ctx, func(ctx context.Context) error {
		_, err := s.c.UpdateService(ctx, id, patch)
		return err
	})
}

func (s *ServicesStore) SetStatus(ctx context.Context, id, status string) error {
	return s.run(ctx, func(ctx context.Context) error {
		_, err := s.c.SetServiceStatus(ctx, id, status)
		return err
	})
}

func (s *ServicesStore) Delete(ctx context.Context, id string) error {
	return s.run(ctx, func(ctx context.Context) error {
		return s.c.DeleteService(ctx, id)
	})
}

func (s *ServicesStore) run(ctx context.Context, op func(ctx context.Context) error) error {
	err := mutate(ctx, op, s.Load)
	if err != nil {
		s.recordError(err)
	}
	return err
}

// BookingsStore mirrors the caller's event bookings.
type BookingsStore struct {
	*ListStore[response.BookingResponse]
	c *Client
}

func (c *Client) Bookings() *BookingsStore {
	return &BookingsStore{ListStore: NewListStore(c.ListBookings), c: c}
}

func (s *BookingsStore) Book(ctx context.Context, eventID string) error {
	err := mutate(ctx, func(ctx context.Context) error {
		_, err := s.c.BookEvent(ctx, eventID)
		return err
	}, s.Load)
	if err != nil {
		s.recordError(err)
	}
	return err
}

func (s *BookingsStore) Cancel(ctx context.Context, id string) error {
	err := mutate(ctx, func(ctx context.Context) error {
		return s.c.CancelBooking(ctx, id)
	}, s.Load)
	if err != nil {
		s.recordError(err)
	}
	return err
}

// ServiceBookingsStore mirrors the service bookings visible to the caller.
type ServiceBookingsStore struct {
	*ListStore[response.ServiceBookingResponse]
	c *Client
}

func (c *Client) ServiceBookings() *ServiceBookingsStore {
	return &ServiceBookingsStore{ListStore: NewListStore(c.ListServiceBookings), c: c}
}

func (s *ServiceBookingsStore) Book(ctx context.Context, req request.CreateServiceBookingRequest) error {
	err := mutate(ctx, func(ctx context.Context) error {
		_, err := s.c.BookService(ctx, req)
		return err
	}, s.Load)
	if err != nil {
		s.recordError(err)
	}
	return err
}

func (s *ServiceBookingsStore) Cancel(ctx context.Context, id string) error {
	err := mutate(ctx, func(ctx context.Context) error {
		return s.c.CancelServiceBooking(ctx, id)
	}, s.Load)
	if err != nil {
		s.recordError(err)
	}
	return err
}

// UsersStore holds the admin user page and the public user count.
type UsersStore struct {
	*ListStore[response.UserResponse]
	Count *SingleStore[int64]

	c       *Client
	page    int
	perPage int
}

func (c *Client) Users(page, perPage int) *UsersStore {
	s := &UsersStore{c: c, page: page, perPage: perPage}
	s.ListStore = NewListStore(func(ctx context.Context) ([]response.UserResponse, error) {
		res, err := c.ListUsers(ctx, s.page, s.perPage)
		if err != nil {
			return nil, err
		}
		return res.Data, nil
	})
	s.Count = NewSingleStore(func(ctx context.Context) (*int64, error) {
		n, err := c.CountUsers(ctx)
		if err != nil {
			return nil, err
		}
		return &n, nil
	})
	return s
}

// DigestStore holds the caller's daily digest.
type DigestStore struct {
	*SingleStore[response.DigestResponse]
}

func (c *Client) DailyDigest() *DigestStore {
	return &DigestStore{SingleStore: NewSingleStore(c.Digest)}
}
