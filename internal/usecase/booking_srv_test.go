package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"community-hub/internal/data/entity"
	"community-hub/internal/data/repository"
	"community-hub/internal/dto/request"
	"community-hub/pkg/notify"
	"community-hub/pkg/utils"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookingScenario(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.seedUser(t, "Alice", entity.RoleUser)
	admin := env.seedUser(t, "Root", entity.RoleAdmin)

	event, err := env.svc.Event.Create(ctx, newEventRequest("Concert"), testImage(), &admin)
	require.NoError(t, err)

	booking, err := env.svc.Booking.BookEvent(ctx, &request.CreateBookingRequest{EventID: event.ID}, alice)
	require.NoError(t, err)
	assert.Equal(t, entity.BookingStatusConfirmed, booking.Status)

	mine, err := env.svc.Booking.ListMyBookings(ctx, alice)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, event.ID, mine[0].EventID)
	require.NotNil(t, mine[0].Event)
	assert.Equal(t, "Concert", mine[0].Event.Title)

	require.NoError(t, env.svc.Booking.CancelBooking(ctx, booking.ID, alice))

	mine, err = env.svc.Booking.ListMyBookings(ctx, alice)
	require.NoError(t, err)
	assert.Empty(t, mine)

	assert.Contains(t, env.notifier.kinds(), notify.KindBookingCreated)
	assert.Contains(t, env.notifier.kinds(), notify.KindBookingCancelled)
}

func TestBookEventTwice(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.seedUser(t, "Alice", entity.RoleUser)
	admin := env.seedUser(t, "Root", entity.RoleAdmin)

	event, err := env.svc.Event.Create(ctx, newEventRequest("Concert"), testImage(), &admin)
	require.NoError(t, err)

	_, err = env.svc.Booking.BookEvent(ctx, &request.CreateBookingRequest{EventID: event.ID}, alice)
	require.NoError(t, err)

	_, err = env.svc.Booking.BookEvent(ctx, &request.CreateBookingRequest{EventID: event.ID}, alice)
	assert.ErrorIs(t, err, utils.ErrConflict)

	mine, err := env.svc.Booking.ListMyBookings(ctx, alice)
	require.NoError(t, err)
	assert.Len(t, mine, 1)
}

func TestBookMissingEvent(t *testing.T) {
	env := newTestEnv(t)
	alice := env.seedUser(t, "Alice", entity.RoleUser)

	_, err := env.svc.Booking.BookEvent(context.Background(), &request.CreateBookingRequest{EventID: uuid.NewString()}, alice)
	assert.ErrorIs(t, err, utils.ErrNotFound)

	_, err = env.svc.Booking.BookEvent(context.Background(), &request.CreateBookingRequest{EventID: "bogus"}, alice)
	assert.ErrorIs(t, err, utils.ErrValidation)
}

func TestCancelBookingNotOwned(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.seedUser(t, "Alice", entity.RoleUser)
	bob := env.seedUser(t, "Bob", entity.RoleUser)
	admin := env.seedUser(t, "Root", entity.RoleAdmin)

	event, err := env.svc.Event.Create(ctx, newEventRequest("Concert"), testImage(), &admin)
	require.NoError(t, err)
	booking, err := env.svc.Booking.BookEvent(ctx, &request.CreateBookingRequest{EventID: event.ID}, alice)
	require.NoError(t, err)

	err = env.svc.Booking.CancelBooking(ctx, booking.ID, bob)
	assert.ErrorIs(t, err, utils.ErrForbidden)

	mine, err := env.svc.Booking.ListMyBookings(ctx, alice)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	require.NoError(t, env.svc.Booking.CancelBooking(ctx, booking.ID, admin))

	err = env.svc.Booking.CancelBooking(ctx, booking.ID, alice)
	assert.ErrorIs(t, err, utils.ErrNotFound)
}

func TestDeleteEventCascadesBookings(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.seedUser(t, "Alice", entity.RoleUser)
	admin := env.seedUser(t, "Root", entity.RoleAdmin)

	event, err := env.svc.Event.Create(ctx, newEventRequest("Concert"), testImage(), &admin)
	require.NoError(t, err)
	_, err = env.svc.Booking.BookEvent(ctx, &request.CreateBookingRequest{EventID: event.ID}, alice)
	require.NoError(t, err)

	require.NoError(t, env.svc.Event.Delete(ctx, event.ID, admin))

	mine, err := env.svc.Booking.ListMyBookings(ctx, alice)
	require.NoError(t, err)
	assert.Empty(t, mine)
}

func TestBookMissingService(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.seedUser(t, "Alice", entity.RoleUser)
	admin := env.seedUser(t, "Root", entity.RoleAdmin)

	_, err := env.svc.Booking.BookService(ctx, &request.CreateServiceBookingRequest{
		ServiceID:   uuid.NewString(),
		Message:     "Are you free on Saturday?",
		ContactInfo: "alice@example.com",
	}, alice)
	assert.ErrorIs(t, err, utils.ErrNotFound)

	all, err := env.svc.Booking.ListServiceBookings(ctx, admin)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestServiceBookingVisibility(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	provider := env.seedUser(t, "Provider", entity.RoleUser)
	alice := env.seedUser(t, "Alice", entity.RoleUser)
	bob := env.seedUser(t, "Bob", entity.RoleUser)
	admin := env.seedUser(t, "Root", entity.RoleAdmin)

	service, err := env.svc.Listing.Create(ctx, newServiceRequest("Tutoring"), testImage(), provider)
	require.NoError(t, err)

	booking, err := env.svc.Booking.BookService(ctx, &request.CreateServiceBookingRequest{
		ServiceID:   service.ID,
		Message:     "  Need help with calculus  ",
		ContactInfo: "alice@example.com",
	}, alice)
	require.NoError(t, err)
	assert.Equal(t, entity.BookingStatusPending, booking.Status)
	assert.Equal(t, "Need help with calculus", booking.Message)

	for name, actor := range map[string]utils.Actor{"requester": alice, "provider": provider, "admin": admin} {
		visible, err := env.svc.Booking.ListServiceBookings(ctx, actor)
		require.NoError(t, err)
		assert.Len(t, visible, 1, name)
	}

	visible, err := env.svc.Booking.ListServiceBookings(ctx, bob)
	require.NoError(t, err)
	assert.Empty(t, visible)

	err = env.svc.Booking.CancelServiceBooking(ctx, booking.ID, bob)
	assert.ErrorIs(t, err, utils.ErrForbidden)

	require.NoError(t, env.svc.Booking.CancelServiceBooking(ctx, booking.ID, provider))

	visible, err = env.svc.Booking.ListServiceBookings(ctx, alice)
	require.NoError(t, err)
	assert.Empty(t, visible)
}

// vanishingServiceBookings fails every insert the way Postgres reports a
// service deleted after the existence check.
type vanishingServiceBookings struct {
	repository.ServiceBookingRepository
}

func (vanishingServiceBookings) Create(context.Context, *entity.ServiceBooking) error {
	return fmt.Errorf("create service booking: %w",
		errors.Join(utils.ErrNotFound, &pgconn.PgError{Code: "23503"}))
}

func TestBookServiceDeletedConcurrently(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.seedUser(t, "Alice", entity.RoleUser)
	bob := env.seedUser(t, "Bob", entity.RoleUser)

	service, err := env.svc.Listing.Create(ctx, newServiceRequest("Tutoring"), testImage(), bob)
	require.NoError(t, err)
	env.repo.ServiceBooking = vanishingServiceBookings{env.repo.ServiceBooking}

	_, err = env.svc.Booking.BookService(ctx, &request.CreateServiceBookingRequest{
		ServiceID:   service.ID,
		Message:     "Are you free on Saturday?",
		ContactInfo: "alice@example.com",
	}, alice)

	var appErr *utils.Error
	require.ErrorAs(t, err, &appErr)
	assert.ErrorIs(t, err, utils.ErrNotFound)
	assert.Equal(t, "Service not found", appErr.Message)
}
