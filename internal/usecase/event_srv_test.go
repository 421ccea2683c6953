package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"community-hub/internal/data/entity"
	"community-hub/internal/dto/request"
	"community-hub/pkg/notify"
	"community-hub/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEventRequest(title string) *request.EventRequest {
	return &request.EventRequest{
		Title:    title,
		Date:     "2030-06-01T18:00",
		Location: "Town hall",
		Price:    ptr(5.0),
	}
}

func TestCreateEventInitialStatus(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.seedUser(t, "Alice", entity.RoleUser)
	admin := env.seedUser(t, "Root", entity.RoleAdmin)

	tests := []struct {
		name   string
		actor  *utils.Actor
		status entity.ApprovalStatus
	}{
		{name: "user creates pending", actor: &user, status: entity.StatusPending},
		{name: "admin creates approved", actor: &admin, status: entity.StatusApproved},
		{name: "anonymous creates pending", actor: nil, status: entity.StatusPending},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event, err := env.svc.Event.Create(ctx, newEventRequest(tt.name), testImage(), tt.actor)
			require.NoError(t, err)
			assert.Equal(t, tt.status, event.Status)

			if tt.actor == nil {
				assert.Nil(t, event.OwnerID)
			} else {
				require.NotNil(t, event.OwnerID)
				assert.Equal(t, tt.actor.ID.String(), *event.OwnerID)
			}
		})
	}

	assert.Equal(t, 3, env.images.Len())
}

func TestCreateEventRequiresImage(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedUser(t, "Alice", entity.RoleUser)

	_, err := env.svc.Event.Create(context.Background(), newEventRequest("No poster"), nil, &user)
	require.Error(t, err)

	var vErr *utils.ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Contains(t, vErr.Fields, "Image")
	assert.Equal(t, 0, env.images.Len())
}

func TestCreateEventInvalidDate(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedUser(t, "Alice", entity.RoleUser)

	req := newEventRequest("Bad date")
	req.Date = "next friday"

	_, err := env.svc.Event.Create(context.Background(), req, testImage(), &user)
	assert.ErrorIs(t, err, utils.ErrValidation)
}

func TestSetEventStatusRejectsUnknownStatus(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.seedUser(t, "Alice", entity.RoleUser)
	admin := env.seedUser(t, "Root", entity.RoleAdmin)

	event, err := env.svc.Event.Create(ctx, newEventRequest("Picnic"), testImage(), &user)
	require.NoError(t, err)

	for _, status := range []string{"", "pending", "archived", "APPROVED"} {
		_, err := env.svc.Event.SetStatus(ctx, event.ID, &request.StatusRequest{Status: status}, admin)
		assert.ErrorIs(t, err, utils.ErrValidation, status)
	}

	got, err := env.svc.Event.GetByID(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusPending, got.Status)
	assert.Equal(t, event.UpdatedAt, got.UpdatedAt)
}

func TestSetEventStatusRequiresAdmin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.seedUser(t, "Alice", entity.RoleUser)

	event, err := env.svc.Event.Create(ctx, newEventRequest("Picnic"), testImage(), &user)
	require.NoError(t, err)

	_, err = env.svc.Event.SetStatus(ctx, event.ID, &request.StatusRequest{Status: "approved"}, user)
	assert.ErrorIs(t, err, utils.ErrForbidden)
}

func TestApprovalScenario(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.seedUser(t, "Alice", entity.RoleUser)
	admin := env.seedUser(t, "Root", entity.RoleAdmin)

	event, err := env.svc.Event.Create(ctx, newEventRequest("Street party"), testImage(), &user)
	require.NoError(t, err)

	approved, err := env.svc.Event.ListApproved(ctx)
	require.NoError(t, err)
	assert.Empty(t, approved)

	pending, err := env.svc.Event.ListPending(ctx, admin)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, event.ID, pending[0].ID)

	updated, err := env.svc.Event.SetStatus(ctx, event.ID, &request.StatusRequest{Status: "approved"}, admin)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusApproved, updated.Status)

	approved, err = env.svc.Event.ListApproved(ctx)
	require.NoError(t, err)
	require.Len(t, approved, 1)
	assert.Equal(t, event.ID, approved[0].ID)
	for _, e := range approved {
		assert.Equal(t, entity.StatusApproved, e.Status)
	}

	assert.Equal(t, []notify.Kind{notify.KindEventCreated, notify.KindEventStatusChanged}, env.notifier.kinds())
}

func TestListApprovedExcludesDeclined(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.seedUser(t, "Alice", entity.RoleUser)
	admin := env.seedUser(t, "Root", entity.RoleAdmin)

	declined, err := env.svc.Event.Create(ctx, newEventRequest("Declined"), testImage(), &user)
	require.NoError(t, err)
	_, err = env.svc.Event.SetStatus(ctx, declined.ID, &request.StatusRequest{Status: "declined"}, admin)
	require.NoError(t, err)

	_, err = env.svc.Event.Create(ctx, newEventRequest("Pending"), testImage(), &user)
	require.NoError(t, err)
	_, err = env.svc.Event.Create(ctx, newEventRequest("By admin"), testImage(), &admin)
	require.NoError(t, err)

	approved, err := env.svc.Event.ListApproved(ctx)
	require.NoError(t, err)
	require.Len(t, approved, 1)
	assert.Equal(t, "By admin", approved[0].Title)

	all, err := env.svc.Event.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestListEventsSortedByDate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.seedUser(t, "Root", entity.RoleAdmin)

	for _, date := range []string{"2031-03-01", "2030-01-01", "2030-07-15"} {
		req := newEventRequest(date)
		req.Date = date
		_, err := env.svc.Event.Create(ctx, req, testImage(), &admin)
		require.NoError(t, err)
	}

	events, err := env.svc.Event.ListAll(ctx, admin)
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, "2030-01-01", events[0].Title)
	assert.Equal(t, "2030-07-15", events[1].Title)
	assert.Equal(t, "2031-03-01", events[2].Title)
	require.NotNil(t, events[0].Owner)
	assert.Equal(t, "Root", events[0].Owner.Name)
}

func TestListMine(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.seedUser(t, "Alice", entity.RoleUser)
	bob := env.seedUser(t, "Bob", entity.RoleUser)

	_, err := env.svc.Event.Create(ctx, newEventRequest("Alice's"), testImage(), &alice)
	require.NoError(t, err)
	_, err = env.svc.Event.Create(ctx, newEventRequest("Bob's"), testImage(), &bob)
	require.NoError(t, err)

	mine, err := env.svc.Event.ListMine(ctx, alice)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "Alice's", mine[0].Title)
	assert.Equal(t, entity.StatusPending, mine[0].Status)
}

func TestEventRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.seedUser(t, "Alice", entity.RoleUser)

	created, err := env.svc.Event.Create(ctx, newEventRequest("Book club"), testImage(), &user)
	require.NoError(t, err)

	got, err := env.svc.Event.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Book club", got.Title)
	assert.Equal(t, 5.0, got.Price)

	patch := &request.EventUpdateRequest{
		Title: ptr("Book club: summer edition"),
		Price: ptr(0.0),
	}
	_, err = env.svc.Event.Update(ctx, created.ID, patch, nil, user)
	require.NoError(t, err)

	got, err = env.svc.Event.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Book club: summer edition", got.Title)
	assert.Equal(t, 0.0, got.Price)
	assert.Equal(t, "Town hall", got.Location)
	assert.Equal(t, created.Date, got.Date)
	assert.Equal(t, created.Image, got.Image)
	assert.Equal(t, time.Date(2030, 6, 1, 18, 0, 0, 0, time.UTC), got.Date)

	require.NoError(t, env.svc.Event.Delete(ctx, created.ID, user))

	_, err = env.svc.Event.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, utils.ErrNotFound)
}

func TestEventOwnership(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.seedUser(t, "Alice", entity.RoleUser)
	bob := env.seedUser(t, "Bob", entity.RoleUser)
	admin := env.seedUser(t, "Root", entity.RoleAdmin)

	event, err := env.svc.Event.Create(ctx, newEventRequest("Alice's"), testImage(), &alice)
	require.NoError(t, err)

	_, err = env.svc.Event.Update(ctx, event.ID, &request.EventUpdateRequest{Title: ptr("Hijacked")}, nil, bob)
	assert.ErrorIs(t, err, utils.ErrForbidden)

	err = env.svc.Event.Delete(ctx, event.ID, bob)
	assert.ErrorIs(t, err, utils.ErrForbidden)

	got, err := env.svc.Event.GetByID(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice's", got.Title)

	require.NoError(t, env.svc.Event.Delete(ctx, event.ID, admin))
}

func TestGetEventInvalidID(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.svc.Event.GetByID(context.Background(), "not-a-uuid")
	assert.ErrorIs(t, err, utils.ErrValidation)
}
