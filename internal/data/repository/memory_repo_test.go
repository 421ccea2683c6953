package repository

import (
	"context"
	"testing"
	"time"

	"community-hub/internal/data/entity"
	"community-hub/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUser(email string) *entity.User {
	now := time.Now().UTC()
	return &entity.User{
		Base:     entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		Name:     "Someone",
		Email:    email,
		Role:     entity.RoleUser,
		IsActive: true,
	}
}

func newEvent(owner *uuid.UUID, date time.Time, status entity.ApprovalStatus) *entity.Event {
	now := time.Now().UTC()
	return &entity.Event{
		Base:     entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		Title:    date.Format("2006-01-02"),
		Date:     date,
		Location: "Hall",
		OwnerID:  owner,
		Status:   status,
	}
}

func TestMemoryUserUniqueEmail(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	require.NoError(t, repo.User.Create(ctx, newUser("alice@example.com")))
	err := repo.User.Create(ctx, newUser("ALICE@example.com"))
	assert.ErrorIs(t, err, utils.ErrConflict)

	found, err := repo.User.FindByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	require.NotNil(t, found)

	missing, err := repo.User.FindByEmail(ctx, "bob@example.com")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestMemoryEventFilters(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	owner := newUser("owner@example.com")
	require.NoError(t, repo.User.Create(ctx, owner))

	base := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Event.Create(ctx, newEvent(&owner.ID, base.AddDate(0, 2, 0), entity.StatusApproved)))
	require.NoError(t, repo.Event.Create(ctx, newEvent(&owner.ID, base.AddDate(0, 1, 0), entity.StatusPending)))
	require.NoError(t, repo.Event.Create(ctx, newEvent(nil, base.AddDate(0, -1, 0), entity.StatusApproved)))

	all, err := repo.Event.FindAll(ctx, EventFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.True(t, all[0].Date.Before(all[1].Date))
	assert.True(t, all[1].Date.Before(all[2].Date))

	approved := entity.StatusApproved
	upcoming, err := repo.Event.FindAll(ctx, EventFilter{Status: &approved, DateFrom: &base})
	require.NoError(t, err)
	require.Len(t, upcoming, 1)
	require.NotNil(t, upcoming[0].Owner)
	assert.Equal(t, "owner@example.com", upcoming[0].Owner.Email)
	assert.Empty(t, upcoming[0].Owner.PasswordHash)

	mine, err := repo.Event.FindAll(ctx, EventFilter{OwnerID: &owner.ID})
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	limited, err := repo.Event.FindAll(ctx, EventFilter{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	total, err := repo.Event.CountAll(ctx, EventFilter{Status: &approved})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	total, err = repo.Event.CountAll(ctx, EventFilter{OwnerID: &owner.ID, Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
}

func TestMemoryEventMissing(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()
	id := uuid.New()

	found, err := repo.Event.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, found)

	assert.ErrorIs(t, repo.Event.UpdateStatus(ctx, id, entity.StatusApproved), utils.ErrNotFound)
	assert.ErrorIs(t, repo.Event.Delete(ctx, id), utils.ErrNotFound)
}

func TestMemoryBookingConstraints(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	user := newUser("alice@example.com")
	require.NoError(t, repo.User.Create(ctx, user))
	event := newEvent(nil, time.Now().AddDate(0, 1, 0), entity.StatusApproved)
	require.NoError(t, repo.Event.Create(ctx, event))

	booking := func(eventID uuid.UUID) *entity.Booking {
		return &entity.Booking{
			BaseSimple: entity.BaseSimple{ID: uuid.New(), CreatedAt: time.Now().UTC()},
			UserID:     user.ID,
			EventID:    eventID,
			Status:     entity.BookingStatusConfirmed,
		}
	}

	assert.ErrorIs(t, repo.Booking.Create(ctx, booking(uuid.New())), utils.ErrNotFound)

	require.NoError(t, repo.Booking.Create(ctx, booking(event.ID)))
	assert.ErrorIs(t, repo.Booking.Create(ctx, booking(event.ID)), utils.ErrConflict)

	bookings, err := repo.Booking.FindByUserID(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, bookings, 1)
	require.NotNil(t, bookings[0].Event)
	assert.Equal(t, event.Title, bookings[0].Event.Title)

	require.NoError(t, repo.Event.Delete(ctx, event.ID))
	bookings, err = repo.Booking.FindByUserID(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, bookings)
}

func TestPage(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	assert.Equal(t, []int{1, 2}, page(items, 2, 0))
	assert.Equal(t, []int{5}, page(items, 2, 4))
	assert.Empty(t, page(items, 2, 10))
	assert.Equal(t, items, page(items, 0, 0))
}
