package usecase

import (
	"context"
	"fmt"
	"testing"
	"time"

	"community-hub/internal/data/entity"
	"community-hub/internal/data/repository"
	"community-hub/internal/dto/request"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDigest(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.seedUser(t, "Alice", entity.RoleUser)
	admin := env.seedUser(t, "Root", entity.RoleAdmin)

	digest := env.svc.Digest.(*digestService)
	digest.now = func() time.Time { return time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC) }

	for _, date := range []string{"2029-12-31", "2030-02-01", "2030-03-01", "2030-04-01", "2030-05-01"} {
		req := newEventRequest(date)
		req.Date = date
		_, err := env.svc.Event.Create(ctx, req, testImage(), &admin)
		require.NoError(t, err)
	}
	// Pending events never reach the digest.
	pendingReq := newEventRequest("pending")
	pendingReq.Date = "2030-01-15"
	_, err := env.svc.Event.Create(ctx, pendingReq, testImage(), &alice)
	require.NoError(t, err)

	_, err = env.svc.Listing.Create(ctx, newServiceRequest("Tutoring"), testImage(), alice)
	require.NoError(t, err)

	res, err := env.svc.Digest.Get(ctx, alice)
	require.NoError(t, err)

	require.Len(t, res.TopEvents, 3)
	assert.Equal(t, "2030-02-01", res.TopEvents[0].Title)
	assert.Equal(t, "2030-04-01", res.TopEvents[2].Title)

	require.Len(t, res.TopServices, 1)
	assert.Equal(t, "Tutoring", res.TopServices[0].Title)

	assert.Equal(t, []string{
		"4 upcoming events are open in your community.",
		"You have 1 services listed, 1 awaiting approval.",
	}, res.Insights)
	assert.Len(t, res.Suggestions, 3)
}

func TestDigestEmpty(t *testing.T) {
	env := newTestEnv(t)
	alice := env.seedUser(t, "Alice", entity.RoleUser)

	res, err := env.svc.Digest.Get(context.Background(), alice)
	require.NoError(t, err)

	assert.Empty(t, res.TopEvents)
	assert.Empty(t, res.TopServices)
	assert.Equal(t, []string{"No upcoming events yet. Why not host one?"}, res.Insights)

	res.Suggestions[0] = "mutated"
	again, err := env.svc.Digest.Get(context.Background(), alice)
	require.NoError(t, err)
	assert.NotEqual(t, "mutated", again.Suggestions[0])
}


// limitRecorder remembers the limits the digest asks the repositories for.
type limitRecorder struct {
	repository.EventRepository
	limits []int
}

func (r *limitRecorder) FindAll(ctx context.Context, filter repository.EventFilter) ([]*entity.EventWithOwner, error) {
	r.limits = append(r.limits, filter.Limit)
	return r.EventRepository.FindAll(ctx, filter)
}

type serviceLimitRecorder struct {
	repository.ServiceRepository
	limits *[]int
}

func (r serviceLimitRecorder) FindAll(ctx context.Context, filter repository.ServiceFilter) ([]*entity.ServiceWithOwner, error) {
	*r.limits = append(*r.limits, filter.Limit)
	return r.ServiceRepository.FindAll(ctx, filter)
}

func TestDigestCountsBeyondTopList(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.seedUser(t, "Alice", entity.RoleUser)
	admin := env.seedUser(t, "Root", entity.RoleAdmin)

	for i := 0; i < 5; i++ {
		_, err := env.svc.Listing.Create(ctx, newServiceRequest(fmt.Sprintf("Lesson %d", i)), testImage(), alice)
		require.NoError(t, err)
	}
	listing, err := env.svc.Listing.Create(ctx, newServiceRequest("Approved lesson"), testImage(), alice)
	require.NoError(t, err)
	_, err = env.svc.Listing.SetStatus(ctx, listing.ID, &request.StatusRequest{Status: "approved"}, admin)
	require.NoError(t, err)

	events := &limitRecorder{EventRepository: env.repo.Event}
	var serviceLimits []int
	env.repo.Event = events
	env.repo.Service = serviceLimitRecorder{ServiceRepository: env.repo.Service, limits: &serviceLimits}

	res, err := env.svc.Digest.Get(ctx, alice)
	require.NoError(t, err)

	assert.Len(t, res.TopServices, digestTopN)
	assert.Contains(t, res.Insights, "You have 6 services listed, 5 awaiting approval.")
	assert.Equal(t, []int{digestTopN}, events.limits)
	assert.Equal(t, []int{digestTopN}, serviceLimits)
}
