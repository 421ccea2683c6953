package usecase

import (
	"context"
	"fmt"
	"time"

	"community-hub/internal/data/entity"
	"community-hub/internal/data/repository"
	"community-hub/internal/dto/response"
	"community-hub/pkg/utils"

	"go.uber.org/zap"
)

const digestTopN = 3

var digestSuggestions = []string{
	"Share a skill you know as a new service listing.",
	"Invite a neighbour to an upcoming event.",
	"Check pending service requests and reply to them today.",
}

type DigestService interface {
	Get(ctx context.Context, actor utils.Actor) (*response.DigestResponse, error)
}

type digestService struct {
	repo *repository.Repository
	now  func() time.Time
	log  *zap.Logger
}

func NewDigestService(repo *repository.Repository, log *zap.Logger) DigestService {
	return &digestService{
		repo: repo,
		now:  time.Now,
		log:  log.With(zap.String("service", "digest")),
	}
}

func (s *digestService) Get(ctx context.Context, actor utils.Actor) (*response.DigestResponse, error) {
	approved := entity.StatusApproved
	pending := entity.StatusPending
	now := s.now().UTC()
	mine := repository.ServiceFilter{OwnerID: &actor.ID}
	upcoming := repository.EventFilter{Status: &approved, DateFrom: &now}

	services, err := s.repo.Service.FindAll(ctx, repository.ServiceFilter{OwnerID: &actor.ID, Limit: digestTopN})
	if err != nil {
		s.log.Error("Failed to get services for digest", zap.Error(err), zap.String("user_id", actor.ID.String()))
		return nil, fmt.Errorf("get digest services: %w", err)
	}

	upcoming.Limit = digestTopN
	events, err := s.repo.Event.FindAll(ctx, upcoming)
	if err != nil {
		s.log.Error("Failed to get events for digest", zap.Error(err))
		return nil, fmt.Errorf("get digest events: %w", err)
	}
	upcoming.Limit = 0

	var counts digestCounts
	if counts.upcoming, err = s.repo.Event.CountAll(ctx, upcoming); err != nil {
		s.log.Error("Failed to count events for digest", zap.Error(err))
		return nil, fmt.Errorf("count digest events: %w", err)
	}
	if counts.services, err = s.repo.Service.CountAll(ctx, mine); err != nil {
		s.log.Error("Failed to count services for digest", zap.Error(err), zap.String("user_id", actor.ID.String()))
		return nil, fmt.Errorf("count digest services: %w", err)
	}
	mine.Status = &pending
	if counts.pending, err = s.repo.Service.CountAll(ctx, mine); err != nil {
		s.log.Error("Failed to count pending services for digest", zap.Error(err), zap.String("user_id", actor.ID.String()))
		return nil, fmt.Errorf("count digest services: %w", err)
	}

	digest := &response.DigestResponse{
		TopServices: response.ServicesToResponse(services),
		TopEvents:   response.EventsToResponse(events),
		Insights:    digestInsights(counts),
		Suggestions: append([]string(nil), digestSuggestions...),
	}

	s.log.Debug("Digest built",
		zap.String("user_id", actor.ID.String()),
		zap.Int("services", len(digest.TopServices)),
		zap.Int("events", len(digest.TopEvents)),
	)

	return digest, nil
}

type digestCounts struct {
	upcoming int64
	services int64
	pending  int64
}

func digestInsights(counts digestCounts) []string {
	insights := make([]string, 0, 2)

	switch counts.upcoming {
	case 0:
		insights = append(insights, "No upcoming events yet. Why not host one?")
	case 1:
		insights = append(insights, "1 upcoming event is open in your community.")
	default:
		insights = append(insights, fmt.Sprintf("%d upcoming events are open in your community.", counts.upcoming))
	}

	if counts.services > 0 {
		insights = append(insights, fmt.Sprintf("You have %d services listed, %d awaiting approval.", counts.services, counts.pending))
	}

	return insights
}
