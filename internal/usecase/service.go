package usecase

import (
	"context"
	"io"
	"time"

	"community-hub/internal/data/repository"
	"community-hub/pkg/notify"
	"community-hub/pkg/storage"
	"community-hub/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Auth    AuthService
	User    UserService
	Event   EventService
	Listing ListingService
	Booking BookingService
	Digest  DigestService
}

func NewService(
	repo *repository.Repository,
	tokens *utils.TokenManager,
	images storage.ImageStore,
	notifier notify.Publisher,
	log *zap.Logger,
) *Service {
	if notifier == nil {
		notifier = notify.NopPublisher{}
	}

	return &Service{
		Auth:    NewAuthService(repo, tokens, log),
		User:    NewUserService(repo.User, log),
		Event:   NewEventService(repo, images, notifier, log),
		Listing: NewListingService(repo, images, notifier, log),
		Booking: NewBookingService(repo, notifier, log),
		Digest:  NewDigestService(repo, log),
	}
}

// Image is an uploaded file taken from a multipart form.
type Image struct {
	File     io.Reader
	Filename string
}

// publish sends n without failing the caller; broker errors are logged.
func publish(ctx context.Context, notifier notify.Publisher, log *zap.Logger, n notify.Notification) {
	n.OccurredAt = time.Now().UTC()
	if err := notifier.Publish(ctx, n); err != nil {
		log.Warn("Notification not delivered",
			zap.Error(err),
			zap.String("kind", string(n.Kind)),
			zap.String("subject_id", n.SubjectID),
		)
	}
}

func actorIDString(actor *utils.Actor) string {
	if actor == nil {
		return ""
	}
	return actor.ID.String()
}
