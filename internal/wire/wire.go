package wire

import (
	"net/http"

	"community-hub/internal/adaptor"
	"community-hub/internal/data/repository"
	"community-hub/internal/usecase"
	"community-hub/pkg/middleware"
	"community-hub/pkg/notify"
	"community-hub/pkg/storage"
	"community-hub/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// App holds the wired router
type App struct {
	Router  *chi.Mux
	Service *usecase.Service
}

// Options carries the optional integrations. Nil fields fall back to
// in-process implementations.
type Options struct {
	Images   storage.ImageStore
	Notifier notify.Publisher
	Limiter  redis.Scripter
}

const uploadsPrefix = "/uploads"

// guards are the route middlewares shared by the wire functions.
type guards struct {
	auth      func(http.Handler) http.Handler
	optional  func(http.Handler) http.Handler
	admin     func(http.Handler) http.Handler
	rateLimit func(http.Handler) http.Handler
}

// Wiring builds every dependency and the router.
func Wiring(repo *repository.Repository, config *utils.Config, opts Options, logger *zap.Logger) *App {
	// Without an image host, uploads are kept in memory and served locally.
	var uploads http.Handler
	if opts.Images == nil {
		memory := storage.NewMemoryStore("http://localhost:" + config.App.Port + uploadsPrefix)
		opts.Images = memory
		uploads = http.StripPrefix(uploadsPrefix+"/", memory)
	}
	if opts.Notifier == nil {
		opts.Notifier = notify.NopPublisher{}
	}

	tokens := utils.NewTokenManager(config.JWT)
	service := usecase.NewService(repo, tokens, opts.Images, opts.Notifier, logger)
	handler := adaptor.NewHandler(service, logger)

	g := guards{
		auth:      middleware.Auth(tokens, repo.User, logger),
		optional:  middleware.OptionalAuth(tokens, repo.User, logger),
		admin:     middleware.Admin(logger),
		rateLimit: middleware.RateLimit(config.RateLimit, opts.Limiter, logger),
	}

	router := setupRouter(handler, g, uploads, config, logger)

	return &App{
		Router:  router,
		Service: service,
	}
}

func setupRouter(handler *adaptor.Handler, g guards, uploads http.Handler, config *utils.Config, logger *zap.Logger) *chi.Mux {
	r := chi.NewRouter()
	metrics := middleware.NewMetrics("community_hub")

	// Apply global middleware
	r.Use(middleware.Recover(logger))
	r.Use(middleware.Logger(logger))
	r.Use(metrics.Middleware)
	r.Use(middleware.CORS(config.CORS.AllowedOrigins))

	// Apply routes
	wireAuth(r, handler.Auth, g)
	wireUser(r, handler.User, g)
	wireEvent(r, handler.Event, g)
	wireListing(r, handler.Listing, g)
	wireBooking(r, handler.Booking, handler.ServiceBooking, g)
	wireDigest(r, handler.Digest, g)

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	r.Method(http.MethodGet, "/metrics", metrics.Handler())
	if uploads != nil {
		r.Method(http.MethodGet, uploadsPrefix+"/*", uploads)
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		utils.ResponseNotFound(w, "Route not found")
	})

	return r
}
