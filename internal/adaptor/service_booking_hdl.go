package adaptor

import (
	"net/http"

	"community-hub/internal/dto/request"
	"community-hub/internal/usecase"
	"community-hub/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type ServiceBookingHandler struct {
	service usecase.BookingService
	log     *zap.Logger
}

func NewServiceBookingHandler(service usecase.BookingService, log *zap.Logger) *ServiceBookingHandler {
	return &ServiceBookingHandler{
		service: service,
		log:     log.With(zap.String("handler", "service_booking")),
	}
}

// Create handles POST /api/servicebookings {serviceId, message, contactInfo}
func (h *ServiceBookingHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	var req request.CreateServiceBookingRequest
	if err := decodeJSON(r, &req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	booking, err := h.service.BookService(r.Context(), &req, actor)
	if err != nil {
		handleServiceError(w, h.log, err, "book service")
		return
	}

	utils.ResponseCreated(w, booking)
}

func (h *ServiceBookingHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	bookings, err := h.service.ListServiceBookings(r.Context(), actor)
	if err != nil {
		handleServiceError(w, h.log, err, "list service bookings")
		return
	}

	utils.ResponseSuccess(w, bookings)
}

func (h *ServiceBookingHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	if err := h.service.CancelServiceBooking(r.Context(), chi.URLParam(r, "id"), actor); err != nil {
		handleServiceError(w, h.log, err, "cancel service booking")
		return
	}

	utils.ResponseMessage(w, "Service booking cancelled")
}
