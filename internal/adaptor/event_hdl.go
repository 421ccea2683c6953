package adaptor

import (
	"net/http"
	"strings"

	"community-hub/internal/dto/request"
	"community-hub/internal/dto/response"
	"community-hub/internal/usecase"
	"community-hub/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type EventHandler struct {
	service usecase.EventService
	log     *zap.Logger
}

func NewEventHandler(service usecase.EventService, log *zap.Logger) *EventHandler {
	return &EventHandler{
		service: service,
		log:     log.With(zap.String("handler", "event")),
	}
}

// List handles GET /api/events
func (h *EventHandler) List(w http.ResponseWriter, r *http.Request) {
	events, err := h.service.List(r.Context())
	if err != nil {
		handleServiceError(w, h.log, err, "list events")
		return
	}
	utils.ResponseSuccess(w, events)
}

// ListAll handles GET /api/events/all
func (h *EventHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	events, err := h.service.ListAll(r.Context(), actor)
	if err != nil {
		handleServiceError(w, h.log, err, "list all events")
		return
	}
	utils.ResponseSuccess(w, events)
}

// ListApproved handles GET /api/events/approved
func (h *EventHandler) ListApproved(w http.ResponseWriter, r *http.Request) {
	events, err := h.service.ListApproved(r.Context())
	if err != nil {
		handleServiceError(w, h.log, err, "list approved events")
		return
	}
	utils.ResponseSuccess(w, events)
}

// ListMine handles GET /api/events/mine
func (h *EventHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	events, err := h.service.ListMine(r.Context(), actor)
	if err != nil {
		handleServiceError(w, h.log, err, "list my events")
		return
	}
	utils.ResponseSuccess(w, events)
}

// ListPending handles GET /api/events/pending
func (h *EventHandler) ListPending(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	events, err := h.service.ListPending(r.Context(), actor)
	if err != nil {
		handleServiceError(w, h.log, err, "list pending events")
		return
	}
	utils.ResponseSuccess(w, events)
}

// GetByID handles GET /api/events/{id}
func (h *EventHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	event, err := h.service.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.log, err, "get event")
		return
	}
	utils.ResponseSuccess(w, event)
}

// Create handles POST /api/events (multipart: title, date, location, price, image)
func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request) {
	image, closeImage, err := parseForm(w, r)
	if err != nil {
		h.log.Warn("Invalid event form", zap.Error(err))
		utils.ResponseBadRequest(w, "Invalid form data", nil)
		return
	}
	defer closeImage()

	price, err := formPrice(r)
	if err != nil {
		utils.ResponseBadRequest(w, "Validation failed", map[string]string{"Price": "Must be a number"})
		return
	}

	req := &request.EventRequest{
		Title:    strings.TrimSpace(r.FormValue("title")),
		Date:     strings.TrimSpace(r.FormValue("date")),
		Location: strings.TrimSpace(r.FormValue("location")),
		Price:    price,
	}

	var actor *utils.Actor
	if a, ok := utils.GetActorFromContext(r.Context()); ok {
		actor = &a
	}

	event, err := h.service.Create(r.Context(), req, image, actor)
	if err != nil {
		handleServiceError(w, h.log, err, "create event")
		return
	}

	utils.ResponseCreated(w, event)
}

// Update handles PUT /api/events/{id} with a JSON or multipart body
func (h *EventHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	var (
		req   request.EventUpdateRequest
		image *usecase.Image
	)

	if isMultipart(r) {
		img, closeImage, err := parseForm(w, r)
		if err != nil {
			h.log.Warn("Invalid event form", zap.Error(err))
			utils.ResponseBadRequest(w, "Invalid form data", nil)
			return
		}
		defer closeImage()
		image = img

		price, err := formPrice(r)
		if err != nil {
			utils.ResponseBadRequest(w, "Validation failed", map[string]string{"Price": "Must be a number"})
			return
		}
		req = request.EventUpdateRequest{
			Title:    formString(r, "title"),
			Date:     formString(r, "date"),
			Location: formString(r, "location"),
			Price:    price,
		}
	} else if err := decodeJSON(r, &req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	event, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), &req, image, actor)
	if err != nil {
		handleServiceError(w, h.log, err, "update event")
		return
	}

	utils.ResponseSuccess(w, event)
}

// SetStatus handles PATCH /api/events/{id}/status
func (h *EventHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	var req request.StatusRequest
	if err := decodeJSON(r, &req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	event, err := h.service.SetStatus(r.Context(), chi.URLParam(r, "id"), &req, actor)
	if err != nil {
		handleServiceError(w, h.log, err, "set event status")
		return
	}

	utils.ResponseSuccess(w, event)
}

// Delete handles DELETE /api/events/{id}
func (h *EventHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id"), actor); err != nil {
		handleServiceError(w, h.log, err, "delete event")
		return
	}

	utils.ResponseMessage(w, "Event deleted")
}

// Count handles GET /api/events/count
func (h *EventHandler) Count(w http.ResponseWriter, r *http.Request) {
	total, err := h.service.Count(r.Context())
	if err != nil {
		handleServiceError(w, h.log, err, "count events")
		return
	}
	utils.ResponseSuccess(w, response.CountResponse{Count: total})
}
