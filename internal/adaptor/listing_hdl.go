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

type ListingHandler struct {
	service usecase.ListingService
	log     *zap.Logger
}

func NewListingHandler(service usecase.ListingService, log *zap.Logger) *ListingHandler {
	return &ListingHandler{
		service: service,
		log:     log.With(zap.String("handler", "listing")),
	}
}

// List handles GET /api/services
func (h *ListingHandler) List(w http.ResponseWriter, r *http.Request) {
	services, err := h.service.List(r.Context())
	if err != nil {
		handleServiceError(w, h.log, err, "list services")
		return
	}
	utils.ResponseSuccess(w, services)
}

// ListAll handles GET /api/services/all
func (h *ListingHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	services, err := h.service.ListAll(r.Context(), actor)
	if err != nil {
		handleServiceError(w, h.log, err, "list all services")
		return
	}
	utils.ResponseSuccess(w, services)
}

// ListApproved handles GET /api/services/approved
func (h *ListingHandler) ListApproved(w http.ResponseWriter, r *http.Request) {
	services, err := h.service.ListApproved(r.Context())
	if err != nil {
		handleServiceError(w, h.log, err, "list approved services")
		return
	}
	utils.ResponseSuccess(w, services)
}

// ListMine handles GET /api/services/mine
func (h *ListingHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	services, err := h.service.ListMine(r.Context(), actor)
	if err != nil {
		handleServiceError(w, h.log, err, "list my services")
		return
	}
	utils.ResponseSuccess(w, services)
}

// ListPending handles GET /api/services/pending
func (h *ListingHandler) ListPending(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	services, err := h.service.ListPending(r.Context(), actor)
	if err != nil {
		handleServiceError(w, h.log, err, "list pending services")
		return
	}
	utils.ResponseSuccess(w, services)
}

// GetByID handles GET /api/services/{id}
func (h *ListingHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	service, err := h.service.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.log, err, "get service")
		return
	}
	utils.ResponseSuccess(w, service)
}

// Create handles POST /api/services (multipart: title, category, description, contact, price, image)
func (h *ListingHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	image, closeImage, err := parseForm(w, r)
	if err != nil {
		h.log.Warn("Invalid service form", zap.Error(err))
		utils.ResponseBadRequest(w, "Invalid form data", nil)
		return
	}
	defer closeImage()

	price, err := formPrice(r)
	if err != nil {
		utils.ResponseBadRequest(w, "Validation failed", map[string]string{"Price": "Must be a number"})
		return
	}

	req := &request.ServiceRequest{
		Title:       strings.TrimSpace(r.FormValue("title")),
		Category:    strings.TrimSpace(r.FormValue("category")),
		Description: strings.TrimSpace(r.FormValue("description")),
		Contact:     strings.TrimSpace(r.FormValue("contact")),
		Price:       price,
	}

	service, err := h.service.Create(r.Context(), req, image, actor)
	if err != nil {
		handleServiceError(w, h.log, err, "create service")
		return
	}

	utils.ResponseCreated(w, service)
}

// Update handles PUT /api/services/{id} with a JSON or multipart body
func (h *ListingHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	var (
		req   request.ServiceUpdateRequest
		image *usecase.Image
	)

	if isMultipart(r) {
		img, closeImage, err := parseForm(w, r)
		if err != nil {
			h.log.Warn("Invalid service form", zap.Error(err))
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
		req = request.ServiceUpdateRequest{
			Title:       formString(r, "title"),
			Category:    formString(r, "category"),
			Description: formString(r, "description"),
			Contact:     formString(r, "contact"),
			Price:       price,
		}
	} else if err := decodeJSON(r, &req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	service, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), &req, image, actor)
	if err != nil {
		handleServiceError(w, h.log, err, "update service")
		return
	}

	utils.ResponseSuccess(w, service)
}

// SetStatus handles PATCH /api/services/{id}/status
func (h *ListingHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	var req request.StatusRequest
	if err := decodeJSON(r, &req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	service, err := h.service.SetStatus(r.Context(), chi.URLParam(r, "id"), &req, actor)
	if err != nil {
		handleServiceError(w, h.log, err, "set service status")
		return
	}

	utils.ResponseSuccess(w, service)
}

// Delete handles DELETE /api/services/{id}
func (h *ListingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id"), actor); err != nil {
		handleServiceError(w, h.log, err, "delete service")
		return
	}

	utils.ResponseMessage(w, "Service deleted")
}

// Count handles GET /api/services/count
func (h *ListingHandler) Count(w http.ResponseWriter, r *http.Request) {
	total, err := h.service.Count(r.Context())
	if err != nil {
		handleServiceError(w, h.log, err, "count services")
		return
	}
	utils.ResponseSuccess(w, response.CountResponse{Count: total})
}

// Categories handles GET /api/services/categories
func (h *ListingHandler) Categories(w http.ResponseWriter, r *http.Request) {
	utils.ResponseSuccess(w, response.CategoriesResponse{Categories: h.service.Categories()})
}
