// Package client is a typed HTTP client for the community hub API plus
// state containers that mirror each server resource.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"path/filepath"
	"strings"
	"time"

	"community-hub/internal/dto/request"
	"community-hub/internal/dto/response"
)

// APIError is a non-2xx reply. Message is the server's message string.
type APIError struct {
	Status  int
	Message string
	Fields  map[string]string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

// Upload is an image attached to a create or update form.
type Upload struct {
	Filename string
	Content  io.Reader
}

type Client struct {
	baseURL    string
	httpClient *http.Client

	// Auth is the single holder of the bearer token.
	Auth *AuthStore
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTokenStorage persists the token through storage.
func WithTokenStorage(storage TokenStorage) Option {
	return func(c *Client) {
		if storage != nil {
			c.Auth.storage = storage
		}
	}
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	c.Auth = newAuthStore(c, nil)

	for _, opt := range opts {
		opt(c)
	}
	c.Auth.restore()

	return c
}

// ------------- transport -------------

func (c *Client) doJSON(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.send(req, out)
}

func (c *Client) doMultipart(ctx context.Context, method, path string, fields map[string]string, image *Upload, out any) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	for name, value := range fields {
		if err := mw.WriteField(name, value); err != nil {
			return fmt.Errorf("write field %s: %w", name, err)
		}
	}
	if image != nil {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image"; filename="%s"`, image.Filename))
		header.Set("Content-Type", imageContentType(image.Filename))
		part, err := mw.CreatePart(header)
		if err != nil {
			return fmt.Errorf("create image part: %w", err)
		}
		if _, err := io.Copy(part, image.Content); err != nil {
			return fmt.Errorf("copy image: %w", err)
		}
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("close form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	return c.send(req, out)
}

func (c *Client) send(req *http.Request, out any) error {
	req.Header.Set("Accept", "application/json")
	if token := c.Auth.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		var envelope struct {
			Message string          `json:"message"`
			Errors  json.RawMessage `json:"errors"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&envelope); err == nil && envelope.Message != "" {
			apiErr.Message = envelope.Message
			if len(envelope.Errors) > 0 {
				_ = json.Unmarshal(envelope.Errors, &apiErr.Fields)
			}
		}
		return apiErr
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// ------------- auth -------------

func (c *Client) Register(ctx context.Context, req request.RegisterRequest) (*response.AuthResponse, error) {
	var out response.AuthResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/auth/register", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Login(ctx context.Context, req request.LoginRequest) (*response.LoginResponse, error) {
	var out response.LoginResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/auth/login", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Profile(ctx context.Context) (*response.UserResponse, error) {
	var out response.UserResponse
	if err := c.doJSON(ctx, http.MethodGet, "/api/auth/profile", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ------------- events -------------

// EventScope selects which event listing to read.
type EventScope string

const (
	EventsUnfiltered EventScope = ""
	EventsApproved   EventScope = "approved"
	EventsAll        EventScope = "all"
	EventsMine       EventScope = "mine"
	EventsPending    EventScope = "pending"
)

// EventInput holds the create form. Empty fields are omitted on update.
type EventInput struct {
	Title    string
	Date     string
	Location string
	Price    *float64
}

func (in EventInput) fields() map[string]string {
	fields := map[string]string{}
	setIf(fields, "title", in.Title)
	setIf(fields, "date", in.Date)
	setIf(fields, "location", in.Location)
	if in.Price != nil {
		fields["price"] = formatPrice(*in.Price)
	}
	return fields
}

func (c *Client) ListEvents(ctx context.Context, scope EventScope) ([]response.EventResponse, error) {
	var out []response.EventResponse
	if err := c.doJSON(ctx, http.MethodGet, scopedPath("/api/events", string(scope)), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetEvent(ctx context.Context, id string) (*response.EventResponse, error) {
	var out response.EventResponse
	if err := c.doJSON(ctx, http.MethodGet, "/api/events/"+id, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateEvent(ctx context.Context, in EventInput, image *Upload) (*response.EventResponse, error) {
	var out response.EventResponse
	if err := c.doMultipart(ctx, http.MethodPost, "/api/events", in.fields(), image, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateEvent(ctx context.Context, id string, patch request.EventUpdateRequest) (*response.EventResponse, error) {
	var out response.EventResponse
	if err := c.doJSON(ctx, http.MethodPut, "/api/events/"+id, patch, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) SetEventStatus(ctx context.Context, id, status string) (*response.EventResponse, error) {
	var out response.EventResponse
	body := request.StatusRequest{Status: status}
	if err := c.doJSON(ctx, http.MethodPatch, "/api/events/"+id+"/status", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteEvent(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/api/events/"+id, nil, nil)
}

func (c *Client) CountEvents(ctx context.Context) (int64, error) {
	var out response.CountResponse
	if err := c.doJSON(ctx, http.MethodGet, "/api/events/count", nil, &out); err != nil {
		return 0, err
	}
	return out.Count, nil
}

// ------------- services -------------

// ServiceScope selects which service listing to read.
type ServiceScope string

const (
	ServicesUnfiltered ServiceScope = ""
	ServicesApproved   ServiceScope = "approved"
	ServicesAll        ServiceScope = "all"
	ServicesMine       ServiceScope = "mine"
	ServicesPending    ServiceScope = "pending"
)

type ServiceInput struct {
	Title       string
	Category    string
	Description string
	Contact     string
	Price       *float64
}

func (in ServiceInput) fields() map[string]string {
	fields := map[string]string{}
	setIf(fields, "title", in.Title)
	setIf(fields, "category", in.Category)
	setIf(fields, "description", in.Description)
	setIf(fields, "contact", in.Contact)
	if in.Price != nil {
		fields["price"] = formatPrice(*in.Price)
	}
	return fields
}

func (c *Client) ListServices(ctx context.Context, scope ServiceScope) ([]response.ServiceResponse, error) {
	var out []response.ServiceResponse
	if err := c.doJSON(ctx, http.MethodGet, scopedPath("/api/services", string(scope)), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetService(ctx context.Context, id string) (*response.ServiceResponse, error) {
	var out response.ServiceResponse
	if err := c.doJSON(ctx, http.MethodGet, "/api/services/"+id, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateService(ctx context.Context, in ServiceInput, image *Upload) (*response.ServiceResponse, error) {
	var out response.ServiceResponse
	if err := c.doMultipart(ctx, http.MethodPost, "/api/services", in.fields(), image, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateService(ctx context.Context, id string, patch request.ServiceUpdateRequest) (*response.ServiceResponse, error) {
	var out response.ServiceResponse
	if err := c.doJSON(ctx, http.MethodPut, "/api/services/"+id, patch, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) SetServiceStatus(ctx context.Context, id, status string) (*response.ServiceResponse, error) {
	var out response.ServiceResponse
	body := request.StatusRequest{Status: status}
	if err := c.doJSON(ctx, http.MethodPatch, "/api/services/"+id+"/status", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteService(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/api/services/"+id, nil, nil)
}

// Categories returns the category enumeration the server validates against.
func (c *Client) Categories(ctx context.Context) ([]string, error) {
	var out struct {
		Categories []string `json:"categories"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/api/services/categories", nil, &out); err != nil {
		return nil, err
	}
	return out.Categories, nil
}

// ------------- bookings -------------

func (c *Client) BookEvent(ctx context.Context, eventID string) (*response.BookingResponse, error) {
	var out response.BookingResponse
	body := request.CreateBookingRequest{EventID: eventID}
	if err := c.doJSON(ctx, http.MethodPost, "/api/bookings", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListBookings(ctx context.Context) ([]response.BookingResponse, error) {
	var out []response.BookingResponse
	if err := c.doJSON(ctx, http.MethodGet, "/api/bookings", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CancelBooking(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/api/bookings/"+id, nil, nil)
}

func (c *Client) BookService(ctx context.Context, req request.CreateServiceBookingRequest) (*response.ServiceBookingResponse, error) {
	var out response.ServiceBookingResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/servicebookings", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListServiceBookings(ctx context.Context) ([]response.ServiceBookingResponse, error) {
	var out []response.ServiceBookingResponse
	if err := c.doJSON(ctx, http.MethodGet, "/api/servicebookings", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CancelServiceBooking(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/api/servicebookings/"+id, nil, nil)
}

// ------------- users & digest -------------

func (c *Client) CountUsers(ctx context.Context) (int64, error) {
	var out response.CountResponse
	if err := c.doJSON(ctx, http.MethodGet, "/api/users/count", nil, &out); err != nil {
		return 0, err
	}
	return out.Count, nil
}

func (c *Client) ListUsers(ctx context.Context, page, perPage int) (*response.PaginatedResponse[response.UserResponse], error) {
	var out response.PaginatedResponse[response.UserResponse]
	path := fmt.Sprintf("/api/users?page=%d&per_page=%d", page, perPage)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Digest(ctx context.Context) (*response.DigestResponse, error) {
	var out response.DigestResponse
	if err := c.doJSON(ctx, http.MethodGet, "/api/daily-digest", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func scopedPath(base, scope string) string {
	if scope == "" {
		return base
	}
	return base + "/" + scope
}

func setIf(fields map[string]string, name, value string) {
	if value != "" {
		fields[name] = value
	}
}

func formatPrice(p float64) string {
	return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.2f", p), "0"), ".")
}

func imageContentType(filename string) string {
	if ct := mime.TypeByExtension(strings.ToLower(filepath.Ext(filename))); ct != "" {
		return ct
	}
	return "image/jpeg"
}
