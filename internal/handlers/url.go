package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"go.uber.org/zap"

	"github.com/snaplink-io/snaplink/internal/auth"
	"github.com/snaplink-io/snaplink/internal/clientinfo"
	"github.com/snaplink-io/snaplink/internal/shortener"
)

// URLHandler maps HTTP operations onto the URL service.
type URLHandler struct {
	service *shortener.Service
	logger  *zap.Logger
}

// NewURLHandler creates a new URL handler.
func NewURLHandler(service *shortener.Service, logger *zap.Logger) *URLHandler {
	return &URLHandler{service: service, logger: logger}
}

// CreateShortURL handles POST /shorten.
func (h *URLHandler) CreateShortURL(ctx context.Context, req *CreateURLRequest) (*CreateURLResponse, error) {
	caller, ok := auth.CallerFromContext(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("authentication is required to access this resource")
	}

	view, err := h.service.CreateURL(ctx, caller, shortener.CreateInput{
		OriginalURL:         req.Body.OriginalURL,
		Alias:               req.Body.Alias,
		Title:               req.Body.Title,
		Category:            req.Body.Category,
		CustomDomain:        req.Body.CustomDomain,
		ExpiresAt:           req.Body.ExpiresAt,
		IsPasswordProtected: req.Body.IsPasswordProtected,
		Password:            req.Body.Password,
	})
	if err != nil {
		return nil, h.fail(err, "create url failed", zap.String("alias", req.Body.Alias))
	}

	return &CreateURLResponse{Body: *view}, nil
}

// ListURLs handles GET /urls.
func (h *URLHandler) ListURLs(ctx context.Context, req *ListURLsRequest) (*ListURLsResponse, error) {
	caller, ok := auth.CallerFromContext(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("authentication is required to access this resource")
	}

	filters := shortener.SearchFilters{
		Status: shortener.Status(req.Status),
		Search: req.Search,
	}

	result, err := h.service.SearchURLs(ctx, caller, filters, req.Page, req.Limit)
	if err != nil {
		return nil, h.fail(err, "url search failed")
	}

	return &ListURLsResponse{Body: *result}, nil
}

// RedirectToURL handles GET /{alias}.
func (h *URLHandler) RedirectToURL(ctx context.Context, req *RedirectRequest) (*RedirectResponse, error) {
	result, err := h.service.GetRedirectURL(ctx, req.Alias, clientinfo.FromContext(ctx))
	if err != nil {
		return nil, h.fail(err, "redirect failed", zap.String("alias", req.Alias))
	}

	resp := &RedirectResponse{}

	if result.IsPasswordProtected {
		resp.Status = http.StatusOK
		resp.Body.IsPasswordProtected = true

		return resp, nil
	}

	resp.Status = http.StatusFound
	resp.Headers.Location = result.OriginalURL

	return resp, nil
}

// AccessProtectedURL handles POST /{alias}/access.
func (h *URLHandler) AccessProtectedURL(ctx context.Context, req *AccessURLRequest) (*AccessURLResponse, error) {
	originalURL, err := h.service.AccessProtectedURL(ctx, req.Alias, req.Body.Password, clientinfo.FromContext(ctx))
	if err != nil {
		return nil, h.fail(err, "protected access failed", zap.String("alias", req.Alias))
	}

	resp := &AccessURLResponse{}
	resp.Body.OriginalURL = originalURL

	return resp, nil
}

// GetURLAnalytics handles GET /analytics/{alias}.
func (h *URLHandler) GetURLAnalytics(ctx context.Context, req *AnalyticsRequest) (*AnalyticsResponse, error) {
	caller, ok := auth.CallerFromContext(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("authentication is required to access this resource")
	}

	startDate, err := parseDate(req.StartDate)
	if err != nil {
		return nil, mapError(err)
	}

	endDate, err := parseDate(req.EndDate)
	if err != nil {
		return nil, mapError(err)
	}

	report, err := h.service.GetURLAnalytics(ctx, req.Alias, caller, startDate, endDate)
	if err != nil {
		return nil, h.fail(err, "analytics read failed", zap.String("alias", req.Alias))
	}

	return &AnalyticsResponse{Body: *report}, nil
}

// fail logs unexpected errors and maps everything to the HTTP boundary.
func (h *URLHandler) fail(err error, msg string, fields ...zap.Field) error {
	var derr *shortener.Error
	if !errors.As(err, &derr) {
		h.logger.Error(msg, append(fields, zap.Error(err))...)
	}

	return mapError(err)
}

// parseDate accepts RFC 3339 timestamps and bare ISO dates.
func parseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}

	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t, nil
	}

	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return &t, nil
	}

	return nil, shortener.ErrInvalidDate
}
