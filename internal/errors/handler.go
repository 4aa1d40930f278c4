package errors

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"mmx/internal/mmm"
)

// ErrorHandler provides centralized error handling for the HTTP surface
type ErrorHandler struct {
	logger *slog.Logger
}

// NewErrorHandler creates a new error handler
func NewErrorHandler(logger *slog.Logger) *ErrorHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ErrorHandler{
		logger: logger.With(slog.String("component", "error_handler")),
	}
}

// HandleError maps any error to a structured API response and renders it
func (h *ErrorHandler) HandleError(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		return
	}

	h.logger.ErrorContext(r.Context(), "request failed",
		slog.String("error", err.Error()),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
	)

	render.Render(w, r, h.toAPIError(err))
}

// toAPIError maps the modeling error taxonomy onto HTTP status codes,
// surfacing each error to the caller without retrying: the taxonomy
// reflects data shape, not transient conditions.
func (h *ErrorHandler) toAPIError(err error) *APIError {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}

	var dataErr *mmm.DataError
	if errors.As(err, &dataErr) {
		return MissingColumn(dataErr.Column)
	}

	var insufficient *mmm.InsufficientDataError
	if errors.As(err, &insufficient) {
		return InsufficientData(insufficient.Error())
	}

	var untrained *mmm.UntrainedModelError
	if errors.As(err, &untrained) {
		return ModelNotTrained(untrained.Error())
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return New(http.StatusGatewayTimeout, "TIMEOUT", "The request took too long to process")
	}

	return ErrInternalServer
}
