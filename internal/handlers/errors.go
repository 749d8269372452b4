package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/filevault/internal/auth"
	"github.com/dmitrymomot/filevault/internal/files"
	"github.com/dmitrymomot/filevault/internal/web"
)

// Client-facing messages.
const (
	msgUnauthorized = "Unauthorized"
	msgNotFound     = "Not found"
	msgInternal     = "Internal server error"
)

type errorMapping struct {
	err     error
	message string
	code    int
}

// errorMappings is checked in order; the first sentinel found in the chain wins.
var errorMappings = []errorMapping{
	{files.ErrMissingName, "Missing name", http.StatusBadRequest},
	{files.ErrMissingKind, "Missing type", http.StatusBadRequest},
	{files.ErrMissingData, "Missing data", http.StatusBadRequest},
	{files.ErrInvalidData, "Invalid data", http.StatusBadRequest},
	{web.ErrInvalidBody, "Invalid data", http.StatusBadRequest},
	{files.ErrParentNotFound, "Parent not found", http.StatusBadRequest},
	{files.ErrParentNotFolder, "Parent is not a folder", http.StatusBadRequest},
	{files.ErrFolderHasNoContent, "A folder doesn't have content", http.StatusBadRequest},
	{files.ErrInvalidSize, "Invalid size", http.StatusBadRequest},
	{auth.ErrUnauthorized, msgUnauthorized, http.StatusUnauthorized},
	{files.ErrUnauthorized, msgUnauthorized, http.StatusUnauthorized},
	{files.ErrNotFound, msgNotFound, http.StatusNotFound},
}

// Classify maps err to an HTTPError. Unknown errors become a 500 that
// keeps err for logging.
func Classify(err error) *web.HTTPError {
	for _, m := range errorMappings {
		if errors.Is(err, m.err) {
			return web.NewHTTPError(m.code, m.message, web.WithError(err))
		}
	}
	if httpErr := web.AsHTTPError(err); httpErr != nil {
		return httpErr
	}
	return web.ErrInternal(msgInternal, web.WithError(err))
}

type errorResponse struct {
	Error string `json:"error"`
}

// ErrorHandler renders errors as {"error": "<message>"}.
// Server errors are logged with the full chain and never leak details.
func ErrorHandler(log *slog.Logger) web.ErrorHandler {
	return func(c web.Context, err error) error {
		httpErr := Classify(err)
		message := httpErr.Message
		if httpErr.Code >= http.StatusInternalServerError {
			log.ErrorContext(c, "request failed",
				slog.String("method", c.Request().Method),
				slog.String("path", c.Request().URL.Path),
				slog.Any("error", err),
			)
			message = msgInternal
		}
		return c.JSON(httpErr.Code, errorResponse{Error: message})
	}
}

// NotFound renders unknown routes with the standard envelope.
func NotFound(c web.Context) error {
	return c.JSON(http.StatusNotFound, errorResponse{Error: msgNotFound})
}

// MethodNotAllowed renders known routes called with the wrong method.
func MethodNotAllowed(c web.Context) error {
	return c.JSON(http.StatusMethodNotAllowed, errorResponse{Error: http.StatusText(http.StatusMethodNotAllowed)})
}
