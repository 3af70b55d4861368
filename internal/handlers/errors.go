package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/finn_ledger/internal/apperrors"
	"github.com/SscSPs/finn_ledger/internal/dto"
	"github.com/SscSPs/finn_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// writeError maps err to a status and body, logs it once and writes the response.
// Client errors are logged at warn, server errors at error.
func writeError(c *gin.Context, err error) {
	status, body := errorResponse(err)

	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	if status >= http.StatusInternalServerError {
		logger.Error("Request failed", slog.Int("status", status), slog.String("error", err.Error()))
	} else {
		logger.Warn("Request rejected", slog.Int("status", status), slog.String("error", err.Error()))
	}

	c.JSON(status, body)
}

func errorResponse(err error) (int, dto.ErrorResponse) {
	var ve *apperrors.ValidationError
	var appErr *apperrors.AppError

	switch {
	// Checked before ValidationError: a record that fails its read profile is a server fault.
	case errors.Is(err, apperrors.ErrCorruptedData):
		return http.StatusInternalServerError, dto.ErrorResponse{Error: "stored data is corrupted"}
	case errors.As(err, &ve):
		return http.StatusBadRequest, dto.ErrorResponse{Error: ve.Message, Details: ve.Details}
	case errors.Is(err, apperrors.ErrInvalidAmount),
		errors.Is(err, apperrors.ErrInvalidAccountType),
		errors.Is(err, apperrors.ErrInvalidTransactionType):
		return http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()}
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound, dto.ErrorResponse{Error: err.Error()}
	case errors.Is(err, apperrors.ErrMissingAccount),
		errors.Is(err, apperrors.ErrInsufficientFunds),
		errors.Is(err, apperrors.ErrConflict),
		errors.Is(err, apperrors.ErrDuplicate):
		return http.StatusConflict, dto.ErrorResponse{Error: err.Error()}
	case errors.Is(err, apperrors.ErrRepositoryUnavailable):
		return http.StatusServiceUnavailable, dto.ErrorResponse{Error: "service temporarily unavailable, please retry"}
	case errors.As(err, &appErr) && appErr.Code >= http.StatusBadRequest && appErr.Code < http.StatusInternalServerError:
		return appErr.Code, dto.ErrorResponse{Error: appErr.Message}
	default:
		// Includes ErrInvalidFactor: factors never come from clients, so a bad one is a server fault.
		return http.StatusInternalServerError, dto.ErrorResponse{Error: "internal server error"}
	}
}

// bindError turns a JSON decoding failure into a validation error.
func bindError(err error) error {
	return apperrors.NewValidationError("invalid request format", "body: "+err.Error())
}
