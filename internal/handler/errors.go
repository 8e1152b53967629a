package handler

import (
	"errors"
	"net/http"

	"studyvault/internal/domain"
	"studyvault/internal/httputil"
)

// handleError converts domain errors to HTTP responses
func handleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		httputil.RespondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		httputil.RespondError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		httputil.RespondError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, domain.ErrInvalidTransition):
		httputil.RespondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrConflict):
		httputil.RespondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrAuth), errors.Is(err, domain.ErrStorage):
		// Provider-side failure; the caller did nothing wrong
		httputil.RespondError(w, http.StatusBadGateway, "storage provider unavailable")
	default:
		httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
	}
}
