package booking

import (
	"errors"
	"net/http"

	"catering/internal/domain/catalog"
	"catering/internal/domain/selection"
	"catering/internal/domain/submission"
	"catering/internal/domain/validation"
	"catering/internal/domain/workflow"
	"catering/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrInvalidSession  = errors.New("invalid session id")
)

// writeError maps domain errors onto the response envelope.
func writeError(c *gin.Context, err error) {
	var verr *validation.Error
	switch {
	case errors.As(err, &verr):
		response.ErrorWithDetails(c, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Please fix the highlighted fields", verr.Fields)
	case errors.Is(err, ErrSessionNotFound), errors.Is(err, ErrInvalidSession):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Session not found")
	case errors.Is(err, workflow.ErrNotSignedIn):
		response.Error(c, http.StatusUnauthorized, "SIGN_IN_REQUIRED", "Please sign in to continue")
	case errors.Is(err, workflow.ErrInvalidTransition):
		response.Error(c, http.StatusConflict, "INVALID_STATE", err.Error())
	case errors.Is(err, submission.ErrSubmissionInProgress):
		response.Error(c, http.StatusConflict, "SUBMISSION_IN_PROGRESS", "This booking is already being submitted")
	case errors.Is(err, catalog.ErrUnknownOption):
		response.Error(c, http.StatusBadRequest, "UNKNOWN_OPTION", err.Error())
	case errors.Is(err, selection.ErrInvalidGuestCount), errors.Is(err, selection.ErrInvalidSeason):
		response.Error(c, http.StatusBadRequest, "INVALID_VALUE", err.Error())
	default:
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Something went wrong")
	}
}
