package api

import (
	"errors"
	"net/http"

	"fittrack/planner/internal/domain"
	"fittrack/planner/internal/repository"
	"fittrack/planner/internal/service"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// respondError maps service errors onto HTTP responses. Unknown errors are
// logged and hidden behind a generic 500.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrNoPlan):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": err.Error(), "code": "no_plan"})
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, repository.ErrNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrInvalidPlanData):
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error(), "code": "invalid_plan", "retryable": true})
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrInvalidEdit):
		abortWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrUserAlreadyExists),
		errors.Is(err, service.ErrConflict),
		errors.Is(err, repository.ErrConflict),
		errors.Is(err, domain.ErrInvalidTransition):
		abortWithError(c, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrAuthenticationFailed):
		abortWithError(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrExportDisabled):
		abortWithError(c, http.StatusNotImplemented, err.Error())
	case errors.Is(err, domain.ErrTransientIO):
		log.WithFields(log.Fields{"route": c.FullPath()}).Warnf("transient failure: %s", err)
		abortWithError(c, http.StatusServiceUnavailable, "Service temporarily unavailable, please retry.")
	default:
		log.WithFields(log.Fields{"route": c.FullPath(), "method": c.Request.Method}).Errorf("request failed: %s", err)
		abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred.")
	}
}
