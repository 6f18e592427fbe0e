package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/virajo/backoffice/internal/store"
	"github.com/virajo/backoffice/internal/submission"
)

// respondError writes 404 and 400 responses. Anything else is attached to
// the context for middleware.ErrorHandler.
func respondError(c *gin.Context, noun string, err error) {
	var serr *submission.Error
	var verr *store.ValidationError
	switch {
	case errors.As(err, &serr) && !serr.Internal():
		body := gin.H{"success": false, "error": serr.Message, "code": serr.Code}
		if len(serr.Fields) > 0 {
			body["errors"] = serr.Messages()
		}
		if serr.Missing != nil {
			body["missingFields"] = serr.Missing
		}
		c.JSON(http.StatusBadRequest, body)
	case errors.As(err, &serr):
		_ = c.Error(err)
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": noun + " not found"})
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Validation Error", "errors": verr.Messages()})
	default:
		_ = c.Error(err)
	}
}
