package middleware

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/virajo/backoffice/pkg/logger"
)

func internalErrorBody(production bool, detail string) gin.H {
	body := gin.H{"success": false, "error": "Internal server error"}
	if !production && detail != "" {
		body["details"] = detail
	}
	return body
}

// ErrorHandler turns errors attached with c.Error into a 500 response when
// the handler did not write one itself. Details are only exposed outside
// production.
func ErrorHandler(production bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		if len(c.Errors) == 0 {
			return
		}
		err := c.Errors.Last().Err
		logger.Errorf("%s %s %s: %v", RequestID(c), c.Request.Method, c.Request.URL.Path, err)
		if c.Writer.Written() {
			return
		}
		c.JSON(http.StatusInternalServerError, internalErrorBody(production, err.Error()))
	}
}

// Recovery converts panics into the same 500 shape as ErrorHandler.
func Recovery(production bool) gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(io.Discard, func(c *gin.Context, rec any) {
		logger.Errorf("%s panic serving %s %s: %v", RequestID(c), c.Request.Method, c.Request.URL.Path, rec)
		c.AbortWithStatusJSON(http.StatusInternalServerError, internalErrorBody(production, fmt.Sprint(rec)))
	})
}
