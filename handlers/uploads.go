package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/virajo/backoffice/internal/intake"
	"github.com/virajo/backoffice/internal/storage"
)

// serveResume streams a stored résumé. Only bare file names are accepted.
func (a *API) serveResume(c *gin.Context) {
	name := c.Param("name")
	rc, err := a.files.Open(c.Request.Context(), name)
	if errors.Is(err, storage.ErrNotFound) || errors.Is(err, storage.ErrInvalidName) {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "File not found"})
		return
	}
	if err != nil {
		_ = c.Error(err)
		return
	}
	defer rc.Close()
	c.Header("X-Content-Type-Options", "nosniff")
	c.DataFromReader(http.StatusOK, -1, intake.ContentType(name), rc, nil)
}
