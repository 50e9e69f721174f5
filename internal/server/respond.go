package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Veraticus/fintrack/internal/common"
	"github.com/gin-gonic/gin"
)

// validationErrors writes a 422 keyed by JSON field name.
func validationErrors(c *gin.Context, fields map[string][]string) {
	c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": fields})
}

// bodyError writes a 422 for a body that could not be decoded.
func bodyError(c *gin.Context, err error) {
	c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": []string{"invalid request body: " + err.Error()}})
}

// storeError maps storage errors onto status codes.
func storeError(c *gin.Context, err error, what string) {
	logger := loggerFrom(c)
	switch {
	case errors.Is(err, common.ErrNotFound):
		logger.Warn("Record not found", "resource", what, "error", err)
		c.JSON(http.StatusNotFound, gin.H{"error": what + " not found"})
	case errors.Is(err, common.ErrConflict):
		logger.Warn("Conflicting request", "resource", what, "error", err)
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		logger.Error("Storage failure", "resource", what, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to process " + what})
	}
}

// pathID reads the :id parameter. Ids that cannot exist answer 404.
func pathID(c *gin.Context, what string) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": what + " not found"})
		return 0, false
	}
	return id, true
}
