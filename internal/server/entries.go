package server

import (
	"errors"
	"net/http"

	"github.com/Veraticus/fintrack/internal/storage"
	"github.com/gin-gonic/gin"
)

func registerEntryRoutes(g *gin.RouterGroup, s *Server) {
	g.GET("", s.listEntries)
	g.POST("", s.createEntry)
	g.GET("/:id", s.getEntry)
	g.PUT("/:id", s.updateEntry)
	g.DELETE("/:id", s.deleteEntry)
}

func (s *Server) listEntries(c *gin.Context) {
	entries, err := s.store.ListEntries(c.Request.Context())
	if err != nil {
		storeError(c, err, "entries")
		return
	}
	c.JSON(http.StatusOK, entries)
}

func (s *Server) getEntry(c *gin.Context) {
	id, ok := pathID(c, "entry")
	if !ok {
		return
	}
	entry, err := s.store.GetEntry(c.Request.Context(), id)
	if err != nil {
		storeError(c, err, "entry")
		return
	}
	c.JSON(http.StatusOK, entry)
}

func (s *Server) createEntry(c *gin.Context) {
	payload, ok := s.bindEntry(c)
	if !ok {
		return
	}
	entry := payload.toModel()
	if err := s.store.CreateEntry(c.Request.Context(), &entry); err != nil {
		s.entryStoreError(c, err)
		return
	}
	loggerFrom(c).Info("Entry created", "id", *entry.ID, "category_id", entry.CategoryID)
	c.JSON(http.StatusCreated, entry)
}

func (s *Server) updateEntry(c *gin.Context) {
	id, ok := pathID(c, "entry")
	if !ok {
		return
	}
	payload, ok := s.bindEntry(c)
	if !ok {
		return
	}
	entry := payload.toModel()
	entry.ID = &id
	if err := s.store.UpdateEntry(c.Request.Context(), &entry); err != nil {
		s.entryStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

func (s *Server) deleteEntry(c *gin.Context) {
	id, ok := pathID(c, "entry")
	if !ok {
		return
	}
	if err := s.store.DeleteEntry(c.Request.Context(), id); err != nil {
		storeError(c, err, "entry")
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) bindEntry(c *gin.Context) (entryPayload, bool) {
	var payload entryPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		bodyError(c, err)
		return payload, false
	}
	payload.normalize()
	return payload, s.check(c, payload)
}

// entryStoreError reports a dangling category reference as a field error.
func (s *Server) entryStoreError(c *gin.Context, err error) {
	if errors.Is(err, storage.ErrUnknownCategory) {
		validationErrors(c, map[string][]string{"categoryId": {"does not exist"}})
		return
	}
	storeError(c, err, "entry")
}
