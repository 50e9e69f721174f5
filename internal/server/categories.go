package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func registerCategoryRoutes(g *gin.RouterGroup, s *Server) {
	g.GET("", s.listCategories)
	g.POST("", s.createCategory)
	g.GET("/:id", s.getCategory)
	g.PUT("/:id", s.updateCategory)
	g.DELETE("/:id", s.deleteCategory)
}

func (s *Server) listCategories(c *gin.Context) {
	cats, err := s.store.ListCategories(c.Request.Context())
	if err != nil {
		storeError(c, err, "categories")
		return
	}
	c.JSON(http.StatusOK, cats)
}

func (s *Server) getCategory(c *gin.Context) {
	id, ok := pathID(c, "category")
	if !ok {
		return
	}
	cat, err := s.store.GetCategory(c.Request.Context(), id)
	if err != nil {
		storeError(c, err, "category")
		return
	}
	c.JSON(http.StatusOK, cat)
}

func (s *Server) createCategory(c *gin.Context) {
	payload, ok := s.bindCategory(c)
	if !ok {
		return
	}
	cat := payload.toModel()
	if err := s.store.CreateCategory(c.Request.Context(), &cat); err != nil {
		storeError(c, err, "category")
		return
	}
	loggerFrom(c).Info("Category created", "id", *cat.ID)
	c.JSON(http.StatusCreated, cat)
}

func (s *Server) updateCategory(c *gin.Context) {
	id, ok := pathID(c, "category")
	if !ok {
		return
	}
	payload, ok := s.bindCategory(c)
	if !ok {
		return
	}
	cat := payload.toModel()
	cat.ID = &id
	if err := s.store.UpdateCategory(c.Request.Context(), &cat); err != nil {
		storeError(c, err, "category")
		return
	}
	c.JSON(http.StatusOK, cat)
}

func (s *Server) deleteCategory(c *gin.Context) {
	id, ok := pathID(c, "category")
	if !ok {
		return
	}
	if err := s.store.DeleteCategory(c.Request.Context(), id); err != nil {
		storeError(c, err, "category")
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) bindCategory(c *gin.Context) (categoryPayload, bool) {
	var payload categoryPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		bodyError(c, err)
		return payload, false
	}
	payload.normalize()
	return payload, s.check(c, payload)
}

// check writes a 422 and reports false when the payload is invalid.
func (s *Server) check(c *gin.Context, payload any) bool {
	fields, err := s.validator.Check(payload)
	if err != nil {
		loggerFrom(c).Error("Payload validation failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to validate request"})
		return false
	}
	if fields != nil {
		validationErrors(c, fields)
		return false
	}
	return true
}
