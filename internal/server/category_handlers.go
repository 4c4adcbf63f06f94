package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"focus-planner/internal/model"
)

type categoryRequest struct {
	UserID uint   `json:"user_id"`
	Name   string `json:"name"`
	Color  string `json:"color"`
}

func (s *Server) createCategory(c *gin.Context) {
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid body")
		return
	}
	if req.Name == "" {
		badRequest(c, "name is required")
		return
	}

	category := model.Category{UserID: req.UserID, Name: req.Name, Color: req.Color}
	if err := s.deps.Categories.Create(c.Request.Context(), &category); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, category)
}

// listCategories returns either all categories or one user's when user_id
// is given as a query parameter.
func (s *Server) listCategories(c *gin.Context) {
	if raw := c.Query("user_id"); raw != "" {
		userID, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			badRequest(c, "invalid user_id")
			return
		}
		categories, err := s.deps.Categories.ListByUser(c.Request.Context(), uint(userID))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, categories)
		return
	}

	categories, err := s.deps.Categories.ListAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, categories)
}

func (s *Server) updateCategory(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid body")
		return
	}

	category, err := s.deps.Categories.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	if req.Name != "" {
		category.Name = req.Name
	}
	if req.Color != "" {
		category.Color = req.Color
	}
	if err := s.deps.Categories.Save(c.Request.Context(), category); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, category)
}

func (s *Server) deleteCategory(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if _, err := s.deps.Categories.GetByID(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	if err := s.deps.Categories.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "category deleted"})
}
