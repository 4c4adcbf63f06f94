package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"focus-planner/internal/model"
)

type statusRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (s *Server) createStatus(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid body")
		return
	}
	if req.Name == "" {
		badRequest(c, "name is required")
		return
	}

	status := model.Status{Name: req.Name, Description: req.Description}
	if err := s.deps.Statuses.Create(c.Request.Context(), &status); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, status)
}

func (s *Server) listStatuses(c *gin.Context) {
	statuses, err := s.deps.Statuses.ListAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, statuses)
}

func (s *Server) updateStatus(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid body")
		return
	}

	status, err := s.deps.Statuses.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	if req.Name != "" {
		status.Name = req.Name
	}
	if req.Description != "" {
		status.Description = req.Description
	}
	if err := s.deps.Statuses.Save(c.Request.Context(), status); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}

func (s *Server) deleteStatus(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if _, err := s.deps.Statuses.GetByID(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	if err := s.deps.Statuses.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "status deleted"})
}
