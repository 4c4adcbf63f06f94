package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"focus-planner/internal/model"
)

// getUserStatistics recomputes and persists the user's snapshot, returning
// it together with the ephemeral analysis payload.
func (s *Server) getUserStatistics(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	result, err := s.deps.Statistics.Recalculate(c.Request.Context(), id, "current")
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type calculateRequest struct {
	UserID uint   `json:"user_id"`
	Period string `json:"period"`
}

// calculateStatistics runs the derivation without persisting anything.
func (s *Server) calculateStatistics(c *gin.Context) {
	var req calculateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid body")
		return
	}

	result, err := s.deps.Statistics.Calculate(c.Request.Context(), req.UserID, req.Period)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Admin CRUD over raw snapshots.

func (s *Server) createSnapshot(c *gin.Context) {
	var stat model.Statistics
	if err := c.ShouldBindJSON(&stat); err != nil {
		badRequest(c, "invalid body")
		return
	}
	if err := s.deps.Snapshots.Create(c.Request.Context(), &stat); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, stat)
}

func (s *Server) listSnapshots(c *gin.Context) {
	stats, err := s.deps.Snapshots.ListAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (s *Server) updateSnapshot(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req model.Statistics
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid body")
		return
	}

	stat, err := s.deps.Snapshots.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	stat.Period = req.Period
	stat.CompletedPercent = req.CompletedPercent
	stat.OverloadDays = req.OverloadDays
	stat.CategoryBalance = req.CategoryBalance
	stat.RecommendationText = req.RecommendationText
	if err := s.deps.Snapshots.Save(c.Request.Context(), stat); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stat)
}

func (s *Server) deleteSnapshot(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if _, err := s.deps.Snapshots.GetByID(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	if err := s.deps.Snapshots.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "statistics record deleted"})
}
