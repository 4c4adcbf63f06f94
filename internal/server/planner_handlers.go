package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type plannerRequest struct {
	Name    string `json:"name"`
	OwnerID uint   `json:"owner_id"`
}

type subscriptionRequest struct {
	PlannerID uint   `json:"planner_id"`
	UserID    uint   `json:"user_id"`
	Role      string `json:"role"`
}

func (s *Server) createPlanner(c *gin.Context) {
	var req plannerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid body")
		return
	}

	planner, err := s.deps.Planners.Create(c.Request.Context(), req.Name, req.OwnerID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, planner)
}

func (s *Server) listPlanners(c *gin.Context) {
	planners, err := s.deps.Planners.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, planners)
}

func (s *Server) subscribe(c *gin.Context) {
	var req subscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid body")
		return
	}

	sub, err := s.deps.Planners.Subscribe(c.Request.Context(), req.PlannerID, req.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, sub)
}

func (s *Server) unsubscribe(c *gin.Context) {
	var req subscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid body")
		return
	}

	if err := s.deps.Planners.Unsubscribe(c.Request.Context(), req.PlannerID, req.UserID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "unsubscribed from planner, task copies removed"})
}

func (s *Server) listSubscribers(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	subs, err := s.deps.Planners.Subscribers(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, subs)
}

func (s *Server) updateRole(c *gin.Context) {
	var req subscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid body")
		return
	}

	updated, err := s.deps.Planners.UpdateRole(c.Request.Context(), req.PlannerID, req.UserID, req.Role)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": updated})
}

func (s *Server) listUserSubscriptions(c *gin.Context) {
	userID, ok := paramID(c, "user_id")
	if !ok {
		return
	}
	subs, err := s.deps.Planners.UserSubscriptions(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, subs)
}
