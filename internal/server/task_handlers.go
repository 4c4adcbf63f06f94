package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"focus-planner/internal/service"
)

func (s *Server) createTask(c *gin.Context) {
	var input service.TaskInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, "invalid body")
		return
	}

	task, err := s.deps.Tasks.Create(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, task)
}

// listTasks returns the user's own tasks plus shared tasks from subscribed
// planners.
func (s *Server) listTasks(c *gin.Context) {
	raw := c.Query("user_id")
	if raw == "" {
		badRequest(c, "user_id is required")
		return
	}
	userID, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		badRequest(c, "invalid user_id")
		return
	}

	tasks, err := s.deps.Tasks.List(c.Request.Context(), uint(userID))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

func (s *Server) updateTask(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var input service.TaskInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, "invalid body")
		return
	}

	task, err := s.deps.Tasks.Update(c.Request.Context(), id, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (s *Server) deleteTask(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := s.deps.Tasks.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "task deleted"})
}
