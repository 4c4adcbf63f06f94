package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"focus-planner/internal/model"
)

type startRequest struct {
	Focus int `json:"focus"`
	Break int `json:"break"`
}

func (s *Server) startDevice(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req startRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid body")
		return
	}

	if err := s.deps.Gate.Start(c.Request.Context(), id, req.Focus, req.Break); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "start command queued"})
}

func (s *Server) stopDevice(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := s.deps.Gate.Stop(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "stop command queued"})
}

func (s *Server) fetchCommand(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	cmd, err := s.deps.Gate.FetchCommand(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cmd)
}

type reportStatusRequest struct {
	Status string `json:"status"`
}

func (s *Server) reportStatus(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req reportStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid body")
		return
	}

	if err := s.deps.Gate.ReportStatus(c.Request.Context(), id, req.Status); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "status accepted"})
}

// Admin CRUD.

type deviceRequest struct {
	UserID uint   `json:"user_id"`
	ESPID  string `json:"esp_id"`
	State  string `json:"state"`
}

func (s *Server) createDevice(c *gin.Context) {
	var req deviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid body")
		return
	}
	if req.State == "" {
		req.State = model.DeviceInactive
	}

	device := model.Device{UserID: req.UserID, ESPID: req.ESPID, State: req.State}
	if err := s.deps.Devices.Create(c.Request.Context(), &device); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, device)
}

func (s *Server) listDevices(c *gin.Context) {
	devices, err := s.deps.Devices.ListAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, devices)
}

func (s *Server) getDevice(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	device, err := s.deps.Devices.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, device)
}

func (s *Server) updateDevice(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req deviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid body")
		return
	}

	device, err := s.deps.Devices.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	if req.State != "" {
		device.State = req.State
	}
	if req.ESPID != "" {
		device.ESPID = req.ESPID
	}
	if err := s.deps.Devices.Save(c.Request.Context(), device); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, device)
}

func (s *Server) deleteDevice(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if _, err := s.deps.Devices.GetByID(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	if err := s.deps.Devices.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "device deleted"})
}
