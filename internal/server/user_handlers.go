package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"focus-planner/internal/model"
)

type userRequest struct {
	Email          string     `json:"email"`
	Password       string     `json:"password"`
	Name           string     `json:"name"`
	LastName       string     `json:"last_name"`
	BirthDate      *time.Time `json:"birth_date"`
	TelegramChatID int64      `json:"telegram_chat_id"`
}

func (s *Server) createUser(c *gin.Context) {
	var req userRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid body")
		return
	}
	if req.Email == "" || req.Password == "" || req.Name == "" {
		badRequest(c, "email, password and name are required")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		respondError(c, err)
		return
	}

	user := model.User{
		Email:          req.Email,
		PasswordHash:   string(hash),
		Name:           req.Name,
		LastName:       req.LastName,
		BirthDate:      req.BirthDate,
		TelegramChatID: req.TelegramChatID,
	}
	if err := s.deps.Users.Create(c.Request.Context(), &user); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

func (s *Server) listUsers(c *gin.Context) {
	users, err := s.deps.Users.ListAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

func (s *Server) getUser(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	user, err := s.deps.Users.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (s *Server) updateUser(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req userRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid body")
		return
	}

	user, err := s.deps.Users.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	if req.Name != "" {
		user.Name = req.Name
	}
	if req.LastName != "" {
		user.LastName = req.LastName
	}
	if req.BirthDate != nil {
		user.BirthDate = req.BirthDate
	}
	if req.TelegramChatID != 0 {
		user.TelegramChatID = req.TelegramChatID
	}
	if req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			respondError(c, err)
			return
		}
		user.PasswordHash = string(hash)
	}

	if err := s.deps.Users.Save(c.Request.Context(), user); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (s *Server) deleteUser(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if _, err := s.deps.Users.GetByID(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	if err := s.deps.Users.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "user deleted"})
}
