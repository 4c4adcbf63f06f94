package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"focus-planner/internal/repository"
	"focus-planner/internal/service"
)

// Deps collects everything the HTTP surface needs. Plain CRUD endpoints use
// the repositories directly; the core flows go through their services.
type Deps struct {
	Users      *repository.UserRepository
	Categories *repository.CategoryRepository
	Statuses   *repository.StatusRepository
	Devices    *repository.DeviceRepository
	Snapshots  *repository.StatisticsRepository
	Tasks      *service.TaskService
	Planners   *service.PlannerService
	Statistics *service.StatisticsService
	Gate       *service.DeviceService
}

// Server is the planner HTTP API.
type Server struct {
	router *gin.Engine
	deps   Deps
}

func New(deps Deps) *Server {
	s := &Server{
		router: gin.Default(),
		deps:   deps,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	users := s.router.Group("/users")
	{
		users.POST("", s.createUser)
		users.GET("", s.listUsers)
		users.GET("/:id", s.getUser)
		users.PUT("/:id", s.updateUser)
		users.DELETE("/:id", s.deleteUser)
	}

	tasks := s.router.Group("/tasks")
	{
		tasks.POST("", s.createTask)
		tasks.GET("", s.listTasks)
		tasks.PUT("/:id", s.updateTask)
		tasks.DELETE("/:id", s.deleteTask)
	}

	categories := s.router.Group("/categories")
	{
		categories.POST("", s.createCategory)
		categories.GET("", s.listCategories)
		categories.PUT("/:id", s.updateCategory)
		categories.DELETE("/:id", s.deleteCategory)
	}

	statuses := s.router.Group("/statuses")
	{
		statuses.POST("", s.createStatus)
		statuses.GET("", s.listStatuses)
		statuses.PUT("/:id", s.updateStatus)
		statuses.DELETE("/:id", s.deleteStatus)
	}

	planners := s.router.Group("/planners")
	{
		planners.POST("", s.createPlanner)
		planners.GET("", s.listPlanners)
		planners.POST("/subscribe", s.subscribe)
		planners.DELETE("/unsubscribe", s.unsubscribe)
		planners.GET("/:id/subscribers", s.listSubscribers)
		planners.PUT("/role", s.updateRole)
		planners.GET("/user/:user_id", s.listUserSubscriptions)
	}

	statistics := s.router.Group("/statistics")
	{
		statistics.GET("/user/:id", s.getUserStatistics)
		statistics.POST("/calculate", s.calculateStatistics)
		statistics.POST("", s.createSnapshot)
		statistics.GET("", s.listSnapshots)
		statistics.PUT("/:id", s.updateSnapshot)
		statistics.DELETE("/:id", s.deleteSnapshot)
	}

	devices := s.router.Group("/devices")
	{
		devices.POST("/:id/start", s.startDevice)
		devices.POST("/:id/stop", s.stopDevice)
		devices.GET("/:id/command", s.fetchCommand)
		devices.POST("/:id/status", s.reportStatus)

		devices.POST("", s.createDevice)
		devices.GET("", s.listDevices)
		devices.GET("/:id", s.getDevice)
		devices.PATCH("/:id", s.updateDevice)
		devices.DELETE("/:id", s.deleteDevice)
	}
}

// Handler exposes the router for an http.Server and for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}
