package server

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"taskboard/internal/models"
	"taskboard/internal/storage/sqlite"
)

// Server provides the REST backend the board and its clients talk to.
type Server struct {
	engine    *gin.Engine
	store     *sqlite.Store
	logger    *slog.Logger
	staticDir string
}

// New constructs the HTTP server with routes and middleware configured.
func New(store *sqlite.Store, logger *slog.Logger, staticDir string) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		Output:    gin.DefaultWriter,
		SkipPaths: []string{"/api/healthz"},
	}))

	srv := &Server{
		engine:    router,
		store:     store,
		logger:    logger,
		staticDir: staticDir,
	}

	srv.registerRoutes()
	return srv
}

// Engine exposes the underlying Gin engine.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// registerRoutes wires all API and static handlers together.
func (s *Server) registerRoutes() {
	api := s.engine.Group("/api")
	{
		api.GET("/healthz", s.handleHealth)

		tasks := api.Group("/tasks")
		{
			tasks.GET("", s.handleListTasks)
			tasks.POST("", s.handleCreateTask)
			tasks.GET(":id", s.handleGetTask)
			tasks.PATCH(":id", s.handleUpdateTask)
			tasks.PUT(":id", s.handleUpdateTask)
			tasks.DELETE(":id", s.handleDeleteTask)
		}

		persons := api.Group("/persons")
		{
			persons.GET("", s.handleListPersons)
			persons.POST("", s.handleCreatePerson)
			persons.GET(":id", s.handleGetPerson)
			persons.PATCH(":id", s.handleUpdatePerson)
			persons.PUT(":id", s.handleUpdatePerson)
			persons.DELETE(":id", s.handleDeletePerson)
		}

		users := api.Group("/users")
		{
			users.GET("", s.handleListUsers)
			users.POST("", s.handleCreateUser)
			users.GET(":id", s.handleGetUser)
			users.PATCH(":id", s.handleUpdateUser)
			users.PUT(":id", s.handleUpdateUser)
			users.DELETE(":id", s.handleDeleteUser)
		}

		posts := api.Group("/posts")
		{
			posts.GET("", s.handleListPosts)
			posts.POST("", s.handleCreatePost)
			posts.GET(":id", s.handleGetPost)
			posts.PATCH(":id", s.handleUpdatePost)
			posts.PUT(":id", s.handleUpdatePost)
			posts.DELETE(":id", s.handleDeletePost)
		}
	}

	s.mountStatic()
}

// handleHealth provides a basic readiness endpoint.
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// statusFor maps store and validation errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, sqlite.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrValidation):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// respondError logs the error and returns a JSON payload.
func (s *Server) respondError(c *gin.Context, status int, err error) {
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", slog.String("path", c.FullPath()), slog.String("error", err.Error()))
	} else {
		s.logger.Debug("request rejected", slog.String("path", c.FullPath()), slog.String("error", err.Error()))
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// respondSuccess writes the payload as bare JSON, the shape json-server
// style clients expect.
func respondSuccess(c *gin.Context, status int, payload any) {
	if payload == nil {
		c.Status(status)
		return
	}
	c.JSON(status, payload)
}
