// Package http provides the HTTP server adapter for the application layer.
// It translates HTTP requests into application service and engine calls.
package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/siteflow/siteflow/internal/application/service"
	"github.com/siteflow/siteflow/internal/application/workflow"
	"github.com/siteflow/siteflow/internal/auth"
	"github.com/siteflow/siteflow/internal/domain/entity"
)

// Logger interface for logging operations
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host           string
	Port           int
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	AllowedOrigins []string
}

// DefaultServerConfig returns default server configuration
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Host:           "0.0.0.0",
		Port:           8080,
		ReadTimeout:    30 * time.Second,
		WriteTimeout:   30 * time.Second,
		AllowedOrigins: []string{"*"},
	}
}

// Services bundles the application services the server exposes.
type Services struct {
	Auth      service.AuthService
	Users     service.UserService
	Requests  service.RequestService
	Engine    workflow.Engine
	Projects  service.ProjectService
	Clients   service.ClientService
	Employees service.EmployeeService
	Equipment service.EquipmentService
	Materials service.MaterialService
	Invoices  service.InvoiceService
}

// Server is the HTTP server adapter
type Server struct {
	config     ServerConfig
	httpServer *http.Server
	router     *gin.Engine
	services   Services
	tokens     *auth.TokenManager
	logger     Logger
}

// NewServer creates a new HTTP server with the given services
func NewServer(config ServerConfig, services Services, tokens *auth.TokenManager, logger Logger) *Server {
	gin.SetMode(gin.ReleaseMode)

	server := &Server{
		config:   config,
		router:   gin.New(),
		services: services,
		tokens:   tokens,
		logger:   logger,
	}

	server.setupMiddleware()
	server.setupRoutes()

	return server
}

// setupMiddleware configures middleware for the router
func (s *Server) setupMiddleware() {
	s.router.Use(gin.Recovery())
	s.router.Use(s.loggingMiddleware())

	corsConfig := cors.DefaultConfig()
	if len(s.config.AllowedOrigins) == 1 && s.config.AllowedOrigins[0] == "*" {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = s.config.AllowedOrigins
	}
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	s.router.Use(cors.New(corsConfig))
}

// loggingMiddleware creates a logging middleware
func (s *Server) loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		s.logger.Info("HTTP request",
			"method", method,
			"path", path,
			"status", c.Writer.Status(),
			"latency", time.Since(start).String(),
			"client_ip", c.ClientIP(),
		)
	}
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	handlers := NewHandlers(s.services, s.logger)

	s.router.GET("/health", handlers.HealthCheck)
	s.router.POST("/api/auth/login", handlers.Login)

	api := s.router.Group("/api")
	api.Use(Authenticate(s.tokens))
	{
		manage := Authorize(entity.RoleAdmin, entity.RoleProjectManager)
		stores := Authorize(entity.RoleAdmin, entity.RoleStoreManager)

		api.GET("/projects", handlers.ListProjects)
		api.GET("/projects/:id", handlers.GetProject)
		api.GET("/projects/:id/invoices", handlers.ListProjectInvoices)
		api.POST("/projects", manage, handlers.CreateProject)
		api.PUT("/projects/:id", manage, handlers.UpdateProject)
		api.DELETE("/projects/:id", manage, handlers.DeleteProject)

		api.GET("/clients", handlers.ListClients)
		api.GET("/clients/:id", handlers.GetClient)
		api.POST("/clients", manage, handlers.CreateClient)
		api.PUT("/clients/:id", manage, handlers.UpdateClient)
		api.DELETE("/clients/:id", manage, handlers.DeleteClient)

		api.GET("/employees", handlers.ListEmployees)
		api.GET("/employees/:id", handlers.GetEmployee)
		api.POST("/employees", manage, handlers.CreateEmployee)
		api.PUT("/employees/:id", manage, handlers.UpdateEmployee)
		api.DELETE("/employees/:id", manage, handlers.DeleteEmployee)

		api.GET("/equipment", handlers.ListEquipment)
		api.GET("/equipment/:id", handlers.GetEquipment)
		api.POST("/equipment", stores, handlers.CreateEquipment)
		api.PUT("/equipment/:id", stores, handlers.UpdateEquipment)
		api.DELETE("/equipment/:id", stores, handlers.DeleteEquipment)

		api.GET("/materials", handlers.ListMaterials)
		api.GET("/materials/:id", handlers.GetMaterial)
		api.POST("/materials", stores, handlers.CreateMaterial)
		api.PUT("/materials/:id", stores, handlers.UpdateMaterial)
		api.DELETE("/materials/:id", stores, handlers.DeleteMaterial)

		api.GET("/invoices", handlers.ListInvoices)
		api.GET("/invoices/:id", handlers.GetInvoice)
		api.POST("/invoices", manage, handlers.CreateInvoice)
		api.PUT("/invoices/:id", manage, handlers.UpdateInvoice)
		api.DELETE("/invoices/:id", manage, handlers.DeleteInvoice)

		admin := Authorize(entity.RoleAdmin)
		api.GET("/users", admin, handlers.ListUsers)
		api.GET("/users/:id", admin, handlers.GetUser)
		api.POST("/users", admin, handlers.CreateUser)
		api.PUT("/users/:id", admin, handlers.UpdateUser)
		api.DELETE("/users/:id", admin, handlers.DeactivateUser)

		s.registerRequestRoutes(api, "fuel-requests", entity.KindFuel, handlers)
		s.registerRequestRoutes(api, "material-requests", entity.KindMaterial, handlers)
	}
}

// registerRequestRoutes wires the shared request handlers for one kind.
func (s *Server) registerRequestRoutes(api *gin.RouterGroup, path string, kind entity.Kind, handlers *Handlers) {
	group := api.Group("/" + path)

	group.POST("", handlers.CreateRequest(kind))
	group.GET("", handlers.ListRequests(kind))
	group.GET("/export", handlers.ExportRequests(kind))
	group.GET("/:id", handlers.GetRequest(kind))

	group.POST("/:id/approve", handlers.ApproveRequest(kind))
	group.POST("/:id/issue", handlers.IssueRequest(kind))
	group.POST("/:id/acknowledge", handlers.AcknowledgeRequest(kind))
	group.POST("/:id/complete", handlers.CompleteRequest(kind))
	group.POST("/:id/cancel", handlers.CancelRequest(kind))
}

// Start starts the HTTP server and blocks until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	s.logger.Info("Starting HTTP server", "address", addr)

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("HTTP server shutdown requested")
		return s.Stop()
	case err := <-errCh:
		s.logger.Error("HTTP server error", "error", err)
		return err
	}
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop() error {
	if s.httpServer == nil {
		return nil
	}

	s.logger.Info("Stopping HTTP server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Error("HTTP server shutdown error", "error", err)
		return err
	}

	s.logger.Info("HTTP server stopped")
	return nil
}

// Router returns the underlying gin router (for testing)
func (s *Server) Router() *gin.Engine {
	return s.router
}
