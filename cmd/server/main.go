package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"go.uber.org/zap"

	"github.com/siteflow/siteflow/internal/application/service"
	appworkflow "github.com/siteflow/siteflow/internal/application/workflow"
	"github.com/siteflow/siteflow/internal/auth"
	"github.com/siteflow/siteflow/internal/config"
	httpserver "github.com/siteflow/siteflow/internal/interfaces/http"
	"github.com/siteflow/siteflow/internal/infrastructure/persistence/repository"
	"github.com/siteflow/siteflow/pkg/database"
	"github.com/siteflow/siteflow/pkg/utils"
)

func main() {
	// Load configuration
	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, err := utils.NewLogger(utils.LoggerConfig{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting siteflow API server",
		zap.String("version", "1.0.0"),
		zap.Int("port", cfg.Server.Port))

	// Initialize database
	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		logger.Fatal("Failed to create data directory", zap.Error(err))
	}

	db, err := database.New(database.Config{
		Path:            cfg.Database.Path,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	// Run migrations
	migrator := database.NewMigrator(db, logger)
	if err := migrator.RunMigrations(cfg.Database.MigrationsDir); err != nil {
		logger.Fatal("Failed to run database migrations", zap.Error(err))
	}

	// Initialize repositories
	requestRepo := repository.NewRequestRepository(db.DB, logger)
	userRepo := repository.NewUserRepository(db.DB, logger)
	projectRepo := repository.NewProjectRepository(db.DB, logger)
	clientRepo := repository.NewClientRepository(db.DB, logger)
	employeeRepo := repository.NewEmployeeRepository(db.DB, logger)
	equipmentRepo := repository.NewEquipmentRepository(db.DB, logger)
	materialRepo := repository.NewMaterialRepository(db.DB, logger)
	invoiceRepo := repository.NewInvoiceRepository(db.DB, logger)

	// Initialize services
	appLogger := utils.NewSugarAdapter(logger)
	tokens := auth.NewTokenManager(cfg.JWT.Secret, cfg.JWT.Expiration)

	authService := service.NewAuthService(userRepo, tokens, appLogger)
	userService := service.NewUserService(userRepo, appLogger)
	requestService := service.NewRequestService(requestRepo, projectRepo, equipmentRepo, materialRepo, appLogger)
	engine := appworkflow.NewEngine(requestRepo, appLogger)
	projectService := service.NewProjectService(projectRepo, clientRepo, appLogger)
	clientService := service.NewClientService(clientRepo, appLogger)
	employeeService := service.NewEmployeeService(employeeRepo, projectRepo, appLogger)
	equipmentService := service.NewEquipmentService(equipmentRepo, appLogger)
	materialService := service.NewMaterialService(materialRepo, appLogger)
	invoiceService := service.NewInvoiceService(invoiceRepo, projectRepo, appLogger)

	// Bootstrap the admin account
	if err := authService.EnsureAdmin(context.Background(), cfg.Admin.Email, cfg.Admin.Password); err != nil {
		logger.Fatal("Failed to bootstrap admin account", zap.Error(err))
	}

	// Initialize HTTP server
	server := httpserver.NewServer(httpserver.ServerConfig{
		Host:           cfg.Server.Host,
		Port:           cfg.Server.Port,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
	}, httpserver.Services{
		Auth:      authService,
		Users:     userService,
		Requests:  requestService,
		Engine:    engine,
		Projects:  projectService,
		Clients:   clientService,
		Employees: employeeService,
		Equipment: equipmentService,
		Materials: materialService,
		Invoices:  invoiceService,
	}, tokens, appLogger)

	// Shut down on SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := server.Start(ctx); err != nil {
		logger.Fatal("HTTP server failed", zap.Error(err))
	}

	logger.Info("Server exited successfully")
}
