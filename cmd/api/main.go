package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/civic-stack/grievance-service/internal/api/http"
	"github.com/civic-stack/grievance-service/internal/api/http/handlers"
	"github.com/civic-stack/grievance-service/internal/auth"
	"github.com/civic-stack/grievance-service/internal/config"
	"github.com/civic-stack/grievance-service/internal/events"
	"github.com/civic-stack/grievance-service/internal/observability"
	"github.com/civic-stack/grievance-service/internal/persistence"
	"github.com/civic-stack/grievance-service/internal/repository"
	"github.com/civic-stack/grievance-service/internal/service"
	"github.com/civic-stack/grievance-service/internal/tracking"
	"github.com/civic-stack/grievance-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	staffRepo := repository.NewStaffRepository(pool)
	resetRepo := repository.NewPasswordResetRepository(pool)
	departmentRepo := repository.NewDepartmentRepository(pool)
	complaintRepo := repository.NewComplaintRepository(pool)
	eventRepo := repository.NewComplaintEventRepository(pool)

	dispatcher := events.NewInMemoryDispatcher(logger)
	codeGenerator := tracking.NewGenerator(redis.ClientHandle(), logger)

	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		UserRepo:          userRepo,
		StaffRepo:         staffRepo,
		PasswordResetRepo: resetRepo,
	})
	complaintService := service.NewComplaintService(service.ComplaintDependencies{
		ComplaintRepo:  complaintRepo,
		EventRepo:      eventRepo,
		DepartmentRepo: departmentRepo,
		CodeGenerator:  codeGenerator,
		Dispatcher:     dispatcher,
	})
	assignmentService := service.NewAssignmentService(service.AssignmentDependencies{
		ComplaintRepo: complaintRepo,
		StaffRepo:     staffRepo,
		EventRepo:     eventRepo,
		Dispatcher:    dispatcher,
	})
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), userRepo, staffRepo)
	metrics := observability.NewMetrics()

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:          handlers.NewHealthHandler(pg, redis, metrics),
		Users:           handlers.NewUsersHandler(authService),
		Staff:           handlers.NewStaffHandler(authService, staffRepo),
		Departments:     handlers.NewDepartmentsHandler(departmentRepo),
		Complaints:      handlers.NewComplaintsHandler(complaintService),
		StaffComplaints: handlers.NewStaffComplaintsHandler(complaintService, assignmentService),
		AuthMiddleware:  authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
