package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/wardshift/backend/internal/config"
	"github.com/wardshift/backend/internal/database"
	"github.com/wardshift/backend/internal/handlers"
	"github.com/wardshift/backend/internal/middleware"
	"github.com/wardshift/backend/internal/models"
	"github.com/wardshift/backend/internal/services"
	"github.com/wardshift/backend/internal/storage"
	"github.com/wardshift/backend/pkg/logger"
	"github.com/wardshift/backend/pkg/utils"
)

func main() {
	logger.Init()

	cfg := config.Load()
	utils.ConfigureJWT(cfg.JWT.Secret, cfg.JWT.ExpirationHours)

	db, err := database.Connect(cfg.DB)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}

	storageClient, err := storage.NewMinIOClient(cfg.MinIO)
	if err != nil {
		log.Fatalf("minio initialization failed: %v", err)
	}
	if err := storageClient.EnsureBucket(context.Background()); err != nil {
		log.Fatalf("failed ensuring minio bucket: %v", err)
	}

	roster := services.NewRosterService(db)

	authHandler := handlers.NewAuthHandler(db, cfg.Server.Production())
	usersHandler := handlers.NewUsersHandler(db)
	groupsHandler := handlers.NewGroupsHandler(db, roster, storageClient)
	leaveHandler := handlers.NewLeaveRequestsHandler(db)
	schedulesHandler := handlers.NewSchedulesHandler(db, roster)
	eventsHandler := handlers.NewHospitalEventsHandler(db)

	app := fiber.New(fiber.Config{BodyLimit: 10 * 1024 * 1024})
	app.Use(recover.New(recover.Config{EnableStackTrace: true}))
	app.Use(middleware.CORS())
	app.Use(middleware.RequestLogger())
	app.Use(middleware.SecurityLogger())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api")

	authRoutes := api.Group("/auth")
	authRoutes.Post("/register", middleware.RedirectAuthenticated, authHandler.Register)
	authRoutes.Post("/login", middleware.RedirectAuthenticated, authHandler.Login)
	authRoutes.Post("/logout", authHandler.Logout)

	userRoutes := api.Group("/user", middleware.RequireAuth)
	userRoutes.Get("/me", usersHandler.Me)
	userRoutes.Get("/preferences", usersHandler.GetPreferences)
	userRoutes.Put("/preferences", usersHandler.UpdatePreferences)

	groupRoutes := api.Group("/groups", middleware.RequireAuth)
	groupRoutes.Post("/", groupsHandler.Create)
	groupRoutes.Get("/", groupsHandler.List)
	groupRoutes.Post("/join", groupsHandler.Join)
	groupRoutes.Get("/:id", groupsHandler.Get)
	groupRoutes.Put("/:id", groupsHandler.Update)
	groupRoutes.Get("/:id/image", groupsHandler.Image)

	leaveRoutes := api.Group("/leave-requests", middleware.RequireAuth)
	leaveRoutes.Get("/", leaveHandler.List)
	leaveRoutes.Post("/", leaveHandler.Create)
	leaveRoutes.Delete("/:id", leaveHandler.Delete)

	scheduleRoutes := api.Group("/schedules", middleware.RequireAuth)
	scheduleRoutes.Get("/", schedulesHandler.List)
	scheduleRoutes.Get("/group", schedulesHandler.Group)

	api.Get("/hospital-events", middleware.RequireAuth, eventsHandler.List)

	adminRoutes := api.Group("/admin", middleware.RequireAuth, middleware.RequireRole(models.UserRoleAdmin))
	adminRoutes.Get("/users", usersHandler.List)
	adminRoutes.Put("/users/:id/role", usersHandler.UpdateRole)
	adminRoutes.Post("/hospital-events", eventsHandler.Create)
	adminRoutes.Put("/hospital-events/:id", eventsHandler.Update)
	adminRoutes.Delete("/hospital-events/:id", eventsHandler.Delete)

	managerRoutes := api.Group("/manager", middleware.RequireAuth, middleware.RequireRole(models.UserRoleManager))
	managerRoutes.Get("/leave-requests", leaveHandler.ListForReview)
	managerRoutes.Put("/leave-requests/:id/review", leaveHandler.Review)
	managerRoutes.Post("/schedules", schedulesHandler.BulkAssign)

	listenAddr := fmt.Sprintf(":%s", cfg.Server.Port)

	logger.Info("server_starting", map[string]interface{}{
		"port":    cfg.Server.Port,
		"address": listenAddr,
		"env":     cfg.Server.Env,
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Listen(listenAddr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		log.Printf("shutting down server due to signal: %s", sig)
		shutdownDone := make(chan struct{})
		go func() {
			_ = app.Shutdown()
			close(shutdownDone)
		}()
		select {
		case <-shutdownDone:
		case <-time.After(10 * time.Second):
			log.Print("forced shutdown timeout reached")
		}
	case err := <-errCh:
		if err != nil {
			log.Fatalf("server error: %v", err)
		}
	}
}
