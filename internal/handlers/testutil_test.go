package handlers

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	gosqlite "github.com/glebarez/go-sqlite"
	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/wardshift/backend/internal/middleware"
	"github.com/wardshift/backend/internal/models"
	"github.com/wardshift/backend/internal/services"
	"github.com/wardshift/backend/pkg/logger"
	"github.com/wardshift/backend/pkg/utils"
	"gorm.io/gorm"
)

type testEnv struct {
	app *fiber.App
	db  *gorm.DB
}

var testSetupOnce sync.Once

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	testSetupOnce.Do(func() {
		gosqlite.MustRegisterScalarFunction("NOW", 0, func(ctx *gosqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
			return time.Now().UTC(), nil
		})
		logger.Init()
		utils.ConfigureJWT("test-secret", 24)
	})

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed opening in-memory sqlite database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed getting sql.DB from gorm: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	err = db.AutoMigrate(
		&models.Department{},
		&models.User{},
		&models.Group{},
		&models.GroupMembership{},
		&models.Schedule{},
		&models.LeaveRequest{},
		&models.HospitalEvent{},
	)
	if err != nil {
		t.Fatalf("failed automigrating models: %v", err)
	}

	roster := services.NewRosterService(db)

	authHandler := NewAuthHandler(db, false)
	usersHandler := NewUsersHandler(db)
	groupsHandler := NewGroupsHandler(db, roster, nil)
	leaveHandler := NewLeaveRequestsHandler(db)
	schedulesHandler := NewSchedulesHandler(db, roster)
	eventsHandler := NewHospitalEventsHandler(db)

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

	return &testEnv{app: app, db: db}
}

func createTestUser(t *testing.T, db *gorm.DB, email, password string, role models.UserRole) (*models.User, string) {
	t.Helper()

	hash, err := utils.HashPassword(password)
	if err != nil {
		t.Fatalf("failed hashing password: %v", err)
	}

	user := &models.User{
		Email:        email,
		PasswordHash: hash,
		Name:         "Test User",
		Role:         role,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed creating test user: %v", err)
	}

	token, err := utils.GenerateToken(user.ID, user.Role)
	if err != nil {
		t.Fatalf("failed generating auth token: %v", err)
	}

	return user, token
}

func authHeaders(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}

func performRequest(t *testing.T, app *fiber.App, method, path string, body io.Reader, headers map[string]string) *http.Response {
	t.Helper()

	req := httptest.NewRequest(method, path, body)
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := app.Test(req, int((10 * time.Second).Milliseconds()))
	if err != nil {
		t.Fatalf("request %s %s failed: %v", method, path, err)
	}

	return resp
}

func performJSONRequest(t *testing.T, app *fiber.App, method, path string, payload any, headers map[string]string) *http.Response {
	t.Helper()

	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("failed to marshal payload: %v", err)
		}
		body = bytes.NewReader(encoded)
	}

	requestHeaders := map[string]string{}
	for key, value := range headers {
		requestHeaders[key] = value
	}
	if payload != nil {
		requestHeaders["Content-Type"] = "application/json"
	}

	return performRequest(t, app, method, path, body, requestHeaders)
}

func decodeJSONMap(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed reading response body: %v", err)
	}

	var payload map[string]any
	if err := json.Unmarshal(raw, &payload); err != nil {
		t.Fatalf("failed decoding JSON response: %v body=%q", err, string(raw))
	}

	return payload
}

func assertStatus(t *testing.T, resp *http.Response, expected int) {
	t.Helper()
	if resp.StatusCode != expected {
		t.Fatalf("expected status %d, got %d", expected, resp.StatusCode)
	}
}

func assertEnvelopeError(t *testing.T, body map[string]any, expected string) {
	t.Helper()
	if success, _ := body["success"].(bool); success {
		t.Fatalf("expected success=false, got %+v", body)
	}
	if got, _ := body["error"].(string); got != expected {
		t.Fatalf("expected error %q, got %q", expected, got)
	}
}

func dataMap(t *testing.T, body map[string]any) map[string]any {
	t.Helper()
	data, ok := body["data"].(map[string]any)
	if !ok {
		t.Fatalf("expected data object, got %+v", body)
	}
	return data
}

func dataSlice(t *testing.T, body map[string]any) []any {
	t.Helper()
	data, ok := body["data"].([]any)
	if !ok {
		t.Fatalf("expected data array, got %+v", body)
	}
	return data
}
