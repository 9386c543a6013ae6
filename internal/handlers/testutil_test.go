package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"gorm.io/gorm"

	"github.com/wallpix/backend/internal/database"
	"github.com/wallpix/backend/internal/middleware"
	"github.com/wallpix/backend/internal/models"
	"github.com/wallpix/backend/internal/notify"
	"github.com/wallpix/backend/internal/plans"
	"github.com/wallpix/backend/internal/services"
	"github.com/wallpix/backend/pkg/logger"
	"github.com/wallpix/backend/pkg/utils"
)

type testEnv struct {
	app *fiber.App
	db  *gorm.DB
}

var testSetupOnce sync.Once

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	testSetupOnce.Do(func() {
		logger.Init()
		utils.ConfigureJWT("test-secret", 24)
	})

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
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

	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed automigrating models: %v", err)
	}

	draftService := services.NewDraftService(db, notify.NopNotifier{}, nil)
	shareService := services.NewShareService(db, nil)
	upgradeService := services.NewUpgradeService(db, notify.NopNotifier{})

	authHandler := NewAuthHandler(db)
	draftsHandler := NewDraftsHandler(db, draftService, "http://localhost:3001")
	sharesHandler := NewSharesHandler(shareService)
	upgradesHandler := NewUpgradesHandler(db, upgradeService)
	usersHandler := NewUsersHandler(db, draftService, upgradeService)
	authMiddleware := middleware.NewAuthMiddleware(db)

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
	authRoutes.Post("/register", authHandler.Register)
	authRoutes.Post("/login", authHandler.Login)
	authRoutes.Get("/me", authMiddleware.RequireAuth, authHandler.Me)
	authRoutes.Put("/password", authMiddleware.RequireAuth, authHandler.ChangePassword)

	api.Get("/plans", ListPlans)

	api.Get("/shared/:token", sharesHandler.Resolve)
	api.Get("/view/:token", sharesHandler.Resolve)

	draftRoutes := api.Group("/drafts", authMiddleware.RequireAuth)
	draftRoutes.Post("/", draftsHandler.Create)
	draftRoutes.Get("/", draftsHandler.List)
	draftRoutes.Get("/:id", draftsHandler.Get)
	draftRoutes.Put("/:id", draftsHandler.Update)
	draftRoutes.Delete("/:id", draftsHandler.Delete)

	upgradeRoutes := api.Group("/upgrade", authMiddleware.RequireAuth)
	upgradeRoutes.Post("/", upgradesHandler.Request)
	upgradeRoutes.Get("/status", upgradesHandler.Status)
	upgradeRoutes.Delete("/", upgradesHandler.Cancel)

	adminRoutes := api.Group("/admin", authMiddleware.RequireAuth, middleware.AdminOnly)
	adminRoutes.Get("/users", usersHandler.List)
	adminRoutes.Get("/users/:id", usersHandler.Get)
	adminRoutes.Put("/users/:id", usersHandler.Update)
	adminRoutes.Delete("/users/:id", usersHandler.Delete)
	adminRoutes.Get("/drafts", draftsHandler.AdminList)
	adminRoutes.Delete("/drafts/:id", draftsHandler.AdminDelete)
	adminRoutes.Get("/upgrades", upgradesHandler.AdminList)
	adminRoutes.Put("/upgrades/:id/approve", upgradesHandler.Approve)
	adminRoutes.Put("/upgrades/:id/reject", upgradesHandler.Reject)

	return &testEnv{app: app, db: db}
}

func createTestUser(t *testing.T, db *gorm.DB, email, password string, isAdmin bool) (*models.User, string) {
	t.Helper()

	hash, err := utils.HashPassword(password)
	if err != nil {
		t.Fatalf("failed hashing password: %v", err)
	}

	user := &models.User{
		Email:        email,
		PasswordHash: hash,
		IsAdmin:      isAdmin,
		Plan:         plans.PlanBasic,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed creating test user: %v", err)
	}

	token, err := utils.GenerateToken(user)
	if err != nil {
		t.Fatalf("failed generating auth token: %v", err)
	}

	return user, token
}

func setUserPlan(t *testing.T, db *gorm.DB, user *models.User, plan string) {
	t.Helper()
	if err := db.Model(user).Update("plan", plan).Error; err != nil {
		t.Fatalf("failed setting plan: %v", err)
	}
	user.Plan = plan
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
