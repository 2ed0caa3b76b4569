package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/lhs0609a-cpu/expert-synergy-platform/internal/models"
	"github.com/lhs0609a-cpu/expert-synergy-platform/pkg/utils"
)

type stubAuthUserRepo struct {
	byEmail    *models.User
	byEmailErr error
	byID       *models.User
	byIDErr    error
}

func (s *stubAuthUserRepo) GetByEmail(_ context.Context, _ string) (*models.User, error) {
	return s.byEmail, s.byEmailErr
}

func (s *stubAuthUserRepo) GetByID(_ context.Context, _ uuid.UUID) (*models.User, error) {
	return s.byID, s.byIDErr
}

func newAuthTestApp(handler *AuthHandler, callerID string) *fiber.App {
	app := fiber.New()
	if callerID != "" {
		app.Use(func(c *fiber.Ctx) error {
			c.Locals("user_id", callerID)
			c.Locals("role", "USER")
			return c.Next()
		})
	}
	app.Post("/api/auth/login", handler.Login)
	app.Get("/api/auth/me", handler.Me)
	return app
}

func TestMeReturnsCaller(t *testing.T) {
	userID := uuid.New()
	userRepo := &stubAuthUserRepo{
		byID: &models.User{ID: userID, Email: "mentee@example.com", Name: "김민지", Role: models.RoleUser},
	}
	handler := &AuthHandler{userRepo: userRepo, jwtSecret: "test-secret"}
	app := newAuthTestApp(handler, userID.String())

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var body struct {
		User struct {
			ID    uuid.UUID `json:"id"`
			Email string    `json:"email"`
			Name  string    `json:"name"`
			Role  string    `json:"role"`
		} `json:"user"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if body.User.ID != userID || body.User.Email != "mentee@example.com" {
		t.Fatalf("unexpected user payload: %+v", body.User)
	}
	if body.User.Role != models.RoleUser {
		t.Fatalf("expected USER role, got %q", body.User.Role)
	}
}

func TestMeRequiresAuthentication(t *testing.T) {
	handler := &AuthHandler{userRepo: &stubAuthUserRepo{}, jwtSecret: "test-secret"}
	app := newAuthTestApp(handler, "")

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}

func TestMeUnknownAccount(t *testing.T) {
	handler := &AuthHandler{userRepo: &stubAuthUserRepo{byIDErr: pgx.ErrNoRows}, jwtSecret: "test-secret"}
	app := newAuthTestApp(handler, uuid.New().String())

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestLoginIssuesToken(t *testing.T) {
	hashed, err := utils.HashPassword("correct-horse")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	userRepo := &stubAuthUserRepo{
		byEmail: &models.User{
			ID:           uuid.New(),
			Email:        "mentee@example.com",
			PasswordHash: &hashed,
			Name:         "김민지",
			Role:         models.RoleUser,
		},
	}
	handler := &AuthHandler{userRepo: userRepo, jwtSecret: "test-secret"}
	app := newAuthTestApp(handler, "")

	req := httptest.NewRequest(
		http.MethodPost,
		"/api/auth/login",
		strings.NewReader(`{"email":"mentee@example.com","password":"correct-horse"}`),
	)
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var body struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	claims, err := utils.ValidateToken(body.Token, "test-secret")
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.UserID != userRepo.byEmail.ID.String() {
		t.Fatalf("expected token for %s, got %s", userRepo.byEmail.ID, claims.UserID)
	}
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	hashed, err := utils.HashPassword("correct-horse")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	userRepo := &stubAuthUserRepo{
		byEmail: &models.User{ID: uuid.New(), Email: "mentee@example.com", PasswordHash: &hashed},
	}
	handler := &AuthHandler{userRepo: userRepo, jwtSecret: "test-secret"}
	app := newAuthTestApp(handler, "")

	req := httptest.NewRequest(
		http.MethodPost,
		"/api/auth/login",
		strings.NewReader(`{"email":"mentee@example.com","password":"wrong"}`),
	)
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}

func TestLoginRejectsPasswordlessAccount(t *testing.T) {
	userRepo := &stubAuthUserRepo{
		byEmail: &models.User{ID: uuid.New(), Email: "oauth@example.com"},
	}
	handler := &AuthHandler{userRepo: userRepo, jwtSecret: "test-secret"}
	app := newAuthTestApp(handler, "")

	req := httptest.NewRequest(
		http.MethodPost,
		"/api/auth/login",
		strings.NewReader(`{"email":"oauth@example.com","password":"whatever1"}`),
	)
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}
