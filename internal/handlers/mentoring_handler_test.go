package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/lhs0609a-cpu/expert-synergy-platform/internal/models"
	"github.com/lhs0609a-cpu/expert-synergy-platform/internal/services"
)

type stubMentoringService struct {
	requestResult *models.MentoringSession
	requestErr    error
	listResult    []models.SessionDetail
	listTotal     int
	listErr       error
	getResult     *models.MentoringSession
	getErr        error
	updateResult  *models.MentoringSession
	updateErr     error
	lastMenteeID  uuid.UUID
	lastActorID   uuid.UUID
	lastSessionID uuid.UUID
	lastStatus    string
	lastRequest   services.RequestSessionInput
	lastList      services.ListSessionsInput
}

func (s *stubMentoringService) RequestSession(_ context.Context, menteeID uuid.UUID, input services.RequestSessionInput) (*models.MentoringSession, error) {
	s.lastMenteeID = menteeID
	s.lastRequest = input
	return s.requestResult, s.requestErr
}

func (s *stubMentoringService) ListSessions(_ context.Context, actorID uuid.UUID, input services.ListSessionsInput) ([]models.SessionDetail, int, error) {
	s.lastActorID = actorID
	s.lastList = input
	return s.listResult, s.listTotal, s.listErr
}

func (s *stubMentoringService) GetSession(_ context.Context, actorID uuid.UUID, sessionID uuid.UUID) (*models.MentoringSession, error) {
	s.lastActorID = actorID
	s.lastSessionID = sessionID
	return s.getResult, s.getErr
}

func (s *stubMentoringService) UpdateStatus(_ context.Context, actorID uuid.UUID, sessionID uuid.UUID, requestedStatus string) (*models.MentoringSession, error) {
	s.lastActorID = actorID
	s.lastSessionID = sessionID
	s.lastStatus = requestedStatus
	return s.updateResult, s.updateErr
}

func newMentoringTestApp(handler *MentoringHandler, callerID string) *fiber.App {
	app := fiber.New()
	if callerID != "" {
		app.Use(func(c *fiber.Ctx) error {
			c.Locals("user_id", callerID)
			c.Locals("role", "USER")
			return c.Next()
		})
	}
	app.Get("/api/mentoring", handler.ListSessions)
	app.Post("/api/mentoring", handler.RequestSession)
	app.Get("/api/mentoring/:id", handler.GetSession)
	app.Put("/api/mentoring/:id/status", handler.UpdateStatus)
	return app
}

func TestRequestSessionHandlerReturnsCreated(t *testing.T) {
	menteeID := uuid.New()
	mentorID := uuid.New()
	service := &stubMentoringService{
		requestResult: &models.MentoringSession{
			ID:          uuid.New(),
			MentorID:    mentorID,
			MenteeID:    menteeID,
			Title:       "포트폴리오 리뷰",
			Duration:    45,
			Price:       45000,
			MeetingType: models.MeetingTypeVideo,
			Status:      models.SessionStatusRequested,
		},
	}
	handler := &MentoringHandler{service: service}
	app := newMentoringTestApp(handler, menteeID.String())

	body := `{
		"mentorId": "` + mentorID.String() + `",
		"title": "포트폴리오 리뷰",
		"scheduledAt": "2030-06-01T10:00:00Z",
		"duration": 45
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/mentoring", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	if service.lastMenteeID != menteeID {
		t.Fatalf("expected mentee id %s, got %s", menteeID, service.lastMenteeID)
	}
	if service.lastRequest.MentorID != mentorID {
		t.Fatalf("expected mentor id %s, got %s", mentorID, service.lastRequest.MentorID)
	}
	if !service.lastRequest.ScheduledAt.Equal(time.Date(2030, 6, 1, 10, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected scheduledAt: %v", service.lastRequest.ScheduledAt)
	}

	var created models.MentoringSession
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if created.Price != 45000 || created.Status != models.SessionStatusRequested {
		t.Fatalf("unexpected created session: %+v", created)
	}
}

func TestRequestSessionHandlerRejectsMissingFields(t *testing.T) {
	service := &stubMentoringService{}
	handler := &MentoringHandler{service: service}
	app := newMentoringTestApp(handler, uuid.New().String())

	req := httptest.NewRequest(http.MethodPost, "/api/mentoring", strings.NewReader(`{"title": "포트폴리오 리뷰"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestRequestSessionHandlerRequiresAuthentication(t *testing.T) {
	handler := &MentoringHandler{service: &stubMentoringService{}}
	app := newMentoringTestApp(handler, "")

	req := httptest.NewRequest(http.MethodPost, "/api/mentoring", strings.NewReader(`{}`))
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

func TestRequestSessionHandlerMapsSelfBookingToBadRequest(t *testing.T) {
	mentorID := uuid.New()
	service := &stubMentoringService{requestErr: services.ErrSelfBooking}
	handler := &MentoringHandler{service: service}
	app := newMentoringTestApp(handler, mentorID.String())

	body := `{
		"mentorId": "` + mentorID.String() + `",
		"title": "셀프 멘토링",
		"scheduledAt": "2030-06-01T10:00:00Z",
		"duration": 30
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/mentoring", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestRequestSessionHandlerMapsMentorNotFound(t *testing.T) {
	service := &stubMentoringService{requestErr: services.ErrMentorNotFound}
	handler := &MentoringHandler{service: service}
	app := newMentoringTestApp(handler, uuid.New().String())

	body := `{
		"mentorId": "` + uuid.New().String() + `",
		"title": "이력서 첨삭",
		"scheduledAt": "2030-06-01T10:00:00Z",
		"duration": 30
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/mentoring", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestListSessionsHandlerBuildsPaginationMeta(t *testing.T) {
	service := &stubMentoringService{
		listResult: []models.SessionDetail{
			{MentoringSession: models.MentoringSession{ID: uuid.New(), Status: models.SessionStatusRequested}},
		},
		listTotal: 25,
	}
	handler := &MentoringHandler{service: service}
	app := newMentoringTestApp(handler, uuid.New().String())

	req := httptest.NewRequest(http.MethodGet, "/api/mentoring?role=mentor&status=requested&page=2&limit=10", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if service.lastList.Role != "mentor" || service.lastList.Status != "requested" {
		t.Fatalf("unexpected list input: %+v", service.lastList)
	}

	var body struct {
		Sessions   []models.SessionDetail `json:"sessions"`
		Pagination models.PaginationMeta  `json:"pagination"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if body.Pagination.Page != 2 || body.Pagination.Limit != 10 {
		t.Fatalf("unexpected pagination: %+v", body.Pagination)
	}
	if body.Pagination.Total != 25 || body.Pagination.TotalPages != 3 {
		t.Fatalf("expected total 25 over 3 pages, got %+v", body.Pagination)
	}
}

func TestListSessionsHandlerReturnsEmptyPagePastEnd(t *testing.T) {
	service := &stubMentoringService{listResult: []models.SessionDetail{}, listTotal: 5}
	handler := &MentoringHandler{service: service}
	app := newMentoringTestApp(handler, uuid.New().String())

	req := httptest.NewRequest(http.MethodGet, "/api/mentoring?page=99", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var body struct {
		Sessions []models.SessionDetail `json:"sessions"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(body.Sessions) != 0 {
		t.Fatalf("expected empty session list, got %d entries", len(body.Sessions))
	}
}

func TestListSessionsHandlerRequiresAuthentication(t *testing.T) {
	handler := &MentoringHandler{service: &stubMentoringService{}}
	app := newMentoringTestApp(handler, "")

	req := httptest.NewRequest(http.MethodGet, "/api/mentoring", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}

func TestListSessionsHandlerCapsLimit(t *testing.T) {
	service := &stubMentoringService{}
	handler := &MentoringHandler{service: service}
	app := newMentoringTestApp(handler, uuid.New().String())

	req := httptest.NewRequest(http.MethodGet, "/api/mentoring?limit=500", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if service.lastList.Limit != maxPageLimit {
		t.Fatalf("expected limit capped at %d, got %d", maxPageLimit, service.lastList.Limit)
	}
}

func TestGetSessionHandlerReturnsNotFound(t *testing.T) {
	service := &stubMentoringService{getErr: pgx.ErrNoRows}
	handler := &MentoringHandler{service: service}
	app := newMentoringTestApp(handler, uuid.New().String())

	req := httptest.NewRequest(http.MethodGet, "/api/mentoring/"+uuid.New().String(), nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestUpdateStatusHandlerMapsInvalidTransition(t *testing.T) {
	service := &stubMentoringService{updateErr: services.ErrInvalidStateTransition}
	handler := &MentoringHandler{service: service}
	app := newMentoringTestApp(handler, uuid.New().String())

	req := httptest.NewRequest(
		http.MethodPut,
		"/api/mentoring/"+uuid.New().String()+"/status",
		strings.NewReader(`{"status":"complete"}`),
	)
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", resp.StatusCode)
	}
	if service.lastStatus != "complete" {
		t.Fatalf("expected forwarded status, got %q", service.lastStatus)
	}
}
