package handlers

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/lhs0609a-cpu/expert-synergy-platform/internal/models"
	"github.com/lhs0609a-cpu/expert-synergy-platform/internal/services"
)

var validate = validator.New()

type mentoringApplicationService interface {
	RequestSession(ctx context.Context, menteeID uuid.UUID, input services.RequestSessionInput) (*models.MentoringSession, error)
	ListSessions(ctx context.Context, actorID uuid.UUID, input services.ListSessionsInput) ([]models.SessionDetail, int, error)
	GetSession(ctx context.Context, actorID uuid.UUID, sessionID uuid.UUID) (*models.MentoringSession, error)
	UpdateStatus(ctx context.Context, actorID uuid.UUID, sessionID uuid.UUID, requestedStatus string) (*models.MentoringSession, error)
}

type MentoringHandler struct {
	service mentoringApplicationService
}

func NewMentoringHandler(service *services.MentoringService) *MentoringHandler {
	return &MentoringHandler{service: service}
}

type requestSessionRequest struct {
	MentorID    string `json:"mentorId" validate:"required"`
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	ScheduledAt string `json:"scheduledAt" validate:"required"`
	Duration    int    `json:"duration" validate:"required,gt=0"`
	MeetingType string `json:"meetingType" validate:"omitempty,oneof=VIDEO CHAT"`
}

type updateSessionStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

func (h *MentoringHandler) RequestSession(c *fiber.Ctx) error {
	callerID, err := parseCallerID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Authentication required"})
	}

	var req requestSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Missing required information"})
	}

	mentorID, err := uuid.Parse(strings.TrimSpace(req.MentorID))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "mentorId must be a valid id"})
	}
	scheduledAt, err := time.Parse(time.RFC3339, strings.TrimSpace(req.ScheduledAt))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "scheduledAt must be a valid RFC3339 timestamp"})
	}

	session, err := h.service.RequestSession(c.Context(), callerID, services.RequestSessionInput{
		MentorID:    mentorID,
		Title:       req.Title,
		Description: req.Description,
		ScheduledAt: scheduledAt,
		Duration:    req.Duration,
		MeetingType: req.MeetingType,
	})
	if err != nil {
		return mapMentoringError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(session)
}

func (h *MentoringHandler) ListSessions(c *fiber.Ctx) error {
	callerID, err := parseCallerID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Authentication required"})
	}

	page := parsePositiveInt(c.Query("page"), 1)
	limit := parsePositiveInt(c.Query("limit"), defaultPageLimit)
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	sessions, total, err := h.service.ListSessions(c.Context(), callerID, services.ListSessionsInput{
		Role:   strings.TrimSpace(c.Query("role")),
		Status: c.Query("status"),
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		return mapMentoringError(c, err)
	}

	return c.JSON(fiber.Map{
		"sessions":   sessions,
		"pagination": buildPaginationMeta(page, limit, total),
	})
}

func (h *MentoringHandler) GetSession(c *fiber.Ctx) error {
	callerID, err := parseCallerID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Authentication required"})
	}

	sessionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid session id"})
	}

	session, err := h.service.GetSession(c.Context(), callerID, sessionID)
	if err != nil {
		return mapMentoringError(c, err)
	}

	return c.JSON(session)
}

func (h *MentoringHandler) UpdateStatus(c *fiber.Ctx) error {
	callerID, err := parseCallerID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Authentication required"})
	}

	sessionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid session id"})
	}

	var req updateSessionStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Missing required information"})
	}

	session, err := h.service.UpdateStatus(c.Context(), callerID, sessionID, req.Status)
	if err != nil {
		return mapMentoringError(c, err)
	}

	return c.JSON(session)
}

func mapMentoringError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrMissingFields),
		errors.Is(err, services.ErrInvalidInput),
		errors.Is(err, services.ErrSelfBooking),
		errors.Is(err, services.ErrInvalidStatus):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	case errors.Is(err, services.ErrInvalidStateTransition):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrMentorNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Mentor not found"})
	case errors.Is(err, pgx.ErrNoRows):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Session not found"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to process mentoring request"})
	}
}
