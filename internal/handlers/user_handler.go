package handlers

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lhs0609a-cpu/expert-synergy-platform/internal/models"
	"github.com/lhs0609a-cpu/expert-synergy-platform/internal/repository"
)

type userAccountRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	NicknameTaken(ctx context.Context, nickname string, excludeID uuid.UUID) (bool, error)
	UpdatePartial(ctx context.Context, id uuid.UUID, input repository.UpdateUserInput) (*models.User, error)
	GetCounts(ctx context.Context, userID uuid.UUID) (models.UserCounts, error)
}

type userExpertProfileRepository interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (*models.ExpertProfile, error)
}

type UserHandler struct {
	userRepo          userAccountRepository
	expertProfileRepo userExpertProfileRepository
}

func NewUserHandler(userRepo userAccountRepository, expertProfileRepo userExpertProfileRepository) *UserHandler {
	return &UserHandler{
		userRepo:          userRepo,
		expertProfileRepo: expertProfileRepo,
	}
}

func (h *UserHandler) GetCurrentUser(c *fiber.Ctx) error {
	callerID, err := parseCallerID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Authentication required"})
	}

	user, err := h.userRepo.GetByID(c.Context(), callerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch user"})
	}

	counts, err := h.userRepo.GetCounts(c.Context(), callerID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch user"})
	}

	response := models.UserProfileResponse{User: *user, Counts: counts}
	if user.IsExpert {
		profile, err := h.expertProfileRepo.GetByUserID(c.Context(), callerID)
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch user"})
		}
		if err == nil {
			response.ExpertProfile = profile
		}
	}

	return c.JSON(response)
}

type updateUserRequest struct {
	Name         *string `json:"name"`
	Nickname     *string `json:"nickname"`
	ProfileImage *string `json:"profileImage"`
}

func (h *UserHandler) UpdateCurrentUser(c *fiber.Ctx) error {
	callerID, err := parseCallerID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Authentication required"})
	}

	var req updateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	// Blank strings mean "not provided", matching the original PATCH
	// semantics.
	req.Name = normalizeOptional(req.Name)
	req.Nickname = normalizeOptional(req.Nickname)
	req.ProfileImage = normalizeOptional(req.ProfileImage)

	if req.Nickname != nil {
		taken, err := h.userRepo.NicknameTaken(c.Context(), *req.Nickname, callerID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update user"})
		}
		if taken {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Nickname already in use"})
		}
	}

	user, err := h.userRepo.UpdatePartial(c.Context(), callerID, repository.UpdateUserInput{
		Name:         req.Name,
		Nickname:     req.Nickname,
		ProfileImage: req.ProfileImage,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			// Lost the race against a concurrent nickname claim.
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Nickname already in use"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update user"})
	}

	return c.JSON(user)
}

func normalizeOptional(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
