package handlers

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/lhs0609a-cpu/expert-synergy-platform/internal/models"
	"github.com/lhs0609a-cpu/expert-synergy-platform/internal/repository"
)

type expertDirectory interface {
	List(ctx context.Context, filter repository.ExpertListFilter) ([]models.ExpertListItem, int, error)
	GetListItemByID(ctx context.Context, profileID uuid.UUID) (*models.ExpertListItem, error)
}

type ExpertHandler struct {
	expertRepo expertDirectory
}

func NewExpertHandler(expertRepo expertDirectory) *ExpertHandler {
	return &ExpertHandler{expertRepo: expertRepo}
}

func (h *ExpertHandler) ListExperts(c *fiber.Ctx) error {
	page := parsePositiveInt(c.Query("page"), 1)
	limit := parsePositiveInt(c.Query("limit"), defaultExpertPageLimit)
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	minRate, err := parseNonNegativeInt64(c.Query("minRate"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "minRate must be a valid non-negative number"})
	}
	maxRate, err := parseNonNegativeInt64(c.Query("maxRate"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "maxRate must be a valid non-negative number"})
	}

	experts, total, err := h.expertRepo.List(c.Context(), repository.ExpertListFilter{
		Category: strings.TrimSpace(c.Query("category")),
		Search:   strings.TrimSpace(c.Query("search")),
		Sort:     strings.TrimSpace(c.Query("sort")),
		MinRate:  minRate,
		MaxRate:  maxRate,
		Offset:   (page - 1) * limit,
		Limit:    limit,
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch experts"})
	}

	return c.JSON(fiber.Map{
		"experts":    experts,
		"pagination": buildPaginationMeta(page, limit, total),
	})
}

func (h *ExpertHandler) GetExpert(c *fiber.Ctx) error {
	profileID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid expert id"})
	}

	expert, err := h.expertRepo.GetListItemByID(c.Context(), profileID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Expert not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch expert"})
	}

	return c.JSON(fiber.Map{"expert": expert})
}
