package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lhs0609a-cpu/expert-synergy-platform/internal/models"
)

type ExpertProfileRepository struct {
	db DBTX
}

func NewExpertProfileRepository(db DBTX) *ExpertProfileRepository {
	return &ExpertProfileRepository{db: db}
}

func (r *ExpertProfileRepository) CreateEmpty(ctx context.Context, userID uuid.UUID) error {
	query := `INSERT INTO expert_profiles (id, user_id) VALUES ($1, $2)`
	_, err := r.db.Exec(ctx, query, uuid.New(), userID)
	return err
}

func (r *ExpertProfileRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*models.ExpertProfile, error) {
	query := `
		SELECT id, user_id, title, bio, primary_field, hourly_rate, is_verified,
			   average_rating, total_reviews, response_time, skills, slug, created_at, updated_at
		FROM expert_profiles
		WHERE user_id = $1
	`
	var profile models.ExpertProfile
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&profile.ID,
		&profile.UserID,
		&profile.Title,
		&profile.Bio,
		&profile.PrimaryField,
		&profile.HourlyRate,
		&profile.IsVerified,
		&profile.AverageRating,
		&profile.TotalReviews,
		&profile.ResponseTime,
		&profile.Skills,
		&profile.Slug,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

type ExpertListFilter struct {
	Category string
	Search   string
	Sort     string
	MinRate  int64
	MaxRate  int64
	Offset   int
	Limit    int
}

const expertListColumns = `
	p.id, p.title, p.bio, p.primary_field, p.hourly_rate, p.is_verified,
	p.average_rating, p.total_reviews, p.response_time, p.slug, p.skills,
	u.id, u.name, u.profile_image
`

// List returns one page of verified expert profiles plus the total count for
// the same filter.
func (r *ExpertProfileRepository) List(ctx context.Context, filter ExpertListFilter) ([]models.ExpertListItem, int, error) {
	args := []any{}
	whereParts := []string{"p.is_verified = TRUE"}

	if category := strings.TrimSpace(filter.Category); category != "" && category != "all" {
		args = append(args, category)
		whereParts = append(whereParts, fmt.Sprintf("p.primary_field = $%d", len(args)))
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		args = append(args, "%"+search+"%")
		placeholder := len(args)
		whereParts = append(whereParts, fmt.Sprintf(
			"(u.name ILIKE $%d OR p.title ILIKE $%d OR p.bio ILIKE $%d)",
			placeholder, placeholder, placeholder,
		))
	}
	if filter.MinRate > 0 {
		args = append(args, filter.MinRate)
		whereParts = append(whereParts, fmt.Sprintf("p.hourly_rate >= $%d", len(args)))
	}
	if filter.MaxRate > 0 {
		args = append(args, filter.MaxRate)
		whereParts = append(whereParts, fmt.Sprintf("p.hourly_rate <= $%d", len(args)))
	}

	where := strings.Join(whereParts, " AND ")

	countQuery := fmt.Sprintf(`
		SELECT COUNT(*)
		FROM expert_profiles p
		JOIN users u ON u.id = p.user_id
		WHERE %s
	`, where)

	var total int
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	orderBy := expertListOrder(filter.Sort)
	args = append(args, filter.Limit)
	limitPos := len(args)
	args = append(args, filter.Offset)
	offsetPos := len(args)

	query := fmt.Sprintf(`
		SELECT %s
		FROM expert_profiles p
		JOIN users u ON u.id = p.user_id
		WHERE %s
		ORDER BY %s
		LIMIT $%d OFFSET $%d
	`, expertListColumns, where, orderBy, limitPos, offsetPos)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	experts := make([]models.ExpertListItem, 0)
	for rows.Next() {
		item, err := scanExpertListItem(rows)
		if err != nil {
			return nil, 0, err
		}
		experts = append(experts, item)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return experts, total, nil
}

// GetListItemByID resolves a single directory entry. Unverified profiles are
// invisible here for the same reason List hides them.
func (r *ExpertProfileRepository) GetListItemByID(ctx context.Context, profileID uuid.UUID) (*models.ExpertListItem, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM expert_profiles p
		JOIN users u ON u.id = p.user_id
		WHERE p.id = $1 AND p.is_verified = TRUE
	`, expertListColumns)

	item, err := scanExpertListItem(r.db.QueryRow(ctx, query, profileID))
	if err != nil {
		return nil, err
	}
	return &item, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanExpertListItem(row rowScanner) (models.ExpertListItem, error) {
	var (
		item          models.ExpertListItem
		title         *string
		bio           *string
		primaryField  *string
		averageRating *float64
		responseTime  *string
		slug          *string
		skills        *[]string
	)
	err := row.Scan(
		&item.ID,
		&title,
		&bio,
		&primaryField,
		&item.HourlyRate,
		&item.IsVerified,
		&averageRating,
		&item.TotalReviews,
		&responseTime,
		&slug,
		&skills,
		&item.User.ID,
		&item.User.Name,
		&item.User.ProfileImage,
	)
	if err != nil {
		return models.ExpertListItem{}, err
	}

	item.Title = stringValue(title)
	item.Bio = stringValue(bio)
	item.PrimaryField = stringValue(primaryField)
	item.AverageRating = floatValue(averageRating)
	item.ResponseTime = stringValue(responseTime)
	item.Slug = stringValue(slug)
	item.Skills = skillsPreview(skills, 5)
	return item, nil
}

func expertListOrder(sort string) string {
	switch sort {
	case "rating":
		return "p.average_rating DESC NULLS LAST, p.id"
	case "reviews":
		return "p.total_reviews DESC, p.id"
	case "price-low":
		return "p.hourly_rate ASC, p.id"
	case "price-high":
		return "p.hourly_rate DESC, p.id"
	default: // popular
		return "p.total_reviews DESC, p.average_rating DESC NULLS LAST, p.id"
	}
}

func skillsPreview(skills *[]string, max int) []string {
	if skills == nil {
		return []string{}
	}
	values := *skills
	if len(values) > max {
		values = values[:max]
	}
	return values
}

func stringValue(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}

func floatValue(value *float64) float64 {
	if value == nil {
		return 0
	}
	return *value
}
