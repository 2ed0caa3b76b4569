package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lhs0609a-cpu/expert-synergy-platform/internal/models"
)

type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type UserRepository struct {
	db DBTX
}

func NewUserRepository(db DBTX) *UserRepository {
	return &UserRepository{db: db}
}

type CreateUserInput struct {
	Email        string
	PasswordHash *string
	Name         string
	Role         string
	IsExpert     bool
}

func (r *UserRepository) CreateUser(ctx context.Context, input CreateUserInput) (*models.User, error) {
	query := `
		INSERT INTO users (id, email, password_hash, name, role, is_expert)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, email, password_hash, name, nickname, profile_image, role, status, is_expert, created_at, updated_at
	`
	var user models.User
	err := r.db.QueryRow(
		ctx,
		query,
		uuid.New(),
		input.Email,
		input.PasswordHash,
		input.Name,
		input.Role,
		input.IsExpert,
	).Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.Name,
		&user.Nickname,
		&user.ProfileImage,
		&user.Role,
		&user.Status,
		&user.IsExpert,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `
		SELECT id, email, password_hash, name, nickname, profile_image, role, status, is_expert, created_at, updated_at
		FROM users
		WHERE email = $1
	`
	var user models.User
	err := r.db.QueryRow(ctx, query, email).Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.Name,
		&user.Nickname,
		&user.ProfileImage,
		&user.Role,
		&user.Status,
		&user.IsExpert,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	query := `
		SELECT id, email, password_hash, name, nickname, profile_image, role, status, is_expert, created_at, updated_at
		FROM users
		WHERE id = $1
	`
	var user models.User
	err := r.db.QueryRow(ctx, query, id).Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.Name,
		&user.Nickname,
		&user.ProfileImage,
		&user.Role,
		&user.Status,
		&user.IsExpert,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// NicknameTaken reports whether a different user already owns the nickname.
func (r *UserRepository) NicknameTaken(ctx context.Context, nickname string, excludeID uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM users WHERE nickname = $1 AND id <> $2
		)
	`
	var taken bool
	if err := r.db.QueryRow(ctx, query, nickname, excludeID).Scan(&taken); err != nil {
		return false, err
	}
	return taken, nil
}

type UpdateUserInput struct {
	Name         *string
	Nickname     *string
	ProfileImage *string
}

func (r *UserRepository) UpdatePartial(ctx context.Context, id uuid.UUID, input UpdateUserInput) (*models.User, error) {
	query := `
		UPDATE users
		SET name = COALESCE($1, name),
			nickname = COALESCE($2, nickname),
			profile_image = COALESCE($3, profile_image),
			updated_at = NOW()
		WHERE id = $4
		RETURNING id, email, password_hash, name, nickname, profile_image, role, status, is_expert, created_at, updated_at
	`
	var user models.User
	err := r.db.QueryRow(ctx, query, input.Name, input.Nickname, input.ProfileImage, id).Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.Name,
		&user.Nickname,
		&user.ProfileImage,
		&user.Role,
		&user.Status,
		&user.IsExpert,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) GetCounts(ctx context.Context, userID uuid.UUID) (models.UserCounts, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM follows WHERE following_id = $1),
			(SELECT COUNT(*) FROM follows WHERE follower_id = $1),
			(SELECT COUNT(*) FROM posts WHERE author_id = $1)
	`
	var counts models.UserCounts
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&counts.Followers,
		&counts.Follows,
		&counts.Posts,
	)
	if err != nil {
		return models.UserCounts{}, err
	}
	return counts, nil
}
