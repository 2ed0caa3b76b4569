package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lhs0609a-cpu/expert-synergy-platform/internal/models"
)

type CreateSessionInput struct {
	MentorID    uuid.UUID
	MenteeID    uuid.UUID
	Title       string
	Description string
	ScheduledAt time.Time
	Duration    int
	Price       int64
	MeetingType string
}

// SessionListFilter always binds the acting caller: results are restricted to
// sessions the actor participates in, before any optional narrowing.
type SessionListFilter struct {
	ActorID uuid.UUID
	Role    string // mentor, mentee or both
	Status  string
	Offset  int
	Limit   int
}

type MentoringSessionRepository struct {
	db DBTX
}

func NewMentoringSessionRepository(db DBTX) *MentoringSessionRepository {
	return &MentoringSessionRepository{db: db}
}

const sessionColumns = `
	id, mentor_id, mentee_id, title, description, scheduled_at, duration,
	price, meeting_type, status, meeting_url, created_at, updated_at
`

func (r *MentoringSessionRepository) Create(ctx context.Context, input CreateSessionInput) (*models.MentoringSession, error) {
	query := fmt.Sprintf(`
		INSERT INTO mentoring_sessions (id, mentor_id, mentee_id, title, description, scheduled_at, duration, price, meeting_type, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, 'REQUESTED')
		RETURNING %s
	`, sessionColumns)

	row := r.db.QueryRow(
		ctx,
		query,
		uuid.New(),
		input.MentorID,
		input.MenteeID,
		input.Title,
		input.Description,
		input.ScheduledAt,
		input.Duration,
		input.Price,
		input.MeetingType,
	)
	return scanSession(row)
}

func (r *MentoringSessionRepository) GetByID(ctx context.Context, sessionID uuid.UUID) (*models.MentoringSession, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM mentoring_sessions
		WHERE id = $1
	`, sessionColumns)
	return scanSession(r.db.QueryRow(ctx, query, sessionID))
}

// List returns one page of sessions the actor participates in, newest
// scheduled first, plus the total count for the same filter.
func (r *MentoringSessionRepository) List(ctx context.Context, filter SessionListFilter) ([]models.SessionDetail, int, error) {
	args := []any{filter.ActorID}

	var identity string
	switch filter.Role {
	case "mentor":
		identity = "s.mentor_id = $1"
	case "mentee":
		identity = "s.mentee_id = $1"
	default:
		identity = "(s.mentor_id = $1 OR s.mentee_id = $1)"
	}
	whereParts := []string{identity}

	if status := strings.TrimSpace(filter.Status); status != "" {
		args = append(args, status)
		whereParts = append(whereParts, fmt.Sprintf("s.status = $%d", len(args)))
	}

	where := strings.Join(whereParts, " AND ")

	countQuery := fmt.Sprintf(`
		SELECT COUNT(*)
		FROM mentoring_sessions s
		WHERE %s
	`, where)

	var total int
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, filter.Limit)
	limitPos := len(args)
	args = append(args, filter.Offset)
	offsetPos := len(args)

	query := fmt.Sprintf(`
		SELECT s.id, s.mentor_id, s.mentee_id, s.title, s.description, s.scheduled_at, s.duration,
			   s.price, s.meeting_type, s.status, s.meeting_url, s.created_at, s.updated_at,
			   mentor.name, mentor.profile_image,
			   mentee.name, mentee.profile_image
		FROM mentoring_sessions s
		JOIN users mentor ON mentor.id = s.mentor_id
		JOIN users mentee ON mentee.id = s.mentee_id
		WHERE %s
		ORDER BY s.scheduled_at DESC, s.id
		LIMIT $%d OFFSET $%d
	`, where, limitPos, offsetPos)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	details := make([]models.SessionDetail, 0)
	for rows.Next() {
		var (
			detail models.SessionDetail
			mentor models.SessionParticipant
			mentee models.SessionParticipant
		)
		if err := rows.Scan(
			&detail.ID,
			&detail.MentorID,
			&detail.MenteeID,
			&detail.Title,
			&detail.Description,
			&detail.ScheduledAt,
			&detail.Duration,
			&detail.Price,
			&detail.MeetingType,
			&detail.Status,
			&detail.MeetingURL,
			&detail.CreatedAt,
			&detail.UpdatedAt,
			&mentor.Name,
			&mentor.ProfileImage,
			&mentee.Name,
			&mentee.ProfileImage,
		); err != nil {
			return nil, 0, err
		}
		mentor.ID = detail.MentorID
		mentee.ID = detail.MenteeID
		detail.Mentor = &mentor
		detail.Mentee = &mentee
		details = append(details, detail)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return details, total, nil
}

// UpdateStatusIfCurrent performs a compare-and-set transition: it only
// succeeds when the stored status still matches currentStatus, so a lost race
// surfaces as pgx.ErrNoRows instead of a double transition.
func (r *MentoringSessionRepository) UpdateStatusIfCurrent(
	ctx context.Context,
	sessionID uuid.UUID,
	currentStatus string,
	nextStatus string,
) (*models.MentoringSession, error) {
	query := fmt.Sprintf(`
		UPDATE mentoring_sessions
		SET status = $3, updated_at = NOW()
		WHERE id = $1 AND status = $2
		RETURNING %s
	`, sessionColumns)
	return scanSession(r.db.QueryRow(ctx, query, sessionID, currentStatus, nextStatus))
}

func scanSession(row rowScanner) (*models.MentoringSession, error) {
	var session models.MentoringSession
	err := row.Scan(
		&session.ID,
		&session.MentorID,
		&session.MenteeID,
		&session.Title,
		&session.Description,
		&session.ScheduledAt,
		&session.Duration,
		&session.Price,
		&session.MeetingType,
		&session.Status,
		&session.MeetingURL,
		&session.CreatedAt,
		&session.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &session, nil
}
