package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/lhs0609a-cpu/expert-synergy-platform/internal/models"
	"github.com/lhs0609a-cpu/expert-synergy-platform/internal/repository"
)

var (
	ErrMissingFields          = errors.New("missing required information")
	ErrInvalidInput           = errors.New("invalid input")
	ErrMentorNotFound         = errors.New("mentor not found")
	ErrSelfBooking            = errors.New("cannot request mentoring from yourself")
	ErrForbidden              = errors.New("forbidden")
	ErrInvalidStatus          = errors.New("invalid status")
	ErrInvalidStateTransition = errors.New("invalid state transition")
)

type userReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type expertProfileReader interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (*models.ExpertProfile, error)
}

type sessionStore interface {
	Create(ctx context.Context, input repository.CreateSessionInput) (*models.MentoringSession, error)
	GetByID(ctx context.Context, sessionID uuid.UUID) (*models.MentoringSession, error)
	List(ctx context.Context, filter repository.SessionListFilter) ([]models.SessionDetail, int, error)
	UpdateStatusIfCurrent(ctx context.Context, sessionID uuid.UUID, currentStatus, nextStatus string) (*models.MentoringSession, error)
}

type MentoringService struct {
	sessionRepo       sessionStore
	userRepo          userReader
	expertProfileRepo expertProfileReader
}

func NewMentoringService(
	sessionRepo sessionStore,
	userRepo userReader,
	expertProfileRepo expertProfileReader,
) *MentoringService {
	return &MentoringService{
		sessionRepo:       sessionRepo,
		userRepo:          userRepo,
		expertProfileRepo: expertProfileRepo,
	}
}

type RequestSessionInput struct {
	MentorID    uuid.UUID
	Title       string
	Description string
	ScheduledAt time.Time
	Duration    int
	MeetingType string
}

// RequestSession validates a mentee's request, prices it off the mentor's
// hourly rate and persists the session in the REQUESTED state. Overlapping
// requests against the same mentor are not reconciled here.
func (s *MentoringService) RequestSession(
	ctx context.Context,
	menteeID uuid.UUID,
	input RequestSessionInput,
) (*models.MentoringSession, error) {
	if input.MentorID == uuid.Nil || strings.TrimSpace(input.Title) == "" ||
		input.ScheduledAt.IsZero() || input.Duration == 0 {
		return nil, ErrMissingFields
	}
	if input.Duration < 0 {
		return nil, ErrInvalidInput
	}

	meetingType := input.MeetingType
	if meetingType == "" {
		meetingType = models.MeetingTypeVideo
	}
	if meetingType != models.MeetingTypeVideo && meetingType != models.MeetingTypeChat {
		return nil, ErrInvalidInput
	}

	mentor, err := s.userRepo.GetByID(ctx, input.MentorID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrMentorNotFound
		}
		return nil, err
	}

	profile, err := s.expertProfileRepo.GetByUserID(ctx, mentor.ID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrMentorNotFound
		}
		return nil, err
	}

	if mentor.ID == menteeID {
		return nil, ErrSelfBooking
	}

	return s.sessionRepo.Create(ctx, repository.CreateSessionInput{
		MentorID:    mentor.ID,
		MenteeID:    menteeID,
		Title:       strings.TrimSpace(input.Title),
		Description: input.Description,
		ScheduledAt: input.ScheduledAt.UTC(),
		Duration:    input.Duration,
		Price:       SessionPrice(profile.HourlyRate, input.Duration),
		MeetingType: meetingType,
	})
}

type ListSessionsInput struct {
	Role   string
	Status string
	Page   int
	Limit  int
}

// ListSessions returns one page of the caller's sessions plus the total
// count. The caller identity is always part of the filter, so one
// participant pair can never observe another pair's sessions.
func (s *MentoringService) ListSessions(
	ctx context.Context,
	actorID uuid.UUID,
	input ListSessionsInput,
) ([]models.SessionDetail, int, error) {
	role := input.Role
	if role != "mentor" && role != "mentee" {
		role = "both"
	}

	return s.sessionRepo.List(ctx, repository.SessionListFilter{
		ActorID: actorID,
		Role:    role,
		Status:  strings.ToUpper(strings.TrimSpace(input.Status)),
		Offset:  (input.Page - 1) * input.Limit,
		Limit:   input.Limit,
	})
}

func (s *MentoringService) GetSession(
	ctx context.Context,
	actorID uuid.UUID,
	sessionID uuid.UUID,
) (*models.MentoringSession, error) {
	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !isParticipant(actorID, session) {
		return nil, ErrForbidden
	}
	return session, nil
}

// UpdateStatus moves a session forward through its state machine:
// REQUESTED -> CONFIRMED or CANCELLED, CONFIRMED -> COMPLETED or CANCELLED.
// Only the mentor confirms or completes; a mentee may only cancel an upcoming
// session. The store update is a compare-and-set, so concurrent transitions
// lose cleanly.
func (s *MentoringService) UpdateStatus(
	ctx context.Context,
	actorID uuid.UUID,
	sessionID uuid.UUID,
	requestedStatus string,
) (*models.MentoringSession, error) {
	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !isParticipant(actorID, session) {
		return nil, ErrForbidden
	}

	nextStatus, err := normalizeRequestedStatus(requestedStatus)
	if err != nil {
		return nil, err
	}
	if err := validateStatusTransition(actorID, session, nextStatus); err != nil {
		return nil, err
	}

	updated, err := s.sessionRepo.UpdateStatusIfCurrent(ctx, sessionID, session.Status, nextStatus)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvalidStateTransition
		}
		return nil, err
	}
	return updated, nil
}

func isParticipant(actorID uuid.UUID, session *models.MentoringSession) bool {
	return session.MentorID == actorID || session.MenteeID == actorID
}

func isTerminal(status string) bool {
	return status == models.SessionStatusCompleted || status == models.SessionStatusCancelled
}

func normalizeRequestedStatus(status string) (string, error) {
	switch strings.ToUpper(strings.TrimSpace(status)) {
	case "CONFIRM", "CONFIRMED", "ACCEPT", "ACCEPTED":
		return models.SessionStatusConfirmed, nil
	case "COMPLETE", "COMPLETED":
		return models.SessionStatusCompleted, nil
	case "CANCEL", "CANCELLED", "CANCELED", "DECLINE", "DECLINED":
		return models.SessionStatusCancelled, nil
	default:
		return "", ErrInvalidStatus
	}
}

func validateStatusTransition(actorID uuid.UUID, session *models.MentoringSession, nextStatus string) error {
	if session.MentorID == actorID {
		switch nextStatus {
		case models.SessionStatusConfirmed:
			if session.Status != models.SessionStatusRequested {
				return ErrInvalidStateTransition
			}
		case models.SessionStatusCompleted:
			if session.Status != models.SessionStatusConfirmed {
				return ErrInvalidStateTransition
			}
			sessionEnd := session.ScheduledAt.UTC().Add(time.Duration(session.Duration) * time.Minute)
			if sessionEnd.After(time.Now().UTC()) {
				return ErrInvalidStateTransition
			}
		case models.SessionStatusCancelled:
			if isTerminal(session.Status) {
				return ErrInvalidStateTransition
			}
		default:
			return ErrInvalidStatus
		}
		return nil
	}

	// Mentee side: the only allowed transition is cancelling an upcoming
	// session that has not already finished its lifecycle.
	if nextStatus != models.SessionStatusCancelled {
		return ErrForbidden
	}
	if isTerminal(session.Status) {
		return ErrInvalidStateTransition
	}
	if !session.ScheduledAt.UTC().After(time.Now().UTC()) {
		return ErrInvalidStateTransition
	}
	return nil
}
