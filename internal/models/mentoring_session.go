package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	SessionStatusRequested = "REQUESTED"
	SessionStatusConfirmed = "CONFIRMED"
	SessionStatusCompleted = "COMPLETED"
	SessionStatusCancelled = "CANCELLED"
)

const (
	MeetingTypeVideo = "VIDEO"
	MeetingTypeChat  = "CHAT"
)

type MentoringSession struct {
	ID          uuid.UUID `json:"id"`
	MentorID    uuid.UUID `json:"mentorId"`
	MenteeID    uuid.UUID `json:"menteeId"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	ScheduledAt time.Time `json:"scheduledAt"`
	Duration    int       `json:"duration"`
	Price       int64     `json:"price"`
	MeetingType string    `json:"meetingType"`
	Status      string    `json:"status"`
	MeetingURL  *string   `json:"meetingUrl"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// SessionParticipant is the nested mentor/mentee summary embedded in list and
// detail responses.
type SessionParticipant struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	ProfileImage *string   `json:"profileImage"`
}

type SessionDetail struct {
	MentoringSession
	Mentor *SessionParticipant `json:"mentor,omitempty"`
	Mentee *SessionParticipant `json:"mentee,omitempty"`
}
