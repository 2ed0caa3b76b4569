package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleUser   = "USER"
	RoleExpert = "EXPERT"
	RoleAdmin  = "ADMIN"
)

const (
	UserStatusActive    = "ACTIVE"
	UserStatusSuspended = "SUSPENDED"
	UserStatusBanned    = "BANNED"
	UserStatusWithdrawn = "WITHDRAWN"
)

type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash *string   `json:"-"`
	Name         string    `json:"name"`
	Nickname     *string   `json:"nickname"`
	ProfileImage *string   `json:"profileImage"`
	Role         string    `json:"role"`
	Status       string    `json:"status"`
	IsExpert     bool      `json:"isExpert"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// UserCounts carries the aggregate counters surfaced on the profile endpoint.
type UserCounts struct {
	Followers int `json:"followers"`
	Follows   int `json:"follows"`
	Posts     int `json:"posts"`
}

type UserProfileResponse struct {
	User
	ExpertProfile *ExpertProfile `json:"expertProfile,omitempty"`
	Counts        UserCounts     `json:"_count"`
}
