package models

import (
	"time"

	"github.com/google/uuid"
)

type ExpertProfile struct {
	ID            uuid.UUID `json:"id"`
	UserID        uuid.UUID `json:"userId"`
	Title         *string   `json:"title"`
	Bio           *string   `json:"bio"`
	PrimaryField  *string   `json:"primaryField"`
	HourlyRate    int64     `json:"hourlyRate"`
	IsVerified    bool      `json:"isVerified"`
	AverageRating *float64  `json:"averageRating"`
	TotalReviews  int       `json:"totalReviews"`
	ResponseTime  *string   `json:"responseTime"`
	Skills        *[]string `json:"skills"`
	Slug          *string   `json:"slug"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// ExpertListItem is the discovery-facing projection of a profile plus the
// owning user's public fields.
type ExpertListItem struct {
	ID            uuid.UUID      `json:"id"`
	Title         string         `json:"title"`
	Bio           string         `json:"bio"`
	PrimaryField  string         `json:"primaryField"`
	HourlyRate    int64          `json:"hourlyRate"`
	IsVerified    bool           `json:"isVerified"`
	AverageRating float64        `json:"averageRating"`
	TotalReviews  int            `json:"totalReviews"`
	ResponseTime  string         `json:"responseTime"`
	Slug          string         `json:"slug"`
	Skills        []string       `json:"skills"`
	User          PublicUserInfo `json:"user"`
}

type PublicUserInfo struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	ProfileImage *string   `json:"profileImage"`
}
