// internal/models/profile.go
package models

import (
	"context"
	"time"

	"disc-workers/internal/disc"
)

// ProfileRecord is a persisted profile row.
type ProfileRecord struct {
	ID              string         `json:"id"`
	UserID          string         `json:"userId"`
	Scores          disc.Scores    `json:"scores"`
	PrimaryStyle    disc.Trait     `json:"primaryStyle"`
	SecondaryStyle  disc.Trait     `json:"secondaryStyle"`
	Insights        []disc.Insight `json:"insights"`
	Recommendations []string       `json:"recommendations"`
	CompletedAt     time.Time      `json:"completedAt"`
	CreatedAt       time.Time      `json:"createdAt"`
}

// NewProfileRecord stamps profile with its owner for storage.
func NewProfileRecord(profile *disc.Profile, ownerID string, createdAt time.Time) *ProfileRecord {
	return &ProfileRecord{
		ID:              profile.ID,
		UserID:          ownerID,
		Scores:          profile.Scores,
		PrimaryStyle:    profile.PrimaryStyle,
		SecondaryStyle:  profile.SecondaryStyle,
		Insights:        profile.Insights,
		Recommendations: profile.Recommendations,
		CompletedAt:     profile.CompletedAt,
		CreatedAt:       createdAt,
	}
}

func (r *ProfileRecord) Profile() *disc.Profile {
	return &disc.Profile{
		ID:              r.ID,
		UserID:          r.UserID,
		Scores:          r.Scores,
		PrimaryStyle:    r.PrimaryStyle,
		SecondaryStyle:  r.SecondaryStyle,
		Insights:        r.Insights,
		Recommendations: r.Recommendations,
		CompletedAt:     r.CompletedAt,
	}
}

// ProfileRepository persists profiles per owner. Profiles are append-only.
type ProfileRepository interface {
	SaveProfile(ctx context.Context, profile *disc.Profile, ownerID string) (*ProfileRecord, error)
	// GetUserProfiles returns the owner's profiles, most recent first.
	// limit <= 0 means no limit.
	GetUserProfiles(ctx context.Context, ownerID string, limit int) ([]*disc.Profile, error)
	CountUserProfiles(ctx context.Context, ownerID string) (int, error)
}

// DistributionFilter narrows a style distribution query. Zero values match everything.
type DistributionFilter struct {
	UserIDs []string
	Since   time.Time
}

// StyleDistribution counts profiles per primary style and averages their scores.
type StyleDistribution struct {
	Distribution  map[disc.Trait]int     `json:"distribution"`
	Total         int                    `json:"total"`
	AverageScores map[disc.Trait]float64 `json:"averageScores"`
}

// ProfileIndex is the analytics side of profile storage.
type ProfileIndex interface {
	IndexProfile(ctx context.Context, record *ProfileRecord) error
	StyleDistribution(ctx context.Context, filter DistributionFilter) (*StyleDistribution, error)
}
