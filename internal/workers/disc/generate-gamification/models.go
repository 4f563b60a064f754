// internal/workers/disc/generate-gamification/models.go
package generategamification

import "disc-workers/internal/disc"

type Input struct {
	Profile *disc.Profile `json:"profile"`
	UserID  string        `json:"userId,omitempty"`
	// AssessmentCount overrides the stored history count when set.
	AssessmentCount *int `json:"assessmentCount,omitempty"`
}

type Output struct {
	Gamification    *disc.GamificationSnapshot `json:"gamification"`
	AssessmentCount int                        `json:"assessmentCount"`
}
