// internal/workers/disc/team-distribution/models.go
package teamdistribution

import "disc-workers/internal/disc"

type Input struct {
	UserIDs []string `json:"userIds,omitempty"`
	// Since is an RFC 3339 timestamp; profiles completed earlier are ignored.
	Since string `json:"since,omitempty"`
}

type Output struct {
	Distribution  map[disc.Trait]int     `json:"distribution"`
	Total         int                    `json:"total"`
	AverageScores map[disc.Trait]float64 `json:"averageScores"`
}
