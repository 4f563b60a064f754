// internal/workers/disc/calculate-profile/models.go
package calculateprofile

import "disc-workers/internal/disc"

type Input struct {
	UserID  string        `json:"userId,omitempty"`
	Answers []disc.Answer `json:"answers"`
}

// Output carries the new profile. Its owner stays empty until the profile is saved.
type Output struct {
	Profile *disc.Profile `json:"profile"`
}
