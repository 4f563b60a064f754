// internal/workers/disc/save-profile/models.go
package saveprofile

import (
	"time"

	"disc-workers/internal/disc"
)

type Input struct {
	UserID  string        `json:"userId"`
	Profile *disc.Profile `json:"profile"`
}

type Output struct {
	ProfileID string    `json:"profileId"`
	SavedAt   time.Time `json:"savedAt"`
	Indexed   bool      `json:"indexed"`
}
