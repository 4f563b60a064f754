// internal/workers/disc/generate-report/models.go
package generatereport

import "disc-workers/internal/disc"

// Input carries either a profile or the owner whose latest profile is reported on.
type Input struct {
	UserID  string        `json:"userId,omitempty"`
	Profile *disc.Profile `json:"profile,omitempty"`
}

type Output struct {
	Report *disc.Report `json:"report"`
}
