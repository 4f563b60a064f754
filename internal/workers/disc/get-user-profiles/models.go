// internal/workers/disc/get-user-profiles/models.go
package getuserprofiles

import "disc-workers/internal/disc"

type Input struct {
	UserID string `json:"userId"`
	Limit  int    `json:"limit,omitempty"`
}

type Output struct {
	Profiles []*disc.Profile `json:"profiles"`
	Count    int             `json:"count"`
}
