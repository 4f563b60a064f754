// internal/workers/disc/get-questions/models.go
package getquestions

import "disc-workers/internal/disc"

type Input struct{}

type Output struct {
	Questions []disc.Question `json:"questions"`
	Count     int             `json:"count"`
}
