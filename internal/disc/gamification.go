// internal/disc/gamification.go
package disc

import (
	"strings"
	"time"
)

const (
	FiveAssessmentsTarget = 5

	initialLevel      = 1
	initialExperience = 100
	initialStreak     = 1

	firstAssessmentColor = "#8B5CF6"
)

type Badge struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`
	Color       string    `json:"color"`
	EarnedAt    time.Time `json:"earnedAt"`
}

type Achievement struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Unlocked    bool   `json:"unlocked"`
	Progress    int    `json:"progress"`
	Target      int    `json:"target"`
}

// GamificationSnapshot is derived from a profile; it is not authoritative state.
type GamificationSnapshot struct {
	Badges       []Badge       `json:"badges"`
	Achievements []Achievement `json:"achievements"`
	Level        int           `json:"level"`
	Experience   int           `json:"experience"`
	Streak       int           `json:"streak"`
}

// GenerateGamificationData builds badges and achievements for a profile.
// assessmentCount is the number of assessments the owner has completed,
// including this one; values below 1 count as 1.
func GenerateGamificationData(profile *Profile, assessmentCount int) (*GamificationSnapshot, error) {
	if profile == nil {
		return nil, errNilProfile
	}
	primary := profile.PrimaryStyle

	name, err := StyleName(primary)
	if err != nil {
		return nil, err
	}
	color, err := StyleColor(primary)
	if err != nil {
		return nil, err
	}

	if assessmentCount < 1 {
		assessmentCount = 1
	}
	progress := assessmentCount
	if progress > FiveAssessmentsTarget {
		progress = FiveAssessmentsTarget
	}

	return &GamificationSnapshot{
		Badges: []Badge{
			{
				ID:          "first-assessment",
				Name:        "First Assessment",
				Description: "Completed your first DISC assessment",
				Icon:        "trophy",
				Color:       firstAssessmentColor,
				EarnedAt:    profile.CompletedAt,
			},
			{
				ID:          "style-" + strings.ToLower(string(primary)),
				Name:        name + " Profile",
				Description: "Identified " + name + " as your predominant style",
				Icon:        "star",
				Color:       color,
				EarnedAt:    profile.CompletedAt,
			},
		},
		Achievements: []Achievement{
			{
				ID:          "self-knowledge",
				Name:        "Self-Knowledge",
				Description: "Complete a DISC assessment",
				Unlocked:    true,
				Progress:    1,
				Target:      1,
			},
			{
				ID:          "five-assessments",
				Name:        "Consistent Growth",
				Description: "Complete five DISC assessments",
				Unlocked:    assessmentCount >= FiveAssessmentsTarget,
				Progress:    progress,
				Target:      FiveAssessmentsTarget,
			},
		},
		Level:      initialLevel,
		Experience: initialExperience,
		Streak:     initialStreak,
	}, nil
}
