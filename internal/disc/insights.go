// internal/disc/insights.go
package disc

// DefaultFeaturedTraits are the traits that get an Insight when no explicit list is configured.
var DefaultFeaturedTraits = []Trait{TraitD, TraitI}

// Insight is a qualitative reading of one trait score.
type Insight struct {
	Category         string   `json:"category"`
	Description      string   `json:"description"`
	StrengthLevel    int      `json:"strengthLevel"`
	DevelopmentAreas []string `json:"developmentAreas"`
	AIPrediction     string   `json:"aiPrediction"`
}

func scoreBand(score int) band {
	switch {
	case score > 70:
		return bandHigh
	case score > 40:
		return bandMedium
	default:
		return bandLow
	}
}

// GenerateInsights builds one Insight per featured trait, in D, I, S, C order.
// An empty featured list falls back to DefaultFeaturedTraits.
func GenerateInsights(scores Scores, featured []Trait) ([]Insight, error) {
	traits, err := normalizeFeatured(featured)
	if err != nil {
		return nil, err
	}

	insights := make([]Insight, 0, len(traits))
	for _, t := range traits {
		insight, err := insightFor(t, scores)
		if err != nil {
			return nil, err
		}
		insights = append(insights, insight)
	}
	return insights, nil
}

func insightFor(t Trait, scores Scores) (Insight, error) {
	score, err := scores.Get(t)
	if err != nil {
		return Insight{}, err
	}
	category, err := InsightCategory(t)
	if err != nil {
		return Insight{}, err
	}
	descriptions, err := lookup(insightDescriptions, t)
	if err != nil {
		return Insight{}, err
	}
	areas, err := lookup(developmentAreas, t)
	if err != nil {
		return Insight{}, err
	}
	predictions, err := lookup(aiPredictions, t)
	if err != nil {
		return Insight{}, err
	}

	b := scoreBand(score)
	areaIdx := 0
	if score >= 50 {
		areaIdx = 1
	}

	return Insight{
		Category:         category,
		Description:      descriptions[b],
		StrengthLevel:    score,
		DevelopmentAreas: copyStrings(areas[areaIdx]),
		AIPrediction:     predictions[b],
	}, nil
}

// normalizeFeatured validates, deduplicates and orders the featured traits.
func normalizeFeatured(featured []Trait) ([]Trait, error) {
	if len(featured) == 0 {
		featured = DefaultFeaturedTraits
	}
	wanted := make(map[Trait]bool, len(featured))
	for _, t := range featured {
		if !t.Valid() {
			return nil, &UnknownStyleError{Trait: t}
		}
		wanted[t] = true
	}
	out := make([]Trait, 0, len(wanted))
	for _, t := range AllTraits {
		if wanted[t] {
			out = append(out, t)
		}
	}
	return out, nil
}

// GenerateRecommendations returns the improvement suggestions for the primary style.
// Scores are accepted for interface symmetry but do not change the outcome:
// recommendations depend on the winning style only, not on its magnitude.
func GenerateRecommendations(primary Trait, _ Scores) ([]string, error) {
	recs, err := lookup(recommendationTable, primary)
	if err != nil {
		return nil, err
	}
	return copyStrings(recs), nil
}
