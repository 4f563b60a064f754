// Package disc scores DISC behavioral assessments and derives insights,
// recommendations, reports and gamification data from static tables.
package disc

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// Profile is the scored result of one completed assessment.
type Profile struct {
	ID              string    `json:"id"`
	UserID          string    `json:"userId"`
	Scores          Scores    `json:"scores"`
	PrimaryStyle    Trait     `json:"primaryStyle"`
	SecondaryStyle  Trait     `json:"secondaryStyle"`
	Insights        []Insight `json:"insights"`
	Recommendations []string  `json:"recommendations"`
	CompletedAt     time.Time `json:"completedAt"`
}

// Engine scores assessments. The zero value is not usable; use NewEngine.
type Engine struct {
	featured        []Trait
	requireComplete bool
	now             func() time.Time
	newID           func() string
}

type Option func(*Engine)

// WithFeaturedTraits selects which traits receive an Insight.
func WithFeaturedTraits(traits ...Trait) Option {
	return func(e *Engine) {
		e.featured = append([]Trait(nil), traits...)
	}
}

// WithRequireComplete rejects answer sets that do not cover every question.
func WithRequireComplete(require bool) Option {
	return func(e *Engine) {
		e.requireComplete = require
	}
}

// WithClock overrides the completion timestamp source.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// WithIDGenerator overrides the profile id source.
func WithIDGenerator(newID func() string) Option {
	return func(e *Engine) {
		e.newID = newID
	}
}

func NewEngine(opts ...Option) (*Engine, error) {
	e := &Engine{
		featured: DefaultFeaturedTraits,
		now:      func() time.Time { return time.Now().UTC() },
		newID:    func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(e)
	}
	featured, err := normalizeFeatured(e.featured)
	if err != nil {
		return nil, err
	}
	e.featured = featured
	return e, nil
}

var defaultEngine, _ = NewEngine()

// CalculateProfile scores answers with the default engine.
func CalculateProfile(answers []Answer) (*Profile, error) {
	return defaultEngine.CalculateProfile(answers)
}

// FeaturedTraits returns the traits this engine generates insights for.
func (e *Engine) FeaturedTraits() []Trait {
	return append([]Trait(nil), e.featured...)
}

// CalculateProfile turns answers into a new Profile with an empty owner.
func (e *Engine) CalculateProfile(answers []Answer) (*Profile, error) {
	scores, err := e.Score(answers)
	if err != nil {
		return nil, err
	}

	ranked := scores.Ranked()
	primary, secondary := ranked[0].Trait, ranked[1].Trait

	insights, err := GenerateInsights(scores, e.featured)
	if err != nil {
		return nil, err
	}
	recommendations, err := GenerateRecommendations(primary, scores)
	if err != nil {
		return nil, err
	}

	return &Profile{
		ID:              e.newID(),
		Scores:          scores,
		PrimaryStyle:    primary,
		SecondaryStyle:  secondary,
		Insights:        insights,
		Recommendations: recommendations,
		CompletedAt:     e.now(),
	}, nil
}

// Score validates answers and returns the normalized percentages.
// Every answer adds the selected option's weight to all four traits.
func (e *Engine) Score(answers []Answer) (Scores, error) {
	if len(answers) == 0 {
		return Scores{}, &EmptyAssessmentError{}
	}

	totals := make(map[Trait]int, len(AllTraits))
	seen := make(map[string]bool, len(answers))
	for _, a := range answers {
		if _, ok := QuestionByID(a.QuestionID); !ok {
			return Scores{}, &InvalidAnswerError{QuestionID: a.QuestionID, OptionIndex: a.SelectedOption, Reason: "unknown question"}
		}
		if a.SelectedOption < 0 || a.SelectedOption >= OptionCount {
			return Scores{}, &InvalidAnswerError{QuestionID: a.QuestionID, OptionIndex: a.SelectedOption, Reason: "option index out of range"}
		}
		if seen[a.QuestionID] {
			return Scores{}, &InvalidAnswerError{QuestionID: a.QuestionID, OptionIndex: a.SelectedOption, Reason: "question answered more than once"}
		}
		seen[a.QuestionID] = true

		for _, t := range AllTraits {
			w, err := OptionWeight(t, a.SelectedOption)
			if err != nil {
				return Scores{}, err
			}
			totals[t] += w
		}
	}

	if e.requireComplete && len(seen) < QuestionCount() {
		for _, q := range questionBank {
			if !seen[q.ID] {
				return Scores{}, &InvalidAnswerError{QuestionID: q.ID, OptionIndex: -1, Reason: "question not answered"}
			}
		}
	}

	total := 0
	for _, t := range AllTraits {
		total += totals[t]
	}
	if total == 0 {
		return Scores{}, &EmptyAssessmentError{Answers: len(answers)}
	}

	var scores Scores
	for _, t := range AllTraits {
		scores.set(t, int(math.Round(float64(totals[t])/float64(total)*100)))
	}
	return scores, nil
}
