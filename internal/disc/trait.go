// internal/disc/trait.go
package disc

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Trait is one of the four DISC behavioral dimensions.
type Trait string

const (
	TraitD Trait = "D"
	TraitI Trait = "I"
	TraitS Trait = "S"
	TraitC Trait = "C"
)

// AllTraits is the canonical iteration order. Ties are always broken in this order.
var AllTraits = []Trait{TraitD, TraitI, TraitS, TraitC}

func (t Trait) Valid() bool {
	switch t {
	case TraitD, TraitI, TraitS, TraitC:
		return true
	}
	return false
}

func (t Trait) String() string {
	return string(t)
}

// ParseTrait accepts a trait letter in any case.
func ParseTrait(s string) (Trait, error) {
	t := Trait(strings.ToUpper(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", &UnknownStyleError{Trait: Trait(s)}
	}
	return t, nil
}

func (t *Trait) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("trait must be a string: %w", err)
	}
	parsed, err := ParseTrait(raw)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Scores holds the normalized percentage per trait.
type Scores struct {
	D int `json:"D"`
	I int `json:"I"`
	S int `json:"S"`
	C int `json:"C"`
}

// Get returns the score for a trait. Unknown traits yield an UnknownStyleError.
func (s Scores) Get(t Trait) (int, error) {
	switch t {
	case TraitD:
		return s.D, nil
	case TraitI:
		return s.I, nil
	case TraitS:
		return s.S, nil
	case TraitC:
		return s.C, nil
	}
	return 0, &UnknownStyleError{Trait: t}
}

func (s *Scores) set(t Trait, v int) {
	switch t {
	case TraitD:
		s.D = v
	case TraitI:
		s.I = v
	case TraitS:
		s.S = v
	case TraitC:
		s.C = v
	}
}

// Sum is not guaranteed to be exactly 100 because each score is rounded on its own.
func (s Scores) Sum() int {
	return s.D + s.I + s.S + s.C
}

// TraitScore pairs a trait with its score.
type TraitScore struct {
	Trait Trait `json:"trait"`
	Score int   `json:"score"`
}

// Ranked returns the four traits ordered by score, highest first.
// Equal scores keep the D, I, S, C order.
func (s Scores) Ranked() []TraitScore {
	ranked := make([]TraitScore, 0, len(AllTraits))
	for _, t := range AllTraits {
		v, _ := s.Get(t)
		ranked = append(ranked, TraitScore{Trait: t, Score: v})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked
}
