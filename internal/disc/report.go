// internal/disc/report.go
package disc

import (
	"errors"
	"fmt"
)

const detailedAnalysisTemplate = "Your predominant behavioral style is %s, with a score of %d%%. " +
	"This profile shapes how you make decisions, communicate and respond to challenges at work. " +
	"Use the recommendations below to build on your strengths and work on your development areas."

// Report is a read-only view over a Profile. It is recomputed on demand and never stored.
type Report struct {
	Profile                  Profile  `json:"profile"`
	DetailedAnalysis         string   `json:"detailedAnalysis"`
	CareerRecommendations    []string `json:"careerRecommendations"`
	TeamCompatibility        string   `json:"teamCompatibility"`
	LeadershipStyle          string   `json:"leadershipStyle"`
	CommunicationPreferences []string `json:"communicationPreferences"`
	StressIndicators         []string `json:"stressIndicators"`
	GrowthOpportunities      []string `json:"growthOpportunities"`
}

var errNilProfile = errors.New("profile is required")

// GenerateReport compiles the report for a profile. It has no side effects:
// the same profile always yields the same report.
func GenerateReport(profile *Profile) (*Report, error) {
	if profile == nil {
		return nil, errNilProfile
	}
	primary := profile.PrimaryStyle

	name, err := StyleName(primary)
	if err != nil {
		return nil, err
	}
	score, err := profile.Scores.Get(primary)
	if err != nil {
		return nil, err
	}
	careers, err := lookup(careerTable, primary)
	if err != nil {
		return nil, err
	}
	team, err := lookup(teamCompatibilityTable, primary)
	if err != nil {
		return nil, err
	}
	leadership, err := lookup(leadershipTable, primary)
	if err != nil {
		return nil, err
	}
	communication, err := lookup(communicationTable, primary)
	if err != nil {
		return nil, err
	}
	stress, err := lookup(stressTable, primary)
	if err != nil {
		return nil, err
	}

	return &Report{
		Profile:                  cloneProfile(profile),
		DetailedAnalysis:         fmt.Sprintf(detailedAnalysisTemplate, name, score),
		CareerRecommendations:    copyStrings(careers),
		TeamCompatibility:        team,
		LeadershipStyle:          leadership,
		CommunicationPreferences: copyStrings(communication),
		StressIndicators:         copyStrings(stress),
		GrowthOpportunities:      copyStrings(profile.Recommendations),
	}, nil
}

func cloneProfile(p *Profile) Profile {
	out := *p
	out.Recommendations = copyStrings(p.Recommendations)
	out.Insights = make([]Insight, len(p.Insights))
	for i, in := range p.Insights {
		in.DevelopmentAreas = copyStrings(in.DevelopmentAreas)
		out.Insights[i] = in
	}
	return out
}
