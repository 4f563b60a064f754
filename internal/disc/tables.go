// internal/disc/tables.go
package disc

// Static lookup tables. Every table is keyed by the closed Trait set and is
// read through the accessors at the bottom of this file.

// weightTable[t][k] is what trait t accumulates when option k is selected,
// whatever the question category. Each option row sums to 10.
var weightTable = map[Trait][OptionCount]int{
	TraitD: {4, 3, 2, 1},
	TraitI: {3, 4, 1, 2},
	TraitS: {2, 1, 4, 3},
	TraitC: {1, 2, 3, 4},
}

var styleNames = map[Trait]string{
	TraitD: "Dominance",
	TraitI: "Influence",
	TraitS: "Steadiness",
	TraitC: "Conscientiousness",
}

var styleColors = map[Trait]string{
	TraitD: "#EF4444",
	TraitI: "#F59E0B",
	TraitS: "#10B981",
	TraitC: "#3B82F6",
}

var insightCategories = map[Trait]string{
	TraitD: "Leadership",
	TraitI: "Communication",
	TraitS: "Collaboration",
	TraitC: "Analytical Thinking",
}

type band int

const (
	bandLow band = iota
	bandMedium
	bandHigh
)

var insightDescriptions = map[Trait][3]string{
	TraitD: {
		bandLow:    "Prefers to follow established direction and share decisions with others.",
		bandMedium: "Takes the lead when the situation calls for it and balances assertiveness with listening.",
		bandHigh:   "Natural leader who takes initiative, decides quickly and drives teams towards results.",
	},
	TraitI: {
		bandLow:    "Communicates in a reserved, objective way and prefers written or one-to-one exchanges.",
		bandMedium: "Communicates clearly and adapts the tone to the audience when needed.",
		bandHigh:   "Highly persuasive communicator who inspires and mobilizes people with enthusiasm.",
	},
	TraitS: {
		bandLow:    "Works best independently and is comfortable with frequent change.",
		bandMedium: "Cooperates well and keeps a steady pace while accepting reasonable change.",
		bandHigh:   "Reliable team player who brings stability, patience and support to the group.",
	},
	TraitC: {
		bandLow:    "Favors speed and intuition over detailed analysis.",
		bandMedium: "Checks the important details and follows standards where they matter.",
		bandHigh:   "Rigorous analyst who values accuracy, quality and well-founded decisions.",
	},
}

// developmentAreas[t][0] applies below 50, [1] at 50 and above.
var developmentAreas = map[Trait][2][]string{
	TraitD: {
		{"Assertiveness in decision making", "Taking initiative in new projects", "Leading small groups"},
		{"Active listening", "Delegating with trust", "Patience with different working rhythms"},
	},
	TraitI: {
		{"Public speaking", "Networking", "Sharing ideas in meetings"},
		{"Follow-through on commitments", "Focus on details", "Time management"},
	},
	TraitS: {
		{"Patience in long-running tasks", "Team cooperation", "Consistency in routines"},
		{"Adapting to change", "Expressing disagreement", "Saying no when needed"},
	},
	TraitC: {
		{"Attention to detail", "Planning and organization", "Following quality standards"},
		{"Flexibility with imperfect information", "Speed of decision making", "Tolerance for ambiguity"},
	},
}

var aiPredictions = map[Trait][3]string{
	TraitD: {
		bandLow:    "Likely to thrive in supporting roles where direction is clearly defined.",
		bandMedium: "Shows potential to take on team leadership responsibilities within 12 months.",
		bandHigh:   "Strong candidate for leadership positions and high-stakes decision making roles.",
	},
	TraitI: {
		bandLow:    "Likely to perform best in focused roles with limited public exposure.",
		bandMedium: "Can grow into client-facing or team communication roles with some coaching.",
		bandHigh:   "High potential for roles in sales, client relations and internal communication.",
	},
	TraitS: {
		bandLow:    "Likely to stand out in dynamic environments with frequent change.",
		bandMedium: "Expected to be a dependable contributor in cross-functional teams.",
		bandHigh:   "Strong fit for support, operations and long-term relationship roles.",
	},
	TraitC: {
		bandLow:    "Likely to prefer fast-moving work where perfection is not the main goal.",
		bandMedium: "Can take on quality and process responsibilities with proper guidance.",
		bandHigh:   "High potential for analytical, compliance and quality assurance roles.",
	},
}

var recommendationTable = map[Trait][]string{
	TraitD: {
		"Practice active listening before making decisions",
		"Delegate responsibilities and trust the team's autonomy",
		"Develop patience with slower-paced processes",
		"Give constructive feedback in a supportive way",
	},
	TraitI: {
		"Use agendas and checklists to stay focused on priorities",
		"Follow through on commitments before starting new ones",
		"Base proposals on data as well as enthusiasm",
		"Reserve time for individual, focused work",
	},
	TraitS: {
		"Practice expressing opinions and disagreement openly",
		"Volunteer for projects that involve change",
		"Set boundaries and learn to say no",
		"Take the initiative in decisions that affect your work",
	},
	TraitC: {
		"Accept good-enough solutions when deadlines are tight",
		"Share partial results early to get feedback",
		"Invest in relationship building with colleagues",
		"Make decisions even with incomplete information",
	},
}

var careerTable = map[Trait][]string{
	TraitD: {"Executive Manager", "Project Director", "Entrepreneur", "Sales Manager", "Operations Lead"},
	TraitI: {"Marketing Specialist", "Sales Representative", "Public Relations", "Trainer", "Customer Success Manager"},
	TraitS: {"Human Resources Analyst", "Customer Support", "Nurse", "Administrative Coordinator", "Team Facilitator"},
	TraitC: {"Data Analyst", "Accountant", "Quality Engineer", "Software Developer", "Auditor"},
}

var teamCompatibilityTable = map[Trait]string{
	TraitD: "Works best with Steadiness and Conscientiousness profiles, who balance speed with stability and careful analysis.",
	TraitI: "Works best with Conscientiousness and Dominance profiles, who add structure and focus on results.",
	TraitS: "Works best with Influence and Dominance profiles, who bring energy and drive change forward.",
	TraitC: "Works best with Influence and Steadiness profiles, who bring communication skills and team cohesion.",
}

var leadershipTable = map[Trait]string{
	TraitD: "Directive leadership: sets clear goals, decides fast and holds the team accountable for results.",
	TraitI: "Inspirational leadership: motivates through vision, recognition and an energetic team climate.",
	TraitS: "Supportive leadership: builds trust, develops people and keeps the team stable and cooperative.",
	TraitC: "Methodical leadership: leads by expertise, clear processes and high quality standards.",
}

var communicationTable = map[Trait][]string{
	TraitD: {"Direct and to the point", "Focused on results", "Brief meetings with clear decisions"},
	TraitI: {"Open and enthusiastic", "Face-to-face conversations", "Room for ideas and brainstorming"},
	TraitS: {"Calm and friendly", "One-to-one conversations", "Time to process before responding"},
	TraitC: {"Detailed and precise", "Written documentation", "Facts and data over opinions"},
}

var stressTable = map[Trait][]string{
	TraitD: {"Loss of control", "Slow progress", "Indecision from others"},
	TraitI: {"Social rejection", "Repetitive tasks", "Excessive detail and bureaucracy"},
	TraitS: {"Sudden changes", "Open conflict", "Insecurity about the future"},
	TraitC: {"Criticism of their work", "Lack of clear rules", "Pressure to decide without information"},
}

// lookup tables accessors

func lookup[V any](table map[Trait]V, t Trait) (V, error) {
	v, ok := table[t]
	if !ok {
		var zero V
		return zero, &UnknownStyleError{Trait: t}
	}
	return v, nil
}

// StyleName returns the human readable name of a trait.
func StyleName(t Trait) (string, error) { return lookup(styleNames, t) }

// StyleColor returns the hex color associated with a trait.
func StyleColor(t Trait) (string, error) { return lookup(styleColors, t) }

// InsightCategory returns the insight label used for a trait.
func InsightCategory(t Trait) (string, error) { return lookup(insightCategories, t) }

// OptionWeight returns how much trait t gains when option k is picked.
func OptionWeight(t Trait, option int) (int, error) {
	row, err := lookup(weightTable, t)
	if err != nil {
		return 0, err
	}
	if option < 0 || option >= OptionCount {
		return 0, &InvalidAnswerError{OptionIndex: option, Reason: "option index out of range"}
	}
	return row[option], nil
}

func copyStrings(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}
