// internal/disc/questions.go
package disc

// OptionCount is the number of response options every question carries.
const OptionCount = 4

// Question is a static assessment item.
type Question struct {
	ID       string              `json:"id"`
	Category Trait               `json:"category"`
	Text     string              `json:"text"`
	Options  [OptionCount]string `json:"options"`
}

// Answer is the option a user picked for one question.
type Answer struct {
	QuestionID     string `json:"questionId"`
	SelectedOption int    `json:"selectedOption"`
}

// Options are ordered so that option k leans towards AllTraits[k]; see weightTable.
var questionBank = []Question{
	{
		ID:       "q1",
		Category: TraitD,
		Text:     "When a decision has to be made under pressure, you usually:",
		Options: [OptionCount]string{
			"Take charge and decide quickly",
			"Rally people around an idea and build enthusiasm",
			"Listen to everyone and look for consensus",
			"Gather data and analyze the alternatives before choosing",
		},
	},
	{
		ID:       "q2",
		Category: TraitI,
		Text:     "In a team meeting, you tend to:",
		Options: [OptionCount]string{
			"Steer the discussion towards results",
			"Share ideas and energize the group",
			"Support colleagues and keep the atmosphere calm",
			"Ask precise questions and check the details",
		},
	},
	{
		ID:       "q3",
		Category: TraitS,
		Text:     "When your routine changes unexpectedly, you:",
		Options: [OptionCount]string{
			"See it as a chance to push things forward",
			"Talk it through with others and adapt on the go",
			"Prefer to adjust gradually and keep stability",
			"Want to understand the reasons and the new rules first",
		},
	},
	{
		ID:       "q4",
		Category: TraitC,
		Text:     "When starting a new project, your first step is to:",
		Options: [OptionCount]string{
			"Set ambitious goals and deadlines",
			"Get people excited about the vision",
			"Make sure everyone knows their role and feels comfortable",
			"Plan every stage and define quality criteria",
		},
	},
	{
		ID:       "q5",
		Category: TraitD,
		Text:     "When facing a conflict at work, you:",
		Options: [OptionCount]string{
			"Confront the issue directly",
			"Use humor and persuasion to ease tension",
			"Mediate and look for harmony",
			"Rely on facts, policies and objective criteria",
		},
	},
	{
		ID:       "q6",
		Category: TraitI,
		Text:     "What motivates you most at work?",
		Options: [OptionCount]string{
			"Challenges and winning",
			"Recognition and social interaction",
			"Security and a cooperative environment",
			"Accuracy and doing things the right way",
		},
	},
}

var questionIndex = func() map[string]Question {
	idx := make(map[string]Question, len(questionBank))
	for _, q := range questionBank {
		idx[q.ID] = q
	}
	return idx
}()

// Questions returns a copy of the question bank in presentation order.
func Questions() []Question {
	out := make([]Question, len(questionBank))
	copy(out, questionBank)
	return out
}

// QuestionByID looks up a question in the bank.
func QuestionByID(id string) (Question, bool) {
	q, ok := questionIndex[id]
	return q, ok
}

// QuestionCount is the number of items a complete assessment answers.
func QuestionCount() int {
	return len(questionBank)
}
