package agent

// Priority levels for recommendations.
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

// Recommendations is the advisory output for one analysis. It is
// built fresh per invocation, either from a model reply or from the
// deterministic fallback generator.
type Recommendations struct {
	Summary            string           `json:"summary"`
	Recommendations    []Recommendation `json:"recommendations"`
	QuickWins          []string         `json:"quick_wins"`
	LongTermStrategies []string         `json:"long_term_strategies"`
}

// Recommendation is one prioritized action item.
type Recommendation struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
}

// Message is one turn of the advisory chat.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatContext carries the current analysis state into a chat turn.
type ChatContext struct {
	URL        string
	Score      int
	HasScore   bool
	MainIssues []string
}
