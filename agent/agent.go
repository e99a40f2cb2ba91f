// Package agent turns an SEO analysis into human-readable
// recommendations, phrased by a local Ollama model when one is
// available and by a deterministic fallback generator otherwise.
package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"regexp"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/seo-agent/backend/analyzer"
	"github.com/seo-agent/backend/ollama"
	"github.com/seo-agent/backend/scraper"
)

const maxDegenerateSummaryLen = 300

// jsonObjectPattern greedily matches the first '{' through the last
// '}' of a reply. Replies with prose around the JSON block still
// parse; replies with several top-level objects do not, and land on
// the degenerate path.
var jsonObjectPattern = regexp.MustCompile(`(?s)\{.*\}`)

// Agent generates SEO recommendations and answers follow-up
// questions. The configured model is never mutated: when it is not
// installed, each advisory call resolves an effective model instead.
type Agent struct {
	client  *ollama.Client
	model   string
	options ollama.GenerateOptions

	mu      sync.Mutex
	history []Message
}

// New creates an Agent using the given Ollama client and model.
func New(client *ollama.Client, model string, options ollama.GenerateOptions) *Agent {
	return &Agent{
		client:  client,
		model:   model,
		options: options,
	}
}

// Model returns the configured model name.
func (a *Agent) Model() string {
	return a.model
}

// AnalyzeAndAdvise produces recommendations for one analysis. The
// backend being unreachable, having no models, or returning nothing
// are not errors: those paths silently use the fallback generator.
// The second return value reports whether the fallback ran.
func (a *Agent) AnalyzeAndAdvise(ctx context.Context, page *scraper.PageData, analysis *analyzer.Result) (*Recommendations, bool) {
	model, ok := a.resolveModel(ctx)
	if !ok {
		return FallbackRecommendations(analysis), true
	}

	prompt := buildAnalysisPrompt(page, analysis)
	response := a.client.Generate(ctx, model, prompt, a.options)
	if response == "" {
		log.Println("No response from Ollama, using fallback recommendations")
		return FallbackRecommendations(analysis), true
	}

	return parseResponse(response), false
}

// resolveModel checks backend availability and returns the effective
// model for this call: the configured one when installed, otherwise
// the first available model.
func (a *Agent) resolveModel(ctx context.Context) (string, bool) {
	if !a.client.IsRunning(ctx) {
		log.Println("Ollama is not running, using fallback recommendations")
		return "", false
	}

	models, err := a.client.ListModels(ctx)
	if err != nil || len(models) == 0 {
		log.Println("No Ollama models available, using fallback recommendations")
		return "", false
	}

	for _, m := range models {
		if m == a.model {
			return m, true
		}
	}

	log.Printf("Model %s not found, switching to %s for this request", a.model, models[0])
	return models[0], true
}

// Chat answers a follow-up question, optionally grounded in the
// current analysis context. The exchange is appended to the agent's
// conversation history.
func (a *Agent) Chat(ctx context.Context, input string, chatCtx *ChatContext) string {
	if !a.client.IsRunning(ctx) {
		return "Ollama is not running. Please start Ollama with: `ollama serve`"
	}

	prompt := fmt.Sprintf("You are an SEO expert assistant. %s\n\nUser: %s\n\nSEO Expert: ",
		buildChatContext(chatCtx), input)

	response := a.client.Generate(ctx, a.model, prompt, a.options)
	if response == "" {
		response = "I apologize, but I couldn't generate a response at the moment."
	}

	a.mu.Lock()
	a.history = append(a.history,
		Message{Role: "user", Content: input},
		Message{Role: "assistant", Content: response})
	a.mu.Unlock()

	return response
}

// History returns a copy of the conversation so far.
func (a *Agent) History() []Message {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]Message(nil), a.history...)
}

// ClearHistory drops the conversation history.
func (a *Agent) ClearHistory() {
	a.mu.Lock()
	a.history = nil
	a.mu.Unlock()
}

func buildChatContext(chatCtx *ChatContext) string {
	if chatCtx == nil {
		return ""
	}
	context := fmt.Sprintf("Context: Analyzing website %s", orNA(chatCtx.URL))
	if chatCtx.HasScore {
		context += fmt.Sprintf(" with SEO score %d/100", chatCtx.Score)
	}
	return context
}

// buildAnalysisPrompt enumerates the page facts and every issue found,
// and asks for a structured JSON reply.
func buildAnalysisPrompt(page *scraper.PageData, analysis *analyzer.Result) string {
	var issues []string
	for _, category := range analysis.Categories() {
		for _, issue := range category.Issues {
			issues = append(issues, fmt.Sprintf("%s: %s", categoryLabel(category.Key), issue))
		}
	}

	issuesText := "No major issues found"
	if len(issues) > 0 {
		issuesText = strings.Join(issues, "\n")
	}

	return fmt.Sprintf(`As an expert SEO consultant, analyze this website and provide specific recommendations.

Website Analysis Data:
- URL: %s
- Title: %s (Length: %d chars)
- Meta Description: %s (Length: %d chars)
- Content Word Count: %d
- Overall SEO Score: %d/100

Issues Identified:
%s

Please provide recommendations in this JSON format:
{
  "summary": "Brief summary of the analysis",
  "recommendations": [
    {"title": "Recommendation 1", "description": "Detailed description", "priority": "high/medium/low"}
  ],
  "quick_wins": ["Quick fix 1", "Quick fix 2"],
  "long_term_strategies": ["Long-term strategy 1", "Long-term strategy 2"]
}

Response:`,
		orNA(page.URL),
		orNA(page.Title), utf8.RuneCountInString(page.Title),
		orNA(page.MetaDescription), utf8.RuneCountInString(page.MetaDescription),
		analysis.Content.WordCount,
		analysis.Score,
		issuesText)
}

// categoryLabel turns a category key into its human-readable form:
// "meta_description_analysis" becomes "Meta Description".
func categoryLabel(key string) string {
	name := strings.TrimSuffix(key, "_analysis")
	words := strings.Split(name, "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return strings.Join(words, " ")
}

// parseResponse extracts the recommendations record from a raw model
// reply. A reply without a parsable JSON object degrades to a summary
// of the raw text; a brace window that fails to unmarshal degrades to
// the fallback generator with no analysis.
func parseResponse(response string) *Recommendations {
	match := jsonObjectPattern.FindString(response)
	if match == "" {
		return &Recommendations{
			Summary: truncateRunes(response, maxDegenerateSummaryLen),
			Recommendations: []Recommendation{{
				Title:       "Review Analysis",
				Description: "Review the detailed analysis above",
				Priority:    PriorityMedium,
			}},
			QuickWins:          []string{"Check meta tags", "Review content"},
			LongTermStrategies: []string{"Regular SEO audits", "Content optimization"},
		}
	}

	var recs Recommendations
	if err := json.Unmarshal([]byte(match), &recs); err != nil {
		log.Printf("Could not parse JSON response: %v", err)
		return FallbackRecommendations(nil)
	}
	return &recs
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

func truncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
