package agent

import (
	"fmt"

	"github.com/seo-agent/backend/analyzer"
)

const maxFallbackIssues = 5

// FallbackRecommendations synthesizes recommendations from the
// analysis issues alone, without any language-model backend. A nil
// analysis (or one without issues) yields the default trio.
func FallbackRecommendations(analysis *analyzer.Result) *Recommendations {
	var issues []string
	if analysis != nil {
		for _, category := range analysis.Categories() {
			// First three issues per category, in category order.
			limit := min(len(category.Issues), 3)
			issues = append(issues, category.Issues[:limit]...)
		}
	}

	var recommendations []Recommendation
	if len(issues) > 0 {
		if len(issues) > maxFallbackIssues {
			issues = issues[:maxFallbackIssues]
		}
		for i, issue := range issues {
			priority := PriorityLow
			switch {
			case i < 2:
				priority = PriorityHigh
			case i < 4:
				priority = PriorityMedium
			}
			recommendations = append(recommendations, Recommendation{
				Title:       fmt.Sprintf("Address Issue %d", i+1),
				Description: issue,
				Priority:    priority,
			})
		}
	} else {
		recommendations = []Recommendation{
			{
				Title:       "Optimize Title Tag",
				Description: "Ensure title is 50-60 characters with primary keyword",
				Priority:    PriorityHigh,
			},
			{
				Title:       "Improve Meta Description",
				Description: "Write compelling meta description of 120-160 characters",
				Priority:    PriorityHigh,
			},
			{
				Title:       "Enhance Content",
				Description: "Aim for at least 300 words of quality, relevant content",
				Priority:    PriorityMedium,
			},
		}
	}

	return &Recommendations{
		Summary:         "Based on technical SEO analysis, here are the key recommendations for improvement.",
		Recommendations: recommendations,
		QuickWins: []string{
			"Fix meta tags if needed",
			"Add alt text to images without it",
			"Ensure fast page loading",
		},
		LongTermStrategies: []string{
			"Regular content updates and optimization",
			"Build quality backlinks",
		},
	}
}
