// Package analyzer scores a fetched page snapshot against fixed SEO
// heuristics. It is pure: no I/O, no randomness, the same PageData
// always produces the same Result.
package analyzer

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/seo-agent/backend/scraper"
)

const (
	titleMinLength       = 50
	titleMaxLength       = 60
	descriptionMinLength = 120
	descriptionMaxLength = 160
	minWordCount         = 300
	maxAvgSentenceLength = 25
	minAltPercentage     = 90
	minInternalPercent   = 20
	slowResponseSeconds  = 3

	issuePenalty   = 2
	wordCountBonus = 5
	altTextBonus   = 5
)

// commonKeywords is the fixed vocabulary scanned for keyword density.
// Occurrences are counted as substrings, not whole words.
var commonKeywords = []string{"seo", "website", "page", "content", "digital", "marketing"}

var sentenceSplitter = regexp.MustCompile(`[.!?]+`)

// Analyze produces the full SEO diagnosis for one page snapshot.
func Analyze(page *scraper.PageData) *Result {
	result := &Result{
		BasicMetrics:    basicMetrics(page),
		Title:           analyzeTitle(page.Title),
		MetaDescription: analyzeMetaDescription(page.MetaDescription),
		Content:         analyzeContent(page.Content),
		Headers:         analyzeHeaders(page.Headers),
		Images:          analyzeImages(page.Images),
		Links:           analyzeLinks(page.Links),
		Technical:       analyzeTechnical(page),
	}
	result.Score = calculateScore(result)
	return result
}

func basicMetrics(page *scraper.PageData) BasicMetrics {
	return BasicMetrics{
		WordCount:         len(strings.Fields(page.Content)),
		TitleLength:       utf8.RuneCountInString(page.Title),
		DescriptionLength: utf8.RuneCountInString(page.MetaDescription),
		ImageCount:        len(page.Images),
		LinkCount:         len(page.Links),
		ResponseTime:      page.ResponseTime,
	}
}

func analyzeTitle(title string) TitleAnalysis {
	length := utf8.RuneCountInString(title)
	analysis := TitleAnalysis{
		Current: title,
		Length:  length,
		Optimal: length >= titleMinLength && length <= titleMaxLength,
		Issues:  []string{},
	}

	if length < titleMinLength {
		analysis.Issues = append(analysis.Issues,
			fmt.Sprintf("Title too short (%d chars). Aim for 50-60 characters.", length))
	} else if length > titleMaxLength {
		analysis.Issues = append(analysis.Issues,
			fmt.Sprintf("Title too long (%d chars). Aim for 50-60 characters.", length))
	}

	// An empty title is flagged twice: too short and missing.
	if title == "" {
		analysis.Issues = append(analysis.Issues, "Missing title tag")
	}

	return analysis
}

func analyzeMetaDescription(description string) DescriptionAnalysis {
	length := utf8.RuneCountInString(description)
	analysis := DescriptionAnalysis{
		Current: description,
		Length:  length,
		Optimal: length >= descriptionMinLength && length <= descriptionMaxLength,
		Issues:  []string{},
	}

	if length < descriptionMinLength {
		analysis.Issues = append(analysis.Issues,
			fmt.Sprintf("Description too short (%d chars). Aim for 120-160 characters.", length))
	} else if length > descriptionMaxLength {
		analysis.Issues = append(analysis.Issues,
			fmt.Sprintf("Description too long (%d chars). Aim for 120-160 characters.", length))
	}

	if description == "" || description == scraper.NoMetaDescription {
		analysis.Issues = append(analysis.Issues, "Missing meta description")
	}

	return analysis
}

func analyzeContent(content string) ContentAnalysis {
	words := strings.Fields(content)
	wordCount := len(words)

	// Sentence fragments are not filtered: a trailing terminator
	// yields one extra empty fragment, matching the splitter this
	// scoring was calibrated against.
	sentences := sentenceSplitter.Split(content, -1)
	avgSentenceLength := round1(float64(wordCount) / float64(max(len(sentences), 1)))

	textLower := strings.ToLower(content)
	keywordDensity := make(map[string]float64)
	for _, keyword := range commonKeywords {
		count := strings.Count(textLower, keyword)
		if count > 0 {
			keywordDensity[keyword] = round2(float64(count) / float64(wordCount) * 100)
		}
	}

	analysis := ContentAnalysis{
		WordCount:         wordCount,
		AvgSentenceLength: avgSentenceLength,
		KeywordDensity:    keywordDensity,
		Issues:            []string{},
	}

	if wordCount < minWordCount {
		analysis.Issues = append(analysis.Issues,
			fmt.Sprintf("Content too short (%d words). Aim for at least 300 words.", wordCount))
	}
	if avgSentenceLength > maxAvgSentenceLength {
		analysis.Issues = append(analysis.Issues,
			fmt.Sprintf("Sentences may be too long (avg: %.1f words).", avgSentenceLength))
	}

	return analysis
}

func analyzeHeaders(headers map[string][]string) HeaderAnalysis {
	analysis := HeaderAnalysis{
		Structure: make(map[string]int, 6),
		Issues:    []string{},
	}

	h1Count := len(headers["h1"])
	if h1Count == 0 {
		analysis.Issues = append(analysis.Issues, "Missing H1 tag")
	} else if h1Count > 1 {
		analysis.Issues = append(analysis.Issues,
			fmt.Sprintf("Multiple H1 tags found (%d)", h1Count))
	}

	for level := 1; level <= 6; level++ {
		tag := fmt.Sprintf("h%d", level)
		analysis.Structure[tag] = len(headers[tag])
	}

	if h1Count == 0 {
		for level := 2; level <= 6; level++ {
			if len(headers[fmt.Sprintf("h%d", level)]) > 0 {
				analysis.Issues = append(analysis.Issues,
					"Header hierarchy issue: Using H2+ without H1")
				break
			}
		}
	}

	return analysis
}

func analyzeImages(images []scraper.Image) ImageAnalysis {
	totalImages := len(images)
	imagesWithAlt := 0
	for _, img := range images {
		if img.HasAlt {
			imagesWithAlt++
		}
	}

	altPercentage := 0.0
	if totalImages > 0 {
		altPercentage = float64(imagesWithAlt) / float64(totalImages) * 100
	}

	analysis := ImageAnalysis{
		TotalImages:   totalImages,
		ImagesWithAlt: imagesWithAlt,
		AltPercentage: round1(altPercentage),
		Issues:        []string{},
	}

	if totalImages > 0 && analysis.AltPercentage < minAltPercentage {
		analysis.Issues = append(analysis.Issues,
			fmt.Sprintf("Only %.1f%% of images have alt text", analysis.AltPercentage))
	}

	return analysis
}

func analyzeLinks(links []scraper.Link) LinkAnalysis {
	totalLinks := len(links)
	internalLinks := 0
	emptyLinkTexts := 0
	for _, link := range links {
		if link.IsInternal {
			internalLinks++
		}
		if strings.TrimSpace(link.Text) == "" {
			emptyLinkTexts++
		}
	}

	analysis := LinkAnalysis{
		TotalLinks:     totalLinks,
		InternalLinks:  internalLinks,
		ExternalLinks:  totalLinks - internalLinks,
		EmptyLinkTexts: emptyLinkTexts,
		Issues:         []string{},
	}

	if emptyLinkTexts > 0 {
		analysis.Issues = append(analysis.Issues,
			fmt.Sprintf("%d links with empty anchor text", emptyLinkTexts))
	}

	if totalLinks > 0 {
		internalPercentage := float64(internalLinks) / float64(totalLinks) * 100
		if internalPercentage < minInternalPercent {
			analysis.Issues = append(analysis.Issues,
				fmt.Sprintf("Low internal linking (%.1f%%)", internalPercentage))
		}
	}

	return analysis
}

func analyzeTechnical(page *scraper.PageData) TechnicalAnalysis {
	analysis := TechnicalAnalysis{
		ResponseTime: page.ResponseTime,
		Issues:       []string{},
	}

	if page.ResponseTime > slowResponseSeconds {
		analysis.Issues = append(analysis.Issues,
			fmt.Sprintf("Slow response time: %.2fs", page.ResponseTime))
	}

	return analysis
}

// calculateScore starts at 100, deducts 2 points per issue across all
// seven categories, adds flat bonuses for sufficient content and alt
// text coverage, and clamps to [0, 100].
func calculateScore(result *Result) int {
	score := 100

	for _, category := range result.Categories() {
		score -= len(category.Issues) * issuePenalty
	}

	if result.Content.WordCount >= minWordCount {
		score += wordCountBonus
	}
	// Zero images leave alt_percentage at 0, so the bonus never
	// applies to image-free pages.
	if result.Images.AltPercentage >= minAltPercentage {
		score += altTextBonus
	}

	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
