package analyzer

// Result is the complete SEO diagnosis of one page snapshot. It is a
// pure projection of the PageData it was computed from: analyzing the
// same snapshot twice yields an identical Result.
type Result struct {
	BasicMetrics    BasicMetrics        `json:"basic_metrics"`
	Title           TitleAnalysis       `json:"title_analysis"`
	MetaDescription DescriptionAnalysis `json:"meta_description_analysis"`
	Content         ContentAnalysis     `json:"content_analysis"`
	Headers         HeaderAnalysis      `json:"header_analysis"`
	Images          ImageAnalysis       `json:"image_analysis"`
	Links           LinkAnalysis        `json:"link_analysis"`
	Technical       TechnicalAnalysis   `json:"technical_seo"`
	Score           int                 `json:"score"`
}

// BasicMetrics are informational counts derived directly from the
// page. They do not contribute to the score.
type BasicMetrics struct {
	WordCount         int     `json:"word_count"`
	TitleLength       int     `json:"title_length"`
	DescriptionLength int     `json:"description_length"`
	ImageCount        int     `json:"image_count"`
	LinkCount         int     `json:"link_count"`
	ResponseTime      float64 `json:"response_time"`
}

type TitleAnalysis struct {
	Current string   `json:"current"`
	Length  int      `json:"length"`
	Optimal bool     `json:"optimal"`
	Issues  []string `json:"issues"`
}

type DescriptionAnalysis struct {
	Current string   `json:"current"`
	Length  int      `json:"length"`
	Optimal bool     `json:"optimal"`
	Issues  []string `json:"issues"`
}

type ContentAnalysis struct {
	WordCount         int                `json:"word_count"`
	AvgSentenceLength float64            `json:"avg_sentence_length"`
	KeywordDensity    map[string]float64 `json:"keyword_density"`
	Issues            []string           `json:"issues"`
}

type HeaderAnalysis struct {
	Structure map[string]int `json:"structure"`
	Issues    []string       `json:"issues"`
}

type ImageAnalysis struct {
	TotalImages   int      `json:"total_images"`
	ImagesWithAlt int      `json:"images_with_alt"`
	AltPercentage float64  `json:"alt_percentage"`
	Issues        []string `json:"issues"`
}

type LinkAnalysis struct {
	TotalLinks     int      `json:"total_links"`
	InternalLinks  int      `json:"internal_links"`
	ExternalLinks  int      `json:"external_links"`
	EmptyLinkTexts int      `json:"empty_link_texts"`
	Issues         []string `json:"issues"`
}

type TechnicalAnalysis struct {
	ResponseTime float64  `json:"response_time"`
	Issues       []string `json:"issues"`
}

// Category pairs a category key with its issue list.
type Category struct {
	Key    string
	Issues []string
}

// Categories returns the seven scored categories in declaration
// order. Consumers that enumerate issues (scoring, prompts, fallback
// recommendations) rely on this order being stable.
func (r *Result) Categories() []Category {
	return []Category{
		{"title_analysis", r.Title.Issues},
		{"meta_description_analysis", r.MetaDescription.Issues},
		{"content_analysis", r.Content.Issues},
		{"header_analysis", r.Headers.Issues},
		{"image_analysis", r.Images.Issues},
		{"link_analysis", r.Links.Issues},
		{"technical_seo", r.Technical.Issues},
	}
}

// TotalIssues counts issues across all categories.
func (r *Result) TotalIssues() int {
	total := 0
	for _, c := range r.Categories() {
		total += len(c.Issues)
	}
	return total
}
