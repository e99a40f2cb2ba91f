package scraper

// Sentinel values kept for compatibility with older report consumers.
// New code should check MetaDescriptionFound instead of comparing
// against NoMetaDescription.
const (
	NoMetaDescription = "No meta description"
	NoMetaKeywords    = "No meta keywords"
)

// PageData is the normalized snapshot of a fetched page's SEO-relevant
// structure. It is the input contract of the analyzer: every field is
// always populated, with the documented defaults when a tag is absent.
type PageData struct {
	URL                  string              `json:"url"`
	Title                string              `json:"title"`
	MetaDescription      string              `json:"meta_description"`
	MetaDescriptionFound bool                `json:"meta_description_found"`
	MetaKeywords         string              `json:"meta_keywords"`
	Headers              map[string][]string `json:"headers"`
	Content              string              `json:"content"`
	Links                []Link              `json:"links"`
	Images               []Image             `json:"images"`
	StatusCode           int                 `json:"status_code"`
	ResponseTime         float64             `json:"response_time"`
}

// Link is one anchor found on the page.
type Link struct {
	Text       string `json:"text"`
	URL        string `json:"url"`
	IsInternal bool   `json:"is_internal"`
}

// Image is one img tag found on the page.
type Image struct {
	Src    string `json:"src"`
	Alt    string `json:"alt"`
	HasAlt bool   `json:"has_alt"`
}
