// Package scraper fetches a single web page and extracts the
// SEO-relevant structure the analyzer consumes.
package scraper

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// Options configures a Scraper.
type Options struct {
	UserAgent        string
	Timeout          time.Duration
	MaxContentLength int
}

// DefaultOptions returns the default scraper configuration.
func DefaultOptions() Options {
	return Options{
		UserAgent:        "SEO-Analyzer-Bot/1.0",
		Timeout:          30 * time.Second,
		MaxContentLength: 10000,
	}
}

// Scraper fetches pages over HTTP and turns them into PageData.
type Scraper struct {
	client  *http.Client
	options Options
}

// New creates a Scraper with a pooled transport.
func New(options Options) *Scraper {
	if options.Timeout <= 0 {
		options.Timeout = DefaultOptions().Timeout
	}
	if options.MaxContentLength <= 0 {
		options.MaxContentLength = DefaultOptions().MaxContentLength
	}
	if options.UserAgent == "" {
		options.UserAgent = DefaultOptions().UserAgent
	}

	transport := &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
		DisableCompression:  false,
	}

	return &Scraper{
		client: &http.Client{
			Timeout:   options.Timeout,
			Transport: transport,
		},
		options: options,
	}
}

// NormalizeURL prepends https:// when the URL has no scheme.
func NormalizeURL(rawURL string) string {
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return "https://" + rawURL
	}
	return rawURL
}

// Fetch retrieves the URL and extracts its PageData. It returns an
// error for network failures, non-2xx statuses and non-HTML content;
// in that case analysis must not run.
func (s *Scraper) Fetch(ctx context.Context, rawURL string) (*PageData, error) {
	rawURL = NormalizeURL(rawURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("error fetching URL: %w", err)
	}
	req.Header.Set("User-Agent", s.options.UserAgent)

	start := time.Now()
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error fetching URL: %w", err)
	}
	defer resp.Body.Close()
	responseTime := time.Since(start)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("error fetching URL: status %d", resp.StatusCode)
	}

	contentType := strings.ToLower(resp.Header.Get("Content-Type"))
	if !strings.Contains(contentType, "text/html") {
		return nil, fmt.Errorf("URL does not return HTML content")
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error fetching URL: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("error parsing HTML: %w", err)
	}

	description, descriptionFound := extractMetaDescription(doc)

	data := &PageData{
		URL:                  rawURL,
		Title:                strings.TrimSpace(doc.Find("title").First().Text()),
		MetaDescription:      description,
		MetaDescriptionFound: descriptionFound,
		MetaKeywords:         extractMetaKeywords(doc),
		Headers:              extractHeaders(doc),
		Content:              truncate(extractMainContent(doc), s.options.MaxContentLength),
		Links:                extractLinks(doc, rawURL),
		Images:               extractImages(doc),
		StatusCode:           resp.StatusCode,
		ResponseTime:         responseTime.Seconds(),
	}

	return data, nil
}

func extractMetaDescription(doc *goquery.Document) (string, bool) {
	if content, exists := doc.Find("meta[name='description']").Attr("content"); exists {
		return strings.TrimSpace(content), true
	}
	return NoMetaDescription, false
}

func extractMetaKeywords(doc *goquery.Document) string {
	if content, exists := doc.Find("meta[name='keywords']").Attr("content"); exists {
		return strings.TrimSpace(content)
	}
	return NoMetaKeywords
}

func extractHeaders(doc *goquery.Document) map[string][]string {
	headers := make(map[string][]string, 6)
	for level := 1; level <= 6; level++ {
		tag := fmt.Sprintf("h%d", level)
		texts := []string{}
		doc.Find(tag).Each(func(_ int, sel *goquery.Selection) {
			texts = append(texts, strings.TrimSpace(sel.Text()))
		})
		headers[tag] = texts
	}
	return headers
}

// extractMainContent returns the visible text of the page's main
// region with chrome (scripts, styles, navigation, footer, header)
// stripped and whitespace collapsed to single spaces.
func extractMainContent(doc *goquery.Document) string {
	doc.Find("script, style, nav, footer, header").Remove()

	region := doc.Find("main").First()
	if region.Length() == 0 {
		region = doc.Find("article").First()
	}
	if region.Length() == 0 {
		region = doc.Find("body").First()
	}
	if region.Length() == 0 {
		return ""
	}

	return strings.Join(strings.Fields(region.Text()), " ")
}

func extractLinks(doc *goquery.Document, baseURL string) []Link {
	base, err := url.Parse(baseURL)
	if err != nil {
		base = nil
	}

	links := []Link{}
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		fullURL := href
		if base != nil {
			if ref, err := url.Parse(href); err == nil {
				fullURL = base.ResolveReference(ref).String()
			}
		}

		text := strings.TrimSpace(sel.Text())
		if len(text) > 100 {
			text = text[:100]
		}

		links = append(links, Link{
			Text:       text,
			URL:        fullURL,
			IsInternal: isInternalURL(fullURL, base),
		})
	})
	return links
}

func isInternalURL(rawURL string, base *url.URL) bool {
	if base == nil {
		return false
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return u.Host == base.Host || u.Host == ""
}

func extractImages(doc *goquery.Document) []Image {
	images := []Image{}
	doc.Find("img[src]").Each(func(_ int, sel *goquery.Selection) {
		src, _ := sel.Attr("src")
		alt, _ := sel.Attr("alt")
		images = append(images, Image{
			Src:    src,
			Alt:    alt,
			HasAlt: strings.TrimSpace(alt) != "",
		})
	})
	return images
}

func truncate(s string, max int) string {
	if max <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
