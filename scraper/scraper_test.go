package scraper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"
)

const fixtureHTML = `<!DOCTYPE html>
<html>
<head>
<title> Test Page Title </title>
<meta name="description" content=" A test description ">
<meta name="keywords" content="testing, go">
</head>
<body>
<header><a href="/chrome-link">chrome</a></header>
<nav>navigation text</nav>
<main>
<h1>Main Heading</h1>
<h2>Sub One</h2>
<h2>Sub Two</h2>
<p>Some body text about testing.</p>
<a href="/about">About</a>
<a href="https://other.example.org/page">External</a>
<a href="/empty">   </a>
<img src="a.png" alt="described">
<img src="b.png">
</main>
<footer>footer text</footer>
<script>var hidden = 1;</script>
</body>
</html>`

func newFixtureServer(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(fixtureHTML))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestFetchExtraction(t *testing.T) {
	server := newFixtureServer(t)
	s := New(DefaultOptions())

	page, err := s.Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}

	if page.Title != "Test Page Title" {
		t.Errorf("title = %q", page.Title)
	}
	if page.MetaDescription != "A test description" || !page.MetaDescriptionFound {
		t.Errorf("meta description = %q (found=%v)", page.MetaDescription, page.MetaDescriptionFound)
	}
	if page.MetaKeywords != "testing, go" {
		t.Errorf("meta keywords = %q", page.MetaKeywords)
	}
	if page.StatusCode != http.StatusOK {
		t.Errorf("status code = %d", page.StatusCode)
	}
	if page.ResponseTime <= 0 {
		t.Errorf("response time = %v, want > 0", page.ResponseTime)
	}
}

func TestFetchHeaders(t *testing.T) {
	server := newFixtureServer(t)
	page, err := New(DefaultOptions()).Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}

	if got := page.Headers["h1"]; len(got) != 1 || got[0] != "Main Heading" {
		t.Errorf("h1 = %v", got)
	}
	if got := page.Headers["h2"]; len(got) != 2 || got[0] != "Sub One" || got[1] != "Sub Two" {
		t.Errorf("h2 = %v", got)
	}
	// Absent levels are present as empty sequences.
	for _, level := range []string{"h3", "h4", "h5", "h6"} {
		if got, ok := page.Headers[level]; !ok || len(got) != 0 {
			t.Errorf("%s = %v, want empty", level, got)
		}
	}
}

func TestFetchContentStripsChrome(t *testing.T) {
	server := newFixtureServer(t)
	page, err := New(DefaultOptions()).Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}

	if !strings.Contains(page.Content, "Some body text about testing.") {
		t.Errorf("content missing body text: %q", page.Content)
	}
	for _, excluded := range []string{"navigation text", "footer text", "var hidden"} {
		if strings.Contains(page.Content, excluded) {
			t.Errorf("content should not contain %q", excluded)
		}
	}
}

func TestFetchLinks(t *testing.T) {
	server := newFixtureServer(t)
	page, err := New(DefaultOptions()).Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}

	// The header link is stripped with the page chrome; three links
	// remain from the main region.
	if len(page.Links) != 3 {
		t.Fatalf("links = %+v, want 3", page.Links)
	}

	about := page.Links[0]
	if about.Text != "About" || !about.IsInternal {
		t.Errorf("about link = %+v", about)
	}
	if !strings.HasPrefix(about.URL, server.URL) {
		t.Errorf("relative link not resolved: %q", about.URL)
	}

	external := page.Links[1]
	if external.IsInternal {
		t.Errorf("external link flagged internal: %+v", external)
	}

	if page.Links[2].Text != "" {
		t.Errorf("whitespace anchor text should trim to empty, got %q", page.Links[2].Text)
	}
}

func TestFetchImages(t *testing.T) {
	server := newFixtureServer(t)
	page, err := New(DefaultOptions()).Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}

	if len(page.Images) != 2 {
		t.Fatalf("images = %+v, want 2", page.Images)
	}
	if !page.Images[0].HasAlt || page.Images[0].Alt != "described" {
		t.Errorf("first image = %+v", page.Images[0])
	}
	if page.Images[1].HasAlt {
		t.Errorf("second image should have no alt: %+v", page.Images[1])
	}
}

func TestFetchMissingMetaDescription(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<html><head><title>t</title></head><body></body></html>`))
	}))
	defer server.Close()

	page, err := New(DefaultOptions()).Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}

	if page.MetaDescription != NoMetaDescription {
		t.Errorf("meta description = %q, want sentinel", page.MetaDescription)
	}
	if page.MetaDescriptionFound {
		t.Error("MetaDescriptionFound should be false")
	}
	if page.MetaKeywords != NoMetaKeywords {
		t.Errorf("meta keywords = %q, want sentinel", page.MetaKeywords)
	}
}

func TestFetchContentTruncation(t *testing.T) {
	server := newFixtureServer(t)
	options := DefaultOptions()
	options.MaxContentLength = 10

	page, err := New(options).Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if utf8.RuneCountInString(page.Content) > 10 {
		t.Errorf("content not truncated: %q", page.Content)
	}
}

func TestFetchNonHTML(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	if _, err := New(DefaultOptions()).Fetch(context.Background(), server.URL); err == nil {
		t.Error("expected error for non-HTML content")
	}
}

func TestFetchErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	if _, err := New(DefaultOptions()).Fetch(context.Background(), server.URL); err == nil {
		t.Error("expected error for 404 response")
	}
}

func TestNormalizeURL(t *testing.T) {
	tests := map[string]string{
		"example.com":          "https://example.com",
		"http://example.com":   "http://example.com",
		"https://example.com/": "https://example.com/",
	}
	for in, want := range tests {
		if got := NormalizeURL(in); got != want {
			t.Errorf("NormalizeURL(%q) = %q, want %q", in, got, want)
		}
	}
}
