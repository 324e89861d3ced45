package sources

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-shiori/go-readability"
	"github.com/microcosm-cc/bluemonday"
)

const maxContentChars = 50000

// ScraperSource fetches a reference page and extracts the main content as
// clean, sanitized text. When plain HTTP yields an empty article (usually a
// script-rendered page) it falls back to the headless browser renderer.
type ScraperSource struct {
	UserAgent string
	Renderer  *BrowserSource
}

func NewScraperSource(renderer *BrowserSource) *ScraperSource {
	return &ScraperSource{
		UserAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36",
		Renderer:  renderer,
	}
}

func (s *ScraperSource) Name() string {
	return "scraper"
}

func (s *ScraperSource) Description() string {
	return "Fetch a reference page URL and extract the main content as clean, sanitized text."
}

func (s *ScraperSource) Gather(ctx context.Context, target string) (string, error) {
	parsedURL, err := url.Parse(target)
	if err != nil {
		return "", fmt.Errorf("failed to parse URL: %v", err)
	}

	client := &http.Client{
		Timeout: 30 * time.Second,
	}

	req, err := http.NewRequestWithContext(ctx, "GET", target, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %v", err)
	}
	req.Header.Set("User-Agent", s.UserAgent)

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch URL: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to fetch URL: status code %d", resp.StatusCode)
	}

	article, err := readability.FromReader(resp.Body, parsedURL)
	if err != nil {
		return "", fmt.Errorf("failed to parse article: %v", err)
	}

	if strings.TrimSpace(article.TextContent) == "" && s.Renderer != nil {
		// Script-heavy page; let the browser render it first.
		return s.Renderer.Gather(ctx, target)
	}

	return formatArticle(article), nil
}

// formatArticle sanitizes extracted content and assembles the structured
// report handed to the reasoning model.
func formatArticle(article readability.Article) string {
	p := bluemonday.StrictPolicy()
	sanitized := p.Sanitize(article.TextContent)

	output := fmt.Sprintf("TITLE: %s\n", article.Title)
	if article.Excerpt != "" {
		output += fmt.Sprintf("EXCERPT: %s\n", article.Excerpt)
	}
	output += "\n-- CONTENT --\n"

	content := sanitized
	if len(content) > maxContentChars {
		content = content[:maxContentChars] + "\n... (content truncated) ..."
	}
	output += content

	return output
}
