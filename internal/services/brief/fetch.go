package brief

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const (
	// maxWebsiteChars bounds how much page text goes into the prompt.
	maxWebsiteChars = 8000

	fetchUserAgent = "Mozilla/5.0 (compatible; RyzeRecruitingBot/1.0)"
)

// normalizeURL prefixes bare domains with https://.
func normalizeURL(raw string) string {
	if strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://") {
		return raw
	}
	return "https://" + raw
}

// fetchWebsiteText downloads the page and reduces it to visible text:
// boilerplate elements are stripped, whitespace is collapsed, and the result
// is truncated to maxWebsiteChars.
func fetchWebsiteText(ctx context.Context, client *http.Client, websiteURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, normalizeURL(websiteURL), nil)
	if err != nil {
		return "", fmt.Errorf("failed to build website request: %w", err)
	}
	req.Header.Set("User-Agent", fetchUserAgent)

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch website: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("website returned status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to parse website: %w", err)
	}

	doc.Find("script, style, nav, footer, header, noscript").Remove()

	text := strings.Join(strings.Fields(doc.Text()), " ")
	if len(text) > maxWebsiteChars {
		text = text[:maxWebsiteChars]
	}

	return text, nil
}
