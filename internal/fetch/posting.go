package fetch

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/jonathan/ats-tailor/internal/logging"
)

// Posting is a job posting reduced to text.
type Posting struct {
	URL         string   `json:"url"`
	Title       string   `json:"title"`
	Company     string   `json:"company"`
	Description string   `json:"description"`
	Platform    Platform `json:"platform"`
	Rendered    bool     `json:"rendered"` // true when headless Chrome produced the HTML
}

// FetchPosting downloads a posting and extracts its title, company and description.
// With opts.UseBrowser set, pages whose text looks too short are re-rendered in headless Chrome.
func FetchPosting(ctx context.Context, rawURL string, opts *Options, logger *zap.Logger) (*Posting, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	logger = logging.OrNop(logger)

	result, err := URL(ctx, rawURL, opts)
	if err != nil {
		return nil, err
	}

	platform := DetectPlatform(rawURL)
	posting, err := ParsePosting(result.HTML, platform)
	if err != nil {
		return nil, &Error{URL: rawURL, Message: "failed to parse posting", Cause: err}
	}

	if opts.UseBrowser && ShouldUseBrowser(posting.Description) {
		logger.Info("posting text is short, rendering with browser",
			zap.String("url", rawURL), zap.Int("chars", len(posting.Description)))
		html, err := WithBrowser(ctx, rawURL, opts.Timeout)
		if err != nil {
			logger.Warn("browser rendering failed, keeping HTTP result", zap.Error(err))
		} else if rendered, err := ParsePosting(html, platform); err == nil && len(rendered.Description) > len(posting.Description) {
			rendered.Rendered = true
			posting = rendered
		}
	}

	posting.URL = rawURL
	return posting, nil
}

// ParsePosting extracts posting fields from HTML using the platform's selectors.
func ParsePosting(html string, platform Platform) (*Posting, error) {
	description, err := ExtractMainText(html, PlatformContentSelectors(platform), PlatformNoiseSelectors(platform)...)
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}
	return &Posting{
		Title:       pageTitle(doc),
		Company:     pageCompany(doc),
		Description: description,
		Platform:    platform,
	}, nil
}

func metaContent(doc *goquery.Document, selectors ...string) string {
	for _, sel := range selectors {
		if v, ok := doc.Find(sel).First().Attr("content"); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

func pageTitle(doc *goquery.Document) string {
	if h1 := strings.TrimSpace(doc.Find("h1").First().Text()); h1 != "" {
		return strings.Join(strings.Fields(h1), " ")
	}
	if og := metaContent(doc, `meta[property="og:title"]`); og != "" {
		return og
	}
	return strings.TrimSpace(doc.Find("title").First().Text())
}

func pageCompany(doc *goquery.Document) string {
	return metaContent(doc, `meta[property="og:site_name"]`, `meta[name="author"]`)
}
