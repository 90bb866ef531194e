package content

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"content-sync/pkg/domain"
	"content-sync/pkg/logger"
	"content-sync/pkg/metrics"
)

// Fallback values for a web page that could not be extracted
const (
	WebFallbackTitle   = "Error loading page"
	WebFallbackContent = "Failed to retrieve content from this page."
)

const (
	nonContentSelector = "script, style, noscript, iframe, img, svg, path, head, nav, footer, aside"
	headingSelector    = "h1, h2, h3, h4, h5, h6"
	bodySelector       = "p, article, section, div, main, span, li, td, th, blockquote, pre, code, figcaption"

	// Body elements must be longer than this to count as content
	minBodyTextLength = 10
)

// HTMLFetcher fetches the HTML of a page
type HTMLFetcher interface {
	FetchHTML(ctx context.Context, url string) (string, error)
}

// WebExtractor derives structured content from generic web pages
type WebExtractor struct {
	fetcher  HTMLFetcher
	parser   Parser
	logger   logger.Logger
	readable bool
}

// WebOption configures a WebExtractor
type WebOption func(*WebExtractor)

// WithReadabilityFallback uses readability text when heuristic body extraction finds nothing
func WithReadabilityFallback() WebOption {
	return func(e *WebExtractor) {
		e.readable = true
	}
}

// NewWebExtractor creates a new web extractor
func NewWebExtractor(fetcher HTMLFetcher, parser Parser, log logger.Logger, opts ...WebOption) *WebExtractor {
	e := &WebExtractor{
		fetcher: fetcher,
		parser:  parser,
		logger:  logger.OrNop(log),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract fetches url and extracts its content. It never fails: on any error
// the result holds a fallback record for url and the cause.
func (e *WebExtractor) Extract(ctx context.Context, url string) Result[domain.ExtractedWebContent] {
	start := time.Now()
	content, err := e.extract(ctx, url)
	metrics.ObserveExtraction(domain.KindWeb, time.Since(start), err)

	if err != nil {
		e.logger.Warn("Web extraction failed, using fallback",
			logger.String("url", url),
			logger.Error(err),
		)
		return Result[domain.ExtractedWebContent]{Content: WebFallback(url), Err: err}
	}
	return Result[domain.ExtractedWebContent]{Content: content}
}

func (e *WebExtractor) extract(ctx context.Context, url string) (domain.ExtractedWebContent, error) {
	html, err := e.fetcher.FetchHTML(ctx, url)
	if err != nil {
		return domain.ExtractedWebContent{}, err
	}

	doc, err := e.parser.Parse(html)
	if err != nil {
		return domain.ExtractedWebContent{}, err
	}

	content := BuildWebContent(doc, url)
	if content.FullContent == "" && e.readable {
		text, err := ReadableText(html, url)
		if err != nil {
			e.logger.Debug("Readability fallback failed", logger.String("url", url), logger.Error(err))
		} else {
			content.FullContent = NormalizeText(text)
		}
	}
	return content, nil
}

// BuildWebContent extracts title, dates, metadata and body text from doc.
// It removes non-content elements from doc as a side effect.
func BuildWebContent(doc Document, url string) domain.ExtractedWebContent {
	// every <title> counts, including inline SVG titles in the body
	title := firstNonEmpty(strings.TrimSpace(doc.Find("title").Text()), textOf(doc, "h1"))

	meta := domain.WebMetaData{
		OGTitle:       attrOf(doc, `meta[property="og:title"]`, "content"),
		OGDescription: attrOf(doc, `meta[property="og:description"]`, "content"),
		OGImage:       attrOf(doc, `meta[property="og:image"]`, "content"),
		Keywords:      attrOf(doc, `meta[name="keywords"]`, "content"),
	}

	var published *string
	if raw := firstNonEmpty(
		attrOf(doc, `meta[property="article:published_time"]`, "content"),
		attrOf(doc, `meta[name="date"]`, "content"),
		attrOf(doc, "time", "datetime"),
	); raw != "" {
		published = &raw
	}

	doc.Remove(nonContentSelector)

	return domain.ExtractedWebContent{
		Title:         title,
		URL:           url,
		PublishedDate: published,
		FullContent:   bodyText(doc),
		MetaData:      meta,
	}
}

// bodyText emits all headings first, then all sufficiently long body
// elements. Headings therefore always precede body text regardless of
// where they appear in the page.
func bodyText(doc Document) string {
	var b strings.Builder

	doc.Find(headingSelector).Each(func(s Selection) {
		level := headingLevel(s.NodeName())
		b.WriteString(strings.Repeat("#", level))
		b.WriteString(" ")
		b.WriteString(strings.TrimSpace(s.Text()))
		b.WriteString("\n\n")
	})

	doc.Find(bodySelector).Each(func(s Selection) {
		text := strings.TrimSpace(s.Text())
		if utf8.RuneCountInString(text) > minBodyTextLength {
			b.WriteString(text)
			b.WriteString("\n\n")
		}
	})

	return NormalizeText(b.String())
}

func headingLevel(name string) int {
	if len(name) == 2 && name[0] == 'h' && name[1] >= '1' && name[1] <= '6' {
		return int(name[1] - '0')
	}
	return 1
}

// WebFallback is the placeholder record for a page that could not be extracted
func WebFallback(url string) domain.ExtractedWebContent {
	return domain.ExtractedWebContent{
		Title:       WebFallbackTitle,
		URL:         url,
		FullContent: WebFallbackContent,
	}
}
