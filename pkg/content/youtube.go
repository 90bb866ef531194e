package content

import (
	"context"
	"strings"
	"time"

	"content-sync/pkg/domain"
	"content-sync/pkg/logger"
	"content-sync/pkg/metrics"
	"content-sync/pkg/youtube"
)

// Fallback values for a video page that could not be extracted
const (
	YouTubeFallbackTitle       = "Error loading YouTube video"
	YouTubeFallbackDescription = "Failed to retrieve content from this YouTube video."
)

// TranscriptFetcher retrieves the caption segments of a video
type TranscriptFetcher interface {
	Fetch(ctx context.Context, videoOrURL string, opts youtube.Options) ([]domain.TranscriptSegment, error)
}

// YouTubeExtractor derives structured content from YouTube watch pages
type YouTubeExtractor struct {
	fetcher     HTMLFetcher
	parser      Parser
	transcripts TranscriptFetcher
	lang        string
	logger      logger.Logger
}

// NewYouTubeExtractor creates a new YouTube extractor. transcripts may be nil
// to skip transcript retrieval; lang selects the caption track.
func NewYouTubeExtractor(fetcher HTMLFetcher, parser Parser, transcripts TranscriptFetcher, lang string, log logger.Logger) *YouTubeExtractor {
	return &YouTubeExtractor{
		fetcher:     fetcher,
		parser:      parser,
		transcripts: transcripts,
		lang:        lang,
		logger:      logger.OrNop(log),
	}
}

// Extract fetches the watch page at url and extracts its content. It never
// fails: on error the result is a fallback record that still carries the
// video ID when the URL resolves. A missing transcript is not an error.
func (e *YouTubeExtractor) Extract(ctx context.Context, url string) Result[domain.ExtractedYouTubeContent] {
	start := time.Now()
	videoID, err := youtube.ResolveVideoID(url)

	var content domain.ExtractedYouTubeContent
	if err == nil {
		content, err = e.extract(ctx, url, videoID)
	}
	metrics.ObserveExtraction(domain.KindYouTube, time.Since(start), err)

	if err != nil {
		e.logger.Warn("YouTube extraction failed, using fallback",
			logger.String("url", url),
			logger.Error(err),
		)
		return Result[domain.ExtractedYouTubeContent]{Content: YouTubeFallback(url, videoID), Err: err}
	}

	content.Transcript = e.transcript(ctx, url, videoID)
	return Result[domain.ExtractedYouTubeContent]{Content: content}
}

func (e *YouTubeExtractor) extract(ctx context.Context, url, videoID string) (domain.ExtractedYouTubeContent, error) {
	html, err := e.fetcher.FetchHTML(ctx, url)
	if err != nil {
		return domain.ExtractedYouTubeContent{}, err
	}

	doc, err := e.parser.Parse(html)
	if err != nil {
		return domain.ExtractedYouTubeContent{}, err
	}
	return BuildYouTubeContent(doc, url, videoID), nil
}

func (e *YouTubeExtractor) transcript(ctx context.Context, url, videoID string) []domain.TranscriptSegment {
	if e.transcripts == nil {
		return nil
	}

	segments, err := e.transcripts.Fetch(ctx, videoID, youtube.Options{Lang: e.lang})
	if err != nil {
		kind := youtube.KindOf(err)
		metrics.TranscriptFailures.WithLabelValues(kind.String()).Inc()
		e.logger.Info("Could not fetch transcript",
			logger.String("url", url),
			logger.String("kind", kind.String()),
			logger.Error(err),
		)
		return nil
	}
	if len(segments) == 0 {
		return nil
	}
	return segments
}

// BuildYouTubeContent extracts the watch page fields from doc
func BuildYouTubeContent(doc Document, url, videoID string) domain.ExtractedYouTubeContent {
	title := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(doc.Find("title").Text()), " - YouTube"))

	var publish *string
	if raw := firstNonEmpty(
		attrOf(doc, `meta[itemprop="datePublished"]`, "content"),
		attrOf(doc, `meta[property="article:published_time"]`, "content"),
	); raw != "" {
		publish = &raw
	}

	description := firstNonEmpty(
		attrOf(doc, `meta[name="description"]`, "content"),
		attrOf(doc, `meta[property="og:description"]`, "content"),
	)
	if full := strings.TrimSpace(doc.Find("#description-inline-expander, #description").Text()); full != "" {
		description = full
	}

	meta := domain.YouTubeMetaData{
		OGTitle:       attrOf(doc, `meta[property="og:title"]`, "content"),
		OGDescription: attrOf(doc, `meta[property="og:description"]`, "content"),
		OGImage:       attrOf(doc, `meta[property="og:image"]`, "content"),
		Keywords:      attrOf(doc, `meta[name="keywords"]`, "content"),
		ViewCount:     attrOf(doc, `meta[itemprop="interactionCount"]`, "content"),
		Duration:      attrOf(doc, `meta[itemprop="duration"]`, "content"),
	}
	if views := strings.TrimSpace(doc.Find(".view-count").Text()); views != "" {
		meta.ViewCount = views
	}

	return domain.ExtractedYouTubeContent{
		Title:       title,
		URL:         url,
		VideoID:     videoID,
		ChannelName: channelName(doc),
		PublishDate: publish,
		Description: description,
		MetaData:    meta,
	}
}

// channelName reads the author name; watch pages often carry it as
// <link itemprop="name" content="..."> with no text.
func channelName(doc Document) string {
	first := doc.Find(`[itemprop="author"] [itemprop="name"], #owner-name a`).First()
	if first.Len() == 0 {
		return ""
	}
	if text := strings.TrimSpace(first.Text()); text != "" {
		return text
	}
	v, _ := first.Attr("content")
	return strings.TrimSpace(v)
}

// YouTubeFallback is the placeholder record for a video page that could not be extracted
func YouTubeFallback(url, videoID string) domain.ExtractedYouTubeContent {
	return domain.ExtractedYouTubeContent{
		Title:       YouTubeFallbackTitle,
		URL:         url,
		VideoID:     videoID,
		Description: YouTubeFallbackDescription,
	}
}
