package youtube

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"regexp"
	"strconv"
	"strings"

	"content-sync/pkg/domain"
	"content-sync/pkg/httpclient"
	"content-sync/pkg/logger"
)

// UserAgent is sent with watch page and caption requests
const UserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_4) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/85.0.4183.83 Safari/537.36,gzip(gfe)"

const (
	captionsMarker        = `"captions":`
	videoDetailsMarker    = `,"videoDetails`
	captchaMarker         = `class="g-recaptcha"`
	playabilityMarker     = `"playabilityStatus":`
	defaultWatchURLPrefix = "https://www.youtube.com/watch?v="
)

var captionEntry = regexp.MustCompile(`<text start="([^"]*)" dur="([^"]*)">([^<]*)</text>`)

// Options tune a single transcript fetch
type Options struct {
	// Lang selects a caption track by language code; empty means the first track
	Lang string
}

// TranscriptFetcher downloads caption tracks from YouTube watch pages
type TranscriptFetcher struct {
	client         *httpclient.HTTPClient
	watchURLPrefix string
	logger         logger.Logger
}

// Option configures a TranscriptFetcher
type Option func(*TranscriptFetcher)

// WithWatchURLPrefix overrides the URL that a video ID is appended to
func WithWatchURLPrefix(prefix string) Option {
	return func(f *TranscriptFetcher) {
		f.watchURLPrefix = prefix
	}
}

// WithLogger sets the fetcher's logger
func WithLogger(l logger.Logger) Option {
	return func(f *TranscriptFetcher) {
		f.logger = logger.OrNop(l)
	}
}

// NewTranscriptFetcher creates a new transcript fetcher
func NewTranscriptFetcher(client *httpclient.HTTPClient, opts ...Option) *TranscriptFetcher {
	f := &TranscriptFetcher{
		client:         client,
		watchURLPrefix: defaultWatchURLPrefix,
		logger:         logger.NewNop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

type captionTrack struct {
	BaseURL      string `json:"baseUrl"`
	LanguageCode string `json:"languageCode"`
	Name         struct {
		SimpleText string `json:"simpleText"`
	} `json:"name"`
}

type captionsJSON struct {
	Renderer *struct {
		CaptionTracks []captionTrack `json:"captionTracks"`
	} `json:"playerCaptionsTracklistRenderer"`
}

// Fetch returns the caption segments of a video given its ID or any supported URL.
// Failures other than transport and resolution errors are *TranscriptError.
func (f *TranscriptFetcher) Fetch(ctx context.Context, videoOrURL string, opts Options) ([]domain.TranscriptSegment, error) {
	videoID, err := videoIDFrom(videoOrURL)
	if err != nil {
		return nil, err
	}

	headers := map[string]string{"User-Agent": UserAgent}
	if opts.Lang != "" {
		headers["Accept-Language"] = opts.Lang
	}

	page, err := f.client.FetchBody(ctx, f.watchURLPrefix+videoID, headers)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch watch page: %w", err)
	}

	tracks, err := captionTracks(page, videoID)
	if err != nil {
		return nil, err
	}

	track := tracks[0]
	if opts.Lang != "" {
		found := false
		for _, t := range tracks {
			if t.LanguageCode == opts.Lang {
				track, found = t, true
				break
			}
		}
		if !found {
			available := make([]string, 0, len(tracks))
			for _, t := range tracks {
				available = append(available, t.LanguageCode)
			}
			return nil, &TranscriptError{Kind: KindLanguageUnavailable, VideoID: videoID, Lang: opts.Lang, Available: available}
		}
	}

	doc, err := f.client.FetchBody(ctx, track.BaseURL, headers)
	if err != nil {
		var statusErr *httpclient.StatusError
		if errors.As(err, &statusErr) {
			return nil, &TranscriptError{Kind: KindNotAvailable, VideoID: videoID}
		}
		return nil, fmt.Errorf("failed to fetch caption track: %w", err)
	}

	lang := opts.Lang
	if lang == "" {
		lang = track.LanguageCode
	}
	segments := parseCaptions(string(doc), lang)

	f.logger.Debug("Fetched transcript",
		logger.String("video_id", videoID),
		logger.String("lang", lang),
		logger.Int("segments", len(segments)),
	)
	return segments, nil
}

// captionTracks locates the caption JSON embedded in a watch page.
// This is scraping without a schema contract, so a strict cut at the
// videoDetails marker is tried first and a streaming decode second.
func captionTracks(page []byte, videoID string) ([]captionTrack, error) {
	body := string(page)
	_, after, found := strings.Cut(body, captionsMarker)
	if !found {
		switch {
		case strings.Contains(body, captchaMarker):
			return nil, &TranscriptError{Kind: KindRateLimited, VideoID: videoID}
		case !strings.Contains(body, playabilityMarker):
			return nil, &TranscriptError{Kind: KindVideoUnavailable, VideoID: videoID}
		default:
			return nil, &TranscriptError{Kind: KindDisabled, VideoID: videoID}
		}
	}

	captions, ok := decodeCaptions(after)
	if !ok || captions.Renderer == nil {
		return nil, &TranscriptError{Kind: KindDisabled, VideoID: videoID}
	}
	if len(captions.Renderer.CaptionTracks) == 0 {
		return nil, &TranscriptError{Kind: KindNotAvailable, VideoID: videoID}
	}
	return captions.Renderer.CaptionTracks, nil
}

func decodeCaptions(fragment string) (captionsJSON, bool) {
	var captions captionsJSON

	if cut, _, found := strings.Cut(fragment, videoDetailsMarker); found {
		cut = strings.Replace(cut, "\n", "", 1)
		if err := json.Unmarshal([]byte(cut), &captions); err == nil {
			return captions, true
		}
	}

	captions = captionsJSON{}
	dec := json.NewDecoder(bytes.NewReader([]byte(fragment)))
	if err := dec.Decode(&captions); err != nil {
		return captionsJSON{}, false
	}
	return captions, true
}

func parseCaptions(doc, lang string) []domain.TranscriptSegment {
	matches := captionEntry.FindAllStringSubmatch(doc, -1)
	segments := make([]domain.TranscriptSegment, 0, len(matches))
	for _, m := range matches {
		start, _ := strconv.ParseFloat(m[1], 64)
		dur, _ := strconv.ParseFloat(m[2], 64)
		segments = append(segments, domain.TranscriptSegment{
			// timedtext double-escapes entities
			Text:     html.UnescapeString(html.UnescapeString(m[3])),
			Duration: dur,
			Offset:   start,
			Lang:     lang,
		})
	}
	return segments
}
