package youtube

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind enumerates the ways a transcript fetch can fail
type ErrorKind int

const (
	// KindRateLimited means YouTube answered with a captcha page
	KindRateLimited ErrorKind = iota + 1
	// KindVideoUnavailable means the watch page has no playability status
	KindVideoUnavailable
	// KindDisabled means the page carries no usable caption data
	KindDisabled
	// KindNotAvailable means there is no caption track or the track could not be fetched
	KindNotAvailable
	// KindLanguageUnavailable means no track matches the requested language
	KindLanguageUnavailable
)

func (k ErrorKind) String() string {
	switch k {
	case KindRateLimited:
		return "rate_limited"
	case KindVideoUnavailable:
		return "video_unavailable"
	case KindDisabled:
		return "disabled"
	case KindNotAvailable:
		return "not_available"
	case KindLanguageUnavailable:
		return "language_unavailable"
	default:
		return "unknown"
	}
}

// Sentinels for errors.Is matching against a *TranscriptError
var (
	ErrTooManyRequests        = errors.New("too many requests")
	ErrVideoUnavailable       = errors.New("video unavailable")
	ErrTranscriptDisabled     = errors.New("transcript disabled")
	ErrTranscriptNotAvailable = errors.New("transcript not available")
	ErrLanguageUnavailable    = errors.New("transcript language unavailable")
)

// TranscriptError is the single error type returned by TranscriptFetcher.
// Lang and Available are set only for KindLanguageUnavailable.
type TranscriptError struct {
	Kind      ErrorKind
	VideoID   string
	Lang      string
	Available []string
}

func (e *TranscriptError) Error() string {
	switch e.Kind {
	case KindRateLimited:
		return "YouTube is receiving too many requests from this IP and now requires solving a captcha to continue"
	case KindVideoUnavailable:
		return fmt.Sprintf("The video is no longer available (%s)", e.VideoID)
	case KindDisabled:
		return fmt.Sprintf("Transcript is disabled on this video (%s)", e.VideoID)
	case KindNotAvailable:
		return fmt.Sprintf("No transcripts are available for this video (%s)", e.VideoID)
	case KindLanguageUnavailable:
		return fmt.Sprintf("No transcripts are available in %s for this video (%s). Available languages: %s",
			e.Lang, e.VideoID, strings.Join(e.Available, ", "))
	default:
		return fmt.Sprintf("transcript error (%s)", e.VideoID)
	}
}

// Is matches the sentinel of the error's kind
func (e *TranscriptError) Is(target error) bool {
	return target == e.Kind.sentinel()
}

func (k ErrorKind) sentinel() error {
	switch k {
	case KindRateLimited:
		return ErrTooManyRequests
	case KindVideoUnavailable:
		return ErrVideoUnavailable
	case KindDisabled:
		return ErrTranscriptDisabled
	case KindNotAvailable:
		return ErrTranscriptNotAvailable
	case KindLanguageUnavailable:
		return ErrLanguageUnavailable
	default:
		return nil
	}
}

// KindOf returns the kind of a transcript error anywhere in err's chain, or 0
func KindOf(err error) ErrorKind {
	var te *TranscriptError
	if errors.As(err, &te) {
		return te.Kind
	}
	return 0
}
