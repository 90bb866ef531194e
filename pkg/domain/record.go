package domain

import (
	"encoding/json"
	"fmt"
)

// Kind is the handling category of a URL
type Kind string

const (
	// KindWeb is a generic web page
	KindWeb Kind = "web"
	// KindYouTube is a YouTube watch page
	KindYouTube Kind = "youtube"
)

// Record is an extraction result enriched with data from its originating entry.
// Exactly one of Web and YouTube is set, according to Kind.
type Record struct {
	Kind       Kind
	Web        *ExtractedWebContent
	YouTube    *ExtractedYouTubeContent
	ConsumedAt string

	// Err is the cause when the content is a fallback placeholder
	Err error
}

// NewWebRecord wraps web content in a Record
func NewWebRecord(c ExtractedWebContent, err error) Record {
	return Record{Kind: KindWeb, Web: &c, Err: err}
}

// NewYouTubeRecord wraps YouTube content in a Record
func NewYouTubeRecord(c ExtractedYouTubeContent, err error) Record {
	return Record{Kind: KindYouTube, YouTube: &c, Err: err}
}

// URL returns the URL of the wrapped content
func (r Record) URL() string {
	switch r.Kind {
	case KindWeb:
		return r.Web.URL
	case KindYouTube:
		return r.YouTube.URL
	}
	return ""
}

// Title returns the title of the wrapped content
func (r Record) Title() string {
	switch r.Kind {
	case KindWeb:
		return r.Web.Title
	case KindYouTube:
		return r.YouTube.Title
	}
	return ""
}

// Fallback reports whether the content is a placeholder for a failed extraction
func (r Record) Fallback() bool {
	return r.Err != nil
}

type webRecordJSON struct {
	ExtractedWebContent
	ConsumedAt string `json:"consumedAt,omitempty"`
}

type youtubeRecordJSON struct {
	ExtractedYouTubeContent
	ConsumedAt string `json:"consumedAt,omitempty"`
}

// MarshalJSON flattens the variant content and consumedAt into one object
func (r Record) MarshalJSON() ([]byte, error) {
	switch r.Kind {
	case KindWeb:
		if r.Web == nil {
			return nil, fmt.Errorf("web record has no content")
		}
		return json.Marshal(webRecordJSON{ExtractedWebContent: *r.Web, ConsumedAt: r.ConsumedAt})
	case KindYouTube:
		if r.YouTube == nil {
			return nil, fmt.Errorf("youtube record has no content")
		}
		return json.Marshal(youtubeRecordJSON{ExtractedYouTubeContent: *r.YouTube, ConsumedAt: r.ConsumedAt})
	default:
		return nil, fmt.Errorf("unknown record kind %q", r.Kind)
	}
}
