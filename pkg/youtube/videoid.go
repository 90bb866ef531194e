// Package youtube resolves video identifiers and retrieves caption transcripts.
package youtube

import (
	"errors"
	"fmt"
	"regexp"
)

// ErrInvalidURL is returned when no known YouTube URL shape matches
var ErrInvalidURL = errors.New("invalid YouTube URL")

// Tried in order; the first match wins.
var videoIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)youtube\.com/watch\?(?:.*&)?v=([^&?/#\s]+)`),
	regexp.MustCompile(`(?i)youtu\.be/([^&?/#\s]+)`),
	regexp.MustCompile(`(?i)youtube\.com/embed/([^&?/#\s]+)`),
	regexp.MustCompile(`(?i)youtube\.com/shorts/([^&?/#\s]+)`),
}

var bareVideoID = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)

// ResolveVideoID extracts the video identifier from a watch, youtu.be, embed or shorts URL
func ResolveVideoID(url string) (string, error) {
	for _, re := range videoIDPatterns {
		if m := re.FindStringSubmatch(url); m != nil {
			return m[1], nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrInvalidURL, url)
}

// WatchURL returns the canonical watch URL of a video
func WatchURL(videoID string) string {
	return "https://www.youtube.com/watch?v=" + videoID
}

// videoIDFrom accepts either a bare 11-character identifier or any resolvable URL
func videoIDFrom(videoOrURL string) (string, error) {
	if bareVideoID.MatchString(videoOrURL) {
		return videoOrURL, nil
	}
	return ResolveVideoID(videoOrURL)
}
