package urls

import (
	"strings"

	"content-sync/pkg/domain"
)

// YouTubeHostMarker is the substring that routes a URL to the YouTube extractor
const YouTubeHostMarker = "www.youtube.com"

// ClassifiedLinks partitions URLs by handling category, preserving input order in each bucket
type ClassifiedLinks struct {
	Web     []string
	YouTube []string
}

// KindOf returns the handling category of a single URL.
// Malformed strings are treated as web URLs.
func KindOf(url string) domain.Kind {
	if strings.Contains(url, YouTubeHostMarker) {
		return domain.KindYouTube
	}
	return domain.KindWeb
}

// Classify splits urls into web and YouTube buckets. Every input lands in exactly one bucket.
func Classify(urls []string) ClassifiedLinks {
	links := ClassifiedLinks{
		Web:     []string{},
		YouTube: []string{},
	}
	for _, u := range urls {
		if KindOf(u) == domain.KindYouTube {
			links.YouTube = append(links.YouTube, u)
		} else {
			links.Web = append(links.Web, u)
		}
	}
	return links
}
