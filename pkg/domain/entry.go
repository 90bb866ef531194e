package domain

// Entry is one item returned by the content-listing API
type Entry struct {
	Title       string `json:"title" bson:"title"`
	URL         string `json:"url" bson:"url"`
	CreatedTime string `json:"createdTime" bson:"created_time"`
}

// ListResponse is a single page of the content-listing API
type ListResponse struct {
	Entries    []Entry `json:"entries"`
	NextCursor string  `json:"nextCursor"`
	HasMore    bool    `json:"hasMore"`
}

// EntryURLs returns the non-empty URLs of entries, in order
func EntryURLs(entries []Entry) []string {
	urls := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.URL != "" {
			urls = append(urls, e.URL)
		}
	}
	return urls
}
