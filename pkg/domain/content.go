package domain

// WebMetaData holds the Open Graph and keyword tags of a web page
type WebMetaData struct {
	OGTitle       string `json:"ogTitle" bson:"og_title"`
	OGDescription string `json:"ogDescription" bson:"og_description"`
	OGImage       string `json:"ogImage" bson:"og_image"`
	Keywords      string `json:"keywords" bson:"keywords"`
}

// ExtractedWebContent is the structured content of a generic web page.
// URL is always the requested URL, never the post-redirect one.
type ExtractedWebContent struct {
	Title         string      `json:"title" bson:"title"`
	URL           string      `json:"url" bson:"url"`
	PublishedDate *string     `json:"publishedDate" bson:"published_date,omitempty"`
	FullContent   string      `json:"fullContent" bson:"full_content"`
	MetaData      WebMetaData `json:"metaData" bson:"meta_data"`
}

// YouTubeMetaData holds the tag and structured-data values of a watch page.
// LikeCount is never present in static markup and stays empty.
type YouTubeMetaData struct {
	OGTitle       string `json:"ogTitle,omitempty" bson:"og_title,omitempty"`
	OGDescription string `json:"ogDescription,omitempty" bson:"og_description,omitempty"`
	OGImage       string `json:"ogImage,omitempty" bson:"og_image,omitempty"`
	Keywords      string `json:"keywords,omitempty" bson:"keywords,omitempty"`
	ViewCount     string `json:"viewCount,omitempty" bson:"view_count,omitempty"`
	LikeCount     string `json:"likeCount,omitempty" bson:"like_count,omitempty"`
	Duration      string `json:"duration,omitempty" bson:"duration,omitempty"`
}

// TranscriptSegment is one timed caption unit. Offset and Duration are seconds.
type TranscriptSegment struct {
	Text     string  `json:"text" bson:"text"`
	Duration float64 `json:"duration" bson:"duration"`
	Offset   float64 `json:"offset" bson:"offset"`
	Lang     string  `json:"lang,omitempty" bson:"lang,omitempty"`
}

// ExtractedYouTubeContent is the structured content of a YouTube watch page
type ExtractedYouTubeContent struct {
	Title       string              `json:"title" bson:"title"`
	URL         string              `json:"url" bson:"url"`
	VideoID     string              `json:"videoId" bson:"video_id"`
	ChannelName string              `json:"channelName" bson:"channel_name"`
	PublishDate *string             `json:"publishDate" bson:"publish_date,omitempty"`
	Description string              `json:"description" bson:"description"`
	MetaData    YouTubeMetaData     `json:"metaData" bson:"meta_data"`
	Transcript  []TranscriptSegment `json:"transcript,omitempty" bson:"transcript,omitempty"`
}
