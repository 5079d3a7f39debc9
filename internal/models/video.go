package models

// NotAvailable is reported for statistics the provider did not return.
const NotAvailable = "N/A"

// UnknownChannelTitle is used when the provider returns a channel without a title.
const UnknownChannelTitle = "Unknown Channel"

type SearchResult struct {
	Items      []SearchItem `json:"items"`
	TotalCount int          `json:"total_count"`
}

type SearchItem struct {
	VideoID      string `json:"id"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	ChannelID    string `json:"channel_id"`
	ChannelTitle string `json:"channel_title"`
	PublishedAt  string `json:"published_at"`
	ThumbnailURL string `json:"thumbnail_url"`
	URL          string `json:"url"`
	ViewCount    string `json:"view_count"`
	LikeCount    string `json:"like_count"`
	CommentCount string `json:"comment_count"`
}

// VideoDetails holds a video's statistics, plus the snippet fields used in prompts.
type VideoDetails struct {
	VideoID      string `json:"video_id"`
	Title        string `json:"title"`
	ChannelTitle string `json:"channel_title"`
	PublishedAt  string `json:"published_at"`
	ViewCount    string `json:"view_count"`
	LikeCount    string `json:"like_count"`
	CommentCount string `json:"comment_count"`
}

type ChannelInfo struct {
	ChannelID       string `json:"channel_id"`
	Title           string `json:"title"`
	Description     string `json:"description"`
	ThumbnailURL    string `json:"thumbnail_url"`
	PublishedAt     string `json:"published_at"`
	SubscriberCount string `json:"subscriber_count"`
	VideoCount      string `json:"video_count"`
	ViewCount       string `json:"view_count"`
}

// TranscriptResult is the outcome of a transcript fetch. Failures are values,
// not errors: Success is false and Error explains why.
type TranscriptResult struct {
	Success    bool   `json:"success"`
	Transcript string `json:"transcript,omitempty"`
	Language   string `json:"language,omitempty"`
	Error      string `json:"error,omitempty"`
}
