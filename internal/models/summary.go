package models

// SummaryFormat selects the shape of the model reply.
type SummaryFormat string

const (
	SummaryFormatJSON     SummaryFormat = "json"
	SummaryFormatMarkdown SummaryFormat = "markdown"
)

// SummaryPayload is the structured part of a model reply. KeyPoints and
// MainTopics are never nil once normalized.
type SummaryPayload struct {
	BriefSummary    string   `json:"brief_summary"`
	KeyPoints       []string `json:"key_points"`
	MainTopics      []string `json:"main_topics"`
	MarkdownContent string   `json:"markdown_content,omitempty"`
}

// VideoSummary is returned by the summarize endpoint. When Error is set the
// summary could not be produced and the other fields are empty.
type VideoSummary struct {
	VideoID    string `json:"video_id,omitempty"`
	VideoURL   string `json:"video_url,omitempty"`
	VideoTitle string `json:"video_title,omitempty"`
	Language   string `json:"language,omitempty"`
	*SummaryPayload
	Error string `json:"error,omitempty"`
}
