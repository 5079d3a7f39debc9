package summary

import (
	"fmt"

	"yt-summarizer/internal/models"
)

const jsonPrompt = `Please generate a concise summary of the following YouTube video transcript.

Video Title: %s
Video ID: %s

Transcript:
%s

Please provide:
1. A brief summary (2-3 sentences)
2. Key points (3-5 bullet points)
3. Main topics discussed

Format the response as JSON with the following structure:
{
    "brief_summary": "...",
    "key_points": ["...", "...", "..."],
    "main_topics": ["...", "...", "..."]
}
`

const markdownPrompt = `Please create a well-structured Markdown summary of the following YouTube video transcript.

Video Title: %s
Video ID: %s
Channel: %s
Published: %s

Transcript:
%s

Write the Markdown document with:
- A top-level heading with the video title
- A short metadata block (channel, publish date, video link)
- A "Summary" section of 2-3 sentences
- A "Key Points" section with 3-5 bullet points
- Detailed sections for each main topic discussed
- A "Conclusion" section

After the Markdown document, add a JSON block with this structure:
` + "```json" + `
{
    "brief_summary": "...",
    "key_points": ["...", "...", "..."],
    "main_topics": ["...", "...", "..."],
    "markdown_content": "the full Markdown document above"
}
` + "```" + `
`

func buildPrompt(format models.SummaryFormat, videoID string, details *models.VideoDetails, transcript string) string {
	title := orUnknown(details.Title)
	if format == models.SummaryFormatMarkdown {
		return fmt.Sprintf(markdownPrompt, title, videoID, orUnknown(details.ChannelTitle), orUnknown(details.PublishedAt), transcript)
	}
	return fmt.Sprintf(jsonPrompt, title, videoID, transcript)
}

func orUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}
