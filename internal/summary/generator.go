package summary

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	apperrors "yt-summarizer/internal/errors"
	"yt-summarizer/internal/metrics"
	"yt-summarizer/internal/models"
)

const (
	msgNoTranscript   = "Could not retrieve video transcript"
	msgNoVideoDetails = "Could not retrieve video details"

	watchURLPrefix = "https://www.youtube.com/watch?v="
)

// transcriptLanguages are requested in order; no other language is accepted.
var transcriptLanguages = []string{"ja", "en"}

type VideoSource interface {
	GetVideoDetails(ctx context.Context, videoID string) (*models.VideoDetails, error)
}

type TranscriptSource interface {
	Fetch(ctx context.Context, videoID string, languages []string) models.TranscriptResult
}

// TextModel produces a free-text reply for a prompt.
type TextModel interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Generator builds video summaries from transcripts.
type Generator struct {
	videos      VideoSource
	transcripts TranscriptSource
	model       TextModel
	timeout     time.Duration
	metrics     *metrics.Metrics
	logger      zerolog.Logger
}

func NewGenerator(videos VideoSource, transcripts TranscriptSource, model TextModel, timeout time.Duration, m *metrics.Metrics, logger zerolog.Logger) *Generator {
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &Generator{
		videos:      videos,
		transcripts: transcripts,
		model:       model,
		timeout:     timeout,
		metrics:     m,
		logger:      logger,
	}
}

// ParseFormat validates a requested summary format; empty means JSON.
func ParseFormat(s string) (models.SummaryFormat, error) {
	switch models.SummaryFormat(s) {
	case "", models.SummaryFormatJSON:
		return models.SummaryFormatJSON, nil
	case models.SummaryFormatMarkdown:
		return models.SummaryFormatMarkdown, nil
	default:
		return "", apperrors.New(apperrors.CodeInvalidArg, `format must be "json" or "markdown"`)
	}
}

// Generate summarizes videoID. A missing transcript or video yields a
// summary with Error set; provider failures are returned as errors.
func (g *Generator) Generate(ctx context.Context, videoID string, format models.SummaryFormat) (*models.VideoSummary, error) {
	if videoID == "" {
		return nil, apperrors.New(apperrors.CodeInvalidArg, "Video ID is required")
	}
	log := g.logger.With().Str("video_id", videoID).Logger()

	transcript := g.transcripts.Fetch(ctx, videoID, transcriptLanguages)
	if !transcript.Success {
		log.Warn().Str("reason", transcript.Error).Msg("summary skipped: no transcript")
		g.metrics.SummaryOutcome("no_transcript")
		return &models.VideoSummary{Error: msgNoTranscript}, nil
	}

	details, err := g.videos.GetVideoDetails(ctx, videoID)
	if err != nil {
		return nil, err
	}
	if details == nil {
		log.Warn().Msg("summary skipped: video details unavailable")
		g.metrics.SummaryOutcome("no_video_details")
		return &models.VideoSummary{Error: msgNoVideoDetails}, nil
	}

	genCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	start := time.Now()
	reply, err := g.model.Generate(genCtx, buildPrompt(format, videoID, details, transcript.Transcript))
	if err != nil {
		g.metrics.UpstreamError("gemini")
		return nil, err
	}

	payload, parsedBy := Extract(reply)
	if format == models.SummaryFormatMarkdown && payload.MarkdownContent == "" {
		payload.MarkdownContent = markdownBody(reply)
	}
	g.metrics.SummaryOutcome(parsedBy)

	event := log.Info()
	if parsedBy == "fallback" {
		event = log.Warn()
	}
	event.Str("parsed_by", parsedBy).
		Str("format", string(format)).
		Dur("generation", time.Since(start)).
		Msg("summary generated")

	return &models.VideoSummary{
		VideoID:        videoID,
		VideoURL:       watchURLPrefix + videoID,
		VideoTitle:     details.Title,
		Language:       transcript.Language,
		SummaryPayload: payload,
	}, nil
}
