package youtube

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"yt-summarizer/internal/metrics"
	"yt-summarizer/internal/models"
)

// DefaultLanguages are tried in order when the caller names none.
var DefaultLanguages = []string{"ja", "en"}

const (
	msgTranscriptsDisabled = "Transcripts are disabled for this video"
	msgNoTranscript        = "No transcript found for the specified languages"
	msgTranscriptError     = "Error retrieving transcript: "
)

// ErrTranscriptsDisabled is returned by a CaptionSource when the video has no
// caption tracks at all.
var ErrTranscriptsDisabled = errors.New("transcripts are disabled for this video")

// CaptionTrack is one caption track of a video. Kind is "asr" for
// auto-generated tracks.
type CaptionTrack struct {
	VideoID      string
	LanguageCode string
	Kind         string

	// Source-specific handle, set by the CaptionSource that listed the track.
	handle any
}

// Segment is one timed line of a transcript.
type Segment struct {
	Text    string
	StartMs int
}

// CaptionSource lists and downloads caption tracks.
type CaptionSource interface {
	ListTracks(ctx context.Context, videoID string) ([]CaptionTrack, error)
	FetchSegments(ctx context.Context, track CaptionTrack) ([]Segment, error)
}

// TranscriptFetcher turns caption tracks into plain transcript text.
type TranscriptFetcher struct {
	source  CaptionSource
	timeout time.Duration
	metrics *metrics.Metrics
	logger  zerolog.Logger
}

func NewTranscriptFetcher(source CaptionSource, timeout time.Duration, m *metrics.Metrics, logger zerolog.Logger) *TranscriptFetcher {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &TranscriptFetcher{source: source, timeout: timeout, metrics: m, logger: logger}
}

// Fetch returns the transcript of videoID in the first available language of
// languages. With no languages, DefaultLanguages are tried and then any track
// is accepted. Failures are reported in the result, never as an error.
func (f *TranscriptFetcher) Fetch(ctx context.Context, videoID string, languages []string) models.TranscriptResult {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	anyTrack := len(languages) == 0
	if anyTrack {
		languages = DefaultLanguages
	}

	tracks, err := f.source.ListTracks(ctx, videoID)
	if err != nil {
		return f.failure(videoID, err)
	}
	if len(tracks) == 0 {
		return f.failure(videoID, ErrTranscriptsDisabled)
	}

	track, ok := pickTrack(tracks, languages)
	if !ok {
		if !anyTrack {
			return models.TranscriptResult{Success: false, Error: msgNoTranscript}
		}
		track = tracks[0]
	}

	segments, err := f.source.FetchSegments(ctx, track)
	if err != nil {
		return f.failure(videoID, err)
	}
	if len(segments) == 0 {
		return f.failure(videoID, ErrTranscriptsDisabled)
	}

	return models.TranscriptResult{
		Success:    true,
		Transcript: joinSegments(segments),
		Language:   track.LanguageCode,
	}
}

func (f *TranscriptFetcher) failure(videoID string, err error) models.TranscriptResult {
	if errors.Is(err, ErrTranscriptsDisabled) {
		return models.TranscriptResult{Success: false, Error: msgTranscriptsDisabled}
	}
	f.metrics.UpstreamError("transcript")
	f.logger.Warn().Err(err).Str("video_id", videoID).Msg("transcript retrieval failed")
	return models.TranscriptResult{Success: false, Error: msgTranscriptError + err.Error()}
}

// pickTrack prefers a manual track over an auto-generated one, in the order
// of languages.
func pickTrack(tracks []CaptionTrack, languages []string) (CaptionTrack, bool) {
	for _, lang := range languages {
		for _, t := range tracks {
			if t.LanguageCode == lang && t.Kind != "asr" {
				return t, true
			}
		}
		for _, t := range tracks {
			if t.LanguageCode == lang {
				return t, true
			}
		}
	}
	return CaptionTrack{}, false
}

// joinSegments concatenates segment texts in chronological order.
func joinSegments(segments []Segment) string {
	sorted := make([]Segment, len(segments))
	copy(sorted, segments)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].StartMs < sorted[j].StartMs })

	parts := make([]string, 0, len(sorted))
	for _, s := range sorted {
		if text := strings.Join(strings.Fields(s.Text), " "); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, " ")
}
