package youtube

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	ytdl "github.com/kkdai/youtube/v2"
)

// PlayerCaptions reads caption tracks through YouTube's player and
// transcript endpoints. No API key is needed.
type PlayerCaptions struct {
	client *ytdl.Client
}

func NewPlayerCaptions(httpClient *http.Client) *PlayerCaptions {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &PlayerCaptions{client: &ytdl.Client{HTTPClient: httpClient}}
}

func (p *PlayerCaptions) ListTracks(ctx context.Context, videoID string) ([]CaptionTrack, error) {
	video, err := p.client.GetVideoContext(ctx, videoID)
	if err != nil {
		return nil, fmt.Errorf("load video %s: %w", videoID, err)
	}
	if len(video.CaptionTracks) == 0 {
		return nil, ErrTranscriptsDisabled
	}

	tracks := make([]CaptionTrack, 0, len(video.CaptionTracks))
	for _, ct := range video.CaptionTracks {
		tracks = append(tracks, CaptionTrack{
			VideoID:      videoID,
			LanguageCode: ct.LanguageCode,
			Kind:         ct.Kind,
			handle:       video,
		})
	}
	return tracks, nil
}

func (p *PlayerCaptions) FetchSegments(ctx context.Context, track CaptionTrack) ([]Segment, error) {
	video, ok := track.handle.(*ytdl.Video)
	if !ok {
		var err error
		if video, err = p.client.GetVideoContext(ctx, track.VideoID); err != nil {
			return nil, fmt.Errorf("load video %s: %w", track.VideoID, err)
		}
	}

	transcript, err := p.client.GetTranscriptCtx(ctx, video, track.LanguageCode)
	if errors.Is(err, ytdl.ErrTranscriptDisabled) {
		return nil, ErrTranscriptsDisabled
	}
	if err != nil {
		return nil, fmt.Errorf("fetch %s transcript: %w", track.LanguageCode, err)
	}

	segments := make([]Segment, 0, len(transcript))
	for _, s := range transcript {
		segments = append(segments, Segment{Text: s.Text, StartMs: s.StartMs})
	}
	return segments, nil
}
