package youtube

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	ytapi "google.golang.org/api/youtube/v3"

	apperrors "yt-summarizer/internal/errors"
	"yt-summarizer/internal/metrics"
	"yt-summarizer/internal/models"
)

const (
	DefaultMaxResults = 10
	maxResultsCeiling = 50 // largest page the Data API returns

	watchURLPrefix = "https://www.youtube.com/watch?v="
)

// SearchParams are the inputs of a video search. Zero values mean "not set".
type SearchParams struct {
	Query          string
	MaxResults     int64
	ChannelID      string
	PublishedAfter string
}

type ClientOptions struct {
	// HTTPClient carries the statistics lookups. Defaults to http.DefaultClient.
	HTTPClient      *http.Client
	RegionCode      string
	MaxResultsLimit int64
	Timeout         time.Duration
	Metrics         *metrics.Metrics
	Logger          zerolog.Logger
}

// Client reads video and channel metadata from the YouTube Data API v3.
type Client struct {
	service *ytapi.Service
	apiKey  string
	opts    ClientOptions
}

// NewClient creates a Data API client. Extra options are passed to the
// underlying service (the tests point it at a local server with
// option.WithEndpoint).
func NewClient(ctx context.Context, apiKey string, opts ClientOptions, extra ...option.ClientOption) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("missing youtube api key")
	}

	service, err := ytapi.NewService(ctx, append([]option.ClientOption{option.WithAPIKey(apiKey)}, extra...)...)
	if err != nil {
		return nil, fmt.Errorf("error creating youtube service: %w", err)
	}

	if opts.MaxResultsLimit <= 0 || opts.MaxResultsLimit > maxResultsCeiling {
		opts.MaxResultsLimit = maxResultsCeiling
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}

	return &Client{service: service, apiKey: apiKey, opts: opts}, nil
}

// SearchVideos runs a single-page search ordered newest first and enriches each
// hit with its statistics.
func (c *Client) SearchVideos(ctx context.Context, params SearchParams) (*models.SearchResult, error) {
	query := strings.TrimSpace(params.Query)
	if query == "" {
		return nil, apperrors.New(apperrors.CodeInvalidArg, "Query parameter is required")
	}
	if params.PublishedAfter != "" {
		if _, err := time.Parse(time.RFC3339, params.PublishedAfter); err != nil {
			return nil, apperrors.Wrap(err, apperrors.CodeInvalidArg, "published_after must be an RFC 3339 timestamp")
		}
	}

	call := c.service.Search.List([]string{"snippet"}).
		Q(query).
		Type("video").
		Order("date").
		MaxResults(c.boundMaxResults(params.MaxResults))
	if c.opts.RegionCode != "" {
		call = call.RegionCode(c.opts.RegionCode)
	}
	if params.ChannelID != "" {
		call = call.ChannelId(params.ChannelID)
	}
	if params.PublishedAfter != "" {
		call = call.PublishedAfter(params.PublishedAfter)
	}

	callCtx, cancel := context.WithTimeout(ctx, c.opts.Timeout)
	resp, err := call.Context(callCtx).Do()
	cancel()
	if err != nil {
		return nil, c.upstreamError(err)
	}

	items := make([]models.SearchItem, 0, len(resp.Items))
	for _, hit := range resp.Items {
		if hit.Id == nil || hit.Id.VideoId == "" || hit.Snippet == nil {
			continue
		}

		details, err := c.GetVideoDetails(ctx, hit.Id.VideoId)
		if err != nil {
			return nil, err
		}
		views, likes, comments := models.NotAvailable, models.NotAvailable, models.NotAvailable
		if details != nil {
			views, likes, comments = details.ViewCount, details.LikeCount, details.CommentCount
		}

		items = append(items, models.SearchItem{
			VideoID:      hit.Id.VideoId,
			Title:        hit.Snippet.Title,
			Description:  hit.Snippet.Description,
			ChannelID:    hit.Snippet.ChannelId,
			ChannelTitle: hit.Snippet.ChannelTitle,
			PublishedAt:  hit.Snippet.PublishedAt,
			ThumbnailURL: thumbnailURL(hit.Snippet.Thumbnails, "medium", "high", "default"),
			URL:          watchURLPrefix + hit.Id.VideoId,
			ViewCount:    views,
			LikeCount:    likes,
			CommentCount: comments,
		})
	}

	return &models.SearchResult{Items: items, TotalCount: len(items)}, nil
}

// GetVideoDetails returns nil, nil if the video is not found.
func (c *Client) GetVideoDetails(ctx context.Context, videoID string) (*models.VideoDetails, error) {
	if videoID == "" {
		return nil, apperrors.New(apperrors.CodeInvalidArg, "Video ID is required")
	}

	callCtx, cancel := context.WithTimeout(ctx, c.opts.Timeout)
	defer cancel()

	var resp struct {
		Items []videoItem `json:"items"`
	}
	if err := c.list(callCtx, "videos", videoID, &resp); err != nil {
		return nil, c.upstreamError(err)
	}
	if len(resp.Items) == 0 {
		return nil, nil
	}

	item := resp.Items[0]
	details := &models.VideoDetails{
		VideoID:      item.ID,
		ViewCount:    models.NotAvailable,
		LikeCount:    models.NotAvailable,
		CommentCount: models.NotAvailable,
	}
	if item.Snippet != nil {
		details.Title = item.Snippet.Title
		details.ChannelTitle = item.Snippet.ChannelTitle
		details.PublishedAt = item.Snippet.PublishedAt
	}
	if st := item.Statistics; st != nil {
		details.ViewCount = count(st.ViewCount)
		details.LikeCount = count(st.LikeCount)
		details.CommentCount = count(st.CommentCount)
	}
	return details, nil
}

// GetChannelInfo returns nil, nil if the channel is not found.
func (c *Client) GetChannelInfo(ctx context.Context, channelID string) (*models.ChannelInfo, error) {
	if channelID == "" {
		return nil, apperrors.New(apperrors.CodeInvalidArg, "Channel ID is required")
	}

	callCtx, cancel := context.WithTimeout(ctx, c.opts.Timeout)
	defer cancel()

	var resp struct {
		Items []channelItem `json:"items"`
	}
	if err := c.list(callCtx, "channels", channelID, &resp); err != nil {
		return nil, c.upstreamError(err)
	}
	if len(resp.Items) == 0 {
		return nil, nil
	}

	item := resp.Items[0]
	info := &models.ChannelInfo{
		ChannelID:       item.ID,
		Title:           models.UnknownChannelTitle,
		SubscriberCount: models.NotAvailable,
		VideoCount:      models.NotAvailable,
		ViewCount:       models.NotAvailable,
	}
	if sn := item.Snippet; sn != nil {
		if sn.Title != "" {
			info.Title = sn.Title
		}
		info.Description = sn.Description
		info.PublishedAt = sn.PublishedAt
		info.ThumbnailURL = thumbnailURL(sn.Thumbnails, "high", "medium", "default")
	}
	if st := item.Statistics; st != nil {
		if !st.HiddenSubscriberCount {
			info.SubscriberCount = count(st.SubscriberCount)
		}
		info.VideoCount = count(st.VideoCount)
		info.ViewCount = count(st.ViewCount)
	}
	return info, nil
}

// The generated statistics types decode an omitted count as zero, so the
// videos and channels lookups decode into these instead.
type videoItem struct {
	ID         string              `json:"id"`
	Snippet    *ytapi.VideoSnippet `json:"snippet"`
	Statistics *struct {
		ViewCount    *string `json:"viewCount"`
		LikeCount    *string `json:"likeCount"`
		CommentCount *string `json:"commentCount"`
	} `json:"statistics"`
}

type channelItem struct {
	ID         string                `json:"id"`
	Snippet    *ytapi.ChannelSnippet `json:"snippet"`
	Statistics *struct {
		ViewCount             *string `json:"viewCount"`
		SubscriberCount       *string `json:"subscriberCount"`
		HiddenSubscriberCount bool    `json:"hiddenSubscriberCount"`
		VideoCount            *string `json:"videoCount"`
	} `json:"statistics"`
}

// list fetches the snippet and statistics of one resource by id. Non-2xx
// replies come back as *googleapi.Error.
func (c *Client) list(ctx context.Context, resource, id string, out any) error {
	params := url.Values{
		"part":        {"snippet", "statistics"},
		"id":          {id},
		"key":         {c.apiKey},
		"alt":         {"json"},
		"prettyPrint": {"false"},
	}
	endpoint := googleapi.ResolveRelative(c.service.BasePath, "youtube/v3/"+resource) + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	resp, err := c.opts.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer googleapi.CloseBody(resp)

	if err := googleapi.CheckResponse(resp); err != nil {
		return err
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", resource, err)
	}
	return nil
}

func (c *Client) boundMaxResults(n int64) int64 {
	if n <= 0 {
		return DefaultMaxResults
	}
	if n > c.opts.MaxResultsLimit {
		return c.opts.MaxResultsLimit
	}
	return n
}

func (c *Client) upstreamError(err error) error {
	c.opts.Metrics.UpstreamError("youtube")
	c.opts.Logger.Warn().Err(err).Msg("youtube data api call failed")

	msg := err.Error()
	var gerr *googleapi.Error
	if errors.As(err, &gerr) && gerr.Message != "" {
		msg = gerr.Message
	}
	return apperrors.Wrap(err, apperrors.CodeUpstream, "YouTube API error: "+msg)
}

// thumbnailURL returns the first available thumbnail in the given size order.
func thumbnailURL(t *ytapi.ThumbnailDetails, sizes ...string) string {
	if t == nil {
		return ""
	}
	for _, size := range sizes {
		var th *ytapi.Thumbnail
		switch size {
		case "high":
			th = t.High
		case "medium":
			th = t.Medium
		case "default":
			th = t.Default
		}
		if th != nil && th.Url != "" {
			return th.Url
		}
	}
	return ""
}

// count returns the upstream count, or NotAvailable when it was omitted.
func count(v *string) string {
	if v == nil || *v == "" {
		return models.NotAvailable
	}
	return *v
}
