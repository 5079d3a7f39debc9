package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	apperrors "yt-summarizer/internal/errors"
	"yt-summarizer/internal/middleware"
	"yt-summarizer/internal/models"
	"yt-summarizer/internal/render"
	"yt-summarizer/internal/youtube"
)

const maxBodyBytes = 1 << 20

type VideoSearcher interface {
	SearchVideos(ctx context.Context, params youtube.SearchParams) (*models.SearchResult, error)
}

type Summarizer interface {
	Generate(ctx context.Context, videoID string, format models.SummaryFormat) (*models.VideoSummary, error)
}

type SubscriptionService interface {
	List(ctx context.Context, userID string) ([]models.Subscription, error)
	Subscribe(ctx context.Context, userID, channelID string) (*models.Subscription, bool, error)
	Unsubscribe(ctx context.Context, userID, channelID string) error
}

// Pinger checks a dependency for /healthz.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Handlers struct {
	videos        VideoSearcher
	summaries     Summarizer
	subscriptions SubscriptionService
	db            Pinger
}

func New(videos VideoSearcher, summaries Summarizer, subscriptions SubscriptionService, db Pinger) *Handlers {
	return &Handlers{
		videos:        videos,
		summaries:     summaries,
		subscriptions: subscriptions,
		db:            db,
	}
}

func (h *Handlers) Index(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, http.StatusOK, map[string]any{
		"message": "YouTube search and summary API is running",
		"endpoints": map[string]string{
			"search":        "/api/search (POST with JSON body)",
			"summarize":     "/api/summarize (POST with JSON body)",
			"auth_verify":   "/api/auth/verify (POST with Authorization header)",
			"subscriptions": "/api/subscriptions/ (GET, POST with JSON body)",
			"unsubscribe":   "/api/subscriptions/{channel_id} (DELETE)",
		},
	})
}

// VerifyAuth reports the identity proved by the caller's token.
func (h *Handlers) VerifyAuth(w http.ResponseWriter, r *http.Request) {
	identity, ok := identity(w, r)
	if !ok {
		return
	}
	render.JSON(w, http.StatusOK, map[string]any{
		"authenticated": true,
		"user":          identity,
	})
}

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.db.Ping(r.Context()); err != nil {
		render.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	render.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handlers) NotFound(w http.ResponseWriter, r *http.Request) {
	render.Error(w, r, apperrors.New(apperrors.CodeNotFound, "Not found"))
}

func identity(w http.ResponseWriter, r *http.Request) (*models.Identity, bool) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		render.Error(w, r, apperrors.New(apperrors.CodeUnauthenticated, "Authentication required"))
		return nil, false
	}
	return identity, true
}

// decodeBody reads a JSON object into dst. An empty body leaves dst unchanged.
func decodeBody(r *http.Request, dst any) error {
	err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(dst)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}
	return apperrors.Wrap(err, apperrors.CodeInvalidArg, "Invalid JSON body")
}
