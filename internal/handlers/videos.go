package handlers

import (
	"net/http"
	"strings"

	apperrors "yt-summarizer/internal/errors"
	"yt-summarizer/internal/render"
	"yt-summarizer/internal/summary"
	"yt-summarizer/internal/youtube"
)

type searchRequest struct {
	Query          string `json:"q"`
	MaxResults     int64  `json:"max_results"`
	ChannelID      string `json:"channel_id"`
	PublishedAfter string `json:"published_after"`
}

type summarizeRequest struct {
	VideoID string `json:"video_id"`
	Format  string `json:"format"`
}

func (h *Handlers) Search(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := decodeBody(r, &req); err != nil {
		render.Error(w, r, err)
		return
	}
	query := strings.TrimSpace(req.Query)
	if query == "" {
		render.Error(w, r, apperrors.New(apperrors.CodeInvalidArg, "Missing query parameter (q)"))
		return
	}

	result, err := h.videos.SearchVideos(r.Context(), youtube.SearchParams{
		Query:          query,
		MaxResults:     req.MaxResults,
		ChannelID:      strings.TrimSpace(req.ChannelID),
		PublishedAfter: strings.TrimSpace(req.PublishedAfter),
	})
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, map[string]any{
		"query":  query,
		"count":  result.TotalCount,
		"videos": result.Items,
	})
}

func (h *Handlers) Summarize(w http.ResponseWriter, r *http.Request) {
	var req summarizeRequest
	if err := decodeBody(r, &req); err != nil {
		render.Error(w, r, err)
		return
	}
	videoID := strings.TrimSpace(req.VideoID)
	if videoID == "" {
		render.Error(w, r, apperrors.New(apperrors.CodeInvalidArg, "Missing video_id parameter"))
		return
	}
	format, err := summary.ParseFormat(req.Format)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	result, err := h.summaries.Generate(r.Context(), videoID, format)
	if err != nil {
		render.Error(w, r, err)
		return
	}
	render.JSON(w, http.StatusOK, result)
}
