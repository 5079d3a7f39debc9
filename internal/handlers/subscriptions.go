package handlers

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	apperrors "yt-summarizer/internal/errors"
	"yt-summarizer/internal/render"
)

type subscribeRequest struct {
	ChannelID string `json:"channel_id"`
}

func (h *Handlers) GetSubscriptions(w http.ResponseWriter, r *http.Request) {
	user, ok := identity(w, r)
	if !ok {
		return
	}

	subscriptions, err := h.subscriptions.List(r.Context(), user.UserID)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, map[string]any{
		"subscriptions": subscriptions,
		"count":         len(subscriptions),
	})
}

func (h *Handlers) PostSubscription(w http.ResponseWriter, r *http.Request) {
	user, ok := identity(w, r)
	if !ok {
		return
	}

	var req subscribeRequest
	if err := decodeBody(r, &req); err != nil {
		render.Error(w, r, err)
		return
	}
	channelID := strings.TrimSpace(req.ChannelID)
	if channelID == "" {
		render.Error(w, r, apperrors.New(apperrors.CodeInvalidArg, "Missing channel_id parameter"))
		return
	}

	sub, created, err := h.subscriptions.Subscribe(r.Context(), user.UserID, channelID)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	if !created {
		render.JSON(w, http.StatusOK, map[string]any{
			"message":      "Already subscribed to this channel",
			"subscription": sub,
		})
		return
	}
	render.JSON(w, http.StatusCreated, map[string]any{
		"message":      "Subscribed to channel",
		"subscription": sub,
	})
}

func (h *Handlers) DeleteSubscription(w http.ResponseWriter, r *http.Request) {
	user, ok := identity(w, r)
	if !ok {
		return
	}
	channelID := mux.Vars(r)["channel_id"]

	if err := h.subscriptions.Unsubscribe(r.Context(), user.UserID, channelID); err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, map[string]any{
		"message":    "Unsubscribed from channel",
		"channel_id": channelID,
	})
}
