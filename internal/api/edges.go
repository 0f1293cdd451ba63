package api

import (
	"net/http"

	"github.com/sumit00002/VidTube-Practice-Backend/internal/edge"
	svcErr "github.com/sumit00002/VidTube-Practice-Backend/internal/errors"
	"github.com/sumit00002/VidTube-Practice-Backend/internal/view"
)

// likeTarget parses the {targetType} segment; channels are subscribed to,
// not liked.
func likeTarget(r *http.Request) (edge.TargetType, string, error) {
	t, err := edge.ParseTargetType(r.PathValue("targetType"))
	if err != nil {
		return "", "", err
	}
	if t == edge.Channel {
		return "", "", svcErr.Validation("likes target a video, comment or tweet")
	}
	id, err := pathID(r, "targetId")
	if err != nil {
		return "", "", err
	}
	return t, id, nil
}

// toggleStatus is 201 when the edge now exists and 200 when it was removed.
func toggleStatus(present bool) int {
	if present {
		return http.StatusCreated
	}
	return http.StatusOK
}

func (h *Handler) ToggleLike(w http.ResponseWriter, r *http.Request) {
	t, id, err := likeTarget(r)
	if err != nil {
		fail(w, r, err)
		return
	}
	liked, err := h.edges.Toggle(r.Context(), viewerID(r), t, id)
	if err != nil {
		fail(w, r, err)
		return
	}
	msg := "Like removed"
	if liked {
		msg = "Liked successfully"
	}
	respond(w, toggleStatus(liked), map[string]bool{"isLiked": liked}, msg)
}

type likeCount struct {
	LikesCount int64 `json:"likesCount"`
	IsLiked    *bool `json:"isLiked,omitempty"`
}

func (h *Handler) LikeCount(w http.ResponseWriter, r *http.Request) {
	t, id, err := likeTarget(r)
	if err != nil {
		fail(w, r, err)
		return
	}
	n, err := h.edges.CountFor(r.Context(), t, id)
	if err != nil {
		fail(w, r, err)
		return
	}
	out := likeCount{LikesCount: n}
	if viewer := viewerID(r); viewer != "" {
		liked, err := h.edges.Exists(r.Context(), viewer, t, id)
		if err != nil {
			fail(w, r, err)
			return
		}
		out.IsLiked = &liked
	}
	respond(w, http.StatusOK, out, "Likes count fetched successfully")
}

func (h *Handler) LikedVideos(w http.ResponseWriter, r *http.Request) {
	q, err := view.ParseQuery(r.URL.Query())
	if err != nil {
		fail(w, r, err)
		return
	}
	page, err := h.composer.ListLikedVideos(r.Context(), viewerID(r), q)
	if err != nil {
		fail(w, r, err)
		return
	}
	respond(w, http.StatusOK, page, "Liked videos fetched successfully")
}

func (h *Handler) ToggleSubscription(w http.ResponseWriter, r *http.Request) {
	channelID, err := pathID(r, "channelId")
	if err != nil {
		fail(w, r, err)
		return
	}
	subscribed, err := h.edges.Toggle(r.Context(), viewerID(r), edge.Channel, channelID)
	if err != nil {
		fail(w, r, err)
		return
	}
	msg := "Unsubscribed successfully"
	if subscribed {
		msg = "Subscribed successfully"
	}
	respond(w, toggleStatus(subscribed), map[string]bool{"subscribed": subscribed}, msg)
}

func (h *Handler) Subscribers(w http.ResponseWriter, r *http.Request) {
	channelID, err := pathID(r, "channelId")
	if err != nil {
		fail(w, r, err)
		return
	}
	q, err := view.ParseQuery(r.URL.Query())
	if err != nil {
		fail(w, r, err)
		return
	}
	page, err := h.composer.ListSubscribers(r.Context(), viewerID(r), channelID, q)
	if err != nil {
		fail(w, r, err)
		return
	}
	respond(w, http.StatusOK, page, "Subscribers fetched successfully")
}

func (h *Handler) Subscriptions(w http.ResponseWriter, r *http.Request) {
	subscriberID, err := pathID(r, "subscriberId")
	if err != nil {
		fail(w, r, err)
		return
	}
	q, err := view.ParseQuery(r.URL.Query())
	if err != nil {
		fail(w, r, err)
		return
	}
	page, err := h.composer.ListSubscriptions(r.Context(), viewerID(r), subscriberID, q)
	if err != nil {
		fail(w, r, err)
		return
	}
	respond(w, http.StatusOK, page, "Subscribed channels fetched successfully")
}
