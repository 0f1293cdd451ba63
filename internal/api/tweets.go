package api

import (
	"net/http"

	"github.com/sumit00002/VidTube-Practice-Backend/internal/content"
	"github.com/sumit00002/VidTube-Practice-Backend/internal/view"
)

func (h *Handler) ListTweets(w http.ResponseWriter, r *http.Request) {
	h.listTweets(w, r, view.TweetFilter{})
}

func (h *Handler) ListUserTweets(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "userId")
	if err != nil {
		fail(w, r, err)
		return
	}
	h.listTweets(w, r, view.TweetFilter{OwnerID: userID})
}

func (h *Handler) listTweets(w http.ResponseWriter, r *http.Request, f view.TweetFilter) {
	q, err := view.ParseQuery(r.URL.Query())
	if err != nil {
		fail(w, r, err)
		return
	}
	page, err := h.composer.ListTweets(r.Context(), viewerID(r), f, q)
	if err != nil {
		fail(w, r, err)
		return
	}
	respond(w, http.StatusOK, page, "Tweets fetched successfully")
}

type tweetRequest struct {
	Content    *string `json:"content"`
	Visibility *string `json:"visibility"`
}

// CreateTweet accepts JSON, or multipart/form-data with an optional media
// part.
func (h *Handler) CreateTweet(w http.ResponseWriter, r *http.Request) {
	var in content.NewTweet
	if isMultipart(r) {
		if err := parseMultipart(r); err != nil {
			fail(w, r, err)
			return
		}
		media, part, err := formFile(r, "media")
		defer closeAll(part)
		if err != nil {
			fail(w, r, err)
			return
		}
		in = content.NewTweet{Content: r.FormValue("content"), Visibility: r.FormValue("visibility"), Media: media}
	} else {
		var req tweetRequest
		if err := decodeJSON(w, r, &req); err != nil {
			fail(w, r, err)
			return
		}
		in = content.NewTweet{Content: deref(req.Content), Visibility: deref(req.Visibility)}
	}

	t, err := h.content.CreateTweet(r.Context(), viewerID(r), in)
	if err != nil {
		fail(w, r, err)
		return
	}
	respond(w, http.StatusCreated, t, "Tweet created successfully")
}

func (h *Handler) UpdateTweet(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "tweetId")
	if err != nil {
		fail(w, r, err)
		return
	}
	var req tweetRequest
	if err := decodeJSON(w, r, &req); err != nil {
		fail(w, r, err)
		return
	}
	t, err := h.content.UpdateTweet(r.Context(), viewerID(r), id, content.TweetPatch{
		Content:    req.Content,
		Visibility: req.Visibility,
	})
	if err != nil {
		fail(w, r, err)
		return
	}
	respond(w, http.StatusOK, t, "Tweet updated successfully")
}

func (h *Handler) DeleteTweet(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "tweetId")
	if err != nil {
		fail(w, r, err)
		return
	}
	if err := h.content.DeleteTweet(r.Context(), viewerID(r), id); err != nil {
		fail(w, r, err)
		return
	}
	respond(w, http.StatusOK, struct{}{}, "Tweet deleted successfully")
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
