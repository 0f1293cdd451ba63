package api

import (
	"net/http"

	"github.com/sumit00002/VidTube-Practice-Backend/internal/view"
)

// ListVideoComments pages comments on a video. ?parentId=<uuid> lists the
// replies to one comment, ?parentId=root the top-level comments only.
func (h *Handler) ListVideoComments(w http.ResponseWriter, r *http.Request) {
	videoID, err := pathID(r, "videoId")
	if err != nil {
		fail(w, r, err)
		return
	}
	f := view.CommentFilter{VideoID: videoID}
	switch raw := r.URL.Query().Get("parentId"); raw {
	case "":
	case "root":
		f.ParentID = new(string)
	default:
		parentID, err := checkID(raw, "parentId")
		if err != nil {
			fail(w, r, err)
			return
		}
		f.ParentID = &parentID
	}
	h.listComments(w, r, f)
}

func (h *Handler) ListUserComments(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "userId")
	if err != nil {
		fail(w, r, err)
		return
	}
	h.listComments(w, r, view.CommentFilter{OwnerID: userID})
}

func (h *Handler) listComments(w http.ResponseWriter, r *http.Request, f view.CommentFilter) {
	q, err := view.ParseQuery(r.URL.Query())
	if err != nil {
		fail(w, r, err)
		return
	}
	page, err := h.composer.ListComments(r.Context(), viewerID(r), f, q)
	if err != nil {
		fail(w, r, err)
		return
	}
	respond(w, http.StatusOK, page, "Comments fetched successfully")
}

type commentRequest struct {
	Content         string  `json:"content"`
	ParentCommentID *string `json:"parentCommentId"`
}

func (h *Handler) AddComment(w http.ResponseWriter, r *http.Request) {
	videoID, err := pathID(r, "videoId")
	if err != nil {
		fail(w, r, err)
		return
	}
	var req commentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		fail(w, r, err)
		return
	}
	if req.ParentCommentID != nil {
		parentID, err := checkID(*req.ParentCommentID, "parentCommentId")
		if err != nil {
			fail(w, r, err)
			return
		}
		req.ParentCommentID = &parentID
	}
	c, err := h.content.AddComment(r.Context(), viewerID(r), videoID, req.Content, req.ParentCommentID)
	if err != nil {
		fail(w, r, err)
		return
	}
	respond(w, http.StatusCreated, c, "Comment added successfully")
}

func (h *Handler) GetComment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "commentId")
	if err != nil {
		fail(w, r, err)
		return
	}
	c, err := h.composer.GetComment(r.Context(), viewerID(r), id)
	if err != nil {
		fail(w, r, err)
		return
	}
	respond(w, http.StatusOK, c, "Comment fetched successfully")
}

func (h *Handler) UpdateComment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "commentId")
	if err != nil {
		fail(w, r, err)
		return
	}
	var req commentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		fail(w, r, err)
		return
	}
	c, err := h.content.UpdateComment(r.Context(), viewerID(r), id, req.Content)
	if err != nil {
		fail(w, r, err)
		return
	}
	respond(w, http.StatusOK, c, "Comment updated successfully")
}

func (h *Handler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "commentId")
	if err != nil {
		fail(w, r, err)
		return
	}
	if err := h.content.DeleteComment(r.Context(), viewerID(r), id); err != nil {
		fail(w, r, err)
		return
	}
	respond(w, http.StatusOK, struct{}{}, "Comment deleted successfully")
}
