package api

import (
	"context"
	"net/http"

	"github.com/sumit00002/VidTube-Practice-Backend/internal/content"
	"github.com/sumit00002/VidTube-Practice-Backend/internal/view"
)

type playlistRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Visibility  *string `json:"visibility"`
}

func (h *Handler) CreatePlaylist(w http.ResponseWriter, r *http.Request) {
	var req playlistRequest
	if err := decodeJSON(w, r, &req); err != nil {
		fail(w, r, err)
		return
	}
	p, err := h.content.CreatePlaylist(r.Context(), viewerID(r), content.NewPlaylist{
		Name:        deref(req.Name),
		Description: deref(req.Description),
		Visibility:  deref(req.Visibility),
	})
	if err != nil {
		fail(w, r, err)
		return
	}
	respond(w, http.StatusCreated, p, "Playlist created successfully")
}

func (h *Handler) ListUserPlaylists(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "userId")
	if err != nil {
		fail(w, r, err)
		return
	}
	q, err := view.ParseQuery(r.URL.Query())
	if err != nil {
		fail(w, r, err)
		return
	}
	page, err := h.composer.ListPlaylists(r.Context(), viewerID(r), userID, q)
	if err != nil {
		fail(w, r, err)
		return
	}
	respond(w, http.StatusOK, page, "Playlists fetched successfully")
}

func (h *Handler) GetPlaylist(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "playlistId")
	if err != nil {
		fail(w, r, err)
		return
	}
	p, err := h.composer.GetPlaylist(r.Context(), viewerID(r), id)
	if err != nil {
		fail(w, r, err)
		return
	}
	respond(w, http.StatusOK, p, "Playlist fetched successfully")
}

func (h *Handler) UpdatePlaylist(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "playlistId")
	if err != nil {
		fail(w, r, err)
		return
	}
	var req playlistRequest
	if err := decodeJSON(w, r, &req); err != nil {
		fail(w, r, err)
		return
	}
	p, err := h.content.UpdatePlaylist(r.Context(), viewerID(r), id, content.PlaylistPatch{
		Name:        req.Name,
		Description: req.Description,
		Visibility:  req.Visibility,
	})
	if err != nil {
		fail(w, r, err)
		return
	}
	respond(w, http.StatusOK, p, "Playlist updated successfully")
}

func (h *Handler) DeletePlaylist(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "playlistId")
	if err != nil {
		fail(w, r, err)
		return
	}
	if err := h.content.DeletePlaylist(r.Context(), viewerID(r), id); err != nil {
		fail(w, r, err)
		return
	}
	respond(w, http.StatusOK, struct{}{}, "Playlist deleted successfully")
}

func (h *Handler) AddToPlaylist(w http.ResponseWriter, r *http.Request) {
	h.changeMembership(w, r, h.content.AddToPlaylist, "Video added to playlist")
}

func (h *Handler) RemoveFromPlaylist(w http.ResponseWriter, r *http.Request) {
	h.changeMembership(w, r, h.content.RemoveFromPlaylist, "Video removed from playlist")
}

func (h *Handler) changeMembership(
	w http.ResponseWriter,
	r *http.Request,
	change func(ctx context.Context, callerID, playlistID, videoID string) (view.PlaylistView, error),
	message string,
) {
	playlistID, err := pathID(r, "playlistId")
	if err != nil {
		fail(w, r, err)
		return
	}
	videoID, err := pathID(r, "videoId")
	if err != nil {
		fail(w, r, err)
		return
	}
	p, err := change(r.Context(), viewerID(r), playlistID, videoID)
	if err != nil {
		fail(w, r, err)
		return
	}
	respond(w, http.StatusOK, p, message)
}
