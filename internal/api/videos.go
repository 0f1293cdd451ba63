package api

import (
	"net/http"

	"github.com/sumit00002/VidTube-Practice-Backend/internal/content"
	"github.com/sumit00002/VidTube-Practice-Backend/internal/view"
)

// ListVideos serves GET /videos?page&limit&query&sortBy&sortType&userId&cursor.
func (h *Handler) ListVideos(w http.ResponseWriter, r *http.Request) {
	q, err := view.ParseQuery(r.URL.Query())
	if err != nil {
		fail(w, r, err)
		return
	}
	ownerID, err := optionalQueryID(r, "userId")
	if err != nil {
		fail(w, r, err)
		return
	}
	page, err := h.composer.ListVideos(r.Context(), viewerID(r), q, view.VideoFilter{OwnerID: ownerID})
	if err != nil {
		fail(w, r, err)
		return
	}
	respond(w, http.StatusOK, page, "Videos fetched successfully")
}

func (h *Handler) PublishVideo(w http.ResponseWriter, r *http.Request) {
	if err := parseMultipart(r); err != nil {
		fail(w, r, err)
		return
	}
	video, videoPart, err := formFile(r, "videoFile")
	if err != nil {
		fail(w, r, err)
		return
	}
	thumb, thumbPart, err := formFile(r, "thumbnail")
	defer closeAll(videoPart, thumbPart)
	if err != nil {
		fail(w, r, err)
		return
	}

	v, err := h.content.PublishVideo(r.Context(), viewerID(r), content.NewVideo{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		Video:       video,
		Thumbnail:   thumb,
	})
	if err != nil {
		fail(w, r, err)
		return
	}
	respond(w, http.StatusCreated, v, "Video published successfully")
}

// GetVideo counts a view and, for signed-in viewers, records watch history.
func (h *Handler) GetVideo(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "videoId")
	if err != nil {
		fail(w, r, err)
		return
	}
	v, err := h.composer.GetVideo(r.Context(), viewerID(r), id)
	if err != nil {
		fail(w, r, err)
		return
	}
	respond(w, http.StatusOK, v, "Video fetched successfully")
}

type updateVideoRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
}

func (h *Handler) UpdateVideo(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "videoId")
	if err != nil {
		fail(w, r, err)
		return
	}
	var req updateVideoRequest
	if err := decodeJSON(w, r, &req); err != nil {
		fail(w, r, err)
		return
	}
	v, err := h.content.UpdateVideo(r.Context(), viewerID(r), id, content.VideoPatch{
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		fail(w, r, err)
		return
	}
	respond(w, http.StatusOK, v, "Video updated successfully")
}

func (h *Handler) DeleteVideo(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "videoId")
	if err != nil {
		fail(w, r, err)
		return
	}
	if err := h.content.DeleteVideo(r.Context(), viewerID(r), id); err != nil {
		fail(w, r, err)
		return
	}
	respond(w, http.StatusOK, struct{}{}, "Video deleted successfully")
}

func (h *Handler) UpdateThumbnail(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "videoId")
	if err != nil {
		fail(w, r, err)
		return
	}
	if err := parseMultipart(r); err != nil {
		fail(w, r, err)
		return
	}
	thumb, part, err := formFile(r, "thumbnail")
	defer closeAll(part)
	if err != nil {
		fail(w, r, err)
		return
	}
	v, err := h.content.UpdateThumbnail(r.Context(), viewerID(r), id, thumb)
	if err != nil {
		fail(w, r, err)
		return
	}
	respond(w, http.StatusOK, v, "Thumbnail updated successfully")
}

func (h *Handler) TogglePublish(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "videoId")
	if err != nil {
		fail(w, r, err)
		return
	}
	v, err := h.content.TogglePublish(r.Context(), viewerID(r), id)
	if err != nil {
		fail(w, r, err)
		return
	}
	respond(w, http.StatusOK, v, "Publish status toggled successfully")
}
