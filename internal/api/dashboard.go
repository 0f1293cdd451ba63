package api

import (
	"net/http"
	"time"

	"github.com/sumit00002/VidTube-Practice-Backend/internal/view"
)

func (h *Handler) DashboardStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.composer.ChannelStats(r.Context(), viewerID(r))
	if err != nil {
		fail(w, r, err)
		return
	}
	respond(w, http.StatusOK, stats, "Channel stats fetched successfully")
}

// DashboardVideos lists the caller's own videos, drafts included.
func (h *Handler) DashboardVideos(w http.ResponseWriter, r *http.Request) {
	q, err := view.ParseQuery(r.URL.Query())
	if err != nil {
		fail(w, r, err)
		return
	}
	viewer := viewerID(r)
	page, err := h.composer.ListVideos(r.Context(), viewer, q, view.VideoFilter{OwnerID: viewer, IncludeUnpublished: true})
	if err != nil {
		fail(w, r, err)
		return
	}
	respond(w, http.StatusOK, page, "Channel videos fetched successfully")
}

// DashboardAnalytics reports the last 12 months of uploads, the top videos
// and recent subscribers.
func (h *Handler) DashboardAnalytics(w http.ResponseWriter, r *http.Request) {
	analytics, err := h.composer.ChannelAnalytics(r.Context(), viewerID(r), time.Now().UTC())
	if err != nil {
		fail(w, r, err)
		return
	}
	respond(w, http.StatusOK, analytics, "Channel analytics fetched successfully")
}

func (h *Handler) DashboardVideoPerformance(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "videoId")
	if err != nil {
		fail(w, r, err)
		return
	}
	perf, err := h.composer.VideoPerformance(r.Context(), viewerID(r), id)
	if err != nil {
		fail(w, r, err)
		return
	}
	respond(w, http.StatusOK, perf, "Video performance fetched successfully")
}

func (h *Handler) DashboardRevenue(w http.ResponseWriter, r *http.Request) {
	revenue, err := h.composer.RevenueSummary(r.Context(), viewerID(r))
	if err != nil {
		fail(w, r, err)
		return
	}
	respond(w, http.StatusOK, revenue, "Revenue summary fetched successfully")
}
