// Package api exposes the REST resources under /api/v1.
package api

import (
	"net/http"
	"strings"

	"github.com/sumit00002/VidTube-Practice-Backend/internal/account"
	"github.com/sumit00002/VidTube-Practice-Backend/internal/app"
	"github.com/sumit00002/VidTube-Practice-Backend/internal/auth"
	"github.com/sumit00002/VidTube-Practice-Backend/internal/content"
	"github.com/sumit00002/VidTube-Practice-Backend/internal/edge"
	"github.com/sumit00002/VidTube-Practice-Backend/internal/repository"
	"github.com/sumit00002/VidTube-Practice-Backend/internal/service/health"
	"github.com/sumit00002/VidTube-Practice-Backend/internal/view"
)

// Prefix is the path every resource is mounted under.
const Prefix = "/api/v1"

// Handler holds the services behind the HTTP resources.
type Handler struct {
	appCtx   *app.AppContext
	sessions *auth.Manager
	accounts *account.Service
	content  *content.Service
	composer *view.Composer
	edges    *edge.Store
	health   *health.Service
	cookies  CookiePolicy
}

// NewHandler wires every service from the application context.
func NewHandler(appCtx *app.AppContext, healthSvc *health.Service) (*Handler, error) {
	users := repository.NewUserRepository(appCtx.DB)
	sessions := auth.NewManagerFromConfig(users, appCtx.Config.Auth)

	accounts, err := account.NewService(appCtx, auth.NewBcryptHasher(appCtx.Config.Auth.BcryptCost), sessions)
	if err != nil {
		return nil, err
	}
	edges := edge.NewStore(repository.NewEdgeRepository(appCtx.DB), repository.NewTargetResolver(appCtx.DB))

	return &Handler{
		appCtx:   appCtx,
		sessions: sessions,
		accounts: accounts,
		content:  content.NewService(appCtx),
		composer: view.NewComposer(appCtx.DB, edges),
		edges:    edges,
		health:   healthSvc,
		cookies:  CookiePolicy{AlwaysSecure: appCtx.Config.HTTP.SecureCookies},
	}, nil
}

// Routes registers every resource on a new mux.
func (h *Handler) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	route := func(pattern string, fn http.HandlerFunc) {
		method, path, _ := strings.Cut(pattern, " ")
		mux.HandleFunc(method+" "+Prefix+path, fn)
	}
	opt, req := h.optionalUser, h.requireUser

	route("GET /healthcheck", h.Healthcheck)

	// users
	route("POST /users/register", h.Register)
	route("POST /users/login", h.Login)
	route("POST /users/refresh-token", h.RefreshToken)
	route("POST /users/logout", req(h.Logout))
	route("POST /users/change-password", req(h.ChangePassword))
	route("GET /users/current-user", req(h.CurrentUser))
	route("PATCH /users/update-profile", req(h.UpdateProfile))
	route("PATCH /users/avatar", req(h.UpdateAvatar))
	route("PATCH /users/cover-image", req(h.UpdateCover))
	route("GET /users/channel/{username}", opt(h.Channel))
	route("GET /users/watch-history", req(h.WatchHistory))

	// videos
	route("GET /videos", opt(h.ListVideos))
	route("POST /videos", req(h.PublishVideo))
	route("GET /videos/{videoId}", opt(h.GetVideo))
	route("PATCH /videos/{videoId}", req(h.UpdateVideo))
	route("DELETE /videos/{videoId}", req(h.DeleteVideo))
	route("PATCH /videos/thumbnail/{videoId}", req(h.UpdateThumbnail))
	route("PATCH /videos/toggle/publish/{videoId}", req(h.TogglePublish))

	// comments
	route("GET /comments/video/{videoId}", opt(h.ListVideoComments))
	route("POST /comments/video/{videoId}", req(h.AddComment))
	route("GET /comments/user/{userId}", opt(h.ListUserComments))
	route("GET /comments/{commentId}", opt(h.GetComment))
	route("PATCH /comments/{commentId}", req(h.UpdateComment))
	route("DELETE /comments/{commentId}", req(h.DeleteComment))

	// tweets
	route("GET /tweets", opt(h.ListTweets))
	route("POST /tweets", req(h.CreateTweet))
	route("GET /tweets/user/{userId}", opt(h.ListUserTweets))
	route("PATCH /tweets/{tweetId}", req(h.UpdateTweet))
	route("DELETE /tweets/{tweetId}", req(h.DeleteTweet))

	// playlists
	route("POST /playlists", req(h.CreatePlaylist))
	route("GET /playlists/user/{userId}", opt(h.ListUserPlaylists))
	route("GET /playlists/{playlistId}", opt(h.GetPlaylist))
	route("PATCH /playlists/{playlistId}", req(h.UpdatePlaylist))
	route("DELETE /playlists/{playlistId}", req(h.DeletePlaylist))
	route("PATCH /playlists/add/{playlistId}/{videoId}", req(h.AddToPlaylist))
	route("PATCH /playlists/remove/{playlistId}/{videoId}", req(h.RemoveFromPlaylist))

	// likes and subscriptions
	route("POST /likes/toggle/{targetType}/{targetId}", req(h.ToggleLike))
	route("GET /likes/videos", req(h.LikedVideos))
	route("GET /likes/count/{targetType}/{targetId}", opt(h.LikeCount))
	route("POST /subscriptions/toggle/{channelId}", req(h.ToggleSubscription))
	route("GET /subscriptions/subscribers/{channelId}", opt(h.Subscribers))
	route("GET /subscriptions/subscribed/{subscriberId}", opt(h.Subscriptions))

	// dashboard
	route("GET /dashboard/stats", req(h.DashboardStats))
	route("GET /dashboard/videos", req(h.DashboardVideos))
	route("GET /dashboard/analytics", req(h.DashboardAnalytics))
	route("GET /dashboard/video/{videoId}", req(h.DashboardVideoPerformance))
	route("GET /dashboard/revenue", req(h.DashboardRevenue))

	// uploaded media served from the local store
	if up := h.appCtx.Config.Upload; strings.HasPrefix(up.BaseURL, "/") && up.Dir != "" {
		base := strings.TrimRight(up.BaseURL, "/")
		mux.Handle("GET "+base+"/", http.StripPrefix(base, http.FileServer(http.Dir(up.Dir))))
	}
	return mux
}

// Healthcheck reports database and Redis reachability.
func (h *Handler) Healthcheck(w http.ResponseWriter, r *http.Request) {
	st, err := h.health.Check(r.Context())
	if err != nil {
		h.appCtx.Logger.Warn("healthcheck failed", "err", err)
		writeJSON(w, http.StatusServiceUnavailable, envelope{
			StatusCode: http.StatusServiceUnavailable,
			Data:       st,
			Message:    "unhealthy",
		})
		return
	}
	respond(w, http.StatusOK, st, "ok")
}
