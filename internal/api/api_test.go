package api_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/sumit00002/VidTube-Practice-Backend/internal/api"
	"github.com/sumit00002/VidTube-Practice-Backend/internal/app"
	"github.com/sumit00002/VidTube-Practice-Backend/internal/config"
	"github.com/sumit00002/VidTube-Practice-Backend/internal/db"
	"github.com/sumit00002/VidTube-Practice-Backend/internal/service/health"
	"github.com/sumit00002/VidTube-Practice-Backend/internal/testsupport"
	"github.com/sumit00002/VidTube-Practice-Backend/internal/upload"
)

type testAPI struct {
	t   *testing.T
	srv *httptest.Server
	db  *gorm.DB
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	database := testsupport.OpenDB(t)

	cfg := config.Defaults()
	cfg.App.Env = "development"
	cfg.Auth.AccessSecret = "access-secret"
	cfg.Auth.RefreshSecret = "refresh-secret"
	cfg.Auth.BcryptCost = 4
	cfg.HTTP.SecureCookies = false
	cfg.Upload.Dir = t.TempDir()

	appCtx := app.New(cfg, database, nil, upload.NewLocalStore(cfg.Upload), slog.Default())
	h, err := api.NewHandler(appCtx, health.NewService(appCtx))
	require.NoError(t, err)

	srv := httptest.NewServer(h.Routes())
	t.Cleanup(srv.Close)
	return &testAPI{t: t, srv: srv, db: database}
}

type response struct {
	Status  int
	Header  http.Header
	Cookies []*http.Cookie
	Body    struct {
		StatusCode int             `json:"statusCode"`
		Data       json.RawMessage `json:"data"`
		Message    string          `json:"message"`
		Errors     []string        `json:"errors"`
		Success    bool            `json:"success"`
	}
}

func (r response) decode(t *testing.T, dest any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(r.Body.Data, dest))
}

type option func(*http.Request)

func bearer(token string) option {
	return func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+token) }
}

func cookie(name, value string) option {
	return func(r *http.Request) { r.AddCookie(&http.Cookie{Name: name, Value: value}) }
}

func (a *testAPI) do(method, path string, body io.Reader, contentType string, opts ...option) response {
	a.t.Helper()
	req, err := http.NewRequest(method, a.srv.URL+api.Prefix+path, body)
	require.NoError(a.t, err)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	for _, o := range opts {
		o(req)
	}
	res, err := a.srv.Client().Do(req)
	require.NoError(a.t, err)
	defer res.Body.Close()

	out := response{Status: res.StatusCode, Header: res.Header, Cookies: res.Cookies()}
	raw, err := io.ReadAll(res.Body)
	require.NoError(a.t, err)
	if len(raw) > 0 {
		require.NoError(a.t, json.Unmarshal(raw, &out.Body), string(raw))
	}
	return out
}

func (a *testAPI) json(method, path string, payload any, opts ...option) response {
	a.t.Helper()
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		require.NoError(a.t, err)
		body = bytes.NewReader(b)
	}
	return a.do(method, path, body, "application/json", opts...)
}

func (a *testAPI) multipart(method, path string, fields map[string]string, files map[string]string, opts ...option) response {
	a.t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(a.t, mw.WriteField(k, v))
	}
	for field, name := range files {
		fw, err := mw.CreateFormFile(field, name)
		require.NoError(a.t, err)
		_, err = fw.Write([]byte("bytes of " + name))
		require.NoError(a.t, err)
	}
	require.NoError(a.t, mw.Close())
	return a.do(method, path, &buf, mw.FormDataContentType(), opts...)
}

type session struct {
	UserID       string
	AccessToken  string
	RefreshToken string
}

func (a *testAPI) register(username string) {
	a.t.Helper()
	res := a.multipart(http.MethodPost, "/users/register", map[string]string{
		"username": username,
		"email":    username + "@x.com",
		"password": "password123",
		"fullName": "User " + username,
	}, map[string]string{"avatar": "me.png"})
	require.Equal(a.t, http.StatusCreated, res.Status, res.Body.Message)
}

func (a *testAPI) login(login string) session {
	a.t.Helper()
	res := a.json(http.MethodPost, "/users/login", map[string]string{"email": login, "password": "password123"})
	require.Equal(a.t, http.StatusOK, res.Status, res.Body.Message)

	var out struct {
		User         struct{ ID string }
		AccessToken  string `json:"accessToken"`
		RefreshToken string `json:"refreshToken"`
	}
	res.decode(a.t, &out)
	return session{UserID: out.User.ID, AccessToken: out.AccessToken, RefreshToken: out.RefreshToken}
}

func (a *testAPI) signup(username string) session {
	a.t.Helper()
	a.register(username)
	return a.login(username + "@x.com")
}

func TestRegisterLoginAndCookies(t *testing.T) {
	a := newTestAPI(t)
	a.register("ana")

	res := a.json(http.MethodPost, "/users/login", map[string]string{"username": "ana", "password": "password123"})
	require.Equal(t, http.StatusOK, res.Status)
	assert.True(t, res.Body.Success)
	assert.Equal(t, http.StatusOK, res.Body.StatusCode)

	names := map[string]*http.Cookie{}
	for _, c := range res.Cookies {
		names[c.Name] = c
	}
	for _, name := range []string{"accessToken", "refreshToken"} {
		c, ok := names[name]
		require.True(t, ok, name)
		assert.True(t, c.HttpOnly)
		assert.Equal(t, http.SameSiteStrictMode, c.SameSite)
		assert.NotEmpty(t, c.Value)
	}

	me := a.do(http.MethodGet, "/users/current-user", nil, "", cookie("accessToken", names["accessToken"].Value))
	require.Equal(t, http.StatusOK, me.Status)
	var u struct {
		Username string `json:"username"`
		Email    string `json:"email"`
	}
	me.decode(t, &u)
	assert.Equal(t, "ana", u.Username)
	assert.NotContains(t, string(me.Body.Data), "password")

	dup := a.multipart(http.MethodPost, "/users/register", map[string]string{
		"username": "ana", "email": "ana@x.com", "password": "password123", "fullName": "Ana",
	}, map[string]string{"avatar": "me.png"})
	assert.Equal(t, http.StatusConflict, dup.Status)
	assert.False(t, dup.Body.Success)
}

func TestLogin_GenericFailure(t *testing.T) {
	a := newTestAPI(t)
	a.register("ana")

	wrong := a.json(http.MethodPost, "/users/login", map[string]string{"email": "ana@x.com", "password": "nope-nope"})
	missing := a.json(http.MethodPost, "/users/login", map[string]string{"email": "bob@x.com", "password": "password123"})
	for _, res := range []response{wrong, missing} {
		assert.Equal(t, http.StatusUnauthorized, res.Status)
		assert.Equal(t, "invalid credentials", res.Body.Message)
		assert.NotNil(t, res.Body.Errors)
	}
}

func TestRefreshTokenReuseIsRejected(t *testing.T) {
	a := newTestAPI(t)
	s := a.signup("ana")

	first := a.do(http.MethodPost, "/users/refresh-token", nil, "", cookie("refreshToken", s.RefreshToken))
	require.Equal(t, http.StatusOK, first.Status)

	reused := a.do(http.MethodPost, "/users/refresh-token", nil, "", cookie("refreshToken", s.RefreshToken))
	assert.Equal(t, http.StatusUnauthorized, reused.Status)
	assert.Equal(t, "unauthorized request", reused.Body.Message)

	// the body form works for clients without cookies
	var rotated struct {
		RefreshToken string `json:"refreshToken"`
	}
	first.decode(t, &rotated)
	viaBody := a.json(http.MethodPost, "/users/refresh-token", map[string]string{"refreshToken": rotated.RefreshToken})
	assert.Equal(t, http.StatusOK, viaBody.Status)
}

func TestLogoutRevokesRefresh(t *testing.T) {
	a := newTestAPI(t)
	s := a.signup("ana")

	res := a.do(http.MethodPost, "/users/logout", nil, "", bearer(s.AccessToken))
	require.Equal(t, http.StatusOK, res.Status)

	res = a.do(http.MethodPost, "/users/refresh-token", nil, "", cookie("refreshToken", s.RefreshToken))
	assert.Equal(t, http.StatusUnauthorized, res.Status)
}

func TestProtectedRoutesNeedToken(t *testing.T) {
	a := newTestAPI(t)

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/users/current-user"},
		{http.MethodPost, "/likes/toggle/video/" + "5b0c3a39-8f4e-4f8f-9b43-2f2d8c0c9f11"},
		{http.MethodGet, "/dashboard/stats"},
		{http.MethodGet, "/dashboard/analytics"},
		{http.MethodGet, "/dashboard/revenue"},
	} {
		res := a.do(tc.method, tc.path, nil, "")
		assert.Equal(t, http.StatusUnauthorized, res.Status, tc.path)
		assert.Equal(t, "unauthorized request", res.Body.Message)
	}

	res := a.do(http.MethodGet, "/users/current-user", nil, "", bearer("garbage"))
	assert.Equal(t, http.StatusUnauthorized, res.Status)
	assert.Equal(t, "unauthorized request", res.Body.Message)
}

func TestBearerWinsOverStaleCookie(t *testing.T) {
	a := newTestAPI(t)
	s := a.signup("ana")

	res := a.do(http.MethodGet, "/users/current-user", nil, "", cookie("accessToken", "stale"), bearer(s.AccessToken))
	require.Equal(t, http.StatusOK, res.Status)
	assert.Contains(t, string(res.Body.Data), s.UserID)
}

func TestToggleLike(t *testing.T) {
	a := newTestAPI(t)
	s := a.signup("ana")
	v := testsupport.CreateVideo(t, a.db, s.UserID, "clip", true, time.Now().UTC())
	path := "/likes/toggle/video/" + v.ID

	res := a.do(http.MethodPost, path, nil, "", bearer(s.AccessToken))
	require.Equal(t, http.StatusCreated, res.Status)
	assert.JSONEq(t, `{"isLiked":true}`, string(res.Body.Data))

	res = a.do(http.MethodPost, path, nil, "", bearer(s.AccessToken))
	require.Equal(t, http.StatusOK, res.Status)
	assert.JSONEq(t, `{"isLiked":false}`, string(res.Body.Data))

	res = a.do(http.MethodPost, path, nil, "", bearer(s.AccessToken))
	require.Equal(t, http.StatusCreated, res.Status)

	var edges int64
	require.NoError(t, a.db.Model(&db.Edge{}).Count(&edges).Error)
	assert.Equal(t, int64(1), edges)

	count := a.do(http.MethodGet, "/likes/count/video/"+v.ID, nil, "", bearer(s.AccessToken))
	require.Equal(t, http.StatusOK, count.Status)
	assert.JSONEq(t, `{"likesCount":1,"isLiked":true}`, string(count.Body.Data))

	anon := a.do(http.MethodGet, "/likes/count/video/"+v.ID, nil, "")
	assert.JSONEq(t, `{"likesCount":1}`, string(anon.Body.Data))

	assert.Equal(t, http.StatusBadRequest, a.do(http.MethodPost, "/likes/toggle/video/not-a-uuid", nil, "", bearer(s.AccessToken)).Status)
	assert.Equal(t, http.StatusBadRequest, a.do(http.MethodPost, "/likes/toggle/channel/"+s.UserID, nil, "", bearer(s.AccessToken)).Status)
	assert.Equal(t, http.StatusNotFound, a.do(http.MethodPost, "/likes/toggle/tweet/"+v.ID, nil, "", bearer(s.AccessToken)).Status)
}

func TestSubscriptions(t *testing.T) {
	a := newTestAPI(t)
	ana := a.signup("ana")
	bob := a.signup("bob")

	self := a.do(http.MethodPost, "/subscriptions/toggle/"+bob.UserID, nil, "", bearer(bob.AccessToken))
	assert.Equal(t, http.StatusBadRequest, self.Status)
	var edges int64
	require.NoError(t, a.db.Model(&db.Edge{}).Count(&edges).Error)
	assert.Zero(t, edges)

	res := a.do(http.MethodPost, "/subscriptions/toggle/"+bob.UserID, nil, "", bearer(ana.AccessToken))
	require.Equal(t, http.StatusCreated, res.Status)
	assert.JSONEq(t, `{"subscribed":true}`, string(res.Body.Data))

	subs := a.do(http.MethodGet, "/subscriptions/subscribers/"+bob.UserID, nil, "")
	require.Equal(t, http.StatusOK, subs.Status)
	var page struct {
		Items []struct {
			Subscriber struct {
				Username string `json:"username"`
			} `json:"subscriber"`
		} `json:"items"`
		TotalItems int64 `json:"totalItems"`
	}
	subs.decode(t, &page)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "ana", page.Items[0].Subscriber.Username)

	ch := a.do(http.MethodGet, "/users/channel/bob", nil, "", bearer(ana.AccessToken))
	require.Equal(t, http.StatusOK, ch.Status)
	var channel struct {
		SubscribersCount int64  `json:"subscribersCount"`
		IsSubscribed     *bool  `json:"isSubscribed"`
		Email            string `json:"email"`
	}
	ch.decode(t, &channel)
	assert.Equal(t, int64(1), channel.SubscribersCount)
	require.NotNil(t, channel.IsSubscribed)
	assert.True(t, *channel.IsSubscribed)
	assert.Empty(t, channel.Email)
}

func TestSearchSecondPage(t *testing.T) {
	a := newTestAPI(t)
	s := a.signup("ana")
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	var catTitles []string
	for i := 0; i < 12; i++ {
		title := fmt.Sprintf("dog %02d", i)
		if i%3 != 2 {
			title = fmt.Sprintf("Cat clip %02d", i)
			catTitles = append(catTitles, title)
		}
		testsupport.CreateVideo(t, a.db, s.UserID, title, true, base.Add(time.Duration(i)*time.Minute))
	}
	// 8 matches, newest first: page 2 of 5 holds matches 6..8
	res := a.do(http.MethodGet, "/videos?query=cat&page=2&limit=5", nil, "")
	require.Equal(t, http.StatusOK, res.Status)

	var page struct {
		Items []struct {
			Title       string `json:"title"`
			Description string `json:"description"`
		} `json:"items"`
		Page        int   `json:"page"`
		Limit       int   `json:"limit"`
		TotalItems  int64 `json:"totalItems"`
		TotalPages  int   `json:"totalPages"`
		HasNextPage bool  `json:"hasNextPage"`
	}
	res.decode(t, &page)
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 5, page.Limit)
	assert.Equal(t, int64(8), page.TotalItems)
	assert.Equal(t, 2, page.TotalPages)
	assert.False(t, page.HasNextPage)
	require.LessOrEqual(t, len(page.Items), 5)
	require.Len(t, page.Items, 3)

	want := []string{catTitles[2], catTitles[1], catTitles[0]}
	for i, item := range page.Items {
		assert.Equal(t, want[i], item.Title)
		assert.Contains(t, strings.ToLower(item.Title+item.Description), "cat")
	}

	bad := a.do(http.MethodGet, "/videos?page=two", nil, "")
	assert.Equal(t, http.StatusBadRequest, bad.Status)
}

func TestListVideosSortBy(t *testing.T) {
	a := newTestAPI(t)
	s := a.signup("ana")
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	alpha := testsupport.CreateVideo(t, a.db, s.UserID, "alpha", true, base)
	testsupport.CreateVideo(t, a.db, s.UserID, "bravo", true, base.Add(time.Minute))
	require.NoError(t, a.db.Model(&db.Video{}).Where("id = ?", alpha.ID).Update("views", 50).Error)

	titles := func(path string) []string {
		t.Helper()
		res := a.do(http.MethodGet, path, nil, "")
		require.Equal(t, http.StatusOK, res.Status, path)
		var page struct {
			Items []struct {
				Title string `json:"title"`
			} `json:"items"`
		}
		res.decode(t, &page)
		var out []string
		for _, item := range page.Items {
			out = append(out, item.Title)
		}
		return out
	}

	assert.Equal(t, []string{"alpha", "bravo"}, titles("/videos?sortBy=views"))
	assert.Equal(t, []string{"alpha", "bravo"}, titles("/videos?sortBy=title&sortType=asc"))
	// unknown columns fall back to newest first
	assert.Equal(t, []string{"bravo", "alpha"}, titles("/videos?sortBy=password_hash%3BDROP"))
	assert.Equal(t, []string{"bravo", "alpha"}, titles("/videos?sortBy=views%20desc%2C%20(SELECT%201)"))
}

func TestVideoLifecycle(t *testing.T) {
	a := newTestAPI(t)
	ana := a.signup("ana")
	bob := a.signup("bob")

	res := a.multipart(http.MethodPost, "/videos", map[string]string{"title": "Trip", "description": "summer"},
		map[string]string{"videoFile": "trip.mp4", "thumbnail": "trip.jpg"}, bearer(ana.AccessToken))
	require.Equal(t, http.StatusCreated, res.Status, res.Body.Message)
	var v struct {
		ID       string `json:"id"`
		VideoURL string `json:"videoUrl"`
		Views    int64  `json:"views"`
	}
	res.decode(t, &v)

	media, err := a.srv.Client().Get(a.srv.URL + v.VideoURL)
	require.NoError(t, err)
	body, _ := io.ReadAll(media.Body)
	media.Body.Close()
	assert.Equal(t, http.StatusOK, media.StatusCode)
	assert.Equal(t, "bytes of trip.mp4", string(body))

	got := a.do(http.MethodGet, "/videos/"+v.ID, nil, "", bearer(bob.AccessToken))
	require.Equal(t, http.StatusOK, got.Status)
	got.decode(t, &v)
	assert.Equal(t, int64(1), v.Views)

	history := a.do(http.MethodGet, "/users/watch-history", nil, "", bearer(bob.AccessToken))
	require.Equal(t, http.StatusOK, history.Status)
	assert.Contains(t, string(history.Body.Data), v.ID)

	forbidden := a.json(http.MethodPatch, "/videos/"+v.ID, map[string]string{"title": "mine"}, bearer(bob.AccessToken))
	assert.Equal(t, http.StatusForbidden, forbidden.Status)

	toggled := a.do(http.MethodPatch, "/videos/toggle/publish/"+v.ID, nil, "", bearer(ana.AccessToken))
	require.Equal(t, http.StatusOK, toggled.Status)

	hidden := a.do(http.MethodGet, "/videos/"+v.ID, nil, "", bearer(bob.AccessToken))
	assert.Equal(t, http.StatusNotFound, hidden.Status)

	dash := a.do(http.MethodGet, "/dashboard/videos", nil, "", bearer(ana.AccessToken))
	require.Equal(t, http.StatusOK, dash.Status)
	assert.Contains(t, string(dash.Body.Data), v.ID)

	deleted := a.do(http.MethodDelete, "/videos/"+v.ID, nil, "", bearer(ana.AccessToken))
	assert.Equal(t, http.StatusOK, deleted.Status)
}

func TestCommentsTweetsPlaylists(t *testing.T) {
	a := newTestAPI(t)
	ana := a.signup("ana")
	v := testsupport.CreateVideo(t, a.db, ana.UserID, "clip", true, time.Now().UTC())

	c := a.json(http.MethodPost, "/comments/video/"+v.ID, map[string]string{"content": "hello"}, bearer(ana.AccessToken))
	require.Equal(t, http.StatusCreated, c.Status)
	var comment struct {
		ID string `json:"id"`
	}
	c.decode(t, &comment)

	reply := a.json(http.MethodPost, "/comments/video/"+v.ID,
		map[string]any{"content": "reply", "parentCommentId": comment.ID}, bearer(ana.AccessToken))
	require.Equal(t, http.StatusCreated, reply.Status)

	replies := a.do(http.MethodGet, "/comments/video/"+v.ID+"?parentId="+comment.ID, nil, "")
	require.Equal(t, http.StatusOK, replies.Status)
	assert.Contains(t, string(replies.Body.Data), `"totalItems":1`)

	tw := a.json(http.MethodPost, "/tweets", map[string]string{"content": "first tweet"}, bearer(ana.AccessToken))
	require.Equal(t, http.StatusCreated, tw.Status)
	tweets := a.do(http.MethodGet, "/tweets/user/"+ana.UserID, nil, "")
	require.Equal(t, http.StatusOK, tweets.Status)
	assert.Contains(t, string(tweets.Body.Data), "first tweet")

	pl := a.json(http.MethodPost, "/playlists", map[string]string{"name": "Mix"}, bearer(ana.AccessToken))
	require.Equal(t, http.StatusCreated, pl.Status)
	var playlist struct {
		ID string `json:"id"`
	}
	pl.decode(t, &playlist)

	add := a.do(http.MethodPatch, "/playlists/add/"+playlist.ID+"/"+v.ID, nil, "", bearer(ana.AccessToken))
	require.Equal(t, http.StatusOK, add.Status)
	again := a.do(http.MethodPatch, "/playlists/add/"+playlist.ID+"/"+v.ID, nil, "", bearer(ana.AccessToken))
	assert.Equal(t, http.StatusConflict, again.Status)

	got := a.do(http.MethodGet, "/playlists/"+playlist.ID, nil, "")
	require.Equal(t, http.StatusOK, got.Status)
	assert.Contains(t, string(got.Body.Data), `"totalVideos":1`)
}

func TestHealthcheck(t *testing.T) {
	a := newTestAPI(t)
	res := a.do(http.MethodGet, "/healthcheck", nil, "")
	require.Equal(t, http.StatusOK, res.Status)
	assert.JSONEq(t, `{"database":"up","redis":"disabled"}`, string(res.Body.Data))
}

func TestDashboardAnalytics(t *testing.T) {
	a := newTestAPI(t)
	owner := a.signup("ana")
	fan := a.signup("bee")
	now := time.Now().UTC()
	hit := testsupport.CreateVideo(t, a.db, owner.UserID, "hit", true, now.Add(-time.Minute))
	draft := testsupport.CreateVideo(t, a.db, owner.UserID, "draft", false, now.Add(-2*time.Minute))
	require.NoError(t, a.db.Model(&db.Video{}).Where("id = ?", hit.ID).Update("views", 1500).Error)
	require.NoError(t, a.db.Model(&db.Video{}).Where("id = ?", draft.ID).Update("views", 500).Error)

	res := a.do(http.MethodPost, "/likes/toggle/video/"+hit.ID, nil, "", bearer(fan.AccessToken))
	require.Equal(t, http.StatusCreated, res.Status)
	res = a.do(http.MethodPost, "/subscriptions/toggle/"+owner.UserID, nil, "", bearer(fan.AccessToken))
	require.Equal(t, http.StatusCreated, res.Status)

	res = a.do(http.MethodGet, "/dashboard/analytics", nil, "", bearer(owner.AccessToken))
	require.Equal(t, http.StatusOK, res.Status)
	var analytics struct {
		MonthlyViews []struct {
			TotalViews  int64 `json:"totalViews"`
			TotalVideos int64 `json:"totalVideos"`
		} `json:"monthlyViews"`
		TopVideos []struct {
			ID         string `json:"id"`
			Views      int64  `json:"views"`
			LikesCount int64  `json:"likesCount"`
		} `json:"topVideos"`
		RecentSubscribers int64 `json:"recentSubscribers"`
	}
	res.decode(t, &analytics)
	require.NotEmpty(t, analytics.MonthlyViews)
	var views, videos int64
	for _, m := range analytics.MonthlyViews {
		views += m.TotalViews
		videos += m.TotalVideos
	}
	assert.Equal(t, int64(2000), views)
	assert.Equal(t, int64(2), videos)
	require.Len(t, analytics.TopVideos, 2)
	assert.Equal(t, hit.ID, analytics.TopVideos[0].ID)
	assert.Equal(t, int64(1), analytics.TopVideos[0].LikesCount)
	assert.Equal(t, int64(1), analytics.RecentSubscribers)

	res = a.do(http.MethodGet, "/dashboard/video/"+draft.ID, nil, "", bearer(owner.AccessToken))
	require.Equal(t, http.StatusOK, res.Status)
	var perf struct {
		Title       string `json:"title"`
		Views       int64  `json:"views"`
		LikesCount  int64  `json:"likesCount"`
		IsPublished bool   `json:"isPublished"`
	}
	res.decode(t, &perf)
	assert.Equal(t, "draft", perf.Title)
	assert.Equal(t, int64(500), perf.Views)
	assert.Zero(t, perf.LikesCount)
	assert.False(t, perf.IsPublished)

	res = a.do(http.MethodGet, "/dashboard/video/"+hit.ID, nil, "", bearer(fan.AccessToken))
	assert.Equal(t, http.StatusForbidden, res.Status)

	res = a.do(http.MethodGet, "/dashboard/video/not-a-uuid", nil, "", bearer(owner.AccessToken))
	assert.Equal(t, http.StatusBadRequest, res.Status)

	res = a.do(http.MethodGet, "/dashboard/revenue", nil, "", bearer(owner.AccessToken))
	require.Equal(t, http.StatusOK, res.Status)
	assert.JSONEq(t, `{"totalViews":2000,"estimatedRevenue":"4.00","currency":"USD"}`, string(res.Body.Data))
}
