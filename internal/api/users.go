package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/sumit00002/VidTube-Practice-Backend/internal/account"
	"github.com/sumit00002/VidTube-Practice-Backend/internal/auth"
	svcErr "github.com/sumit00002/VidTube-Practice-Backend/internal/errors"
	"github.com/sumit00002/VidTube-Practice-Backend/internal/upload"
	"github.com/sumit00002/VidTube-Practice-Backend/internal/view"
)

// tokenResponse carries a fresh pair for clients that cannot use cookies.
type tokenResponse struct {
	User             *view.UserView `json:"user,omitempty"`
	AccessToken      string         `json:"accessToken"`
	AccessExpiresAt  time.Time      `json:"accessTokenExpiresAt"`
	RefreshToken     string         `json:"refreshToken"`
	RefreshExpiresAt time.Time      `json:"refreshTokenExpiresAt"`
}

func newTokenResponse(u *view.UserView, p auth.Pair) tokenResponse {
	return tokenResponse{
		User:             u,
		AccessToken:      p.AccessToken,
		AccessExpiresAt:  p.AccessExpiresAt,
		RefreshToken:     p.RefreshToken,
		RefreshExpiresAt: p.RefreshExpiresAt,
	}
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	if err := parseMultipart(r); err != nil {
		fail(w, r, err)
		return
	}
	avatar, avatarPart, err := formFile(r, "avatar")
	if err != nil {
		fail(w, r, err)
		return
	}
	cover, coverPart, err := formFile(r, "coverImage")
	defer closeAll(avatarPart, coverPart)
	if err != nil {
		fail(w, r, err)
		return
	}

	u, err := h.accounts.Register(r.Context(), account.Registration{
		Username: r.FormValue("username"),
		Email:    r.FormValue("email"),
		Password: r.FormValue("password"),
		FullName: r.FormValue("fullName"),
		Avatar:   avatar,
		Cover:    cover,
	})
	if err != nil {
		fail(w, r, err)
		return
	}
	respond(w, http.StatusCreated, u, "User registered successfully")
}

type loginRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		fail(w, r, err)
		return
	}
	login := req.Email
	if strings.TrimSpace(login) == "" {
		login = req.Username
	}

	u, pair, err := h.accounts.Login(r.Context(), login, req.Password)
	if err != nil {
		fail(w, r, err)
		return
	}
	h.cookies.setTokens(w, r, pair)
	respond(w, http.StatusOK, newTokenResponse(&u, pair), "User logged in successfully")
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// RefreshToken rotates the session. The token comes from the refreshToken
// cookie, or from the JSON body when no cookie is sent.
func (h *Handler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var token string
	if c, err := r.Cookie(refreshCookie); err == nil {
		token = c.Value
	}
	if token == "" && r.ContentLength != 0 {
		var req refreshRequest
		if err := decodeJSON(w, r, &req); err != nil {
			fail(w, r, err)
			return
		}
		token = req.RefreshToken
	}

	pair, err := h.sessions.Rotate(r.Context(), token)
	if err != nil {
		if svcErr.Is(err, svcErr.KindUnauthenticated) {
			h.cookies.clearTokens(w, r)
		}
		fail(w, r, err)
		return
	}
	h.cookies.setTokens(w, r, pair)
	respond(w, http.StatusOK, newTokenResponse(nil, pair), "Access token refreshed")
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Revoke(r.Context(), viewerID(r)); err != nil {
		fail(w, r, err)
		return
	}
	h.cookies.clearTokens(w, r)
	respond(w, http.StatusOK, struct{}{}, "User logged out")
}

type changePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req changePasswordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		fail(w, r, err)
		return
	}
	if err := h.accounts.ChangePassword(r.Context(), viewerID(r), req.OldPassword, req.NewPassword); err != nil {
		fail(w, r, err)
		return
	}
	respond(w, http.StatusOK, struct{}{}, "Password changed successfully")
}

func (h *Handler) CurrentUser(w http.ResponseWriter, r *http.Request) {
	u, err := h.accounts.CurrentUser(r.Context(), viewerID(r))
	if err != nil {
		fail(w, r, err)
		return
	}
	respond(w, http.StatusOK, u, "Current user fetched successfully")
}

type updateProfileRequest struct {
	FullName *string `json:"fullName"`
	Email    *string `json:"email"`
	Bio      *string `json:"bio"`
}

func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req updateProfileRequest
	if err := decodeJSON(w, r, &req); err != nil {
		fail(w, r, err)
		return
	}
	u, err := h.accounts.UpdateProfile(r.Context(), viewerID(r), account.ProfilePatch{
		FullName: req.FullName,
		Email:    req.Email,
		Bio:      req.Bio,
	})
	if err != nil {
		fail(w, r, err)
		return
	}
	respond(w, http.StatusOK, u, "Account details updated successfully")
}

func (h *Handler) UpdateAvatar(w http.ResponseWriter, r *http.Request) {
	h.replaceImage(w, r, "avatar", h.accounts.UpdateAvatar, "Avatar updated successfully")
}

func (h *Handler) UpdateCover(w http.ResponseWriter, r *http.Request) {
	h.replaceImage(w, r, "coverImage", h.accounts.UpdateCover, "Cover image updated successfully")
}

func (h *Handler) replaceImage(
	w http.ResponseWriter,
	r *http.Request,
	field string,
	update func(ctx context.Context, userID string, f *upload.File) (view.UserView, error),
	message string,
) {
	if err := parseMultipart(r); err != nil {
		fail(w, r, err)
		return
	}
	f, part, err := formFile(r, field)
	defer closeAll(part)
	if err != nil {
		fail(w, r, err)
		return
	}
	u, err := update(r.Context(), viewerID(r), f)
	if err != nil {
		fail(w, r, err)
		return
	}
	respond(w, http.StatusOK, u, message)
}

func (h *Handler) Channel(w http.ResponseWriter, r *http.Request) {
	ch, err := h.composer.GetChannel(r.Context(), viewerID(r), r.PathValue("username"))
	if err != nil {
		fail(w, r, err)
		return
	}
	respond(w, http.StatusOK, ch, "Channel fetched successfully")
}

func (h *Handler) WatchHistory(w http.ResponseWriter, r *http.Request) {
	q, err := view.ParseQuery(r.URL.Query())
	if err != nil {
		fail(w, r, err)
		return
	}
	page, err := h.composer.WatchHistory(r.Context(), viewerID(r), q)
	if err != nil {
		fail(w, r, err)
		return
	}
	respond(w, http.StatusOK, page, "Watch history fetched successfully")
}
