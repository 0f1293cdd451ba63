package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/sumit00002/VidTube-Practice-Backend/internal/auth"
)

const (
	accessCookie  = "accessToken"
	refreshCookie = "refreshToken"
)

// CookiePolicy controls the token cookies. Secure is forced on when
// AlwaysSecure is set and otherwise follows the request scheme.
type CookiePolicy struct {
	AlwaysSecure bool
}

func (p CookiePolicy) secure(r *http.Request) bool {
	return p.AlwaysSecure || isSecureRequest(r)
}

func (p CookiePolicy) setTokens(w http.ResponseWriter, r *http.Request, pair auth.Pair) {
	p.set(w, r, accessCookie, pair.AccessToken, pair.AccessExpiresAt)
	p.set(w, r, refreshCookie, pair.RefreshToken, pair.RefreshExpiresAt)
}

func (p CookiePolicy) set(w http.ResponseWriter, r *http.Request, name, value string, expires time.Time) {
	maxAge := max(int(time.Until(expires).Seconds()), 0)
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Expires:  expires.UTC(),
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   p.secure(r),
		SameSite: http.SameSiteStrictMode,
	})
}

func (p CookiePolicy) clearTokens(w http.ResponseWriter, r *http.Request) {
	for _, name := range []string{accessCookie, refreshCookie} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			Expires:  time.Unix(0, 0).UTC(),
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   p.secure(r),
			SameSite: http.SameSiteStrictMode,
		})
	}
}

func isSecureRequest(r *http.Request) bool {
	if r.TLS != nil {
		return true
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		for _, p := range strings.Split(proto, ",") {
			if strings.EqualFold(strings.TrimSpace(p), "https") {
				return true
			}
		}
	}
	return false
}
