package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/sumit00002/VidTube-Practice-Backend/internal/auth"
	svcErr "github.com/sumit00002/VidTube-Practice-Backend/internal/errors"
)

type contextKey string

const claimsContextKey contextKey = "authenticatedClaims"

// ContextWithClaims stores the verified access-token claims in ctx.
func ContextWithClaims(ctx context.Context, c auth.Claims) context.Context {
	return context.WithValue(ctx, claimsContextKey, c)
}

// ClaimsFromContext returns the caller's claims if the request was
// authenticated.
func ClaimsFromContext(ctx context.Context) (auth.Claims, bool) {
	c, ok := ctx.Value(claimsContextKey).(auth.Claims)
	return c, ok
}

// viewerID is the authenticated caller's id, or "" for anonymous requests.
func viewerID(r *http.Request) string {
	c, _ := ClaimsFromContext(r.Context())
	return c.Subject
}

// ExtractToken reads the access token from an Authorization: Bearer header
// or the accessToken cookie. The header wins when both are sent.
func ExtractToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if scheme, token, ok := strings.Cut(header, " "); ok && strings.EqualFold(scheme, "Bearer") {
		if token = strings.TrimSpace(token); token != "" {
			return token
		}
	}
	if c, err := r.Cookie(accessCookie); err == nil && c.Value != "" {
		return c.Value
	}
	return ""
}

// requireUser rejects requests without a valid access token.
func (h *Handler) requireUser(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, err := h.sessions.VerifyAccess(r.Context(), ExtractToken(r))
		if err != nil {
			fail(w, r, err)
			return
		}
		next(w, r.WithContext(ContextWithClaims(r.Context(), claims)))
	}
}

// optionalUser attaches the caller when a valid token is present. A missing
// or stale token is served as an anonymous request.
func (h *Handler) optionalUser(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := ExtractToken(r)
		if token == "" {
			next(w, r)
			return
		}
		claims, err := h.sessions.VerifyAccess(r.Context(), token)
		if err != nil {
			if !svcErr.Is(err, svcErr.KindUnauthenticated) {
				fail(w, r, err)
				return
			}
			next(w, r)
			return
		}
		next(w, r.WithContext(ContextWithClaims(r.Context(), claims)))
	}
}
