package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/sumit00002/VidTube-Practice-Backend/internal/config"
	"github.com/sumit00002/VidTube-Practice-Backend/internal/db"
	svcErr "github.com/sumit00002/VidTube-Practice-Backend/internal/errors"
	"github.com/sumit00002/VidTube-Practice-Backend/internal/logger"
)

// Reasons an authentication attempt was refused. They are logged and never
// returned to the caller.
const (
	ReasonMissing      = "missing"
	ReasonMalformed    = "malformed"
	ReasonExpired      = "expired"
	ReasonUserNotFound = "user_not_found"
	ReasonReused       = "reused"
)

// maxIssueAttempts bounds the compare-and-swap loop in Issue.
const maxIssueAttempts = 3

// SessionStore is the per-user single-slot session record.
type SessionStore interface {
	FindByID(ctx context.Context, id string) (*db.User, error)
	RefreshHash(ctx context.Context, id string) (*string, error)
	SwapRefreshHash(ctx context.Context, id string, prior, next *string) (bool, error)
	ClearRefreshHash(ctx context.Context, id string) error
}

// Pair is a freshly minted access/refresh token pair.
type Pair struct {
	AccessToken      string
	AccessExpiresAt  time.Time
	RefreshToken     string
	RefreshExpiresAt time.Time
}

// Manager owns issuance, verification, rotation and revocation of token
// pairs. At most one refresh token per user is live: the one whose digest
// sits in the user's session slot.
type Manager struct {
	sessions   SessionStore
	access     TokenCodec
	refresh    TokenCodec
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewManager(sessions SessionStore, access, refresh TokenCodec, cfg config.AuthConfig) *Manager {
	return &Manager{
		sessions:   sessions,
		access:     access,
		refresh:    refresh,
		accessTTL:  cfg.AccessTTL,
		refreshTTL: cfg.RefreshTTL,
	}
}

// NewManagerFromConfig wires HS256 codecs from the auth settings.
func NewManagerFromConfig(sessions SessionStore, cfg config.AuthConfig) *Manager {
	return NewManager(sessions, NewJWTCodec(cfg.AccessSecret), NewJWTCodec(cfg.RefreshSecret), cfg)
}

// Issue mints a pair for the user and makes its refresh token the only
// live one.
//
// Behavior:
//   - The slot is replaced by compare-and-swap against the value read just
//     before; a concurrent login that wins the swap forces a re-read.
//   - After maxIssueAttempts lost swaps Issue fails closed.
func (m *Manager) Issue(ctx context.Context, userID string) (Pair, error) {
	user, err := m.sessions.FindByID(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Pair{}, m.deny(ctx, ReasonUserNotFound, err, "user_id", userID)
	}
	if err != nil {
		return Pair{}, svcErr.Map(err)
	}

	pair, err := m.mint(user)
	if err != nil {
		return Pair{}, svcErr.Internal(err)
	}
	next := hashRefreshToken(pair.RefreshToken)

	prior := user.RefreshTokenHash
	for attempt := 1; attempt <= maxIssueAttempts; attempt++ {
		ok, err := m.sessions.SwapRefreshHash(ctx, userID, prior, &next)
		if err != nil {
			return Pair{}, svcErr.Map(err)
		}
		if ok {
			return pair, nil
		}

		logger.FromContext(ctx).Debug("session slot changed during issue, retrying",
			"user_id", userID, "attempt", attempt)
		if prior, err = m.sessions.RefreshHash(ctx, userID); err != nil {
			return Pair{}, svcErr.Map(err)
		}
	}
	return Pair{}, svcErr.Internal(fmt.Errorf("session slot for %s contended %d times", userID, maxIssueAttempts))
}

// VerifyAccess checks an access token's signature and expiry. It never
// touches the session slot.
func (m *Manager) VerifyAccess(ctx context.Context, token string) (Claims, error) {
	claims, err := m.access.Verify(token)
	if err != nil {
		return Claims{}, m.deny(ctx, codecReason(err), err)
	}
	return claims, nil
}

// Rotate exchanges the live refresh token for a new pair. A refresh token
// succeeds at most once: the presented digest must equal the stored one,
// and the swap is a compare-and-swap against it.
func (m *Manager) Rotate(ctx context.Context, refreshToken string) (Pair, error) {
	claims, err := m.refresh.Verify(refreshToken)
	if err != nil {
		return Pair{}, m.deny(ctx, codecReason(err), err)
	}

	user, err := m.sessions.FindByID(ctx, claims.Subject)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Pair{}, m.deny(ctx, ReasonUserNotFound, err, "user_id", claims.Subject)
	}
	if err != nil {
		return Pair{}, svcErr.Map(err)
	}

	presented := hashRefreshToken(refreshToken)
	if user.RefreshTokenHash == nil || !sameDigest(*user.RefreshTokenHash, presented) {
		return Pair{}, m.deny(ctx, ReasonReused, nil, "user_id", user.ID, "jti", claims.TokenID)
	}

	pair, err := m.mint(user)
	if err != nil {
		return Pair{}, svcErr.Internal(err)
	}
	next := hashRefreshToken(pair.RefreshToken)

	ok, err := m.sessions.SwapRefreshHash(ctx, user.ID, &presented, &next)
	if err != nil {
		return Pair{}, svcErr.Map(err)
	}
	if !ok {
		// a concurrent rotation or logout consumed the token first
		return Pair{}, m.deny(ctx, ReasonReused, nil, "user_id", user.ID, "jti", claims.TokenID)
	}
	return pair, nil
}

// Revoke empties the session slot; every outstanding refresh token for the
// user stops working.
func (m *Manager) Revoke(ctx context.Context, userID string) error {
	if _, err := m.sessions.FindByID(ctx, userID); err != nil {
		return svcErr.Map(err)
	}
	if err := m.sessions.ClearRefreshHash(ctx, userID); err != nil {
		return svcErr.Map(err)
	}
	return nil
}

func (m *Manager) mint(u *db.User) (Pair, error) {
	access, accessExp, err := m.access.Sign(Claims{
		Subject:  u.ID,
		Username: u.Username,
		Email:    u.Email,
		FullName: u.FullName,
	}, m.accessTTL)
	if err != nil {
		return Pair{}, err
	}
	refresh, refreshExp, err := m.refresh.Sign(Claims{Subject: u.ID}, m.refreshTTL)
	if err != nil {
		return Pair{}, err
	}
	return Pair{
		AccessToken:      access,
		AccessExpiresAt:  accessExp,
		RefreshToken:     refresh,
		RefreshExpiresAt: refreshExp,
	}, nil
}

func (m *Manager) deny(ctx context.Context, reason string, cause error, attrs ...any) error {
	args := append([]any{"reason", reason}, attrs...)
	if cause != nil {
		args = append(args, "err", cause)
	}
	log := logger.FromContext(ctx)
	if reason == ReasonReused {
		log.Warn("refresh token reuse rejected", args...)
	} else {
		log.Debug("authentication failed", args...)
	}
	return svcErr.Unauthenticated(reason)
}

func codecReason(err error) string {
	switch {
	case errors.Is(err, ErrTokenMissing):
		return ReasonMissing
	case errors.Is(err, ErrTokenExpired):
		return ReasonExpired
	default:
		return ReasonMalformed
	}
}
