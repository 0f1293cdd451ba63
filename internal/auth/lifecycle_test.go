package auth_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sumit00002/VidTube-Practice-Backend/internal/auth"
	"github.com/sumit00002/VidTube-Practice-Backend/internal/config"
	"github.com/sumit00002/VidTube-Practice-Backend/internal/db"
	svcErr "github.com/sumit00002/VidTube-Practice-Backend/internal/errors"
	"github.com/sumit00002/VidTube-Practice-Backend/internal/repository"
	"github.com/sumit00002/VidTube-Practice-Backend/internal/testsupport"
)

var authCfg = config.AuthConfig{
	AccessSecret:  "access-secret",
	AccessTTL:     15 * time.Minute,
	RefreshSecret: "refresh-secret",
	RefreshTTL:    24 * time.Hour,
}

func setup(t *testing.T) (*auth.Manager, *repository.UserRepository, db.User) {
	t.Helper()
	database := testsupport.OpenDB(t)
	users := repository.NewUserRepository(database)
	u := testsupport.CreateUser(t, database, "ana")
	return auth.NewManagerFromConfig(users, authCfg), users, u
}

func TestIssueAndVerifyAccess(t *testing.T) {
	ctx := context.Background()
	m, users, u := setup(t)

	pair, err := m.Issue(ctx, u.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.True(t, pair.AccessExpiresAt.Before(pair.RefreshExpiresAt))

	claims, err := m.VerifyAccess(ctx, pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.Subject)
	assert.Equal(t, "ana", claims.Username)
	assert.Equal(t, u.Email, claims.Email)

	// refresh tokens are not access tokens
	_, err = m.VerifyAccess(ctx, pair.RefreshToken)
	assert.True(t, svcErr.Is(err, svcErr.KindUnauthenticated))

	slot, err := users.RefreshHash(ctx, u.ID)
	require.NoError(t, err)
	require.NotNil(t, slot)
	assert.NotEqual(t, pair.RefreshToken, *slot)
}

func TestIssue_UnknownUser(t *testing.T) {
	m, _, _ := setup(t)
	_, err := m.Issue(context.Background(), "missing")
	assert.True(t, svcErr.Is(err, svcErr.KindUnauthenticated))
}

func TestRotate_IsSingleUse(t *testing.T) {
	ctx := context.Background()
	m, _, u := setup(t)

	first, err := m.Issue(ctx, u.ID)
	require.NoError(t, err)

	second, err := m.Rotate(ctx, first.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)

	// the consumed token is still signed and unexpired, but dead
	_, err = m.Rotate(ctx, first.RefreshToken)
	assert.True(t, svcErr.Is(err, svcErr.KindUnauthenticated))

	// the new one keeps working
	_, err = m.Rotate(ctx, second.RefreshToken)
	assert.NoError(t, err)
}

func TestIssue_InvalidatesPreviousSession(t *testing.T) {
	ctx := context.Background()
	m, _, u := setup(t)

	laptop, err := m.Issue(ctx, u.ID)
	require.NoError(t, err)
	phone, err := m.Issue(ctx, u.ID)
	require.NoError(t, err)

	_, err = m.Rotate(ctx, laptop.RefreshToken)
	assert.True(t, svcErr.Is(err, svcErr.KindUnauthenticated))

	_, err = m.Rotate(ctx, phone.RefreshToken)
	assert.NoError(t, err)
}

func TestRevoke(t *testing.T) {
	ctx := context.Background()
	m, users, u := setup(t)

	pair, err := m.Issue(ctx, u.ID)
	require.NoError(t, err)
	require.NoError(t, m.Revoke(ctx, u.ID))

	slot, err := users.RefreshHash(ctx, u.ID)
	require.NoError(t, err)
	assert.Nil(t, slot)

	_, err = m.Rotate(ctx, pair.RefreshToken)
	assert.True(t, svcErr.Is(err, svcErr.KindUnauthenticated))

	// revocation is idempotent; access tokens stay valid until expiry
	require.NoError(t, m.Revoke(ctx, u.ID))
	_, err = m.VerifyAccess(ctx, pair.AccessToken)
	assert.NoError(t, err)

	assert.True(t, svcErr.Is(m.Revoke(ctx, "missing"), svcErr.KindNotFound))
}

func TestRotate_Failures(t *testing.T) {
	ctx := context.Background()
	m, _, u := setup(t)

	tests := []struct {
		name  string
		token string
	}{
		{"missing", ""},
		{"garbage", "abc.def.ghi"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := m.Rotate(ctx, tt.token)
			assert.True(t, svcErr.Is(err, svcErr.KindUnauthenticated))
			msg, _ := svcErr.PublicMessage(err)
			assert.Equal(t, "unauthorized request", msg)
		})
	}

	t.Run("access token presented as refresh", func(t *testing.T) {
		pair, err := m.Issue(ctx, u.ID)
		require.NoError(t, err)
		_, err = m.Rotate(ctx, pair.AccessToken)
		assert.True(t, svcErr.Is(err, svcErr.KindUnauthenticated))
	})

	t.Run("user deleted", func(t *testing.T) {
		database := testsupport.OpenDB(t)
		users := repository.NewUserRepository(database)
		gone := testsupport.CreateUser(t, database, "gone")
		mm := auth.NewManagerFromConfig(users, authCfg)

		pair, err := mm.Issue(ctx, gone.ID)
		require.NoError(t, err)
		require.NoError(t, database.Delete(&db.User{}, "id = ?", gone.ID).Error)

		_, err = mm.Rotate(ctx, pair.RefreshToken)
		assert.True(t, svcErr.Is(err, svcErr.KindUnauthenticated))
	})
}

func TestRotate_ConcurrentReuse(t *testing.T) {
	ctx := context.Background()
	m, _, u := setup(t)

	pair, err := m.Issue(ctx, u.ID)
	require.NoError(t, err)

	const n = 4
	var wg sync.WaitGroup
	results := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := m.Rotate(ctx, pair.RefreshToken)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	succeeded := 0
	for err := range results {
		if err == nil {
			succeeded++
		} else {
			assert.True(t, svcErr.Is(err, svcErr.KindUnauthenticated))
		}
	}
	assert.Equal(t, 1, succeeded)
}

// contendedStore loses the first `losses` swaps as if another login won.
type contendedStore struct {
	*repository.UserRepository
	mu     sync.Mutex
	losses int
	swaps  int
}

func (s *contendedStore) SwapRefreshHash(ctx context.Context, id string, prior, next *string) (bool, error) {
	s.mu.Lock()
	s.swaps++
	lose := s.swaps <= s.losses
	s.mu.Unlock()
	if lose {
		return false, nil
	}
	return s.UserRepository.SwapRefreshHash(ctx, id, prior, next)
}

func TestIssue_RetriesLostSwap(t *testing.T) {
	ctx := context.Background()
	database := testsupport.OpenDB(t)
	u := testsupport.CreateUser(t, database, "ana")

	store := &contendedStore{UserRepository: repository.NewUserRepository(database), losses: 2}
	m := auth.NewManagerFromConfig(store, authCfg)

	pair, err := m.Issue(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, store.swaps)

	_, err = m.Rotate(ctx, pair.RefreshToken)
	assert.NoError(t, err)
}

func TestIssue_FailsClosed(t *testing.T) {
	ctx := context.Background()
	database := testsupport.OpenDB(t)
	u := testsupport.CreateUser(t, database, "ana")

	store := &contendedStore{UserRepository: repository.NewUserRepository(database), losses: 100}
	m := auth.NewManagerFromConfig(store, authCfg)

	_, err := m.Issue(ctx, u.ID)
	assert.True(t, svcErr.Is(err, svcErr.KindInternal))

	slot, err := store.RefreshHash(ctx, u.ID)
	require.NoError(t, err)
	assert.Nil(t, slot)
}
