package edge_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/sumit00002/VidTube-Practice-Backend/internal/db"
	"github.com/sumit00002/VidTube-Practice-Backend/internal/edge"
	svcErr "github.com/sumit00002/VidTube-Practice-Backend/internal/errors"
	"github.com/sumit00002/VidTube-Practice-Backend/internal/repository"
	"github.com/sumit00002/VidTube-Practice-Backend/internal/testsupport"
)

func newStore(database *gorm.DB, edges edge.Repository) *edge.Store {
	if edges == nil {
		edges = repository.NewEdgeRepository(database)
	}
	return edge.NewStore(edges, repository.NewTargetResolver(database))
}

func countEdges(t *testing.T, database *gorm.DB) int64 {
	t.Helper()
	var n int64
	require.NoError(t, database.Model(&db.Edge{}).Count(&n).Error)
	return n
}

func TestToggle_Parity(t *testing.T) {
	ctx := context.Background()
	database := testsupport.OpenDB(t)
	store := newStore(database, nil)

	owner := testsupport.CreateUser(t, database, "owner")
	fan := testsupport.CreateUser(t, database, "fan")
	v := testsupport.CreateVideo(t, database, owner.ID, "clip", true, time.Now().UTC())

	for i := 1; i <= 5; i++ {
		present, err := store.Toggle(ctx, fan.ID, edge.Video, v.ID)
		require.NoError(t, err)
		assert.Equal(t, i%2 == 1, present, "toggle #%d", i)

		n, err := store.CountFor(ctx, edge.Video, v.ID)
		require.NoError(t, err)
		if i%2 == 1 {
			assert.Equal(t, int64(1), n)
		} else {
			assert.Zero(t, n)
		}
	}

	ok, err := store.Exists(ctx, fan.ID, edge.Video, v.ID)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestToggle_SelfSubscription(t *testing.T) {
	ctx := context.Background()
	database := testsupport.OpenDB(t)
	store := newStore(database, nil)
	b := testsupport.CreateUser(t, database, "bee")

	for i := 0; i < 2; i++ {
		_, err := store.Toggle(ctx, b.ID, edge.Channel, b.ID)
		assert.True(t, svcErr.Is(err, svcErr.KindInvalidOperation))
	}
	assert.Zero(t, countEdges(t, database))

	// rejected even for a user id that does not exist
	_, err := store.Toggle(ctx, "ghost", edge.Channel, "ghost")
	assert.True(t, svcErr.Is(err, svcErr.KindInvalidOperation))
}

func TestToggle_Subscription(t *testing.T) {
	ctx := context.Background()
	database := testsupport.OpenDB(t)
	store := newStore(database, nil)
	a := testsupport.CreateUser(t, database, "ana")
	b := testsupport.CreateUser(t, database, "bee")

	present, err := store.Toggle(ctx, a.ID, edge.Channel, b.ID)
	require.NoError(t, err)
	assert.True(t, present)

	n, err := store.CountBySubject(ctx, a.ID, edge.Channel)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestToggle_Failures(t *testing.T) {
	ctx := context.Background()
	database := testsupport.OpenDB(t)
	store := newStore(database, nil)
	u := testsupport.CreateUser(t, database, "ana")

	_, err := store.Toggle(ctx, "", edge.Video, "v1")
	assert.True(t, svcErr.Is(err, svcErr.KindUnauthenticated))

	_, err = store.Toggle(ctx, u.ID, edge.Video, "missing")
	assert.True(t, svcErr.Is(err, svcErr.KindNotFound))

	_, err = store.Toggle(ctx, u.ID, edge.Channel, "missing")
	assert.True(t, svcErr.Is(err, svcErr.KindNotFound))

	_, err = store.Toggle(ctx, u.ID, edge.TargetType("playlist"), "p1")
	assert.True(t, svcErr.Is(err, svcErr.KindValidation))

	assert.Zero(t, countEdges(t, database))
}

func TestParseTargetType(t *testing.T) {
	got, err := edge.ParseTargetType("comment")
	require.NoError(t, err)
	assert.Equal(t, edge.Comment, got)

	_, err = edge.ParseTargetType("Video")
	assert.Error(t, err)
}

// barrierRepo holds every Exists call until `parties` callers have arrived,
// forcing all of them to observe the same absent edge.
type barrierRepo struct {
	*repository.EdgeRepository
	arrived sync.WaitGroup
}

func newBarrierRepo(database *gorm.DB, parties int) *barrierRepo {
	r := &barrierRepo{EdgeRepository: repository.NewEdgeRepository(database)}
	r.arrived.Add(parties)
	return r
}

func (r *barrierRepo) Exists(ctx context.Context, subjectID, targetType, targetID string) (bool, error) {
	ok, err := r.EdgeRepository.Exists(ctx, subjectID, targetType, targetID)
	r.arrived.Done()
	r.arrived.Wait()
	return ok, err
}

func TestToggle_ConcurrentCreateConverges(t *testing.T) {
	ctx := context.Background()
	database := testsupport.OpenDB(t)
	store := newStore(database, newBarrierRepo(database, 2))

	owner := testsupport.CreateUser(t, database, "owner")
	fan := testsupport.CreateUser(t, database, "fan")
	v := testsupport.CreateVideo(t, database, owner.ID, "v42", true, time.Now().UTC())

	var wg sync.WaitGroup
	results := make([]bool, 2)
	errs := make([]error, 2)
	for i := range 2 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = store.Toggle(ctx, fan.ID, edge.Video, v.ID)
		}(i)
	}
	wg.Wait()

	for i := range 2 {
		require.NoError(t, errs[i])
		assert.True(t, results[i])
	}
	assert.Equal(t, int64(1), countEdges(t, database))
}

func TestBatchReads(t *testing.T) {
	ctx := context.Background()
	database := testsupport.OpenDB(t)
	store := newStore(database, nil)

	owner := testsupport.CreateUser(t, database, "owner")
	fan := testsupport.CreateUser(t, database, "fan")
	now := time.Now().UTC()
	v1 := testsupport.CreateVideo(t, database, owner.ID, "one", true, now)
	v2 := testsupport.CreateVideo(t, database, owner.ID, "two", true, now)

	_, err := store.Toggle(ctx, fan.ID, edge.Video, v1.ID)
	require.NoError(t, err)

	counts, err := store.CountForMany(ctx, edge.Video, []string{v1.ID, v2.ID})
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{v1.ID: 1, v2.ID: 0}, counts)

	flags, err := store.ExistsAmong(ctx, fan.ID, edge.Video, []string{v1.ID, v2.ID})
	require.NoError(t, err)
	assert.True(t, flags[v1.ID])
	assert.False(t, flags[v2.ID])

	anon, err := store.ExistsAmong(ctx, "", edge.Video, []string{v1.ID})
	require.NoError(t, err)
	assert.Empty(t, anon)

	ok, err := store.Exists(ctx, "", edge.Video, v1.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}
