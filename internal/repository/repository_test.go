package repository_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sumit00002/VidTube-Practice-Backend/internal/db"
	"github.com/sumit00002/VidTube-Practice-Backend/internal/repository"
	"github.com/sumit00002/VidTube-Practice-Backend/internal/testsupport"
)

func TestEdgeInsertDeleteExists(t *testing.T) {
	ctx := context.Background()
	dbase := testsupport.OpenDB(t)
	repo := repository.NewEdgeRepository(dbase)

	require.NoError(t, repo.Insert(ctx, "u1", db.TargetVideo, "v1"))

	// second insert of the same tuple is a duplicate
	err := repo.Insert(ctx, "u1", db.TargetVideo, "v1")
	require.Error(t, err)
	assert.True(t, repository.IsDuplicate(err))

	ok, err := repo.Exists(ctx, "u1", db.TargetVideo, "v1")
	require.NoError(t, err)
	assert.True(t, ok)

	// same id under another type is a different edge
	ok, err = repo.Exists(ctx, "u1", db.TargetTweet, "v1")
	require.NoError(t, err)
	assert.False(t, ok)

	removed, err := repo.Delete(ctx, "u1", db.TargetVideo, "v1")
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = repo.Delete(ctx, "u1", db.TargetVideo, "v1")
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestEdgeCounts(t *testing.T) {
	ctx := context.Background()
	dbase := testsupport.OpenDB(t)
	repo := repository.NewEdgeRepository(dbase)

	require.NoError(t, repo.Insert(ctx, "u1", db.TargetVideo, "v1"))
	require.NoError(t, repo.Insert(ctx, "u2", db.TargetVideo, "v1"))
	require.NoError(t, repo.Insert(ctx, "u1", db.TargetVideo, "v2"))
	require.NoError(t, repo.Insert(ctx, "u1", db.TargetChannel, "u2"))

	n, err := repo.Count(ctx, db.TargetVideo, "v1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	counts, err := repo.CountMany(ctx, db.TargetVideo, []string{"v1", "v2", "v3"})
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"v1": 2, "v2": 1}, counts)

	flags, err := repo.ExistingAmong(ctx, "u2", db.TargetVideo, []string{"v1", "v2"})
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"v1": true}, flags)

	n, err = repo.CountBySubject(ctx, "u1", db.TargetChannel)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestEdgeSubjectsSkipsDeletedUsers(t *testing.T) {
	ctx := context.Background()
	dbase := testsupport.OpenDB(t)
	repo := repository.NewEdgeRepository(dbase)

	channel := testsupport.CreateUser(t, dbase, "chan")
	alice := testsupport.CreateUser(t, dbase, "alice")
	bob := testsupport.CreateUser(t, dbase, "bob")

	require.NoError(t, repo.Insert(ctx, alice.ID, db.TargetChannel, channel.ID))
	require.NoError(t, repo.Insert(ctx, bob.ID, db.TargetChannel, channel.ID))
	require.NoError(t, repo.Insert(ctx, "ghost", db.TargetChannel, channel.ID))

	refs, total, err := repo.Subjects(ctx, db.TargetChannel, channel.ID, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, refs, 2)
	ids := []string{refs[0].ID, refs[1].ID}
	assert.ElementsMatch(t, []string{alice.ID, bob.ID}, ids)
	assert.False(t, refs[0].At.IsZero())
}

func TestSessionSlotCAS(t *testing.T) {
	ctx := context.Background()
	dbase := testsupport.OpenDB(t)
	repo := repository.NewUserRepository(dbase)
	u := testsupport.CreateUser(t, dbase, "ana")

	first, second := "hash-1", "hash-2"

	// logged out -> first
	ok, err := repo.SwapRefreshHash(ctx, u.ID, nil, &first)
	require.NoError(t, err)
	assert.True(t, ok)

	// stale prior loses
	ok, err = repo.SwapRefreshHash(ctx, u.ID, nil, &second)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = repo.SwapRefreshHash(ctx, u.ID, &first, &second)
	require.NoError(t, err)
	assert.True(t, ok)

	got, err := repo.RefreshHash(ctx, u.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, second, *got)

	require.NoError(t, repo.ClearRefreshHash(ctx, u.ID))
	got, err = repo.RefreshHash(ctx, u.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSessionSlotCAS_ConcurrentRotations(t *testing.T) {
	ctx := context.Background()
	dbase := testsupport.OpenDB(t)
	repo := repository.NewUserRepository(dbase)
	u := testsupport.CreateUser(t, dbase, "ana")

	prior := "hash-0"
	_, err := repo.SwapRefreshHash(ctx, u.ID, nil, &prior)
	require.NoError(t, err)

	var wg sync.WaitGroup
	wins := make(chan bool, 2)
	for _, next := range []string{"hash-a", "hash-b"} {
		wg.Add(1)
		go func(next string) {
			defer wg.Done()
			ok, err := repo.SwapRefreshHash(ctx, u.ID, &prior, &next)
			assert.NoError(t, err)
			wins <- ok
		}(next)
	}
	wg.Wait()
	close(wins)

	won := 0
	for ok := range wins {
		if ok {
			won++
		}
	}
	assert.Equal(t, 1, won)
}

func TestFindPageAndContainsFold(t *testing.T) {
	dbase := testsupport.OpenDB(t)
	owner := testsupport.CreateUser(t, dbase, "owner")
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	titles := []string{"Cat video", "dog video", "CATS 100%", "bird", "concatenate"}
	for i, title := range titles {
		testsupport.CreateVideo(t, dbase, owner.ID, title, true, base.Add(time.Duration(i)*time.Minute))
	}

	q := dbase.Model(&db.Video{}).Where(repository.ContainsFold("cat", "videos.title"))
	items, total, err := repository.FindPage[db.Video](q, repository.PageQuery{Offset: 0, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, items, 2)

	// wildcard characters are literal
	q = dbase.Model(&db.Video{}).Where(repository.ContainsFold("0%", "videos.title"))
	_, total, err = repository.FindPage[db.Video](q, repository.PageQuery{Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)

	q = dbase.Model(&db.Video{}).Where(repository.ContainsFold("_", "videos.title"))
	_, total, err = repository.FindPage[db.Video](q, repository.PageQuery{Limit: 10})
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestPlaylistAppendAndTotals(t *testing.T) {
	ctx := context.Background()
	dbase := testsupport.OpenDB(t)
	repo := repository.NewPlaylistRepository(dbase)
	owner := testsupport.CreateUser(t, dbase, "owner")
	now := time.Now().UTC()

	p := db.Playlist{OwnerID: owner.ID, Name: "mix", Visibility: db.VisibilityPublic}
	require.NoError(t, repo.Create(ctx, &p))

	v1 := testsupport.CreateVideo(t, dbase, owner.ID, "one", true, now)
	v2 := testsupport.CreateVideo(t, dbase, owner.ID, "two", false, now.Add(time.Second))
	require.NoError(t, dbase.Model(&db.Video{}).Where("id = ?", v1.ID).Update("views", 7).Error)

	e1, err := repo.AppendVideo(ctx, p.ID, v1.ID)
	require.NoError(t, err)
	e2, err := repo.AppendVideo(ctx, p.ID, v2.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, e1.Position)
	assert.Equal(t, 2, e2.Position)

	_, err = repo.AppendVideo(ctx, p.ID, v1.ID)
	assert.True(t, repository.IsDuplicate(err))

	totals, err := repo.Totals(ctx, []string{p.ID})
	require.NoError(t, err)
	assert.Equal(t, repository.PlaylistTotals{Videos: 2, Views: 7}, totals[p.ID])

	published, err := repo.Videos(ctx, p.ID, "")
	require.NoError(t, err)
	require.Len(t, published, 1)
	assert.Equal(t, v1.ID, published[0].ID)

	own, err := repo.Videos(ctx, p.ID, owner.ID)
	require.NoError(t, err)
	assert.Len(t, own, 2)
}

func TestWatchHistoryIsASet(t *testing.T) {
	ctx := context.Background()
	dbase := testsupport.OpenDB(t)
	repo := repository.NewWatchRepository(dbase)
	owner := testsupport.CreateUser(t, dbase, "owner")
	viewer := testsupport.CreateUser(t, dbase, "viewer")
	v := testsupport.CreateVideo(t, dbase, owner.ID, "clip", true, time.Now().UTC())

	require.NoError(t, repo.Add(ctx, viewer.ID, v.ID))
	require.NoError(t, repo.Add(ctx, viewer.ID, v.ID))

	refs, total, err := repo.Page(ctx, viewer.ID, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, refs, 1)
	assert.Equal(t, v.ID, refs[0].ID)
}

func TestIncrementViews(t *testing.T) {
	ctx := context.Background()
	dbase := testsupport.OpenDB(t)
	repo := repository.NewVideoRepository(dbase)
	owner := testsupport.CreateUser(t, dbase, "owner")
	v := testsupport.CreateVideo(t, dbase, owner.ID, "clip", true, time.Now().UTC())

	require.NoError(t, repo.IncrementViews(ctx, v.ID))
	require.NoError(t, repo.IncrementViews(ctx, v.ID))

	got, err := repo.FindByIDWithOwner(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.Views)
	assert.Equal(t, "owner", got.Owner.Username)
}

func TestTargetResolver(t *testing.T) {
	ctx := context.Background()
	dbase := testsupport.OpenDB(t)
	r := repository.NewTargetResolver(dbase)
	u := testsupport.CreateUser(t, dbase, "owner")

	ok, err := r.TargetExists(ctx, db.TargetChannel, u.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = r.TargetExists(ctx, db.TargetVideo, u.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = r.TargetExists(ctx, "playlist", u.ID)
	assert.Error(t, err)
}
