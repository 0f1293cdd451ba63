package view

import (
	"context"

	"github.com/sumit00002/VidTube-Practice-Backend/internal/db"
	svcErr "github.com/sumit00002/VidTube-Practice-Backend/internal/errors"
	"github.com/sumit00002/VidTube-Practice-Backend/internal/repository"
	"github.com/sumit00002/VidTube-Practice-Backend/internal/utils/pagination"
)

// ListPlaylists pages a user's playlists. Private playlists are visible to
// their owner only. Totals count member videos that still exist.
func (c *Composer) ListPlaylists(ctx context.Context, viewerID, ownerID string, q Query) (pagination.Page[PlaylistView], error) {
	if _, err := c.users.FindByID(ctx, ownerID); err != nil {
		return pagination.Page[PlaylistView]{}, svcErr.Map(err)
	}

	base := c.db.WithContext(ctx).
		Model(&db.Playlist{}).
		Where("playlists.owner_id = ?", ownerID)
	base = visibleTo(base, "playlists", viewerID)
	if q.Search != "" {
		base = base.Where(repository.ContainsFold(q.Search, "playlists.name", "playlists.description"))
	}

	rows, total, err := repository.FindPage[db.Playlist](base, repository.PageQuery{
		Offset:  q.Offset(),
		Limit:   q.Limit,
		Order:   playlistSort.order("playlists", q),
		Preload: []string{"Owner"},
	})
	if err != nil {
		return pagination.Page[PlaylistView]{}, svcErr.Map(err)
	}

	totals, err := c.playlists.Totals(ctx, ids(rows, func(p db.Playlist) string { return p.ID }))
	if err != nil {
		return pagination.Page[PlaylistView]{}, svcErr.Map(err)
	}
	items := make([]PlaylistView, len(rows))
	for i, p := range rows {
		items[i] = NewPlaylistView(p)
		items[i].TotalVideos = totals[p.ID].Videos
		items[i].TotalViews = totals[p.ID].Views
	}
	return pagination.NewPage(items, q.Params, total), nil
}

// GetPlaylist returns a playlist with its videos in position order. Member
// videos the viewer may not see are left out.
func (c *Composer) GetPlaylist(ctx context.Context, viewerID, id string) (PlaylistView, error) {
	p, err := c.playlists.FindByIDWithOwner(ctx, id)
	if err != nil {
		return PlaylistView{}, svcErr.Map(err)
	}
	if p.Owner.ID == "" || (p.Visibility == db.VisibilityPrivate && p.OwnerID != viewerID) {
		return PlaylistView{}, svcErr.NotFound("playlist not found")
	}

	totals, err := c.playlists.Totals(ctx, []string{p.ID})
	if err != nil {
		return PlaylistView{}, svcErr.Map(err)
	}
	rows, err := c.playlists.Videos(ctx, p.ID, viewerID)
	if err != nil {
		return PlaylistView{}, svcErr.Map(err)
	}
	videos, err := c.decorateVideos(ctx, viewerID, rows)
	if err != nil {
		return PlaylistView{}, err
	}

	out := NewPlaylistView(*p)
	out.TotalVideos = totals[p.ID].Videos
	out.TotalViews = totals[p.ID].Views
	out.Videos = videos
	return out, nil
}
