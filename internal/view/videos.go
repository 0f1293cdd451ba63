package view

import (
	"context"

	"gorm.io/gorm"

	"github.com/sumit00002/VidTube-Practice-Backend/internal/db"
	"github.com/sumit00002/VidTube-Practice-Backend/internal/edge"
	svcErr "github.com/sumit00002/VidTube-Practice-Backend/internal/errors"
	"github.com/sumit00002/VidTube-Practice-Backend/internal/logger"
	"github.com/sumit00002/VidTube-Practice-Backend/internal/repository"
	"github.com/sumit00002/VidTube-Practice-Backend/internal/utils/pagination"
)

// VideoFilter narrows ListVideos. IncludeUnpublished is honoured only for
// the owner's own listing (dashboard).
type VideoFilter struct {
	OwnerID            string
	IncludeUnpublished bool
}

// ListVideos returns one page of videos.
//
// Behavior:
//   - Search matches title or description, case-insensitively.
//   - Sort by createdAt (default), updatedAt, views, title or duration;
//     ties broken by id.
//   - With q.Cursor set (default sort only) the page continues after the
//     cursor instead of skipping rows.
func (c *Composer) ListVideos(ctx context.Context, viewerID string, q Query, f VideoFilter) (pagination.Page[VideoView], error) {
	base := c.db.WithContext(ctx).
		Model(&db.Video{}).
		Joins("JOIN users ON users.id = videos.owner_id")

	if f.OwnerID != "" {
		base = base.Where("videos.owner_id = ?", f.OwnerID)
	}
	if !(f.IncludeUnpublished && f.OwnerID != "" && f.OwnerID == viewerID) {
		base = base.Where("videos.is_published = ?", true)
	}
	if q.Search != "" {
		base = base.Where(repository.ContainsFold(q.Search, "videos.title", "videos.description"))
	}

	if q.Cursor != "" {
		return c.listVideosAfter(ctx, viewerID, q, base)
	}

	rows, total, err := repository.FindPage[db.Video](base, repository.PageQuery{
		Offset:  q.Offset(),
		Limit:   q.Limit,
		Order:   videoSort.order("videos", q),
		Preload: []string{"Owner"},
	})
	if err != nil {
		return pagination.Page[VideoView]{}, svcErr.Map(err)
	}
	items, err := c.decorateVideos(ctx, viewerID, rows)
	if err != nil {
		return pagination.Page[VideoView]{}, err
	}

	page := pagination.NewPage(items, q.Params, total)
	if page.HasNextPage && videoSort.isDefault(q) && len(rows) > 0 {
		last := rows[len(rows)-1]
		page.NextCursor, _ = pagination.Encode(pagination.Cursor{ID: last.ID, CreatedAt: last.CreatedAt})
	}
	return page, nil
}

func (c *Composer) listVideosAfter(ctx context.Context, viewerID string, q Query, base *gorm.DB) (pagination.Page[VideoView], error) {
	if !videoSort.isDefault(q) {
		return pagination.Page[VideoView]{}, svcErr.Validation("invalid query parameter", "cursor requires the default sort")
	}
	cur, err := pagination.Decode(q.Cursor)
	if err != nil {
		return pagination.Page[VideoView]{}, svcErr.Validation("invalid query parameter", err.Error())
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return pagination.Page[VideoView]{}, svcErr.Map(err)
	}

	fetch := base.Session(&gorm.Session{}).
		Where("(videos.created_at < ? OR (videos.created_at = ? AND videos.id < ?))", cur.CreatedAt, cur.CreatedAt, cur.ID)
	for _, o := range videoSort.order("videos", q) {
		fetch = fetch.Order(o)
	}
	var rows []db.Video
	err = fetch.Preload("Owner").Limit(q.Limit + 1).Find(&rows).Error
	if err != nil {
		return pagination.Page[VideoView]{}, svcErr.Map(err)
	}

	hasNext := len(rows) > q.Limit
	if hasNext {
		rows = rows[:q.Limit]
	}
	items, err := c.decorateVideos(ctx, viewerID, rows)
	if err != nil {
		return pagination.Page[VideoView]{}, err
	}

	page := pagination.NewPage(items, q.Params, total)
	page.HasNextPage = hasNext
	if hasNext {
		last := rows[len(rows)-1]
		page.NextCursor, _ = pagination.Encode(pagination.Cursor{ID: last.ID, CreatedAt: last.CreatedAt})
	}
	return page, nil
}

// GetVideo returns one video and records the view.
//
// Behavior:
//   - Unpublished videos are NotFound for everyone but their owner.
//   - Every successful read adds one view.
//   - Authenticated viewers get the video added to their watch history
//     (set semantics: re-watching neither duplicates nor reorders).
//   - The owner embed carries subscribersCount and isSubscribed; email only
//     when the viewer is the owner.
func (c *Composer) GetVideo(ctx context.Context, viewerID, id string) (VideoView, error) {
	v, err := c.videos.FindByIDWithOwner(ctx, id)
	if err != nil {
		return VideoView{}, svcErr.Map(err)
	}
	if v.Owner.ID == "" || (!v.IsPublished && v.OwnerID != viewerID) {
		return VideoView{}, svcErr.NotFound("video not found")
	}

	if err := c.videos.IncrementViews(ctx, v.ID); err != nil {
		return VideoView{}, svcErr.Map(err)
	}
	v.Views++

	if viewerID != "" {
		if err := c.watch.Add(ctx, viewerID, v.ID); err != nil {
			return VideoView{}, svcErr.Map(err)
		}
	}

	views, err := c.decorateVideos(ctx, viewerID, []db.Video{*v})
	if err != nil {
		return VideoView{}, err
	}
	out := views[0]

	owners, err := c.decorateOwners(ctx, viewerID, []db.User{v.Owner})
	if err != nil {
		return VideoView{}, err
	}
	out.Owner = owners[0]
	if viewerID == v.OwnerID {
		out.Owner.Email = v.Owner.Email
	}

	logger.FromContext(ctx).Debug("video viewed", "video_id", v.ID, "viewer_id", viewerID)
	return out, nil
}

// ListLikedVideos pages the videos the viewer liked, most recent like first.
func (c *Composer) ListLikedVideos(ctx context.Context, viewerID string, q Query) (pagination.Page[LikedVideoView], error) {
	if viewerID == "" {
		return pagination.Page[LikedVideoView]{}, svcErr.Unauthenticated("missing viewer")
	}

	refs, total, err := c.edgeRows.Targets(ctx, viewerID, string(edge.Video),
		"JOIN videos ON videos.id = edges.target_id",
		q.Offset(), q.Limit,
		publishedOrExpr(viewerID),
	)
	if err != nil {
		return pagination.Page[LikedVideoView]{}, svcErr.Map(err)
	}

	videos, err := c.videoViewsFor(ctx, viewerID, refs)
	if err != nil {
		return pagination.Page[LikedVideoView]{}, err
	}
	items := make([]LikedVideoView, 0, len(refs))
	for _, ref := range refs {
		if v, ok := videos[ref.ID]; ok {
			items = append(items, LikedVideoView{Video: v, LikedAt: ref.At})
		}
	}
	return pagination.NewPage(items, q.Params, total), nil
}

// WatchHistory pages the viewer's watched videos, first viewing most recent
// first.
func (c *Composer) WatchHistory(ctx context.Context, viewerID string, q Query) (pagination.Page[WatchedVideoView], error) {
	if viewerID == "" {
		return pagination.Page[WatchedVideoView]{}, svcErr.Unauthenticated("missing viewer")
	}

	refs, total, err := c.watch.Page(ctx, viewerID, q.Offset(), q.Limit)
	if err != nil {
		return pagination.Page[WatchedVideoView]{}, svcErr.Map(err)
	}

	videos, err := c.videoViewsFor(ctx, viewerID, refs)
	if err != nil {
		return pagination.Page[WatchedVideoView]{}, err
	}
	items := make([]WatchedVideoView, 0, len(refs))
	for _, ref := range refs {
		if v, ok := videos[ref.ID]; ok {
			items = append(items, WatchedVideoView{Video: v, WatchedAt: ref.At})
		}
	}
	return pagination.NewPage(items, q.Params, total), nil
}

// videoViewsFor loads and decorates the videos named by refs.
func (c *Composer) videoViewsFor(ctx context.Context, viewerID string, refs []repository.EdgeRef) (map[string]VideoView, error) {
	keys := ids(refs, refID)
	byID, err := c.videosByID(ctx, keys)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	rows := make([]db.Video, 0, len(byID))
	for _, k := range keys {
		if v, ok := byID[k]; ok {
			rows = append(rows, v)
		}
	}
	decorated, err := c.decorateVideos(ctx, viewerID, rows)
	if err != nil {
		return nil, err
	}
	out := make(map[string]VideoView, len(decorated))
	for _, v := range decorated {
		out[v.ID] = v
	}
	return out, nil
}

// ChannelStats aggregates the owner's dashboard totals.
func (c *Composer) ChannelStats(ctx context.Context, ownerID string) (ChannelStats, error) {
	var agg struct {
		Videos int64
		Views  int64
	}
	err := c.db.WithContext(ctx).
		Model(&db.Video{}).
		Select("COUNT(*) AS videos, COALESCE(SUM(views), 0) AS views").
		Where("owner_id = ?", ownerID).
		Scan(&agg).Error
	if err != nil {
		return ChannelStats{}, svcErr.Map(err)
	}

	subscribers, err := c.edges.CountFor(ctx, edge.Channel, ownerID)
	if err != nil {
		return ChannelStats{}, err
	}

	var likes int64
	err = c.db.WithContext(ctx).
		Table("edges").
		Joins("JOIN videos ON videos.id = edges.target_id").
		Where("edges.target_type = ? AND videos.owner_id = ?", string(edge.Video), ownerID).
		Count(&likes).Error
	if err != nil {
		return ChannelStats{}, svcErr.Map(err)
	}

	return ChannelStats{
		TotalVideos:      agg.Videos,
		TotalViews:       agg.Views,
		TotalSubscribers: subscribers,
		TotalLikes:       likes,
	}, nil
}
