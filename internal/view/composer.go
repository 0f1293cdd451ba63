// Package view builds the paginated, viewer-aware read models served by
// every list and detail endpoint.
package view

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/sumit00002/VidTube-Practice-Backend/internal/db"
	"github.com/sumit00002/VidTube-Practice-Backend/internal/edge"
	"github.com/sumit00002/VidTube-Practice-Backend/internal/repository"
)

// EdgeReader is the read side of the toggle edge store.
type EdgeReader interface {
	Exists(ctx context.Context, subjectID string, t edge.TargetType, targetID string) (bool, error)
	CountFor(ctx context.Context, t edge.TargetType, targetID string) (int64, error)
	CountForMany(ctx context.Context, t edge.TargetType, targetIDs []string) (map[string]int64, error)
	ExistsAmong(ctx context.Context, subjectID string, t edge.TargetType, targetIDs []string) (map[string]bool, error)
	CountBySubject(ctx context.Context, subjectID string, t edge.TargetType) (int64, error)
}

// Composer joins content rows against edges. An empty viewerID is an
// anonymous request: viewer flags are omitted and nothing is recorded.
type Composer struct {
	db        *gorm.DB
	edges     EdgeReader
	edgeRows  *repository.EdgeRepository
	users     *repository.UserRepository
	videos    *repository.VideoRepository
	comments  *repository.CommentRepository
	tweets    *repository.TweetRepository
	playlists *repository.PlaylistRepository
	watch     *repository.WatchRepository
}

func NewComposer(database *gorm.DB, edges EdgeReader) *Composer {
	return &Composer{
		db:        database,
		edges:     edges,
		edgeRows:  repository.NewEdgeRepository(database),
		users:     repository.NewUserRepository(database),
		videos:    repository.NewVideoRepository(database),
		comments:  repository.NewCommentRepository(database),
		tweets:    repository.NewTweetRepository(database),
		playlists: repository.NewPlaylistRepository(database),
		watch:     repository.NewWatchRepository(database),
	}
}

// ids collects the primary keys of rows in order.
func ids[T any](rows []T, id func(T) string) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = id(r)
	}
	return out
}

func refID(r repository.EdgeRef) string { return r.ID }

// likes returns like counts and viewer flags for a batch of targets.
func (c *Composer) likes(ctx context.Context, viewerID string, t edge.TargetType, targetIDs []string) (map[string]int64, map[string]bool, error) {
	counts, err := c.edges.CountForMany(ctx, t, targetIDs)
	if err != nil {
		return nil, nil, err
	}
	liked, err := c.edges.ExistsAmong(ctx, viewerID, t, targetIDs)
	if err != nil {
		return nil, nil, err
	}
	return counts, liked, nil
}

func (c *Composer) decorateVideos(ctx context.Context, viewerID string, rows []db.Video) ([]VideoView, error) {
	keys := ids(rows, func(v db.Video) string { return v.ID })
	counts, liked, err := c.likes(ctx, viewerID, edge.Video, keys)
	if err != nil {
		return nil, err
	}
	out := make([]VideoView, len(rows))
	for i, v := range rows {
		out[i] = NewVideoView(v)
		out[i].LikesCount = counts[v.ID]
		out[i].IsLiked = flag(viewerID, liked[v.ID])
	}
	return out, nil
}

func (c *Composer) decorateComments(ctx context.Context, viewerID string, rows []db.Comment) ([]CommentView, error) {
	keys := ids(rows, func(cm db.Comment) string { return cm.ID })
	counts, liked, err := c.likes(ctx, viewerID, edge.Comment, keys)
	if err != nil {
		return nil, err
	}
	out := make([]CommentView, len(rows))
	for i, cm := range rows {
		out[i] = NewCommentView(cm)
		out[i].LikesCount = counts[cm.ID]
		out[i].IsLiked = flag(viewerID, liked[cm.ID])
	}
	return out, nil
}

func (c *Composer) decorateTweets(ctx context.Context, viewerID string, rows []db.Tweet) ([]TweetView, error) {
	keys := ids(rows, func(t db.Tweet) string { return t.ID })
	counts, liked, err := c.likes(ctx, viewerID, edge.Tweet, keys)
	if err != nil {
		return nil, err
	}
	out := make([]TweetView, len(rows))
	for i, t := range rows {
		out[i] = NewTweetView(t)
		out[i].LikesCount = counts[t.ID]
		out[i].IsLiked = flag(viewerID, liked[t.ID])
	}
	return out, nil
}

// decorateOwners adds subscriber counts and the viewer's subscription flag.
func (c *Composer) decorateOwners(ctx context.Context, viewerID string, users []db.User) ([]OwnerView, error) {
	keys := ids(users, func(u db.User) string { return u.ID })
	counts, err := c.edges.CountForMany(ctx, edge.Channel, keys)
	if err != nil {
		return nil, err
	}
	subscribed, err := c.edges.ExistsAmong(ctx, viewerID, edge.Channel, keys)
	if err != nil {
		return nil, err
	}
	out := make([]OwnerView, len(users))
	for i, u := range users {
		n := counts[u.ID]
		out[i] = NewOwnerView(u)
		out[i].SubscribersCount = &n
		out[i].IsSubscribed = flag(viewerID, subscribed[u.ID])
	}
	return out, nil
}

// usersByID loads users keyed by id; missing ids are absent.
func (c *Composer) usersByID(ctx context.Context, keys []string) (map[string]db.User, error) {
	out := make(map[string]db.User, len(keys))
	if len(keys) == 0 {
		return out, nil
	}
	var users []db.User
	if err := c.db.WithContext(ctx).Where("id IN ?", keys).Find(&users).Error; err != nil {
		return nil, err
	}
	for _, u := range users {
		out[u.ID] = u
	}
	return out, nil
}

// videosByID loads videos with owners keyed by id; missing ids are absent.
func (c *Composer) videosByID(ctx context.Context, keys []string) (map[string]db.Video, error) {
	rows, err := c.videos.FindByIDs(ctx, keys)
	if err != nil {
		return nil, err
	}
	out := make(map[string]db.Video, len(rows))
	for _, v := range rows {
		out[v.ID] = v
	}
	return out, nil
}

// visibleTo limits rows of table to public ones or those owned by viewer.
func visibleTo(q *gorm.DB, table, viewerID string) *gorm.DB {
	return q.Where("("+table+".visibility = ? OR "+table+".owner_id = ?)", db.VisibilityPublic, viewerID)
}

// publishedOr limits videos to published ones or those owned by viewer.
func publishedOr(q *gorm.DB, viewerID string) *gorm.DB {
	return q.Where("(videos.is_published = ? OR videos.owner_id = ?)", true, viewerID)
}

func publishedOrExpr(viewerID string) clause.Expression {
	return clause.Expr{SQL: "(videos.is_published = ? OR videos.owner_id = ?)", Vars: []any{true, viewerID}}
}
