package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/sumit00002/VidTube-Practice-Backend/internal/db"
)

// OwnedRepository is the shared data access for owner-held content
// (videos, comments, tweets, playlists).
type OwnedRepository[T any] struct {
	db *gorm.DB
}

func (r *OwnedRepository[T]) Create(ctx context.Context, entity *T) error {
	return r.db.WithContext(ctx).Create(entity).Error
}

// FindByID returns gorm.ErrRecordNotFound when the row does not exist.
func (r *OwnedRepository[T]) FindByID(ctx context.Context, id string) (*T, error) {
	var entity T
	if err := r.db.WithContext(ctx).Where("id = ?", id).Take(&entity).Error; err != nil {
		return nil, err
	}
	return &entity, nil
}

// FindByIDWithOwner loads the row and its owner.
func (r *OwnedRepository[T]) FindByIDWithOwner(ctx context.Context, id string) (*T, error) {
	var entity T
	if err := r.db.WithContext(ctx).Preload("Owner").Where("id = ?", id).Take(&entity).Error; err != nil {
		return nil, err
	}
	return &entity, nil
}

// FindByIDs loads rows keyed by id, with their owners. Missing ids are absent.
func (r *OwnedRepository[T]) FindByIDs(ctx context.Context, ids []string) ([]T, error) {
	var items []T
	if len(ids) == 0 {
		return items, nil
	}
	err := r.db.WithContext(ctx).Preload("Owner").Where("id IN ?", ids).Find(&items).Error
	return items, err
}

// Update writes the given columns and bumps updated_at.
func (r *OwnedRepository[T]) Update(ctx context.Context, id string, fields map[string]any) error {
	var model T
	return r.db.WithContext(ctx).Model(&model).Where("id = ?", id).Updates(fields).Error
}

// Delete removes the row only. Edges, replies and memberships that point at
// it are left in place.
func (r *OwnedRepository[T]) Delete(ctx context.Context, id string) error {
	var model T
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model).Error
}

// Exists reports whether a row with id exists.
func (r *OwnedRepository[T]) Exists(ctx context.Context, id string) (bool, error) {
	var model T
	var count int64
	err := r.db.WithContext(ctx).Model(&model).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

type (
	CommentRepository = OwnedRepository[db.Comment]
	TweetRepository   = OwnedRepository[db.Tweet]
)

func NewCommentRepository(database *gorm.DB) *CommentRepository {
	return &CommentRepository{db: database}
}

func NewTweetRepository(database *gorm.DB) *TweetRepository {
	return &TweetRepository{db: database}
}

// VideoRepository adds view counting to the owned-content operations.
type VideoRepository struct {
	OwnedRepository[db.Video]
}

func NewVideoRepository(database *gorm.DB) *VideoRepository {
	return &VideoRepository{OwnedRepository[db.Video]{db: database}}
}

// IncrementViews adds one view atomically, without touching updated_at.
func (r *VideoRepository) IncrementViews(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Model(&db.Video{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + ?", 1)).Error
}

// PlaylistRepository adds ordered membership to the owned-content operations.
type PlaylistRepository struct {
	OwnedRepository[db.Playlist]
}

func NewPlaylistRepository(database *gorm.DB) *PlaylistRepository {
	return &PlaylistRepository{OwnedRepository[db.Playlist]{db: database}}
}

// HasVideo reports whether the video is already in the playlist.
func (r *PlaylistRepository) HasVideo(ctx context.Context, playlistID, videoID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db.PlaylistVideo{}).
		Where("playlist_id = ? AND video_id = ?", playlistID, videoID).
		Count(&count).Error
	return count > 0, err
}

// AppendVideo inserts the video after the current last position.
//
// Behavior:
//   - Position = max(position) + 1 at the time of the read.
//   - Two concurrent appends may pick the same position; the loser gets a
//     duplicate-key error and the caller decides whether to retry.
func (r *PlaylistRepository) AppendVideo(ctx context.Context, playlistID, videoID string) (*db.PlaylistVideo, error) {
	var last struct{ Pos int }
	err := r.db.WithContext(ctx).
		Model(&db.PlaylistVideo{}).
		Select("COALESCE(MAX(position), 0) AS pos").
		Where("playlist_id = ?", playlistID).
		Scan(&last).Error
	if err != nil {
		return nil, err
	}

	entry := &db.PlaylistVideo{PlaylistID: playlistID, VideoID: videoID, Position: last.Pos + 1}
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return nil, err
	}
	return entry, nil
}

// RemoveVideo deletes the membership and reports whether it existed.
func (r *PlaylistRepository) RemoveVideo(ctx context.Context, playlistID, videoID string) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("playlist_id = ? AND video_id = ?", playlistID, videoID).
		Delete(&db.PlaylistVideo{})
	return res.RowsAffected > 0, res.Error
}

// PlaylistTotals are the aggregates shown on a playlist card.
type PlaylistTotals struct {
	Videos int64
	Views  int64
}

// Totals returns video count and summed views per playlist over the
// videos that still exist.
func (r *PlaylistRepository) Totals(ctx context.Context, playlistIDs []string) (map[string]PlaylistTotals, error) {
	out := make(map[string]PlaylistTotals, len(playlistIDs))
	if len(playlistIDs) == 0 {
		return out, nil
	}

	var rows []struct {
		PlaylistID string
		Videos     int64
		Views      int64
	}
	err := r.db.WithContext(ctx).
		Table("playlist_videos").
		Select("playlist_videos.playlist_id, COUNT(videos.id) AS videos, COALESCE(SUM(videos.views), 0) AS views").
		Joins("JOIN videos ON videos.id = playlist_videos.video_id").
		Where("playlist_videos.playlist_id IN ?", playlistIDs).
		Group("playlist_videos.playlist_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.PlaylistID] = PlaylistTotals{Videos: row.Videos, Views: row.Views}
	}
	return out, nil
}

// Videos returns the playlist's existing videos ordered by position.
// onlyPublishedOr keeps unpublished videos owned by that user; pass ""
// to keep published videos only.
func (r *PlaylistRepository) Videos(ctx context.Context, playlistID, onlyPublishedOr string) ([]db.Video, error) {
	var videos []db.Video
	err := r.db.WithContext(ctx).
		Preload("Owner").
		Joins("JOIN playlist_videos ON playlist_videos.video_id = videos.id").
		Where("playlist_videos.playlist_id = ?", playlistID).
		Where("videos.is_published = ? OR videos.owner_id = ?", true, onlyPublishedOr).
		Order(clause.OrderByColumn{Column: clause.Column{Table: "playlist_videos", Name: "position"}}).
		Find(&videos).Error
	return videos, err
}

// WatchRepository stores per-user watch history as a set.
type WatchRepository struct {
	db *gorm.DB
}

func NewWatchRepository(database *gorm.DB) *WatchRepository {
	return &WatchRepository{db: database}
}

// Add records the view. Re-watching is a no-op; WatchedAt keeps the first
// viewing and the entry's position is unchanged.
func (r *WatchRepository) Add(ctx context.Context, userID, videoID string) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&db.WatchEntry{UserID: userID, VideoID: videoID, WatchedAt: time.Now().UTC()}).Error
}

// Page lists watched videos that still exist, most recent first.
func (r *WatchRepository) Page(ctx context.Context, userID string, offset, limit int) ([]EdgeRef, int64, error) {
	q := r.db.WithContext(ctx).
		Table("watch_entries").
		Joins("JOIN videos ON videos.id = watch_entries.video_id").
		Where("watch_entries.user_id = ?", userID)

	return FindPage[EdgeRef](q, PageQuery{
		Offset: offset,
		Limit:  limit,
		Order: []clause.OrderByColumn{
			{Column: clause.Column{Table: "watch_entries", Name: "watched_at"}, Desc: true},
			{Column: clause.Column{Table: "watch_entries", Name: "video_id"}, Desc: true},
		},
		Select: "watch_entries.video_id AS id, watch_entries.watched_at AS at",
	})
}
