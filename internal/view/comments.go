package view

import (
	"context"

	"github.com/sumit00002/VidTube-Practice-Backend/internal/db"
	"github.com/sumit00002/VidTube-Practice-Backend/internal/edge"
	svcErr "github.com/sumit00002/VidTube-Practice-Backend/internal/errors"
	"github.com/sumit00002/VidTube-Practice-Backend/internal/repository"
	"github.com/sumit00002/VidTube-Practice-Backend/internal/utils/pagination"
)

// CommentFilter narrows ListComments to a video or an author. ParentID nil
// lists every comment; a pointer to "" lists top-level comments only.
type CommentFilter struct {
	VideoID  string
	OwnerID  string
	ParentID *string
}

// ListComments pages comments on visible videos.
//
// Behavior:
//   - The video (or author) must exist, else NotFound.
//   - Replies whose parent was deleted keep their parentCommentId and are
//     still listed.
func (c *Composer) ListComments(ctx context.Context, viewerID string, f CommentFilter, q Query) (pagination.Page[CommentView], error) {
	if f.VideoID != "" {
		v, err := c.videos.FindByID(ctx, f.VideoID)
		if err != nil {
			return pagination.Page[CommentView]{}, svcErr.Map(err)
		}
		if !v.IsPublished && v.OwnerID != viewerID {
			return pagination.Page[CommentView]{}, svcErr.NotFound("video not found")
		}
	}
	if f.OwnerID != "" {
		if _, err := c.users.FindByID(ctx, f.OwnerID); err != nil {
			return pagination.Page[CommentView]{}, svcErr.Map(err)
		}
	}

	base := c.db.WithContext(ctx).
		Model(&db.Comment{}).
		Joins("JOIN users ON users.id = comments.owner_id").
		Joins("JOIN videos ON videos.id = comments.video_id")
	base = publishedOr(base, viewerID)

	if f.VideoID != "" {
		base = base.Where("comments.video_id = ?", f.VideoID)
	}
	if f.OwnerID != "" {
		base = base.Where("comments.owner_id = ?", f.OwnerID)
	}
	if f.ParentID != nil {
		if *f.ParentID == "" {
			base = base.Where("comments.parent_comment_id IS NULL")
		} else {
			base = base.Where("comments.parent_comment_id = ?", *f.ParentID)
		}
	}
	if q.Search != "" {
		base = base.Where(repository.ContainsFold(q.Search, "comments.content"))
	}

	preload := []string{"Owner"}
	if f.VideoID == "" {
		preload = append(preload, "Video")
	}
	rows, total, err := repository.FindPage[db.Comment](base, repository.PageQuery{
		Offset:  q.Offset(),
		Limit:   q.Limit,
		Order:   commentSort.order("comments", q),
		Preload: preload,
	})
	if err != nil {
		return pagination.Page[CommentView]{}, svcErr.Map(err)
	}

	items, err := c.decorateComments(ctx, viewerID, rows)
	if err != nil {
		return pagination.Page[CommentView]{}, err
	}
	return pagination.NewPage(items, q.Params, total), nil
}

// GetComment returns a single comment on a visible video.
func (c *Composer) GetComment(ctx context.Context, viewerID, id string) (CommentView, error) {
	var cm db.Comment
	err := c.db.WithContext(ctx).
		Preload("Owner").
		Preload("Video").
		Where("id = ?", id).
		Take(&cm).Error
	if err != nil {
		return CommentView{}, svcErr.Map(err)
	}
	if cm.Owner.ID == "" || cm.Video.ID == "" || (!cm.Video.IsPublished && cm.Video.OwnerID != viewerID) {
		return CommentView{}, svcErr.NotFound("comment not found")
	}

	count, err := c.edges.CountFor(ctx, edge.Comment, cm.ID)
	if err != nil {
		return CommentView{}, err
	}
	liked, err := c.edges.Exists(ctx, viewerID, edge.Comment, cm.ID)
	if err != nil {
		return CommentView{}, err
	}

	out := NewCommentView(cm)
	out.LikesCount = count
	out.IsLiked = flag(viewerID, liked)
	return out, nil
}
