package content

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/sumit00002/VidTube-Practice-Backend/internal/db"
	svcErr "github.com/sumit00002/VidTube-Practice-Backend/internal/errors"
	"github.com/sumit00002/VidTube-Practice-Backend/internal/view"
)

const maxCommentLen = 2000

func commentOwner(c *db.Comment) string { return c.OwnerID }

// AddComment posts a comment on a video the caller can see. A reply names
// its parent, which must already exist on the same video.
func (s *Service) AddComment(ctx context.Context, callerID, videoID, body string, parentID *string) (view.CommentView, error) {
	if callerID == "" {
		return view.CommentView{}, svcErr.Unauthenticated("no subject")
	}
	body, err := text("content", body, 1, maxCommentLen)
	if err != nil {
		return view.CommentView{}, err
	}

	v, err := s.videos.FindByID(ctx, videoID)
	if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && !v.IsPublished && v.OwnerID != callerID) {
		return view.CommentView{}, svcErr.NotFound("video not found")
	}
	if err != nil {
		return view.CommentView{}, svcErr.Map(err)
	}

	if parentID != nil {
		parent, err := s.comments.FindByID(ctx, *parentID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return view.CommentView{}, svcErr.NotFound("parent comment not found")
		}
		if err != nil {
			return view.CommentView{}, svcErr.Map(err)
		}
		if parent.VideoID != videoID {
			return view.CommentView{}, svcErr.Validation("parent comment belongs to another video")
		}
	}

	c := &db.Comment{VideoID: videoID, OwnerID: callerID, ParentCommentID: parentID, Content: body}
	if err := s.comments.Create(ctx, c); err != nil {
		return view.CommentView{}, svcErr.Map(err)
	}
	return s.commentView(ctx, c.ID)
}

// UpdateComment replaces the content and marks the comment edited.
func (s *Service) UpdateComment(ctx context.Context, callerID, id, body string) (view.CommentView, error) {
	body, err := text("content", body, 1, maxCommentLen)
	if err != nil {
		return view.CommentView{}, err
	}
	if _, err := owned(ctx, s.comments, id, callerID, "comment", commentOwner); err != nil {
		return view.CommentView{}, err
	}
	if err := s.comments.Update(ctx, id, map[string]any{"content": body, "is_edited": true}); err != nil {
		return view.CommentView{}, svcErr.Map(err)
	}
	return s.commentView(ctx, id)
}

// DeleteComment removes the comment only. Replies keep their dangling
// parent reference.
func (s *Service) DeleteComment(ctx context.Context, callerID, id string) error {
	if _, err := owned(ctx, s.comments, id, callerID, "comment", commentOwner); err != nil {
		return err
	}
	return svcErr.Map(s.comments.Delete(ctx, id))
}

func (s *Service) commentView(ctx context.Context, id string) (view.CommentView, error) {
	c, err := reload(ctx, s.comments, id)
	if err != nil {
		return view.CommentView{}, err
	}
	return view.NewCommentView(*c), nil
}
