// Package content implements owner-enforced mutations for videos, comments,
// tweets and playlists.
package content

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"gorm.io/gorm"

	"github.com/sumit00002/VidTube-Practice-Backend/internal/app"
	"github.com/sumit00002/VidTube-Practice-Backend/internal/db"
	svcErr "github.com/sumit00002/VidTube-Practice-Backend/internal/errors"
	"github.com/sumit00002/VidTube-Practice-Backend/internal/repository"
	"github.com/sumit00002/VidTube-Practice-Backend/internal/upload"
)

// Service applies content mutations on behalf of an authenticated caller.
// Only the owner of an entity may change or delete it.
type Service struct {
	appCtx    *app.AppContext
	uploads   upload.Store
	videos    *repository.VideoRepository
	comments  *repository.CommentRepository
	tweets    *repository.TweetRepository
	playlists *repository.PlaylistRepository
}

func NewService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:    appCtx,
		uploads:   appCtx.Uploads,
		videos:    repository.NewVideoRepository(appCtx.DB),
		comments:  repository.NewCommentRepository(appCtx.DB),
		tweets:    repository.NewTweetRepository(appCtx.DB),
		playlists: repository.NewPlaylistRepository(appCtx.DB),
	}
}

// owned loads the entity and checks that callerID owns it.
func owned[T any](
	ctx context.Context,
	repo *repository.OwnedRepository[T],
	id, callerID, noun string,
	ownerOf func(*T) string,
) (*T, error) {
	if callerID == "" {
		return nil, svcErr.Unauthenticated("no subject")
	}
	row, err := repo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, svcErr.NotFound(noun + " not found")
	}
	if err != nil {
		return nil, svcErr.Map(err)
	}
	if ownerOf(row) != callerID {
		return nil, svcErr.Forbidden(fmt.Sprintf("you are not allowed to modify this %s", noun))
	}
	return row, nil
}

// reload fetches the entity with its owner after a write.
func reload[T any](ctx context.Context, repo *repository.OwnedRepository[T], id string) (*T, error) {
	row, err := repo.FindByIDWithOwner(ctx, id)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	return row, nil
}

func (s *Service) store(ctx context.Context, f *upload.File, category, field string) (string, error) {
	if f == nil || f.Body == nil {
		return "", svcErr.Validation(field + " file is required")
	}
	res, err := s.uploads.Store(ctx, *f, category)
	if err != nil {
		return "", svcErr.Map(err)
	}
	return res.URL, nil
}

// text trims s and checks its length in runes.
func text(field, s string, minLen, maxLen int) (string, error) {
	s = strings.TrimSpace(s)
	n := utf8.RuneCountInString(s)
	switch {
	case n == 0 && minLen > 0:
		return "", svcErr.Validation(field + " is required")
	case n < minLen:
		return "", svcErr.Validation(fmt.Sprintf("%s must be at least %d characters", field, minLen))
	case n > maxLen:
		return "", svcErr.Validation(fmt.Sprintf("%s must be at most %d characters", field, maxLen))
	}
	return s, nil
}

func visibility(v string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", db.VisibilityPublic:
		return db.VisibilityPublic, nil
	case db.VisibilityPrivate:
		return db.VisibilityPrivate, nil
	}
	return "", svcErr.Validation("visibility must be public or private")
}
