package content

import (
	"context"

	"github.com/sumit00002/VidTube-Practice-Backend/internal/db"
	svcErr "github.com/sumit00002/VidTube-Practice-Backend/internal/errors"
	"github.com/sumit00002/VidTube-Practice-Backend/internal/logger"
	"github.com/sumit00002/VidTube-Practice-Backend/internal/upload"
	"github.com/sumit00002/VidTube-Practice-Backend/internal/view"
)

// NewVideo is the input of PublishVideo. Both files are required.
type NewVideo struct {
	Title       string
	Description string
	Video       *upload.File
	Thumbnail   *upload.File
}

// VideoPatch changes the fields that are set.
type VideoPatch struct {
	Title       *string
	Description *string
}

func videoOwner(v *db.Video) string { return v.OwnerID }

// PublishVideo uploads the media and creates a published video owned by
// callerID.
func (s *Service) PublishVideo(ctx context.Context, callerID string, in NewVideo) (view.VideoView, error) {
	if callerID == "" {
		return view.VideoView{}, svcErr.Unauthenticated("no subject")
	}
	title, err := text("title", in.Title, 1, 120)
	if err != nil {
		return view.VideoView{}, err
	}
	desc, err := text("description", in.Description, 1, 5000)
	if err != nil {
		return view.VideoView{}, err
	}
	if in.Video == nil || in.Thumbnail == nil {
		return view.VideoView{}, svcErr.Validation("video and thumbnail files are required")
	}

	media, err := s.uploads.Store(ctx, *in.Video, upload.CategoryVideo)
	if err != nil {
		return view.VideoView{}, svcErr.Map(err)
	}
	thumb, err := s.store(ctx, in.Thumbnail, upload.CategoryThumbnail, "thumbnail")
	if err != nil {
		return view.VideoView{}, err
	}

	v := &db.Video{
		OwnerID:         callerID,
		Title:           title,
		Description:     desc,
		VideoURL:        media.URL,
		ThumbnailURL:    thumb,
		DurationSeconds: media.DurationSeconds,
		IsPublished:     true,
	}
	if err := s.videos.Create(ctx, v); err != nil {
		return view.VideoView{}, svcErr.Map(err)
	}
	logger.FromContext(ctx).Info("video published", "video_id", v.ID, "owner_id", callerID)
	return s.videoView(ctx, v.ID)
}

// UpdateVideo changes title and/or description. At least one is required.
func (s *Service) UpdateVideo(ctx context.Context, callerID, id string, p VideoPatch) (view.VideoView, error) {
	if p.Title == nil && p.Description == nil {
		return view.VideoView{}, svcErr.Validation("at least one field is required to update")
	}
	if _, err := owned(ctx, &s.videos.OwnedRepository, id, callerID, "video", videoOwner); err != nil {
		return view.VideoView{}, err
	}

	fields := map[string]any{}
	if p.Title != nil {
		title, err := text("title", *p.Title, 1, 120)
		if err != nil {
			return view.VideoView{}, err
		}
		fields["title"] = title
	}
	if p.Description != nil {
		desc, err := text("description", *p.Description, 1, 5000)
		if err != nil {
			return view.VideoView{}, err
		}
		fields["description"] = desc
	}
	if err := s.videos.Update(ctx, id, fields); err != nil {
		return view.VideoView{}, svcErr.Map(err)
	}
	return s.videoView(ctx, id)
}

// UpdateThumbnail replaces the thumbnail image.
func (s *Service) UpdateThumbnail(ctx context.Context, callerID, id string, f *upload.File) (view.VideoView, error) {
	if _, err := owned(ctx, &s.videos.OwnedRepository, id, callerID, "video", videoOwner); err != nil {
		return view.VideoView{}, err
	}
	url, err := s.store(ctx, f, upload.CategoryThumbnail, "thumbnail")
	if err != nil {
		return view.VideoView{}, err
	}
	if err := s.videos.Update(ctx, id, map[string]any{"thumbnail_url": url}); err != nil {
		return view.VideoView{}, svcErr.Map(err)
	}
	return s.videoView(ctx, id)
}

// DeleteVideo removes the video row. Likes, comments, playlist entries and
// watch history that reference it stay and are hidden by the read models.
func (s *Service) DeleteVideo(ctx context.Context, callerID, id string) error {
	if _, err := owned(ctx, &s.videos.OwnedRepository, id, callerID, "video", videoOwner); err != nil {
		return err
	}
	if err := s.videos.Delete(ctx, id); err != nil {
		return svcErr.Map(err)
	}
	logger.FromContext(ctx).Info("video deleted", "video_id", id, "owner_id", callerID)
	return nil
}

// TogglePublish flips the published state.
func (s *Service) TogglePublish(ctx context.Context, callerID, id string) (view.VideoView, error) {
	v, err := owned(ctx, &s.videos.OwnedRepository, id, callerID, "video", videoOwner)
	if err != nil {
		return view.VideoView{}, err
	}
	if err := s.videos.Update(ctx, id, map[string]any{"is_published": !v.IsPublished}); err != nil {
		return view.VideoView{}, svcErr.Map(err)
	}
	return s.videoView(ctx, id)
}

func (s *Service) videoView(ctx context.Context, id string) (view.VideoView, error) {
	v, err := reload(ctx, &s.videos.OwnedRepository, id)
	if err != nil {
		return view.VideoView{}, err
	}
	return view.NewVideoView(*v), nil
}
