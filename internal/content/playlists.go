package content

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/sumit00002/VidTube-Practice-Backend/internal/db"
	svcErr "github.com/sumit00002/VidTube-Practice-Backend/internal/errors"
	"github.com/sumit00002/VidTube-Practice-Backend/internal/logger"
	"github.com/sumit00002/VidTube-Practice-Backend/internal/repository"
	"github.com/sumit00002/VidTube-Practice-Backend/internal/view"
)

// maxAppendAttempts bounds retries when concurrent appends pick the same
// position.
const maxAppendAttempts = 3

type NewPlaylist struct {
	Name        string
	Description string
	Visibility  string
}

type PlaylistPatch struct {
	Name        *string
	Description *string
	Visibility  *string
}

func playlistOwner(p *db.Playlist) string { return p.OwnerID }

func (s *Service) CreatePlaylist(ctx context.Context, callerID string, in NewPlaylist) (view.PlaylistView, error) {
	if callerID == "" {
		return view.PlaylistView{}, svcErr.Unauthenticated("no subject")
	}
	name, err := text("name", in.Name, 1, 120)
	if err != nil {
		return view.PlaylistView{}, err
	}
	desc, err := text("description", in.Description, 0, 2000)
	if err != nil {
		return view.PlaylistView{}, err
	}
	vis, err := visibility(in.Visibility)
	if err != nil {
		return view.PlaylistView{}, err
	}

	p := &db.Playlist{OwnerID: callerID, Name: name, Description: desc, Visibility: vis}
	if err := s.playlists.Create(ctx, p); err != nil {
		return view.PlaylistView{}, svcErr.Map(err)
	}
	return s.playlistView(ctx, p.ID)
}

func (s *Service) UpdatePlaylist(ctx context.Context, callerID, id string, p PlaylistPatch) (view.PlaylistView, error) {
	if p.Name == nil && p.Description == nil && p.Visibility == nil {
		return view.PlaylistView{}, svcErr.Validation("at least one field is required to update")
	}
	if _, err := owned(ctx, &s.playlists.OwnedRepository, id, callerID, "playlist", playlistOwner); err != nil {
		return view.PlaylistView{}, err
	}

	fields := map[string]any{}
	if p.Name != nil {
		name, err := text("name", *p.Name, 1, 120)
		if err != nil {
			return view.PlaylistView{}, err
		}
		fields["name"] = name
	}
	if p.Description != nil {
		desc, err := text("description", *p.Description, 0, 2000)
		if err != nil {
			return view.PlaylistView{}, err
		}
		fields["description"] = desc
	}
	if p.Visibility != nil {
		vis, err := visibility(*p.Visibility)
		if err != nil {
			return view.PlaylistView{}, err
		}
		fields["visibility"] = vis
	}
	if err := s.playlists.Update(ctx, id, fields); err != nil {
		return view.PlaylistView{}, svcErr.Map(err)
	}
	return s.playlistView(ctx, id)
}

// DeletePlaylist removes the playlist row; its membership rows are no
// longer reachable.
func (s *Service) DeletePlaylist(ctx context.Context, callerID, id string) error {
	if _, err := owned(ctx, &s.playlists.OwnedRepository, id, callerID, "playlist", playlistOwner); err != nil {
		return err
	}
	return svcErr.Map(s.playlists.Delete(ctx, id))
}

// AddToPlaylist appends a video the caller can see to the end of the
// playlist.
//
// Behavior:
//   - A video already in the playlist is Conflict.
//   - A position collision with a concurrent append is retried up to
//     maxAppendAttempts times, then reported as Unavailable.
func (s *Service) AddToPlaylist(ctx context.Context, callerID, playlistID, videoID string) (view.PlaylistView, error) {
	if _, err := owned(ctx, &s.playlists.OwnedRepository, playlistID, callerID, "playlist", playlistOwner); err != nil {
		return view.PlaylistView{}, err
	}
	v, err := s.videos.FindByID(ctx, videoID)
	if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && !v.IsPublished && v.OwnerID != callerID) {
		return view.PlaylistView{}, svcErr.NotFound("video not found")
	}
	if err != nil {
		return view.PlaylistView{}, svcErr.Map(err)
	}

	var lastErr error
	for attempt := 1; attempt <= maxAppendAttempts; attempt++ {
		present, err := s.playlists.HasVideo(ctx, playlistID, videoID)
		if err != nil {
			return view.PlaylistView{}, svcErr.Map(err)
		}
		if present {
			return view.PlaylistView{}, svcErr.Conflict("video already exists in playlist")
		}

		_, err = s.playlists.AppendVideo(ctx, playlistID, videoID)
		if err == nil {
			return s.playlistView(ctx, playlistID)
		}
		if !repository.IsDuplicate(err) {
			return view.PlaylistView{}, svcErr.Map(err)
		}
		lastErr = err
		logger.FromContext(ctx).Debug("playlist append collided",
			"playlist_id", playlistID, "video_id", videoID, "attempt", attempt)
	}
	return view.PlaylistView{}, svcErr.Unavailable("playlist is busy, try again", lastErr)
}

func (s *Service) RemoveFromPlaylist(ctx context.Context, callerID, playlistID, videoID string) (view.PlaylistView, error) {
	if _, err := owned(ctx, &s.playlists.OwnedRepository, playlistID, callerID, "playlist", playlistOwner); err != nil {
		return view.PlaylistView{}, err
	}
	removed, err := s.playlists.RemoveVideo(ctx, playlistID, videoID)
	if err != nil {
		return view.PlaylistView{}, svcErr.Map(err)
	}
	if !removed {
		return view.PlaylistView{}, svcErr.NotFound("video is not in this playlist")
	}
	return s.playlistView(ctx, playlistID)
}

func (s *Service) playlistView(ctx context.Context, id string) (view.PlaylistView, error) {
	p, err := reload(ctx, &s.playlists.OwnedRepository, id)
	if err != nil {
		return view.PlaylistView{}, err
	}
	out := view.NewPlaylistView(*p)
	totals, err := s.playlists.Totals(ctx, []string{id})
	if err != nil {
		return view.PlaylistView{}, svcErr.Map(err)
	}
	out.TotalVideos = totals[id].Videos
	out.TotalViews = totals[id].Views
	return out, nil
}
