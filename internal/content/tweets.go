package content

import (
	"context"

	"github.com/sumit00002/VidTube-Practice-Backend/internal/db"
	svcErr "github.com/sumit00002/VidTube-Practice-Backend/internal/errors"
	"github.com/sumit00002/VidTube-Practice-Backend/internal/upload"
	"github.com/sumit00002/VidTube-Practice-Backend/internal/view"
)

const maxTweetLen = 1000

// NewTweet is the input of CreateTweet. Media is optional.
type NewTweet struct {
	Content    string
	Visibility string
	Media      *upload.File
}

type TweetPatch struct {
	Content    *string
	Visibility *string
}

func tweetOwner(t *db.Tweet) string { return t.OwnerID }

func (s *Service) CreateTweet(ctx context.Context, callerID string, in NewTweet) (view.TweetView, error) {
	if callerID == "" {
		return view.TweetView{}, svcErr.Unauthenticated("no subject")
	}
	body, err := text("content", in.Content, 1, maxTweetLen)
	if err != nil {
		return view.TweetView{}, err
	}
	vis, err := visibility(in.Visibility)
	if err != nil {
		return view.TweetView{}, err
	}

	t := &db.Tweet{OwnerID: callerID, Content: body, Visibility: vis}
	if in.Media != nil {
		if t.MediaURL, err = s.store(ctx, in.Media, upload.CategoryTweet, "media"); err != nil {
			return view.TweetView{}, err
		}
	}
	if err := s.tweets.Create(ctx, t); err != nil {
		return view.TweetView{}, svcErr.Map(err)
	}
	return s.tweetView(ctx, t.ID)
}

func (s *Service) UpdateTweet(ctx context.Context, callerID, id string, p TweetPatch) (view.TweetView, error) {
	if p.Content == nil && p.Visibility == nil {
		return view.TweetView{}, svcErr.Validation("at least one field is required to update")
	}
	if _, err := owned(ctx, s.tweets, id, callerID, "tweet", tweetOwner); err != nil {
		return view.TweetView{}, err
	}

	fields := map[string]any{}
	if p.Content != nil {
		body, err := text("content", *p.Content, 1, maxTweetLen)
		if err != nil {
			return view.TweetView{}, err
		}
		fields["content"] = body
	}
	if p.Visibility != nil {
		vis, err := visibility(*p.Visibility)
		if err != nil {
			return view.TweetView{}, err
		}
		fields["visibility"] = vis
	}
	if err := s.tweets.Update(ctx, id, fields); err != nil {
		return view.TweetView{}, svcErr.Map(err)
	}
	return s.tweetView(ctx, id)
}

func (s *Service) DeleteTweet(ctx context.Context, callerID, id string) error {
	if _, err := owned(ctx, s.tweets, id, callerID, "tweet", tweetOwner); err != nil {
		return err
	}
	return svcErr.Map(s.tweets.Delete(ctx, id))
}

func (s *Service) tweetView(ctx context.Context, id string) (view.TweetView, error) {
	t, err := reload(ctx, s.tweets, id)
	if err != nil {
		return view.TweetView{}, err
	}
	return view.NewTweetView(*t), nil
}
