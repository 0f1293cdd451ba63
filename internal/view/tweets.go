package view

import (
	"context"

	"github.com/sumit00002/VidTube-Practice-Backend/internal/db"
	svcErr "github.com/sumit00002/VidTube-Practice-Backend/internal/errors"
	"github.com/sumit00002/VidTube-Practice-Backend/internal/repository"
	"github.com/sumit00002/VidTube-Practice-Backend/internal/utils/pagination"
)

type TweetFilter struct {
	OwnerID string
}

// ListTweets pages tweets. Private tweets are visible to their owner only.
func (c *Composer) ListTweets(ctx context.Context, viewerID string, f TweetFilter, q Query) (pagination.Page[TweetView], error) {
	if f.OwnerID != "" {
		if _, err := c.users.FindByID(ctx, f.OwnerID); err != nil {
			return pagination.Page[TweetView]{}, svcErr.Map(err)
		}
	}

	base := c.db.WithContext(ctx).
		Model(&db.Tweet{}).
		Joins("JOIN users ON users.id = tweets.owner_id")
	base = visibleTo(base, "tweets", viewerID)

	if f.OwnerID != "" {
		base = base.Where("tweets.owner_id = ?", f.OwnerID)
	}
	if q.Search != "" {
		base = base.Where(repository.ContainsFold(q.Search, "tweets.content"))
	}

	rows, total, err := repository.FindPage[db.Tweet](base, repository.PageQuery{
		Offset:  q.Offset(),
		Limit:   q.Limit,
		Order:   tweetSort.order("tweets", q),
		Preload: []string{"Owner"},
	})
	if err != nil {
		return pagination.Page[TweetView]{}, svcErr.Map(err)
	}

	items, err := c.decorateTweets(ctx, viewerID, rows)
	if err != nil {
		return pagination.Page[TweetView]{}, err
	}
	return pagination.NewPage(items, q.Params, total), nil
}
