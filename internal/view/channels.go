package view

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/sumit00002/VidTube-Practice-Backend/internal/db"
	"github.com/sumit00002/VidTube-Practice-Backend/internal/edge"
	svcErr "github.com/sumit00002/VidTube-Practice-Backend/internal/errors"
	"github.com/sumit00002/VidTube-Practice-Backend/internal/utils/pagination"
)

// GetChannel returns a user's public channel. Email is included only when
// viewers look at their own channel.
func (c *Composer) GetChannel(ctx context.Context, viewerID, username string) (ChannelView, error) {
	u, err := c.users.FindByUsername(ctx, username)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ChannelView{}, svcErr.NotFound("channel does not exist")
	}
	if err != nil {
		return ChannelView{}, svcErr.Map(err)
	}

	subscribers, err := c.edges.CountFor(ctx, edge.Channel, u.ID)
	if err != nil {
		return ChannelView{}, err
	}
	subscribedTo, err := c.edges.CountBySubject(ctx, u.ID, edge.Channel)
	if err != nil {
		return ChannelView{}, err
	}
	isSubscribed, err := c.edges.Exists(ctx, viewerID, edge.Channel, u.ID)
	if err != nil {
		return ChannelView{}, err
	}

	out := ChannelView{
		ID:                        u.ID,
		Username:                  u.Username,
		FullName:                  u.FullName,
		AvatarURL:                 u.AvatarURL,
		CoverURL:                  u.CoverURL,
		Bio:                       u.Bio,
		SubscribersCount:          subscribers,
		ChannelsSubscribedToCount: subscribedTo,
		IsSubscribed:              flag(viewerID, isSubscribed),
		CreatedAt:                 u.CreatedAt,
	}
	if viewerID == u.ID {
		out.Email = u.Email
	}
	return out, nil
}

// ListSubscribers pages the users subscribed to a channel, newest first.
func (c *Composer) ListSubscribers(ctx context.Context, viewerID, channelID string, q Query) (pagination.Page[SubscriberView], error) {
	if _, err := c.users.FindByID(ctx, channelID); err != nil {
		return pagination.Page[SubscriberView]{}, svcErr.Map(err)
	}

	refs, total, err := c.edgeRows.Subjects(ctx, string(edge.Channel), channelID, q.Offset(), q.Limit)
	if err != nil {
		return pagination.Page[SubscriberView]{}, svcErr.Map(err)
	}
	owners, err := c.ownersFor(ctx, viewerID, ids(refs, refID))
	if err != nil {
		return pagination.Page[SubscriberView]{}, err
	}

	items := make([]SubscriberView, 0, len(refs))
	for _, ref := range refs {
		if o, ok := owners[ref.ID]; ok {
			items = append(items, SubscriberView{Subscriber: o, SubscribedAt: ref.At})
		}
	}
	return pagination.NewPage(items, q.Params, total), nil
}

// ListSubscriptions pages the channels a user subscribes to, newest first.
func (c *Composer) ListSubscriptions(ctx context.Context, viewerID, subscriberID string, q Query) (pagination.Page[SubscriptionView], error) {
	if _, err := c.users.FindByID(ctx, subscriberID); err != nil {
		return pagination.Page[SubscriptionView]{}, svcErr.Map(err)
	}

	refs, total, err := c.edgeRows.Targets(ctx, subscriberID, string(edge.Channel),
		"JOIN users ON users.id = edges.target_id", q.Offset(), q.Limit)
	if err != nil {
		return pagination.Page[SubscriptionView]{}, svcErr.Map(err)
	}
	owners, err := c.ownersFor(ctx, viewerID, ids(refs, refID))
	if err != nil {
		return pagination.Page[SubscriptionView]{}, err
	}

	items := make([]SubscriptionView, 0, len(refs))
	for _, ref := range refs {
		if o, ok := owners[ref.ID]; ok {
			items = append(items, SubscriptionView{Channel: o, SubscribedAt: ref.At})
		}
	}
	return pagination.NewPage(items, q.Params, total), nil
}

// ownersFor loads and decorates users keyed by id.
func (c *Composer) ownersFor(ctx context.Context, viewerID string, keys []string) (map[string]OwnerView, error) {
	byID, err := c.usersByID(ctx, keys)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	users := make([]db.User, 0, len(byID))
	for _, k := range keys {
		if u, ok := byID[k]; ok {
			users = append(users, u)
		}
	}
	decorated, err := c.decorateOwners(ctx, viewerID, users)
	if err != nil {
		return nil, err
	}
	out := make(map[string]OwnerView, len(decorated))
	for _, o := range decorated {
		out[o.ID] = o
	}
	return out, nil
}
