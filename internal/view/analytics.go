package view

import (
	"context"
	"fmt"
	"time"

	"github.com/sumit00002/VidTube-Practice-Backend/internal/db"
	"github.com/sumit00002/VidTube-Practice-Backend/internal/edge"
	svcErr "github.com/sumit00002/VidTube-Practice-Backend/internal/errors"
)

const (
	analyticsMonths     = 12
	topVideosLimit      = 10
	recentSubscriberAge = 30 * 24 * time.Hour

	// revenuePerThousandViews is the flat estimate in USD.
	revenuePerThousandViews = 2.0
	revenueCurrency         = "USD"
)

// ChannelAnalytics breaks the owner's channel down as of asOf.
//
// Behavior:
//   - MonthlyViews buckets videos by upload month (UTC) over the 12 calendar
//     months ending with asOf's month, newest first; months without uploads
//     are left out.
//   - TopVideos are the 10 most viewed videos, drafts included, ties broken
//     by newest.
//   - RecentSubscribers counts subscriptions made in the last 30 days.
func (c *Composer) ChannelAnalytics(ctx context.Context, ownerID string, asOf time.Time) (ChannelAnalytics, error) {
	asOf = asOf.UTC()
	since := time.Date(asOf.Year(), asOf.Month()-(analyticsMonths-1), 1, 0, 0, 0, 0, time.UTC)

	var uploads []db.Video
	err := c.db.WithContext(ctx).
		Select("created_at", "views").
		Where("owner_id = ? AND created_at >= ?", ownerID, since).
		Order("created_at DESC").
		Find(&uploads).Error
	if err != nil {
		return ChannelAnalytics{}, svcErr.Map(err)
	}

	monthly := make([]MonthlyViews, 0, analyticsMonths)
	for _, v := range uploads {
		at := v.CreatedAt.UTC()
		n := len(monthly)
		if n == 0 || monthly[n-1].Year != at.Year() || monthly[n-1].Month != int(at.Month()) {
			monthly = append(monthly, MonthlyViews{Year: at.Year(), Month: int(at.Month())})
			n++
		}
		monthly[n-1].TotalViews += v.Views
		monthly[n-1].TotalVideos++
	}

	var top []db.Video
	err = c.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("views DESC").
		Order("created_at DESC").
		Limit(topVideosLimit).
		Find(&top).Error
	if err != nil {
		return ChannelAnalytics{}, svcErr.Map(err)
	}
	likes, err := c.edges.CountForMany(ctx, edge.Video, ids(top, func(v db.Video) string { return v.ID }))
	if err != nil {
		return ChannelAnalytics{}, err
	}
	topVideos := make([]TopVideo, len(top))
	for i, v := range top {
		topVideos[i] = TopVideo{
			ID:           v.ID,
			Title:        v.Title,
			ThumbnailURL: v.ThumbnailURL,
			Views:        v.Views,
			LikesCount:   likes[v.ID],
			CreatedAt:    v.CreatedAt,
		}
	}

	var recent int64
	err = c.db.WithContext(ctx).
		Model(&db.Edge{}).
		Where("target_type = ? AND target_id = ? AND created_at >= ?",
			string(edge.Channel), ownerID, asOf.Add(-recentSubscriberAge)).
		Count(&recent).Error
	if err != nil {
		return ChannelAnalytics{}, svcErr.Map(err)
	}

	return ChannelAnalytics{MonthlyViews: monthly, TopVideos: topVideos, RecentSubscribers: recent}, nil
}

// VideoPerformance reports one video's numbers to its owner; anyone else
// is Forbidden.
func (c *Composer) VideoPerformance(ctx context.Context, callerID, videoID string) (VideoPerformance, error) {
	v, err := c.videos.FindByID(ctx, videoID)
	if err != nil {
		return VideoPerformance{}, svcErr.Map(err)
	}
	if v.OwnerID != callerID {
		return VideoPerformance{}, svcErr.Forbidden("you are not authorized to view this video's analytics")
	}
	likes, err := c.edges.CountFor(ctx, edge.Video, v.ID)
	if err != nil {
		return VideoPerformance{}, err
	}
	return VideoPerformance{
		VideoID:      v.ID,
		Title:        v.Title,
		ThumbnailURL: v.ThumbnailURL,
		Views:        v.Views,
		LikesCount:   likes,
		Duration:     v.DurationSeconds,
		IsPublished:  v.IsPublished,
		CreatedAt:    v.CreatedAt,
	}, nil
}

// RevenueSummary estimates earnings from the owner's total views.
func (c *Composer) RevenueSummary(ctx context.Context, ownerID string) (RevenueSummary, error) {
	var views int64
	err := c.db.WithContext(ctx).
		Model(&db.Video{}).
		Select("COALESCE(SUM(views), 0)").
		Where("owner_id = ?", ownerID).
		Scan(&views).Error
	if err != nil {
		return RevenueSummary{}, svcErr.Map(err)
	}
	return RevenueSummary{
		TotalViews:       views,
		EstimatedRevenue: fmt.Sprintf("%.2f", float64(views)/1000*revenuePerThousandViews),
		Currency:         revenueCurrency,
	}, nil
}
