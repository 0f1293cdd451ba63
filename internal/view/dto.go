package view

import (
	"time"

	"github.com/sumit00002/VidTube-Practice-Backend/internal/db"
)

// OwnerView is the public profile subset embedded in every read model.
// Email is set only for privileged viewers; the password hash and session
// slot never leave db.User.
type OwnerView struct {
	ID               string `json:"id"`
	Username         string `json:"username"`
	FullName         string `json:"fullName"`
	AvatarURL        string `json:"avatarUrl"`
	Email            string `json:"email,omitempty"`
	SubscribersCount *int64 `json:"subscribersCount,omitempty"`
	IsSubscribed     *bool  `json:"isSubscribed,omitempty"`
}

func NewOwnerView(u db.User) OwnerView {
	return OwnerView{
		ID:        u.ID,
		Username:  u.Username,
		FullName:  u.FullName,
		AvatarURL: u.AvatarURL,
	}
}

// UserView is a user's own account, as returned by the account endpoints.
type UserView struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	FullName  string    `json:"fullName"`
	AvatarURL string    `json:"avatarUrl"`
	CoverURL  string    `json:"coverImageUrl"`
	Bio       string    `json:"bio"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func NewUserView(u db.User) UserView {
	return UserView{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		FullName:  u.FullName,
		AvatarURL: u.AvatarURL,
		CoverURL:  u.CoverURL,
		Bio:       u.Bio,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

type VideoView struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	VideoURL     string    `json:"videoUrl"`
	ThumbnailURL string    `json:"thumbnailUrl"`
	Duration     float64   `json:"duration"`
	Views        int64     `json:"views"`
	IsPublished  bool      `json:"isPublished"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
	Owner        OwnerView `json:"owner"`
	LikesCount   int64     `json:"likesCount"`
	IsLiked      *bool     `json:"isLiked,omitempty"`
}

func NewVideoView(v db.Video) VideoView {
	return VideoView{
		ID:           v.ID,
		Title:        v.Title,
		Description:  v.Description,
		VideoURL:     v.VideoURL,
		ThumbnailURL: v.ThumbnailURL,
		Duration:     v.DurationSeconds,
		Views:        v.Views,
		IsPublished:  v.IsPublished,
		CreatedAt:    v.CreatedAt,
		UpdatedAt:    v.UpdatedAt,
		Owner:        NewOwnerView(v.Owner),
	}
}

// VideoRef is the short video embed on a comment listed by author.
type VideoRef struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	ThumbnailURL string `json:"thumbnailUrl"`
}

type CommentView struct {
	ID              string    `json:"id"`
	Content         string    `json:"content"`
	VideoID         string    `json:"videoId"`
	ParentCommentID *string   `json:"parentCommentId"`
	IsEdited        bool      `json:"isEdited"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
	Owner           OwnerView `json:"owner"`
	Video           *VideoRef `json:"video,omitempty"`
	LikesCount      int64     `json:"likesCount"`
	IsLiked         *bool     `json:"isLiked,omitempty"`
}

func NewCommentView(c db.Comment) CommentView {
	out := CommentView{
		ID:              c.ID,
		Content:         c.Content,
		VideoID:         c.VideoID,
		ParentCommentID: c.ParentCommentID,
		IsEdited:        c.IsEdited,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
		Owner:           NewOwnerView(c.Owner),
	}
	if c.Video.ID != "" {
		out.Video = &VideoRef{ID: c.Video.ID, Title: c.Video.Title, ThumbnailURL: c.Video.ThumbnailURL}
	}
	return out
}

type TweetView struct {
	ID         string    `json:"id"`
	Content    string    `json:"content"`
	MediaURL   string    `json:"mediaUrl,omitempty"`
	Visibility string    `json:"visibility"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
	Owner      OwnerView `json:"owner"`
	LikesCount int64     `json:"likesCount"`
	IsLiked    *bool     `json:"isLiked,omitempty"`
}

func NewTweetView(t db.Tweet) TweetView {
	return TweetView{
		ID:         t.ID,
		Content:    t.Content,
		MediaURL:   t.MediaURL,
		Visibility: t.Visibility,
		CreatedAt:  t.CreatedAt,
		UpdatedAt:  t.UpdatedAt,
		Owner:      NewOwnerView(t.Owner),
	}
}

type PlaylistView struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Visibility  string      `json:"visibility"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
	Owner       OwnerView   `json:"owner"`
	TotalVideos int64       `json:"totalVideos"`
	TotalViews  int64       `json:"totalViews"`
	Videos      []VideoView `json:"videos,omitempty"`
}

func NewPlaylistView(p db.Playlist) PlaylistView {
	return PlaylistView{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Visibility:  p.Visibility,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
		Owner:       NewOwnerView(p.Owner),
	}
}

type ChannelView struct {
	ID                        string    `json:"id"`
	Username                  string    `json:"username"`
	FullName                  string    `json:"fullName"`
	AvatarURL                 string    `json:"avatarUrl"`
	CoverURL                  string    `json:"coverImageUrl"`
	Bio                       string    `json:"bio"`
	Email                     string    `json:"email,omitempty"`
	SubscribersCount          int64     `json:"subscribersCount"`
	ChannelsSubscribedToCount int64     `json:"channelsSubscribedToCount"`
	IsSubscribed              *bool     `json:"isSubscribed,omitempty"`
	CreatedAt                 time.Time `json:"createdAt"`
}

type SubscriberView struct {
	Subscriber   OwnerView `json:"subscriber"`
	SubscribedAt time.Time `json:"subscribedAt"`
}

type SubscriptionView struct {
	Channel      OwnerView `json:"channel"`
	SubscribedAt time.Time `json:"subscribedAt"`
}

type LikedVideoView struct {
	Video   VideoView `json:"video"`
	LikedAt time.Time `json:"likedAt"`
}

type WatchedVideoView struct {
	Video     VideoView `json:"video"`
	WatchedAt time.Time `json:"watchedAt"`
}

type ChannelStats struct {
	TotalVideos      int64 `json:"totalVideos"`
	TotalViews       int64 `json:"totalViews"`
	TotalSubscribers int64 `json:"totalSubscribers"`
	TotalLikes       int64 `json:"totalLikes"`
}

type MonthlyViews struct {
	Year        int   `json:"year"`
	Month       int   `json:"month"`
	TotalViews  int64 `json:"totalViews"`
	TotalVideos int64 `json:"totalVideos"`
}

type TopVideo struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	ThumbnailURL string    `json:"thumbnailUrl"`
	Views        int64     `json:"views"`
	LikesCount   int64     `json:"likesCount"`
	CreatedAt    time.Time `json:"createdAt"`
}

type ChannelAnalytics struct {
	MonthlyViews      []MonthlyViews `json:"monthlyViews"`
	TopVideos         []TopVideo     `json:"topVideos"`
	RecentSubscribers int64          `json:"recentSubscribers"`
}

type VideoPerformance struct {
	VideoID      string    `json:"videoId"`
	Title        string    `json:"title"`
	ThumbnailURL string    `json:"thumbnailUrl"`
	Views        int64     `json:"views"`
	LikesCount   int64     `json:"likesCount"`
	Duration     float64   `json:"duration"`
	IsPublished  bool      `json:"isPublished"`
	CreatedAt    time.Time `json:"createdAt"`
}

type RevenueSummary struct {
	TotalViews       int64  `json:"totalViews"`
	EstimatedRevenue string `json:"estimatedRevenue"`
	Currency         string `json:"currency"`
}

// flag is nil for anonymous viewers so the field is omitted.
func flag(viewerID string, v bool) *bool {
	if viewerID == "" {
		return nil
	}
	return &v
}
