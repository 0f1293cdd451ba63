package db

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base carries the UUID primary key and timestamps shared by every entity.
type Base struct {
	ID        string    `gorm:"primaryKey;size:36"`
	CreatedAt time.Time `gorm:"autoCreateTime;index"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// BeforeCreate assigns a fresh UUID when the caller did not choose one.
func (b *Base) BeforeCreate(*gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}

// User table.
//
// RefreshTokenHash is the single session slot: the SHA-256 hex digest of the
// most recently issued refresh token, or NULL when logged out. Replacing it
// invalidates every refresh token issued before.
type User struct {
	Base
	Username         string  `gorm:"uniqueIndex;size:30;not null"`
	Email            string  `gorm:"uniqueIndex;size:255;not null"`
	FullName         string  `gorm:"size:60;not null"`
	PasswordHash     string  `gorm:"size:255;not null" json:"-"`
	AvatarURL        string  `gorm:"size:512"`
	CoverURL         string  `gorm:"size:512"`
	Bio              string  `gorm:"size:200"`
	RefreshTokenHash *string `gorm:"size:64" json:"-"`
}

// Video table. Owner is immutable after creation.
type Video struct {
	Base
	OwnerID         string `gorm:"size:36;not null;index"`
	Owner           User   `gorm:"foreignKey:OwnerID"`
	Title           string `gorm:"size:120;not null"`
	Description     string `gorm:"type:text"`
	VideoURL        string `gorm:"size:512;not null"`
	ThumbnailURL    string `gorm:"size:512"`
	DurationSeconds float64
	Views           int64 `gorm:"not null;default:0"`
	IsPublished     bool  `gorm:"not null;index"`
}

// Comment table.
//
// ParentCommentID is a non-owning back-reference: nil for a top-level
// comment. Parents are resolved by lookup and are never cascaded.
type Comment struct {
	Base
	VideoID         string  `gorm:"size:36;not null;index"`
	Video           Video   `gorm:"foreignKey:VideoID"`
	OwnerID         string  `gorm:"size:36;not null;index"`
	Owner           User    `gorm:"foreignKey:OwnerID"`
	ParentCommentID *string `gorm:"size:36;index"`
	Content         string  `gorm:"size:2000;not null"`
	IsEdited        bool    `gorm:"not null;default:false"`
}

// Visibility values for tweets and playlists.
const (
	VisibilityPublic  = "public"
	VisibilityPrivate = "private"
)

// Tweet table.
type Tweet struct {
	Base
	OwnerID    string `gorm:"size:36;not null;index"`
	Owner      User   `gorm:"foreignKey:OwnerID"`
	Content    string `gorm:"size:1000;not null"`
	MediaURL   string `gorm:"size:512"`
	Visibility string `gorm:"size:16;not null;default:public;index"`
}

// Playlist table.
type Playlist struct {
	Base
	OwnerID     string `gorm:"size:36;not null;index"`
	Owner       User   `gorm:"foreignKey:OwnerID"`
	Name        string `gorm:"size:120;not null"`
	Description string `gorm:"size:2000"`
	Visibility  string `gorm:"size:16;not null;default:public"`
}

// PlaylistVideo is the ordered membership edge between a playlist and a video.
//
// Composite PK: (PlaylistID, VideoID)
//   - A video appears at most once per playlist.
//
// Indexes:
//   - idx_playlist_position(playlist_id, position) unique
//     Position is an ordering attribute, unique per playlist but not
//     necessarily contiguous.
type PlaylistVideo struct {
	PlaylistID string    `gorm:"primaryKey;size:36;uniqueIndex:idx_playlist_position,priority:1"`
	VideoID    string    `gorm:"primaryKey;size:36"`
	Video      Video     `gorm:"foreignKey:VideoID"`
	Position   int       `gorm:"not null;uniqueIndex:idx_playlist_position,priority:2"`
	AddedAt    time.Time `gorm:"autoCreateTime"`
}

// Edge target types. Channel edges point at a user.
const (
	TargetVideo   = "video"
	TargetComment = "comment"
	TargetTweet   = "tweet"
	TargetChannel = "channel"
)

// Edge is a unique relation from a subject user to a target (like, subscription).
//
// Composite PK: (SubjectID, TargetType, TargetID)
//   - Guarantees at most one edge per tuple; the constraint is the race arbiter
//     for concurrent toggles.
//
// Indexes:
//   - idx_edge_target(target_type, target_id, created_at)
//     Counts and "who liked / who subscribed" lists.
type Edge struct {
	SubjectID  string    `gorm:"primaryKey;size:36"`
	TargetType string    `gorm:"primaryKey;size:16;index:idx_edge_target,priority:1"`
	TargetID   string    `gorm:"primaryKey;size:36;index:idx_edge_target,priority:2"`
	CreatedAt  time.Time `gorm:"autoCreateTime;index:idx_edge_target,priority:3"`
}

// WatchEntry records that a user watched a video. Re-watching is a no-op,
// so WatchedAt keeps the first viewing.
type WatchEntry struct {
	UserID    string    `gorm:"primaryKey;size:36"`
	VideoID   string    `gorm:"primaryKey;size:36"`
	Video     Video     `gorm:"foreignKey:VideoID"`
	WatchedAt time.Time `gorm:"autoCreateTime;index"`
}

// Models lists every table managed by AutoMigrate.
func Models() []any {
	return []any{
		&User{}, &Video{}, &Comment{}, &Tweet{}, &Playlist{},
		&PlaylistVideo{}, &Edge{}, &WatchEntry{},
	}
}
