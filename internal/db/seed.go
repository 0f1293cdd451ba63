package db

import (
	"fmt"
	"math/rand"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/sumit00002/VidTube-Practice-Backend/internal/logger"
)

// DemoPassword is the plaintext password of every seeded account.
const DemoPassword = "password123"

// SeedTestData resets the database and populates it with demo content.
//
// Behavior:
//  1. Clears every table.
//  2. Creates 10 users sharing DemoPassword.
//  3. Gives each user 3 videos (the last one unpublished), a tweet and a playlist.
//  4. Generates random likes, subscriptions and comments. Nobody subscribes to
//     themselves.
func SeedTestData(db *gorm.DB) error {
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	// --- Fresh start ---
	for _, table := range []string{
		"watch_entries", "edges", "playlist_videos", "playlists",
		"tweets", "comments", "videos", "users",
	} {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}
	logger.Info("cleared existing data")

	hash, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	// --- Users and their content ---
	users := make([]User, 0, 10)
	videos := make([]Video, 0, 30)
	for i := 1; i <= 10; i++ {
		u := User{
			Username:     fmt.Sprintf("user%d", i),
			Email:        fmt.Sprintf("user%d@example.com", i),
			FullName:     fmt.Sprintf("Demo User %d", i),
			PasswordHash: string(hash),
			AvatarURL:    fmt.Sprintf("/uploads/avatars/user%d.png", i),
		}
		if err := db.Create(&u).Error; err != nil {
			return fmt.Errorf("failed to seed user: %w", err)
		}
		users = append(users, u)

		for j := 1; j <= 3; j++ {
			v := Video{
				OwnerID:         u.ID,
				Title:           fmt.Sprintf("%s video %d", u.Username, j),
				Description:     "seeded demo video",
				VideoURL:        fmt.Sprintf("/uploads/videos/%s-%d.mp4", u.Username, j),
				ThumbnailURL:    fmt.Sprintf("/uploads/thumbnails/%s-%d.png", u.Username, j),
				DurationSeconds: float64(30 + r.Intn(600)),
				Views:           int64(r.Intn(1000)),
				IsPublished:     j < 3,
			}
			if err := db.Create(&v).Error; err != nil {
				return fmt.Errorf("failed to seed video: %w", err)
			}
			videos = append(videos, v)
		}

		t := Tweet{OwnerID: u.ID, Content: fmt.Sprintf("hello from %s", u.Username), Visibility: VisibilityPublic}
		if err := db.Create(&t).Error; err != nil {
			return fmt.Errorf("failed to seed tweet: %w", err)
		}

		p := Playlist{OwnerID: u.ID, Name: u.Username + " favourites", Visibility: VisibilityPublic}
		if err := db.Create(&p).Error; err != nil {
			return fmt.Errorf("failed to seed playlist: %w", err)
		}
		pv := PlaylistVideo{PlaylistID: p.ID, VideoID: videos[len(videos)-3].ID, Position: 1}
		if err := db.Create(&pv).Error; err != nil {
			return fmt.Errorf("failed to seed playlist entry: %w", err)
		}
	}
	logger.Info("seeded users and content", "users", len(users), "videos", len(videos))

	// --- Edges ---
	edges := 0
	for _, u := range users {
		for k := 0; k < 6; k++ {
			var e Edge
			if r.Intn(2) == 0 {
				target := users[r.Intn(len(users))]
				if target.ID == u.ID {
					continue
				}
				e = Edge{SubjectID: u.ID, TargetType: TargetChannel, TargetID: target.ID}
			} else {
				v := videos[r.Intn(len(videos))]
				if !v.IsPublished {
					continue
				}
				e = Edge{SubjectID: u.ID, TargetType: TargetVideo, TargetID: v.ID}

				c := Comment{VideoID: v.ID, OwnerID: u.ID, Content: "nice one"}
				if err := db.Create(&c).Error; err != nil {
					return fmt.Errorf("failed to seed comment: %w", err)
				}
			}
			res := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&e)
			if res.Error != nil {
				return fmt.Errorf("failed to seed edge: %w", res.Error)
			}
			edges += int(res.RowsAffected)
		}
	}
	logger.Info("seeded edges", "count", edges)

	return nil
}
