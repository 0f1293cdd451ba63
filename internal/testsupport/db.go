// Package testsupport opens throwaway databases for package tests.
package testsupport

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/sumit00002/VidTube-Practice-Backend/internal/db"
)

// OpenDB returns a migrated sqlite database stored in t.TempDir().
// A single connection serializes writers so concurrent tests see
// constraint errors instead of "database is locked".
func OpenDB(t testing.TB) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "vidtube.db")
	database, err := db.Open("sqlite", path+"?_busy_timeout=5000", gormlogger.Default.LogMode(gormlogger.Silent))
	require.NoError(t, err)

	sqlDB, err := database.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.Migrate(database))
	return database
}

// CreateUser inserts a user with a placeholder password hash.
func CreateUser(t testing.TB, database *gorm.DB, username string) db.User {
	t.Helper()
	u := db.User{
		Username:     username,
		Email:        username + "@example.com",
		FullName:     "User " + username,
		PasswordHash: "x",
		AvatarURL:    "/uploads/avatars/" + username + ".png",
	}
	require.NoError(t, database.Create(&u).Error)
	return u
}

// CreateVideo inserts a video owned by ownerID. Successive calls made with
// increasing at values produce a deterministic created_at order.
func CreateVideo(t testing.TB, database *gorm.DB, ownerID, title string, published bool, at time.Time) db.Video {
	t.Helper()
	v := db.Video{
		Base:        db.Base{CreatedAt: at, UpdatedAt: at},
		OwnerID:     ownerID,
		Title:       title,
		Description: fmt.Sprintf("about %s", title),
		VideoURL:    "/uploads/videos/" + title + ".mp4",
		IsPublished: published,
	}
	require.NoError(t, database.Create(&v).Error)
	return v
}
