package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/sumit00002/VidTube-Practice-Backend/internal/db"
)

// UserRepository provides data access for users and their session slot.
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new repository bound to the given DB connection.
func NewUserRepository(database *gorm.DB) *UserRepository {
	return &UserRepository{db: database}
}

func (r *UserRepository) Create(ctx context.Context, u *db.User) error {
	return r.db.WithContext(ctx).Create(u).Error
}

// FindByID returns gorm.ErrRecordNotFound when the user does not exist.
func (r *UserRepository) FindByID(ctx context.Context, id string) (*db.User, error) {
	var u db.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).Take(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*db.User, error) {
	var u db.User
	err := r.db.WithContext(ctx).
		Where("username = ?", strings.ToLower(strings.TrimSpace(username))).
		Take(&u).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// FindByLogin matches either the email or the username.
func (r *UserRepository) FindByLogin(ctx context.Context, login string) (*db.User, error) {
	login = strings.ToLower(strings.TrimSpace(login))
	var u db.User
	err := r.db.WithContext(ctx).
		Where("email = ? OR username = ?", login, login).
		Take(&u).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Update writes the given columns.
func (r *UserRepository) Update(ctx context.Context, id string, fields map[string]any) error {
	return r.db.WithContext(ctx).Model(&db.User{}).Where("id = ?", id).Updates(fields).Error
}

// RefreshHash reads the session slot. A nil result means logged out.
func (r *UserRepository) RefreshHash(ctx context.Context, id string) (*string, error) {
	var u db.User
	err := r.db.WithContext(ctx).
		Select("id", "refresh_token_hash").
		Where("id = ?", id).
		Take(&u).Error
	if err != nil {
		return nil, err
	}
	return u.RefreshTokenHash, nil
}

// SwapRefreshHash replaces the session slot only if it still holds prior.
//
// Behavior:
//   - prior == nil matches a logged-out slot (NULL).
//   - next == nil logs the user out.
//   - Returns false when another writer changed the slot first.
//
// Example:
//
//	ok, err := repo.SwapRefreshHash(ctx, id, &old, &next) // rotation
func (r *UserRepository) SwapRefreshHash(ctx context.Context, id string, prior, next *string) (bool, error) {
	q := r.db.WithContext(ctx).Model(&db.User{}).Where("id = ?", id)
	if prior == nil {
		q = q.Where("refresh_token_hash IS NULL")
	} else {
		q = q.Where("refresh_token_hash = ?", *prior)
	}
	res := q.UpdateColumn("refresh_token_hash", next)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// ClearRefreshHash logs the user out unconditionally.
func (r *UserRepository) ClearRefreshHash(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Model(&db.User{}).
		Where("id = ?", id).
		UpdateColumn("refresh_token_hash", nil).Error
}
