package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/sumit00002/VidTube-Practice-Backend/internal/db"
)

// TargetResolver checks that an edge target exists as a row of its kind.
type TargetResolver struct {
	db *gorm.DB
}

func NewTargetResolver(database *gorm.DB) *TargetResolver {
	return &TargetResolver{db: database}
}

// TargetExists maps a target type onto its table. A channel is a user.
func (r *TargetResolver) TargetExists(ctx context.Context, targetType, id string) (bool, error) {
	var model any
	switch targetType {
	case db.TargetVideo:
		model = &db.Video{}
	case db.TargetComment:
		model = &db.Comment{}
	case db.TargetTweet:
		model = &db.Tweet{}
	case db.TargetChannel:
		model = &db.User{}
	default:
		return false, fmt.Errorf("unknown target type %q", targetType)
	}

	var count int64
	err := r.db.WithContext(ctx).Model(model).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}
