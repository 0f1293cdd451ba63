package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/sumit00002/VidTube-Practice-Backend/internal/db"
)

// EdgeRepository provides data access methods for the Edge model.
// It encapsulates all queries related to likes and subscriptions.
type EdgeRepository struct {
	db *gorm.DB
}

// NewEdgeRepository creates a new repository bound to the given DB connection.
func NewEdgeRepository(database *gorm.DB) *EdgeRepository {
	return &EdgeRepository{db: database}
}

// Insert creates the edge subject -> (targetType, targetID).
//
// Behavior:
//   - The composite PK rejects a second edge for the same tuple; the caller
//     sees a duplicate-key error (see IsDuplicate).
//   - Never overwrites: edges have no mutable fields.
//
// Example:
//
//	repo.Insert(ctx, "u1", db.TargetVideo, "v42") // user u1 liked video v42
func (r *EdgeRepository) Insert(ctx context.Context, subjectID, targetType, targetID string) error {
	return r.db.WithContext(ctx).Create(&db.Edge{
		SubjectID:  subjectID,
		TargetType: targetType,
		TargetID:   targetID,
	}).Error
}

// Delete removes the edge and reports whether a row was removed.
func (r *EdgeRepository) Delete(ctx context.Context, subjectID, targetType, targetID string) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("subject_id = ? AND target_type = ? AND target_id = ?", subjectID, targetType, targetID).
		Delete(&db.Edge{})
	return res.RowsAffected > 0, res.Error
}

// Exists checks whether subject has an edge to the target.
func (r *EdgeRepository) Exists(ctx context.Context, subjectID, targetType, targetID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db.Edge{}).
		Where("subject_id = ? AND target_type = ? AND target_id = ?", subjectID, targetType, targetID).
		Count(&count).Error
	return count > 0, err
}

// Count returns how many subjects point at the target.
//
// Example:
//
//	repo.Count(ctx, db.TargetChannel, "u7") // -> subscribers of u7
func (r *EdgeRepository) Count(ctx context.Context, targetType, targetID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db.Edge{}).
		Where("target_type = ? AND target_id = ?", targetType, targetID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// CountMany is Count for a batch of targets of one type. Targets without
// edges are absent from the result.
func (r *EdgeRepository) CountMany(ctx context.Context, targetType string, targetIDs []string) (map[string]int64, error) {
	out := make(map[string]int64, len(targetIDs))
	if len(targetIDs) == 0 {
		return out, nil
	}

	var rows []struct {
		TargetID string
		Total    int64
	}
	err := r.db.WithContext(ctx).
		Model(&db.Edge{}).
		Select("target_id, COUNT(*) AS total").
		Where("target_type = ? AND target_id IN ?", targetType, targetIDs).
		Group("target_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.TargetID] = row.Total
	}
	return out, nil
}

// ExistingAmong returns the subset of targetIDs the subject points at.
func (r *EdgeRepository) ExistingAmong(ctx context.Context, subjectID, targetType string, targetIDs []string) (map[string]bool, error) {
	out := make(map[string]bool, len(targetIDs))
	if len(targetIDs) == 0 {
		return out, nil
	}

	var ids []string
	err := r.db.WithContext(ctx).
		Model(&db.Edge{}).
		Where("subject_id = ? AND target_type = ? AND target_id IN ?", subjectID, targetType, targetIDs).
		Pluck("target_id", &ids).Error
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		out[id] = true
	}
	return out, nil
}

// CountBySubject returns how many targets of a type the subject points at,
// e.g. the number of channels a user is subscribed to.
func (r *EdgeRepository) CountBySubject(ctx context.Context, subjectID, targetType string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db.Edge{}).
		Where("subject_id = ? AND target_type = ?", subjectID, targetType).
		Count(&count).Error
	return count, err
}

// EdgeRef is one side of an edge plus the time it was created.
type EdgeRef struct {
	ID string
	At time.Time
}

var newestEdgeFirst = []clause.OrderByColumn{
	{Column: clause.Column{Table: "edges", Name: "created_at"}, Desc: true},
	{Column: clause.Column{Table: "edges", Name: "subject_id"}, Desc: true},
	{Column: clause.Column{Table: "edges", Name: "target_id"}, Desc: true},
}

// Subjects pages the users pointing at a target, newest edge first.
//
// Behavior:
//   - Edges whose subject user no longer exists are skipped.
//   - Ref.ID is the subject id, Ref.At the edge creation time.
//
// Example:
//
//	repo.Subjects(ctx, db.TargetChannel, "u7", 0, 10) // first 10 subscribers of u7
func (r *EdgeRepository) Subjects(ctx context.Context, targetType, targetID string, offset, limit int) ([]EdgeRef, int64, error) {
	q := r.db.WithContext(ctx).
		Table("edges").
		Joins("JOIN users ON users.id = edges.subject_id").
		Where("edges.target_type = ? AND edges.target_id = ?", targetType, targetID)

	return FindPage[EdgeRef](q, PageQuery{
		Offset: offset,
		Limit:  limit,
		Order:  newestEdgeFirst,
		Select: "edges.subject_id AS id, edges.created_at AS at",
	})
}

// Targets pages what a subject points at, newest edge first.
//
// Behavior:
//   - join must name the target table and relate it to edges.target_id,
//     e.g. "JOIN videos ON videos.id = edges.target_id"; dangling edges drop out.
//   - conds filter on the joined table (visibility, publication).
//
// Example:
//
//	repo.Targets(ctx, "u1", db.TargetVideo, joinVideos, 0, 10) // liked videos of u1
func (r *EdgeRepository) Targets(
	ctx context.Context,
	subjectID, targetType, join string,
	offset, limit int,
	conds ...clause.Expression,
) ([]EdgeRef, int64, error) {
	q := r.db.WithContext(ctx).
		Table("edges").
		Joins(join).
		Where("edges.subject_id = ? AND edges.target_type = ?", subjectID, targetType)
	for _, c := range conds {
		q = q.Where(c)
	}

	return FindPage[EdgeRef](q, PageQuery{
		Offset: offset,
		Limit:  limit,
		Order:  newestEdgeFirst,
		Select: "edges.target_id AS id, edges.created_at AS at",
	})
}
