// Package edge implements the toggle store behind likes and subscriptions.
package edge

import (
	"context"
	"fmt"

	"github.com/sumit00002/VidTube-Practice-Backend/internal/db"
	svcErr "github.com/sumit00002/VidTube-Practice-Backend/internal/errors"
	"github.com/sumit00002/VidTube-Practice-Backend/internal/logger"
	"github.com/sumit00002/VidTube-Practice-Backend/internal/repository"
)

type TargetType string

const (
	Video   TargetType = db.TargetVideo
	Comment TargetType = db.TargetComment
	Tweet   TargetType = db.TargetTweet
	Channel TargetType = db.TargetChannel
)

// ReasonNoSubject is logged when a toggle arrives without a caller.
const ReasonNoSubject = "missing subject"

// ParseTargetType accepts the likeable kinds and channel.
func ParseTargetType(s string) (TargetType, error) {
	switch t := TargetType(s); t {
	case Video, Comment, Tweet, Channel:
		return t, nil
	}
	return "", svcErr.Validation("invalid target type", fmt.Sprintf("unknown target type %q", s))
}

// Repository is the edge storage the store needs.
type Repository interface {
	Insert(ctx context.Context, subjectID, targetType, targetID string) error
	Delete(ctx context.Context, subjectID, targetType, targetID string) (bool, error)
	Exists(ctx context.Context, subjectID, targetType, targetID string) (bool, error)
	Count(ctx context.Context, targetType, targetID string) (int64, error)
	CountMany(ctx context.Context, targetType string, targetIDs []string) (map[string]int64, error)
	ExistingAmong(ctx context.Context, subjectID, targetType string, targetIDs []string) (map[string]bool, error)
	CountBySubject(ctx context.Context, subjectID, targetType string) (int64, error)
}

// TargetResolver reports whether a target id names an existing entity of
// its kind.
type TargetResolver interface {
	TargetExists(ctx context.Context, targetType, id string) (bool, error)
}

// Store owns creation and removal of unique (subject, targetType, targetID)
// edges.
type Store struct {
	edges   Repository
	targets TargetResolver
}

func NewStore(edges Repository, targets TargetResolver) *Store {
	return &Store{edges: edges, targets: targets}
}

// Toggle flips the presence of the edge and reports whether it now exists.
//
// Behavior:
//   - Self-subscription fails with InvalidOperation before any lookup.
//   - A target that does not exist is NotFound.
//   - The unique key arbitrates concurrent toggles: an insert that loses to
//     an identical concurrent insert counts as present=true, so two racing
//     toggles with no prior edge leave exactly one edge.
func (s *Store) Toggle(ctx context.Context, subjectID string, t TargetType, targetID string) (bool, error) {
	if subjectID == "" {
		return false, svcErr.Unauthenticated(ReasonNoSubject)
	}
	if _, err := ParseTargetType(string(t)); err != nil {
		return false, err
	}
	if t == Channel && subjectID == targetID {
		return false, svcErr.InvalidOperation("you cannot subscribe to your own channel")
	}

	found, err := s.targets.TargetExists(ctx, string(t), targetID)
	if err != nil {
		return false, svcErr.Map(err)
	}
	if !found {
		return false, svcErr.NotFound(fmt.Sprintf("%s not found", t))
	}

	exists, err := s.edges.Exists(ctx, subjectID, string(t), targetID)
	if err != nil {
		return false, svcErr.Map(err)
	}
	if exists {
		// a concurrent delete may have beaten us; absent either way
		if _, err := s.edges.Delete(ctx, subjectID, string(t), targetID); err != nil {
			return false, svcErr.Map(err)
		}
		return false, nil
	}

	if err := s.edges.Insert(ctx, subjectID, string(t), targetID); err != nil {
		if repository.IsDuplicate(err) {
			logger.FromContext(ctx).Debug("edge created concurrently",
				"subject_id", subjectID, "target_type", t, "target_id", targetID)
			return true, nil
		}
		return false, svcErr.Map(err)
	}
	return true, nil
}

// Exists reports whether subject has an edge to the target. An empty
// subject (anonymous viewer) is never an error.
func (s *Store) Exists(ctx context.Context, subjectID string, t TargetType, targetID string) (bool, error) {
	if subjectID == "" {
		return false, nil
	}
	ok, err := s.edges.Exists(ctx, subjectID, string(t), targetID)
	return ok, svcErr.Map(err)
}

// CountFor returns the number of edges pointing at the target.
func (s *Store) CountFor(ctx context.Context, t TargetType, targetID string) (int64, error) {
	n, err := s.edges.Count(ctx, string(t), targetID)
	return n, svcErr.Map(err)
}

// CountForMany is CountFor over a batch; every requested id is present in
// the result.
func (s *Store) CountForMany(ctx context.Context, t TargetType, targetIDs []string) (map[string]int64, error) {
	counts, err := s.edges.CountMany(ctx, string(t), targetIDs)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	for _, id := range targetIDs {
		if _, ok := counts[id]; !ok {
			counts[id] = 0
		}
	}
	return counts, nil
}

// ExistsAmong returns which of targetIDs the subject points at. Anonymous
// subjects get an empty set.
func (s *Store) ExistsAmong(ctx context.Context, subjectID string, t TargetType, targetIDs []string) (map[string]bool, error) {
	if subjectID == "" {
		return map[string]bool{}, nil
	}
	flags, err := s.edges.ExistingAmong(ctx, subjectID, string(t), targetIDs)
	return flags, svcErr.Map(err)
}

// CountBySubject returns how many targets of a type the subject points at.
func (s *Store) CountBySubject(ctx context.Context, subjectID string, t TargetType) (int64, error) {
	n, err := s.edges.CountBySubject(ctx, subjectID, string(t))
	return n, svcErr.Map(err)
}
