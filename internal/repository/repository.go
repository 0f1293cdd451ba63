package repository

import (
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// IsDuplicate reports whether err is a unique or primary key violation.
// TranslateError covers every supported driver; the string match catches
// errors raised before translation.
func IsDuplicate(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate entry") ||
		strings.Contains(msg, "duplicate key")
}

// ContainsFold builds a case-insensitive substring match of term against any
// of the given columns. LIKE wildcards in term are matched literally.
func ContainsFold(term string, columns ...string) clause.Expression {
	pattern := "%" + escapeLike(strings.ToLower(term)) + "%"
	exprs := make([]clause.Expression, 0, len(columns))
	for _, col := range columns {
		exprs = append(exprs, clause.Expr{SQL: "LOWER(" + col + ") LIKE ? ESCAPE '!'", Vars: []any{pattern}})
	}
	return clause.Or(exprs...)
}

func escapeLike(s string) string {
	return strings.NewReplacer("!", "!!", "%", "!%", "_", "!_").Replace(s)
}

// PageQuery describes the window FindPage fetches.
type PageQuery struct {
	Offset  int
	Limit   int
	Order   []clause.OrderByColumn
	Preload []string
	Select  string
}

// FindPage counts the rows matched by q, then fetches one ordered window
// of them. Selection, ordering and preloads apply only to the fetch.
func FindPage[T any](q *gorm.DB, pq PageQuery) ([]T, int64, error) {
	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	items := []T{}
	if total == 0 || int64(pq.Offset) >= total {
		return items, total, nil
	}

	fetch := q.Session(&gorm.Session{})
	if pq.Select != "" {
		fetch = fetch.Select(pq.Select)
	}
	for _, o := range pq.Order {
		fetch = fetch.Order(o)
	}
	for _, p := range pq.Preload {
		fetch = fetch.Preload(p)
	}
	if err := fetch.Offset(pq.Offset).Limit(pq.Limit).Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}
