package view

import (
	"net/url"
	"strings"

	"gorm.io/gorm/clause"

	"github.com/sumit00002/VidTube-Practice-Backend/internal/utils/pagination"
)

// Query is the list contract shared by every collection.
type Query struct {
	pagination.Params
	Search string
	SortBy string
	Desc   bool
	Cursor string
}

// ParseQuery reads page, limit, query, sortBy, sortType and cursor.
// sortType is "asc" or "desc"; anything else means desc.
func ParseQuery(v url.Values) (Query, error) {
	p, err := pagination.ParseParams(v.Get("page"), v.Get("limit"))
	if err != nil {
		return Query{}, err
	}
	return Query{
		Params: p,
		Search: strings.TrimSpace(v.Get("query")),
		SortBy: strings.TrimSpace(v.Get("sortBy")),
		Desc:   !strings.EqualFold(strings.TrimSpace(v.Get("sortType")), "asc"),
		Cursor: strings.TrimSpace(v.Get("cursor")),
	}, nil
}

// DefaultQuery is the first page with default sort.
func DefaultQuery() Query {
	return Query{Params: pagination.Params{Page: pagination.DefaultPage, Limit: pagination.DefaultLimit}, Desc: true}
}

const defaultSortKey = "createdAt"

// sortKeys whitelists the sortable fields of a collection, mapping the
// public key to its column. Unknown keys fall back to createdAt.
type sortKeys map[string]string

var (
	videoSort = sortKeys{
		"createdAt": "created_at",
		"updatedAt": "updated_at",
		"views":     "views",
		"title":     "title",
		"duration":  "duration_seconds",
	}
	commentSort  = sortKeys{"createdAt": "created_at", "updatedAt": "updated_at"}
	tweetSort    = sortKeys{"createdAt": "created_at", "updatedAt": "updated_at"}
	playlistSort = sortKeys{"createdAt": "created_at", "updatedAt": "updated_at", "name": "name"}
)

func (k sortKeys) column(key string) string {
	if col, ok := k[key]; ok {
		return col
	}
	return k[defaultSortKey]
}

// order sorts by the chosen column, breaking ties by id in the same
// direction.
func (k sortKeys) order(table string, q Query) []clause.OrderByColumn {
	return []clause.OrderByColumn{
		{Column: clause.Column{Table: table, Name: k.column(q.SortBy)}, Desc: q.Desc},
		{Column: clause.Column{Table: table, Name: "id"}, Desc: q.Desc},
	}
}

func (k sortKeys) isDefault(q Query) bool {
	return k.column(q.SortBy) == k[defaultSortKey] && q.Desc
}
