package databases

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DefaultPageSize is used when a caller does not ask for a page size
const DefaultPageSize = 25

// MaxPageSize caps the page size a caller may ask for
const MaxPageSize = 200

type mongoPaginate struct {
	limit int64
	page  int64
}

func newMongoPaginate(limit, page int) *mongoPaginate {
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	if page <= 0 {
		page = 1
	}
	return &mongoPaginate{
		limit: int64(limit),
		page:  int64(page),
	}
}

func (mp *mongoPaginate) getPaginatedOpts() *options.FindOptions {
	l := mp.limit
	skip := mp.page*mp.limit - mp.limit
	fOpt := options.FindOptions{Limit: &l, Skip: &skip}

	return &fOpt
}

// PageOptions returns find options for the given 1-based page, sorted by sort
func PageOptions(limit, page int, sort bson.D) *options.FindOptions {
	opts := newMongoPaginate(limit, page).getPaginatedOpts()
	if len(sort) > 0 {
		opts.SetSort(sort)
	}
	return opts
}
