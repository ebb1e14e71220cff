// Package feed is the thin assembly layer: it composes store queries with
// filter/sort/pagination and hands plain data to the HTTP layer.
package feed

import (
	"context"

	"github.com/curbline/api-go/models"
	"github.com/curbline/api-go/store"
	"github.com/curbline/api-go/utils"
)

const (
	defaultPageSize = 20
	maxPageSize     = 50
)

type Service struct {
	store store.ContentStore
}

func NewService(s store.ContentStore) *Service {
	return &Service{store: s}
}

type Query struct {
	Sort     store.SortOrder
	AuthorID *uint
	Page     int
	PageSize int
}

type Page struct {
	Items      []store.FeedItem `json:"items"`
	Total      int64            `json:"total"`
	Page       int              `json:"page"`
	PageSize   int              `json:"pageSize"`
	TotalPages int64            `json:"totalPages"`
}

func (s *Service) List(ctx context.Context, contentType models.ContentType, q Query) (*Page, error) {
	if !models.ValidContentType(contentType) {
		return nil, utils.Invalid("contentType", "unknown content type")
	}
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 {
		q.PageSize = defaultPageSize
	}
	if q.PageSize > maxPageSize {
		q.PageSize = maxPageSize
	}
	if q.Sort == "" {
		q.Sort = store.SortNewest
	}

	items, total, err := s.store.ListContent(ctx, contentType, store.ContentQuery{
		Sort:     q.Sort,
		AuthorID: q.AuthorID,
		Limit:    q.PageSize,
		Offset:   (q.Page - 1) * q.PageSize,
	})
	if err != nil {
		return nil, err
	}
	return &Page{
		Items:      items,
		Total:      total,
		Page:       q.Page,
		PageSize:   q.PageSize,
		TotalPages: (total + int64(q.PageSize) - 1) / int64(q.PageSize),
	}, nil
}

// Get returns one item's display data; the caller decides whether the fetch
// counts as a view.
func (s *Service) Get(ctx context.Context, contentType models.ContentType, contentID uint) (*store.ContentMeta, error) {
	if !models.ValidContentType(contentType) {
		return nil, utils.Invalid("contentType", "unknown content type")
	}
	meta, err := s.store.GetContentMeta(ctx, contentType, contentID)
	if err != nil {
		return nil, err
	}
	if !meta.Active {
		return nil, store.ErrNotFound
	}
	return meta, nil
}
