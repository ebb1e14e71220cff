package feed

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/curbline/api-go/models"
	"github.com/curbline/api-go/store"
	"github.com/curbline/api-go/store/inmemory"
	"github.com/curbline/api-go/utils"
)

func TestList_SortAndPagination(t *testing.T) {
	s := inmemory.New()
	svc := NewService(s)
	ctx := context.Background()

	first := s.SeedContent(models.ContentTypePost, 1, "", "first")
	second := s.SeedContent(models.ContentTypePost, 2, "", "second")
	_, err := s.AdjustCounter(ctx, models.ContentTypePost, first, models.CounterLikes, 3)
	require.NoError(t, err)

	page, err := svc.List(ctx, models.ContentTypePost, Query{Sort: store.SortPopular})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, first, page.Items[0].ID)
	assert.Equal(t, int64(3), page.Items[0].Counters[models.CounterLikes])

	paged, err := svc.List(ctx, models.ContentTypePost, Query{Page: 2, PageSize: 1})
	require.NoError(t, err)
	assert.Len(t, paged.Items, 1)
	assert.Equal(t, int64(2), paged.Total)
	assert.Equal(t, int64(2), paged.TotalPages)

	author := uint(2)
	byAuthor, err := svc.List(ctx, models.ContentTypePost, Query{AuthorID: &author})
	require.NoError(t, err)
	require.Len(t, byAuthor.Items, 1)
	assert.Equal(t, second, byAuthor.Items[0].ID)
}

func TestList_ExcludesInactive(t *testing.T) {
	s := inmemory.New()
	svc := NewService(s)
	ctx := context.Background()

	id := s.SeedContent(models.ContentTypeGig, 1, "gig night", "")
	require.NoError(t, s.DeactivateContent(ctx, models.ContentTypeGig, id))

	page, err := svc.List(ctx, models.ContentTypeGig, Query{})
	require.NoError(t, err)
	assert.Empty(t, page.Items)

	_, err = svc.Get(ctx, models.ContentTypeGig, id)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestList_UnknownType(t *testing.T) {
	svc := NewService(inmemory.New())

	_, err := svc.List(context.Background(), "mixtape", Query{})
	assert.True(t, utils.IsValidationError(err))
}
