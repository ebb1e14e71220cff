package interactions

import (
	"context"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/curbline/api-go/models"
	"github.com/curbline/api-go/store"
	"github.com/curbline/api-go/store/inmemory"
	"github.com/curbline/api-go/utils"
)

func newTestService(t *testing.T) (*Service, *inmemory.Store) {
	t.Helper()
	s := inmemory.New()
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return NewService(s, log), s
}

func TestToggle_OnOff(t *testing.T) {
	svc, s := newTestService(t)
	ctx := context.Background()
	postID := s.SeedContent(models.ContentTypePost, 1, "", "first post")

	result, err := svc.Toggle(ctx, 42, models.ContentTypePost, postID, models.KindLike)
	require.NoError(t, err)
	assert.True(t, result.On)
	assert.Equal(t, int64(1), result.Count)

	result, err = svc.Toggle(ctx, 42, models.ContentTypePost, postID, models.KindLike)
	require.NoError(t, err)
	assert.False(t, result.On)
	assert.Equal(t, int64(0), result.Count)

	on, err := svc.HasInteraction(ctx, 42, models.ContentTypePost, postID, models.KindLike)
	require.NoError(t, err)
	assert.False(t, on)
}

func TestToggle_TwoUsersIndependent(t *testing.T) {
	svc, s := newTestService(t)
	ctx := context.Background()
	postID := s.SeedContent(models.ContentTypePost, 1, "", "first post")

	var wg sync.WaitGroup
	for _, userID := range []uint{10, 11} {
		wg.Add(1)
		go func(id uint) {
			defer wg.Done()
			_, err := svc.Toggle(ctx, id, models.ContentTypePost, postID, models.KindLike)
			assert.NoError(t, err)
		}(userID)
	}
	wg.Wait()

	meta, err := s.GetContentMeta(ctx, models.ContentTypePost, postID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), meta.Counters[models.CounterLikes])

	count, err := s.CountInteractions(ctx, models.ContentTypePost, postID, models.KindLike)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestToggle_ConcurrentSameUser_NoDuplicateRows(t *testing.T) {
	svc, s := newTestService(t)
	ctx := context.Background()
	postID := s.SeedContent(models.ContentTypePost, 1, "", "first post")

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Toggle(ctx, 42, models.ContentTypePost, postID, models.KindLike)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	count, err := s.CountInteractions(ctx, models.ContentTypePost, postID, models.KindLike)
	require.NoError(t, err)
	assert.LessOrEqual(t, count, int64(1))

	meta, err := s.GetContentMeta(ctx, models.ContentTypePost, postID)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, meta.Counters[models.CounterLikes], int64(0))
}

func TestToggle_KindNotSupported(t *testing.T) {
	svc, s := newTestService(t)
	ctx := context.Background()
	// posts have no interested_count
	postID := s.SeedContent(models.ContentTypePost, 1, "", "first post")

	_, err := svc.Toggle(ctx, 42, models.ContentTypePost, postID, models.KindInterested)
	assert.True(t, utils.IsValidationError(err))

	// gigs do
	gigID := s.SeedContent(models.ContentTypeGig, 1, "show", "")
	result, err := svc.Toggle(ctx, 42, models.ContentTypeGig, gigID, models.KindInterested)
	require.NoError(t, err)
	assert.True(t, result.On)
	assert.Equal(t, int64(1), result.Count)
}

func TestToggle_RatingRejected(t *testing.T) {
	svc, s := newTestService(t)
	ctx := context.Background()
	spotID := s.SeedContent(models.ContentTypeSkateSpot, 1, "ledge", "")

	_, err := svc.Toggle(ctx, 42, models.ContentTypeSkateSpot, spotID, models.KindRating)
	assert.True(t, utils.IsValidationError(err))
}

func TestToggle_InactiveContent(t *testing.T) {
	svc, s := newTestService(t)
	ctx := context.Background()
	postID := s.SeedContent(models.ContentTypePost, 1, "", "first post")
	require.NoError(t, s.DeactivateContent(ctx, models.ContentTypePost, postID))

	_, err := svc.Toggle(ctx, 42, models.ContentTypePost, postID, models.KindLike)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestRate_UpsertAndAggregate(t *testing.T) {
	svc, s := newTestService(t)
	ctx := context.Background()
	spotID := s.SeedContent(models.ContentTypeSkateSpot, 1, "ledge", "")

	require.NoError(t, svc.Rate(ctx, 10, models.ContentTypeSkateSpot, spotID, 5))
	require.NoError(t, svc.Rate(ctx, 11, models.ContentTypeSkateSpot, spotID, 3))

	meta, err := s.GetContentMeta(ctx, models.ContentTypeSkateSpot, spotID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), meta.Counters[models.CounterRatings])

	// re-rating replaces, it does not add a second row
	require.NoError(t, svc.Rate(ctx, 10, models.ContentTypeSkateSpot, spotID, 1))
	meta, err = s.GetContentMeta(ctx, models.ContentTypeSkateSpot, spotID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), meta.Counters[models.CounterRatings])

	count, avg, err := s.RatingStats(ctx, models.ContentTypeSkateSpot, spotID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
	assert.InDelta(t, 2.0, avg, 0.001)
}

func TestRate_ValueOutOfRange(t *testing.T) {
	svc, s := newTestService(t)
	ctx := context.Background()
	spotID := s.SeedContent(models.ContentTypeSkateSpot, 1, "ledge", "")

	assert.True(t, utils.IsValidationError(svc.Rate(ctx, 10, models.ContentTypeSkateSpot, spotID, 0)))
	assert.True(t, utils.IsValidationError(svc.Rate(ctx, 10, models.ContentTypeSkateSpot, spotID, 6)))
}

func TestAddComment_CountsAndValidates(t *testing.T) {
	svc, s := newTestService(t)
	ctx := context.Background()
	topicID := s.SeedContent(models.ContentTypeForumTopic, 1, "setup advice", "")

	comment, err := svc.AddComment(ctx, 42, models.ContentTypeForumTopic, topicID, "loose trucks")
	require.NoError(t, err)
	assert.NotZero(t, comment.ID)

	meta, err := s.GetContentMeta(ctx, models.ContentTypeForumTopic, topicID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), meta.Counters[models.CounterComments])

	_, err = svc.AddComment(ctx, 42, models.ContentTypeForumTopic, topicID, "   ")
	assert.True(t, utils.IsValidationError(err))
}

func TestDeactivateComment_AuthorAndModerator(t *testing.T) {
	svc, s := newTestService(t)
	ctx := context.Background()
	topicID := s.SeedContent(models.ContentTypeForumTopic, 1, "setup advice", "")

	comment, err := svc.AddComment(ctx, 42, models.ContentTypeForumTopic, topicID, "loose trucks")
	require.NoError(t, err)

	stranger := &utils.UserClaims{UserID: 99}
	err = svc.DeactivateComment(ctx, stranger, comment.ID)
	assert.ErrorIs(t, err, utils.ErrNotAuthorized)

	author := &utils.UserClaims{UserID: 42}
	require.NoError(t, svc.DeactivateComment(ctx, author, comment.ID))

	meta, err := s.GetContentMeta(ctx, models.ContentTypeForumTopic, topicID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), meta.Counters[models.CounterComments])

	// repeating the delete must not decrement again
	moderator := &utils.UserClaims{UserID: 7, Roles: []string{utils.RoleModerator}}
	require.NoError(t, svc.DeactivateComment(ctx, moderator, comment.ID))
	meta, err = s.GetContentMeta(ctx, models.ContentTypeForumTopic, topicID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), meta.Counters[models.CounterComments])
}

func TestDeactivateContent_CascadesLedger(t *testing.T) {
	svc, s := newTestService(t)
	ctx := context.Background()
	postID := s.SeedContent(models.ContentTypePost, 5, "", "post")

	_, err := svc.Toggle(ctx, 10, models.ContentTypePost, postID, models.KindLike)
	require.NoError(t, err)
	_, err = svc.Toggle(ctx, 11, models.ContentTypePost, postID, models.KindLike)
	require.NoError(t, err)

	stranger := &utils.UserClaims{UserID: 99}
	err = svc.DeactivateContent(ctx, stranger, models.ContentTypePost, postID)
	assert.ErrorIs(t, err, utils.ErrNotAuthorized)

	owner := &utils.UserClaims{UserID: 5}
	require.NoError(t, svc.DeactivateContent(ctx, owner, models.ContentTypePost, postID))

	count, err := s.CountInteractions(ctx, models.ContentTypePost, postID, models.KindLike)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	meta, err := s.GetContentMeta(ctx, models.ContentTypePost, postID)
	require.NoError(t, err)
	assert.False(t, meta.Active)
}
