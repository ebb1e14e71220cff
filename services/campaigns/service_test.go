package campaigns

import (
	"context"
	"sync"
	"testing"
	"time"

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

func TestCreateCampaign_Validation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateCampaign(ctx, 1, CampaignInput{Name: "", BudgetTotalCents: 100})
	assert.True(t, utils.IsValidationError(err))

	_, err = svc.CreateCampaign(ctx, 1, CampaignInput{Name: "c", BudgetTotalCents: 0})
	assert.True(t, utils.IsValidationError(err))

	daily := int64(200)
	_, err = svc.CreateCampaign(ctx, 1, CampaignInput{Name: "c", BudgetTotalCents: 100, BudgetDailyCents: &daily})
	assert.True(t, utils.IsValidationError(err))

	campaign, err := svc.CreateCampaign(ctx, 1, CampaignInput{Name: "spring push", Type: "banner", BudgetTotalCents: 5000})
	require.NoError(t, err)
	assert.Equal(t, models.CampaignStatusActive, campaign.Status)
	assert.Zero(t, campaign.SpentCents)
}

func TestToggleStatus_FlipsActivePausedOnly(t *testing.T) {
	svc, s := newTestService(t)
	ctx := context.Background()
	owner := &utils.UserClaims{UserID: 1}

	campaign, err := svc.CreateCampaign(ctx, 1, CampaignInput{Name: "c", BudgetTotalCents: 100})
	require.NoError(t, err)

	stranger := &utils.UserClaims{UserID: 2}
	_, err = svc.ToggleStatus(ctx, stranger, campaign.ID)
	assert.ErrorIs(t, err, utils.ErrNotAuthorized)

	status, err := svc.ToggleStatus(ctx, owner, campaign.ID)
	require.NoError(t, err)
	assert.Equal(t, models.CampaignStatusPaused, status)

	status, err = svc.ToggleStatus(ctx, owner, campaign.ID)
	require.NoError(t, err)
	assert.Equal(t, models.CampaignStatusActive, status)

	// completed campaigns are terminal for the toggle
	flipped, err := s.UpdateCampaignStatus(ctx, campaign.ID, models.CampaignStatusActive, models.CampaignStatusCompleted)
	require.NoError(t, err)
	require.True(t, flipped)
	_, err = svc.ToggleStatus(ctx, owner, campaign.ID)
	assert.True(t, utils.IsValidationError(err))
}

func TestRecordSpend_NeverExceedsBudget(t *testing.T) {
	svc, s := newTestService(t)
	ctx := context.Background()

	campaign, err := svc.CreateCampaign(ctx, 1, CampaignInput{Name: "c", BudgetTotalCents: 1000})
	require.NoError(t, err)

	now := time.Now()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			// some succeed, some hit the cap; none may breach it
			_ = svc.RecordSpend(ctx, campaign.ID, 99, now)
		}()
	}
	wg.Wait()

	got, err := s.GetCampaign(ctx, campaign.ID)
	require.NoError(t, err)
	assert.LessOrEqual(t, got.SpentCents, got.BudgetTotalCents)
	assert.Equal(t, int64(0), got.SpentCents%99)
}

func TestRecordSpend_DailyCap(t *testing.T) {
	svc, s := newTestService(t)
	ctx := context.Background()

	daily := int64(100)
	campaign, err := svc.CreateCampaign(ctx, 1, CampaignInput{Name: "c", BudgetTotalCents: 1000, BudgetDailyCents: &daily})
	require.NoError(t, err)

	day1 := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	require.NoError(t, svc.RecordSpend(ctx, campaign.ID, 100, day1))

	err = svc.RecordSpend(ctx, campaign.ID, 1, day1)
	assert.ErrorIs(t, err, store.ErrBudgetExceeded)

	day2 := day1.Add(24 * time.Hour)
	require.NoError(t, svc.RecordSpend(ctx, campaign.ID, 100, day2))

	got, err := s.GetCampaign(ctx, campaign.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(200), got.SpentCents)
}

func TestRecordSpend_RejectsNonPositive(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	campaign, err := svc.CreateCampaign(ctx, 1, CampaignInput{Name: "c", BudgetTotalCents: 1000})
	require.NoError(t, err)

	assert.True(t, utils.IsValidationError(svc.RecordSpend(ctx, campaign.ID, 0, time.Now())))
	assert.True(t, utils.IsValidationError(svc.RecordSpend(ctx, campaign.ID, -5, time.Now())))
}

func TestPromotedPost_Lifecycle(t *testing.T) {
	svc, s := newTestService(t)
	ctx := context.Background()
	videoID := s.SeedContent(models.ContentTypeTrickVideo, 1, "heelflip", "")

	// promoting someone else's content is rejected
	_, err := svc.CreatePromotedPost(ctx, 2, PromotedPostInput{
		ContentType: models.ContentTypeTrickVideo, ContentID: videoID, BoostLevel: 1, BudgetTotalCents: 500,
	})
	assert.ErrorIs(t, err, utils.ErrNotAuthorized)

	_, err = svc.CreatePromotedPost(ctx, 1, PromotedPostInput{
		ContentType: models.ContentTypeTrickVideo, ContentID: videoID, BoostLevel: 9, BudgetTotalCents: 500,
	})
	assert.True(t, utils.IsValidationError(err))

	promo, err := svc.CreatePromotedPost(ctx, 1, PromotedPostInput{
		ContentType: models.ContentTypeTrickVideo, ContentID: videoID, BoostLevel: 2, BudgetTotalCents: 500,
	})
	require.NoError(t, err)
	assert.Equal(t, models.CampaignStatusActive, promo.Status)

	owner := &utils.UserClaims{UserID: 1}
	status, err := svc.TogglePromotedPostStatus(ctx, owner, promo.ID)
	require.NoError(t, err)
	assert.Equal(t, models.CampaignStatusPaused, status)

	require.NoError(t, svc.RecordPromotedPostSpend(ctx, promo.ID, 500, time.Now()))
	err = svc.RecordPromotedPostSpend(ctx, promo.ID, 1, time.Now())
	assert.ErrorIs(t, err, store.ErrBudgetExceeded)
}
