package inmemory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/curbline/api-go/models"
	"github.com/curbline/api-go/store"
)

func TestStore_InteractionUniqueness(t *testing.T) {
	s := New()
	ctx := context.Background()
	postID := s.SeedContent(models.ContentTypePost, 1, "", "hello")

	rec := &models.InteractionRecord{UserID: 2, ContentType: models.ContentTypePost, ContentID: postID, Kind: models.KindLike}
	require.NoError(t, s.CreateInteraction(ctx, rec))

	dup := &models.InteractionRecord{UserID: 2, ContentType: models.ContentTypePost, ContentID: postID, Kind: models.KindLike}
	err := s.CreateInteraction(ctx, dup)
	assert.ErrorIs(t, err, store.ErrConflict)

	// a different kind for the same pair is a distinct fact
	other := &models.InteractionRecord{UserID: 2, ContentType: models.ContentTypePost, ContentID: postID, Kind: models.KindInterested}
	// posts do not carry interested_count, but the ledger itself does not care
	require.NoError(t, s.CreateInteraction(ctx, other))
}

func TestStore_AdjustCounter_ClampsAtZero(t *testing.T) {
	s := New()
	ctx := context.Background()
	postID := s.SeedContent(models.ContentTypePost, 1, "", "hello")

	clamped, err := s.AdjustCounter(ctx, models.ContentTypePost, postID, models.CounterLikes, 1)
	require.NoError(t, err)
	assert.False(t, clamped)

	clamped, err = s.AdjustCounter(ctx, models.ContentTypePost, postID, models.CounterLikes, -1)
	require.NoError(t, err)
	assert.False(t, clamped)

	// unmatched decrement must clamp, not go negative
	clamped, err = s.AdjustCounter(ctx, models.ContentTypePost, postID, models.CounterLikes, -1)
	require.NoError(t, err)
	assert.True(t, clamped)

	meta, err := s.GetContentMeta(ctx, models.ContentTypePost, postID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), meta.Counters[models.CounterLikes])
}

func TestStore_AdjustCounter_UnknownTargets(t *testing.T) {
	s := New()
	ctx := context.Background()

	_, err := s.AdjustCounter(ctx, models.ContentTypePost, 999, models.CounterLikes, 1)
	assert.ErrorIs(t, err, store.ErrNotFound)

	postID := s.SeedContent(models.ContentTypePost, 1, "", "hello")
	_, err = s.AdjustCounter(ctx, models.ContentTypePost, postID, models.CounterInterested, 1)
	assert.Error(t, err)
}

func TestStore_ResolveReport_WriteOnce(t *testing.T) {
	s := New()
	ctx := context.Background()

	report := &models.Report{ReporterUserID: 1, TargetType: models.TargetTypeUser, TargetID: 7, Reason: "spam"}
	require.NoError(t, s.CreateReport(ctx, report))

	action := &models.ModerationAction{ModeratorID: 2, TargetType: models.TargetTypeUser, TargetID: 7, ActionType: models.ActionUserWarned}
	require.NoError(t, s.ResolveReport(ctx, report.ID, action))

	second := &models.ModerationAction{ModeratorID: 3, TargetType: models.TargetTypeUser, TargetID: 7, ActionType: models.ActionUserBanned}
	err := s.ResolveReport(ctx, report.ID, second)
	assert.ErrorIs(t, err, store.ErrAlreadyResolved)

	actions, err := s.ActionsForTarget(ctx, models.TargetTypeUser, 7)
	require.NoError(t, err)
	require.Len(t, actions, 1)
	assert.Equal(t, models.ActionUserWarned, actions[0].ActionType)
	require.NotNil(t, actions[0].ReportID)
	assert.Equal(t, report.ID, *actions[0].ReportID)

	resolved, err := s.GetReport(ctx, report.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ReportStatusResolved, resolved.Status)
	assert.NotNil(t, resolved.ResolvedAt)
}

func TestStore_PendingReports_Ordering(t *testing.T) {
	s := New()
	ctx := context.Background()

	low := &models.Report{ReporterUserID: 1, TargetType: models.TargetTypeUser, TargetID: 2, Reason: "a", Priority: 1}
	high := &models.Report{ReporterUserID: 1, TargetType: models.TargetTypeUser, TargetID: 3, Reason: "b", Priority: 5}
	require.NoError(t, s.CreateReport(ctx, low))
	require.NoError(t, s.CreateReport(ctx, high))

	pending, err := s.PendingReports(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, high.ID, pending[0].ID)
}

func TestStore_AddCampaignSpend_Caps(t *testing.T) {
	s := New()
	ctx := context.Background()

	daily := int64(300)
	campaign := &models.Campaign{OwnerUserID: 1, Name: "c", BudgetTotalCents: 1000, BudgetDailyCents: &daily, Status: models.CampaignStatusActive}
	require.NoError(t, s.CreateCampaign(ctx, campaign))

	require.NoError(t, s.AddCampaignSpend(ctx, campaign.ID, 200, "2026-08-31"))
	require.NoError(t, s.AddCampaignSpend(ctx, campaign.ID, 100, "2026-08-31"))

	// daily cap hit for the same day
	err := s.AddCampaignSpend(ctx, campaign.ID, 1, "2026-08-31")
	assert.ErrorIs(t, err, store.ErrBudgetExceeded)

	// a new day resets the daily window, total keeps accruing
	require.NoError(t, s.AddCampaignSpend(ctx, campaign.ID, 300, "2026-09-01"))
	require.NoError(t, s.AddCampaignSpend(ctx, campaign.ID, 300, "2026-09-02"))

	// total cap: 900 spent, 300 more would exceed 1000
	err = s.AddCampaignSpend(ctx, campaign.ID, 300, "2026-09-03")
	assert.ErrorIs(t, err, store.ErrBudgetExceeded)

	got, err := s.GetCampaign(ctx, campaign.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(900), got.SpentCents)
	assert.LessOrEqual(t, got.SpentCents, got.BudgetTotalCents)
}

func TestStore_UpdateCampaignStatus_Conditional(t *testing.T) {
	s := New()
	ctx := context.Background()

	campaign := &models.Campaign{OwnerUserID: 1, Name: "c", BudgetTotalCents: 100, Status: models.CampaignStatusActive}
	require.NoError(t, s.CreateCampaign(ctx, campaign))

	flipped, err := s.UpdateCampaignStatus(ctx, campaign.ID, models.CampaignStatusActive, models.CampaignStatusPaused)
	require.NoError(t, err)
	assert.True(t, flipped)

	// from-state no longer matches
	flipped, err = s.UpdateCampaignStatus(ctx, campaign.ID, models.CampaignStatusActive, models.CampaignStatusPaused)
	require.NoError(t, err)
	assert.False(t, flipped)

	_, err = s.UpdateCampaignStatus(ctx, 999, models.CampaignStatusActive, models.CampaignStatusPaused)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestStore_AcknowledgeWarning_OneWay(t *testing.T) {
	s := New()
	ctx := context.Background()

	warning := &models.UserWarning{TargetUserID: 5, ModeratorID: 2, Type: "conduct", Severity: "low", Message: "be nice"}
	require.NoError(t, s.CreateWarning(ctx, warning))

	changed, err := s.AcknowledgeWarning(ctx, warning.ID)
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = s.AcknowledgeWarning(ctx, warning.ID)
	require.NoError(t, err)
	assert.False(t, changed)

	ack := true
	list, err := s.ListWarnings(ctx, store.WarningFilter{Acknowledged: &ack, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
