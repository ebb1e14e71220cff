package moderation

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/curbline/api-go/models"
	"github.com/curbline/api-go/store"
	"github.com/curbline/api-go/store/inmemory"
	"github.com/curbline/api-go/utils"
)

var (
	moderator = &utils.UserClaims{UserID: 2, Roles: []string{utils.RoleModerator}}
	admin     = &utils.UserClaims{UserID: 3, Roles: []string{utils.RoleAdmin}}
	regular   = &utils.UserClaims{UserID: 4}
)

func newTestService(t *testing.T) (*Service, *inmemory.Store) {
	t.Helper()
	s := inmemory.New()
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return NewService(s, log), s
}

func TestSubmitReport_Validation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.SubmitReport(ctx, 1, ReportInput{TargetType: models.TargetTypeUser, TargetID: 9, Reason: " "})
	assert.True(t, utils.IsValidationError(err))

	_, err = svc.SubmitReport(ctx, 1, ReportInput{TargetType: "mixtape", TargetID: 9, Reason: "spam"})
	assert.True(t, utils.IsValidationError(err))

	report, err := svc.SubmitReport(ctx, 1, ReportInput{TargetType: models.TargetTypeUser, TargetID: 9, Reason: "spam", Priority: 3})
	require.NoError(t, err)
	assert.Equal(t, models.ReportStatusPending, report.Status)
}

func TestPendingQueue_RequiresCapability(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.PendingQueue(ctx, regular, 10, 0)
	assert.ErrorIs(t, err, utils.ErrNotAuthorized)

	_, err = svc.PendingQueue(ctx, moderator, 10, 0)
	assert.NoError(t, err)
	_, err = svc.PendingQueue(ctx, admin, 10, 0)
	assert.NoError(t, err)
}

func TestResolve_WritesExactlyOneAction(t *testing.T) {
	svc, s := newTestService(t)
	ctx := context.Background()

	report, err := svc.SubmitReport(ctx, 1, ReportInput{TargetType: models.TargetTypeUser, TargetID: 9, Reason: "harassment"})
	require.NoError(t, err)

	_, err = svc.Resolve(ctx, regular, report.ID, ResolutionInput{Action: models.ActionUserWarned})
	assert.ErrorIs(t, err, utils.ErrNotAuthorized)

	action, err := svc.Resolve(ctx, moderator, report.ID, ResolutionInput{Action: models.ActionUserWarned, Notes: "first strike"})
	require.NoError(t, err)
	assert.Equal(t, models.ActionUserWarned, action.ActionType)

	// second attempt is rejected and the original action survives intact
	_, err = svc.Resolve(ctx, moderator, report.ID, ResolutionInput{Action: models.ActionUserBanned})
	assert.ErrorIs(t, err, store.ErrAlreadyResolved)

	actions, err := svc.ActionsForTarget(ctx, moderator, models.TargetTypeUser, 9)
	require.NoError(t, err)
	require.Len(t, actions, 1)
	assert.Equal(t, models.ActionUserWarned, actions[0].ActionType)

	queue, err := svc.PendingQueue(ctx, moderator, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, queue)

	resolved, err := s.GetReport(ctx, report.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ReportStatusResolved, resolved.Status)
}

func TestResolve_NoActionStillAudited(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	report, err := svc.SubmitReport(ctx, 1, ReportInput{TargetType: models.TargetTypeUser, TargetID: 9, Reason: "noise"})
	require.NoError(t, err)

	_, err = svc.Resolve(ctx, moderator, report.ID, ResolutionInput{Action: models.ActionNoAction})
	require.NoError(t, err)

	actions, err := svc.ActionsForTarget(ctx, moderator, models.TargetTypeUser, 9)
	require.NoError(t, err)
	require.Len(t, actions, 1)
	assert.Equal(t, models.ActionNoAction, actions[0].ActionType)
}

func TestResolve_ContentRemovedTakesContentDown(t *testing.T) {
	svc, s := newTestService(t)
	ctx := context.Background()
	videoID := s.SeedContent(models.ContentTypeTrickVideo, 5, "kickflip", "")

	report, err := svc.SubmitReport(ctx, 1, ReportInput{
		TargetType: string(models.ContentTypeTrickVideo), TargetID: videoID, Reason: "stolen clip",
	})
	require.NoError(t, err)

	_, err = svc.Resolve(ctx, moderator, report.ID, ResolutionInput{Action: models.ActionContentRemoved})
	require.NoError(t, err)

	meta, err := s.GetContentMeta(ctx, models.ContentTypeTrickVideo, videoID)
	require.NoError(t, err)
	assert.False(t, meta.Active)
}

func TestWarnings_Lifecycle(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.IssueWarning(ctx, regular, WarningInput{TargetUserID: 9, Message: "stop"})
	assert.ErrorIs(t, err, utils.ErrNotAuthorized)

	warning, err := svc.IssueWarning(ctx, moderator, WarningInput{TargetUserID: 9, Type: "conduct", Message: "tone it down"})
	require.NoError(t, err)
	assert.False(t, warning.Acknowledged)
	assert.Equal(t, "low", warning.Severity)

	// only the warned user can acknowledge
	err = svc.AcknowledgeWarning(ctx, regular, warning.ID)
	assert.ErrorIs(t, err, utils.ErrNotAuthorized)

	target := &utils.UserClaims{UserID: 9}
	require.NoError(t, svc.AcknowledgeWarning(ctx, target, warning.ID))

	// users see their own warnings without the capability
	own, err := svc.ListWarnings(ctx, target, store.WarningFilter{TargetUserID: &target.UserID})
	require.NoError(t, err)
	require.Len(t, own, 1)
	assert.True(t, own[0].Acknowledged)

	other := uint(12)
	_, err = svc.ListWarnings(ctx, target, store.WarningFilter{TargetUserID: &other})
	assert.ErrorIs(t, err, utils.ErrNotAuthorized)
}

func TestDirectAction_Recorded(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.DirectAction(ctx, regular, models.TargetTypeUser, 9, models.ActionUserSuspended, "repeat offender")
	assert.ErrorIs(t, err, utils.ErrNotAuthorized)

	action, err := svc.DirectAction(ctx, admin, models.TargetTypeUser, 9, models.ActionUserSuspended, "repeat offender")
	require.NoError(t, err)
	assert.Nil(t, action.ReportID)
}
