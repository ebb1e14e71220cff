// Package moderation runs the report queue and the warning ledger. Every
// queue read, resolution and warning issue checks the moderator capability
// at the point of invocation; hiding a button is not a permission check.
package moderation

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/curbline/api-go/models"
	"github.com/curbline/api-go/store"
	"github.com/curbline/api-go/utils"
)

const (
	maxPriority    = 10
	defaultListLen = 50
)

type Service struct {
	store interface {
		store.ModerationStore
		store.ContentStore
		store.LedgerStore
	}
	log logrus.FieldLogger
}

func NewService(s store.Store, log logrus.FieldLogger) *Service {
	return &Service{store: s, log: log}
}

type ReportInput struct {
	TargetType  string `json:"targetType"`
	TargetID    uint   `json:"targetId"`
	Reason      string `json:"reason"`
	Description string `json:"description"`
	Priority    int    `json:"priority"`
}

type ResolutionInput struct {
	Action models.ResolutionAction `json:"action"`
	Notes  string                  `json:"notes"`
}

type WarningInput struct {
	TargetUserID uint   `json:"targetUserId"`
	Type         string `json:"type"`
	Severity     string `json:"severity"`
	Message      string `json:"message"`
}

func validTargetType(t string) bool {
	if t == models.TargetTypeUser {
		return true
	}
	return models.ValidContentType(models.ContentType(t))
}

// SubmitReport files a case; any authenticated user may report.
func (s *Service) SubmitReport(ctx context.Context, reporterID uint, in ReportInput) (*models.Report, error) {
	if strings.TrimSpace(in.Reason) == "" {
		return nil, utils.Invalid("reason", "reason is required")
	}
	if !validTargetType(in.TargetType) {
		return nil, utils.Invalid("targetType", "unknown target type")
	}
	if in.Priority < 0 || in.Priority > maxPriority {
		return nil, utils.Invalid("priority", "priority out of range")
	}

	report := &models.Report{
		ReporterUserID: reporterID,
		TargetType:     in.TargetType,
		TargetID:       in.TargetID,
		Reason:         in.Reason,
		Description:    in.Description,
		Priority:       in.Priority,
	}
	if err := s.store.CreateReport(ctx, report); err != nil {
		return nil, errors.Wrap(err, "creating report")
	}
	return report, nil
}

func (s *Service) PendingQueue(ctx context.Context, actor *utils.UserClaims, limit, offset int) ([]models.Report, error) {
	if !actor.IsModerator() {
		return nil, utils.ErrNotAuthorized
	}
	if limit <= 0 {
		limit = defaultListLen
	}
	return s.store.PendingReports(ctx, limit, offset)
}

// Resolve closes a pending report. The status flip and the audit action are
// one store transaction; an already-resolved report is rejected with the
// original action left untouched. An action record is written even for
// no_action so review itself is auditable.
func (s *Service) Resolve(ctx context.Context, actor *utils.UserClaims, reportID uint, in ResolutionInput) (*models.ModerationAction, error) {
	if !actor.IsModerator() {
		return nil, utils.ErrNotAuthorized
	}
	if !models.ValidResolutionAction(in.Action) {
		return nil, utils.Invalid("action", "unknown resolution action")
	}

	report, err := s.store.GetReport(ctx, reportID)
	if err != nil {
		return nil, err
	}

	action := &models.ModerationAction{
		ModeratorID: actor.UserID,
		TargetType:  report.TargetType,
		TargetID:    report.TargetID,
		ActionType:  in.Action,
		Reason:      in.Notes,
	}
	if err := s.store.ResolveReport(ctx, reportID, action); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"report_id":   reportID,
		"moderator":   actor.UserID,
		"action_type": in.Action,
	}).Info("report resolved")

	if in.Action == models.ActionContentRemoved && report.TargetType != models.TargetTypeUser {
		s.removeContent(ctx, models.ContentType(report.TargetType), report.TargetID)
	}
	return action, nil
}

// removeContent applies the side effect of a content_removed resolution.
// The resolution itself already committed; a failure here only loses the
// takedown, not the audit trail, and is retryable by a direct action.
func (s *Service) removeContent(ctx context.Context, contentType models.ContentType, contentID uint) {
	if err := s.store.DeactivateContent(ctx, contentType, contentID); err != nil {
		s.log.WithError(err).WithFields(logrus.Fields{
			"content_type": contentType,
			"content_id":   contentID,
		}).Error("deactivating reported content")
		return
	}
	if _, err := s.store.DeleteInteractionsForContent(ctx, contentType, contentID); err != nil {
		s.log.WithError(err).WithFields(logrus.Fields{
			"content_type": contentType,
			"content_id":   contentID,
		}).Error("cascading ledger delete for removed content")
	}
}

// IssueWarning records a standalone warning outside the report queue.
func (s *Service) IssueWarning(ctx context.Context, actor *utils.UserClaims, in WarningInput) (*models.UserWarning, error) {
	if !actor.IsModerator() {
		return nil, utils.ErrNotAuthorized
	}
	if strings.TrimSpace(in.Message) == "" {
		return nil, utils.Invalid("message", "message is required")
	}
	if in.Severity == "" {
		in.Severity = "low"
	}
	switch in.Severity {
	case "low", "medium", "high":
	default:
		return nil, utils.Invalid("severity", "severity must be low, medium or high")
	}

	warning := &models.UserWarning{
		TargetUserID: in.TargetUserID,
		ModeratorID:  actor.UserID,
		Type:         in.Type,
		Severity:     in.Severity,
		Message:      in.Message,
	}
	if err := s.store.CreateWarning(ctx, warning); err != nil {
		return nil, errors.Wrap(err, "creating warning")
	}
	return warning, nil
}

// AcknowledgeWarning flips the flag once; only the warned user can do it.
func (s *Service) AcknowledgeWarning(ctx context.Context, actor *utils.UserClaims, warningID uint) error {
	warning, err := s.store.GetWarning(ctx, warningID)
	if err != nil {
		return err
	}
	if warning.TargetUserID != actor.UserID {
		return utils.ErrNotAuthorized
	}
	_, err = s.store.AcknowledgeWarning(ctx, warningID)
	return err
}

func (s *Service) ListWarnings(ctx context.Context, actor *utils.UserClaims, f store.WarningFilter) ([]models.UserWarning, error) {
	// users may always list their own warnings; the moderator view is gated
	if !actor.IsModerator() {
		if f.TargetUserID == nil || *f.TargetUserID != actor.UserID {
			return nil, utils.ErrNotAuthorized
		}
	}
	if f.Limit <= 0 {
		f.Limit = defaultListLen
	}
	return s.store.ListWarnings(ctx, f)
}

// DirectAction records a moderator action taken outside any report.
func (s *Service) DirectAction(ctx context.Context, actor *utils.UserClaims, targetType string, targetID uint, actionType models.ResolutionAction, reason string) (*models.ModerationAction, error) {
	if !actor.IsModerator() {
		return nil, utils.ErrNotAuthorized
	}
	if !models.ValidResolutionAction(actionType) {
		return nil, utils.Invalid("action", "unknown resolution action")
	}
	if !validTargetType(targetType) {
		return nil, utils.Invalid("targetType", "unknown target type")
	}

	action := &models.ModerationAction{
		ModeratorID: actor.UserID,
		TargetType:  targetType,
		TargetID:    targetID,
		ActionType:  actionType,
		Reason:      reason,
	}
	if err := s.store.CreateAction(ctx, action); err != nil {
		return nil, errors.Wrap(err, "creating action")
	}
	if actionType == models.ActionContentRemoved && targetType != models.TargetTypeUser {
		s.removeContent(ctx, models.ContentType(targetType), targetID)
	}
	return action, nil
}

func (s *Service) ActionsForTarget(ctx context.Context, actor *utils.UserClaims, targetType string, targetID uint) ([]models.ModerationAction, error) {
	if !actor.IsModerator() {
		return nil, utils.ErrNotAuthorized
	}
	return s.store.ActionsForTarget(ctx, targetType, targetID)
}
