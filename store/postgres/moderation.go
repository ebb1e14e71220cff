package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/curbline/api-go/models"
	"github.com/curbline/api-go/store"
)

func (s *Store) CreateReport(ctx context.Context, report *models.Report) error {
	report.Status = models.ReportStatusPending
	return s.db.WithContext(ctx).Create(report).Error
}

func (s *Store) GetReport(ctx context.Context, id uint) (*models.Report, error) {
	var report models.Report
	err := s.db.WithContext(ctx).First(&report, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &report, nil
}

func (s *Store) PendingReports(ctx context.Context, limit, offset int) ([]models.Report, error) {
	var reports []models.Report
	err := s.db.WithContext(ctx).
		Where("status = ?", models.ReportStatusPending).
		Order("priority DESC, created_at ASC").
		Limit(limit).Offset(offset).
		Find(&reports).Error
	return reports, err
}

// ResolveReport closes the report and writes the audit action as a unit. The
// guarded UPDATE is the write-once gate: whichever transaction flips
// pending -> resolved first wins, every later attempt sees zero rows.
func (s *Store) ResolveReport(ctx context.Context, reportID uint, action *models.ModerationAction) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		res := tx.Model(&models.Report{}).
			Where("id = ? AND status = ?", reportID, models.ReportStatusPending).
			Updates(map[string]interface{}{
				"status":      models.ReportStatusResolved,
				"resolved_at": now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			var report models.Report
			if err := tx.First(&report, reportID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return store.ErrNotFound
				}
				return err
			}
			return store.ErrAlreadyResolved
		}

		action.ReportID = &reportID
		return tx.Create(action).Error
	})
}

func (s *Store) CreateAction(ctx context.Context, action *models.ModerationAction) error {
	return s.db.WithContext(ctx).Create(action).Error
}

func (s *Store) ActionsForTarget(ctx context.Context, targetType string, targetID uint) ([]models.ModerationAction, error) {
	var actions []models.ModerationAction
	err := s.db.WithContext(ctx).
		Where("target_type = ? AND target_id = ?", targetType, targetID).
		Order("created_at DESC").
		Find(&actions).Error
	return actions, err
}

func (s *Store) CreateWarning(ctx context.Context, warning *models.UserWarning) error {
	return s.db.WithContext(ctx).Create(warning).Error
}

func (s *Store) GetWarning(ctx context.Context, id uint) (*models.UserWarning, error) {
	var warning models.UserWarning
	err := s.db.WithContext(ctx).First(&warning, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &warning, nil
}

func (s *Store) AcknowledgeWarning(ctx context.Context, id uint) (bool, error) {
	res := s.db.WithContext(ctx).Model(&models.UserWarning{}).
		Where("id = ? AND acknowledged = ?", id, false).
		Update("acknowledged", true)
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected > 0 {
		return true, nil
	}
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.UserWarning{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	if count == 0 {
		return false, store.ErrNotFound
	}
	return false, nil
}

func (s *Store) ListWarnings(ctx context.Context, f store.WarningFilter) ([]models.UserWarning, error) {
	q := s.db.WithContext(ctx).Model(&models.UserWarning{})
	if f.TargetUserID != nil {
		q = q.Where("target_user_id = ?", *f.TargetUserID)
	}
	if f.Acknowledged != nil {
		q = q.Where("acknowledged = ?", *f.Acknowledged)
	}
	var warnings []models.UserWarning
	err := q.Order("created_at DESC").Limit(f.Limit).Offset(f.Offset).Find(&warnings).Error
	return warnings, err
}
