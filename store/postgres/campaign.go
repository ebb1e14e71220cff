package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/curbline/api-go/models"
	"github.com/curbline/api-go/store"
)

func (s *Store) CreateCampaign(ctx context.Context, campaign *models.Campaign) error {
	return s.db.WithContext(ctx).Create(campaign).Error
}

func (s *Store) GetCampaign(ctx context.Context, id uint) (*models.Campaign, error) {
	var campaign models.Campaign
	err := s.db.WithContext(ctx).First(&campaign, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &campaign, nil
}

func (s *Store) ListCampaigns(ctx context.Context, ownerID uint, limit, offset int) ([]models.Campaign, error) {
	var campaigns []models.Campaign
	err := s.db.WithContext(ctx).
		Where("owner_user_id = ?", ownerID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&campaigns).Error
	return campaigns, err
}

func (s *Store) UpdateCampaignStatus(ctx context.Context, id uint, from, to models.CampaignStatus) (bool, error) {
	res := s.db.WithContext(ctx).Model(&models.Campaign{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected > 0 {
		return true, nil
	}
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Campaign{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	if count == 0 {
		return false, store.ErrNotFound
	}
	return false, nil
}

// AddCampaignSpend is the atomic check-and-increment behind the budget
// invariant. The FOR UPDATE lock on the campaign row serializes concurrent
// spenders, so the cap checks and both increments commit as one unit or not
// at all.
func (s *Store) AddCampaignSpend(ctx context.Context, id uint, amountCents int64, day string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var campaign models.Campaign
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&campaign, id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return store.ErrNotFound
		}
		if err != nil {
			return err
		}

		if campaign.SpentCents+amountCents > campaign.BudgetTotalCents {
			return store.ErrBudgetExceeded
		}

		if campaign.BudgetDailyCents != nil {
			if err := addDailySpend(tx, models.SpendSubjectCampaign, id, day, amountCents, *campaign.BudgetDailyCents); err != nil {
				return err
			}
		}

		return tx.Model(&campaign).Update("spent_cents", campaign.SpentCents+amountCents).Error
	})
}

func (s *Store) CreatePromotedPost(ctx context.Context, promo *models.PromotedPost) error {
	return s.db.WithContext(ctx).Create(promo).Error
}

func (s *Store) GetPromotedPost(ctx context.Context, id uint) (*models.PromotedPost, error) {
	var promo models.PromotedPost
	err := s.db.WithContext(ctx).First(&promo, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &promo, nil
}

func (s *Store) UpdatePromotedPostStatus(ctx context.Context, id uint, from, to models.CampaignStatus) (bool, error) {
	res := s.db.WithContext(ctx).Model(&models.PromotedPost{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected > 0 {
		return true, nil
	}
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.PromotedPost{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	if count == 0 {
		return false, store.ErrNotFound
	}
	return false, nil
}

func (s *Store) AddPromotedPostSpend(ctx context.Context, id uint, amountCents int64, day string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var promo models.PromotedPost
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&promo, id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return store.ErrNotFound
		}
		if err != nil {
			return err
		}

		if promo.SpentCents+amountCents > promo.BudgetTotalCents {
			return store.ErrBudgetExceeded
		}

		if promo.BudgetDailyCents != nil {
			if err := addDailySpend(tx, models.SpendSubjectPromotedPost, id, day, amountCents, *promo.BudgetDailyCents); err != nil {
				return err
			}
		}

		return tx.Model(&promo).Update("spent_cents", promo.SpentCents+amountCents).Error
	})
}

// addDailySpend runs inside a transaction that already holds the subject's
// row lock, so the read here cannot race another spender.
func addDailySpend(tx *gorm.DB, subjectType string, subjectID uint, day string, amountCents, dailyCapCents int64) error {
	var daily models.DailySpend
	err := tx.Where("subject_type = ? AND subject_id = ? AND day = ?", subjectType, subjectID, day).
		First(&daily).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	if daily.SpentCents+amountCents > dailyCapCents {
		return store.ErrBudgetExceeded
	}

	if daily.ID == 0 {
		return tx.Create(&models.DailySpend{
			SubjectType: subjectType,
			SubjectID:   subjectID,
			Day:         day,
			SpentCents:  amountCents,
		}).Error
	}
	return tx.Model(&daily).Update("spent_cents", daily.SpentCents+amountCents).Error
}
