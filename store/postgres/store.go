// Package postgres implements store.Store on gorm over PostgreSQL. Counter
// and spend mutations are single guarded UPDATEs or row-locked transactions;
// nothing here does an unprotected read-modify-write.
package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/curbline/api-go/models"
	"github.com/curbline/api-go/store"
)

type Store struct {
	db *gorm.DB
}

// New wraps an already-opened gorm handle. The handle must have been opened
// with TranslateError so unique violations surface as gorm.ErrDuplicatedKey.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

var _ store.Store = (*Store)(nil)

func keyWhere(tx *gorm.DB, key store.InteractionKey) *gorm.DB {
	return tx.Where("user_id = ? AND content_type = ? AND content_id = ? AND kind = ?",
		key.UserID, key.ContentType, key.ContentID, key.Kind)
}

func (s *Store) GetInteraction(ctx context.Context, key store.InteractionKey) (*models.InteractionRecord, error) {
	var rec models.InteractionRecord
	err := keyWhere(s.db.WithContext(ctx), key).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *Store) CreateInteraction(ctx context.Context, rec *models.InteractionRecord) error {
	err := s.db.WithContext(ctx).Create(rec).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return store.ErrConflict
	}
	return err
}

func (s *Store) DeleteInteraction(ctx context.Context, key store.InteractionKey) (bool, error) {
	res := keyWhere(s.db.WithContext(ctx), key).Delete(&models.InteractionRecord{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (s *Store) UpsertInteractionValue(ctx context.Context, key store.InteractionKey, value int) (bool, error) {
	created := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := keyWhere(tx.Model(&models.InteractionRecord{}), key).Update("value", value)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			return nil
		}
		rec := &models.InteractionRecord{
			UserID:      key.UserID,
			ContentType: key.ContentType,
			ContentID:   key.ContentID,
			Kind:        key.Kind,
			Value:       value,
		}
		if err := tx.Create(rec).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				// lost the insert race, fall back to updating the winner's row
				return keyWhere(tx.Model(&models.InteractionRecord{}), key).Update("value", value).Error
			}
			return err
		}
		created = true
		return nil
	})
	return created, err
}

func (s *Store) CountInteractions(ctx context.Context, contentType models.ContentType, contentID uint, kind models.InteractionKind) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.InteractionRecord{}).
		Where("content_type = ? AND content_id = ? AND kind = ?", contentType, contentID, kind).
		Count(&count).Error
	return count, err
}

func (s *Store) RatingStats(ctx context.Context, contentType models.ContentType, contentID uint) (int64, float64, error) {
	var stats struct {
		Count int64
		Avg   float64
	}
	err := s.db.WithContext(ctx).Model(&models.InteractionRecord{}).
		Select("COUNT(*) AS count, COALESCE(AVG(value), 0) AS avg").
		Where("content_type = ? AND content_id = ? AND kind = ?", contentType, contentID, models.KindRating).
		Scan(&stats).Error
	return stats.Count, stats.Avg, err
}

func (s *Store) DeleteInteractionsForContent(ctx context.Context, contentType models.ContentType, contentID uint) (int64, error) {
	res := s.db.WithContext(ctx).
		Where("content_type = ? AND content_id = ?", contentType, contentID).
		Delete(&models.InteractionRecord{})
	return res.RowsAffected, res.Error
}
