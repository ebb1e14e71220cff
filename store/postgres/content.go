package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/curbline/api-go/models"
	"github.com/curbline/api-go/store"
)

// display columns per variant for feed assembly
var feedColumns = map[models.ContentType]struct{ title, body string }{
	models.ContentTypePost:         {"''", "body"},
	models.ContentTypeGig:          {"title", "description"},
	models.ContentTypeSkateSpot:    {"name", "description"},
	models.ContentTypeTrickVideo:   {"title", "video_url"},
	models.ContentTypeForumTopic:   {"title", "body"},
	models.ContentTypeCommuteAlert: {"route", "body"},
}

func registryInfo(contentType models.ContentType) (models.ContentTypeInfo, error) {
	info, ok := models.ContentRegistry[contentType]
	if !ok {
		return models.ContentTypeInfo{}, fmt.Errorf("unknown content type %q", contentType)
	}
	return info, nil
}

func (s *Store) GetContentMeta(ctx context.Context, contentType models.ContentType, contentID uint) (*store.ContentMeta, error) {
	info, err := registryInfo(contentType)
	if err != nil {
		return nil, err
	}

	cols := "id, user_id, active"
	for field := range info.Counters {
		cols += ", " + string(field)
	}

	row := map[string]interface{}{}
	res := s.db.WithContext(ctx).Table(info.Table).Select(cols).Where("id = ?", contentID).Take(&row)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, store.ErrNotFound
	}
	if res.Error != nil {
		return nil, res.Error
	}

	meta := &store.ContentMeta{
		ID:       contentID,
		AuthorID: uint(asInt64(row["user_id"])),
		Active:   asBool(row["active"]),
		Counters: make(map[models.CounterField]int64, len(info.Counters)),
	}
	for field := range info.Counters {
		meta.Counters[field] = asInt64(row[string(field)])
	}
	return meta, nil
}

// AdjustCounter issues a single UPDATE with the arithmetic on the store
// side. Decrements carry a floor guard; a guarded update that matches no row
// on an existing item means the counter would have gone negative.
func (s *Store) AdjustCounter(ctx context.Context, contentType models.ContentType, contentID uint, field models.CounterField, delta int64) (bool, error) {
	info, err := registryInfo(contentType)
	if err != nil {
		return false, err
	}
	if !info.Counters[field] {
		return false, fmt.Errorf("content type %q has no counter %q", contentType, field)
	}
	if delta == 0 {
		return false, nil
	}

	// table and column names come from the compile-time registry, never from
	// request input
	col := string(field)
	var res *gorm.DB
	if delta > 0 {
		res = s.db.WithContext(ctx).Exec(
			fmt.Sprintf("UPDATE %s SET %s = %s + ? WHERE id = ?", info.Table, col, col),
			delta, contentID)
	} else {
		res = s.db.WithContext(ctx).Exec(
			fmt.Sprintf("UPDATE %s SET %s = %s + ? WHERE id = ? AND %s >= ?", info.Table, col, col, col),
			delta, contentID, -delta)
	}
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected > 0 {
		return false, nil
	}

	var count int64
	if err := s.db.WithContext(ctx).Table(info.Table).Where("id = ?", contentID).Count(&count).Error; err != nil {
		return false, err
	}
	if count == 0 {
		return false, store.ErrNotFound
	}
	// item exists, the floor guard blocked the decrement
	return true, nil
}

func (s *Store) SetRatingAggregate(ctx context.Context, contentType models.ContentType, contentID uint, count int64, avg float64) error {
	info, err := registryInfo(contentType)
	if err != nil {
		return err
	}
	if !info.Counters[models.CounterRatings] {
		return fmt.Errorf("content type %q is not ratable", contentType)
	}
	res := s.db.WithContext(ctx).Exec(
		fmt.Sprintf("UPDATE %s SET ratings_count = ?, rating = ? WHERE id = ?", info.Table),
		count, avg, contentID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) DeactivateContent(ctx context.Context, contentType models.ContentType, contentID uint) error {
	info, err := registryInfo(contentType)
	if err != nil {
		return err
	}
	res := s.db.WithContext(ctx).Exec(
		fmt.Sprintf("UPDATE %s SET active = false, updated_at = ? WHERE id = ?", info.Table),
		time.Now(), contentID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) ListContent(ctx context.Context, contentType models.ContentType, q store.ContentQuery) ([]store.FeedItem, int64, error) {
	info, err := registryInfo(contentType)
	if err != nil {
		return nil, 0, err
	}
	cols, ok := feedColumns[contentType]
	if !ok {
		return nil, 0, fmt.Errorf("unknown content type %q", contentType)
	}

	base := s.db.WithContext(ctx).Table(info.Table).Where("active = ?", true)
	if q.AuthorID != nil {
		base = base.Where("user_id = ?", *q.AuthorID)
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sel := fmt.Sprintf("id, user_id, created_at, %s AS title, %s AS body", cols.title, cols.body)
	for field := range info.Counters {
		sel += ", " + string(field)
	}

	order := "created_at DESC"
	if q.Sort == store.SortPopular {
		order = "likes_count DESC, created_at DESC"
	}

	rows := []map[string]interface{}{}
	if err := base.Select(sel).Order(order).Limit(q.Limit).Offset(q.Offset).Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	items := make([]store.FeedItem, 0, len(rows))
	for _, row := range rows {
		item := store.FeedItem{
			Type:     contentType,
			ID:       uint(asInt64(row["id"])),
			AuthorID: uint(asInt64(row["user_id"])),
			Title:    asString(row["title"]),
			Body:     asString(row["body"]),
			Counters: make(map[models.CounterField]int64, len(info.Counters)),
		}
		if t, ok := row["created_at"].(time.Time); ok {
			item.CreatedAt = t.Unix()
		}
		for field := range info.Counters {
			item.Counters[field] = asInt64(row[string(field)])
		}
		items = append(items, item)
	}
	return items, total, nil
}

func (s *Store) CreateComment(ctx context.Context, comment *models.Comment) error {
	return s.db.WithContext(ctx).Create(comment).Error
}

func (s *Store) GetComment(ctx context.Context, id uint) (*models.Comment, error) {
	var comment models.Comment
	err := s.db.WithContext(ctx).First(&comment, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

func (s *Store) DeactivateComment(ctx context.Context, id uint) (bool, error) {
	res := s.db.WithContext(ctx).Model(&models.Comment{}).
		Where("id = ? AND active = ?", id, true).
		Update("active", false)
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected > 0 {
		return true, nil
	}
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Comment{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	if count == 0 {
		return false, store.ErrNotFound
	}
	return false, nil
}

func (s *Store) ListComments(ctx context.Context, contentType models.ContentType, contentID uint, limit, offset int) ([]models.Comment, int64, error) {
	base := s.db.WithContext(ctx).Model(&models.Comment{}).
		Where("content_type = ? AND content_id = ? AND active = ?", contentType, contentID, true)

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var comments []models.Comment
	err := base.Order("created_at ASC").Limit(limit).Offset(offset).Find(&comments).Error
	return comments, total, err
}

func asInt64(v interface{}) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case int32:
		return int64(n)
	case int:
		return int64(n)
	case uint:
		return int64(n)
	case float64:
		return int64(n)
	default:
		return 0
	}
}

func asString(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

func asBool(v interface{}) bool {
	if b, ok := v.(bool); ok {
		return b
	}
	return false
}
