// Package inmemory implements store.Store with mutex-guarded maps. It keeps
// the same semantics as the postgres implementation (unique ledger keys,
// guarded counter decrements, write-once resolution, budget-capped spend)
// and backs the unit tests.
package inmemory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/curbline/api-go/models"
	"github.com/curbline/api-go/store"
)

type contentItem struct {
	id        uint
	authorID  uint
	title     string
	body      string
	active    bool
	counters  map[models.CounterField]int64
	rating    float64
	createdAt time.Time
}

type Store struct {
	mu sync.Mutex

	nextID       uint
	content      map[models.ContentType]map[uint]*contentItem
	interactions map[store.InteractionKey]*models.InteractionRecord
	comments     map[uint]*models.Comment
	reports      map[uint]*models.Report
	actions      map[uint]*models.ModerationAction
	warnings     map[uint]*models.UserWarning
	campaigns    map[uint]*models.Campaign
	promos       map[uint]*models.PromotedPost
	dailySpend   map[string]int64 // subjectType/subjectID/day -> cents
}

func New() *Store {
	s := &Store{
		content:      make(map[models.ContentType]map[uint]*contentItem),
		interactions: make(map[store.InteractionKey]*models.InteractionRecord),
		comments:     make(map[uint]*models.Comment),
		reports:      make(map[uint]*models.Report),
		actions:      make(map[uint]*models.ModerationAction),
		warnings:     make(map[uint]*models.UserWarning),
		campaigns:    make(map[uint]*models.Campaign),
		promos:       make(map[uint]*models.PromotedPost),
		dailySpend:   make(map[string]int64),
	}
	for contentType := range models.ContentRegistry {
		s.content[contentType] = make(map[uint]*contentItem)
	}
	return s
}

var _ store.Store = (*Store)(nil)

func (s *Store) nextIDLocked() uint {
	s.nextID++
	return s.nextID
}

// SeedContent creates a content item directly; content authoring is outside
// the adapter surface, so tests use this.
func (s *Store) SeedContent(contentType models.ContentType, authorID uint, title, body string) uint {
	s.mu.Lock()
	defer s.mu.Unlock()

	info := models.ContentRegistry[contentType]
	item := &contentItem{
		id:        s.nextIDLocked(),
		authorID:  authorID,
		title:     title,
		body:      body,
		active:    true,
		counters:  make(map[models.CounterField]int64, len(info.Counters)),
		createdAt: time.Now(),
	}
	for field := range info.Counters {
		item.counters[field] = 0
	}
	s.content[contentType][item.id] = item
	return item.id
}

// === Ledger ===

func (s *Store) GetInteraction(ctx context.Context, key store.InteractionKey) (*models.InteractionRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.interactions[key]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *rec
	return &cp, nil
}

func (s *Store) CreateInteraction(ctx context.Context, rec *models.InteractionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := store.InteractionKey{
		UserID:      rec.UserID,
		ContentType: rec.ContentType,
		ContentID:   rec.ContentID,
		Kind:        rec.Kind,
	}
	if _, exists := s.interactions[key]; exists {
		return store.ErrConflict
	}
	rec.ID = s.nextIDLocked()
	rec.CreatedAt = time.Now()
	cp := *rec
	s.interactions[key] = &cp
	return nil
}

func (s *Store) DeleteInteraction(ctx context.Context, key store.InteractionKey) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.interactions[key]; !ok {
		return false, nil
	}
	delete(s.interactions, key)
	return true, nil
}

func (s *Store) UpsertInteractionValue(ctx context.Context, key store.InteractionKey, value int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec, ok := s.interactions[key]; ok {
		rec.Value = value
		return false, nil
	}
	s.interactions[key] = &models.InteractionRecord{
		ID:          s.nextIDLocked(),
		UserID:      key.UserID,
		ContentType: key.ContentType,
		ContentID:   key.ContentID,
		Kind:        key.Kind,
		Value:       value,
		CreatedAt:   time.Now(),
	}
	return true, nil
}

func (s *Store) CountInteractions(ctx context.Context, contentType models.ContentType, contentID uint, kind models.InteractionKind) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var count int64
	for key := range s.interactions {
		if key.ContentType == contentType && key.ContentID == contentID && key.Kind == kind {
			count++
		}
	}
	return count, nil
}

func (s *Store) RatingStats(ctx context.Context, contentType models.ContentType, contentID uint) (int64, float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var count, sum int64
	for key, rec := range s.interactions {
		if key.ContentType == contentType && key.ContentID == contentID && key.Kind == models.KindRating {
			count++
			sum += int64(rec.Value)
		}
	}
	if count == 0 {
		return 0, 0, nil
	}
	return count, float64(sum) / float64(count), nil
}

func (s *Store) DeleteInteractionsForContent(ctx context.Context, contentType models.ContentType, contentID uint) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var deleted int64
	for key := range s.interactions {
		if key.ContentType == contentType && key.ContentID == contentID {
			delete(s.interactions, key)
			deleted++
		}
	}
	return deleted, nil
}

// === Content / counters / comments ===

func (s *Store) getItemLocked(contentType models.ContentType, contentID uint) (*contentItem, error) {
	byID, ok := s.content[contentType]
	if !ok {
		return nil, fmt.Errorf("unknown content type %q", contentType)
	}
	item, ok := byID[contentID]
	if !ok {
		return nil, store.ErrNotFound
	}
	return item, nil
}

func (s *Store) GetContentMeta(ctx context.Context, contentType models.ContentType, contentID uint) (*store.ContentMeta, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, err := s.getItemLocked(contentType, contentID)
	if err != nil {
		return nil, err
	}
	meta := &store.ContentMeta{
		ID:       item.id,
		AuthorID: item.authorID,
		Active:   item.active,
		Counters: make(map[models.CounterField]int64, len(item.counters)),
	}
	for field, v := range item.counters {
		meta.Counters[field] = v
	}
	return meta, nil
}

func (s *Store) AdjustCounter(ctx context.Context, contentType models.ContentType, contentID uint, field models.CounterField, delta int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, err := s.getItemLocked(contentType, contentID)
	if err != nil {
		return false, err
	}
	if _, ok := item.counters[field]; !ok {
		return false, fmt.Errorf("content type %q has no counter %q", contentType, field)
	}
	if item.counters[field]+delta < 0 {
		return true, nil
	}
	item.counters[field] += delta
	return false, nil
}

func (s *Store) SetRatingAggregate(ctx context.Context, contentType models.ContentType, contentID uint, count int64, avg float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, err := s.getItemLocked(contentType, contentID)
	if err != nil {
		return err
	}
	if _, ok := item.counters[models.CounterRatings]; !ok {
		return fmt.Errorf("content type %q is not ratable", contentType)
	}
	item.counters[models.CounterRatings] = count
	item.rating = avg
	return nil
}

func (s *Store) DeactivateContent(ctx context.Context, contentType models.ContentType, contentID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, err := s.getItemLocked(contentType, contentID)
	if err != nil {
		return err
	}
	item.active = false
	return nil
}

func (s *Store) ListContent(ctx context.Context, contentType models.ContentType, q store.ContentQuery) ([]store.FeedItem, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	byID, ok := s.content[contentType]
	if !ok {
		return nil, 0, fmt.Errorf("unknown content type %q", contentType)
	}

	items := make([]*contentItem, 0, len(byID))
	for _, item := range byID {
		if !item.active {
			continue
		}
		if q.AuthorID != nil && item.authorID != *q.AuthorID {
			continue
		}
		items = append(items, item)
	}

	if q.Sort == store.SortPopular {
		sort.Slice(items, func(i, j int) bool {
			if items[i].counters[models.CounterLikes] != items[j].counters[models.CounterLikes] {
				return items[i].counters[models.CounterLikes] > items[j].counters[models.CounterLikes]
			}
			return items[i].createdAt.After(items[j].createdAt)
		})
	} else {
		sort.Slice(items, func(i, j int) bool {
			return items[i].createdAt.After(items[j].createdAt)
		})
	}

	total := int64(len(items))
	start := q.Offset
	if start > len(items) {
		start = len(items)
	}
	end := start + q.Limit
	if q.Limit <= 0 || end > len(items) {
		end = len(items)
	}

	out := make([]store.FeedItem, 0, end-start)
	for _, item := range items[start:end] {
		fi := store.FeedItem{
			Type:      contentType,
			ID:        item.id,
			AuthorID:  item.authorID,
			Title:     item.title,
			Body:      item.body,
			Counters:  make(map[models.CounterField]int64, len(item.counters)),
			CreatedAt: item.createdAt.Unix(),
		}
		for field, v := range item.counters {
			fi.Counters[field] = v
		}
		out = append(out, fi)
	}
	return out, total, nil
}

func (s *Store) CreateComment(ctx context.Context, comment *models.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	comment.ID = s.nextIDLocked()
	comment.Active = true
	comment.CreatedAt = time.Now()
	cp := *comment
	s.comments[comment.ID] = &cp
	return nil
}

func (s *Store) GetComment(ctx context.Context, id uint) (*models.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	comment, ok := s.comments[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *comment
	return &cp, nil
}

func (s *Store) DeactivateComment(ctx context.Context, id uint) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	comment, ok := s.comments[id]
	if !ok {
		return false, store.ErrNotFound
	}
	if !comment.Active {
		return false, nil
	}
	comment.Active = false
	return true, nil
}

func (s *Store) ListComments(ctx context.Context, contentType models.ContentType, contentID uint, limit, offset int) ([]models.Comment, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.Comment
	for _, comment := range s.comments {
		if comment.ContentType == contentType && comment.ContentID == contentID && comment.Active {
			out = append(out, *comment)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	total := int64(len(out))
	start := offset
	if start > len(out) {
		start = len(out)
	}
	end := start + limit
	if limit <= 0 || end > len(out) {
		end = len(out)
	}
	return out[start:end], total, nil
}
