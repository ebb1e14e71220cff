// Package interactions owns the engagement ledger and the counter
// projection over it: like/interested toggles, ratings, comments, and the
// cascade when content goes away. The ledger is the source of truth; the
// counters on content rows are a display cache kept within one step of it.
package interactions

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/curbline/api-go/models"
	"github.com/curbline/api-go/store"
	"github.com/curbline/api-go/utils"
)

const maxCommentLen = 2000

const (
	minRating = 1
	maxRating = 5
)

type Service struct {
	store interface {
		store.LedgerStore
		store.ContentStore
	}
	log logrus.FieldLogger
}

func NewService(s store.Store, log logrus.FieldLogger) *Service {
	return &Service{store: s, log: log}
}

// ToggleResult carries the landed state plus the authoritative counter so a
// client can reconcile whatever it showed optimistically.
type ToggleResult struct {
	On    bool  `json:"on"`
	Count int64 `json:"count"`
}

func (s *Service) validateTarget(contentType models.ContentType, kind models.InteractionKind) (models.CounterField, error) {
	info, ok := models.ContentRegistry[contentType]
	if !ok {
		return "", utils.Invalid("contentType", "unknown content type")
	}
	field, ok := models.CounterForKind(kind)
	if !ok {
		return "", utils.Invalid("kind", "unknown interaction kind")
	}
	if !info.Counters[field] {
		return "", utils.Invalid("kind", "not supported for this content type")
	}
	return field, nil
}

func (s *Service) HasInteraction(ctx context.Context, userID uint, contentType models.ContentType, contentID uint, kind models.InteractionKind) (bool, error) {
	if _, err := s.validateTarget(contentType, kind); err != nil {
		return false, err
	}
	key := store.InteractionKey{UserID: userID, ContentType: contentType, ContentID: contentID, Kind: kind}
	_, err := s.store.GetInteraction(ctx, key)
	if errors.Is(err, store.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, errors.Wrap(err, "checking interaction")
	}
	return true, nil
}

// Toggle flips the ledger fact for (user, content, kind) and moves the
// counter by exactly one. The unique index arbitrates concurrent toggle-on
// attempts: a lost insert race lands as "on" without a second increment.
func (s *Service) Toggle(ctx context.Context, userID uint, contentType models.ContentType, contentID uint, kind models.InteractionKind) (*ToggleResult, error) {
	if kind == models.KindRating {
		return nil, utils.Invalid("kind", "ratings are set with a value, not toggled")
	}
	field, err := s.validateTarget(contentType, kind)
	if err != nil {
		return nil, err
	}

	meta, err := s.store.GetContentMeta(ctx, contentType, contentID)
	if err != nil {
		return nil, err
	}
	if !meta.Active {
		return nil, store.ErrNotFound
	}

	key := store.InteractionKey{UserID: userID, ContentType: contentType, ContentID: contentID, Kind: kind}

	on := false
	_, err = s.store.GetInteraction(ctx, key)
	switch {
	case errors.Is(err, store.ErrNotFound):
		rec := &models.InteractionRecord{
			UserID:      userID,
			ContentType: contentType,
			ContentID:   contentID,
			Kind:        kind,
		}
		createErr := s.store.CreateInteraction(ctx, rec)
		if errors.Is(createErr, store.ErrConflict) {
			// another attempt for the same key won the race; the fact is on
			// and its increment already happened
			on = true
			break
		}
		if createErr != nil {
			return nil, errors.Wrap(createErr, "creating interaction")
		}
		on = true
		if err := s.applyDelta(ctx, contentType, contentID, field, 1); err != nil {
			return nil, err
		}
	case err != nil:
		return nil, errors.Wrap(err, "checking interaction")
	default:
		deleted, delErr := s.store.DeleteInteraction(ctx, key)
		if delErr != nil {
			return nil, errors.Wrap(delErr, "deleting interaction")
		}
		if deleted {
			if err := s.applyDelta(ctx, contentType, contentID, field, -1); err != nil {
				return nil, err
			}
		}
	}

	count, err := s.currentCount(ctx, contentType, contentID, field)
	if err != nil {
		return nil, err
	}
	return &ToggleResult{On: on, Count: count}, nil
}

// Rate upserts the user's rating and refreshes the stored aggregate from the
// ledger. A rating has no off state; repeat calls replace the value.
func (s *Service) Rate(ctx context.Context, userID uint, contentType models.ContentType, contentID uint, value int) error {
	if value < minRating || value > maxRating {
		return utils.Invalid("value", "rating must be between 1 and 5")
	}
	if _, err := s.validateTarget(contentType, models.KindRating); err != nil {
		return err
	}

	meta, err := s.store.GetContentMeta(ctx, contentType, contentID)
	if err != nil {
		return err
	}
	if !meta.Active {
		return store.ErrNotFound
	}

	key := store.InteractionKey{UserID: userID, ContentType: contentType, ContentID: contentID, Kind: models.KindRating}
	if _, err := s.store.UpsertInteractionValue(ctx, key, value); err != nil {
		return errors.Wrap(err, "upserting rating")
	}

	count, avg, err := s.store.RatingStats(ctx, contentType, contentID)
	if err != nil {
		return errors.Wrap(err, "computing rating stats")
	}
	return s.store.SetRatingAggregate(ctx, contentType, contentID, count, avg)
}

// AddComment records the comment and bumps the parent's comments_count.
func (s *Service) AddComment(ctx context.Context, userID uint, contentType models.ContentType, contentID uint, body string) (*models.Comment, error) {
	if !models.ValidContentType(contentType) {
		return nil, utils.Invalid("contentType", "unknown content type")
	}
	if strings.TrimSpace(body) == "" {
		return nil, utils.Invalid("body", "comment cannot be empty")
	}
	if len(body) > maxCommentLen {
		return nil, utils.Invalid("body", "comment is too long")
	}

	meta, err := s.store.GetContentMeta(ctx, contentType, contentID)
	if err != nil {
		return nil, err
	}
	if !meta.Active {
		return nil, store.ErrNotFound
	}

	comment := &models.Comment{
		ContentType: contentType,
		ContentID:   contentID,
		UserID:      userID,
		Body:        body,
		Active:      true,
	}
	if err := s.store.CreateComment(ctx, comment); err != nil {
		return nil, errors.Wrap(err, "creating comment")
	}
	if err := s.applyDelta(ctx, contentType, contentID, models.CounterComments, 1); err != nil {
		return nil, err
	}
	return comment, nil
}

// DeactivateComment is allowed for the comment's author or a moderator.
func (s *Service) DeactivateComment(ctx context.Context, actor *utils.UserClaims, commentID uint) error {
	comment, err := s.store.GetComment(ctx, commentID)
	if err != nil {
		return err
	}
	if comment.UserID != actor.UserID && !actor.IsModerator() {
		return utils.ErrNotAuthorized
	}

	changed, err := s.store.DeactivateComment(ctx, commentID)
	if err != nil {
		return err
	}
	if changed {
		return s.applyDelta(ctx, comment.ContentType, comment.ContentID, models.CounterComments, -1)
	}
	return nil
}

func (s *Service) ListComments(ctx context.Context, contentType models.ContentType, contentID uint, limit, offset int) ([]models.Comment, int64, error) {
	if !models.ValidContentType(contentType) {
		return nil, 0, utils.Invalid("contentType", "unknown content type")
	}
	return s.store.ListComments(ctx, contentType, contentID, limit, offset)
}

// DeactivateContent soft-deletes an item (owner or moderator) and cascades
// its ledger rows.
func (s *Service) DeactivateContent(ctx context.Context, actor *utils.UserClaims, contentType models.ContentType, contentID uint) error {
	if !models.ValidContentType(contentType) {
		return utils.Invalid("contentType", "unknown content type")
	}
	meta, err := s.store.GetContentMeta(ctx, contentType, contentID)
	if err != nil {
		return err
	}
	if meta.AuthorID != actor.UserID && !actor.IsModerator() {
		return utils.ErrNotAuthorized
	}

	if err := s.store.DeactivateContent(ctx, contentType, contentID); err != nil {
		return err
	}
	deleted, err := s.store.DeleteInteractionsForContent(ctx, contentType, contentID)
	if err != nil {
		return errors.Wrap(err, "cascading interaction delete")
	}
	s.log.WithFields(logrus.Fields{
		"content_type": contentType,
		"content_id":   contentID,
		"ledger_rows":  deleted,
	}).Info("content deactivated")
	return nil
}

// applyDelta moves a counter and logs the integrity warning when the store
// clamps a decrement at zero. The clamp is not an error for the caller.
func (s *Service) applyDelta(ctx context.Context, contentType models.ContentType, contentID uint, field models.CounterField, delta int64) error {
	clamped, err := s.store.AdjustCounter(ctx, contentType, contentID, field, delta)
	if err != nil {
		return errors.Wrap(err, "adjusting counter")
	}
	if clamped {
		s.log.WithFields(logrus.Fields{
			"content_type": contentType,
			"content_id":   contentID,
			"field":        field,
			"delta":        delta,
		}).Warn("counter decrement clamped at zero, ledger and projection disagree")
	}
	return nil
}

func (s *Service) currentCount(ctx context.Context, contentType models.ContentType, contentID uint, field models.CounterField) (int64, error) {
	meta, err := s.store.GetContentMeta(ctx, contentType, contentID)
	if err != nil {
		return 0, err
	}
	return meta.Counters[field], nil
}
