package models

import (
	"time"
)

// InteractionKind distinguishes the ledger facts a user can hold against a
// content item.
type InteractionKind string

const (
	KindLike       InteractionKind = "like"
	KindInterested InteractionKind = "interested"
	KindRating     InteractionKind = "rating"
)

// InteractionRecord is one user's relationship to one content item for one
// kind. The composite unique index is what makes toggling idempotent under
// concurrent attempts; the application never relies on debouncing.
type InteractionRecord struct {
	ID          uint            `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID      uint            `gorm:"not null;uniqueIndex:idx_user_content_kind" json:"userId"`
	ContentType ContentType     `gorm:"type:varchar(20);not null;uniqueIndex:idx_user_content_kind" json:"contentType"`
	ContentID   uint            `gorm:"not null;uniqueIndex:idx_user_content_kind" json:"contentId"`
	Kind        InteractionKind `gorm:"type:varchar(20);not null;uniqueIndex:idx_user_content_kind" json:"kind"`
	Value       int             `gorm:"not null;default:0" json:"value"` // rating payload, 0 for toggles
	CreatedAt   time.Time       `gorm:"autoCreateTime" json:"createdAt"`
}

func (InteractionRecord) TableName() string {
	return "interactions"
}

// CounterForKind maps a toggle/rating kind to the counter column it drives.
func CounterForKind(kind InteractionKind) (CounterField, bool) {
	switch kind {
	case KindLike:
		return CounterLikes, true
	case KindInterested:
		return CounterInterested, true
	case KindRating:
		return CounterRatings, true
	default:
		return "", false
	}
}
