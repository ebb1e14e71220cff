package models

import (
	"time"
)

// Comment is immutable once created; moderation or the author can only
// soft-deactivate it, which gives the parent's comments_count back its 1.
type Comment struct {
	ID          uint        `gorm:"primaryKey;autoIncrement" json:"id"`
	ContentType ContentType `gorm:"type:varchar(20);not null;index:idx_comment_content" json:"contentType"`
	ContentID   uint        `gorm:"not null;index:idx_comment_content" json:"contentId"`
	UserID      uint        `gorm:"not null;index" json:"userId"`
	Body        string      `gorm:"type:varchar(2000);not null" json:"body"`
	Active      bool        `gorm:"not null;default:true" json:"active"`
	CreatedAt   time.Time   `gorm:"autoCreateTime" json:"createdAt"`
}
