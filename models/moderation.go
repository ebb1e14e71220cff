package models

import (
	"time"
)

type ReportStatus string

const (
	ReportStatusPending  ReportStatus = "pending"
	ReportStatusResolved ReportStatus = "resolved"
)

// TargetTypeUser marks a report or action aimed at a user account rather
// than a content item; content targets carry the ContentType tag.
const TargetTypeUser = "user"

// ResolutionAction is the closed set of outcomes a moderator can record.
type ResolutionAction string

const (
	ActionNoAction       ResolutionAction = "no_action"
	ActionContentRemoved ResolutionAction = "content_removed"
	ActionUserWarned     ResolutionAction = "user_warned"
	ActionUserSuspended  ResolutionAction = "user_suspended"
	ActionUserBanned     ResolutionAction = "user_banned"
)

func ValidResolutionAction(a ResolutionAction) bool {
	switch a {
	case ActionNoAction, ActionContentRemoved, ActionUserWarned, ActionUserSuspended, ActionUserBanned:
		return true
	}
	return false
}

// Report is a moderation case. Status moves pending -> resolved exactly
// once; the resolution write and its audit action are one transaction.
type Report struct {
	ID             uint         `gorm:"primaryKey;autoIncrement" json:"id"`
	ReporterUserID uint         `gorm:"not null;index" json:"reporterUserId"`
	TargetType     string       `gorm:"type:varchar(20);not null" json:"targetType"` // "user" or a content type tag
	TargetID       uint         `gorm:"not null" json:"targetId"`
	Reason         string       `gorm:"type:varchar(100);not null" json:"reason"`
	Description    string       `gorm:"type:text" json:"description"`
	Priority       int          `gorm:"not null;default:0" json:"priority"`
	Status         ReportStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	ResolvedAt     *time.Time   `json:"resolvedAt,omitempty"`
	CreatedAt      time.Time    `gorm:"autoCreateTime" json:"createdAt"`
}

// ModerationAction is an append-only audit record. One is written for every
// resolved report, no_action included, so "reviewed" is always provable.
type ModerationAction struct {
	ID          uint             `gorm:"primaryKey;autoIncrement" json:"id"`
	ModeratorID uint             `gorm:"not null;index" json:"moderatorId"`
	TargetType  string           `gorm:"type:varchar(20);not null;index:idx_action_target" json:"targetType"`
	TargetID    uint             `gorm:"not null;index:idx_action_target" json:"targetId"`
	ActionType  ResolutionAction `gorm:"type:varchar(30);not null" json:"actionType"`
	Reason      string           `gorm:"type:text" json:"reason"`
	ReportID    *uint            `gorm:"uniqueIndex" json:"reportId,omitempty"` // nil for direct actions
	CreatedAt   time.Time        `gorm:"autoCreateTime" json:"createdAt"`
}

// UserWarning is independent of the report queue; acknowledgement flips
// false -> true once and never back.
type UserWarning struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	TargetUserID uint      `gorm:"not null;index" json:"targetUserId"`
	ModeratorID  uint      `gorm:"not null" json:"moderatorId"`
	Type         string    `gorm:"type:varchar(50);not null" json:"type"`
	Severity     string    `gorm:"type:varchar(20);not null;default:'low'" json:"severity"` // low, medium, high
	Message      string    `gorm:"type:text;not null" json:"message"`
	Acknowledged bool      `gorm:"not null;default:false" json:"acknowledged"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"createdAt"`
}
