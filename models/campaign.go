package models

import (
	"time"

	"github.com/lib/pq"
)

type CampaignStatus string

const (
	CampaignStatusActive    CampaignStatus = "active"
	CampaignStatusPaused    CampaignStatus = "paused"
	CampaignStatusCompleted CampaignStatus = "completed"
	CampaignStatusCancelled CampaignStatus = "cancelled"
)

// Campaign money is kept in integer cents. SpentCents only ever grows, and
// only through the store's budget-capped increment.
type Campaign struct {
	ID               uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	OwnerUserID      uint           `gorm:"not null;index" json:"ownerUserId"`
	Name             string         `gorm:"type:varchar(200);not null" json:"name"`
	Description      string         `gorm:"type:text" json:"description"`
	Type             string         `gorm:"type:varchar(50);not null" json:"type"` // banner, featured_profile, event_promo
	TargetPages      pq.StringArray `gorm:"type:text[]" json:"targetPages"`
	BudgetTotalCents int64          `gorm:"not null" json:"budgetTotalCents"`
	BudgetDailyCents *int64         `json:"budgetDailyCents,omitempty"`
	SpentCents       int64          `gorm:"not null;default:0" json:"spentCents"`
	Status           CampaignStatus `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
	StartsAt         time.Time      `json:"startsAt"`
	EndsAt           time.Time      `json:"endsAt"`
	CreatedAt        time.Time      `json:"createdAt"`
	UpdatedAt        time.Time      `json:"updatedAt"`
}

// Spend subjects for DailySpend rows.
const (
	SpendSubjectCampaign     = "campaign"
	SpendSubjectPromotedPost = "promoted_post"
)

// DailySpend tracks per-day accrual for a campaign or promoted post so the
// daily cap can be checked in the same transaction as the total.
type DailySpend struct {
	ID          uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	SubjectType string `gorm:"type:varchar(20);not null;uniqueIndex:idx_subject_day" json:"subjectType"`
	SubjectID   uint   `gorm:"not null;uniqueIndex:idx_subject_day" json:"subjectId"`
	Day         string `gorm:"type:varchar(10);not null;uniqueIndex:idx_subject_day" json:"day"` // YYYY-MM-DD, UTC
	SpentCents  int64  `gorm:"not null;default:0" json:"spentCents"`
}

// PromotedPost is a campaign scoped to a single content item, with a boost
// level in place of a target-page list.
type PromotedPost struct {
	ID               uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	OwnerUserID      uint           `gorm:"not null;index" json:"ownerUserId"`
	ContentType      ContentType    `gorm:"type:varchar(20);not null;index:idx_promoted_content" json:"contentType"`
	ContentID        uint           `gorm:"not null;index:idx_promoted_content" json:"contentId"`
	BoostLevel       int            `gorm:"not null;default:1" json:"boostLevel"` // 1..3
	BudgetTotalCents int64          `gorm:"not null" json:"budgetTotalCents"`
	BudgetDailyCents *int64         `json:"budgetDailyCents,omitempty"`
	SpentCents       int64          `gorm:"not null;default:0" json:"spentCents"`
	Status           CampaignStatus `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
	StartsAt         time.Time      `json:"startsAt"`
	EndsAt           time.Time      `json:"endsAt"`
	CreatedAt        time.Time      `json:"createdAt"`
	UpdatedAt        time.Time      `json:"updatedAt"`
}
