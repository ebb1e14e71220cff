// Package store defines the contract between the engagement/moderation/
// campaign services and the backing content store. Two implementations
// exist: postgres (gorm) and inmemory (tests).
//
// Multi-step atomic operations (resolving a report together with its audit
// action, budget-capped spend accrual) are single methods here; an
// implementation must make them all-or-nothing.
package store

import (
	"context"
	"errors"

	"github.com/curbline/api-go/models"
)

var (
	ErrNotFound        = errors.New("record not found")
	ErrConflict        = errors.New("record already exists")
	ErrAlreadyResolved = errors.New("report already resolved")
	ErrBudgetExceeded  = errors.New("spend would exceed budget")
)

// InteractionKey identifies one ledger row: at most one record may exist
// per key.
type InteractionKey struct {
	UserID      uint
	ContentType models.ContentType
	ContentID   uint
	Kind        models.InteractionKind
}

// ContentMeta is the slice of a content item the core needs: who owns it,
// whether it is live, and its current counter values.
type ContentMeta struct {
	ID       uint
	AuthorID uint
	Active   bool
	Counters map[models.CounterField]int64
}

// FeedItem is the plain-data projection handed to the presentation layer.
type FeedItem struct {
	Type      models.ContentType            `json:"type"`
	ID        uint                          `json:"id"`
	AuthorID  uint                          `json:"authorId"`
	Title     string                        `json:"title"`
	Body      string                        `json:"body"`
	Counters  map[models.CounterField]int64 `json:"counters"`
	CreatedAt int64                         `json:"createdAt"` // unix seconds
}

type SortOrder string

const (
	SortNewest  SortOrder = "newest"
	SortPopular SortOrder = "popular" // likes_count desc
)

type ContentQuery struct {
	Sort     SortOrder
	AuthorID *uint
	Limit    int
	Offset   int
}

type WarningFilter struct {
	TargetUserID *uint
	Acknowledged *bool
	Limit        int
	Offset       int
}

type LedgerStore interface {
	GetInteraction(ctx context.Context, key InteractionKey) (*models.InteractionRecord, error)
	// CreateInteraction returns ErrConflict when a row for the key already
	// exists; the unique index is the arbiter, not a prior read.
	CreateInteraction(ctx context.Context, rec *models.InteractionRecord) error
	// DeleteInteraction reports whether a row was actually removed.
	DeleteInteraction(ctx context.Context, key InteractionKey) (bool, error)
	// UpsertInteractionValue creates the row with the given value or
	// overwrites the value in place; created tells the caller whether the
	// ratings counter moved.
	UpsertInteractionValue(ctx context.Context, key InteractionKey, value int) (created bool, err error)
	CountInteractions(ctx context.Context, contentType models.ContentType, contentID uint, kind models.InteractionKind) (int64, error)
	// RatingStats recomputes the aggregate from the ledger.
	RatingStats(ctx context.Context, contentType models.ContentType, contentID uint) (count int64, avg float64, err error)
	// DeleteInteractionsForContent cascades ledger rows when content goes away.
	DeleteInteractionsForContent(ctx context.Context, contentType models.ContentType, contentID uint) (int64, error)
}

type ContentStore interface {
	GetContentMeta(ctx context.Context, contentType models.ContentType, contentID uint) (*ContentMeta, error)
	// AdjustCounter applies the delta as one atomic store-side operation,
	// never read-then-write. A decrement that would go below zero is skipped
	// and reported via clamped so the caller can log the integrity warning.
	AdjustCounter(ctx context.Context, contentType models.ContentType, contentID uint, field models.CounterField, delta int64) (clamped bool, err error)
	SetRatingAggregate(ctx context.Context, contentType models.ContentType, contentID uint, count int64, avg float64) error
	DeactivateContent(ctx context.Context, contentType models.ContentType, contentID uint) error
	ListContent(ctx context.Context, contentType models.ContentType, q ContentQuery) ([]FeedItem, int64, error)

	CreateComment(ctx context.Context, comment *models.Comment) error
	GetComment(ctx context.Context, id uint) (*models.Comment, error)
	// DeactivateComment reports whether the comment was active before the
	// call, so the counter moves at most once.
	DeactivateComment(ctx context.Context, id uint) (bool, error)
	ListComments(ctx context.Context, contentType models.ContentType, contentID uint, limit, offset int) ([]models.Comment, int64, error)
}

type ModerationStore interface {
	CreateReport(ctx context.Context, report *models.Report) error
	GetReport(ctx context.Context, id uint) (*models.Report, error)
	// PendingReports orders by priority descending, then oldest first.
	PendingReports(ctx context.Context, limit, offset int) ([]models.Report, error)
	// ResolveReport marks the report resolved and writes the audit action in
	// one transaction. Returns ErrAlreadyResolved if the report left pending
	// before this call.
	ResolveReport(ctx context.Context, reportID uint, action *models.ModerationAction) error
	CreateAction(ctx context.Context, action *models.ModerationAction) error
	ActionsForTarget(ctx context.Context, targetType string, targetID uint) ([]models.ModerationAction, error)

	CreateWarning(ctx context.Context, warning *models.UserWarning) error
	GetWarning(ctx context.Context, id uint) (*models.UserWarning, error)
	// AcknowledgeWarning flips the flag one way; reports whether it changed.
	AcknowledgeWarning(ctx context.Context, id uint) (bool, error)
	ListWarnings(ctx context.Context, f WarningFilter) ([]models.UserWarning, error)
}

type CampaignStore interface {
	CreateCampaign(ctx context.Context, campaign *models.Campaign) error
	GetCampaign(ctx context.Context, id uint) (*models.Campaign, error)
	ListCampaigns(ctx context.Context, ownerID uint, limit, offset int) ([]models.Campaign, error)
	// UpdateCampaignStatus transitions from -> to atomically; reports false
	// when the campaign was not in the from state.
	UpdateCampaignStatus(ctx context.Context, id uint, from, to models.CampaignStatus) (bool, error)
	// AddCampaignSpend is the atomic check-and-increment behind the budget
	// invariant: it applies the delta to the total and the day's accrual only
	// if both caps hold, otherwise ErrBudgetExceeded and no change.
	AddCampaignSpend(ctx context.Context, id uint, amountCents int64, day string) error

	CreatePromotedPost(ctx context.Context, promo *models.PromotedPost) error
	GetPromotedPost(ctx context.Context, id uint) (*models.PromotedPost, error)
	UpdatePromotedPostStatus(ctx context.Context, id uint, from, to models.CampaignStatus) (bool, error)
	AddPromotedPostSpend(ctx context.Context, id uint, amountCents int64, day string) error
}

// Store is the full adapter surface.
type Store interface {
	LedgerStore
	ContentStore
	ModerationStore
	CampaignStore
}
