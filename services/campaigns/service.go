// Package campaigns manages promoted-content budgets. Spend accrual is the
// one counter in the system where approximation is not acceptable: every
// increment goes through the store's check-and-increment and a cap violation
// is a hard error, never a clamped write. What eventually drives spend
// events (an ad-serving stream, a billing job) is deliberately left open;
// RecordSpend is the only door it will get.
package campaigns

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/curbline/api-go/models"
	"github.com/curbline/api-go/store"
	"github.com/curbline/api-go/utils"
)

const (
	minBoostLevel = 1
	maxBoostLevel = 3

	dayLayout = "2006-01-02"
)

type Service struct {
	store interface {
		store.CampaignStore
		store.ContentStore
	}
	log logrus.FieldLogger
}

func NewService(s store.Store, log logrus.FieldLogger) *Service {
	return &Service{store: s, log: log}
}

type CampaignInput struct {
	Name             string    `json:"name"`
	Description      string    `json:"description"`
	Type             string    `json:"type"`
	TargetPages      []string  `json:"targetPages"`
	BudgetTotalCents int64     `json:"budgetTotalCents"`
	BudgetDailyCents *int64    `json:"budgetDailyCents,omitempty"`
	StartsAt         time.Time `json:"startsAt"`
	EndsAt           time.Time `json:"endsAt"`
}

type PromotedPostInput struct {
	ContentType      models.ContentType `json:"contentType"`
	ContentID        uint               `json:"contentId"`
	BoostLevel       int                `json:"boostLevel"`
	BudgetTotalCents int64              `json:"budgetTotalCents"`
	BudgetDailyCents *int64             `json:"budgetDailyCents,omitempty"`
	StartsAt         time.Time          `json:"startsAt"`
	EndsAt           time.Time          `json:"endsAt"`
}

func validateBudget(totalCents int64, dailyCents *int64) error {
	if totalCents <= 0 {
		return utils.Invalid("budgetTotalCents", "total budget must be positive")
	}
	if dailyCents != nil {
		if *dailyCents <= 0 {
			return utils.Invalid("budgetDailyCents", "daily budget must be positive")
		}
		if *dailyCents > totalCents {
			return utils.Invalid("budgetDailyCents", "daily budget cannot exceed total")
		}
	}
	return nil
}

func (s *Service) CreateCampaign(ctx context.Context, ownerID uint, in CampaignInput) (*models.Campaign, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, utils.Invalid("name", "name is required")
	}
	if err := validateBudget(in.BudgetTotalCents, in.BudgetDailyCents); err != nil {
		return nil, err
	}
	if !in.EndsAt.IsZero() && !in.EndsAt.After(in.StartsAt) {
		return nil, utils.Invalid("endsAt", "end date must follow start date")
	}

	campaign := &models.Campaign{
		OwnerUserID:      ownerID,
		Name:             in.Name,
		Description:      in.Description,
		Type:             in.Type,
		TargetPages:      in.TargetPages,
		BudgetTotalCents: in.BudgetTotalCents,
		BudgetDailyCents: in.BudgetDailyCents,
		Status:           models.CampaignStatusActive,
		StartsAt:         in.StartsAt,
		EndsAt:           in.EndsAt,
	}
	if err := s.store.CreateCampaign(ctx, campaign); err != nil {
		return nil, errors.Wrap(err, "creating campaign")
	}
	return campaign, nil
}

func (s *Service) GetCampaign(ctx context.Context, actor *utils.UserClaims, id uint) (*models.Campaign, error) {
	campaign, err := s.store.GetCampaign(ctx, id)
	if err != nil {
		return nil, err
	}
	if campaign.OwnerUserID != actor.UserID && !actor.HasRole(utils.RoleAdmin) {
		return nil, utils.ErrNotAuthorized
	}
	return campaign, nil
}

func (s *Service) ListCampaigns(ctx context.Context, ownerID uint, limit, offset int) ([]models.Campaign, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.store.ListCampaigns(ctx, ownerID, limit, offset)
}

// ToggleStatus flips active <-> paused. Completed and cancelled campaigns
// are terminal for this operation.
func (s *Service) ToggleStatus(ctx context.Context, actor *utils.UserClaims, id uint) (models.CampaignStatus, error) {
	campaign, err := s.GetCampaign(ctx, actor, id)
	if err != nil {
		return "", err
	}

	var target models.CampaignStatus
	switch campaign.Status {
	case models.CampaignStatusActive:
		target = models.CampaignStatusPaused
	case models.CampaignStatusPaused:
		target = models.CampaignStatusActive
	default:
		return "", utils.Invalid("status", "only active or paused campaigns can be toggled")
	}

	flipped, err := s.store.UpdateCampaignStatus(ctx, id, campaign.Status, target)
	if err != nil {
		return "", err
	}
	if !flipped {
		// status moved under us; report the current state instead of lying
		current, err := s.store.GetCampaign(ctx, id)
		if err != nil {
			return "", err
		}
		return current.Status, nil
	}
	return target, nil
}

// RecordSpend accrues spend against the campaign's budgets. The day is
// derived in UTC so the daily cap has one unambiguous boundary.
func (s *Service) RecordSpend(ctx context.Context, id uint, amountCents int64, at time.Time) error {
	if amountCents <= 0 {
		return utils.Invalid("amountCents", "spend must be positive")
	}
	day := at.UTC().Format(dayLayout)
	if err := s.store.AddCampaignSpend(ctx, id, amountCents, day); err != nil {
		if errors.Is(err, store.ErrBudgetExceeded) {
			s.log.WithFields(logrus.Fields{
				"campaign_id": id,
				"amount":      amountCents,
				"day":         day,
			}).Warn("spend rejected, budget cap reached")
		}
		return err
	}
	return nil
}

func (s *Service) CreatePromotedPost(ctx context.Context, ownerID uint, in PromotedPostInput) (*models.PromotedPost, error) {
	if !models.ValidContentType(in.ContentType) {
		return nil, utils.Invalid("contentType", "unknown content type")
	}
	if in.BoostLevel < minBoostLevel || in.BoostLevel > maxBoostLevel {
		return nil, utils.Invalid("boostLevel", "boost level must be between 1 and 3")
	}
	if err := validateBudget(in.BudgetTotalCents, in.BudgetDailyCents); err != nil {
		return nil, err
	}

	meta, err := s.store.GetContentMeta(ctx, in.ContentType, in.ContentID)
	if err != nil {
		return nil, err
	}
	if !meta.Active {
		return nil, store.ErrNotFound
	}
	if meta.AuthorID != ownerID {
		return nil, utils.ErrNotAuthorized
	}

	promo := &models.PromotedPost{
		OwnerUserID:      ownerID,
		ContentType:      in.ContentType,
		ContentID:        in.ContentID,
		BoostLevel:       in.BoostLevel,
		BudgetTotalCents: in.BudgetTotalCents,
		BudgetDailyCents: in.BudgetDailyCents,
		Status:           models.CampaignStatusActive,
		StartsAt:         in.StartsAt,
		EndsAt:           in.EndsAt,
	}
	if err := s.store.CreatePromotedPost(ctx, promo); err != nil {
		return nil, errors.Wrap(err, "creating promoted post")
	}
	return promo, nil
}

func (s *Service) TogglePromotedPostStatus(ctx context.Context, actor *utils.UserClaims, id uint) (models.CampaignStatus, error) {
	promo, err := s.store.GetPromotedPost(ctx, id)
	if err != nil {
		return "", err
	}
	if promo.OwnerUserID != actor.UserID && !actor.HasRole(utils.RoleAdmin) {
		return "", utils.ErrNotAuthorized
	}

	var target models.CampaignStatus
	switch promo.Status {
	case models.CampaignStatusActive:
		target = models.CampaignStatusPaused
	case models.CampaignStatusPaused:
		target = models.CampaignStatusActive
	default:
		return "", utils.Invalid("status", "only active or paused promotions can be toggled")
	}

	flipped, err := s.store.UpdatePromotedPostStatus(ctx, id, promo.Status, target)
	if err != nil {
		return "", err
	}
	if !flipped {
		current, err := s.store.GetPromotedPost(ctx, id)
		if err != nil {
			return "", err
		}
		return current.Status, nil
	}
	return target, nil
}

func (s *Service) RecordPromotedPostSpend(ctx context.Context, id uint, amountCents int64, at time.Time) error {
	if amountCents <= 0 {
		return utils.Invalid("amountCents", "spend must be positive")
	}
	return s.store.AddPromotedPostSpend(ctx, id, amountCents, at.UTC().Format(dayLayout))
}
