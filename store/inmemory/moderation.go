package inmemory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/curbline/api-go/models"
	"github.com/curbline/api-go/store"
)

func (s *Store) CreateReport(ctx context.Context, report *models.Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	report.ID = s.nextIDLocked()
	report.Status = models.ReportStatusPending
	report.CreatedAt = time.Now()
	cp := *report
	s.reports[report.ID] = &cp
	return nil
}

func (s *Store) GetReport(ctx context.Context, id uint) (*models.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	report, ok := s.reports[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *report
	return &cp, nil
}

func (s *Store) PendingReports(ctx context.Context, limit, offset int) ([]models.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.Report
	for _, report := range s.reports {
		if report.Status == models.ReportStatusPending {
			out = append(out, *report)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Priority != out[j].Priority {
			return out[i].Priority > out[j].Priority
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})

	start := offset
	if start > len(out) {
		start = len(out)
	}
	end := start + limit
	if limit <= 0 || end > len(out) {
		end = len(out)
	}
	return out[start:end], nil
}

func (s *Store) ResolveReport(ctx context.Context, reportID uint, action *models.ModerationAction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	report, ok := s.reports[reportID]
	if !ok {
		return store.ErrNotFound
	}
	if report.Status != models.ReportStatusPending {
		return store.ErrAlreadyResolved
	}

	now := time.Now()
	report.Status = models.ReportStatusResolved
	report.ResolvedAt = &now

	action.ID = s.nextIDLocked()
	action.ReportID = &reportID
	action.CreatedAt = now
	cp := *action
	s.actions[action.ID] = &cp
	return nil
}

func (s *Store) CreateAction(ctx context.Context, action *models.ModerationAction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	action.ID = s.nextIDLocked()
	action.CreatedAt = time.Now()
	cp := *action
	s.actions[action.ID] = &cp
	return nil
}

func (s *Store) ActionsForTarget(ctx context.Context, targetType string, targetID uint) ([]models.ModerationAction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.ModerationAction
	for _, action := range s.actions {
		if action.TargetType == targetType && action.TargetID == targetID {
			out = append(out, *action)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (s *Store) CreateWarning(ctx context.Context, warning *models.UserWarning) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	warning.ID = s.nextIDLocked()
	warning.CreatedAt = time.Now()
	cp := *warning
	s.warnings[warning.ID] = &cp
	return nil
}

func (s *Store) GetWarning(ctx context.Context, id uint) (*models.UserWarning, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	warning, ok := s.warnings[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *warning
	return &cp, nil
}

func (s *Store) AcknowledgeWarning(ctx context.Context, id uint) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	warning, ok := s.warnings[id]
	if !ok {
		return false, store.ErrNotFound
	}
	if warning.Acknowledged {
		return false, nil
	}
	warning.Acknowledged = true
	return true, nil
}

func (s *Store) ListWarnings(ctx context.Context, f store.WarningFilter) ([]models.UserWarning, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.UserWarning
	for _, warning := range s.warnings {
		if f.TargetUserID != nil && warning.TargetUserID != *f.TargetUserID {
			continue
		}
		if f.Acknowledged != nil && warning.Acknowledged != *f.Acknowledged {
			continue
		}
		out = append(out, *warning)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })

	start := f.Offset
	if start > len(out) {
		start = len(out)
	}
	end := start + f.Limit
	if f.Limit <= 0 || end > len(out) {
		end = len(out)
	}
	return out[start:end], nil
}

// === Campaigns ===

func (s *Store) CreateCampaign(ctx context.Context, campaign *models.Campaign) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	campaign.ID = s.nextIDLocked()
	campaign.CreatedAt = time.Now()
	cp := *campaign
	s.campaigns[campaign.ID] = &cp
	return nil
}

func (s *Store) GetCampaign(ctx context.Context, id uint) (*models.Campaign, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	campaign, ok := s.campaigns[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *campaign
	return &cp, nil
}

func (s *Store) ListCampaigns(ctx context.Context, ownerID uint, limit, offset int) ([]models.Campaign, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.Campaign
	for _, campaign := range s.campaigns {
		if campaign.OwnerUserID == ownerID {
			out = append(out, *campaign)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })

	start := offset
	if start > len(out) {
		start = len(out)
	}
	end := start + limit
	if limit <= 0 || end > len(out) {
		end = len(out)
	}
	return out[start:end], nil
}

func (s *Store) UpdateCampaignStatus(ctx context.Context, id uint, from, to models.CampaignStatus) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	campaign, ok := s.campaigns[id]
	if !ok {
		return false, store.ErrNotFound
	}
	if campaign.Status != from {
		return false, nil
	}
	campaign.Status = to
	return true, nil
}

func dailyKey(subjectType string, subjectID uint, day string) string {
	return fmt.Sprintf("%s/%d/%s", subjectType, subjectID, day)
}

func (s *Store) AddCampaignSpend(ctx context.Context, id uint, amountCents int64, day string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	campaign, ok := s.campaigns[id]
	if !ok {
		return store.ErrNotFound
	}
	if campaign.SpentCents+amountCents > campaign.BudgetTotalCents {
		return store.ErrBudgetExceeded
	}
	key := dailyKey(models.SpendSubjectCampaign, id, day)
	if campaign.BudgetDailyCents != nil && s.dailySpend[key]+amountCents > *campaign.BudgetDailyCents {
		return store.ErrBudgetExceeded
	}

	campaign.SpentCents += amountCents
	s.dailySpend[key] += amountCents
	return nil
}

func (s *Store) CreatePromotedPost(ctx context.Context, promo *models.PromotedPost) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	promo.ID = s.nextIDLocked()
	promo.CreatedAt = time.Now()
	cp := *promo
	s.promos[promo.ID] = &cp
	return nil
}

func (s *Store) GetPromotedPost(ctx context.Context, id uint) (*models.PromotedPost, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	promo, ok := s.promos[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *promo
	return &cp, nil
}

func (s *Store) UpdatePromotedPostStatus(ctx context.Context, id uint, from, to models.CampaignStatus) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	promo, ok := s.promos[id]
	if !ok {
		return false, store.ErrNotFound
	}
	if promo.Status != from {
		return false, nil
	}
	promo.Status = to
	return true, nil
}

func (s *Store) AddPromotedPostSpend(ctx context.Context, id uint, amountCents int64, day string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	promo, ok := s.promos[id]
	if !ok {
		return store.ErrNotFound
	}
	if promo.SpentCents+amountCents > promo.BudgetTotalCents {
		return store.ErrBudgetExceeded
	}
	key := dailyKey(models.SpendSubjectPromotedPost, id, day)
	if promo.BudgetDailyCents != nil && s.dailySpend[key]+amountCents > *promo.BudgetDailyCents {
		return store.ErrBudgetExceeded
	}

	promo.SpentCents += amountCents
	s.dailySpend[key] += amountCents
	return nil
}
