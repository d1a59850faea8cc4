package donation

import (
	"context"
	"net/http"

	validator "github.com/go-playground/validator/v10"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"github.com/glaadoo/print-power-purpose/internal/common"
	"github.com/glaadoo/print-power-purpose/internal/events"
	"github.com/glaadoo/print-power-purpose/internal/obs"
)

// TaskEnqueuer abstracts the asynq client so tests can capture enqueued tasks.
type TaskEnqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// RecordInput is the payload for recording a donation. Amounts are accepted in
// cents or whole dollars; cents win when both are present.
type RecordInput struct {
	DonorID     string   `json:"donorId" validate:"required"`
	DonorName   string   `json:"donorName"`
	DonorEmail  string   `json:"donorEmail" validate:"omitempty,email"`
	AmountCents *float64 `json:"amountCents,omitempty"`
	AmountUSD   *float64 `json:"amountUsd,omitempty"`
	OrderRef    string   `json:"orderRef"`
}

// RecordResult reports what the ledger did with a submission. Sub-minimum and
// non-positive amounts are acknowledged without being recorded.
type RecordResult struct {
	Recorded bool      `json:"recorded"`
	Donation *Donation `json:"donation,omitempty"`
	Unlocked []Tier    `json:"unlocked,omitempty"`
}

// MilestoneStatus is a donor's position on the milestone ladder.
type MilestoneStatus struct {
	DonorID    string   `json:"donorId"`
	TotalCents int64    `json:"totalCents"`
	Achieved   []Tier   `json:"achieved"`
	Current    *Tier    `json:"current"`
	Next       *Tier    `json:"next"`
	Progress   Progress `json:"progress"`
}

// Service orchestrates the donation ledger: normalization, persistence,
// milestone detection and receipt dispatch.
type Service struct {
	Store    Store
	Cache    *TotalsCache
	Validate *validator.Validate
	Events   *events.Bus
	Tasks    TaskEnqueuer
	Marks    Marker
	Currency string
	Logger   *zerolog.Logger
}

// Record normalizes and persists a donation, then fans out the side effects:
// cache refresh, ledger event, receipt task and milestone detection.
func (s *Service) Record(ctx context.Context, in RecordInput) (RecordResult, error) {
	if s.Validate != nil {
		if err := s.Validate.Struct(in); err != nil {
			if obs.DonationRecordedTotal != nil {
				obs.DonationRecordedTotal.WithLabelValues("invalid").Inc()
			}
			return RecordResult{}, common.NewAppError("VALIDATION", "invalid donation payload", http.StatusUnprocessableEntity, err)
		}
	}

	amount := normalizeAmount(in)
	if amount == 0 {
		if obs.DonationRecordedTotal != nil {
			obs.DonationRecordedTotal.WithLabelValues("skipped").Inc()
		}
		return RecordResult{Recorded: false}, nil
	}

	prevTotal, err := s.donorTotal(ctx, in.DonorID)
	if err != nil {
		return RecordResult{}, err
	}

	stored, err := s.Store.Insert(ctx, Donation{
		DonorID:     in.DonorID,
		DonorName:   in.DonorName,
		DonorEmail:  in.DonorEmail,
		AmountCents: amount,
		Currency:    s.Currency,
		OrderRef:    in.OrderRef,
	})
	if err != nil {
		if obs.DonationRecordedTotal != nil {
			obs.DonationRecordedTotal.WithLabelValues("error").Inc()
		}
		return RecordResult{}, err
	}

	newTotal := prevTotal + amount
	if err := s.Cache.Set(ctx, in.DonorID, newTotal); err != nil {
		s.warn(err, in.DonorID, "donor total cache write failed")
	}

	if obs.DonationRecordedTotal != nil {
		obs.DonationRecordedTotal.WithLabelValues("ok").Inc()
	}
	if obs.DonationAmountCents != nil {
		obs.DonationAmountCents.Add(float64(amount))
	}

	if s.Events != nil {
		if _, err := s.Events.Emit(ctx, events.TopicDonationRecorded, stored.ID.String(), stored); err != nil {
			s.warn(err, in.DonorID, "emit donation event failed")
		}
	}
	s.enqueueReceipt(ctx, stored)

	unlocked := s.detectMilestones(ctx, stored, prevTotal, newTotal)
	return RecordResult{Recorded: true, Donation: &stored, Unlocked: unlocked}, nil
}

// Milestones returns a donor's milestone ladder position, reading the lifetime
// total through the cache.
func (s *Service) Milestones(ctx context.Context, donorID string) (MilestoneStatus, error) {
	if donorID == "" {
		return MilestoneStatus{}, common.NewAppError("BAD_REQUEST", "donor id is required", http.StatusBadRequest, nil)
	}
	total, err := s.donorTotal(ctx, donorID)
	if err != nil {
		return MilestoneStatus{}, err
	}
	return MilestoneStatus{
		DonorID:    donorID,
		TotalCents: total,
		Achieved:   AchievedTiers(total),
		Current:    CurrentTier(total),
		Next:       NextTier(total),
		Progress:   ProgressToNextTier(total),
	}, nil
}

// List returns a page of the ledger for the admin surface.
func (s *Service) List(ctx context.Context, page, perPage int) ([]Donation, common.Pagination, error) {
	offset := (page - 1) * perPage
	items, total, err := s.Store.List(ctx, perPage, offset)
	if err != nil {
		return nil, common.Pagination{}, err
	}
	return items, common.Pagination{Page: page, PerPage: perPage, TotalItems: total}, nil
}

func (s *Service) donorTotal(ctx context.Context, donorID string) (int64, error) {
	if total, ok, err := s.Cache.Get(ctx, donorID); err == nil && ok {
		return total, nil
	} else if err != nil {
		s.warn(err, donorID, "donor total cache read failed")
	}
	total, err := s.Store.DonorTotalCents(ctx, donorID)
	if err != nil {
		return 0, err
	}
	if err := s.Cache.Set(ctx, donorID, total); err != nil {
		s.warn(err, donorID, "donor total cache write failed")
	}
	return total, nil
}

// detectMilestones finds tiers crossed by this donation and fans out the
// congratulation side effects for each.
func (s *Service) detectMilestones(ctx context.Context, d Donation, prevTotal, newTotal int64) []Tier {
	var unlocked []Tier
	for _, tier := range Tiers() {
		if tier.AmountCents > prevTotal && tier.AmountCents <= newTotal {
			unlocked = append(unlocked, tier)
		}
	}
	for _, tier := range unlocked {
		if s.Marks != nil {
			// Claim the announcement so the periodic sweep skips this tier.
			// The claim is best effort; the donor unlocked it either way.
			if _, err := s.Marks.Mark(ctx, d.DonorID, tier.ID); err != nil {
				s.warn(err, d.DonorID, "milestone marker unavailable")
			}
		}
		if obs.MilestoneAchievedTotal != nil {
			obs.MilestoneAchievedTotal.WithLabelValues(tier.ID).Inc()
		}
		if s.Events != nil {
			payload := map[string]any{
				"donorId":    d.DonorID,
				"tierId":     tier.ID,
				"tierName":   tier.Name,
				"totalCents": newTotal,
			}
			if _, err := s.Events.Emit(ctx, events.TopicMilestoneAchieved, d.DonorID, payload); err != nil {
				s.warn(err, d.DonorID, "emit milestone event failed")
			}
		}
		s.enqueueMilestone(ctx, d, tier, newTotal)
	}
	return unlocked
}

func (s *Service) enqueueReceipt(ctx context.Context, d Donation) {
	if s.Tasks == nil || d.DonorEmail == "" {
		return
	}
	task, err := NewReceiptTask(ReceiptPayload{
		DonationID:  d.ID.String(),
		DonorID:     d.DonorID,
		DonorName:   d.DonorName,
		DonorEmail:  d.DonorEmail,
		AmountCents: d.AmountCents,
		Currency:    d.Currency,
	})
	if err != nil {
		s.warn(err, d.DonorID, "build receipt task failed")
		return
	}
	if _, err := s.Tasks.EnqueueContext(ctx, task); err != nil {
		s.warn(err, d.DonorID, "enqueue receipt task failed")
	}
}

func (s *Service) enqueueMilestone(ctx context.Context, d Donation, tier Tier, totalCents int64) {
	if s.Tasks == nil || d.DonorEmail == "" {
		return
	}
	task, err := NewMilestoneTask(MilestonePayload{
		DonorID:    d.DonorID,
		DonorName:  d.DonorName,
		DonorEmail: d.DonorEmail,
		TierID:     tier.ID,
		TierName:   tier.Name,
		TotalCents: totalCents,
	})
	if err != nil {
		s.warn(err, d.DonorID, "build milestone task failed")
		return
	}
	if _, err := s.Tasks.EnqueueContext(ctx, task); err != nil {
		s.warn(err, d.DonorID, "enqueue milestone task failed")
	}
}

func (s *Service) warn(err error, donorID, msg string) {
	if s.Logger != nil {
		s.Logger.Warn().Err(err).Str("donor_id", donorID).Msg(msg)
	}
}

func normalizeAmount(in RecordInput) int64 {
	if in.AmountCents != nil {
		return NormalizeCents(*in.AmountCents)
	}
	if in.AmountUSD != nil {
		return NormalizeUSD(*in.AmountUSD)
	}
	return 0
}
