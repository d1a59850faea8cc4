package donation

import (
	"context"
	"time"

	redis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/glaadoo/print-power-purpose/internal/events"
	"github.com/glaadoo/print-power-purpose/internal/lock"
	"github.com/glaadoo/print-power-purpose/internal/obs"
)

// DonorActivity summarises a donor's ledger movement inside a sweep window.
type DonorActivity struct {
	DonorID     string
	DonorName   string
	DonorEmail  string
	WindowCents int64
	TotalCents  int64
}

// ActivityStore lists donors whose ledger changed since a point in time.
type ActivityStore interface {
	DonorsSince(ctx context.Context, since time.Time) ([]DonorActivity, error)
}

// Marker records which donor/tier announcements have already gone out so the
// periodic sweep does not repeat what the synchronous path handled. Mark
// returns true on first acquisition.
type Marker interface {
	Mark(ctx context.Context, donorID, tierID string) (bool, error)
}

// RedisMarker implements Marker with SetNX.
type RedisMarker struct {
	Client *redis.Client
	TTL    time.Duration
}

func (m RedisMarker) Mark(ctx context.Context, donorID, tierID string) (bool, error) {
	if m.Client == nil {
		return true, nil
	}
	ttl := m.TTL
	if ttl <= 0 {
		ttl = 30 * 24 * time.Hour
	}
	return m.Client.SetNX(ctx, "milestone:announced:"+donorID+":"+tierID, "1", ttl).Result()
}

// Sweeper periodically re-checks recent donor activity for tier crossings the
// request path may have missed, for example when the process died between the
// ledger insert and the fanout. A Redis lock keeps concurrent workers from
// sweeping the same window.
type Sweeper struct {
	Store    ActivityStore
	Events   *events.Bus
	Tasks    TaskEnqueuer
	Marks    Marker
	Locker   lock.Locker
	LockTTL  time.Duration
	Interval time.Duration
	Logger   *zerolog.Logger
}

// Run sweeps on every tick until the context is cancelled.
func (s *Sweeper) Run(ctx context.Context) error {
	interval := s.Interval
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// Overlap the window by one interval so a crash mid-sweep cannot lose a
	// crossing. The marker keeps the overlap from producing duplicates.
	window := 2 * interval

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			err := s.Locker.WithLock(ctx, "milestone:sweep", s.LockTTL, func(ctx context.Context) error {
				return s.Sweep(ctx, time.Now().Add(-window))
			})
			if err != nil && ctx.Err() == nil && s.Logger != nil {
				s.Logger.Error().Err(err).Msg("milestone sweep failed")
			}
		}
	}
}

// Sweep announces tier crossings that happened at or after since.
func (s *Sweeper) Sweep(ctx context.Context, since time.Time) error {
	activity, err := s.Store.DonorsSince(ctx, since)
	if err != nil {
		return err
	}
	for _, a := range activity {
		prev := a.TotalCents - a.WindowCents
		for _, tier := range Tiers() {
			if tier.AmountCents <= prev || tier.AmountCents > a.TotalCents {
				continue
			}
			first, err := s.mark(ctx, a.DonorID, tier.ID)
			if err != nil {
				if s.Logger != nil {
					s.Logger.Warn().Err(err).Str("donor_id", a.DonorID).Msg("milestone marker unavailable")
				}
				continue
			}
			if !first {
				continue
			}
			s.announce(ctx, a, tier)
		}
	}
	return nil
}

func (s *Sweeper) mark(ctx context.Context, donorID, tierID string) (bool, error) {
	if s.Marks == nil {
		return true, nil
	}
	return s.Marks.Mark(ctx, donorID, tierID)
}

func (s *Sweeper) announce(ctx context.Context, a DonorActivity, tier Tier) {
	if obs.MilestoneAchievedTotal != nil {
		obs.MilestoneAchievedTotal.WithLabelValues(tier.ID).Inc()
	}
	if s.Events != nil {
		payload := map[string]any{
			"donorId":    a.DonorID,
			"tierId":     tier.ID,
			"tierName":   tier.Name,
			"totalCents": a.TotalCents,
		}
		if _, err := s.Events.Emit(ctx, events.TopicMilestoneAchieved, a.DonorID, payload); err != nil && s.Logger != nil {
			s.Logger.Warn().Err(err).Str("donor_id", a.DonorID).Msg("emit milestone event failed")
		}
	}
	if s.Tasks == nil || a.DonorEmail == "" {
		return
	}
	task, err := NewMilestoneTask(MilestonePayload{
		DonorID:    a.DonorID,
		DonorName:  a.DonorName,
		DonorEmail: a.DonorEmail,
		TierID:     tier.ID,
		TierName:   tier.Name,
		TotalCents: a.TotalCents,
	})
	if err != nil {
		if s.Logger != nil {
			s.Logger.Warn().Err(err).Str("donor_id", a.DonorID).Msg("build milestone task failed")
		}
		return
	}
	if _, err := s.Tasks.EnqueueContext(ctx, task); err != nil && s.Logger != nil {
		s.Logger.Warn().Err(err).Str("donor_id", a.DonorID).Msg("enqueue milestone task failed")
	}
}
