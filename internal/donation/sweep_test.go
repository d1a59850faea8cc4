package donation_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/glaadoo/print-power-purpose/internal/donation"
)

type activityStub struct {
	activity []donation.DonorActivity
}

func (s activityStub) DonorsSince(context.Context, time.Time) ([]donation.DonorActivity, error) {
	return s.activity, nil
}

type markerStub struct {
	mu   sync.Mutex
	seen map[string]bool
}

func (m *markerStub) Mark(_ context.Context, donorID, tierID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.seen == nil {
		m.seen = map[string]bool{}
	}
	key := donorID + ":" + tierID
	if m.seen[key] {
		return false, nil
	}
	m.seen[key] = true
	return true, nil
}

func TestSweepAnnouncesMissedCrossings(t *testing.T) {
	tasks := &taskRecorder{}
	sweeper := &donation.Sweeper{
		Store: activityStub{activity: []donation.DonorActivity{
			// Crossed bronze (10k) inside the window.
			{DonorID: "d1", DonorName: "Ada", DonorEmail: "ada@example.com", WindowCents: 4_000, TotalCents: 12_000},
			// Activity but no crossing.
			{DonorID: "d2", DonorEmail: "g@example.com", WindowCents: 500, TotalCents: 5_000},
		}},
		Tasks: tasks,
		Marks: &markerStub{},
	}

	require.NoError(t, sweeper.Sweep(context.Background(), time.Now().Add(-time.Minute)))
	require.Len(t, tasks.tasks, 1)
	require.Equal(t, donation.TaskMilestone, tasks.tasks[0].Type())
}

func TestSweepSkipsAlreadyAnnouncedTiers(t *testing.T) {
	tasks := &taskRecorder{}
	marks := &markerStub{}
	_, err := marks.Mark(context.Background(), "d1", "bronze")
	require.NoError(t, err)

	sweeper := &donation.Sweeper{
		Store: activityStub{activity: []donation.DonorActivity{
			{DonorID: "d1", DonorEmail: "ada@example.com", WindowCents: 4_000, TotalCents: 12_000},
		}},
		Tasks: tasks,
		Marks: marks,
	}

	require.NoError(t, sweeper.Sweep(context.Background(), time.Now().Add(-time.Minute)))
	require.Empty(t, tasks.tasks)
}

func TestSweepAnnouncesEveryTierCrossedInWindow(t *testing.T) {
	tasks := &taskRecorder{}
	sweeper := &donation.Sweeper{
		Store: activityStub{activity: []donation.DonorActivity{
			// One large window jump across bronze and silver.
			{DonorID: "d1", DonorEmail: "ada@example.com", WindowCents: 30_000, TotalCents: 30_000},
		}},
		Tasks: tasks,
		Marks: &markerStub{},
	}

	require.NoError(t, sweeper.Sweep(context.Background(), time.Now().Add(-time.Minute)))
	require.Len(t, tasks.tasks, 2)
}
