package donation

import "testing"

func TestAchievedTiers(t *testing.T) {
	achieved := AchievedTiers(77_700)
	ids := make([]string, 0, len(achieved))
	for _, tier := range achieved {
		ids = append(ids, tier.ID)
	}
	want := []string{"bronze", "silver", "gold", "platinum"}
	if len(ids) != len(want) {
		t.Fatalf("expected %v, got %v", want, ids)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, ids)
		}
	}

	if got := AchievedTiers(0); len(got) != 0 {
		t.Fatalf("expected no tiers at zero, got %v", got)
	}
	if got := AchievedTiers(9_999); len(got) != 0 {
		t.Fatalf("expected no tiers below bronze, got %v", got)
	}
	if got := AchievedTiers(1_000_000); len(got) != 5 {
		t.Fatalf("expected all tiers, got %v", got)
	}
}

func TestCurrentAndNextTier(t *testing.T) {
	if tier := CurrentTier(5_000); tier != nil {
		t.Fatalf("expected nil current tier, got %v", tier)
	}
	if tier := CurrentTier(10_000); tier == nil || tier.ID != "bronze" {
		t.Fatalf("expected bronze, got %v", tier)
	}
	if tier := CurrentTier(77_700); tier == nil || tier.ID != "platinum" {
		t.Fatalf("expected platinum, got %v", tier)
	}

	if tier := NextTier(77_700); tier == nil || tier.ID != "diamond" {
		t.Fatalf("expected diamond next, got %v", tier)
	}
	if tier := NextTier(0); tier == nil || tier.ID != "bronze" {
		t.Fatalf("expected bronze next, got %v", tier)
	}
	if tier := NextTier(100_000); tier != nil {
		t.Fatalf("expected nil next tier when maxed, got %v", tier)
	}
}

func TestProgressToNextTier(t *testing.T) {
	// 60000 sits between gold (50000) and platinum (77700).
	progress := ProgressToNextTier(60_000)
	if progress.Percentage != 36 {
		t.Fatalf("expected 36%%, got %d", progress.Percentage)
	}
	if progress.RemainingCents != 17_700 {
		t.Fatalf("expected 17700 remaining, got %d", progress.RemainingCents)
	}

	// Below the first tier, the band starts at zero.
	progress = ProgressToNextTier(5_000)
	if progress.Percentage != 50 {
		t.Fatalf("expected 50%%, got %d", progress.Percentage)
	}
	if progress.RemainingCents != 5_000 {
		t.Fatalf("expected 5000 remaining, got %d", progress.RemainingCents)
	}

	// Maxed out donors report complete progress.
	progress = ProgressToNextTier(150_000)
	if progress.Percentage != 100 || progress.RemainingCents != 0 {
		t.Fatalf("expected maxed progress, got %+v", progress)
	}

	// Landing exactly on a threshold starts the next band at zero.
	progress = ProgressToNextTier(50_000)
	if progress.Percentage != 0 {
		t.Fatalf("expected 0%% at gold threshold, got %d", progress.Percentage)
	}
	if progress.RemainingCents != 27_700 {
		t.Fatalf("expected 27700 remaining, got %d", progress.RemainingCents)
	}
}

func TestTiersImmutable(t *testing.T) {
	first := Tiers()
	first[0].AmountCents = 1
	second := Tiers()
	if second[0].AmountCents != 10_000 {
		t.Fatalf("tier table mutated through returned slice")
	}
}
