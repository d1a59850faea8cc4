package donation

import "math"

// Tier describes a static milestone reward tier. Tier values are display
// metadata only; achievement is purely a function of a donor's lifetime total.
type Tier struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	AmountCents int64  `json:"amountCents"`
	Icon        string `json:"icon"`
	Title       string `json:"title"`
	Color       string `json:"color"`
}

// tiers is ordered ascending by AmountCents and never mutated.
var tiers = []Tier{
	{ID: "bronze", Name: "Bronze", AmountCents: 10_000, Icon: "medal-bronze", Title: "Community Supporter", Color: "#cd7f32"},
	{ID: "silver", Name: "Silver", AmountCents: 25_000, Icon: "medal-silver", Title: "Cause Champion", Color: "#c0c0c0"},
	{ID: "gold", Name: "Gold", AmountCents: 50_000, Icon: "medal-gold", Title: "Impact Maker", Color: "#ffd700"},
	{ID: "platinum", Name: "Platinum", AmountCents: 77_700, Icon: "medal-platinum", Title: "Change Leader", Color: "#e5e4e2"},
	{ID: "diamond", Name: "Diamond", AmountCents: 100_000, Icon: "medal-diamond", Title: "Legacy Builder", Color: "#b9f2ff"},
}

// Tiers returns the milestone ladder in ascending threshold order.
func Tiers() []Tier {
	out := make([]Tier, len(tiers))
	copy(out, tiers)
	return out
}

// AchievedTiers returns every tier whose threshold the lifetime total has
// reached, in ascending order.
func AchievedTiers(totalCents int64) []Tier {
	achieved := make([]Tier, 0, len(tiers))
	for _, tier := range tiers {
		if totalCents >= tier.AmountCents {
			achieved = append(achieved, tier)
		}
	}
	return achieved
}

// CurrentTier returns the highest achieved tier, or nil when none is reached.
func CurrentTier(totalCents int64) *Tier {
	var current *Tier
	for i := range tiers {
		if totalCents >= tiers[i].AmountCents {
			tier := tiers[i]
			current = &tier
		}
	}
	return current
}

// NextTier returns the first unachieved tier, or nil when the donor has maxed
// out the ladder.
func NextTier(totalCents int64) *Tier {
	for i := range tiers {
		if totalCents < tiers[i].AmountCents {
			tier := tiers[i]
			return &tier
		}
	}
	return nil
}

// Progress reports how far a donor is through the band between the current
// and next milestone thresholds.
type Progress struct {
	Percentage     int   `json:"percentage"`
	RemainingCents int64 `json:"remainingCents"`
}

// ProgressToNextTier computes the percentage position within the band between
// the current tier threshold (or zero) and the next tier threshold. A maxed
// out donor reports 100% with nothing remaining.
func ProgressToNextTier(totalCents int64) Progress {
	next := NextTier(totalCents)
	if next == nil {
		return Progress{Percentage: 100, RemainingCents: 0}
	}
	var previous int64
	if current := CurrentTier(totalCents); current != nil {
		previous = current.AmountCents
	}
	band := next.AmountCents - previous
	pct := int(math.Round(100 * float64(totalCents-previous) / float64(band)))
	if pct > 100 {
		pct = 100
	}
	if pct < 0 {
		pct = 0
	}
	return Progress{Percentage: pct, RemainingCents: next.AmountCents - totalCents}
}
