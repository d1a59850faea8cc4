package shipping

import "testing"

func TestClassify(t *testing.T) {
	cases := []struct {
		name     string
		product  string
		category string
		want     int64
	}{
		{"aluminum sign is heavy", "Aluminum Sign", "", TierHeavyCents},
		{"business cards are light", "Business Cards", "promo", TierLightCents},
		{"unknown defaults to standard", "Unknown Widget", "", TierStandardCents},
		{"category alone can classify", "Custom Print", "sticker", TierLightCents},
		{"case-insensitive", "ACRYLIC PHOTO PRINT", "", TierHeavyCents},
		{"banner is standard", "Vinyl Banner 3x6", "", TierStandardCents},
		{"higher tier wins on mixed keywords", "Foam Board Poster", "", TierHeavyCents},
		{"empty input defaults to standard", "", "", TierStandardCents},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Classify(tc.product, tc.category)
			if got != tc.want {
				t.Fatalf("Classify(%q, %q) = %d, want %d", tc.product, tc.category, got, tc.want)
			}
		})
	}
}

func TestOrderShipping(t *testing.T) {
	items := []Item{
		{Name: "Business Cards"},
		{Name: "Aluminum Sign"},
	}
	if got := OrderShipping(items); got != TierHeavyCents {
		t.Fatalf("expected max tier %d, got %d", TierHeavyCents, got)
	}

	light := []Item{{Name: "Flyer"}, {Name: "Postcard"}, {Name: "Sticker Sheet"}}
	if got := OrderShipping(light); got != TierLightCents {
		t.Fatalf("expected light tier charged once, got %d", got)
	}

	if got := OrderShipping(nil); got != 0 {
		t.Fatalf("expected 0 for empty order, got %d", got)
	}
}

func TestTierLabel(t *testing.T) {
	if got := TierLabel(TierHeavyCents); got != "Oversized Shipping" {
		t.Fatalf("unexpected heavy label %q", got)
	}
	if got := TierLabel(TierLightCents); got != "Economy Shipping" {
		t.Fatalf("unexpected light label %q", got)
	}
	if got := TierLabel(123); got != "Shipping" {
		t.Fatalf("expected generic label, got %q", got)
	}
}

func TestRulesOrderedByPriority(t *testing.T) {
	table := Rules()
	if len(table) != 3 {
		t.Fatalf("expected 3 tiers, got %d", len(table))
	}
	if table[0].Cents != TierHeavyCents || table[1].Cents != TierStandardCents || table[2].Cents != TierLightCents {
		t.Fatalf("rules out of priority order: %+v", table)
	}
}
