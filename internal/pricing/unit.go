package pricing

// MarkupOverrides holds optional markup components attached to a product or
// one of its variants. Nil pointers mean "no value configured at this level".
type MarkupOverrides struct {
	MarkupFixedCents *Money   `json:"markupFixedCents,omitempty"`
	MarkupPercent    *float64 `json:"markupPercent,omitempty"`
}

// EffectiveMarkups resolves the markup precedence for a catalog listing:
// a variant-level value wins over the product-level default, and an absent
// value resolves to zero. The fixed and percent components resolve
// independently, so they may come from different levels.
func EffectiveMarkups(variant, product *MarkupOverrides) (fixed Money, percent float64) {
	fixed = resolveFixed(variant, product)
	percent = resolvePercent(variant, product)
	return fixed, percent
}

func resolveFixed(levels ...*MarkupOverrides) Money {
	for _, l := range levels {
		if l != nil && l.MarkupFixedCents != nil {
			return *l.MarkupFixedCents
		}
	}
	return 0
}

func resolvePercent(levels ...*MarkupOverrides) float64 {
	for _, l := range levels {
		if l != nil && l.MarkupPercent != nil {
			return *l.MarkupPercent
		}
	}
	return 0
}

// ComputeFinalPrice applies a percent markup and a fixed markup to a base
// unit price and rounds the result to the nearest cent.
func ComputeFinalPrice(baseCents Money, fixedCents Money, percent float64) Money {
	return roundCents(float64(baseCents) + float64(baseCents)*percent/100 + float64(fixedCents))
}

// DetailInput carries the resolved inputs for a unit price breakdown.
type DetailInput struct {
	BasePriceCents   Money   `json:"basePriceCents"`
	MarkupFixedCents Money   `json:"markupFixedCents"`
	MarkupPercent    float64 `json:"markupPercent"`
}

// Details echoes the inputs alongside the derived markup amount and final
// price so callers never re-derive them.
type Details struct {
	BasePriceCents    Money   `json:"basePriceCents"`
	MarkupFixedCents  Money   `json:"markupFixedCents"`
	MarkupPercent     float64 `json:"markupPercent"`
	MarkupAmountCents Money   `json:"markupAmountCents"`
	FinalPriceCents   Money   `json:"finalPriceCents"`
}

// ComputePricingDetails returns the full unit price breakdown for the input.
func ComputePricingDetails(in DetailInput) Details {
	final := ComputeFinalPrice(in.BasePriceCents, in.MarkupFixedCents, in.MarkupPercent)
	return Details{
		BasePriceCents:    in.BasePriceCents,
		MarkupFixedCents:  in.MarkupFixedCents,
		MarkupPercent:     in.MarkupPercent,
		MarkupAmountCents: final - in.BasePriceCents,
		FinalPriceCents:   final,
	}
}
