package shipping

import "strings"

// Flat-rate shipping tiers in cents.
const (
	TierLightCents    int64 = 495
	TierStandardCents int64 = 995
	TierHeavyCents    int64 = 1495
)

// Rule maps a shipping tier to the product keywords that select it.
type Rule struct {
	Cents    int64    `json:"cents"`
	Label    string   `json:"label"`
	Keywords []string `json:"keywords"`
}

// rules is evaluated top to bottom: heavy keywords win over standard, and
// standard over light, so a product matching several tiers ships at the
// highest one. Matching is case-insensitive substring over name + category.
var rules = []Rule{
	{
		Cents: TierHeavyCents,
		Label: "Oversized Shipping",
		Keywords: []string{
			"aluminum", "sign", "metal", "acrylic", "foam board",
			"coroplast", "rigid", "plaque", "a-frame",
		},
	},
	{
		Cents: TierStandardCents,
		Label: "Standard Shipping",
		Keywords: []string{
			"banner", "canvas", "poster", "window", "wall decal",
			"shirt", "hoodie", "apparel", "mug", "tote", "blanket",
		},
	},
	{
		Cents: TierLightCents,
		Label: "Economy Shipping",
		Keywords: []string{
			"business card", "postcard", "flyer", "sticker", "label",
			"bookmark", "brochure", "greeting card", "notepad", "magnet",
		},
	},
}

// Rules returns the tier classification table in evaluation order.
func Rules() []Rule {
	out := make([]Rule, len(rules))
	copy(out, rules)
	return out
}

// Classify maps a product to its shipping tier by keyword. Products matching
// no keyword ship at the standard tier.
func Classify(name, category string) int64 {
	haystack := strings.ToLower(name + " " + category)
	for _, rule := range rules {
		for _, keyword := range rule.Keywords {
			if strings.Contains(haystack, keyword) {
				return rule.Cents
			}
		}
	}
	return TierStandardCents
}

// Item identifies a line item for order-level shipping classification.
type Item struct {
	Name     string `json:"name"`
	Category string `json:"category,omitempty"`
}

// OrderShipping reduces an order's items to a single shipping charge: the
// highest tier among the items, charged once, never summed. An empty order
// ships free.
func OrderShipping(items []Item) int64 {
	var max int64
	for _, item := range items {
		if tier := Classify(item.Name, item.Category); tier > max {
			max = tier
		}
	}
	return max
}

// TierLabel returns the display label for a tier amount. Unknown amounts fall
// back to a generic label.
func TierLabel(cents int64) string {
	for _, rule := range rules {
		if rule.Cents == cents {
			return rule.Label
		}
	}
	return "Shipping"
}
