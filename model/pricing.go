package model

import (
	"strings"

	ai "github.com/spetersoncode/aiagent"
)

// Pricing contains chat pricing per million tokens (USD).
type Pricing struct {
	InputPerMillion  float64
	OutputPerMillion float64
}

// Cost returns the cost in USD of the given usage.
func (p Pricing) Cost(usage ai.Usage) float64 {
	return float64(usage.InputTokens)/1_000_000*p.InputPerMillion +
		float64(usage.OutputTokens)/1_000_000*p.OutputPerMillion
}

// Pricing last verified: December 14, 2025.
// Longer prefixes must come first.
var pricingTable = []struct {
	prefix  string
	pricing Pricing
}{
	{"gpt-4o-mini", Pricing{InputPerMillion: 0.15, OutputPerMillion: 0.60}},
	{"gpt-4o", Pricing{InputPerMillion: 2.50, OutputPerMillion: 10.00}},
	{"gpt-4.1-mini", Pricing{InputPerMillion: 0.40, OutputPerMillion: 1.60}},
	{"gpt-4.1", Pricing{InputPerMillion: 2.00, OutputPerMillion: 8.00}},
	{"gpt-5-mini", Pricing{InputPerMillion: 0.25, OutputPerMillion: 1.00}},
	{"gpt-5", Pricing{InputPerMillion: 1.25, OutputPerMillion: 10.00}},
	{"gemini-2.5-flash-lite", Pricing{InputPerMillion: 0.075, OutputPerMillion: 0.30}},
	{"gemini-2.5-flash", Pricing{InputPerMillion: 0.15, OutputPerMillion: 0.60}},
	{"gemini-2.5-pro", Pricing{InputPerMillion: 1.25, OutputPerMillion: 10.00}},
	{"gemini-2.0-flash", Pricing{InputPerMillion: 0.10, OutputPerMillion: 0.40}},
}

// LookupPricing returns pricing for a model identifier, matched by prefix so
// dated snapshots ("gpt-4o-2024-08-06") resolve to their family.
func LookupPricing(id string) (Pricing, bool) {
	for _, row := range pricingTable {
		if strings.HasPrefix(id, row.prefix) {
			return row.pricing, true
		}
	}
	return Pricing{}, false
}
