package service

import (
	"context"
	"log"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"estate/internal/model"
	"estate/internal/utils"
)

// DefaultInterpreterTimeout bounds one interpreter round trip
const DefaultInterpreterTimeout = 12 * time.Second

// Completer sends a system prompt and a user message to a text-completion
// endpoint and returns the raw reply
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

const interpreterPrompt = `You convert property search requests for Ahmedabad, India into a JSON filter.

Respond ONLY with one JSON object with exactly these keys. Use null for anything the request does not state:
- category: one of "residential-rent", "residential-sell", "commercial-rent", "commercial-sell" (string or null). Only set it when both the transaction (rent/buy) and the property class (residential/commercial) are clear.
- locations: locality names mentioned (array of strings or null)
- price_min: lower price bound in rupees (number or null)
- price_max: upper price bound in rupees (number or null)
- configuration: "1 BHK", "2 BHK", "3 BHK", ..., "Office" or "Shop" (string or null)
- furnished_status: one of "fully-furnished", "semi-furnished", "unfurnished" (string or null)
- property_age: one of "under-construction", "newly-built", "1-5-years", "5-plus-years" (string or null)
- area_min: lower area bound in square feet (number or null)
- area_max: upper area bound in square feet (number or null)
- budget_tier: one of "affordable", "moderate", "premium", "luxury" when the request is relative ("cheap", "high-end") rather than numeric (string or null)
- area_tier: one of "small", "medium", "large" when size is relative ("spacious", "compact") (string or null)
- features: required amenities such as "parking", "gym", "pool" (array of lowercase strings or null)
- parking_required: true only if parking is mandatory (boolean or null)
- lift_required: true only if a lift/elevator is mandatory (boolean or null)

Rules:
- Resolve Indian shorthand to absolute rupees: 1 lakh = 100000, 1 crore = 10000000, "50k" = 50000. "under 50 lakh" means price_max 5000000.
- Never guess. A field you cannot derive from the request is null.

Examples:
Request: "2 bhk flat for rent in satellite under 30k"
Response: {"category": "residential-rent", "locations": ["satellite"], "price_min": null, "price_max": 30000, "configuration": "2 BHK", "furnished_status": null, "property_age": null, "area_min": null, "area_max": null, "budget_tier": null, "area_tier": null, "features": null, "parking_required": null, "lift_required": null}

Request: "luxury office to buy on sg highway with parking"
Response: {"category": "commercial-sell", "locations": ["sg highway"], "price_min": null, "price_max": null, "configuration": "Office", "furnished_status": null, "property_age": null, "area_min": null, "area_max": null, "budget_tier": "luxury", "area_tier": null, "features": ["parking"], "parking_required": null, "lift_required": null}`

// filterCandidate is the wire contract the completion must satisfy. Any JSON
// type mismatch fails decoding as a whole.
type filterCandidate struct {
	Category        *string  `json:"category"`
	Locations       []string `json:"locations"`
	PriceMin        *float64 `json:"price_min"`
	PriceMax        *float64 `json:"price_max"`
	Configuration   *string  `json:"configuration"`
	Furnished       *string  `json:"furnished_status"`
	Age             *string  `json:"property_age"`
	AreaMin         *float64 `json:"area_min"`
	AreaMax         *float64 `json:"area_max"`
	BudgetTier      *string  `json:"budget_tier"`
	AreaTier        *string  `json:"area_tier"`
	Features        []string `json:"features"`
	ParkingRequired *bool    `json:"parking_required"`
	LiftRequired    *bool    `json:"lift_required"`
}

// toFilter maps the candidate onto a filter, discarding out-of-domain fields one by one
func (c *filterCandidate) toFilter() model.StructuredFilter {
	f := model.StructuredFilter{
		Locations:       c.Locations,
		PriceMin:        c.PriceMin,
		PriceMax:        c.PriceMax,
		AreaMin:         c.AreaMin,
		AreaMax:         c.AreaMax,
		ParkingRequired: c.ParkingRequired,
		LiftRequired:    c.LiftRequired,
	}
	if c.Category != nil {
		if cat, ok := model.ParseCategory(*c.Category); ok {
			f.Category = cat
		} else {
			debugf("⚠️  Dropping out-of-domain category %q", *c.Category)
		}
	}
	if c.Furnished != nil {
		if fs, ok := model.ParseFurnishedStatus(*c.Furnished); ok {
			f.Furnished = fs
		} else {
			debugf("⚠️  Dropping out-of-domain furnished_status %q", *c.Furnished)
		}
	}
	if c.Age != nil {
		if age, ok := model.ParseAgeBracket(*c.Age); ok {
			f.Age = age
		} else {
			debugf("⚠️  Dropping out-of-domain property_age %q", *c.Age)
		}
	}
	if c.Configuration != nil {
		f.Configuration = *c.Configuration
	}
	if c.BudgetTier != nil {
		f.BudgetTier = model.BudgetTier(strings.ToLower(strings.TrimSpace(*c.BudgetTier)))
	}
	if c.AreaTier != nil {
		f.AreaTier = model.AreaTier(strings.ToLower(strings.TrimSpace(*c.AreaTier)))
	}
	for _, feature := range c.Features {
		f.Features = append(f.Features, utils.NormalizeFeature(feature))
	}
	return f.Sanitize()
}

// Interpreter asks a language model for a structured filter. It reports
// unavailability with ok=false and never returns an error.
type Interpreter struct {
	completer Completer
	limiter   *rate.Limiter
	timeout   time.Duration
}

// NewInterpreter wraps a completer. A nil completer yields an interpreter that
// is always unavailable; a nil limiter disables rate limiting.
func NewInterpreter(completer Completer, limiter *rate.Limiter, timeout time.Duration) *Interpreter {
	if timeout <= 0 {
		timeout = DefaultInterpreterTimeout
	}
	return &Interpreter{completer: completer, limiter: limiter, timeout: timeout}
}

// Enabled reports whether a completer is wired
func (i *Interpreter) Enabled() bool {
	return i != nil && i.completer != nil
}

// Interpret returns the interpreted filter, or ok=false when the interpreter
// is disabled, rate limited, unreachable, slow, or answers with something that
// is not a usable filter object.
func (i *Interpreter) Interpret(ctx context.Context, query string) (model.StructuredFilter, bool) {
	query = strings.TrimSpace(query)
	if !i.Enabled() || query == "" {
		return model.StructuredFilter{}, false
	}

	if i.limiter != nil && !i.limiter.Allow() {
		log.Printf("⚠️  Interpreter rate limit reached, using heuristic extractor")
		return model.StructuredFilter{}, false
	}

	ctx, cancel := context.WithTimeout(ctx, i.timeout)
	defer cancel()

	start := time.Now()
	debugf("🤖 Interpreting query: %s", query)

	raw, err := i.completer.Complete(ctx, interpreterPrompt, query)
	if err != nil {
		log.Printf("⚠️  Interpreter unavailable after %s: %v", time.Since(start).Round(time.Millisecond), err)
		return model.StructuredFilter{}, false
	}

	var candidate filterCandidate
	if err := utils.ParseModelObject(raw, &candidate); err != nil {
		log.Printf("⚠️  Interpreter returned a non-conforming body: %v", err)
		return model.StructuredFilter{}, false
	}

	filter := candidate.toFilter()
	if filter.IsEmpty() {
		debugf("❓ Interpreter produced an empty filter for %q, treating as ambiguous", query)
		return model.StructuredFilter{}, false
	}

	debugf("✅ Interpreted filter in %s: %+v", time.Since(start).Round(time.Millisecond), filter)
	return filter, true
}
