package model

import (
	"strings"
	"time"
)

// Category is the type/transaction combination of a listing
type Category string

const (
	CategoryResidentialRent Category = "residential-rent"
	CategoryResidentialSell Category = "residential-sell"
	CategoryCommercialRent  Category = "commercial-rent"
	CategoryCommercialSell  Category = "commercial-sell"
)

// FurnishedStatus describes how a listing is furnished
type FurnishedStatus string

const (
	FurnishedFully FurnishedStatus = "fully-furnished"
	FurnishedSemi  FurnishedStatus = "semi-furnished"
	Unfurnished    FurnishedStatus = "unfurnished"
)

// AgeBracket describes how old a building is
type AgeBracket string

const (
	AgeUnderConstruction AgeBracket = "under-construction"
	AgeNewlyBuilt        AgeBracket = "newly-built"
	AgeOneToFiveYears    AgeBracket = "1-5-years"
	AgeFivePlusYears     AgeBracket = "5-plus-years"
)

var categories = map[string]Category{
	"residential-rent": CategoryResidentialRent,
	"residential-sell": CategoryResidentialSell,
	"residential-sale": CategoryResidentialSell,
	"commercial-rent":  CategoryCommercialRent,
	"commercial-sell":  CategoryCommercialSell,
	"commercial-sale":  CategoryCommercialSell,
}

var furnishedStatuses = map[string]FurnishedStatus{
	"fully-furnished": FurnishedFully,
	"fully":           FurnishedFully,
	"furnished":       FurnishedFully,
	"semi-furnished":  FurnishedSemi,
	"semi":            FurnishedSemi,
	"unfurnished":     Unfurnished,
	"not-furnished":   Unfurnished,
}

var ageBrackets = map[string]AgeBracket{
	"under-construction": AgeUnderConstruction,
	"newly-built":        AgeNewlyBuilt,
	"new":                AgeNewlyBuilt,
	"1-5-years":          AgeOneToFiveYears,
	"1-5-year":           AgeOneToFiveYears,
	"5-plus-years":       AgeFivePlusYears,
	"5+-years":           AgeFivePlusYears,
	"5+years":            AgeFivePlusYears,
	"5-years-plus":       AgeFivePlusYears,
}

// enumKey folds the spellings used by the ingestion sheets ("Residential Rent",
// "residential_rent", "5+ Years") onto a single lookup key.
func enumKey(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer("_", "-", " ", "-").Replace(s)
	for strings.Contains(s, "--") {
		s = strings.ReplaceAll(s, "--", "-")
	}
	return s
}

// ParseCategory maps a free-form category label onto the canonical value
func ParseCategory(s string) (Category, bool) {
	c, ok := categories[enumKey(s)]
	return c, ok
}

// ParseFurnishedStatus maps a free-form furnished label onto the canonical value
func ParseFurnishedStatus(s string) (FurnishedStatus, bool) {
	f, ok := furnishedStatuses[enumKey(s)]
	return f, ok
}

// ParseAgeBracket maps a free-form age label onto the canonical value
func ParseAgeBracket(s string) (AgeBracket, bool) {
	a, ok := ageBrackets[enumKey(s)]
	return a, ok
}

// Valid reports whether c is one of the four canonical categories
func (c Category) Valid() bool {
	_, ok := categories[string(c)]
	return ok && categories[string(c)] == c
}

// Valid reports whether f is a canonical furnished status
func (f FurnishedStatus) Valid() bool {
	return f == FurnishedFully || f == FurnishedSemi || f == Unfurnished
}

// Valid reports whether a is a canonical age bracket
func (a AgeBracket) Valid() bool {
	return a == AgeUnderConstruction || a == AgeNewlyBuilt || a == AgeOneToFiveYears || a == AgeFivePlusYears
}

// Listing represents an active or inactive property record
type Listing struct {
	ID            int64           `json:"id" db:"property_id"`
	Category      Category        `json:"category" db:"property_type"`
	Location      string          `json:"location" db:"location"`
	Address       string          `json:"address" db:"address"`
	Price         *float64        `json:"price,omitempty" db:"price"`
	Configuration string          `json:"configuration" db:"bhk_type"`
	Area          *float64        `json:"area,omitempty" db:"area"`
	Furnished     FurnishedStatus `json:"furnished_status" db:"furnished_status"`
	Age           AgeBracket      `json:"property_age" db:"property_age"`
	ContactNumber string          `json:"contact_number" db:"contact_number"`
	AgentID       int64           `json:"agent_id" db:"operator_id"`
	Features      string          `json:"features,omitempty" db:"features"`
	Amenities     string          `json:"amenities,omitempty" db:"amenities"`
	Parking       bool            `json:"parking" db:"parking"`
	Lift          bool            `json:"lift_available" db:"lift_available"`
	Active        bool            `json:"is_active" db:"is_active"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
}

// FeatureText is the haystack used for feature keyword matching
func (l *Listing) FeatureText() string {
	if l.Amenities == "" {
		return l.Features
	}
	if l.Features == "" {
		return l.Amenities
	}
	return l.Features + ", " + l.Amenities
}

// Normalize folds legacy enum spellings into canonical values. Unknown values
// are left untouched so they simply never match an enum filter.
func (l *Listing) Normalize() {
	if c, ok := ParseCategory(string(l.Category)); ok {
		l.Category = c
	}
	if f, ok := ParseFurnishedStatus(string(l.Furnished)); ok {
		l.Furnished = f
	}
	if a, ok := ParseAgeBracket(string(l.Age)); ok {
		l.Age = a
	}
	l.Configuration = strings.Join(strings.Fields(l.Configuration), " ")
}

// ListingView is what callers receive: the listing with its contact masked
type ListingView struct {
	Listing
	MatchedReasons []string `json:"matched_reasons,omitempty"`
}
