// Package model defines the core domain models used throughout the application.
package model

// Attributes lists the nine rated attributes every submission is scored
// and classified on, in their canonical order.
var Attributes = []string{
	"price",
	"messiness",
	"heaviness",
	"energy_boost",
	"healthiness",
	"shareability",
	"protein",
	"spiciness",
	"happiness",
}

// Record is a single food submission awaiting evaluation. Ratings are on a
// 1-10 scale and optional: a nil field means the attribute was not rated,
// which is distinct from a zero rating for weighting purposes.
type Record struct {
	Name         string   `json:"name"`
	Price        *float64 `json:"price,omitempty"`
	Messiness    *float64 `json:"messiness,omitempty"`
	Heaviness    *float64 `json:"heaviness,omitempty"`
	EnergyBoost  *float64 `json:"energy_boost,omitempty"`
	Healthiness  *float64 `json:"healthiness,omitempty"`
	Shareability *float64 `json:"shareability,omitempty"`
	Protein      *float64 `json:"protein,omitempty"`
	Spiciness    *float64 `json:"spiciness,omitempty"`
	Happiness    *float64 `json:"happiness,omitempty"`
	Allergens    []string `json:"allergens,omitempty"`
}

func (r *Record) field(attribute string) *float64 {
	switch attribute {
	case "price":
		return r.Price
	case "messiness":
		return r.Messiness
	case "heaviness":
		return r.Heaviness
	case "energy_boost":
		return r.EnergyBoost
	case "healthiness":
		return r.Healthiness
	case "shareability":
		return r.Shareability
	case "protein":
		return r.Protein
	case "spiciness":
		return r.Spiciness
	case "happiness":
		return r.Happiness
	default:
		return nil
	}
}

// Rating returns the rating for the named attribute and whether it was set.
func (r *Record) Rating(attribute string) (float64, bool) {
	v := r.field(attribute)
	if v == nil {
		return 0, false
	}
	return *v, true
}

// RatingOr returns the rating for the named attribute, or def when the
// attribute was not rated.
func (r *Record) RatingOr(attribute string, def float64) float64 {
	if v, ok := r.Rating(attribute); ok {
		return v
	}
	return def
}
