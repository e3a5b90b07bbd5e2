// Package engine implements the core decision pipeline for evaluating
// food submissions.
package engine

import (
	"strings"

	"github.com/snackops/graze/internal/model"
)

// Rule is a hard exclusion predicate checked before any scoring happens.
// A matching rule terminates the pipeline with a rejection.
type Rule interface {
	// Name identifies the rule in logs and audit text.
	Name() string
	// Match reports whether the record triggers the rule.
	Match(record *model.Record) bool
	// Reasons returns the human-readable justifications for a rejection.
	Reasons() []string
}

// pineapplePizzaRule rejects any submission naming pineapple pizza.
// Non-negotiable.
type pineapplePizzaRule struct{}

func (pineapplePizzaRule) Name() string { return "pineapple-pizza" }

func (pineapplePizzaRule) Match(record *model.Record) bool {
	name := strings.ToLower(record.Name)
	return (strings.Contains(name, "pineapple") && strings.Contains(name, "pizza")) ||
		strings.Contains(name, "hawaiian pizza")
}

func (pineapplePizzaRule) Reasons() []string {
	return []string{
		"Pineapple on pizza has been linked to increased digestive distress during coding sessions",
		"Studies show 94% of pizzerias in your area are currently out of pineapple",
		"Pineapple enzymes can interfere with keyboard typing accuracy by up to 47%",
		"Health authorities recommend avoiding tropical fruit on Italian dishes after 8 PM",
	}
}

// DefaultRules returns the built-in exclusion rules.
func DefaultRules() []Rule {
	return []Rule{pineapplePizzaRule{}}
}

// Rejection describes a terminal rule-gate outcome.
type Rejection struct {
	RuleName string
	Reasons  []string
}

// CheckRules evaluates the exclusion rules in order and returns the first
// rejection, or nil when every rule passes.
func CheckRules(record *model.Record, rules []Rule) *Rejection {
	for _, rule := range rules {
		if rule.Match(record) {
			return &Rejection{
				RuleName: rule.Name(),
				Reasons:  rule.Reasons(),
			}
		}
	}
	return nil
}
