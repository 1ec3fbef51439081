// Package role classifies free-text position descriptions into roles.
package role

import (
	"strings"

	"github.com/okian/squadrank/internal/domain/model"
)

// Rule maps a predicate over the lower-cased position text to a role.
type Rule struct {
	Role  model.Role
	Match func(position string) bool
}

// Keywords builds a rule matching any of kws as a substring.
func Keywords(r model.Role, kws ...string) Rule {
	lowered := make([]string, len(kws))
	for i, k := range kws {
		lowered[i] = strings.ToLower(k)
	}
	return Rule{
		Role: r,
		Match: func(position string) bool {
			for _, k := range lowered {
				if strings.Contains(position, k) {
					return true
				}
			}
			return false
		},
	}
}

// DefaultRules returns the standard rule list. Order is the tie-break: a
// position matching several rules gets the role of the first.
func DefaultRules() []Rule {
	return []Rule{
		Keywords(model.Goalkeeper, "goalkeeper"),
		Keywords(model.Defender, "centre-back", "right-back", "left-back"),
		Keywords(model.Midfielder, "attacking midfield", "defensive midfield", "central midfield"),
		Keywords(model.Forward, "left winger", "centre-forward", "right winger"),
	}
}

// Classifier evaluates an ordered rule list, first match wins.
type Classifier struct {
	rules []Rule
}

// New returns a classifier over rules, or DefaultRules when none are given.
func New(rules ...Rule) *Classifier {
	if len(rules) == 0 {
		rules = DefaultRules()
	}
	return &Classifier{rules: rules}
}

// Classify returns the role of position, or model.Unclassified.
func (c *Classifier) Classify(position string) model.Role {
	p := strings.ToLower(strings.TrimSpace(position))
	if p == "" {
		return model.Unclassified
	}
	for _, r := range c.rules {
		if r.Match(p) {
			return r.Role
		}
	}
	return model.Unclassified
}

// ClassifyAll classifies every position; empty text is unclassified.
func (c *Classifier) ClassifyAll(positions []string) []model.Role {
	out := make([]model.Role, len(positions))
	for i, p := range positions {
		out[i] = c.Classify(p)
	}
	return out
}

// Classify uses the default rules.
func Classify(position string) model.Role {
	return defaultClassifier.Classify(position)
}

var defaultClassifier = New() //nolint:gochecknoglobals // stateless default
