package types

import (
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Dietary restriction options offered to the user
var DietaryOptions = []string{
	"Vegetarian",
	"Vegan",
	"Gluten-Free",
	"Dairy-Free",
	"Keto",
	"Paleo",
	"Low-Carb",
	"Low-Fat",
	"Nut-Free",
}

const (
	DefaultServings = 2
	MinServings     = 1
	MaxServings     = 20
)

// Session is the per-request user context. It is built from the bearer
// token and the request's settings, and handed to services explicitly.
type Session struct {
	Email               string
	Name                string
	Servings            int
	DietaryRestrictions []string
}

// WithSettings returns a copy with the given servings and restrictions.
// Zero servings keeps the default.
func (s Session) WithSettings(servings int, restrictions []string) Session {
	if servings == 0 {
		servings = DefaultServings
	}
	s.Servings = servings
	s.DietaryRestrictions = restrictions
	return s
}

// NormalizeRestrictions title-cases each restriction ("gluten-free" becomes
// "Gluten-Free"), drops duplicates and rejects anything not offered.
func NormalizeRestrictions(in []string) ([]string, error) {
	caser := cases.Title(language.English)
	out := make([]string, 0, len(in))
	for _, r := range in {
		r = caser.String(strings.TrimSpace(r))
		if r == "" {
			continue
		}
		if !slices.Contains(DietaryOptions, r) {
			return nil, fmt.Errorf("Unknown dietary restriction: %s", r)
		}
		if !slices.Contains(out, r) {
			out = append(out, r)
		}
	}
	return out, nil
}
