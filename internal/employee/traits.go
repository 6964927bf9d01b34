package employee

import (
	"strconv"
	"strings"
)

// Trait is one of the fifteen measured personality dimensions.
type Trait string

const (
	Ambition        Trait = "ambition"
	Assertiveness   Trait = "assertiveness"
	Awareness       Trait = "awareness"
	Composure       Trait = "composure"
	Cooperativeness Trait = "cooperativeness"
	Liveliness      Trait = "liveliness"
	Humility        Trait = "humility"
	Drive           Trait = "drive"
	Conceptual      Trait = "conceptual"
	Mastery         Trait = "mastery"
	Structure       Trait = "structure"
	Flexibility     Trait = "flexibility"
	Positivity      Trait = "positivity"
	Power           Trait = "power"
	Sensitivity     Trait = "sensitivity"
)

// Traits lists every measured trait in the assessment's column order.
var Traits = []Trait{
	Ambition, Assertiveness, Awareness, Composure, Cooperativeness,
	Liveliness, Humility, Drive, Conceptual, Mastery,
	Structure, Flexibility, Positivity, Power, Sensitivity,
}

const (
	minTraitScore = 0
	maxTraitScore = 10
)

// RankedTrait is one "Trait:Score" entry of a sorted-traits string.
type RankedTrait struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// ParseSortedTraits parses a comma separated "Trait:Score" list. Entries
// without a name are skipped; a missing or unparsable score becomes 0 and
// scores are clamped to 0..10.
func ParseSortedTraits(s string) []RankedTrait {
	if strings.TrimSpace(s) == "" {
		return nil
	}

	parts := strings.Split(s, ",")
	out := make([]RankedTrait, 0, len(parts))
	for _, part := range parts {
		name, score, _ := strings.Cut(part, ":")
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}

		value := 0
		if f, err := strconv.ParseFloat(strings.TrimSpace(score), 64); err == nil {
			value = int(f)
		}

		out = append(out, RankedTrait{Name: name, Score: clampScore(value)})
	}
	return out
}

// TraitTokens returns the lower-cased trait names of a sorted-traits string,
// keeping empty-score entries. This mirrors how rosters pool traits.
func TraitTokens(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		name, _, _ := strings.Cut(part, ":")
		out = append(out, strings.ToLower(strings.TrimSpace(name)))
	}
	return out
}

func clampScore(v int) int {
	if v < minTraitScore {
		return minTraitScore
	}
	if v > maxTraitScore {
		return maxTraitScore
	}
	return v
}
