// Package employee describes the employee profiles the scorer and the AI
// advisor work with.
package employee

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Skill is one skill of an employee, as stored in the skills catalog.
type Skill struct {
	ID           int64  `json:"id,omitempty"`
	Name         string `json:"name"`
	MainCategory string `json:"main_category,omitempty"`
	Subcategory  string `json:"subcategory,omitempty"`
}

// Profile is a read-only snapshot of an employee.
type Profile struct {
	ID          int64        `json:"id"`
	Name        string       `json:"name"`
	JobTitle    string       `json:"job_title"`
	Experience  string       `json:"experience,omitempty"`
	WorkYears   int          `json:"work_year"`
	Location    string       `json:"location,omitempty"`
	Skills      []Skill      `json:"skills,omitempty"`
	Personality *Personality `json:"personality_traits,omitempty"`
}

// Personality is the optional personality assessment of an employee.
type Personality struct {
	TopTrait     string        `json:"top_personality"`
	SecondTrait  string        `json:"second_personality"`
	SortedTraits string        `json:"sorted_traits"`
	BelbinRole   string        `json:"belbin_role"`
	Scores       map[Trait]int `json:"scores,omitempty"`
}

// Ranked returns the parsed SortedTraits string.
func (p *Personality) Ranked() []RankedTrait {
	if p == nil {
		return nil
	}
	return ParseSortedTraits(p.SortedTraits)
}

// Role returns the parsed Belbin role and whether it is one of the known nine.
func (p *Personality) Role() (BelbinRole, bool) {
	if p == nil {
		return "", false
	}
	return ParseBelbinRole(p.BelbinRole)
}

// UnmarshalJSON accepts personality_traits either as an object or as an array
// whose first element is the canonical record. An empty array or null leaves
// Personality nil. Flat per-trait score columns ("drive": 7) are folded into
// Scores.
func (p *Profile) UnmarshalJSON(data []byte) error {
	type plain Profile
	aux := struct {
		*plain
		Personality json.RawMessage `json:"personality_traits"`
	}{plain: (*plain)(p)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	personality, err := decodePersonality(aux.Personality)
	if err != nil {
		return fmt.Errorf("decode personality_traits: %w", err)
	}
	p.Personality = personality
	return nil
}

func decodePersonality(raw json.RawMessage) (*Personality, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}

	if raw[0] == '[' {
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, err
		}
		if len(items) == 0 {
			return nil, nil
		}
		return decodePersonality(items[0])
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}

	// A field of the wrong type is left empty instead of failing the profile,
	// like the trait scores below.
	out := &Personality{}
	for key, dst := range map[string]*string{
		"top_personality":    &out.TopTrait,
		"second_personality": &out.SecondTrait,
		"sorted_traits":      &out.SortedTraits,
		"belbin_role":        &out.BelbinRole,
	} {
		if v, ok := fields[key]; ok {
			_ = json.Unmarshal(v, dst)
		}
	}

	var nested map[Trait]json.RawMessage
	if v, ok := fields["scores"]; ok && json.Unmarshal(v, &nested) == nil {
		for trait, v := range nested {
			var score float64
			if err := json.Unmarshal(v, &score); err != nil {
				continue
			}
			if out.Scores == nil {
				out.Scores = make(map[Trait]int, len(Traits))
			}
			out.Scores[trait] = clampScore(int(score))
		}
	}

	for _, trait := range Traits {
		v, ok := fields[string(trait)]
		if !ok {
			continue
		}
		var score float64
		if err := json.Unmarshal(v, &score); err != nil {
			continue
		}
		if out.Scores == nil {
			out.Scores = make(map[Trait]int, len(Traits))
		}
		out.Scores[trait] = clampScore(int(score))
	}

	return out, nil
}

// SkillNames returns the employee's skill names.
func (p *Profile) SkillNames() []string {
	if p == nil {
		return nil
	}
	names := make([]string, 0, len(p.Skills))
	for _, s := range p.Skills {
		names = append(names, s.Name)
	}
	return names
}

// MatchesQuery reports whether the name or the job title contains q, case-insensitively.
func (p *Profile) MatchesQuery(q string) bool {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return true
	}
	if p == nil {
		return false
	}
	return strings.Contains(strings.ToLower(p.Name), q) ||
		strings.Contains(strings.ToLower(p.JobTitle), q)
}
