// Package criteria holds the built-in team archetypes: the ranked skills and
// personality traits each kind of team asks for.
package criteria

import (
	"errors"
	"fmt"
)

// ErrUnknownArchetype is returned by Get when the name is not in the catalog.
var ErrUnknownArchetype = errors.New("unknown archetype")

// RequiredSkill is a skill an archetype asks for. Lower Priority means more important.
type RequiredSkill struct {
	Name        string `json:"name"`
	Category    string `json:"category"`
	Subcategory string `json:"subcategory"`
	Priority    int    `json:"priority"`
	Rationale   string `json:"rationale"`
}

// RequiredTrait is a personality trait an archetype asks for. Order in the
// archetype's trait list encodes importance.
type RequiredTrait struct {
	Name      string `json:"name"`
	Rationale string `json:"rationale"`
}

// Archetype is a named team profile.
type Archetype struct {
	Name     string          `json:"name"`
	Skills   []RequiredSkill `json:"skills"`
	Traits   []RequiredTrait `json:"traits"`
	Keywords []string        `json:"keywords"`
}

// SkillNames returns the required skill names in catalog order.
func (a Archetype) SkillNames() []string {
	names := make([]string, 0, len(a.Skills))
	for _, s := range a.Skills {
		names = append(names, s.Name)
	}
	return names
}

// TraitNames returns the required trait names in catalog order.
func (a Archetype) TraitNames() []string {
	names := make([]string, 0, len(a.Traits))
	for _, t := range a.Traits {
		names = append(names, t.Name)
	}
	return names
}

func (a Archetype) clone() Archetype {
	out := a
	out.Skills = append([]RequiredSkill(nil), a.Skills...)
	out.Traits = append([]RequiredTrait(nil), a.Traits...)
	out.Keywords = append([]string(nil), a.Keywords...)
	return out
}

var index map[string]int

func init() {
	index = make(map[string]int, len(catalog))
	for i, a := range catalog {
		if err := Validate(a); err != nil {
			panic(fmt.Sprintf("criteria: built-in catalog: %v", err))
		}
		index[a.Name] = i
	}
}

// Lookup returns the archetype with the given name. The match is exact.
func Lookup(name string) (Archetype, bool) {
	i, ok := index[name]
	if !ok {
		return Archetype{}, false
	}
	return catalog[i].clone(), true
}

// Get is Lookup with an error for callers that want one.
func Get(name string) (Archetype, error) {
	a, ok := Lookup(name)
	if !ok {
		return Archetype{}, fmt.Errorf("%w: %q", ErrUnknownArchetype, name)
	}
	return a, nil
}

// Names returns archetype names in declaration order.
func Names() []string {
	names := make([]string, 0, len(catalog))
	for _, a := range catalog {
		names = append(names, a.Name)
	}
	return names
}

// All returns a copy of every archetype in declaration order.
func All() []Archetype {
	out := make([]Archetype, 0, len(catalog))
	for _, a := range catalog {
		out = append(out, a.clone())
	}
	return out
}

// Validate checks that skill priorities form the dense sequence 1..N and that
// the archetype is not empty.
func Validate(a Archetype) error {
	if a.Name == "" {
		return errors.New("archetype name is empty")
	}
	if len(a.Skills) == 0 {
		return fmt.Errorf("archetype %q has no skills", a.Name)
	}
	if len(a.Traits) == 0 {
		return fmt.Errorf("archetype %q has no traits", a.Name)
	}

	seen := make([]bool, len(a.Skills)+1)
	for _, s := range a.Skills {
		if s.Priority < 1 || s.Priority > len(a.Skills) {
			return fmt.Errorf("archetype %q: skill %q priority %d out of range 1..%d", a.Name, s.Name, s.Priority, len(a.Skills))
		}
		if seen[s.Priority] {
			return fmt.Errorf("archetype %q: duplicate priority %d", a.Name, s.Priority)
		}
		seen[s.Priority] = true
	}
	return nil
}
