package scoring

import (
	"strings"

	"github.com/spigell/team-matcher/internal/criteria"
	"github.com/spigell/team-matcher/internal/employee"
	"github.com/spigell/team-matcher/internal/team"
)

// CompositionResult is how well a whole roster covers an archetype.
type CompositionResult struct {
	Archetype           string   `json:"archetype"`
	ArchetypeMatched    bool     `json:"archetype_matched"`
	KeywordHits         int      `json:"keyword_hits"`
	OverallFit          int      `json:"overall_fit"`
	SkillCoverage       int      `json:"skill_coverage"`
	PersonalityCoverage int      `json:"personality_coverage"`
	MissingSkills       []string `json:"missing_skills"`
	MissingPersonality  []string `json:"missing_personality"`
}

func emptyComposition() CompositionResult {
	return CompositionResult{
		MissingSkills:      []string{},
		MissingPersonality: []string{},
	}
}

// Inference is the archetype guessed from a free-text team description.
type Inference struct {
	Name string `json:"name"`
	Hits int    `json:"hits"`
	// Matched is false when no keyword hit at all; Name then holds the
	// first archetype in the catalog.
	Matched bool `json:"matched"`
}

// InferArchetype counts keyword hits per archetype and picks the highest.
// Ties keep the archetype declared first.
func InferArchetype(description string) Inference {
	desc := strings.ToLower(description)

	names := criteria.Names()
	best := Inference{}
	if len(names) > 0 {
		best.Name = names[0]
	}

	for _, a := range criteria.All() {
		hits := 0
		for _, kw := range a.Keywords {
			if strings.Contains(desc, strings.ToLower(kw)) {
				hits++
			}
		}
		if hits > best.Hits {
			best = Inference{Name: a.Name, Hits: hits, Matched: true}
		}
	}
	return best
}

// ScoreTeamComposition infers the archetype from the description and
// measures how much of it the pooled roster covers. An empty roster or a
// blank description yields an all-zero result.
func ScoreTeamComposition(description string, roster []*employee.Profile) CompositionResult {
	if strings.TrimSpace(description) == "" || len(nonNil(roster)) == 0 {
		return emptyComposition()
	}

	inferred := InferArchetype(description)
	a, ok := criteria.Lookup(inferred.Name)
	if !ok {
		return emptyComposition()
	}

	res := scoreComposition(roster, a)
	res.Archetype = a.Name
	res.ArchetypeMatched = inferred.Matched
	res.KeywordHits = inferred.Hits
	return res
}

// TeamComposition scores a stored roster using its team description.
func TeamComposition(r *team.Roster) CompositionResult {
	if r == nil {
		return emptyComposition()
	}
	return ScoreTeamComposition(r.Team.Description, r.All())
}

func scoreComposition(roster []*employee.Profile, a criteria.Archetype) CompositionResult {
	res := emptyComposition()
	skills, traits := pool(roster)

	covered := 0
	for _, req := range a.Skills {
		name := strings.ToLower(req.Name)
		category := strings.ToLower(req.Category)
		hit := false
		for _, s := range skills {
			if strings.Contains(s, name) || strings.Contains(category, s) {
				hit = true
				break
			}
		}
		if hit {
			covered++
		} else {
			res.MissingSkills = append(res.MissingSkills, req.Name)
		}
	}
	res.SkillCoverage = percent(covered, len(a.Skills))

	covered = 0
	for _, req := range a.Traits {
		name := strings.ToLower(req.Name)
		hit := false
		for _, t := range traits {
			if strings.Contains(t, name) {
				hit = true
				break
			}
		}
		if hit {
			covered++
		} else {
			res.MissingPersonality = append(res.MissingPersonality, req.Name)
		}
	}
	res.PersonalityCoverage = percent(covered, len(a.Traits))

	res.OverallFit = Overall(res.SkillCoverage, res.PersonalityCoverage)
	return res
}

// pool unions every member's lower-cased skill names and categories, and their
// top, second and sorted traits. Empty tokens are dropped: an empty string
// would otherwise be contained in every category.
func pool(roster []*employee.Profile) (skills, traits []string) {
	skillSet := newOrderedSet()
	traitSet := newOrderedSet()

	for _, p := range roster {
		if p == nil {
			continue
		}
		for _, s := range p.Skills {
			skillSet.add(strings.ToLower(strings.TrimSpace(s.Name)))
			skillSet.add(strings.ToLower(strings.TrimSpace(s.MainCategory)))
		}
		if p.Personality == nil {
			continue
		}
		traitSet.add(strings.ToLower(p.Personality.TopTrait))
		traitSet.add(strings.ToLower(p.Personality.SecondTrait))
		for _, t := range employee.TraitTokens(p.Personality.SortedTraits) {
			traitSet.add(t)
		}
	}
	return skillSet.items, traitSet.items
}

type orderedSet struct {
	seen  map[string]struct{}
	items []string
}

func newOrderedSet() *orderedSet {
	return &orderedSet{seen: make(map[string]struct{})}
}

func (s *orderedSet) add(v string) {
	if v == "" {
		return
	}
	if _, ok := s.seen[v]; ok {
		return
	}
	s.seen[v] = struct{}{}
	s.items = append(s.items, v)
}

func nonNil(profiles []*employee.Profile) []*employee.Profile {
	out := make([]*employee.Profile, 0, len(profiles))
	for _, p := range profiles {
		if p != nil {
			out = append(out, p)
		}
	}
	return out
}
