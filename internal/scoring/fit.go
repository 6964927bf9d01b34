// Package scoring rates employees and rosters against team archetypes.
//
// Every function here is pure: inputs are only read and results are freshly
// allocated, so callers may share profiles across goroutines.
package scoring

import (
	"math"
	"sort"
	"strings"

	"github.com/spigell/team-matcher/internal/criteria"
	"github.com/spigell/team-matcher/internal/employee"
)

const (
	skillWeight       = 0.7
	personalityWeight = 0.3

	skillPointStep = 5
	traitPointStep = 10
)

// FitResult is how well a single employee fits an archetype.
type FitResult struct {
	SkillFit           int      `json:"skill_fit"`
	PersonalityFit     int      `json:"personality_fit"`
	OverallFit         int      `json:"overall_fit"`
	MatchedSkills      []string `json:"matched_skills"`
	MatchedPersonality []string `json:"matched_personality"`
	MissingSkills      []string `json:"missing_skills"`
	MissingPersonality []string `json:"missing_personality"`
}

func emptyFit() FitResult {
	return FitResult{
		MatchedSkills:      []string{},
		MatchedPersonality: []string{},
		MissingSkills:      []string{},
		MissingPersonality: []string{},
	}
}

// ScoreEmployeeFit scores one employee against the named archetype. An
// unknown archetype yields an all-zero result with empty lists.
func ScoreEmployeeFit(p *employee.Profile, archetype string) FitResult {
	a, ok := criteria.Lookup(archetype)
	if !ok {
		return emptyFit()
	}
	return scoreFit(p, a)
}

func scoreFit(p *employee.Profile, a criteria.Archetype) FitResult {
	res := emptyFit()

	var skills []employee.Skill
	var personality *employee.Personality
	if p != nil {
		skills = p.Skills
		personality = p.Personality
	}

	n := len(a.Skills)
	earned, total := 0, 0
	for _, req := range a.Skills {
		points := (n + 1 - req.Priority) * skillPointStep
		total += points
		if hasSkill(skills, req) {
			earned += points
			res.MatchedSkills = append(res.MatchedSkills, req.Name)
		} else {
			res.MissingSkills = append(res.MissingSkills, req.Name)
		}
	}
	res.SkillFit = percent(earned, total)

	m := len(a.Traits)
	earned, total = 0, 0
	for i, req := range a.Traits {
		points := (m - i) * traitPointStep
		total += points
		if hasTrait(personality, req.Name) {
			earned += points
			res.MatchedPersonality = append(res.MatchedPersonality, req.Name)
		} else {
			res.MissingPersonality = append(res.MissingPersonality, req.Name)
		}
	}
	res.PersonalityFit = percent(earned, total)

	res.OverallFit = Overall(res.SkillFit, res.PersonalityFit)
	return res
}

// hasSkill credits a required skill when any employee skill name contains it
// or any employee main category contains its category.
func hasSkill(skills []employee.Skill, req criteria.RequiredSkill) bool {
	name := strings.ToLower(req.Name)
	category := strings.ToLower(req.Category)
	for _, s := range skills {
		if strings.Contains(strings.ToLower(s.Name), name) {
			return true
		}
		if s.MainCategory != "" && strings.Contains(strings.ToLower(s.MainCategory), category) {
			return true
		}
	}
	return false
}

func hasTrait(p *employee.Personality, trait string) bool {
	if p == nil {
		return false
	}
	trait = strings.ToLower(trait)
	return containsFold(p.TopTrait, trait) ||
		containsFold(p.SecondTrait, trait) ||
		containsFold(p.SortedTraits, trait)
}

func containsFold(s, lowerSubstr string) bool {
	if s == "" {
		return false
	}
	return strings.Contains(strings.ToLower(s), lowerSubstr)
}

// Overall blends skill and personality percentages 70/30.
func Overall(skill, personality int) int {
	return round(float64(skill)*skillWeight + float64(personality)*personalityWeight)
}

func percent(part, whole int) int {
	if whole <= 0 {
		return 0
	}
	return round(100 * float64(part) / float64(whole))
}

func round(v float64) int {
	return int(math.Round(v))
}

// Ranked pairs a profile with its fit.
type Ranked struct {
	Employee *employee.Profile `json:"employee"`
	Fit      FitResult         `json:"fit"`
}

// RankEmployees scores every profile against the archetype and orders them
// by overall fit, best first. Equal scores are ordered by name.
func RankEmployees(profiles []*employee.Profile, archetype string) []Ranked {
	out := make([]Ranked, 0, len(profiles))
	for _, p := range profiles {
		if p == nil {
			continue
		}
		out = append(out, Ranked{Employee: p, Fit: ScoreEmployeeFit(p, archetype)})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Fit.OverallFit != out[j].Fit.OverallFit {
			return out[i].Fit.OverallFit > out[j].Fit.OverallFit
		}
		return out[i].Employee.Name < out[j].Employee.Name
	})
	return out
}
