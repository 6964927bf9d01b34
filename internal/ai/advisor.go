// Package ai describes the optional model-backed advisor. Every answer is
// advisory: deterministic scores always come from the scoring package.
package ai

import (
	"context"
	"errors"

	"github.com/spigell/team-matcher/internal/employee"
	"github.com/spigell/team-matcher/internal/team"
)

// ErrUnavailable is wrapped by every advisor error so callers can decide to
// fall back without inspecting provider specifics.
var ErrUnavailable = errors.New("ai advisor unavailable")

// Advisor answers the four questions the team builder asks a model.
type Advisor interface {
	AnalyzeTeamFit(ctx context.Context, p *employee.Profile, teamDescription string) (*TeamFit, error)
	MatchSkills(ctx context.Context, employees []*employee.Profile, category string) ([]SkillMatch, error)
	SuggestComposition(ctx context.Context, teamDescription string, leader *employee.Profile, candidates []*employee.Profile) ([]MemberSuggestion, error)
	SuggestLeader(ctx context.Context, t team.Team, candidates []*employee.Profile) (*LeaderSuggestion, error)
}

type TeamFit struct {
	Percentage  int    `json:"percentage" mapstructure:"percentage"`
	Explanation string `json:"explanation" mapstructure:"explanation"`
	Fallback    bool   `json:"fallback" mapstructure:"-"`
}

type SkillMatch struct {
	EmployeeID    int64  `json:"employee_id" mapstructure:"employeeId"`
	MatchingScore int    `json:"matching_score" mapstructure:"matchingScore"`
	Explanation   string `json:"explanation" mapstructure:"explanation"`
	Fallback      bool   `json:"fallback" mapstructure:"-"`
}

type MemberSuggestion struct {
	EmployeeID  int64  `json:"employee_id" mapstructure:"employeeId"`
	Percentage  int    `json:"percentage" mapstructure:"percentage"`
	Explanation string `json:"explanation" mapstructure:"explanation"`
	Fallback    bool   `json:"fallback" mapstructure:"-"`
}

type LeaderSuggestion struct {
	EmployeeID  int64  `json:"employee_id" mapstructure:"employeeId"`
	Explanation string `json:"explanation" mapstructure:"explanation"`
	Fallback    bool   `json:"fallback" mapstructure:"-"`
}

// PromptEmployee is the reduced employee payload handed to a model.
type PromptEmployee struct {
	ID                int64              `json:"id"`
	Name              string             `json:"name"`
	JobTitle          string             `json:"job_title"`
	WorkYears         int                `json:"work_year"`
	Skills            []string           `json:"skills,omitempty"`
	PersonalityTraits *PromptPersonality `json:"personality_traits"`
}

type PromptPersonality struct {
	BelbinRole        string `json:"belbin_role"`
	TopPersonality    string `json:"top_personality"`
	SecondPersonality string `json:"second_personality"`
}

// NewPromptEmployee reduces p. withSkills controls whether skill names are
// included; only the fit and matching prompts need them.
func NewPromptEmployee(p *employee.Profile, withSkills bool) PromptEmployee {
	if p == nil {
		return PromptEmployee{}
	}

	out := PromptEmployee{
		ID:        p.ID,
		Name:      p.Name,
		JobTitle:  p.JobTitle,
		WorkYears: p.WorkYears,
	}
	if withSkills {
		out.Skills = p.SkillNames()
	}
	if p.Personality != nil {
		out.PersonalityTraits = &PromptPersonality{
			BelbinRole:        p.Personality.BelbinRole,
			TopPersonality:    p.Personality.TopTrait,
			SecondPersonality: p.Personality.SecondTrait,
		}
	}

	return out
}

// PromptEmployees reduces every non-nil profile.
func PromptEmployees(profiles []*employee.Profile, withSkills bool) []PromptEmployee {
	out := make([]PromptEmployee, 0, len(profiles))
	for _, p := range profiles {
		if p == nil {
			continue
		}
		out = append(out, NewPromptEmployee(p, withSkills))
	}
	return out
}

// ClampPercent bounds a model supplied score to 0..100.
func ClampPercent(v int) int {
	switch {
	case v < 0:
		return 0
	case v > 100:
		return 100
	default:
		return v
	}
}
