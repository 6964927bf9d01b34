// Package fallback decorates an ai.Advisor so that every call produces an
// answer. When the wrapped advisor is missing or fails, a templated answer
// with a random score is returned and flagged with Fallback.
package fallback

import (
	"cmp"
	"context"
	"fmt"
	"math/rand/v2"
	"slices"
	"strings"
	"time"

	"github.com/spigell/team-matcher/internal/ai"
	"github.com/spigell/team-matcher/internal/employee"
	"github.com/spigell/team-matcher/internal/logger"
	"github.com/spigell/team-matcher/internal/metrics"
	"github.com/spigell/team-matcher/internal/team"
	"go.uber.org/zap"
)

const (
	scoreFloor = 75
	scoreSpan  = 20

	matchLimit       = 10
	compositionLimit = 5

	netZeroMarker   = "NET ZERO"
	netZeroJobTitle = "net-zero"
)

// Advisor wraps another advisor and never fails for non-empty input.
type Advisor struct {
	next    ai.Advisor
	logger  *zap.Logger
	metrics *metrics.Manager
	intn    func(n int) int
}

var _ ai.Advisor = (*Advisor)(nil)

type Option func(*Advisor)

// WithRand replaces the random source. intn must return a value in [0, n).
func WithRand(intn func(n int) int) Option {
	return func(a *Advisor) {
		if intn != nil {
			a.intn = intn
		}
	}
}

func WithMetrics(m *metrics.Manager) Option {
	return func(a *Advisor) {
		a.metrics = m
	}
}

// New wraps next. A nil next means AI is disabled and every call falls back.
func New(next ai.Advisor, log *zap.Logger, opts ...Option) *Advisor {
	a := &Advisor{
		next:   next,
		logger: logger.OrNop(log),
		intn:   rand.IntN,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *Advisor) AnalyzeTeamFit(ctx context.Context, p *employee.Profile, teamDescription string) (*ai.TeamFit, error) {
	const op = "analyze_team_fit"
	started := time.Now()

	if a.next != nil {
		fit, err := a.next.AnalyzeTeamFit(ctx, p, teamDescription)
		if err == nil {
			a.observe(op, metrics.OutcomeOK, started)
			return fit, nil
		}
		a.warn(op, err)
	}

	if p == nil {
		a.observe(op, metrics.OutcomeError, started)
		return nil, fmt.Errorf("%w: employee is required", ai.ErrUnavailable)
	}

	a.observe(op, metrics.OutcomeFallback, started)
	return &ai.TeamFit{
		Percentage:  a.score(),
		Explanation: roleExplanation(p),
		Fallback:    true,
	}, nil
}

func (a *Advisor) MatchSkills(ctx context.Context, employees []*employee.Profile, category string) ([]ai.SkillMatch, error) {
	const op = "match_skills"
	started := time.Now()

	if a.next != nil {
		matches, err := a.next.MatchSkills(ctx, employees, category)
		if err == nil {
			a.observe(op, metrics.OutcomeOK, started)
			return matches, nil
		}
		a.warn(op, err)
	}

	category = strings.TrimSpace(category)
	out := make([]ai.SkillMatch, 0, matchLimit)
	for _, p := range employees {
		if p == nil {
			continue
		}
		if len(out) == matchLimit {
			break
		}

		score := a.score()
		explanation := experienceExplanation(p)
		role := belbinRole(p)

		switch {
		case role != "" && category != "" && !strings.EqualFold(category, "all"):
			if strings.Contains(strings.ToLower(role), strings.ToLower(category)) {
				score = min(95, score+10)
				explanation = fmt.Sprintf("%s has the %s role, which matches the selected %s category", p.Name, role, category)
			} else {
				explanation = fmt.Sprintf("%s has the %s role, which fits to some degree even though it is not the selected %s category", p.Name, role, category)
			}
		case role != "":
			explanation = fmt.Sprintf("%s has the %s role, which helps the team work effectively", p.Name, role)
		}

		out = append(out, ai.SkillMatch{
			EmployeeID:    p.ID,
			MatchingScore: score,
			Explanation:   explanation,
			Fallback:      true,
		})
	}

	a.observe(op, metrics.OutcomeFallback, started)
	return out, nil
}

func (a *Advisor) SuggestComposition(ctx context.Context, teamDescription string, leader *employee.Profile, candidates []*employee.Profile) ([]ai.MemberSuggestion, error) {
	const op = "suggest_composition"
	started := time.Now()

	if a.next != nil {
		suggestions, err := a.next.SuggestComposition(ctx, teamDescription, leader, candidates)
		if err == nil {
			a.observe(op, metrics.OutcomeOK, started)
			return suggestions, nil
		}
		a.warn(op, err)
	}

	leaderRole := belbinRole(leader)
	out := make([]ai.MemberSuggestion, 0, compositionLimit)
	for _, p := range candidates {
		if p == nil || (leader != nil && p.ID == leader.ID) {
			continue
		}
		if len(out) == compositionLimit {
			break
		}

		explanation := fmt.Sprintf("%s has %d years of experience as %s, which benefits the team", p.Name, p.WorkYears, jobTitle(p))
		if role := belbinRole(p); role != "" && leaderRole != "" {
			explanation = fmt.Sprintf("%s has the %s role, which complements the leader's %s role and keeps the team balanced", p.Name, role, leaderRole)
		}

		out = append(out, ai.MemberSuggestion{
			EmployeeID:  p.ID,
			Percentage:  a.score(),
			Explanation: explanation,
			Fallback:    true,
		})
	}

	a.observe(op, metrics.OutcomeFallback, started)
	return out, nil
}

func (a *Advisor) SuggestLeader(ctx context.Context, t team.Team, candidates []*employee.Profile) (*ai.LeaderSuggestion, error) {
	const op = "suggest_leader"
	started := time.Now()

	if a.next != nil {
		leader, err := a.next.SuggestLeader(ctx, t, candidates)
		if err == nil {
			a.observe(op, metrics.OutcomeOK, started)
			return leader, nil
		}
		a.warn(op, err)
	}

	pool := make([]*employee.Profile, 0, len(candidates))
	for _, p := range candidates {
		if p != nil {
			pool = append(pool, p)
		}
	}
	if len(pool) == 0 {
		a.observe(op, metrics.OutcomeError, started)
		return nil, fmt.Errorf("%w: no candidates to lead team %q", ai.ErrUnavailable, t.Name)
	}

	a.observe(op, metrics.OutcomeFallback, started)

	if strings.Contains(t.Description, netZeroMarker) {
		for _, p := range pool {
			if strings.Contains(strings.ToLower(p.JobTitle), netZeroJobTitle) {
				return &ai.LeaderSuggestion{
					EmployeeID: p.ID,
					Explanation: fmt.Sprintf("%s, with job title '%s' and %d years of experience, has a job title directly relevant to the team's objectives and is a suitable candidate to lead the %s team",
						p.Name, p.JobTitle, p.WorkYears, t.Name),
					Fallback: true,
				}, nil
			}
		}
	}

	// Stable sort keeps the first candidate among equally experienced ones.
	slices.SortStableFunc(pool, func(x, y *employee.Profile) int {
		return cmp.Compare(y.WorkYears, x.WorkYears)
	})
	best := pool[0]

	return &ai.LeaderSuggestion{
		EmployeeID:  best.ID,
		Explanation: fmt.Sprintf("%s was chosen as team leader for having the most work experience among the candidates (%d years)", best.Name, best.WorkYears),
		Fallback:    true,
	}, nil
}

func (a *Advisor) score() int {
	return scoreFloor + a.intn(scoreSpan)
}

func (a *Advisor) warn(op string, err error) {
	a.logger.Warn("ai advisor failed, using fallback",
		logger.Operation(op),
		zap.Bool(logger.FieldFallback, true),
		zap.Error(err),
	)
}

func (a *Advisor) observe(op, outcome string, started time.Time) {
	a.metrics.ObserveAI(op, outcome, time.Since(started))
}

func belbinRole(p *employee.Profile) string {
	if p == nil || p.Personality == nil {
		return ""
	}
	return strings.TrimSpace(p.Personality.BelbinRole)
}

func jobTitle(p *employee.Profile) string {
	if t := strings.TrimSpace(p.JobTitle); t != "" {
		return t
	}
	return "their current position"
}

func experienceExplanation(p *employee.Profile) string {
	return fmt.Sprintf("%s has %d years of experience as %s", p.Name, p.WorkYears, jobTitle(p))
}

// roleExplanation phrases the team fit of p around its Belbin role family.
func roleExplanation(p *employee.Profile) string {
	role := belbinRole(p)
	if role == "" {
		return fmt.Sprintf("%s has %d years of experience as %s, which suits this team", p.Name, p.WorkYears, jobTitle(p))
	}

	var contribution string
	switch {
	case containsAny(role, "Coordinator", "Shaper"):
		contribution = "suits leading and coordinating the team"
	case containsAny(role, "Implementer", "Completer Finisher"):
		contribution = "helps the team deliver efficiently and finish its work"
	case containsAny(role, "Plant", "Resource Investigator"):
		contribution = "brings creativity and new ideas to the team"
	case containsAny(role, "Monitor Evaluator", "Specialist"):
		contribution = "adds analysis and specialist expertise to the team"
	case containsAny(role, "Team Worker", "Teamworker"):
		contribution = "builds cohesion and collaboration in the team"
	default:
		contribution = "is an important part of how the team works together"
	}

	return fmt.Sprintf("%s has the %s role, which %s", p.Name, role, contribution)
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
