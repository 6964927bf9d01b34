package fallback

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/spigell/team-matcher/internal/ai"
	"github.com/spigell/team-matcher/internal/employee"
	"github.com/spigell/team-matcher/internal/logger"
	"github.com/spigell/team-matcher/internal/team"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type failingAdvisor struct {
	calls int
}

func (f *failingAdvisor) AnalyzeTeamFit(context.Context, *employee.Profile, string) (*ai.TeamFit, error) {
	f.calls++
	return nil, ai.ErrUnavailable
}

func (f *failingAdvisor) MatchSkills(context.Context, []*employee.Profile, string) ([]ai.SkillMatch, error) {
	f.calls++
	return nil, ai.ErrUnavailable
}

func (f *failingAdvisor) SuggestComposition(context.Context, string, *employee.Profile, []*employee.Profile) ([]ai.MemberSuggestion, error) {
	f.calls++
	return nil, ai.ErrUnavailable
}

func (f *failingAdvisor) SuggestLeader(context.Context, team.Team, []*employee.Profile) (*ai.LeaderSuggestion, error) {
	f.calls++
	return nil, ai.ErrUnavailable
}

type okAdvisor struct{ failingAdvisor }

func (okAdvisor) AnalyzeTeamFit(context.Context, *employee.Profile, string) (*ai.TeamFit, error) {
	return &ai.TeamFit{Percentage: 61, Explanation: "model"}, nil
}

func fixed(v int) Option {
	return WithRand(func(int) int { return v })
}

func people() []*employee.Profile {
	return []*employee.Profile{
		{ID: 1, Name: "Chai", JobTitle: "Finance Manager", WorkYears: 8, Personality: &employee.Personality{BelbinRole: "Monitor Evaluator"}},
		{ID: 2, Name: "Dao", JobTitle: "Net-Zero Program Officer", WorkYears: 4, Personality: &employee.Personality{BelbinRole: "Coordinator"}},
		{ID: 3, Name: "Ek", JobTitle: "Engineer", WorkYears: 8},
	}
}

func TestScoresStayInRange(t *testing.T) {
	for _, v := range []int{0, 19} {
		a := New(nil, nil, fixed(v))
		fit, err := a.AnalyzeTeamFit(context.Background(), people()[0], "team")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if fit.Percentage < 75 || fit.Percentage > 94 {
			t.Fatalf("percentage %d outside [75,94]", fit.Percentage)
		}
	}

	a := New(nil, nil)
	for i := 0; i < 200; i++ {
		fit, _ := a.AnalyzeTeamFit(context.Background(), people()[2], "team")
		if fit.Percentage < 75 || fit.Percentage > 94 {
			t.Fatalf("percentage %d outside [75,94]", fit.Percentage)
		}
	}
}

func TestAnalyzeTeamFitFallback(t *testing.T) {
	core, observed := observer.New(zapcore.WarnLevel)
	next := &failingAdvisor{}
	a := New(next, zap.New(core), fixed(5))

	fit, err := a.AnalyzeTeamFit(context.Background(), people()[0], "finance")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if next.calls != 1 {
		t.Fatalf("expected the wrapped advisor to be tried once, got %d", next.calls)
	}
	if !fit.Fallback || fit.Percentage != 80 {
		t.Fatalf("unexpected fallback fit: %+v", fit)
	}
	if fit.Explanation != "Chai has the Monitor Evaluator role, which adds analysis and specialist expertise to the team" {
		t.Fatalf("unexpected explanation: %q", fit.Explanation)
	}

	entries := observed.All()
	if len(entries) != 1 || entries[0].ContextMap()[logger.FieldOperation] != "analyze_team_fit" {
		t.Fatalf("expected one warn entry for the operation, got %+v", entries)
	}

	noRole, _ := a.AnalyzeTeamFit(context.Background(), people()[2], "team")
	if noRole.Explanation != "Ek has 8 years of experience as Engineer, which suits this team" {
		t.Fatalf("unexpected explanation: %q", noRole.Explanation)
	}

	if _, err := a.AnalyzeTeamFit(context.Background(), nil, "team"); !errors.Is(err, ai.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable for nil employee, got %v", err)
	}
}

func TestPassesThroughSuccess(t *testing.T) {
	a := New(&okAdvisor{}, nil, fixed(0))

	fit, err := a.AnalyzeTeamFit(context.Background(), people()[0], "team")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fit.Fallback || fit.Percentage != 61 {
		t.Fatalf("expected the model answer, got %+v", fit)
	}
}

func TestMatchSkillsFallback(t *testing.T) {
	a := New(&failingAdvisor{}, nil, fixed(0))

	profiles := people()
	for i := 0; i < 12; i++ {
		profiles = append(profiles, &employee.Profile{ID: int64(100 + i), Name: "extra"})
	}
	profiles = append([]*employee.Profile{nil}, profiles...)

	matches, err := a.MatchSkills(context.Background(), profiles, "coordinator")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(matches) != matchLimit {
		t.Fatalf("expected %d matches, got %d", matchLimit, len(matches))
	}
	if matches[0].EmployeeID != 1 || matches[0].MatchingScore != 75 {
		t.Fatalf("unexpected first match: %+v", matches[0])
	}
	if matches[1].EmployeeID != 2 || matches[1].MatchingScore != 85 {
		t.Fatalf("expected category bonus for the coordinator, got %+v", matches[1])
	}
	if !strings.Contains(matches[1].Explanation, "matches the selected coordinator category") {
		t.Fatalf("unexpected explanation: %q", matches[1].Explanation)
	}
	for _, m := range matches {
		if !m.Fallback {
			t.Fatalf("expected fallback flag on %+v", m)
		}
	}
}

func TestMatchSkillsCategoryBonusIgnoresCase(t *testing.T) {
	a := New(&failingAdvisor{}, nil, fixed(0))

	for _, category := range []string{"COORDINATOR", "Coordinator", "coord"} {
		matches, err := a.MatchSkills(context.Background(), people(), category)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if matches[1].MatchingScore != 85 {
			t.Fatalf("category %q: expected bonus for the coordinator, got %+v", category, matches[1])
		}
	}

	for _, category := range []string{"all", "ALL", "Shaper", ""} {
		matches, err := a.MatchSkills(context.Background(), people(), category)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if matches[1].MatchingScore != 75 {
			t.Fatalf("category %q: unexpected bonus %+v", category, matches[1])
		}
	}
}

func TestSuggestCompositionFallback(t *testing.T) {
	a := New(nil, nil, fixed(3))

	profiles := people()
	leader := profiles[1]
	for i := 0; i < 6; i++ {
		profiles = append(profiles, &employee.Profile{ID: int64(10 + i), Name: "extra"})
	}

	got, err := a.SuggestComposition(context.Background(), "team", leader, profiles)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(got) != compositionLimit {
		t.Fatalf("expected %d suggestions, got %d", compositionLimit, len(got))
	}
	for _, s := range got {
		if s.EmployeeID == leader.ID {
			t.Fatalf("leader must not be suggested as a member")
		}
		if s.Percentage != 78 || !s.Fallback {
			t.Fatalf("unexpected suggestion: %+v", s)
		}
	}
	if got[0].Explanation != "Chai has the Monitor Evaluator role, which complements the leader's Coordinator role and keeps the team balanced" {
		t.Fatalf("unexpected explanation: %q", got[0].Explanation)
	}
	if got[1].Explanation != "Ek has 8 years of experience as Engineer, which benefits the team" {
		t.Fatalf("unexpected explanation: %q", got[1].Explanation)
	}
}

func TestSuggestLeaderFallback(t *testing.T) {
	a := New(&failingAdvisor{}, nil)

	tests := []struct {
		name string
		team team.Team
		want int64
	}{
		{name: "net zero job title wins", team: team.Team{Name: "NZ", Description: "The NET ZERO programme"}, want: 2},
		{name: "marker is case sensitive", team: team.Team{Name: "NZ", Description: "net zero programme"}, want: 1},
		{name: "most experienced, first on ties", team: team.Team{Name: "Board"}, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := a.SuggestLeader(context.Background(), tt.team, people())
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.EmployeeID != tt.want || !got.Fallback {
				t.Fatalf("expected employee %d, got %+v", tt.want, got)
			}
		})
	}

	if _, err := a.SuggestLeader(context.Background(), team.Team{Name: "x"}, []*employee.Profile{nil}); !errors.Is(err, ai.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable without candidates, got %v", err)
	}
}

func TestSuggestLeaderDoesNotReorderInput(t *testing.T) {
	a := New(nil, nil)
	in := people()
	if _, err := a.SuggestLeader(context.Background(), team.Team{}, in); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if in[0].ID != 1 || in[1].ID != 2 || in[2].ID != 3 {
		t.Fatalf("input slice was reordered")
	}
}
