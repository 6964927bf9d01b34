package gemini

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/spigell/team-matcher/internal/ai"
	"github.com/spigell/team-matcher/internal/employee"
	"github.com/spigell/team-matcher/internal/team"
	"go.uber.org/zap"
)

type stubGenerator struct {
	response   string
	err        error
	lastSystem string
	lastPrompt string
}

func (s *stubGenerator) GenerateContent(_ context.Context, system, prompt string) (string, error) {
	s.lastSystem = system
	s.lastPrompt = prompt
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func (s *stubGenerator) Model() string {
	return "stub-model"
}

func testProfiles() []*employee.Profile {
	return []*employee.Profile{
		{
			ID:        1,
			Name:      "Anan",
			JobTitle:  "Net-Zero Strategy Lead",
			WorkYears: 12,
			Skills:    []employee.Skill{{Name: "Sustainability"}},
			Personality: &employee.Personality{
				TopTrait:    "Drive",
				SecondTrait: "Power",
				BelbinRole:  "Shaper",
			},
		},
		{ID: 2, Name: "Bua", JobTitle: "Analyst", WorkYears: 3},
	}
}

func TestAnalyzeTeamFit(t *testing.T) {
	stub := &stubGenerator{response: "```json\n{\"percentage\": \"87\", \"explanation\": \"Strong driver\"}\n```"}
	advisor := NewAdvisor(stub, zap.NewNop(), 0)

	fit, err := advisor.AnalyzeTeamFit(context.Background(), testProfiles()[0], "NET ZERO team")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if fit.Percentage != 87 || fit.Explanation != "Strong driver" || fit.Fallback {
		t.Fatalf("unexpected fit: %+v", fit)
	}

	if !strings.Contains(stub.lastPrompt, "NET ZERO team") {
		t.Fatalf("expected team description in prompt")
	}
	if !strings.Contains(stub.lastPrompt, `"belbin_role": "Shaper"`) {
		t.Fatalf("expected reduced employee payload in prompt, got: %s", stub.lastPrompt)
	}
	if strings.Contains(stub.lastPrompt, "{{") {
		t.Fatalf("expected every placeholder to be replaced")
	}
	if !strings.Contains(stub.lastSystem, "ONLY with valid JSON") {
		t.Fatalf("expected system instruction to be sent")
	}
}

func TestAnalyzeTeamFitClampsScore(t *testing.T) {
	stub := &stubGenerator{response: `Sure! {"percentage": 140.0, "explanation": "over"} hope this helps`}
	advisor := NewAdvisor(stub, zap.NewNop(), 0)

	fit, err := advisor.AnalyzeTeamFit(context.Background(), testProfiles()[1], "team")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fit.Percentage != 100 {
		t.Fatalf("expected clamped percentage, got %d", fit.Percentage)
	}
}

func TestAdvisorErrorsWrapUnavailable(t *testing.T) {
	cases := []struct {
		name string
		stub *stubGenerator
	}{
		{name: "generator error", stub: &stubGenerator{err: errors.New("boom")}},
		{name: "no json", stub: &stubGenerator{response: "I cannot help with that"}},
		{name: "broken json", stub: &stubGenerator{response: `{"percentage": 80,`}},
		{name: "schema mismatch", stub: &stubGenerator{response: `{"score": 80}`}},
		{name: "weak decode failure", stub: &stubGenerator{response: `{"percentage": "high", "explanation": "x"}`}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			advisor := NewAdvisor(tc.stub, zap.NewNop(), 0)
			_, err := advisor.AnalyzeTeamFit(context.Background(), testProfiles()[0], "team")
			if !errors.Is(err, ai.ErrUnavailable) {
				t.Fatalf("expected ErrUnavailable, got %v", err)
			}
		})
	}

	advisor := NewAdvisor(&stubGenerator{}, zap.NewNop(), 0)
	if _, err := advisor.AnalyzeTeamFit(context.Background(), nil, "team"); !errors.Is(err, ai.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable for nil employee, got %v", err)
	}
}

func TestMatchSkills(t *testing.T) {
	stub := &stubGenerator{response: `[
		{"employeeId": 1, "matchingScore": 91, "explanation": "Shaper"},
		{"employeeId": "2", "matchingScore": "-5", "explanation": "Analyst"},
		{"employeeId": 99, "matchingScore": 80, "explanation": "ghost"}
	]`}
	advisor := NewAdvisor(stub, zap.NewNop(), 0)

	matches, err := advisor.MatchSkills(context.Background(), testProfiles(), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(matches) != 2 {
		t.Fatalf("expected unknown employee to be dropped, got %+v", matches)
	}
	if matches[0].EmployeeID != 1 || matches[0].MatchingScore != 91 {
		t.Fatalf("unexpected first match: %+v", matches[0])
	}
	if matches[1].EmployeeID != 2 || matches[1].MatchingScore != 0 {
		t.Fatalf("expected weakly decoded and clamped second match, got %+v", matches[1])
	}
	if !strings.Contains(stub.lastPrompt, "Selected category: all") {
		t.Fatalf("expected default category in prompt")
	}
	if !strings.Contains(stub.lastPrompt, "Sustainability") {
		t.Fatalf("expected skills in matching prompt")
	}
}

func TestMatchSkillsAcceptsSingleObject(t *testing.T) {
	stub := &stubGenerator{response: `{"employeeId": 2, "matchingScore": 77, "explanation": "only one"}`}
	advisor := NewAdvisor(stub, zap.NewNop(), 0)

	matches, err := advisor.MatchSkills(context.Background(), testProfiles(), "Shaper")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(matches) != 1 || matches[0].EmployeeID != 2 {
		t.Fatalf("unexpected matches: %+v", matches)
	}
}

func TestMatchSkillsRequiresEmployees(t *testing.T) {
	advisor := NewAdvisor(&stubGenerator{}, zap.NewNop(), 0)
	if _, err := advisor.MatchSkills(context.Background(), nil, "all"); !errors.Is(err, ai.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestSuggestComposition(t *testing.T) {
	stub := &stubGenerator{response: `[
		{"employeeId": 2, "percentage": 82, "explanation": "balances the leader"},
		{"employeeId": 2, "percentage": 70, "explanation": "duplicate"},
		{"employeeId": 1, "percentage": 90, "explanation": "is the leader"}
	]`}
	advisor := NewAdvisor(stub, zap.NewNop(), 0)

	profiles := testProfiles()
	got, err := advisor.SuggestComposition(context.Background(), "climate team", profiles[0], profiles)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(got) != 1 || got[0].EmployeeID != 2 || got[0].Percentage != 82 {
		t.Fatalf("expected only the non-leader suggestion, got %+v", got)
	}
	if !strings.Contains(stub.lastPrompt, "recommend the 5 most suitable") {
		t.Fatalf("expected limit in prompt")
	}
}

func TestSuggestLeader(t *testing.T) {
	stub := &stubGenerator{response: `{"employeeId": 1.0, "explanation": "Shaper with 12 years"}`}
	advisor := NewAdvisor(stub, zap.NewNop(), 0)

	got, err := advisor.SuggestLeader(context.Background(), team.Team{ID: 5, Name: "NZ", Description: "NET ZERO"}, testProfiles())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.EmployeeID != 1 || got.Explanation == "" {
		t.Fatalf("unexpected leader: %+v", got)
	}
	if !strings.Contains(stub.lastPrompt, `"description": "NET ZERO"`) {
		t.Fatalf("expected team payload in prompt, got %s", stub.lastPrompt)
	}
}

func TestSuggestLeaderRejectsUnknownEmployee(t *testing.T) {
	stub := &stubGenerator{response: `{"employeeId": 42, "explanation": "who?"}`}
	advisor := NewAdvisor(stub, zap.NewNop(), 0)

	_, err := advisor.SuggestLeader(context.Background(), team.Team{Name: "x"}, testProfiles())
	if !errors.Is(err, ai.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestExtractJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "plain object", raw: `{"a":1}`, want: `{"a":1}`},
		{name: "fenced", raw: "```json\n[{\"a\":1}]\n```", want: `[{"a":1}]`},
		{name: "surrounding text", raw: `Result: {"a":{"b":2}} done`, want: `{"a":{"b":2}}`},
		{name: "array first", raw: `noise [1,2] {x}`, want: `[1,2]`},
		{name: "nothing", raw: "no json here", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := extractJSON(tt.raw); got != tt.want {
				t.Fatalf("extractJSON(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}
