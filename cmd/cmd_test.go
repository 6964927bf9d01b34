package cmd

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/spigell/team-matcher/internal/ai/fallback"
	"github.com/spigell/team-matcher/internal/employee"
)

func TestNewAdvisor(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")

	tests := []struct {
		name         string
		cfg          *AIConfig
		wantNil      bool
		wantFallback bool
		wantErr      bool
	}{
		{name: "nil config", cfg: nil, wantNil: true},
		{name: "everything disabled", cfg: &AIConfig{Gemini: &GeminiConfig{}}, wantNil: true},
		{name: "fallback only", cfg: &AIConfig{Fallback: true, Gemini: &GeminiConfig{}}, wantFallback: true},
		{name: "missing key with fallback", cfg: &AIConfig{Enabled: true, Fallback: true, Gemini: &GeminiConfig{}}, wantFallback: true},
		{name: "missing key without fallback", cfg: &AIConfig{Enabled: true, Gemini: &GeminiConfig{}}, wantErr: true},
		{name: "unknown provider", cfg: &AIConfig{Enabled: true, Provider: "openai", Gemini: &GeminiConfig{}}, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			advisor, err := newAdvisor(context.Background(), tc.cfg, zap.NewNop(), nil)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tc.wantNil {
				if advisor != nil {
					t.Fatalf("expected no advisor, got %T", advisor)
				}
				return
			}
			if _, ok := advisor.(*fallback.Advisor); ok != tc.wantFallback {
				t.Fatalf("unexpected advisor type %T", advisor)
			}
		})
	}
}

func TestLabelAndPick(t *testing.T) {
	profiles := []*employee.Profile{
		{ID: 7, Name: "Ana Silva", JobTitle: "Strategist", WorkYears: 12, Personality: &employee.Personality{BelbinRole: "CO"}},
		{ID: 8, Name: "Bo Chen", JobTitle: "Analyst", WorkYears: 3},
	}
	c := employee.NewCandidates(profiles)

	got := label(profiles[0], "suggested")
	if got != "7 Ana Silva / Strategist / CO / 12y / suggested" {
		t.Fatalf("unexpected label %q", got)
	}
	if got := label(profiles[1], ""); got != "8 Bo Chen / Analyst / unknown / 3y" {
		t.Fatalf("unexpected label %q", got)
	}

	p, err := pick(c, label(profiles[1], ""))
	if err != nil || p.ID != 8 {
		t.Fatalf("unexpected pick %v, %v", p, err)
	}

	if _, err := pick(c, PromptDone); err == nil {
		t.Fatalf("expected error for non-employee item")
	}
	if _, err := pick(c, "99 Nobody"); err == nil {
		t.Fatalf("expected error for unknown id")
	}
}

func TestDraft(t *testing.T) {
	d := &draft{}
	d.add(&employee.Profile{ID: 1}, 90)
	d.add(&employee.Profile{ID: 2}, 0)

	ids := d.excluded()
	if len(ids) != 2 || ids[0] != 1 || ids[1] != 2 {
		t.Fatalf("unexpected excluded ids %v", ids)
	}
	if d.members[0].MatchingPercentage != 90 || d.members[1].EmployeeID != 2 {
		t.Fatalf("unexpected members %+v", d.members)
	}
}
