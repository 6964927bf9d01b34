package gemini

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/mitchellh/mapstructure"
	"github.com/spigell/team-matcher/internal/ai"
	"github.com/spigell/team-matcher/internal/employee"
	"github.com/spigell/team-matcher/internal/logger"
	"github.com/spigell/team-matcher/internal/team"
	"github.com/spigell/team-matcher/internal/utils"
	"go.uber.org/zap"
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, system, prompt string) (string, error)
	Model() string
}

//go:embed prompts/*.md
var promptFS embed.FS

const (
	defaultMaxLogLength = 200
	suggestionLimit     = 5
)

// Advisor implements ai.Advisor on top of a Gemini generator.
type Advisor struct {
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int
}

var _ ai.Advisor = (*Advisor)(nil)

func NewAdvisor(generator contentGenerator, log *zap.Logger, maxLogLength int) *Advisor {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}

	return &Advisor{
		generator: generator,
		logger:    logger.WithCommonFields(log, "gemini", generator.Model()),
		maxLogLen: maxLogLength,
	}
}

func (a *Advisor) AnalyzeTeamFit(ctx context.Context, p *employee.Profile, teamDescription string) (*ai.TeamFit, error) {
	if p == nil {
		return nil, fmt.Errorf("%w: employee is required", ai.ErrUnavailable)
	}

	employeeJSON, err := marshalPayload(ai.NewPromptEmployee(p, true))
	if err != nil {
		return nil, err
	}

	prompt := render("analyze_team_fit", map[string]string{
		"EMPLOYEE_JSON":    employeeJSON,
		"TEAM_DESCRIPTION": strings.TrimSpace(teamDescription),
	})

	var out ai.TeamFit
	if err := a.ask(ctx, "analyze_team_fit", prompt, teamFitSchema, false, &out); err != nil {
		return nil, err
	}

	out.Percentage = ai.ClampPercent(out.Percentage)
	return &out, nil
}

func (a *Advisor) MatchSkills(ctx context.Context, employees []*employee.Profile, category string) ([]ai.SkillMatch, error) {
	payload := ai.PromptEmployees(employees, true)
	if len(payload) == 0 {
		return nil, fmt.Errorf("%w: no employees to match", ai.ErrUnavailable)
	}

	employeesJSON, err := marshalPayload(payload)
	if err != nil {
		return nil, err
	}

	category = strings.TrimSpace(category)
	if category == "" {
		category = "all"
	}

	prompt := render("match_skills", map[string]string{
		"EMPLOYEES_JSON": employeesJSON,
		"CATEGORY":       category,
	})

	var raw []ai.SkillMatch
	if err := a.ask(ctx, "match_skills", prompt, skillMatchesSchema, true, &raw); err != nil {
		return nil, err
	}

	known := idSet(employees)
	out := make([]ai.SkillMatch, 0, len(raw))
	for _, m := range raw {
		if !known[m.EmployeeID] {
			a.logger.Debug("dropping match for unknown employee", zap.Int64("employee_id", m.EmployeeID))
			continue
		}
		m.MatchingScore = ai.ClampPercent(m.MatchingScore)
		out = append(out, m)
	}

	if len(out) == 0 {
		return nil, fmt.Errorf("%w: model returned no known employees", ai.ErrUnavailable)
	}

	return out, nil
}

func (a *Advisor) SuggestComposition(ctx context.Context, teamDescription string, leader *employee.Profile, candidates []*employee.Profile) ([]ai.MemberSuggestion, error) {
	payload := ai.PromptEmployees(candidates, false)
	if len(payload) == 0 {
		return nil, fmt.Errorf("%w: no candidates to suggest", ai.ErrUnavailable)
	}

	employeesJSON, err := marshalPayload(payload)
	if err != nil {
		return nil, err
	}

	var leaderPayload any
	if leader != nil {
		leaderPayload = ai.NewPromptEmployee(leader, false)
	}
	leaderJSON, err := marshalPayload(leaderPayload)
	if err != nil {
		return nil, err
	}

	prompt := render("suggest_composition", map[string]string{
		"TEAM_DESCRIPTION": strings.TrimSpace(teamDescription),
		"LEADER_JSON":      leaderJSON,
		"EMPLOYEES_JSON":   employeesJSON,
		"LIMIT":            strconv.Itoa(suggestionLimit),
	})

	var raw []ai.MemberSuggestion
	if err := a.ask(ctx, "suggest_composition", prompt, memberSuggestionsSchema, true, &raw); err != nil {
		return nil, err
	}

	known := idSet(candidates)
	if leader != nil {
		delete(known, leader.ID)
	}

	seen := make(map[int64]bool, len(raw))
	out := make([]ai.MemberSuggestion, 0, len(raw))
	for _, s := range raw {
		if !known[s.EmployeeID] || seen[s.EmployeeID] {
			continue
		}
		seen[s.EmployeeID] = true
		s.Percentage = ai.ClampPercent(s.Percentage)
		out = append(out, s)
	}

	if len(out) == 0 {
		return nil, fmt.Errorf("%w: model returned no known candidates", ai.ErrUnavailable)
	}

	return out, nil
}

func (a *Advisor) SuggestLeader(ctx context.Context, t team.Team, candidates []*employee.Profile) (*ai.LeaderSuggestion, error) {
	payload := ai.PromptEmployees(candidates, false)
	if len(payload) == 0 {
		return nil, fmt.Errorf("%w: no candidates to lead", ai.ErrUnavailable)
	}

	teamJSON, err := marshalPayload(t)
	if err != nil {
		return nil, err
	}
	employeesJSON, err := marshalPayload(payload)
	if err != nil {
		return nil, err
	}

	prompt := render("suggest_leader", map[string]string{
		"TEAM_JSON":      teamJSON,
		"EMPLOYEES_JSON": employeesJSON,
	})

	var out ai.LeaderSuggestion
	if err := a.ask(ctx, "suggest_leader", prompt, leaderSuggestionSchema, false, &out); err != nil {
		return nil, err
	}

	if !idSet(candidates)[out.EmployeeID] {
		return nil, fmt.Errorf("%w: model suggested unknown employee %d", ai.ErrUnavailable, out.EmployeeID)
	}

	return &out, nil
}

// ask sends the prompt, then extracts, validates and decodes the answer into
// out. wantArray wraps a lone object into a one-element list.
func (a *Advisor) ask(ctx context.Context, operation, prompt string, schema *jsonSchema, wantArray bool, out any) error {
	log := a.logger.With(logger.Operation(operation))

	log.Debug("gemini generate content request",
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, a.maxLogLen)),
	)

	raw, err := a.generator.GenerateContent(ctx, systemPrompt(), prompt)
	if err != nil {
		return fmt.Errorf("%w: %w", ai.ErrUnavailable, err)
	}

	log.Debug("gemini generate content response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, a.maxLogLen)),
	)

	data, err := parseResponse(raw, wantArray)
	if err != nil {
		return fmt.Errorf("%w: %w", ai.ErrUnavailable, err)
	}

	if err := schema.validate(data); err != nil {
		return fmt.Errorf("%w: %w", ai.ErrUnavailable, err)
	}

	if err := decodeWeak(data, out); err != nil {
		return fmt.Errorf("%w: decode %s response: %w", ai.ErrUnavailable, operation, err)
	}

	return nil
}

func systemPrompt() string {
	return render("system", nil)
}

func render(name string, values map[string]string) string {
	data, err := promptFS.ReadFile("prompts/" + name + ".md")
	if err != nil {
		panic(fmt.Sprintf("missing embedded prompt %q: %v", name, err))
	}

	prompt := string(data)
	for key, value := range values {
		prompt = strings.ReplaceAll(prompt, "{{"+key+"}}", value)
	}
	return strings.TrimSpace(prompt)
}

func marshalPayload(v any) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("%w: marshal prompt payload: %w", ai.ErrUnavailable, err)
	}
	return string(data), nil
}

// parseResponse extracts the JSON document from free model text.
func parseResponse(raw string, wantArray bool) (any, error) {
	cleaned := extractJSON(raw)
	if cleaned == "" {
		return nil, fmt.Errorf("no JSON found in gemini response")
	}

	var data any
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return nil, fmt.Errorf("parse gemini response: %w", err)
	}

	if obj, ok := data.(map[string]any); ok && wantArray {
		data = []any{obj}
	}

	return data, nil
}

func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.TrimSpace(strings.Trim(raw, "`"))

	start := strings.IndexAny(raw, "{[")
	if start == -1 {
		return ""
	}

	closing := "}"
	if raw[start] == '[' {
		closing = "]"
	}

	end := strings.LastIndex(raw, closing)
	if end < start {
		return ""
	}

	return raw[start : end+1]
}

func decodeWeak(data any, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           out,
		TagName:          "mapstructure",
	})
	if err != nil {
		return err
	}
	return decoder.Decode(data)
}

func idSet(profiles []*employee.Profile) map[int64]bool {
	set := make(map[int64]bool, len(profiles))
	for _, p := range profiles {
		if p != nil {
			set[p.ID] = true
		}
	}
	return set
}
