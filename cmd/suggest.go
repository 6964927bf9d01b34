package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/team-matcher/internal/ai"
	"github.com/spigell/team-matcher/internal/employee"
	"github.com/spigell/team-matcher/internal/filtering"
	"github.com/spigell/team-matcher/internal/scoring"
	"github.com/spigell/team-matcher/internal/team"
)

var suggestCmd = &cobra.Command{
	Use:   "suggest",
	Short: "Ask the advisor for a leader or members",
}

var suggestLeaderCmd = &cobra.Command{
	Use:   "leader",
	Short: "Suggest a leader for a team",
	Run: func(cmd *cobra.Command, _ []string) {
		suggestLeader(cmd)
	},
}

var suggestMembersCmd = &cobra.Command{
	Use:   "members",
	Short: "Suggest members for a team around a leader",
	Run: func(cmd *cobra.Command, _ []string) {
		suggestMembers(cmd)
	},
}

func init() {
	rootCmd.AddCommand(suggestCmd)
	suggestCmd.AddCommand(suggestLeaderCmd, suggestMembersCmd)

	suggestCmd.PersistentFlags().Int64P("team", "t", 0, "team id")
	suggestCmd.MarkPersistentFlagRequired("team")

	suggestMembersCmd.Flags().Int64P("leader", "l", 0, "leader employee id")
	suggestMembersCmd.Flags().Int64Slice("exclude", nil, "employee ids to leave out")
	suggestMembersCmd.Flags().String("category", "", "belbin role code or name to narrow candidates")
	suggestMembersCmd.Flags().String("query", "", "name or job title substring")
	suggestMembersCmd.Flags().Int("limit", 0, "cap the candidates sent to the advisor, 0 keeps all")
	suggestMembersCmd.MarkFlagRequired("leader")
}

// candidateRequest is what the members pipeline needs besides the config.
type candidateRequest struct {
	Team       team.Team
	Leader     *employee.Profile
	ExcludeIDs []int64
	Query      string
	Category   string
	Limit      int
}

type membersReport struct {
	Leader      *employee.Profile     `json:"leader"`
	Filters     []filtering.Status    `json:"filters"`
	Suggestions []ai.MemberSuggestion `json:"suggestions"`
	Assessments map[int64]*ai.TeamFit `json:"assessments,omitempty"`
}

// candidates runs the default filtering pipeline over the directory. The
// archetype for the minimum fit step is inferred from the team description
// unless builder.archetype names one.
func candidates(ctx context.Context, e *env, advisor ai.Advisor, profiles []*employee.Profile, req candidateRequest) (*employee.Candidates, []filtering.Status, map[int64]*ai.TeamFit, error) {
	archetype := e.config.Builder.Archetype
	if archetype == "" {
		archetype = scoring.InferArchetype(req.Team.Description).Name
	}

	excluded := append([]int64{}, req.ExcludeIDs...)
	if req.Leader != nil {
		excluded = append(excluded, req.Leader.ID)
	}

	cfg := &filtering.Config{
		ExcludeIDs:      excluded,
		Query:           req.Query,
		Category:        req.Category,
		Archetype:       archetype,
		MinimumFit:      e.config.Builder.MinimumFit,
		TeamDescription: req.Team.Description,
		MinimumAIFit:    e.config.Builder.MinimumAIFit,
		Limit:           req.Limit,
	}

	steps := filtering.Default()
	if advisor == nil {
		filtering.DisableByName(steps, "ai_fit", "ai advisor is not configured")
	}

	left, assessments, err := filtering.Run(ctx, cfg, filtering.Deps{Logger: e.logger, Advisor: advisor}, steps, employee.NewCandidates(profiles))
	if err != nil {
		return nil, nil, nil, err
	}
	return left, filtering.Describe(steps), assessments, nil
}

func suggestLeader(cmd *cobra.Command) {
	ctx := context.Background()
	e := setup(ctx)
	defer e.Close()

	advisor := mustAdvisor(ctx, e)
	teamID, _ := cmd.Flags().GetInt64("team")

	t, err := e.store.GetTeam(ctx, teamID)
	if err != nil {
		e.logger.Fatal("loading team", zap.Int64("team_id", teamID), zap.Error(err))
	}

	profiles, err := e.store.ListEmployees(ctx)
	if err != nil {
		e.logger.Fatal("loading employees", zap.Error(err))
	}

	suggestion, err := advisor.SuggestLeader(ctx, t, profiles)
	if err != nil {
		e.logger.Fatal("suggesting leader", zap.Error(err))
	}

	printJSON(suggestion)
}

func suggestMembers(cmd *cobra.Command) {
	ctx := context.Background()
	e := setup(ctx)
	defer e.Close()

	advisor := mustAdvisor(ctx, e)
	teamID, _ := cmd.Flags().GetInt64("team")
	leaderID, _ := cmd.Flags().GetInt64("leader")
	exclude, _ := cmd.Flags().GetInt64Slice("exclude")
	category, _ := cmd.Flags().GetString("category")
	query, _ := cmd.Flags().GetString("query")
	limit, _ := cmd.Flags().GetInt("limit")

	t, err := e.store.GetTeam(ctx, teamID)
	if err != nil {
		e.logger.Fatal("loading team", zap.Int64("team_id", teamID), zap.Error(err))
	}

	profiles, err := e.store.ListEmployees(ctx)
	if err != nil {
		e.logger.Fatal("loading employees", zap.Error(err))
	}

	leader := employee.NewCandidates(profiles).FindByID(leaderID)
	if leader == nil {
		e.logger.Fatal("leader is not a known employee", zap.Int64("leader_id", leaderID))
	}

	left, statuses, assessments, err := candidates(ctx, e, advisor, profiles, candidateRequest{
		Team: t, Leader: leader, ExcludeIDs: exclude, Query: query, Category: category, Limit: limit,
	})
	if err != nil {
		e.logger.Fatal("filtering candidates", zap.Error(err))
	}

	report := membersReport{Leader: leader, Filters: statuses, Assessments: assessments, Suggestions: []ai.MemberSuggestion{}}
	if left.Len() > 0 {
		report.Suggestions, err = advisor.SuggestComposition(ctx, t.Description, leader, left.Items)
		if err != nil {
			e.logger.Fatal("suggesting members", zap.Error(err))
		}
	}

	printJSON(report)
}

func mustAdvisor(ctx context.Context, e *env) ai.Advisor {
	advisor, err := newAdvisor(ctx, e.config.AI, e.logger, e.metrics)
	if err != nil {
		e.logger.Fatal("building ai advisor", zap.Error(err))
	}
	if advisor == nil {
		e.logger.Fatal("ai advisor is disabled", zap.String("hint", fmt.Sprintf("set ai.enabled or ai.fallback in %s.yaml", app)))
	}
	return advisor
}
