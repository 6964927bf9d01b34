package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/team-matcher/internal/criteria"
	"github.com/spigell/team-matcher/internal/scoring"
)

var fitCmd = &cobra.Command{
	Use:   "fit",
	Short: "Score an employee against an archetype",
	Run: func(cmd *cobra.Command, _ []string) {
		fit(cmd)
	},
}

var composeCmd = &cobra.Command{
	Use:   "compose",
	Short: "Score a team's composition and personality balance",
	Run: func(cmd *cobra.Command, _ []string) {
		compose(cmd)
	},
}

var archetypesCmd = &cobra.Command{
	Use:   "archetypes",
	Short: "List the built-in team archetypes",
	Run: func(_ *cobra.Command, _ []string) {
		printJSON(criteria.All())
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print employee, team and skill counts",
	Run: func(_ *cobra.Command, _ []string) {
		stats()
	},
}

func init() {
	rootCmd.AddCommand(fitCmd, composeCmd, archetypesCmd, statsCmd)

	fitCmd.Flags().Int64P("employee", "e", 0, "employee id")
	fitCmd.Flags().StringP("archetype", "a", "", "archetype name; empty ranks every archetype")
	fitCmd.MarkFlagRequired("employee")

	composeCmd.Flags().Int64P("team", "t", 0, "team id")
	composeCmd.MarkFlagRequired("team")
}

type compositionReport struct {
	Composition scoring.CompositionResult `json:"composition"`
	Balance     scoring.Balance           `json:"personality_balance"`
	Skills      scoring.Distribution      `json:"skill_distribution"`
}

func fit(cmd *cobra.Command) {
	ctx := context.Background()
	e := setup(ctx)
	defer e.Close()

	id, _ := cmd.Flags().GetInt64("employee")
	archetype, _ := cmd.Flags().GetString("archetype")

	p, err := e.store.GetEmployee(ctx, id)
	if err != nil {
		e.logger.Fatal("loading employee", zap.Int64("employee_id", id), zap.Error(err))
	}

	if archetype != "" {
		if _, err := criteria.Get(archetype); err != nil {
			e.logger.Fatal("checking archetype", zap.Error(err), zap.Strings("known", criteria.Names()))
		}
		printJSON(scoring.ScoreEmployeeFit(p, archetype))
		return
	}

	results := make(map[string]scoring.FitResult, len(criteria.Names()))
	for _, name := range criteria.Names() {
		results[name] = scoring.ScoreEmployeeFit(p, name)
	}
	printJSON(results)
}

func compose(cmd *cobra.Command) {
	ctx := context.Background()
	e := setup(ctx)
	defer e.Close()

	id, _ := cmd.Flags().GetInt64("team")

	roster, err := e.store.GetRoster(ctx, id)
	if err != nil {
		e.logger.Fatal("loading team", zap.Int64("team_id", id), zap.Error(err))
	}

	catalog, err := e.store.ListSkills(ctx)
	if err != nil {
		e.logger.Fatal("loading skills", zap.Error(err))
	}

	members := roster.All()
	printJSON(compositionReport{
		Composition: scoring.TeamComposition(roster),
		Balance:     scoring.PersonalityBalance(members),
		Skills:      scoring.SkillDistribution(members, catalog),
	})
}

func stats() {
	ctx := context.Background()
	e := setup(ctx)
	defer e.Close()

	snap, err := e.store.Snapshot(ctx)
	if err != nil {
		e.logger.Fatal("loading snapshot", zap.Error(err))
	}

	printJSON(scoring.DashboardStats(snap.Employees, snap.Teams, snap.Members, snap.Skills))
}
