package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/team-matcher/internal/ai"
	"github.com/spigell/team-matcher/internal/employee"
	"github.com/spigell/team-matcher/internal/scoring"
	"github.com/spigell/team-matcher/internal/team"
)

const (
	PromptYes       = "Yes"
	PromptNo        = "No"
	PromptDone      = "Done"
	PromptAcceptAll = "Accept all suggestions"
	PromptBack      = "back"
)

var errExit = errors.New("exit requested")

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build a team interactively: leader, members, review, save",
	Run: func(cmd *cobra.Command, _ []string) {
		build(cmd)
	},
}

func init() {
	rootCmd.AddCommand(buildCmd)

	buildCmd.Flags().Int64P("team", "t", 0, "team id; when unset a new team is created")
	buildCmd.Flags().String("category", "", "belbin role code or name to narrow member candidates")
}

// draft is the team being assembled.
type draft struct {
	team    team.Team
	leader  *employee.Profile
	members []team.Member
	picked  []*employee.Profile
}

func (d *draft) excluded() []int64 {
	ids := make([]int64, 0, len(d.picked))
	for _, p := range d.picked {
		ids = append(ids, p.ID)
	}
	return ids
}

func (d *draft) add(p *employee.Profile, pct int) {
	d.picked = append(d.picked, p)
	d.members = append(d.members, team.Member{EmployeeID: p.ID, MatchingPercentage: pct})
}

func build(cmd *cobra.Command) {
	ctx := context.Background()
	e := setup(ctx)
	defer e.Close()

	advisor := mustAdvisor(ctx, e)
	teamID, _ := cmd.Flags().GetInt64("team")
	category, _ := cmd.Flags().GetString("category")

	t, err := resolveTeam(ctx, e, teamID)
	if err != nil {
		e.logger.Fatal("resolving team", zap.Error(err))
	}

	profiles, err := e.store.ListEmployees(ctx)
	if err != nil {
		e.logger.Fatal("loading employees", zap.Error(err))
	}
	if len(profiles) == 0 {
		e.logger.Info("exiting", zap.String("reason", "no employees found"))
		return
	}

	d := &draft{team: t}

	d.leader, err = chooseLeader(ctx, e, advisor, t, profiles)
	if err != nil {
		if errors.Is(err, errExit) {
			return
		}
		e.logger.Fatal("choosing leader", zap.Error(err))
	}
	e.logger.Info("leader chosen", zap.Int64("employee_id", d.leader.ID), zap.String("name", d.leader.Name))

	if err := chooseMembers(ctx, e, advisor, d, profiles, category); err != nil && !errors.Is(err, errExit) {
		e.logger.Fatal("choosing members", zap.Error(err))
	}

	roster := append([]*employee.Profile{d.leader}, d.picked...)
	summary := scoring.ScoreTeamComposition(t.Description, roster)
	pretty, _ := json.MarshalIndent(summary, "", "  ")
	e.logger.Info(string(pretty), zap.Int("team_size", len(roster)))

	confirm := promptui.Select{
		Label: fmt.Sprintf("Save %d people to team %q?", len(roster), t.Name),
		Items: []string{PromptYes, PromptNo},
	}
	_, answer, err := confirm.Run()
	if err != nil {
		e.logger.Fatal("exiting", zap.Error(err))
	}
	if answer != PromptYes {
		e.logger.Info("exiting", zap.String("reason", "got no from prompt"))
		return
	}

	saved, err := e.store.SaveRoster(ctx, t.ID, d.leader.ID, d.members)
	if err != nil {
		e.logger.Fatal("saving team", zap.Error(err))
	}
	e.logger.Info("team saved", zap.Int64("team_id", t.ID), zap.Int("members", len(saved)))
}

func resolveTeam(ctx context.Context, e *env, id int64) (team.Team, error) {
	if id > 0 {
		return e.store.GetTeam(ctx, id)
	}

	name, err := (&promptui.Prompt{Label: "Team name", Validate: notBlank}).Run()
	if err != nil {
		return team.Team{}, err
	}
	description, err := (&promptui.Prompt{Label: "Team description", Validate: notBlank}).Run()
	if err != nil {
		return team.Team{}, err
	}

	return e.store.CreateTeam(ctx, name, description)
}

func notBlank(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("must not be empty")
	}
	return nil
}

// chooseLeader puts the advisor's pick first in the list.
func chooseLeader(ctx context.Context, e *env, advisor ai.Advisor, t team.Team, profiles []*employee.Profile) (*employee.Profile, error) {
	all := employee.NewCandidates(profiles)

	suggestion, err := advisor.SuggestLeader(ctx, t, profiles)
	if err != nil {
		e.logger.Warn("no leader suggestion", zap.Error(err))
	}

	items := make([]string, 0, len(profiles)+1)
	if suggestion != nil {
		if p := all.FindByID(suggestion.EmployeeID); p != nil {
			items = append(items, label(p, "suggested: "+suggestion.Explanation))
		}
	}
	for _, p := range all.Items {
		if suggestion != nil && p.ID == suggestion.EmployeeID {
			continue
		}
		items = append(items, label(p, ""))
	}

	leaderPrompt := promptui.Select{
		Label: "Choose a leader and press ENTER",
		Items: append(items, PromptBack),
		Size:  10,
	}
	_, selected, err := leaderPrompt.Run()
	if err != nil {
		return nil, err
	}
	if selected == PromptBack {
		return nil, errExit
	}

	return pick(all, selected)
}

func chooseMembers(ctx context.Context, e *env, advisor ai.Advisor, d *draft, profiles []*employee.Profile, category string) error {
	maxMembers := e.config.Builder.MaxMembers

	for maxMembers <= 0 || len(d.picked) < maxMembers {
		left, _, _, err := candidates(ctx, e, advisor, profiles, candidateRequest{
			Team: d.team, Leader: d.leader, ExcludeIDs: d.excluded(), Category: category,
		})
		if err != nil {
			return err
		}
		if left.Len() == 0 {
			e.logger.Info("no candidates left")
			return nil
		}

		suggestions, err := advisor.SuggestComposition(ctx, d.team.Description, d.leader, left.Items)
		if err != nil {
			e.logger.Warn("no member suggestions", zap.Error(err))
		}

		pct := make(map[int64]int, len(suggestions))
		items := make([]string, 0, left.Len()+3)
		for _, s := range suggestions {
			if p := left.FindByID(s.EmployeeID); p != nil {
				pct[p.ID] = s.Percentage
				items = append(items, label(p, fmt.Sprintf("%d%% %s", s.Percentage, s.Explanation)))
			}
		}
		for _, p := range left.Items {
			if _, ok := pct[p.ID]; !ok {
				items = append(items, label(p, ""))
			}
		}
		if len(suggestions) > 0 {
			items = append(items, PromptAcceptAll)
		}

		memberPrompt := promptui.Select{
			Label: fmt.Sprintf("Add a member (%d picked) and press ENTER", len(d.picked)),
			Items: append(items, PromptDone),
			Size:  10,
		}
		_, selected, err := memberPrompt.Run()
		if err != nil {
			return err
		}

		switch selected {
		case PromptDone:
			return nil
		case PromptAcceptAll:
			for _, s := range suggestions {
				if maxMembers > 0 && len(d.picked) >= maxMembers {
					break
				}
				if p := left.FindByID(s.EmployeeID); p != nil {
					d.add(p, s.Percentage)
				}
			}
			return nil
		default:
			p, err := pick(left, selected)
			if err != nil {
				return err
			}
			d.add(p, pct[p.ID])
		}
	}

	e.logger.Info("team is full", zap.Int("max_members", maxMembers))
	return nil
}

// label renders a select item; the leading id is parsed back by pick.
func label(p *employee.Profile, note string) string {
	role := "unknown"
	if p.Personality != nil && p.Personality.BelbinRole != "" {
		role = p.Personality.BelbinRole
	}
	s := fmt.Sprintf("%d %s / %s / %s / %dy", p.ID, p.Name, p.JobTitle, role, p.WorkYears)
	if note != "" {
		s += " / " + note
	}
	return s
}

func pick(c *employee.Candidates, selected string) (*employee.Profile, error) {
	id, err := strconv.ParseInt(strings.Split(selected, " ")[0], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid selection %q", selected)
	}
	p := c.FindByID(id)
	if p == nil {
		return nil, fmt.Errorf("there is no such employee id %d", id)
	}
	return p, nil
}
