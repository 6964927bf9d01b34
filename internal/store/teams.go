package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spigell/team-matcher/internal/employee"
	"github.com/spigell/team-matcher/internal/team"
)

// ListTeams returns every team ordered by id.
func (s *Store) ListTeams(ctx context.Context) ([]team.Team, error) {
	rows, err := s.db.Query(ctx, `SELECT id, COALESCE(name, ''), COALESCE(description, '') FROM teams ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query teams: %w", err)
	}
	teams, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (team.Team, error) {
		var t team.Team
		err := row.Scan(&t.ID, &t.Name, &t.Description)
		return t, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan teams: %w", err)
	}
	return teams, nil
}

// GetTeam returns one team or ErrNotFound.
func (s *Store) GetTeam(ctx context.Context, id int64) (team.Team, error) {
	var t team.Team
	err := s.db.QueryRow(ctx,
		`SELECT id, COALESCE(name, ''), COALESCE(description, '') FROM teams WHERE id = $1`, id,
	).Scan(&t.ID, &t.Name, &t.Description)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return team.Team{}, fmt.Errorf("team %d: %w", id, ErrNotFound)
		}
		return team.Team{}, fmt.Errorf("failed to get team %d: %w", id, err)
	}
	return t, nil
}

// CreateTeam inserts a team and returns it with its id.
func (s *Store) CreateTeam(ctx context.Context, name, description string) (team.Team, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return team.Team{}, errors.New("team name is required")
	}

	t := team.Team{Name: name, Description: strings.TrimSpace(description)}
	err := s.db.QueryRow(ctx,
		`INSERT INTO teams (name, description) VALUES ($1, $2) RETURNING id`, t.Name, t.Description,
	).Scan(&t.ID)
	if err != nil {
		return team.Team{}, fmt.Errorf("failed to create team %q: %w", name, err)
	}
	return t, nil
}

// ListMembers returns the membership rows of one team, or of every team when
// teamID is nil. The leader of a team comes first.
func (s *Store) ListMembers(ctx context.Context, teamID *int64) ([]team.Member, error) {
	rows, err := s.db.Query(ctx,
		`SELECT team_id, employee_id, is_leader, COALESCE(matching_percentage, 0)
		 FROM team_members
		 WHERE ($1::bigint IS NULL OR team_id = $1)
		 ORDER BY team_id, is_leader DESC, id`, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to query team members: %w", err)
	}
	members, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (team.Member, error) {
		var (
			m   team.Member
			pct int32
		)
		err := row.Scan(&m.TeamID, &m.EmployeeID, &m.IsLeader, &pct)
		m.MatchingPercentage = int(pct)
		return m, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan team members: %w", err)
	}
	return members, nil
}

// GetRoster resolves a team with its leader and member profiles.
func (s *Store) GetRoster(ctx context.Context, teamID int64) (*team.Roster, error) {
	t, err := s.GetTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}

	members, err := s.ListMembers(ctx, &teamID)
	if err != nil {
		return nil, err
	}

	profiles, err := s.ListEmployees(ctx)
	if err != nil {
		return nil, err
	}

	return buildRoster(t, members, profiles), nil
}

// buildRoster resolves membership rows against profiles. Rows pointing at
// unknown employees are skipped; a second leader row is treated as a member.
func buildRoster(t team.Team, members []team.Member, profiles []*employee.Profile) *team.Roster {
	candidates := employee.NewCandidates(profiles)
	r := &team.Roster{Team: t, Members: make([]*employee.Profile, 0, len(members))}

	for _, m := range members {
		p := candidates.FindByID(m.EmployeeID)
		if p == nil {
			continue
		}
		if m.IsLeader && r.Leader == nil {
			r.Leader = p
			continue
		}
		r.Members = append(r.Members, p)
	}

	return r
}

// SaveRoster replaces the membership of a team in one transaction.
func (s *Store) SaveRoster(ctx context.Context, teamID, leaderID int64, members []team.Member) ([]team.Member, error) {
	if _, err := s.GetTeam(ctx, teamID); err != nil {
		return nil, err
	}

	rows := team.Assignments(teamID, leaderID, members)

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM team_members WHERE team_id = $1`, teamID); err != nil {
		return nil, fmt.Errorf("failed to clear team %d: %w", teamID, err)
	}

	batch := &pgx.Batch{}
	for _, m := range rows {
		batch.Queue(
			`INSERT INTO team_members (team_id, employee_id, is_leader, matching_percentage) VALUES ($1, $2, $3, $4)`,
			m.TeamID, m.EmployeeID, m.IsLeader, m.MatchingPercentage,
		)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return nil, fmt.Errorf("failed to insert members of team %d: %w", teamID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit team %d: %w", teamID, err)
	}

	s.logger.Info("team roster saved")
	return rows, nil
}
