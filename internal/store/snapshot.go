package store

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/spigell/team-matcher/internal/employee"
	"github.com/spigell/team-matcher/internal/team"
)

// Snapshot is everything the dashboard needs, read in one go.
type Snapshot struct {
	Employees []*employee.Profile
	Teams     []team.Team
	Members   []team.Member
	Skills    []employee.Skill
}

// Snapshot loads employees, teams, memberships and skills concurrently.
func (s *Store) Snapshot(ctx context.Context) (*Snapshot, error) {
	var snap Snapshot
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		snap.Employees, err = s.ListEmployees(gCtx)
		return err
	})
	g.Go(func() error {
		var err error
		snap.Teams, err = s.ListTeams(gCtx)
		return err
	})
	g.Go(func() error {
		var err error
		snap.Members, err = s.ListMembers(gCtx, nil)
		return err
	})
	g.Go(func() error {
		var err error
		snap.Skills, err = s.ListSkills(gCtx)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &snap, nil
}
