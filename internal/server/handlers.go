package server

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/spigell/team-matcher/internal/criteria"
	"github.com/spigell/team-matcher/internal/employee"
	"github.com/spigell/team-matcher/internal/filtering"
	"github.com/spigell/team-matcher/internal/scoring"
	"github.com/spigell/team-matcher/internal/team"
)

func pathID(r *http.Request, name string) (int64, error) {
	raw := r.PathValue(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, &ErrBadRequest{Message: fmt.Sprintf("invalid %s %q", name, raw)}
	}
	return id, nil
}

func (s *Server) handleListArchetypes(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, criteria.All())
}

func (s *Server) handleGetArchetype(w http.ResponseWriter, r *http.Request) {
	a, err := criteria.Get(r.PathValue("name"))
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, a)
}

// handleListEmployees narrows the directory with the search and belbin
// filters (?q= and ?belbin=).
func (s *Server) handleListEmployees(w http.ResponseWriter, r *http.Request) {
	profiles, err := s.data.ListEmployees(r.Context())
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}

	cfg := &filtering.Config{
		Query:    r.URL.Query().Get("q"),
		Category: r.URL.Query().Get("belbin"),
	}
	steps := []filtering.Filter{filtering.NewSearch(), filtering.NewBelbin()}

	left, _, err := filtering.Run(r.Context(), cfg, filtering.Deps{Logger: s.logger}, steps, employee.NewCandidates(profiles))
	if err != nil {
		s.errorResponse(w, r, &ErrBadRequest{Message: err.Error()})
		return
	}

	s.jsonResponse(w, http.StatusOK, left.Items)
}

func (s *Server) handleGetEmployee(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}

	p, err := s.data.GetEmployee(r.Context(), id)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, p)
}

// handleEmployeeFit scores a stored employee. Without ?archetype= every
// archetype is scored.
func (s *Server) handleEmployeeFit(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}

	p, err := s.data.GetEmployee(r.Context(), id)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}

	if name := r.URL.Query().Get("archetype"); name != "" {
		s.jsonResponse(w, http.StatusOK, s.scoreFit(p, name))
		return
	}

	all := make(map[string]scoring.FitResult, len(criteria.Names()))
	for _, name := range criteria.Names() {
		all[name] = s.scoreFit(p, name)
	}
	s.jsonResponse(w, http.StatusOK, all)
}

func (s *Server) handleListSkills(w http.ResponseWriter, r *http.Request) {
	skills, err := s.data.ListSkills(r.Context())
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, skills)
}

func (s *Server) handleListTeams(w http.ResponseWriter, r *http.Request) {
	teams, err := s.data.ListTeams(r.Context())
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, teams)
}

func (s *Server) handleGetTeam(w http.ResponseWriter, r *http.Request) {
	roster, ok := s.roster(w, r)
	if !ok {
		return
	}
	s.jsonResponse(w, http.StatusOK, roster)
}

func (s *Server) handleSaveMembers(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}

	var req saveMembersRequest
	if err := s.decode(w, r, &req); err != nil {
		s.errorResponse(w, r, err)
		return
	}

	members := make([]team.Member, 0, len(req.Members))
	for _, m := range req.Members {
		members = append(members, team.Member{EmployeeID: m.EmployeeID, MatchingPercentage: m.MatchingPercentage})
	}

	saved, err := s.data.SaveRoster(r.Context(), id, req.LeaderID, members)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, saved)
}

func (s *Server) handleTeamComposition(w http.ResponseWriter, r *http.Request) {
	roster, ok := s.roster(w, r)
	if !ok {
		return
	}

	started := time.Now()
	res := scoring.TeamComposition(roster)
	s.metrics.ObserveScoring("team_composition", time.Since(started))

	s.jsonResponse(w, http.StatusOK, res)
}

type balanceResponse struct {
	Personality scoring.Balance      `json:"personality"`
	Skills      scoring.Distribution `json:"skills"`
}

func (s *Server) handleTeamBalance(w http.ResponseWriter, r *http.Request) {
	roster, ok := s.roster(w, r)
	if !ok {
		return
	}

	catalog, err := s.data.ListSkills(r.Context())
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}

	members := roster.All()
	s.jsonResponse(w, http.StatusOK, balanceResponse{
		Personality: scoring.PersonalityBalance(members),
		Skills:      scoring.SkillDistribution(members, catalog),
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	snap, err := s.data.Snapshot(r.Context())
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}

	stats := scoring.DashboardStats(snap.Employees, snap.Teams, snap.Members, snap.Skills)
	s.metrics.SetPopulation(stats.Employees, stats.Teams)
	s.jsonResponse(w, http.StatusOK, stats)
}

func (s *Server) handleScoreFit(w http.ResponseWriter, r *http.Request) {
	var req scoreFitRequest
	if err := s.decode(w, r, &req); err != nil {
		s.errorResponse(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, s.scoreFit(req.Employee, req.Archetype))
}

func (s *Server) handleScoreComposition(w http.ResponseWriter, r *http.Request) {
	var req scoreCompositionRequest
	if err := s.decode(w, r, &req); err != nil {
		s.errorResponse(w, r, err)
		return
	}

	started := time.Now()
	res := scoring.ScoreTeamComposition(req.TeamDescription, req.Roster)
	s.metrics.ObserveScoring("team_composition", time.Since(started))

	s.jsonResponse(w, http.StatusOK, res)
}

func (s *Server) scoreFit(p *employee.Profile, archetype string) scoring.FitResult {
	started := time.Now()
	res := scoring.ScoreEmployeeFit(p, strings.TrimSpace(archetype))
	s.metrics.ObserveScoring("employee_fit", time.Since(started))
	return res
}

// roster resolves the {id} team and writes the error response itself.
func (s *Server) roster(w http.ResponseWriter, r *http.Request) (*team.Roster, bool) {
	id, err := pathID(r, "id")
	if err != nil {
		s.errorResponse(w, r, err)
		return nil, false
	}

	roster, err := s.data.GetRoster(r.Context(), id)
	if err != nil {
		s.errorResponse(w, r, err)
		return nil, false
	}
	return roster, true
}

// teamAndEmployees loads a team and the whole directory concurrently.
func (s *Server) teamAndEmployees(r *http.Request, teamID int64) (team.Team, []*employee.Profile, error) {
	var t team.Team
	var profiles []*employee.Profile
	g, gCtx := errgroup.WithContext(r.Context())

	g.Go(func() error {
		var err error
		t, err = s.data.GetTeam(gCtx, teamID)
		return err
	})
	g.Go(func() error {
		var err error
		profiles, err = s.data.ListEmployees(gCtx)
		return err
	})

	if err := g.Wait(); err != nil {
		return team.Team{}, nil, err
	}
	return t, profiles, nil
}
