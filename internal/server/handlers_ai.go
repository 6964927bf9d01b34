package server

import (
	"net/http"

	"github.com/spigell/team-matcher/internal/ai"
	"github.com/spigell/team-matcher/internal/employee"
	"github.com/spigell/team-matcher/internal/filtering"
)

type suggestCompositionResponse struct {
	Leader      *employee.Profile     `json:"leader"`
	Suggestions []ai.MemberSuggestion `json:"suggestions"`
}

func (s *Server) handleAnalyzeTeamFit(w http.ResponseWriter, r *http.Request) {
	if s.advisor == nil {
		s.errorResponse(w, r, errNoAdvisor)
		return
	}

	var req analyzeTeamFitRequest
	if err := s.decode(w, r, &req); err != nil {
		s.errorResponse(w, r, err)
		return
	}

	p, err := s.data.GetEmployee(r.Context(), req.EmployeeID)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}

	fit, err := s.advisor.AnalyzeTeamFit(r.Context(), p, req.TeamDescription)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, fit)
}

// handleMatchSkills matches the listed employees, or the whole directory
// when employee_ids is empty.
func (s *Server) handleMatchSkills(w http.ResponseWriter, r *http.Request) {
	if s.advisor == nil {
		s.errorResponse(w, r, errNoAdvisor)
		return
	}

	var req matchSkillsRequest
	if err := s.decode(w, r, &req); err != nil {
		s.errorResponse(w, r, err)
		return
	}

	var (
		profiles []*employee.Profile
		err      error
	)
	if len(req.EmployeeIDs) > 0 {
		profiles, err = s.data.GetEmployees(r.Context(), req.EmployeeIDs)
	} else {
		profiles, err = s.data.ListEmployees(r.Context())
	}
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}
	if len(profiles) == 0 {
		s.errorResponse(w, r, &ErrBadRequest{Message: "no employees to match"})
		return
	}

	matches, err := s.advisor.MatchSkills(r.Context(), profiles, req.Category)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, matches)
}

func (s *Server) handleSuggestLeader(w http.ResponseWriter, r *http.Request) {
	if s.advisor == nil {
		s.errorResponse(w, r, errNoAdvisor)
		return
	}

	var req suggestLeaderRequest
	if err := s.decode(w, r, &req); err != nil {
		s.errorResponse(w, r, err)
		return
	}

	t, profiles, err := s.teamAndEmployees(r, req.TeamID)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}

	suggestion, err := s.advisor.SuggestLeader(r.Context(), t, profiles)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, suggestion)
}

// handleSuggestComposition runs the candidate pipeline (leader and
// exclude_ids removed, optional belbin category) before asking for members.
func (s *Server) handleSuggestComposition(w http.ResponseWriter, r *http.Request) {
	if s.advisor == nil {
		s.errorResponse(w, r, errNoAdvisor)
		return
	}

	var req suggestCompositionRequest
	if err := s.decode(w, r, &req); err != nil {
		s.errorResponse(w, r, err)
		return
	}

	t, profiles, err := s.teamAndEmployees(r, req.TeamID)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}

	candidates := employee.NewCandidates(profiles)
	leader := candidates.FindByID(req.LeaderID)
	if leader == nil {
		s.errorResponse(w, r, &ErrBadRequest{Message: "leader is not a known employee"})
		return
	}

	cfg := &filtering.Config{
		ExcludeIDs: append([]int64{req.LeaderID}, req.ExcludeIDs...),
		Category:   req.Category,
	}
	steps := []filtering.Filter{filtering.NewExcludeIDs(), filtering.NewBelbin()}

	left, _, err := filtering.Run(r.Context(), cfg, filtering.Deps{Logger: s.logger, Advisor: s.advisor}, steps, candidates)
	if err != nil {
		s.errorResponse(w, r, &ErrBadRequest{Message: err.Error()})
		return
	}
	if left.Len() == 0 {
		s.jsonResponse(w, http.StatusOK, suggestCompositionResponse{Leader: leader, Suggestions: []ai.MemberSuggestion{}})
		return
	}

	suggestions, err := s.advisor.SuggestComposition(r.Context(), t.Description, leader, left.Items)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, suggestCompositionResponse{Leader: leader, Suggestions: suggestions})
}
