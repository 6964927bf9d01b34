package server

import (
	"github.com/spigell/team-matcher/internal/employee"
)

type scoreFitRequest struct {
	Employee  *employee.Profile `json:"employee" validate:"required"`
	Archetype string            `json:"archetype" validate:"required"`
}

type scoreCompositionRequest struct {
	TeamDescription string              `json:"team_description"`
	Roster          []*employee.Profile `json:"roster"`
}

type memberRequest struct {
	EmployeeID         int64 `json:"employee_id" validate:"required,gt=0"`
	MatchingPercentage int   `json:"matching_percentage" validate:"gte=0,lte=100"`
}

type saveMembersRequest struct {
	LeaderID int64           `json:"leader_id" validate:"required,gt=0"`
	Members  []memberRequest `json:"members" validate:"dive"`
}

type analyzeTeamFitRequest struct {
	EmployeeID      int64  `json:"employee_id" validate:"required,gt=0"`
	TeamDescription string `json:"team_description" validate:"required"`
}

type matchSkillsRequest struct {
	EmployeeIDs []int64 `json:"employee_ids" validate:"dive,gt=0"`
	Category    string  `json:"category"`
}

type suggestLeaderRequest struct {
	TeamID int64 `json:"team_id" validate:"required,gt=0"`
}

type suggestCompositionRequest struct {
	TeamID     int64   `json:"team_id" validate:"required,gt=0"`
	LeaderID   int64   `json:"leader_id" validate:"required,gt=0"`
	ExcludeIDs []int64 `json:"exclude_ids" validate:"dive,gt=0"`
	Category   string  `json:"category"`
}
