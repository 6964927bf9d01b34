// Package team holds team records and rosters.
package team

import "github.com/spigell/team-matcher/internal/employee"

type Team struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Member is one row of a team's membership.
type Member struct {
	TeamID             int64 `json:"team_id"`
	EmployeeID         int64 `json:"employee_id"`
	IsLeader           bool  `json:"is_leader"`
	MatchingPercentage int   `json:"matching_percentage"`
}

// Roster is a team with its resolved leader and members.
type Roster struct {
	Team    Team                `json:"team"`
	Leader  *employee.Profile   `json:"leader,omitempty"`
	Members []*employee.Profile `json:"members"`
}

// All returns the leader followed by the members, skipping nils.
func (r *Roster) All() []*employee.Profile {
	if r == nil {
		return nil
	}
	out := make([]*employee.Profile, 0, len(r.Members)+1)
	if r.Leader != nil {
		out = append(out, r.Leader)
	}
	for _, m := range r.Members {
		if m != nil {
			out = append(out, m)
		}
	}
	return out
}

// MemberIDs returns the ids of everyone on the roster, leader first.
func (r *Roster) MemberIDs() []int64 {
	all := r.All()
	ids := make([]int64, 0, len(all))
	for _, p := range all {
		ids = append(ids, p.ID)
	}
	return ids
}

// Len is the headcount including the leader.
func (r *Roster) Len() int {
	return len(r.All())
}

const (
	leaderMatch        = 100
	defaultMemberMatch = 85
)

// Assignments builds the rows saved for a team: the leader first at 100%,
// then each member once. A member without a percentage gets 85%.
func Assignments(teamID, leaderID int64, members []Member) []Member {
	out := make([]Member, 0, len(members)+1)
	seen := map[int64]bool{leaderID: true}
	out = append(out, Member{TeamID: teamID, EmployeeID: leaderID, IsLeader: true, MatchingPercentage: leaderMatch})

	for _, m := range members {
		if seen[m.EmployeeID] {
			continue
		}
		seen[m.EmployeeID] = true

		pct := m.MatchingPercentage
		if pct <= 0 {
			pct = defaultMemberMatch
		}
		if pct > 100 {
			pct = 100
		}
		out = append(out, Member{TeamID: teamID, EmployeeID: m.EmployeeID, MatchingPercentage: pct})
	}

	return out
}
