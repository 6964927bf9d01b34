package employee

import "strings"

// BelbinRole is a team-working style code.
type BelbinRole string

const (
	Shaper               BelbinRole = "SH"
	Implementer          BelbinRole = "IMP"
	CompleterFinisher    BelbinRole = "CF"
	Coordinator          BelbinRole = "CO"
	TeamWorker           BelbinRole = "TW"
	ResourceInvestigator BelbinRole = "RI"
	Plant                BelbinRole = "PL"
	MonitorEvaluator     BelbinRole = "ME"
	Specialist           BelbinRole = "SP"
)

// RoleInfo describes a Belbin role.
type RoleInfo struct {
	Code   BelbinRole `json:"code"`
	Name   string     `json:"name"`
	Traits []Trait    `json:"traits"`
}

// BelbinRoles lists the nine roles with the traits they are associated with.
var BelbinRoles = []RoleInfo{
	{Code: Shaper, Name: "Shaper", Traits: []Trait{Drive, Ambition, Assertiveness}},
	{Code: Implementer, Name: "Implementer", Traits: []Trait{Structure, Mastery, Composure}},
	{Code: CompleterFinisher, Name: "Completer Finisher", Traits: []Trait{Awareness, Mastery, Sensitivity}},
	{Code: Coordinator, Name: "Coordinator", Traits: []Trait{Assertiveness, Positivity, Awareness}},
	{Code: TeamWorker, Name: "Team Worker", Traits: []Trait{Cooperativeness, Sensitivity, Humility}},
	{Code: ResourceInvestigator, Name: "Resource Investigator", Traits: []Trait{Liveliness, Positivity, Flexibility}},
	{Code: Plant, Name: "Plant", Traits: []Trait{Conceptual, Flexibility, Awareness}},
	{Code: MonitorEvaluator, Name: "Monitor Evaluator", Traits: []Trait{Awareness, Composure, Conceptual}},
	{Code: Specialist, Name: "Specialist", Traits: []Trait{Mastery, Drive, Conceptual}},
}

// ParseBelbinRole accepts a role code ("CO"), a full name ("Coordinator") or
// the combined form used in the assessment export ("Coordinator (CO)").
func ParseBelbinRole(s string) (BelbinRole, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}

	if open := strings.LastIndex(s, "("); open != -1 && strings.HasSuffix(s, ")") {
		if role, ok := ParseBelbinRole(s[open+1 : len(s)-1]); ok {
			return role, true
		}
		s = strings.TrimSpace(s[:open])
	}

	for _, info := range BelbinRoles {
		if strings.EqualFold(s, string(info.Code)) || strings.EqualFold(s, info.Name) {
			return info.Code, true
		}
	}

	compact := strings.ReplaceAll(s, " ", "")
	for _, info := range BelbinRoles {
		if strings.EqualFold(compact, strings.ReplaceAll(info.Name, " ", "")) {
			return info.Code, true
		}
	}

	return "", false
}

// Info returns the role description.
func (r BelbinRole) Info() (RoleInfo, bool) {
	for _, info := range BelbinRoles {
		if info.Code == r {
			return info, true
		}
	}
	return RoleInfo{}, false
}

// IsLeadership reports whether the role is one usually suited to leading a team.
func (r BelbinRole) IsLeadership() bool {
	return r == Coordinator || r == Shaper
}
