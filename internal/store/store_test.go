package store

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spigell/team-matcher/internal/employee"
	"github.com/spigell/team-matcher/internal/team"
)

func TestSchemaIsEmbedded(t *testing.T) {
	for _, table := range []string{"employees", "personality_traits", "skills", "employee_skills", "teams", "team_members"} {
		assert.Contains(t, schema, "CREATE TABLE IF NOT EXISTS "+table+" (")
	}
	for _, trait := range employee.Traits {
		assert.True(t, strings.Contains(schema, "    "+string(trait)+" "), "schema misses trait column %s", trait)
	}
}

func TestPersonalityRowToPersonality(t *testing.T) {
	var row personalityRow
	row.top = " Drive "
	row.second = "Power"
	row.sortedTraits = "Drive:9, Power:7"
	row.belbinRole = "Shaper"
	row.scores[7] = 9  // drive
	row.scores[13] = 7 // power
	row.scores[0] = 42
	row.scores[1] = -3

	p := row.toPersonality()

	assert.Equal(t, "Drive", p.TopTrait)
	assert.Equal(t, "Shaper", p.BelbinRole)
	assert.Equal(t, 9, p.Scores[employee.Drive])
	assert.Equal(t, 7, p.Scores[employee.Power])
	assert.Equal(t, 10, p.Scores[employee.Ambition], "scores are clamped to 10")
	assert.Equal(t, 0, p.Scores[employee.Assertiveness], "scores are clamped to 0")
	assert.Len(t, p.Scores, len(employee.Traits))
}

func TestPersonalityRowDest(t *testing.T) {
	var row personalityRow
	assert.Len(t, row.dest(), 5+len(employee.Traits))
}

func TestAssemble(t *testing.T) {
	profiles := []*employee.Profile{{ID: 2, Name: "B"}, {ID: 1, Name: "A"}}

	first := personalityRow{employeeID: 1, belbinRole: "Plant"}
	second := personalityRow{employeeID: 1, belbinRole: "Shaper"}
	orphan := personalityRow{employeeID: 9, belbinRole: "Specialist"}

	skills := []skillRow{
		{employeeID: 2, skill: employee.Skill{ID: 10, Name: "Go"}},
		{employeeID: 2, skill: employee.Skill{ID: 11, Name: "SQL"}},
		{employeeID: 9, skill: employee.Skill{ID: 12, Name: "Ghost"}},
	}

	out := assemble(profiles, []personalityRow{first, second, orphan}, skills)

	require.Len(t, out, 2)
	assert.Equal(t, int64(2), out[0].ID, "employee order is kept")
	assert.Nil(t, out[0].Personality)
	assert.Equal(t, []string{"Go", "SQL"}, out[0].SkillNames())
	require.NotNil(t, out[1].Personality)
	assert.Equal(t, "Plant", out[1].Personality.BelbinRole, "first personality row wins")
	assert.Empty(t, out[1].Skills)
}

func TestBuildRoster(t *testing.T) {
	profiles := []*employee.Profile{{ID: 1}, {ID: 2}, {ID: 3}}
	members := []team.Member{
		{EmployeeID: 1, IsLeader: true},
		{EmployeeID: 3, IsLeader: true},
		{EmployeeID: 2},
		{EmployeeID: 99},
	}

	r := buildRoster(team.Team{ID: 5, Name: "NZ"}, members, profiles)

	require.NotNil(t, r.Leader)
	assert.Equal(t, int64(1), r.Leader.ID)
	assert.Equal(t, []int64{1, 3, 2}, r.MemberIDs())
	assert.Equal(t, "NZ", r.Team.Name)
}

func TestBuildRosterWithoutLeader(t *testing.T) {
	r := buildRoster(team.Team{ID: 5}, []team.Member{{EmployeeID: 1}}, []*employee.Profile{{ID: 1}})

	assert.Nil(t, r.Leader)
	assert.Equal(t, 1, r.Len())
}
