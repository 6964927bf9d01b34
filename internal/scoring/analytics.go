package scoring

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/spigell/team-matcher/internal/employee"
	"github.com/spigell/team-matcher/internal/team"
)

const maxSkillGaps = 5

// TraitAverage is the roster mean of one measured trait.
type TraitAverage struct {
	Trait employee.Trait `json:"trait"`
	Value float64        `json:"value"`
}

// Balance summarizes the personality make-up of a roster.
type Balance struct {
	Averages     []TraitAverage `json:"averages"`
	Coverage     int            `json:"coverage"`
	Missing      []string       `json:"missing"`
	BelbinCounts map[string]int `json:"belbin_counts"`
}

// PersonalityBalance averages each measured trait over the members that have
// a score for it. A trait nobody has a score for counts as missing.
func PersonalityBalance(roster []*employee.Profile) Balance {
	sums := make(map[employee.Trait]int, len(employee.Traits))
	counts := make(map[employee.Trait]int, len(employee.Traits))
	roles := make(map[string]int)

	for _, p := range roster {
		if p == nil || p.Personality == nil {
			continue
		}
		for trait, score := range p.Personality.Scores {
			sums[trait] += score
			counts[trait]++
		}
		if role := strings.TrimSpace(p.Personality.BelbinRole); role != "" {
			roles[role]++
		}
	}

	b := Balance{
		Averages:     make([]TraitAverage, 0, len(employee.Traits)),
		Missing:      []string{},
		BelbinCounts: roles,
	}

	present := 0
	for _, trait := range employee.Traits {
		avg := 0.0
		if counts[trait] > 0 {
			present++
			avg = math.Round(float64(sums[trait])/float64(counts[trait])*10) / 10
		} else {
			b.Missing = append(b.Missing, string(trait))
		}
		b.Averages = append(b.Averages, TraitAverage{Trait: trait, Value: avg})
	}

	sort.SliceStable(b.Averages, func(i, j int) bool {
		return b.Averages[i].Value > b.Averages[j].Value
	})
	b.Coverage = percent(present, len(employee.Traits))

	return b
}

// CategoryCount is a number of skills in one main category.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// Distribution summarizes the skills of a roster against the skills catalog.
type Distribution struct {
	ByCategory []CategoryCount `json:"by_category"`
	Missing    []string        `json:"missing"`
	Coverage   int             `json:"coverage"`
	TopGaps    []CategoryCount `json:"top_gaps"`
}

// SkillDistribution counts the roster's skills per main category and lists
// catalog skills nobody on the roster has. Coverage is the share of held
// skill entries among held plus missing skills.
func SkillDistribution(roster []*employee.Profile, catalog []employee.Skill) Distribution {
	d := Distribution{
		ByCategory: []CategoryCount{},
		Missing:    []string{},
		TopGaps:    []CategoryCount{},
	}

	byCategory := newCounter()
	held := make(map[string]struct{})
	entries := 0

	for _, p := range roster {
		if p == nil {
			continue
		}
		for _, s := range p.Skills {
			entries++
			held[skillKey(s)] = struct{}{}
			if s.MainCategory != "" {
				byCategory.inc(s.MainCategory)
			}
		}
	}
	d.ByCategory = byCategory.list()

	gaps := newCounter()
	for _, s := range catalog {
		if _, ok := held[skillKey(s)]; ok {
			continue
		}
		d.Missing = append(d.Missing, s.Name)
		gaps.inc(s.MainCategory)
	}

	d.Coverage = percent(entries, entries+len(d.Missing))

	top := gaps.list()
	sort.SliceStable(top, func(i, j int) bool { return top[i].Count > top[j].Count })
	if len(top) > maxSkillGaps {
		top = top[:maxSkillGaps]
	}
	d.TopGaps = top

	return d
}

func skillKey(s employee.Skill) string {
	if s.ID != 0 {
		return "id:" + strconv.FormatInt(s.ID, 10)
	}
	return "name:" + strings.ToLower(strings.TrimSpace(s.Name))
}

type counter struct {
	order  []string
	counts map[string]int
}

func newCounter() *counter {
	return &counter{counts: make(map[string]int)}
}

func (c *counter) inc(key string) {
	if _, ok := c.counts[key]; !ok {
		c.order = append(c.order, key)
	}
	c.counts[key]++
}

func (c *counter) list() []CategoryCount {
	out := make([]CategoryCount, 0, len(c.order))
	for _, k := range c.order {
		out = append(out, CategoryCount{Category: k, Count: c.counts[k]})
	}
	return out
}

// Stats are the headline numbers of the dashboard.
type Stats struct {
	Employees   int `json:"employees"`
	Teams       int `json:"teams"`
	Skills      int `json:"skills"`
	Assignments int `json:"assignments"`
}

// DashboardStats counts employees, teams and skills, and how many distinct
// employees sit on at least one team.
func DashboardStats(employees []*employee.Profile, teams []team.Team, members []team.Member, skills []employee.Skill) Stats {
	assigned := make(map[int64]struct{}, len(members))
	for _, m := range members {
		assigned[m.EmployeeID] = struct{}{}
	}
	return Stats{
		Employees:   len(employees),
		Teams:       len(teams),
		Skills:      len(skills),
		Assignments: len(assigned),
	}
}
