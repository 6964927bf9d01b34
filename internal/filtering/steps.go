package filtering

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/team-matcher/internal/criteria"
	"github.com/spigell/team-matcher/internal/employee"
	"github.com/spigell/team-matcher/internal/scoring"
)

// toggle carries the enable/disable bookkeeping shared by every step.
type toggle struct {
	disabled bool
	reason   string
}

func (t *toggle) Disable(reason string) {
	t.disabled = true
	t.reason = reason
}

func (t *toggle) IsEnabled() bool { return !t.disabled }

type excludeIDsFilter struct {
	toggle
	ids []int64
}

// NewExcludeIDs creates a filter that removes employees already on the team.
func NewExcludeIDs() Filter {
	return &excludeIDsFilter{}
}

func (f *excludeIDsFilter) Name() string { return "exclude_ids" }

func (f *excludeIDsFilter) Validate(cfg *Config) error {
	f.ids = nil
	if cfg != nil {
		f.ids = append(f.ids, cfg.ExcludeIDs...)
	}
	return nil
}

func (f *excludeIDsFilter) Apply(_ context.Context, deps Deps, c *employee.Candidates) (*employee.Candidates, Step, error) {
	initial := c.Len()
	excluded := c.Exclude(f.ids)
	if deps.Logger != nil && len(excluded) > 0 {
		deps.Logger.Debug("excluding employees already on the team",
			zap.Strings("excluded_employees", excluded),
			zap.Int("employees_left", c.Len()),
		)
	}

	return c, Step{Initial: initial, Dropped: len(excluded), Left: c.Len()}, nil
}

func (f *excludeIDsFilter) Status() Status {
	details := map[string]string{}
	if len(f.ids) > 0 {
		ids := make([]string, 0, len(f.ids))
		for _, id := range f.ids {
			ids = append(ids, strconv.FormatInt(id, 10))
		}
		details["ids"] = strings.Join(ids, ",")
	}
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason, Details: details}
}

type searchFilter struct {
	toggle
	query string
}

// NewSearch creates a filter that keeps employees whose name or job title
// contains the query.
func NewSearch() Filter {
	return &searchFilter{}
}

func (f *searchFilter) Name() string { return "search" }

func (f *searchFilter) Validate(cfg *Config) error {
	f.query = ""
	if cfg != nil {
		f.query = strings.TrimSpace(cfg.Query)
	}
	return nil
}

func (f *searchFilter) Apply(_ context.Context, deps Deps, c *employee.Candidates) (*employee.Candidates, Step, error) {
	initial := c.Len()
	if f.query == "" {
		return c, Step{Initial: initial, Left: initial}, nil
	}

	excluded := c.Keep(func(p *employee.Profile) bool { return p.MatchesQuery(f.query) })
	if deps.Logger != nil && len(excluded) > 0 {
		deps.Logger.Debug("excluding employees not matching search",
			zap.String("query", f.query),
			zap.Int("employees_left", c.Len()),
		)
	}

	return c, Step{Initial: initial, Dropped: len(excluded), Left: c.Len()}, nil
}

func (f *searchFilter) Status() Status {
	details := map[string]string{}
	if f.query != "" {
		details["query"] = f.query
	}
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason, Details: details}
}

type belbinFilter struct {
	toggle
	category string
}

// NewBelbin creates a filter that keeps employees with the selected Belbin role.
func NewBelbin() Filter {
	return &belbinFilter{}
}

func (f *belbinFilter) Name() string { return "belbin" }

func (f *belbinFilter) Validate(cfg *Config) error {
	f.category = ""
	if cfg != nil {
		f.category = strings.TrimSpace(cfg.Category)
	}
	if strings.EqualFold(f.category, "all") {
		f.category = ""
	}
	return nil
}

func (f *belbinFilter) Apply(_ context.Context, deps Deps, c *employee.Candidates) (*employee.Candidates, Step, error) {
	initial := c.Len()
	if f.category == "" {
		return c, Step{Initial: initial, Left: initial}, nil
	}

	want, known := employee.ParseBelbinRole(f.category)
	excluded := c.Keep(func(p *employee.Profile) bool {
		if p.Personality == nil {
			return false
		}
		if known {
			got, ok := p.Personality.Role()
			return ok && got == want
		}
		return strings.Contains(strings.ToLower(p.Personality.BelbinRole), strings.ToLower(f.category))
	})

	if deps.Logger != nil && len(excluded) > 0 {
		deps.Logger.Debug("excluding employees by belbin role",
			zap.String("category", f.category),
			zap.Strings("excluded_employees", excluded),
		)
	}

	return c, Step{Initial: initial, Dropped: len(excluded), Left: c.Len()}, nil
}

func (f *belbinFilter) Status() Status {
	details := map[string]string{}
	if f.category != "" {
		details["category"] = f.category
	}
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason, Details: details}
}

type minimumFitFilter struct {
	toggle
	archetype string
	threshold int
}

// NewMinimumFit creates a filter that drops employees whose deterministic fit
// for an archetype is below a threshold.
func NewMinimumFit() Filter {
	return &minimumFitFilter{}
}

func (f *minimumFitFilter) Name() string { return "minimum_fit" }

func (f *minimumFitFilter) Validate(cfg *Config) error {
	f.archetype, f.threshold = "", 0
	if cfg == nil || cfg.MinimumFit <= 0 {
		return nil
	}
	if cfg.MinimumFit > 100 {
		return fmt.Errorf("minimum fit %d is above 100", cfg.MinimumFit)
	}
	if _, err := criteria.Get(cfg.Archetype); err != nil {
		return err
	}
	f.archetype, f.threshold = cfg.Archetype, cfg.MinimumFit
	return nil
}

func (f *minimumFitFilter) Apply(_ context.Context, deps Deps, c *employee.Candidates) (*employee.Candidates, Step, error) {
	initial := c.Len()
	if f.threshold <= 0 {
		return c, Step{Initial: initial, Left: initial}, nil
	}

	excluded := c.Keep(func(p *employee.Profile) bool {
		return scoring.ScoreEmployeeFit(p, f.archetype).OverallFit >= f.threshold
	})

	if deps.Logger != nil && len(excluded) > 0 {
		deps.Logger.Debug("excluding employees below minimum fit",
			zap.String("archetype", f.archetype),
			zap.Int("threshold", f.threshold),
			zap.Strings("excluded_employees", excluded),
		)
	}

	return c, Step{Initial: initial, Dropped: len(excluded), Left: c.Len()}, nil
}

func (f *minimumFitFilter) Status() Status {
	details := map[string]string{}
	if f.threshold > 0 {
		details["archetype"] = f.archetype
		details["threshold"] = strconv.Itoa(f.threshold)
	}
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason, Details: details}
}

type limitFilter struct {
	toggle
	limit int
}

// NewLimit creates a filter that caps the number of candidates.
func NewLimit() Filter {
	return &limitFilter{}
}

func (f *limitFilter) Name() string { return "limit" }

func (f *limitFilter) Validate(cfg *Config) error {
	f.limit = 0
	if cfg == nil {
		return nil
	}
	if cfg.Limit < 0 {
		return fmt.Errorf("limit must not be negative, got %d", cfg.Limit)
	}
	f.limit = cfg.Limit
	return nil
}

func (f *limitFilter) Apply(_ context.Context, _ Deps, c *employee.Candidates) (*employee.Candidates, Step, error) {
	initial := c.Len()
	if f.limit == 0 || initial <= f.limit {
		return c, Step{Initial: initial, Left: initial}, nil
	}

	kept := 0
	c.Keep(func(*employee.Profile) bool {
		kept++
		return kept <= f.limit
	})

	return c, Step{Initial: initial, Dropped: initial - c.Len(), Left: c.Len()}, nil
}

func (f *limitFilter) Status() Status {
	details := map[string]string{}
	if f.limit > 0 {
		details["limit"] = strconv.Itoa(f.limit)
	}
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason, Details: details}
}
