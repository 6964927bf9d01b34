package filtering

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/team-matcher/internal/ai"
	"github.com/spigell/team-matcher/internal/employee"
)

type aiFitFilter struct {
	toggle
	description string
	threshold   int
	assessments map[int64]*ai.TeamFit
}

// NewAIFit creates the step that asks the advisor how well each candidate
// fits the team and drops those the model rates below the threshold.
// Fabricated fallback answers are recorded but never used to drop anyone.
func NewAIFit() Filter {
	return &aiFitFilter{}
}

func (f *aiFitFilter) Name() string { return "ai_fit" }

func (f *aiFitFilter) Validate(cfg *Config) error {
	f.description, f.threshold = "", 0
	if cfg == nil {
		return nil
	}
	if cfg.MinimumAIFit < 0 || cfg.MinimumAIFit > 100 {
		return fmt.Errorf("minimum ai fit must be within 0..100, got %d", cfg.MinimumAIFit)
	}
	f.description = strings.TrimSpace(cfg.TeamDescription)
	f.threshold = cfg.MinimumAIFit
	if f.threshold > 0 && f.description == "" {
		return fmt.Errorf("team description is required when minimum ai fit is set")
	}
	return nil
}

func (f *aiFitFilter) Apply(ctx context.Context, deps Deps, c *employee.Candidates) (*employee.Candidates, Step, error) {
	initial := c.Len()
	f.assessments = make(map[int64]*ai.TeamFit, initial)

	if f.threshold <= 0 {
		return c, Step{Initial: initial, Left: initial}, nil
	}
	if deps.Advisor == nil {
		if deps.Logger != nil {
			deps.Logger.Info("ai advisor is not configured; skipping ai_fit filter")
		}
		return c, Step{Initial: initial, Left: initial}, nil
	}

	excluded := c.Keep(func(p *employee.Profile) bool {
		fit, err := deps.Advisor.AnalyzeTeamFit(ctx, p, f.description)
		if err != nil {
			if deps.Logger != nil {
				deps.Logger.Warn("AI evaluation failed",
					zap.Int64("employee_id", p.ID),
					zap.Error(err),
				)
			}
			return true
		}

		f.assessments[p.ID] = fit
		if fit.Fallback || fit.Percentage >= f.threshold {
			return true
		}

		if deps.Logger != nil {
			deps.Logger.Info("employee rejected by AI advisor",
				zap.Int64("employee_id", p.ID),
				zap.Int("ai_percentage", fit.Percentage),
			)
		}
		return false
	})

	if err := ctx.Err(); err != nil {
		return c, Step{}, err
	}

	return c, Step{Initial: initial, Dropped: len(excluded), Left: c.Len()}, nil
}

func (f *aiFitFilter) Assessments() map[int64]*ai.TeamFit {
	if f.assessments == nil {
		return map[int64]*ai.TeamFit{}
	}
	return f.assessments
}

func (f *aiFitFilter) Status() Status {
	details := map[string]string{}
	if f.threshold > 0 {
		details["minimum_ai_fit"] = strconv.Itoa(f.threshold)
	}
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason, Details: details}
}
