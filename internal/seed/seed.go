// Package seed imports the HR CSV exports into the store.
package seed

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/team-matcher/internal/employee"
	"github.com/spigell/team-matcher/internal/logger"
)

const (
	employeeColumns      = 5
	personalityColumns   = 20
	skillCatalogColumns  = 4
	employeeSkillColumns = 2

	otherCategory = "Other"
)

// Writer is where seeded records go. store.Store implements it.
type Writer interface {
	ListEmployees(ctx context.Context) ([]*employee.Profile, error)
	UpsertEmployee(ctx context.Context, p *employee.Profile) (int64, error)
	UpsertPersonality(ctx context.Context, employeeID int64, p *employee.Personality) error
	ListSkills(ctx context.Context) ([]employee.Skill, error)
	UpsertSkill(ctx context.Context, s employee.Skill) (int64, error)
	EnsureSkill(ctx context.Context, s employee.Skill) (int64, error)
	LinkSkill(ctx context.Context, employeeID, skillID int64) error
}

// Sources holds the four exports. A nil reader skips that part.
type Sources struct {
	Employees      io.Reader
	Personality    io.Reader
	Skills         io.Reader
	EmployeeSkills io.Reader
}

// Report counts what was written.
type Report struct {
	Employees     int      `json:"employees"`
	Personalities int      `json:"personalities"`
	Skills        int      `json:"skills"`
	Links         int      `json:"links"`
	Skipped       []string `json:"skipped"`
}

type Seeder struct {
	writer Writer
	logger *zap.Logger

	employees map[string]int64
	skills    map[string]int64
}

func New(w Writer, log *zap.Logger) *Seeder {
	return &Seeder{
		writer:    w,
		logger:    logger.OrNop(log),
		employees: make(map[string]int64),
		skills:    make(map[string]int64),
	}
}

// Run imports employees, then personalities, then the skill catalog and
// finally the employee skill lists. Employees are matched by name so a
// second run updates instead of duplicating. Skills already in the catalog
// keep their categories when only the employee skill lists are imported.
func (s *Seeder) Run(ctx context.Context, src Sources) (*Report, error) {
	report := &Report{Skipped: []string{}}

	existing, err := s.writer.ListEmployees(ctx)
	if err != nil {
		return nil, fmt.Errorf("list existing employees: %w", err)
	}
	for _, p := range existing {
		s.employees[p.Name] = p.ID
	}

	skills, err := s.writer.ListSkills(ctx)
	if err != nil {
		return nil, fmt.Errorf("list existing skills: %w", err)
	}
	for _, sk := range skills {
		s.skills[sk.Name] = sk.ID
	}

	steps := []struct {
		name   string
		reader io.Reader
		min    int
		apply  func(context.Context, []string, *Report) error
	}{
		{"employees", src.Employees, employeeColumns, s.employee},
		{"personality", src.Personality, personalityColumns, s.personality},
		{"skills", src.Skills, skillCatalogColumns, s.skill},
		{"employee skills", src.EmployeeSkills, employeeSkillColumns, s.employeeSkills},
	}

	for _, step := range steps {
		if step.reader == nil {
			continue
		}

		rows, err := readRows(step.reader)
		if err != nil {
			return report, fmt.Errorf("read %s: %w", step.name, err)
		}

		for i, row := range rows {
			if err := ctx.Err(); err != nil {
				return report, err
			}
			if len(row) < step.min {
				report.Skipped = append(report.Skipped, fmt.Sprintf("%s row %d: %d columns, want %d", step.name, i+2, len(row), step.min))
				continue
			}
			if err := step.apply(ctx, row, report); err != nil {
				return report, fmt.Errorf("%s row %d: %w", step.name, i+2, err)
			}
		}

		s.logger.Info("seed step", zap.String("name", step.name), zap.Int("rows", len(rows)))
	}

	return report, nil
}

func (s *Seeder) employee(ctx context.Context, row []string, report *Report) error {
	p := &employee.Profile{
		ID:         s.employees[cell(row, 0)],
		Name:       cell(row, 0),
		JobTitle:   cell(row, 1),
		Experience: cell(row, 2),
		WorkYears:  leadingInt(cell(row, 3)),
		Location:   cell(row, 4),
	}
	if p.Name == "" {
		report.Skipped = append(report.Skipped, "employee without name")
		return nil
	}

	id, err := s.writer.UpsertEmployee(ctx, p)
	if err != nil {
		return err
	}
	s.employees[p.Name] = id
	report.Employees++
	return nil
}

func (s *Seeder) personality(ctx context.Context, row []string, report *Report) error {
	name := cell(row, 0)
	id, ok := s.employees[name]
	if !ok {
		report.Skipped = append(report.Skipped, fmt.Sprintf("personality of unknown employee %q", name))
		return nil
	}

	p := &employee.Personality{
		Scores:       make(map[employee.Trait]int, len(employee.Traits)),
		TopTrait:     cell(row, 16),
		SecondTrait:  cell(row, 17),
		SortedTraits: cell(row, 18),
		BelbinRole:   cell(row, 19),
	}
	for i, trait := range employee.Traits {
		p.Scores[trait] = leadingInt(cell(row, i+1))
	}

	if err := s.writer.UpsertPersonality(ctx, id, p); err != nil {
		return err
	}
	report.Personalities++
	return nil
}

func (s *Seeder) skill(ctx context.Context, row []string, report *Report) error {
	sk := employee.Skill{
		Name:         cell(row, 0),
		MainCategory: cell(row, 2),
		Subcategory:  cell(row, 3),
	}
	if sk.Name == "" {
		report.Skipped = append(report.Skipped, "skill without name")
		return nil
	}

	id, err := s.writer.UpsertSkill(ctx, sk)
	if err != nil {
		return err
	}
	s.skills[sk.Name] = id
	report.Skills++
	return nil
}

func (s *Seeder) employeeSkills(ctx context.Context, row []string, report *Report) error {
	name := cell(row, 0)
	employeeID, ok := s.employees[name]
	if !ok {
		report.Skipped = append(report.Skipped, fmt.Sprintf("skills of unknown employee %q", name))
		return nil
	}

	for _, skillName := range strings.Split(cell(row, 1), ";") {
		skillName = strings.TrimSpace(skillName)
		if skillName == "" {
			continue
		}

		skillID, ok := s.skills[skillName]
		if !ok {
			id, err := s.writer.EnsureSkill(ctx, employee.Skill{Name: skillName, MainCategory: otherCategory, Subcategory: otherCategory})
			if err != nil {
				return err
			}
			s.skills[skillName] = id
			skillID = id
			report.Skills++
		}

		if err := s.writer.LinkSkill(ctx, employeeID, skillID); err != nil {
			return err
		}
		report.Links++
	}

	return nil
}

// readRows reads every record after the header row.
func readRows(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var rows [][]string
	header := true
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if header {
			header = false
			continue
		}
		rows = append(rows, record)
	}
	return rows, nil
}

func cell(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// leadingInt parses the leading integer of s ("12 years" is 12) and returns
// 0 when there is none.
func leadingInt(s string) int {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) {
		c := s[end]
		if c >= '0' && c <= '9' || (end == 0 && (c == '-' || c == '+')) {
			end++
			continue
		}
		break
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return n
}
