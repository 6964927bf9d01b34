package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spigell/team-matcher/internal/employee"
)

const selectEmployees = `
SELECT id, COALESCE(name, ''), COALESCE(job_title, ''), COALESCE(experience, ''),
       COALESCE(work_year, 0), COALESCE(location, '')
FROM employees
WHERE ($1::bigint IS NULL OR id = $1)
ORDER BY id`

// The first personality row of an employee is the canonical one.
const selectPersonalities = `
SELECT DISTINCT ON (employee_id)
       employee_id,
       COALESCE(top_personality, ''), COALESCE(second_personality, ''),
       COALESCE(sorted_traits, ''), COALESCE(belbin_role, ''),
       COALESCE(ambition, 0), COALESCE(assertiveness, 0), COALESCE(awareness, 0),
       COALESCE(composure, 0), COALESCE(cooperativeness, 0), COALESCE(liveliness, 0),
       COALESCE(humility, 0), COALESCE(drive, 0), COALESCE(conceptual, 0),
       COALESCE(mastery, 0), COALESCE(structure, 0), COALESCE(flexibility, 0),
       COALESCE(positivity, 0), COALESCE(power, 0), COALESCE(sensitivity, 0)
FROM personality_traits
WHERE ($1::bigint IS NULL OR employee_id = $1)
ORDER BY employee_id, id`

const selectEmployeeSkills = `
SELECT es.employee_id, s.id, COALESCE(s.name, ''), COALESCE(s.main_category, ''), COALESCE(s.subcategory, '')
FROM employee_skills es
JOIN skills s ON s.id = es.skill_id
WHERE ($1::bigint IS NULL OR es.employee_id = $1)
ORDER BY es.employee_id, s.id`

// personalityRow mirrors one personality_traits row after COALESCE.
type personalityRow struct {
	employeeID   int64
	top, second  string
	sortedTraits string
	belbinRole   string
	scores       [15]int32
}

func (r *personalityRow) dest() []any {
	out := []any{&r.employeeID, &r.top, &r.second, &r.sortedTraits, &r.belbinRole}
	for i := range r.scores {
		out = append(out, &r.scores[i])
	}
	return out
}

// toPersonality converts the row, clamping scores to the 0..10 scale.
func (r personalityRow) toPersonality() *employee.Personality {
	p := &employee.Personality{
		TopTrait:     strings.TrimSpace(r.top),
		SecondTrait:  strings.TrimSpace(r.second),
		SortedTraits: strings.TrimSpace(r.sortedTraits),
		BelbinRole:   strings.TrimSpace(r.belbinRole),
		Scores:       make(map[employee.Trait]int, len(employee.Traits)),
	}
	for i, trait := range employee.Traits {
		p.Scores[trait] = min(max(int(r.scores[i]), 0), 10)
	}
	return p
}

type skillRow struct {
	employeeID int64
	skill      employee.Skill
}

// assemble attaches personalities and skills to their employees, keeping
// the employee order.
func assemble(profiles []*employee.Profile, personalities []personalityRow, skills []skillRow) []*employee.Profile {
	byID := make(map[int64]*employee.Profile, len(profiles))
	for _, p := range profiles {
		byID[p.ID] = p
	}

	for _, row := range personalities {
		if p, ok := byID[row.employeeID]; ok && p.Personality == nil {
			p.Personality = row.toPersonality()
		}
	}

	for _, row := range skills {
		if p, ok := byID[row.employeeID]; ok {
			p.Skills = append(p.Skills, row.skill)
		}
	}

	return profiles
}

// ListEmployees returns every employee with skills and personality.
func (s *Store) ListEmployees(ctx context.Context) ([]*employee.Profile, error) {
	return s.loadEmployees(ctx, nil)
}

// GetEmployee returns one employee or ErrNotFound.
func (s *Store) GetEmployee(ctx context.Context, id int64) (*employee.Profile, error) {
	profiles, err := s.loadEmployees(ctx, &id)
	if err != nil {
		return nil, err
	}
	if len(profiles) == 0 {
		return nil, fmt.Errorf("employee %d: %w", id, ErrNotFound)
	}
	return profiles[0], nil
}

// GetEmployees returns the employees with the given ids in the given order,
// skipping ids that do not exist.
func (s *Store) GetEmployees(ctx context.Context, ids []int64) ([]*employee.Profile, error) {
	all, err := s.ListEmployees(ctx)
	if err != nil {
		return nil, err
	}

	candidates := employee.NewCandidates(all)
	out := make([]*employee.Profile, 0, len(ids))
	for _, id := range ids {
		if p := candidates.FindByID(id); p != nil {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *Store) loadEmployees(ctx context.Context, id *int64) ([]*employee.Profile, error) {
	rows, err := s.db.Query(ctx, selectEmployees, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query employees: %w", err)
	}
	profiles, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*employee.Profile, error) {
		var (
			p         employee.Profile
			workYears int32
		)
		if err := row.Scan(&p.ID, &p.Name, &p.JobTitle, &p.Experience, &workYears, &p.Location); err != nil {
			return nil, err
		}
		p.WorkYears = int(workYears)
		return &p, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan employees: %w", err)
	}
	if len(profiles) == 0 {
		return profiles, nil
	}

	rows, err = s.db.Query(ctx, selectPersonalities, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query personality traits: %w", err)
	}
	personalities, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (personalityRow, error) {
		var r personalityRow
		err := row.Scan(r.dest()...)
		return r, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan personality traits: %w", err)
	}

	rows, err = s.db.Query(ctx, selectEmployeeSkills, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query employee skills: %w", err)
	}
	skills, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (skillRow, error) {
		var r skillRow
		err := row.Scan(&r.employeeID, &r.skill.ID, &r.skill.Name, &r.skill.MainCategory, &r.skill.Subcategory)
		return r, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan employee skills: %w", err)
	}

	return assemble(profiles, personalities, skills), nil
}

// ListSkills returns the skills catalog.
func (s *Store) ListSkills(ctx context.Context) ([]employee.Skill, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, COALESCE(name, ''), COALESCE(main_category, ''), COALESCE(subcategory, '')
		 FROM skills ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query skills: %w", err)
	}
	skills, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (employee.Skill, error) {
		var sk employee.Skill
		err := row.Scan(&sk.ID, &sk.Name, &sk.MainCategory, &sk.Subcategory)
		return sk, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan skills: %w", err)
	}
	return skills, nil
}

// UpsertEmployee inserts the employee, or updates it when ID is set and
// already exists. It returns the stored id.
func (s *Store) UpsertEmployee(ctx context.Context, p *employee.Profile) (int64, error) {
	if p == nil {
		return 0, errors.New("employee is required")
	}

	var id int64
	var err error
	if p.ID > 0 {
		err = s.db.QueryRow(ctx,
			`INSERT INTO employees (id, name, job_title, experience, work_year, location)
			 VALUES ($1, $2, $3, $4, $5, $6)
			 ON CONFLICT (id) DO UPDATE SET name = $2, job_title = $3, experience = $4, work_year = $5, location = $6
			 RETURNING id`,
			p.ID, p.Name, p.JobTitle, p.Experience, p.WorkYears, p.Location,
		).Scan(&id)
	} else {
		err = s.db.QueryRow(ctx,
			`INSERT INTO employees (name, job_title, experience, work_year, location)
			 VALUES ($1, $2, $3, $4, $5)
			 RETURNING id`,
			p.Name, p.JobTitle, p.Experience, p.WorkYears, p.Location,
		).Scan(&id)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to upsert employee %q: %w", p.Name, err)
	}
	return id, nil
}

// UpsertPersonality replaces the personality assessment of an employee.
func (s *Store) UpsertPersonality(ctx context.Context, employeeID int64, p *employee.Personality) error {
	if p == nil {
		return errors.New("personality is required")
	}

	args := []any{employeeID, p.TopTrait, p.SecondTrait, p.SortedTraits, p.BelbinRole}
	columns := []string{"employee_id", "top_personality", "second_personality", "sorted_traits", "belbin_role"}
	for _, trait := range employee.Traits {
		columns = append(columns, string(trait))
		args = append(args, p.Scores[trait])
	}

	placeholders := make([]string, len(args))
	for i := range args {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM personality_traits WHERE employee_id = $1`, employeeID); err != nil {
		return fmt.Errorf("failed to clear personality of employee %d: %w", employeeID, err)
	}

	insert := fmt.Sprintf(`INSERT INTO personality_traits (%s) VALUES (%s)`,
		strings.Join(columns, ", "), strings.Join(placeholders, ", "))
	if _, err := tx.Exec(ctx, insert, args...); err != nil {
		return fmt.Errorf("failed to insert personality of employee %d: %w", employeeID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit personality of employee %d: %w", employeeID, err)
	}
	return nil
}

// UpsertSkill stores a catalog skill by name and returns its id.
func (s *Store) UpsertSkill(ctx context.Context, sk employee.Skill) (int64, error) {
	name := strings.TrimSpace(sk.Name)
	if name == "" {
		return 0, errors.New("skill name is required")
	}

	var id int64
	err := s.db.QueryRow(ctx,
		`INSERT INTO skills (name, main_category, subcategory)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (name) DO UPDATE SET main_category = $2, subcategory = $3
		 RETURNING id`,
		name, sk.MainCategory, sk.Subcategory,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to upsert skill %q: %w", name, err)
	}
	return id, nil
}

// EnsureSkill returns the id of the named skill, inserting it with the given
// categories only when no skill of that name exists yet.
func (s *Store) EnsureSkill(ctx context.Context, sk employee.Skill) (int64, error) {
	name := strings.TrimSpace(sk.Name)
	if name == "" {
		return 0, errors.New("skill name is required")
	}

	var id int64
	err := s.db.QueryRow(ctx,
		`WITH ins AS (
		   INSERT INTO skills (name, main_category, subcategory)
		   VALUES ($1, $2, $3)
		   ON CONFLICT (name) DO NOTHING
		   RETURNING id
		 )
		 SELECT id FROM ins
		 UNION ALL
		 SELECT id FROM skills WHERE name = $1
		 LIMIT 1`,
		name, sk.MainCategory, sk.Subcategory,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to ensure skill %q: %w", name, err)
	}
	return id, nil
}

// LinkSkill attaches a skill to an employee; linking twice is a no-op.
func (s *Store) LinkSkill(ctx context.Context, employeeID, skillID int64) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO employee_skills (employee_id, skill_id) VALUES ($1, $2)
		 ON CONFLICT (employee_id, skill_id) DO NOTHING`,
		employeeID, skillID,
	)
	if err != nil {
		return fmt.Errorf("failed to link skill %d to employee %d: %w", skillID, employeeID, err)
	}
	return nil
}
