package cmd

import (
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/team-matcher/internal/seed"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Import employees, personalities and skills from CSV exports",
	Run: func(cmd *cobra.Command, _ []string) {
		runSeed(cmd)
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)

	seedCmd.Flags().String("employees", "", "employees csv: name, job_title, experience, work_year, location")
	seedCmd.Flags().String("personality", "", "personality csv: name, 15 trait scores, top, second, sorted traits, belbin role")
	seedCmd.Flags().String("skills", "", "skill catalog csv: name, id, main_category, subcategory")
	seedCmd.Flags().String("employee-skills", "", "employee skills csv: name, skills separated by ';'")
	seedCmd.Flags().Bool("migrate", true, "apply the schema before importing")
}

func runSeed(cmd *cobra.Command) {
	ctx := context.Background()
	e := setup(ctx)
	defer e.Close()

	if migrate, _ := cmd.Flags().GetBool("migrate"); migrate {
		if err := e.store.Migrate(ctx); err != nil {
			e.logger.Fatal("applying schema", zap.Error(err))
		}
	}

	var src seed.Sources
	var files []*os.File
	defer func() {
		for _, f := range files {
			f.Close()
		}
	}()

	open := func(flag string) io.Reader {
		path, _ := cmd.Flags().GetString(flag)
		if path == "" {
			return nil
		}
		f, err := os.Open(path)
		if err != nil {
			e.logger.Fatal("opening csv", zap.String("flag", flag), zap.Error(err))
		}
		files = append(files, f)
		return f
	}

	src.Employees = open("employees")
	src.Personality = open("personality")
	src.Skills = open("skills")
	src.EmployeeSkills = open("employee-skills")

	report, err := seed.New(e.store, e.logger).Run(ctx, src)
	if err != nil {
		e.logger.Fatal("seeding", zap.Error(err))
	}

	for _, skipped := range report.Skipped {
		e.logger.Warn("skipped", zap.String("reason", skipped))
	}
	e.logger.Info("seeding finished",
		zap.Int("employees", report.Employees),
		zap.Int("personalities", report.Personalities),
		zap.Int("skills", report.Skills),
		zap.Int("links", report.Links),
	)
}
