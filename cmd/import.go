package cmd

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizdeck/internal/catalog"
)

var importCmd = &cobra.Command{
	Use:   "import [catalog.json]",
	Short: "Validate and load a course catalog",
	Long: `Load courses, modules, lessons and quizzes from a JSON catalog into the
local database. Existing entries with the same IDs are replaced; a changed quiz
gets a new revision and attempts already in progress keep being graded
against the revision they started on.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runImport,
}

func init() {
	importCmd.Flags().Bool("sample", false, "Import the built-in sample catalog")
	importCmd.Flags().Bool("dry-run", false, "Validate only; do not write to the database")
}

func runImport(cmd *cobra.Command, args []string) error {
	sample, _ := cmd.Flags().GetBool("sample")
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	var raw []byte
	switch {
	case sample && len(args) == 0:
		raw = catalog.Sample
	case !sample && len(args) == 1:
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read catalog: %w", err)
		}
		raw = data
	default:
		return errors.New("pass a catalog file or --sample")
	}

	f, err := catalog.Parse(raw)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if dryRun {
		warnings, err := catalog.Check(f)
		if err != nil {
			return err
		}
		printWarnings(cmd, warnings)
		fmt.Fprintln(out, "Catalog is valid.")
		return nil
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	report, err := catalog.Import(cmd.Context(), st.CatalogRepo(), f)
	if err != nil {
		return err
	}

	printWarnings(cmd, report.Warnings)
	fmt.Fprintf(out, "Imported %d course(s), %d module(s), %d lesson(s), %d quiz(zes) into %s\n",
		report.Courses, report.Modules, report.Lessons, report.Quizzes, cfg.DBPath)

	ids := make([]string, 0, len(report.Revisions))
	for id := range report.Revisions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		fmt.Fprintf(out, "  %s @ %s\n", id, report.Revisions[id])
	}
	return nil
}

func printWarnings(cmd *cobra.Command, warnings []string) {
	for _, w := range warnings {
		fmt.Fprintln(cmd.ErrOrStderr(), "warning:", w)
	}
}
