// Package convert provides the convert command.
package convert

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentstation/rostersync/internal/cmd/application"
	"github.com/agentstation/rostersync/internal/cmd/output"
	"github.com/agentstation/rostersync/pkg/logging"
	"github.com/agentstation/rostersync/pkg/pipeline"
)

// Flags holds the convert command flags.
type Flags struct {
	OutputDir      string
	OutputRoot     string
	Merge          bool
	LeafExpression string
	SystemUser     string
}

// NewCommand creates the convert command.
func NewCommand(app application.Application) *cobra.Command {
	flags := &Flags{}

	cmd := &cobra.Command{
		Use:   "convert <brightspace_dir> <orgunit>...",
		Short: "Convert Brightspace exports to Pronto tables",
		Long: `Convert selects every course beneath the given organizational units
(by name, code or id) and writes users.csv, memberships.csv, categories.csv
and groups.csv for them into a new Pronto_<timestamp> directory.`,
		Args: cobra.MinimumNArgs(2),
		Example: `  rostersync convert ./BrightSpace_2024-09-01_13-04-05 "Open Society University Network"
  rostersync convert ./export SCI ART --merge
  rostersync convert ./export 6606 --output-dir ./pronto --format json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return Run(cmd, app, flags, args[0], args[1:], false)
		},
	}

	cmd.Flags().StringVar(&flags.OutputDir, "output-dir", "", "write tables into this directory instead of a timestamped one")
	cmd.Flags().StringVar(&flags.OutputRoot, "output-root", "", "parent of the timestamped output directory (default from config)")
	cmd.Flags().BoolVar(&flags.Merge, "merge", false, "apply differential exports found in the directory")
	cmd.Flags().StringVar(&flags.LeafExpression, "leaf-expression", "", "CEL expression over unit selecting courses, e.g. unit.Type == \"Course Offering\"")
	cmd.Flags().StringVar(&flags.SystemUser, "system-user", "", "user name of the service account left out of users.csv")

	return cmd
}

// Options turns settings and flags into pipeline options; flags win.
func Options(app application.Application, flags *Flags, dir string, identifiers []string) ([]pipeline.Option, error) {
	settings := app.Settings()
	if flags.LeafExpression != "" {
		settings.LeafExpression = flags.LeafExpression
	}
	if flags.SystemUser != "" {
		settings.SystemUser = flags.SystemUser
	}
	if flags.OutputRoot != "" {
		settings.OutputRoot = flags.OutputRoot
	}

	leaf, err := settings.Leaf()
	if err != nil {
		return nil, err
	}

	return []pipeline.Option{
		pipeline.WithInputDir(dir),
		pipeline.WithIdentifiers(identifiers...),
		pipeline.WithMerge(flags.Merge),
		pipeline.WithLeaf(leaf),
		pipeline.WithSystemUser(settings.SystemUser),
		pipeline.WithOutputRoot(settings.OutputRoot),
		pipeline.WithOutputDir(flags.OutputDir),
	}, nil
}

// Run converts, or with dryRun only resolves, and prints the selected courses.
func Run(cmd *cobra.Command, app application.Application, flags *Flags, dir string, identifiers []string, dryRun bool) error {
	opts, err := Options(app, flags, dir, identifiers)
	if err != nil {
		return err
	}
	opts = append(opts, pipeline.WithDryRun(dryRun))

	ctx := logging.WithLogger(cmd.Context(), app.Logger())
	result, err := pipeline.Run(ctx, opts...)
	if err != nil {
		output.ReportError(cmd.ErrOrStderr(), err)
		return fmt.Errorf("%s %s: %w", cmd.Name(), dir, err)
	}

	out := cmd.OutOrStdout()
	format := output.DetectFormat(app.OutputFormat(), out)
	if err := output.Write(out, format, output.CoursesData(result.Courses, format == output.FormatWide), result); err != nil {
		return err
	}
	if format.IsTable() {
		fmt.Fprintln(out, result.Summary())
	}
	return nil
}
