// Package merge provides the merge command.
package merge

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentstation/rostersync/internal/cmd/application"
	"github.com/agentstation/rostersync/internal/cmd/output"
	"github.com/agentstation/rostersync/pkg/logging"
	"github.com/agentstation/rostersync/pkg/pipeline"
)

// NewCommand creates the merge command.
func NewCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:   "merge <brightspace_dir>",
		Short: "Fold differential exports into the full exports in place",
		Long: `Merge applies every <Dataset>Differential<n>.csv in the directory to
its baseline <Dataset>.csv, newest differential last, and rewrites the
baseline. Differential files are left in place; merging again is a no-op.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := logging.WithLogger(cmd.Context(), app.Logger())
			results, err := pipeline.MergeDirectory(ctx, args[0])
			if err != nil {
				return fmt.Errorf("merge %s: %w", args[0], err)
			}

			out := cmd.OutOrStdout()
			return output.Write(out, output.DetectFormat(app.OutputFormat(), out), output.MergeData(results), results)
		},
	}
}
