// Package scope provides the scope command.
package scope

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/rostersync/cmd/rostersync/cmd/convert"
	"github.com/agentstation/rostersync/internal/cmd/application"
)

// NewCommand creates the scope command.
func NewCommand(app application.Application) *cobra.Command {
	flags := &convert.Flags{}

	cmd := &cobra.Command{
		Use:   "scope <brightspace_dir> <orgunit>...",
		Short: "Show the courses and users a conversion would select",
		Long: `Scope resolves the given organizational units and lists the courses
beneath them, with the number of enrolled users. Nothing is written.`,
		Args:    cobra.MinimumNArgs(2),
		Example: `  rostersync scope ./export SCI --format wide`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return convert.Run(cmd, app, flags, args[0], args[1:], true)
		},
	}

	cmd.Flags().BoolVar(&flags.Merge, "merge", false, "apply differential exports found in the directory")
	cmd.Flags().StringVar(&flags.LeafExpression, "leaf-expression", "", "CEL expression over unit selecting courses")

	return cmd
}
