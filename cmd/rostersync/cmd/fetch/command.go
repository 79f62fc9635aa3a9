// Package fetch provides the fetch command.
package fetch

import (
	"fmt"
	"path/filepath"

	"github.com/agentstation/utc"
	"github.com/spf13/cobra"

	"github.com/agentstation/rostersync/internal/cmd/application"
	"github.com/agentstation/rostersync/internal/cmd/output"
	"github.com/agentstation/rostersync/internal/sources/brightspace"
	"github.com/agentstation/rostersync/pkg/constants"
	"github.com/agentstation/rostersync/pkg/logging"
	"github.com/agentstation/rostersync/pkg/pipeline"
)

// Flags holds the fetch command flags.
type Flags struct {
	Dir     string
	NoMerge bool
}

// NewCommand creates the fetch command.
func NewCommand(app application.Application) *cobra.Command {
	flags := &Flags{}

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Download the Data Hub exports",
		Long: `Fetch trades the configured refresh token for an access token, saves
the rotated refresh token, and downloads the latest full export of Users,
Organizational Units, User Enrollments and Organizational Unit Descendants
plus every newer differential export. Archives are extracted into a new
BrightSpace_<timestamp> directory and, unless --no-merge is given, the
differentials are merged into the full exports.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := logging.WithLogger(cmd.Context(), app.Logger())
			logger := app.Logger()

			cfg := app.Brightspace()
			if err := cfg.Validate(); err != nil {
				return err
			}

			client := brightspace.NewClient(cfg)

			// Step 1: Authenticate
			session, err := client.RefreshToken(ctx)
			if err != nil {
				return fmt.Errorf("authenticate: %w", err)
			}

			// Step 2: Persist the rotated token before anything else can fail
			if session.RefreshToken != "" && session.RefreshToken != cfg.RefreshToken {
				if err := app.SaveRefreshToken(session.RefreshToken); err != nil {
					logger.Error().Err(err).Msg("Failed to save refresh token; update refresh_token before the next fetch")
				}
			}

			// Step 3: Download and extract
			dir := flags.Dir
			if dir == "" {
				stamp := utc.Now().Time.Format(constants.TimestampLayout)
				dir = filepath.Join(app.Settings().OutputRoot, constants.BrightspaceDirPrefix+stamp)
			}
			fetched, err := client.Fetch(ctx, session, dir)
			if err != nil {
				return fmt.Errorf("fetch: %w", err)
			}

			// Step 4: Merge
			var results []pipeline.MergeResult
			if !flags.NoMerge {
				results, err = pipeline.MergeDirectory(ctx, fetched.Dir)
				if err != nil {
					return fmt.Errorf("merge %s: %w", fetched.Dir, err)
				}
			}

			out := cmd.OutOrStdout()
			format := output.DetectFormat(app.OutputFormat(), out)
			if !format.IsTable() {
				return output.Write(out, format, output.Data{}, map[string]any{
					"dir":    fetched.Dir,
					"files":  fetched.Manifest.Files,
					"merged": results,
				})
			}
			if len(results) > 0 {
				if err := output.Write(out, format, output.MergeData(results), results); err != nil {
					return err
				}
			}
			fmt.Fprintf(out, "%d files written to %s\n", len(fetched.Manifest.Files), fetched.Dir)
			return nil
		},
	}

	cmd.Flags().StringVar(&flags.Dir, "dir", "", "extract into this directory instead of a timestamped one")
	cmd.Flags().BoolVar(&flags.NoMerge, "no-merge", false, "keep differentials unmerged")

	return cmd
}
