package pipeline

import (
	"fmt"

	"github.com/agentstation/rostersync/pkg/records"
)

// Result represents the outcome of a conversion run.
type Result struct {
	RunID string `json:"run_id" yaml:"run_id"` // Correlates log lines of this run

	// Selection
	Roots   []string          `json:"roots" yaml:"roots"`     // Resolved root org unit ids, in request order
	Courses []records.OrgUnit `json:"courses" yaml:"courses"` // Selected courses in discovery order
	UserIDs []string          `json:"user_ids" yaml:"user_ids"` // Users enrolled in any selected course

	// Output
	Outputs   []OutputFile `json:"outputs" yaml:"outputs"` // Files written (or that would be written on a dry run)
	OutputDir string       `json:"output_dir,omitempty" yaml:"output_dir,omitempty"` // Empty on a dry run
	DryRun    bool         `json:"dry_run" yaml:"dry_run"`
}

// OutputFile summarizes one projected table.
type OutputFile struct {
	Name string `json:"name" yaml:"name"`
	Rows int    `json:"rows" yaml:"rows"`
}

// Summary returns a human-readable summary of the run.
func (r *Result) Summary() string {
	if r.DryRun || r.OutputDir == "" {
		return fmt.Sprintf("%d courses, %d users selected (dry run)", len(r.Courses), len(r.UserIDs))
	}
	return fmt.Sprintf("%d courses, %d users written to %s", len(r.Courses), len(r.UserIDs), r.OutputDir)
}

// MergeResult summarizes an in-place merge of one dataset.
type MergeResult struct {
	Dataset       string `json:"dataset" yaml:"dataset"`
	File          string `json:"file" yaml:"file"`
	Differentials int    `json:"differentials" yaml:"differentials"`
	BaselineRows  int    `json:"baseline_rows" yaml:"baseline_rows"`
	MergedRows    int    `json:"merged_rows" yaml:"merged_rows"`
}
