package pipeline

import (
	"context"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/agentstation/rostersync/pkg/constants"
	"github.com/agentstation/rostersync/pkg/dataset"
	"github.com/agentstation/rostersync/pkg/errors"
	"github.com/agentstation/rostersync/pkg/hierarchy"
	"github.com/agentstation/rostersync/pkg/logging"
	"github.com/agentstation/rostersync/pkg/projection"
	"github.com/agentstation/rostersync/pkg/records"
	"github.com/agentstation/rostersync/pkg/table"
)

// Run converts the exports in the input directory into Pronto bulk import
// files. Every failure surfaces before the output directory is created, so a
// failed run leaves nothing behind.
func Run(ctx context.Context, opts ...Option) (*Result, error) {
	// Step 0: Set context
	if ctx == nil {
		ctx = context.Background()
	}

	// Step 1: Parse and validate options
	options := Defaults().Apply(opts...)
	if err := options.Validate(); err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	ctx = logging.WithRunID(ctx, runID)
	logger := logging.FromContext(ctx)

	// Step 2: Every baseline must exist before anything is read
	if err := dataset.CheckRequired(options.InputDir); err != nil {
		return nil, err
	}

	// Step 3: Load, and optionally merge, each dataset
	tables := make(map[string]*table.Table, len(dataset.Kinds()))
	for _, kind := range dataset.Kinds() {
		t, err := loadTable(ctx, options, kind)
		if err != nil {
			return nil, err
		}
		tables[kind.Base] = t
	}

	// Step 4: Decode records
	in, edges, err := decode(tables)
	if err != nil {
		return nil, err
	}

	// Step 5: Resolve the requested org units and expand them to courses
	roots, err := hierarchy.ResolveRoots(in.OrgUnits, options.Identifiers)
	if err != nil {
		return nil, err
	}
	graph := hierarchy.NewGraph(in.OrgUnits, edges)
	courses, err := hierarchy.ExpandToLeaves(ctx, graph, roots, options.Leaf)
	if err != nil {
		return nil, err
	}

	courseIDs := make([]string, len(courses))
	for i, c := range courses {
		courseIDs[i] = c.ID
	}
	scope := projection.NewScope(courseIDs, projection.ScopeUsers(in.Enrollments, courseIDs))

	logger.Info().
		Strs("roots", roots).
		Int("courses", len(scope.CourseIDs)).
		Int("users", len(scope.UserIDs)).
		Msg("Resolved scope")

	// Step 6: Project all outputs in memory
	out := projection.Project(in, scope, options.projection())

	result := &Result{
		RunID:   runID,
		Roots:   roots,
		Courses: courses,
		UserIDs: scope.UserIDs,
		DryRun:  options.DryRun,
	}
	for _, t := range out.Tables() {
		result.Outputs = append(result.Outputs, OutputFile{Name: t.Name, Rows: t.Len()})
	}

	if options.DryRun {
		logger.Info().Bool("dry_run", true).Msg("Dry run completed, no files written")
		return result, nil
	}

	// Step 7: Only now touch the output location
	dir := outputDir(options)
	if err := os.MkdirAll(dir, constants.DirPermissions); err != nil {
		return nil, errors.WrapIO("create", dir, err)
	}
	for _, t := range out.Tables() {
		if err := t.WriteFile(filepath.Join(dir, t.Name), true); err != nil {
			return nil, err
		}
	}
	result.OutputDir = dir

	logger.Info().
		Str("output_dir", dir).
		Int("courses", len(courses)).
		Int("users", out.Users.Len()).
		Int("memberships", out.Memberships.Len()).
		Msg("Conversion completed")

	return result, nil
}

// MergeDirectory folds every dataset's differential exports in dir into its
// baseline file. All merges complete before the first baseline is rewritten.
func MergeDirectory(ctx context.Context, dir string) ([]MergeResult, error) {
	logger := logging.FromContext(ctx)

	if err := dataset.CheckRequired(dir); err != nil {
		return nil, err
	}

	type pending struct {
		kind   dataset.Kind
		merged *table.Table
	}

	var (
		results []MergeResult
		writes  []pending
	)
	for _, kind := range dataset.Kinds() {
		set, err := dataset.Load(ctx, dir, kind)
		if err != nil {
			return nil, err
		}
		merged, err := set.Merge()
		if err != nil {
			return nil, err
		}

		results = append(results, MergeResult{
			Dataset:       kind.HubName,
			File:          kind.FileName(),
			Differentials: len(set.Differentials),
			BaselineRows:  set.Baseline.Len(),
			MergedRows:    merged.Len(),
		})
		if len(set.Differentials) > 0 {
			writes = append(writes, pending{kind: kind, merged: merged})
		}
	}

	for _, w := range writes {
		path := filepath.Join(dir, w.kind.FileName())
		if err := w.merged.WriteFile(path, false); err != nil {
			return nil, err
		}
		logger.Info().
			Str("dataset", w.kind.HubName).
			Int("rows", w.merged.Len()).
			Msg("Merged differentials into baseline")
	}

	return results, nil
}

func loadTable(ctx context.Context, options *Options, kind dataset.Kind) (*table.Table, error) {
	if !options.Merge {
		return dataset.ReadBaseline(options.InputDir, kind)
	}
	set, err := dataset.Load(ctx, options.InputDir, kind)
	if err != nil {
		return nil, err
	}
	return set.Merge()
}

func decode(tables map[string]*table.Table) (projection.Input, []records.Edge, error) {
	var (
		in  projection.Input
		err error
	)
	if in.Users, err = records.DecodeUsers(tables[dataset.Users.Base]); err != nil {
		return in, nil, err
	}
	if in.OrgUnits, err = records.DecodeOrgUnits(tables[dataset.OrgUnits.Base]); err != nil {
		return in, nil, err
	}
	if in.Enrollments, err = records.DecodeEnrollments(tables[dataset.Enrollments.Base]); err != nil {
		return in, nil, err
	}
	edges, err := records.DecodeEdges(tables[dataset.Descendants.Base])
	if err != nil {
		return in, nil, err
	}
	return in, edges, nil
}

func outputDir(options *Options) string {
	if options.OutputDir != "" {
		return options.OutputDir
	}
	name := constants.ProntoDirPrefix + options.Now().Time.Format(constants.TimestampLayout)
	return filepath.Join(options.OutputRoot, name)
}
