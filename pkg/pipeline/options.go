// Package pipeline runs a conversion end to end: merge the Data Hub
// exports, resolve the requested org units to courses, project the scoped
// records onto Pronto's schema and write the result.
package pipeline

import (
	"os"

	"github.com/agentstation/utc"

	"github.com/agentstation/rostersync/pkg/constants"
	"github.com/agentstation/rostersync/pkg/errors"
	"github.com/agentstation/rostersync/pkg/hierarchy"
	"github.com/agentstation/rostersync/pkg/projection"
)

// Options controls a conversion run.
type Options struct {
	// Input
	InputDir    string   // Directory holding the Data Hub exports
	Identifiers []string // Org unit names, codes or ids to start from
	Merge       bool     // Apply differential exports before converting

	// Selection
	Leaf       hierarchy.Predicate // Which org units are courses (nil means CoursePredicate)
	SystemUser string              // User name excluded from users.csv

	// Output
	OutputDir  string // Exact output directory (overrides OutputRoot)
	OutputRoot string // Parent of the timestamped Pronto_<ts> directory
	DryRun     bool   // Resolve and project without writing

	// Now stamps the output directory name.
	Now func() utc.Time
}

// Option is a function that configures Options.
type Option func(*Options)

// Defaults returns the default run options.
func Defaults() *Options {
	return &Options{
		Merge:      false,
		Leaf:       hierarchy.CoursePredicate(),
		SystemUser: constants.DefaultSystemUser,
		OutputRoot: ".",
		DryRun:     false,
		Now:        utc.Now,
	}
}

// Apply applies the given options.
func (o *Options) Apply(opts ...Option) *Options {
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Validate checks the options before any file is read.
func (o *Options) Validate() error {
	if o.InputDir == "" {
		return &errors.ValidationError{Field: "InputDir", Message: "input directory is required"}
	}
	if len(o.Identifiers) == 0 {
		return &errors.ValidationError{Field: "Identifiers", Message: "at least one org unit is required"}
	}
	for _, id := range o.Identifiers {
		if id == "" {
			return &errors.ValidationError{Field: "Identifiers", Value: id, Message: "org unit identifier must not be empty"}
		}
	}
	if o.OutputDir == "" && o.OutputRoot != "" && !o.DryRun {
		info, err := os.Stat(o.OutputRoot)
		if err != nil || !info.IsDir() {
			return &errors.ValidationError{Field: "OutputRoot", Value: o.OutputRoot, Message: "output root must be an existing directory"}
		}
	}
	return nil
}

func (o *Options) projection() projection.Options {
	return projection.Options{SystemUser: o.SystemUser}
}

// WithInputDir sets the Data Hub export directory.
func WithInputDir(dir string) Option {
	return func(o *Options) {
		o.InputDir = dir
	}
}

// WithIdentifiers sets the org units to start from.
func WithIdentifiers(ids ...string) Option {
	return func(o *Options) {
		o.Identifiers = ids
	}
}

// WithMerge applies differential exports before converting.
func WithMerge(merge bool) Option {
	return func(o *Options) {
		o.Merge = merge
	}
}

// WithLeaf sets the course predicate. A nil predicate keeps the default.
func WithLeaf(leaf hierarchy.Predicate) Option {
	return func(o *Options) {
		if leaf != nil {
			o.Leaf = leaf
		}
	}
}

// WithSystemUser sets the user name excluded from users.csv.
func WithSystemUser(name string) Option {
	return func(o *Options) {
		if name != "" {
			o.SystemUser = name
		}
	}
}

// WithOutputDir writes into exactly dir.
func WithOutputDir(dir string) Option {
	return func(o *Options) {
		o.OutputDir = dir
	}
}

// WithOutputRoot creates the timestamped output directory under root.
func WithOutputRoot(root string) Option {
	return func(o *Options) {
		if root != "" {
			o.OutputRoot = root
		}
	}
}

// WithDryRun skips writing output files.
func WithDryRun(dryRun bool) Option {
	return func(o *Options) {
		o.DryRun = dryRun
	}
}

// WithClock overrides the clock used for the output directory name.
func WithClock(now func() utc.Time) Option {
	return func(o *Options) {
		if now != nil {
			o.Now = now
		}
	}
}
