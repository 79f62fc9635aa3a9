// Package dataset describes the Brightspace Data Hub exports a run consumes:
// which datasets exist, how their files are named on disk, the width of their
// composite keys, and how differential exports are discovered and ordered.
package dataset

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/agentstation/rostersync/pkg/errors"
	"github.com/agentstation/rostersync/pkg/logging"
	"github.com/agentstation/rostersync/pkg/table"
)

// Kind is one Data Hub dataset.
type Kind struct {
	// Base is the file stem used for the baseline and its differentials.
	Base string
	// HubName is the dataset's name in the Data Hub listing.
	HubName string
	// KeyWidth is the number of leading fields forming the composite key.
	KeyWidth int
}

// The datasets a run needs.
var (
	Users       = Kind{Base: "Users", HubName: "Users", KeyWidth: 1}
	OrgUnits    = Kind{Base: "OrganizationalUnits", HubName: "Organizational Units", KeyWidth: 1}
	Enrollments = Kind{Base: "UserEnrollments", HubName: "User Enrollments", KeyWidth: 2}
	Descendants = Kind{Base: "OrganizationalUnitDescendants", HubName: "Organizational Unit Descendants", KeyWidth: 2}
)

// Kinds lists every required dataset in processing order.
func Kinds() []Kind {
	return []Kind{Users, OrgUnits, Enrollments, Descendants}
}

// ByHubName returns the kind whose Data Hub name is name.
func ByHubName(name string) (Kind, bool) {
	for _, k := range Kinds() {
		if strings.EqualFold(k.HubName, name) {
			return k, true
		}
	}
	return Kind{}, false
}

// FileName is the baseline file name, e.g. Users.csv.
func (k Kind) FileName() string {
	return k.Base + ".csv"
}

// DifferentialFileName is the name of the n-th differential file.
func (k Kind) DifferentialFileName(n int) string {
	return k.Base + "Differential" + strconv.Itoa(n) + ".csv"
}

func (k Kind) String() string {
	return k.HubName
}

// CheckRequired verifies that every baseline file exists in dir. The first
// missing file is reported as a MissingInputError.
func CheckRequired(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.NewNotFoundError("directory", dir)
		}
		return errors.WrapIO("stat", dir, err)
	}
	if !info.IsDir() {
		return errors.NewValidationError("directory", dir, "not a directory")
	}

	for _, k := range Kinds() {
		path := filepath.Join(dir, k.FileName())
		if _, err := os.Stat(path); err != nil {
			if os.IsNotExist(err) {
				return errors.NewMissingInputError(k.FileName(), dir)
			}
			return errors.WrapIO("stat", path, err)
		}
	}
	return nil
}

// Set is a dataset's baseline plus its differential exports.
type Set struct {
	Kind          Kind
	Baseline      *table.Table
	Differentials []table.Differential
}

// Merge folds the differentials into the baseline.
func (s *Set) Merge() (*table.Table, error) {
	return table.Merge(s.Baseline, s.Differentials, s.Kind.KeyWidth)
}

// ReadBaseline reads only the baseline file of kind from dir.
func ReadBaseline(dir string, kind Kind) (*table.Table, error) {
	return table.ReadFile(filepath.Join(dir, kind.FileName()))
}

// Load reads the baseline of kind from dir together with every differential
// file found next to it. Recency comes from the directory's manifest when it
// has an entry for the file.
func Load(ctx context.Context, dir string, kind Kind) (*Set, error) {
	logger := logging.FromContext(ctx)

	baseline, err := ReadBaseline(dir, kind)
	if err != nil {
		return nil, err
	}

	manifest, err := ReadManifest(dir)
	if err != nil {
		return nil, err
	}

	files, err := DiscoverDifferentials(dir, kind)
	if err != nil {
		return nil, err
	}

	set := &Set{Kind: kind, Baseline: baseline}
	for _, f := range files {
		t, err := table.ReadFile(filepath.Join(dir, f.Name))
		if err != nil {
			return nil, err
		}

		diff := table.Differential{Table: t, Sequence: f.Sequence}
		if entry, ok := manifest.Lookup(f.Name); ok {
			diff.CreatedAt = entry.CreatedAt
		} else {
			logger.Warn().
				Str("dataset", kind.HubName).
				Str("file", f.Name).
				Msg("No manifest entry for differential, ordering by file index")
		}
		set.Differentials = append(set.Differentials, diff)
	}

	logger.Debug().
		Str("dataset", kind.HubName).
		Int("baseline_rows", baseline.Len()).
		Int("differentials", len(set.Differentials)).
		Msg("Loaded dataset")

	return set, nil
}
