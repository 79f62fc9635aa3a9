package dataset

import (
	"os"
	"regexp"
	"sort"
	"strconv"

	"github.com/agentstation/rostersync/pkg/errors"
)

var differentialPattern = regexp.MustCompile(`^(.+)Differential(\d+)\.csv$`)

// DifferentialFile is a differential export found on disk.
type DifferentialFile struct {
	Name  string
	Index int
	// Sequence orders files without manifest timestamps: Data Hub lists
	// previous exports newest first, so a lower index gets a higher sequence.
	Sequence int
}

// DiscoverDifferentials lists the differential files of kind in dir, sorted
// by index.
func DiscoverDifferentials(dir string, kind Kind) ([]DifferentialFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.WrapIO("read", dir, err)
	}

	var files []DifferentialFile
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		m := differentialPattern.FindStringSubmatch(e.Name())
		if m == nil || m[1] != kind.Base {
			continue
		}
		n, err := strconv.Atoi(m[2])
		if err != nil {
			continue
		}
		files = append(files, DifferentialFile{Name: e.Name(), Index: n})
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Index < files[j].Index })
	if len(files) > 0 {
		last := files[len(files)-1].Index
		for i := range files {
			files[i].Sequence = last - files[i].Index
		}
	}
	return files, nil
}
