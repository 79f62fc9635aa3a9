package dataset

import (
	"os"
	"path/filepath"

	"github.com/agentstation/utc"
	"github.com/goccy/go-yaml"

	"github.com/agentstation/rostersync/pkg/constants"
	"github.com/agentstation/rostersync/pkg/errors"
)

// Manifest records when each file of a download was created on Data Hub.
type Manifest struct {
	Files []ManifestEntry `json:"files" yaml:"files"`
}

// ManifestEntry describes one extracted file.
type ManifestEntry struct {
	Dataset   string   `json:"dataset" yaml:"dataset"`
	File      string   `json:"file" yaml:"file"`
	CreatedAt utc.Time `json:"created_at" yaml:"created_at"`
	Full      bool     `json:"full,omitempty" yaml:"full,omitempty"`
}

// Lookup returns the entry for file.
func (m *Manifest) Lookup(file string) (ManifestEntry, bool) {
	if m == nil {
		return ManifestEntry{}, false
	}
	for _, e := range m.Files {
		if e.File == file {
			return e, true
		}
	}
	return ManifestEntry{}, false
}

// Add appends an entry, replacing any earlier entry for the same file.
func (m *Manifest) Add(entry ManifestEntry) {
	for i, e := range m.Files {
		if e.File == entry.File {
			m.Files[i] = entry
			return
		}
	}
	m.Files = append(m.Files, entry)
}

// ReadManifest loads dir's manifest. A directory without one yields an empty
// manifest.
func ReadManifest(dir string) (*Manifest, error) {
	path := filepath.Join(dir, constants.ManifestFile)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Manifest{}, nil
		}
		return nil, errors.WrapIO("read", path, err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, errors.WrapParse("yaml", path, err)
	}
	return &m, nil
}

// WriteManifest stores m in dir.
func WriteManifest(dir string, m *Manifest) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return errors.WrapParse("yaml", constants.ManifestFile, err)
	}
	path := filepath.Join(dir, constants.ManifestFile)
	if err := os.WriteFile(path, data, constants.FilePermissions); err != nil {
		return errors.WrapIO("write", path, err)
	}
	return nil
}
