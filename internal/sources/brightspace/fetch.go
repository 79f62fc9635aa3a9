package brightspace

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/agentstation/rostersync/pkg/constants"
	"github.com/agentstation/rostersync/pkg/dataset"
	"github.com/agentstation/rostersync/pkg/errors"
	"github.com/agentstation/rostersync/pkg/logging"
)

// FetchResult lists what a fetch wrote.
type FetchResult struct {
	Dir      string
	Manifest *dataset.Manifest
}

// Fetch downloads the current full export of every required dataset into
// dir, plus each differential export created after it, extracts them as
// <Base>.csv and <Base>Differential<i>.csv, and records their creation
// times in the directory manifest. Downloads run one after another; the
// first failure aborts the fetch.
func (c *Client) Fetch(ctx context.Context, session *Session, dir string) (*FetchResult, error) {
	logger := logging.FromContext(ctx)

	if err := os.MkdirAll(dir, constants.DirPermissions); err != nil {
		return nil, errors.WrapIO("create", dir, err)
	}

	listing, err := c.ListDatasets(ctx, session)
	if err != nil {
		return nil, err
	}

	manifest := &dataset.Manifest{}
	for _, kind := range dataset.Kinds() {
		full, ok := listing.Get(kind.HubName)
		if !ok {
			return nil, errors.NewNotFoundError("dataset", kind.HubName)
		}
		latest, ok := full.Latest()
		if !ok {
			return nil, errors.NewNotFoundError("dataset export", kind.HubName)
		}

		logger.Info().Str("dataset", kind.HubName).Msg("Downloading full export")
		files, err := c.fetchArchive(ctx, session, latest.DownloadLink, dir, kind.Base+".zip", nil)
		if err != nil {
			return nil, err
		}
		for _, f := range files {
			manifest.Add(dataset.ManifestEntry{Dataset: kind.HubName, File: f, CreatedAt: latest.CreatedAt, Full: true})
		}

		diffs, ok := listing.Differential(kind.HubName)
		if !ok {
			continue
		}
		for i, export := range diffs.Exports {
			if !export.CreatedAt.Time.After(latest.CreatedAt.Time) {
				continue
			}

			logger.Info().
				Str("dataset", kind.HubName).
				Int("index", i).
				Time("created_at", export.CreatedAt.Time).
				Msg("Downloading differential export")

			archive := kind.Base + "Differential_" + strconv.Itoa(i) + ".zip"
			files, err := c.fetchArchive(ctx, session, export.DownloadLink, dir, archive, differentialName(i))
			if err != nil {
				return nil, err
			}
			for _, f := range files {
				manifest.Add(dataset.ManifestEntry{Dataset: kind.HubName, File: f, CreatedAt: export.CreatedAt})
			}
		}
	}

	if err := dataset.WriteManifest(dir, manifest); err != nil {
		return nil, err
	}

	logger.Info().Str("dir", dir).Int("files", len(manifest.Files)).Msg("Fetch completed")
	return &FetchResult{Dir: dir, Manifest: manifest}, nil
}

// fetchArchive downloads one archive, extracts it into dir and removes it.
func (c *Client) fetchArchive(ctx context.Context, session *Session, link, dir, archive string, rename func(string) string) ([]string, error) {
	path := filepath.Join(dir, archive)
	if _, err := c.DownloadFile(ctx, session, link, path); err != nil {
		return nil, err
	}
	files, err := Extract(path, dir, rename)
	if err != nil {
		return nil, err
	}
	if err := os.Remove(path); err != nil {
		logging.FromContext(ctx).Warn().Err(err).Str("file", path).Msg("Could not remove archive")
	}
	return files, nil
}

// differentialName renames Users.csv to UsersDifferential<i>.csv.
func differentialName(i int) func(string) string {
	return func(name string) string {
		ext := filepath.Ext(name)
		return strings.TrimSuffix(name, ext) + "Differential" + strconv.Itoa(i) + ext
	}
}
