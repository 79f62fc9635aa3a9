package brightspace

import (
	"context"
	"fmt"

	"github.com/agentstation/utc"

	"github.com/agentstation/rostersync/internal/transport"
	"github.com/agentstation/rostersync/pkg/constants"
	"github.com/agentstation/rostersync/pkg/errors"
	"github.com/agentstation/rostersync/pkg/logging"
)

// differentialSuffix names the companion dataset holding a dataset's
// incremental exports in the Data Hub listing.
const differentialSuffix = " Differential"

type dataSetsPage struct {
	BrightspaceDataSets []dataSetEntry `json:"BrightspaceDataSets"`
	NextPageURL         *string        `json:"NextPageUrl"`
}

type dataSetEntry struct {
	Name             string         `json:"Name"`
	DownloadLink     string         `json:"DownloadLink"`
	CreatedDate      string         `json:"CreatedDate"`
	PreviousDataSets []dataSetEntry `json:"PreviousDataSets"`
}

// Export is one downloadable archive of a dataset.
type Export struct {
	DownloadLink string
	CreatedAt    utc.Time
}

// Dataset is a named Data Hub dataset. Exports[0] is the current export,
// followed by previous exports as listed by Data Hub.
type Dataset struct {
	Name    string
	Exports []Export
}

// Latest returns the current export.
func (d Dataset) Latest() (Export, bool) {
	if len(d.Exports) == 0 {
		return Export{}, false
	}
	return d.Exports[0], true
}

// Datasets indexes the listing by dataset name.
type Datasets map[string]Dataset

// Get returns the dataset called name.
func (ds Datasets) Get(name string) (Dataset, bool) {
	d, ok := ds[name]
	return d, ok
}

// Differential returns the companion differential dataset of name.
func (ds Datasets) Differential(name string) (Dataset, bool) {
	return ds.Get(name + differentialSuffix)
}

// ListDatasets reads every page of the Data Hub export listing.
func (c *Client) ListDatasets(ctx context.Context, session *Session) (Datasets, error) {
	logger := logging.FromContext(ctx)
	tc := c.api(session)

	next := fmt.Sprintf("%s/d2l/api/lp/%s/dataExport/bds", c.cfg.BaseURL, constants.DataHubAPIVersion)
	datasets := make(Datasets)
	pages := 0

	for next != "" {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		logger.Debug().Str("url", next).Msg("Reading dataset listing")
		resp, err := tc.Get(ctx, next)
		if err != nil {
			return nil, &errors.APIError{Service: Service, Endpoint: next, Message: "listing request failed", Err: err}
		}

		var page dataSetsPage
		if err := transport.DecodeResponse(resp, Service, &page); err != nil {
			return nil, err
		}
		pages++

		for _, entry := range page.BrightspaceDataSets {
			d, err := toDataset(entry)
			if err != nil {
				return nil, err
			}
			datasets[d.Name] = d
		}

		next = ""
		if page.NextPageURL != nil {
			next = *page.NextPageURL
		}
	}

	logger.Debug().Int("pages", pages).Int("datasets", len(datasets)).Msg("Listed Data Hub datasets")
	return datasets, nil
}

func toDataset(entry dataSetEntry) (Dataset, error) {
	d := Dataset{Name: entry.Name}
	all := append([]dataSetEntry{entry}, entry.PreviousDataSets...)
	for _, e := range all {
		created, err := utc.Parse(constants.CreatedDateLayout, e.CreatedDate)
		if err != nil {
			return Dataset{}, errors.NewParseError("json", entry.Name, "invalid CreatedDate "+e.CreatedDate, err)
		}
		d.Exports = append(d.Exports, Export{DownloadLink: e.DownloadLink, CreatedAt: created})
	}
	return d, nil
}
