package output

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/agentstation/rostersync/pkg/errors"
	"github.com/agentstation/rostersync/pkg/pipeline"
	"github.com/agentstation/rostersync/pkg/records"
)

// CoursesData renders selected courses. Wide adds dates and state columns.
func CoursesData(courses []records.OrgUnit, wide bool) Data {
	d := Data{Headers: []string{"ID", "Code", "Name", "Organization"}}
	if wide {
		d.Headers = append(d.Headers, "Type", "Start", "End", "Active")
	}
	for _, c := range courses {
		row := []string{c.ID, c.Code, c.Name, c.Organization}
		if wide {
			row = append(row, c.Type, c.StartDate, c.EndDate, c.IsActive)
		}
		d.Rows = append(d.Rows, row)
	}
	return d
}

// OutputsData renders the files of a run with their row counts.
func OutputsData(files []pipeline.OutputFile) Data {
	d := Data{
		Headers:         []string{"File", "Rows"},
		ColumnAlignment: []Align{AlignLeft, AlignRight},
	}
	for _, f := range files {
		d.Rows = append(d.Rows, []string{f.Name, strconv.Itoa(f.Rows)})
	}
	return d
}

// MergeData renders an in-place merge summary.
func MergeData(results []pipeline.MergeResult) Data {
	d := Data{
		Headers:         []string{"Dataset", "File", "Differentials", "Baseline Rows", "Merged Rows"},
		ColumnAlignment: []Align{AlignLeft, AlignLeft, AlignRight, AlignRight, AlignRight},
	}
	for _, r := range results {
		d.Rows = append(d.Rows, []string{
			r.Dataset,
			r.File,
			strconv.Itoa(r.Differentials),
			strconv.Itoa(r.BaselineRows),
			strconv.Itoa(r.MergedRows),
		})
	}
	return d
}

// WriteCandidates prints the org unit header and every candidate row of an
// ambiguous identifier, one comma separated line each, so the user can pick
// a unique code or id.
func WriteCandidates(w io.Writer, err *errors.UnitResolutionError) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(records.OrgUnitHeader); err != nil {
		return err
	}
	for _, c := range err.Candidates {
		if err := cw.Write(c); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReportError writes the diagnostics for err that the message alone does
// not carry: every candidate row of an ambiguous identifier.
func ReportError(w io.Writer, err error) {
	var re *errors.UnitResolutionError
	if !errors.As(err, &re) || re.Kind != errors.ResolutionMultiple {
		return
	}
	_ = WriteCandidates(w, re)
}

// Write renders tableData for table formats and raw for JSON and YAML.
func Write(w io.Writer, format Format, tableData Data, raw any) error {
	if format.IsTable() {
		return NewFormatter(format).Format(w, tableData)
	}
	return NewFormatter(format).Format(w, raw)
}
