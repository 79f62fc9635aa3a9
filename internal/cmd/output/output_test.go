package output

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/rostersync/pkg/errors"
	"github.com/agentstation/rostersync/pkg/pipeline"
	"github.com/agentstation/rostersync/pkg/records"
)

func TestParseFormat(t *testing.T) {
	for _, s := range []string{"table", "JSON", "yaml", "wide", ""} {
		_, err := ParseFormat(s)
		assert.NoError(t, err, s)
	}
	_, err := ParseFormat("csv")
	assert.Error(t, err)
}

func TestDetectFormat(t *testing.T) {
	assert.Equal(t, FormatYAML, DetectFormat("YAML", &bytes.Buffer{}))
	assert.Equal(t, FormatJSON, DetectFormat("", &bytes.Buffer{}))
}

func TestFormatters(t *testing.T) {
	courses := []records.OrgUnit{{ID: "2", Code: "BIO101", Name: "Biology", Organization: "OSUN"}}

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, NewFormatter(FormatJSON).Format(&buf, courses))
		assert.Contains(t, buf.String(), `"code": "BIO101"`)
	})

	t.Run("yaml", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, NewFormatter(FormatYAML).Format(&buf, courses))
		assert.Contains(t, buf.String(), "code: BIO101")
	})

	t.Run("table", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, NewFormatter(FormatTable).Format(&buf, CoursesData(courses, false)))
		out := buf.String()
		assert.Contains(t, out, "BIO101")
		assert.Contains(t, out, "Biology")
	})

	t.Run("table from structs", func(t *testing.T) {
		var buf bytes.Buffer
		results := []pipeline.MergeResult{{Dataset: "Users", File: "Users.csv", MergedRows: 3}}
		require.NoError(t, NewFormatter(FormatTable).Format(&buf, results))
		assert.Contains(t, strings.ToUpper(buf.String()), "MERGED ROWS")
	})
}

func TestCoursesDataWide(t *testing.T) {
	d := CoursesData([]records.OrgUnit{{ID: "2", Type: "Course Offering"}}, true)
	assert.Len(t, d.Headers, 8)
	assert.Equal(t, "Course Offering", d.Rows[0][4])
}

func TestWriteCandidates(t *testing.T) {
	a := records.OrgUnit{ID: "1", Name: "Math", Code: "MATH-A"}
	b := records.OrgUnit{ID: "2", Name: "Math", Code: "MATH-B, old"}
	err := errors.NewUnitAmbiguousError("Math", [][]string{a.Fields(), b.Fields()})

	var buf bytes.Buffer
	require.NoError(t, WriteCandidates(&buf, err))

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "OrgUnitId,Organization,Type,Name,Code"))
	assert.True(t, strings.HasPrefix(lines[2], `2,,,Math,"MATH-B, old"`))
}

func TestReportError(t *testing.T) {
	var buf bytes.Buffer
	ReportError(&buf, errors.NewUnitNotFoundError("Physics"))
	assert.Empty(t, buf.String())

	wrapped := fmt.Errorf("resolve: %w", errors.NewUnitAmbiguousError("Math", [][]string{{"1"}, {"2"}}))
	ReportError(&buf, wrapped)
	assert.Equal(t, 3, strings.Count(buf.String(), "\n"))
}
