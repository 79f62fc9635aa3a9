package table_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/rostersync/pkg/errors"
	"github.com/agentstation/rostersync/pkg/table"
)

func TestRead(t *testing.T) {
	t.Run("header and quoted rows", func(t *testing.T) {
		input := "Id,Name\n1,\"Math, Advanced\"\n2,\"Say \"\"hi\"\"\"\n"
		tbl, err := table.Read(strings.NewReader(input), "OrganizationalUnits.csv")
		require.NoError(t, err)

		assert.Equal(t, "OrganizationalUnits.csv", tbl.Name)
		assert.Equal(t, []string{"Id", "Name"}, tbl.Header)
		assert.Equal(t, [][]string{{"1", "Math, Advanced"}, {"2", `Say "hi"`}}, tbl.Rows)
	})

	t.Run("strips byte order mark", func(t *testing.T) {
		input := "\xEF\xBB\xBFId,Name\n1,A\n"
		tbl, err := table.Read(strings.NewReader(input), "t.csv")
		require.NoError(t, err)
		assert.Equal(t, "Id", tbl.Header[0])
	})

	t.Run("ragged rows allowed", func(t *testing.T) {
		tbl, err := table.Read(strings.NewReader("a,b\n1\n1,2,3\n"), "t.csv")
		require.NoError(t, err)
		assert.Equal(t, 2, tbl.Len())
	})

	t.Run("empty input", func(t *testing.T) {
		_, err := table.Read(strings.NewReader(""), "empty.csv")
		var pe *errors.ParseError
		require.ErrorAs(t, err, &pe)
		assert.Equal(t, "empty.csv", pe.File)
	})

	t.Run("bad quoting reports line", func(t *testing.T) {
		_, err := table.Read(strings.NewReader("a,b\n1,2\n3,\"x\"y\n"), "bad.csv")
		var pe *errors.ParseError
		require.ErrorAs(t, err, &pe)
		assert.Equal(t, 3, pe.Line)
	})
}

func TestWriteRoundTrip(t *testing.T) {
	tbl := table.New("t.csv", []string{"Id", "Name"},
		[]string{"1", "plain"},
		[]string{"2", "with, comma"},
		[]string{"3", `with "quote"`},
		[]string{"4", "multi\nline"},
	)

	var buf bytes.Buffer
	require.NoError(t, tbl.Write(&buf))

	back, err := table.Read(&buf, "t.csv")
	require.NoError(t, err)
	assert.Equal(t, tbl.Header, back.Header)
	assert.Equal(t, tbl.Rows, back.Rows)
}

func TestWriteRaw(t *testing.T) {
	tbl := table.New("memberships.csv", []string{"group_external_id", "user_external_id", "role", "status"},
		[]string{"2", "u1", "member", "active"},
	)

	var buf bytes.Buffer
	require.NoError(t, tbl.WriteRaw(&buf))
	assert.Equal(t, "group_external_id,user_external_id,role,status\n2,u1,member,active\n", buf.String())
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Users.csv")
	require.NoError(t, os.WriteFile(path, []byte("old\n"), 0o644))

	tbl := table.New("Users.csv", []string{"Id"}, []string{"1"})
	require.NoError(t, tbl.WriteFile(path, false))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Id\n1\n", string(content))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary file should be renamed away")
}

func TestReadFileMissing(t *testing.T) {
	_, err := table.ReadFile(filepath.Join(t.TempDir(), "nope.csv"))
	var ioErr *errors.IOError
	assert.ErrorAs(t, err, &ioErr)
}
