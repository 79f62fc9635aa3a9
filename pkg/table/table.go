// Package table holds the in-memory tabular model shared by every stage of a
// run, its CSV codec, and the snapshot/differential merge engine.
//
// A Table is a header plus data rows of string fields. Tables are treated as
// immutable once produced: stages that need a different table build a new one.
package table

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/agentstation/rostersync/pkg/constants"
	"github.com/agentstation/rostersync/pkg/errors"
)

// utf8BOM is stripped from the start of input files exported on Windows.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Table is a header row followed by data rows.
type Table struct {
	// Name identifies the table in logs and errors, usually the file base name.
	Name   string
	Header []string
	Rows   [][]string
}

// New creates a table with the given header and rows.
func New(name string, header []string, rows ...[]string) *Table {
	return &Table{Name: name, Header: header, Rows: rows}
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// Clone returns a copy whose row slices can be reordered without touching t.
// Field slices are shared since rows are never mutated in place.
func (t *Table) Clone() *Table {
	rows := make([][]string, len(t.Rows))
	copy(rows, t.Rows)
	header := make([]string, len(t.Header))
	copy(header, t.Header)
	return &Table{Name: t.Name, Header: header, Rows: rows}
}

// Read decodes a comma-separated table from r. The first record is the header.
// Records may have differing field counts; width checks belong to the record decoders.
func Read(r io.Reader, name string) (*Table, error) {
	br := bufio.NewReader(r)
	if prefix, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(prefix, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}

	reader := csv.NewReader(br)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, errors.NewParseError("csv", name, "missing header row", nil)
	}
	if err != nil {
		return nil, csvParseError(name, err)
	}

	t := &Table{Name: name, Header: header}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, csvParseError(name, err)
		}
		t.Rows = append(t.Rows, record)
	}
	return t, nil
}

// ReadFile reads a table from path, naming it after the file.
func ReadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.WrapIO("open", path, err)
	}
	defer func() { _ = f.Close() }()

	return Read(f, filepath.Base(path))
}

// Write encodes the table with standard CSV quoting.
func (t *Table) Write(w io.Writer) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(t.Header); err != nil {
		return err
	}
	if err := writer.WriteAll(t.Rows); err != nil {
		return err
	}
	return writer.Error()
}

// WriteRaw writes every row as comma-joined fields followed by a newline
// without any quoting. Callers must have escaped free-text fields already.
func (t *Table) WriteRaw(w io.Writer) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(strings.Join(t.Header, ",") + "\n"); err != nil {
		return err
	}
	for _, row := range t.Rows {
		if _, err := bw.WriteString(strings.Join(row, ",") + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteFile writes the table to path through a temporary file in the same
// directory, so readers never observe a half-written table.
func (t *Table) WriteFile(path string, raw bool) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return errors.WrapIO("create", path, err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if raw {
		err = t.WriteRaw(tmp)
	} else {
		err = t.Write(tmp)
	}
	if err != nil {
		_ = tmp.Close()
		return errors.WrapIO("write", path, err)
	}
	if err := tmp.Close(); err != nil {
		return errors.WrapIO("close", path, err)
	}
	if err := os.Chmod(tmpName, constants.FilePermissions); err != nil {
		return errors.WrapIO("chmod", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return errors.WrapIO("rename", path, err)
	}
	return nil
}

// csvParseError converts an encoding/csv error into a ParseError with its line.
func csvParseError(name string, err error) error {
	pe := errors.NewParseError("csv", name, err.Error(), err)
	var csvErr *csv.ParseError
	if errors.As(err, &csvErr) {
		pe.Line = csvErr.Line
		pe.Message = csvErr.Err.Error()
	}
	return pe
}
