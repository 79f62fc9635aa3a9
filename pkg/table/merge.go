package table

import (
	"sort"
	"strconv"
	"strings"

	"github.com/agentstation/utc"

	"github.com/agentstation/rostersync/pkg/errors"
)

// Differential is an incremental export of the same shape as its baseline.
// CreatedAt is the export's recency; Sequence breaks ties between exports
// created at the same instant, higher meaning more recent.
type Differential struct {
	Table     *Table
	CreatedAt utc.Time
	Sequence  int
}

// SortDifferentials returns a copy of diffs ordered from lowest to highest
// precedence, so applying them in order lets the most recent export win.
func SortDifferentials(diffs []Differential) []Differential {
	sorted := make([]Differential, len(diffs))
	copy(sorted, diffs)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if !a.CreatedAt.Time.Equal(b.CreatedAt.Time) {
			return a.CreatedAt.Time.Before(b.CreatedAt.Time)
		}
		return a.Sequence < b.Sequence
	})
	return sorted
}

// Key returns the composite key of row: its first width fields, each length
// prefixed so that ("a,b","c") and ("a","b,c") never collide.
func Key(row []string, width int) string {
	var sb strings.Builder
	for _, field := range row[:width] {
		sb.WriteString(strconv.Itoa(len(field)))
		sb.WriteByte(':')
		sb.WriteString(field)
	}
	return sb.String()
}

// Merge applies diffs to baseline as upserts keyed by the first keyWidth
// fields and returns a new table. Differentials are applied in ascending
// precedence (see SortDifferentials); every row of a differential replaces
// all rows sharing its key, so the last write for a key wins, including
// between duplicate keys inside one differential. Keys no differential
// touches keep their baseline row and position. Neither input is modified.
func Merge(baseline *Table, diffs []Differential, keyWidth int) (*Table, error) {
	if baseline == nil {
		return nil, errors.NewValidationError("baseline", nil, "baseline table is required")
	}
	if keyWidth < 1 {
		return nil, errors.NewValidationError("key_width", keyWidth, "must be at least 1")
	}

	m := newRowMap(len(baseline.Rows))
	for i, row := range baseline.Rows {
		if len(row) < keyWidth {
			return nil, shortRowError(baseline.Name, i, keyWidth)
		}
		m.append(Key(row, keyWidth), row)
	}

	for _, diff := range SortDifferentials(diffs) {
		if diff.Table == nil {
			continue
		}
		for i, row := range diff.Table.Rows {
			if len(row) < keyWidth {
				return nil, shortRowError(diff.Table.Name, i, keyWidth)
			}
			m.upsert(Key(row, keyWidth), row)
		}
	}

	merged := baseline.Clone()
	merged.Rows = m.rows()

	if err := VerifyUniqueKeys(merged, keyWidth); err != nil {
		return nil, err
	}
	return merged, nil
}

// VerifyUniqueKeys reports a MergeKeyCollisionError for the first composite
// key that appears on more than one row.
func VerifyUniqueKeys(t *Table, keyWidth int) error {
	counts := make(map[string]int, len(t.Rows))
	for _, row := range t.Rows {
		if len(row) < keyWidth {
			continue
		}
		counts[Key(row, keyWidth)]++
	}
	for _, row := range t.Rows {
		if len(row) < keyWidth {
			continue
		}
		if n := counts[Key(row, keyWidth)]; n > 1 {
			return &errors.MergeKeyCollisionError{Dataset: t.Name, Key: row[:keyWidth], Count: n}
		}
	}
	return nil
}

// rowMap is an insertion-ordered multimap of rows. Replaced rows are
// tombstoned rather than removed so positions stay stable.
type rowMap struct {
	entries []rowEntry
	index   map[string][]int
}

type rowEntry struct {
	row  []string
	live bool
}

func newRowMap(capacity int) *rowMap {
	return &rowMap{
		entries: make([]rowEntry, 0, capacity),
		index:   make(map[string][]int, capacity),
	}
}

func (m *rowMap) append(key string, row []string) {
	m.index[key] = append(m.index[key], len(m.entries))
	m.entries = append(m.entries, rowEntry{row: row, live: true})
}

func (m *rowMap) upsert(key string, row []string) {
	for _, i := range m.index[key] {
		m.entries[i].live = false
	}
	m.index[key] = []int{len(m.entries)}
	m.entries = append(m.entries, rowEntry{row: row, live: true})
}

func (m *rowMap) rows() [][]string {
	out := make([][]string, 0, len(m.index))
	for _, e := range m.entries {
		if e.live {
			out = append(out, e.row)
		}
	}
	return out
}

func shortRowError(name string, rowIndex, keyWidth int) error {
	return &errors.ParseError{
		Format:  "csv",
		File:    name,
		Line:    rowIndex + 2,
		Message: "row has fewer fields than the key width " + strconv.Itoa(keyWidth),
	}
}
