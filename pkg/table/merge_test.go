package table_test

import (
	"testing"
	"time"

	"github.com/agentstation/utc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/rostersync/pkg/errors"
	"github.com/agentstation/rostersync/pkg/table"
)

var usersHeader = []string{"UserId", "UserName", "FirstName"}

func at(day int) utc.Time {
	return utc.New(time.Date(2024, 3, day, 12, 0, 0, 0, time.UTC))
}

func diff(day int, rows ...[]string) table.Differential {
	return table.Differential{
		Table:     table.New("UsersDifferential.csv", usersHeader, rows...),
		CreatedAt: at(day),
	}
}

func TestMergeNoDifferentialsIsIdentity(t *testing.T) {
	baseline := table.New("Users.csv", usersHeader,
		[]string{"1", "ann", "Ann"},
		[]string{"2", "bob", "Bob"},
	)

	merged, err := table.Merge(baseline, nil, 1)
	require.NoError(t, err)

	assert.Equal(t, baseline.Header, merged.Header)
	assert.Equal(t, baseline.Rows, merged.Rows)
	assert.NotSame(t, baseline, merged)
}

func TestMergePrecedence(t *testing.T) {
	baseline := table.New("Users.csv", usersHeader, []string{"K", "k", "v0"})
	older := diff(1, []string{"K", "k", "v1"})
	newer := diff(2, []string{"K", "k", "v2"})

	tests := []struct {
		name  string
		diffs []table.Differential
	}{
		{"ascending input", []table.Differential{older, newer}},
		{"descending input", []table.Differential{newer, older}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			merged, err := table.Merge(baseline, tt.diffs, 1)
			require.NoError(t, err)
			require.Len(t, merged.Rows, 1)
			assert.Equal(t, "v2", merged.Rows[0][2])
		})
	}
}

func TestMergeSequenceBreaksTies(t *testing.T) {
	baseline := table.New("Users.csv", usersHeader, []string{"K", "k", "v0"})
	first := diff(1, []string{"K", "k", "seq0"})
	second := diff(1, []string{"K", "k", "seq1"})
	second.Sequence = 1

	merged, err := table.Merge(baseline, []table.Differential{second, first}, 1)
	require.NoError(t, err)
	assert.Equal(t, "seq1", merged.Rows[0][2])
}

func TestMergeIdempotent(t *testing.T) {
	baseline := table.New("Users.csv", usersHeader,
		[]string{"1", "ann", "Ann"},
		[]string{"2", "bob", "Bob"},
	)
	d := diff(1, []string{"2", "bob", "Robert"}, []string{"3", "cy", "Cy"})

	once, err := table.Merge(baseline, []table.Differential{d}, 1)
	require.NoError(t, err)
	twice, err := table.Merge(baseline, []table.Differential{d, d}, 1)
	require.NoError(t, err)
	again, err := table.Merge(once, []table.Differential{d}, 1)
	require.NoError(t, err)

	assert.Equal(t, once.Rows, twice.Rows)
	assert.Equal(t, once.Rows, again.Rows)
}

func TestMergeUpsertOrdering(t *testing.T) {
	baseline := table.New("Users.csv", usersHeader,
		[]string{"1", "ann", "Ann"},
		[]string{"2", "bob", "Bob"},
		[]string{"3", "cy", "Cy"},
	)
	d := diff(1, []string{"2", "bob", "Robert"}, []string{"4", "dee", "Dee"})

	merged, err := table.Merge(baseline, []table.Differential{d}, 1)
	require.NoError(t, err)

	assert.Equal(t, [][]string{
		{"1", "ann", "Ann"},
		{"3", "cy", "Cy"},
		{"2", "bob", "Robert"},
		{"4", "dee", "Dee"},
	}, merged.Rows)
	// inputs untouched
	assert.Equal(t, "Bob", baseline.Rows[1][2])
}

func TestMergeDuplicateKeysWithinDifferential(t *testing.T) {
	baseline := table.New("Users.csv", usersHeader, []string{"1", "ann", "Ann"})
	d := diff(1,
		[]string{"1", "ann", "first"},
		[]string{"1", "ann", "second"},
	)

	merged, err := table.Merge(baseline, []table.Differential{d}, 1)
	require.NoError(t, err)
	require.Len(t, merged.Rows, 1)
	assert.Equal(t, "second", merged.Rows[0][2])
}

func TestMergeCompositeKey(t *testing.T) {
	header := []string{"OrgUnitId", "UserId", "RoleName"}
	baseline := table.New("UserEnrollments.csv", header,
		[]string{"10", "u1", "Learner"},
		[]string{"10", "u2", "Learner"},
		[]string{"11", "u1", "Learner"},
	)
	d := table.Differential{
		Table:     table.New("UserEnrollmentsDifferential.csv", header, []string{"10", "u1", "Instructor"}),
		CreatedAt: at(1),
	}

	merged, err := table.Merge(baseline, []table.Differential{d}, 2)
	require.NoError(t, err)
	assert.Len(t, merged.Rows, 3)
	assert.Contains(t, merged.Rows, []string{"10", "u1", "Instructor"})
	assert.Contains(t, merged.Rows, []string{"11", "u1", "Learner"})
	assert.NotContains(t, merged.Rows, []string{"10", "u1", "Learner"})
	require.NoError(t, table.VerifyUniqueKeys(merged, 2))
}

func TestMergeKeyUniqueness(t *testing.T) {
	baseline := table.New("Users.csv", usersHeader, []string{"1", "a", "A"}, []string{"2", "b", "B"})
	diffs := []table.Differential{
		diff(3, []string{"1", "a", "A3"}, []string{"5", "e", "E"}),
		diff(1, []string{"2", "b", "B1"}, []string{"5", "e", "E1"}, []string{"5", "e", "E1b"}),
		diff(2, []string{"1", "a", "A2"}),
	}

	merged, err := table.Merge(baseline, diffs, 1)
	require.NoError(t, err)
	require.NoError(t, table.VerifyUniqueKeys(merged, 1))

	byKey := map[string]string{}
	for _, row := range merged.Rows {
		byKey[row[0]] = row[2]
	}
	assert.Equal(t, map[string]string{"1": "A3", "2": "B1", "5": "E"}, byKey)
}

func TestMergeMatchesLastWriteWinsMap(t *testing.T) {
	baseline := table.New("Users.csv", usersHeader, []string{"1", "a", "A"}, []string{"2", "b", "B"})
	diffs := []table.Differential{
		diff(2, []string{"2", "b", "B2"}, []string{"3", "c", "C2"}),
		diff(1, []string{"1", "a", "A1"}, []string{"3", "c", "C1"}),
	}

	expected := map[string][]string{}
	for _, row := range baseline.Rows {
		expected[row[0]] = row
	}
	for _, d := range table.SortDifferentials(diffs) {
		for _, row := range d.Table.Rows {
			expected[row[0]] = row
		}
	}

	merged, err := table.Merge(baseline, diffs, 1)
	require.NoError(t, err)
	require.Len(t, merged.Rows, len(expected))
	for _, row := range merged.Rows {
		assert.Equal(t, expected[row[0]], row)
	}
}

func TestMergeErrors(t *testing.T) {
	baseline := table.New("Users.csv", usersHeader, []string{"1", "a", "A"})

	t.Run("nil baseline", func(t *testing.T) {
		_, err := table.Merge(nil, nil, 1)
		assert.True(t, errors.IsValidationError(err))
	})

	t.Run("zero key width", func(t *testing.T) {
		_, err := table.Merge(baseline, nil, 0)
		assert.True(t, errors.IsValidationError(err))
	})

	t.Run("short differential row", func(t *testing.T) {
		d := table.Differential{Table: table.New("d.csv", usersHeader, []string{"1"}), CreatedAt: at(1)}
		_, err := table.Merge(baseline, []table.Differential{d}, 2)
		var pe *errors.ParseError
		require.ErrorAs(t, err, &pe)
		assert.Equal(t, "d.csv", pe.File)
		assert.Equal(t, 2, pe.Line)
	})

	t.Run("duplicate baseline key", func(t *testing.T) {
		dup := table.New("Users.csv", usersHeader, []string{"1", "a", "A"}, []string{"1", "a", "B"})
		_, err := table.Merge(dup, nil, 1)
		assert.True(t, errors.IsMergeKeyCollision(err))
	})
}

func TestKey(t *testing.T) {
	assert.NotEqual(t, table.Key([]string{"a,b", "c"}, 2), table.Key([]string{"a", "b,c"}, 2))
	assert.Equal(t, table.Key([]string{"1", "x"}, 1), table.Key([]string{"1", "y"}, 1))
}
