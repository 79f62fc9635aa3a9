package projection_test

import (
	"encoding/csv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/rostersync/pkg/projection"
	"github.com/agentstation/rostersync/pkg/records"
)

func TestEscape(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Biology", "Biology"},
		{"", ""},
		{"Math, Advanced", `"Math, Advanced"`},
		{`Say "hi"`, `"Say ""hi"""`},
		{`a "b", c`, `"a ""b"", c"`},
		{"two\nlines", "\"two\nlines\""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, projection.Escape(tt.in), "Escape(%q)", tt.in)
	}
}

func TestEscapeRoundTrip(t *testing.T) {
	// encoding/csv folds CR LF inside quoted fields, so carriage returns are
	// left out of the sample.
	inputs := []string{
		"", "plain", " leading space", "trailing ", ",", `"`, `""`, `,"`,
		"a,b,c", `he said "no"`, "line\nbreak", `"quoted, with comma"`, "ünïcödé, ok",
	}
	for _, s := range inputs {
		line := "x," + projection.Escape(s) + ",y\n"
		record, err := csv.NewReader(strings.NewReader(line)).Read()
		require.NoError(t, err, "line %q", line)
		require.Len(t, record, 3, "line %q", line)
		assert.Equal(t, s, record[1])
	}
}

func TestScopeUsers(t *testing.T) {
	enrollments := []records.Enrollment{
		{OrgUnitID: "10", UserID: "u2"},
		{OrgUnitID: "11", UserID: "u1"},
		{OrgUnitID: "10", UserID: "u1"},
		{OrgUnitID: "99", UserID: "u9"},
		{OrgUnitID: "11", UserID: "u2"},
	}

	assert.Equal(t, []string{"u2", "u1"}, projection.ScopeUsers(enrollments, []string{"10", "11"}))
	assert.Empty(t, projection.ScopeUsers(enrollments, nil))
}

func TestNewScopeDropsDuplicates(t *testing.T) {
	s := projection.NewScope([]string{"10", "10", "11"}, []string{"u1", "u1"})
	assert.Equal(t, []string{"10", "11"}, s.CourseIDs)
	assert.Equal(t, []string{"u1"}, s.UserIDs)
	assert.True(t, s.HasCourse("11"))
	assert.False(t, s.HasUser("u2"))
}

func TestMembershipRole(t *testing.T) {
	assert.Equal(t, projection.RoleMember, projection.MembershipRole("Learner"))
	for _, role := range []string{"Instructor", "Designer", "Facilitator", "Administrator", "learner", ""} {
		assert.Equal(t, projection.RoleOwner, projection.MembershipRole(role), role)
	}
}

func TestProject(t *testing.T) {
	in := projection.Input{
		Users: []records.User{
			{ID: "u0", UserName: "System", FirstName: "System", LastName: "Account"},
			{ID: "u1", UserName: "jdoe", FirstName: "Jane", LastName: "Doe, Jr.", ExternalEmail: "jane@example.edu"},
			{ID: "u2", UserName: "prof", FirstName: `Al "Doc"`, LastName: "Smith", ExternalEmail: "al@example.edu"},
			{ID: "u3", UserName: "out", FirstName: "Out", LastName: "Side"},
		},
		OrgUnits: []records.OrgUnit{
			{ID: "1", Type: "Department", Name: "Science"},
			{ID: "10", Type: "Course Offering", Name: "Biology, Intro"},
			{ID: "11", Type: "Course Offering", Name: "Chemistry"},
		},
		Enrollments: []records.Enrollment{
			{OrgUnitID: "10", UserID: "u1", RoleName: "Learner"},
			{OrgUnitID: "10", UserID: "u2", RoleName: "Instructor"},
			{OrgUnitID: "10", UserID: "u0", RoleName: "Administrator"},
			{OrgUnitID: "11", UserID: "u3", RoleName: "Learner"},
			{OrgUnitID: "1", UserID: "u1", RoleName: "Designer"},
		},
	}
	courses := []string{"10"}
	scope := projection.NewScope(courses, projection.ScopeUsers(in.Enrollments, courses))

	out := projection.Project(in, scope, projection.DefaultOptions())

	assert.Equal(t, projection.UsersHeader, out.Users.Header)
	assert.Equal(t, [][]string{
		{"u1", "Jane", `"Doe, Jr."`, "jane@example.edu", "user", "active"},
		{"u2", `"Al ""Doc"""`, "Smith", "al@example.edu", "user", "active"},
	}, out.Users.Rows)

	// the system account keeps its membership row
	assert.Equal(t, [][]string{
		{"10", "u1", "member", "active"},
		{"10", "u2", "owner", "active"},
		{"10", "u0", "owner", "active"},
	}, out.Memberships.Rows)

	assert.Equal(t, [][]string{{"10", `"Biology, Intro"`, "active"}}, out.Categories.Rows)
	assert.Equal(t, [][]string{{"10", "10", `"Biology, Intro"`, "active"}}, out.Groups.Rows)

	names := []string{}
	for _, tbl := range out.Tables() {
		names = append(names, tbl.Name)
	}
	assert.Equal(t, []string{"users.csv", "memberships.csv", "categories.csv", "groups.csv"}, names)
}

func TestUsersCustomSystemUser(t *testing.T) {
	users := []records.User{{ID: "u1", UserName: "svc"}, {ID: "u2", UserName: "System"}}
	scope := projection.NewScope(nil, []string{"u1", "u2"})

	out := projection.Users(users, scope, projection.Options{SystemUser: "svc"})
	require.Len(t, out.Rows, 1)
	assert.Equal(t, "u2", out.Rows[0][0])
}
