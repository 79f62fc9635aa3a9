// Package projection maps the reconciled Brightspace records that fall inside
// a resolved scope onto Pronto's bulk import schema: users, memberships,
// categories and groups.
package projection

import (
	"github.com/agentstation/rostersync/pkg/constants"
	"github.com/agentstation/rostersync/pkg/records"
	"github.com/agentstation/rostersync/pkg/table"
)

// Output file names.
const (
	UsersFile       = "users.csv"
	MembershipsFile = "memberships.csv"
	CategoriesFile  = "categories.csv"
	GroupsFile      = "groups.csv"
)

// Output headers.
var (
	UsersHeader       = []string{"external_id", "first_name", "last_name", "email", "role", "status"}
	MembershipsHeader = []string{"group_external_id", "user_external_id", "role", "status"}
	CategoriesHeader  = []string{"external_id", "title", "status"}
	GroupsHeader      = []string{"category_external_id", "external_id", "title", "status"}
)

// Constant column values.
const (
	StatusActive = "active"
	RoleUser     = "user"
	RoleMember   = "member"
	RoleOwner    = "owner"
)

// Scope is the set of courses and users selected for projection.
type Scope struct {
	courses map[string]bool
	users   map[string]bool

	CourseIDs []string
	UserIDs   []string
}

// NewScope builds a scope from ordered id lists. Duplicates are dropped.
func NewScope(courseIDs, userIDs []string) Scope {
	s := Scope{courses: make(map[string]bool), users: make(map[string]bool)}
	for _, id := range courseIDs {
		if !s.courses[id] {
			s.courses[id] = true
			s.CourseIDs = append(s.CourseIDs, id)
		}
	}
	for _, id := range userIDs {
		if !s.users[id] {
			s.users[id] = true
			s.UserIDs = append(s.UserIDs, id)
		}
	}
	return s
}

// HasCourse reports whether the org unit id is in scope.
func (s Scope) HasCourse(id string) bool {
	return s.courses[id]
}

// HasUser reports whether the user id is in scope.
func (s Scope) HasUser(id string) bool {
	return s.users[id]
}

// ScopeUsers returns the ids of users enrolled in any of the courses, in
// enrollment table order and without duplicates.
func ScopeUsers(enrollments []records.Enrollment, courseIDs []string) []string {
	courses := make(map[string]bool, len(courseIDs))
	for _, id := range courseIDs {
		courses[id] = true
	}

	seen := make(map[string]bool)
	var users []string
	for _, e := range enrollments {
		if courses[e.OrgUnitID] && !seen[e.UserID] {
			seen[e.UserID] = true
			users = append(users, e.UserID)
		}
	}
	return users
}

// Options tune the projection.
type Options struct {
	// SystemUser is the user name excluded from the users output.
	SystemUser string
}

// DefaultOptions returns the options used by the CLI when nothing is configured.
func DefaultOptions() Options {
	return Options{SystemUser: constants.DefaultSystemUser}
}

// Input is the reconciled record set a projection reads from.
type Input struct {
	Users       []records.User
	OrgUnits    []records.OrgUnit
	Enrollments []records.Enrollment
}

// Output is the four Pronto tables. Fields are already escaped, so the
// tables must be written with Table.WriteRaw.
type Output struct {
	Users       *table.Table
	Memberships *table.Table
	Categories  *table.Table
	Groups      *table.Table
}

// Tables returns the output tables in write order.
func (o Output) Tables() []*table.Table {
	return []*table.Table{o.Users, o.Memberships, o.Categories, o.Groups}
}

// Project runs all projections over in.
func Project(in Input, scope Scope, opts Options) Output {
	categories, groups := Categories(in.OrgUnits, scope)
	return Output{
		Users:       Users(in.Users, scope, opts),
		Memberships: Memberships(in.Enrollments, scope),
		Categories:  categories,
		Groups:      groups,
	}
}

// Users projects users in scope, skipping the system account.
func Users(users []records.User, scope Scope, opts Options) *table.Table {
	out := table.New(UsersFile, UsersHeader)
	for _, u := range users {
		if !scope.HasUser(u.ID) || u.UserName == opts.SystemUser {
			continue
		}
		out.Rows = append(out.Rows, []string{
			u.ID,
			Escape(u.FirstName),
			Escape(u.LastName),
			Escape(u.ExternalEmail),
			RoleUser,
			StatusActive,
		})
	}
	return out
}

// Memberships projects enrollments whose user and course are both in scope.
func Memberships(enrollments []records.Enrollment, scope Scope) *table.Table {
	out := table.New(MembershipsFile, MembershipsHeader)
	for _, e := range enrollments {
		if !scope.HasUser(e.UserID) || !scope.HasCourse(e.OrgUnitID) {
			continue
		}
		out.Rows = append(out.Rows, []string{e.OrgUnitID, e.UserID, MembershipRole(e.RoleName), StatusActive})
	}
	return out
}

// MembershipRole collapses Brightspace roles: learners become members, every
// other role (instructor, designer, facilitator, administrator...) an owner.
func MembershipRole(roleName string) string {
	if roleName == constants.LearnerRole {
		return RoleMember
	}
	return RoleOwner
}

// Categories projects each course in scope to one category and one group
// sharing the course's id.
func Categories(units []records.OrgUnit, scope Scope) (categories, groups *table.Table) {
	categories = table.New(CategoriesFile, CategoriesHeader)
	groups = table.New(GroupsFile, GroupsHeader)
	for _, u := range units {
		if !scope.HasCourse(u.ID) {
			continue
		}
		title := Escape(u.Name)
		categories.Rows = append(categories.Rows, []string{u.ID, title, StatusActive})
		groups.Rows = append(groups.Rows, []string{u.ID, u.ID, title, StatusActive})
	}
	return categories, groups
}
