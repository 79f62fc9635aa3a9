// Package records decodes Brightspace Data Hub tables into named record
// types, so column order is handled once at read time instead of at every
// call site.
package records

import (
	"strconv"

	"github.com/agentstation/rostersync/pkg/errors"
	"github.com/agentstation/rostersync/pkg/table"
)

// Record widths of the Data Hub exports.
const (
	OrgUnitWidth    = 14
	UserWidth       = 14
	EnrollmentWidth = 6
	EdgeWidth       = 2
)

// OrgUnitHeader names the OrgUnit columns in export order.
var OrgUnitHeader = []string{
	"OrgUnitId", "Organization", "Type", "Name", "Code", "StartDate", "EndDate",
	"IsActive", "CreatedDate", "IsDeleted", "DeletedDate", "RecycledDate", "Version",
	"OrgUnitTypeId",
}

// OrgUnit is a node of the organizational hierarchy.
type OrgUnit struct {
	ID           string `json:"id" yaml:"id"`
	Organization string `json:"organization" yaml:"organization"`
	Type         string `json:"type" yaml:"type"`
	Name         string `json:"name" yaml:"name"`
	Code         string `json:"code" yaml:"code"`
	StartDate    string `json:"start_date,omitempty" yaml:"start_date,omitempty"`
	EndDate      string `json:"end_date,omitempty" yaml:"end_date,omitempty"`
	IsActive     string `json:"is_active,omitempty" yaml:"is_active,omitempty"`
	CreatedDate  string `json:"created_date,omitempty" yaml:"created_date,omitempty"`
	IsDeleted    string `json:"is_deleted,omitempty" yaml:"is_deleted,omitempty"`
	DeletedDate  string `json:"deleted_date,omitempty" yaml:"deleted_date,omitempty"`
	RecycledDate string `json:"recycled_date,omitempty" yaml:"recycled_date,omitempty"`
	Version      string `json:"version,omitempty" yaml:"version,omitempty"`
	TypeID       string `json:"type_id,omitempty" yaml:"type_id,omitempty"`
}

// Fields returns the unit's fields in export order.
func (u OrgUnit) Fields() []string {
	return []string{
		u.ID, u.Organization, u.Type, u.Name, u.Code, u.StartDate, u.EndDate,
		u.IsActive, u.CreatedDate, u.IsDeleted, u.DeletedDate, u.RecycledDate, u.Version,
		u.TypeID,
	}
}

// FieldMap returns the unit's fields keyed by column name.
func (u OrgUnit) FieldMap() map[string]string {
	fields := u.Fields()
	m := make(map[string]string, len(fields))
	for i, name := range OrgUnitHeader {
		m[name] = fields[i]
	}
	return m
}

// User is a Brightspace user account.
type User struct {
	ID             string
	UserName       string
	ExternalID     string
	FirstName      string
	MiddleName     string
	LastName       string
	IsActive       string
	Organization   string
	ExternalEmail  string
	SignupDate     string
	FirstLoginDate string
	Version        string
	OrgRoleID      string
	LastAccessed   string
}

// Enrollment is a membership edge between a user and an org unit.
type Enrollment struct {
	OrgUnitID      string
	UserID         string
	RoleName       string
	EnrollmentDate string
	EnrollmentType string
	RoleID         string
}

// Edge is a parent to child link of the org unit hierarchy.
type Edge struct {
	ParentID string
	ChildID  string
}

// DecodeOrgUnits decodes an OrganizationalUnits table.
func DecodeOrgUnits(t *table.Table) ([]OrgUnit, error) {
	units := make([]OrgUnit, 0, t.Len())
	err := eachRow(t, OrgUnitWidth, func(f []string) {
		units = append(units, OrgUnit{
			ID: f[0], Organization: f[1], Type: f[2], Name: f[3], Code: f[4],
			StartDate: f[5], EndDate: f[6], IsActive: f[7], CreatedDate: f[8],
			IsDeleted: f[9], DeletedDate: f[10], RecycledDate: f[11], Version: f[12],
			TypeID: f[13],
		})
	})
	return units, err
}

// DecodeUsers decodes a Users table.
func DecodeUsers(t *table.Table) ([]User, error) {
	users := make([]User, 0, t.Len())
	err := eachRow(t, UserWidth, func(f []string) {
		users = append(users, User{
			ID: f[0], UserName: f[1], ExternalID: f[2], FirstName: f[3], MiddleName: f[4],
			LastName: f[5], IsActive: f[6], Organization: f[7], ExternalEmail: f[8],
			SignupDate: f[9], FirstLoginDate: f[10], Version: f[11], OrgRoleID: f[12],
			LastAccessed: f[13],
		})
	})
	return users, err
}

// DecodeEnrollments decodes a UserEnrollments table.
func DecodeEnrollments(t *table.Table) ([]Enrollment, error) {
	enrollments := make([]Enrollment, 0, t.Len())
	err := eachRow(t, EnrollmentWidth, func(f []string) {
		enrollments = append(enrollments, Enrollment{
			OrgUnitID: f[0], UserID: f[1], RoleName: f[2],
			EnrollmentDate: f[3], EnrollmentType: f[4], RoleID: f[5],
		})
	})
	return enrollments, err
}

// DecodeEdges decodes an OrganizationalUnitDescendants table.
func DecodeEdges(t *table.Table) ([]Edge, error) {
	edges := make([]Edge, 0, t.Len())
	err := eachRow(t, EdgeWidth, func(f []string) {
		edges = append(edges, Edge{ParentID: f[0], ChildID: f[1]})
	})
	return edges, err
}

func eachRow(t *table.Table, width int, fn func([]string)) error {
	if t == nil {
		return errors.NewValidationError("table", nil, "table is required")
	}
	for i, row := range t.Rows {
		if len(row) < width {
			return &errors.ParseError{
				Format:  "csv",
				File:    t.Name,
				Line:    i + 2,
				Message: "expected " + strconv.Itoa(width) + " fields, got " + strconv.Itoa(len(row)),
			}
		}
		fn(row)
	}
	return nil
}
