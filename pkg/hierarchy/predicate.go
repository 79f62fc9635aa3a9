package hierarchy

import (
	"fmt"
	"strings"

	"github.com/google/cel-go/cel"

	"github.com/agentstation/rostersync/pkg/constants"
	"github.com/agentstation/rostersync/pkg/records"
)

// Predicate decides whether an org unit is a leaf of the expansion.
type Predicate interface {
	Match(unit records.OrgUnit) (bool, error)
}

// PredicateFunc adapts a function to Predicate.
type PredicateFunc func(unit records.OrgUnit) (bool, error)

// Match implements Predicate.
func (f PredicateFunc) Match(unit records.OrgUnit) (bool, error) {
	return f(unit)
}

// FieldPredicate matches units of one organization and type.
type FieldPredicate struct {
	Organization string
	Type         string
}

// CoursePredicate matches course offerings of the default organization.
func CoursePredicate() FieldPredicate {
	return FieldPredicate{
		Organization: constants.DefaultLeafOrganization,
		Type:         constants.DefaultLeafType,
	}
}

// Match implements Predicate.
func (p FieldPredicate) Match(unit records.OrgUnit) (bool, error) {
	return unit.Organization == p.Organization && unit.Type == p.Type, nil
}

// ExpressionPredicate evaluates a CEL expression against the unit, exposed
// as the string map variable `unit` keyed by column name, e.g.
//
//	unit.Type == "Course Offering" && unit.Code.startsWith("OSUN")
type ExpressionPredicate struct {
	expr    string
	program cel.Program
}

// NewExpressionPredicate compiles expr.
func NewExpressionPredicate(expr string) (*ExpressionPredicate, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil, fmt.Errorf("leaf expression is empty")
	}

	env, err := cel.NewEnv(cel.Variable("unit", cel.MapType(cel.StringType, cel.StringType)))
	if err != nil {
		return nil, fmt.Errorf("creating expression environment: %w", err)
	}
	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compiling leaf expression %q: %w", expr, issues.Err())
	}
	program, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("building leaf expression %q: %w", expr, err)
	}
	return &ExpressionPredicate{expr: expr, program: program}, nil
}

// String returns the source expression.
func (p *ExpressionPredicate) String() string {
	return p.expr
}

// Match implements Predicate.
func (p *ExpressionPredicate) Match(unit records.OrgUnit) (bool, error) {
	out, _, err := p.program.Eval(map[string]any{"unit": unit.FieldMap()})
	if err != nil {
		return false, fmt.Errorf("evaluating leaf expression: %w", err)
	}
	matched, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("leaf expression %q returned %T, want bool", p.expr, out.Value())
	}
	return matched, nil
}
