// Package hierarchy resolves user supplied org unit identifiers and expands
// them through the org unit descendant graph down to leaf units (courses).
package hierarchy

import (
	"context"

	"github.com/agentstation/rostersync/pkg/errors"
	"github.com/agentstation/rostersync/pkg/logging"
	"github.com/agentstation/rostersync/pkg/records"
)

// Graph is the org unit hierarchy: units by id plus a parent to children
// adjacency list that keeps edge table order.
type Graph struct {
	units    map[string]records.OrgUnit
	children map[string][]string
}

// NewGraph indexes units and edges. Edges may reference unknown units;
// they are reported during expansion.
func NewGraph(units []records.OrgUnit, edges []records.Edge) *Graph {
	g := &Graph{
		units:    make(map[string]records.OrgUnit, len(units)),
		children: make(map[string][]string),
	}
	for _, u := range units {
		g.units[u.ID] = u
	}
	for _, e := range edges {
		g.children[e.ParentID] = append(g.children[e.ParentID], e.ChildID)
	}
	return g
}

// Unit returns the org unit with the given id.
func (g *Graph) Unit(id string) (records.OrgUnit, bool) {
	u, ok := g.units[id]
	return u, ok
}

// Children returns the direct children of id in edge table order.
func (g *Graph) Children(id string) []string {
	return g.children[id]
}

// ExpandToLeaves walks the graph breadth first from roots and returns every
// reachable unit matching leaf, in discovery order and without duplicates.
// Expansion stops at a leaf. Each unit is expanded at most once, so cyclic
// edge tables terminate. Children without a unit row are skipped with a warning.
func ExpandToLeaves(ctx context.Context, g *Graph, roots []string, leaf Predicate) ([]records.OrgUnit, error) {
	logger := logging.FromContext(ctx)

	for _, id := range roots {
		if _, ok := g.units[id]; !ok {
			return nil, errors.NewNotFoundError("org unit", id)
		}
	}

	var leaves []records.OrgUnit
	visited := make(map[string]bool)
	queue := append([]string(nil), roots...)

	for head := 0; head < len(queue); head++ {
		id := queue[head]
		if visited[id] {
			continue
		}
		visited[id] = true

		unit, ok := g.units[id]
		if !ok {
			logger.Warn().Str("org_unit_id", id).Msg("Descendant edge references unknown org unit")
			continue
		}

		isLeaf, err := leaf.Match(unit)
		if err != nil {
			return nil, errors.WrapResource("evaluate", "leaf predicate", id, err)
		}
		if isLeaf {
			leaves = append(leaves, unit)
			continue
		}

		for _, child := range g.children[id] {
			if !visited[child] {
				queue = append(queue, child)
			}
		}
	}

	logger.Debug().
		Int("roots", len(roots)).
		Int("visited", len(visited)).
		Int("leaves", len(leaves)).
		Msg("Expanded org unit hierarchy")

	return leaves, nil
}
