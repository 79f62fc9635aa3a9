package hierarchy

import (
	"github.com/agentstation/rostersync/pkg/errors"
	"github.com/agentstation/rostersync/pkg/records"
)

// ResolveRoots maps each identifier to the single unit whose Name, Code or
// Id equals it, preserving request order. The first identifier that matches
// no unit, or more than one, fails the whole resolution with a
// UnitResolutionError; ambiguous errors carry every candidate row.
func ResolveRoots(units []records.OrgUnit, identifiers []string) ([]string, error) {
	ids := make([]string, 0, len(identifiers))
	for _, key := range identifiers {
		var matches []records.OrgUnit
		for _, u := range units {
			if u.Name == key || u.Code == key || u.ID == key {
				matches = append(matches, u)
			}
		}

		switch len(matches) {
		case 0:
			return nil, errors.NewUnitNotFoundError(key)
		case 1:
			ids = append(ids, matches[0].ID)
		default:
			candidates := make([][]string, len(matches))
			for i, m := range matches {
				candidates[i] = m.Fields()
			}
			return nil, errors.NewUnitAmbiguousError(key, candidates)
		}
	}
	return ids, nil
}
