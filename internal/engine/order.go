package engine

import (
	"fmt"

	"github.com/leapstack-labs/schemasync/internal/dag"
	"github.com/leapstack-labs/schemasync/pkg/core"
)

// OrderByDependency sorts entities so that referenced tables come before the
// tables referencing them. Caller order is kept wherever references allow.
// References to tables outside the set and self references are ignored.
func OrderByDependency(entities []core.EntityDescriptor) ([]core.EntityDescriptor, error) {
	g := dag.New[core.EntityDescriptor]()
	for _, ent := range entities {
		g.Add(ent.Name, ent)
	}
	for _, ent := range entities {
		for _, ref := range ent.References() {
			if ref == ent.Name || !g.Has(ref) {
				continue
			}
			if err := g.DependOn(ent.Name, ref); err != nil {
				return nil, fmt.Errorf("failed to order entities: %w", err)
			}
		}
	}

	ordered, err := g.Sort()
	if err != nil {
		return nil, fmt.Errorf("failed to order entities: %w", err)
	}
	return ordered, nil
}
