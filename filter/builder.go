package filter

import (
	"github.com/skubra/cleargate/classification"
	"github.com/skubra/cleargate/policy"
	"github.com/skubra/cleargate/util"
)

// Build converts a principal into the predicate tree for the given mode.
// Each mode is a strict narrowing of the previous, so for any fixed
// principal visible(ntk) is a subset of visible(cell) is a subset of
// visible(rbac).
func Build(p policy.Principal, mode policy.Layers) *Node {
	root := And(
		classificationClause(p),
		organizationClause(p),
	)

	if mode.Has(policy.LayerCell) {
		root.Children = append(root.Children, cellClause(p))
	}
	if mode.Has(policy.LayerNTK) {
		root.Children = append(root.Children, ntkClause(p))
	}
	return root
}

// classificationClause admits every level at or below the principal's
// clearance. An unknown clearance yields an empty allowed set, which
// matches nothing: fail closed.
func classificationClause(p policy.Principal) *Node {
	allowed := classification.AtOrBelow(p.Clearance)
	values := make([]string, len(allowed))
	for i, l := range allowed {
		values[i] = string(l)
	}
	return In(AttrClassification, values)
}

// organizationClause admits the principal's own organization plus
// resources explicitly shared with it or with everyone.
func organizationClause(p policy.Principal) *Node {
	return Or(
		Term(AttrOrganization, p.Organization),
		Term(AttrSharedWith, p.Organization),
		Term(AttrSharedWith, policy.Everyone),
	)
}

// cellClause admits resources with no cell restriction, the universal
// sentinel, or an overlap with the principal's cells.
func cellClause(p policy.Principal) *Node {
	return Or(
		Not(Exists(AttrCellAccess)),
		Term(AttrCellAccess, policy.Everyone),
		In(AttrCellAccess, util.SortedStrings(p.Cells)),
	)
}

// ntkClause admits resources without the need-to-know flag, or those
// whitelisting the username, or those whose compartments intersect the
// principal's.
func ntkClause(p policy.Principal) *Node {
	return Or(
		Term(AttrNTKRequired, "false"),
		Term(AttrNTKUsers, p.Username),
		In(AttrNTKCompartments, util.SortedStrings(p.Compartments)),
	)
}
