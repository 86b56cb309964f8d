package filter

import (
	"strconv"

	"github.com/skubra/cleargate/policy"
	"github.com/skubra/cleargate/util"
)

// Match evaluates a predicate tree against a resource in memory. It is
// the reference adapter; search or database backends translate the same
// tree into their own query language and must agree with it.
func Match(n *Node, r policy.Resource) bool {
	switch n.Op {
	case OpAnd:
		for _, c := range n.Children {
			if !Match(c, r) {
				return false
			}
		}
		return true
	case OpOr:
		for _, c := range n.Children {
			if Match(c, r) {
				return true
			}
		}
		return false
	case OpNot:
		return len(n.Children) == 1 && !Match(n.Children[0], r)
	case OpTerm, OpIn:
		values := attrValues(r, n.Attr)
		for _, v := range n.Values {
			if util.Contains(values, v) {
				return true
			}
		}
		return false
	case OpExists:
		return len(attrValues(r, n.Attr)) > 0
	}
	return false
}

func attrValues(r policy.Resource, attr string) []string {
	switch attr {
	case AttrClassification:
		return []string{string(r.Classification)}
	case AttrOrganization:
		return []string{r.Organization}
	case AttrSharedWith:
		return r.SharedWith
	case AttrCellAccess:
		return r.CellAccess
	case AttrNTKRequired:
		return []string{strconv.FormatBool(r.NTKRequired)}
	case AttrNTKUsers:
		return r.NTKUsers
	case AttrNTKCompartments:
		return r.NTKCompartments
	}
	return nil
}
