// Package filter converts a principal into a backend-agnostic predicate
// tree that a storage adapter can translate into any query language, and
// provides the reference in-memory evaluator plus the response summary
// contract.
package filter

// Op is a predicate node kind.
type Op string

const (
	// OpAnd is the conjunction of all children.
	OpAnd Op = "and"
	// OpOr is the disjunction of all children.
	OpOr Op = "or"
	// OpNot negates its single child.
	OpNot Op = "not"
	// OpTerm tests that the attribute contains the single value.
	OpTerm Op = "term"
	// OpIn tests that the attribute shares at least one value with Values.
	OpIn Op = "in"
	// OpExists tests that the attribute is non-empty.
	OpExists Op = "exists"
)

// Attribute names understood by storage adapters. They mirror the
// resource data model one to one.
const (
	AttrClassification  = "classification"
	AttrOrganization    = "organization"
	AttrSharedWith      = "shared_with"
	AttrCellAccess      = "cell_access"
	AttrNTKRequired     = "ntk_required"
	AttrNTKUsers        = "ntk_users"
	AttrNTKCompartments = "ntk_compartments"
)

// Node is one predicate in the tree. Leaf kinds (term, in, exists) carry
// an attribute; branch kinds (and, or, not) carry children.
type Node struct {
	Op       Op       `json:"op"`
	Attr     string   `json:"attr,omitempty"`
	Values   []string `json:"values,omitempty"`
	Children []*Node  `json:"children,omitempty"`
}

// And returns the conjunction of the given nodes.
func And(children ...*Node) *Node {
	return &Node{Op: OpAnd, Children: children}
}

// Or returns the disjunction of the given nodes.
func Or(children ...*Node) *Node {
	return &Node{Op: OpOr, Children: children}
}

// Not negates a node.
func Not(child *Node) *Node {
	return &Node{Op: OpNot, Children: []*Node{child}}
}

// Term tests attribute membership of a single value.
func Term(attr, value string) *Node {
	return &Node{Op: OpTerm, Attr: attr, Values: []string{value}}
}

// In tests attribute overlap with a value set. An empty value set never
// matches.
func In(attr string, values []string) *Node {
	return &Node{Op: OpIn, Attr: attr, Values: values}
}

// Exists tests that the attribute has at least one value.
func Exists(attr string) *Node {
	return &Node{Op: OpExists, Attr: attr}
}
