package policy

import "github.com/skubra/cleargate/classification"

// Everyone is the sentinel in SharedWith and CellAccess meaning
// universal match. It is not a literal organization or cell name.
const Everyone = "all"

// Resource is a classified record as fetched from the external store.
// The core never mutates it; filtering and redaction produce views.
//
// CellAccess, NTK, and compartments are independent dimensions: none
// implies another.
type Resource struct {
	ID             string
	Title          string
	Classification classification.Level
	Organization   string
	// SharedWith lists organizations the resource is shared with, or the
	// Everyone sentinel.
	SharedWith []string
	// CellAccess lists the cell groups that may see the resource; empty
	// means no cell restriction, Everyone means any cell.
	CellAccess []string
	// NTKRequired gates the resource on explicit need-to-know.
	NTKRequired bool
	// NTKUsers are usernames whitelisted past the need-to-know gate.
	NTKUsers []string
	// NTKCompartments are compartments any one of which satisfies the
	// need-to-know gate.
	NTKCompartments []string
	// Cells are the individually classified fields of the resource.
	Cells []Cell
}

// Cell is a named field within a resource with its own classification,
// possibly higher than the parent resource's, and its own required
// compartments.
type Cell struct {
	Name           string
	Value          string
	Classification classification.Level
	Compartments   []string
}
