package policy

import "fmt"

// Layers is the set of active policy layers. The original system shipped
// two divergent filters (a coarse three-mode document filter and a
// per-cell engine); here both are configurations of one engine.
type Layers uint8

const (
	// LayerClassification gates on the classification hierarchy.
	LayerClassification Layers = 1 << iota
	// LayerOrganization gates on organizational ownership and sharing.
	LayerOrganization
	// LayerCell gates on compartmentalized-cell membership.
	LayerCell
	// LayerNTK gates on need-to-know whitelisting and compartments.
	LayerNTK
)

// The three supported mode configurations, each a strict narrowing of
// the previous.
const (
	ModeRBAC = LayerClassification | LayerOrganization
	ModeCell = ModeRBAC | LayerCell
	ModeNTK  = ModeCell | LayerNTK
)

// Has reports whether every layer in l2 is active in l.
func (l Layers) Has(l2 Layers) bool {
	return l&l2 == l2
}

// String returns the mode name for the three canonical configurations,
// or a bitmask rendering otherwise.
func (l Layers) String() string {
	switch l {
	case ModeRBAC:
		return "rbac"
	case ModeCell:
		return "cell"
	case ModeNTK:
		return "ntk"
	}
	return fmt.Sprintf("layers(%04b)", uint8(l))
}

// ParseMode maps a mode name to its layer configuration.
func ParseMode(s string) (Layers, error) {
	switch s {
	case "rbac":
		return ModeRBAC, nil
	case "cell":
		return ModeCell, nil
	case "ntk":
		return ModeNTK, nil
	}
	return 0, fmt.Errorf("unknown filter mode %q (want rbac, cell, or ntk)", s)
}
