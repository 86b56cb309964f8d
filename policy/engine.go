// Package policy implements the layered visibility policy: classification
// hierarchy, organizational sharing, compartmentalized-cell membership,
// and need-to-know, combined into a single ordered decision pipeline.
//
// All decision functions are pure and safe for unlimited concurrent use;
// the engine holds only a logger for data-integrity warnings.
package policy

import (
	"github.com/skubra/cleargate/classification"
	apperrors "github.com/skubra/cleargate/errors"
	"github.com/skubra/cleargate/logger"
	"github.com/skubra/cleargate/util"
)

// CanAccessClassification reports whether a subject rank meets or exceeds
// a required rank.
func CanAccessClassification(subjectRank, requiredRank int) bool {
	return subjectRank >= requiredRank
}

// HasCompartments reports whether required is a subset of subject.
// Vacuously true when required is empty.
func HasCompartments(subject util.Set[string], required []string) bool {
	return subject.ContainsAll(required)
}

// Engine evaluates resource- and cell-level visibility.
type Engine struct {
	log *logger.Logger
}

// NewEngine creates an engine. A nil logger disables the data-integrity
// warnings emitted for unrecognized classification levels.
func NewEngine(log *logger.Logger) *Engine {
	if log == nil {
		log = logger.Nop()
	}
	return &Engine{log: log.WithComponent("policy")}
}

// requiredRank resolves a stored classification level to its rank. An
// unrecognized level is treated as requiring maximum clearance and a
// data-integrity warning is logged; the request itself never fails.
func (e *Engine) requiredRank(level classification.Level, resourceID, field string) int {
	if classification.Known(level) {
		return classification.Rank(level)
	}
	e.log.Warn("unknown classification level on stored data, treating as maximum", logger.Fields(
		logger.FieldReason, string(apperrors.ErrCodeUnknownClassification),
		logger.FieldClassification, string(level),
		logger.FieldResourceID, resourceID,
		logger.FieldField, field,
	))
	return classification.Rank(classification.Max())
}

// CheckResourceVisibility runs the ordered gate pipeline against a
// resource, short-circuiting on the first failure. The order is a
// contract: it determines which denial reason is reported.
//
//	1. classification  -> INSUFFICIENT_CLEARANCE
//	2. organization    -> ORG_MISMATCH
//	3. cell            -> CELL_RESTRICTED (only if the resource declares cells)
//	4. need-to-know    -> NEED_TO_KNOW_REQUIRED (only if NTKRequired)
//
// Layers absent from the active set are skipped.
func (e *Engine) CheckResourceVisibility(p Principal, r Resource, layers Layers) Decision {
	if layers.Has(LayerClassification) {
		required := e.requiredRank(r.Classification, r.ID, "")
		if !CanAccessClassification(p.ClearanceRank(), required) {
			return Deny(ReasonInsufficientClearance)
		}
	}

	if layers.Has(LayerOrganization) {
		if !orgAccessible(p, r) {
			return Deny(ReasonOrgMismatch)
		}
	}

	if layers.Has(LayerCell) && len(r.CellAccess) > 0 {
		if !util.Contains(r.CellAccess, Everyone) && !p.Cells.IntersectsSlice(r.CellAccess) {
			return Deny(ReasonCellRestricted)
		}
	}

	if layers.Has(LayerNTK) && r.NTKRequired {
		if !util.Contains(r.NTKUsers, p.Username) && !p.Compartments.IntersectsSlice(r.NTKCompartments) {
			return DenyMissing(missingCompartments(p.Compartments, r.NTKCompartments))
		}
	}

	return Allow()
}

// CheckCellVisibility checks a single cell: the classification gate
// against the cell's own level, then the compartment-subset gate. It does
// not re-check the parent resource's organization or cell gates; those
// are evaluated once at the resource level.
func (e *Engine) CheckCellVisibility(p Principal, resourceID string, c Cell) Decision {
	required := e.requiredRank(c.Classification, resourceID, c.Name)
	if !CanAccessClassification(p.ClearanceRank(), required) {
		return Deny(ReasonInsufficientClearance)
	}
	if !HasCompartments(p.Compartments, c.Compartments) {
		return DenyMissing(missingCompartments(p.Compartments, c.Compartments))
	}
	return Allow()
}

func orgAccessible(p Principal, r Resource) bool {
	if p.Organization == r.Organization {
		return true
	}
	// Shared with the specific org and shared with "all" are a plain OR
	// with no precedence.
	return util.Contains(r.SharedWith, p.Organization) || util.Contains(r.SharedWith, Everyone)
}

func missingCompartments(subject util.Set[string], required []string) []string {
	return util.Filter(required, func(c string) bool { return !subject.Has(c) })
}
