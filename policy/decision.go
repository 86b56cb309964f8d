package policy

import (
	"fmt"
	"strings"
)

// DenialReason is the closed taxonomy of machine-readable denial reasons.
type DenialReason string

const (
	// ReasonInsufficientClearance means the subject's clearance rank is
	// below the required classification rank.
	ReasonInsufficientClearance DenialReason = "INSUFFICIENT_CLEARANCE"
	// ReasonOrgMismatch means the resource belongs to another organization
	// and is not shared with the subject's.
	ReasonOrgMismatch DenialReason = "ORG_MISMATCH"
	// ReasonCellRestricted means the resource is restricted to cells the
	// subject is not a member of.
	ReasonCellRestricted DenialReason = "CELL_RESTRICTED"
	// ReasonNeedToKnow means the subject lacks the explicit whitelist entry
	// or compartment membership the resource requires.
	ReasonNeedToKnow DenialReason = "NEED_TO_KNOW_REQUIRED"
)

// Decision is the outcome of a single visibility check. Denials are
// normal, expected outcomes, not errors; they carry enough detail to
// reconstruct the reason in an audit trail.
type Decision struct {
	Allowed bool
	Reason  DenialReason
	// Missing lists the compartments the subject lacks, set only for
	// NEED_TO_KNOW_REQUIRED denials.
	Missing []string
}

// Allow returns an allowed decision.
func Allow() Decision {
	return Decision{Allowed: true}
}

// Deny returns a denied decision with the given reason.
func Deny(reason DenialReason) Decision {
	return Decision{Reason: reason}
}

// DenyMissing returns a need-to-know denial enumerating the missing
// compartments.
func DenyMissing(missing []string) Decision {
	return Decision{Reason: ReasonNeedToKnow, Missing: missing}
}

// String renders the decision for audit trails, matching the denial
// format of the audit log: "NEED_TO_KNOW_REQUIRED: missing [ALPHA, OMEGA]".
func (d Decision) String() string {
	if d.Allowed {
		return "ACCESS_GRANTED"
	}
	if d.Reason == ReasonNeedToKnow && len(d.Missing) > 0 {
		return fmt.Sprintf("%s: missing [%s]", d.Reason, strings.Join(d.Missing, ", "))
	}
	return string(d.Reason)
}
