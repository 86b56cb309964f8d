package filter

import (
	"fmt"
	"strings"

	"github.com/skubra/cleargate/policy"
	"github.com/skubra/cleargate/util"
)

// Summary is the response summary contract: a compatibility surface that
// must be reproducible bit-for-bit for a fixed principal and result set.
type Summary struct {
	Mode        string `json:"mode"`
	Total       int    `json:"total_count"`
	Visible     int    `json:"visible_count"`
	Hidden      int    `json:"hidden_count"`
	Explanation string `json:"filter_explanation"`
}

// Summarize builds the summary for a filtering pass.
func Summarize(p policy.Principal, mode policy.Layers, total, visible int) Summary {
	return Summary{
		Mode:        mode.String(),
		Total:       total,
		Visible:     visible,
		Hidden:      total - visible,
		Explanation: Explain(p, mode),
	}
}

// Explain renders the active constraints as a stable human-readable
// string: classification ceiling, organization, then cells and
// compartments for the modes that use them. Set-valued parts are sorted
// so the output is deterministic.
func Explain(p policy.Principal, mode policy.Layers) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Classification <= %s • Organization = %s (+ shared)", p.Clearance, p.Organization)
	if mode.Has(policy.LayerCell) {
		fmt.Fprintf(&b, " • Cells = %s", joinOrNone(util.SortedStrings(p.Cells)))
	}
	if mode.Has(policy.LayerNTK) {
		fmt.Fprintf(&b, " • Compartments = %s", joinOrNone(util.SortedStrings(p.Compartments)))
	}
	return b.String()
}

func joinOrNone(values []string) string {
	if len(values) == 0 {
		return "(none)"
	}
	return strings.Join(values, ", ")
}
