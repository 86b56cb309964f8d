// Package dataset provides the deterministic demo corpus used by local
// deployments and the integration tests: 66 resources spread across two
// organizations, four classification levels, cell restrictions and
// need-to-know controls.
package dataset

import (
	"fmt"

	"github.com/skubra/cleargate/classification"
	"github.com/skubra/cleargate/policy"
)

// Organizations of the demo corpus.
const (
	OrgAlpha = "agency-alpha"
	OrgBravo = "agency-bravo"
)

// Cell groups used by Agency Alpha.
var alphaCells = []string{"hq", "west", "east"}

// group stamps n resources from a prototype, numbering their IDs.
type group struct {
	prefix string
	n      int
	proto  policy.Resource
}

func (g group) build() []policy.Resource {
	out := make([]policy.Resource, 0, g.n)
	for i := 1; i <= g.n; i++ {
		r := g.proto
		r.ID = fmt.Sprintf("%s-%02d", g.prefix, i)
		r.Title = fmt.Sprintf("%s %02d", r.Title, i)
		out = append(out, r)
	}
	return out
}

// Seed returns the full demo corpus. The slice is rebuilt on every call.
func Seed() []policy.Resource {
	groups := []group{
		// Open reporting readable by any cell.
		{"bulletin", 6, policy.Resource{
			Title:          "Daily Bulletin",
			Classification: classification.Unclassified,
			Organization:   OrgAlpha,
			CellAccess:     []string{policy.Everyone},
		}},

		// Routine confidential reporting with no cell restriction. One
		// originates at Bravo and is shared with everyone.
		{"sitrep", 2, policy.Resource{
			Title:          "Situation Report",
			Classification: classification.Confidential,
			Organization:   OrgAlpha,
		}},
		{"liaison", 1, policy.Resource{
			Title:          "Liaison Summary",
			Classification: classification.Confidential,
			Organization:   OrgBravo,
			SharedWith:     []string{policy.Everyone},
		}},

		// Confidential reporting restricted to Alpha's own cells.
		{"field-note", 6, policy.Resource{
			Title:          "Field Note",
			Classification: classification.Confidential,
			Organization:   OrgAlpha,
			CellAccess:     alphaCells,
		}},

		// Confidential reporting held by the cyber cell only.
		{"cyber-note", 3, policy.Resource{
			Title:          "Cyber Watch Note",
			Classification: classification.Confidential,
			Organization:   OrgAlpha,
			CellAccess:     []string{"cyber"},
		}},

		// Need-to-know: ALPHA compartment, open to all cells.
		{"src-report", 4, policy.Resource{
			Title:           "Source Report",
			Classification:  classification.Confidential,
			Organization:    OrgAlpha,
			CellAccess:      []string{policy.Everyone},
			NTKRequired:     true,
			NTKCompartments: []string{"ALPHA"},
		}},

		// Need-to-know: OMEGA compartment.
		{"omega-brief", 4, policy.Resource{
			Title:           "Omega Brief",
			Classification:  classification.Confidential,
			Organization:    OrgAlpha,
			NTKRequired:     true,
			NTKCompartments: []string{"OMEGA"},
		}},

		// Need-to-know by explicit user whitelist.
		{"eyes-only", 1, policy.Resource{
			Title:          "Eyes Only Memo",
			Classification: classification.Confidential,
			Organization:   OrgAlpha,
			NTKRequired:    true,
			NTKUsers:       []string{"alpha-senior", "alpha-analyst"},
		}},

		// Secret holdings with no cell restriction. Two originate at
		// Bravo and are shared with Alpha specifically.
		{"assessment", 3, policy.Resource{
			Title:          "Threat Assessment",
			Classification: classification.Secret,
			Organization:   OrgAlpha,
		}},
		{"exchange", 2, policy.Resource{
			Title:          "Exchange Dossier",
			Classification: classification.Secret,
			Organization:   OrgBravo,
			SharedWith:     []string{OrgAlpha},
		}},

		// Secret holdings restricted to Alpha's cells, with per-field
		// cell security.
		{"op-plan", 6, policy.Resource{
			Title:          "Operation Plan",
			Classification: classification.Secret,
			Organization:   OrgAlpha,
			CellAccess:     alphaCells,
			Cells: []policy.Cell{
				{Name: "summary", Value: "objectives on schedule", Classification: classification.Confidential},
				{Name: "location", Value: "grid 34-21", Classification: classification.Secret, Compartments: []string{"DELTA"}},
				{Name: "source", Value: "asset PERSEUS", Classification: classification.TopSecret, Compartments: []string{"OMEGA"}},
			},
		}},

		// Secret cyber-cell holdings.
		{"intrusion", 4, policy.Resource{
			Title:          "Intrusion Analysis",
			Classification: classification.Secret,
			Organization:   OrgAlpha,
			CellAccess:     []string{"cyber"},
		}},

		// Secret need-to-know: OMEGA.
		{"omega-annex", 4, policy.Resource{
			Title:           "Omega Annex",
			Classification:  classification.Secret,
			Organization:    OrgAlpha,
			NTKRequired:     true,
			NTKCompartments: []string{"OMEGA"},
		}},

		// Secret need-to-know: DELTA, restricted to Alpha's cells.
		{"delta-log", 3, policy.Resource{
			Title:           "Delta Operations Log",
			Classification:  classification.Secret,
			Organization:    OrgAlpha,
			CellAccess:      alphaCells,
			NTKRequired:     true,
			NTKCompartments: []string{"DELTA"},
		}},

		// Top secret holdings: above every demo user's clearance.
		{"ts-archive", 9, policy.Resource{
			Title:          "Special Access Archive",
			Classification: classification.TopSecret,
			Organization:   OrgAlpha,
			NTKRequired:    true,
			NTKCompartments: []string{
				"OMEGA", "SIGMA",
			},
		}},

		// Bravo internal holdings, never shared.
		{"bravo-memo", 4, policy.Resource{
			Title:          "Bravo Internal Memo",
			Classification: classification.Confidential,
			Organization:   OrgBravo,
		}},
		{"bravo-case", 4, policy.Resource{
			Title:          "Bravo Case File",
			Classification: classification.Secret,
			Organization:   OrgBravo,
		}},
	}

	var out []policy.Resource
	for _, g := range groups {
		out = append(out, g.build()...)
	}
	return out
}
