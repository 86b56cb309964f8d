package policy

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/skubra/cleargate/classification"
	"github.com/skubra/cleargate/util"
)

func analyst() Principal {
	return Principal{
		Username:     "alpha-senior",
		Organization: "agency-alpha",
		Clearance:    classification.Secret,
		Cells:        util.NewSet("hq", "west", "east"),
		Compartments: util.NewSet("ALPHA", "DELTA"),
		Roles:        RoleSet{"analyst"},
	}
}

func TestCanAccessClassification(t *testing.T) {
	tests := []struct {
		name     string
		subject  int
		required int
		want     bool
	}{
		{"equal ranks", 2, 2, true},
		{"subject above", 3, 1, true},
		{"subject below", 1, 2, false},
		{"unknown subject denied even unclassified", classification.RankUnknown, 0, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := CanAccessClassification(tc.subject, tc.required); got != tc.want {
				t.Errorf("CanAccessClassification(%d, %d) = %v, want %v", tc.subject, tc.required, got, tc.want)
			}
		})
	}
}

func TestHasCompartmentsSubsetLaw(t *testing.T) {
	subject := util.NewSet("ALPHA", "DELTA")
	tests := []struct {
		name     string
		required []string
		want     bool
	}{
		{"empty required is vacuously true", nil, true},
		{"single member subset", []string{"ALPHA"}, true},
		{"full subset", []string{"ALPHA", "DELTA"}, true},
		{"superset fails", []string{"ALPHA", "DELTA", "OMEGA"}, false},
		{"disjoint fails", []string{"OMEGA"}, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := HasCompartments(subject, tc.required); got != tc.want {
				t.Errorf("HasCompartments(%v) = %v, want %v", tc.required, got, tc.want)
			}
		})
	}
}

func TestCheckResourceVisibilityGateOrder(t *testing.T) {
	e := NewEngine(nil)
	p := analyst()

	// A resource failing every gate must report the first failure only.
	r := Resource{
		ID:              "r1",
		Classification:  classification.TopSecret,
		Organization:    "agency-bravo",
		CellAccess:      []string{"cyber"},
		NTKRequired:     true,
		NTKCompartments: []string{"OMEGA"},
	}

	d := e.CheckResourceVisibility(p, r, ModeNTK)
	if d.Allowed || d.Reason != ReasonInsufficientClearance {
		t.Fatalf("expected INSUFFICIENT_CLEARANCE first, got %v", d)
	}

	r.Classification = classification.Secret
	d = e.CheckResourceVisibility(p, r, ModeNTK)
	if d.Reason != ReasonOrgMismatch {
		t.Fatalf("expected ORG_MISMATCH second, got %v", d)
	}

	r.SharedWith = []string{"agency-alpha"}
	d = e.CheckResourceVisibility(p, r, ModeNTK)
	if d.Reason != ReasonCellRestricted {
		t.Fatalf("expected CELL_RESTRICTED third, got %v", d)
	}

	r.CellAccess = []string{"hq", "cyber"}
	d = e.CheckResourceVisibility(p, r, ModeNTK)
	if d.Reason != ReasonNeedToKnow {
		t.Fatalf("expected NEED_TO_KNOW_REQUIRED last, got %v", d)
	}

	r.NTKCompartments = []string{"DELTA", "OMEGA"}
	d = e.CheckResourceVisibility(p, r, ModeNTK)
	if !d.Allowed {
		t.Fatalf("expected allowed once DELTA intersects, got %v", d)
	}
}

func TestCheckResourceVisibilityOrgSharing(t *testing.T) {
	e := NewEngine(nil)
	p := analyst()
	tests := []struct {
		name   string
		org    string
		shared []string
		want   bool
	}{
		{"own organization", "agency-alpha", nil, true},
		{"shared with principal org", "agency-bravo", []string{"agency-alpha"}, true},
		{"shared with all", "agency-bravo", []string{Everyone}, true},
		{"foreign unshared", "agency-bravo", nil, false},
		{"shared with someone else", "agency-bravo", []string{"agency-charlie"}, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := Resource{Classification: classification.Unclassified, Organization: tc.org, SharedWith: tc.shared}
			d := e.CheckResourceVisibility(p, r, ModeRBAC)
			if d.Allowed != tc.want {
				t.Errorf("visibility = %v, want %v (%v)", d.Allowed, tc.want, d)
			}
			if !tc.want && d.Reason != ReasonOrgMismatch {
				t.Errorf("reason = %s, want ORG_MISMATCH", d.Reason)
			}
		})
	}
}

func TestCheckResourceVisibilityCellGate(t *testing.T) {
	e := NewEngine(nil)
	p := analyst()
	tests := []struct {
		name       string
		cellAccess []string
		want       bool
	}{
		{"no cell requirement passes", nil, true},
		{"all sentinel passes", []string{Everyone}, true},
		{"overlapping cell passes", []string{"cyber", "east"}, true},
		{"disjoint cells fail", []string{"cyber"}, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := Resource{
				Classification: classification.Confidential,
				Organization:   "agency-alpha",
				CellAccess:     tc.cellAccess,
			}
			d := e.CheckResourceVisibility(p, r, ModeCell)
			if d.Allowed != tc.want {
				t.Errorf("visibility = %v, want %v (%v)", d.Allowed, tc.want, d)
			}
		})
	}
}

func TestNTKBypassWhenNotRequired(t *testing.T) {
	e := NewEngine(nil)
	p := analyst()
	p.Compartments = util.NewSet[string]()

	r := Resource{
		Classification:  classification.Confidential,
		Organization:    "agency-alpha",
		NTKRequired:     false,
		NTKCompartments: []string{"OMEGA"},
	}
	if d := e.CheckResourceVisibility(p, r, ModeNTK); !d.Allowed {
		t.Fatalf("ntk_required=false must never be hidden by the NTK gate, got %v", d)
	}
}

func TestNTKUserWhitelist(t *testing.T) {
	e := NewEngine(nil)
	p := analyst()
	p.Compartments = util.NewSet[string]()

	r := Resource{
		Classification:  classification.Secret,
		Organization:    "agency-alpha",
		NTKRequired:     true,
		NTKUsers:        []string{"alpha-senior"},
		NTKCompartments: []string{"OMEGA"},
	}
	if d := e.CheckResourceVisibility(p, r, ModeNTK); !d.Allowed {
		t.Fatalf("whitelisted username must pass the NTK gate, got %v", d)
	}
}

func TestNTKDenialEnumeratesMissing(t *testing.T) {
	e := NewEngine(nil)
	p := analyst()

	r := Resource{
		Classification:  classification.Secret,
		Organization:    "agency-alpha",
		NTKRequired:     true,
		NTKCompartments: []string{"OMEGA", "ALPHA", "SIGMA"},
	}
	// ALPHA intersects, so the gate passes.
	if d := e.CheckResourceVisibility(p, r, ModeNTK); !d.Allowed {
		t.Fatalf("expected allowed via ALPHA intersection, got %v", d)
	}

	r.NTKCompartments = []string{"OMEGA", "SIGMA"}
	d := e.CheckResourceVisibility(p, r, ModeNTK)
	if d.Allowed {
		t.Fatal("expected denial")
	}
	if diff := cmp.Diff([]string{"OMEGA", "SIGMA"}, d.Missing); diff != "" {
		t.Errorf("missing compartments mismatch (-want +got):\n%s", diff)
	}
}

func TestInactiveLayersSkipped(t *testing.T) {
	e := NewEngine(nil)
	p := analyst()

	r := Resource{
		Classification: classification.Secret,
		Organization:   "agency-alpha",
		CellAccess:     []string{"cyber"},
	}
	if d := e.CheckResourceVisibility(p, r, ModeRBAC); !d.Allowed {
		t.Errorf("RBAC mode must not evaluate the cell gate, got %v", d)
	}
	if d := e.CheckResourceVisibility(p, r, ModeCell); d.Allowed {
		t.Error("cell mode must evaluate the cell gate")
	}
}

func TestUnknownResourceClassificationFailsClosed(t *testing.T) {
	e := NewEngine(nil)
	p := analyst()
	r := Resource{
		Classification: classification.Level("EYES_ONLY"),
		Organization:   "agency-alpha",
	}
	d := e.CheckResourceVisibility(p, r, ModeRBAC)
	if d.Allowed || d.Reason != ReasonInsufficientClearance {
		t.Fatalf("unknown level must require maximum clearance, got %v", d)
	}

	p.Clearance = classification.TopSecret
	if d := e.CheckResourceVisibility(p, r, ModeRBAC); !d.Allowed {
		t.Fatalf("top secret clearance satisfies the degraded requirement, got %v", d)
	}
}

func TestUnknownPrincipalClearanceDeniedEverything(t *testing.T) {
	e := NewEngine(nil)
	p := analyst()
	p.Clearance = classification.Level("COSMIC")
	r := Resource{Classification: classification.Unclassified, Organization: "agency-alpha"}
	if d := e.CheckResourceVisibility(p, r, ModeRBAC); d.Allowed {
		t.Fatal("unrecognized clearance must fail closed, even for unclassified data")
	}
}

func TestCheckCellVisibility(t *testing.T) {
	e := NewEngine(nil)
	p := analyst()
	tests := []struct {
		name    string
		cell    Cell
		allowed bool
		reason  DenialReason
		missing []string
	}{
		{
			name:    "level and compartments satisfied",
			cell:    Cell{Name: "findings", Classification: classification.Secret, Compartments: []string{"ALPHA"}},
			allowed: true,
		},
		{
			name:    "no compartments required",
			cell:    Cell{Name: "summary", Classification: classification.Unclassified},
			allowed: true,
		},
		{
			name:   "classification above clearance",
			cell:   Cell{Name: "specs", Classification: classification.TopSecret, Compartments: []string{"ALPHA"}},
			reason: ReasonInsufficientClearance,
		},
		{
			name:    "missing compartment",
			cell:    Cell{Name: "asset_status", Classification: classification.Secret, Compartments: []string{"OMEGA"}},
			reason:  ReasonNeedToKnow,
			missing: []string{"OMEGA"},
		},
		{
			name:    "partial compartments still denied",
			cell:    Cell{Name: "action_items", Classification: classification.Secret, Compartments: []string{"ALPHA", "OMEGA"}},
			reason:  ReasonNeedToKnow,
			missing: []string{"OMEGA"},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			d := e.CheckCellVisibility(p, "r1", tc.cell)
			if d.Allowed != tc.allowed {
				t.Fatalf("allowed = %v, want %v (%v)", d.Allowed, tc.allowed, d)
			}
			if !tc.allowed {
				if d.Reason != tc.reason {
					t.Errorf("reason = %s, want %s", d.Reason, tc.reason)
				}
				if diff := cmp.Diff(tc.missing, d.Missing); tc.missing != nil && diff != "" {
					t.Errorf("missing mismatch (-want +got):\n%s", diff)
				}
			}
		})
	}
}

func TestCellVisibilityIgnoresResourceGates(t *testing.T) {
	// Cell checks do not re-evaluate organization or cell-membership; a
	// principal from another org who passed resource gates still gets a
	// pure classification+compartment verdict.
	e := NewEngine(nil)
	p := analyst()
	p.Organization = "agency-bravo"
	p.Cells = util.NewSet[string]()

	c := Cell{Name: "summary", Classification: classification.Confidential, Compartments: []string{"DELTA"}}
	if d := e.CheckCellVisibility(p, "r1", c); !d.Allowed {
		t.Fatalf("cell check must be independent of org/cell gates, got %v", d)
	}
}

func TestDecisionString(t *testing.T) {
	tests := []struct {
		name string
		d    Decision
		want string
	}{
		{"allowed", Allow(), "ACCESS_GRANTED"},
		{"plain denial", Deny(ReasonOrgMismatch), "ORG_MISMATCH"},
		{"ntk with missing", DenyMissing([]string{"OMEGA", "SIGMA"}), "NEED_TO_KNOW_REQUIRED: missing [OMEGA, SIGMA]"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.d.String(); got != tc.want {
				t.Errorf("String() = %q, want %q", got, tc.want)
			}
		})
	}
}
