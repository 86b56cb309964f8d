package redact

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/skubra/cleargate/audit"
	"github.com/skubra/cleargate/classification"
	"github.com/skubra/cleargate/policy"
	"github.com/skubra/cleargate/util"
)

func secretAnalyst() policy.Principal {
	return policy.Principal{
		Username:     "alpha-senior",
		Organization: "agency-alpha",
		Clearance:    classification.Secret,
		Cells:        util.NewSet("hq", "west", "east"),
		Compartments: util.NewSet("ALPHA", "DELTA"),
	}
}

func mixedCellResource() policy.Resource {
	return policy.Resource{
		ID:             "op-1",
		Title:          "Operation Summary",
		Classification: classification.Confidential,
		Organization:   "agency-alpha",
		Cells: []policy.Cell{
			{Name: "summary", Value: "routine activity", Classification: classification.Unclassified},
			{Name: "source", Value: "asset 7", Classification: classification.TopSecret},
			{Name: "location", Value: "sector 4", Classification: classification.Secret, Compartments: []string{"OMEGA"}},
			{Name: "assessment", Value: "credible", Classification: classification.Secret, Compartments: []string{"ALPHA"}},
		},
	}
}

func TestRedactVisibleResource(t *testing.T) {
	rd := New(nil, policy.ModeNTK, nil, nil)
	p := secretAnalyst()

	v, ok := rd.Redact(context.Background(), p, mixedCellResource())
	if !ok {
		t.Fatal("resource should be visible")
	}
	if !v.Decision.Allowed {
		t.Error("view must carry the admitting decision")
	}
	if len(v.Cells) != 4 {
		t.Fatalf("cells = %d, want 4", len(v.Cells))
	}

	byName := map[string]CellView{}
	for _, c := range v.Cells {
		byName[c.Name] = c
	}

	if c := byName["summary"]; c.Redacted || c.Value != "routine activity" {
		t.Errorf("summary = %+v, want passthrough", c)
	}
	if c := byName["assessment"]; c.Redacted || c.Value != "credible" {
		t.Errorf("assessment = %+v, want passthrough", c)
	}
	if c := byName["source"]; !c.Redacted || c.Value != PlaceholderClearance {
		t.Errorf("source = %+v, want clearance placeholder", c)
	}
	if c := byName["location"]; !c.Redacted || c.Value != PlaceholderNeedToKnow {
		t.Errorf("location = %+v, want need-to-know placeholder", c)
	}
	if c := byName["location"]; len(c.Compartments) != 0 {
		t.Errorf("redacted cell must not expose required compartments: %+v", c)
	}
	if diff := cmp.Diff([]string{"OMEGA"}, byName["location"].Decision.Missing); diff != "" {
		t.Errorf("decision trace mismatch (-want +got):\n%s", diff)
	}
}

func TestRedactDeniedResourceHasNoCells(t *testing.T) {
	rec := &audit.MemoryRecorder{}
	rd := New(nil, policy.ModeNTK, rec, nil)
	p := secretAnalyst()

	r := mixedCellResource()
	r.Classification = classification.TopSecret

	v, ok := rd.Redact(context.Background(), p, r)
	if ok {
		t.Fatal("resource should be denied")
	}
	if len(v.Cells) != 0 {
		t.Error("cells of a denied resource must never be evaluated")
	}

	// Exactly one event: the resource decision, no cell decisions.
	events := rec.Events()
	if len(events) != 1 {
		t.Fatalf("events = %d, want 1", len(events))
	}
	if events[0].Action != audit.ActionResourceDecision || events[0].Allowed {
		t.Errorf("unexpected event: %+v", events[0])
	}
}

func TestRedactAll(t *testing.T) {
	rd := New(nil, policy.ModeNTK, nil, nil)
	p := secretAnalyst()

	resources := []policy.Resource{
		mixedCellResource(),
		{ID: "ts-1", Classification: classification.TopSecret, Organization: "agency-alpha"},
		{ID: "foreign-1", Classification: classification.Confidential, Organization: "agency-bravo"},
		{ID: "shared-1", Classification: classification.Secret, Organization: "agency-bravo", SharedWith: []string{"agency-alpha"}},
	}

	views, summary := rd.RedactAll(context.Background(), p, resources)
	if len(views) != 2 {
		t.Fatalf("views = %d, want 2", len(views))
	}
	for _, v := range views {
		if v.ID == "ts-1" || v.ID == "foreign-1" {
			t.Errorf("denied resource %s leaked into output", v.ID)
		}
	}
	if summary.Total != 4 || summary.Visible != 2 || summary.Hidden != 2 {
		t.Errorf("summary = %+v", summary)
	}
	if summary.Mode != "ntk" {
		t.Errorf("summary.Mode = %q", summary.Mode)
	}
}

func TestRedactViewIdempotent(t *testing.T) {
	rd := New(nil, policy.ModeNTK, nil, nil)
	p := secretAnalyst()

	v, ok := rd.Redact(context.Background(), p, mixedCellResource())
	if !ok {
		t.Fatal("resource should be visible")
	}

	again := rd.RedactView(p, v)
	if diff := cmp.Diff(v, again); diff != "" {
		t.Errorf("second pass changed the view (-first +second):\n%s", diff)
	}

	third := rd.RedactView(p, again)
	if diff := cmp.Diff(again, third); diff != "" {
		t.Errorf("third pass changed the view (-second +third):\n%s", diff)
	}
}

func TestAuditCountsExactlyOncePerDecision(t *testing.T) {
	rec := &audit.MemoryRecorder{}
	rd := New(nil, policy.ModeNTK, rec, nil)
	p := secretAnalyst()

	if _, ok := rd.Redact(context.Background(), p, mixedCellResource()); !ok {
		t.Fatal("resource should be visible")
	}

	var resourceEvents, cellEvents int
	for _, ev := range rec.Events() {
		switch ev.Action {
		case audit.ActionResourceDecision:
			resourceEvents++
		case audit.ActionCellDecision:
			cellEvents++
		}
	}
	if resourceEvents != 1 {
		t.Errorf("resource events = %d, want 1", resourceEvents)
	}
	if cellEvents != 4 {
		t.Errorf("cell events = %d, want 4", cellEvents)
	}
}

func TestAuditFailureDoesNotAbortDecision(t *testing.T) {
	sinkErr := errors.New("audit store unreachable")
	rec := audit.RecorderFunc(func(context.Context, audit.Event) error { return sinkErr })
	rd := New(nil, policy.ModeNTK, rec, nil)
	p := secretAnalyst()

	v, ok := rd.Redact(context.Background(), p, mixedCellResource())
	if !ok {
		t.Fatal("a failing audit sink must not change the decision")
	}
	if !errors.Is(v.AuditErr, sinkErr) {
		t.Errorf("AuditErr = %v, want the sink failure", v.AuditErr)
	}
	if len(v.Cells) != 4 {
		t.Error("cell evaluation must continue past audit failures")
	}
}

func TestRedactLayerSubsets(t *testing.T) {
	p := secretAnalyst()
	r := policy.Resource{
		ID:             "ntk-1",
		Classification: classification.Secret,
		Organization:   "agency-alpha",
		NTKRequired:    true,
		NTKCompartments: []string{
			"OMEGA",
		},
	}

	// The need-to-know gate only applies when its layer is active.
	if _, ok := New(nil, policy.ModeCell, nil, nil).Redact(context.Background(), p, r); !ok {
		t.Error("cell mode must not enforce need-to-know")
	}
	if _, ok := New(nil, policy.ModeNTK, nil, nil).Redact(context.Background(), p, r); ok {
		t.Error("ntk mode must enforce need-to-know")
	}
}
