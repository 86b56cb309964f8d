// Package redact produces masked views of classified resources. A
// resource denied at the record level is absent from output entirely;
// a visible resource has each of its cells checked individually, with
// denied cell values replaced by a labeled placeholder.
package redact

import (
	"context"

	"github.com/skubra/cleargate/audit"
	"github.com/skubra/cleargate/classification"
	"github.com/skubra/cleargate/filter"
	"github.com/skubra/cleargate/logger"
	"github.com/skubra/cleargate/policy"
)

// Placeholder values substituted for denied cells. The text is distinct
// per reason class so a consumer can tell a clearance denial from a
// missing compartment without access to the decision trace.
const (
	PlaceholderClearance  = "[REDACTED:INSUFFICIENT_CLEARANCE]"
	PlaceholderNeedToKnow = "[REDACTED:NEED_TO_KNOW]"
)

// CellView is one field of a redacted view. For a redacted cell the
// value is a placeholder and the required compartments are not exposed;
// the cell's classification level stays visible so a consumer can label
// the redaction.
type CellView struct {
	Name           string               `json:"field_name"`
	Value          string               `json:"field_value"`
	Classification classification.Level `json:"cell_classification"`
	Compartments   []string             `json:"compartments,omitempty"`
	Redacted       bool                 `json:"redacted"`
	Decision       policy.Decision      `json:"-"`
}

// View is the redacted rendering of one visible resource, carrying the
// full decision trace for the caller.
type View struct {
	ID             string               `json:"id"`
	Title          string               `json:"title"`
	Classification classification.Level `json:"classification"`
	Organization   string               `json:"organization"`
	Cells          []CellView           `json:"cells"`

	// Decision is the resource-level decision that admitted the view.
	Decision policy.Decision `json:"-"`

	// AuditErr carries the first audit sink failure observed while the
	// view was produced. The decisions themselves stand regardless.
	AuditErr error `json:"-"`
}

// Redactor applies the visibility policy to fetched resources.
type Redactor struct {
	engine   *policy.Engine
	layers   policy.Layers
	recorder audit.Recorder
	log      *logger.Logger
}

// New creates a Redactor enforcing the given layer set. A nil recorder
// disables audit emission; a nil logger disables failure reporting.
func New(engine *policy.Engine, layers policy.Layers, recorder audit.Recorder, log *logger.Logger) *Redactor {
	if engine == nil {
		engine = policy.NewEngine(nil)
	}
	if recorder == nil {
		recorder = audit.NopRecorder{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Redactor{
		engine:   engine,
		layers:   layers,
		recorder: recorder,
		log:      log.WithComponent("redact"),
	}
}

// Redact evaluates one resource. The second return value reports whether
// the resource is visible at all; when false the returned view carries
// only the denial decision and must not be shown to the caller's client.
// Cells of an invisible resource are never evaluated.
//
// Every resource- and cell-level decision is emitted to the audit
// recorder exactly once, synchronously, before Redact returns. A failing
// recorder is reported through View.AuditErr and the log; it never
// changes a decision.
func (rd *Redactor) Redact(ctx context.Context, p policy.Principal, r policy.Resource) (View, bool) {
	v := View{
		ID:             r.ID,
		Title:          r.Title,
		Classification: r.Classification,
		Organization:   r.Organization,
	}

	v.Decision = rd.engine.CheckResourceVisibility(p, r, rd.layers)
	rd.record(ctx, &v, audit.ResourceEvent(p, r, v.Decision))
	if !v.Decision.Allowed {
		return v, false
	}

	v.Cells = make([]CellView, 0, len(r.Cells))
	for _, c := range r.Cells {
		d := rd.engine.CheckCellVisibility(p, r.ID, c)
		rd.record(ctx, &v, audit.CellEvent(p, r, c, d))
		v.Cells = append(v.Cells, cellView(c, d))
	}
	return v, true
}

// RedactAll evaluates a fetched candidate set. Denied resources are
// absent from the returned slice; the summary reports the visible and
// hidden counts alongside the constraint explanation for the principal.
func (rd *Redactor) RedactAll(ctx context.Context, p policy.Principal, resources []policy.Resource) ([]View, filter.Summary) {
	views := make([]View, 0, len(resources))
	for _, r := range resources {
		if v, ok := rd.Redact(ctx, p, r); ok {
			views = append(views, v)
		}
	}
	return views, filter.Summarize(p, rd.layers, len(resources), len(views))
}

// RedactView re-runs the cell checks of an already produced view.
// Redacted cells are left untouched: placeholders are stable values and
// are never themselves subject to classification checks, so applying the
// pass to its own output changes nothing. No audit events are emitted;
// the decisions were already recorded when the view was produced.
func (rd *Redactor) RedactView(p policy.Principal, v View) View {
	out := v
	out.Cells = make([]CellView, len(v.Cells))
	for i, cv := range v.Cells {
		if cv.Redacted {
			out.Cells[i] = cv
			continue
		}
		c := policy.Cell{
			Name:           cv.Name,
			Value:          cv.Value,
			Classification: cv.Classification,
			Compartments:   cv.Compartments,
		}
		out.Cells[i] = cellView(c, rd.engine.CheckCellVisibility(p, v.ID, c))
	}
	return out
}

func cellView(c policy.Cell, d policy.Decision) CellView {
	cv := CellView{
		Name:           c.Name,
		Classification: c.Classification,
		Decision:       d,
	}
	if d.Allowed {
		cv.Value = c.Value
		cv.Compartments = c.Compartments
		return cv
	}
	cv.Redacted = true
	cv.Value = placeholder(d.Reason)
	return cv
}

func placeholder(reason policy.DenialReason) string {
	if reason == policy.ReasonInsufficientClearance {
		return PlaceholderClearance
	}
	return PlaceholderNeedToKnow
}

func (rd *Redactor) record(ctx context.Context, v *View, ev audit.Event) {
	if err := rd.recorder.Record(ctx, ev); err != nil {
		if v.AuditErr == nil {
			v.AuditErr = err
		}
		rd.log.Error("audit sink failure", logger.Fields(
			logger.FieldResourceID, ev.ResourceID,
			logger.FieldField, ev.Field,
			logger.FieldError, err.Error(),
		))
	}
}
