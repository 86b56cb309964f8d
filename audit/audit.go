// Package audit defines the decision audit contract. Every resource- and
// cell-level decision is emitted exactly once, synchronously, to a
// Recorder; a failing sink is reported by the caller but never allowed
// to change or abort the decision already made.
package audit

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/skubra/cleargate/classification"
	"github.com/skubra/cleargate/policy"
)

// Actions recorded by the decision engine.
const (
	ActionResourceDecision = "RESOURCE_DECISION"
	ActionCellDecision     = "CELL_DECISION"
)

// Event is one audited access decision.
type Event struct {
	ID                     uuid.UUID
	Time                   time.Time
	Username               string
	Organization           string
	Clearance              classification.Level
	Action                 string
	ResourceID             string
	ResourceTitle          string
	Field                  string
	ClassificationRequired classification.Level
	CompartmentsRequired   []string
	Allowed                bool
	DenialReason           string
}

// Recorder receives audit events. Implementations live outside the core
// (database writers, message producers); the core only guarantees the
// emission contract.
type Recorder interface {
	Record(ctx context.Context, ev Event) error
}

// RecorderFunc adapts a function to the Recorder interface.
type RecorderFunc func(ctx context.Context, ev Event) error

// Record implements Recorder.
func (f RecorderFunc) Record(ctx context.Context, ev Event) error {
	return f(ctx, ev)
}

// ResourceEvent builds the event for a resource-level decision.
func ResourceEvent(p policy.Principal, r policy.Resource, d policy.Decision) Event {
	return Event{
		ID:                     uuid.New(),
		Time:                   time.Now().UTC(),
		Username:               p.Username,
		Organization:           p.Organization,
		Clearance:              p.Clearance,
		Action:                 ActionResourceDecision,
		ResourceID:             r.ID,
		ResourceTitle:          r.Title,
		ClassificationRequired: r.Classification,
		CompartmentsRequired:   r.NTKCompartments,
		Allowed:                d.Allowed,
		DenialReason:           denialReason(d),
	}
}

// CellEvent builds the event for a cell-level decision.
func CellEvent(p policy.Principal, r policy.Resource, c policy.Cell, d policy.Decision) Event {
	return Event{
		ID:                     uuid.New(),
		Time:                   time.Now().UTC(),
		Username:               p.Username,
		Organization:           p.Organization,
		Clearance:              p.Clearance,
		Action:                 ActionCellDecision,
		ResourceID:             r.ID,
		ResourceTitle:          r.Title,
		Field:                  c.Name,
		ClassificationRequired: c.Classification,
		CompartmentsRequired:   c.Compartments,
		Allowed:                d.Allowed,
		DenialReason:           denialReason(d),
	}
}

func denialReason(d policy.Decision) string {
	if d.Allowed {
		return ""
	}
	return d.String()
}
