package audit

import (
	"context"
	"sync"

	"github.com/skubra/cleargate/logger"
)

// LogRecorder writes audit events as structured log lines.
type LogRecorder struct {
	log *logger.Logger
}

// NewLogRecorder creates a recorder writing through the given logger.
func NewLogRecorder(log *logger.Logger) *LogRecorder {
	if log == nil {
		log = logger.Nop()
	}
	return &LogRecorder{log: log.WithComponent("audit")}
}

// Record implements Recorder.
func (r *LogRecorder) Record(_ context.Context, ev Event) error {
	fields := logger.Fields(
		"event_id", ev.ID.String(),
		logger.FieldUsername, ev.Username,
		logger.FieldOrganization, ev.Organization,
		logger.FieldClearance, string(ev.Clearance),
		"action", ev.Action,
		logger.FieldResourceID, ev.ResourceID,
		logger.FieldClassification, string(ev.ClassificationRequired),
		"allowed", ev.Allowed,
	)
	if ev.Field != "" {
		fields[logger.FieldField] = ev.Field
	}
	if len(ev.CompartmentsRequired) > 0 {
		fields["compartments_required"] = ev.CompartmentsRequired
	}
	if ev.DenialReason != "" {
		fields[logger.FieldReason] = ev.DenialReason
	}
	r.log.Info("access decision", fields)
	return nil
}

// NopRecorder discards all events.
type NopRecorder struct{}

// Record implements Recorder.
func (NopRecorder) Record(context.Context, Event) error { return nil }

// MemoryRecorder collects events in memory for tests.
type MemoryRecorder struct {
	mu     sync.Mutex
	events []Event
}

// Record implements Recorder.
func (m *MemoryRecorder) Record(_ context.Context, ev Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, ev)
	return nil
}

// Events returns a copy of the recorded events.
func (m *MemoryRecorder) Events() []Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Event, len(m.events))
	copy(out, m.events)
	return out
}
