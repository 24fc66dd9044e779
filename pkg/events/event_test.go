package events

import (
	"testing"
	"time"
)

func TestNewBaseEvent(t *testing.T) {
	before := time.Now().UTC()
	event := NewBaseEvent("scoring.assessment.completed", "assessment-123", "Assessment")
	after := time.Now().UTC()

	if event.EventID() == "" {
		t.Error("expected non-empty event ID")
	}

	if event.EventType() != "scoring.assessment.completed" {
		t.Errorf("expected event type %q, got %q", "scoring.assessment.completed", event.EventType())
	}

	if event.AggregateID() != "assessment-123" {
		t.Errorf("expected aggregate ID %q, got %q", "assessment-123", event.AggregateID())
	}

	if event.AggregateType() != "Assessment" {
		t.Errorf("expected aggregate type %q, got %q", "Assessment", event.AggregateType())
	}

	if event.OccurredAt().Before(before) || event.OccurredAt().After(after) {
		t.Errorf("expected occurredAt between %v and %v, got %v", before, after, event.OccurredAt())
	}
}

func TestNewBaseEvent_UniqueIDs(t *testing.T) {
	a := NewBaseEvent("scoring.assessment.completed", "assessment-123", "Assessment")
	b := NewBaseEvent("scoring.assessment.completed", "assessment-123", "Assessment")

	if a.EventID() == b.EventID() {
		t.Error("expected distinct event IDs for distinct events")
	}
}
