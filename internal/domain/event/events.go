package event

import (
	"github.com/lendingverse/credit-scoring/pkg/events"
)

// DomainEvent is an alias for the shared pkg/events.DomainEvent interface.
type DomainEvent = events.DomainEvent

// ---------------------------------------------------------------------------
// Assessment events
// ---------------------------------------------------------------------------

// AssessmentCompleted is raised when a borrower was scored successfully.
type AssessmentCompleted struct {
	events.BaseEvent
	BorrowerID         string  `json:"borrower_id,omitempty"`
	Category           string  `json:"category"`
	NumericalScore     float64 `json:"numerical_score"`
	DefaultProbability float64 `json:"default_probability"`
	RiskLevel          string  `json:"risk_level"`
	HeuristicPath      bool    `json:"heuristic_path"`
	StoredAt           string  `json:"stored_at,omitempty"`
}

// NewAssessmentCompleted builds the completion event for one scoring call.
func NewAssessmentCompleted(
	assessmentID, borrowerID, category string,
	numericalScore, defaultProbability float64,
	riskLevel string,
	heuristicPath bool,
	storedAt string,
) AssessmentCompleted {
	return AssessmentCompleted{
		BaseEvent:          events.NewBaseEvent("scoring.assessment.completed", assessmentID, "Assessment"),
		BorrowerID:         borrowerID,
		Category:           category,
		NumericalScore:     numericalScore,
		DefaultProbability: defaultProbability,
		RiskLevel:          riskLevel,
		HeuristicPath:      heuristicPath,
		StoredAt:           storedAt,
	}
}

// AssessmentFailed is raised when a scoring call produced an error record,
// for example because no usable features survived combination.
type AssessmentFailed struct {
	events.BaseEvent
	BorrowerID string `json:"borrower_id,omitempty"`
	Reason     string `json:"reason"`
}

// NewAssessmentFailed builds the failure event for one scoring call.
func NewAssessmentFailed(assessmentID, borrowerID, reason string) AssessmentFailed {
	return AssessmentFailed{
		BaseEvent:  events.NewBaseEvent("scoring.assessment.failed", assessmentID, "Assessment"),
		BorrowerID: borrowerID,
		Reason:     reason,
	}
}
