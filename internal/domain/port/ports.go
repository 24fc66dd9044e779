package port

import (
	"context"
	"errors"

	"github.com/lendingverse/credit-scoring/internal/domain/event"
	"github.com/lendingverse/credit-scoring/internal/domain/model"
	"github.com/lendingverse/credit-scoring/internal/domain/valueobject"
)

// ErrAssessmentNotFound is returned by finders when a lookup matches no
// archived assessment.
var ErrAssessmentNotFound = errors.New("assessment not found")

// ---------------------------------------------------------------------------
// Model ports (driven adapters around trained artifacts)
// ---------------------------------------------------------------------------

// CategoryClassifier predicts the credit category for a feature record.
// Implementations are read-only after load and safe for concurrent use.
type CategoryClassifier interface {
	PredictCategory(features *valueobject.FeatureRecord) (model.CreditCategory, error)
}

// ImportanceRanker is a capability interface: classifiers that can rank
// per-feature importances implement it in addition to CategoryClassifier.
// Callers query the capability explicitly instead of probing attributes.
type ImportanceRanker interface {
	FeatureImportances() map[string]float64
}

// DefaultEstimator predicts the probability that a borrower defaults,
// independently of the category classifier.
type DefaultEstimator interface {
	PredictDefaultProbability(features *valueobject.FeatureRecord) (float64, error)
}

// ---------------------------------------------------------------------------
// Persistence and messaging ports
// ---------------------------------------------------------------------------

// AssessmentRecorder persists a completed assessment and returns its storage
// location (file path, row key). The assessment is never mutated.
type AssessmentRecorder interface {
	Record(ctx context.Context, assessment model.Assessment) (string, error)
}

// AssessmentFinder reads back archived assessments. Only database-backed
// recorders implement it; the plain file store does not.
type AssessmentFinder interface {
	FindByID(ctx context.Context, id string) (model.Assessment, error)
	FindByBorrowerID(ctx context.Context, borrowerID string) ([]model.Assessment, error)
}

// EventPublisher publishes domain events to external consumers.
type EventPublisher interface {
	Publish(ctx context.Context, events ...event.DomainEvent) error
}
