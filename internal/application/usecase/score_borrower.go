package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/lendingverse/credit-scoring/internal/application/dto"
	"github.com/lendingverse/credit-scoring/internal/domain/event"
	"github.com/lendingverse/credit-scoring/internal/domain/model"
	"github.com/lendingverse/credit-scoring/internal/domain/port"
	"github.com/lendingverse/credit-scoring/internal/domain/service"
	"github.com/lendingverse/credit-scoring/internal/domain/valueobject"
)

// ErrAssessmentNotStored marks a scoring call whose assessment was computed
// but could not be persisted. The response carried alongside this error is
// still valid; callers decide whether to surface the storage failure.
var ErrAssessmentNotStored = errors.New("assessment not stored")

// ScoreBorrowerUseCase orchestrates one synchronous scoring call: raw records
// through ratio derivation, feature combination, the decision engine, and
// finally recording plus event publication.
type ScoreBorrowerUseCase struct {
	calculator *service.RatioCalculator
	combiner   *service.FeatureCombiner
	engine     *service.DecisionEngine
	recorder   port.AssessmentRecorder
	publisher  port.EventPublisher
	logger     *slog.Logger
}

// NewScoreBorrowerUseCase wires dependencies.
func NewScoreBorrowerUseCase(
	calculator *service.RatioCalculator,
	combiner *service.FeatureCombiner,
	engine *service.DecisionEngine,
	recorder port.AssessmentRecorder,
	publisher port.EventPublisher,
	logger *slog.Logger,
) *ScoreBorrowerUseCase {
	return &ScoreBorrowerUseCase{
		calculator: calculator,
		combiner:   combiner,
		engine:     engine,
		recorder:   recorder,
		publisher:  publisher,
		logger:     logger,
	}
}

// Execute scores exactly one borrower record set. The returned response is
// valid whenever err is nil or errors.Is(err, ErrAssessmentNotStored).
func (uc *ScoreBorrowerUseCase) Execute(
	ctx context.Context,
	req dto.ScoringRequest,
) (dto.ScoringResponse, error) {
	// 1. Derive per-source tables from whichever raw records are present.
	sources := service.SourceTables{}
	if req.FinancialData != nil {
		if rec := req.FinancialData.ToFinancialRecord(); !rec.IsEmpty() {
			sources[valueobject.SourceFinancial] = uc.calculator.FinancialRatios(rec)
		}
	}
	if req.BusinessData != nil {
		if rec := req.BusinessData.ToBusinessRecord(); !rec.IsEmpty() {
			sources[valueobject.SourceBusiness] = uc.calculator.BusinessDerived(rec)
		}
	}
	if req.CreditHistoryData != nil {
		if rec := req.CreditHistoryData.ToCreditHistoryRecord(); !rec.IsEmpty() {
			sources[valueobject.SourceCreditHistory] = uc.calculator.CreditHistoryDerived(rec)
		}
	}

	// 2. Combine into the single flat feature record.
	features := uc.combiner.Combine(sources)

	// 3. Decide. Assess never fails outright; errors arrive as an error field.
	assessment := uc.engine.Assess(sources, features)
	if req.BorrowerID != "" {
		assessment = assessment.WithBorrowerID(req.BorrowerID)
	}

	assessmentID := uuid.New().String()

	// 4. Record the assessment. A storage failure is surfaced distinctly and
	// does not invalidate the computed assessment.
	resp := dto.ScoringResponse{Assessment: assessment}
	storedAt, recordErr := uc.recorder.Record(ctx, assessment)
	if recordErr != nil {
		uc.logger.Error("failed to record assessment", "error", recordErr)
	} else {
		resp.StoredAt = storedAt
	}

	// 5. Publish the outcome event, after persistence so the event carries
	// the archive location. Publication is best-effort: a broker outage must
	// not fail a scoring call that already produced an answer.
	uc.publish(ctx, assessmentID, assessment, resp.StoredAt)

	if recordErr != nil {
		return resp, fmt.Errorf("%w: %v", ErrAssessmentNotStored, recordErr)
	}
	return resp, nil
}

// publish emits the domain event matching the assessment outcome.
func (uc *ScoreBorrowerUseCase) publish(ctx context.Context, assessmentID string, a model.Assessment, storedAt string) {
	var evt event.DomainEvent
	if a.Failed() {
		evt = event.NewAssessmentFailed(assessmentID, a.BorrowerID, a.Error)
	} else {
		evt = event.NewAssessmentCompleted(
			assessmentID, a.BorrowerID,
			string(a.CreditScore.Category), a.CreditScore.NumericalScore,
			a.DefaultProbability, a.RiskAssessment.RiskLevel,
			a.Note == service.HeuristicNote, storedAt,
		)
	}
	if err := uc.publisher.Publish(ctx, evt); err != nil {
		uc.logger.Warn("failed to publish assessment event",
			"event_type", evt.EventType(), "error", err)
	}
}
