package service

import (
	"fmt"
	"log/slog"
	"math"
	"sort"
	"time"

	"github.com/lendingverse/credit-scoring/internal/domain/model"
	"github.com/lendingverse/credit-scoring/internal/domain/port"
	"github.com/lendingverse/credit-scoring/internal/domain/valueobject"
)

// HeuristicNote flags an assessment produced by the rule-based fallback path
// so callers can tell the two paths apart.
const HeuristicNote = "Heuristic scoring used (models not loaded)"

const errInsufficientData = "insufficient data for credit scoring"

// DecisionEngine turns a combined feature record into a credit assessment.
// Exactly one of two paths is taken per call: the model path when a category
// classifier is configured, otherwise the documented heuristic path. The
// engine holds only read-only state after construction and is safe to share
// across concurrent scoring calls.
type DecisionEngine struct {
	classifier port.CategoryClassifier
	estimator  port.DefaultEstimator
	logger     *slog.Logger
	now        func() time.Time
}

// NewDecisionEngine wires the optional model handles. Either or both may be
// nil; a nil classifier selects the heuristic path.
func NewDecisionEngine(
	classifier port.CategoryClassifier,
	estimator port.DefaultEstimator,
	logger *slog.Logger,
) *DecisionEngine {
	return &DecisionEngine{
		classifier: classifier,
		estimator:  estimator,
		logger:     logger,
		now:        time.Now,
	}
}

// WithClock replaces the engine's clock; used by tests for fixed timestamps.
func (e *DecisionEngine) WithClock(now func() time.Time) *DecisionEngine {
	e.now = now
	return e
}

// Assess scores one borrower. It never returns a Go error and never panics:
// every failure is folded into the Error field of the returned assessment.
func (e *DecisionEngine) Assess(
	sources SourceTables,
	features *valueobject.FeatureRecord,
) (out model.Assessment) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("credit scoring panicked", "panic", r)
			out = model.FailedAssessment(fmt.Sprintf("credit scoring failed: %v", r), e.now().UTC())
		}
	}()

	if features.IsEmpty() {
		return model.FailedAssessment(errInsufficientData, e.now().UTC())
	}

	if e.classifier == nil {
		return e.heuristicAssess(sources)
	}
	return e.modelAssess(features)
}

// ---------------------------------------------------------------------------
// Model path
// ---------------------------------------------------------------------------

func (e *DecisionEngine) modelAssess(features *valueobject.FeatureRecord) model.Assessment {
	category, err := e.classifier.PredictCategory(features)
	if err != nil {
		e.logger.Error("category prediction failed", "error", err)
		return model.FailedAssessment(fmt.Sprintf("credit scoring failed: %v", err), e.now().UTC())
	}

	probability := 0.0
	if e.estimator != nil {
		p, err := e.estimator.PredictDefaultProbability(features)
		if err != nil {
			e.logger.Error("default probability prediction failed", "error", err)
			return model.FailedAssessment(fmt.Sprintf("credit scoring failed: %v", err), e.now().UTC())
		}
		probability = clamp01(p)
	}

	score := creditScoreFor(category, 0)
	risk := assessRisk(category, probability)

	assessment := model.Assessment{
		CreditScore:        &score,
		DefaultProbability: probability,
		RiskAssessment:     &risk,
		Timestamp:          e.now().UTC(),
	}

	// Explanatory factors only when the classifier declares the capability.
	if ranker, ok := e.classifier.(port.ImportanceRanker); ok {
		assessment.ExplanatoryFactors = topFactors(ranker.FeatureImportances(), features, 5)
	}

	return assessment
}

// topFactors ranks the record's features by model importance (descending,
// name order breaking exact ties) and tags each with the sign of its value.
// Impact reflects the raw feature value, not the weighted contribution.
func topFactors(
	importances map[string]float64,
	features *valueobject.FeatureRecord,
	limit int,
) []model.ExplanatoryFactor {
	if len(importances) == 0 {
		return nil
	}

	names := features.Names()
	factors := make([]model.ExplanatoryFactor, 0, len(names))
	for _, name := range names {
		value, ok := features.Get(name).Float()
		if !ok {
			continue
		}
		impact := "negative"
		if value > 0 {
			impact = "positive"
		}
		factors = append(factors, model.ExplanatoryFactor{
			Factor:     name,
			Importance: importances[name],
			Value:      value,
			Impact:     impact,
		})
	}

	sort.SliceStable(factors, func(i, j int) bool {
		return factors[i].Importance > factors[j].Importance
	})

	if len(factors) > limit {
		factors = factors[:limit]
	}
	return factors
}

// ---------------------------------------------------------------------------
// Heuristic path
// ---------------------------------------------------------------------------

// heuristicAssess scores with documented rules when no classifier is loaded.
// This is a supported operating mode, not a degraded error mode; the result
// carries HeuristicNote so callers can inspect which path ran.
func (e *DecisionEngine) heuristicAssess(sources SourceTables) model.Assessment {
	e.logger.Info("using heuristic scoring, no category classifier loaded")

	var factors []float64
	appendFactor := func(m valueobject.Metric) {
		if v, ok := m.Float(); ok {
			factors = append(factors, v)
		}
	}

	if fin := sources[valueobject.SourceFinancial]; fin != nil {
		// Each factor is normalized to the 0-100 score range.
		appendFactor(valueobject.Clamp(valueobject.Scale(fin.Get("return_on_assets"), 100), 0, 100))
		appendFactor(valueobject.Clamp(valueobject.Scale(fin.Get("current_ratio"), 25), 0, 100))
		if dte, ok := fin.Get("debt_to_equity").Float(); ok {
			factors = append(factors, math.Min(math.Max(100-dte*20, 0), 100))
		}
	}

	if biz := sources[valueobject.SourceBusiness]; biz != nil {
		appendFactor(valueobject.Clamp(valueobject.Scale(biz.Get("company_age"), 5), 0, 100))
		if risk, ok := biz.Get("industry_risk").Float(); ok {
			factors = append(factors, math.Min(math.Max(100-risk*10, 0), 100))
		}
	}

	if credit := sources[valueobject.SourceCreditHistory]; credit != nil {
		appendFactor(credit.Get("payment_reliability"))
		if defaults, ok := credit.Get("previous_defaults").Float(); ok {
			factors = append(factors, math.Max(100-defaults*25, 0))
		}
	}

	// Middle score when nothing at all is available: an explicit documented
	// fallback rather than a silent zero.
	overall := 50.0
	if len(factors) > 0 {
		sum := 0.0
		for _, f := range factors {
			sum += f
		}
		overall = sum / float64(len(factors))
	}

	category := model.CategoryForScore(overall)
	probability := clamp01(1 - overall/100)

	score := creditScoreFor(category, overall)
	risk := assessRisk(category, probability)

	return model.Assessment{
		CreditScore:        &score,
		DefaultProbability: probability,
		RiskAssessment:     &risk,
		Timestamp:          e.now().UTC(),
		Note:               HeuristicNote,
	}
}

// ---------------------------------------------------------------------------
// Shared mapping helpers
// ---------------------------------------------------------------------------

// creditScoreFor resolves a category against the reference table. A category
// outside the table keeps the provided fallback score and reads "Unknown".
func creditScoreFor(category model.CreditCategory, fallbackScore float64) model.CreditScore {
	details, ok := model.LookupCategory(category)
	if !ok {
		return model.CreditScore{
			Category:       category,
			NumericalScore: fallbackScore,
			Description:    "Unknown",
		}
	}
	return model.CreditScore{
		Category:       details.Category,
		NumericalScore: details.Score,
		Description:    details.Description,
	}
}

// assessRisk maps category and default probability to a risk tier. Rules are
// evaluated top to bottom; the first match wins.
func assessRisk(category model.CreditCategory, probability float64) model.RiskAssessment {
	switch {
	case category == model.CategoryA && probability < 0.05:
		return model.RiskAssessment{
			RiskLevel:      "Very Low",
			Recommendation: "Highly recommended for approval",
		}
	case (category == model.CategoryA || category == model.CategoryB) && probability < 0.10:
		return model.RiskAssessment{
			RiskLevel:      "Low",
			Recommendation: "Recommended for approval",
		}
	case (category == model.CategoryB || category == model.CategoryC) && probability < 0.15:
		return model.RiskAssessment{
			RiskLevel:      "Moderate",
			Recommendation: "Consider approval with standard terms",
		}
	case (category == model.CategoryC || category == model.CategoryD) && probability < 0.25:
		return model.RiskAssessment{
			RiskLevel:      "High",
			Recommendation: "Consider approval with stricter terms",
		}
	default:
		return model.RiskAssessment{
			RiskLevel:      "Very High",
			Recommendation: "Not recommended for approval",
		}
	}
}

func clamp01(v float64) float64 {
	return math.Min(math.Max(v, 0), 1)
}
