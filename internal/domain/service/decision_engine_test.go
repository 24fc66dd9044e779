package service

import (
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lendingverse/credit-scoring/internal/domain/model"
	"github.com/lendingverse/credit-scoring/internal/domain/valueobject"
)

type mockClassifier struct {
	predictFunc func(*valueobject.FeatureRecord) (model.CreditCategory, error)
}

func (m *mockClassifier) PredictCategory(r *valueobject.FeatureRecord) (model.CreditCategory, error) {
	return m.predictFunc(r)
}

// mockRankedClassifier additionally exposes feature importances.
type mockRankedClassifier struct {
	mockClassifier
	importances map[string]float64
}

func (m *mockRankedClassifier) FeatureImportances() map[string]float64 {
	return m.importances
}

type mockEstimator struct {
	predictFunc func(*valueobject.FeatureRecord) (float64, error)
}

func (m *mockEstimator) PredictDefaultProbability(r *valueobject.FeatureRecord) (float64, error) {
	return m.predictFunc(r)
}

func someFeatures() *valueobject.FeatureRecord {
	rec := valueobject.NewFeatureRecord()
	rec.Set("current_ratio", valueobject.Defined(2))
	return rec
}

func TestAssessInsufficientData(t *testing.T) {
	engine := NewDecisionEngine(nil, nil, testLogger())

	a := engine.Assess(SourceTables{}, valueobject.NewFeatureRecord())
	require.True(t, a.Failed())
	assert.Equal(t, "insufficient data for credit scoring", a.Error)
	assert.Nil(t, a.CreditScore)
	assert.False(t, a.Timestamp.IsZero())
}

func TestHeuristicNoFactorsDefaultsToMiddleScore(t *testing.T) {
	engine := NewDecisionEngine(nil, nil, testLogger())

	// Features exist but no source table carries a heuristic factor.
	a := engine.Assess(SourceTables{}, someFeatures())
	require.False(t, a.Failed())
	require.NotNil(t, a.CreditScore)
	assert.Equal(t, model.CategoryE, a.CreditScore.Category)
	assert.Equal(t, 50.0, a.CreditScore.NumericalScore)
	assert.Equal(t, 0.5, a.DefaultProbability)
	assert.Equal(t, HeuristicNote, a.Note)
	assert.Equal(t, "Very High", a.RiskAssessment.RiskLevel)
}

func TestHeuristicPerfectFactors(t *testing.T) {
	engine := NewDecisionEngine(nil, nil, testLogger())

	fin := valueobject.NewDerivedTable()
	fin.Set("return_on_assets", valueobject.Defined(1.5)) // clamps to 100
	fin.Set("current_ratio", valueobject.Defined(4))      // 4*25 = 100
	fin.Set("debt_to_equity", valueobject.Defined(0))     // 100-0 = 100

	a := engine.Assess(SourceTables{valueobject.SourceFinancial: fin}, someFeatures())
	require.False(t, a.Failed())
	assert.Equal(t, model.CategoryA, a.CreditScore.Category)
	assert.Equal(t, 90.0, a.CreditScore.NumericalScore)
	assert.Equal(t, 0.0, a.DefaultProbability)
	assert.Equal(t, "Very Low", a.RiskAssessment.RiskLevel)
	assert.Equal(t, "Highly recommended for approval", a.RiskAssessment.Recommendation)
}

func TestHeuristicMixedFactors(t *testing.T) {
	engine := NewDecisionEngine(nil, nil, testLogger())

	biz := valueobject.NewDerivedTable()
	biz.Set("company_age", valueobject.Defined(10))  // 10*5 = 50
	biz.Set("industry_risk", valueobject.Defined(4)) // 100-40 = 60

	hist := valueobject.NewDerivedTable()
	hist.Set("payment_reliability", valueobject.Defined(85)) // used as-is
	hist.Set("previous_defaults", valueobject.Defined(1))    // 100-25 = 75

	a := engine.Assess(SourceTables{
		valueobject.SourceBusiness:      biz,
		valueobject.SourceCreditHistory: hist,
	}, someFeatures())

	// Mean of 50, 60, 85, 75 = 67.5 → category D.
	require.False(t, a.Failed())
	assert.Equal(t, model.CategoryD, a.CreditScore.Category)
	assert.Equal(t, 60.0, a.CreditScore.NumericalScore)
	assert.InDelta(t, 0.325, a.DefaultProbability, 1e-9)
}

func TestHeuristicSkipsUndefinedFactors(t *testing.T) {
	engine := NewDecisionEngine(nil, nil, testLogger())

	fin := valueobject.NewDerivedTable()
	fin.Set("return_on_assets", valueobject.Defined(0.5)) // 50
	fin.Set("debt_to_equity", valueobject.Undefined())    // zero equity, skipped

	a := engine.Assess(SourceTables{valueobject.SourceFinancial: fin}, someFeatures())
	require.False(t, a.Failed())
	// Only the defined factor contributes: overall 50 → E.
	assert.Equal(t, model.CategoryE, a.CreditScore.Category)
}

func TestHeuristicProbabilityBounds(t *testing.T) {
	engine := NewDecisionEngine(nil, nil, testLogger())
	rng := rand.New(rand.NewSource(1))

	for i := 0; i < 200; i++ {
		fin := valueobject.NewDerivedTable()
		fin.Set("return_on_assets", valueobject.Defined(rng.Float64()*4-2))
		fin.Set("current_ratio", valueobject.Defined(rng.Float64()*10))
		fin.Set("debt_to_equity", valueobject.Defined(rng.Float64()*12-2))

		biz := valueobject.NewDerivedTable()
		biz.Set("company_age", valueobject.Defined(rng.Float64()*40))
		biz.Set("industry_risk", valueobject.Defined(float64(rng.Intn(8))))

		hist := valueobject.NewDerivedTable()
		hist.Set("payment_reliability", valueobject.Defined(rng.Float64()*100))
		hist.Set("previous_defaults", valueobject.Defined(float64(rng.Intn(6))))

		a := engine.Assess(SourceTables{
			valueobject.SourceFinancial:     fin,
			valueobject.SourceBusiness:      biz,
			valueobject.SourceCreditHistory: hist,
		}, someFeatures())

		require.False(t, a.Failed())
		assert.GreaterOrEqual(t, a.DefaultProbability, 0.0)
		assert.LessOrEqual(t, a.DefaultProbability, 1.0)
		assert.Contains(t, []model.CreditCategory{
			model.CategoryA, model.CategoryB, model.CategoryC, model.CategoryD, model.CategoryE,
		}, a.CreditScore.Category)
	}
}

func TestModelPath(t *testing.T) {
	classifier := &mockClassifier{
		predictFunc: func(*valueobject.FeatureRecord) (model.CreditCategory, error) {
			return model.CategoryB, nil
		},
	}
	estimator := &mockEstimator{
		predictFunc: func(*valueobject.FeatureRecord) (float64, error) {
			return 0.08, nil
		},
	}
	engine := NewDecisionEngine(classifier, estimator, testLogger())

	a := engine.Assess(SourceTables{}, someFeatures())
	require.False(t, a.Failed())
	assert.Empty(t, a.Note)
	assert.Equal(t, model.CategoryB, a.CreditScore.Category)
	assert.Equal(t, 80.0, a.CreditScore.NumericalScore)
	assert.Equal(t, "Good credit, low risk", a.CreditScore.Description)
	assert.Equal(t, 0.08, a.DefaultProbability)
	assert.Equal(t, "Low", a.RiskAssessment.RiskLevel)
	// Plain classifier: no importances, no explanatory factors.
	assert.Empty(t, a.ExplanatoryFactors)
}

func TestModelPathClampsProbability(t *testing.T) {
	classifier := &mockClassifier{
		predictFunc: func(*valueobject.FeatureRecord) (model.CreditCategory, error) {
			return model.CategoryD, nil
		},
	}
	estimator := &mockEstimator{
		predictFunc: func(*valueobject.FeatureRecord) (float64, error) {
			return 1.7, nil
		},
	}
	engine := NewDecisionEngine(classifier, estimator, testLogger())

	a := engine.Assess(SourceTables{}, someFeatures())
	require.False(t, a.Failed())
	assert.Equal(t, 1.0, a.DefaultProbability)
	assert.Equal(t, "Very High", a.RiskAssessment.RiskLevel)
}

func TestModelPathClassifierError(t *testing.T) {
	classifier := &mockClassifier{
		predictFunc: func(*valueobject.FeatureRecord) (model.CreditCategory, error) {
			return "", errors.New("shape mismatch")
		},
	}
	engine := NewDecisionEngine(classifier, nil, testLogger())

	a := engine.Assess(SourceTables{}, someFeatures())
	require.True(t, a.Failed())
	assert.Contains(t, a.Error, "credit scoring failed")
	assert.Contains(t, a.Error, "shape mismatch")
}

func TestModelPathWithoutEstimator(t *testing.T) {
	classifier := &mockClassifier{
		predictFunc: func(*valueobject.FeatureRecord) (model.CreditCategory, error) {
			return model.CategoryA, nil
		},
	}
	engine := NewDecisionEngine(classifier, nil, testLogger())

	a := engine.Assess(SourceTables{}, someFeatures())
	require.False(t, a.Failed())
	assert.Equal(t, 0.0, a.DefaultProbability)
	assert.Equal(t, "Very Low", a.RiskAssessment.RiskLevel)
}

func TestExplanatoryFactors(t *testing.T) {
	features := valueobject.NewFeatureRecord()
	features.Set("current_ratio", valueobject.Defined(2.5))
	features.Set("debt_to_assets", valueobject.Defined(0.3))
	features.Set("revenue_growth", valueobject.Defined(-0.1))
	features.Set("payment_reliability", valueobject.Defined(90))
	features.Set("industry_risk", valueobject.Defined(4))
	features.Set("default_risk_score", valueobject.Defined(20))

	classifier := &mockRankedClassifier{
		mockClassifier: mockClassifier{
			predictFunc: func(*valueobject.FeatureRecord) (model.CreditCategory, error) {
				return model.CategoryB, nil
			},
		},
		importances: map[string]float64{
			"current_ratio":       0.30,
			"debt_to_assets":      0.25,
			"revenue_growth":      0.20,
			"payment_reliability": 0.15,
			"industry_risk":       0.06,
			"default_risk_score":  0.04,
		},
	}
	engine := NewDecisionEngine(classifier, nil, testLogger())

	a := engine.Assess(SourceTables{}, features)
	require.False(t, a.Failed())
	require.Len(t, a.ExplanatoryFactors, 5)

	// Sorted by importance, truncated to five.
	assert.Equal(t, "current_ratio", a.ExplanatoryFactors[0].Factor)
	assert.Equal(t, 0.30, a.ExplanatoryFactors[0].Importance)
	assert.Equal(t, "positive", a.ExplanatoryFactors[0].Impact)

	assert.Equal(t, "revenue_growth", a.ExplanatoryFactors[2].Factor)
	assert.Equal(t, "negative", a.ExplanatoryFactors[2].Impact)

	for _, f := range a.ExplanatoryFactors {
		assert.NotEqual(t, "default_risk_score", f.Factor, "sixth-ranked feature should be cut")
	}
}

func TestAssessRiskTiers(t *testing.T) {
	tests := []struct {
		category    model.CreditCategory
		probability float64
		wantLevel   string
	}{
		{model.CategoryA, 0.03, "Very Low"},
		{model.CategoryA, 0.07, "Low"},
		{model.CategoryB, 0.09, "Low"},
		{model.CategoryB, 0.12, "Moderate"},
		{model.CategoryC, 0.14, "Moderate"},
		{model.CategoryC, 0.20, "High"},
		{model.CategoryD, 0.24, "High"},
		{model.CategoryD, 0.25, "Very High"},
		{model.CategoryE, 0.01, "Very High"},
		{model.CategoryA, 0.5, "Very High"},
	}

	for _, tt := range tests {
		got := assessRisk(tt.category, tt.probability)
		assert.Equal(t, tt.wantLevel, got.RiskLevel, "%s @ %v", tt.category, tt.probability)
	}
}

func TestAssessTimestampUsesClock(t *testing.T) {
	fixed := time.Date(2026, 2, 3, 4, 5, 6, 0, time.UTC)
	engine := NewDecisionEngine(nil, nil, testLogger()).WithClock(func() time.Time { return fixed })

	a := engine.Assess(SourceTables{}, someFeatures())
	assert.Equal(t, fixed, a.Timestamp)
}
