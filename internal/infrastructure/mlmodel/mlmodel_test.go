package mlmodel

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lendingverse/credit-scoring/internal/domain/model"
	"github.com/lendingverse/credit-scoring/internal/domain/port"
	"github.com/lendingverse/credit-scoring/internal/domain/valueobject"
)

func writeArtifact(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const validClassifier = `{
	"schema_version": 1,
	"kind": "category_classifier",
	"classes": ["C", "A", "B"],
	"models": [
		{
			"name": "m1",
			"intercepts": {"A": 1.0, "B": 0.0, "C": 0.0},
			"weights": {"A": {"current_ratio": 1.0}, "B": {}, "C": {}}
		},
		{
			"name": "m2",
			"intercepts": {"A": 2.0, "B": 0.0, "C": 0.0},
			"weights": {"A": {}, "B": {}, "C": {}}
		},
		{
			"name": "m3",
			"intercepts": {"A": 0.0, "B": 5.0, "C": 0.0},
			"weights": {"A": {}, "B": {}, "C": {}}
		}
	],
	"feature_importances": {"current_ratio": 0.6, "debt_to_assets": 0.4}
}`

func featuresWith(t *testing.T, pairs map[string]float64) *valueobject.FeatureRecord {
	t.Helper()
	rec := valueobject.NewFeatureRecord()
	for name, v := range pairs {
		rec.Set(name, valueobject.Defined(v))
	}
	return rec
}

func TestLoadCategoryClassifierSortsClasses(t *testing.T) {
	path := writeArtifact(t, "classifier.json", validClassifier)

	classifier, err := LoadCategoryClassifier(path)
	require.NoError(t, err)

	ranked, ok := classifier.(*RankedEnsembleClassifier)
	require.True(t, ok, "importances present, expected ranked classifier")
	assert.Equal(t, []string{"A", "B", "C"}, ranked.Classes())
	assert.Equal(t, map[string]float64{"current_ratio": 0.6, "debt_to_assets": 0.4}, ranked.FeatureImportances())
}

func TestLoadCategoryClassifierWithoutImportances(t *testing.T) {
	path := writeArtifact(t, "classifier.json", `{
		"schema_version": 1,
		"kind": "category_classifier",
		"classes": ["A", "B"],
		"models": [{"name": "m", "intercepts": {"A": 1}, "weights": {}}]
	}`)

	classifier, err := LoadCategoryClassifier(path)
	require.NoError(t, err)

	_, ranked := classifier.(port.ImportanceRanker)
	assert.False(t, ranked, "no importances, classifier must not claim the ranking capability")
}

func TestLoadCategoryClassifierRejectsBadArtifacts(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"wrong schema version", `{"schema_version": 2, "kind": "category_classifier", "classes": ["A"], "models": [{}]}`},
		{"wrong kind", `{"schema_version": 1, "kind": "default_estimator", "classes": ["A"], "models": [{}]}`},
		{"no classes", `{"schema_version": 1, "kind": "category_classifier", "classes": [], "models": [{}]}`},
		{"no models", `{"schema_version": 1, "kind": "category_classifier", "classes": ["A"], "models": []}`},
		{"not json", `not json at all`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeArtifact(t, "bad.json", tt.content)
			_, err := LoadCategoryClassifier(path)
			assert.Error(t, err)
		})
	}
}

func TestLoadCategoryClassifierMissingFile(t *testing.T) {
	_, err := LoadCategoryClassifier(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestEnsembleMajorityVote(t *testing.T) {
	path := writeArtifact(t, "classifier.json", validClassifier)
	classifier, err := LoadCategoryClassifier(path)
	require.NoError(t, err)

	// m1 and m2 vote A (positive intercept), m3 votes B: majority A.
	category, err := classifier.PredictCategory(featuresWith(t, map[string]float64{"current_ratio": 1}))
	require.NoError(t, err)
	assert.Equal(t, model.CategoryA, category)
}

func TestEnsembleTieBreaksToEarliestClass(t *testing.T) {
	path := writeArtifact(t, "classifier.json", `{
		"schema_version": 1,
		"kind": "category_classifier",
		"classes": ["B", "A"],
		"models": [
			{"name": "m1", "intercepts": {"A": 1, "B": 0}, "weights": {}},
			{"name": "m2", "intercepts": {"A": 0, "B": 1}, "weights": {}}
		]
	}`)
	classifier, err := LoadCategoryClassifier(path)
	require.NoError(t, err)

	// One vote each; the earliest class in the sorted list wins.
	category, err := classifier.PredictCategory(featuresWith(t, map[string]float64{"x": 1}))
	require.NoError(t, err)
	assert.Equal(t, model.CategoryA, category)
}

func TestEnsembleSubModelTieBreak(t *testing.T) {
	path := writeArtifact(t, "classifier.json", `{
		"schema_version": 1,
		"kind": "category_classifier",
		"classes": ["A", "B"],
		"models": [
			{"name": "m", "intercepts": {"A": 0, "B": 0}, "weights": {}}
		]
	}`)
	classifier, err := LoadCategoryClassifier(path)
	require.NoError(t, err)

	// Equal scores inside the sub-model vote for the earliest class.
	category, err := classifier.PredictCategory(featuresWith(t, map[string]float64{"x": 1}))
	require.NoError(t, err)
	assert.Equal(t, model.CategoryA, category)
}

func TestEnsembleEmptyFeatures(t *testing.T) {
	path := writeArtifact(t, "classifier.json", validClassifier)
	classifier, err := LoadCategoryClassifier(path)
	require.NoError(t, err)

	_, err = classifier.PredictCategory(valueobject.NewFeatureRecord())
	assert.Error(t, err)
}

func TestLoadDefaultEstimator(t *testing.T) {
	path := writeArtifact(t, "estimator.json", `{
		"schema_version": 1,
		"kind": "default_estimator",
		"intercept": 0,
		"weights": {"debt_to_assets": 2.0}
	}`)
	estimator, err := LoadDefaultEstimator(path)
	require.NoError(t, err)

	// z = 2 * 0.5 = 1 → sigmoid(1).
	p, err := estimator.PredictDefaultProbability(featuresWith(t, map[string]float64{"debt_to_assets": 0.5}))
	require.NoError(t, err)
	assert.InDelta(t, 1/(1+math.Exp(-1)), p, 1e-9)
}

func TestEstimatorIgnoresUnknownFeatures(t *testing.T) {
	path := writeArtifact(t, "estimator.json", `{
		"schema_version": 1,
		"kind": "default_estimator",
		"intercept": 0,
		"weights": {"debt_to_assets": 3.0}
	}`)
	estimator, err := LoadDefaultEstimator(path)
	require.NoError(t, err)

	// No weighted feature present: z stays at the intercept.
	p, err := estimator.PredictDefaultProbability(featuresWith(t, map[string]float64{"current_ratio": 2}))
	require.NoError(t, err)
	assert.InDelta(t, 0.5, p, 1e-9)
}

func TestEstimatorProbabilityBounds(t *testing.T) {
	path := writeArtifact(t, "estimator.json", `{
		"schema_version": 1,
		"kind": "default_estimator",
		"intercept": 50,
		"weights": {"x": 100}
	}`)
	estimator, err := LoadDefaultEstimator(path)
	require.NoError(t, err)

	p, err := estimator.PredictDefaultProbability(featuresWith(t, map[string]float64{"x": 100}))
	require.NoError(t, err)
	assert.GreaterOrEqual(t, p, 0.0)
	assert.LessOrEqual(t, p, 1.0)
}

func TestLoadDefaultEstimatorRejectsBadArtifacts(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"wrong schema version", `{"schema_version": 9, "kind": "default_estimator", "weights": {"x": 1}}`},
		{"wrong kind", `{"schema_version": 1, "kind": "category_classifier", "weights": {"x": 1}}`},
		{"no weights", `{"schema_version": 1, "kind": "default_estimator", "weights": {}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeArtifact(t, "bad.json", tt.content)
			_, err := LoadDefaultEstimator(path)
			assert.Error(t, err)
		})
	}
}
