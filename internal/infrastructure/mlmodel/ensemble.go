package mlmodel

import (
	"errors"

	"github.com/lendingverse/credit-scoring/internal/domain/model"
	"github.com/lendingverse/credit-scoring/internal/domain/valueobject"
)

// ---------------------------------------------------------------------------
// EnsembleClassifier – implements port.CategoryClassifier
// ---------------------------------------------------------------------------

// EnsembleClassifier predicts a credit category by uniform voting over its
// sub-models. Each sub-model votes exactly one class (a one-hot vector);
// votes are averaged with equal weight per sub-model and the class with the
// highest averaged vote wins. Ties break to the earliest class in the stored
// class list, which is sorted ascending at load time. Read-only after load.
type EnsembleClassifier struct {
	classes []string
	models  []subModelArtifact
}

// Classes returns the stored class list in tie-break order.
func (c *EnsembleClassifier) Classes() []string {
	out := make([]string, len(c.classes))
	copy(out, c.classes)
	return out
}

// PredictCategory runs the ensemble vote for one feature record.
func (c *EnsembleClassifier) PredictCategory(features *valueobject.FeatureRecord) (model.CreditCategory, error) {
	if features.IsEmpty() {
		return "", errors.New("empty feature record")
	}

	votes := make([]float64, len(c.classes))
	for _, sub := range c.models {
		idx := c.voteIndex(sub, features)
		votes[idx]++
	}
	for i := range votes {
		votes[i] /= float64(len(c.models))
	}

	best := 0
	for i := 1; i < len(votes); i++ {
		// Strict inequality keeps the earliest class on equal vote mass.
		if votes[i] > votes[best] {
			best = i
		}
	}
	return model.CreditCategory(c.classes[best]), nil
}

// voteIndex scores every class with one sub-model and returns the argmax
// index, again breaking ties toward the earliest class.
func (c *EnsembleClassifier) voteIndex(sub subModelArtifact, features *valueobject.FeatureRecord) int {
	values := features.Values()

	best, bestScore := 0, 0.0
	for i, class := range c.classes {
		score := sub.Intercepts[class]
		for feature, weight := range sub.Weights[class] {
			if v, ok := values[feature]; ok {
				score += weight * v
			}
		}
		if i == 0 || score > bestScore {
			best, bestScore = i, score
		}
	}
	return best
}

// RankedEnsembleClassifier is an ensemble whose artifact carries per-feature
// importances. It additionally implements port.ImportanceRanker, the
// capability queried by the decision engine before attaching explanatory
// factors.
type RankedEnsembleClassifier struct {
	EnsembleClassifier
	importances map[string]float64
}

// FeatureImportances returns the artifact's importance ranking.
func (c *RankedEnsembleClassifier) FeatureImportances() map[string]float64 {
	out := make(map[string]float64, len(c.importances))
	for k, v := range c.importances {
		out[k] = v
	}
	return out
}
