package mlmodel

import (
	"errors"
	"math"

	"github.com/lendingverse/credit-scoring/internal/domain/valueobject"
)

// LogisticEstimator predicts default probability with a logistic model,
// implementing port.DefaultEstimator. Read-only after load.
type LogisticEstimator struct {
	intercept float64
	weights   map[string]float64
}

// PredictDefaultProbability returns the probability of the positive
// (default) class, always within [0, 1].
func (e *LogisticEstimator) PredictDefaultProbability(features *valueobject.FeatureRecord) (float64, error) {
	if features.IsEmpty() {
		return 0, errors.New("empty feature record")
	}

	z := e.intercept
	for feature, weight := range e.weights {
		if v, ok := features.Get(feature).Float(); ok {
			z += weight * v
		}
	}

	p := 1 / (1 + math.Exp(-z))
	return math.Min(math.Max(p, 0), 1), nil
}
