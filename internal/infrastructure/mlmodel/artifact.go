// Package mlmodel loads trained model artifacts and adapts them to the
// domain's classifier and estimator ports. Artifacts are versioned JSON
// blobs exported by the offline training pipeline; this package never
// trains anything.
package mlmodel

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/lendingverse/credit-scoring/internal/domain/port"
)

const (
	// schemaVersion is the artifact schema this build understands.
	schemaVersion = 1

	kindCategoryClassifier = "category_classifier"
	kindDefaultEstimator   = "default_estimator"
)

// subModelArtifact is one voting member of the category ensemble. Each class
// gets a linear score: intercept plus the weighted sum over the features
// present in the record; the sub-model votes its argmax class.
type subModelArtifact struct {
	Name       string                        `json:"name"`
	Intercepts map[string]float64            `json:"intercepts"`
	Weights    map[string]map[string]float64 `json:"weights"`
}

// classifierArtifact is the on-disk shape of a category classifier.
type classifierArtifact struct {
	SchemaVersion      int                `json:"schema_version"`
	Kind               string             `json:"kind"`
	Classes            []string           `json:"classes"`
	Models             []subModelArtifact `json:"models"`
	FeatureImportances map[string]float64 `json:"feature_importances,omitempty"`
}

// estimatorArtifact is the on-disk shape of a default-probability estimator:
// a logistic model over the feature record.
type estimatorArtifact struct {
	SchemaVersion int                `json:"schema_version"`
	Kind          string             `json:"kind"`
	Intercept     float64            `json:"intercept"`
	Weights       map[string]float64 `json:"weights"`
}

// LoadCategoryClassifier reads and validates a classifier artifact. The
// stored class list is sorted ascending at load time, which fixes the
// deterministic tie-break order used by ensemble voting.
func LoadCategoryClassifier(path string) (port.CategoryClassifier, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read classifier artifact: %w", err)
	}

	var artifact classifierArtifact
	if err := json.Unmarshal(raw, &artifact); err != nil {
		return nil, fmt.Errorf("decode classifier artifact %s: %w", path, err)
	}
	if artifact.SchemaVersion != schemaVersion {
		return nil, fmt.Errorf("classifier artifact %s: unsupported schema version %d", path, artifact.SchemaVersion)
	}
	if artifact.Kind != kindCategoryClassifier {
		return nil, fmt.Errorf("classifier artifact %s: unexpected kind %q", path, artifact.Kind)
	}
	if len(artifact.Classes) == 0 {
		return nil, fmt.Errorf("classifier artifact %s: no classes", path)
	}
	if len(artifact.Models) == 0 {
		return nil, fmt.Errorf("classifier artifact %s: no sub-models", path)
	}

	classes := make([]string, len(artifact.Classes))
	copy(classes, artifact.Classes)
	sort.Strings(classes)

	base := EnsembleClassifier{
		classes: classes,
		models:  artifact.Models,
	}

	if len(artifact.FeatureImportances) > 0 {
		return &RankedEnsembleClassifier{
			EnsembleClassifier: base,
			importances:        artifact.FeatureImportances,
		}, nil
	}
	return &base, nil
}

// LoadDefaultEstimator reads and validates an estimator artifact.
func LoadDefaultEstimator(path string) (port.DefaultEstimator, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read estimator artifact: %w", err)
	}

	var artifact estimatorArtifact
	if err := json.Unmarshal(raw, &artifact); err != nil {
		return nil, fmt.Errorf("decode estimator artifact %s: %w", path, err)
	}
	if artifact.SchemaVersion != schemaVersion {
		return nil, fmt.Errorf("estimator artifact %s: unsupported schema version %d", path, artifact.SchemaVersion)
	}
	if artifact.Kind != kindDefaultEstimator {
		return nil, fmt.Errorf("estimator artifact %s: unexpected kind %q", path, artifact.Kind)
	}
	if len(artifact.Weights) == 0 {
		return nil, fmt.Errorf("estimator artifact %s: no weights", path)
	}

	return &LogisticEstimator{
		intercept: artifact.Intercept,
		weights:   artifact.Weights,
	}, nil
}
