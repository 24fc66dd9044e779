// Package file persists assessments as timestamped JSON documents on the
// local filesystem.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/lendingverse/credit-scoring/internal/domain/model"
)

// filenameLayout produces credit_assessment_YYYYMMDD_HHMMSS.json. Collisions
// within the same second are a documented limitation; callers needing
// uniqueness inject a distinguishing borrower or request identifier.
const filenameLayout = "20060102_150405"

// AssessmentStore implements port.AssessmentRecorder with one JSON file per
// assessment.
type AssessmentStore struct {
	dir    string
	logger *slog.Logger
	now    func() time.Time
}

// NewAssessmentStore creates a store writing into dir.
func NewAssessmentStore(dir string, logger *slog.Logger) *AssessmentStore {
	return &AssessmentStore{dir: dir, logger: logger, now: time.Now}
}

// WithClock replaces the store's clock; used by tests for fixed filenames.
func (s *AssessmentStore) WithClock(now func() time.Time) *AssessmentStore {
	s.now = now
	return s
}

// Record writes the assessment and returns the file path. The assessment is
// never mutated.
func (s *AssessmentStore) Record(_ context.Context, assessment model.Assessment) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create assessment dir: %w", err)
	}

	filename := fmt.Sprintf("credit_assessment_%s.json", s.now().Format(filenameLayout))
	path := filepath.Join(s.dir, filename)

	payload, err := json.MarshalIndent(assessment, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal assessment: %w", err)
	}
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		return "", fmt.Errorf("write assessment file: %w", err)
	}

	s.logger.Info("assessment saved", "path", path)
	return path, nil
}

// Load reads a previously recorded assessment back from disk.
func (s *AssessmentStore) Load(path string) (model.Assessment, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return model.Assessment{}, fmt.Errorf("read assessment file: %w", err)
	}

	var assessment model.Assessment
	if err := json.Unmarshal(raw, &assessment); err != nil {
		return model.Assessment{}, fmt.Errorf("decode assessment file %s: %w", path, err)
	}
	return assessment, nil
}
