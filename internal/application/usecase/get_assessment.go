package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/lendingverse/credit-scoring/internal/domain/model"
	"github.com/lendingverse/credit-scoring/internal/domain/port"
)

// ErrArchiveUnavailable is returned by the read-side use cases when the
// service runs without a database archive (file-store recording only).
var ErrArchiveUnavailable = errors.New("assessment archive not configured")

// GetAssessmentUseCase retrieves one archived assessment by its identifier.
type GetAssessmentUseCase struct {
	finder port.AssessmentFinder
}

// NewGetAssessmentUseCase wires dependencies. The finder may be nil when no
// archive is configured.
func NewGetAssessmentUseCase(finder port.AssessmentFinder) *GetAssessmentUseCase {
	return &GetAssessmentUseCase{finder: finder}
}

// Execute returns the archived assessment for the given identifier.
func (uc *GetAssessmentUseCase) Execute(ctx context.Context, id string) (model.Assessment, error) {
	if uc.finder == nil {
		return model.Assessment{}, ErrArchiveUnavailable
	}
	assessment, err := uc.finder.FindByID(ctx, id)
	if err != nil {
		return model.Assessment{}, fmt.Errorf("find assessment: %w", err)
	}
	return assessment, nil
}

// ListAssessmentsUseCase retrieves a borrower's archived assessments,
// newest first.
type ListAssessmentsUseCase struct {
	finder port.AssessmentFinder
}

// NewListAssessmentsUseCase wires dependencies. The finder may be nil when no
// archive is configured.
func NewListAssessmentsUseCase(finder port.AssessmentFinder) *ListAssessmentsUseCase {
	return &ListAssessmentsUseCase{finder: finder}
}

// Execute returns every archived assessment for the given borrower.
func (uc *ListAssessmentsUseCase) Execute(ctx context.Context, borrowerID string) ([]model.Assessment, error) {
	if uc.finder == nil {
		return nil, ErrArchiveUnavailable
	}
	assessments, err := uc.finder.FindByBorrowerID(ctx, borrowerID)
	if err != nil {
		return nil, fmt.Errorf("find assessments: %w", err)
	}
	return assessments, nil
}
