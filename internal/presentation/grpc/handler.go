package grpc

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/lendingverse/credit-scoring/internal/application/dto"
	"github.com/lendingverse/credit-scoring/internal/application/usecase"
	"github.com/lendingverse/credit-scoring/internal/domain/model"
	"github.com/lendingverse/credit-scoring/internal/domain/port"
	"github.com/lendingverse/credit-scoring/internal/domain/service"
	"github.com/lendingverse/credit-scoring/pkg/observability"
)

// ScoringHandler implements the gRPC scoring service handler.
type ScoringHandler struct {
	UnimplementedScoringServiceServer
	scoreBorrower   *usecase.ScoreBorrowerUseCase
	listCategories  *usecase.ListCategoriesUseCase
	getAssessment   *usecase.GetAssessmentUseCase
	listAssessments *usecase.ListAssessmentsUseCase
	metrics         *observability.ScoringMetrics
	logger          *slog.Logger
}

// NewScoringHandler creates a new gRPC scoring handler. Metrics may be nil in
// tests.
func NewScoringHandler(
	scoreBorrower *usecase.ScoreBorrowerUseCase,
	listCategories *usecase.ListCategoriesUseCase,
	getAssessment *usecase.GetAssessmentUseCase,
	listAssessments *usecase.ListAssessmentsUseCase,
	metrics *observability.ScoringMetrics,
	logger *slog.Logger,
) *ScoringHandler {
	return &ScoringHandler{
		scoreBorrower:   scoreBorrower,
		listCategories:  listCategories,
		getAssessment:   getAssessment,
		listAssessments: listAssessments,
		metrics:         metrics,
		logger:          logger,
	}
}

// ScoreBorrowerRequest represents the gRPC request for scoring a borrower.
type ScoreBorrowerRequest struct {
	FinancialData     *dto.FinancialData     `json:"financial_data,omitempty"`
	BusinessData      *dto.BusinessData      `json:"business_data,omitempty"`
	CreditHistoryData *dto.CreditHistoryData `json:"credit_history_data,omitempty"`
	BorrowerID        string                 `json:"borrower_id,omitempty"`
}

// ScoreBorrowerResponse represents the gRPC response for scoring a borrower.
// The assessment document is returned even when persistence failed; Stored
// tells the caller whether it was archived.
type ScoreBorrowerResponse struct {
	Assessment model.Assessment `json:"assessment"`
	Stored     bool             `json:"stored"`
	StoredAt   string           `json:"stored_at,omitempty"`
}

// ListCategoriesRequest represents the gRPC request for the category table.
type ListCategoriesRequest struct{}

// CategoryEntry is one row of the credit category table.
type CategoryEntry struct {
	Category    string  `json:"category"`
	Score       float64 `json:"score"`
	Description string  `json:"description"`
}

// ListCategoriesResponse represents the gRPC response for the category table.
type ListCategoriesResponse struct {
	Categories []*CategoryEntry `json:"categories"`
}

// ScoreBorrower handles the gRPC ScoreBorrower request.
func (h *ScoringHandler) ScoreBorrower(ctx context.Context, req *ScoreBorrowerRequest) (*ScoreBorrowerResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}
	if req.FinancialData == nil && req.BusinessData == nil && req.CreditHistoryData == nil {
		return nil, status.Error(codes.InvalidArgument, "at least one data section is required")
	}

	started := time.Now()
	result, err := h.scoreBorrower.Execute(ctx, dto.ScoringRequest{
		FinancialData:     req.FinancialData,
		BusinessData:      req.BusinessData,
		CreditHistoryData: req.CreditHistoryData,
		BorrowerID:        req.BorrowerID,
	})

	stored := err == nil
	if err != nil {
		if !errors.Is(err, usecase.ErrAssessmentNotStored) {
			return nil, status.Error(codes.Internal, err.Error())
		}
		// The assessment was computed; report it and flag the storage gap.
		h.logger.Warn("assessment computed but not archived", "error", err)
	}

	if h.metrics != nil {
		heuristic := result.Assessment.Note == service.HeuristicNote
		h.metrics.ObserveAssessment(heuristic, result.Assessment.Failed(), time.Since(started))
	}

	return &ScoreBorrowerResponse{
		Assessment: result.Assessment,
		Stored:     stored,
		StoredAt:   result.StoredAt,
	}, nil
}

// ListCategories handles the gRPC ListCategories request.
func (h *ScoringHandler) ListCategories(_ context.Context, req *ListCategoriesRequest) (*ListCategoriesResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	rows := h.listCategories.Execute()
	categories := make([]*CategoryEntry, 0, len(rows))
	for _, row := range rows {
		categories = append(categories, &CategoryEntry{
			Category:    row.Category,
			Score:       row.Score,
			Description: row.Description,
		})
	}
	return &ListCategoriesResponse{Categories: categories}, nil
}

// GetAssessmentRequest represents the gRPC request for one archived assessment.
type GetAssessmentRequest struct {
	AssessmentID string `json:"assessment_id"`
}

// GetAssessmentResponse represents the gRPC response for one archived assessment.
type GetAssessmentResponse struct {
	Assessment model.Assessment `json:"assessment"`
}

// ListAssessmentsRequest represents the gRPC request for a borrower's history.
type ListAssessmentsRequest struct {
	BorrowerID string `json:"borrower_id"`
}

// ListAssessmentsResponse represents the gRPC response for a borrower's
// history, newest first.
type ListAssessmentsResponse struct {
	Assessments []model.Assessment `json:"assessments"`
}

// GetAssessment handles the gRPC GetAssessment request.
func (h *ScoringHandler) GetAssessment(ctx context.Context, req *GetAssessmentRequest) (*GetAssessmentResponse, error) {
	if req == nil || req.AssessmentID == "" {
		return nil, status.Error(codes.InvalidArgument, "assessment_id is required")
	}

	assessment, err := h.getAssessment.Execute(ctx, req.AssessmentID)
	if err != nil {
		return nil, archiveReadStatus(err)
	}
	return &GetAssessmentResponse{Assessment: assessment}, nil
}

// ListAssessments handles the gRPC ListAssessments request.
func (h *ScoringHandler) ListAssessments(ctx context.Context, req *ListAssessmentsRequest) (*ListAssessmentsResponse, error) {
	if req == nil || req.BorrowerID == "" {
		return nil, status.Error(codes.InvalidArgument, "borrower_id is required")
	}

	assessments, err := h.listAssessments.Execute(ctx, req.BorrowerID)
	if err != nil {
		return nil, archiveReadStatus(err)
	}
	return &ListAssessmentsResponse{Assessments: assessments}, nil
}

// archiveReadStatus maps archive read errors to transport codes.
func archiveReadStatus(err error) error {
	switch {
	case errors.Is(err, usecase.ErrArchiveUnavailable):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, port.ErrAssessmentNotFound):
		return status.Error(codes.NotFound, "assessment not found")
	default:
		return status.Error(codes.Internal, err.Error())
	}
}
