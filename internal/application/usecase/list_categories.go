package usecase

import (
	"github.com/lendingverse/credit-scoring/internal/application/dto"
	"github.com/lendingverse/credit-scoring/internal/domain/model"
)

// ListCategoriesUseCase exposes the immutable credit category reference
// table.
type ListCategoriesUseCase struct{}

// NewListCategoriesUseCase creates the use case.
func NewListCategoriesUseCase() *ListCategoriesUseCase {
	return &ListCategoriesUseCase{}
}

// Execute returns the category table, best to worst.
func (uc *ListCategoriesUseCase) Execute() []dto.CategoryResponse {
	categories := model.Categories()
	out := make([]dto.CategoryResponse, 0, len(categories))
	for _, c := range categories {
		out = append(out, dto.CategoryResponse{
			Category:    string(c.Category),
			Score:       c.Score,
			Description: c.Description,
		})
	}
	return out
}
