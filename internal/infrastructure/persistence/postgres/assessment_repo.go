package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/lendingverse/credit-scoring/internal/domain/model"
	"github.com/lendingverse/credit-scoring/internal/domain/port"
	pgshared "github.com/lendingverse/credit-scoring/pkg/postgres"
)

// AssessmentRepo implements port.AssessmentRecorder and port.AssessmentFinder
// against PostgreSQL. The full assessment document is archived as jsonb
// alongside indexed columns for querying.
type AssessmentRepo struct {
	db pgshared.Querier
}

// NewAssessmentRepo creates a new repository backed by PostgreSQL. Both a
// pgxpool.Pool and a pgx.Tx satisfy the Querier contract.
func NewAssessmentRepo(db pgshared.Querier) *AssessmentRepo {
	return &AssessmentRepo{db: db}
}

// Record archives the assessment and returns the generated row identifier.
func (r *AssessmentRepo) Record(ctx context.Context, assessment model.Assessment) (string, error) {
	payload, err := json.Marshal(assessment)
	if err != nil {
		return "", fmt.Errorf("marshal assessment: %w", err)
	}

	var (
		category string
		score    float64
	)
	if assessment.CreditScore != nil {
		category = string(assessment.CreditScore.Category)
		score = assessment.CreditScore.NumericalScore
	}

	id := uuid.New().String()
	query := `
		INSERT INTO assessments (
			id, borrower_id, category, numerical_score,
			default_probability, failed, payload, created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`
	_, err = r.db.Exec(ctx, query,
		id, assessment.BorrowerID, category, score,
		assessment.DefaultProbability, assessment.Failed(), payload, time.Now().UTC(),
	)
	if err != nil {
		return "", fmt.Errorf("archive assessment: %w", err)
	}
	return id, nil
}

// FindByID retrieves a single archived assessment document.
func (r *AssessmentRepo) FindByID(ctx context.Context, id string) (model.Assessment, error) {
	query := `SELECT payload FROM assessments WHERE id = $1`

	var payload []byte
	err := r.db.QueryRow(ctx, query, id).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Assessment{}, port.ErrAssessmentNotFound
	}
	if err != nil {
		return model.Assessment{}, fmt.Errorf("query assessment: %w", err)
	}
	return decodeAssessment(payload)
}

// FindByBorrowerID retrieves all archived assessments for a borrower, newest
// first.
func (r *AssessmentRepo) FindByBorrowerID(ctx context.Context, borrowerID string) ([]model.Assessment, error) {
	query := `
		SELECT payload FROM assessments
		WHERE borrower_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(ctx, query, borrowerID)
	if err != nil {
		return nil, fmt.Errorf("query assessments: %w", err)
	}
	defer rows.Close()

	var result []model.Assessment
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan assessment: %w", err)
		}
		assessment, err := decodeAssessment(payload)
		if err != nil {
			return nil, err
		}
		result = append(result, assessment)
	}
	return result, rows.Err()
}

func decodeAssessment(payload []byte) (model.Assessment, error) {
	var assessment model.Assessment
	if err := json.Unmarshal(payload, &assessment); err != nil {
		return model.Assessment{}, fmt.Errorf("decode assessment payload: %w", err)
	}
	return assessment, nil
}
