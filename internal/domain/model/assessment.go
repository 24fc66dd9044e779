package model

import "time"

// ---------------------------------------------------------------------------
// Assessment – the result of one scoring call
// ---------------------------------------------------------------------------

// CreditScore is the category portion of an assessment.
type CreditScore struct {
	Category       CreditCategory `json:"category"`
	NumericalScore float64        `json:"numerical_score"`
	Description    string         `json:"description"`
}

// RiskAssessment is the recommendation bucket derived from category and
// default probability.
type RiskAssessment struct {
	RiskLevel      string `json:"risk_level"`
	Recommendation string `json:"recommendation"`
}

// ExplanatoryFactor is one of the top contributors to a model-path decision.
// Impact reflects the sign of the feature value, not its weighted
// contribution.
type ExplanatoryFactor struct {
	Factor     string  `json:"factor"`
	Importance float64 `json:"importance"`
	Value      float64 `json:"value"`
	Impact     string  `json:"impact"` // "positive" or "negative"
}

// Assessment is created once per scoring call and never mutated afterwards.
// Failed scoring calls are still Assessments: they carry Error and a
// timestamp and nothing else. The JSON shape is the external contract that
// collaborating API layers serialize verbatim.
type Assessment struct {
	CreditScore        *CreditScore        `json:"credit_score,omitempty"`
	DefaultProbability float64             `json:"default_probability"`
	RiskAssessment     *RiskAssessment     `json:"risk_assessment,omitempty"`
	ExplanatoryFactors []ExplanatoryFactor `json:"explanatory_factors,omitempty"`
	Timestamp          time.Time           `json:"timestamp"`
	BorrowerID         string              `json:"borrower_id,omitempty"`
	Error              string              `json:"error,omitempty"`
	Note               string              `json:"note,omitempty"`
}

// Failed reports whether the assessment carries an error instead of a score.
func (a Assessment) Failed() bool { return a.Error != "" }

// WithBorrowerID returns a copy with the borrower identity attached.
func (a Assessment) WithBorrowerID(id string) Assessment {
	a.BorrowerID = id
	return a
}

// FailedAssessment builds an error-carrying assessment.
func FailedAssessment(msg string, now time.Time) Assessment {
	return Assessment{
		Error:     msg,
		Timestamp: now,
	}
}
