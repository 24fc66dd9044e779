package model

// ---------------------------------------------------------------------------
// Credit category reference table
// ---------------------------------------------------------------------------

// CreditCategory is a discrete credit-quality label, A (best) to E (worst).
type CreditCategory string

const (
	CategoryA CreditCategory = "A"
	CategoryB CreditCategory = "B"
	CategoryC CreditCategory = "C"
	CategoryD CreditCategory = "D"
	CategoryE CreditCategory = "E"
)

// CategoryDetails binds a category to its fixed numerical score and
// description. The table is a business constant, not derived from training
// data.
type CategoryDetails struct {
	Category    CreditCategory `json:"category"`
	Score       float64        `json:"score"`
	Description string         `json:"description"`
}

var categoryTable = []CategoryDetails{
	{CategoryA, 90, "Excellent credit, very low risk"},
	{CategoryB, 80, "Good credit, low risk"},
	{CategoryC, 70, "Fair credit, moderate risk"},
	{CategoryD, 60, "Below average credit, high risk"},
	{CategoryE, 50, "Poor credit, very high risk"},
}

// Categories returns the full reference table, best to worst.
func Categories() []CategoryDetails {
	out := make([]CategoryDetails, len(categoryTable))
	copy(out, categoryTable)
	return out
}

// LookupCategory returns the table entry for a category, and whether the
// category is known.
func LookupCategory(c CreditCategory) (CategoryDetails, bool) {
	for _, d := range categoryTable {
		if d.Category == c {
			return d, true
		}
	}
	return CategoryDetails{}, false
}

// CategoryForScore maps an overall 0-100 score to a category using the
// fixed boundary thresholds: >=90 A, >=80 B, >=70 C, >=60 D, else E.
func CategoryForScore(score float64) CreditCategory {
	switch {
	case score >= 90:
		return CategoryA
	case score >= 80:
		return CategoryB
	case score >= 70:
		return CategoryC
	case score >= 60:
		return CategoryD
	default:
		return CategoryE
	}
}
