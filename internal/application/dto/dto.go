package dto

import (
	"github.com/shopspring/decimal"

	"github.com/lendingverse/credit-scoring/internal/domain/model"
	"github.com/lendingverse/credit-scoring/internal/domain/valueobject"
)

// ---------------------------------------------------------------------------
// Request DTOs
// ---------------------------------------------------------------------------

// FinancialData carries a borrower's financial statement figures. Every field
// is optional; monetary amounts are decimals so JSON values survive parsing
// exactly and are converted to floats only at the domain boundary.
type FinancialData struct {
	CurrentAssets      *decimal.Decimal `json:"current_assets,omitempty"`
	CurrentLiabilities *decimal.Decimal `json:"current_liabilities,omitempty"`
	TotalAssets        *decimal.Decimal `json:"total_assets,omitempty"`
	TotalLiabilities   *decimal.Decimal `json:"total_liabilities,omitempty"`
	TotalEquity        *decimal.Decimal `json:"total_equity,omitempty"`
	TotalDebt          *decimal.Decimal `json:"total_debt,omitempty"`
	Revenue            *decimal.Decimal `json:"revenue,omitempty"`
	PreviousRevenue    *decimal.Decimal `json:"previous_revenue,omitempty"`
	CostOfGoodsSold    *decimal.Decimal `json:"cost_of_goods_sold,omitempty"`
	GrossProfit        *decimal.Decimal `json:"gross_profit,omitempty"`
	OperatingExpenses  *decimal.Decimal `json:"operating_expenses,omitempty"`
	OperatingIncome    *decimal.Decimal `json:"operating_income,omitempty"`
	NetIncome          *decimal.Decimal `json:"net_income,omitempty"`
	PreviousNetIncome  *decimal.Decimal `json:"previous_net_income,omitempty"`
	Cash               *decimal.Decimal `json:"cash,omitempty"`
	Inventory          *decimal.Decimal `json:"inventory,omitempty"`
	OperatingCashFlow  *decimal.Decimal `json:"operating_cash_flow,omitempty"`
	EBIT               *decimal.Decimal `json:"ebit,omitempty"`
	InterestExpense    *decimal.Decimal `json:"interest_expense,omitempty"`
	DebtService        *decimal.Decimal `json:"debt_service,omitempty"`
}

// BusinessData carries a borrower's business profile.
type BusinessData struct {
	CompanyName     string           `json:"company_name,omitempty"`
	Industry        string           `json:"industry,omitempty"`
	BusinessType    string           `json:"business_type,omitempty"`
	Country         string           `json:"country,omitempty"`
	Region          string           `json:"region,omitempty"`
	FoundedYear     *int             `json:"founded_year,omitempty"`
	YearsInBusiness *int             `json:"years_in_business,omitempty"`
	EmployeeCount   *int             `json:"employee_count,omitempty"`
	AnnualRevenue   *decimal.Decimal `json:"annual_revenue,omitempty"`
	NetIncome       *decimal.Decimal `json:"net_income,omitempty"`
}

// CreditHistoryData carries a borrower's credit history.
type CreditHistoryData struct {
	PreviousLoans       *int             `json:"previous_loans,omitempty"`
	PreviousDefaults    *int             `json:"previous_defaults,omitempty"`
	TotalPayments       *int             `json:"total_payments,omitempty"`
	PaymentsOnTime      *int             `json:"payments_on_time,omitempty"`
	LatePayments        *int             `json:"late_payments,omitempty"`
	CurrentDebt         *decimal.Decimal `json:"current_debt,omitempty"`
	CreditLimit         *decimal.Decimal `json:"credit_limit,omitempty"`
	TotalDebt           *decimal.Decimal `json:"total_debt,omitempty"`
	TotalAssets         *decimal.Decimal `json:"total_assets,omitempty"`
	ExternalCreditScore *float64         `json:"external_credit_score,omitempty"`
}

// ScoringRequest carries exactly one borrower record set. Every section is
// optional; scoring works with whatever is supplied.
type ScoringRequest struct {
	FinancialData     *FinancialData     `json:"financial_data,omitempty"`
	BusinessData      *BusinessData      `json:"business_data,omitempty"`
	CreditHistoryData *CreditHistoryData `json:"credit_history_data,omitempty"`
	BorrowerID        string             `json:"borrower_id,omitempty"`
}

// ---------------------------------------------------------------------------
// Response DTOs
// ---------------------------------------------------------------------------

// ScoringResponse is the assessment record plus where it was stored. The
// embedded assessment JSON is the external contract and is serialized
// verbatim by the presentation layer.
type ScoringResponse struct {
	Assessment model.Assessment `json:"assessment"`
	StoredAt   string           `json:"stored_at,omitempty"`
}

// CategoryResponse describes one entry of the credit category table.
type CategoryResponse struct {
	Category    string  `json:"category"`
	Score       float64 `json:"score"`
	Description string  `json:"description"`
}

// ---------------------------------------------------------------------------
// DTO → domain conversion
// ---------------------------------------------------------------------------

// ToFinancialRecord converts the DTO to its domain record.
func (d *FinancialData) ToFinancialRecord() valueobject.FinancialRecord {
	if d == nil {
		return valueobject.FinancialRecord{}
	}
	return valueobject.FinancialRecord{
		CurrentAssets:      metricFromDecimal(d.CurrentAssets),
		CurrentLiabilities: metricFromDecimal(d.CurrentLiabilities),
		TotalAssets:        metricFromDecimal(d.TotalAssets),
		TotalLiabilities:   metricFromDecimal(d.TotalLiabilities),
		TotalEquity:        metricFromDecimal(d.TotalEquity),
		TotalDebt:          metricFromDecimal(d.TotalDebt),
		Revenue:            metricFromDecimal(d.Revenue),
		PreviousRevenue:    metricFromDecimal(d.PreviousRevenue),
		CostOfGoodsSold:    metricFromDecimal(d.CostOfGoodsSold),
		GrossProfit:        metricFromDecimal(d.GrossProfit),
		OperatingExpenses:  metricFromDecimal(d.OperatingExpenses),
		OperatingIncome:    metricFromDecimal(d.OperatingIncome),
		NetIncome:          metricFromDecimal(d.NetIncome),
		PreviousNetIncome:  metricFromDecimal(d.PreviousNetIncome),
		Cash:               metricFromDecimal(d.Cash),
		Inventory:          metricFromDecimal(d.Inventory),
		OperatingCashFlow:  metricFromDecimal(d.OperatingCashFlow),
		EBIT:               metricFromDecimal(d.EBIT),
		InterestExpense:    metricFromDecimal(d.InterestExpense),
		DebtService:        metricFromDecimal(d.DebtService),
	}
}

// ToBusinessRecord converts the DTO to its domain record.
func (d *BusinessData) ToBusinessRecord() valueobject.BusinessRecord {
	if d == nil {
		return valueobject.BusinessRecord{}
	}
	return valueobject.BusinessRecord{
		CompanyName:     d.CompanyName,
		Industry:        d.Industry,
		BusinessType:    d.BusinessType,
		Country:         d.Country,
		Region:          d.Region,
		FoundedYear:     metricFromInt(d.FoundedYear),
		YearsInBusiness: metricFromInt(d.YearsInBusiness),
		EmployeeCount:   metricFromInt(d.EmployeeCount),
		AnnualRevenue:   metricFromDecimal(d.AnnualRevenue),
		NetIncome:       metricFromDecimal(d.NetIncome),
	}
}

// ToCreditHistoryRecord converts the DTO to its domain record.
func (d *CreditHistoryData) ToCreditHistoryRecord() valueobject.CreditHistoryRecord {
	if d == nil {
		return valueobject.CreditHistoryRecord{}
	}
	return valueobject.CreditHistoryRecord{
		PreviousLoans:       metricFromInt(d.PreviousLoans),
		PreviousDefaults:    metricFromInt(d.PreviousDefaults),
		TotalPayments:       metricFromInt(d.TotalPayments),
		PaymentsOnTime:      metricFromInt(d.PaymentsOnTime),
		LatePayments:        metricFromInt(d.LatePayments),
		CurrentDebt:         metricFromDecimal(d.CurrentDebt),
		CreditLimit:         metricFromDecimal(d.CreditLimit),
		TotalDebt:           metricFromDecimal(d.TotalDebt),
		TotalAssets:         metricFromDecimal(d.TotalAssets),
		ExternalCreditScore: metricFromFloat(d.ExternalCreditScore),
	}
}

func metricFromDecimal(d *decimal.Decimal) valueobject.Metric {
	if d == nil {
		return valueobject.Absent()
	}
	return valueobject.Defined(d.InexactFloat64())
}

func metricFromInt(i *int) valueobject.Metric {
	if i == nil {
		return valueobject.Absent()
	}
	return valueobject.Defined(float64(*i))
}

func metricFromFloat(f *float64) valueobject.Metric {
	if f == nil {
		return valueobject.Absent()
	}
	return valueobject.Defined(*f)
}
