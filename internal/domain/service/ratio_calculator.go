package service

import (
	"strings"
	"time"

	"github.com/lendingverse/credit-scoring/internal/domain/valueobject"
)

// ---------------------------------------------------------------------------
// RatioCalculator – per-source derivation of ratios and risk metrics
// ---------------------------------------------------------------------------

// industryRisk maps an industry to its risk factor. Unknown industries fall
// back to defaultIndustryRisk.
var industryRisk = map[string]float64{
	"technology":     3,
	"healthcare":     2,
	"finance":        4,
	"retail":         5,
	"manufacturing":  4,
	"real_estate":    5,
	"education":      2,
	"energy":         4,
	"transportation": 3,
	"agriculture":    3,
	"construction":   5,
	"hospitality":    6,
	"entertainment":  5,
}

const defaultIndustryRisk = 4

// ageBracket is one row of the company-age bracket table.
type ageBracket struct {
	maxAge float64 // exclusive upper bound
	label  string
	risk   float64
}

var ageBrackets = []ageBracket{
	{2, "startup", 5},
	{5, "early_stage", 4},
	{10, "established", 3},
	{20, "mature", 2},
	{0, "legacy", 1}, // no upper bound
}

// RatioCalculator derives ratio and risk columns from raw borrower records.
// A derived column is computed only when all of its named inputs are present;
// zero denominators yield an undefined cell rather than a crash or a dropped
// row. The calculator is stateless and safe for concurrent use.
type RatioCalculator struct {
	now func() time.Time
}

// NewRatioCalculator creates a calculator using the wall clock for
// company-age derivation.
func NewRatioCalculator() *RatioCalculator {
	return &RatioCalculator{now: time.Now}
}

// NewRatioCalculatorAt creates a calculator with an injected clock, for
// deterministic company_age in tests.
func NewRatioCalculatorAt(now func() time.Time) *RatioCalculator {
	return &RatioCalculator{now: now}
}

// FinancialRatios augments a financial record with the full ratio set.
// Column names are the external contract consumed by the feature combiner
// and the test suite.
func (c *RatioCalculator) FinancialRatios(rec valueobject.FinancialRecord) *valueobject.DerivedTable {
	t := valueobject.NewDerivedTable()

	// Raw columns first, so the table reads like the source record.
	t.Set("current_assets", rec.CurrentAssets)
	t.Set("current_liabilities", rec.CurrentLiabilities)
	t.Set("total_assets", rec.TotalAssets)
	t.Set("total_liabilities", rec.TotalLiabilities)
	t.Set("total_equity", rec.TotalEquity)
	t.Set("total_debt", rec.TotalDebt)
	t.Set("revenue", rec.Revenue)
	t.Set("previous_revenue", rec.PreviousRevenue)
	t.Set("cost_of_goods_sold", rec.CostOfGoodsSold)
	t.Set("gross_profit", rec.GrossProfit)
	t.Set("operating_expenses", rec.OperatingExpenses)
	t.Set("operating_income", rec.OperatingIncome)
	t.Set("net_income", rec.NetIncome)
	t.Set("previous_net_income", rec.PreviousNetIncome)
	t.Set("cash", rec.Cash)
	t.Set("inventory", rec.Inventory)
	t.Set("operating_cash_flow", rec.OperatingCashFlow)
	t.Set("ebit", rec.EBIT)
	t.Set("interest_expense", rec.InterestExpense)
	t.Set("debt_service", rec.DebtService)

	// Liquidity ratios.
	t.Set("current_ratio", valueobject.Ratio(rec.CurrentAssets, rec.CurrentLiabilities))
	t.Set("cash_ratio", valueobject.Ratio(rec.Cash, rec.CurrentLiabilities))

	// Profitability ratios.
	t.Set("return_on_assets", valueobject.Ratio(rec.NetIncome, rec.TotalAssets))
	t.Set("return_on_equity", valueobject.Ratio(rec.NetIncome, rec.TotalEquity))
	t.Set("gross_margin", valueobject.Ratio(rec.GrossProfit, rec.Revenue))
	t.Set("net_profit_margin", valueobject.Ratio(rec.NetIncome, rec.Revenue))

	// Solvency ratios.
	t.Set("debt_to_assets", valueobject.Ratio(rec.TotalDebt, rec.TotalAssets))
	t.Set("debt_to_equity", valueobject.Ratio(rec.TotalDebt, rec.TotalEquity))

	// Efficiency ratios.
	t.Set("asset_turnover", valueobject.Ratio(rec.Revenue, rec.TotalAssets))
	t.Set("inventory_turnover", valueobject.Ratio(rec.CostOfGoodsSold, rec.Inventory))

	// Period-over-period growth.
	t.Set("revenue_growth", valueobject.Ratio(
		valueobject.Sub(rec.Revenue, rec.PreviousRevenue), rec.PreviousRevenue))
	t.Set("profit_growth", valueobject.Ratio(
		valueobject.Sub(rec.NetIncome, rec.PreviousNetIncome), rec.PreviousNetIncome))

	// Cash flow coverage.
	t.Set("cash_flow_to_income", valueobject.Ratio(rec.OperatingCashFlow, rec.NetIncome))
	t.Set("cash_flow_to_debt", valueobject.Ratio(rec.OperatingCashFlow, rec.TotalDebt))
	t.Set("interest_coverage", valueobject.Ratio(rec.EBIT, rec.InterestExpense))
	t.Set("debt_service_coverage", valueobject.Ratio(rec.OperatingCashFlow, rec.DebtService))

	// Working capital and its ratio.
	workingCapital := valueobject.Sub(rec.CurrentAssets, rec.CurrentLiabilities)
	t.Set("working_capital", workingCapital)
	t.Set("working_capital_ratio", valueobject.Ratio(workingCapital, rec.Revenue))

	return t
}

// BusinessDerived augments a business record with age, industry, and
// stability metrics.
func (c *RatioCalculator) BusinessDerived(rec valueobject.BusinessRecord) *valueobject.DerivedTable {
	t := valueobject.NewDerivedTable()

	t.Set("founded_year", rec.FoundedYear)
	t.Set("years_in_business", rec.YearsInBusiness)
	t.Set("employee_count", rec.EmployeeCount)
	t.Set("annual_revenue", rec.AnnualRevenue)
	t.Set("net_income", rec.NetIncome)

	if rec.Industry != "" {
		risk := defaultIndustryRisk
		if r, ok := industryRisk[strings.ToLower(rec.Industry)]; ok {
			risk = int(r)
		}
		t.Set("industry_risk", valueobject.Defined(float64(risk)))
	}

	if year, ok := rec.FoundedYear.Float(); ok {
		age := float64(c.now().Year()) - year
		t.Set("company_age", valueobject.Defined(age))
		_, risk := bracketForAge(age)
		t.Set("age_risk", valueobject.Defined(risk))
	} else if rec.FoundedYear.IsUndefined() {
		t.Set("company_age", valueobject.Undefined())
		t.Set("age_risk", valueobject.Undefined())
	}

	t.Set("revenue_per_employee", valueobject.Ratio(rec.AnnualRevenue, rec.EmployeeCount))
	t.Set("profit_per_employee", valueobject.Ratio(rec.NetIncome, rec.EmployeeCount))

	// Business stability: mean of the available size/age signals, each
	// normalized to 0-100.
	var stabilityFactors []valueobject.Metric
	if age := t.Get("company_age"); age.IsPresent() {
		stabilityFactors = append(stabilityFactors,
			valueobject.Scale(valueobject.Clamp(valueobject.Scale(age, 1.0/10), 0, 1), 100))
	}
	if rec.EmployeeCount.IsPresent() {
		stabilityFactors = append(stabilityFactors,
			valueobject.Scale(valueobject.Clamp(valueobject.Scale(rec.EmployeeCount, 1.0/100), 0, 1), 100))
	}
	if rec.AnnualRevenue.IsPresent() {
		stabilityFactors = append(stabilityFactors,
			valueobject.Scale(valueobject.Clamp(valueobject.Scale(rec.AnnualRevenue, 1.0/1_000_000), 0, 1), 100))
	}
	if len(stabilityFactors) > 0 {
		t.Set("business_stability", valueobject.Mean(stabilityFactors...))
	}

	return t
}

// AgeBracketLabel returns the descriptive bracket for a company age.
func AgeBracketLabel(age float64) string {
	label, _ := bracketForAge(age)
	return label
}

func bracketForAge(age float64) (string, float64) {
	for _, b := range ageBrackets[:len(ageBrackets)-1] {
		if age < b.maxAge {
			return b.label, b.risk
		}
	}
	last := ageBrackets[len(ageBrackets)-1]
	return last.label, last.risk
}

// CreditHistoryDerived augments a credit history record with payment and
// default risk metrics.
func (c *RatioCalculator) CreditHistoryDerived(rec valueobject.CreditHistoryRecord) *valueobject.DerivedTable {
	t := valueobject.NewDerivedTable()

	t.Set("previous_loans", rec.PreviousLoans)
	t.Set("previous_defaults", rec.PreviousDefaults)
	t.Set("total_payments", rec.TotalPayments)
	t.Set("payments_on_time", rec.PaymentsOnTime)
	t.Set("late_payments", rec.LatePayments)
	t.Set("current_debt", rec.CurrentDebt)
	t.Set("credit_limit", rec.CreditLimit)
	t.Set("total_debt", rec.TotalDebt)
	t.Set("total_assets", rec.TotalAssets)
	t.Set("external_credit_score", rec.ExternalCreditScore)

	t.Set("payment_reliability", valueobject.Scale(
		valueobject.Ratio(rec.PaymentsOnTime, rec.TotalPayments), 100))
	utilization := valueobject.Scale(
		valueobject.Ratio(rec.CurrentDebt, rec.CreditLimit), 100)
	t.Set("credit_utilization", utilization)
	t.Set("debt_ratio", valueobject.Scale(
		valueobject.Ratio(rec.TotalDebt, rec.TotalAssets), 100))

	// Default risk score: unweighted mean of whichever sub-factors have
	// inputs. Late payments, prior defaults, and utilization each contribute
	// on a comparable scale.
	var riskFactors []valueobject.Metric
	if rec.LatePayments.IsPresent() && rec.TotalPayments.IsPresent() {
		riskFactors = append(riskFactors, valueobject.Scale(
			valueobject.Ratio(rec.LatePayments, rec.TotalPayments), 100))
	}
	if rec.PreviousDefaults.IsPresent() {
		riskFactors = append(riskFactors, valueobject.Scale(rec.PreviousDefaults, 25))
	}
	if utilization.IsPresent() {
		riskFactors = append(riskFactors, valueobject.Scale(utilization, 0.5))
	}
	if len(riskFactors) > 0 {
		t.Set("default_risk_score", valueobject.Mean(riskFactors...))
	}

	return t
}
