package valueobject

// ---------------------------------------------------------------------------
// Raw borrower records – one row per borrower per scoring request
// ---------------------------------------------------------------------------

// Source identifies a raw data source feeding the scoring pipeline.
type Source string

const (
	SourceFinancial     Source = "financial"
	SourceBusiness      Source = "business"
	SourceCreditHistory Source = "credit_history"
)

// Sources lists the known sources in their canonical combination order.
// Column selection and feature assembly iterate in this order so the
// resulting feature record is deterministic.
func Sources() []Source {
	return []Source{SourceFinancial, SourceBusiness, SourceCreditHistory}
}

// FinancialRecord holds a borrower's financial statement figures. Every field
// is optional; ratios are derived only from the fields that are present.
type FinancialRecord struct {
	CurrentAssets      Metric
	CurrentLiabilities Metric
	TotalAssets        Metric
	TotalLiabilities   Metric
	TotalEquity        Metric
	TotalDebt          Metric
	Revenue            Metric
	PreviousRevenue    Metric
	CostOfGoodsSold    Metric
	GrossProfit        Metric
	OperatingExpenses  Metric
	OperatingIncome    Metric
	NetIncome          Metric
	PreviousNetIncome  Metric
	Cash               Metric
	Inventory          Metric
	OperatingCashFlow  Metric
	EBIT               Metric
	InterestExpense    Metric
	DebtService        Metric
}

// IsEmpty reports whether no field is present at all.
func (r FinancialRecord) IsEmpty() bool {
	for _, m := range []Metric{
		r.CurrentAssets, r.CurrentLiabilities, r.TotalAssets, r.TotalLiabilities,
		r.TotalEquity, r.TotalDebt, r.Revenue, r.PreviousRevenue,
		r.CostOfGoodsSold, r.GrossProfit, r.OperatingExpenses, r.OperatingIncome,
		r.NetIncome, r.PreviousNetIncome, r.Cash, r.Inventory,
		r.OperatingCashFlow, r.EBIT, r.InterestExpense, r.DebtService,
	} {
		if m.IsPresent() {
			return false
		}
	}
	return true
}

// BusinessRecord holds a borrower's business profile. NetIncome is an
// optional supplemental field for uploaded statements; the standard scoring
// request does not carry it.
type BusinessRecord struct {
	CompanyName     string
	Industry        string
	BusinessType    string
	Country         string
	Region          string
	FoundedYear     Metric
	YearsInBusiness Metric
	EmployeeCount   Metric
	AnnualRevenue   Metric
	NetIncome       Metric
}

// IsEmpty reports whether no field is present at all.
func (r BusinessRecord) IsEmpty() bool {
	if r.CompanyName != "" || r.Industry != "" || r.BusinessType != "" ||
		r.Country != "" || r.Region != "" {
		return false
	}
	for _, m := range []Metric{
		r.FoundedYear, r.YearsInBusiness, r.EmployeeCount, r.AnnualRevenue, r.NetIncome,
	} {
		if m.IsPresent() {
			return false
		}
	}
	return true
}

// CreditHistoryRecord holds a borrower's credit history. TotalDebt and
// TotalAssets are the bureau-reported figures backing debt_ratio; they are
// independent of the financial statement fields of the same name.
type CreditHistoryRecord struct {
	PreviousLoans       Metric
	PreviousDefaults    Metric
	TotalPayments       Metric
	PaymentsOnTime      Metric
	LatePayments        Metric
	CurrentDebt         Metric
	CreditLimit         Metric
	TotalDebt           Metric
	TotalAssets         Metric
	ExternalCreditScore Metric
}

// IsEmpty reports whether no field is present at all.
func (r CreditHistoryRecord) IsEmpty() bool {
	for _, m := range []Metric{
		r.PreviousLoans, r.PreviousDefaults, r.TotalPayments, r.PaymentsOnTime,
		r.LatePayments, r.CurrentDebt, r.CreditLimit, r.TotalDebt,
		r.TotalAssets, r.ExternalCreditScore,
	} {
		if m.IsPresent() {
			return false
		}
	}
	return true
}
