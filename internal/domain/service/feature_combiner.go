package service

import (
	"log/slog"

	"github.com/lendingverse/credit-scoring/internal/domain/valueobject"
)

// ---------------------------------------------------------------------------
// FeatureCombiner – assembles one feature record from per-source tables
// ---------------------------------------------------------------------------

// SourceTables maps a data source to its derived table. Any source may be
// missing.
type SourceTables map[valueobject.Source]*valueobject.DerivedTable

// Per-source allow-lists. Only these columns cross from a derived table into
// the combined feature record; everything else (raw inputs, intermediate
// columns such as working_capital) stays behind.
var (
	financialFeatureCols = []string{
		"current_ratio", "cash_ratio", "return_on_assets", "return_on_equity",
		"gross_margin", "net_profit_margin", "debt_to_assets", "debt_to_equity",
		"asset_turnover", "inventory_turnover", "revenue_growth", "profit_growth",
		"cash_flow_to_income", "cash_flow_to_debt", "interest_coverage",
		"working_capital_ratio", "debt_service_coverage",
	}
	businessFeatureCols = []string{
		"company_age", "industry_risk", "age_risk", "revenue_per_employee",
		"profit_per_employee", "business_stability", "employee_count",
	}
	creditHistoryFeatureCols = []string{
		"payment_reliability", "credit_utilization", "debt_ratio",
		"default_risk_score", "previous_defaults", "late_payments",
	}
)

func featureColsFor(src valueobject.Source) []string {
	switch src {
	case valueobject.SourceFinancial:
		return financialFeatureCols
	case valueobject.SourceBusiness:
		return businessFeatureCols
	case valueobject.SourceCreditHistory:
		return creditHistoryFeatureCols
	default:
		return nil
	}
}

// FeatureCombiner selects allow-listed columns from up to three sources,
// computes cross-source interaction features, and resolves undefined cells.
// It never fails the scoring pipeline: any panic during combination is
// recovered and whatever partial record was built so far is returned, so
// callers must check for an empty record.
type FeatureCombiner struct {
	logger *slog.Logger
}

// NewFeatureCombiner creates a combiner.
func NewFeatureCombiner(logger *slog.Logger) *FeatureCombiner {
	return &FeatureCombiner{logger: logger}
}

// Combine builds the single flat feature record for one borrower.
func (c *FeatureCombiner) Combine(sources SourceTables) (rec *valueobject.FeatureRecord) {
	rec = valueobject.NewFeatureRecord()

	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("feature combination aborted, returning partial record", "panic", r)
		}
	}()

	// Column selection, in canonical source order.
	for _, src := range valueobject.Sources() {
		table, ok := sources[src]
		if !ok {
			continue
		}
		for _, col := range featureColsFor(src) {
			if table.Has(col) {
				rec.Set(col, table.Get(col))
			}
		}
	}

	// Interaction features: computed only when both operands exist.
	one := valueobject.Defined(1)
	if rec.Has("debt_to_assets") && rec.Has("company_age") {
		inverseAge := valueobject.Ratio(one, valueobject.Add(rec.Get("company_age"), one))
		rec.Set("debt_age_interaction", mul(rec.Get("debt_to_assets"), inverseAge))
	}
	if rec.Has("return_on_assets") && rec.Has("industry_risk") {
		rec.Set("industry_adjusted_roa",
			valueobject.Ratio(rec.Get("return_on_assets"), rec.Get("industry_risk")))
	}
	if rec.Has("default_risk_score") && rec.Has("business_stability") {
		rec.Set("stability_adjusted_risk", valueobject.Ratio(
			rec.Get("default_risk_score"),
			valueobject.Add(rec.Get("business_stability"), one),
		))
	}

	c.impute(rec)
	return rec
}

// impute resolves undefined cells with the column-wise median over the
// current batch. Online scoring works on a batch of one row, so a defined
// cell is its own median; an undefined cell has no defined value anywhere in
// its column and is dropped from the record, leaving the feature absent.
func (c *FeatureCombiner) impute(rec *valueobject.FeatureRecord) {
	for _, name := range rec.Names() {
		if rec.Get(name).IsUndefined() {
			c.logger.Debug("dropping feature with no defined value in batch", "feature", name)
			rec.Drop(name)
		}
	}
}

// mul multiplies two metrics with the usual propagation rules.
func mul(a, b valueobject.Metric) valueobject.Metric {
	if a.IsAbsent() || b.IsAbsent() {
		return valueobject.Absent()
	}
	av, aok := a.Float()
	bv, bok := b.Float()
	if !aok || !bok {
		return valueobject.Undefined()
	}
	return valueobject.Defined(av * bv)
}
