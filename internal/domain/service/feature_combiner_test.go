package service

import (
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lendingverse/credit-scoring/internal/domain/valueobject"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestCombineSelectsAllowListedColumns(t *testing.T) {
	fin := valueobject.NewDerivedTable()
	fin.Set("current_ratio", valueobject.Defined(2.5))
	fin.Set("working_capital", valueobject.Defined(300_000)) // intermediate, not a feature
	fin.Set("revenue", valueobject.Defined(3_000_000))       // raw, not a feature

	combiner := NewFeatureCombiner(testLogger())
	rec := combiner.Combine(SourceTables{valueobject.SourceFinancial: fin})

	assert.True(t, rec.Has("current_ratio"))
	assert.False(t, rec.Has("working_capital"))
	assert.False(t, rec.Has("revenue"))
}

func TestCombineInteractions(t *testing.T) {
	fin := valueobject.NewDerivedTable()
	fin.Set("debt_to_assets", valueobject.Defined(0.3))
	fin.Set("return_on_assets", valueobject.Defined(0.15))

	biz := valueobject.NewDerivedTable()
	biz.Set("company_age", valueobject.Defined(9))
	biz.Set("industry_risk", valueobject.Defined(3))
	biz.Set("business_stability", valueobject.Defined(49))

	hist := valueobject.NewDerivedTable()
	hist.Set("default_risk_score", valueobject.Defined(25))

	combiner := NewFeatureCombiner(testLogger())
	rec := combiner.Combine(SourceTables{
		valueobject.SourceFinancial:     fin,
		valueobject.SourceBusiness:      biz,
		valueobject.SourceCreditHistory: hist,
	})

	v, ok := rec.Get("debt_age_interaction").Float()
	require.True(t, ok)
	assert.InDelta(t, 0.3/10, v, 1e-9)

	v, ok = rec.Get("industry_adjusted_roa").Float()
	require.True(t, ok)
	assert.InDelta(t, 0.05, v, 1e-9)

	v, ok = rec.Get("stability_adjusted_risk").Float()
	require.True(t, ok)
	assert.InDelta(t, 0.5, v, 1e-9)
}

func TestCombineNoInteractionsAcrossMissingSources(t *testing.T) {
	fin := valueobject.NewDerivedTable()
	fin.Set("debt_to_assets", valueobject.Defined(0.3))
	fin.Set("return_on_assets", valueobject.Defined(0.15))

	combiner := NewFeatureCombiner(testLogger())
	rec := combiner.Combine(SourceTables{valueobject.SourceFinancial: fin})

	assert.False(t, rec.Has("debt_age_interaction"))
	assert.False(t, rec.Has("industry_adjusted_roa"))
	assert.False(t, rec.Has("stability_adjusted_risk"))
}

func TestCombineDropsUndefinedCells(t *testing.T) {
	fin := valueobject.NewDerivedTable()
	fin.Set("current_ratio", valueobject.Defined(2))
	fin.Set("return_on_equity", valueobject.Undefined()) // zero-equity borrower

	combiner := NewFeatureCombiner(testLogger())
	rec := combiner.Combine(SourceTables{valueobject.SourceFinancial: fin})

	assert.True(t, rec.Has("current_ratio"))
	assert.False(t, rec.Has("return_on_equity"))
}

func TestCombineEmptySources(t *testing.T) {
	combiner := NewFeatureCombiner(testLogger())

	assert.True(t, combiner.Combine(SourceTables{}).IsEmpty())
	assert.True(t, combiner.Combine(nil).IsEmpty())
}

func TestCombineCanonicalOrder(t *testing.T) {
	fin := valueobject.NewDerivedTable()
	fin.Set("current_ratio", valueobject.Defined(2))

	hist := valueobject.NewDerivedTable()
	hist.Set("payment_reliability", valueobject.Defined(90))

	combiner := NewFeatureCombiner(testLogger())
	// Map iteration order must not matter; financial precedes credit history.
	rec := combiner.Combine(SourceTables{
		valueobject.SourceCreditHistory: hist,
		valueobject.SourceFinancial:     fin,
	})

	assert.Equal(t, []string{"current_ratio", "payment_reliability"}, rec.Names())
}
