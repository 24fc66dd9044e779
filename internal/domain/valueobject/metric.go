package valueobject

import "math"

// ---------------------------------------------------------------------------
// Metric – tri-state optional numeric observation
// ---------------------------------------------------------------------------

// metricState distinguishes a value that was never supplied or computed from
// one whose computation hit a zero or missing denominator.
type metricState uint8

const (
	stateAbsent metricState = iota
	stateDefined
	stateUndefined
)

// Metric is an optional numeric cell. The zero value is absent.
// A Metric is undefined when its formula was evaluated but produced no
// finite result (division by zero, Inf, NaN). Absent and undefined are
// deliberately distinct: absent means "not computed", undefined means
// "computed, no answer".
type Metric struct {
	val   float64
	state metricState
}

// Defined wraps a finite float64. Non-finite inputs collapse to Undefined.
func Defined(v float64) Metric {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return Undefined()
	}
	return Metric{val: v, state: stateDefined}
}

// Undefined marks a computed-but-unanswerable cell.
func Undefined() Metric {
	return Metric{state: stateUndefined}
}

// Absent marks a cell that was never supplied or computed.
func Absent() Metric {
	return Metric{}
}

// IsDefined reports whether the metric holds a finite value.
func (m Metric) IsDefined() bool { return m.state == stateDefined }

// IsUndefined reports whether the metric was computed but has no answer.
func (m Metric) IsUndefined() bool { return m.state == stateUndefined }

// IsAbsent reports whether the metric was never supplied or computed.
func (m Metric) IsAbsent() bool { return m.state == stateAbsent }

// IsPresent reports whether the metric is defined or undefined (i.e. it was
// computed at all).
func (m Metric) IsPresent() bool { return m.state != stateAbsent }

// Float returns the value and whether it is defined.
func (m Metric) Float() (float64, bool) {
	return m.val, m.state == stateDefined
}

// Or returns the metric's value when defined, otherwise the fallback.
func (m Metric) Or(fallback float64) float64 {
	if m.state == stateDefined {
		return m.val
	}
	return fallback
}

// ---------------------------------------------------------------------------
// Arithmetic helpers – all propagate absence and undefinedness
// ---------------------------------------------------------------------------

// Ratio divides num by den. The result is absent when either operand is
// absent, and undefined when either operand is undefined, the denominator is
// zero, or the quotient is not finite.
func Ratio(num, den Metric) Metric {
	if num.IsAbsent() || den.IsAbsent() {
		return Absent()
	}
	n, nok := num.Float()
	d, dok := den.Float()
	if !nok || !dok || d == 0 {
		return Undefined()
	}
	return Defined(n / d)
}

// Add sums two metrics with the same propagation rules as Ratio.
func Add(a, b Metric) Metric {
	if a.IsAbsent() || b.IsAbsent() {
		return Absent()
	}
	av, aok := a.Float()
	bv, bok := b.Float()
	if !aok || !bok {
		return Undefined()
	}
	return Defined(av + bv)
}

// Sub subtracts b from a with the same propagation rules as Ratio.
func Sub(a, b Metric) Metric {
	if a.IsAbsent() || b.IsAbsent() {
		return Absent()
	}
	av, aok := a.Float()
	bv, bok := b.Float()
	if !aok || !bok {
		return Undefined()
	}
	return Defined(av - bv)
}

// Scale multiplies a metric by a constant factor.
func Scale(m Metric, factor float64) Metric {
	if m.IsAbsent() {
		return Absent()
	}
	v, ok := m.Float()
	if !ok {
		return Undefined()
	}
	return Defined(v * factor)
}

// Mean averages the defined values among ms. A single undefined input makes
// the whole mean undefined; absent inputs are skipped, and a mean over
// nothing is absent.
func Mean(ms ...Metric) Metric {
	sum, n := 0.0, 0
	for _, m := range ms {
		if m.IsUndefined() {
			return Undefined()
		}
		if v, ok := m.Float(); ok {
			sum += v
			n++
		}
	}
	if n == 0 {
		return Absent()
	}
	return Defined(sum / float64(n))
}

// Clamp bounds a defined metric to [lo, hi]; absence and undefinedness pass
// through unchanged.
func Clamp(m Metric, lo, hi float64) Metric {
	v, ok := m.Float()
	if !ok {
		return m
	}
	return Defined(math.Min(math.Max(v, lo), hi))
}
