package analytics

import (
	"math"

	"github.com/shopspring/decimal"
)

// sum accumulates money exactly so totals do not drift with record order.
type sum struct{ d decimal.Decimal }

// add ignores values that are not finite.
func (s *sum) add(v float64) {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return
	}
	s.d = s.d.Add(decimal.NewFromFloat(v))
}

func (s sum) value() float64 { return s.d.InexactFloat64() }

func ratio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}

func percent(num, den float64) float64 { return ratio(num, den) * 100 }

func clip(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 100:
		return 100
	}
	return v
}
