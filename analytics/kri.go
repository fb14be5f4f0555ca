package analytics

import (
	"math"
	"strings"

	"github.com/rustyeddy/tradeops/trade"
)

// RadarPoint is one axis of the composite risk chart, in percent.
type RadarPoint struct {
	Metric string  `json:"metric"`
	Value  float64 `json:"value"`
}

type KRIResult struct {
	TotalTrades int `json:"totalTrades"`

	CostOverrunBenchmark float64 `json:"costOverrunBenchmark"`
	CostOverrunCount     int     `json:"costOverrunCount"`
	CostOverrunRate      float64 `json:"costOverrunRate"`
	CostOverrunExcess    float64 `json:"costOverrunExcess"`

	UnallocatedCount      int     `json:"unallocatedCount"`
	PercentageUnallocated float64 `json:"percentageUnallocated"`
	UnallocatedCost       float64 `json:"unallocatedCost"`

	IncompleteCount int     `json:"incompleteCount"`
	IncompleteRate  float64 `json:"incompleteRate"`

	RateOutlierCount           int `json:"rateOutlierCount"`
	CurrencyMismatchCount      int `json:"currencyMismatchCount"`
	ReconciliationFailureCount int `json:"reconciliationFailureCount"`

	Radar []RadarPoint `json:"radar"`
}

// ComputeKRIs computes KRIs with DefaultOptions.
func ComputeKRIs(records []trade.Record) KRIResult {
	return DefaultOptions().ComputeKRIs(records)
}

func (o Options) ComputeKRIs(records []trade.Record) KRIResult {
	res := KRIResult{
		TotalTrades:          len(records),
		CostOverrunBenchmark: o.CostOverrunBenchmark,
	}

	allocated := make(map[string]bool, len(o.AllocatedStatuses))
	for _, s := range o.AllocatedStatuses {
		allocated[s] = true
	}

	var excess, unallocatedCost sum
	for _, r := range records {
		c := Commission(r)
		if o.IsOverrun(r) {
			res.CostOverrunCount++
			excess.add(c - o.CostOverrunBenchmark)
		}
		if !allocated[Status(r)] {
			res.UnallocatedCount++
			unallocatedCost.add(c + Brokerage(r) + SettlementCost(r))
		}
		if IsIncomplete(r) {
			res.IncompleteCount++
		}
		if IsCurrencyMismatch(r) {
			res.CurrencyMismatchCount++
		}
		if IsReconciliationFailure(r) {
			res.ReconciliationFailureCount++
		}
	}
	res.RateOutlierCount = len(o.RateOutliers(records))
	res.CostOverrunExcess = excess.value()
	res.UnallocatedCost = unallocatedCost.value()

	total := float64(len(records))
	res.CostOverrunRate = percent(float64(res.CostOverrunCount), total)
	res.PercentageUnallocated = percent(float64(res.UnallocatedCount), total)
	res.IncompleteRate = percent(float64(res.IncompleteCount), total)
	res.Radar = []RadarPoint{
		{Metric: "Cost Overruns", Value: clip(res.CostOverrunRate)},
		{Metric: "Unallocated Costs", Value: clip(res.PercentageUnallocated)},
		{Metric: "Incomplete Data", Value: clip(res.IncompleteRate)},
	}
	return res
}

// IsOverrun reports whether the record's commission is strictly above the
// benchmark.
func (o Options) IsOverrun(r trade.Record) bool {
	return Commission(r) > o.CostOverrunBenchmark
}

// IsIncomplete reports whether the record lacks a positive commission, a
// broker identity or a positive notional.
func IsIncomplete(r trade.Record) bool {
	return Commission(r) <= 0 || Broker(r) == "" || Notional(r) <= 0
}

// IsCurrencyMismatch reports a dealt, base or term currency that contradicts
// the currency pair. Records without a readable pair are not judged.
func IsCurrencyMismatch(r trade.Record) bool {
	base, term, ok := splitPair(Text(r, pairFields))
	if !ok {
		return false
	}
	if d := strings.ToUpper(Text(r, dealtFields)); d != "" && d != base && d != term {
		return true
	}
	if b := strings.ToUpper(Text(r, baseFields)); b != "" && b != base {
		return true
	}
	if t := strings.ToUpper(Text(r, termFields)); t != "" && t != term {
		return true
	}
	return false
}

// IsReconciliationFailure reports a trade or settlement status that marks a
// break.
func IsReconciliationFailure(r trade.Record) bool {
	for _, f := range reconcileFields {
		if reconciliationFailures[strings.ToLower(r.GetString(f))] {
			return true
		}
	}
	return false
}

// RateOutliers returns the trade IDs whose FX rate deviates from the mean
// rate of its currency pair by more than RateOutlierPct percent. Pairs with
// fewer than two rates are skipped.
func (o Options) RateOutliers(records []trade.Record) []string {
	type obs struct {
		id   string
		rate float64
	}
	byPair := map[string][]obs{}
	var order []string
	for _, r := range records {
		base, term, ok := splitPair(Text(r, pairFields))
		rate := Number(r, fxRateFields)
		if !ok || rate <= 0 {
			continue
		}
		p := base + term
		if _, seen := byPair[p]; !seen {
			order = append(order, p)
		}
		byPair[p] = append(byPair[p], obs{r.TradeID, rate})
	}

	var out []string
	for _, p := range order {
		list := byPair[p]
		if len(list) < 2 {
			continue
		}
		var total float64
		for _, x := range list {
			total += x.rate
		}
		mean := total / float64(len(list))
		for _, x := range list {
			if math.Abs(x.rate-mean)/mean*100 > o.RateOutlierPct {
				out = append(out, x.id)
			}
		}
	}
	return out
}
