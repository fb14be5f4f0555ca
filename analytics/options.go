package analytics

// Options carries the KPI/KRI constants. DefaultOptions reproduces the
// fixed reporting rules; configuration may override them.
type Options struct {
	// CostOverrunBenchmark flags records whose commission is strictly above it.
	CostOverrunBenchmark float64
	// AllocatedStatuses are the statuses that count as allocated, matched exactly.
	AllocatedStatuses []string
	// TrendMonths are the two YYYY-MM months of the fee trend. Empty selects
	// the two latest months present in the data.
	TrendMonths []string
	TopBrokers  int
	TopTrend    int
	// RateOutlierPct is the allowed deviation of an FX rate from its pair mean.
	RateOutlierPct float64
}

const (
	DefaultCostOverrunBenchmark = 100
	DefaultTopBrokers           = 10
	DefaultTopTrend             = 8
	DefaultRateOutlierPct       = 10
)

func DefaultAllocatedStatuses() []string {
	return []string{"Completed", "Allocated", "Settled"}
}

func DefaultOptions() Options {
	return Options{
		CostOverrunBenchmark: DefaultCostOverrunBenchmark,
		AllocatedStatuses:    DefaultAllocatedStatuses(),
		TopBrokers:           DefaultTopBrokers,
		TopTrend:             DefaultTopTrend,
		RateOutlierPct:       DefaultRateOutlierPct,
	}
}

// reconciliationFailures are matched case-insensitively.
var reconciliationFailures = map[string]bool{
	"failed": true, "rejected": true, "unmatched": true, "break": true,
}
