package analytics

import (
	"math"
	"testing"

	"github.com/rustyeddy/tradeops/trade"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var f = trade.Float

func costRecords() []trade.Record {
	return []trade.Record{
		{TradeID: "T1", Counterparty: "Goldman", Commission: f(150), BrokerageFee: f(20), SettlementCost: f(5),
			TradeValue: f(10000), TradeDate: "2024-05-10", CostAllocationStatus: "Allocated"},
		{TradeID: "T2", Counterparty: "Goldman", Commission: f(100), TradeValue: f(5000),
			TradeDate: "2024-06-03", CostAllocationStatus: "Pending"},
		{TradeID: "T3", ExecutionVenue: "LSE", Commission: f(50), BrokerageFee: f(10), NotionalAmount: f(20000),
			TradeDate: "2024-06-20", SettlementStatus: "Settled"},
		{TradeID: "T4", Commission: f(0), TradeDate: "2024-04-01"},
	}
}

func TestComputeKPIs(t *testing.T) {
	t.Parallel()

	k := ComputeKPIs(costRecords())

	assert.Equal(t, 300.0, k.TotalCommissionFees)
	assert.Equal(t, 75.0, k.AvgCommissionFeePerTrade)
	assert.Equal(t, 30.0, k.TotalBrokeragePaid)
	assert.Equal(t, 35000.0, k.TotalNotional)
	assert.InDelta(t, 300.0/35000.0*100, k.CommissionCostAsPercentOfTradeNotional, 1e-9)

	assert.Equal(t, 4, k.Summary.TradeCount)
	assert.Equal(t, 35000.0, k.Summary.TotalTradeValue)
	assert.Equal(t, 8750.0, k.Summary.AvgTradeValue)
	assert.Equal(t, 1, k.Summary.Counterparties)
	assert.Equal(t, 1, k.Summary.Venues)
	assert.Equal(t, 5.0, k.Summary.TotalSettlementCost)

	require.Len(t, k.Brokers, 3)
	assert.Equal(t, BrokerExpense{Broker: "Goldman", Trades: 2, Commission: 250, Brokerage: 20, SettlementCost: 5, TotalExpense: 275}, k.Brokers[0])
	assert.Equal(t, "LSE", k.Brokers[1].Broker)
	assert.Equal(t, 60.0, k.Brokers[1].TotalExpense)
	assert.Equal(t, UnknownBroker, k.Brokers[2].Broker)
}

func TestComputeKPIsTrend(t *testing.T) {
	t.Parallel()

	k := ComputeKPIs(costRecords())
	assert.Equal(t, []string{"2024-05", "2024-06"}, k.Trend.Months)
	require.Len(t, k.Trend.Brokers, 2)

	g := k.Trend.Brokers[0]
	assert.Equal(t, "Goldman", g.Broker)
	assert.Equal(t, 270.0, g.TotalFees)
	assert.Equal(t, []MonthFees{
		{Month: "2024-05", Commission: 150, Brokerage: 20},
		{Month: "2024-06", Commission: 100, Brokerage: 0},
	}, g.Months)

	l := k.Trend.Brokers[1]
	assert.Equal(t, "LSE", l.Broker)
	assert.Equal(t, 60.0, l.TotalFees)
}

func TestComputeKPIsExplicitTrendMonths(t *testing.T) {
	t.Parallel()

	o := DefaultOptions()
	o.TrendMonths = []string{"2024-04", "2024-05"}
	k := o.ComputeKPIs(costRecords())

	assert.Equal(t, []string{"2024-04", "2024-05"}, k.Trend.Months)
	require.Len(t, k.Trend.Brokers, 2)
	assert.Equal(t, "Goldman", k.Trend.Brokers[0].Broker)
	assert.Equal(t, UnknownBroker, k.Trend.Brokers[1].Broker)
	assert.Equal(t, 0.0, k.Trend.Brokers[1].TotalFees)
}

func TestComputeKPIsTruncates(t *testing.T) {
	t.Parallel()

	var recs []trade.Record
	for i := 0; i < 15; i++ {
		recs = append(recs, trade.Record{
			TradeID:      "T",
			Counterparty: string(rune('A' + i)),
			Commission:   f(float64(i + 1)),
			TradeDate:    "2024-06-01",
		})
	}
	k := ComputeKPIs(recs)
	require.Len(t, k.Brokers, DefaultTopBrokers)
	assert.Equal(t, "O", k.Brokers[0].Broker)
	assert.Equal(t, 15.0, k.Brokers[0].TotalExpense)
	assert.Len(t, k.Trend.Brokers, DefaultTopTrend)
	assert.Equal(t, "O", k.Trend.Brokers[0].Broker)
}

func TestComputeKPIsTieBreakByName(t *testing.T) {
	t.Parallel()

	k := ComputeKPIs([]trade.Record{
		{Counterparty: "Zeta", Commission: f(10)},
		{Counterparty: "Alpha", Commission: f(10)},
	})
	require.Len(t, k.Brokers, 2)
	assert.Equal(t, "Alpha", k.Brokers[0].Broker)
	assert.Equal(t, "Zeta", k.Brokers[1].Broker)
}

func TestComputeKPIsEmpty(t *testing.T) {
	t.Parallel()

	k := ComputeKPIs(nil)
	assert.Equal(t, 0.0, k.AvgCommissionFeePerTrade)
	assert.Equal(t, 0.0, k.CommissionCostAsPercentOfTradeNotional)
	assert.Empty(t, k.Brokers)
	assert.Empty(t, k.Trend.Months)
}

func TestComputeKPIsReadsRawHeaders(t *testing.T) {
	t.Parallel()

	r := trade.Record{Extra: map[string]any{"Commission": "$1,250.50", "Broker": "Citi", "Trade Value": "100000"}}
	k := ComputeKPIs([]trade.Record{r})
	assert.Equal(t, 1250.5, k.TotalCommissionFees)
	assert.Equal(t, 100000.0, k.TotalNotional)
	assert.Equal(t, "Citi", k.Brokers[0].Broker)
}

func TestExactDecimalTotals(t *testing.T) {
	t.Parallel()

	var recs []trade.Record
	for i := 0; i < 10; i++ {
		recs = append(recs, trade.Record{Commission: f(0.1)})
	}
	assert.Equal(t, 1.0, ComputeKPIs(recs).TotalCommissionFees)
}

func TestCostOverrunIsStrict(t *testing.T) {
	t.Parallel()

	o := DefaultOptions()
	assert.True(t, o.IsOverrun(trade.Record{Commission: f(150)}))
	assert.False(t, o.IsOverrun(trade.Record{Commission: f(100)}))
	assert.False(t, o.IsOverrun(trade.Record{}))
	assert.Equal(t, 100.0, o.CostOverrunBenchmark)
}

func TestComputeKRIs(t *testing.T) {
	t.Parallel()

	k := ComputeKRIs(costRecords())

	assert.Equal(t, 4, k.TotalTrades)
	assert.Equal(t, 100.0, k.CostOverrunBenchmark)
	assert.Equal(t, 1, k.CostOverrunCount)
	assert.Equal(t, 25.0, k.CostOverrunRate)
	assert.Equal(t, 50.0, k.CostOverrunExcess)

	assert.Equal(t, 2, k.UnallocatedCount)
	assert.Equal(t, 50.0, k.PercentageUnallocated)
	assert.Equal(t, 100.0, k.UnallocatedCost)

	assert.Equal(t, 1, k.IncompleteCount)
	assert.Equal(t, 25.0, k.IncompleteRate)

	assert.Equal(t, []RadarPoint{
		{Metric: "Cost Overruns", Value: 25},
		{Metric: "Unallocated Costs", Value: 50},
		{Metric: "Incomplete Data", Value: 25},
	}, k.Radar)
}

func TestAllocatedStatusesAreExact(t *testing.T) {
	t.Parallel()

	recs := []trade.Record{
		{CostAllocationStatus: "Completed"},
		{CostAllocationStatus: "Allocated"},
		{SettlementStatus: "Settled"},
		{CostAllocationStatus: "settled"},
		{CostAllocationStatus: "Partially Allocated"},
	}
	k := ComputeKRIs(recs)
	assert.Equal(t, 2, k.UnallocatedCount)
	assert.Equal(t, 40.0, k.PercentageUnallocated)

	o := DefaultOptions()
	o.AllocatedStatuses = []string{"settled"}
	assert.Equal(t, 4, o.ComputeKRIs(recs).UnallocatedCount)
}

func fxRecords() []trade.Record {
	return []trade.Record{
		{TradeID: "F1", CurrencyPair: "EUR/USD", FXRate: f(1.08), DealtCurrency: "EUR", TradeStatus: "Confirmed"},
		{TradeID: "F2", CurrencyPair: "EURUSD", FXRate: f(1.10), DealtCurrency: "usd"},
		{TradeID: "F3", CurrencyPair: "eur-usd", FXRate: f(1.40), DealtCurrency: "GBP"},
		{TradeID: "F4", CurrencyPair: "GBP/USD", FXRate: f(1.25), BaseCurrency: "EUR", SettlementStatus: "FAILED"},
		{TradeID: "F5", CurrencyPair: "XYZ", FXRate: f(1), DealtCurrency: "EUR"},
	}
}

func TestComputeKRIsFX(t *testing.T) {
	t.Parallel()

	k := ComputeKRIs(fxRecords())
	assert.Equal(t, 1, k.RateOutlierCount)
	assert.Equal(t, 2, k.CurrencyMismatchCount)
	assert.Equal(t, 1, k.ReconciliationFailureCount)
	assert.Equal(t, []string{"F3"}, DefaultOptions().RateOutliers(fxRecords()))
}

func TestRadarClipped(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0.0, clip(-3))
	assert.Equal(t, 100.0, clip(140))
	assert.Equal(t, 42.0, clip(42))
}

func TestComputeKRIsEmpty(t *testing.T) {
	t.Parallel()

	k := ComputeKRIs(nil)
	assert.Equal(t, 0, k.TotalTrades)
	assert.Equal(t, 0.0, k.PercentageUnallocated)
	require.Len(t, k.Radar, 3)
	for _, p := range k.Radar {
		assert.Equal(t, 0.0, p.Value)
	}
}

func TestSplitPair(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in         string
		base, term string
		ok         bool
	}{
		{"EUR/USD", "EUR", "USD", true},
		{"usdjpy", "USD", "JPY", true},
		{"GBP-CHF", "GBP", "CHF", true},
		{"EURO", "", "", false},
		{"", "", "", false},
	}
	for _, tt := range tests {
		b, term, ok := splitPair(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.base, b, tt.in)
		assert.Equal(t, tt.term, term, tt.in)
	}
}

func TestNonFiniteCellsReadAsZero(t *testing.T) {
	t.Parallel()

	recs := append(costRecords(),
		trade.Record{TradeID: "T5", Commission: f(math.Inf(1)), TradeValue: f(math.NaN())},
		trade.Record{TradeID: "T6", Extra: map[string]any{"Commission": "1e400", "Trade Value": "-1e400"}},
	)

	var k KPIResult
	require.NotPanics(t, func() { k = ComputeKPIs(recs) })
	assert.Equal(t, 300.0, k.TotalCommissionFees)
	assert.Equal(t, 35000.0, k.TotalNotional)
	assert.Equal(t, 6, k.Summary.TradeCount)

	var r KRIResult
	require.NotPanics(t, func() { r = ComputeKRIs(recs) })
	assert.Equal(t, 1, r.CostOverrunCount)
	assert.Equal(t, 3, r.IncompleteCount)
}

func TestSumSkipsNonFinite(t *testing.T) {
	t.Parallel()

	var s sum
	s.add(1.5)
	s.add(math.Inf(1))
	s.add(math.NaN())
	s.add(math.Inf(-1))
	assert.Equal(t, 1.5, s.value())
}
