package anomaly

import (
	"fmt"
	"math"
	"testing"

	"github.com/rustyeddy/tradeops/trade"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func valued(id string, v float64) trade.Record {
	return trade.Record{TradeID: id, Counterparty: "Citi", TradeDate: "2024-06-03", TradeValue: trade.Float(v)}
}

func TestDetectLargeTrade(t *testing.T) {
	t.Parallel()

	got := Detect([]trade.Record{
		valued("A", 100), valued("B", 100), valued("C", 100), valued("D", 1000),
	})
	require.Len(t, got, 1)
	assert.Equal(t, Anomaly{
		Type:      TypeLargeTrade,
		TradeID:   "D",
		Value:     1000,
		Threshold: 975,
		Severity:  SeverityMedium,
	}, got[0])
}

func TestDetectUsesNotionalFallback(t *testing.T) {
	t.Parallel()

	fx := trade.Record{TradeID: "FX", Counterparty: "UBS", TradeDate: "2024-06-03", NotionalAmount: trade.Float(5000)}
	got := Detect([]trade.Record{valued("A", 10), valued("B", 10), valued("C", 10), fx})
	require.Len(t, got, 1)
	assert.Equal(t, "FX", got[0].TradeID)
}

func TestDetectMissingDataIsAggregate(t *testing.T) {
	t.Parallel()

	recs := []trade.Record{
		valued("A", 100),
		{TradeID: "B", TradeDate: "2024-06-03", TradeValue: trade.Float(100)},
		{TradeID: "C", Counterparty: "Citi", TradeValue: trade.Float(100)},
		{TradeID: "D", Counterparty: "Citi", TradeDate: "2024-06-03"},
	}
	got := Detect(recs)
	require.Len(t, got, 1)
	assert.Equal(t, Anomaly{Type: TypeMissingData, Count: 3, Severity: SeverityHigh}, got[0])
}

func TestDetectIgnoresNonPositive(t *testing.T) {
	t.Parallel()

	got := Detect([]trade.Record{valued("A", -100), valued("B", -100), valued("C", 0)})
	assert.Empty(t, got)
	assert.Empty(t, Detect(nil))
}

func TestHash(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0, Hash(""))
	assert.Equal(t, 138, Hash("T6"))
	assert.Equal(t, 233, Hash("é"))
	assert.Equal(t, 0xD83D+0xDE00, Hash("😀"))
}

func TestDisputesPerBatch(t *testing.T) {
	t.Parallel()

	var recs []trade.Record
	for i := 0; i < 15; i++ {
		recs = append(recs, trade.Record{TradeID: fmt.Sprintf("T%c", '0'+i), Commission: trade.Float(10)})
	}

	var disputed []string
	for _, d := range AssignDisputes(recs) {
		if d.Disputed {
			disputed = append(disputed, d.TradeID)
		}
	}
	assert.Equal(t, []string{"T6", "T>"}, disputed)
}

func TestAssignDispute(t *testing.T) {
	t.Parallel()

	r := trade.Record{TradeID: "T6", Commission: trade.Float(100), BrokerageFee: trade.Float(50)}
	d := AssignDispute(r)

	assert.True(t, d.Disputed)
	assert.Equal(t, []string{"Missing Rebate", "Duplicate Billing"}, d.Categories)
	assert.Equal(t, Fees{Commission: 100, BrokerageFee: 50}, d.Original)
	assert.Equal(t, Fees{Commission: 216, BrokerageFee: 54}, d.Adjusted)
	assert.Equal(t, 120.0, d.DisputedAmount)

	assert.Equal(t, d, AssignDispute(r), "assignment must be reproducible")
}

func TestAssignDisputeUndisputed(t *testing.T) {
	t.Parallel()

	r := trade.Record{TradeID: "T0", Commission: trade.Float(100), CustodyFee: trade.Float(4)}
	d := AssignDispute(r)
	assert.False(t, d.Disputed)
	assert.Empty(t, d.Categories)
	assert.Equal(t, d.Original, d.Adjusted)
	assert.Equal(t, 0.0, d.DisputedAmount)
	assert.Equal(t, 104.0, d.Original.Total())
}

func TestCategoriesFor(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"Incorrect Rate Applied", "Custody Fee Discrepancy"}, CategoriesFor(146))
	for h := 0; h < 100; h++ {
		cats := CategoriesFor(h)
		require.NotEmpty(t, cats)
		assert.LessOrEqual(t, len(cats), 2)
	}
}

func TestMissingResolvesCounterpartyColumns(t *testing.T) {
	t.Parallel()

	base := trade.Record{TradeID: "X", TradeDate: "2024-06-03", TradeValue: trade.Float(100)}

	raw := base
	raw.Extra = map[string]any{"Counterparty": "Citi"}
	assert.False(t, Missing(raw))

	broker := base
	broker.Extra = map[string]any{"Broker": "Citi"}
	assert.False(t, Missing(broker))

	assert.True(t, Missing(base))
}

func TestFeesIgnoreNonFinite(t *testing.T) {
	t.Parallel()

	f := Fees{Commission: math.Inf(1), BrokerageFee: math.NaN(), Taxes: 2}
	assert.Equal(t, 2.0, f.Total())
	assert.Equal(t, 0.0, scale(math.Inf(1), 1.25))
	assert.Equal(t, 0.0, scale(math.NaN(), 2))

	r := trade.Record{TradeID: "T6", Commission: trade.Float(math.Inf(1)), BrokerageFee: trade.Float(50)}
	require.NotPanics(t, func() { AssignDispute(r) })
}
