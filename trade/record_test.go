package trade

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDataType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    DataType
		wantErr bool
	}{
		{"equity", Equity, false},
		{"FX", FX, false},
		{" Fx ", FX, false},
		{"bond", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDataType(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownDataType)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRecordSetGet(t *testing.T) {
	t.Parallel()

	var r Record
	r.Set("tradeId", " T-1 ")
	r.Set("commission", 12.5)
	r.Set("quantity", 10)
	r.Set("dataSource", "fx")
	r.Set("Desk", "Rates")
	r.Set("price", "not a number")

	assert.Equal(t, "T-1", r.TradeID)
	require.NotNil(t, r.Commission)
	assert.Equal(t, 12.5, *r.Commission)
	require.NotNil(t, r.Quantity)
	assert.Equal(t, 10.0, *r.Quantity)
	assert.Equal(t, FX, r.DataSource)
	assert.Nil(t, r.Price)
	assert.Equal(t, "not a number", r.Extra["price"])

	v, ok := r.Get("commission")
	assert.True(t, ok)
	assert.Equal(t, 12.5, v)

	_, ok = r.Get("tradeValue")
	assert.False(t, ok)

	_, ok = r.Get("counterparty")
	assert.False(t, ok)

	assert.Equal(t, "Rates", r.GetString("Desk"))
	assert.Equal(t, "12.5", r.GetString("commission"))
	assert.Equal(t, "", r.GetString("missing"))
}

func TestRecordSetNonStringIntoTextField(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   any
		want string
	}{
		{"int", 4711, "4711"},
		{"int64", int64(9000000000), "9000000000"},
		{"whole float", float64(1234567), "1234567"},
		{"exponent float", 1e6, "1000000"},
		{"fractional float", 12.25, "12.25"},
		{"float32", float32(7), "7"},
		{"bool", true, "true"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var r Record
			r.Set("tradeId", tt.in)
			assert.Equal(t, tt.want, r.TradeID)
		})
	}
}

func TestRecordJSONOmitsUnsetNumbers(t *testing.T) {
	t.Parallel()

	r := Record{TradeID: "T1", DataSource: Equity, TradeDate: "2024-01-02", SettlementDate: "2024-01-04"}
	b, err := json.Marshal(r)
	require.NoError(t, err)
	assert.NotContains(t, string(b), "tradeValue")
	assert.Contains(t, string(b), `"dataSource":"equity"`)
}

func TestFieldKinds(t *testing.T) {
	t.Parallel()

	assert.True(t, IsNumberField("fxGainLoss"))
	assert.False(t, IsNumberField("tradeDate"))
	assert.True(t, IsStringField("tradeDate"))
	assert.False(t, IsStringField("Desk"))
}

func TestDataset(t *testing.T) {
	t.Parallel()

	ds := NewDataset([]Row{{"b": 1, "a": 2}, {"a": 3}})
	assert.Equal(t, []string{"a", "b"}, ds.Headers)
	assert.Equal(t, 2, ds.Len())
	assert.True(t, ds.HasHeader("a"))
	assert.False(t, ds.HasHeader("A"))

	empty := NewDataset(nil)
	assert.Empty(t, empty.Headers)
	assert.Equal(t, 0, empty.Len())
}

func TestIsEmpty(t *testing.T) {
	t.Parallel()

	assert.True(t, IsEmpty(nil))
	assert.True(t, IsEmpty(""))
	assert.True(t, IsEmpty("   "))
	assert.False(t, IsEmpty(0))
	assert.False(t, IsEmpty("x"))
}

func TestRecordGetFallsBackToExtra(t *testing.T) {
	t.Parallel()

	r := Record{Extra: map[string]any{"commission": "12", "blank": " "}}
	v, ok := r.Get("commission")
	assert.True(t, ok)
	assert.Equal(t, "12", v)

	_, ok = r.Get("blank")
	assert.False(t, ok)
}
