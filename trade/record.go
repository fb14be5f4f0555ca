package trade

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// DataType names one of the two canonical trade schemas.
type DataType string

const (
	Equity DataType = "equity"
	FX     DataType = "fx"
)

var ErrUnknownDataType = errors.New("unknown data type")

// ParseDataType accepts "equity" or "fx" in any case.
func ParseDataType(s string) (DataType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "equity":
		return Equity, nil
	case "fx":
		return FX, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownDataType, s)
}

// Record is the canonical trade shape produced by normalization. It spans
// both equity and FX semantics; numeric fields are nil when the source did
// not provide them. Columns outside the canonical set land in Extra.
type Record struct {
	TradeID    string   `json:"tradeId"`
	OrderID    string   `json:"orderId,omitempty"`
	ClientID   string   `json:"clientId,omitempty"`
	DataSource DataType `json:"dataSource"`

	TradeDate      string `json:"tradeDate"`
	SettlementDate string `json:"settlementDate"`
	MaturityDate   string `json:"maturityDate,omitempty"`
	CostBookedDate string `json:"costBookedDate,omitempty"`

	ISIN                 string `json:"isin,omitempty"`
	Symbol               string `json:"symbol,omitempty"`
	TradeType            string `json:"tradeType,omitempty"`
	Currency             string `json:"currency,omitempty"`
	CurrencyPair         string `json:"currencyPair,omitempty"`
	BuySell              string `json:"buySell,omitempty"`
	DealtCurrency        string `json:"dealtCurrency,omitempty"`
	BaseCurrency         string `json:"baseCurrency,omitempty"`
	TermCurrency         string `json:"termCurrency,omitempty"`
	Counterparty         string `json:"counterparty,omitempty"`
	TradingVenue         string `json:"tradingVenue,omitempty"`
	ExecutionVenue       string `json:"executionVenue,omitempty"`
	TraderName           string `json:"traderName,omitempty"`
	TraderID             string `json:"traderId,omitempty"`
	TradeStatus          string `json:"tradeStatus,omitempty"`
	SettlementStatus     string `json:"settlementStatus,omitempty"`
	CostAllocationStatus string `json:"costAllocationStatus,omitempty"`

	Quantity           *float64 `json:"quantity,omitempty"`
	Price              *float64 `json:"price,omitempty"`
	TradeValue         *float64 `json:"tradeValue,omitempty"`
	Commission         *float64 `json:"commission,omitempty"`
	Taxes              *float64 `json:"taxes,omitempty"`
	TotalCost          *float64 `json:"totalCost,omitempty"`
	MarketImpactCost   *float64 `json:"marketImpactCost,omitempty"`
	FXRateApplied      *float64 `json:"fxRateApplied,omitempty"`
	NetAmount          *float64 `json:"netAmount,omitempty"`
	CollateralRequired *float64 `json:"collateralRequired,omitempty"`
	NotionalAmount     *float64 `json:"notionalAmount,omitempty"`
	FXRate             *float64 `json:"fxRate,omitempty"`
	CommissionAmount   *float64 `json:"commissionAmount,omitempty"`
	BrokerageFee       *float64 `json:"brokerageFee,omitempty"`
	CustodyFee         *float64 `json:"custodyFee,omitempty"`
	SettlementCost     *float64 `json:"settlementCost,omitempty"`
	FXGainLoss         *float64 `json:"fxGainLoss,omitempty"`
	PnLCalculated      *float64 `json:"pnlCalculated,omitempty"`

	Extra map[string]any `json:"extra,omitempty"`
}

var stringFields = map[string]func(*Record) *string{
	"tradeId":              func(r *Record) *string { return &r.TradeID },
	"orderId":              func(r *Record) *string { return &r.OrderID },
	"clientId":             func(r *Record) *string { return &r.ClientID },
	"tradeDate":            func(r *Record) *string { return &r.TradeDate },
	"settlementDate":       func(r *Record) *string { return &r.SettlementDate },
	"maturityDate":         func(r *Record) *string { return &r.MaturityDate },
	"costBookedDate":       func(r *Record) *string { return &r.CostBookedDate },
	"isin":                 func(r *Record) *string { return &r.ISIN },
	"symbol":               func(r *Record) *string { return &r.Symbol },
	"tradeType":            func(r *Record) *string { return &r.TradeType },
	"currency":             func(r *Record) *string { return &r.Currency },
	"currencyPair":         func(r *Record) *string { return &r.CurrencyPair },
	"buySell":              func(r *Record) *string { return &r.BuySell },
	"dealtCurrency":        func(r *Record) *string { return &r.DealtCurrency },
	"baseCurrency":         func(r *Record) *string { return &r.BaseCurrency },
	"termCurrency":         func(r *Record) *string { return &r.TermCurrency },
	"counterparty":         func(r *Record) *string { return &r.Counterparty },
	"tradingVenue":         func(r *Record) *string { return &r.TradingVenue },
	"executionVenue":       func(r *Record) *string { return &r.ExecutionVenue },
	"traderName":           func(r *Record) *string { return &r.TraderName },
	"traderId":             func(r *Record) *string { return &r.TraderID },
	"tradeStatus":          func(r *Record) *string { return &r.TradeStatus },
	"settlementStatus":     func(r *Record) *string { return &r.SettlementStatus },
	"costAllocationStatus": func(r *Record) *string { return &r.CostAllocationStatus },
}

var numberFields = map[string]func(*Record) **float64{
	"quantity":           func(r *Record) **float64 { return &r.Quantity },
	"price":              func(r *Record) **float64 { return &r.Price },
	"tradeValue":         func(r *Record) **float64 { return &r.TradeValue },
	"commission":         func(r *Record) **float64 { return &r.Commission },
	"taxes":              func(r *Record) **float64 { return &r.Taxes },
	"totalCost":          func(r *Record) **float64 { return &r.TotalCost },
	"marketImpactCost":   func(r *Record) **float64 { return &r.MarketImpactCost },
	"fxRateApplied":      func(r *Record) **float64 { return &r.FXRateApplied },
	"netAmount":          func(r *Record) **float64 { return &r.NetAmount },
	"collateralRequired": func(r *Record) **float64 { return &r.CollateralRequired },
	"notionalAmount":     func(r *Record) **float64 { return &r.NotionalAmount },
	"fxRate":             func(r *Record) **float64 { return &r.FXRate },
	"commissionAmount":   func(r *Record) **float64 { return &r.CommissionAmount },
	"brokerageFee":       func(r *Record) **float64 { return &r.BrokerageFee },
	"custodyFee":         func(r *Record) **float64 { return &r.CustodyFee },
	"settlementCost":     func(r *Record) **float64 { return &r.SettlementCost },
	"fxGainLoss":         func(r *Record) **float64 { return &r.FXGainLoss },
	"pnlCalculated":      func(r *Record) **float64 { return &r.PnLCalculated },
}

// IsNumberField reports whether key names one of the typed numeric fields.
func IsNumberField(key string) bool {
	_, ok := numberFields[key]
	return ok
}

// IsStringField reports whether key names one of the typed text fields.
func IsStringField(key string) bool {
	_, ok := stringFields[key]
	return ok
}

// Float returns a pointer to v, for filling numeric fields.
func Float(v float64) *float64 { return &v }

// Set stores v under the canonical key. Numbers go to numeric fields,
// anything else to text fields via fmt. Unknown keys, and values that do not
// fit the field's kind, go to Extra.
func (r *Record) Set(key string, v any) {
	if key == "dataSource" {
		r.DataSource = DataType(fmt.Sprint(v))
		return
	}
	if p, ok := numberFields[key]; ok {
		if f, ok := toFloat(v); ok {
			*p(r) = Float(f)
			return
		}
		r.SetExtra(key, v)
		return
	}
	if p, ok := stringFields[key]; ok {
		*p(r) = text(v)
		return
	}
	r.SetExtra(key, v)
}

func (r *Record) SetExtra(key string, v any) {
	if r.Extra == nil {
		r.Extra = map[string]any{}
	}
	r.Extra[key] = v
}

// Get returns the value stored under key and whether it is present. Typed
// fields are consulted first, then Extra. Blank strings and nil numbers count
// as absent.
func (r Record) Get(key string) (any, bool) {
	if key == "dataSource" {
		return string(r.DataSource), r.DataSource != ""
	}
	if p, ok := numberFields[key]; ok {
		if f := *p(&r); f != nil {
			return *f, true
		}
	} else if p, ok := stringFields[key]; ok {
		if s := *p(&r); s != "" {
			return s, true
		}
	}
	v, ok := r.Extra[key]
	if !ok || IsEmpty(v) {
		return nil, false
	}
	return v, true
}

// GetString is Get rendered as trimmed text; absent values yield "".
func (r Record) GetString(key string) string {
	v, ok := r.Get(key)
	if !ok {
		return ""
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s)
	}
	return fmt.Sprint(v)
}

// text renders a cell as identifier text. Floats never use exponent form.
func text(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case int32:
		return strconv.FormatInt(int64(t), 10)
	}
	return fmt.Sprint(v)
}

func toFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case int32:
		return float64(t), true
	}
	return 0, false
}
