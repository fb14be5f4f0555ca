package analytics

import (
	"sort"

	"github.com/rustyeddy/tradeops/trade"
)

// Summary describes the record set as a whole.
type Summary struct {
	TradeCount          int     `json:"tradeCount"`
	TotalTradeValue     float64 `json:"totalTradeValue"`
	AvgTradeValue       float64 `json:"avgTradeValue"`
	Counterparties      int     `json:"counterparties"`
	Venues              int     `json:"venues"`
	TotalTaxes          float64 `json:"totalTaxes"`
	TotalSettlementCost float64 `json:"totalSettlementCost"`
}

// BrokerExpense is the cost breakdown for one broker.
type BrokerExpense struct {
	Broker         string  `json:"broker"`
	Trades         int     `json:"trades"`
	Commission     float64 `json:"commission"`
	Brokerage      float64 `json:"brokerage"`
	SettlementCost float64 `json:"settlementCost"`
	TotalExpense   float64 `json:"totalExpense"`
}

// MonthFees is one broker's fees within one month.
type MonthFees struct {
	Month      string  `json:"month"`
	Commission float64 `json:"commission"`
	Brokerage  float64 `json:"brokerage"`
}

// BrokerTrend pivots a broker's fees across the trend months.
type BrokerTrend struct {
	Broker    string      `json:"broker"`
	Months    []MonthFees `json:"months"`
	TotalFees float64     `json:"totalFees"`
}

type Trend struct {
	Months  []string      `json:"months"`
	Brokers []BrokerTrend `json:"brokers"`
}

type KPIResult struct {
	Summary                                Summary         `json:"summary"`
	TotalCommissionFees                    float64         `json:"totalCommissionFees"`
	AvgCommissionFeePerTrade               float64         `json:"avgCommissionFeePerTrade"`
	TotalBrokeragePaid                     float64         `json:"totalBrokeragePaid"`
	TotalNotional                          float64         `json:"totalNotional"`
	CommissionCostAsPercentOfTradeNotional float64         `json:"commissionCostAsPercentOfTradeNotional"`
	Brokers                                []BrokerExpense `json:"brokers"`
	Trend                                  Trend           `json:"trend"`
}

// UnknownBroker groups records with no resolvable broker identity.
const UnknownBroker = "Unknown"

// ComputeKPIs computes KPIs with DefaultOptions.
func ComputeKPIs(records []trade.Record) KPIResult {
	return DefaultOptions().ComputeKPIs(records)
}

func (o Options) ComputeKPIs(records []trade.Record) KPIResult {
	var commission, brokerage, notional, taxes, settlement sum
	counterparties := map[string]bool{}
	venues := map[string]bool{}

	type acc struct {
		trades                     int
		commission, brokerage, stl sum
	}
	groups := map[string]*acc{}

	for _, r := range records {
		c, b, s, n := Commission(r), Brokerage(r), SettlementCost(r), Notional(r)
		commission.add(c)
		brokerage.add(b)
		settlement.add(s)
		notional.add(n)
		taxes.add(Number(r, taxFields))

		if cp := Counterparty(r); cp != "" {
			counterparties[cp] = true
		}
		if v := Text(r, venueFields); v != "" {
			venues[v] = true
		}

		name := Broker(r)
		if name == "" {
			name = UnknownBroker
		}
		g := groups[name]
		if g == nil {
			g = &acc{}
			groups[name] = g
		}
		g.trades++
		g.commission.add(c)
		g.brokerage.add(b)
		g.stl.add(s)
	}

	count := float64(len(records))
	res := KPIResult{
		TotalCommissionFees: commission.value(),
		TotalBrokeragePaid:  brokerage.value(),
		TotalNotional:       notional.value(),
	}
	res.AvgCommissionFeePerTrade = ratio(res.TotalCommissionFees, count)
	res.CommissionCostAsPercentOfTradeNotional = percent(res.TotalCommissionFees, res.TotalNotional)
	res.Summary = Summary{
		TradeCount:          len(records),
		TotalTradeValue:     res.TotalNotional,
		AvgTradeValue:       ratio(res.TotalNotional, count),
		Counterparties:      len(counterparties),
		Venues:              len(venues),
		TotalTaxes:          taxes.value(),
		TotalSettlementCost: settlement.value(),
	}

	for name, g := range groups {
		var total sum
		total.d = g.commission.d.Add(g.brokerage.d).Add(g.stl.d)
		res.Brokers = append(res.Brokers, BrokerExpense{
			Broker:         name,
			Trades:         g.trades,
			Commission:     g.commission.value(),
			Brokerage:      g.brokerage.value(),
			SettlementCost: g.stl.value(),
			TotalExpense:   total.value(),
		})
	}
	sort.Slice(res.Brokers, func(i, j int) bool {
		a, b := res.Brokers[i], res.Brokers[j]
		if a.TotalExpense != b.TotalExpense {
			return a.TotalExpense > b.TotalExpense
		}
		return a.Broker < b.Broker
	})
	res.Brokers = truncate(res.Brokers, o.TopBrokers)
	res.Trend = o.trend(records)
	return res
}

func (o Options) trend(records []trade.Record) Trend {
	months := o.TrendMonths
	if len(months) == 0 {
		months = latestMonths(records, 2)
	}
	tr := Trend{Months: append([]string(nil), months...)}
	if len(months) == 0 {
		return tr
	}

	index := make(map[string]int, len(months))
	for i, m := range months {
		index[m] = i
	}

	type cell struct{ commission, brokerage sum }
	byBroker := map[string][]cell{}
	for _, r := range records {
		m, ok := month(r)
		if !ok {
			continue
		}
		i, ok := index[m]
		if !ok {
			continue
		}
		name := Broker(r)
		if name == "" {
			name = UnknownBroker
		}
		cells := byBroker[name]
		if cells == nil {
			cells = make([]cell, len(months))
			byBroker[name] = cells
		}
		cells[i].commission.add(Commission(r))
		cells[i].brokerage.add(Brokerage(r))
	}

	for name, cells := range byBroker {
		bt := BrokerTrend{Broker: name}
		var total sum
		for i, c := range cells {
			bt.Months = append(bt.Months, MonthFees{
				Month:      months[i],
				Commission: c.commission.value(),
				Brokerage:  c.brokerage.value(),
			})
			total.d = total.d.Add(c.commission.d).Add(c.brokerage.d)
		}
		bt.TotalFees = total.value()
		tr.Brokers = append(tr.Brokers, bt)
	}
	sort.Slice(tr.Brokers, func(i, j int) bool {
		a, b := tr.Brokers[i], tr.Brokers[j]
		if a.TotalFees != b.TotalFees {
			return a.TotalFees > b.TotalFees
		}
		return a.Broker < b.Broker
	})
	tr.Brokers = truncate(tr.Brokers, o.TopTrend)
	return tr
}

// latestMonths returns up to n of the most recent trade months, oldest first.
func latestMonths(records []trade.Record, n int) []string {
	seen := map[string]bool{}
	var all []string
	for _, r := range records {
		if m, ok := month(r); ok && !seen[m] {
			seen[m] = true
			all = append(all, m)
		}
	}
	sort.Strings(all)
	if len(all) > n {
		all = all[len(all)-n:]
	}
	return all
}

func truncate[T any](s []T, n int) []T {
	if n > 0 && len(s) > n {
		return s[:n]
	}
	return s
}
