package models

// Summary is a pure reduction over a set of products. It is never stored.
type Summary struct {
	Count          int     `json:"count"`
	Spend          float64 `json:"spend"`
	Sales          float64 `json:"sales"`
	Impressions    int64   `json:"impressions"`
	Clicks         int64   `json:"clicks"`
	Orders         int64   `json:"orders"`
	TodayGmv       float64 `json:"today_gmv"`
	TotalLaunchGmv float64 `json:"total_launch_gmv"`
}

// Totals sums the raw counters of ps.
func Totals(ps []AdProduct) Summary {
	s := Summary{Count: len(ps)}
	for _, p := range ps {
		s.Spend += p.Spend
		s.Sales += p.Sales
		s.Impressions += p.Impressions
		s.Clicks += p.Clicks
		s.Orders += p.Orders
		s.TodayGmv += p.TodayGmv
		s.TotalLaunchGmv += p.TotalLaunchGmv
	}
	return s
}

// Overall ratios use the same formulas as a single product.

func (s Summary) Roas() float64 { return DeriveRoas(s.Spend, s.Sales) }

func (s Summary) Acos() float64 { return DeriveAcos(s.Spend, s.Sales) }

func (s Summary) Cpa() float64 { return DeriveCpa(s.Spend, s.Orders) }
