package models

import (
	"errors"
	"fmt"
	"time"
)

// DailySeriesPoint is one day of the report series. All five counters are
// free-form editable; nothing is recomputed when one of them changes.
type DailySeriesPoint struct {
	Date        time.Time `json:"date"`
	Label       string    `json:"label"`
	Impressions float64   `json:"impressions"`
	Clicks      float64   `json:"clicks"`
	Orders      float64   `json:"orders"`
	Sales       float64   `json:"sales"`
	Spend       float64   `json:"spend"`
}

// SeriesField names an editable counter of a DailySeriesPoint.
type SeriesField string

const (
	SeriesImpressions SeriesField = "impressions"
	SeriesClicks      SeriesField = "clicks"
	SeriesOrders      SeriesField = "orders"
	SeriesSales       SeriesField = "sales"
	SeriesSpend       SeriesField = "spend"
)

var ErrUnknownSeriesField = errors.New("unknown series field")

func ParseSeriesField(s string) (SeriesField, error) {
	switch f := SeriesField(s); f {
	case SeriesImpressions, SeriesClicks, SeriesOrders, SeriesSales, SeriesSpend:
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSeriesField, s)
}

func (p DailySeriesPoint) Get(f SeriesField) float64 {
	switch f {
	case SeriesImpressions:
		return p.Impressions
	case SeriesClicks:
		return p.Clicks
	case SeriesOrders:
		return p.Orders
	case SeriesSales:
		return p.Sales
	case SeriesSpend:
		return p.Spend
	}
	return 0
}

// Set overwrites one counter and reports whether the field was known.
func (p *DailySeriesPoint) Set(f SeriesField, v float64) bool {
	switch f {
	case SeriesImpressions:
		p.Impressions = v
	case SeriesClicks:
		p.Clicks = v
	case SeriesOrders:
		p.Orders = v
	case SeriesSales:
		p.Sales = v
	case SeriesSpend:
		p.Spend = v
	default:
		return false
	}
	return true
}

// CTR, CVR and ROAS follow the per-product formulas.

func (p DailySeriesPoint) CTR() float64 {
	if p.Impressions > 0 {
		return p.Clicks / p.Impressions
	}
	return 0
}

func (p DailySeriesPoint) CVR() float64 {
	if p.Clicks > 0 {
		return p.Orders / p.Clicks
	}
	return 0
}

func (p DailySeriesPoint) ROAS() float64 {
	return DeriveRoas(p.Spend, p.Sales)
}
