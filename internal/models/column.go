package models

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// ColumnKey names one of the fixed metric columns of the product table.
type ColumnKey string

const (
	ColumnSpend          ColumnKey = "spend"
	ColumnSales          ColumnKey = "sales"
	ColumnRoas           ColumnKey = "roas"
	ColumnAcos           ColumnKey = "acos"
	ColumnCpa            ColumnKey = "cpa"
	ColumnImpressions    ColumnKey = "impressions"
	ColumnClicks         ColumnKey = "clicks"
	ColumnCTR            ColumnKey = "ctr"
	ColumnOrders         ColumnKey = "orders"
	ColumnCVR            ColumnKey = "cvr"
	ColumnTodayGmv       ColumnKey = "todayGmv"
	ColumnTotalLaunchGmv ColumnKey = "totalLaunchGmv"
)

// ColumnKeys returns every column key in catalogue order.
func ColumnKeys() []ColumnKey {
	return []ColumnKey{
		ColumnSpend, ColumnSales, ColumnRoas, ColumnAcos, ColumnCpa,
		ColumnImpressions, ColumnClicks, ColumnCTR, ColumnOrders, ColumnCVR,
		ColumnTodayGmv, ColumnTotalLaunchGmv,
	}
}

// ParseColumnKey maps a raw key onto the closed column set.
func ParseColumnKey(s string) (ColumnKey, bool) {
	k := ColumnKey(s)
	_, ok := k.Def()
	return k, ok
}

// ColumnDef carries everything the table needs to know about a column.
type ColumnDef struct {
	Key      ColumnKey
	Label    string
	Virtual  bool // computed at read time, never stored
	Editable bool // inline-editable raw field
	Value    func(AdProduct) float64
	Format   func(float64) string
	Total    func([]AdProduct) string
}

// Def returns the definition of the column. The switch is exhaustive over the
// key set; an unknown key yields ok == false.
func (k ColumnKey) Def() (ColumnDef, bool) {
	switch k {
	case ColumnSpend:
		return ColumnDef{Key: k, Label: "总花费", Editable: true,
			Value:  func(p AdProduct) float64 { return p.Spend },
			Format: FormatMoney,
			Total:  func(ps []AdProduct) string { return FormatMoney(Totals(ps).Spend) },
		}, true
	case ColumnSales:
		return ColumnDef{Key: k, Label: "申报价销售额 (总成交额)", Editable: true,
			Value:  func(p AdProduct) float64 { return p.Sales },
			Format: FormatMoney,
			Total:  func(ps []AdProduct) string { return FormatMoney(Totals(ps).Sales) },
		}, true
	case ColumnRoas:
		return ColumnDef{Key: k, Label: "投资回报率 (ROAS)", Editable: true,
			Value:  func(p AdProduct) float64 { return p.Roas },
			Format: FormatRatio,
			Total:  func(ps []AdProduct) string { return FormatRatio(Totals(ps).Roas()) },
		}, true
	case ColumnAcos:
		return ColumnDef{Key: k, Label: "推广费比 (推广)",
			Value:  func(p AdProduct) float64 { return p.Acos },
			Format: FormatPercent,
			Total:  func(ps []AdProduct) string { return FormatPercent(Totals(ps).Acos()) },
		}, true
	case ColumnCpa:
		return ColumnDef{Key: k, Label: "每笔成交花费",
			Value:  func(p AdProduct) float64 { return p.Cpa },
			Format: FormatMoney,
			Total:  func(ps []AdProduct) string { return FormatMoney(Totals(ps).Cpa()) },
		}, true
	case ColumnImpressions:
		return ColumnDef{Key: k, Label: "曝光量", Editable: true,
			Value:  func(p AdProduct) float64 { return float64(p.Impressions) },
			Format: FormatCount,
			Total:  func(ps []AdProduct) string { return FormatCount(float64(Totals(ps).Impressions)) },
		}, true
	case ColumnClicks:
		return ColumnDef{Key: k, Label: "点击量", Editable: true,
			Value:  func(p AdProduct) float64 { return float64(p.Clicks) },
			Format: FormatCount,
			Total:  func(ps []AdProduct) string { return FormatCount(float64(Totals(ps).Clicks)) },
		}, true
	case ColumnCTR:
		return ColumnDef{Key: k, Label: "点击率 (CTR)", Virtual: true,
			Value:  AdProduct.CTR,
			Format: FormatRate,
			Total:  noTotal,
		}, true
	case ColumnOrders:
		return ColumnDef{Key: k, Label: "订单量", Editable: true,
			Value:  func(p AdProduct) float64 { return float64(p.Orders) },
			Format: FormatCount,
			Total:  func(ps []AdProduct) string { return FormatCount(float64(Totals(ps).Orders)) },
		}, true
	case ColumnCVR:
		return ColumnDef{Key: k, Label: "转化率 (CVR)", Virtual: true,
			Value:  AdProduct.CVR,
			Format: FormatRate,
			Total:  noTotal,
		}, true
	case ColumnTodayGmv:
		return ColumnDef{Key: k, Label: "今日成交额", Editable: true,
			Value:  func(p AdProduct) float64 { return p.TodayGmv },
			Format: FormatMoney,
			Total:  func(ps []AdProduct) string { return FormatMoney(Totals(ps).TodayGmv) },
		}, true
	case ColumnTotalLaunchGmv:
		return ColumnDef{Key: k, Label: "投放以来总成交额", Editable: true,
			Value:  func(p AdProduct) float64 { return p.TotalLaunchGmv },
			Format: FormatMoney,
			Total:  func(ps []AdProduct) string { return FormatMoney(Totals(ps).TotalLaunchGmv) },
		}, true
	}
	return ColumnDef{}, false
}

// EditFor builds the single-field edit an inline cell commit produces.
func (k ColumnKey) EditFor(v float64) (ProductEdit, bool) {
	var e ProductEdit
	switch k {
	case ColumnSpend:
		e.Spend = Float(v)
	case ColumnSales:
		e.Sales = Float(v)
	case ColumnRoas:
		e.Roas = Float(v)
	case ColumnImpressions:
		e.Impressions = Int(int64(v))
	case ColumnClicks:
		e.Clicks = Int(int64(v))
	case ColumnOrders:
		e.Orders = Int(int64(v))
	case ColumnTodayGmv:
		e.TodayGmv = Float(v)
	case ColumnTotalLaunchGmv:
		e.TotalLaunchGmv = Float(v)
	default:
		return ProductEdit{}, false
	}
	return e, true
}

// ColumnSpec is one entry of the runtime column configuration.
type ColumnSpec struct {
	Key     ColumnKey `json:"key" yaml:"key"`
	Label   string    `json:"label" yaml:"label"`
	Visible bool      `json:"visible" yaml:"visible"`
}

func noTotal([]AdProduct) string { return "-" }

// Presentation formatters. Values keep full precision internally and are
// rounded to two decimals only here.

func FormatMoney(v float64) string {
	return "¥" + groupThousands(decimal.NewFromFloat(v).StringFixed(2))
}

func FormatRatio(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

// FormatPercent renders a value that is already a percentage.
func FormatPercent(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2) + "%"
}

// FormatRate renders a fraction as a percentage.
func FormatRate(v float64) string {
	return decimal.NewFromFloat(v).Mul(decimal.NewFromInt(100)).StringFixed(2) + "%"
}

func FormatCount(v float64) string {
	return groupThousands(strconv.FormatInt(int64(v), 10))
}

// Round2 rounds half away from zero to two decimals.
func Round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

func groupThousands(s string) string {
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, frac = s[:i], s[i:]
	}
	if len(intPart) <= 3 {
		return sign + intPart + frac
	}
	var b strings.Builder
	lead := len(intPart) % 3
	if lead > 0 {
		b.WriteString(intPart[:lead])
	}
	for i := lead; i < len(intPart); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(intPart[i : i+3])
	}
	return sign + b.String() + frac
}
