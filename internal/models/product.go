package models

import (
	"errors"
	"fmt"
	"strings"
)

type ProductStatus string

const (
	ProductStatusActive ProductStatus = "active"
	ProductStatusPaused ProductStatus = "paused"
)

// LearningStatus is informational only. The empty value means the product
// has no learning phase (null).
type LearningStatus string

const (
	LearningStatusNone      LearningStatus = ""
	LearningStatusLearning  LearningStatus = "learning"
	LearningStatusCompleted LearningStatus = "completed"
)

type BudgetMode string

const (
	BudgetModeUnlimited BudgetMode = "unlimited"
	BudgetModeCustom    BudgetMode = "custom"
)

// AdProduct is one promoted product (campaign) in the console.
//
// Spend, Sales and Orders are the single source of truth for Roas, Acos and
// Cpa. The derived fields are stored only so a list read does not have to
// recompute them; every mutation goes through the reconciler, which keeps
// them consistent. CTR and CVR are never stored.
type AdProduct struct {
	ID             string         `json:"id" yaml:"id"`
	SkuID          string         `json:"sku_id" yaml:"sku_id"`
	SpuID          string         `json:"spu_id" yaml:"spu_id"`
	Name           string         `json:"name" yaml:"name"`
	ImageURL       string         `json:"image_url,omitempty" yaml:"image_url"`
	StationInfo    string         `json:"station_info,omitempty" yaml:"station_info"`
	Status         ProductStatus  `json:"status" yaml:"status"`
	LearningStatus LearningStatus `json:"learning_status,omitempty" yaml:"learning_status"`

	// Budget
	BudgetMode             BudgetMode `json:"budget_mode" yaml:"budget_mode"`
	BudgetAmount           float64    `json:"budget_amount" yaml:"budget_amount"`
	RemainingBudgetPercent float64    `json:"remaining_budget_percent,omitempty" yaml:"remaining_budget_percent"`
	TargetRoas             float64    `json:"target_roas" yaml:"target_roas"`

	// Raw performance counters
	Spend       float64 `json:"spend" yaml:"spend"`
	Sales       float64 `json:"sales" yaml:"sales"`
	Impressions int64   `json:"impressions" yaml:"impressions"`
	Clicks      int64   `json:"clicks" yaml:"clicks"`
	Orders      int64   `json:"orders" yaml:"orders"`

	// Derived financial metrics
	Roas float64 `json:"roas" yaml:"-"`
	Acos float64 `json:"acos" yaml:"-"`
	Cpa  float64 `json:"cpa" yaml:"-"`

	TodayGmv       float64 `json:"today_gmv" yaml:"today_gmv"`
	TotalLaunchGmv float64 `json:"total_launch_gmv" yaml:"total_launch_gmv"`
}

// Validate checks identity and the value ranges the console relies on.
func (p *AdProduct) Validate() error {
	if p == nil {
		return errors.New("product is nil")
	}
	if p.ID == "" {
		return errors.New("id is required")
	}
	switch p.Status {
	case ProductStatusActive, ProductStatusPaused:
	default:
		return fmt.Errorf("product %s: invalid status %q", p.ID, p.Status)
	}
	switch p.LearningStatus {
	case LearningStatusNone, LearningStatusLearning, LearningStatusCompleted:
	default:
		return fmt.Errorf("product %s: invalid learning status %q", p.ID, p.LearningStatus)
	}
	switch p.BudgetMode {
	case BudgetModeUnlimited, BudgetModeCustom:
	default:
		return fmt.Errorf("product %s: invalid budget mode %q", p.ID, p.BudgetMode)
	}
	if p.BudgetAmount < 0 {
		return fmt.Errorf("product %s: budget_amount must be >= 0", p.ID)
	}
	if p.TargetRoas <= 0 {
		return fmt.Errorf("product %s: target_roas must be > 0", p.ID)
	}
	if p.Spend < 0 || p.Sales < 0 || p.Impressions < 0 || p.Clicks < 0 || p.Orders < 0 {
		return fmt.Errorf("product %s: performance counters must be >= 0", p.ID)
	}
	return nil
}

// Recalculate derives Roas, Acos and Cpa from Spend, Sales and Orders.
func (p *AdProduct) Recalculate() {
	p.Roas = DeriveRoas(p.Spend, p.Sales)
	p.Acos = DeriveAcos(p.Spend, p.Sales)
	p.Cpa = DeriveCpa(p.Spend, p.Orders)
}

// NormalizeBudget enforces unlimited => amount 0.
func (p *AdProduct) NormalizeBudget() {
	if p.BudgetMode == BudgetModeUnlimited {
		p.BudgetAmount = 0
	}
}

// CTR is clicks over impressions, computed on every read.
func (p AdProduct) CTR() float64 {
	return DeriveCTR(p.Clicks, p.Impressions)
}

// CVR is orders over clicks, computed on every read.
func (p AdProduct) CVR() float64 {
	return DeriveCVR(p.Orders, p.Clicks)
}

// MatchesToken reports whether the search token names this product by id,
// sku id or spu id.
func (p AdProduct) MatchesToken(tok string) bool {
	tok = strings.TrimSpace(tok)
	if tok == "" {
		return false
	}
	return tok == p.ID || tok == p.SkuID || tok == p.SpuID
}

// Ratios with a zero or negative denominator are 0, never NaN or Inf.

func DeriveRoas(spend, sales float64) float64 {
	if spend > 0 {
		return sales / spend
	}
	return 0
}

// DeriveAcos is a percentage: spend / sales * 100.
func DeriveAcos(spend, sales float64) float64 {
	if sales > 0 {
		return spend / sales * 100
	}
	return 0
}

func DeriveCpa(spend float64, orders int64) float64 {
	if orders > 0 {
		return spend / float64(orders)
	}
	return 0
}

func DeriveCTR(clicks, impressions int64) float64 {
	if impressions > 0 {
		return float64(clicks) / float64(impressions)
	}
	return 0
}

func DeriveCVR(orders, clicks int64) float64 {
	if clicks > 0 {
		return float64(orders) / float64(clicks)
	}
	return 0
}
