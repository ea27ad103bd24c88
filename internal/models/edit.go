package models

// ProductEdit is a sparse set of field assignments. A nil field is not
// touched. Roas, Acos and Cpa are derived, so only Roas is writable (it is
// back-solved into Sales by the reconciler).
type ProductEdit struct {
	Spend       *float64 `json:"spend,omitempty"`
	Sales       *float64 `json:"sales,omitempty"`
	Orders      *int64   `json:"orders,omitempty"`
	Roas        *float64 `json:"roas,omitempty"`
	Impressions *int64   `json:"impressions,omitempty"`
	Clicks      *int64   `json:"clicks,omitempty"`

	Status         *ProductStatus `json:"status,omitempty"`
	BudgetMode     *BudgetMode    `json:"budget_mode,omitempty"`
	BudgetAmount   *float64       `json:"budget_amount,omitempty"`
	TargetRoas     *float64       `json:"target_roas,omitempty"`
	TodayGmv       *float64       `json:"today_gmv,omitempty"`
	TotalLaunchGmv *float64       `json:"total_launch_gmv,omitempty"`
}

// TouchesFinancials reports whether the edit assigns spend, sales or orders.
func (e ProductEdit) TouchesFinancials() bool {
	return e.Spend != nil || e.Sales != nil || e.Orders != nil
}

// IsEmpty reports whether the edit assigns nothing.
func (e ProductEdit) IsEmpty() bool {
	return len(e.Fields()) == 0
}

// Fields lists the assigned field names, in declaration order.
func (e ProductEdit) Fields() []string {
	var out []string
	add := func(set bool, name string) {
		if set {
			out = append(out, name)
		}
	}
	add(e.Spend != nil, "spend")
	add(e.Sales != nil, "sales")
	add(e.Orders != nil, "orders")
	add(e.Roas != nil, "roas")
	add(e.Impressions != nil, "impressions")
	add(e.Clicks != nil, "clicks")
	add(e.Status != nil, "status")
	add(e.BudgetMode != nil, "budget_mode")
	add(e.BudgetAmount != nil, "budget_amount")
	add(e.TargetRoas != nil, "target_roas")
	add(e.TodayGmv != nil, "today_gmv")
	add(e.TotalLaunchGmv != nil, "total_launch_gmv")
	return out
}

// MergeInto copies every assigned field onto p. No recomputation happens here.
func (e ProductEdit) MergeInto(p *AdProduct) {
	if e.Spend != nil {
		p.Spend = *e.Spend
	}
	if e.Sales != nil {
		p.Sales = *e.Sales
	}
	if e.Orders != nil {
		p.Orders = *e.Orders
	}
	if e.Roas != nil {
		p.Roas = *e.Roas
	}
	if e.Impressions != nil {
		p.Impressions = *e.Impressions
	}
	if e.Clicks != nil {
		p.Clicks = *e.Clicks
	}
	if e.Status != nil {
		p.Status = *e.Status
	}
	if e.BudgetMode != nil {
		p.BudgetMode = *e.BudgetMode
	}
	if e.BudgetAmount != nil {
		p.BudgetAmount = *e.BudgetAmount
	}
	if e.TargetRoas != nil {
		p.TargetRoas = *e.TargetRoas
	}
	if e.TodayGmv != nil {
		p.TodayGmv = *e.TodayGmv
	}
	if e.TotalLaunchGmv != nil {
		p.TotalLaunchGmv = *e.TotalLaunchGmv
	}
}

func Float(v float64) *float64 { return &v }

func Int(v int64) *int64 { return &v }
