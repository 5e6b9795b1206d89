package model

// OutletStats is the recomputed counter set for one outlet.
type OutletStats struct {
	TotalProducts int64   `json:"totalProducts"`
	TotalQuantity int64   `json:"totalQuantity"`
	TotalRevenue  float64 `json:"totalRevenue"`
}

// StatsBatchResult is the per-outlet outcome of a recalculate-all run.
type StatsBatchResult struct {
	OutletID   int64        `json:"outletId"`
	OutletName string       `json:"outletName"`
	Success    bool         `json:"success"`
	Stats      *OutletStats `json:"data,omitempty"`
	Error      string       `json:"error,omitempty"`
}
