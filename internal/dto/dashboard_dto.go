package dto

import "github.com/shopspring/decimal"

// ─── Filter ──────────────────────────────────────────────────────────────────

type DashboardFilter struct {
	WarehouseID string `form:"warehouse_id"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type DashboardKPIs struct {
	TotalProducts    int64           `json:"total_products"`
	TotalStockUnits  int64           `json:"total_stock_units"`
	StockValuation   decimal.Decimal `json:"stock_valuation"`
	LowStockCount    int64           `json:"low_stock_count"`
	OutOfStockCount  int64           `json:"out_of_stock_count"`
	PendingReceipts  int64           `json:"pending_receipts"`
	PendingDeliveries int64          `json:"pending_deliveries"`
	ActiveTransfers  int64           `json:"active_transfers"`
}

type DashboardResponse struct {
	KPIs            DashboardKPIs      `json:"kpis"`
	RecentMovements []MovementResponse `json:"recent_movements"`
	LowStockItems   []ProductResponse  `json:"low_stock_items"`
}

// DashboardFiltersResponse feeds the dashboard's filter dropdowns.
type DashboardFiltersResponse struct {
	Warehouses []WarehouseResponse `json:"warehouses"`
	Categories []CategoryResponse  `json:"categories"`
}
