package handler

import (
	"net/http"

	"stockroom/internal/apierror"
	"stockroom/internal/dto"
	"stockroom/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type StockHandler struct {
	svc       service.StockService
	dashboard service.DashboardService
}

func NewStockHandler(svc service.StockService, dashboard service.DashboardService) *StockHandler {
	return &StockHandler{svc: svc, dashboard: dashboard}
}

// Movements lists the ledger, newest first.
func (h *StockHandler) Movements(c *gin.Context) {
	var filter dto.MovementFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.Movements(c.Request.Context(), filter)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// LowStock lists products at or below their minimum level.
func (h *StockHandler) LowStock(c *gin.Context) {
	var warehouseID *uuid.UUID
	if raw := c.Query("warehouse_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, apierror.New("invalid warehouse_id"))
			return
		}
		warehouseID = &id
	}
	resp, err := h.svc.LowStock(c.Request.Context(), warehouseID)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Dashboard returns the KPI overview.
func (h *StockHandler) Dashboard(c *gin.Context) {
	var filter dto.DashboardFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.dashboard.Overview(c.Request.Context(), filter)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// DashboardFilters returns the warehouse and category filter options.
func (h *StockHandler) DashboardFilters(c *gin.Context) {
	resp, err := h.dashboard.Filters(c.Request.Context())
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
