package service

import (
	"context"
	"encoding/json"
	"time"

	"stockroom/internal/apierror"
	"stockroom/internal/dto"
	"stockroom/internal/model"
	"stockroom/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	dashboardCacheKey = "cache:dashboard:"
	dashboardCacheTTL = 30 * time.Second
	recentMovements   = 10
)

type DashboardService interface {
	Overview(ctx context.Context, filter dto.DashboardFilter) (*dto.DashboardResponse, error)
	// Filters returns the warehouse and category lists the dashboard
	// filter dropdowns are built from.
	Filters(ctx context.Context) (*dto.DashboardFiltersResponse, error)
}

type dashboardService struct {
	productRepo   repository.ProductRepository
	receiptRepo   repository.ReceiptRepository
	deliveryRepo  repository.DeliveryRepository
	transferRepo  repository.TransferRepository
	movementRepo  repository.StockMovementRepository
	warehouseRepo repository.WarehouseRepository
	categoryRepo  repository.CategoryRepository
	rdb           *redis.Client
}

func NewDashboardService(
	productRepo repository.ProductRepository,
	receiptRepo repository.ReceiptRepository,
	deliveryRepo repository.DeliveryRepository,
	transferRepo repository.TransferRepository,
	movementRepo repository.StockMovementRepository,
	warehouseRepo repository.WarehouseRepository,
	categoryRepo repository.CategoryRepository,
	rdb *redis.Client,
) DashboardService {
	return &dashboardService{
		productRepo:   productRepo,
		receiptRepo:   receiptRepo,
		deliveryRepo:  deliveryRepo,
		transferRepo:  transferRepo,
		movementRepo:  movementRepo,
		warehouseRepo: warehouseRepo,
		categoryRepo:  categoryRepo,
		rdb:           rdb,
	}
}

func (s *dashboardService) Overview(ctx context.Context, filter dto.DashboardFilter) (*dto.DashboardResponse, error) {
	key := dashboardCacheKey + filter.WarehouseID

	if s.rdb != nil {
		if raw, err := s.rdb.Get(ctx, key).Result(); err == nil {
			var cached dto.DashboardResponse
			if err := json.Unmarshal([]byte(raw), &cached); err == nil {
				return &cached, nil
			}
		}
	}

	var warehouseID *uuid.UUID
	if filter.WarehouseID != "" {
		id, err := uuid.Parse(filter.WarehouseID)
		if err != nil {
			return nil, apierror.Validation("invalid warehouse_id")
		}
		warehouseID = &id
	}

	var kpis dto.DashboardKPIs
	var err error
	if kpis.TotalProducts, err = s.productRepo.CountAll(ctx, warehouseID); err != nil {
		return nil, err
	}
	if kpis.TotalStockUnits, err = s.productRepo.SumStock(ctx, warehouseID); err != nil {
		return nil, err
	}
	if kpis.StockValuation, err = s.productRepo.StockValuation(ctx, warehouseID); err != nil {
		return nil, err
	}
	if kpis.LowStockCount, err = s.productRepo.CountLowStock(ctx, warehouseID); err != nil {
		return nil, err
	}
	if kpis.OutOfStockCount, err = s.productRepo.CountOutOfStock(ctx, warehouseID); err != nil {
		return nil, err
	}
	if kpis.PendingReceipts, err = s.receiptRepo.CountByStatus(ctx, warehouseID, model.StatusDraft, model.StatusReady); err != nil {
		return nil, err
	}
	if kpis.PendingDeliveries, err = s.deliveryRepo.CountByStatus(ctx, warehouseID, model.StatusDraft); err != nil {
		return nil, err
	}
	if kpis.ActiveTransfers, err = s.transferRepo.CountByStatus(ctx, model.StatusDraft, model.StatusInTransit); err != nil {
		return nil, err
	}

	recent, err := s.movementRepo.Recent(ctx, recentMovements)
	if err != nil {
		return nil, err
	}
	movements := make([]dto.MovementResponse, 0, len(recent))
	for i := range recent {
		movements = append(movements, movementToResponse(&recent[i]))
	}

	low, err := s.productRepo.ListBelowMin(ctx, warehouseID)
	if err != nil {
		return nil, err
	}
	lowItems := make([]dto.ProductResponse, 0, len(low))
	for i := range low {
		lowItems = append(lowItems, productToResponse(&low[i]))
	}

	resp := &dto.DashboardResponse{
		KPIs:            kpis,
		RecentMovements: movements,
		LowStockItems:   lowItems,
	}

	if s.rdb != nil {
		if raw, err := json.Marshal(resp); err == nil {
			if err := s.rdb.Set(ctx, key, raw, dashboardCacheTTL).Err(); err != nil {
				log.Warn().Err(err).Msg("could not cache dashboard")
			}
		}
	}
	return resp, nil
}

func (s *dashboardService) Filters(ctx context.Context) (*dto.DashboardFiltersResponse, error) {
	warehouses, err := s.warehouseRepo.List(ctx, false)
	if err != nil {
		return nil, err
	}
	categories, err := s.categoryRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	resp := &dto.DashboardFiltersResponse{
		Warehouses: make([]dto.WarehouseResponse, 0, len(warehouses)),
		Categories: make([]dto.CategoryResponse, 0, len(categories)),
	}
	for i := range warehouses {
		resp.Warehouses = append(resp.Warehouses, warehouseToResponse(&warehouses[i]))
	}
	for i := range categories {
		count, err := s.categoryRepo.CountProducts(ctx, categories[i].ID)
		if err != nil {
			return nil, err
		}
		resp.Categories = append(resp.Categories, categoryToResponse(&categories[i], count))
	}
	return resp, nil
}
