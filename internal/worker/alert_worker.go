package worker

// alert_worker.go
// Processes low-stock check jobs. A Redis SETNX key per product suppresses
// duplicate alerts for 24h, so a busy warehouse does not flood the inbox.

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"stockroom/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	alertDedupPrefix = "alert:lowstock:"
	alertDedupTTL    = 24 * time.Hour
)

// StockAlertPayload is the job envelope sent to QueueStockAlert.
type StockAlertPayload struct {
	WarehouseID string `json:"warehouse_id,omitempty"`
}

type StockAlertWorker struct {
	productRepo repository.ProductRepository
	dispatcher  *Dispatcher
	rdb         *redis.Client
	alertEmail  string
}

func NewStockAlertWorker(productRepo repository.ProductRepository, dispatcher *Dispatcher, rdb *redis.Client, alertEmail string) *StockAlertWorker {
	return &StockAlertWorker{productRepo: productRepo, dispatcher: dispatcher, rdb: rdb, alertEmail: alertEmail}
}

func (w *StockAlertWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var payload StockAlertPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("alert_worker: invalid payload")
		return nil
	}
	if w.alertEmail == "" {
		return nil
	}

	var warehouseID *uuid.UUID
	if payload.WarehouseID != "" {
		id, err := uuid.Parse(payload.WarehouseID)
		if err != nil {
			log.Error().Str("warehouse_id", payload.WarehouseID).Msg("alert_worker: invalid warehouse id")
			return nil
		}
		warehouseID = &id
	}

	products, err := w.productRepo.ListBelowMin(ctx, warehouseID)
	if err != nil {
		return err
	}

	var lines []string
	for i := range products {
		p := &products[i]
		// First alert for this product wins the SETNX; the rest skip.
		ok, err := w.rdb.SetNX(ctx, alertDedupPrefix+p.ID.String(), 1, alertDedupTTL).Result()
		if err != nil || !ok {
			continue
		}
		warehouse := p.WarehouseID.String()
		if p.Warehouse != nil {
			warehouse = p.Warehouse.Name
		}
		min := 0
		if p.MinStockLevel != nil {
			min = *p.MinStockLevel
		}
		lines = append(lines, fmt.Sprintf("- %s (%s) at %s: %d on hand, minimum %d", p.Name, p.SKU, warehouse, p.Stock, min))
	}
	if len(lines) == 0 {
		return nil
	}

	body := fmt.Sprintf("The following products are at or below their minimum stock level:\n\n%s\n", strings.Join(lines, "\n"))
	return w.dispatcher.EnqueueEmail(ctx, EmailPayload{
		To:      w.alertEmail,
		Subject: fmt.Sprintf("Low stock alert: %d products", len(lines)),
		Body:    body,
	})
}
