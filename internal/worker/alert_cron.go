package worker

// alert_cron.go
// Background goroutine that periodically enqueues a full low-stock sweep
// across all warehouses, catching products that drifted below minimum via
// adjustments or paths that never triggered an inline check.

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

const alertTickInterval = 10 * time.Minute

// StartAlertCron launches a goroutine that ticks every 10 minutes and
// enqueues a warehouse-wide low-stock check. It respects the context for
// graceful shutdown.
func StartAlertCron(ctx context.Context, dispatcher *Dispatcher) {
	go func() {
		ticker := time.NewTicker(alertTickInterval)
		defer ticker.Stop()

		log.Info().Msg("alert_cron: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("alert_cron: shutting down")
				return
			case <-ticker.C:
				if err := dispatcher.EnqueueStockAlert(ctx, StockAlertPayload{}); err != nil {
					log.Error().Err(err).Msg("alert_cron: failed to enqueue sweep")
				}
			}
		}
	}()
}
