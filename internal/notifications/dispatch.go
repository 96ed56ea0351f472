package notifications

import (
	"context"
	"log/slog"
	"time"
)

// StartWorker runs a background loop that delivers due reminders from sink.
// Blocks until ctx is cancelled. Intended to be called with `go`.
func StartWorker(ctx context.Context, sink *MemorySink, deliverer Deliverer, logger *slog.Logger) {
	logger.Info("Reminder dispatch worker started", "interval", dispatchInterval)
	ticker := time.NewTicker(dispatchInterval)
	defer ticker.Stop()

	for {
		select {
		case now := <-ticker.C:
			sent, failed := dispatchDue(ctx, sink, deliverer, now, logger)
			if sent+failed > 0 {
				logger.Info("dispatch batch", "sent", sent, "failed", failed)
			}
		case <-ctx.Done():
			logger.Info("Reminder dispatch worker stopped")
			return
		}
	}
}

func dispatchDue(ctx context.Context, sink *MemorySink, deliverer Deliverer, now time.Time, logger *slog.Logger) (sent, failed int) {
	for _, r := range sink.ClaimDue(now) {
		if err := deliverer.Deliver(ctx, r); err != nil {
			logger.Warn("deliver failed", "reminder_id", r.ID, "error", err)
			failed++
			continue
		}
		sent++
	}
	return sent, failed
}
