// Package worker runs the periodic background jobs behind the API server.
package worker

import (
	"context"
	"log"
	"time"

	"github.com/ajedamilola/pharmalink/internal/service"
)

const defaultSweepInterval = 5 * time.Minute

// RestockWorker periodically sweeps inventory for lots at or below their
// reorder threshold and raises auto purchase orders through the service
// layer. Manual lots are never picked up.
type RestockWorker struct {
	restock  service.RestockService
	interval time.Duration
}

func NewRestockWorker(restock service.RestockService, interval time.Duration) *RestockWorker {
	if interval <= 0 {
		interval = defaultSweepInterval
	}
	return &RestockWorker{restock: restock, interval: interval}
}

// Run blocks until the context is cancelled, sweeping once per tick.
// Sales already trigger an inline check; the sweep catches lots depleted
// by other paths, such as delivery corrections or direct edits.
func (w *RestockWorker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("restock worker stopped")
			return
		case <-ticker.C:
			raised, err := w.restock.SweepOnce(ctx)
			if err != nil {
				log.Printf("restock sweep failed: %v", err)
				continue
			}
			if raised > 0 {
				log.Printf("restock sweep raised %d purchase order(s)", raised)
			}
		}
	}
}
