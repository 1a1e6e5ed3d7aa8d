package jobs

import (
	"context"
	"time"

	"go.uber.org/zap"
)

const (
	heartbeatInterval = 5 * time.Minute
	lowStockInterval  = 12 * time.Hour
	remindersInterval = 24 * time.Hour
)

// Scheduler triggers the periodic jobs. Runs are non-overlapping per
// job: each tick handler completes before the next tick is consumed.
type Scheduler struct {
	heartbeat  *Heartbeat
	reconciler *StockReconciler
	reminders  *OrderReminders
	log        *zap.Logger
	stopCh     chan struct{}
}

func NewScheduler(heartbeat *Heartbeat, reconciler *StockReconciler, reminders *OrderReminders, log *zap.Logger) *Scheduler {
	return &Scheduler{
		heartbeat:  heartbeat,
		reconciler: reconciler,
		reminders:  reminders,
		log:        log,
		stopCh:     make(chan struct{}),
	}
}

func (s *Scheduler) Start(ctx context.Context) {
	s.log.Info("starting job scheduler")

	go s.runHeartbeat(ctx)
	go s.runLowStock(ctx)
	go s.runOrderReminders(ctx)
}

func (s *Scheduler) Stop() {
	s.log.Info("stopping job scheduler")
	close(s.stopCh)
}

func (s *Scheduler) runHeartbeat(ctx context.Context) {
	ticker := time.NewTicker(heartbeatInterval)
	defer ticker.Stop()

	// record aliveness right away at startup
	s.heartbeat.Run(ctx)

	for {
		select {
		case <-ticker.C:
			s.heartbeat.Run(ctx)
		case <-s.stopCh:
			s.log.Info("heartbeat job stopped")
			return
		case <-ctx.Done():
			s.log.Info("heartbeat job cancelled")
			return
		}
	}
}

func (s *Scheduler) runLowStock(ctx context.Context) {
	ticker := time.NewTicker(lowStockInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.reconciler.Run(ctx)
		case <-s.stopCh:
			s.log.Info("low-stock job stopped")
			return
		case <-ctx.Done():
			s.log.Info("low-stock job cancelled")
			return
		}
	}
}

func (s *Scheduler) runOrderReminders(ctx context.Context) {
	ticker := time.NewTicker(remindersInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.reminders.Run(ctx)
		case <-s.stopCh:
			s.log.Info("order reminders job stopped")
			return
		case <-ctx.Done():
			s.log.Info("order reminders job cancelled")
			return
		}
	}
}
