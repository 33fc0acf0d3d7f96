package worker

import (
	"context"
	"fmt"
	"time"

	"venuebook/internal/service"
	"venuebook/pkg/telegram"

	"github.com/sirupsen/logrus"
)

// LedgerReconcileWorker periodically restores booked ledger entries that a
// confirmed booking should own but that have gone missing, and alerts the
// operator channel when a divergence cannot be repaired automatically.
type LedgerReconcileWorker struct {
	availabilityService service.AvailabilityService
	telegramBot         *telegram.Bot
	interval            time.Duration
}

func NewLedgerReconcileWorker(
	availabilityService service.AvailabilityService,
	telegramBot *telegram.Bot,
	interval time.Duration,
) *LedgerReconcileWorker {
	return &LedgerReconcileWorker{
		availabilityService: availabilityService,
		telegramBot:         telegramBot,
		interval:            interval,
	}
}

func (w *LedgerReconcileWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	logrus.Info("ledger reconcile worker started")

	for {
		select {
		case <-ctx.Done():
			logrus.Info("ledger reconcile worker stopped")
			return
		case <-ticker.C:
			w.reconcile(ctx)
		}
	}
}

func (w *LedgerReconcileWorker) reconcile(ctx context.Context) {
	report, err := w.availabilityService.Reconcile(ctx)
	if err != nil {
		logrus.Errorf("ledger reconciliation failed: %v", err)
		return
	}

	if report.Diverged == 0 {
		logrus.Debug("ledger reconciliation found nothing to repair")
		return
	}

	logrus.Infof("ledger reconciliation completed: %d diverged, %d repaired, %d failed",
		report.Diverged, report.Repaired, report.Failed)

	if report.Failed > 0 && w.telegramBot != nil {
		message := fmt.Sprintf(
			"Ledger reconciliation needs attention\n\n"+
				"Diverged bookings: %d\n"+
				"Repaired: %d\n"+
				"Could not repair: %d\n"+
				"Booking IDs: %v",
			report.Diverged,
			report.Repaired,
			report.Failed,
			report.Bookings,
		)

		if err := w.telegramBot.SendMessage(message); err != nil {
			logrus.Errorf("failed to send reconcile alert: %v", err)
		}
	}
}
