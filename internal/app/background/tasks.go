package background

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// OrderSweeper is the part of the order usecase the periodic jobs drive.
type OrderSweeper interface {
	ExpireDue(ctx context.Context) (int, error)
	ScanReminders(ctx context.Context) (int, error)
}

type BackgroundTasks struct {
	OrderUsecase         OrderSweeper
	ExpirySweepInterval  time.Duration
	ReminderScanInterval time.Duration
	logger               *zap.Logger
	wg                   sync.WaitGroup
}

func NewBackgroundTasks(orderUC OrderSweeper, expiryEvery, reminderEvery time.Duration, logger *zap.Logger) *BackgroundTasks {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BackgroundTasks{
		OrderUsecase:         orderUC,
		ExpirySweepInterval:  expiryEvery,
		ReminderScanInterval: reminderEvery,
		logger:               logger.Named("background"),
	}
}

// StartAll launches every job. A job with a non-positive interval is skipped.
func (bt *BackgroundTasks) StartAll(ctx context.Context) {
	bt.start(ctx, "expiry_sweep", bt.ExpirySweepInterval, bt.expireOrders)
	bt.start(ctx, "reminder_scan", bt.ReminderScanInterval, bt.scanReminders)
}

// Wait blocks until every started job has returned after ctx is cancelled.
func (bt *BackgroundTasks) Wait() {
	bt.wg.Wait()
}

func (bt *BackgroundTasks) start(ctx context.Context, name string, every time.Duration, job func(context.Context)) {
	if every <= 0 {
		bt.logger.Info("background job disabled", zap.String("job", name))
		return
	}
	bt.wg.Add(1)
	go func() {
		defer bt.wg.Done()
		ticker := time.NewTicker(every)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				job(ctx)
			}
		}
	}()
}

func (bt *BackgroundTasks) expireOrders(ctx context.Context) {
	n, err := bt.OrderUsecase.ExpireDue(ctx)
	if err != nil {
		bt.logger.Error("expiry sweep failed", zap.Int("expired", n), zap.Error(err))
		return
	}
	if n > 0 {
		bt.logger.Info("orders expired", zap.Int("count", n))
	}
}

func (bt *BackgroundTasks) scanReminders(ctx context.Context) {
	n, err := bt.OrderUsecase.ScanReminders(ctx)
	if err != nil {
		bt.logger.Error("reminder scan failed", zap.Int("published", n), zap.Error(err))
		return
	}
	if n > 0 {
		bt.logger.Info("reminders published", zap.Int("count", n))
	}
}
