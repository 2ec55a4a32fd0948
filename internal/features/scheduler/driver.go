package scheduler

import (
	"context"
	"time"

	"go-crm-automation/internal/config"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

// RegisterDriver starts the periodic tick loop. The loop is the only caller
// of Tick in production; tests call Tick directly with a fixed clock.
func RegisterDriver(lc fx.Lifecycle, service SchedulerService, cfg *config.Config, logger *zap.Logger) {
	done := make(chan struct{})

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			logger.Info("Starting scheduler driver",
				zap.String("feature", "scheduler"),
				zap.Duration("tick_interval", cfg.TickInterval))

			go func() {
				ticker := time.NewTicker(cfg.TickInterval)
				defer ticker.Stop()

				for {
					select {
					case <-done:
						return
					case <-ticker.C:
						service.Tick(context.Background(), time.Now())
					}
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			close(done)
			return nil
		},
	})
}
