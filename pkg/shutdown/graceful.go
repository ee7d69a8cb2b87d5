package shutdown

import (
	"context"
	"os"
	"os/signal"
	"time"

	"github.com/honeycarbs/empleos/pkg/logging"
)

// Stoppable is anything that can be shut down with a deadline.
type Stoppable interface {
	Shutdown(ctx context.Context) error
}

// Graceful blocks until one of the signals arrives, then shuts s down with
// the given timeout. Run it in its own goroutine.
func Graceful(signals []os.Signal, s Stoppable, timeout time.Duration, log *logging.Logger) {
	sigCtx, stop := signal.NotifyContext(context.Background(), signals...)
	defer stop()

	<-sigCtx.Done()
	log.Info("shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := s.Shutdown(ctx); err != nil {
		log.Warn("shutdown completed with error", "err", err)
		return
	}
	log.Info("shutdown completed")
}
