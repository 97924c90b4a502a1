package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// FulfillmentFacade exposes the subset of application functionality
// required by the sweeper.
type FulfillmentFacade interface {
	SweepDeliveries(ctx context.Context) (int64, error)
}

// DeliverySweeper periodically promotes pending orders whose delivery
// estimate has elapsed. The sweep itself is a single conditional update,
// so overlapping runs are harmless.
type DeliverySweeper struct {
	facade   FulfillmentFacade
	interval time.Duration
	logger   *slog.Logger

	wg     sync.WaitGroup
	cancel context.CancelFunc
	mu     sync.Mutex
}

// NewDeliverySweeper constructs the sweeper.
func NewDeliverySweeper(facade FulfillmentFacade, interval time.Duration, logger *slog.Logger) *DeliverySweeper {
	if interval <= 0 {
		interval = time.Minute
	}
	return &DeliverySweeper{
		facade:   facade,
		interval: interval,
		logger:   logger,
	}
}

// Start launches background sweeping.
func (s *DeliverySweeper) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(1)
	go s.run(runCtx)
}

// Stop waits for the sweep loop to finish.
func (s *DeliverySweeper) Stop() {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.mu.Unlock()

	s.wg.Wait()
}

func (s *DeliverySweeper) run(ctx context.Context) {
	defer s.wg.Done()
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *DeliverySweeper) sweep(ctx context.Context) {
	flipped, err := s.facade.SweepDeliveries(ctx)
	if err != nil {
		s.logger.Error("delivery sweep failed", slog.String("error", err.Error()))
		return
	}
	if flipped > 0 {
		s.logger.Info("orders marked delivered", slog.Int64("count", flipped))
	}
}
