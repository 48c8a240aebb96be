package worker

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ndanilko/taskdeck/internal/repo"
)

// Sweeper deletes expired session rows on a ticker. Expired sessions
// are already invisible to lookups; this just keeps the table small.
type Sweeper struct {
	sessions repo.SessionRepository
	logger   *zap.Logger
	interval time.Duration
	wg       sync.WaitGroup
	stop     chan struct{}
}

func NewSweeper(sessions repo.SessionRepository, logger *zap.Logger, interval time.Duration) *Sweeper {
	return &Sweeper{
		sessions: sessions,
		logger:   logger,
		interval: interval,
		stop:     make(chan struct{}),
	}
}

func (s *Sweeper) Start(ctx context.Context) {
	s.logger.Info("Starting session sweeper", zap.Duration("interval", s.interval))

	s.wg.Add(1)
	go s.run(ctx)
}

func (s *Sweeper) Stop() {
	s.logger.Info("Stopping session sweeper...")
	close(s.stop)
	s.wg.Wait()
	s.logger.Info("Session sweeper stopped")
}

func (s *Sweeper) run(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := s.sessions.DeleteExpired(ctx)
			if err != nil {
				s.logger.Error("session sweep failed", zap.Error(err))
				continue
			}
			if removed > 0 {
				s.logger.Info("Swept expired sessions", zap.Int64("removed", removed))
			}
		}
	}
}
