package backup

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Scheduler runs backups on a fixed interval in a background goroutine.
type Scheduler struct {
	svc      *Service
	interval time.Duration
	log      zerolog.Logger
	stop     chan struct{}
	done     chan struct{}
}

// NewScheduler builds a scheduler. interval <= 0 disables it: Start becomes a
// no-op.
func NewScheduler(svc *Service, interval time.Duration, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		svc:      svc,
		interval: interval,
		log:      log,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start launches the backup loop. The first backup runs after one full
// interval, not at startup.
func (s *Scheduler) Start() {
	if s.interval <= 0 {
		close(s.done)
		return
	}
	go s.run()
}

func (s *Scheduler) run() {
	defer close(s.done)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.log.Info().Dur("interval", s.interval).Msg("backup scheduler started")
	for {
		select {
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
			if _, err := s.svc.Create(ctx); err != nil {
				s.log.Error().Err(err).Msg("scheduled backup failed")
			}
			cancel()
		case <-s.stop:
			return
		}
	}
}

// Stop terminates the loop and waits for it to exit.
func (s *Scheduler) Stop() {
	select {
	case <-s.stop:
	default:
		close(s.stop)
	}
	<-s.done
}
