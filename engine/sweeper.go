package engine

import (
	"time"

	log "github.com/sirupsen/logrus"
)

// DefaultSweepInterval is how often the sweeper scans for due records
// when no interval is configured.
const DefaultSweepInterval = 60 * time.Second

// Sweeper periodically expires due records through an Engine.
type Sweeper struct {
	engine   *Engine
	interval time.Duration
	stop     chan struct{}
	done     chan struct{}
}

// NewSweeper creates a Sweeper for the passed Engine. A non-positive
// interval falls back to DefaultSweepInterval.
func NewSweeper(engine *Engine, interval time.Duration) *Sweeper {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	return &Sweeper{
		engine:   engine,
		interval: interval,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start runs the sweep loop in a goroutine until Stop is called. The
// first sweep happens immediately so restarts pick up overdue records
// without waiting a full interval.
func (s *Sweeper) Start() {
	go func() {
		defer close(s.done)
		log.WithField("interval", s.interval).Info("sweeper started")
		s.engine.ExpireDue()
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.engine.ExpireDue()
			case <-s.stop:
				return
			}
		}
	}()
}

// Stop terminates the sweep loop and waits for it to finish.
func (s *Sweeper) Stop() {
	close(s.stop)
	<-s.done
}
