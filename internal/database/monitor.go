package database

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

// Monitor tracks database availability with a background ping loop and
// exposes the result as a cheap non-blocking flag. Services that must degrade
// to fallback data consult it instead of pinging the database themselves.
//
// A Monitor built over a nil *sqlx.DB never reports available; that is the
// no-database fallback mode.
type Monitor struct {
	db        *sqlx.DB
	interval  time.Duration
	available atomic.Bool
}

// NewMonitor constructs a Monitor. The initial state reflects one immediate
// probe so availability is meaningful before Start's first tick.
func NewMonitor(db *sqlx.DB, interval time.Duration) *Monitor {
	m := &Monitor{db: db, interval: interval}
	if db != nil {
		m.probe()
	}
	return m
}

// Available reports the last observed database state. It never blocks.
func (m *Monitor) Available() bool {
	return m.available.Load()
}

// Start runs the probe loop until the context is cancelled. It is a no-op
// when no database handle was provided.
func (m *Monitor) Start(ctx context.Context) {
	if m.db == nil {
		return
	}
	log.Info().Dur("interval", m.interval).Msg("Starting database availability monitor")

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.probe()
		case <-ctx.Done():
			log.Info().Msg("Database availability monitor stopped")
			return
		}
	}
}

func (m *Monitor) probe() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	err := m.db.PingContext(ctx)
	was := m.available.Swap(err == nil)
	if err != nil && was {
		log.Warn().Err(err).Msg("Database became unavailable - serving fallback data")
	} else if err == nil && !was {
		log.Info().Msg("Database available")
	}
}
