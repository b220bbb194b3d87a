package monitor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/fastygo/dashboard/domain"
	"github.com/fastygo/dashboard/repository"
)

// Backend is the remote API being watched.
type Backend interface {
	Ping(ctx context.Context) error
}

// Session exposes the authentication flag shown next to the checks.
type Session interface {
	IsAuthenticated() bool
}

// Monitor periodically checks that the backend answers and the token store is
// readable. It only reports; it never changes the session.
type Monitor struct {
	backend Backend
	store   repository.TokenRepository
	session Session

	status   Status
	mu       sync.RWMutex
	interval time.Duration
	cron     *cron.Cron
	logger   *zap.Logger
}

func New(backend Backend, store repository.TokenRepository, session Session, interval time.Duration, logger *zap.Logger) *Monitor {
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &Monitor{
		backend:  backend,
		store:    store,
		session:  session,
		interval: interval,
		logger:   logger,
	}
	if interval > 0 {
		m.cron = cron.New(cron.WithSeconds())
		schedule := fmt.Sprintf("@every %ds", max(int(interval.Seconds()), 1))
		if _, err := m.cron.AddFunc(schedule, func() {
			ctx, cancel := context.WithTimeout(context.Background(), m.interval)
			defer cancel()
			m.Refresh(ctx)
		}); err != nil {
			logger.Warn("health schedule rejected, periodic checks disabled",
				zap.String("schedule", schedule), zap.Error(err))
			m.cron = nil
		}
	}
	return m
}

// Start runs a first check and launches the schedule.
func (m *Monitor) Start(ctx context.Context) {
	m.Refresh(ctx)
	if m.cron == nil {
		return
	}
	m.cron.Start()
	m.logger.Info("health monitor started", zap.Duration("interval", m.interval))
}

// Stop waits for a running check to finish or ctx to expire.
func (m *Monitor) Stop(ctx context.Context) {
	if m.cron == nil {
		return
	}
	stopCtx := m.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-ctx.Done():
	}
	m.logger.Info("health monitor stopped")
}

// IsOnline reports whether the last check reached the backend.
func (m *Monitor) IsOnline() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status.Backend
}

func (m *Monitor) GetStatus() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status
}

// Refresh runs all checks now.
func (m *Monitor) Refresh(ctx context.Context) Status {
	status := Status{LastCheck: time.Now()}

	if err := m.checkBackend(ctx); err != nil {
		status.BackendError = err.Error()
	} else {
		status.Backend = true
	}
	if err := m.checkStore(ctx); err != nil {
		status.StoreError = err.Error()
	} else {
		status.TokenStore = true
	}
	if m.session != nil {
		status.Authenticated = m.session.IsAuthenticated()
	}

	m.mu.Lock()
	previous := m.status
	m.status = status
	m.mu.Unlock()

	if !previous.LastCheck.IsZero() && previous.Backend != status.Backend {
		m.logger.Info("backend reachability changed", zap.Bool("online", status.Backend))
	}
	if !status.TokenStore {
		m.logger.Warn("token store check failed", zap.String("error", status.StoreError))
	}
	return status
}

func (m *Monitor) checkBackend(ctx context.Context) error {
	if m.backend == nil {
		return errors.New("backend not configured")
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	return m.backend.Ping(ctx)
}

func (m *Monitor) checkStore(ctx context.Context) error {
	if m.store == nil {
		return errors.New("token store not configured")
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if _, err := m.store.Load(ctx); err != nil && !errors.Is(err, domain.ErrTokenNotFound) {
		return err
	}
	return nil
}
