package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/sitesync/backend/internal/infrastructure/config"
)

// RunStatus represents the outcome of one job run
type RunStatus string

const (
	RunStatusRunning RunStatus = "RUNNING"
	RunStatusSuccess RunStatus = "SUCCESS"
	RunStatusFailed  RunStatus = "FAILED"
)

// Run records one execution of a scheduled job
type Run struct {
	Job         string     `json:"job"`
	Status      RunStatus  `json:"status"`
	Error       string     `json:"error,omitempty"`
	StartedAt   time.Time  `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// JobFunc is a sweep executed on a fixed interval. It returns how many
// items the sweep handled.
type JobFunc func(ctx context.Context) (int, error)

type job struct {
	name     string
	interval time.Duration
	run      JobFunc
}

// Scheduler runs the periodic sweeps of the service: the site refresh
// sweep and the payment notification sweep. Each job runs on its own
// ticker with a per-run timeout.
type Scheduler struct {
	cfg    config.SchedulerConfig
	logger *zap.Logger

	jobs      []job
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool

	// run history for monitoring, in memory only
	historyMu  sync.RWMutex
	history    []*Run
	maxHistory int
}

// New creates a scheduler without any jobs registered
func New(cfg config.SchedulerConfig, logger *zap.Logger) (*Scheduler, error) {
	if cfg.JobTimeout <= 0 {
		return nil, ErrInvalidConfig
	}
	return &Scheduler{
		cfg:        cfg,
		logger:     logger.Named("scheduler"),
		history:    make([]*Run, 0, 100),
		maxHistory: 100,
	}, nil
}

// Register adds a job that runs every interval. Jobs with a
// non-positive interval are ignored.
func (s *Scheduler) Register(name string, interval time.Duration, run JobFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if interval <= 0 {
		s.logger.Warn("job disabled, no interval configured", zap.String("job", name))
		return
	}
	s.jobs = append(s.jobs, job{name: name, interval: interval, run: run})
}

// Start launches one ticker goroutine per registered job
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isRunning {
		return nil
	}
	if !s.cfg.Enabled {
		s.logger.Info("scheduler disabled")
		return nil
	}
	s.isRunning = true

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	for _, j := range s.jobs {
		s.wg.Add(1)
		go s.loop(ctx, j)
	}
	s.logger.Info("scheduler started", zap.Int("jobs", len(s.jobs)))
	return nil
}

// Stop stops the tickers and waits for running jobs to finish
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("scheduler stopped")
		return nil
	case <-ctx.Done():
		s.logger.Warn("scheduler stop timed out")
		return ctx.Err()
	}
}

// Trigger runs a registered job once, outside its schedule
func (s *Scheduler) Trigger(ctx context.Context, name string) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return ErrSchedulerNotRunning
	}
	var target *job
	for i := range s.jobs {
		if s.jobs[i].name == name {
			target = &s.jobs[i]
			break
		}
	}
	s.mu.Unlock()

	if target == nil {
		return ErrUnknownJob
	}
	s.execute(ctx, *target)
	return nil
}

// History returns the most recent job runs, newest first
func (s *Scheduler) History(limit int) []*Run {
	s.historyMu.RLock()
	defer s.historyMu.RUnlock()

	if limit <= 0 || limit > len(s.history) {
		limit = len(s.history)
	}
	result := make([]*Run, limit)
	copy(result, s.history[:limit])
	return result
}

func (s *Scheduler) loop(ctx context.Context, j job) {
	defer s.wg.Done()

	s.logger.Info("job scheduled",
		zap.String("job", j.name),
		zap.Duration("interval", j.interval))

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Debug("job loop stopping", zap.String("job", j.name))
			return
		case <-ticker.C:
			s.execute(ctx, j)
		}
	}
}

func (s *Scheduler) execute(ctx context.Context, j job) {
	run := &Run{Job: j.name, Status: RunStatusRunning, StartedAt: time.Now()}
	s.addToHistory(run)

	jobCtx, cancel := context.WithTimeout(ctx, s.cfg.JobTimeout)
	defer cancel()

	handled, err := j.run(jobCtx)
	now := time.Now()
	run.CompletedAt = &now
	if err != nil {
		run.Status = RunStatusFailed
		run.Error = err.Error()
		s.logger.Error("job failed",
			zap.String("job", j.name),
			zap.Duration("elapsed", now.Sub(run.StartedAt)),
			zap.Error(err))
		return
	}
	run.Status = RunStatusSuccess
	s.logger.Info("job finished",
		zap.String("job", j.name),
		zap.Int("handled", handled),
		zap.Duration("elapsed", now.Sub(run.StartedAt)))
}

func (s *Scheduler) addToHistory(run *Run) {
	s.historyMu.Lock()
	defer s.historyMu.Unlock()

	s.history = append([]*Run{run}, s.history...)
	if len(s.history) > s.maxHistory {
		s.history = s.history[:s.maxHistory]
	}
}
