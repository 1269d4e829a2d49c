// Package scheduler runs named jobs on cron schedules in a fixed time zone.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/robfig/cron/v3"

	"github.com/jsamuelsen/daily-quote/internal/platform/logging"
)

// DefaultJobTimeout bounds a job run when Job.Timeout is zero.
const DefaultJobTimeout = 30 * time.Second

// Job results recorded in the runs counter.
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

var (
	// ErrDuplicateJob is returned when a job name is registered twice.
	ErrDuplicateJob = errors.New("duplicate job")

	// ErrUnknownJob is returned when a job name has not been registered.
	ErrUnknownJob = errors.New("unknown job")
)

// Task is the unit of work a job performs.
type Task func(ctx context.Context) error

// Job binds a task to a cron schedule.
type Job struct {
	// Name identifies the job in logs and metrics.
	Name string

	// Spec is a five-field cron expression or a descriptor such as @daily.
	Spec string

	Task Task

	// Timeout bounds one run. Defaults to DefaultJobTimeout.
	Timeout time.Duration
}

// Config configures a Scheduler.
type Config struct {
	// Location is the zone cron expressions are evaluated in. Defaults to time.Local.
	Location *time.Location

	// Registerer receives the job metrics. Defaults to prometheus.DefaultRegisterer.
	Registerer prometheus.Registerer

	// Logger is used for job lifecycle logs. Defaults to slog.Default().
	Logger *slog.Logger
}

// Scheduler triggers registered jobs. A failed run is logged and counted;
// the job stays scheduled for its next activation.
type Scheduler struct {
	cron     *cron.Cron
	location *time.Location
	logger   *slog.Logger

	runs     *prometheus.CounterVec
	duration *prometheus.HistogramVec

	mu      sync.RWMutex
	jobs    map[string]*entry
	baseCtx context.Context
	cancel  context.CancelFunc
}

type entry struct {
	job Job
	id  cron.EntryID
}

// New creates a stopped Scheduler.
func New(cfg Config) *Scheduler {
	loc := cfg.Location
	if loc == nil {
		loc = time.Local
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	reg := cfg.Registerer
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	factory := promauto.With(reg)
	cronLog := cronLogger{logger: logger}

	ctx, cancel := context.WithCancel(context.Background())

	return &Scheduler{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithLogger(cronLog),
			cron.WithChain(cron.Recover(cronLog), cron.SkipIfStillRunning(cronLog)),
		),
		location: loc,
		logger:   logger,
		runs: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "scheduler_job_runs_total",
			Help: "Scheduled job runs by job name and result.",
		}, []string{"job", "result"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "scheduler_job_duration_seconds",
			Help:    "Duration of scheduled job runs.",
			Buckets: prometheus.DefBuckets,
		}, []string{"job"}),
		jobs:    make(map[string]*entry),
		baseCtx: ctx,
		cancel:  cancel,
	}
}

// Add registers a job. It may be called before or after Start.
func (s *Scheduler) Add(job Job) error {
	if job.Name == "" {
		return errors.New("job name is required")
	}

	if job.Task == nil {
		return fmt.Errorf("job %q has no task", job.Name)
	}

	if job.Timeout <= 0 {
		job.Timeout = DefaultJobTimeout
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.jobs[job.Name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateJob, job.Name)
	}

	id, err := s.cron.AddFunc(job.Spec, func() {
		_ = s.run(s.baseCtx, job)
	})
	if err != nil {
		return fmt.Errorf("parsing schedule %q for job %q: %w", job.Spec, job.Name, err)
	}

	s.jobs[job.Name] = &entry{job: job, id: id}

	s.logger.Info("job scheduled",
		slog.String("job_name", job.Name),
		slog.String("spec", job.Spec),
		slog.String("location", s.location.String()),
	)

	return nil
}

// Start begins triggering jobs in a background goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts future activations, cancels running jobs, and waits for them
// to return or for ctx to be done.
func (s *Scheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop()
	s.cancel()

	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return fmt.Errorf("waiting for running jobs: %w", ctx.Err())
	}
}

// RunNow runs the named job immediately in the caller's goroutine.
func (s *Scheduler) RunNow(ctx context.Context, name string) error {
	s.mu.RLock()
	e, ok := s.jobs[name]
	s.mu.RUnlock()

	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownJob, name)
	}

	return s.run(ctx, e.job)
}

// Next returns the next activation time of the named job. The scheduler must be started.
func (s *Scheduler) Next(name string) (time.Time, error) {
	s.mu.RLock()
	e, ok := s.jobs[name]
	s.mu.RUnlock()

	if !ok {
		return time.Time{}, fmt.Errorf("%w: %s", ErrUnknownJob, name)
	}

	return s.cron.Entry(e.id).Next, nil
}

// run executes one activation under the job timeout and records the outcome.
func (s *Scheduler) run(ctx context.Context, job Job) error {
	ctx, cancel := context.WithTimeout(ctx, job.Timeout)
	defer cancel()

	ctx = logging.WithContext(ctx, s.logger)
	ctx = logging.WithJob(ctx, job.Name, uuid.NewString())
	logger := logging.FromContext(ctx)

	logger.Debug("job started")

	start := time.Now()
	err := job.Task(ctx)
	elapsed := time.Since(start)

	s.duration.WithLabelValues(job.Name).Observe(elapsed.Seconds())

	if err != nil {
		s.runs.WithLabelValues(job.Name, ResultFailure).Inc()
		logger.Error("job failed",
			slog.Duration("duration", elapsed),
			slog.String("error", err.Error()),
		)

		return fmt.Errorf("job %q: %w", job.Name, err)
	}

	s.runs.WithLabelValues(job.Name, ResultSuccess).Inc()
	logger.Info("job completed", slog.Duration("duration", elapsed))

	return nil
}

// cronLogger adapts slog to the cron.Logger interface.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}
