// Package scheduler runs background ledger audits on a bounded worker pool.
package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrSchedulerNotRunning = errors.New("scheduler: not running")
	ErrJobQueueFull        = errors.New("scheduler: audit queue full")
	ErrInvalidConfig       = errors.New("scheduler: invalid configuration")
)

type JobStatus string

const (
	JobQueued    JobStatus = "QUEUED"
	JobRunning   JobStatus = "RUNNING"
	JobSucceeded JobStatus = "SUCCEEDED"
	JobFailed    JobStatus = "FAILED"
)

// Job tracks the audit of one restaurant across its attempts. A job is
// owned by exactly one goroutine at a time: the submitter, a worker, or
// the retry timer.
type Job struct {
	ID           uuid.UUID
	RestaurantID uuid.UUID
	Status       JobStatus
	// Attempts counts executions so far, the first one included
	Attempts   int
	LastError  string
	StartedAt  time.Time
	FinishedAt time.Time
}

func (j *Job) begin(at time.Time) {
	j.Status = JobRunning
	j.Attempts++
	if j.StartedAt.IsZero() {
		j.StartedAt = at
	}
}

func (j *Job) end(at time.Time, err error) {
	j.FinishedAt = at
	if err != nil {
		j.Status = JobFailed
		j.LastError = err.Error()
		return
	}
	j.Status = JobSucceeded
	j.LastError = ""
}

// JobExecutor audits one restaurant
type JobExecutor interface {
	Execute(ctx context.Context, restaurantID uuid.UUID) error
}

// Config sizes the worker pool. Zero values fall back to two workers, a
// queue of 100, a ten minute timeout and a one minute retry delay.
// RetryAttempts counts executions after the first one.
type Config struct {
	Workers       int
	QueueSize     int
	JobTimeout    time.Duration
	RetryAttempts int
	RetryDelay    time.Duration
}

func (c Config) normalized() Config {
	if c.Workers <= 0 {
		c.Workers = 2
	}
	if c.QueueSize <= 0 {
		c.QueueSize = 100
	}
	if c.JobTimeout <= 0 {
		c.JobTimeout = 10 * time.Minute
	}
	if c.RetryDelay <= 0 {
		c.RetryDelay = time.Minute
	}
	c.RetryAttempts = max(c.RetryAttempts, 0)
	return c
}

// Scheduler executes queued audits on a fixed pool of workers. A failed
// audit goes back on the queue after RetryDelay until its retries run out.
type Scheduler struct {
	cfg  Config
	exec JobExecutor
	log  *zap.Logger
	now  func() time.Time

	queue chan *Job
	wg    sync.WaitGroup

	mu      sync.Mutex
	cancel  context.CancelFunc // nil while stopped
	settled func(Job)
}

func NewScheduler(cfg Config, exec JobExecutor, log *zap.Logger) *Scheduler {
	cfg = cfg.normalized()
	if log == nil {
		log = zap.NewNop()
	}
	return &Scheduler{
		cfg:   cfg,
		exec:  exec,
		log:   log.Named("audit_scheduler"),
		now:   time.Now,
		queue: make(chan *Job, cfg.QueueSize),
	}
}

// Start launches the workers. Calling it on a running scheduler is a no-op.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return nil
	}

	ctx, s.cancel = context.WithCancel(ctx)
	s.wg.Add(s.cfg.Workers)
	for id := range s.cfg.Workers {
		go s.work(ctx, id)
	}

	s.log.Info("Audit scheduler started",
		zap.Int("workers", s.cfg.Workers),
		zap.Int("queue_size", s.cfg.QueueSize),
		zap.Duration("job_timeout", s.cfg.JobTimeout),
	)
	return nil
}

// Stop cancels in-flight audits and waits for the workers until ctx ends.
// Queued audits are dropped.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	cancel := s.cancel
	s.cancel = nil
	s.mu.Unlock()
	if cancel == nil {
		return nil
	}
	cancel()

	drained := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(drained)
	}()
	select {
	case <-drained:
		s.log.Info("Audit scheduler stopped")
		return nil
	case <-ctx.Done():
		s.log.Warn("Audit scheduler stop timed out")
		return ctx.Err()
	}
}

func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancel != nil
}

// ScheduleAudit queues an audit of one restaurant without blocking.
func (s *Scheduler) ScheduleAudit(restaurantID uuid.UUID) (*Job, error) {
	job := &Job{ID: uuid.New(), RestaurantID: restaurantID, Status: JobQueued}
	if err := s.enqueue(job); err != nil {
		return nil, err
	}
	return job, nil
}

func (s *Scheduler) enqueue(job *Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel == nil {
		return ErrSchedulerNotRunning
	}
	select {
	case s.queue <- job:
		return nil
	default:
		return ErrJobQueueFull
	}
}

func (s *Scheduler) work(ctx context.Context, worker int) {
	defer s.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case job := <-s.queue:
			s.run(ctx, job, worker)
		}
	}
}

func (s *Scheduler) run(ctx context.Context, job *Job, worker int) {
	fields := []zap.Field{
		zap.Int("worker", worker),
		zap.Stringer("job_id", job.ID),
		zap.Stringer("restaurant_id", job.RestaurantID),
	}

	job.begin(s.now())
	auditCtx, cancel := context.WithTimeout(ctx, s.cfg.JobTimeout)
	err := s.exec.Execute(auditCtx, job.RestaurantID)
	cancel()
	job.end(s.now(), err)

	if err == nil {
		s.log.Debug("Audit finished", append(fields, zap.Int("attempts", job.Attempts))...)
		s.settle(job)
		return
	}

	retry := job.Attempts <= s.cfg.RetryAttempts && ctx.Err() == nil
	s.log.Error("Audit failed", append(fields,
		zap.Int("attempts", job.Attempts),
		zap.Bool("will_retry", retry),
		zap.Error(err),
	)...)
	if !retry {
		s.settle(job)
		return
	}

	job.Status = JobQueued
	time.AfterFunc(s.cfg.RetryDelay, func() {
		if err := s.enqueue(job); err != nil {
			s.log.Warn("Audit retry dropped", append(fields, zap.Error(err))...)
			job.end(s.now(), err)
			s.settle(job)
		}
	})
}

// settle hands a snapshot of a job that will not run again to the
// registered observer, if any.
func (s *Scheduler) settle(job *Job) {
	s.mu.Lock()
	fn := s.settled
	s.mu.Unlock()
	if fn != nil {
		fn(*job)
	}
}
