package scheduler

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RestaurantProvider lists the restaurants a run should audit
type RestaurantProvider interface {
	ActiveRestaurantIDs(ctx context.Context) ([]uuid.UUID, error)
}

// DailyTime is a wall clock minute in the server's local time zone.
type DailyTime struct {
	Hour   int
	Minute int
}

// DefaultAuditTime is 03:00, after the last service of the day.
var DefaultAuditTime = DailyTime{Hour: 3}

// Next returns the first occurrence strictly after t.
func (d DailyTime) Next(t time.Time) time.Time {
	next := time.Date(t.Year(), t.Month(), t.Day(), d.Hour, d.Minute, 0, 0, t.Location())
	if !next.After(t) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

func (d DailyTime) String() string {
	return fmt.Sprintf("%02d:%02d", d.Hour, d.Minute)
}

// ParseDailySchedule reads the minute and hour fields of a daily cron
// expression such as "30 3 * * *". The remaining fields are ignored and an
// empty expression selects DefaultAuditTime.
func ParseDailySchedule(expr string) (DailyTime, error) {
	fields := strings.Fields(expr)
	switch {
	case len(fields) == 0:
		return DefaultAuditTime, nil
	case len(fields) < 2:
		return DefaultAuditTime, fmt.Errorf("%w: %q needs minute and hour fields", ErrInvalidConfig, expr)
	}

	minute, err := strconv.Atoi(fields[0])
	if err != nil || minute < 0 || minute > 59 {
		return DefaultAuditTime, fmt.Errorf("%w: minute must be 0-59, got %q", ErrInvalidConfig, fields[0])
	}
	hour, err := strconv.Atoi(fields[1])
	if err != nil || hour < 0 || hour > 23 {
		return DefaultAuditTime, fmt.Errorf("%w: hour must be 0-23, got %q", ErrInvalidConfig, fields[1])
	}
	return DailyTime{Hour: hour, Minute: minute}, nil
}

// CronTrigger queues an audit of every active restaurant once a day.
type CronTrigger struct {
	at        DailyTime
	scheduler *Scheduler
	provider  RestaurantProvider
	log       *zap.Logger
	now       func() time.Time
	sleep     func(ctx context.Context, d time.Duration) bool

	mu      sync.Mutex
	cancel  context.CancelFunc // nil while stopped
	wg      sync.WaitGroup
	lastRun time.Time
}

func NewCronTrigger(at DailyTime, s *Scheduler, provider RestaurantProvider, log *zap.Logger) *CronTrigger {
	if log == nil {
		log = zap.NewNop()
	}
	return &CronTrigger{
		at:        at,
		scheduler: s,
		provider:  provider,
		log:       log.Named("audit_trigger"),
		now:       time.Now,
		sleep:     sleepContext,
	}
}

// Start arms the daily timer. Calling it on a running trigger is a no-op.
func (c *CronTrigger) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		return nil
	}
	ctx, c.cancel = context.WithCancel(ctx)
	c.wg.Add(1)
	go c.loop(ctx)

	c.log.Info("Audit trigger started",
		zap.Stringer("daily_at", c.at),
		zap.Time("next_run", c.NextRunAt()),
	)
	return nil
}

func (c *CronTrigger) Stop(ctx context.Context) error {
	c.mu.Lock()
	cancel := c.cancel
	c.cancel = nil
	c.mu.Unlock()
	if cancel == nil {
		return nil
	}
	cancel()

	stopped := make(chan struct{})
	go func() {
		c.wg.Wait()
		close(stopped)
	}()
	select {
	case <-stopped:
		c.log.Info("Audit trigger stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// loop sleeps until each occurrence of the daily time. Next is strictly
// after the current time, so a run never repeats within the same minute.
func (c *CronTrigger) loop(ctx context.Context) {
	defer c.wg.Done()
	for {
		now := c.now()
		if !c.sleep(ctx, c.at.Next(now).Sub(now)) {
			return
		}
		c.mu.Lock()
		c.lastRun = c.now()
		c.mu.Unlock()
		if _, err := c.TriggerNow(ctx); err != nil {
			c.log.Error("Failed to list restaurants for ledger audit", zap.Error(err))
		}
	}
}

func (c *CronTrigger) NextRunAt() time.Time {
	return c.at.Next(c.now())
}

// LastRunAt returns when the daily audit last fired, zero if it never has.
func (c *CronTrigger) LastRunAt() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastRun
}

// TriggerNow queues an audit for every active restaurant and returns how
// many were queued. Restaurants that cannot be queued are logged and skipped.
func (c *CronTrigger) TriggerNow(ctx context.Context) (int, error) {
	ids, err := c.provider.ActiveRestaurantIDs(ctx)
	if err != nil {
		return 0, err
	}

	queued := 0
	for _, id := range ids {
		if _, err := c.scheduler.ScheduleAudit(id); err != nil {
			c.log.Error("Failed to queue ledger audit", zap.Stringer("restaurant_id", id), zap.Error(err))
			continue
		}
		queued++
	}
	c.log.Info("Ledger audits queued", zap.Int("restaurants", len(ids)), zap.Int("queued", queued))
	return queued, nil
}

func sleepContext(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
