// Package jobs runs scheduled maintenance next to the bot.
package jobs

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// Purger deletes sessions idle since before cutoff.
type Purger interface {
	PurgeIdle(ctx context.Context, cutoff time.Time) (int64, error)
}

// SessionCleanupJob purges sessions older than the TTL. Redis expires keys on
// its own; this job serves the Postgres store.
type SessionCleanupJob struct {
	purger   Purger
	ttl      time.Duration
	schedule string
	now      func() time.Time
	cron     *cron.Cron
}

func NewSessionCleanupJob(purger Purger, ttl time.Duration) *SessionCleanupJob {
	return &SessionCleanupJob{
		purger:   purger,
		ttl:      ttl,
		schedule: "@hourly",
		now:      time.Now,
		cron:     cron.New(),
	}
}

// RunOnce purges once and returns how many sessions were removed.
func (j *SessionCleanupJob) RunOnce(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()
	return j.purger.PurgeIdle(ctx, j.now().Add(-j.ttl))
}

func (j *SessionCleanupJob) Start() error {
	_, err := j.cron.AddFunc(j.schedule, func() {
		n, err := j.RunOnce(context.Background())
		if err != nil {
			log.Printf("session cleanup failed: %v", err)
			return
		}
		if n > 0 {
			log.Printf("session cleanup: purged=%d", n)
		}
	})
	if err != nil {
		return err
	}
	j.cron.Start()
	log.Printf("session cleanup job started (schedule=%s ttl=%s)", j.schedule, j.ttl)
	return nil
}

// Stop stops scheduling and waits for a running purge to finish.
func (j *SessionCleanupJob) Stop() {
	<-j.cron.Stop().Done()
	log.Println("session cleanup job stopped")
}
