package scheduler

import (
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

// Cadence is a parsed schedule. Authored schedules are either plain interval
// strings ("24h", "every 30m") with elapsed-interval due semantics, or cron
// expressions ("0 9 * * 1", "@every 1h") handled by the cron parser.
type Cadence struct {
	interval time.Duration
	schedule cron.Schedule
}

func ParseCadence(spec string) (Cadence, error) {
	trimmed := strings.TrimSpace(spec)
	if trimmed == "" {
		return Cadence{}, fmt.Errorf("schedule is required")
	}

	plain := strings.TrimPrefix(strings.ToLower(trimmed), "every ")
	if d, err := time.ParseDuration(plain); err == nil {
		if d <= 0 {
			return Cadence{}, fmt.Errorf("schedule interval must be positive: %q", spec)
		}
		return Cadence{interval: d}, nil
	}

	sched, err := cron.ParseStandard(trimmed)
	if err != nil {
		return Cadence{}, fmt.Errorf("invalid schedule %q: %w", spec, err)
	}
	return Cadence{schedule: sched}, nil
}

// Due reports whether a task with the given lastRun should fire at now.
// A task that never ran is always due.
func (c Cadence) Due(lastRun *time.Time, now time.Time) bool {
	if lastRun == nil {
		return true
	}
	if c.interval > 0 {
		return now.Sub(*lastRun) >= c.interval
	}
	return !c.schedule.Next(*lastRun).After(now)
}
