package scheduler

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ridloal/blood-portal/internal/platform/logger"
	"github.com/robfig/cron/v3"
)

var ErrIntervalTooShort = errors.New("interval must be at least one second")

// Scheduler runs repeating polling tasks. Each task can be stopped on its own
// so a disposed resource never leaves a timer behind.
type Scheduler struct {
	cron *cron.Cron
}

func New() *Scheduler {
	c := cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	c.Start()
	return &Scheduler{cron: c}
}

type Task struct {
	Name string

	s    *Scheduler
	id   cron.EntryID
	once sync.Once
}

// Every schedules fn at a fixed interval. The first run happens after one interval.
func (s *Scheduler) Every(name string, interval time.Duration, fn func()) (*Task, error) {
	if interval < time.Second {
		return nil, ErrIntervalTooShort
	}
	spec := fmt.Sprintf("@every %s", interval)
	id, err := s.cron.AddFunc(spec, fn)
	if err != nil {
		logger.Error("Scheduler: failed to add task "+name, err, nil)
		return nil, err
	}
	return &Task{Name: name, s: s, id: id}, nil
}

// Stop removes the task; calling it more than once is safe.
func (t *Task) Stop() {
	if t == nil {
		return
	}
	t.once.Do(func() {
		t.s.cron.Remove(t.id)
	})
}

// Len reports the number of scheduled tasks.
func (s *Scheduler) Len() int {
	return len(s.cron.Entries())
}

// Stop halts the scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}
