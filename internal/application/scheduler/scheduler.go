package scheduler

import (
	"fmt"
	"sync"
	"time"

	"github.com/lifebooster/core/internal/domain/entities"
	"github.com/lifebooster/core/internal/infrastructure/logger"
	"github.com/lifebooster/core/internal/ports"
)

// DeliveryTitle is the title of every reminder delivery.
const DeliveryTitle = "Life Booster"

// Scheduler fires best-effort reminder deliveries for tasks with a time of
// day: one at the task's time and one a lead interval earlier, each only when
// the delay fits inside the forward window. Timers are not durable — if the
// process exits first, the reminder never fires. Delivered text is captured
// at schedule time; later edits to the task do not change it.
type Scheduler struct {
	mu      sync.Mutex
	sink    ports.NotificationSink
	logger  *logger.Logger
	window  time.Duration
	lead    time.Duration
	timers  map[int]*time.Timer
	nextID  int
	stopped bool
}

// New creates a scheduler delivering through the given sink.
func New(sink ports.NotificationSink, appLogger *logger.Logger, window, lead time.Duration) *Scheduler {
	return &Scheduler{
		sink:   sink,
		logger: appLogger.WithComponent("scheduler"),
		window: window,
		lead:   lead,
		timers: make(map[int]*time.Timer),
	}
}

// Schedule arms reminders for a task due at clock ("HH:MM") on the current
// day. Times already past, or further out than the window, arm nothing. A
// disabled sink arms nothing either; the caller's in-app record is the only
// trace then.
func (s *Scheduler) Schedule(text, clock string, now time.Time) error {
	at, err := time.Parse(entities.ClockLayout, clock)
	if err != nil {
		return fmt.Errorf("parse reminder time: %w", err)
	}

	if !s.sink.Enabled() {
		return nil
	}

	target := time.Date(now.Year(), now.Month(), now.Day(), at.Hour(), at.Minute(), 0, 0, now.Location())
	diff := target.Sub(now)
	if diff <= 0 {
		return nil
	}

	if diff < s.window {
		s.arm(diff, fmt.Sprintf("It's time for: %s", text))
	}

	early := diff - s.lead
	if early > 0 && early < s.window {
		s.arm(early, fmt.Sprintf("Upcoming in 10m: %s", text))
	}

	return nil
}

func (s *Scheduler) arm(d time.Duration, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return
	}

	id := s.nextID
	s.nextID++

	s.timers[id] = time.AfterFunc(d, func() {
		s.mu.Lock()
		delete(s.timers, id)
		s.mu.Unlock()

		s.sink.Deliver(DeliveryTitle, body)
	})

	s.logger.Debugw("Reminder armed", "in", d.String())
}

// Pending reports how many timers are currently armed.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

// Stop cancels all armed timers. Further Schedule calls arm nothing.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopped = true
	for id, t := range s.timers {
		t.Stop()
		delete(s.timers, id)
	}
}
