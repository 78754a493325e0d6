package core

// Timer represents a scheduled event
type Timer struct {
	WakeTime uint32
	Handler  func(*Timer) uint8
	Next     *Timer
}

const (
	SF_DONE       = 0
	SF_RESCHEDULE = 1
)

// Scheduler keeps timers sorted by WakeTime and fires them once due.
// A handler re-arms its timer by moving WakeTime forward and returning SF_RESCHEDULE.
type Scheduler struct {
	timerList *Timer
	now       uint32
}

var globalScheduler = &Scheduler{}

// ScheduleTimer adds a timer to the global schedule
func ScheduleTimer(t *Timer) {
	globalScheduler.Schedule(t)
}

// GetGlobalScheduler returns the scheduler driven by ProcessTimers
func GetGlobalScheduler() *Scheduler {
	return globalScheduler
}

// Schedule adds a timer
func (s *Scheduler) Schedule(t *Timer) {
	state := disableInterrupts()
	defer restoreInterrupts(state)

	s.insertTimer(t)
}

// Cancel removes a timer if it is scheduled
func (s *Scheduler) Cancel(t *Timer) {
	state := disableInterrupts()
	defer restoreInterrupts(state)

	for pp := &s.timerList; *pp != nil; pp = &(*pp).Next {
		if *pp == t {
			*pp = t.Next
			t.Next = nil
			return
		}
	}
}

// Now returns the time passed to the most recent Dispatch
func (s *Scheduler) Now() uint32 {
	return s.now
}

// insertTimer inserts a timer in sorted order by WakeTime
func (s *Scheduler) insertTimer(t *Timer) {
	if s.timerList == nil || TimerBefore(t.WakeTime, s.timerList.WakeTime) {
		t.Next = s.timerList
		s.timerList = t
		return
	}

	current := s.timerList
	for current.Next != nil && TimerBefore(current.Next.WakeTime, t.WakeTime) {
		current = current.Next
	}

	t.Next = current.Next
	current.Next = t
}

// Dispatch fires due timers, each at most once per call. Handlers run with
// interrupts disabled and must not call Schedule themselves.
func (s *Scheduler) Dispatch(now uint32) {
	state := disableInterrupts()
	defer restoreInterrupts(state)

	s.now = now
	var rearm *Timer
	for s.timerList != nil && !TimerBefore(now, s.timerList.WakeTime) {
		timer := s.timerList
		s.timerList = timer.Next
		timer.Next = nil

		if timer.Handler(timer) == SF_RESCHEDULE {
			timer.Next = rearm
			rearm = timer
		}
	}

	for rearm != nil {
		timer := rearm
		rearm = timer.Next
		s.insertTimer(timer)
	}
}
