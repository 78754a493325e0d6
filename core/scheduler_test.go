package core

import "testing"

func TestSchedulerOrder(t *testing.T) {
	s := &Scheduler{}
	var fired []int

	mk := func(id int, wake uint32) *Timer {
		return &Timer{WakeTime: wake, Handler: func(*Timer) uint8 {
			fired = append(fired, id)
			return SF_DONE
		}}
	}

	s.Schedule(mk(3, 300))
	s.Schedule(mk(1, 100))
	s.Schedule(mk(2, 200))

	s.Dispatch(250)
	if len(fired) != 2 || fired[0] != 1 || fired[1] != 2 {
		t.Errorf("Expected timers 1,2 to fire in order, got %v", fired)
	}

	s.Dispatch(300)
	if len(fired) != 3 || fired[2] != 3 {
		t.Errorf("Expected timer 3 to fire last, got %v", fired)
	}
	if s.Now() != 300 {
		t.Errorf("Expected Now() 300, got %d", s.Now())
	}
}

func TestSchedulerRescheduleFiresOncePerDispatch(t *testing.T) {
	s := &Scheduler{}
	count := 0
	timer := &Timer{WakeTime: 10, Handler: func(t *Timer) uint8 {
		count++
		t.WakeTime += 10
		return SF_RESCHEDULE
	}}
	s.Schedule(timer)

	// Far behind schedule: still a single firing
	s.Dispatch(1000)
	if count != 1 {
		t.Errorf("Expected 1 firing, got %d", count)
	}

	s.Dispatch(1000)
	if count != 2 {
		t.Errorf("Expected the overdue timer to fire again on the next dispatch, got %d", count)
	}
}

func TestSchedulerWraparound(t *testing.T) {
	s := &Scheduler{}
	fired := false
	s.Schedule(&Timer{WakeTime: 5, Handler: func(*Timer) uint8 {
		fired = true
		return SF_DONE
	}})

	// Just before the counter wraps, a wake time of 5 lies in the future
	s.Dispatch(0xFFFFFFF0)
	if fired {
		t.Error("Timer fired before the counter wrapped")
	}

	s.Dispatch(5)
	if !fired {
		t.Error("Timer did not fire after the counter wrapped")
	}
}

func TestSchedulerCancel(t *testing.T) {
	s := &Scheduler{}
	fired := false
	timer := &Timer{WakeTime: 1, Handler: func(*Timer) uint8 {
		fired = true
		return SF_DONE
	}}

	s.Schedule(timer)
	s.Cancel(timer)
	s.Dispatch(100)

	if fired {
		t.Error("Cancelled timer fired")
	}
}

func TestTimerConversions(t *testing.T) {
	if TimerToUS(ScanPeriod) != ScanPeriodUS {
		t.Errorf("Expected one scan period to be %dus, got %d", ScanPeriodUS, TimerToUS(ScanPeriod))
	}
}
