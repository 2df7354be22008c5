package clock_test

import (
	"sync"
	"testing"
	"time"

	"github.com/xraph/tempo/clock"
)

func TestSystem_NowAdvances(t *testing.T) {
	c := clock.System()
	a := c.Now()
	time.Sleep(5 * time.Millisecond)
	b := c.Now()
	if !b.After(a) {
		t.Fatalf("system clock did not advance: %v then %v", a, b)
	}
}

func TestSystem_AdvanceIsNoop(t *testing.T) {
	c := clock.System()
	before := c.Now()
	c.Advance(time.Hour)
	after := c.Now()
	if after.Sub(before) > time.Second {
		t.Fatalf("Advance moved the system clock: %v", after.Sub(before))
	}
}

func TestSystem_TimerFires(t *testing.T) {
	c := clock.System()
	tm := c.NewTimer(10 * time.Millisecond)
	select {
	case <-tm.C():
	case <-time.After(2 * time.Second):
		t.Fatal("system timer did not fire")
	}
}

func TestVirtual_AdvanceMovesNow(t *testing.T) {
	start := time.Unix(1000, 0)
	c := clock.NewVirtual(start)

	if got := c.Now(); !got.Equal(start) {
		t.Fatalf("Now = %v, want %v", got, start)
	}

	c.Advance(500 * time.Millisecond)
	want := start.Add(500 * time.Millisecond)
	if got := c.Now(); !got.Equal(want) {
		t.Fatalf("Now = %v, want %v", got, want)
	}
}

func TestVirtual_NegativeAdvanceIgnored(t *testing.T) {
	start := time.Unix(1000, 0)
	c := clock.NewVirtual(start)
	c.Advance(-time.Minute)
	if got := c.Now(); !got.Equal(start) {
		t.Fatalf("negative advance moved the clock: %v", got)
	}
}

func TestVirtual_TimerFiresOnAdvance(t *testing.T) {
	c := clock.NewVirtual(time.Unix(0, 0))
	tm := c.NewTimer(time.Second)

	select {
	case <-tm.C():
		t.Fatal("timer fired before the clock reached its target")
	default:
	}

	c.Advance(999 * time.Millisecond)
	select {
	case <-tm.C():
		t.Fatal("timer fired 1ms early")
	default:
	}

	c.Advance(time.Millisecond)
	select {
	case <-tm.C():
	default:
		t.Fatal("timer did not fire after reaching its target")
	}
}

func TestVirtual_TimerFiresImmediatelyForNonPositive(t *testing.T) {
	c := clock.NewVirtual(time.Unix(0, 0))
	tm := c.NewTimer(0)
	select {
	case <-tm.C():
	default:
		t.Fatal("zero-duration timer did not fire immediately")
	}
}

func TestVirtual_TimerAtFiresOnAdvance(t *testing.T) {
	start := time.Unix(1000, 0)
	c := clock.NewVirtual(start)
	tm := c.NewTimerAt(start.Add(time.Second))

	c.Advance(999 * time.Millisecond)
	select {
	case <-tm.C():
		t.Fatal("timer fired 1ms early")
	default:
	}

	c.Advance(time.Millisecond)
	select {
	case <-tm.C():
	default:
		t.Fatal("timer did not fire after reaching its target")
	}
}

// A target the clock has already passed fires at registration, even when the
// advance that passed it happened before NewTimerAt was called: the caller's
// target is absolute, so late registration cannot lose the wakeup.
func TestVirtual_TimerAtPastTargetFiresImmediately(t *testing.T) {
	start := time.Unix(1000, 0)
	c := clock.NewVirtual(start)
	target := start.Add(time.Second)

	c.Advance(2 * time.Second)

	tm := c.NewTimerAt(target)
	select {
	case <-tm.C():
	default:
		t.Fatal("timer with a passed target did not fire immediately")
	}
}

func TestSystem_TimerAtFires(t *testing.T) {
	c := clock.System()
	tm := c.NewTimerAt(c.Now().Add(10 * time.Millisecond))
	select {
	case <-tm.C():
	case <-time.After(2 * time.Second):
		t.Fatal("system timer did not fire")
	}
}

func TestVirtual_TimerStop(t *testing.T) {
	c := clock.NewVirtual(time.Unix(0, 0))
	tm := c.NewTimer(time.Second)

	if !tm.Stop() {
		t.Fatal("Stop on a pending timer returned false")
	}

	c.Advance(2 * time.Second)
	select {
	case <-tm.C():
		t.Fatal("stopped timer fired")
	default:
	}

	if tm.Stop() {
		t.Fatal("second Stop returned true")
	}
}

func TestVirtual_StopAfterFire(t *testing.T) {
	c := clock.NewVirtual(time.Unix(0, 0))
	tm := c.NewTimer(time.Second)
	c.Advance(time.Second)
	if tm.Stop() {
		t.Fatal("Stop after firing returned true")
	}
}

// Concurrent readers must observe either the pre- or post-advance instant,
// never a torn value. Run with -race.
func TestVirtual_ConcurrentAdvanceAndNow(t *testing.T) {
	start := time.Unix(0, 0)
	c := clock.NewVirtual(start)

	const steps = 1000
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		for range steps {
			c.Advance(time.Millisecond)
		}
	}()

	go func() {
		defer wg.Done()
		prev := c.Now()
		for range steps {
			now := c.Now()
			if now.Before(prev) {
				t.Errorf("clock regressed: %v after %v", now, prev)
				return
			}
			prev = now
		}
	}()

	wg.Wait()

	want := start.Add(steps * time.Millisecond)
	if got := c.Now(); !got.Equal(want) {
		t.Fatalf("final Now = %v, want %v", got, want)
	}
}
