package countdown

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func intPtr(v int) *int { return &v }

func TestOneMinuteExpiresExactlyOnce(t *testing.T) {
	c := New(intPtr(1))
	fired := 0
	for i := 1; i <= 60; i++ {
		if c.Tick() {
			fired++
			if i != 60 {
				t.Fatalf("expired on tick %d, want 60", i)
			}
		}
	}
	for i := 61; i <= 120; i++ {
		if c.Tick() {
			fired++
		}
	}
	if fired != 1 {
		t.Errorf("expired fired %d times, want 1", fired)
	}
	if !c.Expired() {
		t.Error("expected Expired() after 60 ticks")
	}
	if c.Remaining() != 0 {
		t.Errorf("Remaining = %v, want 0", c.Remaining())
	}
}

func TestConcurrentTicksFireOnce(t *testing.T) {
	c := New(intPtr(1))
	var fired atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 30; j++ {
				if c.Tick() {
					fired.Add(1)
				}
			}
		}()
	}
	wg.Wait()
	if got := fired.Load(); got != 1 {
		t.Errorf("expired fired %d times, want 1", got)
	}
}

func TestUntimedIsInert(t *testing.T) {
	for _, limit := range []*int{nil, intPtr(0), intPtr(-3)} {
		c := New(limit)
		if c.Timed() {
			t.Errorf("limit %v: expected untimed", limit)
		}
		for i := 0; i < 100; i++ {
			if c.Tick() {
				t.Fatalf("limit %v: untimed controller expired", limit)
			}
		}
		if c.Fraction() != 1 {
			t.Errorf("Fraction = %v, want 1", c.Fraction())
		}
	}
}

func TestStopPausesAndResumeContinues(t *testing.T) {
	c := New(intPtr(1))
	for i := 0; i < 10; i++ {
		c.Tick()
	}
	c.Stop()
	for i := 0; i < 100; i++ {
		if c.Tick() {
			t.Fatal("stopped controller expired")
		}
	}
	if c.Remaining() != 50*time.Second {
		t.Errorf("Remaining = %v, want 50s", c.Remaining())
	}

	c.Resume()
	fired := false
	for i := 0; i < 50; i++ {
		fired = c.Tick() || fired
	}
	if !fired {
		t.Error("expected expiry after resuming")
	}

	c.Resume()
	if c.Running() {
		t.Error("Resume after expiry must not restart ticking")
	}
}

func TestFormat(t *testing.T) {
	c := New(intPtr(2))
	if got := c.Format(); got != "2:00" {
		t.Errorf("Format = %q, want 2:00", got)
	}
	c.Tick()
	if got := c.Format(); got != "1:59" {
		t.Errorf("Format = %q, want 1:59", got)
	}
}
