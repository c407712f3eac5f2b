package reveal

import (
	"sync"
	"testing"
	"time"

	"go.uber.org/goleak"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func testConfig() Config {
	return Config{Threshold: 0.2, Duration: 300 * time.Millisecond, StepDelay: 100 * time.Millisecond}
}

type recorder struct {
	mu          sync.Mutex
	transitions []Transition
}

func (r *recorder) listen(t Transition) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.transitions = append(r.transitions, t)
}

func (r *recorder) to(state State) []Transition {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Transition
	for _, t := range r.transitions {
		if t.To == state {
			out = append(out, t)
		}
	}
	return out
}

func TestControllerFullLifecycle(t *testing.T) {
	clock := NewManualClock(epoch)
	c := NewController(0, testConfig(), clock, nil)

	if c.State() != Hidden {
		t.Fatalf("Expected initial state hidden, got %s", c.State())
	}

	c.Observe(0.5)
	if c.State() != Revealing {
		t.Fatalf("Expected revealing immediately for index 0, got %s", c.State())
	}

	clock.Advance(299 * time.Millisecond)
	if c.State() != Revealing {
		t.Errorf("Expected still revealing before duration, got %s", c.State())
	}
	clock.Advance(time.Millisecond)
	if c.State() != Revealed {
		t.Errorf("Expected revealed after duration, got %s", c.State())
	}

	transitions := c.Transitions()
	if len(transitions) != 2 {
		t.Fatalf("Expected 2 transitions, got %d", len(transitions))
	}
	if transitions[0].From != Hidden || transitions[0].To != Revealing || !transitions[0].At.Equal(epoch) {
		t.Errorf("Unexpected first transition %+v", transitions[0])
	}
	if !transitions[1].At.Equal(epoch.Add(300 * time.Millisecond)) {
		t.Errorf("Expected second transition at +300ms, got %v", transitions[1].At.Sub(epoch))
	}
}

func TestControllerThreshold(t *testing.T) {
	clock := NewManualClock(epoch)
	c := NewController(0, testConfig(), clock, nil)

	c.Observe(0)
	c.Observe(0.1)
	if _, triggered := c.Triggered(); triggered {
		t.Error("Expected no trigger below threshold")
	}

	c.Observe(0.2)
	if _, triggered := c.Triggered(); !triggered {
		t.Error("Expected trigger at threshold")
	}
}

func TestZeroThresholdMeansAnyIntersection(t *testing.T) {
	cfg := Config{}
	if cfg.Visible(0) {
		t.Error("Expected zero ratio to be invisible")
	}
	if !cfg.Visible(0.01) {
		t.Error("Expected any intersection to be visible")
	}
}

func TestControllerFiresOnce(t *testing.T) {
	clock := NewManualClock(epoch)
	rec := &recorder{}
	c := NewController(2, testConfig(), clock, rec.listen)

	for i := 0; i < 5; i++ {
		c.Observe(1)
		clock.Advance(50 * time.Millisecond)
		c.Observe(0)
		clock.Advance(50 * time.Millisecond)
	}
	clock.Advance(time.Second)

	if n := len(rec.to(Revealing)); n != 1 {
		t.Errorf("Expected exactly one revealing transition, got %d", n)
	}
	if n := len(rec.to(Revealed)); n != 1 {
		t.Errorf("Expected exactly one revealed transition, got %d", n)
	}

	triggeredAt, _ := c.Triggered()
	if !triggeredAt.Equal(epoch) {
		t.Errorf("Expected trigger time at first observation, got %v", triggeredAt.Sub(epoch))
	}
	if at := rec.to(Revealing)[0].At; !at.Equal(epoch.Add(200 * time.Millisecond)) {
		t.Errorf("Expected revealing at +200ms, got %v", at.Sub(epoch))
	}
}

func TestGroupStaggerWhenAllVisibleTogether(t *testing.T) {
	clock := NewManualClock(epoch)
	rec := &recorder{}
	group := NewGroup(4, testConfig(), clock, rec.listen)

	for _, item := range group.Items() {
		item.Observe(1)
	}
	clock.Advance(2 * time.Second)

	revealing := rec.to(Revealing)
	if len(revealing) != 4 {
		t.Fatalf("Expected 4 revealing transitions, got %d", len(revealing))
	}
	for _, tr := range revealing {
		want := epoch.Add(time.Duration(tr.Index) * 100 * time.Millisecond)
		if !tr.At.Equal(want) {
			t.Errorf("Item %d: expected revealing at %v, got %v", tr.Index, want.Sub(epoch), tr.At.Sub(epoch))
		}
	}
	for i, tr := range revealing {
		if tr.Index != i {
			t.Errorf("Expected revealing order by index, got index %d at position %d", tr.Index, i)
		}
	}
}

func TestGroupItemsAreIndependent(t *testing.T) {
	clock := NewManualClock(epoch)
	group := NewGroup(3, testConfig(), clock, nil)

	// the last item scrolls in first; its stagger runs from its own trigger
	group.Item(2).Observe(1)
	clock.Advance(500 * time.Millisecond)
	group.Item(0).Observe(1)
	clock.Advance(time.Second)

	if group.Item(1).State() != Hidden {
		t.Errorf("Expected off-screen item to stay hidden, got %s", group.Item(1).State())
	}
	if group.Item(0).State() != Revealed || group.Item(2).State() != Revealed {
		t.Error("Expected visible items to be revealed")
	}

	tr := group.Item(2).Transitions()[0]
	if !tr.At.Equal(epoch.Add(200 * time.Millisecond)) {
		t.Errorf("Expected item 2 revealing at +200ms, got %v", tr.At.Sub(epoch))
	}
	tr = group.Item(0).Transitions()[0]
	if !tr.At.Equal(epoch.Add(500 * time.Millisecond)) {
		t.Errorf("Expected item 0 revealing at +500ms, got %v", tr.At.Sub(epoch))
	}
}

func TestCloseCancelsPendingTimers(t *testing.T) {
	clock := NewManualClock(epoch)
	rec := &recorder{}
	scene := NewScene(testConfig(), clock, rec.listen)
	group := scene.Group(4)

	for _, item := range group.Items()[:3] {
		item.Observe(1)
	}
	// item 0 is revealing, items 1 and 2 wait on their stagger, item 3 is off-screen
	if clock.Pending() != 3 {
		t.Fatalf("Expected 3 pending timers, got %d", clock.Pending())
	}

	scene.Close()

	if clock.Pending() != 0 {
		t.Errorf("Expected no pending timers after close, got %d", clock.Pending())
	}
	clock.Advance(time.Second)

	if group.Item(0).State() != Revealing {
		t.Errorf("Expected torn-down item to stay revealing, got %s", group.Item(0).State())
	}
	if group.Item(1).State() != Hidden {
		t.Errorf("Expected torn-down item to stay hidden, got %s", group.Item(1).State())
	}
	if n := len(rec.to(Revealed)); n != 0 {
		t.Errorf("Expected no revealed transitions after close, got %d", n)
	}

	unseen := group.Item(3)
	unseen.Observe(1)
	clock.Advance(time.Second)
	if _, triggered := unseen.Triggered(); triggered {
		t.Error("Expected closed controller to ignore visibility")
	}
	if unseen.State() != Hidden || len(unseen.Transitions()) != 0 {
		t.Errorf("Expected closed controller to stay hidden without transitions, got %s with %d", unseen.State(), len(unseen.Transitions()))
	}
	if clock.Pending() != 0 {
		t.Errorf("Expected observe after close to schedule nothing, got %d timers", clock.Pending())
	}
}

func TestSceneGroupAfterCloseStartsClosed(t *testing.T) {
	scene := NewScene(testConfig(), NewManualClock(epoch), nil)
	scene.Close()

	group := scene.Group(2)
	if !group.Item(0).Closed() || !group.Item(1).Closed() {
		t.Error("Expected group created after close to be closed")
	}
	if len(scene.Groups()) != 0 {
		t.Errorf("Expected closed scene to hold no groups, got %d", len(scene.Groups()))
	}
}

func TestZeroDurationRevealsImmediately(t *testing.T) {
	c := NewController(0, Config{}, NewManualClock(epoch), nil)
	c.Observe(1)
	if c.State() != Revealed {
		t.Errorf("Expected revealed with zero duration, got %s", c.State())
	}
}

func TestSystemClockControllersDoNotLeak(t *testing.T) {
	defer goleak.VerifyNone(t)

	rec := &recorder{}
	cfg := Config{Duration: 5 * time.Millisecond, StepDelay: 5 * time.Millisecond}
	scene := NewScene(cfg, SystemClock{}, rec.listen)
	group := scene.Group(3)

	for _, item := range group.Items() {
		item.Observe(1)
	}

	deadline := time.Now().Add(2 * time.Second)
	for len(rec.to(Revealed)) < 3 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if n := len(rec.to(Revealed)); n != 3 {
		t.Errorf("Expected 3 revealed transitions, got %d", n)
	}

	idle := scene.Group(2)
	idle.Item(1).Observe(1)
	scene.Close()
}

func TestStateString(t *testing.T) {
	tests := map[State]string{Hidden: "hidden", Revealing: "revealing", Revealed: "revealed", State(7): "state(7)"}
	for state, want := range tests {
		if state.String() != want {
			t.Errorf("Expected '%s', got '%s'", want, state.String())
		}
	}
}
