package reveal

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

type State int

const (
	Hidden State = iota
	Revealing
	Revealed
)

func (s State) String() string {
	switch s {
	case Hidden:
		return "hidden"
	case Revealing:
		return "revealing"
	case Revealed:
		return "revealed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

type Config struct {
	// Threshold is the visible fraction (0..1) at which a node counts as on
	// screen. Zero means any intersection.
	Threshold float64
	Duration  time.Duration
	StepDelay time.Duration
}

func DefaultConfig() Config {
	return Config{
		Threshold: 0,
		Duration:  300 * time.Millisecond,
		StepDelay: 100 * time.Millisecond,
	}
}

// Visible reports whether an intersection ratio satisfies the threshold.
func (c Config) Visible(ratio float64) bool {
	return ratio > 0 && ratio >= c.Threshold
}

type Transition struct {
	ID    string
	Index int
	From  State
	To    State
	At    time.Time
}

type Listener func(Transition)

// Controller drives the one-shot entrance of a single node instance:
// Hidden -> Revealing -> Revealed. It is safe for concurrent use; visibility
// callbacks and timer callbacks may arrive from any goroutine.
type Controller struct {
	mu          sync.Mutex
	id          string
	index       int
	cfg         Config
	clock       Clock
	listener    Listener
	state       State
	triggered   bool
	triggeredAt time.Time
	closed      bool
	timer       Timer
	transitions []Transition
}

func NewController(index int, cfg Config, clock Clock, listener Listener) *Controller {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Controller{
		id:       uuid.NewString(),
		index:    index,
		cfg:      cfg,
		clock:    clock,
		listener: listener,
	}
}

func (c *Controller) ID() string { return c.id }

func (c *Controller) Index() int { return c.index }

// Delay is the stagger offset applied after this node's own trigger.
func (c *Controller) Delay() time.Duration {
	return time.Duration(c.index) * c.cfg.StepDelay
}

func (c *Controller) Config() Config { return c.cfg }

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Triggered reports whether the visibility condition has fired, and when.
func (c *Controller) Triggered() (time.Time, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.triggeredAt, c.triggered
}

func (c *Controller) Transitions() []Transition {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Transition, len(c.transitions))
	copy(out, c.transitions)
	return out
}

// Observe is the visibility callback. The first ratio satisfying the
// threshold schedules the Hidden->Revealing transition after Delay; every
// later call is ignored, whatever its ratio.
func (c *Controller) Observe(ratio float64) {
	c.mu.Lock()
	if c.closed || c.triggered || !c.cfg.Visible(ratio) {
		c.mu.Unlock()
		return
	}
	c.triggered = true
	c.triggeredAt = c.clock.Now()

	delay := c.Delay()
	if delay > 0 {
		c.timer = c.clock.AfterFunc(delay, c.startRevealing)
		c.mu.Unlock()
		return
	}
	c.mu.Unlock()

	c.startRevealing()
}

func (c *Controller) startRevealing() {
	c.mu.Lock()
	if c.closed || c.state != Hidden {
		c.mu.Unlock()
		return
	}
	t := c.transitionLocked(Revealing)
	if c.cfg.Duration > 0 {
		c.timer = c.clock.AfterFunc(c.cfg.Duration, c.finishRevealing)
		c.mu.Unlock()
		c.notify(t)
		return
	}
	c.mu.Unlock()

	c.notify(t)
	c.finishRevealing()
}

func (c *Controller) finishRevealing() {
	c.mu.Lock()
	if c.closed || c.state != Revealing {
		c.mu.Unlock()
		return
	}
	c.timer = nil
	t := c.transitionLocked(Revealed)
	c.mu.Unlock()

	c.notify(t)
}

func (c *Controller) transitionLocked(to State) Transition {
	t := Transition{ID: c.id, Index: c.index, From: c.state, To: to, At: c.clock.Now()}
	c.state = to
	c.transitions = append(c.transitions, t)
	return t
}

func (c *Controller) notify(t Transition) {
	if c.listener != nil {
		c.listener(t)
	}
}

// Close tears the instance down. Pending timers are stopped and later
// callbacks become no-ops; a node that has not reached Revealed stays where
// it was.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

func (c *Controller) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}
