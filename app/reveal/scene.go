package reveal

import "sync"

// Group is a sibling group of reveal-enabled nodes. Item i staggers its own
// trigger by i*StepDelay; the items are otherwise independent.
type Group struct {
	items []*Controller
}

func NewGroup(n int, cfg Config, clock Clock, listener Listener) *Group {
	g := &Group{items: make([]*Controller, n)}
	for i := range g.items {
		g.items[i] = NewController(i, cfg, clock, listener)
	}
	return g
}

func (g *Group) Len() int { return len(g.items) }

func (g *Group) Item(i int) *Controller { return g.items[i] }

func (g *Group) Items() []*Controller {
	out := make([]*Controller, len(g.items))
	copy(out, g.items)
	return out
}

func (g *Group) Close() {
	for _, item := range g.items {
		item.Close()
	}
}

// Scene owns every reveal group of one rendered document instance. Closing
// the scene when the document goes away discards all pending timers.
type Scene struct {
	mu       sync.Mutex
	cfg      Config
	clock    Clock
	listener Listener
	groups   []*Group
	closed   bool
}

func NewScene(cfg Config, clock Clock, listener Listener) *Scene {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Scene{cfg: cfg, clock: clock, listener: listener}
}

func (s *Scene) Config() Config { return s.cfg }

// Group registers a new sibling group of n items. Groups created after Close
// start closed.
func (s *Scene) Group(n int) *Group {
	g := NewGroup(n, s.cfg, s.clock, s.listener)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		g.Close()
		return g
	}
	s.groups = append(s.groups, g)
	return g
}

func (s *Scene) Groups() []*Group {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*Group, len(s.groups))
	copy(out, s.groups)
	return out
}

func (s *Scene) Close() {
	s.mu.Lock()
	groups := s.groups
	s.groups = nil
	s.closed = true
	s.mu.Unlock()

	for _, g := range groups {
		g.Close()
	}
}
