package scroll

import (
	"log/slog"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"golang.org/x/time/rate"
)

// Source is a near-bottom signal source. Subscribe registers fn and returns
// the function that removes it again.
type Source interface {
	Subscribe(fn func()) (unsubscribe func())
}

var signalsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "storefront_scroll_signals_total",
		Help: "Viewport observations by outcome (fired, debounced, not_near_bottom)",
	},
	[]string{"outcome"},
)

// Config tunes a Detector.
type Config struct {
	// Threshold is how many lines from the end count as near the bottom.
	Threshold int
	// Debounce is the window within which at most one signal fires. Zero
	// fires on every near-bottom observation.
	Debounce time.Duration
}

// Detector watches viewport positions and notifies subscribers when the user
// nears the bottom of the content. It implements Source.
type Detector struct {
	threshold int
	debounce  *rate.Sometimes
	signal    *Trigger
	logger    *slog.Logger
}

// NewDetector creates a detector.
func NewDetector(cfg Config, logger *slog.Logger) *Detector {
	d := &Detector{
		threshold: cfg.Threshold,
		signal:    NewTrigger(),
		logger:    logger,
	}
	if cfg.Debounce > 0 {
		d.debounce = &rate.Sometimes{Interval: cfg.Debounce}
	}
	return d
}

// Subscribe registers fn to run on every near-bottom signal. fn runs on the
// goroutine that called Observe and must not block.
func (d *Detector) Subscribe(fn func()) (unsubscribe func()) {
	return d.signal.Subscribe(fn)
}

// Observe records a viewport position and fires a signal when it is near the
// bottom and the debounce window allows. It reports whether a signal fired.
func (d *Detector) Observe(v Viewport) bool {
	if !v.NearBottom(d.threshold) {
		signalsTotal.WithLabelValues("not_near_bottom").Inc()
		return false
	}

	fire := true
	if d.debounce != nil {
		fire = false
		d.debounce.Do(func() { fire = true })
	}
	if !fire {
		signalsTotal.WithLabelValues("debounced").Inc()
		return false
	}

	signalsTotal.WithLabelValues("fired").Inc()
	d.logger.Debug("near-bottom signal",
		slog.Int("offset", v.Offset),
		slog.Int("content_height", v.ContentHeight),
		slog.Int("subscribers", d.signal.Subscribers()),
	)
	d.signal.Fire()
	return true
}

// Trigger is a Source fired by hand. Commands that ask for more results
// without scrolling use it, as do tests.
type Trigger struct {
	mu     sync.Mutex
	subs   map[uint64]func()
	nextID uint64
}

// NewTrigger creates an empty trigger.
func NewTrigger() *Trigger {
	return &Trigger{subs: make(map[uint64]func())}
}

// Subscribe implements Source.
func (t *Trigger) Subscribe(fn func()) (unsubscribe func()) {
	t.mu.Lock()
	id := t.nextID
	t.nextID++
	t.subs[id] = fn
	t.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			t.mu.Lock()
			delete(t.subs, id)
			t.mu.Unlock()
		})
	}
}

// Fire notifies every subscriber once.
func (t *Trigger) Fire() {
	t.mu.Lock()
	subs := make([]func(), 0, len(t.subs))
	for _, fn := range t.subs {
		subs = append(subs, fn)
	}
	t.mu.Unlock()

	for _, fn := range subs {
		fn()
	}
}

// Subscribers reports how many functions are registered.
func (t *Trigger) Subscribers() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.subs)
}
