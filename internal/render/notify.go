package render

import (
	"sync"
	"time"
)

// Notifier holds a transient message that clears itself after a fixed
// duration. A newer message replaces the current one and restarts the clock.
type Notifier struct {
	duration time.Duration

	mu       sync.Mutex
	message  string
	timer    *time.Timer
	seq      uint64
	onChange func(message string)
}

// NewNotifier creates a notifier whose messages last d.
func NewNotifier(d time.Duration) *Notifier {
	return &Notifier{duration: d}
}

// OnChange registers fn to run whenever the message changes, including when
// it is dismissed. fn runs without the notifier's lock held.
func (n *Notifier) OnChange(fn func(message string)) {
	n.mu.Lock()
	n.onChange = fn
	n.mu.Unlock()
}

// Show displays message until it expires or is replaced.
func (n *Notifier) Show(message string) {
	n.mu.Lock()
	n.seq++
	seq := n.seq
	n.message = message
	if n.timer != nil {
		n.timer.Stop()
	}
	n.timer = time.AfterFunc(n.duration, func() { n.expire(seq) })
	fn := n.onChange
	n.mu.Unlock()

	if fn != nil {
		fn(message)
	}
}

// Current returns the message on display, or "".
func (n *Notifier) Current() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.message
}

// Dismiss clears the message now.
func (n *Notifier) Dismiss() {
	n.mu.Lock()
	n.seq++
	n.clearLocked()
	fn := n.onChange
	n.mu.Unlock()

	if fn != nil {
		fn("")
	}
}

// Render draws the message line, or nothing when there is none.
func (n *Notifier) Render() string {
	msg := n.Current()
	if msg == "" {
		return ""
	}
	return errorStyle.Render("! "+msg) + "\n"
}

func (n *Notifier) expire(seq uint64) {
	n.mu.Lock()
	if seq != n.seq {
		n.mu.Unlock()
		return
	}
	n.clearLocked()
	fn := n.onChange
	n.mu.Unlock()

	if fn != nil {
		fn("")
	}
}

func (n *Notifier) clearLocked() {
	n.message = ""
	if n.timer != nil {
		n.timer.Stop()
		n.timer = nil
	}
}
