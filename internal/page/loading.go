package page

import "sync"

// Indicator is the loading spinner: one boolean, last writer wins.
type Indicator struct {
	mu      sync.Mutex
	visible bool
}

// NewIndicator returns an indicator in the given state.
func NewIndicator(visible bool) *Indicator {
	return &Indicator{visible: visible}
}

// Toggle flips visibility and returns the new state.
func (i *Indicator) Toggle() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.visible = !i.visible
	return i.visible
}

// Visible reports whether the indicator is shown.
func (i *Indicator) Visible() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.visible
}
