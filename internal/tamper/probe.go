package tamper

import "sync"

// SizeProbe tracks terminal sizes during an attempt. The outer size is the
// largest size observed since the last Reset and the inner size is the
// current one, so a panel docked into the terminal shows up as a shrink.
type SizeProbe struct {
	mu      sync.Mutex
	largest Size
	current Size
}

// Observe records a new terminal size.
func (p *SizeProbe) Observe(width, height int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.current = Size{Width: width, Height: height}
	p.largest.Width = max(p.largest.Width, width)
	p.largest.Height = max(p.largest.Height, height)
}

// Reset forgets the largest size, using the current size as the baseline.
func (p *SizeProbe) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.largest = p.current
}

// Dimensions implements Probe.
func (p *SizeProbe) Dimensions() (outer, inner Size) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.largest, p.current
}
