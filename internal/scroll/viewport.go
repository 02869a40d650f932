// Package scroll turns viewport movement into debounced near-bottom signals.
package scroll

// Viewport is the visible window over a listing, measured in lines.
type Viewport struct {
	// Offset is the index of the first visible line.
	Offset int
	// Height is how many lines fit on screen.
	Height int
	// ContentHeight is the total number of lines in the listing.
	ContentHeight int
}

// MaxOffset is the largest Offset that still fills the screen.
func (v Viewport) MaxOffset() int {
	if m := v.ContentHeight - v.Height; m > 0 {
		return m
	}
	return 0
}

// ScrollBy moves the window by delta lines, clamped to the content.
func (v Viewport) ScrollBy(delta int) Viewport {
	v.Offset += delta
	return v.clamp()
}

// ScrollToBottom moves the window to the last screenful.
func (v Viewport) ScrollToBottom() Viewport {
	v.Offset = v.MaxOffset()
	return v
}

// WithContentHeight returns v over a listing of n lines, keeping the offset
// where possible.
func (v Viewport) WithContentHeight(n int) Viewport {
	v.ContentHeight = n
	return v.clamp()
}

// NearBottom reports whether the bottom of the window is within threshold
// lines of the end of the content.
func (v Viewport) NearBottom(threshold int) bool {
	return v.Offset+v.Height >= v.ContentHeight-threshold
}

func (v Viewport) clamp() Viewport {
	if v.Offset > v.MaxOffset() {
		v.Offset = v.MaxOffset()
	}
	if v.Offset < 0 {
		v.Offset = 0
	}
	return v
}
