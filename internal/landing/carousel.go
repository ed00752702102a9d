package landing

import (
	"context"
	"sync"
	"time"
)

const (
	HeroInterval       = 4 * time.Second
	ScreenshotInterval = 3 * time.Second
)

// VisibleCount is how many screenshots fit a viewport of the given width.
func VisibleCount(width int) int {
	switch {
	case width < 640:
		return 2
	case width < 1024:
		return 3
	}
	return 4
}

// CarouselState is a snapshot of a carousel position.
type CarouselState struct {
	Index    int  `json:"index"`
	Count    int  `json:"count"`
	Visible  int  `json:"visible"`
	MaxIndex int  `json:"maxIndex"`
	CanPrev  bool `json:"canPrev"`
	CanNext  bool `json:"canNext"`
}

// Carousel tracks the position of an image carousel. A wrapping carousel
// (hero images) shows one image and cycles in both directions. A paged
// carousel (review screenshots) shows Visible images; manual moves clamp at
// the ends and auto-advance returns to the start after the last page.
type Carousel struct {
	mu      sync.Mutex
	index   int
	count   int
	visible int
	wrap    bool
}

// NewWrapCarousel builds a single-image wrapping carousel.
func NewWrapCarousel(count int) *Carousel {
	return &Carousel{count: count, visible: 1, wrap: true}
}

// NewPagedCarousel builds a clamped carousel showing visible items at once.
func NewPagedCarousel(count, visible int) *Carousel {
	return &Carousel{count: count, visible: max(1, visible)}
}

func (c *Carousel) maxIndexLocked() int {
	if c.wrap {
		return max(0, c.count-1)
	}
	return max(0, c.count-c.visible)
}

func (c *Carousel) clampLocked() {
	c.index = min(max(0, c.index), c.maxIndexLocked())
}

// Next moves one step forward.
func (c *Carousel) Next() CarouselState {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.wrap {
		if c.count > 0 {
			c.index = (c.index + 1) % c.count
		}
	} else {
		c.index = min(c.index+1, c.maxIndexLocked())
	}
	return c.stateLocked()
}

// Prev moves one step back.
func (c *Carousel) Prev() CarouselState {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.wrap {
		if c.count > 0 {
			c.index = (c.index - 1 + c.count) % c.count
		}
	} else {
		c.index = max(c.index-1, 0)
	}
	return c.stateLocked()
}

// Goto jumps to i, clamped to the valid range.
func (c *Carousel) Goto(i int) CarouselState {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.index = i
	c.clampLocked()
	return c.stateLocked()
}

// Advance is one auto-advance step.
func (c *Carousel) Advance() CarouselState {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.index >= c.maxIndexLocked() {
		c.index = 0
	} else {
		c.index++
	}
	return c.stateLocked()
}

// SetCount changes the number of items, clamping the position.
func (c *Carousel) SetCount(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.count = max(0, n)
	c.clampLocked()
}

// SetVisible changes the page size of a paged carousel.
func (c *Carousel) SetVisible(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.wrap {
		return
	}
	c.visible = max(1, n)
	c.clampLocked()
}

// State snapshots the carousel.
func (c *Carousel) State() CarouselState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stateLocked()
}

func (c *Carousel) stateLocked() CarouselState {
	maxIdx := c.maxIndexLocked()
	s := CarouselState{
		Index:    c.index,
		Count:    c.count,
		Visible:  c.visible,
		MaxIndex: maxIdx,
		CanPrev:  c.index > 0,
		CanNext:  c.index < maxIdx,
	}
	if c.wrap {
		s.CanPrev = c.count > 1
		s.CanNext = c.count > 1
	}
	return s
}

func (c *Carousel) movable() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.maxIndexLocked() > 0
}

// Run auto-advances every interval until ctx is done. Ticks where there is
// nothing to scroll are skipped, so count and viewport changes take effect
// on the next tick.
func (c *Carousel) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if c.movable() {
				c.Advance()
			}
		}
	}
}

// Accordion is a single-open FAQ list.
type Accordion struct {
	mu   sync.Mutex
	open int
	size int
}

// NewAccordion builds an accordion of n items, all closed.
func NewAccordion(n int) *Accordion {
	return &Accordion{open: -1, size: n}
}

// Toggle opens item i, closing any other, or closes it if already open.
// It returns the open index, -1 when none.
func (a *Accordion) Toggle(i int) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	switch {
	case i < 0 || i >= a.size:
	case a.open == i:
		a.open = -1
	default:
		a.open = i
	}
	return a.open
}

// Open returns the open index, -1 when none.
func (a *Accordion) Open() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.open
}
