package services

import (
	"sync"
	"time"
)

// Carousel tracks the visible special offer and advances it on a timer.
type Carousel struct {
	size     int
	interval time.Duration
	onChange func(index int)

	mu     sync.Mutex
	index  int
	ticker *time.Ticker
	stop   chan struct{}
}

func NewCarousel(size int, interval time.Duration, onChange func(index int)) *Carousel {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	return &Carousel{size: size, interval: interval, onChange: onChange}
}

func (c *Carousel) Index() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.index
}

// GoTo shows slide i, wrapping past either end.
func (c *Carousel) GoTo(i int) int {
	c.mu.Lock()
	if c.size == 0 {
		c.mu.Unlock()
		return 0
	}
	switch {
	case i < 0:
		c.index = c.size - 1
	case i >= c.size:
		c.index = 0
	default:
		c.index = i
	}
	idx := c.index
	c.mu.Unlock()

	if c.onChange != nil {
		c.onChange(idx)
	}
	return idx
}

func (c *Carousel) Next() int { return c.GoTo(c.Index() + 1) }

func (c *Carousel) Prev() int { return c.GoTo(c.Index() - 1) }

// Start begins auto-advance. A running timer is cleared first so there is
// never more than one.
func (c *Carousel) Start() {
	c.Stop()

	c.mu.Lock()
	ticker := time.NewTicker(c.interval)
	stop := make(chan struct{})
	c.ticker, c.stop = ticker, stop
	c.mu.Unlock()

	go func() {
		for {
			select {
			case <-ticker.C:
				c.Next()
			case <-stop:
				return
			}
		}
	}()
}

// Stop clears the auto-advance timer, if any.
func (c *Carousel) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.ticker == nil {
		return
	}
	c.ticker.Stop()
	close(c.stop)
	c.ticker, c.stop = nil, nil
}

func (c *Carousel) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ticker != nil
}
