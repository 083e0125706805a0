package services

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCarousel_Wraparound(t *testing.T) {
	var seen []int
	c := NewCarousel(3, time.Second, func(i int) { seen = append(seen, i) })

	assert.Equal(t, 1, c.Next())
	assert.Equal(t, 2, c.Next())
	assert.Equal(t, 0, c.Next())
	assert.Equal(t, 2, c.Prev())
	assert.Equal(t, 0, c.GoTo(7))
	assert.Equal(t, 2, c.GoTo(-1))
	assert.Equal(t, []int{1, 2, 0, 2, 0, 2}, seen)

	empty := NewCarousel(0, time.Second, nil)
	assert.Equal(t, 0, empty.Next())
}

func TestCarousel_StartStop(t *testing.T) {
	var mu sync.Mutex
	ticks := 0
	c := NewCarousel(3, 10*time.Millisecond, func(int) {
		mu.Lock()
		ticks++
		mu.Unlock()
	})

	c.Start()
	c.Start() // restarting replaces the timer
	assert.True(t, c.Running())

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return ticks >= 2
	}, time.Second, 5*time.Millisecond)

	c.Stop()
	c.Stop()
	assert.False(t, c.Running())

	mu.Lock()
	stopped := ticks
	mu.Unlock()
	time.Sleep(40 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	assert.LessOrEqual(t, ticks, stopped+1)
}
