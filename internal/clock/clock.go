package clock

import (
	"sync"

	"github.com/replistore/repcrec/pkg/repcrec"
)

// virtualClock is a monotonic, in-process tick source. All test cases
// are applied sequentially by a single dispatcher, so a plain counter
// under a mutex is enough to give every caller a strictly increasing
// Tick; there is no wall-clock or cross-process ordering to honor.
type virtualClock struct {
	mu   sync.Mutex
	tick repcrec.Tick
}

// New returns a repcrec.Clock whose first call to Now returns 1.
func New() repcrec.Clock {
	return &virtualClock{}
}

func (c *virtualClock) Now() repcrec.Tick {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.tick++
	return c.tick
}
