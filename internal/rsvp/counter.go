package rsvp

// GuestCounter is a non-negative counter with no upper bound.
type GuestCounter struct {
	n int
}

func (c *GuestCounter) Increment() {
	c.n++
}

// Decrement is a no-op at zero.
func (c *GuestCounter) Decrement() {
	if c.n > 0 {
		c.n--
	}
}

func (c *GuestCounter) Value() int {
	return c.n
}

func (c *GuestCounter) Reset() {
	c.n = 0
}
