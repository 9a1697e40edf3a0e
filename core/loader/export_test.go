package loader

// Idle reports whether the controller has no work in flight.
func Idle(c *Controller) bool {
	var n int
	c.exec(func() { n = c.inflight })
	return n == 0
}
