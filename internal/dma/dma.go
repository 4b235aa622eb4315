// Package dma models the OAM DMA controller: writing the source page to
// 0xFF46 starts a 160-cycle, byte-at-a-time copy into OAM that runs
// concurrently with CPU execution, restricting the CPU's own bus access
// while it is in flight.
package dma

// Source reads a byte from the wider address space, bypassing the
// DMA-active read restriction (the controller itself is exempt from it).
type Source func(addr uint16) byte

// Sink writes one OAM byte at the given 0-based OAM offset.
type Sink func(offset int, v byte)

const length = 160 // bytes in OAM

// Controller runs the page-copy state machine.
type Controller struct {
	read  Source
	write Sink

	page   byte
	index  int
	active bool
}

// New builds a Controller that reads through read and writes through write.
func New(read Source, write Sink) *Controller {
	return &Controller{read: read, write: write}
}

// Register returns the last byte written to 0xFF46.
func (c *Controller) Register() byte { return c.page }

// Active reports whether a transfer is currently in flight.
func (c *Controller) Active() bool { return c.active }

// Start latches the written page and begins a new 160-cycle transfer.
// Restarting mid-transfer is legal on hardware and simply restarts the
// copy from index 0 with the new source page.
func (c *Controller) Start(page byte) {
	c.page = page
	c.index = 0
	c.active = true
}

// Tick advances the transfer by one machine cycle, copying exactly one
// byte while active.
func (c *Controller) Tick() {
	if !c.active {
		return
	}
	src := uint16(c.page)<<8 + uint16(c.index)
	c.write(c.index, c.read(src))
	c.index++
	if c.index >= length {
		c.active = false
	}
}
