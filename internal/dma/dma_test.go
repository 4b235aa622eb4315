package dma

import "testing"

func TestController_CopiesPageByteAtATime(t *testing.T) {
	var src [0x100]byte
	for i := range src {
		src[i] = byte(i)
	}
	var dst [length]byte
	c := New(
		func(addr uint16) byte { return src[addr&0xFF] },
		func(offset int, v byte) { dst[offset] = v },
	)

	c.Start(0xC0)
	if !c.Active() {
		t.Fatalf("expected Active after Start")
	}
	for i := 0; i < length; i++ {
		if !c.Active() {
			t.Fatalf("transfer ended early at byte %d", i)
		}
		c.Tick()
	}
	if c.Active() {
		t.Fatalf("expected transfer to end after %d ticks", length)
	}
	for i := 0; i < length; i++ {
		if dst[i] != byte(i) {
			t.Fatalf("dst[%d]=%02x want %02x", i, dst[i], byte(i))
		}
	}
}

func TestController_RestartMidTransferResetsIndex(t *testing.T) {
	var writes []int
	c := New(
		func(addr uint16) byte { return 0 },
		func(offset int, v byte) { writes = append(writes, offset) },
	)
	c.Start(0x00)
	c.Tick()
	c.Tick()
	c.Start(0x10) // restart before completion
	c.Tick()
	if got := writes[len(writes)-1]; got != 0 {
		t.Fatalf("restart should resume writes at offset 0, got %d", got)
	}
}

func TestController_RegisterReportsLastPage(t *testing.T) {
	c := New(func(addr uint16) byte { return 0 }, func(offset int, v byte) {})
	c.Start(0x42)
	if got := c.Register(); got != 0x42 {
		t.Fatalf("Register got %02x want 42", got)
	}
}
