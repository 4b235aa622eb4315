package ppu

import "testing"

func pixelAt(fb []byte, x, y int) (r, g, b, a byte) {
	idx := (y*160 + x) * 4
	return fb[idx], fb[idx+1], fb[idx+2], fb[idx+3]
}

func TestRenderScanlineProducesFramebufferPixels(t *testing.T) {
	p := New(nil)
	// A single BG tile (index 1 at map row0,col0) whose every pixel is
	// color index 3 (lo=hi=0xFF), with BGP mapping index3 to the
	// darkest shade.
	p.CPUWrite(0xFF47, 0b11_10_01_00) // BGP: ci3->shade3, ci2->2, ci1->1, ci0->0
	p.vram[0x1800] = 1                // tile map entry at 0x9800 -> tile 1
	tileBase := uint16(0x8000) + 1*16
	p.vram[tileBase-0x8000] = 0xFF
	p.vram[tileBase-0x8000+1] = 0xFF

	p.CPUWrite(0xFF40, 0x80|0x01|0x10) // LCD on, BG on, 0x8000 addressing
	p.Tick(80 + 172)                   // run line 0 through HBlank entry

	fb := p.Framebuffer()
	r, g, b, a := pixelAt(fb, 0, 0)
	if r != 0x00 || g != 0x00 || b != 0x00 || a != 0xFF {
		t.Fatalf("expected darkest shade at (0,0), got %d,%d,%d,%d", r, g, b, a)
	}
}

func TestRenderScanlineSpriteOverridesBG(t *testing.T) {
	p := New(nil)
	p.CPUWrite(0xFF47, 0b11_10_01_00)
	p.CPUWrite(0xFF48, 0b01_10_11_00) // OBP0: ci1->shade3 (darkest)
	// BG stays blank (tile 0, all zero) so bgci[x]==0 everywhere.
	p.oam[0] = 16     // Y -> screen Y 0
	p.oam[1] = 8 + 20 // X -> screen X 20
	p.oam[2] = 2      // tile 2
	p.oam[3] = 0      // attr: palette 0, no flip, no BG priority
	spriteTileBase := uint16(0x8000) + 2*16
	p.vram[spriteTileBase-0x8000] = 0x80 // leftmost pixel opaque, color index 1
	p.vram[spriteTileBase-0x8000+1] = 0x00

	p.CPUWrite(0xFF40, 0x80|0x01|0x02|0x10) // LCD+BG+OBJ on, 0x8000 addressing
	p.Tick(80 + 172)

	fb := p.Framebuffer()
	r, g, b, a := pixelAt(fb, 20, 0)
	if r != 0x00 || g != 0x00 || b != 0x00 || a != 0xFF {
		t.Fatalf("expected sprite's darkest shade at (20,0), got %d,%d,%d,%d", r, g, b, a)
	}
}
