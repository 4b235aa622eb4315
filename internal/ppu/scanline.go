package ppu

import "sort"

// Sprite is one OAM entry already resolved to screen coordinates
// (OAM's Y/X are stored +16/+8, Sprite's are not).
type Sprite struct {
	X, Y     int
	Tile     byte
	Attr     byte
	OAMIndex int
}

// RenderBGScanlineUsingFetcher renders 160 BG pixels for the given LY using the isolated fetcher.
// Inputs:
// - mem: VRAM reader
// - mapBase: 0x9800 or 0x9C00
// - tileData8000: true -> 0x8000 addressing; false -> 0x8800 signed addressing
// - scx, scy: scroll registers
// - ly: current scanline (0..143)
// Output: 160 color indices (0..3)
func RenderBGScanlineUsingFetcher(mem VRAMReader, mapBase uint16, tileData8000 bool, scx, scy, ly byte) [160]byte {
	var out [160]byte

	// Compute BG coordinates.
	bgY := uint16(ly) + uint16(scy)
	fineY := byte(bgY & 7)
	mapY := (bgY >> 3) & 31 // 0..31 rows

	startX := uint16(scx)
	tileX := (startX >> 3) & 31
	fineX := int(startX & 7)

	// Map index address for the first tile column.
	tileIndexAddr := mapBase + mapY*32 + tileX

	var q fifo
	f := newBGFetcher(mem, &q)
	f.Configure(mapBase, tileData8000, tileIndexAddr, fineY)
	f.Fetch()
	// Discard scx fractional pixels.
	for i := 0; i < fineX; i++ {
		_, _ = q.Pop()
	}

	// Produce 160 pixels, fetching new tiles as the FIFO empties.
	for x := 0; x < 160; x++ {
		if q.Len() == 0 {
			// Advance to next tile in map row (wrap at 32 tiles).
			tileX = (tileX + 1) & 31
			tileIndexAddr = mapBase + mapY*32 + tileX
			f.Configure(mapBase, tileData8000, tileIndexAddr, fineY)
			f.Fetch()
		}
		px, _ := q.Pop()
		out[x] = px
	}
	return out
}

// RenderWindowScanlineUsingFetcher renders the window layer for a scanline using the fetcher.
// It fills pixels starting at wxStart (WX-7) using winLine as the vertical line within the window.
// Pixels before wxStart are left as 0 (BG color index 0) so callers can blend.
func RenderWindowScanlineUsingFetcher(mem VRAMReader, mapBase uint16, tileData8000 bool, wxStart int, winLine byte) [160]byte {
	var out [160]byte
	if wxStart >= 160 {
		return out
	}
	if wxStart < 0 {
		wxStart = 0
	}
	// Compute window tile row and fineY
	mapY := (uint16(winLine) >> 3) & 31
	fineY := winLine & 7
	tileX := uint16(0)
	tileIndexAddr := mapBase + mapY*32 + tileX
	var q fifo
	f := newBGFetcher(mem, &q)
	f.Configure(mapBase, tileData8000, tileIndexAddr, fineY)
	f.Fetch()
	for x := wxStart; x < 160; x++ {
		if q.Len() == 0 {
			tileX = (tileX + 1) & 31
			tileIndexAddr = mapBase + mapY*32 + tileX
			f.Configure(mapBase, tileData8000, tileIndexAddr, fineY)
			f.Fetch()
		}
		px, _ := q.Pop()
		out[x] = px
	}
	return out
}

// ComposeSpriteLine mixes up to 10 sprites onto a scanline, honoring
// BG-priority transparency (attr bit 7 set hides the sprite behind any
// non-zero BG pixel) and the X-then-OAM-index tie-break real hardware
// uses for overlapping opaque pixels.
func ComposeSpriteLine(mem VRAMReader, sprites []Sprite, ly byte, bgci [160]byte, doubleHeight bool) [160]byte {
	out, _ := composeSpriteLineDetailed(mem, sprites, ly, bgci, doubleHeight)
	return out
}

// composeSpriteLineDetailed is ComposeSpriteLine plus, per pixel, which
// OBP palette (0 or 1) the winning sprite selected — needed to shade the
// framebuffer but not part of ComposeSpriteLine's color-index result.
func composeSpriteLineDetailed(mem VRAMReader, sprites []Sprite, ly byte, bgci [160]byte, doubleHeight bool) (out, palSel [160]byte) {
	height := 8
	if doubleHeight {
		height = 16
	}

	ordered := append([]Sprite(nil), sprites...)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].X != ordered[j].X {
			return ordered[i].X < ordered[j].X
		}
		return ordered[i].OAMIndex < ordered[j].OAMIndex
	})

	// Draw lowest priority first so the highest-priority sprite (index 0
	// after sorting) is painted last and wins any overlap.
	for i := len(ordered) - 1; i >= 0; i-- {
		s := ordered[i]
		row := int(ly) - s.Y
		if row < 0 || row >= height {
			continue
		}
		if s.Attr&0x40 != 0 { // Y flip
			row = height - 1 - row
		}
		tile := s.Tile
		if doubleHeight {
			tile &^= 0x01
			if row >= 8 {
				tile++
				row -= 8
			}
		}
		base := uint16(0x8000) + uint16(tile)*16 + uint16(row)*2
		lo := mem.Read(base)
		hi := mem.Read(base + 1)
		xflip := s.Attr&0x20 != 0
		bgPriority := s.Attr&0x80 != 0
		pal := byte(0)
		if s.Attr&0x10 != 0 {
			pal = 1
		}
		for col := 0; col < 8; col++ {
			x := s.X + col
			if x < 0 || x >= 160 {
				continue
			}
			bit := 7 - col
			if xflip {
				bit = col
			}
			ci := (hi>>uint(bit)&1)<<1 | (lo >> uint(bit) & 1)
			if ci == 0 {
				continue
			}
			if bgPriority && bgci[x] != 0 {
				continue
			}
			out[x] = ci
			palSel[x] = pal
		}
	}
	return out, palSel
}
