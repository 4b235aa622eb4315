package ppu

// shadeRGBA maps a 2-bit DMG shade (0=lightest) to an RGBA quad.
var shadeRGBA = [4][3]byte{
	{0xFF, 0xFF, 0xFF},
	{0xAA, 0xAA, 0xAA},
	{0x55, 0x55, 0x55},
	{0x00, 0x00, 0x00},
}

func palette4(reg, colorIndex byte) byte {
	return (reg >> (colorIndex * 2)) & 0x03
}

// scanSprites collects up to 10 OAM entries visible on line ly, in OAM
// order (ComposeSpriteLine does its own X/OAM-index priority sort).
func (p *PPU) scanSprites(ly byte) []Sprite {
	height := 8
	if p.lcdc&0x04 != 0 {
		height = 16
	}
	var found []Sprite
	for i := 0; i < 40 && len(found) < 10; i++ {
		base := i * 4
		y := int(p.oam[base]) - 16
		x := int(p.oam[base+1]) - 8
		row := int(ly) - y
		if row < 0 || row >= height {
			continue
		}
		found = append(found, Sprite{
			X:        x,
			Y:        y,
			Tile:     p.oam[base+2],
			Attr:     p.oam[base+3],
			OAMIndex: i,
		})
	}
	return found
}

// renderScanline computes line ly's BG+window+sprite pixels and writes
// them into the framebuffer, using the window line counter that
// enterPixelTransfer captured for this line. It runs once, as pixel
// transfer (mode 3) ends.
func (p *PPU) renderScanline(ly byte) {
	if ly >= 144 {
		return
	}

	bgWinEnabled := p.lcdc&0x01 != 0
	tileData8000 := p.lcdc&0x10 != 0

	var bgci [160]byte
	if bgWinEnabled {
		mapBase := uint16(0x9800)
		if p.lcdc&0x08 != 0 {
			mapBase = 0x9C00
		}
		bgci = RenderBGScanlineUsingFetcher(p, mapBase, tileData8000, p.scx, p.scy, ly)
	}

	windowVisible := bgWinEnabled && p.lcdc&0x20 != 0 &&
		int(ly) >= int(p.wy) && p.wx <= 166
	if windowVisible {
		mapBase := uint16(0x9800)
		if p.lcdc&0x40 != 0 {
			mapBase = 0x9C00
		}
		winXStart := int(p.wx) - 7
		winLine := p.lineRegs[ly].WinLine
		winci := RenderWindowScanlineUsingFetcher(p, mapBase, tileData8000, winXStart, byte(winLine))
		for x := winXStart; x < 160; x++ {
			if x < 0 {
				continue
			}
			bgci[x] = winci[x]
		}
	}

	objEnabled := p.lcdc&0x02 != 0
	var spriteci, palSel [160]byte
	if objEnabled {
		sprites := p.scanSprites(ly)
		doubleHeight := p.lcdc&0x04 != 0
		spriteci, palSel = composeSpriteLineDetailed(p, sprites, ly, bgci, doubleHeight)
	}

	base := int(ly) * 160 * 4
	for x := 0; x < 160; x++ {
		shade := palette4(p.bgp, bgci[x])
		if objEnabled && spriteci[x] != 0 {
			obp := p.obp0
			if palSel[x] == 1 {
				obp = p.obp1
			}
			shade = palette4(obp, spriteci[x])
		}
		rgb := shadeRGBA[shade]
		idx := base + x*4
		p.framebuffer[idx+0] = rgb[0]
		p.framebuffer[idx+1] = rgb[1]
		p.framebuffer[idx+2] = rgb[2]
		p.framebuffer[idx+3] = 0xFF
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
