// Package ui is the host presentation shell: an ebiten window that blits
// the Machine's framebuffer, forwards keyboard state to its joypad, and
// keeps an audio line open (silent — the APU is a register-storage stub
// with no synthesized samples to play). spec.md §1 scopes windowing, key
// capture, and audio output devices out as external collaborators — this
// package is that thin external layer, not part of the emulation core
// itself.
package ui

import (
	"time"

	"gbcore/internal/emu"
	"gbcore/internal/joypad"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// App is an ebiten.Game driving a Machine at its native ~59.7 Hz frame rate
// regardless of the host display's refresh rate.
type App struct {
	cfg Config
	m   *emu.Machine
	tex *ebiten.Image

	audioPlayer *audio.Player

	paused bool

	lastTime time.Time
	frameAcc float64
}

// NewApp constructs the window for m, which should already have a
// cartridge loaded.
func NewApp(cfg Config, m *emu.Machine) *App {
	cfg.Defaults()
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(160*cfg.Scale, 144*cfg.Scale)

	a := &App{cfg: cfg, m: m, lastTime: time.Now()}
	a.audioPlayer = newSilentPlayer(audio.NewContext(sampleRate))
	if a.audioPlayer != nil {
		a.audioPlayer.Play()
	}
	return a
}

// Run hands control to ebiten's game loop until the window closes.
func (a *App) Run() error { return ebiten.RunGame(a) }

// keymap pairs an ebiten key with the joypad button it drives.
var keymap = []struct {
	key ebiten.Key
	btn joypad.Button
}{
	{ebiten.KeyRight, joypad.Right},
	{ebiten.KeyLeft, joypad.Left},
	{ebiten.KeyUp, joypad.Up},
	{ebiten.KeyDown, joypad.Down},
	{ebiten.KeyZ, joypad.A},
	{ebiten.KeyX, joypad.B},
	{ebiten.KeyEnter, joypad.Start},
	{ebiten.KeyShiftRight, joypad.Select},
}

func (a *App) Update() error {
	var mask byte
	for _, k := range keymap {
		if ebiten.IsKeyPressed(k.key) {
			mask |= 1 << uint(k.btn)
		}
	}
	a.m.SetButtons(mask)

	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		a.paused = !a.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		a.m.Reset(true)
	}
	if a.paused && inpututil.IsKeyJustPressed(ebiten.KeyN) {
		a.m.StepFrame()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		ebiten.SetFullscreen(!ebiten.IsFullscreen())
	}

	if a.paused {
		a.lastTime = time.Now()
		return nil
	}

	// Advance in whole Game Boy frames using a real-time accumulator, so
	// emulation speed tracks wall-clock time independent of the host
	// display's refresh rate.
	now := time.Now()
	dt := now.Sub(a.lastTime).Seconds()
	if dt < 0 {
		dt = 0
	}
	a.lastTime = now
	const gbFPS = 4194304.0 / 70224.0 // ~59.7275 Hz
	a.frameAcc += dt * gbFPS
	for steps := 0; a.frameAcc >= 1.0 && steps < 10; steps++ {
		a.m.StepFrame()
		a.frameAcc -= 1.0
	}
	return nil
}

func (a *App) Draw(screen *ebiten.Image) {
	if a.tex == nil {
		a.tex = ebiten.NewImage(160, 144)
	}
	a.tex.WritePixels(a.m.Framebuffer())
	screen.DrawImage(a.tex, nil)
}

func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) { return 160, 144 }
