package ui

import "github.com/hajimehoshi/ebiten/v2/audio"

// silentStream is an io.Reader that always supplies silence. The APU is a
// register-storage stub (spec.md scopes sound synthesis out entirely), so
// there are no real PCM samples to stream; this keeps the audio output
// device wired and playing rather than omitted, the way a host shell would
// still open an audio line even for a cartridge with sound registers muted.
type silentStream struct{}

func (silentStream) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = 0
	}
	return len(p), nil
}

const sampleRate = 48000

func newSilentPlayer(ctx *audio.Context) *audio.Player {
	p, err := ctx.NewPlayer(silentStream{})
	if err != nil {
		return nil
	}
	return p
}
