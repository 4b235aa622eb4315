package serial

import "testing"

type writerFunc func([]byte) (int, error)

func (f writerFunc) Write(p []byte) (int, error) { return f(p) }

func TestPort_ImmediateTransfer(t *testing.T) {
	p := New()
	var got []byte
	p.SetSink(writerFunc(func(b []byte) (int, error) {
		got = append(got, b...)
		return len(b), nil
	}))

	p.WriteSB('A')
	if transferred := p.WriteSC(0x81); !transferred {
		t.Fatalf("expected WriteSC(0x81) to report a transfer")
	}
	if len(got) != 1 || got[0] != 'A' {
		t.Fatalf("sink got %v want ['A']", got)
	}
	if p.Output() != "A" {
		t.Fatalf("Output got %q want \"A\"", p.Output())
	}
	if p.ReadSC()&0x80 != 0 {
		t.Fatalf("SC bit7 should clear once the byte transfers")
	}
}

func TestPort_NoTransferWithoutStartBit(t *testing.T) {
	p := New()
	if transferred := p.WriteSC(0x01); transferred {
		t.Fatalf("SC=0x01 (start bit clear) should not transfer")
	}
}

func TestPort_ResetClearsBuffer(t *testing.T) {
	p := New()
	p.WriteSB('X')
	p.WriteSC(0x81)
	p.Reset()
	if p.Output() != "" {
		t.Fatalf("expected empty output after Reset, got %q", p.Output())
	}
}
