// Command cpurunner drives a Machine headlessly against a ROM, one machine
// cycle at a time, and watches its serial output for a blargg-style
// "Passed"/"Failed N tests" marker. It exists for conformance-test
// automation, where cmd/gbemu's windowed shell is unnecessary overhead.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"regexp"
	"strings"
	"time"

	"gbcore/internal/emu"
)

// writerFunc adapts a function to io.Writer.
type writerFunc func(p []byte) (n int, err error)

func (f writerFunc) Write(p []byte) (n int, err error) { return f(p) }

func main() {
	romPath := flag.String("rom", "", "path to ROM (.gb)")
	bootPath := flag.String("bootrom", "", "optional DMG boot ROM to run from 0x0000 until FF50 disables it")
	steps := flag.Int("steps", 20_000_000, "max machine cycles to run")
	trace := flag.Bool("trace", false, "print CPU state every machine cycle")
	until := flag.String("until", "Passed", "stop when serial output contains this substring (case-insensitive); empty to disable")
	auto := flag.Bool("auto", false, "auto-detect 'Passed' or 'Failed N tests' in serial output and exit with code 0/1")
	timeout := flag.Duration("timeout", 0, "optional wall-clock timeout (e.g. 30s, 2m); 0 disables")
	traceOnFail := flag.Bool("traceOnFail", false, "when -auto detects failure, print a recent trace window (slows down)")
	traceWindow := flag.Int("traceWindow", 200, "number of recent CPU states to include in 'traceOnFail' dump")
	serialWindowFlag := flag.Int("serialWindow", 8192, "number of recent serial bytes to retain for diagnostics on fail")
	flag.Parse()

	if *romPath == "" {
		log.Fatal("-rom is required")
	}

	m := emu.New(emu.Config{Trace: *trace})
	if *bootPath != "" {
		boot, err := os.ReadFile(*bootPath)
		if err != nil {
			log.Fatalf("read bootrom: %v", err)
		}
		m.SetBootROM(boot)
	}
	if err := m.LoadROMFromFile(*romPath); err != nil {
		log.Fatalf("load rom: %v", err)
	}

	var ser bytes.Buffer
	serialWindow := *serialWindowFlag
	if serialWindow < 256 {
		serialWindow = 256
	}
	serRing := make([]byte, serialWindow)
	serRingIdx := 0
	serRingFill := 0
	w := io.Writer(os.Stdout)
	if *until != "" || *auto {
		w = io.MultiWriter(os.Stdout, &ser, writerFunc(func(p []byte) (int, error) {
			for _, ch := range p {
				serRing[serRingIdx] = ch
				serRingIdx = (serRingIdx + 1) % serialWindow
				if serRingFill < serialWindow {
					serRingFill++
				}
			}
			return len(p), nil
		}))
	}
	m.SetSerialWriter(w)

	start := time.Now()
	var deadline time.Time
	if *timeout > 0 {
		deadline = start.Add(*timeout)
	}
	failRe := regexp.MustCompile(`(?i)failed\s+(\d+)\s+tests?`)
	stageRe := regexp.MustCompile(`\b(\d{2}:\d{2})\b`)
	lastStage := ""

	ring := make([]emu.CPUState, *traceWindow)
	ringIdx := 0
	ringFill := 0

	done := func(i int) {
		fmt.Printf("\nDone: cycles=%d elapsed=%s\n", i+1, time.Since(start).Truncate(time.Millisecond))
	}

	for i := 0; i < *steps; i++ {
		m.Tick()
		if *traceOnFail && *traceWindow > 0 {
			ring[ringIdx] = m.CPUState()
			ringIdx = (ringIdx + 1) % *traceWindow
			if ringFill < *traceWindow {
				ringFill++
			}
		}

		if *auto {
			s := ser.String()
			if mm := stageRe.FindAllString(s, -1); len(mm) > 0 {
				lastStage = mm[len(mm)-1]
			}
			if strings.Contains(strings.ToLower(s), "passed") {
				fmt.Printf("\nDetected PASS in serial output.\n")
				if lastStage != "" {
					fmt.Printf("Last stage seen: %s\n", lastStage)
				}
				done(i)
				os.Exit(0)
			}
			if mm := failRe.FindStringSubmatch(s); mm != nil {
				fmt.Printf("\nDetected %s in serial output.\n", mm[0])
				if lastStage != "" {
					fmt.Printf("Last stage seen: %s\n", lastStage)
				}
				if *traceOnFail && ringFill > 0 {
					fmt.Printf("\n--- recent trace (last %d cycles) ---\n", ringFill)
					startIdx := (ringIdx - ringFill + *traceWindow) % *traceWindow
					for j := 0; j < ringFill; j++ {
						st := ring[(startIdx+j)%*traceWindow]
						fmt.Printf("PC=%04X A=%02X F=%02X B=%02X C=%02X D=%02X E=%02X H=%02X L=%02X SP=%04X IME=%t HALT=%t STOP=%t\n",
							st.PC, st.A, st.F, st.B, st.C, st.D, st.E, st.H, st.L, st.SP, st.IME, st.Halted, st.Stopped)
					}
					fmt.Printf("--- end trace ---\n")
				}
				if serRingFill > 0 {
					fmt.Printf("\n--- recent serial (last %d bytes) ---\n", serRingFill)
					startIdx := (serRingIdx - serRingFill + serialWindow) % serialWindow
					for j := 0; j < serRingFill; j++ {
						fmt.Printf("%c", serRing[(startIdx+j)%serialWindow])
					}
					fmt.Printf("\n--- end serial ---\n")
				}
				done(i)
				os.Exit(1)
			}
		} else if *until != "" {
			if strings.Contains(strings.ToLower(ser.String()), strings.ToLower(*until)) {
				fmt.Printf("\nDetected '%s' in serial output.\n", *until)
				done(i)
				return
			}
		}

		if !deadline.IsZero() && time.Now().After(deadline) {
			fmt.Printf("\nTimeout after %s.\n", time.Since(start).Truncate(time.Millisecond))
			done(i)
			os.Exit(2)
		}
	}
	fmt.Printf("\nDone: cycles=%d elapsed=%s\n", *steps, time.Since(start).Truncate(time.Millisecond))
}
