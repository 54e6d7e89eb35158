// video_interface.go - Monitor output interface for the SIMP simulator

/*
 ██▓ ███▄    █ ▄▄▄█████▓ █    ██  ██▓▄▄▄█████▓ ██▓ ▒█████   ███▄    █    ▓█████  ███▄    █   ▄████  ██▓ ███▄    █ ▓█████
▓██▒ ██ ▀█   █ ▓  ██▒ ▓▒ ██  ▓██▒▓██▒▓  ██▒ ▓▒▓██▒▒██▒  ██▒ ██ ▀█   █    ▓█   ▀  ██ ▀█   █  ██▒ ▀█▒▓██▒ ██ ▀█   █ ▓█   ▀
▒██▒▓██  ▀█ ██▒▒ ▓██░ ▒░▓██  ▒██░▒██▒▒ ▓██░ ▒░▒██▒▒██░  ██▒▓██  ▀█ ██▒   ▒███   ▓██  ▀█ ██▒▒██░▄▄▄░▒██▒▓██  ▀█ ██▒▒███
░██░▓██▒  ▐▌██▒░ ▓██▓ ░ ▓▓█  ░██░░██░░ ▓██▓ ░ ░██░▒██   ██░▓██▒  ▐▌██▒   ▒▓█  ▄ ▓██▒  ▐▌██▒░▓█  ██▓░██░▓██▒  ▐▌██▒▒▓█  ▄
░██░▒██░   ▓██░  ▒██▒ ░ ▒▒█████▓ ░██░  ▒██▒ ░ ░██░░ ████▓▒░▒██░   ▓██░   ░▒████▒▒██░   ▓██░░▒▓███▀▒░██░▒██░   ▓██░░▒████▒
░▓  ░ ▒░   ▒ ▒   ▒ ░░   ░▒▓▒ ▒ ▒ ░▓    ▒ ░░   ░▓  ░ ▒░▒░▒░ ░ ▒░   ▒ ▒    ░░ ▒░ ░░ ▒░   ▒ ▒  ░▒   ▒ ░▓  ░ ▒░   ▒ ▒ ░░ ▒░ ░
 ▒ ░░ ░░   ░ ▒░    ░    ░░▒░ ░ ░  ▒ ░    ░     ▒ ░  ░ ▒ ▒░ ░ ░░   ░ ▒░    ░ ░  ░░ ░░   ░ ▒░  ░   ░  ▒ ░░ ░░   ░ ▒░ ░ ░  ░
 ▒ ░   ░   ░ ░   ░       ░░░ ░ ░  ▒ ░  ░       ▒ ░░ ░ ░ ▒     ░   ░ ░       ░      ░   ░ ░ ░ ░   ░  ▒ ░   ░   ░ ░    ░
 ░           ░             ░      ░            ░      ░ ░           ░       ░  ░         ░       ░  ░           ░    ░  ░

(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/IntuitionEngine
License: GPLv3 or later
*/

package main

import (
	"fmt"
	"image"
	"strings"
)

type VideoError struct {
	Operation string // What operation was being attempted
	Details   string // Additional error context
	Err       error  // Underlying error if any
}

func (e *VideoError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("video %s failed: %s: %v", e.Operation, e.Details, e.Err)
	}
	return fmt.Sprintf("video %s failed: %s", e.Operation, e.Details)
}

func (e *VideoError) Unwrap() error {
	return e.Err
}

// Viewer refresh cadence in machine cycles
const MONITOR_REFRESH_CYCLES = 4096

// MonitorStatus is what the viewer's status bar shows.
type MonitorStatus struct {
	PC          int32
	Cycles      int64
	LEDs        int32
	Display7Seg int32
	Halted      bool
	DiskBusy    bool
}

// MonitorOutput shows the framebuffer while the machine runs. Refresh is
// called from the run loop; the implementation copies what it needs.
type MonitorOutput interface {
	Start() error
	Refresh(m *Machine)
	// Wait blocks until the user closes the output.
	Wait()
	Close() error
}

// monitorGray converts the framebuffer into an 8-bit grayscale image.
func monitorGray(pixels *[MONITOR_PIXELS]Pixel) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, MONITOR_DIM, MONITOR_DIM))
	for i, p := range pixels {
		img.Pix[i] = uint8(p)
	}
	return img
}

// monitorRGBA expands the framebuffer into dst, which must hold
// MONITOR_PIXELS*4 bytes.
func monitorRGBA(dst []byte, pixels *[MONITOR_PIXELS]Pixel) {
	for i, p := range pixels {
		o := i * 4
		dst[o], dst[o+1], dst[o+2], dst[o+3] = uint8(p), uint8(p), uint8(p), 0xFF
	}
}

func monitorStatusOf(m *Machine) MonitorStatus {
	return MonitorStatus{
		PC:          m.PC,
		Cycles:      m.Cycles,
		LEDs:        m.IO[LEDS],
		Display7Seg: m.IO[DISPLAY7SEG],
		Halted:      m.Halted,
		DiskBusy:    m.DiskBusy(),
	}
}

// registerReport is the plain-text register listing the viewer copies to the
// clipboard.
func registerReport(m *Machine) string {
	var b strings.Builder
	fmt.Fprintf(&b, "pc %03X cycles %d\n", uint32(m.PC)&0xFFF, m.Cycles)
	for i, r := range m.Regs {
		fmt.Fprintf(&b, "%s %s\n", registerNames[i], hexReg(r))
	}
	for i, r := range m.IO {
		fmt.Fprintf(&b, "%s %s\n", ioRegisterNames[i], hexReg(r))
	}
	return b.String()
}
