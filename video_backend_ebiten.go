//go:build !headless

// video_backend_ebiten.go - Ebiten monitor viewer for the SIMP simulator

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
	"image/color"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.design/x/clipboard"
	"golang.org/x/image/font/basicfont"
)

const statusBarHeight = 30

type EbitenOutput struct {
	running     bool
	window      *ebiten.Image
	fullscreen  bool
	scale       int
	frameBuffer []byte
	bufferMutex sync.RWMutex
	status      MonitorStatus
	report      string
	ready       chan struct{}
	readyOnce   sync.Once
	done        chan struct{}

	clipboardOnce sync.Once
	clipboardOK   bool
	showStatusBar bool
}

// NewMonitorViewer opens the live framebuffer window at the given zoom.
func NewMonitorViewer(scale int) (MonitorOutput, error) {
	if scale < 1 {
		return nil, &VideoError{Operation: "init", Details: fmt.Sprintf("invalid scale %d", scale)}
	}
	return &EbitenOutput{
		scale:         scale,
		frameBuffer:   make([]byte, MONITOR_PIXELS*4),
		ready:         make(chan struct{}),
		done:          make(chan struct{}),
		showStatusBar: true,
	}, nil
}

func (eo *EbitenOutput) Start() error {
	if eo.running {
		return nil
	}
	eo.running = true
	ebiten.SetWindowSize(MONITOR_DIM*eo.scale, MONITOR_DIM*eo.scale)
	ebiten.SetWindowTitle("SIMP monitor")
	ebiten.SetWindowResizable(true)
	ebiten.SetRunnableOnUnfocused(true)
	ebiten.SetVsyncEnabled(true)

	go func() {
		defer func() {
			eo.running = false
			close(eo.done)
		}()
		if err := ebiten.RunGame(eo); err != nil {
			fmt.Printf("Ebiten error: %v\n", err)
		}
	}()

	// Wait for first Draw call to ensure Ebiten is ready
	select {
	case <-eo.ready:
	case <-eo.done:
		return &VideoError{Operation: "start", Details: "window closed before first frame"}
	}
	return nil
}

func (eo *EbitenOutput) Refresh(m *Machine) {
	eo.bufferMutex.Lock()
	monitorRGBA(eo.frameBuffer, &m.Monitor)
	eo.status = monitorStatusOf(m)
	eo.report = registerReport(m)
	eo.bufferMutex.Unlock()
}

func (eo *EbitenOutput) Wait() {
	<-eo.done
}

func (eo *EbitenOutput) Close() error {
	eo.running = false
	return nil
}

func (eo *EbitenOutput) Update() error {
	if ebiten.IsWindowBeingClosed() || !eo.running {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF9) {
		eo.copyReport()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		eo.fullscreen = !eo.fullscreen
		ebiten.SetFullscreen(eo.fullscreen)
		if !eo.fullscreen {
			ebiten.SetWindowSize(MONITOR_DIM*eo.scale, MONITOR_DIM*eo.scale)
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF12) {
		eo.bufferMutex.Lock()
		eo.showStatusBar = !eo.showStatusBar
		eo.bufferMutex.Unlock()
	}
	return nil
}

func (eo *EbitenOutput) copyReport() {
	eo.clipboardOnce.Do(func() {
		eo.clipboardOK = clipboard.Init() == nil
	})
	if !eo.clipboardOK {
		return
	}
	eo.bufferMutex.RLock()
	report := eo.report
	eo.bufferMutex.RUnlock()
	clipboard.Write(clipboard.FmtText, []byte(report))
}

func (eo *EbitenOutput) Draw(screen *ebiten.Image) {
	if eo.window == nil {
		eo.window = ebiten.NewImage(MONITOR_DIM, MONITOR_DIM)
	}

	eo.bufferMutex.RLock()
	eo.window.WritePixels(eo.frameBuffer)
	showStatusBar := eo.showStatusBar
	status := eo.status
	eo.bufferMutex.RUnlock()
	screen.DrawImage(eo.window, nil)
	if showStatusBar {
		drawMonitorStatusBar(screen, status)
	}

	eo.readyOnce.Do(func() { close(eo.ready) })
}

func (eo *EbitenOutput) Layout(_, _ int) (int, int) {
	return MONITOR_DIM, MONITOR_DIM
}

func drawMonitorStatusBar(screen *ebiten.Image, s MonitorStatus) {
	face := basicfont.Face7x13
	y := MONITOR_DIM - statusBarHeight
	ebitenutil.DrawRect(screen, 0, float64(y), MONITOR_DIM, statusBarHeight, color.RGBA{0, 0, 0, 180})

	labelColor := color.RGBA{190, 190, 190, 255}
	onColor := color.RGBA{0, 220, 90, 255}

	state := "RUN"
	if s.Halted {
		state = "HALT"
	}
	text.Draw(screen, fmt.Sprintf("%-4s PC %03X  CYC %d", state, uint32(s.PC)&0xFFF, s.Cycles), face, 4, y+12, labelColor)

	line := fmt.Sprintf("LED %08X  7SEG %08X", uint32(s.LEDs), uint32(s.Display7Seg))
	text.Draw(screen, line, face, 4, y+26, labelColor)
	if s.DiskBusy {
		text.Draw(screen, "DISK", face, MONITOR_DIM-34, y+26, onColor)
	}
}
