// trace.go - Execution and hardware register trace writers

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
	"bufio"
	"fmt"
	"io"
)

// Tracer receives the four observation streams as the machine runs.
type Tracer interface {
	TraceExec(pc int32, word Word, regs *[NUM_REGISTERS]int32)
	TraceIO(cycle int64, access IOAccess, index int, value int32)
	TraceLEDs(cycle int64, value int32)
	TraceDisplay7Seg(cycle int64, value int32)
}

type nopTracer struct{}

func (nopTracer) TraceExec(int32, Word, *[NUM_REGISTERS]int32) {}
func (nopTracer) TraceIO(int64, IOAccess, int, int32)          {}
func (nopTracer) TraceLEDs(int64, int32)                       {}
func (nopTracer) TraceDisplay7Seg(int64, int32)                {}

// TextTracer writes the streams in their line formats. Any writer may be nil
// to drop that stream. Write errors are sticky and reported by Flush.
type TextTracer struct {
	exec    *bufio.Writer
	io      *bufio.Writer
	leds    *bufio.Writer
	display *bufio.Writer
	err     error
	line    []byte
}

func NewTextTracer(exec, hwreg, leds, display io.Writer) *TextTracer {
	wrap := func(w io.Writer) *bufio.Writer {
		if w == nil {
			return nil
		}
		return bufio.NewWriterSize(w, 64*1024)
	}
	return &TextTracer{
		exec:    wrap(exec),
		io:      wrap(hwreg),
		leds:    wrap(leds),
		display: wrap(display),
		line:    make([]byte, 0, 160),
	}
}

const hexDigits = "0123456789ABCDEF"

func appendHex(b []byte, v uint32, digits int) []byte {
	for shift := (digits - 1) * 4; shift >= 0; shift -= 4 {
		b = append(b, hexDigits[(v>>uint(shift))&0xF])
	}
	return b
}

// TraceExec is called once per step, so it formats by hand instead of going
// through fmt.
func (t *TextTracer) TraceExec(pc int32, word Word, regs *[NUM_REGISTERS]int32) {
	if t.exec == nil || t.err != nil {
		return
	}
	b := t.line[:0]
	b = appendHex(b, uint32(pc), 3)
	b = append(b, ' ')
	b = appendHex(b, uint32(word), WORD_HEX_DIGITS)
	for _, r := range regs {
		b = append(b, ' ')
		b = appendHex(b, uint32(r), 8)
	}
	b = append(b, '\n')
	t.line = b
	t.write(t.exec, b)
}

func (t *TextTracer) TraceIO(cycle int64, access IOAccess, index int, value int32) {
	if t.io == nil || t.err != nil {
		return
	}
	_, err := fmt.Fprintf(t.io, "%d %s %s %s\n", cycle, access, ioRegisterNames[index], hexReg(value))
	t.setErr(err)
}

func (t *TextTracer) TraceLEDs(cycle int64, value int32) {
	t.logValue(t.leds, cycle, value)
}

func (t *TextTracer) TraceDisplay7Seg(cycle int64, value int32) {
	t.logValue(t.display, cycle, value)
}

func (t *TextTracer) logValue(w *bufio.Writer, cycle int64, value int32) {
	if w == nil || t.err != nil {
		return
	}
	_, err := fmt.Fprintf(w, "%d %s\n", cycle, hexReg(value))
	t.setErr(err)
}

func (t *TextTracer) write(w *bufio.Writer, b []byte) {
	_, err := w.Write(b)
	t.setErr(err)
}

func (t *TextTracer) setErr(err error) {
	if err != nil && t.err == nil {
		t.err = err
	}
}

// Flush pushes buffered lines out and returns the first error seen.
func (t *TextTracer) Flush() error {
	for _, w := range []*bufio.Writer{t.exec, t.io, t.leds, t.display} {
		if w == nil {
			continue
		}
		t.setErr(w.Flush())
	}
	return t.err
}
