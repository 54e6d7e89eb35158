// terminal_host.go - Raw terminal input for the single-step debugger

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
	"bytes"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// TerminalHost gives the stepper single keypresses from stdin. When stdin is
// a terminal it is switched to raw mode for the lifetime of the host.
type TerminalHost struct {
	in           *os.File
	fd           int
	reader       *bufio.Reader
	oldTermState *term.State
}

func NewTerminalHost(in *os.File) *TerminalHost {
	return &TerminalHost{
		in:     in,
		fd:     int(in.Fd()),
		reader: bufio.NewReader(in),
	}
}

// Start enters raw mode if stdin is a terminal. A pipe or file is read as is.
func (h *TerminalHost) Start() error {
	if !term.IsTerminal(h.fd) {
		return nil
	}
	oldState, err := term.MakeRaw(h.fd)
	if err != nil {
		return fmt.Errorf("terminal_host: failed to set raw mode: %w", err)
	}
	h.oldTermState = oldState
	return nil
}

// Stop restores the terminal state saved by Start.
func (h *TerminalHost) Stop() {
	if h.oldTermState != nil {
		_ = term.Restore(h.fd, h.oldTermState)
		h.oldTermState = nil
	}
}

func (h *TerminalHost) Raw() bool {
	return h.oldTermState != nil
}

// ReadByte returns the next key. Raw mode sends CR for Enter; it is
// translated to LF.
func (h *TerminalHost) ReadByte() (byte, error) {
	b, err := h.reader.ReadByte()
	if err != nil {
		return 0, err
	}
	if b == '\r' {
		b = '\n'
	}
	// Ctrl-C arrives as a byte in raw mode
	if b == 0x03 {
		b = 'q'
	}
	return b, nil
}

// Output wraps w so that line ends render correctly while in raw mode.
func (h *TerminalHost) Output(w io.Writer) io.Writer {
	if !h.Raw() {
		return w
	}
	return crlfWriter{w}
}

type crlfWriter struct {
	w io.Writer
}

func (c crlfWriter) Write(p []byte) (int, error) {
	if _, err := c.w.Write(bytes.ReplaceAll(p, []byte("\n"), []byte("\r\n"))); err != nil {
		return 0, err
	}
	return len(p), nil
}
