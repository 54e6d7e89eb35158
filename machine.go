// machine.go - SIMP machine state and construction

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
	"io"

	"github.com/sirupsen/logrus"
)

// Machine is the complete simulated computer. All state, including the
// peripheral bookkeeping, is owned by the value so independent machines can
// run side by side.
type Machine struct {
	Regs    [NUM_REGISTERS]int32
	IO      [NUM_IO_REGISTERS]int32
	Memory  [MAIN_MEMORY_DEPTH]Word
	Disk    [DISK_DEPTH]Word
	Monitor [MONITOR_PIXELS]Pixel

	PC     int32
	Cycles int64
	Halted bool
	InISR  bool

	disk  DiskController
	irq2  *IRQ2Schedule
	trace Tracer
	log   logrus.FieldLogger

	// Last executed instruction, for hooks and the stepper
	lastPC   int32
	lastWord Word
	lastCost int64
	steps    uint64
}

// MachineConfig carries the inputs a run starts from. Memory and Disk may be
// shorter than the medium; the rest is zero.
type MachineConfig struct {
	Memory   []Word
	Disk     []Word
	Schedule []int64
	Tracer   Tracer
	Log      logrus.FieldLogger
}

func NewMachine(cfg MachineConfig) *Machine {
	m := &Machine{
		irq2:  NewIRQ2Schedule(cfg.Schedule),
		trace: cfg.Tracer,
		log:   cfg.Log,
	}
	copy(m.Memory[:], cfg.Memory)
	copy(m.Disk[:], cfg.Disk)
	for i := range m.Memory {
		m.Memory[i] &= WORD_MASK
	}
	for i := range m.Disk {
		m.Disk[i] &= WORD_MASK
	}
	if m.trace == nil {
		m.trace = nopTracer{}
	}
	if m.log == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		m.log = discard
	}
	return m
}

// Run steps until halt. maxSteps of 0 means no limit; otherwise ErrStepLimit
// is returned once that many steps have executed without a halt.
func (m *Machine) Run(maxSteps uint64) error {
	for !m.Halted {
		if maxSteps > 0 && m.steps >= maxSteps {
			return ErrStepLimit
		}
		if err := m.Step(); err != nil {
			return err
		}
	}
	return nil
}

// Steps is the number of instructions executed so far.
func (m *Machine) Steps() uint64 {
	return m.steps
}

// LastInstruction returns the PC, word and cycle cost of the most recent step.
func (m *Machine) LastInstruction() (pc int32, word Word, cycles int64) {
	return m.lastPC, m.lastWord, m.lastCost
}

// DiskBusy reports the diskstatus register.
func (m *Machine) DiskBusy() bool {
	return m.IO[DISK_STATUS] == DISK_BUSY
}

// DiskElapsed is the latency accumulator of the transfer in flight.
func (m *Machine) DiskElapsed() int64 {
	return m.disk.Elapsed()
}

// PendingIRQ2 is the number of scheduled external interrupts still to come.
func (m *Machine) PendingIRQ2() int {
	return m.irq2.Pending()
}

// MemoryExtent returns the number of leading words of s up to and including
// the last nonzero one.
func MemoryExtent(s []Word) int {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i]&WORD_MASK != 0 {
			return i + 1
		}
	}
	return 0
}

// MonitorExtent is MemoryExtent for the framebuffer.
func MonitorExtent(p []Pixel) int {
	for i := len(p) - 1; i >= 0; i-- {
		if p[i] != 0 {
			return i + 1
		}
	}
	return 0
}

// MachineSnapshot is a plain copy of the programmer-visible state.
type MachineSnapshot struct {
	PC          int32
	Cycles      int64
	Steps       uint64
	Halted      bool
	InISR       bool
	Registers   map[string]string
	IORegisters map[string]string
	DiskBusy    bool
	DiskElapsed int64
	PendingIRQ2 int
}

func (m *Machine) Snapshot() MachineSnapshot {
	s := MachineSnapshot{
		PC:          m.PC,
		Cycles:      m.Cycles,
		Steps:       m.steps,
		Halted:      m.Halted,
		InISR:       m.InISR,
		Registers:   make(map[string]string, NUM_REGISTERS),
		IORegisters: make(map[string]string, NUM_IO_REGISTERS),
		DiskBusy:    m.DiskBusy(),
		DiskElapsed: m.disk.Elapsed(),
		PendingIRQ2: m.irq2.Pending(),
	}
	for i, r := range m.Regs {
		s.Registers[registerNames[i]] = hexReg(r)
	}
	for i, r := range m.IO {
		name := ioRegisterNames[i]
		if i == RESERVED1 {
			name = "reserved1"
		} else if i == RESERVED0 {
			name = "reserved0"
		}
		s.IORegisters[name] = hexReg(r)
	}
	return s
}
