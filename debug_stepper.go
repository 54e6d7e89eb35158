package main

import (
	"fmt"
	"io"

	"github.com/k0kubun/pp/v3"
)

const stepperHelp = "s/space step  c continue  r regs  i io  d disasm  p snapshot  q quit\n"

// Stepper pauses the run loop before every instruction and waits for a key.
type Stepper struct {
	keys    io.ByteReader
	out     io.Writer
	printer *pp.PrettyPrinter
	free    bool
}

// NewStepper reads keys from keys and prints to out. Colour output is only
// used when colour is true.
func NewStepper(keys io.ByteReader, out io.Writer, colour bool) *Stepper {
	printer := pp.New()
	printer.SetOutput(out)
	printer.SetColoringEnabled(colour)
	return &Stepper{keys: keys, out: out, printer: printer}
}

// Before runs the prompt for the instruction at m.PC. It returns nil to let
// the step proceed and ErrAborted on quit. End of input switches to continue.
func (s *Stepper) Before(m *Machine) error {
	if s.free || m.Halted {
		return nil
	}
	for {
		fmt.Fprintf(s.out, "%03X %s  cyc=%d> ", uint32(m.PC)&0xFFF, s.nextInstruction(m), m.Cycles)
		key, err := s.keys.ReadByte()
		if err == io.EOF {
			fmt.Fprintln(s.out)
			s.free = true
			return nil
		}
		if err != nil {
			return fmt.Errorf("stepper: %w", err)
		}
		fmt.Fprintln(s.out)

		switch key {
		case 's', ' ', '\n':
			return nil
		case 'c':
			s.free = true
			return nil
		case 'r':
			s.printRegisters(m)
		case 'i':
			s.printIORegisters(m)
		case 'd':
			fmt.Fprintf(s.out, "%s\n", s.nextInstruction(m))
		case 'p':
			s.printer.Println(m.Snapshot())
		case 'q':
			return ErrAborted
		default:
			io.WriteString(s.out, stepperHelp)
		}
	}
}

func (s *Stepper) nextInstruction(m *Machine) string {
	if m.PC < 0 || m.PC >= MAIN_MEMORY_DEPTH {
		return "<pc out of range>"
	}
	return Disassemble(m.Memory[m.PC], m.Memory[(m.PC+1)%MAIN_MEMORY_DEPTH])
}

func (s *Stepper) printRegisters(m *Machine) {
	for i, r := range m.Regs {
		fmt.Fprintf(s.out, "%-5s %s", registerNames[i], hexReg(r))
		if i%4 == 3 {
			fmt.Fprintln(s.out)
		} else {
			io.WriteString(s.out, "  ")
		}
	}
}

func (s *Stepper) printIORegisters(m *Machine) {
	for i, r := range m.IO {
		fmt.Fprintf(s.out, "%2d %-12s %s\n", i, ioRegisterNames[i], hexReg(r))
	}
}
