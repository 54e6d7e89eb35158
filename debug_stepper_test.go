package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestStepperStepAndQuit(t *testing.T) {
	m := NewMachine(MachineConfig{Memory: []Word{0x00701, 0x00005, 0x15000}})
	var out bytes.Buffer
	s := NewStepper(strings.NewReader("rs q"), &out, false)

	// r prints registers, s lets the step through
	if err := s.Before(m); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "$zero") || !strings.Contains(out.String(), "add $t0, $zero, $imm, 5") {
		t.Fatalf("output:\n%s", out.String())
	}
	if err := m.Step(); err != nil {
		t.Fatal(err)
	}

	// space steps again
	if err := s.Before(m); err != nil {
		t.Fatal(err)
	}
	if err := s.Before(m); !errors.Is(err, ErrAborted) {
		t.Fatalf("got %v, want ErrAborted", err)
	}
}

func TestStepperContinue(t *testing.T) {
	m := NewMachine(MachineConfig{})
	var out bytes.Buffer
	s := NewStepper(strings.NewReader("c"), &out, false)
	for i := 0; i < 3; i++ {
		if err := s.Before(m); err != nil {
			t.Fatal(err)
		}
	}
	if strings.Count(out.String(), ">") != 1 {
		t.Fatalf("prompted more than once after continue:\n%s", out.String())
	}
}

func TestStepperEOFContinues(t *testing.T) {
	m := NewMachine(MachineConfig{})
	s := NewStepper(strings.NewReader(""), &bytes.Buffer{}, false)
	if err := s.Before(m); err != nil {
		t.Fatal(err)
	}
	if !s.free {
		t.Fatal("stepper still pausing after end of input")
	}
}

func TestStepperInspectionCommands(t *testing.T) {
	m := NewMachine(MachineConfig{})
	m.IO[TIMER_MAX] = 0x10
	var out bytes.Buffer
	s := NewStepper(strings.NewReader("idpx\n"), &out, false)
	if err := s.Before(m); err != nil {
		t.Fatal(err)
	}
	got := out.String()
	for _, want := range []string{"timermax", "00000010", "add $zero, $zero, $zero, 0", "MachineSnapshot", "q quit"} {
		if !strings.Contains(got, want) {
			t.Errorf("output lacks %q:\n%s", want, got)
		}
	}
}
