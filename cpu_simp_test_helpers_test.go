package main

import (
	"fmt"
	"testing"
)

// ins builds an instruction word.
func ins(op Opcode, rd, rs, rt uint8) Word {
	return Instruction{Op: op, Rd: rd, Rs: rs, Rt: rt}.Encode()
}

// imm encodes a signed immediate slot.
func imm(v int32) Word {
	return EncodeWord(v)
}

// recordingTracer keeps every event for inspection.
type recordingTracer struct {
	execPCs []int32
	io      []string
	leds    []string
	display []string
}

func (r *recordingTracer) TraceExec(pc int32, word Word, regs *[NUM_REGISTERS]int32) {
	r.execPCs = append(r.execPCs, pc)
}

func (r *recordingTracer) TraceIO(cycle int64, access IOAccess, index int, value int32) {
	r.io = append(r.io, fmt.Sprintf("%d %s %s %s", cycle, access, ioRegisterNames[index], hexReg(value)))
}

func (r *recordingTracer) TraceLEDs(cycle int64, value int32) {
	r.leds = append(r.leds, fmt.Sprintf("%d %s", cycle, hexReg(value)))
}

func (r *recordingTracer) TraceDisplay7Seg(cycle int64, value int32) {
	r.display = append(r.display, fmt.Sprintf("%d %s", cycle, hexReg(value)))
}

type simpTestRig struct {
	m   *Machine
	rec *recordingTracer
}

func newSimpTestRig(program ...Word) *simpTestRig {
	rec := &recordingTracer{}
	return &simpTestRig{
		m:   NewMachine(MachineConfig{Memory: program, Tracer: rec}),
		rec: rec,
	}
}

func newSimpTestRigWithSchedule(schedule []int64, program ...Word) *simpTestRig {
	rec := &recordingTracer{}
	return &simpTestRig{
		m:   NewMachine(MachineConfig{Memory: program, Schedule: schedule, Tracer: rec}),
		rec: rec,
	}
}

func (r *simpTestRig) step(t *testing.T) {
	t.Helper()
	if err := r.m.Step(); err != nil {
		t.Fatalf("step at PC=%03X: %v", r.m.PC, err)
	}
}

func (r *simpTestRig) stepN(t *testing.T, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		r.step(t)
	}
}

func (r *simpTestRig) run(t *testing.T) {
	t.Helper()
	if err := r.m.Run(100000); err != nil {
		t.Fatalf("run: %v", err)
	}
}

func assertReg(t *testing.T, m *Machine, idx int, want int32) {
	t.Helper()
	if got := m.Regs[idx]; got != want {
		t.Fatalf("%s: got %08X, want %08X", registerNames[idx], uint32(got), uint32(want))
	}
}

func assertIO(t *testing.T, m *Machine, idx int, want int32) {
	t.Helper()
	if got := m.IO[idx]; got != want {
		t.Fatalf("%s: got %08X, want %08X", ioRegisterNames[idx], uint32(got), uint32(want))
	}
}

func assertPC(t *testing.T, m *Machine, want int32) {
	t.Helper()
	if m.PC != want {
		t.Fatalf("PC: got %03X, want %03X", m.PC, want)
	}
}

func assertCycles(t *testing.T, m *Machine, want int64) {
	t.Helper()
	if m.Cycles != want {
		t.Fatalf("cycles: got %d, want %d", m.Cycles, want)
	}
}

// Register indices by name, for readable programs
const (
	rZero = 0
	rImm  = 1
	rV0   = 2
	rA0   = 3
	rA1   = 4
	rA2   = 5
	rT0   = 7
	rT1   = 8
	rT2   = 9
	rS0   = 10
	rRA   = 15
)
