package main

import (
	"bytes"
	"errors"
	"testing"
)

func TestAddRegisterForm(t *testing.T) {
	// 00230: add $v0, $a0, $zero
	r := newSimpTestRig(0x00230)
	r.m.Regs[rA0] = 5
	r.step(t)
	assertReg(t, r.m, rV0, 5)
	assertCycles(t, r.m, 1)
	assertPC(t, r.m, 1)
}

func TestImmediateLoadBeforeExecute(t *testing.T) {
	r := newSimpTestRig(ins(ADD, rT0, rZero, rImm), imm(-3))
	r.step(t)
	assertReg(t, r.m, rT0, -3)
	assertReg(t, r.m, rImm, -3)
	assertPC(t, r.m, 2)
	assertCycles(t, r.m, 2)
}

func TestZeroRegisterNeverWritten(t *testing.T) {
	r := newSimpTestRig(
		ins(ADD, rZero, rImm, rZero), imm(7),
		ins(LW, rZero, rZero, rImm), imm(0),
		ins(IN, rZero, rZero, rImm), imm(CLKS),
	)
	r.stepN(t, 3)
	assertReg(t, r.m, rZero, 0)
}

func TestImmediateRegisterWriteRule(t *testing.T) {
	tests := []struct {
		name string
		op   Opcode
		want int32
	}{
		{"add writes $imm", ADD, 3 + 4},
		{"sub keeps immediate", SUB, 9},
		{"mul keeps immediate", MUL, 9},
		{"xor keeps immediate", XOR, 9},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newSimpTestRig(ins(tt.op, rImm, rA0, rA1), imm(9))
			r.m.Regs[rA0] = 3
			r.m.Regs[rA1] = 4
			r.step(t)
			assertReg(t, r.m, rImm, tt.want)
		})
	}
}

func TestArithmetic(t *testing.T) {
	tests := []struct {
		name   string
		op     Opcode
		rs, rt int32
		want   int32
	}{
		{"add", ADD, 7, -9, -2},
		{"sub", SUB, 7, 9, -2},
		{"mul", MUL, -6, 7, -42},
		{"and", AND, 0x0F0F, 0x00FF, 0x000F},
		{"or", OR, 0x0F00, 0x00F0, 0x0FF0},
		{"xor", XOR, 0x0FF0, 0x00FF, 0x0F0F},
		{"sll", SLL, 1, 4, 16},
		{"sll uses low five bits", SLL, 1, 33, 2},
		{"sra keeps sign", SRA, -16, 2, -4},
		{"srl shifts in zeros", SRL, -16, 2, 0x3FFFFFFC},
		{"add wraps", ADD, 0x7FFFFFFF, 1, -0x80000000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newSimpTestRig(ins(tt.op, rV0, rA0, rA1))
			r.m.Regs[rA0] = tt.rs
			r.m.Regs[rA1] = tt.rt
			r.step(t)
			assertReg(t, r.m, rV0, tt.want)
		})
	}
}

func TestBranches(t *testing.T) {
	tests := []struct {
		op     Opcode
		rs, rt int32
		taken  bool
	}{
		{BEQ, 3, 3, true},
		{BEQ, 3, 4, false},
		{BNE, 3, 4, true},
		{BNE, 3, 3, false},
		{BLT, -1, 0, true},
		{BLT, 0, 0, false},
		{BGT, 1, 0, true},
		{BGT, 0, 1, false},
		{BLE, 0, 0, true},
		{BLE, 1, 0, false},
		{BGE, 0, 0, true},
		{BGE, -1, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.op.String(), func(t *testing.T) {
			r := newSimpTestRig(ins(tt.op, rImm, rA0, rA1), imm(0x123))
			r.m.Regs[rA0] = tt.rs
			r.m.Regs[rA1] = tt.rt
			r.step(t)
			want := int32(2)
			if tt.taken {
				want = 0x123
			}
			assertPC(t, r.m, want)
			assertCycles(t, r.m, 2)
		})
	}
}

func TestJumpAndLink(t *testing.T) {
	r := newSimpTestRig(ins(JAL, rRA, rImm, rZero), imm(0x40))
	r.step(t)
	assertReg(t, r.m, rRA, 2)
	assertPC(t, r.m, 0x40)
}

func TestLoadIsUnsigned(t *testing.T) {
	r := newSimpTestRig(ins(LW, rT0, rZero, rImm), imm(10))
	r.m.Memory[10] = 0xFFFFF
	r.step(t)
	assertReg(t, r.m, rT0, 0x000FFFFF)
	// two words plus the memory access
	assertCycles(t, r.m, 3)
}

func TestStoreMasksAndWraps(t *testing.T) {
	r := newSimpTestRig(ins(SW, rT0, rA0, rA1))
	r.m.Regs[rT0] = 0x12345678
	r.m.Regs[rA0] = 4095
	r.m.Regs[rA1] = 3
	r.step(t)
	if got := r.m.Memory[2]; got != 0x45678 {
		t.Fatalf("memory[2]: got %s, want 45678", got)
	}
	assertCycles(t, r.m, 2)
}

func TestNegativeWordDumpsAsFFFFF(t *testing.T) {
	r := newSimpTestRig(
		ins(ADD, rT0, rZero, rImm), imm(-1),
		ins(SW, rT0, rZero, rImm), imm(10),
		ins(HALT, 0, 0, 0),
	)
	r.run(t)

	var buf bytes.Buffer
	if err := WriteWordDump(&buf, r.m.Memory[:]); err != nil {
		t.Fatal(err)
	}
	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	if len(lines) != 11 {
		t.Fatalf("dump has %d lines, want 11", len(lines))
	}
	if got := string(lines[10]); got != "FFFFF" {
		t.Fatalf("line 11: got %q, want FFFFF", got)
	}
}

func TestInOutAndTrace(t *testing.T) {
	r := newSimpTestRig(
		ins(OUT, rT0, rZero, rImm), imm(LEDS),
		ins(OUT, rT0, rZero, rImm), imm(DISPLAY7SEG),
		ins(IN, rV0, rZero, rImm), imm(LEDS),
		ins(HALT, 0, 0, 0),
	)
	r.m.Regs[rT0] = 0xAB
	r.run(t)

	assertIO(t, r.m, LEDS, 0xAB)
	assertReg(t, r.m, rV0, 0xAB)

	wantIO := []string{
		"2 WRITE leds 000000AB",
		"4 WRITE display7seg 000000AB",
		"6 READ leds 000000AB",
	}
	if len(r.rec.io) != len(wantIO) {
		t.Fatalf("io trace: got %q, want %q", r.rec.io, wantIO)
	}
	for i := range wantIO {
		if r.rec.io[i] != wantIO[i] {
			t.Fatalf("io trace line %d: got %q, want %q", i, r.rec.io[i], wantIO[i])
		}
	}
	if len(r.rec.leds) != 1 || r.rec.leds[0] != "2 000000AB" {
		t.Fatalf("leds: got %q", r.rec.leds)
	}
	if len(r.rec.display) != 1 || r.rec.display[0] != "4 000000AB" {
		t.Fatalf("display7seg: got %q", r.rec.display)
	}
}

func TestIOIndexWraps(t *testing.T) {
	r := newSimpTestRig(ins(OUT, rT0, rA0, rA1))
	r.m.Regs[rT0] = 7
	r.m.Regs[rA0] = 20
	r.m.Regs[rA1] = 12 // 32 mod 23 = 9
	r.step(t)
	assertIO(t, r.m, LEDS, 7)
}

func TestMonitorWrite(t *testing.T) {
	r := newSimpTestRig(ins(OUT, rT0, rZero, rT1))
	r.m.Regs[rT0] = MONITOR_CMD_WRITE
	r.m.Regs[rT1] = MONITOR_CMD
	r.m.IO[MONITOR_ADDR] = 0x1234
	r.m.IO[MONITOR_DATA] = 0x1AB
	r.step(t)
	if got := r.m.Monitor[0x1234]; got != 0xAB {
		t.Fatalf("pixel: got %s, want AB", got)
	}
	assertIO(t, r.m, MONITOR_CMD, 0)
}

func TestMonitorCommandOtherValuesIgnored(t *testing.T) {
	r := newSimpTestRig(ins(OUT, rT0, rZero, rT1))
	r.m.Regs[rT0] = 2
	r.m.Regs[rT1] = MONITOR_CMD
	r.m.IO[MONITOR_DATA] = 0x55
	r.step(t)
	if MonitorExtent(r.m.Monitor[:]) != 0 {
		t.Fatal("pixel written for monitorcmd != 1")
	}
	assertIO(t, r.m, MONITOR_CMD, 0)
}

func TestRetiLeavesISR(t *testing.T) {
	r := newSimpTestRig(ins(RETI, 0, 0, 0))
	r.m.IO[IRQ_RETURN] = 0x20
	r.m.IO[IRQ0_STATUS] = 1
	r.m.InISR = true
	r.step(t)
	assertPC(t, r.m, 0x20)
	if r.m.InISR {
		t.Fatal("still in ISR after reti")
	}
	// reti does not touch status bits
	assertIO(t, r.m, IRQ0_STATUS, 1)
}

func TestHaltStopsRun(t *testing.T) {
	r := newSimpTestRig(ins(HALT, 0, 0, 0))
	r.run(t)
	if !r.m.Halted {
		t.Fatal("not halted")
	}
	assertPC(t, r.m, 1)
	assertCycles(t, r.m, 1)
	if err := r.m.Step(); err != nil {
		t.Fatalf("step after halt: %v", err)
	}
	assertCycles(t, r.m, 1)
}

func TestClksTracksCycles(t *testing.T) {
	r := newSimpTestRig(ins(ADD, rZero, rZero, rImm), imm(0), ins(LW, rT0, rZero, rZero))
	r.stepN(t, 2)
	assertIO(t, r.m, CLKS, 4)
}

func TestDecodeErrorCarriesPC(t *testing.T) {
	r := newSimpTestRig(0x00000, 0x16000)
	r.step(t)
	err := r.m.Step()
	var de *DecodeError
	if !errors.As(err, &de) {
		t.Fatalf("got %v, want DecodeError", err)
	}
	if de.PC != 1 || de.Opcode != 0x16 {
		t.Fatalf("got PC=%d opcode=%02X", de.PC, de.Opcode)
	}
}

func TestPCOutOfRange(t *testing.T) {
	r := newSimpTestRig()
	r.m.PC = MAIN_MEMORY_DEPTH
	var pe *PCRangeError
	if err := r.m.Step(); !errors.As(err, &pe) {
		t.Fatalf("got %v, want PCRangeError", err)
	}

	// Immediate slot past the end of memory
	r = newSimpTestRig()
	r.m.Memory[MAIN_MEMORY_DEPTH-1] = ins(ADD, rT0, rZero, rImm)
	r.m.PC = MAIN_MEMORY_DEPTH - 1
	if err := r.m.Step(); !errors.As(err, &pe) {
		t.Fatalf("got %v, want PCRangeError", err)
	}
	if pe.PC != MAIN_MEMORY_DEPTH {
		t.Fatalf("PC: got %d, want %d", pe.PC, MAIN_MEMORY_DEPTH)
	}
}

func TestRunStepGuard(t *testing.T) {
	r := newSimpTestRig() // all zero words: add $zero, $zero, $zero forever
	err := r.m.Run(10)
	if !errors.Is(err, ErrStepLimit) {
		t.Fatalf("got %v, want ErrStepLimit", err)
	}
	if r.m.Steps() != 10 {
		t.Fatalf("steps: got %d, want 10", r.m.Steps())
	}
}

func TestExecTraceOrder(t *testing.T) {
	r := newSimpTestRig(
		ins(ADD, rT0, rZero, rImm), imm(1),
		ins(BEQ, rImm, rZero, rZero), imm(5),
		0,
		ins(HALT, 0, 0, 0),
	)
	r.run(t)
	want := []int32{0, 2, 5}
	if len(r.rec.execPCs) != len(want) {
		t.Fatalf("exec PCs: got %v, want %v", r.rec.execPCs, want)
	}
	for i := range want {
		if r.rec.execPCs[i] != want[i] {
			t.Fatalf("exec PCs: got %v, want %v", r.rec.execPCs, want)
		}
	}
}

func TestDeterministicRerun(t *testing.T) {
	program := []Word{
		ins(ADD, rT0, rZero, rImm), imm(1),
		ins(OUT, rT0, rZero, rImm), imm(TIMER_ENABLE),
		ins(ADD, rT1, rZero, rImm), imm(5),
		ins(OUT, rT1, rZero, rImm), imm(TIMER_MAX),
		ins(ADD, rS0, rS0, rImm), imm(1),
		ins(OUT, rS0, rZero, rImm), imm(LEDS),
		ins(BLT, rImm, rS0, rT1), imm(8),
		ins(HALT, 0, 0, 0),
	}
	run := func() (string, string) {
		var exec, hw bytes.Buffer
		tr := NewTextTracer(&exec, &hw, nil, nil)
		m := NewMachine(MachineConfig{Memory: program, Tracer: tr})
		if err := m.Run(10000); err != nil {
			t.Fatal(err)
		}
		if err := tr.Flush(); err != nil {
			t.Fatal(err)
		}
		return exec.String(), hw.String()
	}
	e1, h1 := run()
	e2, h2 := run()
	if e1 != e2 || h1 != h2 {
		t.Fatal("reruns produced different traces")
	}
	if e1 == "" || h1 == "" {
		t.Fatal("empty trace")
	}
}
