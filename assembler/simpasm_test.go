package main

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"
)

func assembleString(t *testing.T, src string) string {
	t.Helper()
	asm := NewAssembler()
	if err := asm.assemble(strings.NewReader(src)); err != nil {
		t.Fatalf("assemble: %v", err)
	}
	var buf bytes.Buffer
	if err := asm.writeImage(&buf); err != nil {
		t.Fatal(err)
	}
	return buf.String()
}

func TestAssembleRegisterAndImmediateForms(t *testing.T) {
	src := `
	add $v0, $a0, $zero, 0     # register form, one word
	add $t0, $zero, $imm, -3   # immediate form, two words
	out $t0, $zero, $imm, 0x9
	halt $zero, $zero, $zero, 0
`
	want := "00230\n00701\nFFFFD\n14701\n00009\n15000\n"
	if got := assembleString(t, src); got != want {
		t.Fatalf("got\n%s\nwant\n%s", got, want)
	}
}

func TestAssembleLabels(t *testing.T) {
	src := `
	add $t0, $zero, $imm, 3
loop:
	sub $t0, $t0, $imm, 1
	bne $imm, $t0, $zero, loop
	jal $ra, $imm, $zero, done
done: halt $zero, $zero, $zero, 0
`
	want := strings.Join([]string{
		"00701", "00003", // 0
		"01771", "00001", // 2 loop
		"0A170", "00002", // 4
		"0FF10", "00008", // 6
		"15000", // 8 done
	}, "\n") + "\n"
	if got := assembleString(t, src); got != want {
		t.Fatalf("got\n%s\nwant\n%s", got, want)
	}
}

func TestAssembleWordDirective(t *testing.T) {
	src := `
	halt $zero, $zero, $zero, 0
	.word 4 -1
	.word 0x2 10
`
	want := "15000\n00000\n0000A\n00000\nFFFFF\n"
	if got := assembleString(t, src); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestAssembleAllOpcodes(t *testing.T) {
	for name, op := range opcodes {
		got := assembleString(t, name+" $t0, $a0, $a1, 0")
		want := fmt.Sprintf("%02X734\n", op)
		if got != want {
			t.Errorf("%s: got %q, want %q", name, got, want)
		}
	}
}

func TestAssembleErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		line int
	}{
		{"unknown opcode", "add $t0, $t0, $t0, 0\nfoo $t0, $t0, $t0, 0", 2},
		{"unknown register", "add $t9, $t0, $t0, 0", 1},
		{"missing immediate", "\n\nadd $t0, $imm, $t0", 3},
		{"undefined label", "beq $imm, $zero, $zero, nowhere", 1},
		{"duplicate label", "a:\na:", 2},
		{"bad word", ".word 1", 1},
		{"bad number", "add $t0, $zero, $imm, 12q", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewAssembler().assemble(strings.NewReader(tt.src))
			var ae *AsmError
			if !errors.As(err, &ae) {
				t.Fatalf("got %v, want AsmError", err)
			}
			if ae.Line != tt.line {
				t.Fatalf("line: got %d, want %d (%v)", ae.Line, tt.line, err)
			}
		})
	}
}
