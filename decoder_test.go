package main

import (
	"errors"
	"testing"
)

func TestDecodeFields(t *testing.T) {
	in, err := Decode(0x00230)
	if err != nil {
		t.Fatal(err)
	}
	if in.Op != ADD || in.Rd != rV0 || in.Rs != rA0 || in.Rt != rZero {
		t.Fatalf("got %+v", in)
	}
	if in.UsesImmediate() {
		t.Fatal("register form reported as immediate")
	}

	in, err = Decode(0x15000)
	if err != nil || in.Op != HALT {
		t.Fatalf("got %+v, %v", in, err)
	}
}

func TestDecodeImmediateDetection(t *testing.T) {
	for _, w := range []Word{0x00100, 0x00010, 0x00001} {
		in, err := Decode(w)
		if err != nil {
			t.Fatal(err)
		}
		if !in.UsesImmediate() {
			t.Errorf("%s: immediate not detected", w)
		}
	}
}

func TestDecodeRejectsUnknownOpcodes(t *testing.T) {
	for _, w := range []Word{0x16000, 0x20000, 0xFF123} {
		_, err := Decode(w)
		var de *DecodeError
		if !errors.As(err, &de) {
			t.Fatalf("%s: got %v, want DecodeError", w, err)
		}
		if de.Word != w {
			t.Errorf("%s: error carries word %s", w, de.Word)
		}
	}
}

func TestEncodeInvertsDecode(t *testing.T) {
	for op := 0; op < NUM_OPCODES; op++ {
		w := Word(op<<12 | 0x9A7)
		in, err := Decode(w)
		if err != nil {
			t.Fatal(err)
		}
		if got := in.Encode(); got != w {
			t.Errorf("op %s: got %s, want %s", Opcode(op), got, w)
		}
	}
}

func TestOpcodeNames(t *testing.T) {
	if ADD.String() != "add" || HALT.String() != "halt" || JAL.String() != "jal" {
		t.Fatal("opcode names out of order")
	}
	if NUM_OPCODES != 22 {
		t.Fatalf("NUM_OPCODES = %d, want 22", NUM_OPCODES)
	}
}
