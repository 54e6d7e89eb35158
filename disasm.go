package main

import "fmt"

// Disassemble renders word in assembler syntax. imm is the following memory
// word and is only shown when the instruction uses $imm.
func Disassemble(word, imm Word) string {
	in, err := Decode(word)
	if err != nil {
		return fmt.Sprintf(".word 0x%s", word&WORD_MASK)
	}
	var value int32
	if in.UsesImmediate() {
		value = DecodeSigned20(imm)
	}
	return fmt.Sprintf("%s %s, %s, %s, %d",
		in.Op, registerNames[in.Rd], registerNames[in.Rs], registerNames[in.Rt], value)
}
