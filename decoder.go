// decoder.go - SIMP instruction word decoder

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

// Instruction is a decoded instruction word. Register fields are already
// reduced modulo NUM_REGISTERS.
type Instruction struct {
	Op Opcode
	Rd uint8
	Rs uint8
	Rt uint8
}

// Decode splits a word into opcode and register fields. The word layout is
// OO D S T in hex digits.
func Decode(w Word) (Instruction, error) {
	w &= WORD_MASK
	op := uint32(w) >> 12
	if op >= uint32(NUM_OPCODES) {
		return Instruction{}, &DecodeError{Word: w, Opcode: op}
	}
	return Instruction{
		Op: Opcode(op),
		Rd: uint8(w>>8) % NUM_REGISTERS,
		Rs: uint8(w>>4) % NUM_REGISTERS,
		Rt: uint8(w) % NUM_REGISTERS,
	}, nil
}

// UsesImmediate reports whether any operand names $imm, which makes the
// instruction two words long.
func (in Instruction) UsesImmediate() bool {
	return in.Rd == REG_IMM || in.Rs == REG_IMM || in.Rt == REG_IMM
}

// Encode is the inverse of Decode.
func (in Instruction) Encode() Word {
	return Word(uint32(in.Op)<<12|uint32(in.Rd&0xF)<<8|uint32(in.Rs&0xF)<<4|uint32(in.Rt&0xF)) & WORD_MASK
}
