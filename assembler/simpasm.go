package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode"
)

const (
	MEMORY_DEPTH = 4096
	WORD_MASK    = 0xFFFFF
)

var opcodes = map[string]uint32{
	"add": 0x00, "sub": 0x01, "mul": 0x02, "and": 0x03, "or": 0x04,
	"xor": 0x05, "sll": 0x06, "sra": 0x07, "srl": 0x08,
	"beq": 0x09, "bne": 0x0A, "blt": 0x0B, "bgt": 0x0C, "ble": 0x0D, "bge": 0x0E,
	"jal": 0x0F, "lw": 0x10, "sw": 0x11, "reti": 0x12, "in": 0x13, "out": 0x14,
	"halt": 0x15,
}

var registers = map[string]uint32{
	"$zero": 0, "$imm": 1, "$v0": 2, "$a0": 3, "$a1": 4, "$a2": 5, "$a3": 6, "$t0": 7,
	"$t1": 8, "$t2": 9, "$s0": 10, "$s1": 11, "$s2": 12, "$gp": 13, "$sp": 14, "$ra": 15,
}

const REG_IMM = 1

// AsmError is a source error tied to a line.
type AsmError struct {
	Line int
	Msg  string
}

func (e *AsmError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
}

type sourceLine struct {
	num  int
	text string
}

type instruction struct {
	line       int
	op         uint32
	rd, rs, rt uint32
	imm        string
}

func (in instruction) usesImmediate() bool {
	return in.rd == REG_IMM || in.rs == REG_IMM || in.rt == REG_IMM
}

func (in instruction) size() int {
	if in.usesImmediate() {
		return 2
	}
	return 1
}

type Assembler struct {
	labels   map[string]int
	memory   [MEMORY_DEPTH]uint32
	lastUsed int
}

func NewAssembler() *Assembler {
	return &Assembler{
		labels:   make(map[string]int),
		lastUsed: -1,
	}
}

// stripComment drops everything from the first '#'.
func stripComment(s string) string {
	if i := strings.IndexByte(s, '#'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

// splitLabel separates a leading "name:" from the rest of the line.
func splitLabel(s string) (label, rest string) {
	i := strings.IndexByte(s, ':')
	if i <= 0 {
		return "", s
	}
	name := strings.TrimSpace(s[:i])
	if !isIdentifier(name) {
		return "", s
	}
	return name, strings.TrimSpace(s[i+1:])
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if r == '_' || unicode.IsLetter(r) || (i > 0 && unicode.IsDigit(r)) {
			continue
		}
		return false
	}
	return true
}

func parseInstruction(num int, s string) (instruction, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})
	op, ok := opcodes[strings.ToLower(fields[0])]
	if !ok {
		return instruction{}, &AsmError{num, fmt.Sprintf("unknown opcode %q", fields[0])}
	}
	if len(fields) != 4 && len(fields) != 5 {
		return instruction{}, &AsmError{num, fmt.Sprintf("expected op rd, rs, rt, imm: %q", s)}
	}
	in := instruction{line: num, op: op}
	regs := []*uint32{&in.rd, &in.rs, &in.rt}
	for i, name := range fields[1:4] {
		r, ok := registers[strings.ToLower(name)]
		if !ok {
			return instruction{}, &AsmError{num, fmt.Sprintf("unknown register %q", name)}
		}
		*regs[i] = r
	}
	if len(fields) == 5 {
		in.imm = fields[4]
	}
	if in.usesImmediate() && in.imm == "" {
		return instruction{}, &AsmError{num, "instruction uses $imm but has no immediate"}
	}
	return in, nil
}

func (a *Assembler) resolve(num int, s string) (uint32, error) {
	if isIdentifier(s) {
		addr, ok := a.labels[s]
		if !ok {
			return 0, &AsmError{num, fmt.Sprintf("undefined label %q", s)}
		}
		return uint32(addr), nil
	}
	v, err := strconv.ParseInt(s, 0, 64)
	if err != nil {
		return 0, &AsmError{num, fmt.Sprintf("invalid number %q", s)}
	}
	return uint32(v) & WORD_MASK, nil
}

func (a *Assembler) store(num int, addr int, w uint32) error {
	if addr < 0 || addr >= MEMORY_DEPTH {
		return &AsmError{num, fmt.Sprintf("address %d outside memory", addr)}
	}
	a.memory[addr] = w & WORD_MASK
	if addr > a.lastUsed {
		a.lastUsed = addr
	}
	return nil
}

func (a *Assembler) assemble(src io.Reader) error {
	var lines []sourceLine
	sc := bufio.NewScanner(src)
	for n := 1; sc.Scan(); n++ {
		if s := stripComment(sc.Text()); s != "" {
			lines = append(lines, sourceLine{n, s})
		}
	}
	if err := sc.Err(); err != nil {
		return err
	}

	// First pass: label addresses
	var program []instruction
	var words [][2]string
	var wordLines []int
	addr := 0
	for _, l := range lines {
		label, rest := splitLabel(l.text)
		if label != "" {
			if _, dup := a.labels[label]; dup {
				return &AsmError{l.num, fmt.Sprintf("duplicate label %q", label)}
			}
			a.labels[label] = addr
		}
		if rest == "" {
			continue
		}
		if strings.HasPrefix(rest, ".") {
			parts := strings.Fields(rest)
			if strings.ToLower(parts[0]) != ".word" || len(parts) != 3 {
				return &AsmError{l.num, fmt.Sprintf("expected .word address value: %q", rest)}
			}
			words = append(words, [2]string{parts[1], parts[2]})
			wordLines = append(wordLines, l.num)
			continue
		}
		in, err := parseInstruction(l.num, rest)
		if err != nil {
			return err
		}
		program = append(program, in)
		addr += in.size()
	}

	// Second pass: encode
	addr = 0
	for _, in := range program {
		w := in.op<<12 | in.rd<<8 | in.rs<<4 | in.rt
		if err := a.store(in.line, addr, w); err != nil {
			return err
		}
		addr++
		if in.usesImmediate() {
			imm, err := a.resolve(in.line, in.imm)
			if err != nil {
				return err
			}
			if err := a.store(in.line, addr, imm); err != nil {
				return err
			}
			addr++
		}
	}
	for i, w := range words {
		target, err := a.resolve(wordLines[i], w[0])
		if err != nil {
			return err
		}
		value, err := a.resolve(wordLines[i], w[1])
		if err != nil {
			return err
		}
		if err := a.store(wordLines[i], int(target), value); err != nil {
			return err
		}
	}
	return nil
}

// writeImage emits the memory image up to the last used address.
func (a *Assembler) writeImage(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for i := 0; i <= a.lastUsed; i++ {
		fmt.Fprintf(bw, "%05X\n", a.memory[i])
	}
	return bw.Flush()
}

func main() {
	if len(os.Args) != 3 {
		fmt.Println("Usage: simpasm <program.asm> <memin.txt>")
		os.Exit(1)
	}

	src, err := os.Open(os.Args[1])
	if err != nil {
		fmt.Printf("Error reading input file: %v\n", err)
		os.Exit(1)
	}
	defer src.Close()

	asm := NewAssembler()
	if err := asm.assemble(src); err != nil {
		fmt.Printf("%s: %v\n", os.Args[1], err)
		os.Exit(1)
	}

	out, err := os.Create(os.Args[2])
	if err != nil {
		fmt.Printf("Error writing output file: %v\n", err)
		os.Exit(1)
	}
	if err := asm.writeImage(out); err != nil {
		out.Close()
		fmt.Printf("Error writing output file: %v\n", err)
		os.Exit(1)
	}
	if err := out.Close(); err != nil {
		fmt.Printf("Error writing output file: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Successfully assembled to %s (%d words)\n", os.Args[2], asm.lastUsed+1)
}
