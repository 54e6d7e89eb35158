package main

const (
	// Machine geometry
	NUM_REGISTERS     = 16
	NUM_IO_REGISTERS  = 23
	MAIN_MEMORY_DEPTH = 4096
	DISK_SECTORS      = 128
	SECTOR_WORDS      = 128
	DISK_DEPTH        = DISK_SECTORS * SECTOR_WORDS
	MONITOR_DIM       = 256
	MONITOR_PIXELS    = MONITOR_DIM * MONITOR_DIM

	// Word format
	WORD_BITS       = 20
	WORD_MASK       = 0xFFFFF
	WORD_HEX_DIGITS = 5
	PIXEL_MASK      = 0xFF

	// Disk transfer latency in clock cycles
	DISK_LATENCY = 1024
)

// Opcode is the closed set of instructions. Values above HALT never leave
// Decode; they are reported as a DecodeError instead.
type Opcode uint8

const (
	ADD Opcode = iota
	SUB
	MUL
	AND
	OR
	XOR
	SLL
	SRA
	SRL
	BEQ
	BNE
	BLT
	BGT
	BLE
	BGE
	JAL
	LW
	SW
	RETI
	IN
	OUT
	HALT

	NUM_OPCODES = int(HALT) + 1
)

var opcodeNames = [NUM_OPCODES]string{
	"add", "sub", "mul", "and", "or", "xor", "sll", "sra", "srl",
	"beq", "bne", "blt", "bgt", "ble", "bge", "jal",
	"lw", "sw", "reti", "in", "out", "halt",
}

func (op Opcode) String() string {
	if int(op) < NUM_OPCODES {
		return opcodeNames[op]
	}
	return "op?"
}

// Register indices with a fixed role
const (
	REG_ZERO = 0
	REG_IMM  = 1
)

var registerNames = [NUM_REGISTERS]string{
	"$zero", "$imm", "$v0", "$a0", "$a1", "$a2", "$a3", "$t0",
	"$t1", "$t2", "$s0", "$s1", "$s2", "$gp", "$sp", "$ra",
}

// I/O registers
const (
	IRQ0_ENABLE   = 0
	IRQ1_ENABLE   = 1
	IRQ2_ENABLE   = 2
	IRQ0_STATUS   = 3
	IRQ1_STATUS   = 4
	IRQ2_STATUS   = 5
	IRQ_HANDLER   = 6
	IRQ_RETURN    = 7
	CLKS          = 8
	LEDS          = 9
	DISPLAY7SEG   = 10
	TIMER_ENABLE  = 11
	TIMER_CURRENT = 12
	TIMER_MAX     = 13
	DISK_CMD      = 14
	DISK_SECTOR   = 15
	DISK_BUFFER   = 16
	DISK_STATUS   = 17
	RESERVED0     = 18
	RESERVED1     = 19
	MONITOR_ADDR  = 20
	MONITOR_DATA  = 21
	MONITOR_CMD   = 22
)

var ioRegisterNames = [NUM_IO_REGISTERS]string{
	"irq0enable", "irq1enable", "irq2enable",
	"irq0status", "irq1status", "irq2status",
	"irqhandler", "irqreturn", "clks", "leds", "display7seg",
	"timerenable", "timercurrent", "timermax",
	"diskcmd", "disksector", "diskbuffer", "diskstatus",
	"reserved", "reserved",
	"monitoraddr", "monitordata", "monitorcmd",
}

// diskcmd values
const (
	DISK_CMD_NONE  = 0
	DISK_CMD_READ  = 1
	DISK_CMD_WRITE = 2
)

// diskstatus values
const (
	DISK_FREE = 0
	DISK_BUSY = 1
)

const MONITOR_CMD_WRITE = 1

// IOAccess tags an I/O trace line.
type IOAccess uint8

const (
	IO_READ IOAccess = iota
	IO_WRITE
)

func (a IOAccess) String() string {
	if a == IO_WRITE {
		return "WRITE"
	}
	return "READ"
}

// ioRegisterIndex resolves a symbolic I/O register name. Both reserved slots
// share a name, so "reserved" resolves to the first of them.
func ioRegisterIndex(name string) (int, bool) {
	for i, n := range ioRegisterNames {
		if n == name {
			return i, true
		}
	}
	return 0, false
}
