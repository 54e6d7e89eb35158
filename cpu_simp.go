// cpu_simp.go - SIMP CPU core: fetch, decode, execute and interrupt dispatch

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

import (
	"github.com/sirupsen/logrus"
)

// Step executes one instruction and then advances the peripherals by the
// cycles it consumed. The trace line is emitted after the immediate load and
// before the opcode's own effects.
func (m *Machine) Step() error {
	if m.Halted {
		return nil
	}
	pc := m.PC
	if pc < 0 || pc >= MAIN_MEMORY_DEPTH {
		return &PCRangeError{PC: pc, Cycle: m.Cycles}
	}
	word := m.Memory[pc]
	inst, err := Decode(word)
	if err != nil {
		if de, ok := err.(*DecodeError); ok {
			de.PC = pc
		}
		return err
	}

	immediate := inst.UsesImmediate()
	if immediate {
		if pc+1 >= MAIN_MEMORY_DEPTH {
			return &PCRangeError{PC: pc + 1, Cycle: m.Cycles}
		}
		m.Regs[REG_IMM] = DecodeSigned20(m.Memory[pc+1])
	}

	m.trace.TraceExec(pc, word, &m.Regs)
	if l, ok := m.log.(*logrus.Logger); !ok || l.IsLevelEnabled(logrus.TraceLevel) {
		m.log.WithFields(logrus.Fields{"pc": pc, "word": word.String(), "cycle": m.Cycles}).Trace(Disassemble(word, m.Memory[(pc+1)%MAIN_MEMORY_DEPTH]))
	}

	before := m.Cycles
	m.PC++
	m.Cycles++
	if immediate {
		m.PC++
		m.Cycles++
	}

	m.execute(inst)

	cost := m.Cycles - before
	m.lastPC, m.lastWord, m.lastCost = pc, word, cost
	m.steps++

	m.advancePeripherals(cost)
	m.IO[CLKS] = int32(m.Cycles)
	return nil
}

// writeReg applies the register write rule: $zero is never written and $imm
// is only written by add.
func (m *Machine) writeReg(op Opcode, rd uint8, v int32) {
	if rd == REG_ZERO {
		return
	}
	if rd == REG_IMM && op != ADD {
		return
	}
	m.Regs[rd] = v
}

func (m *Machine) execute(in Instruction) {
	r := &m.Regs
	rs, rt := r[in.Rs], r[in.Rt]

	switch in.Op {
	case ADD:
		m.writeReg(in.Op, in.Rd, rs+rt)
	case SUB:
		m.writeReg(in.Op, in.Rd, rs-rt)
	case MUL:
		m.writeReg(in.Op, in.Rd, rs*rt)
	case AND:
		m.writeReg(in.Op, in.Rd, rs&rt)
	case OR:
		m.writeReg(in.Op, in.Rd, rs|rt)
	case XOR:
		m.writeReg(in.Op, in.Rd, rs^rt)
	case SLL:
		m.writeReg(in.Op, in.Rd, rs<<shiftCount(rt))
	case SRA:
		m.writeReg(in.Op, in.Rd, rs>>shiftCount(rt))
	case SRL:
		m.writeReg(in.Op, in.Rd, int32(uint32(rs)>>shiftCount(rt)))

	case BEQ:
		m.branch(in, rs == rt)
	case BNE:
		m.branch(in, rs != rt)
	case BLT:
		m.branch(in, rs < rt)
	case BGT:
		m.branch(in, rs > rt)
	case BLE:
		m.branch(in, rs <= rt)
	case BGE:
		m.branch(in, rs >= rt)

	case JAL:
		// The link is written before the target is read.
		m.writeReg(in.Op, in.Rd, m.PC)
		m.PC = r[in.Rs]

	case LW:
		addr := mod(rs+rt, MAIN_MEMORY_DEPTH)
		m.writeReg(in.Op, in.Rd, DecodeUnsignedWord(m.Memory[addr]))
		m.Cycles++
	case SW:
		addr := mod(rs+rt, MAIN_MEMORY_DEPTH)
		m.Memory[addr] = EncodeWord(r[in.Rd])
		m.Cycles++

	case RETI:
		m.PC = m.IO[IRQ_RETURN]
		m.InISR = false
		m.log.WithField("pc", m.PC).Debug("reti")

	case IN:
		idx := int(mod(rs+rt, NUM_IO_REGISTERS))
		m.writeReg(in.Op, in.Rd, m.IO[idx])
		m.trace.TraceIO(m.Cycles, IO_READ, idx, m.IO[idx])
	case OUT:
		idx := int(mod(rs+rt, NUM_IO_REGISTERS))
		m.out(idx, r[in.Rd])

	case HALT:
		m.Halted = true
	}
}

func (m *Machine) branch(in Instruction, taken bool) {
	if taken {
		m.PC = m.Regs[in.Rd]
	}
}

func shiftCount(v int32) uint32 {
	return uint32(v) & 31
}

// out stores into an I/O register and applies the device side effects.
func (m *Machine) out(idx int, value int32) {
	m.IO[idx] = value
	m.trace.TraceIO(m.Cycles, IO_WRITE, idx, value)

	switch idx {
	case LEDS:
		m.trace.TraceLEDs(m.Cycles, value)
	case DISPLAY7SEG:
		m.trace.TraceDisplay7Seg(m.Cycles, value)
	case MONITOR_CMD:
		if value == MONITOR_CMD_WRITE {
			addr := uint16(m.IO[MONITOR_ADDR])
			m.Monitor[addr] = EncodePixel(m.IO[MONITOR_DATA])
		}
		m.IO[MONITOR_CMD] = 0
	case DISK_CMD:
		if value == DISK_CMD_READ || value == DISK_CMD_WRITE {
			if m.IO[DISK_STATUS] != DISK_BUSY {
				m.disk.Start()
			}
			m.IO[DISK_STATUS] = DISK_BUSY
			m.log.WithFields(logrus.Fields{
				"cycle":  m.Cycles,
				"op":     value,
				"sector": m.IO[DISK_SECTOR],
			}).Debug("disk transfer started")
		}
	}
}

// advancePeripherals runs the controllers in their fixed order.
func (m *Machine) advancePeripherals(cycles int64) {
	m.irq2.Poll(m)
	if m.disk.Advance(m, cycles) {
		m.log.WithField("cycle", m.Cycles).Debug("disk transfer complete")
	}
	tickTimer(&m.IO, cycles)

	if !m.InISR && irqPending(&m.IO) {
		m.IO[IRQ_RETURN] = m.PC
		m.PC = m.IO[IRQ_HANDLER]
		m.InISR = true
		m.log.WithFields(logrus.Fields{"cycle": m.Cycles, "pc": m.PC}).Debug("interrupt")
	}
}
