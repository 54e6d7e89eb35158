// peripherals.go - Disk controller, timer and irq2 schedule for the SIMP machine

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

// DiskController holds the latency accumulator for the transfer in flight.
// The command, sector, buffer and status live in the I/O registers.
type DiskController struct {
	elapsed int64
}

// Start is called when an out to diskcmd moves the disk from FREE to BUSY.
func (d *DiskController) Start() {
	d.elapsed = 0
}

// Elapsed is the number of cycles counted towards the current transfer.
func (d *DiskController) Elapsed() int64 {
	return d.elapsed
}

// Advance counts cycles while the disk is busy and performs the sector copy
// once DISK_LATENCY cycles have passed. It reports whether a transfer
// completed during this call.
func (d *DiskController) Advance(m *Machine, cycles int64) bool {
	if m.IO[DISK_STATUS] != DISK_BUSY {
		return false
	}
	d.elapsed += cycles
	if d.elapsed < DISK_LATENCY {
		return false
	}

	sector := int(mod(m.IO[DISK_SECTOR], DISK_SECTORS))
	base := sector * SECTOR_WORDS
	buffer := m.IO[DISK_BUFFER]
	switch m.IO[DISK_CMD] {
	case DISK_CMD_READ:
		for i := int32(0); i < SECTOR_WORDS; i++ {
			m.Memory[mod(buffer+i, MAIN_MEMORY_DEPTH)] = m.Disk[base+int(i)]
		}
	case DISK_CMD_WRITE:
		for i := int32(0); i < SECTOR_WORDS; i++ {
			m.Disk[base+int(i)] = m.Memory[mod(buffer+i, MAIN_MEMORY_DEPTH)]
		}
	}

	d.elapsed = 0
	m.IO[IRQ1_STATUS] = 1
	m.IO[DISK_CMD] = DISK_CMD_NONE
	m.IO[DISK_STATUS] = DISK_FREE
	return true
}

// IRQ2Schedule injects the external interrupt line from the irq2in list.
type IRQ2Schedule struct {
	cycles []int64
	next   int
}

func NewIRQ2Schedule(cycles []int64) *IRQ2Schedule {
	return &IRQ2Schedule{cycles: cycles}
}

// Poll raises irq2status when the clock has reached the next entry. The
// cursor moves by at most one entry per call, so a step that jumps over two
// entries only delivers the first of them on that step.
func (s *IRQ2Schedule) Poll(m *Machine) bool {
	if s == nil || s.next >= len(s.cycles) {
		return false
	}
	if m.Cycles < s.cycles[s.next] {
		return false
	}
	m.IO[IRQ2_STATUS] = 1
	s.next++
	return true
}

// Pending is the number of scheduled pulses not yet delivered.
func (s *IRQ2Schedule) Pending() int {
	if s == nil {
		return 0
	}
	return len(s.cycles) - s.next
}

// tickTimer advances timercurrent and raises irq0 when it reaches timermax.
func tickTimer(io *[NUM_IO_REGISTERS]int32, cycles int64) bool {
	if io[TIMER_ENABLE] != 1 {
		return false
	}
	io[TIMER_CURRENT] += int32(cycles)
	if io[TIMER_CURRENT] < io[TIMER_MAX] {
		return false
	}
	io[TIMER_CURRENT] = 0
	io[IRQ0_STATUS] = 1
	return true
}

// irqPending reports whether any enabled interrupt line has its status set.
func irqPending(io *[NUM_IO_REGISTERS]int32) bool {
	return (io[IRQ0_ENABLE]&io[IRQ0_STATUS])|
		(io[IRQ1_ENABLE]&io[IRQ1_STATUS])|
		(io[IRQ2_ENABLE]&io[IRQ2_STATUS]) != 0
}

// mod is the non-negative remainder of a by n.
func mod(a int32, n int32) int32 {
	r := a % n
	if r < 0 {
		r += n
	}
	return r
}
