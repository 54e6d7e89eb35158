package main

const (
	SAMPLE_RATE    = 44100
	CLICK_DURATION = SAMPLE_RATE * 15 / 1000 // samples in one burst
	CLICK_GAIN     = 0.35
)

// DiskClicker is told about every disk transfer start and completion.
type DiskClicker interface {
	Click()
	Close()
}

// clickBurst renders a linearly decaying white noise burst.
type clickBurst struct {
	remaining int
	noise     uint32
}

func newClickBurst() clickBurst {
	return clickBurst{noise: 0x2545F491}
}

func (c *clickBurst) trigger() {
	c.remaining = CLICK_DURATION
}

func (c *clickBurst) fill(out []float32) {
	for i := range out {
		if c.remaining <= 0 {
			out[i] = 0
			continue
		}
		// xorshift32
		c.noise ^= c.noise << 13
		c.noise ^= c.noise >> 17
		c.noise ^= c.noise << 5
		v := float32(int32(c.noise)) / float32(1<<31)
		env := float32(c.remaining) / CLICK_DURATION
		out[i] = v * env * CLICK_GAIN
		c.remaining--
	}
}
