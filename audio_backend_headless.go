//go:build headless

package main

// HeadlessDiskSound counts clicks instead of playing them.
type HeadlessDiskSound struct {
	clicks int
}

func NewDiskSound() (DiskClicker, error) {
	return &HeadlessDiskSound{}, nil
}

func (h *HeadlessDiskSound) Click() {
	h.clicks++
}

func (h *HeadlessDiskSound) Close() {}
