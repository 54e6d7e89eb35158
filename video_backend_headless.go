//go:build headless

package main

import "fmt"

// HeadlessVideoOutput keeps the last refreshed state instead of drawing it.
type HeadlessVideoOutput struct {
	started   bool
	refreshes int
	status    MonitorStatus
	report    string
}

func NewMonitorViewer(scale int) (MonitorOutput, error) {
	if scale < 1 {
		return nil, &VideoError{Operation: "init", Details: fmt.Sprintf("invalid scale %d", scale)}
	}
	return &HeadlessVideoOutput{}, nil
}

func (h *HeadlessVideoOutput) Start() error {
	h.started = true
	return nil
}

func (h *HeadlessVideoOutput) Refresh(m *Machine) {
	h.refreshes++
	h.status = monitorStatusOf(m)
	h.report = registerReport(m)
}

func (h *HeadlessVideoOutput) Wait() {}

func (h *HeadlessVideoOutput) Close() error {
	h.started = false
	return nil
}
