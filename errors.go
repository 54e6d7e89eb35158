package main

import (
	"errors"
	"fmt"
)

// ErrStepLimit is returned by Run when the step guard trips before halt.
var ErrStepLimit = errors.New("step limit reached before halt")

// ErrAborted is returned when the run is quit from the stepper.
var ErrAborted = errors.New("run aborted")

// LoadError reports an input artifact that could not be read or parsed.
type LoadError struct {
	Artifact string // memin, diskin, irq2in
	Path     string
	Line     int // 1-based, 0 when the failure is not tied to a line
	Err      error
}

func (e *LoadError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("load %s (%s) line %d: %v", e.Artifact, e.Path, e.Line, e.Err)
	}
	return fmt.Sprintf("load %s (%s): %v", e.Artifact, e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// DecodeError is a word fetched as an instruction whose opcode is unknown.
type DecodeError struct {
	PC     int32
	Word   Word
	Opcode uint32
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("invalid opcode %02X in word %s at PC=%03X", e.Opcode, e.Word, e.PC)
}

// PCRangeError is a fetch outside main memory.
type PCRangeError struct {
	PC    int32
	Cycle int64
}

func (e *PCRangeError) Error() string {
	return fmt.Sprintf("instruction fetch outside memory: PC=%d at cycle %d", e.PC, e.Cycle)
}

// ProbeError wraps a failure raised by a Lua probe hook.
type ProbeError struct {
	Hook string
	Err  error
}

func (e *ProbeError) Error() string {
	return fmt.Sprintf("lua probe %s: %v", e.Hook, e.Err)
}

func (e *ProbeError) Unwrap() error {
	return e.Err
}
