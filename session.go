// session.go - Run session: load inputs, run the machine, commit outputs

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
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// SessionPaths are the twelve files of one run, in command line order.
type SessionPaths struct {
	MemIn       string
	DiskIn      string
	IRQ2In      string
	MemOut      string
	RegOut      string
	Trace       string
	HWRegTrace  string
	Cycles      string
	LEDs        string
	Display7Seg string
	DiskOut     string
	Monitor     string
}

// SessionPathsFromArgs maps positional arguments onto SessionPaths.
func SessionPathsFromArgs(args []string) (SessionPaths, error) {
	if len(args) != 12 {
		return SessionPaths{}, fmt.Errorf("expected 12 file arguments, got %d", len(args))
	}
	return SessionPaths{
		MemIn: args[0], DiskIn: args[1], IRQ2In: args[2],
		MemOut: args[3], RegOut: args[4], Trace: args[5],
		HWRegTrace: args[6], Cycles: args[7], LEDs: args[8],
		Display7Seg: args[9], DiskOut: args[10], Monitor: args[11],
	}, nil
}

// SessionOptions are the optional collaborators of a run. Any of them may be
// left nil.
type SessionOptions struct {
	MaxSteps uint64
	Log      *logrus.Logger
	Viewer   MonitorOutput
	Sound    DiskClicker
	Stepper  *Stepper
	LuaPath  string
	LuaProbe io.Reader // probe source used instead of LuaPath when set
}

// stagedFile is an output written under a temporary name and moved into
// place only when the whole run succeeded.
type stagedFile struct {
	dst string
	f   *os.File
}

type stagedOutputs struct {
	files []*stagedFile
}

func (s *stagedOutputs) create(dst string) (*stagedFile, error) {
	f, err := os.CreateTemp(filepath.Dir(dst), "."+filepath.Base(dst)+".*.tmp")
	if err != nil {
		return nil, fmt.Errorf("stage %s: %w", dst, err)
	}
	sf := &stagedFile{dst: dst, f: f}
	s.files = append(s.files, sf)
	return sf, nil
}

// commit closes every staged file and renames it over its destination.
func (s *stagedOutputs) commit() error {
	for _, sf := range s.files {
		if err := sf.f.Close(); err != nil {
			return fmt.Errorf("close %s: %w", sf.dst, err)
		}
	}
	for _, sf := range s.files {
		if err := os.Rename(sf.f.Name(), sf.dst); err != nil {
			return fmt.Errorf("commit %s: %w", sf.dst, err)
		}
	}
	s.files = nil
	return nil
}

// discard removes whatever is still staged.
func (s *stagedOutputs) discard() {
	for _, sf := range s.files {
		sf.f.Close()
		os.Remove(sf.f.Name())
	}
	s.files = nil
}

// RunSession loads the inputs, runs the machine to halt and writes every
// output. On any failure no output file is created or replaced.
func RunSession(paths SessionPaths, opts SessionOptions) (*Machine, error) {
	log := opts.Log
	if log == nil {
		log = logrus.New()
		log.SetOutput(io.Discard)
	}

	memory, err := ReadWordImage("memin", paths.MemIn, MAIN_MEMORY_DEPTH, log)
	if err != nil {
		return nil, err
	}
	disk, err := ReadWordImage("diskin", paths.DiskIn, DISK_DEPTH, log)
	if err != nil {
		return nil, err
	}
	schedule, err := ReadSchedule(paths.IRQ2In, log)
	if err != nil {
		return nil, err
	}

	var out stagedOutputs
	defer out.discard()

	streams := make([]*stagedFile, 4)
	for i, dst := range []string{paths.Trace, paths.HWRegTrace, paths.LEDs, paths.Display7Seg} {
		if streams[i], err = out.create(dst); err != nil {
			return nil, err
		}
	}
	tracer := NewTextTracer(streams[0].f, streams[1].f, streams[2].f, streams[3].f)

	m := NewMachine(MachineConfig{
		Memory:   memory,
		Disk:     disk,
		Schedule: schedule,
		Tracer:   tracer,
		Log:      log,
	})

	runErr := runLoop(m, opts, log)
	if ferr := tracer.Flush(); ferr != nil && runErr == nil {
		runErr = fmt.Errorf("write trace: %w", ferr)
	}
	if runErr != nil {
		return m, runErr
	}

	dumps := []struct {
		dst   string
		write func(io.Writer) error
	}{
		{paths.MemOut, func(w io.Writer) error { return WriteWordDump(w, m.Memory[:]) }},
		{paths.RegOut, func(w io.Writer) error { return WriteRegisterDump(w, &m.Regs) }},
		{paths.Cycles, func(w io.Writer) error { return WriteCycles(w, m.Cycles) }},
		{paths.DiskOut, func(w io.Writer) error { return WriteWordDump(w, m.Disk[:]) }},
		{paths.Monitor, func(w io.Writer) error { return WriteMonitorDump(w, m.Monitor[:]) }},
	}
	for _, d := range dumps {
		sf, err := out.create(d.dst)
		if err != nil {
			return m, err
		}
		if err := d.write(sf.f); err != nil {
			return m, fmt.Errorf("write %s: %w", d.dst, err)
		}
	}
	if err := out.commit(); err != nil {
		return m, err
	}

	log.WithFields(logrus.Fields{"cycles": m.Cycles, "steps": m.Steps()}).Info("run complete")
	return m, nil
}

// runLoop is Machine.Run with the session collaborators hooked in.
func runLoop(m *Machine, opts SessionOptions, log logrus.FieldLogger) error {
	var probe *LuaProbe
	var err error
	switch {
	case opts.LuaProbe != nil:
		probe, err = NewLuaProbe(m, "probe", opts.LuaProbe)
	case opts.LuaPath != "":
		probe, err = LoadLuaProbe(m, opts.LuaPath)
	}
	if err != nil {
		return err
	}
	if probe != nil {
		defer probe.Close()
	}

	var lastRefresh int64
	if opts.Viewer != nil {
		opts.Viewer.Refresh(m)
	}

	for !m.Halted {
		if opts.MaxSteps > 0 && m.Steps() >= opts.MaxSteps {
			return ErrStepLimit
		}
		if opts.Stepper != nil {
			if err := opts.Stepper.Before(m); err != nil {
				return err
			}
		}

		busy := m.DiskBusy()
		if err := m.Step(); err != nil {
			return err
		}
		if opts.Sound != nil && busy != m.DiskBusy() {
			opts.Sound.Click()
		}
		if probe != nil {
			if err := probe.OnStep(); err != nil {
				return err
			}
		}
		if opts.Viewer != nil && m.Cycles-lastRefresh >= MONITOR_REFRESH_CYCLES {
			opts.Viewer.Refresh(m)
			lastRefresh = m.Cycles
		}
	}

	log.WithFields(logrus.Fields{"pc": m.PC, "cycle": m.Cycles}).Info("halt")
	if opts.Viewer != nil {
		opts.Viewer.Refresh(m)
	}
	if probe != nil {
		if err := probe.OnHalt(); err != nil {
			return err
		}
	}
	return nil
}

// IsLoadError reports whether err came from reading an input artifact.
func IsLoadError(err error) bool {
	var le *LoadError
	return errors.As(err, &le)
}
