// main.go - SIMP instruction-set simulator entry point

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
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/pkg/profile"
	"golang.org/x/term"
)

const usageLine = "Usage: simpsim [flags] memin.txt diskin.txt irq2in.txt memout.txt regout.txt trace.txt hwregtrace.txt cycles.txt leds.txt display7seg.txt diskout.txt monitor.txt"

func boilerPlate(w io.Writer) {
	fmt.Fprintln(w, "\n\033[38;2;255;20;147mSIMP\033[0m instruction-set simulator")
	fmt.Fprintln(w, "(c) 2024 - 2026 Zayn Otley")
	fmt.Fprintln(w, "License: GPLv3 or later")
}

type cliOptions struct {
	logLevel   string
	maxSteps   uint64
	window     bool
	scale      int
	sound      bool
	step       bool
	luaPath    string
	monitorPNG string
	monitorBMP string
	pngScale   int
	cpuProfile string
	quiet      bool
}

func main() {
	os.Exit(main1())
}

// main1 is the whole program; it returns the process exit code.
func main1() int {
	var opts cliOptions

	flagSet := flag.NewFlagSet(os.Args[0], flag.ContinueOnError)
	flagSet.SetOutput(io.Discard)
	flagSet.StringVar(&opts.logLevel, "log-level", "info", "Log level: error, warn, info, debug, trace")
	flagSet.Uint64Var(&opts.maxSteps, "max-steps", 0, "Abort after this many instructions (0 = unlimited)")
	flagSet.BoolVar(&opts.window, "window", false, "Show the monitor in a live window")
	flagSet.IntVar(&opts.scale, "scale", 2, "Window zoom factor")
	flagSet.BoolVar(&opts.sound, "sound", false, "Click on disk activity (needs -window)")
	flagSet.BoolVar(&opts.step, "step", false, "Single-step interactively")
	flagSet.StringVar(&opts.luaPath, "lua", "", "Lua probe script")
	flagSet.StringVar(&opts.monitorPNG, "monitor-png", "", "Also write the final monitor as PNG")
	flagSet.StringVar(&opts.monitorBMP, "monitor-bmp", "", "Also write the final monitor as BMP")
	flagSet.IntVar(&opts.pngScale, "png-scale", 1, "PNG export zoom factor")
	flagSet.StringVar(&opts.cpuProfile, "cpuprofile", "", "Write a CPU profile into this directory")
	flagSet.BoolVar(&opts.quiet, "quiet", false, "No banner or summary")

	flagSet.Usage = func() {
		flagSet.SetOutput(os.Stdout)
		fmt.Println(usageLine)
		flagSet.PrintDefaults()
	}

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		fmt.Fprintf(os.Stderr, "simpsim: %v\n", err)
		return 2
	}

	paths, err := SessionPathsFromArgs(flagSet.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "simpsim: %v\n%s\n", err, usageLine)
		return 2
	}
	if opts.sound && !opts.window {
		fmt.Fprintln(os.Stderr, "simpsim: -sound needs -window")
		return 2
	}

	if err := run(paths, opts); err != nil {
		fmt.Fprintf(os.Stderr, "simpsim: %v\n", err)
		return 1
	}
	return 0
}

func run(paths SessionPaths, opts cliOptions) error {
	log, err := newLogger(opts.logLevel, os.Stderr)
	if err != nil {
		return err
	}

	if opts.cpuProfile != "" {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(opts.cpuProfile), profile.Quiet).Stop()
	}

	if !opts.quiet && term.IsTerminal(int(os.Stdout.Fd())) {
		boilerPlate(os.Stdout)
	}

	session := SessionOptions{MaxSteps: opts.maxSteps, Log: log, LuaPath: opts.luaPath}

	if opts.window {
		viewer, err := NewMonitorViewer(opts.scale)
		if err != nil {
			return err
		}
		if err := viewer.Start(); err != nil {
			return err
		}
		defer viewer.Close()
		session.Viewer = viewer

		if opts.sound {
			sound, err := NewDiskSound()
			if err != nil {
				log.WithError(err).Warn("disk sound unavailable")
			} else {
				defer sound.Close()
				session.Sound = sound
			}
		}
	}

	if opts.step {
		host := NewTerminalHost(os.Stdin)
		if err := host.Start(); err != nil {
			return err
		}
		defer host.Stop()
		session.Stepper = NewStepper(host, host.Output(os.Stdout), host.Raw())
	}

	m, err := RunSession(paths, session)
	if err != nil {
		if errors.Is(err, ErrStepLimit) && m != nil {
			return fmt.Errorf("%w (%d steps, PC=%03X)", err, m.Steps(), uint32(m.PC)&0xFFF)
		}
		return err
	}

	if opts.monitorPNG != "" {
		if err := ExportMonitorPNG(opts.monitorPNG, &m.Monitor, opts.pngScale); err != nil {
			return err
		}
	}
	if opts.monitorBMP != "" {
		if err := ExportMonitorBMP(opts.monitorBMP, &m.Monitor); err != nil {
			return err
		}
	}

	if !opts.quiet {
		fmt.Printf("halted after %d instructions, %d cycles\n", m.Steps(), m.Cycles)
	}
	if session.Viewer != nil {
		if !opts.quiet {
			fmt.Println("close the monitor window to exit")
		}
		session.Viewer.Wait()
	}
	return nil
}
