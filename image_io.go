package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

// ReadWordImage loads a program or disk image: one word per line, blank lines
// skipped. Words beyond depth are dropped with a warning.
func ReadWordImage(artifact, path string, depth int, log logrus.FieldLogger) ([]Word, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Artifact: artifact, Path: path, Err: err}
	}
	defer f.Close()

	words, err := parseWordImage(f, depth, log.WithField("artifact", artifact))
	if err != nil {
		if le, ok := err.(*LoadError); ok {
			le.Artifact, le.Path = artifact, path
			return nil, le
		}
		return nil, &LoadError{Artifact: artifact, Path: path, Err: err}
	}
	log.WithFields(logrus.Fields{"artifact": artifact, "words": len(words)}).Info("image loaded")
	return words, nil
}

func parseWordImage(r io.Reader, depth int, log logrus.FieldLogger) ([]Word, error) {
	var words []Word
	dropped := 0
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		s := strings.TrimSpace(sc.Text())
		if s == "" {
			continue
		}
		w, err := ParseWord(s)
		if err != nil {
			return nil, &LoadError{Line: line, Err: err}
		}
		if len(words) >= depth {
			dropped++
			continue
		}
		words = append(words, w&WORD_MASK)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if dropped > 0 {
		log.WithField("dropped", dropped).Warn("image longer than the medium, extra words ignored")
	}
	return words, nil
}

// ReadSchedule loads the irq2 cycle list, one decimal number per line.
func ReadSchedule(path string, log logrus.FieldLogger) ([]int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Artifact: "irq2in", Path: path, Err: err}
	}
	defer f.Close()

	var cycles []int64
	sc := bufio.NewScanner(f)
	line := 0
	for sc.Scan() {
		line++
		s := strings.TrimSpace(sc.Text())
		if s == "" {
			continue
		}
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, &LoadError{Artifact: "irq2in", Path: path, Line: line,
				Err: fmt.Errorf("cycle %q is not a decimal number", s)}
		}
		cycles = append(cycles, v)
	}
	if err := sc.Err(); err != nil {
		return nil, &LoadError{Artifact: "irq2in", Path: path, Err: err}
	}
	log.WithFields(logrus.Fields{"artifact": "irq2in", "entries": len(cycles)}).Info("schedule loaded")
	return cycles, nil
}

// WriteWordDump writes words up to and including the last nonzero one.
func WriteWordDump(w io.Writer, words []Word) error {
	bw := bufio.NewWriter(w)
	n := MemoryExtent(words)
	for _, word := range words[:n] {
		bw.WriteString(word.String())
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// WriteRegisterDump writes $v0 through $ra; $zero and $imm are not dumped.
func WriteRegisterDump(w io.Writer, regs *[NUM_REGISTERS]int32) error {
	bw := bufio.NewWriter(w)
	for _, r := range regs[2:] {
		bw.WriteString(hexReg(r))
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

func WriteMonitorDump(w io.Writer, pixels []Pixel) error {
	bw := bufio.NewWriter(w)
	n := MonitorExtent(pixels)
	for _, p := range pixels[:n] {
		bw.WriteString(p.String())
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

func WriteCycles(w io.Writer, cycles int64) error {
	_, err := fmt.Fprintf(w, "%d\n", cycles)
	return err
}
