package main

import (
	"fmt"
	"strconv"
	"strings"
)

// Word is a 20-bit memory or disk cell. Only the low WORD_BITS are ever set.
type Word uint32

// Pixel is one monitor brightness value.
type Pixel uint8

// DecodeSigned20 sign extends bit 19. Only the immediate slot is read this way.
func DecodeSigned20(w Word) int32 {
	return int32(uint32(w)<<(32-WORD_BITS)) >> (32 - WORD_BITS)
}

// DecodeUnsignedWord returns the raw 20-bit value. lw loads data this way, so
// a stored -1 comes back as 0x000FFFFF.
func DecodeUnsignedWord(w Word) int32 {
	return int32(w & WORD_MASK)
}

// EncodeWord keeps the low 20 bits of v.
func EncodeWord(v int32) Word {
	return Word(uint32(v) & WORD_MASK)
}

// EncodePixel keeps the low 8 bits of v.
func EncodePixel(v int32) Pixel {
	return Pixel(uint32(v) & PIXEL_MASK)
}

func (w Word) String() string {
	return fmt.Sprintf("%05X", uint32(w)&WORD_MASK)
}

func (p Pixel) String() string {
	return fmt.Sprintf("%02X", uint8(p))
}

// ParseWord reads one image line: 1 to 5 hex digits, either case, surrounding
// whitespace ignored.
func ParseWord(s string) (Word, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty word")
	}
	if len(s) > WORD_HEX_DIGITS {
		return 0, fmt.Errorf("word %q longer than %d hex digits", s, WORD_HEX_DIGITS)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("word %q is not hexadecimal", s)
	}
	return Word(v), nil
}

// hexReg renders a register value the way every dump and trace shows it.
func hexReg(v int32) string {
	return fmt.Sprintf("%08X", uint32(v))
}
