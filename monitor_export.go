package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fogleman/gg"
	"golang.org/x/image/bmp"
)

// encodeMonitorPNG draws each pixel as a scale x scale gray block.
func encodeMonitorPNG(w io.Writer, pixels *[MONITOR_PIXELS]Pixel, scale int) error {
	if scale < 1 {
		return &VideoError{Operation: "png export", Details: fmt.Sprintf("invalid scale %d", scale)}
	}
	size := MONITOR_DIM * scale
	dc := gg.NewContext(size, size)
	dc.SetRGB255(0, 0, 0)
	dc.Clear()
	s := float64(scale)
	for i, p := range pixels {
		if p == 0 {
			continue
		}
		x, y := i%MONITOR_DIM, i/MONITOR_DIM
		dc.SetRGB255(int(p), int(p), int(p))
		dc.DrawRectangle(float64(x)*s, float64(y)*s, s, s)
		dc.Fill()
	}
	if err := dc.EncodePNG(w); err != nil {
		return &VideoError{Operation: "png export", Details: "encode", Err: err}
	}
	return nil
}

func encodeMonitorBMP(w io.Writer, pixels *[MONITOR_PIXELS]Pixel) error {
	if err := bmp.Encode(w, monitorGray(pixels)); err != nil {
		return &VideoError{Operation: "bmp export", Details: "encode", Err: err}
	}
	return nil
}

// ExportMonitorPNG writes the framebuffer to path as a PNG.
func ExportMonitorPNG(path string, pixels *[MONITOR_PIXELS]Pixel, scale int) error {
	return writeExport(path, func(w io.Writer) error {
		return encodeMonitorPNG(w, pixels, scale)
	})
}

// ExportMonitorBMP writes the framebuffer to path as a grayscale BMP.
func ExportMonitorBMP(path string, pixels *[MONITOR_PIXELS]Pixel) error {
	return writeExport(path, func(w io.Writer) error {
		return encodeMonitorBMP(w, pixels)
	})
}

func writeExport(path string, encode func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := encode(f); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	return f.Close()
}
