// Package render converts the CHIP-8 display into text output.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/retroenv/chip8vm/internal/chip8"
)

const (
	pixelOn  = '█'
	pixelOff = ' '

	cursorHome = "\x1b[H"
)

// Text renders the display as text, every display pixel is upscaled to a
// block of scale columns and scale rows.
type Text struct {
	writer  io.Writer
	scale   int
	refresh bool
	frames  int
}

// NewText returns a new text renderer. In refresh mode every frame is written
// at the top left corner of the terminal and lines are terminated with a
// carriage return for terminals in raw mode.
func NewText(writer io.Writer, scale int, refresh bool) *Text {
	if scale < 1 {
		scale = 1
	}
	return &Text{
		writer:  writer,
		scale:   scale,
		refresh: refresh,
	}
}

// Render writes the frame to the output.
func (r *Text) Render(frame chip8.Frame) error {
	lineEnd := "\n"
	var sb strings.Builder
	if r.refresh {
		lineEnd = "\r\n"
		sb.WriteString(cursorHome)
	}

	for y := range chip8.DisplayHeight {
		var line strings.Builder
		for x := range chip8.DisplayWidth {
			pixel := pixelOff
			if frame[y][x] {
				pixel = pixelOn
			}
			for range r.scale {
				line.WriteRune(pixel)
			}
		}
		line.WriteString(lineEnd)

		for range r.scale {
			sb.WriteString(line.String())
		}
	}

	if _, err := io.WriteString(r.writer, sb.String()); err != nil {
		return fmt.Errorf("writing frame: %w", err)
	}
	r.frames++
	return nil
}

// Frames returns the number of rendered frames.
func (r *Text) Frames() int {
	return r.frames
}

// Size returns the number of terminal columns and rows a rendered frame uses.
func (r *Text) Size() (int, int) {
	return chip8.DisplayWidth * r.scale, chip8.DisplayHeight * r.scale
}
