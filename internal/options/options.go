// Package options contains the program options.
package options

import "time"

// Default values of the emulation options.
const (
	DefaultCyclesPerFrame = 10
	DefaultFrameRate      = 60
	DefaultScale          = 1
	DefaultHeadlessFrames = 600
	DefaultKeyHold        = 150 * time.Millisecond
)

// Positional contains positional arguments.
type Positional struct {
	File string `arg:"positional" usage:"CHIP-8 program to run"`
}

// Parameters contains file path options.
type Parameters struct {
	Input  string `flag:"i" usage:"input program file"`
	Batch  string `flag:"batch" usage:"run all files matching pattern headless (e.g. roms/*.ch8)"`
	Memviz string `flag:"memviz" usage:"write a graphviz dump of the final machine state to file"`
}

// Flags contains behavior options.
type Flags struct {
	System    string `flag:"s" usage:"target system: chip8 (default: auto-detect)"`
	Headless  bool   `flag:"headless" usage:"run without terminal input and print the final display"`
	List      bool   `flag:"list" usage:"print a disassembly listing of the program and exit"`
	Trace     bool   `flag:"trace" usage:"log every executed instruction (implies -debug)"`
	Statsview bool   `flag:"statsview" usage:"serve runtime statistics charts"`
	Debug     bool   `flag:"debug" usage:"enable debug logging"`
	Quiet     bool   `flag:"q" usage:"quiet mode"`
}

// Emulation contains options that control the execution pacing.
type Emulation struct {
	CyclesPerFrame int    `flag:"cycles" usage:"instructions executed per frame" default:"10"`
	FrameRate      int    `flag:"fps" usage:"frames per second, also the timer rate" default:"60"`
	Frames         int    `flag:"frames" usage:"number of frames to run in headless mode" default:"600"`
	Seed           uint64 `flag:"seed" usage:"seed of the random number generator (0: time based)"`
}

// Display contains output options.
type Display struct {
	Scale   int           `flag:"scale" usage:"upscale factor of every display pixel" default:"1"`
	KeyHold time.Duration `flag:"keyhold" usage:"duration a key counts as held after a key press" default:"150ms"`
}

// Program options of the virtual machine.
type Program struct {
	Parameters
	Flags
	Emulation
	Display
}

// FrameDuration returns the duration of a single frame at the configured frame rate.
func (p Program) FrameDuration() time.Duration {
	if p.FrameRate <= 0 {
		return time.Second / DefaultFrameRate
	}
	return time.Second / time.Duration(p.FrameRate)
}
