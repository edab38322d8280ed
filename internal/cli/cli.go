// Package cli handles command line interface logic
package cli

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/retroenv/chip8vm/internal/options"
)

// ParseFlags parses the command line flags and returns the program options.
func ParseFlags() (options.Program, error) {
	return parse(os.Args)
}

func parse(osArgs []string) (options.Program, error) {
	flags := flag.NewFlagSet(osArgs[0], flag.ContinueOnError)
	var opts options.Program
	readOptionFlags(flags, &opts)

	err := flags.Parse(osArgs[1:])
	args := flags.Args()
	if err != nil || (len(args) == 0 && opts.Input == "" && opts.Batch == "") {
		return opts, &UsageError{flags: flags}
	}

	if err := validateArgs(args); err != nil {
		return opts, err
	}

	if opts.Input == "" && opts.Batch == "" {
		opts.Input = args[0]
	}

	if err := normalizeOptions(&opts); err != nil {
		return opts, err
	}

	if err := validateOptionCombinations(opts); err != nil {
		return opts, err
	}

	return opts, nil
}

// UsageError represents an error that should show usage information
type UsageError struct {
	flags *flag.FlagSet
	msg   string
}

func (e *UsageError) Error() string {
	return e.msg
}

// ShowUsage prints the usage information and all flag defaults.
func (e *UsageError) ShowUsage() {
	fmt.Printf("usage: chip8vm [options] <program to run>\n\n")
	if e.flags != nil {
		e.flags.PrintDefaults()
	}
	fmt.Println()
}

// validateArgs checks if arguments are in correct order
func validateArgs(args []string) error {
	for i, arg := range args {
		if i > 0 && arg != "" && arg[0] == '-' {
			return &UsageError{
				msg: fmt.Sprintf("Potential argument %s found after program file, please pass the program file as last argument", arg),
			}
		}
	}
	return nil
}

// normalizeOptions normalizes and validates option values
func normalizeOptions(opts *options.Program) error {
	if opts.Trace {
		opts.Debug = true
	}
	if opts.Batch != "" {
		opts.Headless = true
	}

	if opts.CyclesPerFrame < 1 {
		return fmt.Errorf("invalid cycles per frame %d: must be at least 1", opts.CyclesPerFrame)
	}
	if opts.FrameRate < 1 || opts.FrameRate > 1000 {
		return fmt.Errorf("invalid frame rate %d: must be between 1 and 1000", opts.FrameRate)
	}
	if opts.Scale < 1 || opts.Scale > 16 {
		return fmt.Errorf("invalid scale %d: must be between 1 and 16", opts.Scale)
	}
	if opts.Frames < 0 {
		return fmt.Errorf("invalid frame count %d: must not be negative", opts.Frames)
	}
	if opts.KeyHold <= 0 {
		return fmt.Errorf("invalid key hold duration %s: must be positive", opts.KeyHold)
	}
	return nil
}

// validateOptionCombinations checks for options that can not be combined.
func validateOptionCombinations(opts options.Program) error {
	if opts.List && opts.Batch != "" {
		return errors.New("listing mode can not be combined with batch mode")
	}
	if opts.Trace && opts.Quiet {
		return errors.New("tracing can not be combined with quiet mode")
	}
	return nil
}

func readOptionFlags(flags *flag.FlagSet, opts *options.Program) {
	flags.StringVar(&opts.Input, "i", "", "name of the input program file")
	flags.StringVar(&opts.Batch, "batch", "", "run a batch of given path and file mask headless, for example roms/*.ch8")
	flags.StringVar(&opts.Memviz, "memviz", "", "name of a graphviz file to write the final machine state to")
	flags.StringVar(&opts.System, "s", "", "system of the program (chip8) - if not auto-detected from file extension")
	flags.BoolVar(&opts.Headless, "headless", false, "run without terminal input and print the final display")
	flags.BoolVar(&opts.List, "list", false, "print a disassembly listing of the program and exit")
	flags.BoolVar(&opts.Trace, "trace", false, "log every executed instruction, implies -debug")
	flags.BoolVar(&opts.Statsview, "statsview", false, "serve runtime statistics charts")
	flags.BoolVar(&opts.Debug, "debug", false, "enable debugging options for extended logging")
	flags.BoolVar(&opts.Quiet, "q", false, "perform operations quietly")

	flags.IntVar(&opts.CyclesPerFrame, "cycles", options.DefaultCyclesPerFrame, "instructions executed per frame")
	flags.IntVar(&opts.FrameRate, "fps", options.DefaultFrameRate, "frames per second, also the rate of the delay and sound timers")
	flags.IntVar(&opts.Frames, "frames", options.DefaultHeadlessFrames, "number of frames to run in headless mode")
	flags.Uint64Var(&opts.Seed, "seed", 0, "seed of the random number generator, 0 uses a time based seed")

	flags.IntVar(&opts.Scale, "scale", options.DefaultScale, "upscale factor of every display pixel")
	flags.DurationVar(&opts.KeyHold, "keyhold", options.DefaultKeyHold, "duration a key counts as held after a key press")
}
