// Package pipeline orchestrates the stages of running a program.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/retroenv/chip8vm/internal/chip8"
	"github.com/retroenv/chip8vm/internal/config"
	"github.com/retroenv/chip8vm/internal/detector"
	"github.com/retroenv/chip8vm/internal/disasm"
	"github.com/retroenv/chip8vm/internal/emulator"
	"github.com/retroenv/chip8vm/internal/loader"
	"github.com/retroenv/chip8vm/internal/options"
	"github.com/retroenv/chip8vm/internal/render"
	"github.com/retroenv/chip8vm/internal/terminal"
	"github.com/retroenv/retrogolib/arch"
	"github.com/retroenv/retrogolib/log"
)

// Result contains the machine after the program run ended.
type Result struct {
	State  *chip8.State
	Status chip8.Status
	Stats  emulator.Stats
}

// Pipeline orchestrates the complete program run workflow.
type Pipeline struct {
	logger   *log.Logger
	detector *detector.Detector
	loader   *loader.Loader
}

// New creates a new pipeline.
func New(logger *log.Logger) *Pipeline {
	return &Pipeline{
		logger:   logger,
		detector: detector.New(logger),
		loader:   loader.New(),
	}
}

// Execute runs the complete pipeline for the input file of the options.
// Listings and headless frames are written to the output.
func (p *Pipeline) Execute(ctx context.Context, opts options.Program, output io.Writer) (*Result, error) {
	system, err := p.detector.Detect(opts)
	if err != nil {
		return nil, fmt.Errorf("detecting system: %w", err)
	}

	data, err := p.loader.Load(opts.Input)
	if err != nil {
		return nil, fmt.Errorf("loading program: %w", err)
	}

	return p.ExecuteWithProgram(ctx, data, opts, output, system)
}

// ExecuteWithProgram runs the pipeline with a pre-loaded program.
// This is useful for testing and programmatic usage where the program is already in memory.
func (p *Pipeline) ExecuteWithProgram(ctx context.Context, data []byte, opts options.Program,
	output io.Writer, system arch.System) (*Result, error) {

	if system != arch.CHIP8System {
		return nil, fmt.Errorf("unsupported system '%s'", system)
	}

	p.printInfo(opts, data)

	if opts.List {
		if err := disasm.WriteListing(output, disasm.Listing(data, chip8.ProgramStart)); err != nil {
			return nil, fmt.Errorf("writing listing: %w", err)
		}
		return nil, nil
	}

	state := chip8.NewState()
	if err := state.LoadProgram(data); err != nil {
		return nil, fmt.Errorf("loading program into memory: %w", err)
	}
	engine := p.createEngine(state, opts)

	var stats emulator.Stats
	var err error
	if opts.Headless {
		stats, err = p.runHeadless(ctx, engine, opts, output)
	} else {
		stats, err = p.runInteractive(ctx, engine, opts)
	}

	result := &Result{
		State:  state,
		Status: engine.Status(),
		Stats:  stats,
	}
	p.printStats(result)

	if opts.Memviz != "" {
		if dumpErr := writeMemviz(opts.Memviz, result); dumpErr != nil {
			return result, errors.Join(err, dumpErr)
		}
	}
	return result, err
}

func (p *Pipeline) createEngine(state *chip8.State, opts options.Program) *chip8.Engine {
	engineOpts := []chip8.Option{
		chip8.WithLogger(p.logger),
		chip8.WithRandom(config.CreateRandom(opts.Seed)),
	}
	if opts.Trace {
		engineOpts = append(engineOpts, chip8.WithTracer(emulator.Tracer(p.logger)))
	}
	return chip8.New(state, engineOpts...)
}

// runHeadless runs the configured number of frames without pacing and
// writes the final display to the output.
func (p *Pipeline) runHeadless(ctx context.Context, engine *chip8.Engine, opts options.Program,
	output io.Writer) (emulator.Stats, error) {

	emu := emulator.New(p.logger, engine, nil, nil, emulatorConfig(opts))
	if err := emu.RunFrames(ctx, opts.Frames); err != nil {
		return emu.Stats(), fmt.Errorf("running headless: %w", err)
	}

	display := render.NewText(output, opts.Scale, false)
	if err := display.Render(engine.State().Frame()); err != nil {
		return emu.Stats(), fmt.Errorf("rendering final frame: %w", err)
	}
	return emu.Stats(), nil
}

// runInteractive runs the program on the terminal until the user quits or
// the context is cancelled.
func (p *Pipeline) runInteractive(ctx context.Context, engine *chip8.Engine, opts options.Program) (emulator.Stats, error) {
	term, err := terminal.Open(p.logger, os.Stdin, os.Stdout, opts.KeyHold)
	if err != nil {
		return emulator.Stats{}, fmt.Errorf("opening terminal: %w", err)
	}
	defer func() {
		if err := term.Restore(); err != nil {
			p.logger.Error("Restoring terminal failed", log.Err(err))
		}
	}()

	display := render.NewText(term.Output(), opts.Scale, true)
	p.checkTerminalSize(term, display)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		select {
		case <-term.Done():
			cancel()
		case <-ctx.Done():
		}
	}()

	emu := emulator.New(p.logger, engine, term, display, emulatorConfig(opts))
	err = emu.Run(ctx)

	select {
	case <-term.Done():
		// quit requested by the user
		return emu.Stats(), nil
	default:
	}
	if err != nil {
		return emu.Stats(), fmt.Errorf("running interactive: %w", err)
	}
	return emu.Stats(), nil
}

func (p *Pipeline) checkTerminalSize(term *terminal.Terminal, display *render.Text) {
	columns, rows, err := term.Size()
	if err != nil {
		p.logger.Warn("Terminal size unknown", log.Err(err))
		return
	}

	width, height := display.Size()
	if columns < width || rows < height {
		p.logger.Warn("Terminal is smaller than the display",
			log.Int("columns", columns),
			log.Int("rows", rows),
			log.Int("width", width),
			log.Int("height", height))
	}
}

// printInfo prints information about the program being processed.
func (p *Pipeline) printInfo(opts options.Program, data []byte) {
	if opts.Quiet {
		return
	}

	p.logger.Info("Processing Chip-8 program",
		log.String("file", opts.Input),
		log.Int("size", len(data)),
	)
}

func (p *Pipeline) printStats(result *Result) {
	p.logger.Debug("Program run ended",
		log.Uint64("cycles", result.Stats.Cycles),
		log.Uint64("frames", result.Stats.Frames),
		log.Uint64("unknown_opcodes", result.Stats.UnknownOpcodes),
		log.Hex("pc", result.State.PC()),
		log.Stringer("status", result.Status),
	)
}

func emulatorConfig(opts options.Program) emulator.Config {
	return emulator.Config{
		CyclesPerFrame: opts.CyclesPerFrame,
		FrameDuration:  opts.FrameDuration(),
	}
}
