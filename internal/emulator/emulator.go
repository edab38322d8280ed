// Package emulator drives the execution engine at a fixed frame rate and
// connects it to the keypad input and the display output.
package emulator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/retroenv/chip8vm/internal/chip8"
	"github.com/retroenv/chip8vm/internal/disasm"
	"github.com/retroenv/retrogolib/log"
)

// Input provides a keypad snapshot once per frame.
type Input interface {
	Keys() chip8.Keys
}

// Display consumes changed display frames.
type Display interface {
	Render(frame chip8.Frame) error
}

// Config contains the pacing of the emulation.
type Config struct {
	CyclesPerFrame int           // instructions executed per frame
	FrameDuration  time.Duration // duration of a frame, also the timer period
}

// Stats contains counters of the emulation.
type Stats struct {
	Cycles         uint64
	Frames         uint64
	UnknownOpcodes uint64
}

// Emulator drives an execution engine frame by frame.
type Emulator struct {
	logger  *log.Logger
	engine  *chip8.Engine
	state   *chip8.State
	input   Input
	display Display
	cfg     Config
	stats   Stats
}

// New returns a new emulator. Input and display are optional, without input
// no key is held and without display frames are not rendered.
func New(logger *log.Logger, engine *chip8.Engine, input Input, display Display, cfg Config) *Emulator {
	if cfg.CyclesPerFrame < 1 {
		cfg.CyclesPerFrame = 1
	}
	return &Emulator{
		logger:  logger,
		engine:  engine,
		state:   engine.State(),
		input:   input,
		display: display,
		cfg:     cfg,
	}
}

// Frame runs a single frame: the keypad is refreshed, the configured number
// of instructions is executed, the timers are decremented once and the display
// is rendered if it changed. Executing stops early for the frame while the
// program waits for a key. A fatal instruction fault is returned.
func (e *Emulator) Frame() error {
	if e.input != nil {
		e.state.SetKeys(e.input.Keys())
	}

	for range e.cfg.CyclesPerFrame {
		err := e.engine.Step()
		e.stats.Cycles++
		if err != nil {
			if chip8.IsFatal(err) {
				return fmt.Errorf("executing instruction: %w", err)
			}
			e.reportUnknownOpcode(err)
		}
		if e.engine.Status() == chip8.WaitingForKey {
			break
		}
	}

	e.state.TickTimers()
	e.stats.Frames++

	if e.display != nil && e.state.Dirty() {
		if err := e.display.Render(e.state.ConsumeFrame()); err != nil {
			return fmt.Errorf("rendering frame: %w", err)
		}
	}
	return nil
}

// Run executes frames paced at the configured frame duration until the
// context is cancelled or a fatal fault occurs.
func (e *Emulator) Run(ctx context.Context) error {
	ticker := time.NewTicker(e.cfg.FrameDuration)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("running emulation: %w", ctx.Err())
		case <-ticker.C:
			if err := e.Frame(); err != nil {
				return err
			}
		}
	}
}

// RunFrames executes the given number of frames without pacing.
func (e *Emulator) RunFrames(ctx context.Context, frames int) error {
	for range frames {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("running emulation: %w", err)
		}
		if err := e.Frame(); err != nil {
			return err
		}
	}
	return nil
}

// Stats returns the emulation counters.
func (e *Emulator) Stats() Stats {
	return e.stats
}

func (e *Emulator) reportUnknownOpcode(err error) {
	e.stats.UnknownOpcodes++

	var opErr *chip8.OpcodeError
	if !errors.As(err, &opErr) {
		e.logger.Warn("Instruction fault", log.Err(err))
		return
	}
	e.logger.Warn("Unknown instruction",
		log.Hex("address", opErr.Address),
		log.Hex("opcode", opErr.Opcode),
		log.String("decoded", disasm.Format(opErr.Opcode)))
}

// Tracer returns an engine tracer that logs every executed instruction.
func Tracer(logger *log.Logger) chip8.Tracer {
	return func(address, opcode uint16) {
		logger.Debug("Execute",
			log.Hex("address", address),
			log.Hex("opcode", opcode),
			log.String("instruction", disasm.Format(opcode)))
	}
}
