package chip8

import (
	"math/rand/v2"
	"time"

	"github.com/retroenv/retrogolib/log"
)

// opcodeSize is the size of CHIP-8 instructions in bytes.
const opcodeSize = 2

// Status describes whether the engine is executing instructions or blocked
// on the wait for key instruction.
type Status int

const (
	// Running is the normal execution status.
	Running Status = iota
	// WaitingForKey is set while a Fx0A instruction waits for a held key.
	// The program counter stays on the instruction until a key is held.
	WaitingForKey
)

func (s Status) String() string {
	switch s {
	case Running:
		return "running"
	case WaitingForKey:
		return "waiting for key"
	default:
		return "unknown"
	}
}

// Random is the entropy source of the Cxkk instruction.
// *rand.Rand from math/rand/v2 satisfies it.
type Random interface {
	Uint32() uint32
}

// Tracer is called before an instruction is executed.
type Tracer func(address, opcode uint16)

// Option configures an Engine.
type Option func(*Engine)

// WithRandom sets the entropy source of the random instruction.
func WithRandom(random Random) Option {
	return func(e *Engine) {
		e.random = random
	}
}

// WithLogger sets the logger used for execution status changes.
func WithLogger(logger *log.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithTracer sets a function that is called for every executed instruction.
func WithTracer(tracer Tracer) Option {
	return func(e *Engine) {
		e.tracer = tracer
	}
}

// Engine executes instructions on a machine state.
type Engine struct {
	state  *State
	random Random
	logger *log.Logger
	tracer Tracer
	status Status
}

// New returns a new execution engine for the given state.
func New(state *State, options ...Option) *Engine {
	e := &Engine{
		state: state,
	}
	for _, option := range options {
		option(e)
	}
	if e.random == nil {
		seed := uint64(time.Now().UnixNano())
		e.random = rand.New(rand.NewPCG(seed, seed>>32))
	}
	return e
}

// State returns the machine state that the engine operates on.
func (e *Engine) State() *State {
	return e.state
}

// Status returns the current execution status.
func (e *Engine) Status() Status {
	return e.status
}

// Step performs exactly one fetch-decode-execute cycle.
// An *OpcodeError is returned for an unknown instruction, the program counter
// is advanced past it and execution can continue. A *StackError or a
// *MemoryError is fatal and leaves the state unchanged.
func (e *Engine) Step() error {
	pc := e.state.pc
	if !inBounds(pc, opcodeSize) {
		return &MemoryError{Address: pc, Target: pc, Count: opcodeSize}
	}
	opcode := uint16(e.state.memory[pc])<<8 | uint16(e.state.memory[pc+1])

	if e.tracer != nil {
		e.tracer(pc, opcode)
	}

	return e.execute(opcode)
}

// setStatus updates the execution status and logs transitions.
func (e *Engine) setStatus(status Status) {
	if e.status == status {
		return
	}
	e.status = status
	if e.logger != nil {
		e.logger.Debug("Execution status changed",
			log.Stringer("status", status),
			log.Hex("pc", e.state.pc))
	}
}
