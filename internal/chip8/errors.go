package chip8

import (
	"errors"
	"fmt"
)

var (
	// ErrProgramTooLarge is returned when a program image does not fit into memory.
	ErrProgramTooLarge = errors.New("program too large")
	// ErrUnknownOpcode is returned for instruction words outside the instruction set.
	ErrUnknownOpcode = errors.New("unknown opcode")
	// ErrStackOverflow is returned when a call is executed with a full stack.
	ErrStackOverflow = errors.New("stack overflow")
	// ErrStackUnderflow is returned when a return is executed with an empty stack.
	ErrStackUnderflow = errors.New("stack underflow")
	// ErrMemoryBounds is returned for memory accesses outside of the address space.
	ErrMemoryBounds = errors.New("memory access out of bounds")
)

// OpcodeError reports an unrecognized instruction. It is not fatal, the
// program counter has already been advanced past the instruction.
type OpcodeError struct {
	Address uint16
	Opcode  uint16
}

func (e *OpcodeError) Error() string {
	return fmt.Sprintf("%s $%04X at $%03X", ErrUnknownOpcode, e.Opcode, e.Address)
}

func (e *OpcodeError) Unwrap() error {
	return ErrUnknownOpcode
}

// StackError reports a call with a full stack or a return with an empty stack.
type StackError struct {
	Address uint16
	Opcode  uint16
	Err     error // ErrStackOverflow or ErrStackUnderflow
}

func (e *StackError) Error() string {
	return fmt.Sprintf("%s: opcode $%04X at $%03X", e.Err, e.Opcode, e.Address)
}

func (e *StackError) Unwrap() error {
	return e.Err
}

// MemoryError reports an access of Count bytes starting at Target that
// exceeds the memory.
type MemoryError struct {
	Address uint16 // address of the instruction
	Opcode  uint16
	Target  uint16
	Count   int
}

func (e *MemoryError) Error() string {
	return fmt.Sprintf("%s: opcode $%04X at $%03X accesses %d bytes at $%04X",
		ErrMemoryBounds, e.Opcode, e.Address, e.Count, e.Target)
}

func (e *MemoryError) Unwrap() error {
	return ErrMemoryBounds
}

// IsFatal returns whether an error returned by Engine.Step should halt the
// execution. Unknown opcodes are reported but execution can continue.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	return !errors.Is(err, ErrUnknownOpcode)
}
