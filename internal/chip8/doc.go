// Package chip8 implements the machine state and the execution engine of a
// CHIP-8 virtual machine.
//
// # Machine State
//
// State holds the 4KB memory with the font glyphs installed at FontAddress,
// the registers V0-VF, the address register I, the program counter, a 16 entry
// call stack, the 64x32 monochrome display, the 16 key keypad and the delay
// and sound timers.
//
// # Execution
//
// Engine.Step executes exactly one instruction. The driver calls it
// repeatedly, refreshes the keypad between calls with State.SetKeys,
// decrements the timers with State.TickTimers at its own cadence and renders
// the display when State.Dirty reports a change.
//
// Instruction behavior follows the original CHIP-8 interpreter with these
// choices for the ambiguous instructions:
//   - 8xy6 and 8xyE shift Vx in place and ignore Vy
//   - 8xy5 and 8xy7 set VF to 1 when no borrow occurred
//   - Dxyn wraps sprite pixels around the display edges
//   - Fx0A does not advance the program counter until a key is held
//
// # Errors
//
// Unknown instructions return an *OpcodeError and execution can continue.
// Stack overflows, stack underflows and memory accesses beyond 0xFFF return
// errors that IsFatal reports as fatal.
package chip8
