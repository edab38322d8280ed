package chip8

import "fmt"

// CHIP-8 machine layout constants.
//
// CHIP-8 memory map (4KB total):
//
//	0x000-0x04F: Font glyphs 0-F (16 glyphs of 5 bytes)
//	0x050-0x1FF: Unused interpreter area
//	0x200-0xFFF: Program space (3584 bytes)
//
// The display, stack and keypad are kept outside of the addressable memory.
const (
	// MemorySize is the size of the addressable memory in bytes.
	MemorySize = 4096

	// FontAddress is the memory address of the first font glyph.
	FontAddress = 0x000

	// ProgramStart is the memory address where programs are loaded and where
	// execution begins.
	ProgramStart = 0x200

	// MaxProgramSize is the largest program image that fits into memory.
	MaxProgramSize = MemorySize - ProgramStart

	// RegisterCount is the number of general purpose registers V0-VF.
	RegisterCount = 16

	// FlagRegister is the index of VF, used as carry, borrow and collision flag.
	FlagRegister = 0xF

	// StackSize is the number of return addresses the call stack can hold.
	StackSize = 16

	// KeyCount is the number of keys of the hexadecimal keypad.
	KeyCount = 16

	// DisplayWidth is the width of the display in pixels.
	DisplayWidth = 64

	// DisplayHeight is the height of the display in pixels.
	DisplayHeight = 32

	// addressMask limits the index register to 12 significant bits.
	addressMask = 0x0FFF
)

// Frame is a snapshot of the monochrome display, indexed as [y][x].
type Frame [DisplayHeight][DisplayWidth]bool

// Keys is a snapshot of the keypad, one flag per key 0-F that is true while
// the key is held.
type Keys [KeyCount]bool

// State contains the complete machine state of a CHIP-8 system.
// It is exclusively owned by a single Engine, the only other writers are the
// input collaborator through SetKeys and the driver through TickTimers and
// ConsumeFrame, both of which must only be called between cycles.
type State struct {
	memory [MemorySize]byte
	v      [RegisterCount]uint8
	i      uint16
	pc     uint16

	stack [StackSize]uint16
	sp    int // number of return addresses on the stack

	display Frame
	keys    Keys

	delayTimer uint8
	soundTimer uint8

	dirty bool
}

// NewState returns a new machine state with zeroed registers, the font
// installed and the program counter at the program start address.
func NewState() *State {
	s := &State{}
	s.Reset()
	return s
}

// Reset puts the machine into its power-on state. Any loaded program is
// removed from memory.
func (s *State) Reset() {
	*s = State{}
	copy(s.memory[FontAddress:], font[:])
	s.pc = ProgramStart
}

// LoadProgram copies the program image into memory starting at ProgramStart.
// An image that does not fit into the remaining memory is rejected and the
// memory is left untouched.
func (s *State) LoadProgram(data []byte) error {
	if len(data) > MaxProgramSize {
		return fmt.Errorf("%w: %d bytes, maximum is %d", ErrProgramTooLarge, len(data), MaxProgramSize)
	}
	copy(s.memory[ProgramStart:], data)
	return nil
}

// Memory returns the byte at the given address. Addresses outside of the
// memory return 0.
func (s *State) Memory(address uint16) byte {
	if int(address) >= MemorySize {
		return 0
	}
	return s.memory[address]
}

// Register returns the value of register Vx. Only the low nibble of x is used.
func (s *State) Register(x uint8) uint8 {
	return s.v[x&0x0F]
}

// IndexRegister returns the value of the address register I.
func (s *State) IndexRegister() uint16 {
	return s.i
}

// PC returns the program counter.
func (s *State) PC() uint16 {
	return s.pc
}

// StackDepth returns the number of return addresses on the call stack.
func (s *State) StackDepth() int {
	return s.sp
}

// Pixel returns whether the display pixel at the given position is set.
// Coordinates wrap around the display size.
func (s *State) Pixel(x, y int) bool {
	return s.display[y%DisplayHeight][x%DisplayWidth]
}

// Frame returns a copy of the display.
func (s *State) Frame() Frame {
	return s.display
}

// Dirty returns whether the display changed since the last ConsumeFrame call.
func (s *State) Dirty() bool {
	return s.dirty
}

// ConsumeFrame returns a copy of the display and clears the dirty flag.
func (s *State) ConsumeFrame() Frame {
	s.dirty = false
	return s.display
}

// Keys returns the current keypad snapshot.
func (s *State) Keys() Keys {
	return s.keys
}

// SetKeys replaces the keypad snapshot.
func (s *State) SetKeys(keys Keys) {
	s.keys = keys
}

// SetKey sets the held state of a single key. Only the low nibble of key is used.
func (s *State) SetKey(key uint8, held bool) {
	s.keys[key&0x0F] = held
}

// DelayTimer returns the value of the delay timer.
func (s *State) DelayTimer() uint8 {
	return s.delayTimer
}

// SoundTimer returns the value of the sound timer.
func (s *State) SoundTimer() uint8 {
	return s.soundTimer
}

// TickTimers decrements both timers by one if they are above zero.
// It is called by the driver at the timer cadence, never by instructions.
func (s *State) TickTimers() {
	if s.delayTimer > 0 {
		s.delayTimer--
	}
	if s.soundTimer > 0 {
		s.soundTimer--
	}
}

// inBounds reports whether count bytes starting at address are inside memory.
func inBounds(address uint16, count int) bool {
	return int(address)+count <= MemorySize
}
