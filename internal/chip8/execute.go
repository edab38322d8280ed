package chip8

// extractRegisterX extracts the X register nibble from an opcode.
func extractRegisterX(opcode uint16) uint8 {
	return uint8((opcode & 0x0F00) >> 8)
}

// extractRegisterY extracts the Y register nibble from an opcode.
func extractRegisterY(opcode uint16) uint8 {
	return uint8((opcode & 0x00F0) >> 4)
}

// extractNibble extracts the lowest nibble of an opcode.
func extractNibble(opcode uint16) uint8 {
	return uint8(opcode & 0x000F)
}

// extractByte extracts the low byte of an opcode.
func extractByte(opcode uint16) uint8 {
	return uint8(opcode & 0x00FF)
}

// extractAddress extracts the 12 bit address of an opcode.
func extractAddress(opcode uint16) uint16 {
	return opcode & 0x0FFF
}

// execute runs a single decoded instruction. Every instruction sets its
// own program counter.
func (e *Engine) execute(opcode uint16) error {
	switch opcode & 0xF000 {
	case 0x0000:
		return e.executeSystem(opcode)
	case 0x1000:
		e.state.pc = extractAddress(opcode)
	case 0x2000:
		return e.call(opcode)
	case 0x3000:
		e.skipIf(e.state.v[extractRegisterX(opcode)] == extractByte(opcode))
	case 0x4000:
		e.skipIf(e.state.v[extractRegisterX(opcode)] != extractByte(opcode))
	case 0x5000:
		if extractNibble(opcode) != 0 {
			return e.unknown(opcode)
		}
		e.skipIf(e.state.v[extractRegisterX(opcode)] == e.state.v[extractRegisterY(opcode)])
	case 0x6000:
		e.state.v[extractRegisterX(opcode)] = extractByte(opcode)
		e.state.pc += opcodeSize
	case 0x7000:
		e.state.v[extractRegisterX(opcode)] += extractByte(opcode)
		e.state.pc += opcodeSize
	case 0x8000:
		return e.executeArithmetic(opcode)
	case 0x9000:
		if extractNibble(opcode) != 0 {
			return e.unknown(opcode)
		}
		e.skipIf(e.state.v[extractRegisterX(opcode)] != e.state.v[extractRegisterY(opcode)])
	case 0xA000:
		e.state.i = extractAddress(opcode) & addressMask
		e.state.pc += opcodeSize
	case 0xB000:
		e.state.pc = extractAddress(opcode) + uint16(e.state.v[0])
	case 0xC000:
		e.state.v[extractRegisterX(opcode)] = uint8(e.random.Uint32()) & extractByte(opcode)
		e.state.pc += opcodeSize
	case 0xD000:
		return e.draw(opcode)
	case 0xE000:
		return e.executeKeySkip(opcode)
	default: // 0xF000
		return e.executeMisc(opcode)
	}
	return nil
}

// executeSystem handles the 0x0 instruction family.
func (e *Engine) executeSystem(opcode uint16) error {
	switch opcode {
	case 0x00E0:
		e.state.display = Frame{}
		e.state.dirty = true
		e.state.pc += opcodeSize
		return nil
	case 0x00EE:
		return e.ret(opcode)
	default:
		return e.unknown(opcode)
	}
}

// call pushes the address of the call instruction and jumps to the target.
func (e *Engine) call(opcode uint16) error {
	s := e.state
	if s.sp >= StackSize {
		return &StackError{Address: s.pc, Opcode: opcode, Err: ErrStackOverflow}
	}
	s.stack[s.sp] = s.pc
	s.sp++
	s.pc = extractAddress(opcode)
	return nil
}

// ret pops the address of the call instruction and continues after it.
func (e *Engine) ret(opcode uint16) error {
	s := e.state
	if s.sp == 0 {
		return &StackError{Address: s.pc, Opcode: opcode, Err: ErrStackUnderflow}
	}
	s.sp--
	s.pc = s.stack[s.sp] + opcodeSize
	return nil
}

// skipIf skips the next instruction if the condition is true.
func (e *Engine) skipIf(condition bool) {
	if condition {
		e.state.pc += 2 * opcodeSize
		return
	}
	e.state.pc += opcodeSize
}

// unknown advances past an unrecognized instruction and reports it.
func (e *Engine) unknown(opcode uint16) error {
	address := e.state.pc
	e.state.pc += opcodeSize
	return &OpcodeError{Address: address, Opcode: opcode}
}

// executeArithmetic handles the 8xyN register to register instructions.
func (e *Engine) executeArithmetic(opcode uint16) error {
	v := &e.state.v
	x := extractRegisterX(opcode)
	y := extractRegisterY(opcode)

	switch extractNibble(opcode) {
	case 0x0:
		v[x] = v[y]
	case 0x1:
		v[x] |= v[y]
	case 0x2:
		v[x] &= v[y]
	case 0x3:
		v[x] ^= v[y]
	case 0x4:
		sum := uint16(v[x]) + uint16(v[y])
		v[x] = uint8(sum)
		v[FlagRegister] = boolToFlag(sum > 0xFF)
	case 0x5:
		noBorrow := v[x] >= v[y]
		v[x] -= v[y]
		v[FlagRegister] = boolToFlag(noBorrow)
	case 0x6:
		lsb := v[x] & 0x01
		v[x] >>= 1
		v[FlagRegister] = lsb
	case 0x7:
		noBorrow := v[y] >= v[x]
		v[x] = v[y] - v[x]
		v[FlagRegister] = boolToFlag(noBorrow)
	case 0xE:
		msb := v[x] >> 7
		v[x] <<= 1
		v[FlagRegister] = msb
	default:
		return e.unknown(opcode)
	}

	e.state.pc += opcodeSize
	return nil
}

// draw XORs an n row sprite from memory at I onto the display at (Vx, Vy).
// Pixels wrap around the display edges. VF is set if a set pixel was cleared.
func (e *Engine) draw(opcode uint16) error {
	s := e.state
	rows := int(extractNibble(opcode))
	if !inBounds(s.i, rows) {
		return &MemoryError{Address: s.pc, Opcode: opcode, Target: s.i, Count: rows}
	}

	originX := int(s.v[extractRegisterX(opcode)])
	originY := int(s.v[extractRegisterY(opcode)])
	collision := false

	for row := range rows {
		sprite := s.memory[int(s.i)+row]
		y := (originY + row) % DisplayHeight

		for col := range 8 {
			if sprite&(0x80>>col) == 0 {
				continue
			}
			x := (originX + col) % DisplayWidth
			if s.display[y][x] {
				collision = true
			}
			s.display[y][x] = !s.display[y][x]
		}
	}

	s.v[FlagRegister] = boolToFlag(collision)
	s.dirty = true
	s.pc += opcodeSize
	return nil
}

// executeKeySkip handles the Ex9E and ExA1 keypad skip instructions.
func (e *Engine) executeKeySkip(opcode uint16) error {
	key := e.state.v[extractRegisterX(opcode)] & 0x0F

	switch extractByte(opcode) {
	case 0x9E:
		e.skipIf(e.state.keys[key])
	case 0xA1:
		e.skipIf(!e.state.keys[key])
	default:
		return e.unknown(opcode)
	}
	return nil
}

// executeMisc handles the Fx instruction family.
func (e *Engine) executeMisc(opcode uint16) error {
	s := e.state
	x := extractRegisterX(opcode)

	switch extractByte(opcode) {
	case 0x07:
		s.v[x] = s.delayTimer
	case 0x0A:
		return e.waitForKey(x)
	case 0x15:
		s.delayTimer = s.v[x]
	case 0x18:
		s.soundTimer = s.v[x]
	case 0x1E:
		s.i += uint16(s.v[x])
	case 0x29:
		s.i = GlyphAddress(s.v[x])
	case 0x33:
		if !inBounds(s.i, 3) {
			return &MemoryError{Address: s.pc, Opcode: opcode, Target: s.i, Count: 3}
		}
		value := s.v[x]
		s.memory[s.i] = value / 100
		s.memory[s.i+1] = value / 10 % 10
		s.memory[s.i+2] = value % 10
	case 0x55:
		count := int(x) + 1
		if !inBounds(s.i, count) {
			return &MemoryError{Address: s.pc, Opcode: opcode, Target: s.i, Count: count}
		}
		copy(s.memory[s.i:], s.v[:count])
	case 0x65:
		count := int(x) + 1
		if !inBounds(s.i, count) {
			return &MemoryError{Address: s.pc, Opcode: opcode, Target: s.i, Count: count}
		}
		copy(s.v[:count], s.memory[s.i:])
	default:
		return e.unknown(opcode)
	}

	s.pc += opcodeSize
	return nil
}

// waitForKey stores the lowest held key in Vx. While no key is held the
// program counter is not advanced so that the instruction is executed again.
func (e *Engine) waitForKey(x uint8) error {
	s := e.state
	for key, held := range s.keys {
		if held {
			s.v[x] = uint8(key)
			s.pc += opcodeSize
			e.setStatus(Running)
			return nil
		}
	}
	e.setStatus(WaitingForKey)
	return nil
}

func boolToFlag(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}
