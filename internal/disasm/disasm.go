// Package disasm decodes CHIP-8 instruction words into assembly text.
// It is used for execution traces and for describing faulting instructions.
package disasm

import (
	"fmt"

	"github.com/retroenv/retrogolib/arch/cpu/chip8"
)

// Instruction represents a decoded CHIP-8 instruction word.
// It provides a bridge between the retrogolib CHIP-8 instruction definitions
// and the trace output of the virtual machine.
type Instruction struct {
	opcode uint16
	ins    *chip8.Instruction
}

// Decode looks up the instruction word in the CHIP-8 opcode table.
// It returns false if the word does not match any known instruction.
func Decode(opcode uint16) (Instruction, bool) {
	firstNibble := (opcode & 0xF000) >> 12
	for _, op := range chip8.Opcodes[int(firstNibble)] {
		if op.Info.Mask&opcode == op.Info.Value && op.Instruction != nil {
			return Instruction{opcode: opcode, ins: op.Instruction}, true
		}
	}
	return Instruction{opcode: opcode}, false
}

// Opcode returns the instruction word.
func (i Instruction) Opcode() uint16 {
	return i.opcode
}

// IsNil returns true if the instruction is unknown.
func (i Instruction) IsNil() bool {
	return i.ins == nil
}

// Name returns the instruction name.
func (i Instruction) Name() string {
	if i.ins == nil {
		return ""
	}
	return i.ins.Name
}

// IsCall returns true if the instruction is a call instruction.
func (i Instruction) IsCall() bool {
	return i.ins == chip8.CallInst
}

// IsJump returns true if the instruction is a jump instruction.
func (i Instruction) IsJump() bool {
	return i.ins == chip8.JpInst
}

// IsReturn returns true if the instruction is a return instruction.
func (i Instruction) IsReturn() bool {
	return i.ins == chip8.RetInst
}

// IsSkip returns true if the instruction is a conditional skip instruction.
func (i Instruction) IsSkip() bool {
	if i.ins == nil {
		return false
	}
	return chip8.SkipInstructions.Contains(i.ins.Name)
}

// String returns the assembly text of the instruction, unknown instruction
// words are returned as data word.
func (i Instruction) String() string {
	if i.ins == nil {
		return fmt.Sprintf("dw $%04X", i.opcode)
	}
	if params := formatInstruction(i.ins.Name, i.opcode); params != "" {
		return fmt.Sprintf("%s %s", i.ins.Name, params)
	}
	return i.ins.Name
}

// Format decodes the instruction word and returns its assembly text.
func Format(opcode uint16) string {
	ins, _ := Decode(opcode)
	return ins.String()
}

// formatInstruction formats the parameters of a CHIP-8 instruction.
func formatInstruction(name string, opcode uint16) string {
	switch name {
	case chip8.ClsInst.Name, chip8.RetInst.Name:
		return "" // No parameters
	case chip8.JpInst.Name:
		return formatJumpInstruction(opcode)
	case chip8.CallInst.Name:
		return fmt.Sprintf("$%03X", opcode&0x0FFF)
	case chip8.SeInst.Name, chip8.SneInst.Name:
		return formatCompareInstruction(opcode)
	case chip8.LdInst.Name:
		return formatLoadInstruction(opcode)
	case chip8.AddInst.Name:
		return formatAddInstruction(opcode)
	case chip8.OrInst.Name, chip8.AndInst.Name, chip8.XorInst.Name, chip8.SubInst.Name, chip8.SubnInst.Name:
		return formatBinaryInstruction(opcode)
	case chip8.ShrInst.Name, chip8.ShlInst.Name, chip8.SkpInst.Name, chip8.SknpInst.Name:
		return fmt.Sprintf("V%X", extractRegisterX(opcode))
	case chip8.RndInst.Name:
		return fmt.Sprintf("V%X, $%02X", extractRegisterX(opcode), opcode&0x00FF)
	case chip8.DrwInst.Name:
		return fmt.Sprintf("V%X, V%X, $%X", extractRegisterX(opcode), extractRegisterY(opcode), opcode&0x000F)
	}
	return ""
}

// formatJumpInstruction formats jump instructions (JP addr, JP V0+addr).
func formatJumpInstruction(opcode uint16) string {
	switch opcode & 0xF000 {
	case 0x1000:
		return fmt.Sprintf("$%03X", opcode&0x0FFF)
	case 0xB000:
		return fmt.Sprintf("V0, $%03X", opcode&0x0FFF)
	}
	return ""
}

// formatCompareInstruction formats comparison instructions (SE, SNE).
func formatCompareInstruction(opcode uint16) string {
	x := extractRegisterX(opcode)
	switch opcode & 0xF000 {
	case 0x3000, 0x4000:
		return fmt.Sprintf("V%X, $%02X", x, opcode&0x00FF)
	case 0x5000, 0x9000:
		return fmt.Sprintf("V%X, V%X", x, extractRegisterY(opcode))
	}
	return ""
}

// formatLoadInstruction formats all load variants, including the Fx timer,
// key, font, BCD and register transfer forms.
func formatLoadInstruction(opcode uint16) string {
	x := extractRegisterX(opcode)
	switch opcode & 0xF000 {
	case 0x6000:
		return fmt.Sprintf("V%X, $%02X", x, opcode&0x00FF)
	case 0x8000:
		return fmt.Sprintf("V%X, V%X", x, extractRegisterY(opcode))
	case 0xA000:
		return fmt.Sprintf("I, $%03X", opcode&0x0FFF)
	case 0xF000:
		return formatMiscLoadInstruction(x, opcode)
	}
	return ""
}

func formatMiscLoadInstruction(x, opcode uint16) string {
	switch opcode & 0x00FF {
	case 0x07:
		return fmt.Sprintf("V%X, DT", x)
	case 0x0A:
		return fmt.Sprintf("V%X, K", x)
	case 0x15:
		return fmt.Sprintf("DT, V%X", x)
	case 0x18:
		return fmt.Sprintf("ST, V%X", x)
	case 0x29:
		return fmt.Sprintf("F, V%X", x)
	case 0x33:
		return fmt.Sprintf("B, V%X", x)
	case 0x55:
		return fmt.Sprintf("[I], V%X", x)
	case 0x65:
		return fmt.Sprintf("V%X, [I]", x)
	}
	return ""
}

// formatAddInstruction formats add instructions (ADD Vx, byte/Vy, ADD I, Vx).
func formatAddInstruction(opcode uint16) string {
	x := extractRegisterX(opcode)
	switch opcode & 0xF000 {
	case 0x7000:
		return fmt.Sprintf("V%X, $%02X", x, opcode&0x00FF)
	case 0x8000:
		return fmt.Sprintf("V%X, V%X", x, extractRegisterY(opcode))
	case 0xF000:
		return fmt.Sprintf("I, V%X", x)
	}
	return ""
}

// formatBinaryInstruction formats binary operation instructions (OR, AND, XOR, SUB, SUBN).
func formatBinaryInstruction(opcode uint16) string {
	return fmt.Sprintf("V%X, V%X", extractRegisterX(opcode), extractRegisterY(opcode))
}

// extractRegisterX extracts the X register nibble from a CHIP-8 opcode.
func extractRegisterX(opcode uint16) uint16 {
	return (opcode & 0x0F00) >> 8
}

// extractRegisterY extracts the Y register nibble from a CHIP-8 opcode.
func extractRegisterY(opcode uint16) uint16 {
	return (opcode & 0x00F0) >> 4
}
