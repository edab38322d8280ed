package disasm

import (
	"fmt"
	"io"
	"slices"
)

const (
	funcNaming  = "_func_%04x"
	labelNaming = "_label_%04x"
	dataNaming  = "_data_%04x"
)

// Line is a single disassembled instruction word of a program listing.
type Line struct {
	Address     uint16
	Opcode      uint16
	Label       string
	Instruction Instruction
}

// Listing disassembles a program image that is loaded at baseAddress.
// The image is decoded linearly in instruction word steps, a trailing odd
// byte is returned as data word. Addresses that are referenced by jumps,
// calls or index register loads inside the image get a label.
func Listing(program []byte, baseAddress uint16) []Line {
	lines := make([]Line, 0, (len(program)+1)/2)
	for offset := 0; offset < len(program); offset += 2 {
		opcode := uint16(program[offset]) << 8
		ins := Instruction{opcode: opcode}
		if offset+1 < len(program) {
			opcode |= uint16(program[offset+1])
			ins, _ = Decode(opcode)
		}
		lines = append(lines, Line{
			Address:     baseAddress + uint16(offset),
			Opcode:      opcode,
			Instruction: ins,
		})
	}

	labels := collectLabels(lines)
	for i, line := range lines {
		lines[i].Label = labels[line.Address]
	}
	return lines
}

// collectLabels generates label names for all referenced destinations that
// are part of the listing. Call destinations take precedence over jump and
// data destinations.
func collectLabels(lines []Line) map[uint16]string {
	addresses := make(map[uint16]struct{}, len(lines))
	for _, line := range lines {
		addresses[line.Address] = struct{}{}
	}

	naming := map[uint16]string{}
	for _, line := range lines {
		target := line.Opcode & 0x0FFF
		if _, ok := addresses[target]; !ok {
			continue
		}

		switch {
		case line.Instruction.IsCall():
			naming[target] = funcNaming
		case line.Instruction.IsJump() && line.Opcode&0xF000 == 0x1000:
			if naming[target] != funcNaming {
				naming[target] = labelNaming
			}
		case line.Opcode&0xF000 == 0xA000:
			if naming[target] == "" {
				naming[target] = dataNaming
			}
		}
	}

	destinations := make([]uint16, 0, len(naming))
	for dest := range naming {
		destinations = append(destinations, dest)
	}
	slices.Sort(destinations)

	labels := make(map[uint16]string, len(destinations))
	for _, address := range destinations {
		labels[address] = fmt.Sprintf(naming[address], address)
	}
	return labels
}

// WriteListing writes a program listing in assembly format.
func WriteListing(w io.Writer, lines []Line) error {
	for _, line := range lines {
		if line.Label != "" {
			if _, err := fmt.Fprintf(w, "%s:\n", line.Label); err != nil {
				return fmt.Errorf("writing label %s: %w", line.Label, err)
			}
		}
		var reference string
		if target, ok := labelTarget(line, lines); ok {
			reference = " -> " + target
		}
		if _, err := fmt.Fprintf(w, "  %-20s ; $%04X %04X%s\n",
			line.Instruction.String(), line.Address, line.Opcode, reference); err != nil {
			return fmt.Errorf("writing instruction at $%04X: %w", line.Address, err)
		}
	}
	return nil
}

// labelTarget returns the label of the address that an instruction references.
func labelTarget(line Line, lines []Line) (string, bool) {
	switch line.Opcode & 0xF000 {
	case 0x1000, 0x2000, 0xA000:
	default:
		return "", false
	}
	target := line.Opcode & 0x0FFF
	for _, other := range lines {
		if other.Address == target && other.Label != "" {
			return other.Label, true
		}
	}
	return "", false
}
