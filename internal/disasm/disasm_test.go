package disasm

import (
	"bytes"
	"testing"

	"github.com/retroenv/retrogolib/arch/cpu/chip8"
	"github.com/retroenv/retrogolib/assert"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name     string
		opcode   uint16
		expected *chip8.Instruction
	}{
		{"CLS instruction", 0x00E0, chip8.ClsInst},
		{"JP instruction", 0x1234, chip8.JpInst},
		{"CALL instruction", 0x2300, chip8.CallInst},
		{"SE instruction", 0x3234, chip8.SeInst},
		{"LD I instruction", 0xA234, chip8.LdInst},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ins, ok := Decode(tt.opcode)
			assert.True(t, ok)
			assert.False(t, ins.IsNil())
			assert.Equal(t, tt.expected.Name, ins.Name())
			assert.Equal(t, tt.opcode, ins.Opcode())
		})
	}
}

func TestDecode_Unknown(t *testing.T) {
	ins, ok := Decode(0xFFFF)
	assert.False(t, ok)
	assert.True(t, ins.IsNil())
	assert.Equal(t, "", ins.Name())
	assert.Equal(t, "dw $FFFF", ins.String())
}

func TestInstruction_Classification(t *testing.T) {
	tests := []struct {
		name   string
		ins    *chip8.Instruction
		call   bool
		jump   bool
		ret    bool
		isSkip bool
	}{
		{"call instruction", chip8.CallInst, true, false, false, false},
		{"jump instruction", chip8.JpInst, false, true, false, false},
		{"return instruction", chip8.RetInst, false, false, true, false},
		{"SE instruction", chip8.SeInst, false, false, false, true},
		{"SNE instruction", chip8.SneInst, false, false, false, true},
		{"SKP instruction", chip8.SkpInst, false, false, false, true},
		{"SKNP instruction", chip8.SknpInst, false, false, false, true},
		{"load instruction", chip8.LdInst, false, false, false, false},
		{"nil instruction", nil, false, false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ins := Instruction{ins: tt.ins}
			assert.Equal(t, tt.call, ins.IsCall())
			assert.Equal(t, tt.jump, ins.IsJump())
			assert.Equal(t, tt.ret, ins.IsReturn())
			assert.Equal(t, tt.isSkip, ins.IsSkip())
		})
	}
}

func TestFormatInstruction(t *testing.T) {
	tests := []struct {
		name      string
		instrName string
		opcode    uint16
		expected  string
	}{
		{"CLS instruction", chip8.ClsInst.Name, 0x00E0, ""},
		{"RET instruction", chip8.RetInst.Name, 0x00EE, ""},
		{"JP instruction", chip8.JpInst.Name, 0x1234, "$234"},
		{"JP V0 instruction", chip8.JpInst.Name, 0xB234, "V0, $234"},
		{"CALL instruction", chip8.CallInst.Name, 0x2234, "$234"},
		{"SE Vx, byte", chip8.SeInst.Name, 0x3234, "V2, $34"},
		{"SE Vx, Vy", chip8.SeInst.Name, 0x5230, "V2, V3"},
		{"SNE Vx, byte", chip8.SneInst.Name, 0x4234, "V2, $34"},
		{"SNE Vx, Vy", chip8.SneInst.Name, 0x9230, "V2, V3"},
		{"LD Vx, byte", chip8.LdInst.Name, 0x6234, "V2, $34"},
		{"LD Vx, Vy", chip8.LdInst.Name, 0x8230, "V2, V3"},
		{"LD I, addr", chip8.LdInst.Name, 0xA234, "I, $234"},
		{"LD Vx, DT", chip8.LdInst.Name, 0xF207, "V2, DT"},
		{"LD Vx, K", chip8.LdInst.Name, 0xF20A, "V2, K"},
		{"LD DT, Vx", chip8.LdInst.Name, 0xF215, "DT, V2"},
		{"LD ST, Vx", chip8.LdInst.Name, 0xF218, "ST, V2"},
		{"LD F, Vx", chip8.LdInst.Name, 0xF229, "F, V2"},
		{"LD B, Vx", chip8.LdInst.Name, 0xF233, "B, V2"},
		{"LD [I], Vx", chip8.LdInst.Name, 0xF255, "[I], V2"},
		{"LD Vx, [I]", chip8.LdInst.Name, 0xF265, "V2, [I]"},
		{"ADD Vx, byte", chip8.AddInst.Name, 0x7234, "V2, $34"},
		{"ADD Vx, Vy", chip8.AddInst.Name, 0x8234, "V2, V3"},
		{"ADD I, Vx", chip8.AddInst.Name, 0xF21E, "I, V2"},
		{"OR Vx, Vy", chip8.OrInst.Name, 0x8231, "V2, V3"},
		{"AND Vx, Vy", chip8.AndInst.Name, 0x8232, "V2, V3"},
		{"XOR Vx, Vy", chip8.XorInst.Name, 0x8233, "V2, V3"},
		{"SUB Vx, Vy", chip8.SubInst.Name, 0x8235, "V2, V3"},
		{"SUBN Vx, Vy", chip8.SubnInst.Name, 0x8237, "V2, V3"},
		{"SHR Vx", chip8.ShrInst.Name, 0x8236, "V2"},
		{"SHL Vx", chip8.ShlInst.Name, 0x823E, "V2"},
		{"RND Vx, byte", chip8.RndInst.Name, 0xC234, "V2, $34"},
		{"DRW Vx, Vy, n", chip8.DrwInst.Name, 0xD235, "V2, V3, $5"},
		{"SKP Vx", chip8.SkpInst.Name, 0xE29E, "V2"},
		{"SKNP Vx", chip8.SknpInst.Name, 0xE2A1, "V2"},
		{"unknown instruction", "unknown", 0x0000, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, formatInstruction(tt.instrName, tt.opcode))
		})
	}
}

func TestFormat(t *testing.T) {
	assert.Equal(t, chip8.ClsInst.Name, Format(0x00E0))
	assert.Equal(t, chip8.JpInst.Name+" $234", Format(0x1234))
	assert.Equal(t, chip8.LdInst.Name+" I, $234", Format(0xA234))
	assert.Equal(t, "dw $FFFF", Format(0xFFFF))
}

func TestListing(t *testing.T) {
	program := []byte{
		0x22, 0x06, // call $206
		0x12, 0x00, // jp $200
		0xA2, 0x08, // ld I, $208
		0x00, 0xEE, // ret
		0xF0, // trailing data byte
	}

	lines := Listing(program, 0x200)
	assert.Len(t, lines, 5)

	assert.Equal(t, "_label_0200", lines[0].Label)
	assert.Equal(t, "", lines[1].Label)
	assert.Equal(t, "_func_0206", lines[3].Label)
	assert.Equal(t, "_data_0208", lines[4].Label)
	assert.Equal(t, uint16(0x208), lines[4].Address)
	assert.True(t, lines[4].Instruction.IsNil())
	assert.True(t, lines[0].Instruction.IsCall())
	assert.True(t, lines[3].Instruction.IsReturn())
}

func TestListing_ExternalTargets(t *testing.T) {
	// targets outside of the program do not get labels
	lines := Listing([]byte{0x13, 0x00, 0x21, 0x00}, 0x200)
	for _, line := range lines {
		assert.Equal(t, "", line.Label)
	}
}

func TestWriteListing(t *testing.T) {
	program := []byte{0x22, 0x04, 0x12, 0x00, 0x00, 0xEE}
	var buf bytes.Buffer

	assert.NoError(t, WriteListing(&buf, Listing(program, 0x200)))

	output := buf.String()
	assert.Contains(t, output, "_label_0200:\n")
	assert.Contains(t, output, "_func_0204:\n")
	assert.Contains(t, output, "-> _func_0204")
	assert.Contains(t, output, "$0202 1200 -> _label_0200")
}
