package pipeline

import (
	"fmt"
	"os"

	"github.com/bradleyjkemp/memviz"
	"github.com/retroenv/chip8vm/internal/chip8"
)

// machineSnapshot is the register view of the machine that gets written as
// graphviz graph. Memory and display are left out to keep the graph readable.
type machineSnapshot struct {
	Status     string
	PC         uint16
	I          uint16
	V          [chip8.RegisterCount]uint8
	StackDepth int
	DelayTimer uint8
	SoundTimer uint8
	Keys       chip8.Keys
	Cycles     uint64
	Frames     uint64
}

func newMachineSnapshot(result *Result) *machineSnapshot {
	state := result.State
	snapshot := &machineSnapshot{
		Status:     result.Status.String(),
		PC:         state.PC(),
		I:          state.IndexRegister(),
		StackDepth: state.StackDepth(),
		DelayTimer: state.DelayTimer(),
		SoundTimer: state.SoundTimer(),
		Keys:       state.Keys(),
		Cycles:     result.Stats.Cycles,
		Frames:     result.Stats.Frames,
	}
	for x := range chip8.RegisterCount {
		snapshot.V[x] = state.Register(uint8(x))
	}
	return snapshot
}

// writeMemviz writes a graphviz dot file of the final machine state.
func writeMemviz(fileName string, result *Result) error {
	file, err := os.Create(fileName)
	if err != nil {
		return fmt.Errorf("creating memviz file %s: %w", fileName, err)
	}

	memviz.Map(file, newMachineSnapshot(result))

	if err := file.Close(); err != nil {
		return fmt.Errorf("closing memviz file %s: %w", fileName, err)
	}
	return nil
}
