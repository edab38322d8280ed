package detector

import (
	"testing"

	"github.com/retroenv/chip8vm/internal/options"
	"github.com/retroenv/retrogolib/arch"
	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

func TestDetect(t *testing.T) {
	logger := log.NewTestLogger(t)
	d := New(logger)

	tests := []struct {
		name      string
		systemOpt string
		inputFile string
		wantErr   bool
	}{
		{
			name:      "explicit CHIP8 system option",
			systemOpt: "chip8",
			inputFile: "game.bin",
		},
		{
			name:      "explicit NES system option",
			systemOpt: "nes",
			inputFile: "game.ch8",
			wantErr:   true,
		},
		{
			name:      "unknown system option",
			systemOpt: "c64",
			inputFile: "game.ch8",
			wantErr:   true,
		},
		{
			name:      "detect from .ch8 extension",
			inputFile: "game.ch8",
		},
		{
			name:      "detect from .rom extension",
			inputFile: "game.ROM",
		},
		{
			name:      "file without extension",
			inputFile: "roms/PONG2",
		},
		{
			name:      "detect NES from .nes extension",
			inputFile: "game.nes",
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := options.Program{
				Parameters: options.Parameters{Input: tt.inputFile},
				Flags:      options.Flags{System: tt.systemOpt},
			}

			got, err := d.Detect(opts)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, arch.CHIP8System, got)
		})
	}
}

func TestDetectFromFile(t *testing.T) {
	d := New(log.NewTestLogger(t))

	assert.Equal(t, arch.NES, d.detectFromFile("game.NES"))
	assert.Equal(t, arch.CHIP8System, d.detectFromFile("game.c8"))
	assert.Equal(t, arch.CHIP8System, d.detectFromFile("game.bin"))
}
