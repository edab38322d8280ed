package emulator

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/retroenv/chip8vm/internal/chip8"
	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

type fakeInput struct {
	keys  chip8.Keys
	calls int
}

func (f *fakeInput) Keys() chip8.Keys {
	f.calls++
	return f.keys
}

type fakeDisplay struct {
	frames []chip8.Frame
	err    error
}

func (f *fakeDisplay) Render(frame chip8.Frame) error {
	f.frames = append(f.frames, frame)
	return f.err
}

func newTestEmulator(t *testing.T, cycles int, input Input, display Display, program ...byte) *Emulator {
	t.Helper()
	state := chip8.NewState()
	assert.NoError(t, state.LoadProgram(program))
	logger := log.NewTestLogger(t)
	engine := chip8.New(state, chip8.WithLogger(logger), chip8.WithTracer(Tracer(logger)))
	return New(logger, engine, input, display, Config{
		CyclesPerFrame: cycles,
		FrameDuration:  time.Millisecond,
	})
}

func TestEmulator_Frame(t *testing.T) {
	display := &fakeDisplay{}
	// LD V0, $05; LD V1, $03; ADD V0, V1; JP $206
	e := newTestEmulator(t, 4, nil, display, 0x60, 0x05, 0x61, 0x03, 0x80, 0x14, 0x12, 0x06)

	assert.NoError(t, e.Frame())

	state := e.engine.State()
	assert.Equal(t, uint8(8), state.Register(0))
	assert.Equal(t, uint16(0x206), state.PC())
	assert.Equal(t, Stats{Cycles: 4, Frames: 1}, e.Stats())
	assert.Len(t, display.frames, 0)
}

func TestEmulator_FrameRendersDirtyDisplay(t *testing.T) {
	display := &fakeDisplay{}
	// LD I, $000; DRW V0, V0, 5; JP $204
	e := newTestEmulator(t, 3, nil, display, 0xA0, 0x00, 0xD0, 0x05, 0x12, 0x04)

	assert.NoError(t, e.Frame())
	assert.Len(t, display.frames, 1)
	assert.True(t, display.frames[0][0][0])
	assert.False(t, e.engine.State().Dirty())

	// the display did not change in the second frame
	assert.NoError(t, e.Frame())
	assert.Len(t, display.frames, 1)
}

func TestEmulator_FrameTicksTimersOnce(t *testing.T) {
	// LD V0, $0A; LD DT, V0; JP $204
	e := newTestEmulator(t, 10, nil, nil, 0x60, 0x0A, 0xF0, 0x15, 0x12, 0x04)

	assert.NoError(t, e.Frame())
	assert.Equal(t, uint8(9), e.engine.State().DelayTimer())

	assert.NoError(t, e.RunFrames(context.Background(), 3))
	assert.Equal(t, uint8(6), e.engine.State().DelayTimer())
}

func TestEmulator_FrameRefreshesKeys(t *testing.T) {
	input := &fakeInput{}
	// LD V3, K; JP $202
	e := newTestEmulator(t, 5, input, nil, 0xF3, 0x0A, 0x12, 0x02)

	assert.NoError(t, e.Frame())
	assert.Equal(t, 1, input.calls)
	assert.Equal(t, chip8.WaitingForKey, e.engine.Status())
	assert.Equal(t, uint64(1), e.Stats().Cycles)
	assert.Equal(t, uint16(0x200), e.engine.State().PC())

	input.keys[0xE] = true
	assert.NoError(t, e.Frame())
	assert.Equal(t, chip8.Running, e.engine.Status())
	assert.Equal(t, uint8(0xE), e.engine.State().Register(3))
	assert.Equal(t, uint16(0x202), e.engine.State().PC())
}

func TestEmulator_UnknownOpcodeContinues(t *testing.T) {
	// unknown $0123; LD V0, $01; JP $204
	e := newTestEmulator(t, 2, nil, nil, 0x01, 0x23, 0x60, 0x01, 0x12, 0x04)

	assert.NoError(t, e.Frame())
	assert.Equal(t, uint8(1), e.engine.State().Register(0))
	assert.Equal(t, uint64(1), e.Stats().UnknownOpcodes)
}

func TestEmulator_FatalFaultHalts(t *testing.T) {
	e := newTestEmulator(t, 1, nil, nil, 0x00, 0xEE)

	err := e.Frame()
	assert.Error(t, err)
	assert.True(t, errors.Is(err, chip8.ErrStackUnderflow))

	err = e.RunFrames(context.Background(), 5)
	assert.True(t, errors.Is(err, chip8.ErrStackUnderflow))
}

func TestEmulator_RenderError(t *testing.T) {
	display := &fakeDisplay{err: errors.New("closed")}
	e := newTestEmulator(t, 1, nil, display, 0x00, 0xE0)

	err := e.Frame()
	assert.ErrorContains(t, err, "rendering frame")
}

func TestEmulator_RunFramesCancelled(t *testing.T) {
	e := newTestEmulator(t, 1, nil, nil, 0x12, 0x00)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := e.RunFrames(ctx, 10)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, uint64(0), e.Stats().Frames)
}

func TestEmulator_Run(t *testing.T) {
	e := newTestEmulator(t, 1, nil, nil, 0x12, 0x00)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := e.Run(ctx)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	assert.True(t, e.Stats().Frames > 0)
}

func TestEmulator_RunStopsOnFault(t *testing.T) {
	e := newTestEmulator(t, 1, nil, nil, 0x00, 0xEE)

	err := e.Run(context.Background())
	assert.True(t, errors.Is(err, chip8.ErrStackUnderflow))
}

func TestNew_MinimumCycles(t *testing.T) {
	e := newTestEmulator(t, 0, nil, nil, 0x12, 0x00)
	assert.NoError(t, e.Frame())
	assert.Equal(t, uint64(1), e.Stats().Cycles)
}
