// Package terminal provides keypad input and display output on a posix
// terminal. It is a wrapper for "github.com/pkg/term/termios" that switches
// the input into raw mode so that key presses are delivered immediately.
package terminal

import (
	"fmt"
	"os"
	"time"

	"github.com/pkg/term/termios"
	"github.com/retroenv/chip8vm/internal/chip8"
	"github.com/retroenv/retrogolib/log"
	"golang.org/x/sys/unix"
)

const (
	hideCursor  = "\x1b[?25l"
	showCursor  = "\x1b[?25h"
	clearScreen = "\x1b[2J"
)

// Terminal is the keypad input of the virtual machine on a posix terminal.
type Terminal struct {
	logger *log.Logger
	input  *os.File
	output *os.File

	canAttr unix.Termios
	rawAttr unix.Termios

	keys *keyState
}

// Open puts the input terminal into raw mode and starts reading key presses.
// Restore must be called to return the terminal to canonical mode.
func Open(logger *log.Logger, input, output *os.File, hold time.Duration) (*Terminal, error) {
	if input == nil || output == nil {
		return nil, fmt.Errorf("terminal requires an input and an output file")
	}

	t := &Terminal{
		logger: logger,
		input:  input,
		output: output,
		keys:   newKeyState(hold),
	}

	if err := termios.Tcgetattr(t.input.Fd(), &t.canAttr); err != nil {
		return nil, fmt.Errorf("reading terminal attributes: %w", err)
	}
	t.rawAttr = t.canAttr
	termios.Cfmakeraw(&t.rawAttr)
	if err := termios.Tcsetattr(t.input.Fd(), termios.TCIFLUSH, &t.rawAttr); err != nil {
		return nil, fmt.Errorf("setting raw mode: %w", err)
	}

	_, _ = t.output.WriteString(hideCursor + clearScreen)

	go func() {
		if err := t.keys.readKeys(t.input, time.Now); err != nil {
			t.logger.Error("Reading terminal input failed", log.Err(err))
		}
	}()

	return t, nil
}

// Restore puts the terminal back into canonical mode.
func (t *Terminal) Restore() error {
	_, _ = t.output.WriteString(showCursor)
	if err := termios.Tcsetattr(t.input.Fd(), termios.TCIFLUSH, &t.canAttr); err != nil {
		return fmt.Errorf("restoring canonical mode: %w", err)
	}
	return nil
}

// Keys returns the snapshot of the currently held keys.
func (t *Terminal) Keys() chip8.Keys {
	return t.keys.snapshot(time.Now())
}

// Done returns a channel that is closed when the user requests to quit by
// pressing Escape or Ctrl+C.
func (t *Terminal) Done() <-chan struct{} {
	return t.keys.quit
}

// Size returns the number of columns and rows of the output terminal.
func (t *Terminal) Size() (int, int, error) {
	ws, err := unix.IoctlGetWinsize(int(t.output.Fd()), unix.TIOCGWINSZ)
	if err != nil {
		return 0, 0, fmt.Errorf("reading terminal size: %w", err)
	}
	return int(ws.Col), int(ws.Row), nil
}

// Output returns the output file of the terminal.
func (t *Terminal) Output() *os.File {
	return t.output
}
