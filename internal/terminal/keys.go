package terminal

import (
	"bufio"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/retroenv/chip8vm/internal/chip8"
	"github.com/retroenv/chip8vm/internal/keymap"
)

// list of ASCII codes that end the emulation
const (
	keyInterrupt = 3 // end-of-text character
	keyEsc       = 27
)

// keyState tracks key presses of a terminal. Terminals only deliver key press
// characters and no release events, a key therefore counts as held for the
// hold duration after its last press.
type keyState struct {
	mu      sync.Mutex
	hold    time.Duration
	pressed [chip8.KeyCount]time.Time

	quit     chan struct{}
	quitOnce sync.Once
}

func newKeyState(hold time.Duration) *keyState {
	return &keyState{
		hold: hold,
		quit: make(chan struct{}),
	}
}

// press records a key press of the given character at the given time.
func (k *keyState) press(r rune, at time.Time) {
	if r == keyInterrupt || r == keyEsc {
		k.requestQuit()
		return
	}

	key, ok := keymap.Lookup(r)
	if !ok {
		return
	}

	k.mu.Lock()
	k.pressed[key] = at
	k.mu.Unlock()
}

// snapshot returns the keys that are held at the given time.
func (k *keyState) snapshot(now time.Time) chip8.Keys {
	k.mu.Lock()
	defer k.mu.Unlock()

	var keys chip8.Keys
	for key, at := range k.pressed {
		if at.IsZero() {
			continue
		}
		keys[key] = now.Sub(at) < k.hold
	}
	return keys
}

func (k *keyState) requestQuit() {
	k.quitOnce.Do(func() {
		close(k.quit)
	})
}

// readKeys reads characters from the reader until it fails and records them
// as key presses. The end of the input requests to quit.
func (k *keyState) readKeys(reader io.Reader, now func() time.Time) error {
	buf := bufio.NewReader(reader)
	for {
		r, _, err := buf.ReadRune()
		if err != nil {
			k.requestQuit()
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		k.press(r, now())
	}
}
