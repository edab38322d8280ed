// Package keymap maps keyboard characters to CHIP-8 keypad keys.
//
// The hexadecimal keypad is mapped to the left side of a QWERTY keyboard:
//
//	Keypad      Keyboard
//	1 2 3 C     1 2 3 4
//	4 5 6 D     q w e r
//	7 8 9 E     a s d f
//	A 0 B F     z x c v
package keymap

import "unicode"

// layout contains the keyboard character for every keypad key 0-F.
var layout = [16]rune{
	'x',                // 0
	'1', '2', '3',      // 1-3
	'q', 'w', 'e',      // 4-6
	'a', 's', 'd',      // 7-9
	'z', 'c',           // A-B
	'4', 'r', 'f', 'v', // C-F
}

var keys = func() map[rune]uint8 {
	m := make(map[rune]uint8, len(layout))
	for key, r := range layout {
		m[r] = uint8(key)
	}
	return m
}()

// Lookup returns the keypad key for a keyboard character. Letters are matched
// case insensitive.
func Lookup(r rune) (uint8, bool) {
	key, ok := keys[unicode.ToLower(r)]
	return key, ok
}

// Rune returns the keyboard character of a keypad key.
func Rune(key uint8) rune {
	return layout[key&0x0F]
}
