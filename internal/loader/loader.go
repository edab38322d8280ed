// Package loader handles program image loading operations.
package loader

import (
	"fmt"
	"io"
	"os"

	"github.com/retroenv/chip8vm/internal/chip8"
)

// Loader handles loading program images from disk.
type Loader struct {
	maxSize int
}

// New creates a new program image loader that accepts images that fit into
// the program space of the machine.
func New() *Loader {
	return &Loader{
		maxSize: chip8.MaxProgramSize,
	}
}

// Load reads the program image file. CHIP-8 images are flat byte sequences
// without any header. An image that does not fit into the program space is
// rejected before it is loaded into a machine.
func (l *Loader) Load(path string) ([]byte, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening file %s: %w", path, err)
	}
	defer func() { _ = file.Close() }()

	data, err := l.LoadFromReader(file)
	if err != nil {
		return nil, fmt.Errorf("loading program %s: %w", path, err)
	}
	return data, nil
}

// LoadFromReader reads a program image from the reader. At most one byte more
// than the maximum image size is read to detect oversized images.
func (l *Loader) LoadFromReader(reader io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(reader, int64(l.maxSize)+1))
	if err != nil {
		return nil, fmt.Errorf("reading program: %w", err)
	}
	if len(data) > l.maxSize {
		return nil, fmt.Errorf("%w: image exceeds %d bytes", chip8.ErrProgramTooLarge, l.maxSize)
	}
	return data, nil
}
