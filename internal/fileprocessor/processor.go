// Package fileprocessor handles file selection and processing operations
package fileprocessor

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/retroenv/chip8vm/internal/options"
	"github.com/retroenv/chip8vm/internal/pipeline"
	"github.com/retroenv/retrogolib/buildinfo"
	"github.com/retroenv/retrogolib/log"
)

// ProcessFile runs the program of the input file through the pipeline,
// listings and headless frames are written to the output.
func ProcessFile(ctx context.Context, logger *log.Logger, opts options.Program, output io.Writer) error {
	p := pipeline.New(logger)
	if _, err := p.Execute(ctx, opts, output); err != nil {
		return fmt.Errorf("processing %s: %w", opts.Input, err)
	}
	return nil
}

// GetFilesToProcess returns list of files to process based on options
func GetFilesToProcess(opts *options.Program) ([]string, error) {
	if opts.Batch != "" {
		matches, err := filepath.Glob(opts.Batch)
		if err != nil {
			return nil, fmt.Errorf("globbing batch pattern: %w", err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("no files match batch pattern '%s'", opts.Batch)
		}
		return matches, nil
	}
	return []string{opts.Input}, nil
}

// PrintBanner prints application version information
func PrintBanner(logger *log.Logger, opts options.Program, version, commit, date string) {
	if opts.Quiet {
		return
	}

	versionString := buildinfo.Version(version, commit, date)
	logger.Info("chip8vm", log.String("version", versionString))
}

// Output returns the writer for listings and headless frames of the file.
// In batch mode the output of every file is prefixed with its name.
func Output(base io.Writer, opts options.Program, file string) io.Writer {
	if opts.Batch == "" {
		return base
	}
	return &prefixWriter{writer: base, prefix: fmt.Sprintf("%s:\n", strings.TrimSpace(file))}
}

// prefixWriter writes a prefix before the first write.
type prefixWriter struct {
	writer  io.Writer
	prefix  string
	written bool
}

func (w *prefixWriter) Write(p []byte) (int, error) {
	if !w.written {
		w.written = true
		if _, err := io.WriteString(w.writer, w.prefix); err != nil {
			return 0, fmt.Errorf("writing prefix: %w", err)
		}
	}
	n, err := w.writer.Write(p)
	if err != nil {
		return n, fmt.Errorf("writing output: %w", err)
	}
	return n, nil
}
