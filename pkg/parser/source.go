package parser

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// maxLineSize bounds a single log line; solver banners never come close.
const maxLineSize = 1024 * 1024

// FileSource implements LogSource for reading from log files.
type FileSource struct {
	files []string

	currentFile    *os.File
	currentScanner *bufio.Scanner
	currentSource  string
	currentLine    int
	fileIndex      int
}

// NewFileSource creates a LogSource that reads the given files in order.
func NewFileSource(files ...string) *FileSource {
	return &FileSource{
		files:     files,
		fileIndex: -1,
	}
}

// Next returns the next line of the current file, moving on to the next file
// when one is exhausted. Returns io.EOF when all files have been read.
func (s *FileSource) Next(ctx context.Context) (*LogLine, error) {
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		if s.currentScanner == nil {
			if err := s.openNextFile(); err != nil {
				return nil, err
			}
		}

		if s.currentScanner.Scan() {
			s.currentLine++
			return &LogLine{
				Content: strings.TrimSuffix(s.currentScanner.Text(), "\r"),
				Source:  s.currentSource,
				LineNum: s.currentLine,
			}, nil
		}

		if err := s.currentScanner.Err(); err != nil {
			return nil, fmt.Errorf("reading %s: %w", s.currentSource, err)
		}

		if err := s.closeCurrentFile(); err != nil {
			return nil, err
		}
	}
}

// Close releases resources.
func (s *FileSource) Close() error {
	return s.closeCurrentFile()
}

func (s *FileSource) openNextFile() error {
	s.fileIndex++
	if s.fileIndex >= len(s.files) {
		return io.EOF
	}

	path := s.files[s.fileIndex]
	f, err := os.Open(path) // #nosec G304 -- user-provided paths are expected
	if err != nil {
		return fmt.Errorf("opening log file %s: %w", path, err)
	}

	s.currentFile = f
	s.currentScanner = bufio.NewScanner(f)
	s.currentScanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	s.currentSource = path
	s.currentLine = 0

	return nil
}

func (s *FileSource) closeCurrentFile() error {
	if s.currentFile != nil {
		err := s.currentFile.Close()
		s.currentFile = nil
		s.currentScanner = nil
		return err
	}
	return nil
}

// LineSource implements LogSource over lines already held in memory.
type LineSource struct {
	lines  []string
	source string
	pos    int
}

// NewLineSource creates a LogSource over the given lines. The source name
// is reported on every returned LogLine.
func NewLineSource(source string, lines []string) *LineSource {
	return &LineSource{lines: lines, source: source}
}

// Next returns the next line, or io.EOF once all lines were returned.
func (s *LineSource) Next(ctx context.Context) (*LogLine, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.pos >= len(s.lines) {
		return nil, io.EOF
	}
	s.pos++
	return &LogLine{
		Content: s.lines[s.pos-1],
		Source:  s.source,
		LineNum: s.pos,
	}, nil
}

// Close is a no-op.
func (s *LineSource) Close() error {
	return nil
}

// ReadLines reads a whole log file into memory, one element per line.
func ReadLines(ctx context.Context, path string) ([]string, error) {
	src := NewFileSource(path)
	defer src.Close()

	var lines []string
	for {
		line, err := src.Next(ctx)
		if errors.Is(err, io.EOF) {
			return lines, nil
		}
		if err != nil {
			return nil, err
		}
		lines = append(lines, line.Content)
	}
}
