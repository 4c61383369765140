package parser

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestFileSource_Next(t *testing.T) {
	dir := t.TempDir()
	logFile := filepath.Join(dir, "highs.log")
	content := "Running HiGHS 1.7.0\r\nSolving MIP model with:\n   100 rows\n"
	if err := os.WriteFile(logFile, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	source := NewFileSource(logFile)
	defer source.Close()

	ctx := context.Background()
	var lines []*LogLine
	for {
		line, err := source.Next(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Next() error = %v", err)
		}
		lines = append(lines, line)
	}

	if len(lines) != 3 {
		t.Fatalf("Got %d lines, want 3", len(lines))
	}
	if lines[0].Content != "Running HiGHS 1.7.0" {
		t.Errorf("Content = %q, carriage return not stripped", lines[0].Content)
	}
	if lines[2].LineNum != 3 {
		t.Errorf("LineNum = %d, want 3", lines[2].LineNum)
	}
	if lines[0].Source != logFile {
		t.Errorf("Source = %q, want %q", lines[0].Source, logFile)
	}
}

func TestFileSource_MultipleFiles(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.log")
	b := filepath.Join(dir, "b.log")
	if err := os.WriteFile(a, []byte("one\ntwo\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(b, []byte("three\n"), 0644); err != nil {
		t.Fatal(err)
	}

	source := NewFileSource(a, b)
	defer source.Close()

	ctx := context.Background()
	count := 0
	var last *LogLine
	for {
		line, err := source.Next(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Next() error = %v", err)
		}
		count++
		last = line
	}

	if count != 3 {
		t.Errorf("Got %d lines, want 3", count)
	}
	if last.Source != b || last.LineNum != 1 {
		t.Errorf("last line = %s:%d, want %s:1", last.Source, last.LineNum, b)
	}
}

func TestFileSource_EmptyFile(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "empty.log")
	if err := os.WriteFile(logFile, nil, 0644); err != nil {
		t.Fatal(err)
	}

	source := NewFileSource(logFile)
	defer source.Close()

	if _, err := source.Next(context.Background()); err != io.EOF {
		t.Errorf("Next() error = %v, want io.EOF", err)
	}
}

func TestFileSource_FileNotFound(t *testing.T) {
	source := NewFileSource("/nonexistent/highs.log")
	defer source.Close()

	_, err := source.Next(context.Background())
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Next() error = %v, want os.ErrNotExist", err)
	}
}

func TestFileSource_ContextCancellation(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "highs.log")
	if err := os.WriteFile(logFile, []byte("line\n"), 0644); err != nil {
		t.Fatal(err)
	}

	source := NewFileSource(logFile)
	defer source.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := source.Next(ctx); err != context.Canceled {
		t.Errorf("Next() error = %v, want context.Canceled", err)
	}
}

func TestLineSource_Next(t *testing.T) {
	source := NewLineSource("mem", []string{"a", "b"})
	ctx := context.Background()

	first, err := source.Next(ctx)
	if err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	if first.Content != "a" || first.LineNum != 1 || first.Source != "mem" {
		t.Errorf("first line = %+v", first)
	}
	if _, err := source.Next(ctx); err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	if _, err := source.Next(ctx); err != io.EOF {
		t.Errorf("Next() error = %v, want io.EOF", err)
	}
}

func TestReadLines(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "highs.log")
	if err := os.WriteFile(logFile, []byte("a\nb\n\nc"), 0644); err != nil {
		t.Fatal(err)
	}

	lines, err := ReadLines(context.Background(), logFile)
	if err != nil {
		t.Fatalf("ReadLines() error = %v", err)
	}
	want := []string{"a", "b", "", "c"}
	if len(lines) != len(want) {
		t.Fatalf("ReadLines() = %q, want %q", lines, want)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestReadLines_Missing(t *testing.T) {
	if _, err := ReadLines(context.Background(), "/nonexistent/highs.log"); err == nil {
		t.Error("ReadLines() expected error for missing file")
	}
}
