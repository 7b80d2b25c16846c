package jsonl

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
)

const (
	// maxLineSize bounds a single log line. Extracted article text rides
	// inside raw records, so the default bufio token limit is far too small.
	maxLineSize = 16 * 1024 * 1024

	initialBufSize = 64 * 1024
)

// appendLine appends one line to the file, creating it if needed.
func appendLine(path string, line []byte) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open %s for append: %w", path, err)
	}

	buf := make([]byte, 0, len(line)+1)
	buf = append(buf, line...)
	buf = append(buf, '\n')

	if _, err := f.Write(buf); err != nil {
		f.Close()
		return fmt.Errorf("append to %s: %w", path, err)
	}

	return f.Close()
}

// scanLines streams the file line by line, skipping blank lines. A missing
// file is an empty log, not an error. fn receives the line number for
// diagnostics; any error from fn stops the scan and propagates.
func scanLines(path string, fn func(line []byte, lineno int) error) error {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, initialBufSize), maxLineSize)

	lineno := 0
	for scanner.Scan() {
		lineno++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		if err := fn(line, lineno); err != nil {
			return err
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	return nil
}

// rewrite atomically replaces the file: every line for which keep returns
// true is carried over, then appended is written last, and the temp file is
// renamed into place.
func rewrite(path string, keep func(line []byte) bool, appended []byte) error {
	dir := filepath.Dir(path)

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".rewrite-*")
	if err != nil {
		return fmt.Errorf("create temp for %s: %w", path, err)
	}
	tmpPath := tmp.Name()

	fail := func(err error) error {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}

	w := bufio.NewWriter(tmp)

	err = scanLines(path, func(line []byte, lineno int) error {
		if !keep(line) {
			return nil
		}
		if _, err := w.Write(line); err != nil {
			return err
		}
		return w.WriteByte('\n')
	})
	if err != nil {
		return fail(fmt.Errorf("rewrite %s: %w", path, err))
	}

	if appended != nil {
		if _, err := w.Write(appended); err != nil {
			return fail(fmt.Errorf("rewrite %s: %w", path, err))
		}
		if err := w.WriteByte('\n'); err != nil {
			return fail(fmt.Errorf("rewrite %s: %w", path, err))
		}
	}

	if err := w.Flush(); err != nil {
		return fail(fmt.Errorf("flush %s: %w", tmpPath, err))
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close %s: %w", tmpPath, err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}

// ensureDir creates the parent directory of path if it does not exist.
func ensureDir(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create log directory: %w", err)
	}
	return nil
}
