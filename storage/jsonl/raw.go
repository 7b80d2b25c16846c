package jsonl

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/VetalKamen/news-scrapper/core"
	"github.com/VetalKamen/news-scrapper/storage"
)

// rawLog implements storage.RawLog over a JSONL file.
type rawLog struct {
	path   string
	logger *slog.Logger
	seen   map[string]core.Status
}

var _ storage.RawLog = (*rawLog)(nil)

// OpenRawLog opens (or creates) the raw scrape log at path and loads its
// URL index. The parent directory is created if missing.
func OpenRawLog(path string) (storage.RawLog, error) {
	if err := ensureDir(path); err != nil {
		return nil, err
	}

	l := &rawLog{
		path:   path,
		logger: slog.Default().With("component", "rawlog"),
		seen:   make(map[string]core.Status),
	}

	err := scanLines(path, func(line []byte, lineno int) error {
		var record core.RawRecord
		if err := json.Unmarshal(line, &record); err != nil {
			l.logger.Warn("skipping corrupt log line", "path", path, "line", lineno, "error", err)
			return nil
		}
		if record.URL == "" {
			l.logger.Warn("skipping log line without url", "path", path, "line", lineno)
			return nil
		}
		l.seen[record.URL] = record.Status
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("load raw log index: %w", err)
	}

	return l, nil
}

func (l *rawLog) Exists(url string) bool {
	_, ok := l.seen[url]
	return ok
}

func (l *rawLog) Status(url string) (core.Status, bool) {
	status, ok := l.seen[url]
	return status, ok
}

func (l *rawLog) Get(url string) (*core.RawRecord, error) {
	var found *core.RawRecord

	err := scanLines(l.path, func(line []byte, lineno int) error {
		var record core.RawRecord
		if err := json.Unmarshal(line, &record); err != nil {
			l.logger.Warn("skipping corrupt log line", "path", l.path, "line", lineno, "error", err)
			return nil
		}
		if record.URL == url {
			// Last match wins, tolerating duplicates left by old crashes.
			found = &record
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if found == nil {
		return nil, fmt.Errorf("%w: %s", storage.ErrNotFound, url)
	}
	return found, nil
}

func (l *rawLog) Append(record *core.RawRecord) error {
	if err := core.ValidateRawRecord(record); err != nil {
		return err
	}
	if _, ok := l.seen[record.URL]; ok {
		return fmt.Errorf("%w: %s", storage.ErrDuplicateRecord, record.URL)
	}

	line, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("%w: %v", storage.ErrSerializationFailed, err)
	}
	if err := appendLine(l.path, line); err != nil {
		return err
	}

	l.seen[record.URL] = record.Status
	return nil
}

func (l *rawLog) Replace(record *core.RawRecord) error {
	if err := core.ValidateRawRecord(record); err != nil {
		return err
	}
	if _, ok := l.seen[record.URL]; !ok {
		return fmt.Errorf("%w: %s", storage.ErrNotFound, record.URL)
	}

	line, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("%w: %v", storage.ErrSerializationFailed, err)
	}

	keep := func(old []byte) bool {
		var prev core.RawRecord
		if err := json.Unmarshal(old, &prev); err != nil {
			l.logger.Warn("dropping corrupt log line during rewrite", "path", l.path, "error", err)
			return false
		}
		return prev.URL != record.URL
	}

	if err := rewrite(l.path, keep, line); err != nil {
		return err
	}

	l.seen[record.URL] = record.Status
	return nil
}

func (l *rawLog) ForEach(fn func(record *core.RawRecord) error) error {
	return scanLines(l.path, func(line []byte, lineno int) error {
		var record core.RawRecord
		if err := json.Unmarshal(line, &record); err != nil {
			l.logger.Warn("skipping corrupt log line", "path", l.path, "line", lineno, "error", err)
			return nil
		}
		return fn(&record)
	})
}
