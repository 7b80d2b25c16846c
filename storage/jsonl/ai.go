package jsonl

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/VetalKamen/news-scrapper/core"
	"github.com/VetalKamen/news-scrapper/storage"
)

// aiLog implements storage.AILog over a JSONL file.
type aiLog struct {
	path   string
	logger *slog.Logger
	seen   map[string]core.Status
}

var _ storage.AILog = (*aiLog)(nil)

// OpenAILog opens (or creates) the AI analysis log at path and loads its
// URL index. The parent directory is created if missing.
func OpenAILog(path string) (storage.AILog, error) {
	if err := ensureDir(path); err != nil {
		return nil, err
	}

	l := &aiLog{
		path:   path,
		logger: slog.Default().With("component", "ailog"),
		seen:   make(map[string]core.Status),
	}

	err := scanLines(path, func(line []byte, lineno int) error {
		var record core.AIRecord
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
		return nil, fmt.Errorf("load ai log index: %w", err)
	}

	return l, nil
}

func (l *aiLog) Exists(url string) bool {
	_, ok := l.seen[url]
	return ok
}

func (l *aiLog) Status(url string) (core.Status, bool) {
	status, ok := l.seen[url]
	return status, ok
}

func (l *aiLog) Get(url string) (*core.AIRecord, error) {
	var found *core.AIRecord

	err := scanLines(l.path, func(line []byte, lineno int) error {
		var record core.AIRecord
		if err := json.Unmarshal(line, &record); err != nil {
			l.logger.Warn("skipping corrupt log line", "path", l.path, "line", lineno, "error", err)
			return nil
		}
		if record.URL == url {
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

func (l *aiLog) Append(record *core.AIRecord) error {
	if err := core.ValidateAIRecord(record); err != nil {
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

func (l *aiLog) Replace(record *core.AIRecord) error {
	if err := core.ValidateAIRecord(record); err != nil {
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
		var prev core.AIRecord
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

func (l *aiLog) ForEach(fn func(record *core.AIRecord) error) error {
	return scanLines(l.path, func(line []byte, lineno int) error {
		var record core.AIRecord
		if err := json.Unmarshal(line, &record); err != nil {
			l.logger.Warn("skipping corrupt log line", "path", l.path, "line", lineno, "error", err)
			return nil
		}
		return fn(&record)
	})
}
