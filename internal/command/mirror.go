package command

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// MirrorFile is the file name of the mirrored lock command in the state dir.
const MirrorFile = "lock_command.json"

// FileMirror persists the latest lock command so guard processes that miss
// the broadcast observe it as a storage change.
type FileMirror struct {
	dir    string
	path   string
	logger *slog.Logger
}

func NewFileMirror(stateDir string, logger *slog.Logger) *FileMirror {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileMirror{
		dir:    stateDir,
		path:   filepath.Join(stateDir, MirrorFile),
		logger: logger,
	}
}

func (m *FileMirror) Path() string { return m.path }

// Write replaces the mirrored command atomically.
func (m *FileMirror) Write(msg Message) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode command: %w", err)
	}
	if err := os.MkdirAll(m.dir, 0o700); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}
	tmp, err := os.CreateTemp(m.dir, ".lock_command-*")
	if err != nil {
		return fmt.Errorf("create mirror temp file: %w", err)
	}
	if _, err := tmp.Write(payload); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("write mirror: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("close mirror: %w", err)
	}
	if err := os.Rename(tmp.Name(), m.path); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("replace mirror: %w", err)
	}
	return nil
}

// Read returns the mirrored command, reporting false when none exists.
func (m *FileMirror) Read() (Message, bool, error) {
	raw, err := os.ReadFile(m.path)
	if errors.Is(err, fs.ErrNotExist) {
		return Message{}, false, nil
	}
	if err != nil {
		return Message{}, false, fmt.Errorf("read mirror: %w", err)
	}
	msg, err := decode(raw)
	if err != nil {
		return Message{}, false, err
	}
	return msg, true, nil
}

// Watch delivers the mirrored command each time the file changes, until ctx
// is done. The command present when Watch starts is not replayed. ready, when
// non-nil, is closed once the watch is registered.
func (m *FileMirror) Watch(ctx context.Context, ready chan<- struct{}, deliver func(Message)) error {
	if err := os.MkdirAll(m.dir, 0o700); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory; the file is replaced by rename.
	if err := watcher.Add(m.dir); err != nil {
		return fmt.Errorf("watch %s: %w", m.dir, err)
	}

	var lastID string
	if current, ok, _ := m.Read(); ok {
		lastID = current.ID
	}
	if ready != nil {
		close(ready)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != m.path {
				continue
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			msg, found, err := m.Read()
			if err != nil {
				// A Write event can land before the content is complete.
				m.logger.DebugContext(ctx, "mirror not readable yet", "error", err)
				continue
			}
			if !found || (msg.ID != "" && msg.ID == lastID) {
				continue
			}
			lastID = msg.ID
			deliver(msg)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			m.logger.WarnContext(ctx, "mirror watcher error", "error", err)
		}
	}
}
