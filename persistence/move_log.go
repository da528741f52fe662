package persistence

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/lexcodex/modsorter/framework"
)

var (
	// ErrNoMoveLog means the mods root has never had moves applied.
	ErrNoMoveLog = errors.New("no log found")
	// ErrMoveLogUnreadable means the journal exists but is not a JSON list.
	ErrMoveLogUnreadable = errors.New("log unreadable")
)

// Move is one relocated file.
type Move struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// MoveBatch is every move made by one apply.
type MoveBatch struct {
	TS    float64 `json:"ts"`
	Moves []Move  `json:"moves"`
}

// Time converts the batch timestamp.
func (b MoveBatch) Time() time.Time {
	sec := int64(b.TS)
	return time.Unix(sec, int64((b.TS-float64(sec))*1e9))
}

// MoveLog is the append-only undo journal kept at the mods root.
type MoveLog struct {
	path string
	mu   sync.Mutex
}

// NewMoveLog returns the journal for root.
func NewMoveLog(root string) *MoveLog {
	return &MoveLog{path: filepath.Join(root, framework.MoveLogName)}
}

// Path of the journal file.
func (l *MoveLog) Path() string {
	return l.path
}

// History returns every recorded batch, oldest first.
func (l *MoveLog) History() ([]MoveBatch, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.load()
}

func (l *MoveLog) load() ([]MoveBatch, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNoMoveLog
		}
		return nil, err
	}
	var history []MoveBatch
	if err := json.Unmarshal(data, &history); err != nil {
		return nil, ErrMoveLogUnreadable
	}
	return history, nil
}

// Append records a batch. Empty batches are dropped. A journal that cannot
// be parsed is started over rather than blocking the apply.
func (l *MoveLog) Append(moves []Move) error {
	if len(moves) == 0 {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	history, err := l.load()
	if err != nil && !errors.Is(err, ErrNoMoveLog) && !errors.Is(err, ErrMoveLogUnreadable) {
		return err
	}
	now := time.Now()
	history = append(history, MoveBatch{
		TS:    float64(now.UnixNano()) / 1e9,
		Moves: moves,
	})
	return l.persist(history)
}

// persist writes the journal back to disk after any mutation.
func (l *MoveLog) persist(history []MoveBatch) error {
	if history == nil {
		history = []MoveBatch{}
	}
	data, err := json.MarshalIndent(history, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(l.path, data, 0o644)
}
