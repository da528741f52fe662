package persistence

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"syscall"

	"github.com/lexcodex/modsorter/framework"
)

// Collision is a planned move that did not happen.
type Collision struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Reason string `json:"reason"`
}

// MoveReport summarises one apply.
type MoveReport struct {
	Moved      int         `json:"moved"`
	Skipped    int         `json:"skipped"`
	Collisions []Collision `json:"collisions,omitempty"`
	Moves      []Move      `json:"moves,omitempty"`
}

// UndoReport summarises one undo.
type UndoReport struct {
	Undone int      `json:"undone"`
	Failed int      `json:"failed"`
	Errors []string `json:"errors,omitempty"`
}

// MoveExecutor applies a plan under Root and journals it for undo.
type MoveExecutor struct {
	Root      string
	Log       *MoveLog
	Telemetry framework.Telemetry
}

// NewMoveExecutor returns an executor journaling to root's move log.
func NewMoveExecutor(root string, telemetry framework.Telemetry) *MoveExecutor {
	return &MoveExecutor{Root: root, Log: NewMoveLog(root), Telemetry: telemetry}
}

// Apply moves every included item into root/<target>/<name>. Existing
// destinations are reported as collisions, never overwritten. Successful
// moves are appended to the journal as one batch, even when ctx is
// cancelled part way.
func (e *MoveExecutor) Apply(ctx context.Context, items []*framework.FileItem) (MoveReport, error) {
	var report MoveReport
	for _, item := range items {
		if ctx.Err() != nil {
			break
		}
		if !item.Included() {
			report.Skipped++
			continue
		}
		destDir := filepath.Join(e.Root, filepath.FromSlash(item.Target()))
		dest := filepath.Join(destDir, item.Name)
		if samePath(item.Path, dest) {
			report.Skipped++
			continue
		}
		if _, err := os.Lstat(dest); err == nil {
			report.Collisions = append(report.Collisions, Collision{From: item.Path, To: dest, Reason: "name collision"})
			report.Skipped++
			continue
		}
		if _, err := os.Lstat(item.Path); err != nil {
			report.Collisions = append(report.Collisions, Collision{From: item.Path, To: dest, Reason: fmt.Sprintf("move error: %v", err)})
			report.Skipped++
			continue
		}
		if err := os.MkdirAll(destDir, 0o755); err != nil {
			report.Collisions = append(report.Collisions, Collision{From: item.Path, To: dest, Reason: fmt.Sprintf("move error: %v", err)})
			report.Skipped++
			continue
		}
		if err := moveFile(item.Path, dest); err != nil {
			report.Collisions = append(report.Collisions, Collision{From: item.Path, To: dest, Reason: fmt.Sprintf("move error: %v", err)})
			report.Skipped++
			continue
		}
		report.Moved++
		report.Moves = append(report.Moves, Move{From: item.Path, To: dest})
	}
	logErr := e.Log.Append(report.Moves)
	framework.Emit(e.Telemetry, framework.Event{
		Type: framework.EventMovesApplied,
		Path: e.Root,
		Metadata: map[string]interface{}{
			"moved":      report.Moved,
			"skipped":    report.Skipped,
			"collisions": len(report.Collisions),
		},
	})
	if logErr != nil {
		return report, fmt.Errorf("write move log: %w", logErr)
	}
	return report, ctx.Err()
}

// Undo reverses the newest journal batch, last move first, then rewrites
// the journal without it.
func (e *MoveExecutor) Undo(ctx context.Context) UndoReport {
	e.Log.mu.Lock()
	defer e.Log.mu.Unlock()

	var report UndoReport
	history, err := e.Log.load()
	switch {
	case errors.Is(err, ErrNoMoveLog):
		report.Errors = []string{"No log found"}
		return report
	case err != nil:
		report.Errors = []string{"Log unreadable"}
		return report
	case len(history) == 0:
		report.Errors = []string{"No moves recorded"}
		return report
	}
	last := history[len(history)-1]
	history = history[:len(history)-1]

	for i := len(last.Moves) - 1; i >= 0; i-- {
		if ctx.Err() != nil {
			// Keep the rest of the batch undoable.
			history = append(history, MoveBatch{TS: last.TS, Moves: last.Moves[:i+1]})
			report.Errors = append(report.Errors, ctx.Err().Error())
			break
		}
		move := last.Moves[i]
		src, dst := move.To, move.From
		if src == "" {
			continue
		}
		srcName := filepath.Base(src)
		if _, err := os.Lstat(src); err != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("Missing %s to undo", srcName))
			report.Failed++
			continue
		}
		if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("Undo error for %s: %v", srcName, err))
			report.Failed++
			continue
		}
		if _, err := os.Lstat(dst); err == nil {
			report.Errors = append(report.Errors, fmt.Sprintf("Collision on undo for %s", filepath.Base(dst)))
			report.Failed++
			continue
		}
		if err := moveFile(src, dst); err != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("Undo error for %s: %v", srcName, err))
			report.Failed++
			continue
		}
		report.Undone++
	}
	if err := e.Log.persist(history); err != nil {
		report.Errors = append(report.Errors, fmt.Sprintf("write move log: %v", err))
	}
	framework.Emit(e.Telemetry, framework.Event{
		Type: framework.EventMovesUndone,
		Path: e.Root,
		Metadata: map[string]interface{}{
			"undone": report.Undone,
			"failed": report.Failed,
		},
	})
	return report
}

// PerformMoves applies items under root without telemetry.
func PerformMoves(items []*framework.FileItem, root string) MoveReport {
	report, _ := NewMoveExecutor(root, nil).Apply(context.Background(), items)
	return report
}

// UndoLastMoves reverses the newest batch recorded under root.
func UndoLastMoves(root string) UndoReport {
	return NewMoveExecutor(root, nil).Undo(context.Background())
}

func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA == nil && errB == nil && absA == absB {
		return true
	}
	infoA, errA := os.Stat(a)
	infoB, errB := os.Stat(b)
	return errA == nil && errB == nil && os.SameFile(infoA, infoB)
}

// moveFile renames src to dst, copying across filesystems when rename
// cannot.
func moveFile(src, dst string) error {
	err := os.Rename(src, dst)
	if err == nil || !errors.Is(err, syscall.EXDEV) {
		return err
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	info, err := in.Stat()
	if err != nil {
		return err
	}
	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return err
	}
	if err := out.Close(); err != nil {
		os.Remove(dst)
		return err
	}
	in.Close()
	return os.Remove(src)
}
