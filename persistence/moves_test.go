package persistence

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/lexcodex/modsorter/framework"
	"github.com/stretchr/testify/require"
)

type recordingTelemetry struct {
	events []framework.Event
}

func (r *recordingTelemetry) Emit(event framework.Event) {
	r.events = append(r.events, event)
}

func plannedItem(t *testing.T, root, rel, target string) *framework.FileItem {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(rel), 0o644))
	return &framework.FileItem{
		Path:    p,
		Name:    filepath.Base(p),
		RelPath: rel,
		Classification: framework.Classification{
			TargetFolder: target,
			Include:      true,
		},
	}
}

func TestPerformMovesAndUndo(t *testing.T) {
	root := t.TempDir()
	hair := plannedItem(t, root, "hair.package", "CAS Hair")
	pose := plannedItem(t, root, "sub/pose.package", "Poses")
	excluded := plannedItem(t, root, "keep.package", "Other")
	excluded.SetInclude(false)
	inPlace := plannedItem(t, root, "World/lot.package", "World")

	report := PerformMoves([]*framework.FileItem{hair, pose, excluded, inPlace}, root)
	require.Equal(t, 2, report.Moved)
	require.Equal(t, 2, report.Skipped)
	require.Empty(t, report.Collisions)
	require.FileExists(t, filepath.Join(root, "CAS Hair", "hair.package"))
	require.FileExists(t, filepath.Join(root, "Poses", "pose.package"))
	require.FileExists(t, filepath.Join(root, "keep.package"))
	require.NoFileExists(t, filepath.Join(root, "hair.package"))

	data, err := os.ReadFile(filepath.Join(root, framework.MoveLogName))
	require.NoError(t, err)
	var history []map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &history))
	require.Len(t, history, 1)
	require.Contains(t, history[0], "ts")
	require.Len(t, history[0]["moves"], 2)

	undo := UndoLastMoves(root)
	require.Equal(t, 2, undo.Undone)
	require.Zero(t, undo.Failed)
	require.Empty(t, undo.Errors)
	require.FileExists(t, filepath.Join(root, "hair.package"))
	require.FileExists(t, filepath.Join(root, "sub", "pose.package"))

	undo = UndoLastMoves(root)
	require.Equal(t, []string{"No moves recorded"}, undo.Errors)
}

func TestPerformMovesRecordsCollisions(t *testing.T) {
	root := t.TempDir()
	item := plannedItem(t, root, "hair.package", "CAS Hair")
	plannedItem(t, root, "CAS Hair/hair.package", "CAS Hair")

	report := PerformMoves([]*framework.FileItem{item}, root)
	require.Zero(t, report.Moved)
	require.Equal(t, 1, report.Skipped)
	require.Len(t, report.Collisions, 1)
	require.Equal(t, "name collision", report.Collisions[0].Reason)
	require.NoFileExists(t, filepath.Join(root, framework.MoveLogName))
}

func TestPerformMovesFollowsOverrides(t *testing.T) {
	root := t.TempDir()
	item := plannedItem(t, root, "thing.package", "Other")
	item.Override.TargetFolder = "Script Mods"

	report := PerformMoves([]*framework.FileItem{item}, root)
	require.Equal(t, 1, report.Moved)
	require.FileExists(t, filepath.Join(root, "Script Mods", "thing.package"))
}

func TestPerformMovesReportsMissingSource(t *testing.T) {
	root := t.TempDir()
	item := plannedItem(t, root, "gone.package", "Other")
	require.NoError(t, os.Remove(item.Path))

	report := PerformMoves([]*framework.FileItem{item}, root)
	require.Len(t, report.Collisions, 1)
	require.Contains(t, report.Collisions[0].Reason, "move error: ")
	require.NoDirExists(t, filepath.Join(root, "Other"))
}

func TestSkippedMovesLeaveNoEmptyFolders(t *testing.T) {
	root := t.TempDir()
	excluded := plannedItem(t, root, "keep.package", "Other")
	excluded.SetInclude(false)
	inPlace := plannedItem(t, root, "World/lot.package", "World")
	clash := plannedItem(t, root, "hair.package", "CAS Hair")
	plannedItem(t, root, "CAS Hair/hair.package", "CAS Hair")

	report := PerformMoves([]*framework.FileItem{excluded, inPlace, clash}, root)
	require.Zero(t, report.Moved)
	require.Equal(t, 3, report.Skipped)
	require.NoDirExists(t, filepath.Join(root, "Other"))

	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	var dirs []string
	for _, entry := range entries {
		if entry.IsDir() {
			dirs = append(dirs, entry.Name())
		}
	}
	require.ElementsMatch(t, []string{"CAS Hair", "World"}, dirs)
}

func TestUndoErrors(t *testing.T) {
	root := t.TempDir()
	require.Equal(t, []string{"No log found"}, UndoLastMoves(root).Errors)

	logPath := filepath.Join(root, framework.MoveLogName)
	require.NoError(t, os.WriteFile(logPath, []byte("{not json"), 0o644))
	require.Equal(t, []string{"Log unreadable"}, UndoLastMoves(root).Errors)

	require.NoError(t, os.WriteFile(logPath, []byte("[]"), 0o644))
	require.Equal(t, []string{"No moves recorded"}, UndoLastMoves(root).Errors)
}

func TestUndoReportsMissingAndCollisions(t *testing.T) {
	root := t.TempDir()
	a := plannedItem(t, root, "a.package", "Other")
	b := plannedItem(t, root, "b.package", "Other")
	report := PerformMoves([]*framework.FileItem{a, b}, root)
	require.Equal(t, 2, report.Moved)

	require.NoError(t, os.Remove(filepath.Join(root, "Other", "a.package")))
	require.NoError(t, os.WriteFile(filepath.Join(root, "b.package"), []byte("new"), 0o644))

	undo := UndoLastMoves(root)
	require.Zero(t, undo.Undone)
	require.Equal(t, 2, undo.Failed)
	require.Equal(t, []string{"Collision on undo for b.package", "Missing a.package to undo"}, undo.Errors)

	history, err := NewMoveLog(root).History()
	require.NoError(t, err)
	require.Empty(t, history)
}

func TestMoveExecutorEmitsTelemetry(t *testing.T) {
	root := t.TempDir()
	sink := &recordingTelemetry{}
	exec := NewMoveExecutor(root, sink)
	item := plannedItem(t, root, "x.package", "Other")

	report, err := exec.Apply(context.Background(), []*framework.FileItem{item})
	require.NoError(t, err)
	require.Equal(t, 1, report.Moved)
	undo := exec.Undo(context.Background())
	require.Equal(t, 1, undo.Undone)

	require.Len(t, sink.events, 2)
	require.Equal(t, framework.EventMovesApplied, sink.events[0].Type)
	require.Equal(t, framework.EventMovesUndone, sink.events[1].Type)
}

func TestMoveLogAppendKeepsBatches(t *testing.T) {
	root := t.TempDir()
	log := NewMoveLog(root)
	_, err := log.History()
	require.ErrorIs(t, err, ErrNoMoveLog)

	require.NoError(t, log.Append(nil))
	require.NoFileExists(t, log.Path())

	require.NoError(t, log.Append([]Move{{From: "a", To: "b"}}))
	require.NoError(t, log.Append([]Move{{From: "c", To: "d"}}))
	history, err := log.History()
	require.NoError(t, err)
	require.Len(t, history, 2)
	require.Equal(t, "c", history[1].Moves[0].From)
	require.False(t, history[1].Time().IsZero())
}
