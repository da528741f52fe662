package cmd

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lexcodex/modsorter/framework"
	"github.com/lexcodex/modsorter/framework/dbpf"
	"github.com/lexcodex/modsorter/framework/dbpf/dbpftest"
)

func runCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

// fixture returns a workspace and a mods folder holding one CAS package and
// one unrecognised file.
func fixture(t *testing.T) (string, string) {
	t.Helper()
	ws := t.TempDir()
	mods := filepath.Join(t.TempDir(), "Mods")
	require.NoError(t, os.MkdirAll(mods, 0o755))
	dbpftest.Write(t, filepath.Join(mods, "plain_outfit.package"), dbpftest.Types(dbpf.TypeCASP))
	require.NoError(t, os.WriteFile(filepath.Join(mods, "readme.txt"), []byte("hello"), 0o644))
	return ws, mods
}

func TestConfigInitGetSet(t *testing.T) {
	ws := t.TempDir()
	base := []string{"--workspace", ws}

	out, err := runCLI(t, "", append(base, "config", "init")...)
	require.NoError(t, err)
	require.Contains(t, out, "config.yaml")

	_, err = runCLI(t, "", append(base, "config", "init")...)
	require.Error(t, err)

	out, err = runCLI(t, "", append(base, "config", "get", "scan.recurse")...)
	require.NoError(t, err)
	require.Equal(t, "true\n", out)

	_, err = runCLI(t, "", append(base, "config", "set", "scan.workers", "4")...)
	require.NoError(t, err)
	out, err = runCLI(t, "", append(base, "config", "get", "scan.workers")...)
	require.NoError(t, err)
	require.Equal(t, "4\n", out)

	_, err = runCLI(t, "", append(base, "config", "set", "scan.workers", "many")...)
	require.Error(t, err)
	out, err = runCLI(t, "", append(base, "config", "get", "scan.workers")...)
	require.NoError(t, err)
	require.Equal(t, "4\n", out)

	_, err = runCLI(t, "", append(base, "config", "get", "scan.nope")...)
	require.Error(t, err)
}

func TestPlanJSON(t *testing.T) {
	ws, mods := fixture(t)
	out, err := runCLI(t, "", "--workspace", ws, "--mods", mods, "plan", "--format", "json")
	require.NoError(t, err)

	var plan struct {
		Items []planEntry `json:"items"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &plan))
	require.Len(t, plan.Items, 2)
	byName := map[string]planEntry{}
	for _, entry := range plan.Items {
		byName[entry.Name] = entry
	}
	outfit := byName["plain_outfit.package"]
	require.Equal(t, framework.CategoryCASClothing, outfit.Category)
	require.Equal(t, "CAS Clothing", outfit.Target)
	require.Equal(t, "Plain Outfit", outfit.DisplayName)
	require.True(t, outfit.Include)
	require.Contains(t, byName, "readme.txt")
}

func TestScanSummaryAndFormats(t *testing.T) {
	ws, mods := fixture(t)
	out, err := runCLI(t, "", "--workspace", ws, "--mods", mods, "scan")
	require.NoError(t, err)
	require.Contains(t, out, framework.CategoryCASClothing)
	require.Contains(t, out, "2 item(s) from 2 file(s)")

	out, err = runCLI(t, "", "--workspace", ws, "--mods", mods, "plan")
	require.NoError(t, err)
	require.Contains(t, out, "Plain Outfit")

	out, err = runCLI(t, "", "--workspace", ws, "--mods", mods, "scan", "--format", "yaml")
	require.NoError(t, err)
	require.Contains(t, out, "root: "+mods)

	_, err = runCLI(t, "", "--workspace", ws, "--mods", mods, "scan", "--format", "xml")
	require.Error(t, err)

	_, err = runCLI(t, "", "--workspace", ws, "--mods", filepath.Join(mods, "missing"), "scan")
	require.Error(t, err)
}

func TestApplyThenUndo(t *testing.T) {
	ws, mods := fixture(t)
	base := []string{"--workspace", ws, "--mods", mods}

	out, err := runCLI(t, "n\n", append(base, "apply")...)
	require.NoError(t, err)
	require.Contains(t, out, "Aborted.")
	require.FileExists(t, filepath.Join(mods, "plain_outfit.package"))

	out, err = runCLI(t, "", append(base, "apply", "--yes")...)
	require.NoError(t, err)
	require.Contains(t, out, "Moved 2 file(s)")
	require.FileExists(t, filepath.Join(mods, "CAS Clothing", "plain_outfit.package"))
	require.FileExists(t, filepath.Join(mods, framework.MoveLogName))

	out, err = runCLI(t, "", append(base, "undo")...)
	require.NoError(t, err)
	require.Contains(t, out, "Undone 2 move(s), 0 failed.")
	require.FileExists(t, filepath.Join(mods, "plain_outfit.package"))

	out, err = runCLI(t, "", append(base, "undo")...)
	require.NoError(t, err)
	require.Contains(t, out, "No moves recorded")
}

func TestCacheStatsAndClear(t *testing.T) {
	ws, mods := fixture(t)
	_, err := runCLI(t, "", "--workspace", ws, "--mods", mods, "scan")
	require.NoError(t, err)

	out, err := runCLI(t, "", "--workspace", ws, "cache", "stats", "--format", "json")
	require.NoError(t, err)
	var stats struct {
		Entries int `json:"entries"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &stats))
	require.Equal(t, 2, stats.Entries)

	out, err = runCLI(t, "", "--workspace", ws, "cache", "clear")
	require.NoError(t, err)
	require.Contains(t, out, "removed 2 cached entries")
}
