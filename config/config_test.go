package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/lexcodex/modsorter/framework"
	"github.com/lexcodex/modsorter/framework/tokens"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingReturnsDefaults(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(DefaultConfigPath(dir), dir)
	require.NoError(t, err)
	require.True(t, cfg.Scan.Recurse)
	require.True(t, cfg.Scan.IncludeAdult)
	require.True(t, cfg.Cache.Enabled)
	require.Equal(t, 40, cfg.Sampler.MaxEntries)
	require.Equal(t, "Adult - Gameplay", cfg.FolderMap[framework.CategoryAdultGameplay])
	require.Equal(t, filepath.Join(dir, ".modsorter", "cache.db"), cfg.CachePath())
}

func TestLoadMergesFileOverDefaults(t *testing.T) {
	dir := t.TempDir()
	path := DefaultConfigPath(dir)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	body := `
mods_path: ./Mods
folder_map:
  CAS Hair: Hair
scan:
  recurse: false
  ignore_exts: [".txt"]
keywords:
  - keyword: gizmo
    category: World
thresholds:
  confident: 0.9
sampler:
  max_entries: 10
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	cfg, err := Load(path, dir)
	require.NoError(t, err)
	require.False(t, cfg.Scan.Recurse)
	require.True(t, cfg.Scan.IncludeAdult)
	require.Equal(t, []string{".txt"}, cfg.Scan.IgnoreExts)
	require.Equal(t, "Hair", cfg.FolderMap[framework.CategoryCASHair])
	require.Equal(t, "Adult - Gameplay", cfg.FolderMap[framework.CategoryAdultGameplay])
	require.Equal(t, 0.9, cfg.Thresholds.Confident)
	require.Equal(t, 0.5, cfg.Thresholds.Corroborated)
	require.Equal(t, 10, cfg.Sampler.MaxEntries)
	require.Equal(t, 5, cfg.Sampler.MaxSources)
	require.Equal(t, filepath.Join(dir, "Mods"), cfg.ResolveModsPath(""))
	require.Equal(t, "/elsewhere", cfg.ResolveModsPath("/elsewhere"))

	rule, ok := cfg.Rules().Match([]string{"gizmo"})
	require.True(t, ok)
	require.Equal(t, tokens.Rule{Keyword: "gizmo", Category: framework.CategoryWorld}, rule)
	require.Equal(t, "Hair", cfg.Router().Route(framework.CategoryCASHair))
}

func TestLoadRejectsInvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("scan: [unclosed"), 0o644))
	_, err := Load(path, dir)
	require.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := DefaultConfigPath(dir)
	cfg := Defaults(dir)
	cfg.Scan.Workers = 3
	cfg.Adult.Words = []string{"spicy"}
	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path, dir)
	require.NoError(t, err)
	require.Equal(t, 3, loaded.Scan.Workers)
	require.Equal(t, []string{"spicy"}, loaded.Adult.Words)
	require.Error(t, Save(path, nil))
}

func TestVocabularyIncludesOverrideFile(t *testing.T) {
	dir := t.TempDir()
	cfg := Defaults(dir)
	cfg.Adult.Words = []string{"spicy"}
	require.True(t, cfg.Vocabulary().Contains("spicy"))
	require.False(t, cfg.Vocabulary().Contains("zesty"))

	before := cfg.RulesVersion()
	require.NoError(t, os.MkdirAll(ConfigDir(dir), 0o755))
	require.NoError(t, os.WriteFile(cfg.WordsOverridePath(), []byte(`{"words": ["Zesty"]}`), 0o644))
	require.True(t, cfg.Vocabulary().Contains("zesty"))
	require.NotEqual(t, before, cfg.RulesVersion())
}

func TestRulesVersionTracksClassificationSettings(t *testing.T) {
	dir := t.TempDir()
	a := Defaults(dir)
	b := Defaults(dir)
	require.Equal(t, a.RulesVersion(), b.RulesVersion())

	b.Scan.Workers = 8
	require.Equal(t, a.RulesVersion(), b.RulesVersion())

	b.Weights.Filename = 0.5
	require.NotEqual(t, a.RulesVersion(), b.RulesVersion())
}

func TestDebugEnabled(t *testing.T) {
	cfg := Defaults(t.TempDir())
	t.Setenv(DebugEnv, "")
	require.False(t, cfg.DebugEnabled())
	t.Setenv(DebugEnv, "Yes")
	require.True(t, cfg.DebugEnabled())
	t.Setenv(DebugEnv, "0")
	cfg.Logging.Debug = true
	require.True(t, cfg.DebugEnabled())
}

func TestScanRequestCopiesScanSection(t *testing.T) {
	cfg := Defaults(t.TempDir())
	cfg.Scan.SelectedFolders = []string{"CAS"}
	req := cfg.ScanRequest("/mods")
	require.Equal(t, "/mods", req.Root)
	require.True(t, req.Recurse)
	require.Equal(t, []string{"CAS"}, req.SelectedFolders)
	require.False(t, req.ExcludeAdult)
	require.NotEmpty(t, cfg.DependencyRules())

	cfg.Scan.IncludeAdult = false
	require.True(t, cfg.ScanRequest("/mods").ExcludeAdult)
}
