// Package config loads the workspace configuration and derives the
// immutable tables the scan pipeline runs on.
package config

import (
	"errors"
	"fmt"
	"hash/crc32"
	"os"
	"path/filepath"
	"strings"

	"github.com/lexcodex/modsorter/framework"
	"github.com/lexcodex/modsorter/framework/classify"
	"github.com/lexcodex/modsorter/framework/depcheck"
	"github.com/lexcodex/modsorter/framework/route"
	"github.com/lexcodex/modsorter/framework/sampler"
	"github.com/lexcodex/modsorter/framework/tokens"
	"gopkg.in/yaml.v3"
)

// EngineVersion changes whenever classification logic changes in a way that
// invalidates cached verdicts.
const EngineVersion = "1.0"

// DebugEnv turns on scanner debug logging when set to 1, true, yes or on.
const DebugEnv = "SIMS4_SCANNER_DEBUG"

const (
	configDirName     = ".modsorter"
	wordsOverrideName = "adult_words.json"
	cacheFileName     = "cache.db"
)

// ConfigDir returns the workspace-local configuration directory.
func ConfigDir(workspace string) string {
	if workspace == "" {
		workspace = "."
	}
	return filepath.Join(workspace, configDirName)
}

// DefaultConfigPath returns .modsorter/config.yaml within the workspace.
func DefaultConfigPath(workspace string) string {
	return filepath.Join(ConfigDir(workspace), "config.yaml")
}

// Config matches .modsorter/config.yaml inside the workspace.
type Config struct {
	Version      string              `yaml:"version"`
	ModsPath     string              `yaml:"mods_path,omitempty"`
	FolderMap    map[string]string   `yaml:"folder_map"`
	Scan         ScanConfig          `yaml:"scan"`
	Keywords     tokens.Rules        `yaml:"keywords,omitempty"`
	Adult        AdultConfig         `yaml:"adult"`
	Thresholds   classify.Thresholds `yaml:"thresholds"`
	Weights      classify.Weights    `yaml:"weights"`
	Sampler      SamplerConfig       `yaml:"sampler"`
	Cache        CacheConfig         `yaml:"cache"`
	Logging      LoggingConfig       `yaml:"logging"`
	Dependencies []depcheck.Rule     `yaml:"dependencies,omitempty"`

	workspace string
}

// ScanConfig holds the default scan request.
type ScanConfig struct {
	Recurse          bool     `yaml:"recurse"`
	IgnoreExts       []string `yaml:"ignore_exts,omitempty"`
	IgnoreNames      []string `yaml:"ignore_names,omitempty"`
	IgnorePatterns   []string `yaml:"ignore_patterns,omitempty"`
	AllowedExts      []string `yaml:"allowed_exts,omitempty"`
	SelectedFolders  []string `yaml:"selected_folders,omitempty"`
	IncludeAdult     bool     `yaml:"include_adult"`
	Workers          int      `yaml:"workers"`
	DetectDuplicates bool     `yaml:"detect_duplicates"`
}

// AdultConfig extends the built-in adult vocabulary.
type AdultConfig struct {
	Words        []string `yaml:"words,omitempty"`
	Authors      []string `yaml:"authors,omitempty"`
	OverrideFile string   `yaml:"override_file,omitempty"`
}

// SamplerConfig bounds content sampling.
type SamplerConfig struct {
	sampler.Limits `yaml:",inline"`
	SummaryEntries int `yaml:"summary_entries"`
}

// CacheConfig controls the classification cache.
type CacheConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Path     string `yaml:"path,omitempty"`
	MemoSize int    `yaml:"memo_size"`
}

// LoggingConfig describes log output.
type LoggingConfig struct {
	Debug      bool   `yaml:"debug"`
	EventsFile string `yaml:"events_file,omitempty"`
}

// Defaults returns the configuration used when no file exists.
func Defaults(workspace string) *Config {
	return &Config{
		Version:   "1.0.0",
		FolderMap: framework.DefaultFolderMap(),
		Scan: ScanConfig{
			Recurse:          true,
			IncludeAdult:     true,
			DetectDuplicates: true,
		},
		Thresholds: classify.DefaultThresholds(),
		Weights:    classify.DefaultWeights(),
		Sampler: SamplerConfig{
			Limits:         sampler.DefaultLimits(),
			SummaryEntries: classify.DefaultSummaryEntries,
		},
		Cache:     CacheConfig{Enabled: true, MemoSize: 4096},
		workspace: workspace,
	}
}

// Load reads the config at path or returns defaults when it is missing.
// Keys present in the file override the defaults; folder map entries the
// file leaves out keep their default route.
func Load(path, workspace string) (*Config, error) {
	cfg := Defaults(workspace)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.workspace = workspace
	if cfg.FolderMap == nil {
		cfg.FolderMap = map[string]string{}
	}
	for category, folder := range framework.DefaultFolderMap() {
		if strings.TrimSpace(cfg.FolderMap[category]) == "" {
			cfg.FolderMap[category] = folder
		}
	}
	return cfg, nil
}

// Save writes the config to disk.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errors.New("config missing")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Workspace is the directory the config was loaded for.
func (c *Config) Workspace() string {
	if c.workspace == "" {
		return "."
	}
	return c.workspace
}

// WordsOverridePath is the optional JSON file of extra adult words.
func (c *Config) WordsOverridePath() string {
	if c.Adult.OverrideFile != "" {
		return expandPath(c.Adult.OverrideFile, c.Workspace())
	}
	return filepath.Join(ConfigDir(c.Workspace()), wordsOverrideName)
}

// Vocabulary builds the adult vocabulary: built-ins, configured words and
// the override file.
func (c *Config) Vocabulary() *classify.Vocabulary {
	words := append([]string(nil), classify.DefaultAdultWords...)
	words = append(words, c.Adult.Words...)
	words = append(words, classify.LoadWordsOverride(c.WordsOverridePath())...)
	authors := append([]string(nil), classify.DefaultAdultAuthors...)
	authors = append(authors, c.Adult.Authors...)
	return classify.NewVocabulary(words, authors)
}

// Rules returns configured keywords ahead of the built-in table so they win
// on overlap.
func (c *Config) Rules() tokens.Rules {
	rules := append(tokens.Rules(nil), c.Keywords...)
	return append(rules, tokens.DefaultRules()...)
}

// Classifier builds a classifier over vocab.
func (c *Config) Classifier(vocab *classify.Vocabulary) *classify.Classifier {
	return classify.New(vocab, c.Rules(), c.Thresholds, c.Weights)
}

// Router builds the folder router.
func (c *Config) Router() *route.Router {
	return route.New(c.FolderMap)
}

// ContentSampler builds a content sampler over vocab.
func (c *Config) ContentSampler(vocab *classify.Vocabulary) *sampler.Sampler {
	return sampler.New(vocab, c.Sampler.Limits)
}

// DependencyRules returns the configured rules, or the built-in set when
// none are configured.
func (c *Config) DependencyRules() []depcheck.Rule {
	if len(c.Dependencies) > 0 {
		return c.Dependencies
	}
	return depcheck.DefaultRules()
}

// ScanRequest turns the scan section into a request rooted at root.
func (c *Config) ScanRequest(root string) framework.ScanRequest {
	return framework.ScanRequest{
		Root:            root,
		Recurse:         c.Scan.Recurse,
		IgnoreExts:      c.Scan.IgnoreExts,
		IgnoreNames:     c.Scan.IgnoreNames,
		IgnorePatterns:  c.Scan.IgnorePatterns,
		AllowedExts:     c.Scan.AllowedExts,
		SelectedFolders: c.Scan.SelectedFolders,
		ExcludeAdult:    !c.Scan.IncludeAdult,
	}
}

// CachePath resolves the sqlite cache location.
func (c *Config) CachePath() string {
	if c.Cache.Path != "" {
		return expandPath(c.Cache.Path, c.Workspace())
	}
	return filepath.Join(ConfigDir(c.Workspace()), cacheFileName)
}

// DebugEnabled reports whether debug logging was requested by config or by
// the environment.
func (c *Config) DebugEnabled() bool {
	return c.Logging.Debug || EnvFlag(DebugEnv)
}

// RulesVersion fingerprints everything that affects a verdict. Cached
// entries from another version are discarded.
func (c *Config) RulesVersion() string {
	relevant := struct {
		Keywords   tokens.Rules        `yaml:"keywords"`
		Adult      AdultConfig         `yaml:"adult"`
		Override   []string            `yaml:"override"`
		FolderMap  map[string]string   `yaml:"folder_map"`
		Thresholds classify.Thresholds `yaml:"thresholds"`
		Weights    classify.Weights    `yaml:"weights"`
		Sampler    SamplerConfig       `yaml:"sampler"`
	}{
		Keywords:   c.Keywords,
		Adult:      AdultConfig{Words: c.Adult.Words, Authors: c.Adult.Authors},
		Override:   classify.LoadWordsOverride(c.WordsOverridePath()),
		FolderMap:  c.FolderMap,
		Thresholds: c.Thresholds,
		Weights:    c.Weights,
		Sampler:    c.Sampler,
	}
	data, err := yaml.Marshal(relevant)
	if err != nil {
		return EngineVersion
	}
	return fmt.Sprintf("%s-%08x", EngineVersion, crc32.ChecksumIEEE(data))
}

// ResolveModsPath picks the mods folder: explicit value, then the configured
// path, then the platform default.
func (c *Config) ResolveModsPath(explicit string) string {
	switch {
	case explicit != "":
		return expandPath(explicit, c.Workspace())
	case c.ModsPath != "":
		return expandPath(c.ModsPath, c.Workspace())
	}
	return DefaultModsPath()
}

// DefaultModsPath returns the usual Sims 4 Mods folder, preferring one that
// exists.
func DefaultModsPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join("Documents", "Electronic Arts", "The Sims 4", "Mods")
	}
	candidates := []string{
		filepath.Join(home, "Documents", "Electronic Arts", "The Sims 4", "Mods"),
		filepath.Join(home, "OneDrive", "Documents", "Electronic Arts", "The Sims 4", "Mods"),
	}
	for _, p := range candidates {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			return p
		}
	}
	return candidates[0]
}

// EnvFlag reports whether the environment variable holds a truthy value.
func EnvFlag(name string) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(name))) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

// expandPath resolves ~ and workspace-relative paths into absolute paths while
// leaving already absolute entries untouched.
func expandPath(path, workspace string) string {
	if path == "" {
		return path
	}
	if strings.HasPrefix(path, "~") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	if !filepath.IsAbs(path) {
		return filepath.Join(workspace, path)
	}
	return path
}
