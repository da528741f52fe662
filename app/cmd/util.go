package cmd

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/lexcodex/modsorter/config"
	"github.com/lexcodex/modsorter/framework"
	"github.com/lexcodex/modsorter/framework/depcheck"
	"github.com/lexcodex/modsorter/framework/scan"
	"github.com/lexcodex/modsorter/persistence"
)

// ensureWorkspace resolves the workspace CLI flag, defaulting to cwd.
func ensureWorkspace() string {
	if workspace == "" {
		wd, _ := os.Getwd()
		workspace = wd
	}
	return workspace
}

// scanSession owns everything a scan needs for one command invocation: the
// scanner, its sqlite cache and the telemetry sinks.
type scanSession struct {
	cfg     *config.Config
	scanner *scan.Scanner
	cache   *persistence.ScanCache
	events  *framework.JSONFileTelemetry
	sink    framework.Telemetry
	logger  *log.Logger
}

type sessionOptions struct {
	stderr   io.Writer
	progress framework.ProgressFunc
	noCache  bool
}

// openSession builds the scanner from cfg. Callers must Close it.
func openSession(cfg *config.Config, opts sessionOptions) (*scanSession, error) {
	if cfg == nil {
		cfg = config.Defaults(ensureWorkspace())
	}
	if opts.stderr == nil {
		opts.stderr = os.Stderr
	}
	debug := cfg.DebugEnabled()
	s := &scanSession{
		cfg:    cfg,
		logger: log.New(opts.stderr, "modsorter ", log.LstdFlags),
	}

	sinks := []framework.Telemetry{framework.LoggerTelemetry{Logger: s.logger, Verbose: debug}}
	if cfg.Logging.EventsFile != "" {
		path := cfg.Logging.EventsFile
		if !filepath.IsAbs(path) {
			path = filepath.Join(cfg.Workspace(), path)
		}
		events, err := framework.NewJSONFileTelemetry(path)
		if err != nil {
			return nil, fmt.Errorf("open events file: %w", err)
		}
		s.events = events
		sinks = append(sinks, events)
	}
	s.sink = framework.MultiplexTelemetry{Sinks: sinks}

	var cache scan.Cache
	if cfg.Cache.Enabled && !opts.noCache {
		store, err := persistence.OpenScanCache(cfg.CachePath(), cfg.RulesVersion())
		if err != nil {
			// A broken cache only costs speed.
			s.logger.Printf("cache disabled: %v", err)
		} else {
			s.cache = store
			cache = store
		}
	}

	hooks := framework.NewHooks()
	depcheck.Register(hooks, cfg.DependencyRules())

	vocab := cfg.Vocabulary()
	scanner, err := scan.New(scan.Options{
		Classifier:       cfg.Classifier(vocab),
		Sampler:          cfg.ContentSampler(vocab),
		Router:           cfg.Router(),
		SummaryEntries:   cfg.Sampler.SummaryEntries,
		Workers:          cfg.Scan.Workers,
		DetectDuplicates: cfg.Scan.DetectDuplicates,
		Cache:            cache,
		MemoSize:         cfg.Cache.MemoSize,
		Hooks:            hooks,
		Telemetry:        s.sink,
		Progress:         opts.progress,
		Logger:           s.logger,
		Debug:            debug,
	})
	if err != nil {
		s.Close()
		return nil, err
	}
	s.scanner = scanner
	return s, nil
}

// Scan runs one pass over root using the configured scan section.
func (s *scanSession) Scan(ctx context.Context, root string) *framework.ScanResult {
	return s.scanner.Scan(ctx, s.cfg.ScanRequest(root))
}

// Executor returns a move executor reporting to the session's telemetry.
func (s *scanSession) Executor(root string) *persistence.MoveExecutor {
	return persistence.NewMoveExecutor(root, s.sink)
}

// Close releases the cache and events file.
func (s *scanSession) Close() error {
	var firstErr error
	if s.cache != nil {
		if err := s.cache.Close(); err != nil {
			firstErr = err
		}
	}
	if s.events != nil {
		if err := s.events.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// readConfigMap deserializes config.yaml into a generic map for dotted lookups.
func readConfigMap(path string) (map[string]interface{}, error) {
	data := map[string]interface{}{}
	bytes, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return data, nil
		}
		return nil, err
	}
	if err := yaml.Unmarshal(bytes, &data); err != nil {
		return nil, err
	}
	return data, nil
}

// writeConfigMap persists the config map back to YAML, creating directories.
func writeConfigMap(path string, data map[string]interface{}) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	bytes, err := yaml.Marshal(data)
	if err != nil {
		return err
	}
	return os.WriteFile(path, bytes, 0o644)
}

// getConfigValue traverses a nested map using dotted notation.
func getConfigValue(data map[string]interface{}, key string) (interface{}, bool) {
	parts := strings.Split(key, ".")
	var current interface{} = data
	for _, part := range parts {
		m, ok := current.(map[string]interface{})
		if !ok {
			return nil, false
		}
		value, ok := m[part]
		if !ok {
			return nil, false
		}
		current = value
	}
	return current, true
}

// setConfigValue mutates/creates nested keys referenced via dotted notation.
// Folder map keys contain spaces, so "folder_map.CAS Hair" works as typed.
func setConfigValue(data map[string]interface{}, key string, value interface{}) error {
	parts := strings.Split(key, ".")
	current := data
	for i, part := range parts {
		if part == "" {
			return fmt.Errorf("invalid key %q", key)
		}
		if i == len(parts)-1 {
			current[part] = value
			return nil
		}
		next, ok := current[part].(map[string]interface{})
		if !ok {
			next = map[string]interface{}{}
			current[part] = next
		}
		current = next
	}
	return nil
}

// parseValue attempts to coerce CLI input into bool/int/float/list before
// storing. Comma separated input becomes a list.
func parseValue(input string) interface{} {
	if b, err := strconv.ParseBool(input); err == nil {
		return b
	}
	if i, err := strconv.ParseInt(input, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(input, 64); err == nil {
		return f
	}
	if strings.Contains(input, ",") {
		var list []interface{}
		for _, part := range strings.Split(input, ",") {
			if part = strings.TrimSpace(part); part != "" {
				list = append(list, part)
			}
		}
		return list
	}
	return input
}

// prettyValue renders nested values in a human-readable one-line format.
func prettyValue(v interface{}) string {
	switch value := v.(type) {
	case []interface{}:
		var parts []string
		for _, item := range value {
			parts = append(parts, prettyValue(item))
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case map[string]interface{}:
		b, _ := yaml.Marshal(value)
		return strings.TrimSpace(string(b))
	default:
		return fmt.Sprint(value)
	}
}
