package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/lexcodex/modsorter/config"
	"github.com/lexcodex/modsorter/framework"
)

// scanFlags are the per-invocation overrides of the scan config section.
type scanFlags struct {
	noRecurse    bool
	includeAdult bool
	excludeAdult bool
	selected     []string
	ignoreExts   []string
	allowedExts  []string
	noCache      bool
	progress     bool
	format       string
}

func (f *scanFlags) bind(cmd *cobra.Command, structured bool) {
	flags := cmd.Flags()
	flags.BoolVar(&f.noRecurse, "no-recurse", false, "Only scan the top level of the mods folder")
	flags.BoolVar(&f.excludeAdult, "no-adult", false, "Leave adult content out of the result")
	flags.BoolVar(&f.includeAdult, "adult", false, "Include adult content even when the config excludes it")
	flags.StringSliceVar(&f.selected, "select", nil, "Only scan these relative folders (\".\" for top-level files)")
	flags.StringSliceVar(&f.ignoreExts, "ignore-ext", nil, "Extensions to skip, added to scan.ignore_exts")
	flags.StringSliceVar(&f.allowedExts, "only-ext", nil, "Only scan these extensions")
	flags.BoolVar(&f.noCache, "no-cache", false, "Classify every file again without the sqlite cache")
	flags.BoolVar(&f.progress, "progress", false, "Print per-file progress to stderr")
	if structured {
		flags.StringVar(&f.format, "format", formatTable, "Output format: table, json or yaml")
	}
}

// apply copies the flags onto a private copy of cfg.
func (f *scanFlags) apply(cfg *config.Config) *config.Config {
	if cfg == nil {
		cfg = config.Defaults(ensureWorkspace())
	}
	out := *cfg
	if f.noRecurse {
		out.Scan.Recurse = false
	}
	if f.includeAdult {
		out.Scan.IncludeAdult = true
	}
	if f.excludeAdult {
		out.Scan.IncludeAdult = false
	}
	if len(f.selected) > 0 {
		out.Scan.SelectedFolders = f.selected
	}
	if len(f.ignoreExts) > 0 {
		out.Scan.IgnoreExts = append(append([]string(nil), cfg.Scan.IgnoreExts...), f.ignoreExts...)
	}
	if len(f.allowedExts) > 0 {
		out.Scan.AllowedExts = f.allowedExts
	}
	return &out
}

func (f *scanFlags) session(stderr io.Writer) (*scanSession, error) {
	opts := sessionOptions{stderr: stderr, noCache: f.noCache}
	if f.progress {
		opts.progress = func(index, total int, path string, status framework.ScanStatus) {
			fmt.Fprintf(stderr, "[%d/%d] %-8s %s\n", index, total, status, path)
		}
	}
	return openSession(f.apply(globalCfg), opts)
}

// runScan opens a session, scans the mods root and closes the session.
func (f *scanFlags) runScan(cmd *cobra.Command) (*framework.ScanResult, string, error) {
	root := resolveModsRoot()
	if info, err := os.Stat(root); err != nil || !info.IsDir() {
		return nil, root, fmt.Errorf("mods folder %s not found", root)
	}
	session, err := f.session(cmd.ErrOrStderr())
	if err != nil {
		return nil, root, err
	}
	defer session.Close()
	return session.Scan(cmd.Context(), root), root, nil
}

// newScanCmd classifies the mods folder and prints a per-category summary.
func newScanCmd() *cobra.Command {
	var flags scanFlags
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Classify the mods folder and summarise by category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, _, err := flags.runScan(cmd)
			if err != nil {
				return err
			}
			if flags.format != formatTable {
				return writeStructured(cmd.OutOrStdout(), flags.format, result)
			}
			renderSummary(cmd.OutOrStdout(), result)
			return nil
		},
	}
	flags.bind(cmd, true)
	return cmd
}

// newPlanCmd prints the move plan without touching any file.
func newPlanCmd() *cobra.Command {
	var (
		flags        scanFlags
		showDisabled bool
	)
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Show where every file would be moved",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, _, err := flags.runScan(cmd)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if flags.format != formatTable {
				plan := struct {
					Items    []planEntry `json:"items" yaml:"items"`
					Disabled []planEntry `json:"disabled,omitempty" yaml:"disabled,omitempty"`
					Errors   []string    `json:"errors,omitempty" yaml:"errors,omitempty"`
				}{Items: planEntries(result.Items), Errors: result.Errors}
				if showDisabled {
					plan.Disabled = planEntries(result.Disabled)
				}
				return writeStructured(out, flags.format, plan)
			}
			renderPlan(out, result.Items)
			if showDisabled && len(result.Disabled) > 0 {
				fmt.Fprintln(out, dimStyle.Render("Disabled files:"))
				renderPlan(out, result.Disabled)
			}
			renderErrors(out, result.Errors)
			return nil
		},
	}
	flags.bind(cmd, true)
	cmd.Flags().BoolVar(&showDisabled, "disabled", false, "Also list disabled (renamed) files")
	return cmd
}
