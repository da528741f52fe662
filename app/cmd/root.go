package cmd

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/lexcodex/modsorter/config"
)

const (
	envConfig = "MODSORTER_CONFIG"
	envMods   = "MODSORTER_MODS"
)

var (
	cfgFile   string
	workspace string
	modsDir   string

	globalCfg *config.Config
)

// Execute runs the CLI until ctx is cancelled.
func Execute(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}

// NewRootCmd wires the cobra tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "modsorter",
		Short:         "Classify and organise a Sims 4 Mods folder",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if workspace == "" {
				if wd, err := os.Getwd(); err == nil {
					workspace = wd
				} else {
					return err
				}
			}
			if cfgFile == "" {
				cfgFile = os.Getenv(envConfig)
			}
			if cfgFile == "" {
				cfgFile = config.DefaultConfigPath(workspace)
			}
			cfg, err := config.Load(cfgFile, workspace)
			if err != nil {
				return err
			}
			globalCfg = cfg
			return nil
		},
	}
	root.PersistentFlags().StringVar(&workspace, "workspace", "", "Workspace directory holding .modsorter/")
	root.PersistentFlags().StringVar(&cfgFile, "config", "", "Path to modsorter config file")
	root.PersistentFlags().StringVar(&modsDir, "mods", "", "Mods folder to scan (overrides $"+envMods+" and mods_path)")

	root.AddCommand(
		newScanCmd(),
		newPlanCmd(),
		newApplyCmd(),
		newUndoCmd(),
		newReviewCmd(),
		newConfigCmd(),
		newCacheCmd(),
	)
	return root
}

// resolveModsRoot applies flag, env, config and platform default in that
// order.
func resolveModsRoot() string {
	explicit := modsDir
	if explicit == "" {
		explicit = os.Getenv(envMods)
	}
	return globalCfg.ResolveModsPath(explicit)
}
