package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/lexcodex/modsorter/persistence"
)

// newCacheCmd inspects or clears the sqlite classification cache.
func newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the classification cache",
	}
	cmd.AddCommand(newCacheStatsCmd(), newCacheClearCmd())
	return cmd
}

func openCache() (*persistence.ScanCache, error) {
	return persistence.OpenScanCache(globalCfg.CachePath(), globalCfg.RulesVersion())
}

func newCacheStatsCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show cache size by category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cache, err := openCache()
			if err != nil {
				return err
			}
			defer cache.Close()
			stats, err := cache.Stats(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if format != formatTable {
				return writeStructured(out, format, stats)
			}
			fmt.Fprintf(out, "%s (rules %s)\n", stats.Path, stats.RulesVersion)
			categories := make([]string, 0, len(stats.Categories))
			for category := range stats.Categories {
				categories = append(categories, category)
			}
			sort.Strings(categories)
			t := newTable("Category", "Entries")
			for _, category := range categories {
				t.Row(category, fmt.Sprintf("%d", stats.Categories[category]))
			}
			fmt.Fprintln(out, t.Render())
			fmt.Fprintf(out, "%d entries, %d disabled\n", stats.Entries, stats.Disabled)
			if !stats.LastWrite.IsZero() {
				fmt.Fprintf(out, "last write %s\n", stats.LastWrite.Local().Format("2006-01-02 15:04:05"))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", formatTable, "Output format: table, json or yaml")
	return cmd
}

func newCacheClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Drop every cached classification",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cache, err := openCache()
			if err != nil {
				return err
			}
			defer cache.Close()
			n, err := cache.Clear(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed %d cached entries\n", n)
			return nil
		},
	}
}
