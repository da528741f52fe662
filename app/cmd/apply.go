package cmd

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// newApplyCmd scans the mods folder and moves every included file into its
// target folder.
func newApplyCmd() *cobra.Command {
	var (
		flags scanFlags
		yes   bool
	)
	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Move files into their category folders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			root := resolveModsRoot()
			session, err := flags.session(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer session.Close()

			result := session.Scan(cmd.Context(), root)
			out := cmd.OutOrStdout()
			if len(result.Errors) > 0 && len(result.Items) == 0 {
				renderErrors(out, result.Errors)
				return fmt.Errorf("scan of %s produced nothing to move", root)
			}
			if !yes {
				renderPlan(out, result.Items)
				if !confirm(cmd, "Move the included files?") {
					fmt.Fprintln(out, "Aborted.")
					return nil
				}
			}
			report, err := session.Executor(root).Apply(cmd.Context(), result.Items)
			renderMoveReport(out, report)
			return err
		},
	}
	flags.bind(cmd, false)
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}

// newUndoCmd reverses the most recent apply.
func newUndoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "undo",
		Short: "Undo the last batch of moves",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			root := resolveModsRoot()
			session, err := openSession(globalCfg, sessionOptions{stderr: cmd.ErrOrStderr(), noCache: true})
			if err != nil {
				return err
			}
			defer session.Close()
			renderUndoReport(cmd.OutOrStdout(), session.Executor(root).Undo(cmd.Context()))
			return nil
		},
	}
}

// confirm asks a yes/no question on the command's input.
func confirm(cmd *cobra.Command, question string) bool {
	fmt.Fprintf(cmd.OutOrStdout(), "%s [y/N] ", question)
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}
