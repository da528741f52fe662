package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lexcodex/modsorter/app/review"
)

// newReviewCmd scans the mods folder and opens the interactive review.
func newReviewCmd() *cobra.Command {
	var flags scanFlags
	cmd := &cobra.Command{
		Use:   "review",
		Short: "Review, adjust and apply the move plan interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			root := resolveModsRoot()
			session, err := flags.session(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer session.Close()

			fmt.Fprintf(cmd.ErrOrStderr(), "scanning %s...\n", root)
			result := session.Scan(cmd.Context(), root)
			return review.Run(cmd.Context(), review.Options{
				Root:   root,
				Result: result,
				Router: session.cfg.Router(),
				Apply:  session.Executor(root).Apply,
			})
		},
	}
	flags.bind(cmd, false)
	return cmd
}
