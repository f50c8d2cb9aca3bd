package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "ideas",
		Short: "Suggest newsletter topics",
		Run:   runIdeas,
	}
	RootCmd.AddCommand(cmd)
}

func runIdeas(cmd *cobra.Command, args []string) {
	sess, closeFn := mustSession(cmd)
	defer closeFn()

	if err := sess.GenerateIdeas(cmd.Context()); err != nil {
		exitErr("ideas", err)
	}

	ideas := sess.Snapshot().Ideas
	output(cmd.OutOrStdout(), ideas, func(w io.Writer) {
		for i, idea := range ideas {
			fmt.Fprintf(w, "%d. %s\n", i+1, idea)
		}
	})
}
