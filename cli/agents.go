package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "agents",
		Short: "Show the configured agents",
		Run:   runAgents,
	}
	RootCmd.AddCommand(cmd)
}

func runAgents(cmd *cobra.Command, args []string) {
	cfg, err := loadConfig()
	if err != nil {
		exitErr("load config", err)
	}
	roster := cfg.AgentIDs().Roster()
	output(cmd.OutOrStdout(), roster, func(w io.Writer) {
		for _, a := range roster {
			fmt.Fprintf(w, "%-22s %s\n  %s\n", a.Name, a.ID, a.Role)
		}
	})
}
