package cli

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"substack_studio/server"
)

func init() {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the studio JSON API",
		Run:   runServe,
	}

	cmd.Flags().String("addr", "", "Listen address (overrides server_addr)")

	RootCmd.AddCommand(cmd)
}

func runServe(cmd *cobra.Command, args []string) {
	addr, _ := cmd.Flags().GetString("addr")

	cfg, err := loadConfig()
	if err != nil {
		exitErr("load config", err)
	}
	if addr == "" {
		addr = cfg.ServerAddr
	}
	if !cfg.Verbose {
		gin.SetMode(gin.ReleaseMode)
	}

	sess, closeFn, err := openSession(cmd.Context(), cfg, server.BrowserClipboard{})
	if err != nil {
		exitErr("open session", err)
	}
	defer closeFn()

	srv, err := server.New(sess, cfg.Verbose, log.Default())
	if err != nil {
		exitErr("server", err)
	}
	if err := srv.Run(addr); err != nil {
		exitErr("serve", err)
	}
}
