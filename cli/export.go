package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"substack_studio/markdown"
)

func init() {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a saved draft as HTML",
		Run:   runExport,
	}

	cmd.Flags().StringP("out", "o", "", "Output file (required)")
	cmd.Flags().String("id", "", "History entry id (default: most recent)")
	cmd.Flags().Bool("inline-styles", false, "Flatten headings and lists into styled paragraphs for pasting into editors")

	cmd.MarkFlagRequired("out")

	RootCmd.AddCommand(cmd)
}

func runExport(cmd *cobra.Command, args []string) {
	out, _ := cmd.Flags().GetString("out")
	id, _ := cmd.Flags().GetString("id")
	inline, _ := cmd.Flags().GetBool("inline-styles")

	sess, closeFn := mustSession(cmd)
	defer closeFn()

	if err := selectEntry(sess, id); err != nil {
		exitErr("select", err)
	}
	text, _ := sess.FullText()
	html, err := markdown.HTML(text, markdown.HTMLOptions{InlineStyles: inline})
	if err != nil {
		exitErr("export", err)
	}
	if err := os.WriteFile(out, []byte(html), 0o644); err != nil {
		exitErr("write", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), `{"ok":true,"out":%q,"bytes":%d}`+"\n", out, len(html))
}
