package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"substack_studio/generator"
)

func init() {
	cmd := &cobra.Command{
		Use:   "copy",
		Short: "Copy a saved draft or one of its notes to the clipboard",
		Run:   runCopy,
	}

	cmd.Flags().String("id", "", "History entry id (default: most recent)")
	cmd.Flags().IntP("note", "n", -1, "Copy note N instead of the full draft")

	RootCmd.AddCommand(cmd)
}

func runCopy(cmd *cobra.Command, args []string) {
	id, _ := cmd.Flags().GetString("id")
	note, _ := cmd.Flags().GetInt("note")

	sess, closeFn := mustSession(cmd)
	defer closeFn()

	if err := selectEntry(sess, id); err != nil {
		exitErr("select", err)
	}

	copyID := generator.FullDocumentCopyID
	if cmd.Flags().Changed("note") {
		copyID = generator.NoteCopyID(note)
		if _, err := sess.CopyNote(note); err != nil {
			exitErr("copy", err)
		}
	} else if _, err := sess.CopyDocument(); err != nil {
		exitErr("copy", err)
	}

	if sess.IsCopied(copyID) {
		fmt.Fprintf(cmd.ErrOrStderr(), "Copied %s\n", copyID)
	}
}
