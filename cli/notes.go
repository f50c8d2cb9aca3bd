package cli

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"substack_studio/model"
)

func init() {
	cmd := &cobra.Command{
		Use:   "notes",
		Short: "Generate promotional notes for a saved draft",
		Long:  "Generate notes for a history entry (the most recent by default). Title and subtitle overrides are used for this run only; notes are saved on the entry when it is the most recent one.",
		Run:   runNotes,
	}

	cmd.Flags().String("id", "", "History entry id (default: most recent)")
	cmd.Flags().String("title", "", "Override the title sent to the notes agent")
	cmd.Flags().String("subtitle", "", "Override the subtitle sent to the notes agent")

	RootCmd.AddCommand(cmd)
}

func runNotes(cmd *cobra.Command, args []string) {
	id, _ := cmd.Flags().GetString("id")

	sess, closeFn := mustSession(cmd)
	defer closeFn()

	if err := selectEntry(sess, id); err != nil {
		exitErr("select", err)
	}
	if cmd.Flags().Changed("title") {
		title, _ := cmd.Flags().GetString("title")
		sess.EditTitle(title)
	}
	if cmd.Flags().Changed("subtitle") {
		subtitle, _ := cmd.Flags().GetString("subtitle")
		sess.EditSubtitle(subtitle)
	}
	if err := sess.GenerateNotes(cmd.Context()); err != nil {
		exitErr("notes", err)
	}

	notes := sess.Snapshot().Notes
	output(cmd.OutOrStdout(), notes, func(w io.Writer) {
		printNotes(w, notes)
	})
}

func printNotes(w io.Writer, notes []model.NoteExcerpt) {
	for i, n := range notes {
		fmt.Fprintf(w, "[%d] %s · %s chars\n%s\n\n", i, n.HookType, humanize.Comma(int64(n.CharacterCount)), n.Content)
	}
}
