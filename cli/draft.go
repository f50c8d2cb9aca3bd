package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"substack_studio/generator"
	"substack_studio/markdown"
	"substack_studio/model"
)

func init() {
	cmd := &cobra.Command{
		Use:   "draft <topic>",
		Short: "Generate a newsletter draft and add it to history",
		Args:  cobra.MinimumNArgs(1),
		Run:   runDraft,
	}

	def := model.DefaultOptions()
	cmd.Flags().String("tone", def.Tone, "Tone: "+strings.Join(model.Tones, ", "))
	cmd.Flags().String("audience", def.Audience, "Audience: "+strings.Join(model.Audiences, ", "))
	cmd.Flags().String("length", def.Length, "Length: "+strings.Join(model.Lengths, ", "))
	cmd.Flags().Bool("notes", false, "Also generate notes for the new draft")

	RootCmd.AddCommand(cmd)
}

func runDraft(cmd *cobra.Command, args []string) {
	tone, _ := cmd.Flags().GetString("tone")
	audience, _ := cmd.Flags().GetString("audience")
	length, _ := cmd.Flags().GetString("length")
	withNotes, _ := cmd.Flags().GetBool("notes")

	sess, closeFn := mustSession(cmd)
	defer closeFn()

	sess.SetTopic(strings.Join(args, " "))
	sess.SetOptions(model.Options{Tone: tone, Audience: audience, Length: length})
	if err := sess.GenerateDraft(cmd.Context()); err != nil {
		exitErr("draft", err)
	}
	if withNotes {
		if err := sess.GenerateNotes(cmd.Context()); err != nil {
			exitErr("notes", err)
		}
	}

	st := sess.Snapshot()
	output(cmd.OutOrStdout(), st, func(w io.Writer) {
		printDocument(w, sess)
		if len(st.Notes) > 0 {
			fmt.Fprintln(w)
			printNotes(w, st.Notes)
		}
		fmt.Fprintf(w, "\nSaved as %s\n", st.CurrentHistoryID)
	})
}

// printDocument renders the session's edited document for a terminal.
func printDocument(w io.Writer, sess *generator.Session) {
	text, ok := sess.FullText()
	if !ok {
		fmt.Fprintln(w, "(no document)")
		return
	}
	fmt.Fprintln(w, markdown.Terminal(markdown.Render(text)))
}
