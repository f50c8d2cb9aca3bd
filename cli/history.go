package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"substack_studio/history"
	"substack_studio/model"
)

func init() {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Browse and manage saved drafts",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List saved drafts, most recent first",
		Run:   runHistoryList,
	}
	list.Flags().IntP("limit", "l", 0, "Max results (0 = all)")

	search := &cobra.Command{
		Use:   "search <query>",
		Short: "Find drafts by title or subtitle",
		Args:  cobra.MinimumNArgs(1),
		Run:   runHistorySearch,
	}

	rm := &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a saved draft",
		Args:  cobra.ExactArgs(1),
		Run:   runHistoryRm,
	}

	show := &cobra.Command{
		Use:   "show [id]",
		Short: "Show a saved draft and its notes (default: most recent)",
		Args:  cobra.MaximumNArgs(1),
		Run:   runHistoryShow,
	}

	cmd.AddCommand(list, search, rm, show)
	RootCmd.AddCommand(cmd)
}

func runHistoryList(cmd *cobra.Command, args []string) {
	limit, _ := cmd.Flags().GetInt("limit")

	sess, closeFn := mustSession(cmd)
	defer closeFn()

	entries := sess.History()
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	printEntries(cmd.OutOrStdout(), entries)
}

func runHistorySearch(cmd *cobra.Command, args []string) {
	sess, closeFn := mustSession(cmd)
	defer closeFn()

	printEntries(cmd.OutOrStdout(), sess.SearchHistory(strings.Join(args, " ")))
}

type rmResult struct {
	ID      string `json:"id"`
	Removed bool   `json:"removed"`
}

// runHistoryRm deletes by id. An unknown id is a no-op, not an error.
func runHistoryRm(cmd *cobra.Command, args []string) {
	sess, closeFn := mustSession(cmd)
	defer closeFn()

	_, found := history.Find(args[0], sess.History())
	sess.DeleteHistory(cmd.Context(), args[0])
	res := rmResult{ID: args[0], Removed: found}
	output(cmd.OutOrStdout(), res, func(w io.Writer) {
		if res.Removed {
			fmt.Fprintf(w, "Deleted %s\n", res.ID)
			return
		}
		fmt.Fprintf(w, "No saved draft %s; nothing to delete.\n", res.ID)
	})
}

func runHistoryShow(cmd *cobra.Command, args []string) {
	var id string
	if len(args) == 1 {
		id = args[0]
	}

	sess, closeFn := mustSession(cmd)
	defer closeFn()

	if err := selectEntry(sess, id); err != nil {
		exitErr("show", err)
	}
	st := sess.Snapshot()
	entry, _ := history.Find(st.CurrentHistoryID, st.History)
	output(cmd.OutOrStdout(), entry, func(w io.Writer) {
		printDocument(w, sess)
		if len(entry.Notes) > 0 {
			fmt.Fprintln(w)
			printNotes(w, entry.Notes)
		}
	})
}

type entrySummary struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Subtitle string `json:"subtitle,omitempty"`
	Date     string `json:"date"`
	Notes    int    `json:"notes"`
}

func printEntries(w io.Writer, entries []model.HistoryEntry) {
	summaries := make([]entrySummary, 0, len(entries))
	for _, e := range entries {
		summaries = append(summaries, entrySummary{ID: e.ID, Title: e.Title, Subtitle: e.Subtitle, Date: e.Date, Notes: len(e.Notes)})
	}
	output(w, summaries, func(w io.Writer) {
		if len(entries) == 0 {
			fmt.Fprintln(w, "No saved drafts.")
			return
		}
		for _, e := range entries {
			fmt.Fprintf(w, "%s  %-40s  %s  (%d notes)\n", e.ID, e.Title, age(e), len(e.Notes))
		}
	})
}

// age prefers the time encoded in the id and falls back to the stored date.
func age(e model.HistoryEntry) string {
	if t, ok := history.CreatedAt(e.ID); ok {
		return humanize.RelTime(t, time.Now(), "ago", "from now")
	}
	return e.Date
}
