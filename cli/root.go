// Package cli implements the studio commands.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"substack_studio/config"
	"substack_studio/feedback"
	"substack_studio/generator"
	"substack_studio/history"
)

var (
	configPath string
	formatFlag string
	verbose    bool
	sampleMode bool
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "studio",
	Short: "Newsletter drafting studio",
	Long:  "Generate newsletter drafts, topic ideas and promotional notes through two hosted agents, with a persistent revision history.",
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default: ~/.studio/config.yaml)")
	RootCmd.PersistentFlags().StringVarP(&formatFlag, "format", "f", "text", "Output format: text, json or yaml")
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable info logs")
	RootCmd.PersistentFlags().BoolVar(&sampleMode, "sample", false, "Answer agent calls with built-in sample data")
}

func loadConfig() (*config.Config, error) {
	path := configPath
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if sampleMode {
		cfg.Sample = true
	}
	if verbose {
		cfg.Verbose = true
	}
	return cfg, nil
}

// openSession wires config, agent, history store and clipboard into a
// session. copier overrides the system clipboard when non-nil.
func openSession(ctx context.Context, cfg *config.Config, copier generator.Copier) (*generator.Session, func(), error) {
	llm, err := cfg.BuildLLM()
	if err != nil {
		return nil, nil, err
	}
	agent, err := generator.NewLLMAgent(llm, cfg.AgentIDs())
	if err != nil {
		return nil, nil, err
	}

	slot, err := history.OpenSlot(cfg.History.Backend, cfg.History.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("open history: %w", err)
	}
	store, err := history.NewStore(slot, cfg.History.Key, cfg.Verbose, log.Default())
	if err != nil {
		slot.Close()
		return nil, nil, err
	}

	if copier == nil {
		copier = feedback.Clipboard{Fallback: os.Stderr}
	}
	sess, err := generator.NewSession(ctx, agent, store, generator.SessionOptions{
		Agents:    cfg.AgentIDs(),
		Clipboard: copier,
		Feedback:  feedback.NewChannel(cfg.CopyExpiry),
		Verbose:   cfg.Verbose,
		Logger:    log.Default(),
	})
	if err != nil {
		store.Close()
		return nil, nil, err
	}
	return sess, func() {
		sess.Close()
		store.Close()
	}, nil
}

// mustSession is openSession for commands that cannot continue without one.
func mustSession(cmd *cobra.Command) (*generator.Session, func()) {
	cfg, err := loadConfig()
	if err != nil {
		exitErr("load config", err)
	}
	sess, closeFn, err := openSession(cmd.Context(), cfg, nil)
	if err != nil {
		exitErr("open session", err)
	}
	return sess, closeFn
}

// selectEntry loads the entry with id, or the most recent one when id is empty.
func selectEntry(sess *generator.Session, id string) error {
	if id == "" {
		h := sess.History()
		if len(h) == 0 {
			return errors.New("history is empty; run `studio draft` first")
		}
		id = h[0].ID
	}
	return sess.SelectHistory(id)
}

// output writes v as JSON or YAML, or calls text for the text format.
func output(w io.Writer, v any, text func(io.Writer)) {
	switch formatFlag {
	case "json":
		b, _ := json.MarshalIndent(v, "", "  ")
		fmt.Fprintln(w, string(b))
	case "yaml":
		// Round-trip through JSON so YAML keys match the JSON field names.
		b, err := json.Marshal(v)
		if err != nil {
			exitErr("encode", err)
		}
		var generic any
		if err := json.Unmarshal(b, &generic); err != nil {
			exitErr("encode", err)
		}
		out, err := yaml.Marshal(generic)
		if err != nil {
			exitErr("encode", err)
		}
		fmt.Fprint(w, string(out))
	default:
		text(w)
	}
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}
