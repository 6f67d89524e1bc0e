package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ritzau/ontology-explorer/pkg/config"
	"github.com/ritzau/ontology-explorer/pkg/ingest"
	"github.com/ritzau/ontology-explorer/pkg/logging"
	"github.com/ritzau/ontology-explorer/pkg/output"
	"github.com/ritzau/ontology-explorer/pkg/session"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "ontology-explorer",
	Short: "Browse an ontology as a collapsible tree and export it as a graph",
	Long: `Ontology Explorer loads an ontology (a nested YAML/JSON literal, flat
records, or N-Triples) into a forest, lets you expand, collapse and filter it,
and exports the result as a deterministic node/edge graph.

Without --source the built-in Person/Car sample is used.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(cmd.Flags())
		if err != nil {
			return err
		}
		cfg = loaded
		logging.Configure(logging.Options{Level: cfg.LogLevel(), JSON: cfg.JSONLogs})
		logging.Debug("configuration loaded", "source", cfg.Source, "mode", cfg.Mode)
		return nil
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringP("source", "s", "", "Ontology file (.yaml, .json, .nt or .ttl); empty uses the built-in sample")
	pf.CountP("verbose", "v", "Increase log verbosity (-v debug, -vv trace)")
	pf.String("verbosity", "", "Log level: trace, debug, info, warn or error")
	pf.Bool("json-logs", false, "Write logs as JSON")
	pf.StringP("query", "q", "", "Label filter (case-insensitive substring)")

	treeCmd.Flags().Bool("expand", false, "Expand every node before printing")
	treeCmd.Flags().Bool("reveal", false, "Expand the path to every filter match")

	graphCmd.Flags().String("mode", config.ModeForest, "Export mode: forest or triples")
	graphCmd.Flags().Bool("visible", false, "Export only filter-visible nodes (forest mode)")

	serveCmd.Flags().IntP("port", "p", 8080, "Port for the web server")
	serveCmd.Flags().BoolP("watch", "w", false, "Reload when the source file changes")

	rootCmd.AddCommand(treeCmd, graphCmd, statsCmd, serveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		output.PrintError(os.Stderr, err)
		os.Exit(1)
	}
}

// loadSession reads the configured source into a fresh session
func loadSession(ctx context.Context, opts ...session.Option) (*session.Session, error) {
	doc, err := ingest.NewLoader().Load(ctx, cfg.Source)
	if err != nil {
		return nil, err
	}
	sess := session.New(opts...)
	if _, err := sess.Load(doc); err != nil {
		return nil, err
	}
	return sess, nil
}

var treeCmd = &cobra.Command{
	Use:   "tree",
	Short: "Print the tree view",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := loadSession(cmd.Context())
		if err != nil {
			return err
		}

		snap := sess.Snapshot()
		if cfg.Expand {
			snap = sess.ExpandAll()
		}
		if cfg.Query != "" {
			if cfg.Reveal {
				snap = sess.Reveal(cfg.Query)
			} else {
				snap = sess.Filter(cfg.Query)
			}
		}

		output.PrintView(os.Stdout, sess.SourceName(), snap)
		return nil
	},
}

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Export the graph as JSON",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := loadSession(cmd.Context())
		if err != nil {
			return err
		}
		visible, err := cmd.Flags().GetBool("visible")
		if err != nil {
			return err
		}

		sess.Filter(cfg.Query)
		g := sess.Graph(visible)
		if cfg.Mode == config.ModeTriples {
			g = sess.TripleGraph()
		}
		if g.Skipped > 0 {
			logging.Info("skipped unusable triples", "count", g.Skipped)
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(g); err != nil {
			return fmt.Errorf("failed to encode graph: %w", err)
		}
		return nil
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print forest statistics",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := loadSession(cmd.Context())
		if err != nil {
			return err
		}
		output.PrintStats(os.Stdout, sess.SourceName(), sess.Stats())
		return nil
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the interaction API over HTTP",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return serve(ctx, cfg)
	},
}
