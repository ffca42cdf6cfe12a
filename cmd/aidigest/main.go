package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var cfgFile string

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "aidigest",
		Short:         "Mail a daily digest of new AI articles from RSS/Atom feeds",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./config.yaml, then ./config.json)")

	root.AddCommand(runCmd())
	root.AddCommand(previewCmd())
	root.AddCommand(daemonCmd())
	root.AddCommand(cacheCmd())

	return root
}

func runCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Fetch feeds, send one digest and update the cache",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOnce()
		},
	}
}

func previewCmd() *cobra.Command {
	var (
		format string
		out    string
	)

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Compose the next digest without sending it or touching the cache",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPreview(format, out)
		},
	}

	cmd.Flags().StringVar(&format, "format", "html", "output format (html or text)")
	cmd.Flags().StringVar(&out, "out", "", "write to file instead of stdout")
	return cmd
}

func daemonCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "daemon",
		Short: "Run digests on a schedule and serve the status API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDaemon(port)
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "server port (default: from config)")
	return cmd
}

func cacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or migrate the seen-link cache",
	}

	var from string
	importCmd := &cobra.Command{
		Use:   "import",
		Short: "Merge a JSON file cache into the configured cache backend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCacheImport(from)
		},
	}
	importCmd.Flags().StringVar(&from, "from", "", "JSON cache file to import")
	_ = importCmd.MarkFlagRequired("from")

	cmd.AddCommand(&cobra.Command{
		Use:   "stats",
		Short: "Show the cache backend and number of seen links",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCacheStats()
		},
	})
	cmd.AddCommand(importCmd)

	return cmd
}
