package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/ytsearch/internal/version"
)

type flags struct {
	env      string
	config   string
	dotenv   string
	strategy string
	port     int
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var f flags

	root := &cobra.Command{
		Use:           "ytsearch",
		Short:         "HTTP gateway for YouTube search, channel and transcript queries",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), f)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&f.env, "env", "", "config environment (local, dev, prod); defaults to $ENV or local")
	pf.StringVar(&f.config, "config", "", "explicit config file path; overrides --env lookup")
	pf.StringVar(&f.dotenv, "dotenv", ".env", "dotenv file loaded before the config")
	pf.StringVar(&f.strategy, "strategy", "", "execution strategy override (direct or delegated)")
	pf.IntVar(&f.port, "port", 0, "HTTP port override")

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Run the HTTP gateway (default)",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return runServe(cmd.Context(), f)
			},
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print build information",
			Run: func(cmd *cobra.Command, _ []string) {
				cmd.Println(version.String())
			},
		},
	)

	return root
}
