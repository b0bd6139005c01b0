// cmd/tgnews/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"newsthreads/internal/config"
	"newsthreads/internal/serverapp"
	"newsthreads/pkg/logger"
)

func main() {
	var cpuThreads int

	root := &cobra.Command{
		Use:     "tgnews",
		Short:   "Telegram-style news aggregator batch tool and server",
		Version: "1.0",
	}
	root.PersistentFlags().IntVarP(&cpuThreads, "cpu-threads", "c", 16, "worker count for batch subcommands")

	root.AddCommand(
		&cobra.Command{
			Use:   "languages <dir>",
			Short: "Report the En/Ru language split of a directory of .html files",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return runLanguages(args[0], cpuThreads)
			},
		},
		&cobra.Command{
			Use:   "news <dir>",
			Short: "Report which articles in a directory survive the news filter",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return runNews(args[0], cpuThreads)
			},
		},
		&cobra.Command{
			Use:   "categories <dir>",
			Short: "Classify every article in a directory into its category",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return runCategories(args[0], cpuThreads)
			},
		},
		&cobra.Command{
			Use:   "threads <dir>",
			Short: "Cluster every article in a directory into threads",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return runThreads(args[0], cpuThreads)
			},
		},
		&cobra.Command{
			Use:   "server <port>",
			Short: "Run the HTTP server",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return runServer(args[0])
			},
		},
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runServer(port string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	cfg.Port = port
	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return serverapp.Run(ctx, cfg, log)
}
