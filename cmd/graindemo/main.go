// Command graindemo demonstrates the grain effect library.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/gogpu/grain"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:   "graindemo",
		Short: "graindemo applies grain noise and texture overlays to images",
		Long: `graindemo drives the grain effect library from the command line:
apply runs an effect pipeline over an image and writes a PNG, preview
shows the animated overlay live in the terminal.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				grain.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
					Level: slog.LevelDebug,
				})))
			}
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(newApplyCmd())
	root.AddCommand(newPreviewCmd())
	root.AddCommand(newVersionCmd())

	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the grain library version",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Printf("grain %s\n", grain.Version)
		},
	}
}
