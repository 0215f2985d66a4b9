// Command docref checks whether Markdown documentation still matches the
// source code it references.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/docref/docref/internal/log"
	"github.com/docref/docref/pkg/diagnostics"
	"github.com/docref/docref/pkg/docref"
)

var (
	verbose bool
	quiet   bool
)

func main() {
	os.Exit(run())
}

func run() int {
	root, err := os.Getwd()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return docref.ExitRuntime
	}

	logger := log.Setup(os.Stderr, verbose, quiet)
	ctx := context.Background()
	exitCode := docref.ExitFresh

	rootCmd := &cobra.Command{
		Use:           "docref",
		Short:         "Track semantic references from Markdown docs to source code",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Flags are parsed by now; rebuild the logger at the requested level.
			*logger = *log.Setup(os.Stderr, verbose, quiet)
		},
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress info logging")

	rootCmd.AddCommand(
		initCmd(ctx, root, logger, &exitCode),
		checkCmd(ctx, root, &exitCode),
		statusCmd(ctx, root, &exitCode),
		resolveCmd(ctx, &exitCode),
		updateCmd(ctx, root, &exitCode),
		fixCmd(ctx, root, &exitCode),
		refsCmd(ctx, root, &exitCode),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, diagnostics.Render(err))
		return docref.ExitRuntime
	}
	return exitCode
}

func initCmd(ctx context.Context, root string, logger *slog.Logger, exitCode *int) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Scan, resolve, hash, and write the lockfile",
		RunE: func(cmd *cobra.Command, args []string) error {
			return docref.Init(ctx, root, cmd.OutOrStdout(), logger)
		},
	}
}

func checkCmd(ctx context.Context, root string, exitCode *int) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Compare every lockfile entry against current source",
		RunE: func(cmd *cobra.Command, args []string) error {
			code, err := docref.Check(ctx, root, cmd.OutOrStdout())
			*exitCode = code
			return err
		},
	}
}

func statusCmd(ctx context.Context, root string, exitCode *int) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "List every tracked reference and its freshness",
		RunE: func(cmd *cobra.Command, args []string) error {
			return docref.Status(ctx, root, cmd.OutOrStdout())
		},
	}
}

func resolveCmd(ctx context.Context, exitCode *int) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <file> [symbol]",
		Short: "List or validate symbols in a file",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			symbol := ""
			if len(args) == 2 {
				symbol = args[1]
			}
			return docref.Resolve(ctx, args[0], symbol, cmd.OutOrStdout())
		},
	}
}

func updateCmd(ctx context.Context, root string, exitCode *int) *cobra.Command {
	var from string
	var all bool

	cmd := &cobra.Command{
		Use:   "update [file#symbol]",
		Short: "Accept a reference's current hash as the new baseline",
		RunE: func(cmd *cobra.Command, args []string) error {
			switch {
			case all:
				return docref.UpdateAll(ctx, root, cmd.OutOrStdout())
			case from != "":
				return docref.UpdateFile(ctx, root, from, cmd.OutOrStdout())
			case len(args) == 1:
				return docref.Update(ctx, root, args[0], cmd.OutOrStdout())
			default:
				return fmt.Errorf("update requires a reference, --from, or --all")
			}
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "accept every reference originating from this Markdown file")
	cmd.Flags().BoolVar(&all, "all", false, "accept every reference")
	return cmd
}

func fixCmd(ctx context.Context, root string, exitCode *int) *cobra.Command {
	return &cobra.Command{
		Use:   "fix [file#old] [new]",
		Short: "Auto-repair broken references, or replace one symbol after validation",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 2 {
				file, old, splitErr := splitFragment(args[0])
				if splitErr != nil {
					return splitErr
				}
				return docref.FixOne(ctx, root, file, old, args[1], cmd.OutOrStdout())
			}
			return docref.Fix(ctx, root, cmd.OutOrStdout())
		},
	}
}

func refsCmd(ctx context.Context, root string, exitCode *int) *cobra.Command {
	return &cobra.Command{
		Use:   "refs <file[#symbol]>",
		Short: "List Markdown documents referencing a target",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return docref.Refs(ctx, root, args[0], cmd.OutOrStdout())
		},
	}
}

func splitFragment(s string) (string, string, error) {
	for i := 0; i < len(s); i++ {
		if s[i] == '#' {
			return s[:i], s[i+1:], nil
		}
	}
	return "", "", fmt.Errorf("expected file#symbol, got %q", s)
}

