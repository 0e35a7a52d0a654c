package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	shrinkElem  string
	shrinkCount int
)

func init() {
	cmd := newShrinkCmd()
	cmd.Flags().StringVar(&shrinkElem, "elem", "u64", "Element type (u8..u64, i8..i64, f32, f64)")
	cmd.Flags().IntVar(&shrinkCount, "count", 0, "Number of trailing elements to remove")
	rootCmd.AddCommand(cmd)
}

func newShrinkCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "shrink <file>",
		Short: "Remove trailing elements from a file",
		Long: `The shrink command removes the last --count elements and truncates the
file to the elements that remain. Trailing bytes that do not form a whole
element are removed as well.

Example:
  memctl shrink data.bin --count 10
  memctl shrink data.bin --elem u16 --count 1`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShrink(cmd.Context(), args)
		},
	}
	return cmd
}

func runShrink(ctx context.Context, args []string) error {
	path := args[0]
	e, err := lookupElem(shrinkElem)
	if err != nil {
		return err
	}

	printVerbose("Removing %d x %s from %s\n", shrinkCount, e.Name(), path)
	n, err := e.shrink(ctx, path, shrinkCount)
	if err != nil {
		return fmt.Errorf("failed to shrink: %w", err)
	}

	if jsonOut {
		return printJSON(map[string]any{
			"file":     path,
			"element":  e.Name(),
			"removed":  shrinkCount,
			"elements": n,
		})
	}
	printInfo("%s: %d elements\n", path, n)
	return nil
}
