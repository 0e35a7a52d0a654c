package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	fillElem    string
	fillCount   int
	fillValue   string
	fillBackend string
)

func init() {
	cmd := newFillCmd()
	cmd.Flags().StringVar(&fillElem, "elem", "u64", "Element type (u8..u64, i8..i64, f32, f64)")
	cmd.Flags().IntVar(&fillCount, "count", 0, "Number of elements to append")
	cmd.Flags().StringVar(&fillValue, "value", "0", "Value of the appended elements")
	cmd.Flags().StringVar(&fillBackend, "backend", "mmap", "Backend used to write: mmap or async")
	rootCmd.AddCommand(cmd)
}

func newFillCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fill <file>",
		Short: "Append copies of a value to a file",
		Long: `The fill command appends --count copies of --value after the elements the
file already holds, creating the file if needed.

With --backend mmap the file is mapped and grown in place; a new file is at
least one page long, the unused tail reads as zeros. With --backend async
the file is loaded, extended in memory and written back with its exact size.

Example:
  memctl fill data.bin --count 1000 --value 42
  memctl fill data.bin --elem f64 --count 10 --value 1.5 --backend async`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFill(cmd.Context(), args)
		},
	}
	return cmd
}

func runFill(ctx context.Context, args []string) error {
	path := args[0]
	if fillCount < 0 {
		return fmt.Errorf("count must not be negative")
	}
	e, err := lookupElem(fillElem)
	if err != nil {
		return err
	}

	printVerbose("Appending %d x %s to %s (%s)\n", fillCount, fillValue, path, fillBackend)
	n, err := e.fill(ctx, path, fillCount, fillValue, fillBackend)
	if err != nil {
		return fmt.Errorf("failed to fill: %w", err)
	}

	if jsonOut {
		return printJSON(map[string]any{
			"file":     path,
			"element":  e.Name(),
			"appended": fillCount,
			"elements": n,
		})
	}
	printInfo("%s: %d elements\n", path, n)
	return nil
}
