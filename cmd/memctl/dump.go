package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	dumpElem   string
	dumpOffset int
	dumpLimit  int
)

func init() {
	cmd := newDumpCmd()
	cmd.Flags().StringVar(&dumpElem, "elem", "u64", "Element type (u8..u64, i8..i64, f32, f64)")
	cmd.Flags().IntVar(&dumpOffset, "offset", 0, "Index of the first element")
	cmd.Flags().IntVar(&dumpLimit, "limit", 0, "Maximum number of elements (0 = all)")
	rootCmd.AddCommand(cmd)
}

func newDumpCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dump <file>",
		Short: "Print the elements of a file",
		Long: `The dump command loads a file read-only and prints its elements,
one per line with their index.

Example:
  memctl dump data.bin
  memctl dump data.bin --elem u32 --offset 100 --limit 10
  memctl dump data.bin --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDump(cmd.Context(), args)
		},
	}
	return cmd
}

type dumpOutput struct {
	File    string        `json:"file"`
	Element string        `json:"element"`
	Total   int           `json:"total"`
	Offset  int           `json:"offset"`
	Values  []json.Number `json:"values"`
}

func runDump(ctx context.Context, args []string) error {
	path := args[0]
	if dumpOffset < 0 || dumpLimit < 0 {
		return fmt.Errorf("offset and limit must not be negative")
	}
	e, err := lookupElem(dumpElem)
	if err != nil {
		return err
	}

	printVerbose("Loading %s as %s\n", path, e.Name())
	res, err := e.dump(ctx, path, dumpOffset, dumpLimit)
	if err != nil {
		return fmt.Errorf("failed to load file: %w", err)
	}

	if jsonOut {
		out := dumpOutput{
			File:    path,
			Element: e.Name(),
			Total:   res.Total,
			Offset:  res.Offset,
			Values:  make([]json.Number, len(res.Values)),
		}
		for i, v := range res.Values {
			out.Values[i] = json.Number(v)
		}
		return printJSON(out)
	}

	for i, v := range res.Values {
		printInfo("%d: %s\n", res.Offset+i, v)
	}
	printVerbose("%d of %d elements shown\n", len(res.Values), res.Total)
	return nil
}
