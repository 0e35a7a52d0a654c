package main

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/linksplatform/mem/internal/buf"
	"github.com/spf13/cobra"
)

var statElem string

func init() {
	cmd := newStatCmd()
	cmd.Flags().StringVar(&statElem, "elem", "u64", "Element type (u8..u64, i8..i64, f32, f64)")
	rootCmd.AddCommand(cmd)
}

func newStatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stat <file>",
		Short: "Show file size and element count",
		Long: `The stat command shows how many elements of the given type a file holds
and how many trailing bytes do not form a whole element.

Example:
  memctl stat data.bin
  memctl stat data.bin --elem u32 --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStat(args)
		},
	}
	return cmd
}

type statResult struct {
	File     string `json:"file"`
	Bytes    int64  `json:"bytes"`
	Size     string `json:"size"`
	Element  string `json:"element"`
	ElemSize int    `json:"element_size"`
	Elements int    `json:"elements"`
	Trailing int64  `json:"trailing_bytes"`
}

func runStat(args []string) error {
	path := args[0]
	e, err := lookupElem(statElem)
	if err != nil {
		return err
	}

	printVerbose("Stat: %s\n", path)
	st, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to stat file: %w", err)
	}

	count, trailing := buf.Elements(st.Size(), e.Size())
	res := statResult{
		File:     path,
		Bytes:    st.Size(),
		Size:     humanize.IBytes(uint64(st.Size())),
		Element:  e.Name(),
		ElemSize: e.Size(),
		Elements: count,
		Trailing: trailing,
	}

	if jsonOut {
		return printJSON(res)
	}

	printInfo("File:      %s\n", res.File)
	printInfo("Size:      %s (%d bytes)\n", res.Size, res.Bytes)
	printInfo("Element:   %s (%d bytes)\n", res.Element, res.ElemSize)
	printInfo("Elements:  %d\n", res.Elements)
	if res.Trailing > 0 {
		printInfo("Trailing:  %d bytes\n", res.Trailing)
	}
	return nil
}
