package main

import (
	"context"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/linksplatform/mem/mem"
	"github.com/linksplatform/mem/mem/asyncmem"
	"github.com/spf13/cobra"
)

var (
	benchCount  int
	benchRounds int
)

func init() {
	cmd := newBenchCmd()
	cmd.Flags().IntVar(&benchCount, "count", 1<<20, "Elements added and removed per round")
	cmd.Flags().IntVar(&benchRounds, "rounds", 10, "Number of grow/shrink rounds")
	rootCmd.AddCommand(cmd)
}

func newBenchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Time grow/shrink cycles on every backend",
		Long: `The bench command grows each backend by --count zeroed u64 elements and
shrinks it back, --rounds times, and reports the time taken.

Example:
  memctl bench
  memctl bench --count 100000 --rounds 50 --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBench(cmd.Context())
		},
	}
	return cmd
}

type benchResult struct {
	Backend    string        `json:"backend"`
	Rounds     int           `json:"rounds"`
	Elements   int           `json:"elements"`
	Total      time.Duration `json:"total_ns"`
	PerRound   time.Duration `json:"per_round_ns"`
	Throughput string        `json:"throughput"`
}

type benchCase struct {
	name string
	run  func(ctx context.Context, count, rounds int) error
}

func benchCases() []benchCase {
	return []benchCase{
		{"Global", rawMemCase(func(int) (mem.RawMem[uint64], error) { return mem.NewGlobal[uint64](), nil })},
		{"System", rawMemCase(func(int) (mem.RawMem[uint64], error) { return mem.NewSystem[uint64](), nil })},
		{"TempFile", rawMemCase(func(int) (mem.RawMem[uint64], error) {
			m, err := mem.NewTempFile[uint64]()
			if err != nil {
				return nil, err
			}
			return m, nil
		})},
		{"PreAlloc", rawMemCase(func(count int) (mem.RawMem[uint64], error) {
			return mem.NewPreAlloc(make([]uint64, count)), nil
		})},
		{"Async", runAsync},
	}
}

func rawMemCase(open func(count int) (mem.RawMem[uint64], error)) func(context.Context, int, int) error {
	return func(ctx context.Context, count, rounds int) error {
		m, err := open(count)
		if err != nil {
			return err
		}
		defer m.Close()

		for range rounds {
			if err := ctx.Err(); err != nil {
				return err
			}
			if _, err := mem.GrowZeroed(m, count); err != nil {
				return err
			}
			if err := m.Shrink(count); err != nil {
				return err
			}
		}
		return m.Close()
	}
}

func runAsync(ctx context.Context, count, rounds int) error {
	m := asyncmem.New[uint64]()
	defer m.Close()

	for range rounds {
		if _, err := m.GrowZeroed(ctx, count); err != nil {
			return err
		}
		if err := m.Shrink(ctx, count); err != nil {
			return err
		}
	}
	return nil
}

func runBench(ctx context.Context) error {
	if benchCount < 0 || benchRounds <= 0 {
		return fmt.Errorf("count must not be negative and rounds must be positive")
	}

	bytesPerRound := uint64(benchCount) * uint64(mem.SizeOf[uint64]())
	results := make([]benchResult, 0, len(benchCases()))

	for _, c := range benchCases() {
		printVerbose("Running %s\n", c.name)

		start := time.Now()
		if err := c.run(ctx, benchCount, benchRounds); err != nil {
			return fmt.Errorf("%s: %w", c.name, err)
		}
		elapsed := time.Since(start)

		throughput := "n/a"
		if secs := elapsed.Seconds(); secs > 0 {
			throughput = humanize.IBytes(uint64(float64(bytesPerRound*uint64(benchRounds))/secs)) + "/s"
		}
		results = append(results, benchResult{
			Backend:    c.name,
			Rounds:     benchRounds,
			Elements:   benchCount,
			Total:      elapsed,
			PerRound:   elapsed / time.Duration(benchRounds),
			Throughput: throughput,
		})
	}

	if jsonOut {
		return printJSON(results)
	}

	printInfo("%d rounds of %d u64 elements (%s)\n\n", benchRounds, benchCount, humanize.IBytes(bytesPerRound))
	printInfo("%-10s %14s %14s %14s\n", "BACKEND", "TOTAL", "PER ROUND", "THROUGHPUT")
	for _, r := range results {
		printInfo("%-10s %14s %14s %14s\n", r.Backend, r.Total.Round(time.Microsecond), r.PerRound.Round(time.Microsecond), r.Throughput)
	}
	return nil
}
