package main

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// resetFlags restores every command flag to its default.
func resetFlags() {
	verbose, quiet, jsonOut, logDir = false, false, false, ""
	statElem = "u64"
	dumpElem, dumpOffset, dumpLimit = "u64", 0, 0
	fillElem, fillCount, fillValue, fillBackend = "u64", 0, "0", "mmap"
	shrinkElem, shrinkCount = "u64", 0
	benchCount, benchRounds = 1<<20, 10
}

// writeU64File writes values as a packed native-endian u64 file.
func writeU64File(t *testing.T, values ...uint64) string {
	t.Helper()
	var raw []byte
	for _, v := range values {
		raw = binary.NativeEndian.AppendUint64(raw, v)
	}
	path := filepath.Join(t.TempDir(), "data.bin")
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}
	return path
}

// captureOutput captures stdout while running a function
func captureOutput(t *testing.T, fn func() error) (string, error) {
	t.Helper()

	origStdout := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}
	os.Stdout = w

	fnErr := fn()

	w.Close()
	os.Stdout = origStdout

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(r); err != nil {
		t.Fatalf("failed to read output: %v", err)
	}
	return buf.String(), fnErr
}

// assertContains checks that output contains all expected strings
func assertContains(t *testing.T, output string, expected []string) {
	t.Helper()
	for _, want := range expected {
		if !strings.Contains(output, want) {
			t.Errorf("output missing expected string %q\nGot: %s", want, output)
		}
	}
}
