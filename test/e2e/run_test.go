package e2e

import (
	"bytes"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kr/pretty"
	"github.com/stretchr/testify/require"

	"github.com/you-not-fish/p4simpl/internal/config"
	"github.com/you-not-fish/p4simpl/internal/passes"
	"github.com/you-not-fish/p4simpl/internal/syntax"
	"github.com/you-not-fish/p4simpl/internal/types2"
)

var update = flag.Bool("update", false, "rewrite the .golden files")

// TestE2E runs end-to-end tests for all .p4 files in testdata/.
// Each test:
//  1. Runs the full pipeline: parse, typecheck, simplify, verify
//  2. Parses and type-checks the printed result again
//  3. Compares the printed result against the .golden file
func TestE2E(t *testing.T) {
	testFiles, err := filepath.Glob("testdata/*.p4")
	require.NoError(t, err)
	require.NotEmpty(t, testFiles, "no .p4 test files found in testdata/")

	for _, testFile := range testFiles {
		name := strings.TrimSuffix(filepath.Base(testFile), ".p4")
		t.Run(name, func(t *testing.T) {
			runE2ETest(t, testFile)
		})
	}
}

// runE2ETest runs a single end-to-end test.
func runE2ETest(t *testing.T, p4File string) {
	t.Helper()

	got := simplifyFile(t, p4File)

	// The output must itself be a valid program.
	reparsed, err := syntax.Parse("output.p4", strings.NewReader(got), nil)
	require.NoError(t, err, "output:\n%s", got)
	_, err = types2.Check(reparsed, nil)
	require.NoError(t, err, "output:\n%s", got)

	goldenFile := strings.TrimSuffix(p4File, ".p4") + ".golden"
	if *update {
		require.NoError(t, os.WriteFile(goldenFile, []byte(got), 0o644))
		return
	}
	expected, err := os.ReadFile(goldenFile)
	require.NoError(t, err, "reading golden file")

	want := normalize(string(expected))
	if have := normalize(got); have != want {
		t.Errorf("output mismatch:\n%s\ngot:\n%s", strings.Join(pretty.Diff(want, have), "\n"), got)
	}
}

// simplifyFile runs the default pipeline in-process with verification
// enabled and returns the printed result.
func simplifyFile(t *testing.T, p4File string) string {
	t.Helper()

	f, err := os.Open(p4File)
	require.NoError(t, err)
	defer f.Close()

	var parseErrs []string
	parseErrh := func(pos syntax.Pos, msg string) {
		parseErrs = append(parseErrs, pos.String()+": "+msg)
	}
	prog, _ := syntax.Parse(p4File, f, parseErrh)
	if len(parseErrs) > 0 {
		t.Fatalf("parse errors:\n%s", strings.Join(parseErrs, "\n"))
	}

	var typeErrs []string
	conf := &types2.Config{
		Error: func(pos syntax.Pos, msg string) {
			typeErrs = append(typeErrs, pos.String()+": "+msg)
		},
	}
	info, _ := types2.Check(prog, conf)
	if len(typeErrs) > 0 {
		t.Fatalf("type errors:\n%s", strings.Join(typeErrs, "\n"))
	}

	cfg := config.Default()
	u := &passes.Unit{Prog: prog, Info: info}
	err = passes.Run(u, passes.Pipeline(cfg.SimplifyOptions()), passes.Config{Verify: true})
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, syntax.Format(&out, u.Prog))
	return out.String()
}

// normalize drops trailing whitespace and blank lines.
func normalize(s string) string {
	var lines []string
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimRight(line, " \t\r")
		if line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}
