// Package main implements the p4simp command, which rewrites the
// expressions of a P4 program into simplified form.
package main

import (
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/pkg/errors"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/you-not-fish/p4simpl/internal/config"
	"github.com/you-not-fish/p4simpl/internal/logging"
	"github.com/you-not-fish/p4simpl/internal/passes"
	"github.com/you-not-fish/p4simpl/internal/syntax"
	"github.com/you-not-fish/p4simpl/internal/types2"
)

// Version information
const Version = "0.1.0-dev"

// Exit codes
const (
	exitOK      = 0
	exitFailure = 1 // input, type or pass error
	exitUsage   = 2
)

type options struct {
	configPath string
	output     string

	emitAST   bool
	astFormat string
	emitTyped bool

	logLevel  string
	logFormat string

	verify          bool
	dumpBefore      string
	dumpAfter       string
	dumpFunc        string
	keepConstantOps bool
	tempPrefix      string
}

// usageError marks errors caused by the command line rather than the input.
type usageError struct{ error }

func main() {
	os.Exit(execute(os.Args[1:], os.Stdout, os.Stderr))
}

// execute runs the command with args and returns the exit code.
func execute(args []string, stdout, stderr io.Writer) int {
	cmd := newRootCmd(stdout, stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	if err == nil {
		return exitOK
	}
	fmt.Fprint(stderr, pterm.Error.Sprintln(err.Error()))
	var ue usageError
	if errors.As(err, &ue) {
		return exitUsage
	}
	return exitFailure
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:   "p4simp [flags] file.p4",
		Short: "Simplify the expressions of a P4 program",
		Long: `p4simp rewrites every statement of a P4 program so that side effects
happen in source order: calls with side effects, && and || and ?: are
lifted out of nested expressions into temporaries, and out and inout
arguments are copied back after the call.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return usageError{errors.Errorf("expected one input file, got %d", len(args))}
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, args[0], stdout, stderr)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError{err}
	})

	flags := cmd.Flags()
	flags.StringVar(&opts.configPath, "config", "", "settings file (default: p4simp.toml next to the input)")
	flags.StringVarP(&opts.output, "output", "o", "", "write the result to this file instead of stdout")
	flags.BoolVar(&opts.emitAST, "emit-ast", false, "print the parsed syntax tree and stop")
	flags.StringVar(&opts.astFormat, "ast-format", "text", "syntax tree format: text, json, yaml or pretty")
	flags.BoolVar(&opts.emitTyped, "emit-typed", false, "print the type of every expression and stop")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn or error")
	flags.StringVar(&opts.logFormat, "log-format", "", "log format: console, json or logfmt")
	flags.BoolVar(&opts.verify, "verify", false, "check the simplified form after each pass")
	flags.StringVar(&opts.dumpBefore, "dump-before", "", "print the program before this pass (name or \"*\")")
	flags.StringVar(&opts.dumpAfter, "dump-after", "", "print the program after this pass (name or \"*\")")
	flags.StringVar(&opts.dumpFunc, "dump-func", "", "restrict dumps to this declaration")
	flags.BoolVar(&opts.keepConstantOps, "keep-constant-ops", false, "leave operations on constants in place")
	flags.StringVar(&opts.tempPrefix, "temp-prefix", "", "base name of generated temporaries")

	cmd.AddCommand(newVersionCmd(stdout))
	return cmd
}

func newVersionCmd(stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(stdout, "p4simp version %s\n", Version)
			fmt.Fprintf(stdout, "go version %s\n", runtime.Version())
		},
	}
}

// settings merges the configuration file with the flags set on cmd.
func settings(cmd *cobra.Command, opts *options, filename string) (*config.Config, error) {
	cfg, err := config.LoadFor(filename, opts.configPath)
	if err != nil {
		return nil, err
	}
	override(cmd.Flags(), cfg, opts)
	if err := cfg.Validate(); err != nil {
		return nil, usageError{err}
	}
	return cfg, nil
}

// override copies the explicitly set flags into cfg.
func override(flags *pflag.FlagSet, cfg *config.Config, opts *options) {
	strs := map[string]*string{
		"log-level":   &cfg.Log.Level,
		"log-format":  &cfg.Log.Format,
		"dump-before": &cfg.Passes.DumpBefore,
		"dump-after":  &cfg.Passes.DumpAfter,
		"dump-func":   &cfg.Passes.DumpFunc,
		"temp-prefix": &cfg.Simplify.TempPrefix,
	}
	flags.Visit(func(f *pflag.Flag) {
		if dst, ok := strs[f.Name]; ok {
			*dst = f.Value.String()
		}
	})
	if flags.Changed("verify") {
		cfg.Passes.Verify = opts.verify
	}
	if flags.Changed("keep-constant-ops") {
		cfg.Simplify.KeepConstantOperations = opts.keepConstantOps
	}
}

func run(cmd *cobra.Command, opts *options, filename string, stdout, stderr io.Writer) error {
	switch opts.astFormat {
	case "text", "json", "yaml", "pretty":
	default:
		return usageError{errors.Errorf("unknown AST format %q", opts.astFormat)}
	}

	cfg, err := settings(cmd, opts, filename)
	if err != nil {
		return err
	}
	log, err := logging.New(logging.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Writer: stderr,
	})
	if err != nil {
		return usageError{err}
	}
	defer log.Sync()
	if cfg.Path != "" {
		log.Info("loaded settings", zap.String("path", cfg.Path))
	}

	prog, err := parse(filename, stderr)
	if err != nil {
		return err
	}
	if opts.emitAST {
		return emitAST(stdout, prog, opts.astFormat)
	}

	info, err := check(filename, prog, stderr)
	if opts.emitTyped {
		printTyped(stdout, prog, info)
		return err
	}
	if err != nil {
		return err
	}

	u := &passes.Unit{Prog: prog, Info: info, Log: log}
	pcfg := passes.Config{
		DumpBefore: cfg.Passes.DumpBefore,
		DumpAfter:  cfg.Passes.DumpAfter,
		Verify:     cfg.Passes.Verify,
		DumpFunc:   cfg.Passes.DumpFunc,
		Out:        stderr,
	}
	if err := passes.Run(u, passes.Pipeline(cfg.SimplifyOptions()), pcfg); err != nil {
		return err
	}
	return writeOutput(stdout, opts.output, u.Prog)
}

// parse reads filename and reports every syntax error to stderr.
func parse(filename string, stderr io.Writer) (*syntax.Program, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrap(err, "open input")
	}
	defer f.Close()

	var count int
	errh := func(pos syntax.Pos, msg string) {
		count++
		fmt.Fprintf(stderr, "%s: %s\n", pos, msg)
	}
	prog, err := syntax.Parse(filename, f, errh)
	if err != nil {
		return nil, errors.Errorf("%d syntax error(s) in %s", count, filename)
	}
	return prog, nil
}

// check type-checks prog and reports every type error to stderr.
func check(filename string, prog *syntax.Program, stderr io.Writer) (*types2.Info, error) {
	var count int
	conf := &types2.Config{
		Error: func(pos syntax.Pos, msg string) {
			count++
			fmt.Fprintf(stderr, "%s: %s\n", pos, msg)
		},
	}
	info, err := types2.Check(prog, conf)
	if err != nil {
		return info, errors.Errorf("%d type error(s) in %s", count, filename)
	}
	return info, nil
}

func writeOutput(stdout io.Writer, path string, prog *syntax.Program) error {
	if path == "" {
		return syntax.Format(stdout, prog)
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create output")
	}
	if err := syntax.Format(f, prog); err != nil {
		f.Close()
		return errors.Wrapf(err, "write %s", path)
	}
	return errors.Wrapf(f.Close(), "write %s", path)
}
