// Package passes runs rewrite passes over a checked program.
package passes

import (
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/you-not-fish/p4simpl/internal/logging"
	"github.com/you-not-fish/p4simpl/internal/simplify"
	"github.com/you-not-fish/p4simpl/internal/syntax"
	"github.com/you-not-fish/p4simpl/internal/types2"
)

// Unit is the program a pipeline works on. Passes replace Prog and
// record the nodes they synthesize in Info.
type Unit struct {
	Prog *syntax.Program
	Info *types2.Info
	Log  *zap.Logger
}

// Pass describes a single rewrite pass.
type Pass struct {
	Name string
	Fn   func(u *Unit) error
}

// Config controls pass execution behavior.
type Config struct {
	DumpBefore string    // dump the program before this pass ("*" for all)
	DumpAfter  string    // dump the program after this pass ("*" for all)
	Verify     bool      // verify the simplified form after each pass
	DumpFunc   string    // restrict dumps to this declaration
	Out        io.Writer // dump destination; os.Stderr if nil
}

// Simplify returns the expression simplification pass.
func Simplify(opts simplify.Options) Pass {
	return Pass{
		Name: "simplify",
		Fn: func(u *Unit) error {
			out, err := simplify.Program(u.Prog, u.Info, opts, u.Log.Named("simplify"))
			if err != nil {
				return err
			}
			u.Prog = out
			return nil
		},
	}
}

// Pipeline returns the default pipeline.
func Pipeline(opts simplify.Options) []Pass {
	return []Pass{Simplify(opts)}
}

// Run executes the given passes on u in order.
func Run(u *Unit, passes []Pass, cfg Config) error {
	if u.Log == nil {
		u.Log = logging.Nop()
	}
	out := cfg.Out
	if out == nil {
		out = os.Stderr
	}

	for _, p := range passes {
		if shouldDump(cfg.DumpBefore, p.Name) {
			if err := dump(out, "before "+p.Name, u.Prog, cfg.DumpFunc); err != nil {
				return errors.Wrapf(err, "dump before %s", p.Name)
			}
		}

		u.Log.Debug("running pass", zap.String("pass", p.Name))
		if err := p.Fn(u); err != nil {
			return errors.Wrapf(err, "pass %s", p.Name)
		}

		if cfg.Verify {
			if err := simplify.Verify(u.Prog, u.Info); err != nil {
				return errors.Wrapf(err, "verify after %s", p.Name)
			}
		}

		if shouldDump(cfg.DumpAfter, p.Name) {
			if err := dump(out, "after "+p.Name, u.Prog, cfg.DumpFunc); err != nil {
				return errors.Wrapf(err, "dump after %s", p.Name)
			}
		}
	}
	return nil
}

// dump prints a header line and prog, or only the top-level
// declaration named filter.
func dump(w io.Writer, title string, prog *syntax.Program, filter string) error {
	if _, err := fmt.Fprintf(w, "--- %s ---\n", title); err != nil {
		return err
	}
	for _, d := range prog.Decls {
		if !matchFunc(filter, declName(d)) {
			continue
		}
		if err := syntax.Format(w, d); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w)
	return err
}

func declName(d syntax.Decl) string {
	switch d := d.(type) {
	case *syntax.FuncDecl:
		return d.Name.Value
	case *syntax.ActionDecl:
		return d.Name.Value
	case *syntax.ControlDecl:
		return d.Name.Value
	case *syntax.ParserDecl:
		return d.Name.Value
	}
	return ""
}

func shouldDump(pattern, name string) bool {
	return pattern == "*" || pattern == name
}

func matchFunc(filter, name string) bool {
	return filter == "" || filter == name
}
