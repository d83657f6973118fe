package main

import (
	"fmt"
	"io"

	"github.com/kr/pretty"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"

	"github.com/you-not-fish/p4simpl/internal/syntax"
	"github.com/you-not-fish/p4simpl/internal/types2"
)

// emitAST writes the syntax tree of prog in the given format.
func emitAST(w io.Writer, prog *syntax.Program, format string) error {
	switch format {
	case "json":
		return syntax.FprintJSON(w, prog)
	case "yaml":
		out, err := yaml.Marshal(syntax.ToMap(prog))
		if err != nil {
			return errors.Wrap(err, "encode AST")
		}
		_, err = w.Write(out)
		return err
	case "pretty":
		_, err := pretty.Fprintf(w, "%# v\n", syntax.ToMap(prog))
		return err
	}
	syntax.Fprint(w, prog)
	return nil
}

// printTyped writes one line per annotated expression of each
// declaration body: position, source text, type and mode.
func printTyped(w io.Writer, prog *syntax.Program, info *types2.Info) {
	for _, d := range prog.Decls {
		syntax.Inspect(d, func(n syntax.Node) bool {
			x, ok := n.(syntax.Expr)
			if !ok {
				return true
			}
			tv, ok := info.Types[x]
			if !ok || tv.IsType() {
				return true
			}
			typ := "<nil>"
			if tv.Type != nil {
				typ = tv.Type.String()
			}
			line := fmt.Sprintf("%s: %s : %s (%s)", x.Pos(), syntax.ExprString(x), typ, tv.Mode())
			if tv.Value != nil {
				line += " = " + tv.Value.ExactString()
			}
			fmt.Fprintln(w, line)
			return true
		})
	}
}
