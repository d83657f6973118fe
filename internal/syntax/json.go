package syntax

import (
	"encoding/json"
	"io"
)

// FprintJSON writes a JSON representation of the AST to w.
func FprintJSON(w io.Writer, node Node) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(ToMap(node))
}

// ToMap converts node into a tree of maps and slices suitable for
// generic encoders (JSON, YAML). Each object carries "type" and "pos".
func ToMap(node Node) interface{} {
	if isNil(node) {
		return nil
	}

	obj := func(typ string, pos Pos, kv ...interface{}) map[string]interface{} {
		m := map[string]interface{}{
			"type": typ,
			"pos":  pos.String(),
		}
		for i := 0; i+1 < len(kv); i += 2 {
			m[kv[i].(string)] = kv[i+1]
		}
		return m
	}

	switch n := node.(type) {
	case *Program:
		return obj("Program", n.pos, "decls", mapSlice(n.Decls, declToMap))

	case *HeaderDecl:
		return obj("HeaderDecl", n.pos, "name", n.Name.Value, "fields", mapSlice(n.Fields, fieldToMap))

	case *StructDecl:
		return obj("StructDecl", n.pos, "name", n.Name.Value, "fields", mapSlice(n.Fields, fieldToMap))

	case *EnumDecl:
		return obj("EnumDecl", n.pos, "name", n.Name.Value,
			"members", mapSlice(n.Members, func(m *Name) interface{} { return m.Value }))

	case *ConstDecl:
		return obj("ConstDecl", n.pos, "name", n.Name.Value, "vartype", ToMap(n.Type), "value", ToMap(n.Value))

	case *VarDecl:
		m := obj("VarDecl", n.pos, "name", n.Name.Value, "vartype", ToMap(n.Type))
		if n.Value != nil {
			m["value"] = ToMap(n.Value)
		}
		return m

	case *ExternDecl:
		return obj("ExternDecl", n.pos, "name", n.Name.Value,
			"annotations", mapSlice(n.Annotations, func(a *Annotation) interface{} { return a.Name }),
			"params", mapSlice(n.Params, paramToMap),
			"result", ToMap(n.Result))

	case *FuncDecl:
		return obj("FuncDecl", n.pos, "name", n.Name.Value,
			"params", mapSlice(n.Params, paramToMap),
			"result", ToMap(n.Result),
			"body", ToMap(n.Body))

	case *ActionDecl:
		return obj("ActionDecl", n.pos, "name", n.Name.Value,
			"params", mapSlice(n.Params, paramToMap),
			"body", ToMap(n.Body))

	case *TableDecl:
		m := obj("TableDecl", n.pos, "name", n.Name.Value,
			"key", mapSlice(n.Key, func(k *KeyElement) interface{} {
				return obj("KeyElement", k.pos, "expr", ToMap(k.Expr), "match_kind", k.MatchKind.Value)
			}),
			"actions", mapSlice(n.Actions, func(a *Name) interface{} { return a.Value }))
		if n.DefaultAction != nil {
			m["default_action"] = n.DefaultAction.Value
		}
		return m

	case *ControlDecl:
		return obj("ControlDecl", n.pos, "name", n.Name.Value,
			"params", mapSlice(n.Params, paramToMap),
			"locals", mapSlice(n.Locals, declToMap),
			"apply", ToMap(n.Body))

	case *ParserDecl:
		return obj("ParserDecl", n.pos, "name", n.Name.Value,
			"params", mapSlice(n.Params, paramToMap),
			"locals", mapSlice(n.Locals, declToMap),
			"states", mapSlice(n.States, func(s *StateDecl) interface{} { return ToMap(s) }))

	case *StateDecl:
		m := obj("StateDecl", n.pos, "name", n.Name.Value, "stmts", mapSlice(n.Stmts, stmtToMap))
		if n.Select != nil {
			m["select"] = ToMap(n.Select)
		} else if n.Next != nil {
			m["next"] = n.Next.Value
		}
		return m

	case *BlockStmt:
		return obj("BlockStmt", n.pos, "stmts", mapSlice(n.Stmts, stmtToMap))

	case *AssignStmt:
		return obj("AssignStmt", n.pos, "lhs", ToMap(n.LHS), "rhs", ToMap(n.RHS))

	case *CallStmt:
		return obj("CallStmt", n.pos, "call", ToMap(n.Call))

	case *IfStmt:
		m := obj("IfStmt", n.pos, "cond", ToMap(n.Cond), "then", ToMap(n.Then))
		if n.Else != nil {
			m["else"] = ToMap(n.Else)
		}
		return m

	case *SwitchStmt:
		return obj("SwitchStmt", n.pos, "tag", ToMap(n.Tag),
			"cases", mapSlice(n.Cases, func(c *SwitchCase) interface{} {
				m := obj("SwitchCase", c.pos, "body", ToMap(c.Body))
				if c.Label != nil {
					m["label"] = ToMap(c.Label)
				}
				return m
			}))

	case *ReturnStmt:
		m := obj("ReturnStmt", n.pos)
		if n.Result != nil {
			m["result"] = ToMap(n.Result)
		}
		return m

	case *ExitStmt:
		return obj("ExitStmt", n.pos)

	case *EmptyStmt:
		return obj("EmptyStmt", n.pos)

	case *DeclStmt:
		return obj("DeclStmt", n.pos, "decl", ToMap(n.Decl))

	case *Name:
		return obj("Name", n.pos, "value", n.Value)

	case *BasicLit:
		return obj("BasicLit", n.pos, "kind", n.Kind.String(), "value", n.Value)

	case *Operation:
		m := obj("Operation", n.pos, "op", n.Op.String(), "x", ToMap(n.X))
		if n.Y != nil {
			m["y"] = ToMap(n.Y)
		}
		return m

	case *CondExpr:
		return obj("CondExpr", n.pos, "cond", ToMap(n.Cond), "x", ToMap(n.X), "y", ToMap(n.Y))

	case *CallExpr:
		return obj("CallExpr", n.pos, "fun", ToMap(n.Fun), "args", mapSlice(n.Args, exprToMap))

	case *SelectorExpr:
		return obj("SelectorExpr", n.pos, "x", ToMap(n.X), "sel", n.Sel.Value)

	case *IndexExpr:
		return obj("IndexExpr", n.pos, "x", ToMap(n.X), "index", ToMap(n.Index))

	case *SelectExpr:
		return obj("SelectExpr", n.pos, "select", mapSlice(n.Select, exprToMap),
			"cases", mapSlice(n.Cases, func(c *SelectCase) interface{} {
				m := obj("SelectCase", c.pos, "state", c.State.Value)
				if c.Keys == nil {
					m["default"] = true
				} else {
					m["keys"] = mapSlice(c.Keys, exprToMap)
				}
				return m
			}))

	case *BitType:
		return obj("BitType", n.pos, "signed", n.Signed, "width", n.Width.Value)

	case *BoolType:
		return obj("BoolType", n.pos)

	case *VoidType:
		return obj("VoidType", n.pos)

	case *StackType:
		return obj("StackType", n.pos, "elem", ToMap(n.Elem), "size", n.Size.Value)

	default:
		return map[string]interface{}{
			"type": "Unknown",
		}
	}
}

func declToMap(d Decl) interface{} { return ToMap(d) }
func stmtToMap(s Stmt) interface{} { return ToMap(s) }
func exprToMap(x Expr) interface{} { return ToMap(x) }

func fieldToMap(f *Field) interface{} {
	return map[string]interface{}{
		"type":    "Field",
		"pos":     f.pos.String(),
		"name":    f.Name.Value,
		"vartype": ToMap(f.Type),
	}
}

func paramToMap(p *Param) interface{} {
	return map[string]interface{}{
		"type":      "Param",
		"pos":       p.pos.String(),
		"direction": p.Dir.String(),
		"name":      p.Name.Value,
		"vartype":   ToMap(p.Type),
	}
}

func mapSlice[T any](s []T, f func(T) interface{}) []interface{} {
	result := make([]interface{}, len(s))
	for i, v := range s {
		result[i] = f(v)
	}
	return result
}
