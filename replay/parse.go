// Package replay reads the text logs recorded by package trace, and replays them: either directly, with an
// Interpreter that executes every statement on a backend, or by generating a Go program (GenerateProgram).
//
// Example:
//
//	cfg := trace.NewConfig("/tmp/traces/")
//	src := must.M1(os.ReadFile(cfg.LogPath()))
//	r := must.M1(trace.OpenReplayer(cfg))
//	defer r.Close()
//	interp := replay.New(r)
//	if err := interp.Run(src); err != nil { ... }
//	fmt.Println(interp.Failures())
package replay

import (
	"bytes"
	"go/ast"
	"go/parser"
	"go/token"

	"github.com/pkg/errors"
)

// Statement is one statement of a text log.
type Statement struct {
	// Line of the statement in the log, starting at 1.
	Line int

	// Text of the statement, as in the log.
	Text string

	// Stmt is the parsed statement.
	Stmt ast.Stmt
}

// String returns the text of the statement.
func (st Statement) String() string { return st.Text }

// DeclaredName returns the name declared by the statement ("x := ..."), or "" if it doesn't declare one.
func (st Statement) DeclaredName() string {
	assign, ok := st.Stmt.(*ast.AssignStmt)
	if !ok || assign.Tok != token.DEFINE || len(assign.Lhs) != 1 {
		return ""
	}
	if ident, ok := assign.Lhs[0].(*ast.Ident); ok {
		return ident.Name
	}
	return ""
}

// Callee returns the name of the function or method called by the statement: "recv.Method" for methods called on
// variables, "pkg.Func" for package functions, or "" if the statement is not a call.
func (st Statement) Callee() string {
	var expr ast.Expr
	switch stmt := st.Stmt.(type) {
	case *ast.AssignStmt:
		if len(stmt.Rhs) != 1 {
			return ""
		}
		expr = stmt.Rhs[0]
	case *ast.ExprStmt:
		expr = stmt.X
	default:
		return ""
	}
	call, ok := expr.(*ast.CallExpr)
	if !ok {
		return ""
	}
	return exprName(call.Fun)
}

// exprName returns the dotted name of an identifier or selector, with type arguments removed.
func exprName(expr ast.Expr) string {
	switch e := expr.(type) {
	case *ast.Ident:
		return e.Name
	case *ast.SelectorExpr:
		x := exprName(e.X)
		if x == "" {
			return ""
		}
		return x + "." + e.Sel.Name
	case *ast.IndexExpr:
		return exprName(e.X)
	}
	return ""
}

// logHeader wraps the log in a function body, so it can be parsed as a list of statements.
const (
	logHeader = "package log\nfunc _() {\n"
	logFooter = "\n}\n"
)

// ParseLog parses a text log into its statements. Comment lines (the session header and failure annotations)
// are skipped.
func ParseLog(src []byte) ([]Statement, error) {
	wrapped := make([]byte, 0, len(logHeader)+len(src)+len(logFooter))
	wrapped = append(wrapped, logHeader...)
	wrapped = append(wrapped, src...)
	wrapped = append(wrapped, logFooter...)
	headerLines := bytes.Count([]byte(logHeader), []byte("\n"))

	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, "trace_log.txt", wrapped, parser.SkipObjectResolution)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse text log")
	}
	fn, ok := file.Decls[0].(*ast.FuncDecl)
	if !ok || len(file.Decls) != 1 {
		return nil, errors.New("failed to parse text log: unbalanced braces")
	}

	statements := make([]Statement, 0, len(fn.Body.List))
	for _, stmt := range fn.Body.List {
		if _, empty := stmt.(*ast.EmptyStmt); empty {
			continue
		}
		start, end := fset.Position(stmt.Pos()), fset.Position(stmt.End())
		text := string(wrapped[start.Offset:end.Offset])
		if end.Offset < len(wrapped) && wrapped[end.Offset] == ';' {
			text += ";"
		}
		statements = append(statements, Statement{
			Line: start.Line - headerLines,
			Text: text,
			Stmt: stmt,
		})
	}
	return statements, nil
}
